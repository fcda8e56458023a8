package progression

import (
	"time"

	"github.com/abhisek/caseprep/internal/logging"
)

// StreakMultiplier returns the XP multiplier for a streak length.
func StreakMultiplier(streak int) float64 {
	switch {
	case streak >= 20:
		return 2.0
	case streak >= 15:
		return 1.75
	case streak >= 10:
		return 1.5
	case streak >= 5:
		return 1.25
	case streak >= 3:
		return 1.1
	default:
		return 1.0
	}
}

// UpdateStreak records one answer outcome. A correct answer extends the
// streak unless more than one calendar day has passed since the last correct
// answer, in which case the streak restarts at 1. An incorrect answer resets
// it to 0. Returns any newly awarded streak achievement ids.
func (p *Progress) UpdateStreak(correct bool) []string {
	now := p.now()

	if !correct {
		if p.Streak.CurrentStreak > 0 {
			logging.Debugf("streak broken at %d", p.Streak.CurrentStreak)
		}
		p.Streak.CurrentStreak = 0
		p.Streak.StreakStartDate = nil
		p.Streak.Multiplier = StreakMultiplier(0)
		return nil
	}

	if p.Streak.LastCorrectDate != nil {
		gap := daysBetween(*p.Streak.LastCorrectDate, now)
		if gap > 1 {
			p.Streak.CurrentStreak = 0
			p.Streak.StreakStartDate = nil
		}
	}

	p.Streak.CurrentStreak++
	if p.Streak.StreakStartDate == nil {
		start := now
		p.Streak.StreakStartDate = &start
	}
	last := now
	p.Streak.LastCorrectDate = &last

	if p.Streak.CurrentStreak > p.Streak.LongestStreak {
		p.Streak.LongestStreak = p.Streak.CurrentStreak
	}
	p.Streak.Multiplier = StreakMultiplier(p.Streak.CurrentStreak)

	var awarded []string
	if p.Streak.CurrentStreak >= 10 && !p.HasAchievement("perfect_streak") {
		if p.Award("perfect_streak") {
			awarded = append(awarded, "perfect_streak")
		}
	}
	return awarded
}

// daysBetween counts whole calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	aDay := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bDay := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}
