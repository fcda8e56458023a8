package scoring

import (
	"github.com/abhisek/caseprep/internal/logging"
	"github.com/abhisek/caseprep/internal/progression"
)

// updateProgression applies the session's results to the attached progression
// state: session XP, then per-question streak, proficiency, and metrics
// updates, then session-level achievement checks.
func (s *Session) updateProgression(perf PerformanceStats) {
	sessionXP := s.computeSessionXP(perf)
	_, leveledUp, levelAchievements := s.progress.AddXP(sessionXP, "quiz_session")
	s.sessionXP = sessionXP
	s.achievementsAwarded = append(s.achievementsAwarded, levelAchievements...)

	if leveledUp {
		logging.Infof("user leveled up to %d", s.progress.Level)
	}

	for _, r := range s.results {
		streakAchievements := s.progress.UpdateStreak(r.IsCorrect)
		s.achievementsAwarded = append(s.achievementsAwarded, streakAchievements...)

		profAchievements := s.progress.UpdateProficiency(r.Category, r.IsCorrect, r.TimeSpent, int(r.Score*10))
		s.achievementsAwarded = append(s.achievementsAwarded, profAchievements...)

		s.progress.RecordResult(progression.CaseResult{
			Correct:    r.IsCorrect,
			TimeTaken:  r.TimeSpent,
			Category:   r.Category,
			Difficulty: r.Complexity,
		})
	}

	s.checkSessionAchievements(perf)
}

// sessionXP computes the session XP award: base from score, accuracy and
// speed tier bonuses, per-complexity mastery bonuses, all scaled by the
// streak multiplier with a floor of 10.
func (s *Session) computeSessionXP(perf PerformanceStats) int {
	baseXP := int(perf.TotalScore * 10)

	accuracyBonus := 0
	switch {
	case perf.PercentageScore >= 100:
		accuracyBonus = baseXP / 2
	case perf.PercentageScore >= 90:
		accuracyBonus = baseXP / 4
	case perf.PercentageScore >= 80:
		accuracyBonus = baseXP / 10
	}

	timeBonus := 0
	switch {
	case perf.AverageTimePerQuestion < 30:
		timeBonus = baseXP / 5
	case perf.AverageTimePerQuestion < 60:
		timeBonus = baseXP / 10
	}

	difficultyBonus := 0
	if g, ok := advancedComplexityGroup(perf); ok && g.Accuracy >= 80 {
		difficultyBonus += int(float64(baseXP) * 0.15)
	}
	if g, ok := perf.ComplexityPerformance["expert"]; ok && g.Accuracy >= 70 {
		difficultyBonus += int(float64(baseXP) * 0.25)
	}

	total := int(float64(baseXP+accuracyBonus+timeBonus+difficultyBonus) * s.progress.Streak.Multiplier)
	if total < 10 {
		total = 10
	}
	return total
}

// advancedComplexityGroup returns the session bucket for advanced-difficulty
// cases. Generated quizzes label them "high"; case data using the tier
// vocabulary labels them "advanced".
func advancedComplexityGroup(perf PerformanceStats) (*GroupPerformance, bool) {
	for _, label := range []string{"high", "advanced"} {
		if g, ok := perf.ComplexityPerformance[label]; ok {
			return g, true
		}
	}
	return nil, false
}

// checkSessionAchievements evaluates session-scoped triggers: the first
// completed case ever, a speed run, and a perfect session.
func (s *Session) checkSessionAchievements(perf PerformanceStats) {
	var candidates []string

	if perf.TotalQuestions >= 1 && !s.progress.HasAchievement("first_case") {
		candidates = append(candidates, "first_case")
	}

	fastCorrect := 0
	for _, r := range s.results {
		if r.IsCorrect && r.TimeSpent < 120 {
			fastCorrect++
		}
	}
	if fastCorrect >= 5 && !s.progress.HasAchievement("speed_demon") {
		candidates = append(candidates, "speed_demon")
	}

	if perf.PercentageScore == 100 && perf.TotalQuestions >= 5 {
		candidates = append(candidates, "perfectionist")
	}

	for _, id := range candidates {
		if s.progress.Award(id) {
			s.achievementsAwarded = append(s.achievementsAwarded, id)
			logging.Infof("awarded achievement: %s", id)
		}
	}
}
