package progression

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the serializable form of a Progress. Reference data (the
// achievement catalog and tier definitions) is not part of the snapshot; the
// caller supplies it again on restore.
type Snapshot struct {
	UserID        string                           `json:"user_id"`
	Username      string                           `json:"username"`
	Level         int                              `json:"level"`
	TotalXP       int                              `json:"total_xp"`
	XPToNextLevel int                              `json:"xp_to_next_level"`
	Specialties   map[string]*SpecialtyProficiency `json:"specialties"`
	Streak        StreakData                       `json:"streak"`
	Metrics       PerformanceMetrics               `json:"metrics"`
	Unlocks       UnlockStatus                     `json:"unlocks"`
	Earned        []EarnedAchievement              `json:"earned_achievements"`
}

// Snapshot captures the current progression state.
func (p *Progress) Snapshot() Snapshot {
	return Snapshot{
		UserID:        p.UserID,
		Username:      p.Username,
		Level:         p.Level,
		TotalXP:       p.TotalXP,
		XPToNextLevel: p.XPToNextLevel,
		Specialties:   p.Specialties,
		Streak:        p.Streak,
		Metrics:       p.Metrics,
		Unlocks:       p.Unlocks,
		Earned:        p.Earned,
	}
}

// MarshalSnapshot serializes the progression state to JSON.
func (p *Progress) MarshalSnapshot() ([]byte, error) {
	return json.MarshalIndent(p.Snapshot(), "", "  ")
}

// Restore rebuilds a Progress from a snapshot. Nil maps from older snapshots
// are replaced so later updates never hit a nil map.
func Restore(snap Snapshot, opts ...Option) *Progress {
	p := New(snap.UserID, snap.Username, opts...)
	p.Level = snap.Level
	p.TotalXP = snap.TotalXP
	p.XPToNextLevel = snap.XPToNextLevel
	p.Streak = snap.Streak
	p.Earned = snap.Earned

	if snap.Specialties != nil {
		p.Specialties = snap.Specialties
	}
	p.Metrics = snap.Metrics
	if p.Metrics.CategoryPerformance == nil {
		p.Metrics.CategoryPerformance = make(map[string]*GroupStats)
	}
	if p.Metrics.DifficultyPerformance == nil {
		p.Metrics.DifficultyPerformance = make(map[string]*GroupStats)
	}
	if snap.Unlocks.Difficulties != nil {
		p.Unlocks = snap.Unlocks
	}
	if p.Unlocks.Categories == nil {
		p.Unlocks.Categories = make(map[string]bool)
	}
	if p.Unlocks.SpecialFeatures == nil {
		p.Unlocks.SpecialFeatures = make(map[string]bool)
	}
	if p.Unlocks.LevelUnlocks == nil {
		p.Unlocks.LevelUnlocks = make(map[string]int)
	}
	if p.Unlocks.AchievementAt == nil {
		p.Unlocks.AchievementAt = make(map[string]time.Time)
	}
	if p.Streak.Multiplier == 0 {
		p.Streak.Multiplier = StreakMultiplier(p.Streak.CurrentStreak)
	}
	p.refreshLevelUnlocks()
	return p
}

// UnmarshalSnapshot restores progression state from JSON.
func UnmarshalSnapshot(raw []byte, opts ...Option) (*Progress, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode progression snapshot: %w", err)
	}
	return Restore(snap, opts...), nil
}
