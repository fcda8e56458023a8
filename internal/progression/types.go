package progression

import "time"

// SpecialtyProficiency tracks skill in a single diagnostic category.
// CorrectCount is the exact counter; Accuracy is derived from it rather than
// reconstructed from the previous percentage, so repeated updates never drift.
type SpecialtyProficiency struct {
	Category       string    `json:"category"`
	Level          int       `json:"level"` // 1-10
	CasesCompleted int       `json:"cases_completed"`
	CorrectCount   int       `json:"correct_count"`
	Accuracy       float64   `json:"accuracy"` // percent
	XPEarned       int       `json:"xp_earned"`
	LastPracticed  time.Time `json:"last_practiced"`
}

// StreakData tracks the consecutive-correct-answer streak.
type StreakData struct {
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	StreakStartDate *time.Time `json:"streak_start_date,omitempty"`
	LastCorrectDate *time.Time `json:"last_correct_date,omitempty"`
	Multiplier      float64    `json:"streak_multiplier"`
}

// GroupStats is one entry in a per-category or per-difficulty breakdown.
type GroupStats struct {
	Total       int     `json:"total"`
	Correct     int     `json:"correct"`
	TotalTime   float64 `json:"total_time"`
	Accuracy    float64 `json:"accuracy"` // percent
	AverageTime float64 `json:"avg_time"`
}

// PerformanceSample is one entry in the recent-performance window.
type PerformanceSample struct {
	Timestamp  time.Time `json:"timestamp"`
	Accuracy   float64   `json:"accuracy"` // 100 or 0 for a single case
	TimeTaken  float64   `json:"time_taken"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
}

// RecentWindowSize bounds the recent-performance window; the oldest entry is
// evicted first.
const RecentWindowSize = 20

// PerformanceMetrics holds rolling performance totals and breakdowns.
type PerformanceMetrics struct {
	TotalCases            int                    `json:"total_cases"`
	CorrectDiagnoses      int                    `json:"correct_diagnoses"`
	OverallAccuracy       float64                `json:"overall_accuracy"` // percent
	AverageTimePerCase    float64                `json:"average_time_per_case"`
	CategoryPerformance   map[string]*GroupStats `json:"category_performance"`
	DifficultyPerformance map[string]*GroupStats `json:"difficulty_performance"`
	RecentPerformance     []PerformanceSample    `json:"recent_performance"`
	ImprovementTrend      float64                `json:"improvement_trend"`
}

// UnlockStatus tracks which difficulty tiers, categories, and special
// features the user has unlocked. Unlocks are never revoked.
type UnlockStatus struct {
	Difficulties    map[string]bool      `json:"unlocked_difficulties"`
	Categories      map[string]bool      `json:"unlocked_categories"`
	SpecialFeatures map[string]bool      `json:"unlocked_special_features"`
	LevelUnlocks    map[string]int       `json:"level_based_unlocks"`
	AchievementAt   map[string]time.Time `json:"achievement_based_unlocks"`
}

// UnlockedDifficulties returns the unlocked tier names.
func (u *UnlockStatus) UnlockedDifficulties() []string {
	var out []string
	for name := range u.Difficulties {
		out = append(out, name)
	}
	return out
}

// EarnedAchievement records one achievement award.
type EarnedAchievement struct {
	AchievementID string    `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
	XPAwarded     int       `json:"xp_awarded"`
}

// CaseResult is the per-question outcome fed into the progression engine.
type CaseResult struct {
	Correct    bool
	TimeTaken  float64
	Category   string
	Difficulty string
}
