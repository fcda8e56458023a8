package quizgen

import "fmt"

// Generation limits. Requested values outside these ranges are clamped, not
// rejected.
const (
	DefaultNumQuestions = 10
	DefaultNumChoices   = 4
	MaxNumQuestions     = 50
	MinNumChoices       = 2
	MaxNumChoices       = 6
)

// Config controls one generation call. The zero value is not usable; start
// from DefaultConfig and override fields.
type Config struct {
	NumQuestions int `json:"num_questions"`
	NumChoices   int `json:"num_choices"`

	// Seed makes the whole generation reproducible. Nil means a fresh
	// time-derived seed per call.
	Seed *int64 `json:"seed,omitempty"`

	// Inclusion filters. Empty slices impose no constraint.
	Categories         []string `json:"categories,omitempty"`
	AgeGroups          []string `json:"age_groups,omitempty"`
	Complexities       []string `json:"complexities,omitempty"`
	Diagnoses          []string `json:"diagnoses,omitempty"`
	DifficultyTiers    []string `json:"difficulty_tiers,omitempty"`
	ClinicalSpecifiers []string `json:"clinical_specifiers,omitempty"`
	CourseSpecifiers   []string `json:"course_specifiers,omitempty"`
	SymptomVariants    []string `json:"symptom_variants,omitempty"`

	// Exclusion filters, applied after the inclusion filters.
	ExcludeCategories         []string `json:"exclude_categories,omitempty"`
	ExcludeAgeGroups          []string `json:"exclude_age_groups,omitempty"`
	ExcludeComplexities       []string `json:"exclude_complexities,omitempty"`
	ExcludeDiagnoses          []string `json:"exclude_diagnoses,omitempty"`
	ExcludeDifficultyTiers    []string `json:"exclude_difficulty_tiers,omitempty"`
	ExcludeClinicalSpecifiers []string `json:"exclude_clinical_specifiers,omitempty"`
	ExcludeCourseSpecifiers   []string `json:"exclude_course_specifiers,omitempty"`
	ExcludeSymptomVariants    []string `json:"exclude_symptom_variants,omitempty"`

	// Feature switches.
	Shuffle              bool `json:"shuffle"`
	AdaptiveMode         bool `json:"adaptive_mode"`
	DifferentialMode     bool `json:"differential_mode"`
	MultiCaseMatching    bool `json:"multi_case_matching"`
	StreakSequencing     bool `json:"streak_sequencing"`
	TimeAdjustment       bool `json:"time_adjustment"`
	BonusXPOpportunities bool `json:"bonus_xp_opportunities"`
}

// DefaultConfig returns a Config with the documented defaults: 10 questions,
// 4 choices, shuffled question order, no adaptive features.
func DefaultConfig() Config {
	return Config{
		NumQuestions: DefaultNumQuestions,
		NumChoices:   DefaultNumChoices,
		Shuffle:      true,
	}
}

// normalized clamps the count fields into their supported ranges. Zero counts
// fall back to the defaults so a partially filled Config still generates.
func (c Config) normalized() Config {
	if c.NumQuestions == 0 {
		c.NumQuestions = DefaultNumQuestions
	}
	if c.NumQuestions < 1 {
		c.NumQuestions = 1
	}
	if c.NumQuestions > MaxNumQuestions {
		c.NumQuestions = MaxNumQuestions
	}
	if c.NumChoices == 0 {
		c.NumChoices = DefaultNumChoices
	}
	if c.NumChoices < MinNumChoices {
		c.NumChoices = MinNumChoices
	}
	if c.NumChoices > MaxNumChoices {
		c.NumChoices = MaxNumChoices
	}
	return c
}

// ConfigError reports a configuration that cannot produce a quiz, such as
// filters that match no cases. The caller must adjust and retry.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("quiz configuration error: %s", e.Reason)
}
