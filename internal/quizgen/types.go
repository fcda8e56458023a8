package quizgen

import "time"

// Question type tags.
const (
	TypeStandard          = "standard"
	TypeDifferential      = "differential_diagnosis"
	TypeMultiCaseMatching = "multi_case_matching"
	TypeCaseCombination   = "case_combination"
)

// Option is one answer choice. Text is the display label and may carry a
// decorated specifier suffix; Diagnosis is the undecorated label that
// correctness is keyed on, so decoration can never break answer resolution.
type Option struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Diagnosis string `json:"diagnosis"`
}

// CaseMetadata is the source-case snapshot carried on a question.
type CaseMetadata struct {
	Category   string `json:"category"`
	AgeGroup   string `json:"age_group"`
	Complexity string `json:"complexity"`
}

// CaseSummary is the abbreviated case view embedded in a multi-case matching
// question.
type CaseSummary struct {
	CaseID         string `json:"case_id"`
	AgeGroup       string `json:"age_group"`
	ChiefComplaint string `json:"chief_complaint"`
	History        string `json:"history"`
	Examination    string `json:"examination"`
	Category       string `json:"category"`
	Complexity     string `json:"complexity"`
}

// DifferentialInfo records the extracted symptoms and the candidate set used
// later for similarity-based partial credit.
type DifferentialInfo struct {
	KeySymptoms                []string `json:"key_symptoms"`
	DifferentialConsiderations []string `json:"differential_considerations"`
}

// BonusOpportunity is advisory metadata describing one bonus XP trigger. It
// never alters correctness.
type BonusOpportunity struct {
	Type         string  `json:"type"`
	Description  string  `json:"description"`
	XPMultiplier float64 `json:"xp_multiplier"`
}

// TimeAdjustments carries the time thresholds and base XP for a question's
// complexity tier.
type TimeAdjustments struct {
	TimeBonusThreshold float64 `json:"time_bonus_threshold"`
	AccuracyThreshold  float64 `json:"accuracy_threshold"`
	BaseXP             float64 `json:"base_xp"`
}

// CombinationMetadata describes a case-combination question's makeup.
type CombinationMetadata struct {
	NumCases     int      `json:"num_cases"`
	Categories   []string `json:"categories"`
	Complexities []string `json:"complexities"`
}

// Question is a generated value object. It is never mutated after creation
// except for renumbering when the question list is shuffled.
type Question struct {
	Number int    `json:"question_number"`
	Type   string `json:"question_type"`
	Text   string `json:"question_text"`

	// CaseID is set for single-case questions; CaseIDs for combinations.
	CaseID  string   `json:"case_id,omitempty"`
	CaseIDs []string `json:"case_ids,omitempty"`

	// Options/CorrectAnswer/CorrectIndex apply to every type except
	// multi-case matching, which uses Cases/DiagnosisOptions/CorrectMapping.
	Options       []Option `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	CorrectIndex  int      `json:"correct_index"`

	Cases            []CaseSummary     `json:"cases,omitempty"`
	DiagnosisOptions []Option          `json:"diagnosis_options,omitempty"`
	CorrectMapping   map[string]string `json:"correct_mapping,omitempty"`

	Explanation string `json:"explanation"`
	Reference   string `json:"reference"`

	CaseMetadata        *CaseMetadata        `json:"case_metadata,omitempty"`
	DifferentialInfo    *DifferentialInfo    `json:"differential_info,omitempty"`
	BonusOpportunities  []BonusOpportunity   `json:"bonus_opportunities,omitempty"`
	TimeAdjustments     *TimeAdjustments     `json:"time_adjustments,omitempty"`
	CombinationMetadata *CombinationMetadata `json:"combination_metadata,omitempty"`
}

// Features records which adaptive switches were active at generation time.
type Features struct {
	AdaptiveMode         bool `json:"adaptive_mode"`
	DifferentialMode     bool `json:"differential_mode"`
	MultiCaseMatching    bool `json:"multi_case_matching"`
	StreakSequencing     bool `json:"streak_sequencing"`
	TimeAdjustment       bool `json:"time_adjustment"`
	BonusXPOpportunities bool `json:"bonus_xp_opportunities"`
}

// Metadata describes a generated quiz. TotalQuestions is the actual count,
// which may be lower than requested when the case pool was short; callers
// must read it back rather than assume the request was honored.
type Metadata struct {
	QuizID         string    `json:"quiz_id"`
	TotalQuestions int       `json:"total_questions"`
	NumChoices     int       `json:"num_choices"`
	Configuration  Config    `json:"configuration"`
	GeneratedAt    time.Time `json:"generated_at"`
	Features       Features  `json:"adaptive_features"`

	// Combination-quiz fields.
	QuizType            string `json:"quiz_type,omitempty"`
	CombinationType     string `json:"combination_type,omitempty"`
	CasesPerCombination int    `json:"cases_per_combination,omitempty"`
}

// Quiz is the generation result: metadata plus the ordered question list.
// Question numbers are contiguous from 1 and reflect final post-shuffle order.
type Quiz struct {
	Metadata  Metadata   `json:"quiz_metadata"`
	Questions []Question `json:"questions"`
}
