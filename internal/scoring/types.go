package scoring

import (
	"errors"
	"time"
)

// Mode selects the answer-evaluation policy. Fixed at session construction.
type Mode string

const (
	ModeStrict  Mode = "strict"
	ModeLenient Mode = "lenient"
	ModePartial Mode = "partial"
)

// Scoring operations fail with these before or outside a started session.
var (
	ErrSessionNotStarted     = errors.New("quiz session not started")
	ErrInvalidQuestionNumber = errors.New("invalid question number")
	ErrNoResults             = errors.New("no results available, calculate scores first")
)

// PartialCreditConfig tunes partial-mode scoring. The thresholds are
// empirically chosen defaults, kept configurable rather than hard-wired.
type PartialCreditConfig struct {
	CategoryMatchBonus  float64
	SimilarityThreshold float64
}

// DefaultPartialCreditConfig returns the standard partial-credit weights.
func DefaultPartialCreditConfig() PartialCreditConfig {
	return PartialCreditConfig{
		CategoryMatchBonus:  0.25,
		SimilarityThreshold: 0.7,
	}
}

// LenientOverlapThreshold is the word-overlap ratio at which lenient mode
// grants full credit.
const LenientOverlapThreshold = 0.8

// Answer is one recorded response. Value carries standard answers; Mapping
// carries multi-case matching answers.
type Answer struct {
	Value     string            `json:"answer,omitempty"`
	Mapping   map[string]string `json:"mapping,omitempty"`
	TimeSpent float64           `json:"time_spent"`
	Timestamp time.Time         `json:"timestamp"`
}

// QuestionResult is the evaluation outcome for one question. Never mutated
// after creation.
type QuestionResult struct {
	Number              int     `json:"question_number"`
	CaseID              string  `json:"case_id"`
	UserAnswer          string  `json:"user_answer,omitempty"`
	CorrectAnswer       string  `json:"correct_answer"`
	IsCorrect           bool    `json:"is_correct"`
	Score               float64 `json:"score"`
	MaxScore            float64 `json:"max_score"`
	TimeSpent           float64 `json:"time_spent"`
	Category            string  `json:"category"`
	AgeGroup            string  `json:"age_group"`
	Complexity          string  `json:"complexity"`
	Feedback            string  `json:"feedback"`
	PartialCreditReason string  `json:"partial_credit_reason,omitempty"`
	Answered            bool    `json:"answered"`
}

// GroupPerformance is one entry in a category, complexity, or age-group
// breakdown.
type GroupPerformance struct {
	Total        int     `json:"total"`
	Correct      int     `json:"correct"`
	Score        float64 `json:"score"`
	Time         float64 `json:"time"`
	Accuracy     float64 `json:"accuracy"`
	AverageScore float64 `json:"average_score"`
	AverageTime  float64 `json:"average_time"`
}

// RankedQuestion is one row of the difficulty analysis.
type RankedQuestion struct {
	Number     int     `json:"question_number"`
	CaseID     string  `json:"case_id"`
	Score      float64 `json:"score"`
	Category   string  `json:"category"`
	Complexity string  `json:"complexity"`
}

// DifficultyAnalysis surfaces the lowest- and highest-scoring questions.
type DifficultyAnalysis struct {
	MostDifficult []RankedQuestion `json:"most_difficult_questions"`
	Easiest       []RankedQuestion `json:"easiest_questions"`
	AverageScore  float64          `json:"average_difficulty_score"`
}

// TimeAnalysis summarizes per-question timing patterns.
type TimeAnalysis struct {
	Fastest         float64 `json:"fastest_question_time"`
	Slowest         float64 `json:"slowest_question_time"`
	Median          float64 `json:"median_time"`
	StdDev          float64 `json:"time_std_dev"`
	EfficiencyScore float64 `json:"time_efficiency_score"`
	Under30Seconds  int     `json:"questions_under_30_seconds"`
	Over2Minutes    int     `json:"questions_over_2_minutes"`
}

// PerformanceStats is the aggregate result of a scoring pass.
type PerformanceStats struct {
	TotalQuestions         int     `json:"total_questions"`
	CorrectAnswers         int     `json:"correct_answers"`
	IncorrectAnswers       int     `json:"incorrect_answers"`
	TotalScore             float64 `json:"total_score"`
	MaxPossibleScore       float64 `json:"max_possible_score"`
	PercentageScore        float64 `json:"percentage_score"`
	AverageTimePerQuestion float64 `json:"average_time_per_question"`
	TotalTimeSpent         float64 `json:"total_time_spent"`

	CategoryPerformance   map[string]*GroupPerformance `json:"category_performance"`
	ComplexityPerformance map[string]*GroupPerformance `json:"complexity_performance"`
	AgeGroupPerformance   map[string]*GroupPerformance `json:"age_group_performance"`

	Difficulty DifficultyAnalysis `json:"difficulty_analysis"`
	Time       TimeAnalysis       `json:"time_analysis"`
}
