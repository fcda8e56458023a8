package quizgen

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/caseprep/internal/casebank"
	"github.com/abhisek/caseprep/internal/logging"
)

// Combination strategies.
const (
	CombinationSimilar     = "similar"     // cases share one category
	CombinationContrasting = "contrasting" // cases spread across categories
	CombinationProgression = "progression" // one case per rising complexity
)

const (
	defaultNumCombinations = 5
	maxCombinationDistract = 3
)

// CombinationConfig configures a case-combination quiz. The embedded Config
// supplies filters and the seed; its question/choice counts are ignored.
type CombinationConfig struct {
	Config

	NumCombinations     int    `json:"num_combinations"`
	CasesPerCombination int    `json:"cases_per_combination"`
	CombinationType     string `json:"combination_type"`
}

// GenerateCombination builds a quiz where each question presents several
// related cases and asks for the primary (first) case's diagnosis, with the
// remaining cases as differential context.
func (g *Generator) GenerateCombination(cfg CombinationConfig) (*Quiz, error) {
	rng := newRNG(cfg.Seed)

	if cfg.NumCombinations <= 0 {
		cfg.NumCombinations = defaultNumCombinations
	}
	if cfg.CombinationType == "" {
		cfg.CombinationType = CombinationSimilar
	}
	if cfg.CasesPerCombination <= 0 {
		cfg.CasesPerCombination = 2 + rng.Intn(2)
	}

	pool, err := g.repo.QueryCases(g.buildFilter(cfg.Config))
	if err != nil {
		return nil, err
	}
	if len(pool) < cfg.CasesPerCombination {
		return nil, &ConfigError{Reason: fmt.Sprintf("not enough cases for combinations, need at least %d", cfg.CasesPerCombination)}
	}

	combinations := g.buildCombinations(rng, pool, cfg.NumCombinations, cfg.CasesPerCombination, cfg.CombinationType)

	diagnoses, err := g.loadDiagnosisPool()
	if err != nil {
		return nil, err
	}

	questions := make([]Question, 0, len(combinations))
	for i, combo := range combinations {
		questions = append(questions, buildCombinationQuestion(rng, combo, diagnoses, i+1))
	}

	quiz := &Quiz{
		Metadata: Metadata{
			QuizID:              uuid.NewString(),
			TotalQuestions:      len(questions),
			Configuration:       cfg.Config,
			GeneratedAt:         time.Now(),
			QuizType:            TypeCaseCombination,
			CombinationType:     cfg.CombinationType,
			CasesPerCombination: cfg.CasesPerCombination,
		},
		Questions: questions,
	}

	logging.Infof("generated combination quiz %s with %d questions", quiz.Metadata.QuizID, len(questions))
	return quiz, nil
}

func (g *Generator) buildCombinations(rng *rand.Rand, pool []casebank.Case, numCombinations, size int, strategy string) [][]casebank.Case {
	var combinations [][]casebank.Case
	remaining := append([]casebank.Case(nil), pool...)

	for len(combinations) < numCombinations && len(remaining) >= size {
		var combo []casebank.Case
		switch strategy {
		case CombinationContrasting:
			combo = contrastingCombination(rng, remaining, size)
		case CombinationProgression:
			combo = progressionCombination(rng, remaining, size)
		default:
			combo = similarCombination(rng, remaining, size)
		}
		combinations = append(combinations, combo)
		remaining = removeCases(remaining, combo)
	}

	return combinations
}

// similarCombination picks all cases from one randomly chosen category,
// falling back to an unconstrained sample when the category is too small.
func similarCombination(rng *rand.Rand, pool []casebank.Case, size int) []casebank.Case {
	category := pool[rng.Intn(len(pool))].Category
	var sameCat []casebank.Case
	for _, c := range pool {
		if c.Category == category {
			sameCat = append(sameCat, c)
		}
	}
	if len(sameCat) >= size {
		return sampleCases(rng, sameCat, size)
	}
	return sampleCases(rng, pool, size)
}

// contrastingCombination spreads the picks across distinct categories.
func contrastingCombination(rng *rand.Rand, pool []casebank.Case, size int) []casebank.Case {
	remaining := append([]casebank.Case(nil), pool...)
	var combo []casebank.Case

	for len(combo) < size && len(remaining) > 0 {
		categories := distinctCategories(remaining)
		category := categories[rng.Intn(len(categories))]
		var bucket []casebank.Case
		for _, c := range remaining {
			if c.Category == category {
				bucket = append(bucket, c)
			}
		}
		picked := bucket[rng.Intn(len(bucket))]
		combo = append(combo, picked)
		remaining = removeCases(remaining, []casebank.Case{picked})
		remaining = dropCategory(remaining, category)
	}

	if need := size - len(combo); need > 0 {
		fill := removeCases(pool, combo)
		combo = append(combo, sampleCases(rng, fill, need)...)
	}
	return combo
}

// combinationLadder orders complexity labels for progression combinations.
var combinationLadder = []string{"easy", "moderate", "high", "expert"}

// progressionCombination picks one case per rising complexity tier.
func progressionCombination(rng *rand.Rand, pool []casebank.Case, size int) []casebank.Case {
	remaining := append([]casebank.Case(nil), pool...)
	var combo []casebank.Case

	for _, complexity := range combinationLadder {
		if len(combo) >= size {
			break
		}
		var bucket []casebank.Case
		for _, c := range remaining {
			if c.Complexity == complexity {
				bucket = append(bucket, c)
			}
		}
		if len(bucket) == 0 {
			continue
		}
		picked := bucket[rng.Intn(len(bucket))]
		combo = append(combo, picked)
		remaining = removeCases(remaining, []casebank.Case{picked})
	}

	if need := size - len(combo); need > 0 && len(remaining) > 0 {
		combo = append(combo, sampleCases(rng, remaining, need)...)
	}
	return combo
}

func buildCombinationQuestion(rng *rand.Rand, combo []casebank.Case, pool *diagnosisPool, number int) Question {
	primary := combo[0]
	correct := primary.Diagnosis

	categories := distinctCategoriesSorted(combo)
	var distractors []string
	for _, category := range categories {
		for _, d := range generateDistractors(rng, correct, category, pool, 2) {
			if !containsLabel(distractors, d) {
				distractors = append(distractors, d)
			}
		}
	}
	if len(distractors) > maxCombinationDistract {
		distractors = distractors[:maxCombinationDistract]
	}

	options := make([]Option, 0, len(distractors)+1)
	options = append(options, Option{Text: correct, Diagnosis: correct})
	for _, d := range distractors {
		options = append(options, Option{Text: d, Diagnosis: d})
	}
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i := range options {
		options[i].ID = i
		if options[i].Diagnosis == correct {
			correctIndex = i
		}
	}

	caseIDs := make([]string, len(combo))
	complexities := make([]string, len(combo))
	for i, c := range combo {
		caseIDs[i] = c.ID
		complexities[i] = c.Complexity
	}

	return Question{
		Number:        number,
		Type:          TypeCaseCombination,
		CaseIDs:       caseIDs,
		Text:          combinationPrompt(combo),
		Options:       options,
		CorrectAnswer: correct,
		CorrectIndex:  correctIndex,
		Explanation:   explanationFor(primary.Category, correct),
		Reference:     referenceFor(primary.Category),
		CombinationMetadata: &CombinationMetadata{
			NumCases:     len(combo),
			Categories:   categories,
			Complexities: complexities,
		},
	}
}

func combinationPrompt(combo []casebank.Case) string {
	text := "Case Combination Analysis\n\n"
	for i, c := range combo {
		text += fmt.Sprintf(`Case %s (Patient %d):

Patient Information:
- Age Group: %s
- Category: %s

Clinical Presentation:
%s

Mental Status Examination:
%s

`, c.ID, i+1, c.AgeGroup, c.Category, c.Narrative, c.MSE)
	}
	text += `Based on the clinical presentations above, which diagnosis best fits Patient 1 (the primary case)?
Note: Consider the differential diagnoses suggested by the other patient presentations.`
	return text
}

func distinctCategories(cases []casebank.Case) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range cases {
		if !seen[c.Category] {
			seen[c.Category] = true
			out = append(out, c.Category)
		}
	}
	return out
}

func distinctCategoriesSorted(cases []casebank.Case) []string {
	out := distinctCategories(cases)
	sort.Strings(out)
	return out
}

func dropCategory(cases []casebank.Case, category string) []casebank.Case {
	var out []casebank.Case
	for _, c := range cases {
		if c.Category != category {
			out = append(out, c)
		}
	}
	return out
}
