package quizgen

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/caseprep/internal/casebank"
	"github.com/abhisek/caseprep/internal/logging"
	"github.com/abhisek/caseprep/internal/progression"
)

// Generator assembles quizzes from the case repository. The optional
// progression reference enables adaptive difficulty, unlock gating, and
// streak sequencing; a nil progress disables those paths.
type Generator struct {
	repo     casebank.Repo
	progress *progression.Progress
}

// NewGenerator creates a Generator. progress may be nil.
func NewGenerator(repo casebank.Repo, progress *progression.Progress) *Generator {
	return &Generator{repo: repo, progress: progress}
}

// newRNG builds the single random source for one generation pass. Every draw
// in the pass comes from this source in a fixed order (case selection, then
// per-question distractors, specifiers, and option shuffle, then question
// shuffle), so a fixed seed reproduces the quiz exactly.
func newRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Generate builds a quiz from the configuration. It fails with *ConfigError
// when the filtered pool is empty and degrades to a smaller quiz, with a
// logged warning, when the pool cannot fill the requested count.
func (g *Generator) Generate(cfg Config) (*Quiz, error) {
	cfg = cfg.normalized()
	rng := newRNG(cfg.Seed)

	cfg.Complexities = g.resolveComplexities(cfg)

	pool, err := g.repo.QueryCases(g.buildFilter(cfg))
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, &ConfigError{Reason: "no cases match the specified criteria"}
	}

	numQuestions := cfg.NumQuestions
	casesNeeded := numQuestions
	if cfg.MultiCaseMatching {
		casesNeeded = numQuestions * casesPerMatchingQuestion
	}
	if len(pool) < casesNeeded {
		logging.Warnf("requested %d cases but only %d available, generating a reduced quiz", casesNeeded, len(pool))
		casesNeeded = len(pool)
		if cfg.MultiCaseMatching {
			numQuestions = casesNeeded / casesPerMatchingQuestion
		} else {
			numQuestions = casesNeeded
		}
	}

	var selected []casebank.Case
	switch {
	case cfg.AdaptiveMode && g.progress != nil:
		selected = g.adaptiveSelection(rng, pool, casesNeeded)
	case cfg.StreakSequencing && g.progress != nil:
		selected = g.streakSequencing(rng, pool, casesNeeded)
	default:
		selected = sampleCases(rng, pool, casesNeeded)
	}

	diagnoses, err := g.loadDiagnosisPool()
	if err != nil {
		return nil, err
	}

	var questions []Question
	if cfg.MultiCaseMatching {
		questions = buildMatchingQuestions(rng, selected)
	} else {
		for i, c := range selected {
			var q Question
			if cfg.DifferentialMode {
				q = buildDifferentialQuestion(rng, c, diagnoses, cfg.NumChoices, i+1)
			} else {
				q = buildStandardQuestion(rng, c, diagnoses, cfg.NumChoices, i+1)
			}
			if cfg.BonusXPOpportunities {
				g.attachBonusOpportunities(&q, c)
			}
			if cfg.TimeAdjustment {
				attachTimeAdjustments(&q, c)
			}
			questions = append(questions, q)
		}
	}

	if cfg.Shuffle {
		rng.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
		for i := range questions {
			questions[i].Number = i + 1
		}
	}

	quiz := &Quiz{
		Metadata: Metadata{
			QuizID:         uuid.NewString(),
			TotalQuestions: len(questions),
			NumChoices:     cfg.NumChoices,
			Configuration:  cfg,
			GeneratedAt:    time.Now(),
			Features: Features{
				AdaptiveMode:         cfg.AdaptiveMode,
				DifferentialMode:     cfg.DifferentialMode,
				MultiCaseMatching:    cfg.MultiCaseMatching,
				StreakSequencing:     cfg.StreakSequencing,
				TimeAdjustment:       cfg.TimeAdjustment,
				BonusXPOpportunities: cfg.BonusXPOpportunities,
			},
		},
		Questions: questions,
	}

	logging.Infof("generated quiz %s with %d questions", quiz.Metadata.QuizID, len(questions))
	return quiz, nil
}

// resolveComplexities narrows the complexity filter: adaptive mode replaces
// it with the recommendation band, and any supplied progression intersects it
// with the user's unlocked tiers.
func (g *Generator) resolveComplexities(cfg Config) []string {
	complexities := cfg.Complexities

	if cfg.AdaptiveMode && g.progress != nil {
		complexities = g.adaptiveComplexities()
		logging.Infof("adaptive mode selected complexities: %v", complexities)
	}

	if g.progress != nil {
		allowed := unlockedComplexities(g.progress)
		if len(complexities) == 0 {
			complexities = allowed
		} else {
			var kept []string
			for _, c := range complexities {
				if containsLabel(allowed, c) {
					kept = append(kept, c)
				}
			}
			complexities = kept
		}
	}

	return complexities
}

// unlockedComplexities maps the user's unlocked tier names onto the
// complexity labels carried by case records, deduplicated and sorted.
func unlockedComplexities(p *progression.Progress) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tier := range p.Unlocks.UnlockedDifficulties() {
		label, ok := difficultyMapping[tier]
		if !ok {
			label = tier
		}
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}

// difficultyMapping bridges tier names onto the complexity labels carried by
// case records.
var difficultyMapping = map[string]string{
	"beginner":     "easy",
	"intermediate": "moderate",
	"advanced":     "high",
	"expert":       "high",
}

// complexityLadder is the ordered set of complexity labels in case data.
var complexityLadder = []string{"easy", "moderate", "high"}

// adaptiveComplexities maps the recommended tier onto the case complexity
// ladder and widens the band by one step in each direction.
func (g *Generator) adaptiveComplexities() []string {
	if len(g.progress.Metrics.RecentPerformance) == 0 {
		return []string{"easy"}
	}

	recommended := g.progress.RecommendDifficulty()
	mapped, ok := difficultyMapping[recommended]
	if !ok {
		mapped = recommended
	}

	idx := 0
	for i, c := range complexityLadder {
		if c == mapped {
			idx = i
			break
		}
	}

	complexities := []string{complexityLadder[idx]}
	if idx > 0 {
		complexities = append(complexities, complexityLadder[idx-1])
	}
	if idx < len(complexityLadder)-1 {
		complexities = append(complexities, complexityLadder[idx+1])
	}
	return complexities
}

func (g *Generator) buildFilter(cfg Config) casebank.Filter {
	return casebank.Filter{
		Categories:         cfg.Categories,
		AgeGroups:          cfg.AgeGroups,
		Complexities:       cfg.Complexities,
		Diagnoses:          cfg.Diagnoses,
		DifficultyTiers:    cfg.DifficultyTiers,
		ClinicalSpecifiers: cfg.ClinicalSpecifiers,
		CourseSpecifiers:   cfg.CourseSpecifiers,
		SymptomVariants:    cfg.SymptomVariants,

		ExcludeCategories:         cfg.ExcludeCategories,
		ExcludeAgeGroups:          cfg.ExcludeAgeGroups,
		ExcludeComplexities:       cfg.ExcludeComplexities,
		ExcludeDiagnoses:          cfg.ExcludeDiagnoses,
		ExcludeDifficultyTiers:    cfg.ExcludeDifficultyTiers,
		ExcludeClinicalSpecifiers: cfg.ExcludeClinicalSpecifiers,
		ExcludeCourseSpecifiers:   cfg.ExcludeCourseSpecifiers,
		ExcludeSymptomVariants:    cfg.ExcludeSymptomVariants,
	}
}

// diagnosisPool groups the diagnosis catalog by category. Categories are kept
// sorted so cross-category draws are deterministic under a fixed seed.
type diagnosisPool struct {
	byCategory map[string][]string
	categories []string
}

func (g *Generator) loadDiagnosisPool() (*diagnosisPool, error) {
	all, err := g.repo.Diagnoses()
	if err != nil {
		return nil, err
	}
	pool := &diagnosisPool{byCategory: make(map[string][]string)}
	for _, d := range all {
		if _, ok := pool.byCategory[d.Category]; !ok {
			pool.categories = append(pool.categories, d.Category)
		}
		pool.byCategory[d.Category] = append(pool.byCategory[d.Category], d.Name)
	}
	sort.Strings(pool.categories)
	return pool, nil
}

// sampleCases draws n cases uniformly without replacement.
func sampleCases(rng *rand.Rand, pool []casebank.Case, n int) []casebank.Case {
	if n > len(pool) {
		n = len(pool)
	}
	perm := rng.Perm(len(pool))
	out := make([]casebank.Case, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, pool[idx])
	}
	return out
}

// adaptiveSelection fills up to half the quota from categories where the
// user's accuracy is below 70%, then fills the remainder uniformly.
func (g *Generator) adaptiveSelection(rng *rand.Rand, pool []casebank.Case, n int) []casebank.Case {
	weak := make(map[string]bool)
	for category, prof := range g.progress.Specialties {
		if prof.Accuracy < 70 {
			weak[category] = true
		}
	}

	var selected []casebank.Case
	remaining := append([]casebank.Case(nil), pool...)

	if len(weak) > 0 {
		var weakCases []casebank.Case
		for _, c := range remaining {
			if weak[c.Category] {
				weakCases = append(weakCases, c)
			}
		}
		quota := n / 2
		if quota > len(weakCases) {
			quota = len(weakCases)
		}
		if quota > 0 {
			picked := sampleCases(rng, weakCases, quota)
			selected = append(selected, picked...)
			remaining = removeCases(remaining, picked)
		}
	}

	if need := n - len(selected); need > 0 && len(remaining) > 0 {
		selected = append(selected, sampleCases(rng, remaining, need)...)
	}

	if len(selected) > n {
		selected = selected[:n]
	}
	return selected
}

// streakSequencing orders case selection by a complexity preference derived
// from the current streak: hot streaks get hard cases first, cold streaks
// build confidence with easy ones.
func (g *Generator) streakSequencing(rng *rand.Rand, pool []casebank.Case, n int) []casebank.Case {
	streak := g.progress.Streak.CurrentStreak

	var preference []string
	switch {
	case streak >= 10:
		preference = []string{"high", "moderate", "easy"}
	case streak >= 5:
		preference = []string{"moderate", "high", "easy"}
	default:
		preference = []string{"easy", "moderate"}
	}

	var selected []casebank.Case
	remaining := append([]casebank.Case(nil), pool...)

	for _, complexity := range preference {
		if len(selected) >= n {
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
		picked := sampleCases(rng, bucket, n-len(selected))
		selected = append(selected, picked...)
		remaining = removeCases(remaining, picked)
	}

	if need := n - len(selected); need > 0 && len(remaining) > 0 {
		selected = append(selected, sampleCases(rng, remaining, need)...)
	}

	if len(selected) > n {
		selected = selected[:n]
	}
	return selected
}

func removeCases(pool, picked []casebank.Case) []casebank.Case {
	taken := make(map[string]bool, len(picked))
	for _, c := range picked {
		taken[c.ID] = true
	}
	var out []casebank.Case
	for _, c := range pool {
		if !taken[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
