package quizgen

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/abhisek/caseprep/internal/casebank"
	"github.com/abhisek/caseprep/internal/progression"
)

func testBank() *casebank.Bank {
	categories := []struct {
		name      string
		diagnoses []string
	}{
		{"Depressive Disorders", []string{"Major Depressive Disorder", "Persistent Depressive Disorder"}},
		{"Anxiety Disorders", []string{"Generalized Anxiety Disorder", "Panic Disorder", "Social Anxiety Disorder"}},
		{"Schizophrenia Spectrum and Other Psychotic Disorders", []string{"Schizophrenia", "Schizoaffective Disorder"}},
	}

	complexities := []string{"easy", "moderate", "high"}
	ageGroups := []string{"child", "adolescent", "adult", "older_adult"}

	var cases []casebank.Case
	var diagnoses []casebank.Diagnosis
	id := 0
	for _, cat := range categories {
		for _, d := range cat.diagnoses {
			diagnoses = append(diagnoses, casebank.Diagnosis{Name: d, Category: cat.name})
			for j := 0; j < 2; j++ {
				id++
				cases = append(cases, casebank.Case{
					ID:         fmt.Sprintf("case_%03d", id),
					Category:   cat.name,
					AgeGroup:   ageGroups[id%len(ageGroups)],
					Complexity: complexities[id%len(complexities)],
					Diagnosis:  d,
					Narrative:  "The patient reports a depressed mood and anxious rumination. Symptoms began six months ago. Sleep is disturbed.",
					MSE:        "Alert and oriented. Affect constricted. No psychotic features elicited.",
				})
			}
		}
	}
	return casebank.NewBank(cases, diagnoses)
}

func seeded(seed int64) *int64 { return &seed }

func TestGenerateDefaults(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := DefaultConfig()
	cfg.Seed = seeded(42)
	quiz, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if quiz.Metadata.TotalQuestions != DefaultNumQuestions {
		t.Errorf("total questions = %d, want %d", quiz.Metadata.TotalQuestions, DefaultNumQuestions)
	}
	if len(quiz.Questions) != quiz.Metadata.TotalQuestions {
		t.Errorf("question count %d disagrees with metadata %d", len(quiz.Questions), quiz.Metadata.TotalQuestions)
	}
	if quiz.Metadata.QuizID == "" {
		t.Error("quiz id should be set")
	}
	for i, q := range quiz.Questions {
		if q.Number != i+1 {
			t.Errorf("question %d has number %d, want contiguous numbering", i, q.Number)
		}
		if q.Type != TypeStandard {
			t.Errorf("question %d type = %q, want %q", i, q.Type, TypeStandard)
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := DefaultConfig()
	cfg.Seed = seeded(1234)

	first, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	second, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}

	if !reflect.DeepEqual(first.Questions, second.Questions) {
		t.Error("same seed should reproduce the identical question list")
	}
}

func TestGenerateDifferentSeeds(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := DefaultConfig()
	cfg.Seed = seeded(1)
	first, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	cfg.Seed = seeded(2)
	second, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if reflect.DeepEqual(first.Questions, second.Questions) {
		t.Error("different seeds are overwhelmingly unlikely to produce identical quizzes")
	}
}

func TestGenerateEmptyPool(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := DefaultConfig()
	cfg.Categories = []string{"Nonexistent Category"}

	_, err := g.Generate(cfg)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Generate() error = %v, want *ConfigError", err)
	}
}

func TestGenerateReducedQuiz(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := DefaultConfig()
	cfg.Seed = seeded(7)
	cfg.Categories = []string{"Depressive Disorders"} // only 4 cases

	quiz, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if quiz.Metadata.TotalQuestions != 4 {
		t.Errorf("reduced quiz has %d questions, want 4", quiz.Metadata.TotalQuestions)
	}
}

func TestGenerateNoDuplicateCases(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := DefaultConfig()
	cfg.Seed = seeded(99)
	quiz, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	seen := make(map[string]bool)
	for _, q := range quiz.Questions {
		if seen[q.CaseID] {
			t.Errorf("case %s appears in more than one question", q.CaseID)
		}
		seen[q.CaseID] = true
	}
}

func TestGenerateRespectsUnlockedTiers(t *testing.T) {
	p := progression.New("u1", "student")
	g := NewGenerator(testBank(), p)

	cfg := DefaultConfig()
	cfg.Seed = seeded(5)
	quiz, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// A fresh profile has only the beginner tier, which maps to easy cases.
	for _, q := range quiz.Questions {
		if q.CaseMetadata.Complexity != "easy" {
			t.Errorf("question %d drew a %s case for a beginner profile", q.Number, q.CaseMetadata.Complexity)
		}
	}
}

func TestGenerateDifferentialMode(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := DefaultConfig()
	cfg.Seed = seeded(11)
	cfg.DifferentialMode = true
	cfg.NumQuestions = 5

	quiz, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, q := range quiz.Questions {
		if q.Type != TypeDifferential {
			t.Errorf("question %d type = %q, want %q", q.Number, q.Type, TypeDifferential)
		}
		if q.DifferentialInfo == nil {
			t.Fatalf("question %d missing differential info", q.Number)
		}
		if !containsLabel(q.DifferentialInfo.DifferentialConsiderations, q.CorrectAnswer) {
			t.Errorf("question %d considerations must include the correct diagnosis", q.Number)
		}
	}
}

func TestGenerateAttachesXPMetadata(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := DefaultConfig()
	cfg.Seed = seeded(3)
	cfg.NumQuestions = 5
	cfg.TimeAdjustment = true
	cfg.BonusXPOpportunities = true

	quiz, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, q := range quiz.Questions {
		if q.TimeAdjustments == nil {
			t.Fatalf("question %d missing time adjustments", q.Number)
		}
		if q.TimeAdjustments.BaseXP <= 0 {
			t.Errorf("question %d base XP = %v, want > 0", q.Number, q.TimeAdjustments.BaseXP)
		}
	}
}
