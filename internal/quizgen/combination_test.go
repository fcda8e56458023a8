package quizgen

import (
	"errors"
	"testing"

	"github.com/abhisek/caseprep/internal/casebank"
)

func TestGenerateCombinationSimilar(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := CombinationConfig{
		Config:              Config{Seed: seeded(31)},
		NumCombinations:     3,
		CasesPerCombination: 2,
		CombinationType:     CombinationSimilar,
	}
	quiz, err := g.GenerateCombination(cfg)
	if err != nil {
		t.Fatalf("GenerateCombination() error = %v", err)
	}

	if quiz.Metadata.QuizType != TypeCaseCombination {
		t.Errorf("quiz type = %q, want %q", quiz.Metadata.QuizType, TypeCaseCombination)
	}
	if len(quiz.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(quiz.Questions))
	}

	for _, q := range quiz.Questions {
		if q.Type != TypeCaseCombination {
			t.Errorf("question %d type = %q", q.Number, q.Type)
		}
		if len(q.CaseIDs) != 2 {
			t.Errorf("question %d references %d cases, want 2", q.Number, len(q.CaseIDs))
		}
		if q.CombinationMetadata == nil || q.CombinationMetadata.NumCases != 2 {
			t.Errorf("question %d missing combination metadata", q.Number)
		}
		if q.Options[q.CorrectIndex].Diagnosis != q.CorrectAnswer {
			t.Errorf("question %d correct index mismatch", q.Number)
		}
		seen := make(map[string]bool)
		for _, opt := range q.Options {
			if seen[opt.Diagnosis] {
				t.Errorf("question %d has duplicate option %q", q.Number, opt.Diagnosis)
			}
			seen[opt.Diagnosis] = true
		}
	}
}

func TestGenerateCombinationContrasting(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := CombinationConfig{
		Config:              Config{Seed: seeded(32)},
		NumCombinations:     2,
		CasesPerCombination: 3,
		CombinationType:     CombinationContrasting,
	}
	quiz, err := g.GenerateCombination(cfg)
	if err != nil {
		t.Fatalf("GenerateCombination() error = %v", err)
	}

	for _, q := range quiz.Questions {
		// Contrasting combinations draw each case from a distinct category.
		if got := len(q.CombinationMetadata.Categories); got != 3 {
			t.Errorf("question %d spans %d categories, want 3", q.Number, got)
		}
	}
}

func TestGenerateCombinationProgression(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := CombinationConfig{
		Config:              Config{Seed: seeded(33)},
		NumCombinations:     2,
		CasesPerCombination: 3,
		CombinationType:     CombinationProgression,
	}
	quiz, err := g.GenerateCombination(cfg)
	if err != nil {
		t.Fatalf("GenerateCombination() error = %v", err)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(quiz.Questions))
	}

	rank := map[string]int{"easy": 0, "moderate": 1, "high": 2, "expert": 3}
	for _, q := range quiz.Questions {
		cs := q.CombinationMetadata.Complexities
		for i := 1; i < len(cs); i++ {
			if rank[cs[i-1]] > rank[cs[i]] {
				t.Errorf("question %d complexities %v not in rising order", q.Number, cs)
				break
			}
		}
	}
}

func TestGenerateCombinationDefaults(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	quiz, err := g.GenerateCombination(CombinationConfig{Config: Config{Seed: seeded(34)}})
	if err != nil {
		t.Fatalf("GenerateCombination() error = %v", err)
	}
	if quiz.Metadata.CombinationType != CombinationSimilar {
		t.Errorf("default combination type = %q, want %q", quiz.Metadata.CombinationType, CombinationSimilar)
	}
	if got := quiz.Metadata.CasesPerCombination; got < 2 || got > 3 {
		t.Errorf("default cases per combination = %d, want 2 or 3", got)
	}
}

func TestGenerateCombinationPoolTooSmall(t *testing.T) {
	bank := casebank.NewBank([]casebank.Case{{
		ID: "case_001", Category: "Anxiety Disorders", AgeGroup: "adult",
		Complexity: "easy", Diagnosis: "Panic Disorder",
		Narrative: "Recurrent panic attacks.", MSE: "Anxious affect.",
	}}, nil)
	g := NewGenerator(bank, nil)

	_, err := g.GenerateCombination(CombinationConfig{
		Config:              Config{Seed: seeded(35)},
		CasesPerCombination: 3,
	})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}
