package quizgen

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/abhisek/caseprep/internal/casebank"
)

func testPool(t *testing.T) *diagnosisPool {
	t.Helper()
	g := NewGenerator(testBank(), nil)
	pool, err := g.loadDiagnosisPool()
	if err != nil {
		t.Fatalf("loadDiagnosisPool() error = %v", err)
	}
	return pool
}

func sampleCaseForQuestions() casebank.Case {
	return casebank.Case{
		ID:         "case_001",
		Category:   "Depressive Disorders",
		AgeGroup:   "adult",
		Complexity: "moderate",
		Diagnosis:  "Major Depressive Disorder",
		Narrative:  "A 40-year-old presents with two months of depressed mood and anhedonia. Appetite is reduced. Sleep is fragmented.",
		MSE:        "Psychomotor retardation. Affect flat. Denies hallucinations.",
	}
}

func TestStandardQuestionOptionIntegrity(t *testing.T) {
	pool := testPool(t)
	c := sampleCaseForQuestions()

	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		q := buildStandardQuestion(rng, c, pool, 4, 1)

		if len(q.Options) != 4 {
			t.Fatalf("seed %d: %d options, want 4", seed, len(q.Options))
		}

		seen := make(map[string]bool)
		correctCount := 0
		for i, opt := range q.Options {
			if opt.ID != i {
				t.Errorf("seed %d: option %d has id %d", seed, i, opt.ID)
			}
			if seen[opt.Diagnosis] {
				t.Errorf("seed %d: duplicate option label %q", seed, opt.Diagnosis)
			}
			seen[opt.Diagnosis] = true
			if opt.Diagnosis == c.Diagnosis {
				correctCount++
			}
		}
		if correctCount != 1 {
			t.Errorf("seed %d: true diagnosis appears %d times, want exactly once", seed, correctCount)
		}
		if q.Options[q.CorrectIndex].Diagnosis != c.Diagnosis {
			t.Errorf("seed %d: correct index points at %q", seed, q.Options[q.CorrectIndex].Diagnosis)
		}
		if q.CorrectAnswer != c.Diagnosis {
			t.Errorf("seed %d: correct answer = %q", seed, q.CorrectAnswer)
		}
	}
}

func TestDecorationPreservesDiagnosisLabel(t *testing.T) {
	pool := testPool(t)
	c := sampleCaseForQuestions()

	// Decoration is probabilistic; scan many seeds so some options carry a
	// specifier suffix.
	decorated := false
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		q := buildStandardQuestion(rng, c, pool, 4, 1)
		for _, opt := range q.Options {
			if !strings.HasPrefix(opt.Text, opt.Diagnosis) {
				t.Fatalf("option text %q does not extend label %q", opt.Text, opt.Diagnosis)
			}
			if opt.Text != opt.Diagnosis {
				decorated = true
				if !strings.Contains(opt.Text, ", ") {
					t.Errorf("decorated text %q missing specifier separator", opt.Text)
				}
			}
		}
	}
	if !decorated {
		t.Error("expected at least one decorated option across 50 seeds")
	}
}

func TestGenerateDistractorsFallsBackToGenerics(t *testing.T) {
	// A pool with a single diagnosis forces the generic fallback.
	bank := casebank.NewBank(nil, []casebank.Diagnosis{
		{Name: "Major Depressive Disorder", Category: "Depressive Disorders"},
	})
	g := NewGenerator(bank, nil)
	pool, err := g.loadDiagnosisPool()
	if err != nil {
		t.Fatalf("loadDiagnosisPool() error = %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	distractors := generateDistractors(rng, "Major Depressive Disorder", "Depressive Disorders", pool, 3)
	if len(distractors) != 3 {
		t.Fatalf("got %d distractors, want 3", len(distractors))
	}
	for _, d := range distractors {
		if !strings.HasPrefix(d, "Other ") {
			t.Errorf("expected generic distractor, got %q", d)
		}
	}
}

func TestSmartDistractorsPreferSimilar(t *testing.T) {
	pool := testPool(t)
	rng := rand.New(rand.NewSource(1))

	distractors := generateSmartDistractors(rng, "Generalized Anxiety Disorder", "Anxiety Disorders", pool, 3)
	if len(distractors) != 3 {
		t.Fatalf("got %d distractors, want 3", len(distractors))
	}
	similar := clinicalSimilarityMap["Anxiety Disorders"]
	for _, d := range distractors {
		if d == "Generalized Anxiety Disorder" {
			t.Fatal("correct answer leaked into distractors")
		}
		if !containsLabel(similar, d) {
			t.Errorf("distractor %q is not from the similarity table", d)
		}
	}
}

func TestSmartDistractorsFillQuota(t *testing.T) {
	// A catalog holding exactly the similarity-table entries: the category
	// fallback only re-offers names already drawn, so generics must fill the
	// remainder.
	bank := casebank.NewBank(nil, []casebank.Diagnosis{
		{Name: "Generalized Anxiety Disorder", Category: "Anxiety Disorders"},
		{Name: "Panic Disorder", Category: "Anxiety Disorders"},
		{Name: "Social Anxiety Disorder", Category: "Anxiety Disorders"},
		{Name: "Specific Phobia", Category: "Anxiety Disorders"},
	})
	g := NewGenerator(bank, nil)
	pool, err := g.loadDiagnosisPool()
	if err != nil {
		t.Fatalf("loadDiagnosisPool() error = %v", err)
	}

	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		distractors := generateSmartDistractors(rng, "Panic Disorder", "Anxiety Disorders", pool, 5)
		if len(distractors) != 5 {
			t.Fatalf("seed %d: got %d distractors, want 5", seed, len(distractors))
		}
		seen := make(map[string]bool)
		for _, d := range distractors {
			if d == "Panic Disorder" {
				t.Fatalf("seed %d: correct answer leaked into distractors", seed)
			}
			if seen[d] {
				t.Errorf("seed %d: duplicate distractor %q", seed, d)
			}
			seen[d] = true
		}
	}
}

func TestDifferentialQuestionKeepsChoiceCount(t *testing.T) {
	bank := casebank.NewBank(nil, []casebank.Diagnosis{
		{Name: "Generalized Anxiety Disorder", Category: "Anxiety Disorders"},
		{Name: "Panic Disorder", Category: "Anxiety Disorders"},
		{Name: "Social Anxiety Disorder", Category: "Anxiety Disorders"},
		{Name: "Specific Phobia", Category: "Anxiety Disorders"},
	})
	g := NewGenerator(bank, nil)
	pool, err := g.loadDiagnosisPool()
	if err != nil {
		t.Fatalf("loadDiagnosisPool() error = %v", err)
	}

	c := casebank.Case{
		ID: "case_010", Category: "Anxiety Disorders", AgeGroup: "adult",
		Complexity: "moderate", Diagnosis: "Panic Disorder",
		Narrative: "Recurrent unexpected panic attacks with persistent worry.",
		MSE:       "Anxious affect, no psychotic features.",
	}
	rng := rand.New(rand.NewSource(3))
	q := buildDifferentialQuestion(rng, c, pool, 6, 1)
	if len(q.Options) != 6 {
		t.Fatalf("differential question has %d options, want 6", len(q.Options))
	}
	labels := make(map[string]bool)
	for _, opt := range q.Options {
		labels[opt.Diagnosis] = true
	}
	if len(labels) != 6 {
		t.Errorf("options carry %d distinct labels, want 6", len(labels))
	}
	if !labels["Panic Disorder"] {
		t.Error("true diagnosis missing from options")
	}
}

func TestExtractKeySymptoms(t *testing.T) {
	c := casebank.Case{
		Narrative: "Patient is depressed and anxious, with paranoid ideation.",
		MSE:       "Agitated, irritable, and withdrawn on examination.",
	}
	symptoms := extractKeySymptoms(c)
	if len(symptoms) != maxKeySymptoms {
		t.Fatalf("got %d symptoms, want %d", len(symptoms), maxKeySymptoms)
	}
	// Vocabulary order, capped at five.
	want := []string{"depressed", "anxious", "paranoid", "withdrawn", "agitated"}
	for i, s := range symptoms {
		if s != want[i] {
			t.Errorf("symptom[%d] = %q, want %q", i, s, want[i])
		}
	}
}

func TestExplanationFallback(t *testing.T) {
	got := explanationFor("Unknown Category", "Some Disorder")
	if !strings.Contains(got, "Some Disorder") {
		t.Errorf("fallback explanation should name the diagnosis, got %q", got)
	}
	if referenceFor("Unknown Category") == "" {
		t.Error("fallback reference should not be empty")
	}
}

func TestMatchingQuizIntegrity(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := DefaultConfig()
	cfg.Seed = seeded(21)
	cfg.NumQuestions = 3
	cfg.MultiCaseMatching = true
	cfg.Shuffle = false

	quiz, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(quiz.Questions) != 3 {
		t.Fatalf("got %d matching questions, want 3", len(quiz.Questions))
	}

	for _, q := range quiz.Questions {
		if q.Type != TypeMultiCaseMatching {
			t.Errorf("question %d type = %q", q.Number, q.Type)
		}
		if len(q.Cases) != casesPerMatchingQuestion {
			t.Fatalf("question %d has %d cases, want %d", q.Number, len(q.Cases), casesPerMatchingQuestion)
		}
		if len(q.DiagnosisOptions) != len(q.Cases) {
			t.Errorf("question %d has %d options for %d cases", q.Number, len(q.DiagnosisOptions), len(q.Cases))
		}
		if len(q.CorrectMapping) != len(q.Cases) {
			t.Errorf("question %d mapping has %d entries", q.Number, len(q.CorrectMapping))
		}
		optionLabels := make(map[string]bool)
		for _, opt := range q.DiagnosisOptions {
			optionLabels[opt.Diagnosis] = true
		}
		for _, c := range q.Cases {
			want, ok := q.CorrectMapping[c.CaseID]
			if !ok {
				t.Errorf("question %d mapping missing case %s", q.Number, c.CaseID)
				continue
			}
			if !optionLabels[want] {
				t.Errorf("question %d: mapped diagnosis %q absent from options", q.Number, want)
			}
			if c.ChiefComplaint == "" || c.History == "" {
				t.Errorf("question %d case %s missing summary text", q.Number, c.CaseID)
			}
		}
	}
}

func TestMatchingDiscardsPartialGroups(t *testing.T) {
	g := NewGenerator(testBank(), nil)

	cfg := DefaultConfig()
	cfg.Seed = seeded(22)
	cfg.NumQuestions = 4
	cfg.MultiCaseMatching = true
	// 10 matching cases fill three buckets; the leftover is discarded.
	cfg.Categories = []string{"Anxiety Disorders", "Depressive Disorders"}

	quiz, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(quiz.Questions) != 3 {
		t.Errorf("got %d questions, want 3 full buckets", len(quiz.Questions))
	}
}

func TestExtractChiefComplaintAndHistory(t *testing.T) {
	c := casebank.Case{Narrative: "First sentence. Second sentence. Third sentence. Fourth sentence."}
	if got := extractChiefComplaint(c); got != "First sentence." {
		t.Errorf("chief complaint = %q", got)
	}
	if got := extractHistory(c); got != "Second sentence. Third sentence." {
		t.Errorf("history = %q", got)
	}

	empty := casebank.Case{Narrative: ""}
	if got := extractChiefComplaint(empty); got != "Chief complaint not specified." {
		t.Errorf("empty chief complaint = %q", got)
	}
	if got := extractHistory(empty); got != "History not detailed." {
		t.Errorf("empty history = %q", got)
	}
}
