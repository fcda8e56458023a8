package scoring

import (
	"math"
	"testing"

	"github.com/abhisek/caseprep/internal/quizgen"
)

func scoredSession(t *testing.T, answers map[int]string, times map[int]float64) *Session {
	t.Helper()
	s := NewSession(ModeStrict)
	if err := s.Start(testQuiz()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for n, a := range answers {
		if err := s.RecordAnswer(n, a, times[n]); err != nil {
			t.Fatalf("RecordAnswer(%d) error = %v", n, err)
		}
	}
	if _, err := s.CalculateScores(); err != nil {
		t.Fatalf("CalculateScores() error = %v", err)
	}
	return s
}

func TestPerformanceBreakdowns(t *testing.T) {
	s := scoredSession(t,
		map[int]string{1: "Major Depressive Disorder", 2: "wrong", 3: "Schizophrenia"},
		map[int]float64{1: 20, 2: 130, 3: 50},
	)
	perf := s.performanceStats()

	dep := perf.CategoryPerformance["Depressive Disorders"]
	if dep == nil || dep.Accuracy != 100 {
		t.Errorf("depressive category = %+v, want 100%% accuracy", dep)
	}
	anx := perf.CategoryPerformance["Anxiety Disorders"]
	if anx == nil || anx.Accuracy != 0 {
		t.Errorf("anxiety category = %+v, want 0%% accuracy", anx)
	}

	easy := perf.ComplexityPerformance["easy"]
	if easy == nil || easy.Total != 1 || easy.Correct != 1 {
		t.Errorf("easy complexity = %+v", easy)
	}

	if got := perf.AgeGroupPerformance["adult"]; got == nil || got.Total != 3 {
		t.Errorf("adult age group = %+v, want all 3 questions", got)
	}
}

func TestDifficultyAnalysis(t *testing.T) {
	s := scoredSession(t,
		map[int]string{1: "Major Depressive Disorder", 2: "wrong", 3: "Schizophrenia"},
		map[int]float64{1: 20, 2: 130, 3: 50},
	)
	perf := s.performanceStats()

	if len(perf.Difficulty.MostDifficult) != 3 || len(perf.Difficulty.Easiest) != 3 {
		t.Fatalf("ranked lists = %d/%d entries, want 3/3",
			len(perf.Difficulty.MostDifficult), len(perf.Difficulty.Easiest))
	}
	if perf.Difficulty.MostDifficult[0].Number != 2 {
		t.Errorf("most difficult = question %d, want the missed question 2", perf.Difficulty.MostDifficult[0].Number)
	}
	if perf.Difficulty.Easiest[0].Score != 1.0 {
		t.Errorf("easiest score = %v, want 1.0", perf.Difficulty.Easiest[0].Score)
	}
	want := 2.0 / 3.0
	if math.Abs(perf.Difficulty.AverageScore-want) > 1e-9 {
		t.Errorf("average difficulty score = %v, want %v", perf.Difficulty.AverageScore, want)
	}
}

func TestTimeAnalysis(t *testing.T) {
	s := scoredSession(t,
		map[int]string{1: "Major Depressive Disorder", 2: "Panic Disorder", 3: "Schizophrenia"},
		map[int]float64{1: 20, 2: 130, 3: 60},
	)
	perf := s.performanceStats()

	if perf.Time.Fastest != 20 || perf.Time.Slowest != 130 {
		t.Errorf("fastest/slowest = %v/%v, want 20/130", perf.Time.Fastest, perf.Time.Slowest)
	}
	if perf.Time.Median != 60 {
		t.Errorf("median = %v, want 60", perf.Time.Median)
	}
	if perf.Time.Under30Seconds != 1 || perf.Time.Over2Minutes != 1 {
		t.Errorf("under30/over120 = %d/%d, want 1/1", perf.Time.Under30Seconds, perf.Time.Over2Minutes)
	}
	if perf.Time.StdDev <= 0 {
		t.Errorf("std dev = %v, want > 0", perf.Time.StdDev)
	}
	if perf.Time.EfficiencyScore <= 0 || perf.Time.EfficiencyScore > 100 {
		t.Errorf("efficiency = %v, want in (0,100]", perf.Time.EfficiencyScore)
	}
}

func TestTimeEfficiencyCaps(t *testing.T) {
	results := []QuestionResult{
		{IsCorrect: true, TimeSpent: 10},
		{IsCorrect: true, TimeSpent: 10},
	}
	if got := timeEfficiency(results); got != 100 {
		t.Errorf("fast perfect run efficiency = %v, want capped at 100", got)
	}

	slow := []QuestionResult{
		{IsCorrect: true, TimeSpent: 300},
		{IsCorrect: false, TimeSpent: 300},
	}
	// Normalized time caps at 2.0: 0.5 accuracy / 2.0 * 100 = 25.
	if got := timeEfficiency(slow); got != 25 {
		t.Errorf("slow run efficiency = %v, want 25", got)
	}
}

func TestReportGuidance(t *testing.T) {
	s := NewSession(ModeStrict)
	if _, err := s.Report(); err != ErrNoResults {
		t.Errorf("Report before scoring: error = %v, want ErrNoResults", err)
	}

	s = scoredSession(t,
		map[int]string{1: "Major Depressive Disorder", 2: "Panic Disorder", 3: "Schizophrenia"},
		map[int]float64{1: 40, 2: 50, 3: 45},
	)
	report, err := s.Report()
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if report.ScoringMode != ModeStrict {
		t.Errorf("report mode = %q", report.ScoringMode)
	}
	if len(report.Recommendations) == 0 {
		t.Error("report should always carry at least one recommendation")
	}
	if len(report.Strengths) == 0 {
		t.Error("perfect session should list strengths")
	}
	if len(report.AreasForImprovement) != 0 {
		t.Errorf("perfect session lists weaknesses: %v", report.AreasForImprovement)
	}
	if len(report.DetailedFeedback) != 3 {
		t.Errorf("detailed feedback has %d entries, want 3", len(report.DetailedFeedback))
	}
}

func TestReportFlagsWeakCategories(t *testing.T) {
	s := scoredSession(t,
		map[int]string{1: "wrong", 2: "wrong", 3: "wrong"},
		map[int]float64{1: 40, 2: 50, 3: 45},
	)
	report, err := s.Report()
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if len(report.AreasForImprovement) == 0 {
		t.Error("all-wrong session should list weaknesses")
	}
	if len(report.Strengths) != 0 {
		t.Errorf("all-wrong session lists strengths: %v", report.Strengths)
	}
}

func TestEvaluateMatchingInQuiz(t *testing.T) {
	quiz := &quizgen.Quiz{
		Metadata: quizgen.Metadata{QuizID: "quiz-matching", TotalQuestions: 1},
		Questions: []quizgen.Question{{
			Number: 1,
			Type:   quizgen.TypeMultiCaseMatching,
			Text:   "Match each case to the most appropriate diagnosis.",
			DiagnosisOptions: []quizgen.Option{
				{ID: 0, Text: "Panic Disorder", Diagnosis: "Panic Disorder"},
				{ID: 1, Text: "Schizophrenia", Diagnosis: "Schizophrenia"},
			},
			CorrectMapping: map[string]string{
				"case_001": "Panic Disorder",
				"case_002": "Schizophrenia",
			},
		}},
	}

	s := NewSession(ModeStrict)
	if err := s.Start(quiz); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.RecordMatchingAnswer(1, map[string]string{
		"case_001": "Panic Disorder",
		"case_002": "Panic Disorder",
	}, 80); err != nil {
		t.Fatalf("RecordMatchingAnswer() error = %v", err)
	}

	perf, err := s.CalculateScores()
	if err != nil {
		t.Fatalf("CalculateScores() error = %v", err)
	}
	if perf.TotalScore != 0.5 {
		t.Errorf("total score = %v, want 0.5", perf.TotalScore)
	}
	if perf.CorrectAnswers != 0 {
		t.Errorf("correct answers = %d, want 0 for a partial match", perf.CorrectAnswers)
	}
}
