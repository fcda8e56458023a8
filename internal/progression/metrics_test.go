package progression

import (
	"math"
	"testing"
)

func TestUpdateProficiencyExactCounts(t *testing.T) {
	p := newTestProgress()

	p.UpdateProficiency("Anxiety Disorders", true, 60, 20)
	p.UpdateProficiency("Anxiety Disorders", true, 60, 20)
	p.UpdateProficiency("Anxiety Disorders", false, 90, 5)

	prof := p.Specialties["Anxiety Disorders"]
	if prof == nil {
		t.Fatal("expected specialty record")
	}
	if prof.CasesCompleted != 3 || prof.CorrectCount != 2 {
		t.Errorf("counts = %d completed / %d correct, want 3/2", prof.CasesCompleted, prof.CorrectCount)
	}
	want := 100 * 2.0 / 3.0
	if math.Abs(prof.Accuracy-want) > 1e-9 {
		t.Errorf("accuracy = %v, want %v", prof.Accuracy, want)
	}
	if prof.XPEarned != 45 {
		t.Errorf("XP earned = %d, want 45", prof.XPEarned)
	}
}

func TestUpdateProficiencyLevelFromAccuracy(t *testing.T) {
	p := newTestProgress()

	for i := 0; i < 10; i++ {
		p.UpdateProficiency("Depressive Disorders", true, 45, 10)
	}
	prof := p.Specialties["Depressive Disorders"]
	if prof.Accuracy != 100 {
		t.Fatalf("accuracy = %v, want 100", prof.Accuracy)
	}
	if prof.Level != 10 {
		t.Errorf("level at 100%% accuracy = %d, want 10 (capped)", prof.Level)
	}
}

func TestUpdateProficiencyAwardsSpecialtyMastery(t *testing.T) {
	p := newTestProgress()

	var awarded []string
	for i := 0; i < 10; i++ {
		awarded = p.UpdateProficiency("Depressive Disorders", true, 45, 10)
	}
	if len(awarded) != 1 || awarded[0] != "depressive_disorders_master" {
		t.Fatalf("awards at 10 correct cases = %v, want [depressive_disorders_master]", awarded)
	}
}

func TestRecordResultTotals(t *testing.T) {
	p := newTestProgress()

	p.RecordResult(CaseResult{Correct: true, TimeTaken: 30, Category: "Anxiety Disorders", Difficulty: "beginner"})
	p.RecordResult(CaseResult{Correct: false, TimeTaken: 90, Category: "Anxiety Disorders", Difficulty: "beginner"})

	m := p.Metrics
	if m.TotalCases != 2 || m.CorrectDiagnoses != 1 {
		t.Errorf("totals = %d/%d, want 2 cases, 1 correct", m.TotalCases, m.CorrectDiagnoses)
	}
	if m.OverallAccuracy != 50 {
		t.Errorf("overall accuracy = %v, want 50", m.OverallAccuracy)
	}
	if m.AverageTimePerCase != 60 {
		t.Errorf("average time = %v, want 60", m.AverageTimePerCase)
	}

	g := m.CategoryPerformance["Anxiety Disorders"]
	if g == nil {
		t.Fatal("expected category breakdown entry")
	}
	if g.Total != 2 || g.Correct != 1 || g.Accuracy != 50 || g.AverageTime != 60 {
		t.Errorf("group stats = %+v", *g)
	}
}

func TestRecordResultWindowBound(t *testing.T) {
	p := newTestProgress()
	for i := 0; i < RecentWindowSize+7; i++ {
		p.RecordResult(CaseResult{Correct: true, TimeTaken: 10, Category: "Anxiety Disorders", Difficulty: "beginner"})
	}
	if got := len(p.Metrics.RecentPerformance); got != RecentWindowSize {
		t.Errorf("recent window length = %d, want %d", got, RecentWindowSize)
	}
}

func TestImprovementTrend(t *testing.T) {
	p := newTestProgress()

	// First half all wrong, second half all right: trend should be +100.
	for i := 0; i < 5; i++ {
		p.RecordResult(CaseResult{Correct: false, TimeTaken: 60, Category: "Anxiety Disorders", Difficulty: "beginner"})
	}
	for i := 0; i < 5; i++ {
		p.RecordResult(CaseResult{Correct: true, TimeTaken: 60, Category: "Anxiety Disorders", Difficulty: "beginner"})
	}
	if p.Metrics.ImprovementTrend != 100 {
		t.Errorf("improvement trend = %v, want 100", p.Metrics.ImprovementTrend)
	}
}

func TestImprovementTrendNeedsSamples(t *testing.T) {
	p := newTestProgress()
	for i := 0; i < 9; i++ {
		p.RecordResult(CaseResult{Correct: true, TimeTaken: 60, Category: "Anxiety Disorders", Difficulty: "beginner"})
	}
	if p.Metrics.ImprovementTrend != 0 {
		t.Errorf("trend with fewer than 10 samples = %v, want 0", p.Metrics.ImprovementTrend)
	}
}

func TestRecommendDifficultyColdStart(t *testing.T) {
	p := newTestProgress()
	if got := p.RecommendDifficulty(); got != "beginner" {
		t.Errorf("recommendation with no history = %q, want beginner", got)
	}
}

func TestRecommendDifficultyTiers(t *testing.T) {
	record := func(p *Progress, correct int, total int, timeTaken float64) {
		for i := 0; i < total; i++ {
			p.RecordResult(CaseResult{Correct: i < correct, TimeTaken: timeTaken, Category: "Anxiety Disorders", Difficulty: "beginner"})
		}
	}

	tests := []struct {
		name      string
		correct   int
		timeTaken float64
		level     int
		want      string
	}{
		{"fast and accurate, everything unlocked", 10, 60, 12, "expert"},
		{"fast and accurate, only intermediate unlocked", 10, 60, 3, "intermediate"},
		{"accurate but slow", 10, 180, 12, "advanced"},
		{"solid accuracy", 8, 60, 12, "advanced"},
		{"passing accuracy", 7, 60, 12, "intermediate"},
		{"struggling", 3, 60, 12, "beginner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProgress()
			p.Level = tt.level
			p.refreshLevelUnlocks()
			record(p, tt.correct, 10, tt.timeTaken)
			if got := p.RecommendDifficulty(); got != tt.want {
				t.Errorf("RecommendDifficulty() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnlockRecommendations(t *testing.T) {
	p := newTestProgress()
	p.Streak.CurrentStreak = 8 // 0.8 progress toward perfect_streak

	recs := p.UnlockRecommendations()
	if len(recs) == 0 {
		t.Fatal("expected at least one recommendation")
	}
	found := false
	for _, r := range recs {
		if r.Name == "Perfect Streak" {
			found = true
		}
	}
	if !found {
		t.Error("near-complete achievement should be recommended")
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Kind == recs[i].Kind && recs[i-1].Progress < recs[i].Progress {
			t.Errorf("recommendations not sorted by progress: %v before %v", recs[i-1].Progress, recs[i].Progress)
		}
	}
}
