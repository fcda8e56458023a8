package scoring

import "fmt"

// PerformanceReport bundles the statistics with personalized guidance.
type PerformanceReport struct {
	ScoringMode         Mode             `json:"scoring_mode"`
	Stats               PerformanceStats `json:"performance_metrics"`
	DetailedFeedback    []QuestionResult `json:"detailed_feedback"`
	Recommendations     []string         `json:"recommendations"`
	Strengths           []string         `json:"strengths"`
	AreasForImprovement []string         `json:"areas_for_improvement"`
}

// Report builds a comprehensive performance report from the last scoring
// pass.
func (s *Session) Report() (PerformanceReport, error) {
	if len(s.results) == 0 {
		return PerformanceReport{}, ErrNoResults
	}

	perf := s.performanceStats()
	return PerformanceReport{
		ScoringMode:         s.mode,
		Stats:               perf,
		DetailedFeedback:    s.DetailedFeedback(),
		Recommendations:     recommendations(perf),
		Strengths:           strengths(perf),
		AreasForImprovement: weaknesses(perf),
	}, nil
}

func recommendations(perf PerformanceStats) []string {
	var recs []string

	switch {
	case perf.PercentageScore < 60:
		recs = append(recs, "Consider reviewing fundamental diagnostic criteria and case presentations.")
	case perf.PercentageScore < 80:
		recs = append(recs, "Good performance! Focus on differential diagnosis to improve further.")
	default:
		recs = append(recs, "Excellent performance! Consider advanced cases or time-based challenges.")
	}

	for _, category := range sortedKeys(perf.CategoryPerformance) {
		g := perf.CategoryPerformance[category]
		if g.Accuracy < 50 {
			recs = append(recs, fmt.Sprintf("Review %s cases - accuracy is %.1f%%", category, g.Accuracy))
		}
	}

	threshold := float64(perf.TotalQuestions) * 0.3
	if float64(perf.Time.Over2Minutes) > threshold {
		recs = append(recs, "Practice time management - many questions took over 2 minutes.")
	} else if float64(perf.Time.Under30Seconds) > threshold {
		recs = append(recs, "Consider spending more time on each question for better accuracy.")
	}

	if g, ok := advancedComplexityGroup(perf); ok && g.Accuracy < 60 {
		recs = append(recs, "Build foundation with basic and intermediate cases before attempting advanced ones.")
	}

	return recs
}

func strengths(perf PerformanceStats) []string {
	var out []string

	for _, category := range sortedKeys(perf.CategoryPerformance) {
		if g := perf.CategoryPerformance[category]; g.Accuracy >= 80 {
			out = append(out, fmt.Sprintf("Strong performance in %s (%.1f%% accuracy)", category, g.Accuracy))
		}
	}
	for _, complexity := range sortedKeys(perf.ComplexityPerformance) {
		if g := perf.ComplexityPerformance[complexity]; g.Accuracy >= 80 {
			out = append(out, fmt.Sprintf("Excellent with %s complexity cases", complexity))
		}
	}
	if perf.Time.EfficiencyScore >= 70 {
		out = append(out, "Good time management during the quiz")
	}
	if perf.PercentageScore >= 85 {
		out = append(out, "Overall excellent diagnostic accuracy")
	}

	return out
}

func weaknesses(perf PerformanceStats) []string {
	var out []string

	for _, category := range sortedKeys(perf.CategoryPerformance) {
		if g := perf.CategoryPerformance[category]; g.Accuracy < 60 {
			out = append(out, fmt.Sprintf("Needs improvement in %s (%.1f%% accuracy)", category, g.Accuracy))
		}
	}
	for _, complexity := range sortedKeys(perf.ComplexityPerformance) {
		if g := perf.ComplexityPerformance[complexity]; g.Accuracy < 60 {
			out = append(out, fmt.Sprintf("Struggles with %s complexity cases", complexity))
		}
	}
	if perf.Time.EfficiencyScore < 40 {
		out = append(out, "Time management needs improvement")
	}
	if perf.PercentageScore < 60 {
		out = append(out, "Overall diagnostic accuracy needs improvement")
	}

	return out
}
