package progression

// RecordResult folds one case outcome into the rolling performance metrics:
// overall totals, per-category and per-difficulty breakdowns, the
// recent-performance window, and the improvement trend.
func (p *Progress) RecordResult(result CaseResult) {
	m := &p.Metrics

	m.TotalCases++
	if result.Correct {
		m.CorrectDiagnoses++
	}
	m.OverallAccuracy = 100 * float64(m.CorrectDiagnoses) / float64(m.TotalCases)

	// Weighted running mean, so recomputation never revisits old samples.
	m.AverageTimePerCase = (m.AverageTimePerCase*float64(m.TotalCases-1) + result.TimeTaken) / float64(m.TotalCases)

	if result.Category != "" {
		updateGroup(m.CategoryPerformance, result.Category, result)
	}
	if result.Difficulty != "" {
		updateGroup(m.DifficultyPerformance, result.Difficulty, result)
	}

	sample := PerformanceSample{
		Timestamp:  p.now(),
		TimeTaken:  result.TimeTaken,
		Category:   result.Category,
		Difficulty: result.Difficulty,
	}
	if result.Correct {
		sample.Accuracy = 100
	}
	m.RecentPerformance = append(m.RecentPerformance, sample)
	if len(m.RecentPerformance) > RecentWindowSize {
		m.RecentPerformance = m.RecentPerformance[len(m.RecentPerformance)-RecentWindowSize:]
	}

	m.ImprovementTrend = improvementTrend(m.RecentPerformance)
}

func updateGroup(groups map[string]*GroupStats, key string, result CaseResult) {
	g, ok := groups[key]
	if !ok {
		g = &GroupStats{}
		groups[key] = g
	}
	g.Total++
	if result.Correct {
		g.Correct++
	}
	g.TotalTime += result.TimeTaken
	g.Accuracy = 100 * float64(g.Correct) / float64(g.Total)
	g.AverageTime = g.TotalTime / float64(g.Total)
}

// improvementTrend compares mean accuracy of the second half of the recent
// window against the first half. Needs at least 10 samples to be meaningful.
func improvementTrend(window []PerformanceSample) float64 {
	if len(window) < 10 {
		return 0.0
	}
	mid := len(window) / 2
	return meanAccuracy(window[mid:]) - meanAccuracy(window[:mid])
}

func meanAccuracy(samples []PerformanceSample) float64 {
	if len(samples) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s.Accuracy
	}
	return sum / float64(len(samples))
}
