package scoring

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/abhisek/caseprep/internal/logging"
)

// CalculateScores evaluates every question (unanswered ones score 0),
// produces aggregate statistics, and drives progression updates when a
// progression reference was supplied at construction.
func (s *Session) CalculateScores() (PerformanceStats, error) {
	if s.quiz == nil {
		return PerformanceStats{}, ErrSessionNotStarted
	}

	s.results = s.results[:0]
	for _, q := range s.quiz.Questions {
		if a, ok := s.answers[q.Number]; ok {
			s.results = append(s.results, s.evaluateQuestion(q, a))
		} else {
			s.results = append(s.results, s.unansweredResult(q))
		}
	}

	perf := s.performanceStats()

	if s.progress != nil {
		s.updateProgression(perf)
	}

	return perf, nil
}

// Results returns the per-question evaluation outcomes from the last
// CalculateScores call.
func (s *Session) Results() []QuestionResult {
	return s.results
}

func (s *Session) performanceStats() PerformanceStats {
	total := len(s.results)
	correct := 0
	totalScore := 0.0
	totalTime := 0.0
	for _, r := range s.results {
		if r.IsCorrect {
			correct++
		}
		totalScore += r.Score
		totalTime += r.TimeSpent
	}

	perf := PerformanceStats{
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		IncorrectAnswers: total - correct,
		TotalScore:       totalScore,
		MaxPossibleScore: float64(total),
		TotalTimeSpent:   totalTime,

		CategoryPerformance:   groupBy(s.results, func(r QuestionResult) string { return r.Category }),
		ComplexityPerformance: groupBy(s.results, func(r QuestionResult) string { return r.Complexity }),
		AgeGroupPerformance:   groupBy(s.results, func(r QuestionResult) string { return r.AgeGroup }),

		Difficulty: analyzeDifficulty(s.results),
		Time:       analyzeTime(s.results),
	}
	if total > 0 {
		perf.PercentageScore = totalScore / float64(total) * 100
		perf.AverageTimePerQuestion = totalTime / float64(total)
	}
	return perf
}

func groupBy(results []QuestionResult, key func(QuestionResult) string) map[string]*GroupPerformance {
	groups := make(map[string]*GroupPerformance)
	for _, r := range results {
		k := key(r)
		if k == "" {
			continue
		}
		g, ok := groups[k]
		if !ok {
			g = &GroupPerformance{}
			groups[k] = g
		}
		g.Total++
		if r.IsCorrect {
			g.Correct++
		}
		g.Score += r.Score
		g.Time += r.TimeSpent
	}
	for _, g := range groups {
		g.Accuracy = float64(g.Correct) / float64(g.Total) * 100
		g.AverageScore = g.Score / float64(g.Total)
		g.AverageTime = g.Time / float64(g.Total)
	}
	return groups
}

const rankedQuestionCount = 3

// analyzeDifficulty ranks questions by score, surfacing the three lowest and
// three highest scorers.
func analyzeDifficulty(results []QuestionResult) DifficultyAnalysis {
	if len(results) == 0 {
		return DifficultyAnalysis{}
	}

	ranked := append([]QuestionResult(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score < ranked[j].Score })

	toRanked := func(rs []QuestionResult) []RankedQuestion {
		out := make([]RankedQuestion, len(rs))
		for i, r := range rs {
			out[i] = RankedQuestion{
				Number:     r.Number,
				CaseID:     r.CaseID,
				Score:      r.Score,
				Category:   r.Category,
				Complexity: r.Complexity,
			}
		}
		return out
	}

	n := rankedQuestionCount
	if n > len(ranked) {
		n = len(ranked)
	}

	easiest := make([]QuestionResult, n)
	for i := 0; i < n; i++ {
		easiest[i] = ranked[len(ranked)-1-i]
	}

	sum := 0.0
	for _, r := range results {
		sum += r.Score
	}

	return DifficultyAnalysis{
		MostDifficult: toRanked(ranked[:n]),
		Easiest:       toRanked(easiest),
		AverageScore:  sum / float64(len(results)),
	}
}

// analyzeTime summarizes timing patterns. Dispersion metrics use the
// population standard deviation since the session is the whole population,
// not a sample.
func analyzeTime(results []QuestionResult) TimeAnalysis {
	if len(results) == 0 {
		return TimeAnalysis{}
	}

	times := make([]float64, len(results))
	under30 := 0
	over120 := 0
	for i, r := range results {
		times[i] = r.TimeSpent
		if r.TimeSpent < 30 {
			under30++
		}
		if r.TimeSpent > 120 {
			over120++
		}
	}

	min, err := stats.Min(times)
	if err != nil {
		logging.Warnf("time analysis failed: %v", err)
		return TimeAnalysis{}
	}
	max, _ := stats.Max(times)
	median, _ := stats.Median(times)
	stdDev, _ := stats.StandardDeviationPopulation(times)

	return TimeAnalysis{
		Fastest:         min,
		Slowest:         max,
		Median:          median,
		StdDev:          stdDev,
		EfficiencyScore: timeEfficiency(results),
		Under30Seconds:  under30,
		Over2Minutes:    over120,
	}
}

// timeEfficiency scores accuracy against time normalized to a 60-second
// baseline, capped at twice the baseline before division, scaled to 0-100.
func timeEfficiency(results []QuestionResult) float64 {
	if len(results) == 0 {
		return 0.0
	}

	correct := 0
	totalTime := 0.0
	for _, r := range results {
		if r.IsCorrect {
			correct++
		}
		totalTime += r.TimeSpent
	}
	avgAccuracy := float64(correct) / float64(len(results))
	avgTime := totalTime / float64(len(results))
	if avgTime == 0 {
		return 0.0
	}

	normalizedTime := avgTime / 60.0
	if normalizedTime > 2.0 {
		normalizedTime = 2.0
	}

	efficiency := avgAccuracy / normalizedTime * 100
	if efficiency > 100 {
		efficiency = 100
	}
	return efficiency
}
