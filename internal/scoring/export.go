package scoring

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"
)

// ExportFormat selects an export rendering.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportText ExportFormat = "text"
	ExportHTML ExportFormat = "html"
)

// Export renders the evaluated results in the requested format. Each
// rendering is a pure function of the same QuestionResult list.
func (s *Session) Export(format ExportFormat, includeDetails bool) (string, error) {
	if len(s.results) == 0 {
		return "", ErrNoResults
	}

	switch format {
	case ExportJSON:
		return s.exportJSON(includeDetails)
	case ExportCSV:
		return s.exportCSV(includeDetails)
	case ExportText:
		return s.exportText(includeDetails), nil
	case ExportHTML:
		return s.exportHTML(includeDetails), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// DetailedFeedback returns the per-question results from the last scoring
// pass, in question order.
func (s *Session) DetailedFeedback() []QuestionResult {
	return append([]QuestionResult(nil), s.results...)
}

type exportDocument struct {
	SessionInfo struct {
		ScoringMode    Mode      `json:"scoring_mode"`
		SessionStart   time.Time `json:"session_start"`
		ExportedAt     time.Time `json:"export_timestamp"`
		TotalQuestions int       `json:"total_questions"`
	} `json:"session_info"`
	Summary struct {
		CorrectAnswers         int     `json:"correct_answers"`
		IncorrectAnswers       int     `json:"incorrect_answers"`
		TotalScore             float64 `json:"total_score"`
		MaxPossibleScore       float64 `json:"max_possible_score"`
		PercentageScore        float64 `json:"percentage_score"`
		AverageTimePerQuestion float64 `json:"average_time_per_question"`
		TotalTimeSpent         float64 `json:"total_time_spent"`
	} `json:"summary"`
	PerformanceAnalysis struct {
		CategoryPerformance   map[string]*GroupPerformance `json:"category_performance"`
		ComplexityPerformance map[string]*GroupPerformance `json:"complexity_performance"`
		AgeGroupPerformance   map[string]*GroupPerformance `json:"age_group_performance"`
		Difficulty            DifficultyAnalysis           `json:"difficulty_analysis"`
		Time                  TimeAnalysis                 `json:"time_analysis"`
	} `json:"performance_analysis"`
	DetailedFeedback []QuestionResult `json:"detailed_feedback,omitempty"`
}

func (s *Session) exportJSON(includeDetails bool) (string, error) {
	perf := s.performanceStats()

	var doc exportDocument
	doc.SessionInfo.ScoringMode = s.mode
	doc.SessionInfo.SessionStart = s.startedAt
	doc.SessionInfo.ExportedAt = s.now()
	doc.SessionInfo.TotalQuestions = perf.TotalQuestions
	doc.Summary.CorrectAnswers = perf.CorrectAnswers
	doc.Summary.IncorrectAnswers = perf.IncorrectAnswers
	doc.Summary.TotalScore = perf.TotalScore
	doc.Summary.MaxPossibleScore = perf.MaxPossibleScore
	doc.Summary.PercentageScore = perf.PercentageScore
	doc.Summary.AverageTimePerQuestion = perf.AverageTimePerQuestion
	doc.Summary.TotalTimeSpent = perf.TotalTimeSpent
	doc.PerformanceAnalysis.CategoryPerformance = perf.CategoryPerformance
	doc.PerformanceAnalysis.ComplexityPerformance = perf.ComplexityPerformance
	doc.PerformanceAnalysis.AgeGroupPerformance = perf.AgeGroupPerformance
	doc.PerformanceAnalysis.Difficulty = perf.Difficulty
	doc.PerformanceAnalysis.Time = perf.Time
	if includeDetails {
		doc.DetailedFeedback = s.results
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	return string(raw), nil
}

func (s *Session) exportCSV(includeDetails bool) (string, error) {
	perf := s.performanceStats()

	var b strings.Builder
	w := csv.NewWriter(&b)

	rows := [][]string{
		{"SUMMARY"},
		{"Metric", "Value"},
		{"Total Questions", fmt.Sprintf("%d", perf.TotalQuestions)},
		{"Correct Answers", fmt.Sprintf("%d", perf.CorrectAnswers)},
		{"Incorrect Answers", fmt.Sprintf("%d", perf.IncorrectAnswers)},
		{"Total Score", fmt.Sprintf("%.2f", perf.TotalScore)},
		{"Max Possible Score", fmt.Sprintf("%.2f", perf.MaxPossibleScore)},
		{"Percentage Score", fmt.Sprintf("%.2f%%", perf.PercentageScore)},
		{"Average Time per Question", fmt.Sprintf("%.2fs", perf.AverageTimePerQuestion)},
		{"Total Time Spent", fmt.Sprintf("%.2fs", perf.TotalTimeSpent)},
		{},
	}

	if includeDetails {
		rows = append(rows,
			[]string{"DETAILED RESULTS"},
			[]string{
				"Question_Number", "Case_ID", "User_Answer", "Correct_Answer",
				"Is_Correct", "Score", "Max_Score", "Time_Spent",
				"Category", "Age_Group", "Complexity", "Feedback",
			})
		for _, r := range s.results {
			rows = append(rows, []string{
				fmt.Sprintf("%d", r.Number),
				r.CaseID,
				r.UserAnswer,
				r.CorrectAnswer,
				fmt.Sprintf("%t", r.IsCorrect),
				fmt.Sprintf("%.2f", r.Score),
				fmt.Sprintf("%.2f", r.MaxScore),
				fmt.Sprintf("%.2f", r.TimeSpent),
				r.Category,
				r.AgeGroup,
				r.Complexity,
				r.Feedback,
			})
		}
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return b.String(), nil
}

func (s *Session) exportText(includeDetails bool) string {
	perf := s.performanceStats()

	var b strings.Builder
	rule := strings.Repeat("=", 80)
	section := strings.Repeat("-", 40)

	fmt.Fprintf(&b, "%s\nQUIZ RESULTS REPORT\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Scoring Mode: %s\n", strings.ToUpper(string(s.mode)))
	fmt.Fprintf(&b, "Generated: %s\n\n", s.now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "SUMMARY\n%s\n", section)
	fmt.Fprintf(&b, "Total Questions: %d\n", perf.TotalQuestions)
	fmt.Fprintf(&b, "Correct Answers: %d\n", perf.CorrectAnswers)
	fmt.Fprintf(&b, "Incorrect Answers: %d\n", perf.IncorrectAnswers)
	fmt.Fprintf(&b, "Score: %.2f/%.2f\n", perf.TotalScore, perf.MaxPossibleScore)
	fmt.Fprintf(&b, "Percentage: %.2f%%\n", perf.PercentageScore)
	fmt.Fprintf(&b, "Average Time per Question: %.2fs\n", perf.AverageTimePerQuestion)
	fmt.Fprintf(&b, "Total Time: %.2fs\n\n", perf.TotalTimeSpent)

	writeGroupSection(&b, "PERFORMANCE BY CATEGORY", perf.CategoryPerformance)
	writeGroupSection(&b, "PERFORMANCE BY COMPLEXITY", perf.ComplexityPerformance)

	if includeDetails {
		fmt.Fprintf(&b, "DETAILED FEEDBACK\n%s\n", section)
		for _, r := range s.results {
			fmt.Fprintf(&b, "Question %d (Case: %s)\n", r.Number, r.CaseID)
			answer := r.UserAnswer
			if !r.Answered {
				answer = "Not answered"
			}
			fmt.Fprintf(&b, "  Your Answer: %s\n", answer)
			fmt.Fprintf(&b, "  Correct Answer: %s\n", r.CorrectAnswer)
			fmt.Fprintf(&b, "  Score: %.2f/%.2f\n", r.Score, r.MaxScore)
			fmt.Fprintf(&b, "  Time: %.1fs\n", r.TimeSpent)
			fmt.Fprintf(&b, "  Feedback: %s\n", r.Feedback)
			if r.PartialCreditReason != "" {
				fmt.Fprintf(&b, "  Partial Credit: %s\n", r.PartialCreditReason)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}

func writeGroupSection(b *strings.Builder, title string, groups map[string]*GroupPerformance) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n%s\n", title, strings.Repeat("-", 40))
	for _, key := range sortedKeys(groups) {
		g := groups[key]
		fmt.Fprintf(b, "%s:\n", key)
		fmt.Fprintf(b, "  Accuracy: %.1f%% (%d/%d)\n", g.Accuracy, g.Correct, g.Total)
		fmt.Fprintf(b, "  Avg Score: %.2f\n", g.AverageScore)
		fmt.Fprintf(b, "  Avg Time: %.1fs\n\n", g.AverageTime)
	}
}

func (s *Session) exportHTML(includeDetails bool) string {
	perf := s.performanceStats()

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
    <title>Quiz Results Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #f0f0f0; padding: 20px; border-radius: 5px; }
        .summary { margin: 20px 0; }
        .performance-section { margin: 20px 0; }
        table { border-collapse: collapse; width: 100%; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
        .correct { background-color: #d4edda; }
        .incorrect { background-color: #f8d7da; }
        .partial { background-color: #fff3cd; }
    </style>
</head>
<body>
`)

	fmt.Fprintf(&b, `    <div class="header">
        <h1>Quiz Results Report</h1>
        <p><strong>Scoring Mode:</strong> %s</p>
        <p><strong>Generated:</strong> %s</p>
    </div>
`, strings.ToUpper(string(s.mode)), s.now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, `    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Total Questions:</strong> %d</p>
        <p><strong>Correct Answers:</strong> %d</p>
        <p><strong>Incorrect Answers:</strong> %d</p>
        <p><strong>Score:</strong> %.2f/%.2f</p>
        <p><strong>Percentage:</strong> %.2f%%</p>
        <p><strong>Average Time per Question:</strong> %.2fs</p>
        <p><strong>Total Time:</strong> %.2fs</p>
    </div>
`, perf.TotalQuestions, perf.CorrectAnswers, perf.IncorrectAnswers,
		perf.TotalScore, perf.MaxPossibleScore, perf.PercentageScore,
		perf.AverageTimePerQuestion, perf.TotalTimeSpent)

	if len(perf.CategoryPerformance) > 0 {
		b.WriteString(`    <div class="performance-section">
        <h2>Performance by Category</h2>
        <table>
            <tr><th>Category</th><th>Accuracy</th><th>Average Score</th><th>Average Time</th></tr>
`)
		for _, key := range sortedKeys(perf.CategoryPerformance) {
			g := perf.CategoryPerformance[key]
			fmt.Fprintf(&b, "            <tr><td>%s</td><td>%.1f%%</td><td>%.2f</td><td>%.1fs</td></tr>\n",
				html.EscapeString(key), g.Accuracy, g.AverageScore, g.AverageTime)
		}
		b.WriteString("        </table>\n    </div>\n")
	}

	if includeDetails {
		b.WriteString(`    <div class="performance-section">
        <h2>Detailed Feedback</h2>
        <table>
            <tr><th>Question</th><th>Case ID</th><th>Your Answer</th><th>Correct Answer</th><th>Score</th><th>Time</th><th>Feedback</th></tr>
`)
		for _, r := range s.results {
			cssClass := "incorrect"
			if r.IsCorrect {
				cssClass = "correct"
			} else if r.Score > 0 && r.Score < 1 {
				cssClass = "partial"
			}
			answer := r.UserAnswer
			if !r.Answered {
				answer = "Not answered"
			}
			fmt.Fprintf(&b, "            <tr class=\"%s\"><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%.2f/%.2f</td><td>%.1fs</td><td>%s</td></tr>\n",
				cssClass, r.Number, html.EscapeString(r.CaseID), html.EscapeString(answer),
				html.EscapeString(r.CorrectAnswer), r.Score, r.MaxScore, r.TimeSpent,
				html.EscapeString(r.Feedback))
		}
		b.WriteString("        </table>\n    </div>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func sortedKeys(groups map[string]*GroupPerformance) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
