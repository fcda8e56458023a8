package quizgen

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText renders a quiz as a human-readable transcript with the correct
// option marked.
func FormatText(quiz *Quiz) string {
	var b strings.Builder
	rule := strings.Repeat("=", 80)

	fmt.Fprintf(&b, "%s\nDIAGNOSIS QUIZ\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Total Questions: %d\n", quiz.Metadata.TotalQuestions)
	fmt.Fprintf(&b, "Choices per Question: %d\n", quiz.Metadata.NumChoices)
	fmt.Fprintf(&b, "Generated: %s\n\n", quiz.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"))

	for _, q := range quiz.Questions {
		fmt.Fprintf(&b, "Question %d\n%s\n%s\n\n", q.Number, strings.Repeat("-", 40), q.Text)

		for i, opt := range q.Options {
			marker := " "
			if i == q.CorrectIndex {
				marker = "*"
			}
			fmt.Fprintf(&b, "%s %c. %s\n", marker, 'A'+i, opt.Text)
		}

		fmt.Fprintf(&b, "\nCorrect Answer: %s\n", q.CorrectAnswer)
		if q.CaseID != "" {
			fmt.Fprintf(&b, "Case ID: %s\n", q.CaseID)
		}
		fmt.Fprintf(&b, "\n%s\n\n", rule)
	}

	return b.String()
}

// FormatJSON renders a quiz as an indented JSON document mirroring the
// in-memory structure.
func FormatJSON(quiz *Quiz) (string, error) {
	raw, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal quiz: %w", err)
	}
	return string(raw), nil
}

// FormatCSV renders a quiz as a CSV table, one row per question, with option
// columns sized to the configured choice count.
func FormatCSV(quiz *Quiz) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	numChoices := quiz.Metadata.NumChoices
	header := []string{"Question_Number", "Case_ID", "Question_Text"}
	for i := 0; i < numChoices; i++ {
		header = append(header, fmt.Sprintf("Option_%c", 'A'+i))
	}
	header = append(header, "Correct_Answer", "Correct_Index", "Category", "Age_Group", "Complexity")
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for _, q := range quiz.Questions {
		row := []string{fmt.Sprintf("%d", q.Number), q.CaseID, q.Text}
		for i := 0; i < numChoices; i++ {
			if i < len(q.Options) {
				row = append(row, q.Options[i].Text)
			} else {
				row = append(row, "")
			}
		}
		var meta CaseMetadata
		if q.CaseMetadata != nil {
			meta = *q.CaseMetadata
		}
		row = append(row, q.CorrectAnswer, fmt.Sprintf("%d", q.CorrectIndex),
			meta.Category, meta.AgeGroup, meta.Complexity)
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

// AnswerKey renders a compact answer key for the quiz.
func AnswerKey(quiz *Quiz) string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)

	fmt.Fprintf(&b, "%s\nANSWER KEY\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Total Questions: %d\n", quiz.Metadata.TotalQuestions)
	fmt.Fprintf(&b, "Generated: %s\n\n", quiz.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"))

	for _, q := range quiz.Questions {
		if q.Type == TypeMultiCaseMatching {
			fmt.Fprintf(&b, "Q%d: matching\n", q.Number)
			for _, c := range q.Cases {
				fmt.Fprintf(&b, "   %s -> %s\n", c.CaseID, q.CorrectMapping[c.CaseID])
			}
			b.WriteString("\n")
			continue
		}

		fmt.Fprintf(&b, "Q%d: %s\n", q.Number, q.CorrectAnswer)
		if q.CaseID != "" {
			fmt.Fprintf(&b, "   Case ID: %s\n", q.CaseID)
		}
		if q.CaseMetadata != nil {
			fmt.Fprintf(&b, "   Category: %s\n", q.CaseMetadata.Category)
		}
		b.WriteString("\n")
	}

	return b.String()
}
