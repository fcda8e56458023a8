package quizgen

import (
	"math/rand"
	"strings"

	"github.com/abhisek/caseprep/internal/casebank"
)

// casesPerMatchingQuestion is the fixed bucket size for multi-case matching.
// A trailing group smaller than this is discarded, never emitted partially.
const casesPerMatchingQuestion = 3

// buildMatchingQuestions groups the selected cases into buckets of 3 and
// emits one matching question per full bucket.
func buildMatchingQuestions(rng *rand.Rand, selected []casebank.Case) []Question {
	var questions []Question
	for i := 0; i+casesPerMatchingQuestion <= len(selected); i += casesPerMatchingQuestion {
		group := selected[i : i+casesPerMatchingQuestion]
		questions = append(questions, buildMatchingQuestion(rng, group, len(questions)+1))
	}
	return questions
}

func buildMatchingQuestion(rng *rand.Rand, group []casebank.Case, number int) Question {
	labels := make([]string, len(group))
	mapping := make(map[string]string, len(group))
	summaries := make([]CaseSummary, len(group))

	for i, c := range group {
		labels[i] = c.Diagnosis
		mapping[c.ID] = c.Diagnosis
		summaries[i] = CaseSummary{
			CaseID:         c.ID,
			AgeGroup:       c.AgeGroup,
			ChiefComplaint: extractChiefComplaint(c),
			History:        extractHistory(c),
			Examination:    c.MSE,
			Category:       c.Category,
			Complexity:     c.Complexity,
		}
	}

	rng.Shuffle(len(labels), func(i, j int) {
		labels[i], labels[j] = labels[j], labels[i]
	})
	options := make([]Option, len(labels))
	for i, label := range labels {
		options[i] = Option{ID: i, Text: label, Diagnosis: label}
	}

	return Question{
		Number:           number,
		Type:             TypeMultiCaseMatching,
		Text:             "Match each case to the most appropriate diagnosis by assigning a diagnosis to each case.",
		Cases:            summaries,
		DiagnosisOptions: options,
		CorrectMapping:   mapping,
		Explanation:      "Correct matching demonstrates understanding of distinguishing clinical features.",
		Reference:        "Based on DSM-5 criteria and clinical presentation patterns.",
	}
}

// extractChiefComplaint takes the first sentence of the narrative.
func extractChiefComplaint(c casebank.Case) string {
	sentences := strings.Split(c.Narrative, ".")
	if len(sentences) > 0 && strings.TrimSpace(sentences[0]) != "" {
		return strings.TrimSpace(sentences[0]) + "."
	}
	return "Chief complaint not specified."
}

// extractHistory takes the second and third sentences of the narrative.
func extractHistory(c casebank.Case) string {
	sentences := strings.Split(c.Narrative, ".")
	if len(sentences) > 1 {
		end := 3
		if end > len(sentences) {
			end = len(sentences)
		}
		history := strings.TrimSpace(strings.Join(sentences[1:end], "."))
		if history != "" {
			return history + "."
		}
	}
	return "History not detailed."
}
