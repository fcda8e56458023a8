package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/caseprep/internal/quizgen"
)

func (s *Session) evaluateQuestion(q quizgen.Question, a Answer) QuestionResult {
	if q.Type == quizgen.TypeMultiCaseMatching {
		return s.evaluateMatching(q, a)
	}

	result := QuestionResult{
		Number:        q.Number,
		CaseID:        q.CaseID,
		UserAnswer:    a.Value,
		CorrectAnswer: q.CorrectAnswer,
		MaxScore:      1.0,
		TimeSpent:     a.TimeSpent,
		Answered:      true,
	}
	if q.CaseMetadata != nil {
		result.Category = q.CaseMetadata.Category
		result.AgeGroup = q.CaseMetadata.AgeGroup
		result.Complexity = q.CaseMetadata.Complexity
	}

	switch s.mode {
	case ModeLenient:
		result.IsCorrect, result.Score, result.Feedback = s.evaluateLenient(a.Value, q.CorrectAnswer)
	case ModePartial:
		result.IsCorrect, result.Score, result.Feedback, result.PartialCreditReason =
			s.evaluatePartial(a.Value, q.CorrectAnswer, result.Category)
	default:
		result.IsCorrect, result.Score, result.Feedback = evaluateStrict(a.Value, q.CorrectAnswer)
	}

	return result
}

func (s *Session) unansweredResult(q quizgen.Question) QuestionResult {
	result := QuestionResult{
		Number:        q.Number,
		CaseID:        q.CaseID,
		CorrectAnswer: q.CorrectAnswer,
		MaxScore:      1.0,
		Feedback:      "Question not answered",
	}
	if q.CaseMetadata != nil {
		result.Category = q.CaseMetadata.Category
		result.AgeGroup = q.CaseMetadata.AgeGroup
		result.Complexity = q.CaseMetadata.Complexity
	}
	return result
}

// evaluateStrict requires case-insensitive, whitespace-trimmed equality.
func evaluateStrict(userAnswer, correctAnswer string) (bool, float64, string) {
	if normalize(userAnswer) == normalize(correctAnswer) {
		return true, 1.0, "Correct! Well done."
	}
	return false, 0.0, fmt.Sprintf("Incorrect. The correct answer is: %s", correctAnswer)
}

// evaluateLenient grants full credit on exact match or when at least 80% of
// the correct answer's words appear in the submission. Binary credit only.
func (s *Session) evaluateLenient(userAnswer, correctAnswer string) (bool, float64, string) {
	userClean := normalize(userAnswer)
	correctClean := normalize(correctAnswer)

	if userClean == correctClean {
		return true, 1.0, "Correct! Well done."
	}

	userWords := wordSet(userClean)
	correctWords := wordSet(correctClean)
	if len(correctWords) > 0 && len(userWords) > 0 {
		overlap := 0
		for w := range correctWords {
			if userWords[w] {
				overlap++
			}
		}
		if float64(overlap)/float64(len(correctWords)) >= LenientOverlapThreshold {
			return true, 1.0, fmt.Sprintf("Correct! (Recognized similarity to: %s)", correctAnswer)
		}
	}

	return false, 0.0, fmt.Sprintf("Incorrect. The correct answer is: %s", correctAnswer)
}

// evaluatePartial accumulates fractional credit from a category-token bonus
// and thresholded Jaccard similarity. Only an exact match sets is_correct.
func (s *Session) evaluatePartial(userAnswer, correctAnswer, category string) (bool, float64, string, string) {
	userClean := normalize(userAnswer)
	correctClean := normalize(correctAnswer)

	if userClean == correctClean {
		return true, 1.0, "Correct! Well done.", ""
	}

	score := 0.0
	var reasons []string

	for _, token := range strings.Fields(strings.ToLower(category)) {
		if strings.Contains(userClean, token) {
			score += s.partial.CategoryMatchBonus
			reasons = append(reasons, fmt.Sprintf("Correct category: %s", category))
			break
		}
	}

	similarity := s.diagnosisSimilarity(userAnswer, correctAnswer)
	if similarity >= s.partial.SimilarityThreshold {
		score += similarity * 0.5
		reasons = append(reasons, fmt.Sprintf("Similar diagnosis (%.2f)", similarity))
	}

	if score > 1.0 {
		score = 1.0
	}

	if score > 0 {
		reason := strings.Join(reasons, "; ")
		feedback := fmt.Sprintf("Partial credit (%.2f/1.0). %s. Correct answer: %s",
			score, strings.Join(reasons, ", "), correctAnswer)
		return false, score, feedback, reason
	}
	return false, 0.0, fmt.Sprintf("Incorrect. The correct answer is: %s", correctAnswer), ""
}

// evaluateMatching scores a case-to-diagnosis mapping: all matches correct
// gives full binary credit, otherwise the matched fraction as partial score.
func (s *Session) evaluateMatching(q quizgen.Question, a Answer) QuestionResult {
	matched := 0
	for caseID, correct := range q.CorrectMapping {
		if a.Mapping[caseID] == correct {
			matched++
		}
	}
	total := len(q.CorrectMapping)

	score := 0.0
	if total > 0 {
		score = float64(matched) / float64(total)
	}
	isCorrect := total > 0 && matched == total

	feedback := fmt.Sprintf("Matched %d of %d cases correctly.", matched, total)
	if isCorrect {
		feedback = "Correct! All cases matched."
	}

	return QuestionResult{
		Number:        q.Number,
		CorrectAnswer: "matching",
		IsCorrect:     isCorrect,
		Score:         score,
		MaxScore:      1.0,
		TimeSpent:     a.TimeSpent,
		Feedback:      feedback,
		Answered:      true,
	}
}

// pairKey is an unordered diagnosis pair, used to memoize similarity.
type pairKey struct {
	a, b string
}

func newPairKey(d1, d2 string) pairKey {
	a, b := strings.ToLower(d1), strings.ToLower(d2)
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// diagnosisSimilarity computes a Jaccard coefficient over lowercase word
// sets, memoized per unordered pair for the session's lifetime.
func (s *Session) diagnosisSimilarity(d1, d2 string) float64 {
	key := newPairKey(d1, d2)
	if sim, ok := s.simCache[key]; ok {
		return sim
	}

	sim := jaccard(wordSet(strings.ToLower(d1)), wordSet(strings.ToLower(d2)))
	if s.simCache != nil {
		s.simCache[key] = sim
	}
	return sim
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// ClinicalAccuracyScore evaluates a free-text diagnosis against required
// specifier terms: 0.7 for the exact main diagnosis (reduced at two
// similarity tiers for near misses), plus up to 0.3 proportional to the
// importance-weighted fraction of specifiers present in the submission.
func (s *Session) ClinicalAccuracyScore(userAnswer, correctAnswer string, specifiers map[string]float64) (float64, string) {
	if len(specifiers) == 0 {
		switch s.mode {
		case ModeLenient:
			_, score, feedback := s.evaluateLenient(userAnswer, correctAnswer)
			return score, feedback
		case ModePartial:
			_, score, feedback, _ := s.evaluatePartial(userAnswer, correctAnswer, "")
			return score, feedback
		default:
			_, score, feedback := evaluateStrict(userAnswer, correctAnswer)
			return score, feedback
		}
	}

	userClean := normalize(userAnswer)
	correctClean := normalize(correctAnswer)

	baseScore := 0.0
	var parts []string

	if userClean == correctClean {
		baseScore = 0.7
		parts = append(parts, "Correct main diagnosis")
	} else {
		similarity := s.diagnosisSimilarity(userAnswer, correctAnswer)
		switch {
		case similarity >= 0.8:
			baseScore = 0.5
			parts = append(parts, fmt.Sprintf("Similar diagnosis (%.0f%% match)", similarity*100))
		case similarity >= 0.6:
			baseScore = 0.3
			parts = append(parts, fmt.Sprintf("Partially similar diagnosis (%.0f%% match)", similarity*100))
		default:
			parts = append(parts, "Incorrect main diagnosis")
		}
	}

	names := make([]string, 0, len(specifiers))
	for specifier := range specifiers {
		names = append(names, specifier)
	}
	sort.Strings(names)

	matchedWeight := 0.0
	totalWeight := 0.0
	for _, specifier := range names {
		totalWeight += specifiers[specifier]
		if strings.Contains(userClean, strings.ToLower(specifier)) {
			matchedWeight += specifiers[specifier]
			parts = append(parts, fmt.Sprintf("Correct specifier: %s", specifier))
		}
	}

	total := baseScore
	if totalWeight > 0 {
		total += (matchedWeight / totalWeight) * 0.3
	}
	if total > 1.0 {
		total = 1.0
	}

	feedback := strings.Join(parts, "; ")
	if total < 1.0 {
		feedback += fmt.Sprintf(". Correct answer: %s", correctAnswer)
	}
	return total, feedback
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
