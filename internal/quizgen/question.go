package quizgen

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/abhisek/caseprep/internal/casebank"
)

// clinicalSimilarityMap lists commonly confused diagnoses per category, used
// to prefer clinically plausible distractors in differential mode.
var clinicalSimilarityMap = map[string][]string{
	"Depressive Disorders": {
		"Major Depressive Disorder", "Persistent Depressive Disorder",
		"Disruptive Mood Dysregulation Disorder",
	},
	"Anxiety Disorders": {
		"Generalized Anxiety Disorder", "Panic Disorder",
		"Social Anxiety Disorder", "Specific Phobia",
	},
	"Schizophrenia Spectrum and Other Psychotic Disorders": {
		"Schizophrenia", "Schizoaffective Disorder",
		"Brief Psychotic Disorder", "Delusional Disorder",
	},
	"Personality Disorders": {
		"Borderline Personality Disorder", "Narcissistic Personality Disorder",
		"Antisocial Personality Disorder", "Avoidant Personality Disorder",
	},
	"Substance-Related and Addictive Disorders": {
		"Alcohol Use Disorder", "Opioid Use Disorder",
		"Stimulant Use Disorder", "Cannabis Use Disorder",
	},
	"Neurodevelopmental Disorders": {
		"Attention-Deficit/Hyperactivity Disorder", "Autism Spectrum Disorder",
		"Intellectual Disability", "Specific Learning Disorder",
	},
}

// genericDistractors is the last-resort pool when the diagnosis catalog
// cannot fill the requested choice count.
var genericDistractors = []string{
	"Other Neurodevelopmental Disorder",
	"Other Mood Disorder",
	"Other Anxiety Disorder",
	"Other Psychotic Disorder",
	"Other Personality Disorder",
}

func buildStandardQuestion(rng *rand.Rand, c casebank.Case, pool *diagnosisPool, numChoices, number int) Question {
	distractors := generateDistractors(rng, c.Diagnosis, c.Category, pool, numChoices-1)

	labels := append([]string{c.Diagnosis}, distractors...)
	options := decorateOptions(rng, labels, c)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i := range options {
		options[i].ID = i
		if options[i].Diagnosis == c.Diagnosis {
			correctIndex = i
		}
	}

	return Question{
		Number:        number,
		Type:          TypeStandard,
		CaseID:        c.ID,
		Text:          standardPrompt(c),
		Options:       options,
		CorrectAnswer: c.Diagnosis,
		CorrectIndex:  correctIndex,
		Explanation:   explanationFor(c.Category, c.Diagnosis),
		Reference:     referenceFor(c.Category),
		CaseMetadata: &CaseMetadata{
			Category:   c.Category,
			AgeGroup:   c.AgeGroup,
			Complexity: c.Complexity,
		},
	}
}

func buildDifferentialQuestion(rng *rand.Rand, c casebank.Case, pool *diagnosisPool, numChoices, number int) Question {
	distractors := generateSmartDistractors(rng, c.Diagnosis, c.Category, pool, numChoices-1)

	labels := append([]string{c.Diagnosis}, distractors...)
	options := make([]Option, len(labels))
	for i, label := range labels {
		options[i] = Option{Text: label, Diagnosis: label}
	}
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i := range options {
		options[i].ID = i
		if options[i].Diagnosis == c.Diagnosis {
			correctIndex = i
		}
	}

	return Question{
		Number:        number,
		Type:          TypeDifferential,
		CaseID:        c.ID,
		Text:          differentialPrompt(c),
		Options:       options,
		CorrectAnswer: c.Diagnosis,
		CorrectIndex:  correctIndex,
		Explanation:   explanationFor(c.Category, c.Diagnosis),
		Reference:     referenceFor(c.Category),
		CaseMetadata: &CaseMetadata{
			Category:   c.Category,
			AgeGroup:   c.AgeGroup,
			Complexity: c.Complexity,
		},
		DifferentialInfo: &DifferentialInfo{
			KeySymptoms:                extractKeySymptoms(c),
			DifferentialConsiderations: append(distractors, c.Diagnosis),
		},
	}
}

// generateDistractors draws distinct wrong answers: same-category diagnoses
// first, then other categories, then the generic pool.
func generateDistractors(rng *rand.Rand, correct, category string, pool *diagnosisPool, n int) []string {
	return fillDistractors(rng, correct, category, pool, nil, n)
}

// fillDistractors extends taken with distinct wrong answers until n are
// collected, drawing same-category diagnoses first, then other categories,
// then the generic pool.
func fillDistractors(rng *rand.Rand, correct, category string, pool *diagnosisPool, taken []string, n int) []string {
	distractors := taken

	if len(distractors) < n {
		sameCategory := shuffledCopy(rng, excludeLabels(pool.byCategory[category], correct, distractors))
		for _, d := range sameCategory {
			if len(distractors) >= n {
				break
			}
			distractors = append(distractors, d)
		}
	}

	if len(distractors) < n {
		var others []string
		for _, cat := range pool.categories {
			if cat == category {
				continue
			}
			others = append(others, pool.byCategory[cat]...)
		}
		others = shuffledCopy(rng, excludeLabels(others, correct, distractors))
		for _, d := range others {
			if len(distractors) >= n {
				break
			}
			distractors = append(distractors, d)
		}
	}

	for _, generic := range genericDistractors {
		if len(distractors) >= n {
			break
		}
		if generic != correct && !containsLabel(distractors, generic) {
			distractors = append(distractors, generic)
		}
	}

	return distractors
}

// generateSmartDistractors prefers the clinical-similarity table, then tops up
// through the standard distractor pools so the quota is always met.
func generateSmartDistractors(rng *rand.Rand, correct, category string, pool *diagnosisPool, n int) []string {
	var similar []string
	for cat, diagnoses := range clinicalSimilarityMap {
		if cat != category {
			continue
		}
		similar = append(similar, diagnoses...)
	}
	similar = shuffledCopy(rng, excludeLabel(similar, correct))

	var distractors []string
	for _, d := range similar {
		if len(distractors) >= n {
			break
		}
		distractors = append(distractors, d)
	}

	return fillDistractors(rng, correct, category, pool, distractors, n)
}

// specifierMap lists clinically appropriate option suffixes per category and
// age group.
var specifierMap = map[string]map[string][]string{
	"Depressive Disorders": {
		"child":       {"with onset in childhood", "pediatric onset"},
		"adolescent":  {"with onset in adolescence", "teenage onset"},
		"adult":       {"with anxious distress", "with mixed features", "with melancholic features"},
		"older_adult": {"late onset", "with vascular contributions"},
	},
	"Anxiety Disorders": {
		"child":       {"separation type", "school refusal"},
		"adolescent":  {"social type", "performance type"},
		"adult":       {"generalized type", "with panic attacks"},
		"older_adult": {"late onset", "with medical comorbidity"},
	},
	"Schizophrenia Spectrum and Other Psychotic Disorders": {
		"child":       {"childhood onset", "early onset"},
		"adolescent":  {"adolescent onset", "with disorganized features"},
		"adult":       {"paranoid type", "disorganized type", "catatonic type"},
		"older_adult": {"late onset", "with cognitive decline"},
	},
}

// specifierChance is the per-option probability of appending a specifier.
const specifierChance = 0.3

// decorateOptions probabilistically appends a specifier suffix to each option
// label. Decoration changes only the display text; the Diagnosis field keeps
// the undecorated label that correctness is resolved against.
func decorateOptions(rng *rand.Rand, labels []string, c casebank.Case) []Option {
	specifiers := specifierMap[c.Category][c.AgeGroup]

	options := make([]Option, len(labels))
	for i, label := range labels {
		text := label
		if len(specifiers) > 0 && rng.Float64() < specifierChance {
			text = fmt.Sprintf("%s, %s", label, specifiers[rng.Intn(len(specifiers))])
		}
		options[i] = Option{Text: text, Diagnosis: label}
	}
	return options
}

func standardPrompt(c casebank.Case) string {
	return fmt.Sprintf(`Clinical Presentation:
%s

Mental Status Examination:
%s

Based on the clinical presentation and mental status examination, what is the most likely diagnosis?`, c.Narrative, c.MSE)
}

func differentialPrompt(c casebank.Case) string {
	return fmt.Sprintf(`Case %s - Differential Diagnosis

Patient Information:
- Age Group: %s
- Category: %s

Clinical Presentation:
%s

Mental Status Examination:
%s

Considering the differential diagnosis, which of the following is the most likely primary diagnosis?`,
		c.ID, c.AgeGroup, c.Category, c.Narrative, c.MSE)
}

// symptomKeywords is the vocabulary scanned for key-symptom extraction.
var symptomKeywords = []string{
	"depressed", "elevated", "anxious", "psychotic", "hallucination",
	"delusion", "mania", "panic", "obsessive", "compulsive",
	"paranoid", "disorganized", "withdrawn", "agitated", "irritable",
}

const maxKeySymptoms = 5

// extractKeySymptoms scans the narrative and exam text for known symptom
// keywords, keeping at most five in vocabulary order.
func extractKeySymptoms(c casebank.Case) []string {
	text := strings.ToLower(c.Narrative + " " + c.MSE)

	var symptoms []string
	for _, keyword := range symptomKeywords {
		if strings.Contains(text, keyword) {
			symptoms = append(symptoms, keyword)
			if len(symptoms) == maxKeySymptoms {
				break
			}
		}
	}
	return symptoms
}

var explanations = map[string]string{
	"Depressive Disorders":                                 "The diagnosis of %s is supported by the patient's persistent depressed mood, anhedonia, and neurovegetative symptoms. The MSE reveals psychomotor changes and hopelessness, which are characteristic of this condition.",
	"Anxiety Disorders":                                    "The diagnosis of %s is based on the patient's excessive worry, physical symptoms of anxiety, and avoidance behaviors. The MSE shows anxious affect and preoccupation with feared outcomes.",
	"Schizophrenia Spectrum and Other Psychotic Disorders": "The diagnosis of %s is indicated by the presence of psychotic symptoms including delusions and hallucinations, along with disorganized thinking. The MSE demonstrates thought disorder and impaired insight.",
	"Bipolar and Related Disorders":                        "The diagnosis of %s is supported by the history of manic or hypomanic episodes with elevated mood, increased energy, and impaired judgment. The MSE may show expansive affect during acute episodes.",
}

func explanationFor(category, diagnosis string) string {
	if tmpl, ok := explanations[category]; ok {
		return fmt.Sprintf(tmpl, diagnosis)
	}
	return fmt.Sprintf("The diagnosis of %s is supported by the clinical presentation and mental status examination findings.", diagnosis)
}

var references = map[string]string{
	"Depressive Disorders":                                 "DSM-5 Criteria: Five or more symptoms including depressed mood, anhedonia, weight changes, sleep disturbance, fatigue, guilt, concentration difficulties, psychomotor changes, or suicidal ideation.",
	"Anxiety Disorders":                                    "DSM-5 Criteria: Excessive anxiety and worry occurring more days than not for at least 6 months, plus associated symptoms like restlessness, fatigue, difficulty concentrating, irritability, muscle tension, or sleep disturbance.",
	"Schizophrenia Spectrum and Other Psychotic Disorders": "DSM-5 Criteria: Two or more symptoms including delusions, hallucinations, disorganized speech, grossly disorganized behavior, or negative symptoms, with duration of 6 months and impairment in functioning.",
	"Bipolar and Related Disorders":                        "DSM-5 Criteria: Distinct period of abnormally elevated, expansive, or irritable mood and increased activity/energy lasting at least 1 week, with marked impairment or requiring hospitalization.",
}

func referenceFor(category string) string {
	if ref, ok := references[category]; ok {
		return ref
	}
	return "DSM-5 Diagnostic Criteria for psychiatric disorders."
}

func shuffledCopy(rng *rand.Rand, labels []string) []string {
	out := append([]string(nil), labels...)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func excludeLabel(labels []string, drop string) []string {
	var out []string
	for _, l := range labels {
		if !strings.EqualFold(l, drop) {
			out = append(out, l)
		}
	}
	return out
}

func excludeLabels(labels []string, drop string, used []string) []string {
	var out []string
	for _, l := range labels {
		if !strings.EqualFold(l, drop) && !containsLabel(used, l) {
			out = append(out, l)
		}
	}
	return out
}

func containsLabel(labels []string, v string) bool {
	for _, l := range labels {
		if l == v {
			return true
		}
	}
	return false
}
