package casebank

import "fmt"

// Case is a single clinical vignette. Cases are validated once at load time
// and treated as immutable by every consumer.
type Case struct {
	// ID uniquely identifies the case, e.g. "case_042".
	ID string `json:"case_id"`

	// Category is the diagnostic grouping, e.g. "Depressive Disorders".
	Category string `json:"category"`

	// AgeGroup is one of child, adolescent, adult, older_adult.
	AgeGroup string `json:"age_group"`

	// Complexity is the difficulty tier of the vignette,
	// e.g. "easy", "moderate", "high" or "beginner".."expert".
	Complexity string `json:"complexity"`

	// Diagnosis is the correct-answer label for this case.
	Diagnosis string `json:"diagnosis"`

	// Narrative is the clinical presentation text.
	Narrative string `json:"narrative"`

	// MSE is the mental-status-examination text.
	MSE string `json:"MSE"`

	// DifficultyTier optionally maps the case onto the unlockable tier system.
	DifficultyTier string `json:"difficulty_tier,omitempty"`

	// Optional clinical annotation tags.
	ClinicalSpecifiers []string `json:"clinical_specifiers,omitempty"`
	CourseSpecifiers   []string `json:"course_specifiers,omitempty"`
	SymptomVariants    []string `json:"symptom_variants,omitempty"`
}

// Validate checks that the required fields are present.
func (c *Case) Validate() error {
	switch {
	case c.ID == "":
		return fmt.Errorf("case missing case_id")
	case c.Category == "":
		return fmt.Errorf("case %s: missing category", c.ID)
	case c.AgeGroup == "":
		return fmt.Errorf("case %s: missing age_group", c.ID)
	case c.Diagnosis == "":
		return fmt.Errorf("case %s: missing diagnosis", c.ID)
	case c.Narrative == "":
		return fmt.Errorf("case %s: missing narrative", c.ID)
	case c.MSE == "":
		return fmt.Errorf("case %s: missing MSE", c.ID)
	case c.Complexity == "":
		return fmt.Errorf("case %s: missing complexity", c.ID)
	}
	return nil
}

// Diagnosis is one entry in the diagnosis catalog used for distractor pools.
type Diagnosis struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Summary    string `json:"summary,omitempty"`
	Prevalence string `json:"prevalence,omitempty"`
}

// Validate checks that the required fields are present.
func (d *Diagnosis) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("diagnosis missing name")
	}
	if d.Category == "" {
		return fmt.Errorf("diagnosis %s: missing category", d.Name)
	}
	return nil
}

// Repo is the query contract the quiz engine consumes. Implementations are
// expected to be synchronous; a call either returns data or fails immediately.
type Repo interface {
	// QueryCases returns all cases matching the filter.
	QueryCases(f Filter) ([]Case, error)

	// Diagnoses returns the full diagnosis catalog.
	Diagnoses() ([]Diagnosis, error)
}
