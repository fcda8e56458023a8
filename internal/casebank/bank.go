package casebank

// Bank is an in-memory Repo over loaded case and diagnosis slices.
type Bank struct {
	cases     []Case
	diagnoses []Diagnosis
}

// NewBank creates a Bank from already-validated records.
func NewBank(cases []Case, diagnoses []Diagnosis) *Bank {
	return &Bank{cases: cases, diagnoses: diagnoses}
}

// QueryCases returns copies of all cases matching the filter.
func (b *Bank) QueryCases(f Filter) ([]Case, error) {
	var out []Case
	for _, c := range b.cases {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Diagnoses returns the full diagnosis catalog.
func (b *Bank) Diagnoses() ([]Diagnosis, error) {
	out := make([]Diagnosis, len(b.diagnoses))
	copy(out, b.diagnoses)
	return out, nil
}

// Len returns the number of cases held.
func (b *Bank) Len() int {
	return len(b.cases)
}
