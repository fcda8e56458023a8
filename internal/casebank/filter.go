package casebank

// Filter selects a subset of the case pool. Empty include lists impose no
// constraint; non-empty lists require membership. Exclude lists remove
// matching cases regardless of the include lists. Slice-valued case fields
// (specifiers, variants) match when any tag overlaps the filter list.
type Filter struct {
	Categories      []string
	AgeGroups       []string
	Complexities    []string
	Diagnoses       []string
	CaseIDs         []string
	DifficultyTiers []string

	ClinicalSpecifiers []string
	CourseSpecifiers   []string
	SymptomVariants    []string

	ExcludeCategories      []string
	ExcludeAgeGroups       []string
	ExcludeComplexities    []string
	ExcludeDiagnoses       []string
	ExcludeCaseIDs         []string
	ExcludeDifficultyTiers []string

	ExcludeClinicalSpecifiers []string
	ExcludeCourseSpecifiers   []string
	ExcludeSymptomVariants    []string
}

// Match reports whether the case passes every include and exclude criterion.
func (f Filter) Match(c Case) bool {
	if !include(f.Categories, c.Category) ||
		!include(f.AgeGroups, c.AgeGroup) ||
		!include(f.Complexities, c.Complexity) ||
		!include(f.Diagnoses, c.Diagnosis) ||
		!include(f.CaseIDs, c.ID) ||
		!include(f.DifficultyTiers, c.DifficultyTier) {
		return false
	}
	if !includeAny(f.ClinicalSpecifiers, c.ClinicalSpecifiers) ||
		!includeAny(f.CourseSpecifiers, c.CourseSpecifiers) ||
		!includeAny(f.SymptomVariants, c.SymptomVariants) {
		return false
	}

	if contains(f.ExcludeCategories, c.Category) ||
		contains(f.ExcludeAgeGroups, c.AgeGroup) ||
		contains(f.ExcludeComplexities, c.Complexity) ||
		contains(f.ExcludeDiagnoses, c.Diagnosis) ||
		contains(f.ExcludeCaseIDs, c.ID) ||
		contains(f.ExcludeDifficultyTiers, c.DifficultyTier) {
		return false
	}
	if overlaps(f.ExcludeClinicalSpecifiers, c.ClinicalSpecifiers) ||
		overlaps(f.ExcludeCourseSpecifiers, c.CourseSpecifiers) ||
		overlaps(f.ExcludeSymptomVariants, c.SymptomVariants) {
		return false
	}

	return true
}

// include passes when the list is empty or holds the value.
func include(list []string, v string) bool {
	return len(list) == 0 || contains(list, v)
}

// includeAny passes when the filter list is empty or any tag is in it.
func includeAny(list, tags []string) bool {
	return len(list) == 0 || overlaps(list, tags)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func overlaps(list, tags []string) bool {
	for _, t := range tags {
		if contains(list, t) {
			return true
		}
	}
	return false
}
