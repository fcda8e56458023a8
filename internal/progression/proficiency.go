package progression

// specialtyAchievements maps diagnostic categories to their mastery
// achievement ids. Eligibility is gated on the catalog entry's count and
// accuracy requirements.
var specialtyAchievements = map[string]string{
	"Depressive Disorders":                                 "depressive_disorders_master",
	"Schizophrenia Spectrum and Other Psychotic Disorders": "schizophrenia_spectrum_expert",
	"Anxiety Disorders":                                    "anxiety_disorders_specialist",
}

// UpdateProficiency records one case outcome against a diagnostic category.
// Accuracy is recomputed from the exact correct counter, and the proficiency
// level is derived from accuracy: min(10, accuracy/10 + 1). timeTaken is not
// folded into proficiency; per-case times are tracked by RecordResult.
// Returns any newly awarded category-mastery achievement ids.
func (p *Progress) UpdateProficiency(category string, correct bool, timeTaken float64, xpEarned int) []string {
	prof, ok := p.Specialties[category]
	if !ok {
		prof = &SpecialtyProficiency{Category: category, Level: 1}
		p.Specialties[category] = prof
	}

	prof.CasesCompleted++
	if correct {
		prof.CorrectCount++
	}
	prof.Accuracy = 100 * float64(prof.CorrectCount) / float64(prof.CasesCompleted)
	prof.XPEarned += xpEarned
	prof.LastPracticed = p.now()

	level := int(prof.Accuracy/10) + 1
	if level > 10 {
		level = 10
	}
	prof.Level = level

	return p.checkSpecialtyAchievements(category, prof)
}

func (p *Progress) checkSpecialtyAchievements(category string, prof *SpecialtyProficiency) []string {
	id, ok := specialtyAchievements[category]
	if !ok || p.HasAchievement(id) {
		return nil
	}
	achievement, ok := p.catalog.Get(id)
	if !ok {
		return nil
	}

	reqs := achievement.Requirements
	if prof.CasesCompleted < reqs.Count || prof.Accuracy < reqs.MinAccuracy {
		return nil
	}
	if p.Award(id) {
		return []string{id}
	}
	return nil
}
