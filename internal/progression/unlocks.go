package progression

import (
	"fmt"
	"sort"
)

// UnlockRecommendation describes one unlock the user is working toward.
type UnlockRecommendation struct {
	Kind        string  `json:"kind"` // "difficulty" or "achievement"
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Progress    float64 `json:"progress"` // 0..1
}

// UnlockRecommendations lists locked difficulty tiers with the levels still
// needed, plus unearned achievements that are more than half complete.
func (p *Progress) UnlockRecommendations() []UnlockRecommendation {
	var recs []UnlockRecommendation

	for _, name := range p.tiers.Names() {
		if p.Unlocks.Difficulties[name] {
			continue
		}
		required := p.tiers[name].LevelRequirement
		recs = append(recs, UnlockRecommendation{
			Kind:        "difficulty",
			Name:        name,
			Description: fmt.Sprintf("reach level %d (%d more)", required, required-p.Level),
			Progress:    float64(p.Level) / float64(required),
		})
	}

	for _, id := range p.catalog.IDs() {
		if p.HasAchievement(id) {
			continue
		}
		progress := p.AchievementProgress(id)
		if progress <= 0.5 {
			continue
		}
		achievement, _ := p.catalog.Get(id)
		recs = append(recs, UnlockRecommendation{
			Kind:        "achievement",
			Name:        achievement.Name,
			Description: achievement.Description,
			Progress:    progress,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Progress > recs[j].Progress
	})
	return recs
}
