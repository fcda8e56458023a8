package quizgen

import (
	"fmt"

	"github.com/abhisek/caseprep/internal/casebank"
)

// clinicalTier holds the built-in per-complexity XP parameters. Tier names
// cover both the case complexity labels and the unlockable tier names.
type clinicalTier struct {
	XPMultiplier       float64
	TimeBonusThreshold float64
	AccuracyThreshold  float64
}

var clinicalTiers = map[string]clinicalTier{
	"easy":     {XPMultiplier: 1.0, TimeBonusThreshold: 120, AccuracyThreshold: 60},
	"moderate": {XPMultiplier: 1.5, TimeBonusThreshold: 90, AccuracyThreshold: 75},
	"high":     {XPMultiplier: 2.0, TimeBonusThreshold: 60, AccuracyThreshold: 85},

	"beginner":     {XPMultiplier: 1.0, TimeBonusThreshold: 120, AccuracyThreshold: 60},
	"intermediate": {XPMultiplier: 1.5, TimeBonusThreshold: 90, AccuracyThreshold: 75},
	"advanced":     {XPMultiplier: 2.0, TimeBonusThreshold: 60, AccuracyThreshold: 85},
	"expert":       {XPMultiplier: 3.0, TimeBonusThreshold: 45, AccuracyThreshold: 90},
}

var defaultClinicalTier = clinicalTier{XPMultiplier: 1.0, TimeBonusThreshold: 120, AccuracyThreshold: 60}

func tierFor(complexity string) clinicalTier {
	if t, ok := clinicalTiers[complexity]; ok {
		return t
	}
	return defaultClinicalTier
}

// attachBonusOpportunities adds advisory bonus XP metadata for complex cases,
// mastered categories, and hot streaks.
func (g *Generator) attachBonusOpportunities(q *Question, c casebank.Case) {
	var bonuses []BonusOpportunity

	if c.Complexity == "high" || c.Complexity == "advanced" || c.Complexity == "expert" {
		bonuses = append(bonuses, BonusOpportunity{
			Type:         "complexity_bonus",
			Description:  fmt.Sprintf("Bonus XP for %s case", c.Complexity),
			XPMultiplier: tierFor(c.Complexity).XPMultiplier,
		})
	}

	if g.progress != nil {
		if prof, ok := g.progress.Specialties[c.Category]; ok && prof.Level >= 7 {
			bonuses = append(bonuses, BonusOpportunity{
				Type:         "mastery_bonus",
				Description:  fmt.Sprintf("Mastery bonus for %s", c.Category),
				XPMultiplier: 1.2,
			})
		}
		if streak := g.progress.Streak.CurrentStreak; streak >= 5 {
			bonuses = append(bonuses, BonusOpportunity{
				Type:         "streak_bonus",
				Description:  fmt.Sprintf("Streak bonus (%d in a row)", streak),
				XPMultiplier: g.progress.Streak.Multiplier,
			})
		}
	}

	q.BonusOpportunities = bonuses
}

// attachTimeAdjustments adds the tier's time thresholds and base XP. The
// metadata is advisory: it feeds XP computation, never correctness.
func attachTimeAdjustments(q *Question, c casebank.Case) {
	tier := tierFor(c.Complexity)
	q.TimeAdjustments = &TimeAdjustments{
		TimeBonusThreshold: tier.TimeBonusThreshold,
		AccuracyThreshold:  tier.AccuracyThreshold,
		BaseXP:             10 * tier.XPMultiplier,
	}
}

// XPResult details an XP computation for one answered question.
type XPResult struct {
	BaseXP    int            `json:"base_xp"`
	BonusXP   int            `json:"bonus_xp"`
	TotalXP   int            `json:"total_xp"`
	Breakdown map[string]int `json:"breakdown"`
}

// PerQuestionXP computes the XP earned on one question including the time
// bonus and any attached bonus opportunities. Incorrect answers earn nothing.
func PerQuestionXP(q Question, correct bool, timeTaken float64) XPResult {
	if !correct {
		return XPResult{Breakdown: map[string]int{"incorrect_answer": 0}}
	}

	baseXP := 10
	timeThreshold := 120.0
	if q.TimeAdjustments != nil {
		baseXP = int(q.TimeAdjustments.BaseXP)
		timeThreshold = q.TimeAdjustments.TimeBonusThreshold
	}

	total := baseXP
	breakdown := map[string]int{"base_xp": baseXP}

	if timeTaken <= timeThreshold {
		timeBonus := baseXP / 2
		total += timeBonus
		breakdown["time_bonus"] = timeBonus
	}

	for _, bonus := range q.BonusOpportunities {
		bonusXP := int(float64(baseXP) * (bonus.XPMultiplier - 1.0))
		if bonusXP > 0 {
			total += bonusXP
			breakdown[bonus.Type] = bonusXP
		}
	}

	return XPResult{
		BaseXP:    baseXP,
		BonusXP:   total - baseXP,
		TotalXP:   total,
		Breakdown: breakdown,
	}
}
