package progression

import (
	"math"
	"time"

	"github.com/abhisek/caseprep/internal/logging"
)

// Progress is the per-user progression aggregate: level, XP, streak,
// specialty proficiency, performance metrics, unlocks, and earned
// achievements. It is a plain in-process value; the caller owns persistence
// and must serialize concurrent writers externally.
type Progress struct {
	UserID   string
	Username string

	Level         int
	TotalXP       int
	XPToNextLevel int

	Specialties map[string]*SpecialtyProficiency
	Streak      StreakData
	Metrics     PerformanceMetrics
	Unlocks     UnlockStatus
	Earned      []EarnedAchievement

	catalog *Catalog
	tiers   TierSet
	now     func() time.Time
}

// Option configures a Progress at construction.
type Option func(*Progress)

// WithCatalog supplies the achievement catalog.
func WithCatalog(c *Catalog) Option {
	return func(p *Progress) { p.catalog = c }
}

// WithTiers supplies the difficulty tier definitions.
func WithTiers(t TierSet) Option {
	return func(p *Progress) { p.tiers = t }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(p *Progress) { p.now = now }
}

// New creates a fresh Progress at level 1 with the lowest difficulty tier
// unlocked.
func New(userID, username string, opts ...Option) *Progress {
	p := &Progress{
		UserID:   userID,
		Username: username,
		Level:       1,
		Specialties: make(map[string]*SpecialtyProficiency),
		Streak:      StreakData{Multiplier: 1.0},
		Metrics: PerformanceMetrics{
			CategoryPerformance:   make(map[string]*GroupStats),
			DifficultyPerformance: make(map[string]*GroupStats),
		},
		Unlocks: UnlockStatus{
			Difficulties:    map[string]bool{"beginner": true},
			Categories:      make(map[string]bool),
			SpecialFeatures: make(map[string]bool),
			LevelUnlocks:    make(map[string]int),
			AchievementAt:   make(map[string]time.Time),
		},
		catalog: EmptyCatalog(),
		tiers:   EmptyTierSet(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.XPToNextLevel = XPForLevel(p.Level)
	p.refreshLevelUnlocks()
	return p
}

// XPForLevel returns the XP required to advance from level to level+1.
func XPForLevel(level int) int {
	return int(100 * math.Pow(1.5, float64(level-1)))
}

// LevelForXP returns the level reached with the given total XP. Level 1
// starts at 0 XP; each level consumes its XPForLevel threshold.
func LevelForXP(totalXP int) int {
	level := 1
	needed := XPForLevel(level)
	for totalXP >= needed {
		totalXP -= needed
		level++
		needed = XPForLevel(level)
	}
	return level
}

// AddXP adds XP, recomputes the level, and on level-up checks level
// milestones and refreshes tier unlocks. Returns the new total, whether a
// level-up occurred, and any achievement ids newly awarded by the level-up.
func (p *Progress) AddXP(amount int, source string) (int, bool, []string) {
	oldLevel := p.Level
	p.TotalXP += amount
	p.Level = LevelForXP(p.TotalXP)
	p.XPToNextLevel = XPForLevel(p.Level)

	leveledUp := p.Level > oldLevel
	var newAchievements []string

	if leveledUp {
		logging.Infof("user %s leveled up to %d (source: %s)", p.Username, p.Level, source)
		newAchievements = p.checkLevelAchievements()
		p.refreshLevelUnlocks()
	}

	return p.TotalXP, leveledUp, newAchievements
}

// levelMilestones maps level thresholds to their achievement ids.
var levelMilestones = map[int]string{
	10: "level_10",
	25: "level_25",
	50: "level_50",
}

func (p *Progress) checkLevelAchievements() []string {
	var awarded []string
	for levelReq, id := range levelMilestones {
		if p.Level >= levelReq && !p.HasAchievement(id) {
			if p.Award(id) {
				awarded = append(awarded, id)
			}
		}
	}
	return awarded
}

// refreshLevelUnlocks grants difficulty tiers whose level requirement is met.
// Unlocks are monotonic: tiers are never revoked.
func (p *Progress) refreshLevelUnlocks() {
	for name, cfg := range p.tiers {
		if p.Level >= cfg.LevelRequirement && !p.Unlocks.Difficulties[name] {
			p.Unlocks.Difficulties[name] = true
			p.Unlocks.LevelUnlocks[name] = cfg.LevelRequirement
			logging.Infof("unlocked %s difficulty tier", name)
		}
	}
}

// HasAchievement reports whether the achievement was already earned.
func (p *Progress) HasAchievement(id string) bool {
	for _, ea := range p.Earned {
		if ea.AchievementID == id {
			return true
		}
	}
	return false
}

// Award grants an achievement. It is idempotent: an unknown id or an
// already-earned achievement returns false with no side effects. The XP
// reward flows through AddXP and may cascade further level-based awards.
func (p *Progress) Award(id string) bool {
	achievement, ok := p.catalog.Get(id)
	if !ok {
		logging.Warnf("achievement %s not found in catalog", id)
		return false
	}
	if p.HasAchievement(id) {
		return false
	}

	earnedAt := p.now()
	p.Earned = append(p.Earned, EarnedAchievement{
		AchievementID: id,
		EarnedAt:      earnedAt,
		XPAwarded:     achievement.XPReward,
	})
	p.Unlocks.AchievementAt[id] = earnedAt

	p.AddXP(achievement.XPReward, "achievement_"+id)

	logging.Infof("awarded achievement %s to %s", achievement.Name, p.Username)
	return true
}

// AchievementProgress reports progress toward an unearned achievement in
// [0,1] based on its requirement shape.
func (p *Progress) AchievementProgress(id string) float64 {
	achievement, ok := p.catalog.Get(id)
	if !ok {
		return 0.0
	}

	reqs := achievement.Requirements
	switch reqs.Type {
	case "case_completion":
		if reqs.Count <= 0 {
			return 0.0
		}
		return math.Min(1.0, float64(p.Metrics.TotalCases)/float64(reqs.Count))

	case "case_completion_with_accuracy":
		if reqs.Count <= 0 {
			return 0.0
		}
		if p.Metrics.OverallAccuracy < reqs.MinAccuracy {
			return 0.0
		}
		return math.Min(1.0, float64(p.Metrics.TotalCases)/float64(reqs.Count))

	case "category_mastery":
		prof, ok := p.Specialties[reqs.Category]
		if !ok || reqs.Count <= 0 || reqs.MinAccuracy <= 0 {
			return 0.0
		}
		countProgress := math.Min(1.0, float64(prof.CasesCompleted)/float64(reqs.Count))
		accuracyProgress := math.Min(1.0, prof.Accuracy/reqs.MinAccuracy)
		return (countProgress + accuracyProgress) / 2

	case "streak":
		if reqs.Count <= 0 {
			return 0.0
		}
		return math.Min(1.0, float64(p.Streak.CurrentStreak)/float64(reqs.Count))

	case "level":
		if reqs.MinLevel <= 0 {
			return 0.0
		}
		return math.Min(1.0, float64(p.Level)/float64(reqs.MinLevel))
	}

	return 0.0
}

// XPBreakdown summarizes where the user's XP came from.
type XPBreakdown struct {
	TotalXP          int
	FromCases        int
	FromAchievements int
}

// GetXPBreakdown splits total XP into case XP and achievement XP.
func (p *Progress) GetXPBreakdown() XPBreakdown {
	fromAchievements := 0
	for _, ea := range p.Earned {
		fromAchievements += ea.XPAwarded
	}
	return XPBreakdown{
		TotalXP:          p.TotalXP,
		FromCases:        p.TotalXP - fromAchievements,
		FromAchievements: fromAchievements,
	}
}
