package progression

// RecommendDifficulty picks the next difficulty tier from recent accuracy and
// pace, constrained to what the user has unlocked. With fewer than 5 recent
// samples it stays at beginner.
func (p *Progress) RecommendDifficulty() string {
	recent := p.Metrics.RecentPerformance
	if len(recent) < 5 {
		return p.highestAvailable("beginner")
	}

	window := recent
	if len(window) > 10 {
		window = window[len(window)-10:]
	}
	accuracy := meanAccuracy(window)
	avgTime := 0.0
	for _, s := range window {
		avgTime += s.TimeTaken
	}
	avgTime /= float64(len(window))

	switch {
	case accuracy >= 90 && avgTime < 120:
		return p.highestAvailable("expert", "advanced", "intermediate")
	case accuracy >= 75:
		return p.highestAvailable("advanced", "intermediate")
	case accuracy >= 60:
		return p.highestAvailable("intermediate")
	default:
		return "beginner"
	}
}

// highestAvailable returns the first unlocked tier in preference order,
// falling back to beginner.
func (p *Progress) highestAvailable(preferred ...string) string {
	for _, tier := range preferred {
		if p.Unlocks.Difficulties[tier] {
			return tier
		}
	}
	return "beginner"
}
