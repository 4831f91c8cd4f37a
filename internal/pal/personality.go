package pal

import (
	"mypal/internal/analysis"
	"mypal/internal/profile"
)

// Personality drift: each turn nudges traits toward the interaction style the
// user actually brings. Traits are clamped to 0-100 so no single habit can
// run away.

func clampTrait(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func driftPersonality(p *profile.Personality, a analysis.Analysis) {
	if a.HasQuestion {
		p.Curious = clampTrait(p.Curious + 1)
	}
	if a.HasGreeting || a.HasThanks {
		p.Social = clampTrait(p.Social + 1)
	}
	switch a.Sentiment {
	case analysis.SentimentPositive:
		p.Agreeable = clampTrait(p.Agreeable + 1)
	case analysis.SentimentNegative:
		p.Cautious = clampTrait(p.Cautious + 1)
	}
	// Long, structured messages pull toward analytical habits.
	if a.WordCount >= 12 {
		p.Logical = clampTrait(p.Logical + 1)
	}
}

// deriveEmotion maps the analyzed exchange onto the pal's current mood.
func deriveEmotion(a analysis.Analysis) string {
	switch {
	case a.Sentiment == analysis.SentimentPositive && a.Exclamation:
		return "excited"
	case a.Sentiment == analysis.SentimentPositive:
		return "happy"
	case a.Sentiment == analysis.SentimentNegative:
		return "sad"
	case a.HasQuestion:
		return "curious"
	default:
		return "calm"
	}
}
