package response

import (
	"math/rand"
	"strings"

	"mypal/internal/analysis"
)

// Pre-linguistic stage: the pal can only babble. Branch order mirrors infant
// behavior — tentativeness first, then social mirroring, then echoing.

var phonemes = []string{"ba", "da", "ga", "ma", "pa", "ka", "la"}

func pickPhoneme() string {
	return phonemes[rand.Intn(len(phonemes))]
}

func syllabicBabble() string {
	p := pickPhoneme()
	switch rand.Intn(3) {
	case 0:
		return p
	case 1:
		return p + "-" + p
	default:
		return p + pickPhoneme()
	}
}

func generateLevel0(ctx Context) Plan {
	plan := Plan{Strategy: StrategyBabble, UtteranceType: "babble"}

	// Very first exchanges: quiet, tentative sounds.
	if ctx.MessageCount < 3 {
		plan.UtteranceType = "babble-tentative"
		plan.Output = pickPhoneme() + "..."
		plan.trace("early exchange, tentative babble")
		return plan
	}

	if ctx.Analysis.HasGreeting {
		plan.Strategy = StrategyGreeting
		plan.UtteranceType = "babble-greeting"
		p := pickPhoneme()
		plan.Output = p + "-" + p + "!"
		plan.trace("greeting recognized, excited babble")
		return plan
	}

	// Sentiment mirroring.
	switch ctx.Analysis.Sentiment {
	case analysis.SentimentPositive:
		plan.Strategy = StrategyMirror
		plan.UtteranceType = "babble-mirror"
		plan.Output = syllabicBabble() + "!"
		plan.trace("mirroring positive sentiment")
		return plan
	case analysis.SentimentNegative:
		plan.Strategy = StrategyMirror
		plan.UtteranceType = "babble-mirror"
		plan.Output = strings.ToLower(pickPhoneme()) + "..."
		plan.trace("mirroring negative sentiment, soft babble")
		return plan
	}

	// Phonetic echo of a short user word.
	for _, kw := range ctx.Analysis.Keywords {
		if len(kw) >= 2 && len(kw) <= 4 {
			syll := kw[:2]
			plan.Strategy = StrategyEcho
			plan.UtteranceType = "babble-echo"
			plan.Focus = kw
			plan.Output = syll + "-" + syll
			plan.trace("echoing short word " + kw)
			return plan
		}
	}

	plan.Output = syllabicBabble()
	plan.trace("syllabic babble fallback")
	return plan
}
