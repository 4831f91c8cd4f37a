package response

import (
	"math/rand"

	"mypal/internal/analysis"
)

// Holophrastic stage: whole meanings compressed into single words.

var level1Greetings = []string{"hi!", "hello!"}
var level1Positive = []string{"happy!", "good!", "yay!"}
var level1Negative = []string{"sad...", "no...", "bad..."}

func generateLevel1(ctx Context) Plan {
	plan := Plan{Strategy: StrategyHolophrastic, UtteranceType: "holophrastic"}

	if ctx.Analysis.HasGreeting {
		plan.Strategy = StrategyGreeting
		plan.UtteranceType = "holophrastic-greeting"
		plan.Output = level1Greetings[rand.Intn(len(level1Greetings))]
		plan.trace("greeting vocabulary")
		return plan
	}

	// Emotion words when the message carries feeling.
	switch ctx.Analysis.Sentiment {
	case analysis.SentimentPositive:
		plan.Output = level1Positive[rand.Intn(len(level1Positive))]
		plan.trace("positive emotion word")
		return plan
	case analysis.SentimentNegative:
		plan.Output = level1Negative[rand.Intn(len(level1Negative))]
		plan.trace("negative emotion word")
		return plan
	}

	word := strongestKnownWord(ctx)
	if word == "" {
		// Nothing learned yet; regress to babble.
		plan.Strategy = StrategyBabble
		plan.UtteranceType = "babble"
		plan.Output = syllabicBabble()
		plan.trace("no vocabulary yet, babbling")
		return plan
	}
	plan.Focus = word

	// Proto-question: rising single word.
	if ctx.Analysis.HasQuestion {
		plan.UtteranceType = "holophrastic-interrogative"
		plan.Output = word + "?"
		plan.trace("proto-question on " + word)
		return plan
	}

	plan.Output = word + "!"
	plan.trace("single known word " + word)
	return plan
}

// strongestKnownWord prefers a keyword from the current message the pal
// already knows, then the highest-count vocabulary word overall.
func strongestKnownWord(ctx Context) string {
	if ctx.Vocabulary == nil {
		return ""
	}
	for _, kw := range ctx.Analysis.Keywords {
		if e := ctx.Vocabulary.Find(kw, false); e != nil && !e.IsAvoid && e.Count > 0 {
			return e.Word
		}
	}
	known := ctx.Vocabulary.Known()
	if len(known) == 0 {
		return ""
	}
	// Small random window keeps repeated turns from sounding identical.
	window := 3
	if len(known) < window {
		window = len(known)
	}
	return known[rand.Intn(window)].Word
}
