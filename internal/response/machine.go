package response

import (
	"log"
	"strings"

	"mypal/internal/markov"
)

// Generate dispatches to the level-band generator and enforces the vocabulary
// safety gate on whatever comes out. It is a pure function of the context
// (plus the process-wide random source) and never returns an empty output.
func Generate(ctx Context) Plan {
	if strings.TrimSpace(ctx.UserText) == "" {
		return Plan{
			Strategy:      StrategyTemplate,
			UtteranceType: "fallback",
			Output:        "...",
			Reasoning:     []string{"empty input, safe default"},
		}
	}

	plan := generateForLevel(ctx)

	// Safety gate: avoided phrases must never leave the core. Retry the
	// generator a couple of times, then drop to a guaranteed-safe default.
	for attempt := 0; attempt < 3; attempt++ {
		if ctx.Vocabulary == nil || ctx.Vocabulary.IsResponseSafe(plan.Output) {
			break
		}
		log.Printf("[Response] Candidate blocked by safety gate (attempt %d): %q", attempt+1, plan.Output)
		plan = generateForLevel(ctx)
	}
	if ctx.Vocabulary != nil && !ctx.Vocabulary.IsResponseSafe(plan.Output) {
		plan = Plan{
			Strategy:      StrategySafeRetry,
			UtteranceType: "fallback",
			Output:        safeDefault(ctx),
			Reasoning:     append(plan.Reasoning, "safety gate exhausted retries"),
		}
	}

	// Surface a pending curiosity question alongside the response. The question
	// can name a concept the user has since corrected, so the combined text must
	// pass the same gate; free generation must also stay inside the sentence
	// token ceiling. A blocked or deferred question is reported as unasked.
	if ctx.AskQuestion != "" {
		combined := strings.TrimSpace(plan.Output + " " + ctx.AskQuestion)
		switch {
		case ctx.Vocabulary != nil && !ctx.Vocabulary.IsResponseSafe(combined):
			log.Printf("[Response] Curiosity question blocked by safety gate: %q", ctx.AskQuestion)
			plan.trace("curiosity question blocked by safety gate")
		case ctx.Level >= 4 && len(strings.Fields(combined)) > markov.MaxSentenceTokens:
			plan.trace("curiosity question deferred, output at token ceiling")
		default:
			plan.Output = combined
			plan.Question = ctx.AskQuestion
			plan.trace("appended curiosity question")
		}
	}
	return plan
}

func generateForLevel(ctx Context) Plan {
	switch {
	case ctx.Level <= 0:
		return generateLevel0(ctx)
	case ctx.Level == 1:
		return generateLevel1(ctx)
	case ctx.Level == 2:
		return generateLevel2(ctx)
	case ctx.Level == 3:
		return generateLevel3(ctx)
	default:
		return generateFree(ctx)
	}
}

// safeDefault returns an utterance that cannot contain avoided vocabulary.
func safeDefault(ctx Context) string {
	if ctx.Level <= 1 {
		return syllabicBabble()
	}
	return "hmm..."
}
