package response

import (
	"math/rand"
	"strings"

	"mypal/internal/analysis"
	"mypal/internal/markov"
)

// Free generation for level 4 and above: a Markov walk seeded from the
// conversation, then a fixed pipeline of probabilistic linguistic enhancers
// keyed to level bands.

var templateFallbacks = []string{
	"I am still learning about %s.",
	"Tell me more about %s?",
	"I like thinking about %s.",
	"%s is interesting to me.",
}

func generateFree(ctx Context) Plan {
	plan := Plan{Strategy: StrategyGenerative, UtteranceType: "free"}
	focus := ctx.focusKeyword()
	plan.Focus = focus

	var sentence string
	if ctx.Chain != nil && ctx.Chain.Ready() {
		// A few attempts: individual walks can fail the quality gate.
		for attempt := 0; attempt < 3 && sentence == ""; attempt++ {
			tokens := ctx.Chain.Generate(focus, markov.MaxSentenceTokens)
			sentence = markov.Finalize(tokens)
		}
		if sentence == "" {
			plan.trace("quality gate rejected all walks")
		}
	} else {
		plan.trace("corpus below activation threshold")
	}

	if sentence == "" {
		plan.Strategy = StrategyTemplate
		plan.UtteranceType = "free-template"
		sentence = templateSentence(ctx)
	}

	sentence = applyEnhancers(sentence, ctx)
	plan.Output = trimToTokens(sentence, markov.MaxSentenceTokens)
	return plan
}

// templateSentence is the degraded mode when the chain is thin or gibberish.
func templateSentence(ctx Context) string {
	focus := ctx.focusKeyword()
	if focus == "" {
		// Recall a remembered topic instead.
		if len(ctx.Memories) > 0 {
			m := ctx.Memories[len(ctx.Memories)-1]
			if len(m.Keywords) > 0 {
				return "I remember we talked about " + m.Keywords[0] + "."
			}
		}
		return "I am thinking about what to say."
	}
	t := templateFallbacks[rand.Intn(len(templateFallbacks))]
	return strings.Replace(t, "%s", focus, 1)
}

// Enhancer pipeline. Each stage is gated on a level band and fires
// probabilistically; order is fixed.

func applyEnhancers(sentence string, ctx Context) string {
	level := ctx.Level
	if level >= 4 {
		sentence = insertArticles(sentence)
	}
	if level >= 5 {
		sentence = substitutePronouns(sentence)
	}
	if level >= 6 && rand.Float64() < 0.25 {
		sentence = addConjunction(sentence, ctx)
	}
	if level >= 8 && rand.Float64() < 0.2 {
		sentence = addSubordinateClause(sentence, ctx)
	}
	if level >= 7 {
		sentence = emotionalPrefix(sentence, ctx)
	}
	if level >= 11 && rand.Float64() < 0.3 {
		sentence = metacognitiveFrame(sentence)
	}
	return sentence
}

var articleNouns = map[string]bool{
	"dog": true, "cat": true, "ball": true, "house": true, "tree": true,
	"book": true, "bird": true, "sun": true, "moon": true, "garden": true,
}

// insertArticles drops "the" in front of bare known nouns.
func insertArticles(sentence string) string {
	words := strings.Fields(sentence)
	var out []string
	for i, w := range words {
		bare := strings.ToLower(strings.Trim(w, ".!?,"))
		prev := ""
		if i > 0 {
			prev = strings.ToLower(words[i-1])
		}
		if articleNouns[bare] && prev != "the" && prev != "a" && prev != "my" {
			out = append(out, "the")
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

var pronounSwaps = map[string]string{
	"pal": "I", "me want": "I want", "me like": "I like", "me see": "I see",
}

func substitutePronouns(sentence string) string {
	lower := strings.ToLower(sentence)
	for from, to := range pronounSwaps {
		if strings.Contains(lower, from) {
			idx := strings.Index(lower, from)
			sentence = sentence[:idx] + to + sentence[idx+len(from):]
			lower = strings.ToLower(sentence)
		}
	}
	return sentence
}

func addConjunction(sentence string, ctx Context) string {
	focus := ctx.focusKeyword()
	if focus == "" {
		return sentence
	}
	sentence = strings.TrimRight(sentence, ".!?")
	return sentence + ", and I wonder about " + focus + "."
}

func addSubordinateClause(sentence string, ctx Context) string {
	clause := "because it feels new to me"
	if ctx.Analysis.Sentiment == analysis.SentimentPositive {
		clause = "because it makes me happy"
	} else if ctx.Analysis.Sentiment == analysis.SentimentNegative {
		clause = "because it worries me a little"
	}
	sentence = strings.TrimRight(sentence, ".!?")
	return sentence + " " + clause + "."
}

var emotionPrefixes = map[string][]string{
	"happy":   {"Oh! ", "Yay, "},
	"excited": {"Oh wow, ", "Oh! "},
	"sad":     {"Hmm... ", "Oh... "},
	"curious": {"Hmm, ", "I wonder... "},
}

func emotionalPrefix(sentence string, ctx Context) string {
	opts, ok := emotionPrefixes[ctx.Emotion]
	if !ok || rand.Float64() > 0.4 {
		return sentence
	}
	prefix := opts[rand.Intn(len(opts))]
	return prefix + strings.ToLower(sentence[:1]) + sentence[1:]
}

func metacognitiveFrame(sentence string) string {
	sentence = strings.ToLower(sentence[:1]) + sentence[1:]
	return "I notice myself thinking that " + sentence
}

// trimToTokens enforces the sentence-length ceiling after enhancement.
func trimToTokens(sentence string, max int) string {
	words := strings.Fields(sentence)
	if len(words) <= max {
		return sentence
	}
	out := strings.Join(words[:max], " ")
	out = strings.TrimRight(out, ",;")
	if !strings.HasSuffix(out, ".") && !strings.HasSuffix(out, "!") && !strings.HasSuffix(out, "?") {
		out += "."
	}
	return out
}
