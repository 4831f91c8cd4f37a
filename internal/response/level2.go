package response

import (
	"math/rand"
	"regexp"
	"strings"
)

// Single words plus modifiers and possessives, and first attempts at direct
// factual answers.

var level2Modifiers = []string{"big", "little", "good", "nice", "more"}

var capitalOfRe = regexp.MustCompile(`(?i)capital\s+of\s+([a-z]+)`)
var whatIsRe = regexp.MustCompile(`(?i)what(?:'s| is)\s+(?:a\s+|an\s+|the\s+)?([a-z]+)`)

// capitals is a tiny static fact table for the "capital of X" party trick.
var capitals = map[string]string{
	"france": "paris", "england": "london", "japan": "tokyo",
	"italy": "rome", "spain": "madrid", "germany": "berlin",
	"russia": "moscow", "china": "beijing", "egypt": "cairo",
	"canada": "ottawa", "australia": "canberra", "poland": "warsaw",
}

func generateLevel2(ctx Context) Plan {
	plan := Plan{Strategy: StrategyModifier, UtteranceType: "modified"}

	// Attempt direct factual answers before anything else.
	if ctx.Analysis.HasQuestion {
		if p, ok := factualAnswer(ctx); ok {
			return p
		}
	}

	if ctx.Analysis.HasGreeting {
		plan.Strategy = StrategyGreeting
		plan.UtteranceType = "modified-greeting"
		plan.Output = "hi friend!"
		plan.trace("greeting with modifier")
		return plan
	}

	word := strongestKnownWord(ctx)
	if word == "" {
		plan.Output = syllabicBabble()
		plan.Strategy = StrategyBabble
		plan.UtteranceType = "babble"
		plan.trace("no vocabulary, babbling")
		return plan
	}
	plan.Focus = word

	switch rand.Intn(3) {
	case 0:
		plan.Output = level2Modifiers[rand.Intn(len(level2Modifiers))] + " " + word
		plan.trace("modifier + noun")
	case 1:
		plan.Output = "my " + word
		plan.UtteranceType = "modified-possessive"
		plan.trace("possessive construction")
	default:
		plan.Output = word + "!"
		plan.UtteranceType = "holophrastic"
		plan.trace("plain single word")
	}
	return plan
}

// factualAnswer tries "capital of X" and "what is X" questions. Definitions
// the user taught earlier are the preferred source.
func factualAnswer(ctx Context) (Plan, bool) {
	plan := Plan{Strategy: StrategyFactual}

	if m := capitalOfRe.FindStringSubmatch(ctx.UserText); m != nil {
		country := strings.ToLower(m[1])
		if capital, ok := capitals[country]; ok {
			plan.UtteranceType = "factual-answer"
			plan.Focus = country
			plan.Output = capital + "!"
			plan.trace("capital lookup hit for " + country)
			return plan, true
		}
		plan.UtteranceType = "factual-unsure"
		plan.Focus = country
		plan.Output = "not sure..."
		plan.trace("capital lookup miss")
		return plan, true
	}

	if m := whatIsRe.FindStringSubmatch(ctx.UserText); m != nil && ctx.Vocabulary != nil {
		concept := strings.ToLower(m[1])
		if e := ctx.Vocabulary.Find(concept, false); e != nil && len(e.Definitions) > 0 {
			def := e.Definitions[len(e.Definitions)-1]
			plan.UtteranceType = "factual-answer"
			plan.Focus = concept
			plan.Output = concept + " is " + def
			plan.trace("answered from taught definition")
			return plan, true
		}
		plan.UtteranceType = "factual-unsure"
		plan.Focus = concept
		plan.Output = "not sure..."
		plan.trace("no definition known for " + concept)
		return plan, true
	}

	return plan, false
}
