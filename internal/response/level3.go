package response

import (
	"math/rand"

	"mypal/internal/analysis"
)

// Telegraphic stage: two-word constructions with semantic roles, the way
// toddlers compress grammar ("want ball", "mama go").

type telegraphicRole string

const (
	roleAgentAction  telegraphicRole = "agent-action"
	roleActionObject telegraphicRole = "action-patient"
	rolePossession   telegraphicRole = "possession"
	roleAttribution  telegraphicRole = "attribution"
	roleNegation     telegraphicRole = "negation"
)

var telegraphicActions = []string{"want", "see", "like", "play", "go"}
var telegraphicAttributes = []string{"big", "good", "fun", "new"}

func generateLevel3(ctx Context) Plan {
	plan := Plan{Strategy: StrategyTelegraphic, UtteranceType: "telegraphic"}

	word := strongestKnownWord(ctx)
	if word == "" {
		word = "that"
	}
	plan.Focus = word

	role := pickRole(ctx)
	switch role {
	case roleAgentAction:
		plan.Output = "pal " + telegraphicActions[rand.Intn(len(telegraphicActions))]
	case roleActionObject:
		plan.Output = telegraphicActions[rand.Intn(len(telegraphicActions))] + " " + word
	case rolePossession:
		plan.Output = "my " + word
	case roleAttribution:
		plan.Output = word + " " + telegraphicAttributes[rand.Intn(len(telegraphicAttributes))]
	case roleNegation:
		plan.Output = "no " + word
	}
	plan.trace("semantic role: " + string(role))

	if ctx.Analysis.HasQuestion {
		plan.UtteranceType = "telegraphic-interrogative"
		plan.Output += "?"
	}
	return plan
}

// pickRole biases role selection by the message's shape: negation mirrors
// negative sentiment, questions pull toward attribution answers.
func pickRole(ctx Context) telegraphicRole {
	if ctx.Analysis.Sentiment == analysis.SentimentNegative && rand.Float64() < 0.6 {
		return roleNegation
	}
	if ctx.Analysis.HasQuestion && rand.Float64() < 0.5 {
		return roleAttribution
	}
	roles := []telegraphicRole{roleAgentAction, roleActionObject, rolePossession, roleAttribution}
	return roles[rand.Intn(len(roles))]
}
