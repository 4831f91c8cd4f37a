package response

import (
	"time"

	"mypal/internal/analysis"
	"mypal/internal/markov"
	"mypal/internal/memories"
	"mypal/internal/vocab"
)

// Strategy tags how a response was produced.
type Strategy string

const (
	StrategyBabble       Strategy = "babble"
	StrategyMirror       Strategy = "sentiment-mirror"
	StrategyGreeting     Strategy = "greeting"
	StrategyEcho         Strategy = "phonetic-echo"
	StrategyHolophrastic Strategy = "holophrastic"
	StrategyModifier     Strategy = "word-modifier"
	StrategyFactual      Strategy = "factual-answer"
	StrategyTelegraphic  Strategy = "telegraphic"
	StrategyGenerative   Strategy = "generative"
	StrategyTemplate     Strategy = "template-fallback"
	StrategySafeRetry    Strategy = "safety-fallback"
)

// Plan is the tagged result of one generator run. Reasoning is a diagnostic
// trace only; nothing branches on it.
type Plan struct {
	UtteranceType string   `json:"utterance_type"`
	Output        string   `json:"output"`
	Focus         string   `json:"focus,omitempty"`
	Reasoning     []string `json:"reasoning,omitempty"`
	Strategy      Strategy `json:"strategy"`
	Question      string   `json:"question,omitempty"` // curiosity question actually voiced
}

func (p *Plan) trace(note string) {
	p.Reasoning = append(p.Reasoning, note)
}

// Turn is one prior chat exchange, read-only context for generation.
type Turn struct {
	Role      string // "user" or "pal"
	Text      string
	Timestamp time.Time
}

// Context carries everything a level generator may read. Generators are pure
// functions of this value (plus the process-wide random source); they never
// mutate the stores.
type Context struct {
	Level        int
	MessageCount int
	UserText     string
	Analysis     analysis.Analysis
	Emotion      string
	Vocabulary   *vocab.Store
	Chain        *markov.Chain
	Memories     []memories.Entry
	History      []Turn
	AskQuestion  string // pending curiosity question to surface, if any
}

func (c Context) focusKeyword() string {
	if len(c.Analysis.Keywords) > 0 {
		return c.Analysis.Keywords[0]
	}
	return ""
}
