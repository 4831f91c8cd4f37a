package memories

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"mypal/internal/analysis"
)

// DefaultCap bounds the retained memory collection; oldest entries are
// evicted first on overflow.
const DefaultCap = 500

const (
	summaryLimit = 140
	keywordLimit = 8
)

// Importance levels.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// priorityKeywords force retention when they appear in an exchange.
var priorityKeywords = []string{"remember", "promise", "important", "secret", "always", "never forget"}

// XPSnapshot captures progression at the moment of the exchange.
type XPSnapshot struct {
	Gained int `json:"gained"`
	Total  int `json:"total"`
	Level  int `json:"level"`
}

// Importance is the scored retention decision for one exchange.
type Importance struct {
	Score          int      `json:"score"`
	Level          string   `json:"level"`
	ShouldRemember bool     `json:"shouldRemember"`
	Reasons        []string `json:"reasons"`
	Tags           []string `json:"tags"`
}

// Entry is one retained exchange. Immutable once created.
type Entry struct {
	ID         string     `json:"id"`
	Timestamp  time.Time  `json:"ts"`
	UserText   string     `json:"userText"`
	PalText    string     `json:"palText"`
	Summary    string     `json:"summary"`
	Sentiment  string     `json:"sentiment"`
	Keywords   []string   `json:"keywords"`
	XP         XPSnapshot `json:"xp"`
	Importance Importance `json:"importance"`
	Narrative  string     `json:"subjectiveNarrative"`
}

// Signals are the inputs to importance evaluation for one turn.
type Signals struct {
	Analysis         analysis.Analysis
	UserText         string
	FirstInteraction bool
	XPGained         int
}

// EvaluateImportance scores an exchange with an additive point model and
// decides whether it should be retained.
func EvaluateImportance(sig Signals) Importance {
	imp := Importance{}
	add := func(points int, reason string) {
		imp.Score += points
		imp.Reasons = append(imp.Reasons, reason)
	}

	if sig.FirstInteraction {
		add(5, "first interaction")
		imp.Tags = append(imp.Tags, "first-contact")
	}
	if sig.Analysis.Sentiment != analysis.SentimentNeutral {
		add(2, "emotional exchange")
		imp.Tags = append(imp.Tags, sig.Analysis.Sentiment)
	}
	if sig.Analysis.Exclamation || strings.Contains(sig.UserText, "??") {
		add(1, "expressive punctuation")
	}
	switch {
	case sig.Analysis.WordCount >= 18:
		add(2, "dense message")
	case sig.Analysis.WordCount >= 10:
		add(1, "substantial message")
	}
	switch {
	case len(sig.Analysis.Keywords) >= 5:
		add(2, "rich keyword diversity")
	case len(sig.Analysis.Keywords) >= 3:
		add(1, "several keywords")
	}
	lower := strings.ToLower(sig.UserText)
	for _, pk := range priorityKeywords {
		if strings.Contains(lower, pk) {
			add(3, "priority keyword: "+pk)
			imp.Tags = append(imp.Tags, "priority")
			break
		}
	}
	if sig.XPGained > 10 {
		add(1, "large experience gain")
	}

	switch {
	case imp.Score >= 6:
		imp.Level = LevelHigh
	case imp.Score >= 3:
		imp.Level = LevelMedium
	default:
		imp.Level = LevelLow
	}
	imp.ShouldRemember = imp.Score >= 2 || sig.FirstInteraction
	return imp
}

// BuildEntry packages a retained exchange, truncating the summary and
// synthesizing the level-gated subjective narrative.
func BuildEntry(sig Signals, palText string, xp XPSnapshot, imp Importance) Entry {
	keywords := sig.Analysis.Keywords
	if len(keywords) > keywordLimit {
		keywords = keywords[:keywordLimit]
	}
	summary := strings.TrimSpace(sig.UserText)
	if r := []rune(summary); len(r) > summaryLimit {
		summary = string(r[:summaryLimit-3]) + "..."
	}
	return Entry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		UserText:   sig.UserText,
		PalText:    palText,
		Summary:    summary,
		Sentiment:  sig.Analysis.Sentiment,
		Keywords:   keywords,
		XP:         xp,
		Importance: imp,
		Narrative:  GenerateNarrative(xp.Level, sig.Analysis.Sentiment, imp.Level, keywords),
	}
}

// AppendCapped appends an entry, evicting the oldest first when the
// collection exceeds capLimit.
func AppendCapped(collection []Entry, e Entry, capLimit int) []Entry {
	if capLimit <= 0 {
		capLimit = DefaultCap
	}
	collection = append(collection, e)
	if len(collection) > capLimit {
		collection = collection[len(collection)-capLimit:]
	}
	return collection
}
