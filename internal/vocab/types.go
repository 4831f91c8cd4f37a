package vocab

import (
	"time"
)

// Source identifies who contributed a word occurrence.
type Source string

const (
	SourceUser Source = "user"
	SourcePal  Source = "pal"
)

// QuoteType distinguishes how a quoted phrase was taught.
const (
	QuoteTypeTaught     = "taught"
	QuoteTypeCorrection = "correction"
)

// Memory type markers for decay handling.
const (
	MemoryTypeWord       = "word"
	MemoryTypePhrase     = "phrase"
	MemoryTypeDefinition = "definition"
)

const (
	// DefaultCap is the global vocabulary size limit. On overflow the
	// lowest-count entries are pruned first.
	DefaultCap = 500

	// CorrectionPenalty is subtracted from an entry's count when the user
	// corrects it. Count never goes below zero.
	CorrectionPenalty = 15

	maxContexts       = 5
	maxContextLen     = 120
	maxDefinitions    = 3
	maxLearningChains = 5
)

// KnownBy tracks per-source reinforcement counts.
type KnownBy struct {
	User int `json:"user"`
	Pal  int `json:"pal"`
}

// MemoryMetadata controls how an entry fades when it stops being reinforced.
type MemoryMetadata struct {
	MemoryType string    `json:"memoryType"`
	DecayRate  float64   `json:"decayRate"`
	ExpiryDate time.Time `json:"expiryDate"`
	Temporal   bool      `json:"temporal"`
}

// Entry is one weighted vocabulary record. At most one entry exists per
// (Word, IsQuoted) pair.
type Entry struct {
	ID             string         `json:"id"`
	Word           string         `json:"word"`
	Count          int            `json:"count"`
	KnownBy        KnownBy        `json:"knownBy"`
	LastSeen       time.Time      `json:"lastSeen"`
	Contexts       []string       `json:"contexts,omitempty"`
	IsQuoted       bool           `json:"isQuoted,omitempty"`
	QuoteType      string         `json:"quoteType,omitempty"`
	IsAvoid        bool           `json:"isAvoid,omitempty"`
	AvoidReason    string         `json:"avoidReason,omitempty"`
	CorrectedTo    string         `json:"correctedTo,omitempty"`
	Definitions    []string       `json:"definitions,omitempty"`
	LearningChains []string       `json:"learningChains,omitempty"`
	Memory         MemoryMetadata `json:"memoryMetadata"`
}
