package analysis

import (
	"regexp"
	"strings"
)

// Sentiment labels produced by Analyze.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

const maxTokens = 40

// Analysis is the result of analyzing one user message. It is a pure value:
// identical input text always produces an identical Analysis.
type Analysis struct {
	Tokens      []string `json:"tokens"`
	Keywords    []string `json:"keywords"`
	Sentiment   string   `json:"sentiment"`
	HasQuestion bool     `json:"has_question"`
	HasGreeting bool     `json:"has_greeting"`
	HasThanks   bool     `json:"has_thanks"`
	IsCommand   bool     `json:"is_command"`
	WordCount   int      `json:"word_count"`
	Exclamation bool     `json:"exclamation"`
}

var (
	stageDirectionRe = regexp.MustCompile(`\*[^*]*\*`)
	wordRe           = regexp.MustCompile(`[a-zA-Z]{2,}`)
	greetingRe       = regexp.MustCompile(`(?i)\b(hi|hiya|hello|hey|howdy|good (morning|afternoon|evening))\b`)
	thanksRe         = regexp.MustCompile(`(?i)\b(thanks|thank you|thankyou|thx|ty)\b`)
	questionWordRe   = regexp.MustCompile(`(?i)^\s*(what|who|where|when|why|how|is|are|do|does|did|can|could|will|would)\b`)
	commandRe        = regexp.MustCompile(`(?i)^\s*(please\s+)?(say|tell|show|give|stop|go|come|look|listen|remember|repeat|try)\b`)
)

// Tokenize splits raw text into lowercase alphabetic tokens. Asterisk-wrapped
// stage directions (*waves*) are dropped before matching, and the result is
// capped at 40 tokens.
func Tokenize(text string) []string {
	cleaned := stageDirectionRe.ReplaceAllString(text, " ")
	matches := wordRe.FindAllString(strings.ToLower(cleaned), -1)
	if len(matches) > maxTokens {
		matches = matches[:maxTokens]
	}
	return matches
}

// Keywords filters tokens down to de-duplicated, non-stop-word terms.
func Keywords(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, t := range tokens {
		if stopWords[t] || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// scoreSentiment runs a signed lexicon vote over the tokens.
func scoreSentiment(tokens []string) string {
	score := 0
	for _, t := range tokens {
		if positiveWords[t] {
			score++
		}
		if negativeWords[t] {
			score--
		}
	}
	switch {
	case score > 1:
		return SentimentPositive
	case score < -1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Analyze tokenizes raw user text and extracts keywords, sentiment and intent
// flags. It is deterministic and has no side effects.
func Analyze(text string) Analysis {
	tokens := Tokenize(text)
	a := Analysis{
		Tokens:      tokens,
		Keywords:    Keywords(tokens),
		Sentiment:   scoreSentiment(tokens),
		HasQuestion: strings.Contains(text, "?") || questionWordRe.MatchString(text),
		HasGreeting: greetingRe.MatchString(text),
		HasThanks:   thanksRe.MatchString(text),
		IsCommand:   commandRe.MatchString(text),
		WordCount:   len(tokens),
		Exclamation: strings.Contains(text, "!"),
	}
	return a
}
