package vocab

import (
	"regexp"
	"strings"
)

// Pattern detectors for teaching constructs. Detection is kept separate from
// the learning side-effects that consume the matches; every detector returns
// an empty result when nothing matches — absence of a pattern is not an error.

// Correction is a structured "don't say X, say Y" match.
type Correction struct {
	Incorrect string `json:"incorrect"`
	Correct   string `json:"correct"`
}

// Definition is a structured "X means Y" / "an X is Y" match.
type Definition struct {
	Concept string `json:"concept"`
	Meaning string `json:"meaning"`
}

var correctionPatterns = []*regexp.Regexp{
	// "don't say 'bad', say 'good'"
	regexp.MustCompile(`(?i)don'?t\s+say\s+['"]?([\w\s]+?)['"]?\s*[,.]?\s*say\s+['"]?([\w\s]+?)['"]?\s*[.!]?$`),
	// "say 'good' not 'bad'"
	regexp.MustCompile(`(?i)say\s+['"]?([\w\s]+?)['"]?\s*[,.]?\s*not\s+['"]?([\w\s]+?)['"]?\s*[.!]?$`),
	// "'bad' is wrong, say 'good'"
	regexp.MustCompile(`(?i)['"]?([\w\s]+?)['"]?\s+is\s+wrong\s*[,.]?\s*say\s+['"]?([\w\s]+?)['"]?\s*[.!]?$`),
}

var definitionPatterns = []*regexp.Regexp{
	// "gravity means things fall down"
	regexp.MustCompile(`(?i)^\s*['"]?([a-z]+)['"]?\s+means\s+(.+?)\s*[.!]?$`),
	// "a dog is a furry animal" / "an apple is a fruit"
	regexp.MustCompile(`(?i)^\s*an?\s+([a-z]+)\s+is\s+(.+?)\s*[.!]?$`),
}

var quotedPhraseRe = regexp.MustCompile(`"([^"]{2,80})"|'([^']{2,80})'`)

// DetectCorrections finds every correction construct in the message.
// Pattern order encodes which capture group holds the incorrect word.
func DetectCorrections(text string) []Correction {
	var out []Correction
	for i, re := range correctionPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			var c Correction
			if i == 1 {
				// "say Y not X": correct form comes first
				c = Correction{Incorrect: m[2], Correct: m[1]}
			} else {
				c = Correction{Incorrect: m[1], Correct: m[2]}
			}
			c.Incorrect = normalizePhrase(c.Incorrect)
			c.Correct = normalizePhrase(c.Correct)
			if c.Incorrect != "" && c.Correct != "" && c.Incorrect != c.Correct {
				out = append(out, c)
			}
		}
	}
	return out
}

// DetectDefinitions finds "X means Y" and "a/an X is Y" constructs.
func DetectDefinitions(text string) []Definition {
	var out []Definition
	for _, re := range definitionPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			concept := normalizePhrase(m[1])
			meaning := strings.TrimSpace(m[2])
			if concept == "" || meaning == "" {
				continue
			}
			out = append(out, Definition{Concept: concept, Meaning: meaning})
		}
	}
	return out
}

// ExtractQuotedPhrases returns verbatim phrases the user wrapped in quotes.
func ExtractQuotedPhrases(text string) []string {
	var out []string
	for _, m := range quotedPhraseRe.FindAllStringSubmatch(text, -1) {
		phrase := m[1]
		if phrase == "" {
			phrase = m[2]
		}
		phrase = normalizePhrase(phrase)
		if phrase != "" {
			out = append(out, phrase)
		}
	}
	return out
}

func normalizePhrase(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `.,!?'"`)))
}
