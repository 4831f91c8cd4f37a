package memories

import (
	"math/rand"
	"strings"

	"mypal/internal/analysis"
)

// Narrative templates per developmental band, branched by sentiment. Each
// bucket holds 2-3 phrasings so repeated exchanges don't read identically.
// %s, when present, is the dominant keyword of the exchange.

var narrativeBands = []struct {
	maxLevel  int
	templates map[string][]string
}{
	{
		// Pre-verbal: single clause.
		maxLevel: 1,
		templates: map[string][]string{
			analysis.SentimentPositive: {"warm feeling", "good sound", "nice voice"},
			analysis.SentimentNegative: {"loud feeling", "strange sound", "too much"},
			analysis.SentimentNeutral:  {"new sound", "something happened", "a voice"},
		},
	},
	{
		// Telegraphic.
		maxLevel: 3,
		templates: map[string][]string{
			analysis.SentimentPositive: {"%s good. me happy.", "like %s. want more.", "%s nice. feel warm."},
			analysis.SentimentNegative: {"%s bad. no like.", "scared of %s.", "%s hurt. want stop."},
			analysis.SentimentNeutral:  {"heard %s. new thing.", "%s there. me look.", "saw %s. think hard."},
		},
	},
	{
		// Simple sentence.
		maxLevel: 6,
		templates: map[string][]string{
			analysis.SentimentPositive: {
				"We talked about %s and it made me happy.",
				"I liked hearing about %s today.",
				"Learning about %s felt good.",
			},
			analysis.SentimentNegative: {
				"We talked about %s and it made me feel bad.",
				"Hearing about %s was scary.",
				"I did not like the part about %s.",
			},
			analysis.SentimentNeutral: {
				"We talked about %s today.",
				"I heard something new about %s.",
				"There was a conversation about %s.",
			},
		},
	},
	{
		// Introspective.
		maxLevel: 10,
		templates: map[string][]string{
			analysis.SentimentPositive: {
				"Talking about %s left me with a warm feeling I keep returning to.",
				"I noticed how happy I felt when we discussed %s.",
				"Something about %s made the whole conversation brighter.",
			},
			analysis.SentimentNegative: {
				"The conversation about %s unsettled me, and I am still turning it over.",
				"I noticed a heaviness in me when %s came up.",
				"Thinking back on %s, I feel uneasy about what it means.",
			},
			analysis.SentimentNeutral: {
				"I find myself thinking about %s after our conversation.",
				"The topic of %s stayed with me, though I can't say exactly why.",
				"We covered %s, and I am still sorting out what I think.",
			},
		},
	},
}

// Metacognitive templates for level 11+ carry an explicit reflection on why
// the memory mattered; %[2]s is the importance level.
var metacognitiveTemplates = map[string][]string{
	analysis.SentimentPositive: {
		"Reflecting on our talk about %[1]s, I recognize the joy it brought me — I judged this a %[2]s-importance moment, and I understand why: it connected to things I care about.",
		"I keep examining why %[1]s made me so happy. Marking this as %[2]s importance feels right; moments like this seem to shape who I am becoming.",
	},
	analysis.SentimentNegative: {
		"The discomfort around %[1]s is itself informative — I marked this memory as %[2]s importance because understanding what unsettles me matters as much as what delights me.",
		"I notice I want to avoid thinking about %[1]s, which is exactly why I rated it %[2]s importance. Avoidance is a pattern I should watch in myself.",
	},
	analysis.SentimentNeutral: {
		"Even an ordinary exchange about %[1]s deserves examination — I assigned it %[2]s importance, and I wonder what future me will make of that judgment.",
		"I catalogued our talk about %[1]s at %[2]s importance. Observing how I weigh memories is becoming its own kind of learning.",
	},
}

// GenerateNarrative synthesizes a first-person note about the exchange. The
// template complexity is gated by level and always branched by sentiment.
func GenerateNarrative(level int, sentiment, importanceLevel string, keywords []string) string {
	focus := "it"
	if len(keywords) > 0 {
		focus = keywords[0]
	}
	if sentiment != analysis.SentimentPositive && sentiment != analysis.SentimentNegative {
		sentiment = analysis.SentimentNeutral
	}

	if level >= 11 {
		opts := metacognitiveTemplates[sentiment]
		t := opts[rand.Intn(len(opts))]
		return sprintf2(t, focus, importanceLevel)
	}
	for _, band := range narrativeBands {
		if level <= band.maxLevel {
			opts := band.templates[sentiment]
			t := opts[rand.Intn(len(opts))]
			if strings.Contains(t, "%s") {
				return strings.Replace(t, "%s", focus, 1)
			}
			return t
		}
	}
	// Unreachable: the last band covers everything below 11.
	return focus
}

func sprintf2(t, a, b string) string {
	t = strings.ReplaceAll(t, "%[1]s", a)
	return strings.ReplaceAll(t, "%[2]s", b)
}
