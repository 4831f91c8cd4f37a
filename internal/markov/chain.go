package markov

import (
	"math/rand"
	"regexp"
	"strings"
)

// Chain is an order-1 token transition model built from user-authored text
// and reinforced taught phrases. The pal's own output is deliberately never
// fed back in: training on possibly-degenerate generated text would compound
// its own noise, so the corpus restriction is a feedback-loop breaker.
type Chain struct {
	transitions map[string]map[string]int
	starters    []string
	tokenCount  int
}

const (
	endToken = "\x00end"

	// Activation thresholds: below these the generator reports not ready
	// and callers fall back to template-based phrasing.
	minCorpusTokens = 50
	minChainStates  = 15

	// MaxSentenceTokens is the hard ceiling applied by Finalize.
	MaxSentenceTokens = 15

	minWords       = 2
	minUniqueRatio = 0.4
)

var chainTokenRe = regexp.MustCompile(`[a-zA-Z']+|[.!?]`)

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{transitions: make(map[string]map[string]int)}
}

// tokenizeLine splits corpus text into lowercase words plus sentence-ending
// punctuation tokens.
func tokenizeLine(line string) []string {
	return chainTokenRe.FindAllString(strings.ToLower(line), -1)
}

// Add accumulates one corpus line into the transition tables.
func (c *Chain) Add(line string) {
	tokens := tokenizeLine(line)
	if len(tokens) == 0 {
		return
	}
	tokens = append(tokens, endToken)
	c.starters = append(c.starters, tokens[0])
	for i := 0; i < len(tokens)-1; i++ {
		cur, next := tokens[i], tokens[i+1]
		if c.transitions[cur] == nil {
			c.transitions[cur] = make(map[string]int)
		}
		c.transitions[cur][next]++
		c.tokenCount++
	}
}

// AddWeighted adds a line multiple times, used for reinforced quoted phrases
// (5-10 repeats proportional to reinforcement).
func (c *Chain) AddWeighted(line string, weight int) {
	if weight < 1 {
		weight = 1
	}
	for i := 0; i < weight; i++ {
		c.Add(line)
	}
}

// Build constructs a chain from a whole corpus.
func Build(corpus []string) *Chain {
	c := NewChain()
	for _, line := range corpus {
		c.Add(line)
	}
	return c
}

// Ready reports whether the corpus is large enough for free generation.
func (c *Chain) Ready() bool {
	return c.tokenCount >= minCorpusTokens && len(c.transitions) >= minChainStates
}

// States returns the number of distinct chain states.
func (c *Chain) States() int {
	return len(c.transitions)
}

// TokenCount returns the number of accumulated transitions.
func (c *Chain) TokenCount() int {
	return c.tokenCount
}

// weightedPick samples a next token proportionally to transition counts.
func weightedPick(options map[string]int) string {
	total := 0
	for _, n := range options {
		total += n
	}
	if total == 0 {
		return ""
	}
	r := rand.Intn(total)
	for tok, n := range options {
		r -= n
		if r < 0 {
			return tok
		}
	}
	return ""
}

// Generate performs a weighted random walk from seed, stopping at the end
// sentinel or maxTokens. An unknown seed falls back to a random starter, then
// to a random chain key.
func (c *Chain) Generate(seed string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = MaxSentenceTokens
	}
	seed = strings.ToLower(strings.TrimSpace(seed))
	if _, ok := c.transitions[seed]; !ok {
		seed = c.randomStarter()
	}
	if seed == "" {
		return nil
	}

	tokens := []string{seed}
	cur := seed
	for len(tokens) < maxTokens {
		options, ok := c.transitions[cur]
		if !ok {
			break
		}
		next := weightedPick(options)
		if next == "" || next == endToken {
			break
		}
		tokens = append(tokens, next)
		cur = next
	}
	return tokens
}

func (c *Chain) randomStarter() string {
	if len(c.starters) > 0 {
		return c.starters[rand.Intn(len(c.starters))]
	}
	for k := range c.transitions {
		return k
	}
	return ""
}

// Finalize turns a raw token walk into a presentable sentence: trims to the
// length ceiling, re-attaches punctuation, capitalizes, ensures terminal
// punctuation, and applies the quality gate. Returns "" when the sentence is
// rejected, signalling the caller to fall back to templates.
func Finalize(tokens []string) string {
	if len(tokens) > MaxSentenceTokens {
		tokens = tokens[:MaxSentenceTokens]
	}

	var words []string
	unique := make(map[string]bool)
	var b strings.Builder
	for _, tok := range tokens {
		if tok == endToken {
			break
		}
		if tok == "." || tok == "!" || tok == "?" {
			// Re-attach to the previous word.
			if b.Len() > 0 {
				b.WriteString(tok)
			}
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
		words = append(words, tok)
		unique[tok] = true
	}

	// Quality gate: too short or too repetitive means gibberish.
	if len(words) < minWords {
		return ""
	}
	if float64(len(unique))/float64(len(words)) < minUniqueRatio {
		return ""
	}

	out := b.String()
	out = strings.ToUpper(out[:1]) + out[1:]
	if !strings.HasSuffix(out, ".") && !strings.HasSuffix(out, "!") && !strings.HasSuffix(out, "?") {
		out += "."
	}
	return out
}
