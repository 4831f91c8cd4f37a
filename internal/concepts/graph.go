package concepts

import (
	"sort"
	"strings"
	"time"

	"mypal/internal/analysis"
)

// Kind of concept node.
const (
	KindCategory = "category"
	KindTopic    = "topic"
)

// Importance labels accepted by Update.
const (
	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

// categoryHints maps keywords to semantic buckets. Static, loaded once.
var categoryHints = map[string]string{
	"happy": "emotion", "sad": "emotion", "angry": "emotion", "scared": "emotion",
	"love": "emotion", "hate": "emotion", "excited": "emotion", "calm": "emotion",
	"afraid": "emotion", "joy": "emotion", "cry": "emotion", "laugh": "emotion",

	"hungry": "need", "thirsty": "need", "tired": "need", "sleep": "need",
	"food": "need", "water": "need", "rest": "need", "help": "need",

	"friend": "social", "family": "social", "mother": "social", "father": "social",
	"people": "social", "together": "social", "share": "social", "talk": "social",
	"hello": "social", "goodbye": "social",

	"learn": "learning", "school": "learning", "read": "learning", "book": "learning",
	"teach": "learning", "know": "learning", "think": "learning", "remember": "learning",
	"question": "learning", "answer": "learning",

	"grow": "growth", "change": "growth", "new": "growth", "big": "growth",
	"small": "growth", "more": "growth", "better": "growth",

	"care": "care", "safe": "care", "gentle": "care", "kind": "care",
	"hug": "care", "protect": "care", "warm": "care",
}

// actionWords are verbs too generic to become topics of their own.
var actionWords = map[string]bool{
	"go": true, "went": true, "get": true, "put": true, "make": true,
	"made": true, "take": true, "took": true, "see": true, "saw": true,
	"say": true, "said": true, "want": true, "need": true, "do": true,
	"did": true, "come": true, "came": true, "look": true, "use": true,
}

// ImportanceHistogram counts how often a concept appeared at each level of
// exchange importance.
type ImportanceHistogram struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Concept is one node in the semantic graph. Nodes are created lazily and
// never deleted; all fields only accumulate.
type Concept struct {
	Key             string              `json:"key"` // "category:<name>" or "topic:<word>"
	Name            string              `json:"name"`
	Kind            string              `json:"kind"`
	TotalMentions   int                 `json:"totalMentions"`
	Keywords        map[string]int      `json:"keywords"`
	SentimentSum    float64             `json:"sentimentSum"`
	SentimentCount  int                 `json:"sentimentSamples"`
	Importance      ImportanceHistogram `json:"importance"`
	ImportanceScore int                 `json:"importanceScore"`
	LevelMin        int                 `json:"levelMin"`
	LevelMax        int                 `json:"levelMax"`
	FirstSeen       time.Time           `json:"firstSeen"`
	LastSeen        time.Time           `json:"lastSeen"`
}

// AverageSentiment returns the running sentiment mean in [-1, 1].
func (c *Concept) AverageSentiment() float64 {
	if c.SentimentCount == 0 {
		return 0
	}
	return c.SentimentSum / float64(c.SentimentCount)
}

// Graph aggregates keywords into concepts for one profile.
type Graph struct {
	nodes map[string]*Concept
}

// NewGraph wraps an existing concept collection.
func NewGraph(collection []Concept) *Graph {
	g := &Graph{nodes: make(map[string]*Concept, len(collection))}
	for i := range collection {
		c := collection[i]
		if c.Keywords == nil {
			c.Keywords = make(map[string]int)
		}
		g.nodes[c.Key] = &c
	}
	return g
}

// resolveKey maps a keyword to its concept key, or "" when the keyword should
// be skipped (stop words, generic actions, short unmapped tokens).
func resolveKey(kw string) (key, name, kind string) {
	kw = strings.ToLower(kw)
	if cat, ok := categoryHints[kw]; ok {
		return "category:" + cat, cat, KindCategory
	}
	if analysis.IsStopWord(kw) || actionWords[kw] || len(kw) < 4 {
		return "", "", ""
	}
	return "topic:" + kw, kw, KindTopic
}

func sentimentValue(sentiment string) (float64, bool) {
	switch sentiment {
	case analysis.SentimentPositive:
		return 1, true
	case analysis.SentimentNegative:
		return -1, true
	case analysis.SentimentNeutral:
		return 0, true
	}
	return 0, false
}

// Update folds one analyzed exchange into the graph: per keyword, get or
// create the node, bump mention counts, merge keyword frequency, widen the
// level range and accumulate sentiment and importance.
func (g *Graph) Update(keywords []string, sentiment, importance string, level int) []*Concept {
	now := time.Now()
	var touched []*Concept
	for _, kw := range keywords {
		key, name, kind := resolveKey(kw)
		if key == "" {
			continue
		}
		c, ok := g.nodes[key]
		if !ok {
			c = &Concept{
				Key:       key,
				Name:      name,
				Kind:      kind,
				Keywords:  make(map[string]int),
				LevelMin:  level,
				LevelMax:  level,
				FirstSeen: now,
			}
			g.nodes[key] = c
		}
		c.TotalMentions++
		c.Keywords[strings.ToLower(kw)]++
		c.LastSeen = now
		if level < c.LevelMin {
			c.LevelMin = level
		}
		if level > c.LevelMax {
			c.LevelMax = level
		}
		if v, ok := sentimentValue(sentiment); ok {
			c.SentimentSum += v
			c.SentimentCount++
		}
		switch importance {
		case ImportanceHigh:
			c.Importance.High++
			c.ImportanceScore += 3
		case ImportanceMedium:
			c.Importance.Medium++
			c.ImportanceScore += 2
		default:
			c.Importance.Low++
			c.ImportanceScore++
		}
		touched = append(touched, c)
	}
	return touched
}

// Get returns a concept node by key, or nil.
func (g *Graph) Get(key string) *Concept {
	return g.nodes[key]
}

// Len returns the number of concept nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Concepts returns the collection for persistence, ordered by mention count.
func (g *Graph) Concepts() []Concept {
	out := make([]Concept, 0, len(g.nodes))
	for _, c := range g.nodes {
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalMentions > out[j].TotalMentions })
	return out
}

// RelationshipStats summarizes how connected a concept is, used as the
// knowledge-score denominator for curiosity.
func (g *Graph) RelationshipStats(key string) (relationships int, avgWeight float64) {
	c := g.nodes[key]
	if c == nil || len(c.Keywords) == 0 {
		return 0, 0
	}
	total := 0
	for _, n := range c.Keywords {
		total += n
	}
	return len(c.Keywords), float64(total) / float64(len(c.Keywords))
}
