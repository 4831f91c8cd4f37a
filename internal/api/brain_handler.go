package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"mypal/internal/analysis"
)

// Brain graph parameters: top words by frequency across the recent chat log,
// edges for same-message co-occurrence seen at least twice.
const (
	brainMaxNodes    = 50
	brainMinEdgeHits = 2
)

type brainNode struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type brainEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

type pairKey struct{ a, b string }

// BrainHandler renders the pal's word co-occurrence graph from user-authored
// messages in the recent window.
func BrainHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		p, err := profileFor(userId.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Profile lookup failed"}})
			return
		}
		msgs, err := recentMessages(p.ID, historyWindow)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}

		counts := make(map[string]int)
		pairs := make(map[pairKey]int)
		for _, m := range msgs {
			if m.Role != "user" {
				continue
			}
			kws := analysis.Analyze(m.Text).Keywords
			for _, w := range kws {
				counts[w]++
			}
			for i := 0; i < len(kws); i++ {
				for j := i + 1; j < len(kws); j++ {
					a, b := kws[i], kws[j]
					if a > b {
						a, b = b, a
					}
					pairs[pairKey{a, b}]++
				}
			}
		}

		nodes := make([]brainNode, 0, len(counts))
		for w, n := range counts {
			nodes = append(nodes, brainNode{Word: w, Count: n})
		}
		sort.Slice(nodes, func(i, j int) bool {
			if nodes[i].Count != nodes[j].Count {
				return nodes[i].Count > nodes[j].Count
			}
			return nodes[i].Word < nodes[j].Word
		})
		if len(nodes) > brainMaxNodes {
			nodes = nodes[:brainMaxNodes]
		}
		kept := make(map[string]bool, len(nodes))
		for _, n := range nodes {
			kept[n.Word] = true
		}

		edges := make([]brainEdge, 0)
		for pk, n := range pairs {
			if n < brainMinEdgeHits || !kept[pk.a] || !kept[pk.b] {
				continue
			}
			edges = append(edges, brainEdge{Source: pk.a, Target: pk.b, Weight: n})
		}
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].Weight != edges[j].Weight {
				return edges[i].Weight > edges[j].Weight
			}
			if edges[i].Source != edges[j].Source {
				return edges[i].Source < edges[j].Source
			}
			return edges[i].Target < edges[j].Target
		})

		c.JSON(http.StatusOK, gin.H{"nodes": nodes, "edges": edges})
	}
}
