package curiosity

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Trigger threshold: only concepts scoring above this produce a question.
const threshold = 0.6

// AnswerWindow bounds how long a pending question stays answerable.
const AnswerWindow = 2 * time.Minute

// PendingQuestion is an open "why" the pal asked and is waiting on. It is
// consumed when a user reply arrives inside the answer window; at most one
// resolution happens per turn.
type PendingQuestion struct {
	ID             string    `json:"id"`
	Concept        string    `json:"concept"`
	Question       string    `json:"question"`
	AskedAt        time.Time `json:"askedAt"`
	CuriosityScore float64   `json:"curiosityScore"`
}

// Reinforcement describes one concept touched by the current turn's learning,
// with the stats curiosity scoring needs.
type Reinforcement struct {
	ConceptKey    string  // e.g. "topic:dinosaur"
	ConceptName   string  // e.g. "dinosaur"
	Boost         float64 // reinforcement applied this turn
	Relationships int     // linked keywords in the concept graph
	AvgWeight     float64 // mean link weight
	VocabCount    int     // vocabulary count for the concept word
}

// Score blends reinforcement strength, knowledge gap and concept importance:
//
//	0.4*(boost/10) + 0.35*(1-knowledge) + 0.25*importance
//
// where knowledge = min(1, relationships*avgWeight/100) and
// importance = min(1, vocabCount/50).
func Score(r Reinforcement) float64 {
	boost := r.Boost / 10
	if boost > 1 {
		boost = 1
	}
	knowledge := float64(r.Relationships) * r.AvgWeight / 100
	if knowledge > 1 {
		knowledge = 1
	}
	importance := float64(r.VocabCount) / 50
	if importance > 1 {
		importance = 1
	}
	return 0.4*boost + 0.35*(1-knowledge) + 0.25*importance
}

// questionTemplates for level bands above plain "Why?".
var midLevelTemplates = []string{
	"Why %s?",
	"What is %s?",
	"%s... why?",
}

var highLevelTemplates = []string{
	"I keep noticing %s comes up. Why does %s matter to you?",
	"Can you tell me more about %s? I want to understand it.",
	"Something about %s makes me curious. What makes it the way it is?",
}

// QuestionFor renders a level-appropriate curiosity question.
func QuestionFor(concept string, level int) string {
	switch {
	case level <= 2:
		return "Why?"
	case level <= 5:
		t := midLevelTemplates[rand.Intn(len(midLevelTemplates))]
		return fmt.Sprintf(t, concept)
	default:
		t := highLevelTemplates[rand.Intn(len(highLevelTemplates))]
		if t == highLevelTemplates[0] {
			return fmt.Sprintf(t, concept, concept)
		}
		return fmt.Sprintf(t, concept)
	}
}

// CheckCuriosity inspects this turn's reinforcements and, when the best one
// scores above the trigger threshold, returns a new PendingQuestion for it.
func CheckCuriosity(reinforcements []Reinforcement, level int) *PendingQuestion {
	var best *Reinforcement
	bestScore := threshold
	for i := range reinforcements {
		if s := Score(reinforcements[i]); s > bestScore {
			bestScore = s
			best = &reinforcements[i]
		}
	}
	if best == nil {
		return nil
	}
	q := &PendingQuestion{
		ID:             uuid.NewString(),
		Concept:        best.ConceptName,
		Question:       QuestionFor(best.ConceptName, level),
		AskedAt:        time.Now(),
		CuriosityScore: bestScore,
	}
	log.Printf("[Curiosity] Asking about %q (score %.2f)", best.ConceptName, bestScore)
	return q
}

// ResolveAnswered finds the most recent pending question still inside the
// answer window, removes it from the list, and returns it. Expired questions
// are dropped. At most one question resolves per call.
func ResolveAnswered(pending []PendingQuestion, now time.Time) (*PendingQuestion, []PendingQuestion) {
	var answered *PendingQuestion
	var kept []PendingQuestion
	bestIdx := -1
	for i := range pending {
		if now.Sub(pending[i].AskedAt) > AnswerWindow {
			continue // expired
		}
		if bestIdx == -1 || pending[i].AskedAt.After(pending[bestIdx].AskedAt) {
			bestIdx = i
		}
	}
	for i := range pending {
		if i == bestIdx {
			q := pending[i]
			answered = &q
			continue
		}
		if now.Sub(pending[i].AskedAt) <= AnswerWindow {
			kept = append(kept, pending[i])
		}
	}
	return answered, kept
}

// PriorityMultiplier is the vocabulary reinforcement amplifier applied to the
// words of an answering message. Stronger curiosity earns a stronger
// multiplier, capped at 4.0. This is a single-hop amplifier: follow-up
// messages are not chained.
func PriorityMultiplier(q PendingQuestion) float64 {
	m := 2.5 + q.CuriosityScore*1.5
	if m > 4.0 {
		m = 4.0
	}
	return m
}
