package pal

import (
	"log"
	"math"
	"strings"
	"time"

	"mypal/internal/analysis"
	"mypal/internal/concepts"
	"mypal/internal/curiosity"
	"mypal/internal/markov"
	"mypal/internal/memories"
	"mypal/internal/profile"
	"mypal/internal/response"
	"mypal/internal/vocab"
)

// baseTurnXP is the experience granted for any processed exchange, before the
// profile multiplier.
const baseTurnXP = 10

// Engine drives one full conversational turn: analyze, learn, update the
// concept graph, run curiosity, generate the response, and evaluate memory.
// It mutates the snapshot in place; the caller persists afterwards.
type Engine struct {
	VocabCap  int
	MemoryCap int
}

func New() *Engine {
	return &Engine{VocabCap: vocab.DefaultCap, MemoryCap: memories.DefaultCap}
}

// Result is everything the transport layer needs to answer a chat turn.
type Result struct {
	Reply            string   `json:"reply"`
	Kind             string   `json:"kind"`
	Strategy         string   `json:"strategy"`
	Focus            string   `json:"focus,omitempty"`
	Reasoning        []string `json:"reasoning,omitempty"`
	Emotion          string   `json:"emotion"`
	XPGained         int      `json:"xpGained"`
	Level            int      `json:"level"`
	LeveledUp        bool     `json:"leveledUp"`
	MemoryStored     bool     `json:"memoryStored"`
	MemoryImportance string   `json:"memoryImportance,omitempty"`
	Question         string   `json:"question,omitempty"`
}

// ProcessTurn runs the full pipeline for one user message. History is the
// persisted chat log, oldest first; it feeds the Markov corpus (user lines
// only) and the response context.
func (e *Engine) ProcessTurn(text string, snap *profile.Snapshot, history []profile.ChatMessage, now time.Time) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Reply: "...", Kind: "fallback", Emotion: snap.State.CurrentEmotion, Level: snap.State.Level}
	}

	st := &snap.State
	startLevel := st.Level
	first := st.MessageCount == 0

	a := analysis.Analyze(text)
	store := vocab.NewStore(snap.Vocabulary, e.VocabCap)

	// Priority learning: if this message answers a pending curiosity question,
	// its words are reinforced with an amplified boost. Single hop only.
	answered, remaining := curiosity.ResolveAnswered(st.PendingQuestions, now)
	boost := 1
	if answered != nil {
		mult := curiosity.PriorityMultiplier(*answered)
		boost = int(math.Round(mult))
		log.Printf("[Pal] Priority learning x%.1f for answer about %q", mult, answered.Concept)
	}

	store.Learn(a.Keywords, vocab.SourceUser, text, boost)
	if answered != nil {
		for _, kw := range a.Keywords {
			store.AddLearningChain(kw, answered.Concept)
		}
	}

	// Explicit teaching detectors run independently; one message can carry
	// quoted phrases, definitions and corrections at once.
	quoted := vocab.ExtractQuotedPhrases(text)
	store.LearnQuoted(quoted, startLevel)
	definitions := vocab.DetectDefinitions(text)
	for _, def := range definitions {
		store.LearnDefinition(def, startLevel)
	}
	for _, corr := range vocab.DetectCorrections(text) {
		store.LearnCorrection(corr, startLevel)
	}

	gained, leveledUp := AddXP(st, baseTurnXP)

	sig := memories.Signals{Analysis: a, UserText: text, FirstInteraction: first, XPGained: gained}
	imp := memories.EvaluateImportance(sig)

	graph := concepts.NewGraph(snap.Concepts)
	touched := graph.Update(a.Keywords, a.Sentiment, imp.Level, startLevel)

	// Curiosity: score every concept this turn reinforced.
	reinforcements := make([]curiosity.Reinforcement, 0, len(touched))
	for _, c := range touched {
		rels, avg := graph.RelationshipStats(c.Key)
		vc := 0
		if ve := store.Find(c.Name, false); ve != nil {
			vc = ve.Count
		}
		reinforcements = append(reinforcements, curiosity.Reinforcement{
			ConceptKey:    c.Key,
			ConceptName:   c.Name,
			Boost:         conceptBoost(c.Name, boost, quoted, definitions, startLevel),
			Relationships: rels,
			AvgWeight:     avg,
			VocabCount:    vc,
		})
	}
	ask := ""
	var candidate *curiosity.PendingQuestion
	if q := curiosity.CheckCuriosity(reinforcements, startLevel); q != nil {
		ask = q.Question
		candidate = q
	}

	emotion := deriveEmotion(a)
	st.CurrentEmotion = emotion
	driftPersonality(&st.Personality, a)

	var chain *markov.Chain
	if startLevel >= 4 {
		chain = buildCorpus(history, text, store)
	}

	plan := response.Generate(response.Context{
		Level:        startLevel,
		MessageCount: st.MessageCount,
		UserText:     text,
		Analysis:     a,
		Emotion:      emotion,
		Vocabulary:   store,
		Chain:        chain,
		Memories:     snap.Memories,
		History:      historyTurns(history),
		AskQuestion:  ask,
	})

	// A question only waits for an answer if the safety gate let it be voiced.
	if candidate != nil && plan.Question != "" {
		remaining = append(remaining, *candidate)
	}
	st.PendingQuestions = remaining

	// The pal also learns the words it used itself, tracked separately.
	store.Learn(analysis.Analyze(plan.Output).Keywords, vocab.SourcePal, "", 1)

	stored := false
	if imp.ShouldRemember {
		entry := memories.BuildEntry(sig, plan.Output, memories.XPSnapshot{Gained: gained, Total: st.XP, Level: st.Level}, imp)
		snap.Memories = memories.AppendCapped(snap.Memories, entry, e.MemoryCap)
		if entry.Narrative != "" {
			snap.Journal = append(snap.Journal, profile.JournalEntry{
				ID:        entry.ID + "-j",
				MemoryID:  entry.ID,
				Timestamp: entry.Timestamp,
				Narrative: entry.Narrative,
				Level:     st.Level,
			})
		}
		stored = true
	}

	snap.Vocabulary = store.Entries()
	snap.Concepts = graph.Concepts()
	st.MessageCount++

	return Result{
		Reply:            plan.Output,
		Kind:             plan.UtteranceType,
		Strategy:         string(plan.Strategy),
		Focus:            plan.Focus,
		Reasoning:        plan.Reasoning,
		Emotion:          emotion,
		XPGained:         gained,
		Level:            st.Level,
		LeveledUp:        leveledUp,
		MemoryStored:     stored,
		MemoryImportance: imp.Level,
		Question:         plan.Question,
	}
}

// conceptBoost estimates how strongly a concept was reinforced this turn: the
// plain learn boost, lifted to the quoted or definition bonus when the user
// explicitly taught the word.
func conceptBoost(name string, base int, quoted []string, defs []vocab.Definition, level int) float64 {
	b := float64(base)
	for _, q := range quoted {
		if strings.Contains(strings.ToLower(q), name) {
			if qb := float64(vocab.QuotedBonus(level)); qb > b {
				b = qb
			}
		}
	}
	for _, d := range defs {
		if strings.EqualFold(d.Concept, name) {
			if db := float64(vocab.DefinitionBonus(level)); db > b {
				b = db
			}
		}
	}
	return b
}

// buildCorpus assembles the Markov chain from user-authored history plus the
// current message, with reinforced quoted phrases weighted in. Pal output is
// never included.
func buildCorpus(history []profile.ChatMessage, current string, store *vocab.Store) *markov.Chain {
	chain := markov.NewChain()
	for _, m := range history {
		if m.Role == "user" {
			chain.Add(m.Text)
		}
	}
	chain.Add(current)
	for _, q := range store.QuotedPhrases() {
		w := 5 + q.Count/2
		if w > 10 {
			w = 10
		}
		chain.AddWeighted(q.Word, w)
	}
	return chain
}

func historyTurns(history []profile.ChatMessage) []response.Turn {
	out := make([]response.Turn, 0, len(history))
	for _, m := range history {
		out = append(out, response.Turn{Role: m.Role, Text: m.Text, Timestamp: m.CreatedAt})
	}
	return out
}
