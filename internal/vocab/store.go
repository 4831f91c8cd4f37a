package vocab

import (
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is a weighted vocabulary ledger for a single profile. It is built
// around the profile's vocabulary collection and mutates it in place; the
// caller persists the collection after the turn. Not safe for concurrent use —
// the request layer serializes turns per profile.
type Store struct {
	entries []*Entry
	index   map[string]*Entry // key: word + "|q" for quoted entries
	cap     int
}

// NewStore wraps an existing collection. The slice contents are shared, so
// mutations made through the store are visible to the caller.
func NewStore(collection []Entry, capLimit int) *Store {
	if capLimit <= 0 {
		capLimit = DefaultCap
	}
	s := &Store{
		entries: make([]*Entry, 0, len(collection)),
		index:   make(map[string]*Entry, len(collection)),
		cap:     capLimit,
	}
	for i := range collection {
		e := collection[i]
		s.insert(&e)
	}
	return s
}

func key(word string, quoted bool) string {
	if quoted {
		return word + "|q"
	}
	return word
}

func (s *Store) insert(e *Entry) {
	s.entries = append(s.entries, e)
	s.index[key(e.Word, e.IsQuoted)] = e
}

// Find returns the entry for (word, quoted), or nil.
func (s *Store) Find(word string, quoted bool) *Entry {
	return s.index[key(strings.ToLower(word), quoted)]
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns the current collection, for persistence.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	return out
}

func (s *Store) getOrCreate(word string, quoted bool) *Entry {
	if e := s.Find(word, quoted); e != nil {
		return e
	}
	e := &Entry{
		ID:       uuid.NewString(),
		Word:     strings.ToLower(word),
		IsQuoted: quoted,
		Memory: MemoryMetadata{
			MemoryType: MemoryTypeWord,
			DecayRate:  0.1,
			ExpiryDate: time.Now().Add(30 * 24 * time.Hour),
		},
	}
	if quoted {
		e.Memory.MemoryType = MemoryTypePhrase
	}
	s.insert(e)
	return e
}

func pushContext(e *Entry, context string) {
	context = strings.TrimSpace(context)
	if context == "" {
		return
	}
	// Truncate on rune boundaries; the snippets are persisted as JSON.
	if r := []rune(context); len(r) > maxContextLen {
		context = string(r[:maxContextLen])
	}
	e.Contexts = append(e.Contexts, context)
	if len(e.Contexts) > maxContexts {
		e.Contexts = e.Contexts[len(e.Contexts)-maxContexts:]
	}
}

// Learn reinforces each word by boost (usually 1, amplified by priority
// learning) and records who contributed it plus a context snippet.
func (s *Store) Learn(words []string, source Source, context string, boost int) {
	if boost < 1 {
		boost = 1
	}
	now := time.Now()
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) < 2 {
			continue
		}
		e := s.getOrCreate(w, false)
		e.Count += boost
		e.LastSeen = now
		switch source {
		case SourcePal:
			e.KnownBy.Pal++
		default:
			e.KnownBy.User++
		}
		pushContext(e, context)
	}
	s.enforceCap()
}

// QuotedBonus is the reinforcement applied when a phrase is explicitly quoted
// by the user, scaled by developmental level.
func QuotedBonus(level int) int {
	b := level/2 + 3
	if b > 10 {
		b = 10
	}
	return b
}

// DefinitionBonus is the larger reinforcement for taught definitions.
func DefinitionBonus(level int) int {
	b := level/2 + 8
	if b > 15 {
		b = 15
	}
	return b
}

// LearnQuoted creates or boosts a dedicated quoted-phrase entry per phrase.
func (s *Store) LearnQuoted(phrases []string, level int) {
	bonus := QuotedBonus(level)
	now := time.Now()
	for _, p := range phrases {
		p = normalizePhrase(p)
		if p == "" {
			continue
		}
		e := s.getOrCreate(p, true)
		if e.QuoteType == "" {
			e.QuoteType = QuoteTypeTaught
		}
		e.Count += bonus
		e.KnownBy.User++
		e.LastSeen = now
	}
	s.enforceCap()
}

// LearnDefinition stores a taught definition with a larger bonus and
// near-zero decay, keeping the 3 most recent definitions per concept.
func (s *Store) LearnDefinition(def Definition, level int) {
	e := s.getOrCreate(def.Concept, false)
	e.Count += DefinitionBonus(level)
	e.KnownBy.User++
	e.LastSeen = time.Now()
	e.Definitions = append(e.Definitions, def.Meaning)
	if len(e.Definitions) > maxDefinitions {
		e.Definitions = e.Definitions[len(e.Definitions)-maxDefinitions:]
	}
	e.Memory.MemoryType = MemoryTypeDefinition
	e.Memory.DecayRate = 0.01
	e.Memory.ExpiryDate = time.Now().Add(365 * 24 * time.Hour)
	s.enforceCap()
}

// LearnCorrection penalizes the incorrect entry, flags it as avoided, and
// boosts the corrected form as a taught quoted phrase.
func (s *Store) LearnCorrection(corr Correction, level int) {
	bad := s.getOrCreate(corr.Incorrect, false)
	bad.Count -= CorrectionPenalty
	if bad.Count < 0 {
		bad.Count = 0
	}
	bad.IsAvoid = true
	bad.AvoidReason = "corrected by user"
	bad.CorrectedTo = corr.Correct
	bad.LastSeen = time.Now()

	good := s.getOrCreate(corr.Correct, true)
	good.QuoteType = QuoteTypeCorrection
	good.Count += QuotedBonus(level)
	good.KnownBy.User++
	good.LastSeen = time.Now()

	log.Printf("[Vocab] Correction learned: avoid %q, prefer %q", corr.Incorrect, corr.Correct)
	s.enforceCap()
}

// AddLearningChain tags an entry with the concept chain that reinforced it.
func (s *Store) AddLearningChain(word, chain string) {
	e := s.Find(word, false)
	if e == nil {
		return
	}
	e.LearningChains = append(e.LearningChains, chain)
	if len(e.LearningChains) > maxLearningChains {
		e.LearningChains = e.LearningChains[len(e.LearningChains)-maxLearningChains:]
	}
}

// IsResponseSafe rejects any candidate output containing an avoided word or
// phrase. This gate runs before any text leaves the core and must never be
// bypassed.
func (s *Store) IsResponseSafe(text string) bool {
	lower := strings.ToLower(text)
	for _, e := range s.entries {
		if e.IsAvoid && e.Word != "" && strings.Contains(lower, e.Word) {
			return false
		}
	}
	return true
}

// Known returns entries known from user input, sorted by count descending.
func (s *Store) Known() []*Entry {
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.IsAvoid && e.Count > 0 {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// QuotedPhrases returns reinforced quoted-phrase entries for corpus building.
func (s *Store) QuotedPhrases() []*Entry {
	var out []*Entry
	for _, e := range s.entries {
		if e.IsQuoted && !e.IsAvoid && e.Count > 0 {
			out = append(out, e)
		}
	}
	return out
}

// ApplyDecay decrements counts of entries whose expiry has passed, scaled by
// their decay rate. Definitions decay at a near-zero rate. Returns the number
// of entries touched.
func (s *Store) ApplyDecay(now time.Time) int {
	touched := 0
	for _, e := range s.entries {
		if e.Memory.ExpiryDate.IsZero() || now.Before(e.Memory.ExpiryDate) {
			continue
		}
		dec := int(float64(e.Count) * e.Memory.DecayRate)
		if dec < 1 && e.Memory.DecayRate > 0 {
			dec = 1
		}
		if dec > 0 && e.Count > 0 {
			e.Count -= dec
			if e.Count < 0 {
				e.Count = 0
			}
			touched++
		}
		e.Memory.ExpiryDate = now.Add(30 * 24 * time.Hour)
	}
	return touched
}

// enforceCap prunes the lowest-count entries once the ledger exceeds the cap.
func (s *Store) enforceCap() {
	if len(s.entries) <= s.cap {
		return
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].Count > s.entries[j].Count
	})
	dropped := s.entries[s.cap:]
	s.entries = s.entries[:s.cap]
	for _, e := range dropped {
		delete(s.index, key(e.Word, e.IsQuoted))
	}
	log.Printf("[Vocab] Cap reached, pruned %d low-weight entries", len(dropped))
}
