package vocab

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestLearnCreatesAndReinforces(t *testing.T) {
	s := NewStore(nil, 0)
	s.Learn([]string{"dog", "cat"}, SourceUser, "I saw a dog and a cat", 1)
	s.Learn([]string{"dog"}, SourceUser, "the dog barked", 1)

	e := s.Find("dog", false)
	if e == nil {
		t.Fatalf("dog entry missing")
	}
	if e.Count != 2 || e.KnownBy.User != 2 {
		t.Errorf("count=%d knownBy.user=%d, want 2/2", e.Count, e.KnownBy.User)
	}
	if len(e.Contexts) != 2 {
		t.Errorf("expected 2 contexts, got %d", len(e.Contexts))
	}
}

func TestContextRingBuffer(t *testing.T) {
	s := NewStore(nil, 0)
	for i := 0; i < 8; i++ {
		s.Learn([]string{"sun"}, SourceUser, fmt.Sprintf("context %d", i), 1)
	}
	e := s.Find("sun", false)
	if len(e.Contexts) != 5 {
		t.Fatalf("expected 5 contexts, got %d", len(e.Contexts))
	}
	if e.Contexts[0] != "context 3" || e.Contexts[4] != "context 7" {
		t.Errorf("ring buffer kept wrong window: %v", e.Contexts)
	}
}

func TestContextTruncationKeepsValidUTF8(t *testing.T) {
	s := NewStore(nil, 0)
	long := strings.Repeat("héllo wörld ", 20)
	s.Learn([]string{"hello"}, SourceUser, long, 1)

	e := s.Find("hello", false)
	if len(e.Contexts) != 1 {
		t.Fatalf("expected one context, got %d", len(e.Contexts))
	}
	ctx := e.Contexts[0]
	if n := utf8.RuneCountInString(ctx); n > maxContextLen {
		t.Errorf("context too long: %d runes", n)
	}
	if !utf8.ValidString(ctx) {
		t.Errorf("truncation split a rune: %q", ctx)
	}
}

func TestQuotedEntryIsSeparate(t *testing.T) {
	s := NewStore(nil, 0)
	s.Learn([]string{"hello"}, SourceUser, "", 1)
	s.LearnQuoted([]string{"hello"}, 4)

	plain := s.Find("hello", false)
	quoted := s.Find("hello", true)
	if plain == nil || quoted == nil {
		t.Fatalf("expected separate (word, quoted) entries")
	}
	if quoted.Count != QuotedBonus(4) {
		t.Errorf("quoted count=%d, want %d", quoted.Count, QuotedBonus(4))
	}
}

func TestBonusFormulas(t *testing.T) {
	if QuotedBonus(0) != 3 || QuotedBonus(4) != 5 || QuotedBonus(99) != 10 {
		t.Errorf("quoted bonus wrong: %d %d %d", QuotedBonus(0), QuotedBonus(4), QuotedBonus(99))
	}
	if DefinitionBonus(0) != 8 || DefinitionBonus(6) != 11 || DefinitionBonus(99) != 15 {
		t.Errorf("definition bonus wrong")
	}
}

func TestLearnDefinitionKeepsThree(t *testing.T) {
	s := NewStore(nil, 0)
	for i := 0; i < 5; i++ {
		s.LearnDefinition(Definition{Concept: "sky", Meaning: fmt.Sprintf("meaning %d", i)}, 5)
	}
	e := s.Find("sky", false)
	if len(e.Definitions) != 3 {
		t.Fatalf("expected 3 definitions, got %d", len(e.Definitions))
	}
	if e.Definitions[2] != "meaning 4" {
		t.Errorf("most recent definition missing: %v", e.Definitions)
	}
	if e.Memory.DecayRate >= 0.1 {
		t.Errorf("definitions should have near-zero decay, got %f", e.Memory.DecayRate)
	}
}

func TestCorrectionRoundTrip(t *testing.T) {
	s := NewStore(nil, 0)
	s.Learn([]string{"bad"}, SourceUser, "", 1)

	matches := DetectCorrections("Don't say 'bad', say 'good'")
	if len(matches) == 0 {
		t.Fatalf("correction not detected")
	}
	s.LearnCorrection(matches[0], 3)

	bad := s.Find("bad", false)
	if bad == nil || !bad.IsAvoid || bad.CorrectedTo != "good" {
		t.Fatalf("avoid entry wrong: %+v", bad)
	}
	if bad.Count != 0 {
		t.Errorf("penalty should floor at 0, got %d", bad.Count)
	}
	good := s.Find("good", true)
	if good == nil || !good.IsQuoted {
		t.Fatalf("corrected form should be a quoted entry: %+v", good)
	}
	if s.IsResponseSafe("that is bad weather") {
		t.Errorf("safety gate should reject avoided words")
	}
	if !s.IsResponseSafe("that is good weather") {
		t.Errorf("safety gate should allow clean output")
	}
}

func TestVocabularyCapKeepsTopByCount(t *testing.T) {
	s := NewStore(nil, 100)
	// Words learned later get higher counts.
	for i := 0; i < 150; i++ {
		w := fmt.Sprintf("word%03d", i)
		for j := 0; j <= i; j++ {
			s.Learn([]string{w}, SourceUser, "", 1)
		}
	}
	if s.Len() != 100 {
		t.Fatalf("expected cap of 100, got %d", s.Len())
	}
	if s.Find("word000", false) != nil {
		t.Errorf("lowest-count entry should have been pruned")
	}
	if s.Find("word149", false) == nil {
		t.Errorf("highest-count entry should survive")
	}
}

func TestApplyDecay(t *testing.T) {
	s := NewStore(nil, 0)
	s.Learn([]string{"old"}, SourceUser, "", 10)
	e := s.Find("old", false)
	e.Memory.ExpiryDate = time.Now().Add(-time.Hour)

	if touched := s.ApplyDecay(time.Now()); touched != 1 {
		t.Fatalf("expected 1 decayed entry, got %d", touched)
	}
	if e.Count >= 10 {
		t.Errorf("count should shrink, got %d", e.Count)
	}
	if e.Count < 0 {
		t.Errorf("count must not go negative")
	}
}
