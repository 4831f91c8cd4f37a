package response

import (
	"strings"
	"testing"

	"mypal/internal/analysis"
	"mypal/internal/markov"
	"mypal/internal/vocab"
)

func ctxFor(level int, text string) Context {
	return Context{
		Level:        level,
		MessageCount: 10,
		UserText:     text,
		Analysis:     analysis.Analyze(text),
		Vocabulary:   vocab.NewStore(nil, 0),
	}
}

func TestLevel0NeverFree(t *testing.T) {
	for i := 0; i < 100; i++ {
		plan := Generate(ctxFor(0, "tell me about the weather today"))
		if plan.UtteranceType == "free" || plan.Strategy == StrategyGenerative {
			t.Fatalf("level 0 must never produce free generation: %+v", plan)
		}
		if !strings.HasPrefix(plan.UtteranceType, "babble") && plan.UtteranceType != "fallback" {
			t.Fatalf("level 0 utterance type out of band: %q", plan.UtteranceType)
		}
		if plan.Output == "" {
			t.Fatalf("empty output")
		}
	}
}

func TestLevel0TentativeEarly(t *testing.T) {
	ctx := ctxFor(0, "hello little one")
	ctx.MessageCount = 0
	plan := Generate(ctx)
	if plan.UtteranceType != "babble-tentative" {
		t.Errorf("first messages should be tentative, got %q", plan.UtteranceType)
	}
}

func TestLevel0GreetingBranch(t *testing.T) {
	plan := generateLevel0(ctxFor(0, "hello there!"))
	if plan.UtteranceType != "babble-greeting" {
		t.Errorf("expected greeting babble, got %+v", plan)
	}
}

func TestLevel1UsesKnownVocabulary(t *testing.T) {
	ctx := ctxFor(1, "look at the dinosaur")
	ctx.Vocabulary.Learn([]string{"dinosaur"}, vocab.SourceUser, "", 5)
	plan := generateLevel1(ctx)
	if plan.Focus != "dinosaur" {
		t.Errorf("expected focus on known keyword, got %+v", plan)
	}
	if !strings.Contains(plan.Output, "dinosaur") {
		t.Errorf("output should contain the word: %q", plan.Output)
	}
}

func TestLevel1ProtoQuestion(t *testing.T) {
	ctx := ctxFor(1, "where is the dinosaur?")
	ctx.Vocabulary.Learn([]string{"dinosaur"}, vocab.SourceUser, "", 5)
	plan := generateLevel1(ctx)
	if plan.UtteranceType != "holophrastic-interrogative" {
		t.Errorf("expected proto-question, got %+v", plan)
	}
	if !strings.HasSuffix(plan.Output, "?") {
		t.Errorf("proto-question should rise: %q", plan.Output)
	}
}

func TestLevel2CapitalAnswer(t *testing.T) {
	plan := generateLevel2(ctxFor(2, "what is the capital of France?"))
	if plan.UtteranceType != "factual-answer" {
		t.Fatalf("expected factual answer, got %+v", plan)
	}
	if !strings.Contains(plan.Output, "paris") {
		t.Errorf("wrong answer: %q", plan.Output)
	}
}

func TestLevel2DefinitionAnswer(t *testing.T) {
	ctx := ctxFor(2, "what is gravity?")
	ctx.Vocabulary.LearnDefinition(vocab.Definition{Concept: "gravity", Meaning: "things fall down"}, 2)
	plan := generateLevel2(ctx)
	if plan.UtteranceType != "factual-answer" {
		t.Fatalf("expected definition answer, got %+v", plan)
	}
	if !strings.Contains(plan.Output, "things fall down") {
		t.Errorf("expected taught definition: %q", plan.Output)
	}
}

func TestLevel2UnknownFactIsUnsure(t *testing.T) {
	plan := generateLevel2(ctxFor(2, "what is the capital of Wakanda?"))
	if plan.UtteranceType != "factual-unsure" {
		t.Errorf("expected unsure answer, got %+v", plan)
	}
}

func TestLevel3TwoWordShape(t *testing.T) {
	ctx := ctxFor(3, "do you like the red ball")
	ctx.Vocabulary.Learn([]string{"ball"}, vocab.SourceUser, "", 3)
	for i := 0; i < 50; i++ {
		plan := generateLevel3(ctx)
		words := strings.Fields(strings.TrimRight(plan.Output, "?!."))
		if len(words) != 2 {
			t.Fatalf("telegraphic output should be two words: %q", plan.Output)
		}
	}
}

func TestLevel4OutputBounded(t *testing.T) {
	corpus := []string{
		"the cat sat on the mat.",
		"the dog chased the cat around the garden!",
		"birds sing in the tall green trees.",
		"rain falls softly on the quiet roof.",
		"the sun warms the garden every morning.",
		"children play games near the old oak tree.",
		"stars shine brightly in the night sky.",
	}
	ctx := ctxFor(12, "tell me about the garden birds")
	ctx.Chain = markov.Build(corpus)
	ctx.Emotion = "curious"
	for i := 0; i < 100; i++ {
		plan := Generate(ctx)
		if n := len(strings.Fields(plan.Output)); n > markov.MaxSentenceTokens {
			t.Fatalf("output exceeds %d tokens: %q", markov.MaxSentenceTokens, plan.Output)
		}
		if plan.Output == "" {
			t.Fatalf("empty output")
		}
	}
}

func TestGenerativeFallsBackWithoutCorpus(t *testing.T) {
	plan := generateFree(ctxFor(5, "tell me about volcanoes"))
	if plan.Strategy != StrategyTemplate {
		t.Errorf("thin corpus should fall back to templates, got %+v", plan)
	}
	if plan.Output == "" {
		t.Errorf("fallback must still say something")
	}
}

func TestSafetyGateHolds(t *testing.T) {
	ctx := ctxFor(1, "say the word grumble")
	ctx.Vocabulary.Learn([]string{"grumble"}, vocab.SourceUser, "", 50)
	ctx.Vocabulary.LearnCorrection(vocab.Correction{Incorrect: "grumble", Correct: "chuckle"}, 1)
	for i := 0; i < 100; i++ {
		plan := Generate(ctx)
		if strings.Contains(strings.ToLower(plan.Output), "grumble") {
			t.Fatalf("avoided word leaked: %q", plan.Output)
		}
	}
}

func TestEmptyInputSafeDefault(t *testing.T) {
	plan := Generate(ctxFor(5, "   "))
	if plan.Output == "" {
		t.Errorf("empty input must yield a fallback phrase")
	}
}

func TestCuriosityQuestionAppended(t *testing.T) {
	ctx := ctxFor(2, "I saw a huge dinosaur")
	ctx.AskQuestion = "Why?"
	plan := Generate(ctx)
	if !strings.HasSuffix(plan.Output, "Why?") {
		t.Errorf("pending question should be surfaced: %q", plan.Output)
	}
	if plan.Question != "Why?" {
		t.Errorf("voiced question should be reported: %+v", plan)
	}
}

func TestCuriosityQuestionCannotBypassSafetyGate(t *testing.T) {
	ctx := ctxFor(6, "tell me something interesting")
	ctx.Vocabulary.LearnCorrection(vocab.Correction{Incorrect: "broccoli", Correct: "cauliflower"}, 6)
	ctx.AskQuestion = "Can you tell me more about broccoli? I want to understand it."
	for i := 0; i < 50; i++ {
		plan := Generate(ctx)
		if strings.Contains(strings.ToLower(plan.Output), "broccoli") {
			t.Fatalf("avoided word leaked through question append: %q", plan.Output)
		}
		if plan.Question != "" {
			t.Fatalf("blocked question must be reported as unasked: %+v", plan)
		}
	}
}

func TestCuriosityQuestionRespectsTokenCeiling(t *testing.T) {
	corpus := []string{
		"the cat sat on the mat.",
		"the dog chased the cat around the garden!",
		"birds sing in the tall green trees.",
		"rain falls softly on the quiet roof.",
		"the sun warms the garden every morning.",
		"children play games near the old oak tree.",
		"stars shine brightly in the night sky.",
	}
	ctx := ctxFor(12, "tell me about the garden birds")
	ctx.Chain = markov.Build(corpus)
	ctx.AskQuestion = "Why does the garden matter to you?"
	for i := 0; i < 100; i++ {
		plan := Generate(ctx)
		if n := len(strings.Fields(plan.Output)); n > markov.MaxSentenceTokens {
			t.Fatalf("question append broke the %d token ceiling: %q", markov.MaxSentenceTokens, plan.Output)
		}
	}
}
