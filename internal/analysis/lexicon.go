package analysis

// Static word tables. Loaded once, never mutated at runtime.

var stopWords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "are": true,
	"was": true, "were": true, "been": true, "have": true, "has": true,
	"had": true, "this": true, "that": true, "these": true, "those": true,
	"with": true, "from": true, "they": true, "them": true, "their": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"will": true, "would": true, "could": true, "should": true, "there": true,
	"here": true, "then": true, "than": true, "your": true, "you": true,
	"its": true, "it's": true, "into": true, "onto": true, "about": true,
	"very": true, "just": true, "some": true, "such": true, "can": true,
	"not": true, "out": true, "all": true, "also": true, "because": true,
	"how": true, "who": true, "why": true, "did": true, "does": true,
	"doing": true, "get": true, "got": true, "don": true, "isn": true,
}

var positiveWords = map[string]bool{
	"good": true, "great": true, "happy": true, "love": true, "like": true,
	"nice": true, "fun": true, "awesome": true, "wonderful": true,
	"amazing": true, "best": true, "cool": true, "yay": true, "glad": true,
	"sweet": true, "friend": true, "play": true, "beautiful": true,
	"excellent": true, "fantastic": true, "smart": true, "proud": true,
	"thanks": true, "thank": true, "kind": true, "safe": true, "warm": true,
}

var negativeWords = map[string]bool{
	"bad": true, "sad": true, "hate": true, "angry": true, "mad": true,
	"scared": true, "afraid": true, "hurt": true, "cry": true, "wrong": true,
	"terrible": true, "awful": true, "worst": true, "no": true, "never": true,
	"stop": true, "mean": true, "ugly": true, "sick": true, "tired": true,
	"alone": true, "lost": true, "broken": true, "scary": true, "pain": true,
}

// IsStopWord reports whether w is in the static stop-word table.
func IsStopWord(w string) bool {
	return stopWords[w]
}
