package catalog

import "strings"

// Vocabulary is an ordered set of accepted tokens compared case-insensitively.
type Vocabulary struct {
	tokens []string
	folded map[string]struct{}
}

// NewVocabulary creates a vocabulary keeping the given display order.
func NewVocabulary(tokens []string) Vocabulary {
	v := Vocabulary{
		tokens: append([]string(nil), tokens...),
		folded: make(map[string]struct{}, len(tokens)),
	}
	for _, t := range tokens {
		v.folded[strings.ToLower(t)] = struct{}{}
	}
	return v
}

// Contains reports whether s matches a token ignoring case. Surrounding
// whitespace is significant: " Yes" is not "Yes".
func (v Vocabulary) Contains(s string) bool {
	_, ok := v.folded[strings.ToLower(s)]
	return ok
}

// Len returns the number of tokens.
func (v Vocabulary) Len() int { return len(v.tokens) }

// Empty reports whether the vocabulary has no tokens.
func (v Vocabulary) Empty() bool { return len(v.tokens) == 0 }

// String renders the tokens comma separated, as used in issue messages.
func (v Vocabulary) String() string {
	return strings.Join(v.tokens, ",")
}
