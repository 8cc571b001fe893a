package textutil

import (
	"regexp"
	"strings"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize splits text into lowercase alphanumeric tokens. Short tokens are
// kept; series names like "ER" or "24" must survive tokenization.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// TokenSet is the unique-token view of a piece of text.
type TokenSet map[string]struct{}

// NewTokenSet tokenizes text and collects the unique tokens.
func NewTokenSet(text string) TokenSet {
	tokens := Tokenize(text)
	set := make(TokenSet, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// Contains reports whether token is in the set.
func (s TokenSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// CountContained returns how many of the given tokens are in the set.
func (s TokenSet) CountContained(tokens []string) int {
	count := 0
	for _, token := range tokens {
		if s.Contains(token) {
			count++
		}
	}
	return count
}

// ContainsAll reports whether every given token is in the set.
func (s TokenSet) ContainsAll(tokens []string) bool {
	return s.CountContained(tokens) == len(tokens)
}

// Ternary is a generic conditional helper that returns a if cond is true, b otherwise.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
