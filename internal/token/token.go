// Package token derives the lowercase search tokens stored alongside catalog
// and transaction records. Tokens are always rebuilt from source fields on
// write; they are a materialized index, never independently edited.
package token

import "strings"

// Tokenize splits each source string on whitespace, lowercases the parts and
// returns the deduplicated token set. Empty parts are dropped.
func Tokenize(sources ...string) []string {
	seen := make(map[string]struct{})
	tokens := make([]string, 0, 8)
	for _, source := range sources {
		for _, part := range strings.Fields(source) {
			tok := strings.ToLower(part)
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Normalize lowercases and trims a free-text query before prefix matching.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// HasPrefixMatch reports whether any token starts with the normalized query.
func HasPrefixMatch(tokens []string, query string) bool {
	q := Normalize(query)
	if q == "" {
		return false
	}
	for _, tok := range tokens {
		if strings.HasPrefix(tok, q) {
			return true
		}
	}
	return false
}
