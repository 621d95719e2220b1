// Package search turns raw user queries into engine expressions, executes
// them against the live index, and decorates results with highlighted
// snippets.
package search

import (
	"regexp"
	"strings"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/engine"
)

// tokenPattern extracts runs of letters and digits, any script.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Translate compiles a raw query into a prefix-match expression. Tokens
// are lowercased but deliberately not stemmed, so a query matches any
// indexed term it is a prefix of.
func Translate(query string) engine.Expression {
	tokens := tokenPattern.FindAllString(strings.ToLower(query), -1)
	if len(tokens) == 0 {
		return engine.Expression{}
	}

	seen := make(map[string]bool, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		terms = append(terms, tok)
	}
	return engine.Expression{Terms: terms}
}
