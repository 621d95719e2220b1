package search

import (
	"regexp"
	"sort"
)

// Highlighter wraps query term occurrences in snippets with <mark> tags.
// The patterns are built once per query and reused across the result page.
type Highlighter struct {
	patterns []*regexp.Regexp
}

// NewHighlighter builds a highlighter for the expression's terms. Matching
// is case insensitive; the original casing of the snippet is preserved
// because the matched text itself is wrapped, not the query term. Longer
// terms run first so a term that is a prefix of another cannot split the
// longer term's occurrences before they are wrapped.
func NewHighlighter(terms []string) *Highlighter {
	ordered := make([]string, 0, len(terms))
	for _, term := range terms {
		if term != "" {
			ordered = append(ordered, term)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	patterns := make([]*regexp.Regexp, 0, len(ordered))
	for _, term := range ordered {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(term)))
	}
	return &Highlighter{patterns: patterns}
}

// Apply returns the snippet with every term occurrence wrapped in
// <mark></mark>. Each term is applied in its own pass, so a term that is
// a prefix of another still gets its longer occurrences wrapped in full.
// Passes are not deduplicated; overlapping terms may nest markers. With
// no terms the snippet passes through unchanged.
func (h *Highlighter) Apply(snippet string) string {
	if snippet == "" {
		return snippet
	}
	for _, pattern := range h.patterns {
		snippet = pattern.ReplaceAllString(snippet, "<mark>$0</mark>")
	}
	return snippet
}
