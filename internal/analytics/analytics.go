// Package analytics computes corpus-level statistics from the indexed
// documents: totals, category distribution, and dominant terms.
package analytics

import (
	"context"
	"sort"
	"strings"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/index"
)

// DefaultTopTerms bounds the term frequency list when no limit is given.
const DefaultTopTerms = 20

// TermCount is one entry in the term frequency ranking.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Report summarizes the indexed corpus. Term counts are over the
// normalized content, so stems are counted, not surface forms.
type Report struct {
	TotalDocuments int            `json:"total_documents"`
	Categories     map[string]int `json:"categories"`
	TopTerms       []TermCount    `json:"top_terms"`
}

// Service computes reports against the live index.
type Service struct {
	manager *index.Manager
}

// NewService creates an analytics service over the manager's live index.
func NewService(manager *index.Manager) *Service {
	return &Service{manager: manager}
}

// Analyze scans every indexed document and aggregates the report.
// topN <= 0 uses DefaultTopTerms.
func (s *Service) Analyze(ctx context.Context, topN int) (*Report, error) {
	if topN <= 0 {
		topN = DefaultTopTerms
	}

	idx, release, err := s.manager.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	docs, err := idx.Documents(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TotalDocuments: len(docs),
		Categories:     make(map[string]int),
		TopTerms:       []TermCount{},
	}

	freq := make(map[string]int)
	for _, doc := range docs {
		report.Categories[doc.Category]++
		for _, term := range strings.Fields(doc.Content) {
			freq[term]++
		}
	}

	terms := make([]TermCount, 0, len(freq))
	for term, count := range freq {
		terms = append(terms, TermCount{Term: term, Count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > topN {
		terms = terms[:topN]
	}
	report.TopTerms = terms

	return report, nil
}
