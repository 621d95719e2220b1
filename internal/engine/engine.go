// Package engine provides the full-text index primitive behind the search
// service: term-indexed storage of document records with prefix-match
// counting, ranked paginated retrieval, and excerpt extraction.
//
// Two backends implement the contract: SQLite FTS5 (default) and Bleve.
// Relevance scores are engine-defined and opaque; only their ordering is
// part of the contract.
package engine

import "context"

// Document is the unit of indexing. Content is the normalized text the
// index matches against; the remaining fields are unindexed metadata.
type Document struct {
	Title    string
	URL      string
	Category string
	Content  string
}

// Match is one ranked search hit. Snippet is a plain-text excerpt around
// the matched terms, without any markers.
type Match struct {
	Title    string
	URL      string
	Category string
	Snippet  string
	Score    float64
}

// Expression is the term-expansion form of a user query: lowercased literal
// prefixes combined with logical OR.
type Expression struct {
	Terms []string
}

// Empty reports whether the expression has no terms. Engines must never be
// queried with an empty expression; callers short-circuit instead.
func (e Expression) Empty() bool { return len(e.Terms) == 0 }

// Index is the contract the search core requires from a full-text engine.
// Implementations are safe for concurrent use.
type Index interface {
	// Insert adds documents to the index.
	Insert(ctx context.Context, docs []Document) error

	// Count returns the number of documents matching expr, additionally
	// constrained to category when it is non-empty.
	Count(ctx context.Context, expr Expression, category string) (int, error)

	// Search returns up to limit ranked matches starting at offset,
	// best matches first, each with an excerpt of the stored content.
	Search(ctx context.Context, expr Expression, category string, limit, offset int) ([]Match, error)

	// DocCount returns the total number of indexed documents.
	DocCount(ctx context.Context) (int, error)

	// Titles returns up to limit document titles, for diagnostics.
	Titles(ctx context.Context, limit int) ([]string, error)

	// Documents returns every stored document. Used by the corpus
	// analyzer; corpora are small enough to materialize.
	Documents(ctx context.Context) ([]Document, error)

	// Path returns the on-disk location, empty for in-memory indexes.
	Path() string

	// Close releases the index. Idempotent.
	Close() error
}
