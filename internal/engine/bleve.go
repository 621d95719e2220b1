package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/char/asciifolding"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	unicodetok "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/highlight/highlighter/html"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
)

// contentAnalyzerName is the custom analyzer for the content field:
// diacritic folding, unicode tokenization, lowercasing.
const contentAnalyzerName = "content_analyzer"

// BleveIndex implements Index using Bleve v2. Bleve scores ascend with
// relevance (higher is better); ordering is all callers may rely on.
type BleveIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	closed bool
}

// Verify interface implementation at compile time.
var _ Index = (*BleveIndex)(nil)

// NewBleveIndex creates a fresh Bleve index at path.
// An empty path creates an in-memory index for testing.
func NewBleveIndex(path string) (*BleveIndex, error) {
	indexMapping, err := buildIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("create index mapping: %w", err)
	}

	var idx bleve.Index
	if path == "" {
		idx, err = bleve.NewMemOnly(indexMapping)
	} else {
		idx, err = bleve.New(path, indexMapping)
	}
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &BleveIndex{index: idx, path: path}, nil
}

// OpenBleveIndex opens an existing Bleve index at path.
func OpenBleveIndex(path string) (*BleveIndex, error) {
	idx, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &BleveIndex{index: idx, path: path}, nil
}

// buildIndexMapping creates the Bleve mapping: content analyzed and stored
// (with term vectors for excerpts), category as an exact keyword, title and
// url stored only.
func buildIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(contentAnalyzerName, map[string]interface{}{
		"type":         custom.Name,
		"char_filters": []string{asciifolding.Name},
		"tokenizer":    unicodetok.Name,
		"token_filters": []string{
			lowercase.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("add custom analyzer: %w", err)
	}

	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = contentAnalyzerName
	contentField.Store = true
	contentField.IncludeTermVectors = true

	categoryField := bleve.NewTextFieldMapping()
	categoryField.Analyzer = keyword.Name
	categoryField.Store = true

	storedOnly := bleve.NewTextFieldMapping()
	storedOnly.Index = false
	storedOnly.Store = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("content", contentField)
	docMapping.AddFieldMappingsAt("category", categoryField)
	docMapping.AddFieldMappingsAt("title", storedOnly)
	docMapping.AddFieldMappingsAt("url", storedOnly)

	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = contentAnalyzerName

	return indexMapping, nil
}

// bleveDocument is the record structure handed to Bleve.
type bleveDocument struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

// Insert adds documents in a single batch.
func (b *BleveIndex) Insert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	batch := b.index.NewBatch()
	for _, doc := range docs {
		record := bleveDocument{
			Title:    doc.Title,
			URL:      doc.URL,
			Category: doc.Category,
			Content:  doc.Content,
		}
		if err := batch.Index(uuid.NewString(), record); err != nil {
			return fmt.Errorf("index document %q: %w", doc.Title, err)
		}
	}

	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("execute batch: %w", err)
	}
	return nil
}

// buildQuery compiles an Expression (plus optional category constraint)
// into a Bleve query: OR of prefix terms, AND category.
func buildQuery(expr Expression, category string) *bleve.SearchRequest {
	prefixes := make([]query.Query, 0, len(expr.Terms))
	for _, term := range expr.Terms {
		pq := bleve.NewPrefixQuery(term)
		pq.SetField("content")
		prefixes = append(prefixes, pq)
	}
	var q query.Query = bleve.NewDisjunctionQuery(prefixes...)

	if category != "" {
		tq := bleve.NewTermQuery(category)
		tq.SetField("category")
		q = bleve.NewConjunctionQuery(q, tq)
	}

	return bleve.NewSearchRequest(q)
}

// Count returns the number of matching documents.
func (b *BleveIndex) Count(ctx context.Context, expr Expression, category string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0, fmt.Errorf("index is closed")
	}
	if expr.Empty() {
		return 0, nil
	}

	req := buildQuery(expr, category)
	req.Size = 0

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return int(result.Total), nil
}

// Search returns ranked matches with plain-text excerpts derived from
// Bleve's highlight fragments.
func (b *BleveIndex) Search(ctx context.Context, expr Expression, category string, limit, offset int) ([]Match, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}
	if expr.Empty() {
		return []Match{}, nil
	}

	req := buildQuery(expr, category)
	req.Size = limit
	req.From = offset
	req.Fields = []string{"title", "url", "category", "content"}
	req.Highlight = bleve.NewHighlightWithStyle(html.Name)
	req.Highlight.AddField("content")

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	matches := make([]Match, 0, len(result.Hits))
	for _, hit := range result.Hits {
		snippet := ""
		if frags, ok := hit.Fragments["content"]; ok && len(frags) > 0 {
			snippet = stripMarks(frags[0])
		} else {
			snippet = truncate(stringField(hit.Fields, "content"), 200)
		}

		matches = append(matches, Match{
			Title:    stringField(hit.Fields, "title"),
			URL:      stringField(hit.Fields, "url"),
			Category: stringField(hit.Fields, "category"),
			Snippet:  snippet,
			Score:    hit.Score,
		})
	}
	return matches, nil
}

// DocCount returns the total number of indexed documents.
func (b *BleveIndex) DocCount(ctx context.Context) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0, fmt.Errorf("index is closed")
	}

	count, err := b.index.DocCount()
	return int(count), err
}

// Titles returns up to limit document titles.
func (b *BleveIndex) Titles(ctx context.Context, limit int) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}

	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = limit
	req.Fields = []string{"title"}

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}

	titles := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		titles = append(titles, stringField(hit.Fields, "title"))
	}
	return titles, nil
}

// Documents returns every stored document.
func (b *BleveIndex) Documents(ctx context.Context) ([]Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}

	count, err := b.index.DocCount()
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = int(count)
	req.Fields = []string{"title", "url", "category", "content"}

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	docs := make([]Document, 0, len(result.Hits))
	for _, hit := range result.Hits {
		docs = append(docs, Document{
			Title:    stringField(hit.Fields, "title"),
			URL:      stringField(hit.Fields, "url"),
			Category: stringField(hit.Fields, "category"),
			Content:  stringField(hit.Fields, "content"),
		})
	}
	return docs, nil
}

// Path returns the index directory, empty for in-memory indexes.
func (b *BleveIndex) Path() string { return b.path }

// Close closes the index. Idempotent.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.index != nil {
		return b.index.Close()
	}
	return nil
}

// stringField extracts a string field from a Bleve hit field map.
func stringField(fields map[string]interface{}, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

// stripMarks removes the highlighter's markers, leaving a plain excerpt.
// Marking is the snippet highlighter's job, applied once, downstream.
func stripMarks(fragment string) string {
	fragment = strings.ReplaceAll(fragment, "<mark>", "")
	return strings.ReplaceAll(fragment, "</mark>", "")
}

// truncate cuts s at the last word boundary within max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + " …"
}
