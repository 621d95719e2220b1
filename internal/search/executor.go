package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	apperrors "github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/errors"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/index"
)

// CategoryAll is the request sentinel meaning no category filter.
const CategoryAll = "all"

// Params is one search request after transport decoding.
type Params struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

// Row is a single ranked result.
type Row struct {
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Category string  `json:"category"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

// Result is one page of search results. TotalPages covers the full match
// set, not just this page.
type Result struct {
	Results    []Row `json:"results"`
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
}

// Executor runs searches against the live index, caching result pages
// until the next rebuild invalidates them.
type Executor struct {
	manager      *index.Manager
	cache        *lru.Cache[string, Result]
	defaultLimit int
	maxLimit     int
}

// NewExecutor creates an executor over the manager's live index.
// cacheSize <= 0 disables the result cache.
func NewExecutor(manager *index.Manager, defaultLimit, maxLimit, cacheSize int) (*Executor, error) {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit <= 0 {
		maxLimit = 50
	}

	var cache *lru.Cache[string, Result]
	if cacheSize > 0 {
		var err error
		cache, err = lru.New[string, Result](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create result cache: %w", err)
		}
	}

	return &Executor{
		manager:      manager,
		cache:        cache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// Search executes one paginated query. An empty or symbol-only query
// returns an empty result page rather than an error.
func (e *Executor) Search(ctx context.Context, p Params) (Result, error) {
	p = e.clamp(p)

	expr := Translate(p.Query)
	if expr.Empty() {
		return Result{Results: []Row{}, Page: p.Page}, nil
	}

	category := normalizeCategory(p.Category)

	key := fmt.Sprintf("%d|%s|%s|%d|%d",
		e.manager.Generation(), strings.Join(expr.Terms, " "), category, p.Page, p.Limit)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			return cached, nil
		}
	}

	idx, release, err := e.manager.Acquire()
	if err != nil {
		return Result{}, err
	}
	defer release()

	total, err := idx.Count(ctx, expr, category)
	if err != nil {
		return Result{}, apperrors.SearchFailed(err)
	}

	result := Result{
		Results:    []Row{},
		Total:      total,
		Page:       p.Page,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}

	if total > 0 {
		offset := (p.Page - 1) * p.Limit
		matches, err := idx.Search(ctx, expr, category, p.Limit, offset)
		if err != nil {
			return Result{}, apperrors.SearchFailed(err)
		}

		highlighter := NewHighlighter(expr.Terms)
		for _, m := range matches {
			result.Results = append(result.Results, Row{
				Title:    m.Title,
				URL:      m.URL,
				Category: m.Category,
				Snippet:  highlighter.Apply(m.Snippet),
				Score:    roundScore(m.Score),
			})
		}
	}

	if e.cache != nil {
		e.cache.Add(key, result)
	}
	return result, nil
}

// clamp applies the limit and page bounds.
func (e *Executor) clamp(p Params) Params {
	if p.Limit <= 0 {
		p.Limit = e.defaultLimit
	}
	if p.Limit > e.maxLimit {
		p.Limit = e.maxLimit
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// normalizeCategory maps the "all" sentinel to the no-filter form.
func normalizeCategory(category string) string {
	if strings.EqualFold(category, CategoryAll) {
		return ""
	}
	return category
}

// roundScore keeps four decimal places of the engine's opaque rank score.
func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
