package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/engine"
	apperrors "github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/errors"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/index"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"simple words", "candi borobudur", []string{"candi", "borobudur"}},
		{"uppercase folded", "CANDI Borobudur", []string{"candi", "borobudur"}},
		{"punctuation split", "jawa-timur, indonesia!", []string{"jawa", "timur", "indonesia"}},
		{"digits kept", "abad 14", []string{"abad", "14"}},
		{"duplicates removed", "raja raja Raja", []string{"raja"}},
		{"empty", "", nil},
		{"symbols only", "!!! ???", nil},
		{"whitespace only", "   \t  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := Translate(tt.query)
			if tt.want == nil {
				assert.True(t, expr.Empty())
			} else {
				assert.Equal(t, tt.want, expr.Terms)
			}
		})
	}
}

func TestHighlighter(t *testing.T) {
	tests := []struct {
		name    string
		terms   []string
		snippet string
		want    string
	}{
		{
			name:    "wraps match",
			terms:   []string{"candi"},
			snippet: "sebuah candi besar",
			want:    "sebuah <mark>candi</mark> besar",
		},
		{
			name:    "preserves original casing",
			terms:   []string{"candi"},
			snippet: "Candi Borobudur dan candi lain",
			want:    "<mark>Candi</mark> Borobudur dan <mark>candi</mark> lain",
		},
		{
			name:    "multiple terms",
			terms:   []string{"raja", "jawa"},
			snippet: "raja di jawa",
			want:    "<mark>raja</mark> di <mark>jawa</mark>",
		},
		{
			name:    "partial word match",
			terms:   []string{"wisata"},
			snippet: "pariwisata daerah",
			want:    "pari<mark>wisata</mark> daerah",
		},
		{
			name:    "prefix term does not shadow longer term",
			terms:   []string{"can", "candi"},
			snippet: "Candi Borobudur",
			want:    "<mark><mark>Can</mark>di</mark> Borobudur",
		},
		{
			name:    "regex metacharacters quoted",
			terms:   []string{"a.b"},
			snippet: "axb a.b",
			want:    "axb <mark>a.b</mark>",
		},
		{
			name:    "no terms passes through",
			terms:   nil,
			snippet: "tidak berubah",
			want:    "tidak berubah",
		},
		{
			name:    "empty snippet",
			terms:   []string{"raja"},
			snippet: "",
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewHighlighter(tt.terms).Apply(tt.snippet)
			assert.Equal(t, tt.want, got)
		})
	}
}

func seededExecutor(t *testing.T, cacheSize int) (*Executor, *index.Manager) {
	t.Helper()

	m, err := index.NewManager(engine.BackendSQLite, "", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	idx, err := engine.NewSQLiteIndex("")
	require.NoError(t, err)
	require.NoError(t, idx.Insert(context.Background(), []engine.Document{
		{Title: "Kerajaan Majapahit", URL: "https://example.id/majapahit", Category: "Sejarah", Content: "raja majapahit kuasa jawa"},
		{Title: "Candi Borobudur", URL: "https://example.id/borobudur", Category: "Wisata", Content: "candi borobudur wisata jawa tengah"},
		{Title: "Gunung Bromo", URL: "https://example.id/bromo", Category: "Wisata", Content: "gunung bromo wisata jawa timur"},
		{Title: "Batik Jawa", URL: "https://example.id/batik", Category: "Budaya", Content: "batik waris budaya jawa"},
	}))
	m.Swap(idx)

	e, err := NewExecutor(m, 10, 50, cacheSize)
	require.NoError(t, err)
	return e, m
}

func TestExecutor_Search(t *testing.T) {
	e, _ := seededExecutor(t, 0)

	result, err := e.Search(context.Background(), Params{Query: "jawa"})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.TotalPages)
	require.Len(t, result.Results, 4)
	for _, row := range result.Results {
		assert.Contains(t, row.Snippet, "<mark>jawa</mark>")
	}
}

func TestExecutor_EmptyQuery(t *testing.T) {
	e, _ := seededExecutor(t, 0)

	for _, query := range []string{"", "   ", "!!!", "..."} {
		result, err := e.Search(context.Background(), Params{Query: query})
		require.NoError(t, err, "query %q", query)
		assert.Empty(t, result.Results)
		assert.Equal(t, 0, result.Total)
		assert.Equal(t, 0, result.TotalPages)
	}
}

func TestExecutor_Pagination(t *testing.T) {
	e, _ := seededExecutor(t, 0)

	page1, err := e.Search(context.Background(), Params{Query: "jawa", Limit: 2, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, page1.Total)
	assert.Equal(t, 2, page1.TotalPages)
	require.Len(t, page1.Results, 2)

	page2, err := e.Search(context.Background(), Params{Query: "jawa", Limit: 2, Page: 2})
	require.NoError(t, err)
	require.Len(t, page2.Results, 2)
	assert.Equal(t, 2, page2.Page)

	assert.NotEqual(t, page1.Results[0].Title, page2.Results[0].Title)

	// A page past the match set is empty, not an error
	page3, err := e.Search(context.Background(), Params{Query: "jawa", Limit: 2, Page: 3})
	require.NoError(t, err)
	assert.Empty(t, page3.Results)
	assert.Equal(t, 4, page3.Total)
}

func TestExecutor_LimitClamping(t *testing.T) {
	e, _ := seededExecutor(t, 0)
	ctx := context.Background()

	// Limit zero falls back to the default
	result, err := e.Search(ctx, Params{Query: "jawa"})
	require.NoError(t, err)
	assert.Len(t, result.Results, 4)

	// Oversized limit clamps to the maximum
	result, err = e.Search(ctx, Params{Query: "jawa", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalPages)

	// Page zero becomes page one
	result, err = e.Search(ctx, Params{Query: "jawa", Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
}

func TestExecutor_CategoryFilter(t *testing.T) {
	e, _ := seededExecutor(t, 0)
	ctx := context.Background()

	result, err := e.Search(ctx, Params{Query: "jawa", Category: "Wisata"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)

	// The "all" sentinel behaves like no filter
	all, err := e.Search(ctx, Params{Query: "jawa", Category: "all"})
	require.NoError(t, err)
	unfiltered, err := e.Search(ctx, Params{Query: "jawa"})
	require.NoError(t, err)
	assert.Equal(t, unfiltered.Total, all.Total)

	// An unknown category matches nothing
	none, err := e.Search(ctx, Params{Query: "jawa", Category: "Kuliner"})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total)
	assert.Empty(t, none.Results)
}

func TestExecutor_NoIndex(t *testing.T) {
	m, err := index.NewManager(engine.BackendSQLite, "", nil)
	require.NoError(t, err)
	e, err := NewExecutor(m, 10, 50, 0)
	require.NoError(t, err)

	_, err = e.Search(context.Background(), Params{Query: "jawa"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeIndexUnavailable))
}

func TestExecutor_CacheInvalidatedBySwap(t *testing.T) {
	e, m := seededExecutor(t, 16)
	ctx := context.Background()

	first, err := e.Search(ctx, Params{Query: "jawa"})
	require.NoError(t, err)
	assert.Equal(t, 4, first.Total)

	// Cached repeat
	again, err := e.Search(ctx, Params{Query: "jawa"})
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// A rebuild with fewer documents must not serve stale pages
	smaller, err := engine.NewSQLiteIndex("")
	require.NoError(t, err)
	require.NoError(t, smaller.Insert(ctx, []engine.Document{
		{Title: "Batik Jawa", URL: "https://example.id/batik", Category: "Budaya", Content: "batik jawa"},
	}))
	m.Swap(smaller)

	fresh, err := e.Search(ctx, Params{Query: "jawa"})
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Total)
}
