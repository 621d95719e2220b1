package engine

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// SQLiteIndex implements Index using SQLite FTS5. The FTS5 tokenizer is
// configured for unicode with diacritic folding; prefix matching uses the
// `"term"*` form. bm25() supplies the rank: lower values are better
// matches, which ORDER BY rank already accounts for.
type SQLiteIndex struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// Verify interface implementation at compile time.
var _ Index = (*SQLiteIndex)(nil)

// NewSQLiteIndex opens or creates an FTS5 index at path.
// An empty path creates an in-memory index for testing.
func NewSQLiteIndex(path string) (*SQLiteIndex, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}

	// Single writer; FTS5 inserts serialize anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// DSN params may be ignored by modernc.org/sqlite; set pragmas explicitly.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	idx := &SQLiteIndex{db: db, path: path}
	if err := idx.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return idx, nil
}

// initSchema creates the FTS5 virtual table. Only content is indexed;
// title, url and category are stored metadata.
func (s *SQLiteIndex) initSchema() error {
	schema := `
	CREATE VIRTUAL TABLE IF NOT EXISTS docs_fts USING fts5(
		title UNINDEXED,
		url UNINDEXED,
		category UNINDEXED,
		content,
		tokenize = 'unicode61 remove_diacritics 2'
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Insert adds documents inside a single transaction.
func (s *SQLiteIndex) Insert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("index is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO docs_fts (title, url, category, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if _, err := stmt.ExecContext(ctx, doc.Title, doc.URL, doc.Category, doc.Content); err != nil {
			return fmt.Errorf("insert document %q: %w", doc.Title, err)
		}
	}

	return tx.Commit()
}

// matchQuery compiles an Expression into an FTS5 MATCH string:
// each term becomes a quoted prefix term, OR-joined.
func matchQuery(expr Expression) string {
	parts := make([]string, 0, len(expr.Terms))
	for _, term := range expr.Terms {
		term = strings.ReplaceAll(term, `"`, "")
		if term == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf(`"%s"*`, term))
	}
	return strings.Join(parts, " OR ")
}

// Count returns the number of matching documents.
func (s *SQLiteIndex) Count(ctx context.Context, expr Expression, category string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, fmt.Errorf("index is closed")
	}
	if expr.Empty() {
		return 0, nil
	}

	query := `SELECT COUNT(*) FROM docs_fts WHERE docs_fts MATCH ?`
	args := []any{matchQuery(expr)}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		if isFTSSyntaxError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

// Search returns ranked matches with plain-text excerpts.
func (s *SQLiteIndex) Search(ctx context.Context, expr Expression, category string, limit, offset int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("index is closed")
	}
	if expr.Empty() {
		return []Match{}, nil
	}

	query := `
		SELECT title, url, category,
		       snippet(docs_fts, 3, '', '', ' … ', 20) AS excerpt,
		       bm25(docs_fts) AS score
		FROM docs_fts
		WHERE docs_fts MATCH ?`
	args := []any{matchQuery(expr)}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += `
		ORDER BY rank
		LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if isFTSSyntaxError(err) {
			return []Match{}, nil
		}
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var url sql.NullString
		var score sql.NullFloat64
		if err := rows.Scan(&m.Title, &url, &m.Category, &m.Snippet, &score); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.URL = url.String
		m.Score = score.Float64
		matches = append(matches, m)
	}
	if matches == nil {
		matches = []Match{}
	}
	return matches, rows.Err()
}

// DocCount returns the total number of indexed documents.
func (s *SQLiteIndex) DocCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, fmt.Errorf("index is closed")
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM docs_fts`).Scan(&count)
	return count, err
}

// Titles returns up to limit document titles.
func (s *SQLiteIndex) Titles(ctx context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("index is closed")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT title FROM docs_fts LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// Documents returns every stored document.
func (s *SQLiteIndex) Documents(ctx context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("index is closed")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT title, url, category, content FROM docs_fts`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var url sql.NullString
		if err := rows.Scan(&doc.Title, &url, &doc.Category, &doc.Content); err != nil {
			return nil, err
		}
		doc.URL = url.String
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Path returns the database file path, empty for in-memory indexes.
func (s *SQLiteIndex) Path() string { return s.path }

// Close checkpoints and closes the database. Idempotent.
func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}

// isFTSSyntaxError reports whether err is an FTS5 match-syntax error.
// The translator emits clean terms, but a malformed expression must read
// as "no matches" rather than a request failure.
func isFTSSyntaxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "fts5:") || strings.Contains(msg, "syntax error")
}
