package corpus

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/errors"
)

// urlPrefix marks the optional source-locator header line.
const urlPrefix = "url:"

// Loader walks a corpus directory and loads one Document per text file.
type Loader struct {
	rules []CategoryRule
}

// NewLoader creates a Loader with the given category rules.
// Nil rules fall back to DefaultCategoryRules.
func NewLoader(rules []CategoryRule) *Loader {
	if rules == nil {
		rules = DefaultCategoryRules
	}
	return &Loader{rules: rules}
}

// Load recursively enumerates .txt files under folder and streams a
// LoadResult per file. Unreadable or undecodable files are reported on the
// channel and logged, never aborting the walk. The channel is closed when
// the walk completes.
//
// Returns errors.ErrCodeCorpusNotFound when folder does not exist.
func (l *Loader) Load(folder string) (<-chan LoadResult, error) {
	absRoot, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, errors.CorpusNotFound(folder)
	}

	results := make(chan LoadResult, 16)
	go func() {
		defer close(results)
		l.walk(absRoot, results)
	}()

	return results, nil
}

func (l *Loader) walk(root string, results chan<- LoadResult) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("corpus walk error",
				slog.String("path", path),
				slog.String("error", err.Error()))
			results <- LoadResult{Err: errors.Wrap(errors.ErrCodeDocumentLoad, err)}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}

		doc, loadErr := l.loadFile(root, path)
		if loadErr != nil {
			slog.Warn("skipping unreadable document",
				slog.String("path", path),
				slog.String("error", loadErr.Error()))
			results <- LoadResult{Err: loadErr}
			return nil
		}
		results <- LoadResult{Doc: doc}
		return nil
	})
	if err != nil {
		results <- LoadResult{Err: errors.Wrap(errors.ErrCodeDocumentLoad, err)}
	}
}

// loadFile reads one corpus file and extracts its metadata.
func (l *Loader) loadFile(root, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDocumentLoad, err)
	}

	// Tolerate stray bytes the way the indexer always has: invalid UTF-8
	// sequences are dropped rather than failing the file.
	text := data
	if !utf8.Valid(data) {
		text = []byte(strings.ToValidUTF8(string(data), ""))
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	url, body := extractURL(string(text))
	filename := filepath.Base(path)

	return &Document{
		Path:     rel,
		Title:    TitleFromFilename(filename),
		URL:      url,
		Category: Classify(filename, l.rules),
		Content:  body,
	}, nil
}

// extractURL splits off a leading "url:<value>" line. When absent, the
// whole text is the body.
func extractURL(text string) (url, body string) {
	if !strings.HasPrefix(text, urlPrefix) {
		return "", text
	}
	first, rest, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(strings.TrimPrefix(first, urlPrefix)), rest
}

// TitleFromFilename derives a display title from a corpus filename:
// extension dropped, underscores replaced by spaces, each word title-cased.
func TitleFromFilename(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	words := strings.Fields(strings.ReplaceAll(stem, "_", " "))
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
	}
	return strings.Join(words, " ")
}
