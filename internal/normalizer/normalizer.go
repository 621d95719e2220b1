// Package normalizer implements the Indonesian text-normalization pipeline
// applied to document content before indexing.
//
// The pipeline lowercases, strips everything outside [a-z0-9] and whitespace,
// drops stopwords and single-character tokens, and stems each surviving token
// with the Sastrawi affix-stripping stemmer. Diacritics and punctuation are
// destroyed, not preserved.
package normalizer

import (
	"strings"

	sastrawi "github.com/RadhiFadlillah/go-sastrawi"
)

// supplementaryStopwords extends the Sastrawi stopword dictionary with the
// base set used when the corpus was first indexed. Most overlap with the
// default dictionary; kept so the stopword policy is explicit.
var supplementaryStopwords = []string{
	"dan", "yang", "di", "ke", "dari", "atau", "untuk", "ini", "itu", "pada",
}

// Normalizer normalizes raw Indonesian text into the stemmed, stopword-free
// form the index matches against. Safe for concurrent use.
type Normalizer struct {
	stemmer   sastrawi.Stemmer
	stopwords sastrawi.Dictionary
}

// New creates a Normalizer with the default Sastrawi root-word dictionary
// and stopword set.
func New() *Normalizer {
	stopwords := sastrawi.DefaultStopword()
	stopwords.Add(supplementaryStopwords...)

	return &Normalizer{
		stemmer:   sastrawi.NewStemmer(sastrawi.DefaultDictionary()),
		stopwords: stopwords,
	}
}

// Normalize runs the full pipeline over text. Pure and deterministic;
// idempotent on already-normalized input. Empty and all-stopword inputs
// yield an empty string. A token the stemmer cannot reduce passes through
// unstemmed rather than failing the pipeline.
func (n *Normalizer) Normalize(text string) string {
	words := tokenize(text)
	if len(words) == 0 {
		return ""
	}

	out := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 1 {
			continue
		}
		if n.stopwords.Contains(word) {
			continue
		}
		out = append(out, n.stemmer.Stem(word))
	}

	return strings.Join(out, " ")
}

// tokenize lowercases text, replaces every rune outside [a-z0-9] and
// whitespace with a space, and splits on whitespace. Digit runs survive
// as tokens so the index agrees with query-side tokenization.
func tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}
