// Package corpus discovers and loads plain-text documents from a corpus
// directory, extracting per-document metadata (title, optional source URL,
// category) from filenames and a recognized header line.
package corpus

// Document is a loaded corpus document before normalization.
type Document struct {
	// Path is the source file path, relative to the corpus root.
	Path string

	// Title is derived from the filename stem: underscores become spaces,
	// each word is title-cased.
	Title string

	// URL is the optional source locator from a leading "url:<value>" line.
	// Empty when the file has no such line.
	URL string

	// Category is the label assigned by filename keyword rules.
	Category string

	// Content is the raw file text with the URL line stripped, if present.
	Content string
}

// LoadResult is streamed from the loader channel. Either Doc or Err is set;
// a per-file error never terminates the load.
type LoadResult struct {
	Doc *Document
	Err error
}
