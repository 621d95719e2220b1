// Package errors provides structured error handling for GatotKaca.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Corpus and IO errors
//   - 3XX: Index errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryCorpus indicates corpus loading and file I/O errors.
	CategoryCorpus Category = "CORPUS"
	// CategoryIndex indicates index lifecycle and search errors.
	CategoryIndex Category = "INDEX"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Configuration errors (1XX).
	ErrCodeConfigInvalid = "ERR_101_CONFIG_INVALID"

	// Corpus errors (2XX).
	ErrCodeCorpusNotFound = "ERR_201_CORPUS_NOT_FOUND"
	ErrCodeDocumentLoad   = "ERR_202_DOCUMENT_LOAD"
	ErrCodeDocumentInsert = "ERR_203_DOCUMENT_INSERT"

	// Index errors (3XX).
	ErrCodeIndexUnavailable  = "ERR_301_INDEX_UNAVAILABLE"
	ErrCodeSearchFailed      = "ERR_302_SEARCH_FAILED"
	ErrCodeRebuildInProgress = "ERR_303_REBUILD_IN_PROGRESS"

	// Validation errors (4XX).
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeJobNotFound  = "ERR_402_JOB_NOT_FOUND"

	// Internal errors (5XX).
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode derives the category from a code's number range.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryCorpus
	case '3':
		return CategoryIndex
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}
