package errors

import (
	"errors"
	"fmt"
)

// Error is the structured error type for GatotKaca.
// It provides context for error handling, logging, and API presentation.
type Error struct {
	// Code is the unique error code (e.g., "ERR_201_CORPUS_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Corpus, Index, etc.).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, enabling errors.Is() with code sentinels.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New creates a new Error with the given code and message.
// The category is derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an Error from an existing error.
// The error's message becomes the Error message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// CorpusNotFound reports a missing corpus directory.
func CorpusNotFound(path string) *Error {
	return New(ErrCodeCorpusNotFound, fmt.Sprintf("corpus folder does not exist: %s", path), nil).
		WithDetail("path", path)
}

// IndexUnavailable reports that no index has been built yet.
func IndexUnavailable() *Error {
	return New(ErrCodeIndexUnavailable, "no search index available", nil).
		WithSuggestion("run a reindex to build the index")
}

// SearchFailed wraps an engine-level failure during a search.
func SearchFailed(err error) *Error {
	return Wrap(ErrCodeSearchFailed, err)
}

// RebuildInProgress reports that another rebuild holds the index lock.
func RebuildInProgress() *Error {
	return New(ErrCodeRebuildInProgress, "another rebuild is already in progress", nil)
}

// JobNotFound reports an unknown background job ID.
func JobNotFound(id string) *Error {
	return New(ErrCodeJobNotFound, fmt.Sprintf("job not found: %s", id), nil).
		WithDetail("job_id", id)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates an input validation error.
func ValidationError(message string) *Error {
	return New(ErrCodeInvalidInput, message, nil)
}

// GetCode extracts the error code from an Error anywhere in the chain.
// Returns empty string if no Error is found.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}
