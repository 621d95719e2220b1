package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryFromCode(t *testing.T) {
	tests := []struct {
		code     string
		category Category
	}{
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeCorpusNotFound, CategoryCorpus},
		{ErrCodeDocumentLoad, CategoryCorpus},
		{ErrCodeIndexUnavailable, CategoryIndex},
		{ErrCodeSearchFailed, CategoryIndex},
		{ErrCodeInvalidInput, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "message", nil)
			assert.Equal(t, tt.category, err.Category)
		})
	}
}

func TestError_FormatsCodeAndMessage(t *testing.T) {
	err := New(ErrCodeCorpusNotFound, "corpus folder does not exist: /tmp/nope", nil)
	assert.Equal(t, "[ERR_201_CORPUS_NOT_FOUND] corpus folder does not exist: /tmp/nope", err.Error())
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", CorpusNotFound("/data/corpus"))

	assert.True(t, stderrors.Is(err, New(ErrCodeCorpusNotFound, "", nil)))
	assert.False(t, stderrors.Is(err, New(ErrCodeIndexUnavailable, "", nil)))
}

func TestError_UnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := Wrap(ErrCodeSearchFailed, cause)

	require.NotNil(t, err)
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeSearchFailed, nil))
}

func TestWithDetail_AccumulatesDetails(t *testing.T) {
	err := New(ErrCodeDocumentLoad, "unreadable file", nil).
		WithDetail("path", "corpus/a.txt").
		WithDetail("reason", "permission denied")

	assert.Equal(t, "corpus/a.txt", err.Details["path"])
	assert.Equal(t, "permission denied", err.Details["reason"])
}

func TestGetCode_FindsWrappedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", IndexUnavailable())

	assert.Equal(t, ErrCodeIndexUnavailable, GetCode(err))
	assert.True(t, HasCode(err, ErrCodeIndexUnavailable))
	assert.Empty(t, GetCode(stderrors.New("plain")))
}

func TestIndexUnavailable_CarriesSuggestion(t *testing.T) {
	err := IndexUnavailable()
	assert.NotEmpty(t, err.Suggestion)
}
