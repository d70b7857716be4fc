package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClass_String(t *testing.T) {
	assert.Equal(t, "transient", ErrorTransient.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(99).String())
}

func TestWrap_Format(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, "SnapshotStore", "GetSnapshot", "region load")
	require.Error(t, err)
	assert.Equal(t, "SnapshotStore.GetSnapshot: region load failed: boom", err.Error())
	assert.True(t, stderrors.Is(err, base))

	assert.Nil(t, Wrap(nil, "a", "b", "c"))
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"source unavailable is transient", ErrSourceUnavailable, ErrorTransient},
		{"context deadline is transient", context.DeadlineExceeded, ErrorTransient},
		{"query not found is invalid", ErrQueryNotFound, ErrorInvalid},
		{"template invalid is invalid", ErrTemplateInvalid, ErrorInvalid},
		{"validation failure is invalid", ErrValidationFailed, ErrorInvalid},
		{"missing config is fatal", ErrMissingConfig, ErrorFatal},
		{"wrapped transient keeps class", WrapTransient(stderrors.New("x"), "C", "M", "a"), ErrorTransient},
		{"wrapped invalid keeps class", WrapInvalid(stderrors.New("x"), "C", "M", "a"), ErrorInvalid},
		{"wrapped fatal keeps class", WrapFatal(stderrors.New("x"), "C", "M", "a"), ErrorFatal},
		{"connection text is transient", stderrors.New("connection refused"), ErrorTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassifiedError_Unwrap(t *testing.T) {
	base := ErrSourceUnavailable
	err := WrapTransient(base, "Catalog", "load", "remote fetch")

	assert.True(t, stderrors.Is(err, ErrSourceUnavailable))

	var ce *ClassifiedError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, "Catalog", ce.Component)
	assert.Equal(t, "load", ce.Operation)
}

func TestValidationError(t *testing.T) {
	ve := &ValidationError{
		QueryID:       "top-consultants",
		MissingKeys:   []string{"consultantIds", "clientIds"},
		AvailableKeys: []string{"consultantIds", "clientIds", "productIds"},
	}

	assert.True(t, stderrors.Is(ve, ErrValidationFailed))
	assert.Contains(t, ve.Error(), "consultantIds")

	wrapped := fmt.Errorf("execute: %w", ve)
	got, ok := AsValidation(wrapped)
	require.True(t, ok)
	assert.Equal(t, []string{"consultantIds", "clientIds"}, got.MissingKeys)
}

func TestTemplateError(t *testing.T) {
	te := &TemplateError{
		QueryID:    "bad-query",
		Violations: []string{"missing region placeholder", "ambiguous mode"},
	}

	assert.True(t, stderrors.Is(te, ErrTemplateInvalid))
	assert.Contains(t, te.Error(), "2 admission rules")

	got, ok := AsTemplate(fmt.Errorf("admit: %w", te))
	require.True(t, ok)
	assert.Len(t, got.Violations, 2)
}

func TestIsTransient_Nil(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsFatal(nil))
	assert.False(t, IsInvalid(nil))
}
