package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports that a smart query's filter prerequisites were not
// met. It carries the specific key lists so the UI can message the user
// without parsing error strings. Never retried automatically.
type ValidationError struct {
	QueryID       string
	MissingKeys   []string
	AvailableKeys []string
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("query %s requires at least one of: %s",
		ve.QueryID, strings.Join(ve.MissingKeys, ", "))
}

// Unwrap allows errors.Is(err, ErrValidationFailed)
func (ve *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// TemplateError reports every admission rule a smart query definition
// violated, not just the first one found.
type TemplateError struct {
	QueryID    string
	Violations []string
}

// Error implements the error interface
func (te *TemplateError) Error() string {
	return fmt.Sprintf("query %s violates %d admission rules: %s",
		te.QueryID, len(te.Violations), strings.Join(te.Violations, "; "))
}

// Unwrap allows errors.Is(err, ErrTemplateInvalid)
func (te *TemplateError) Unwrap() error {
	return ErrTemplateInvalid
}

// AsValidation extracts a ValidationError if present in the chain
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsTemplate extracts a TemplateError if present in the chain
func AsTemplate(err error) (*TemplateError, bool) {
	var te *TemplateError
	ok := errors.As(err, &te)
	return te, ok
}
