// Package service contains the generation services that orchestrate prompt
// construction, LLM invocation, response parsing, and mock-mode fallback.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
)

// GenerationError is the single error kind generation services expose.
// Adapter errors, JSON decode failures, and structural validation failures
// are all rewrapped into it; the original cause stays available via Unwrap.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(cause error, format string, args ...any) *GenerationError {
	return &GenerationError{
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// IsGenerationError checks if an error is a GenerationError.
func IsGenerationError(err error) bool {
	var e *GenerationError
	return errors.As(err, &e)
}

// SchemaError reports a syntactically valid JSON payload that violates the
// expected structure, such as a missing required field.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string {
	return e.Message
}

func newSchemaError(format string, args ...any) *SchemaError {
	return &SchemaError{Message: fmt.Sprintf(format, args...)}
}

// isDecodeError reports whether err came from the JSON decoder itself, as
// opposed to a structural violation of decoded content.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// isSchemaError reports whether err is a structural validation failure.
func isSchemaError(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}
