package settings

import (
	"errors"
	"fmt"
)

// Errors returned when a field cannot be applied.
var (
	ErrUnknownField = errors.New("unknown settings field")
	ErrWrongType    = errors.New("wrong type")
	ErrOutOfRange   = errors.New("value out of range")
)

// FieldError describes one field that was skipped.
type FieldError struct {
	Field string
	Value string
	Err   error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("settings field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("settings field %s = %s: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}
