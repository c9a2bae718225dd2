package script

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNonFinite is returned when a request carries NaN or infinity.
	ErrNonFinite = errors.New("non-finite number")

	// ErrEmptyRequest is returned when a request would change nothing.
	ErrEmptyRequest = errors.New("empty request")

	// ErrInvalidName is returned for command or field names the host cannot accept.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidColor is returned for unparsable colors.
	ErrInvalidColor = errors.New("invalid color")

	// ErrMalformedResult is returned when a host result cannot be parsed.
	ErrMalformedResult = errors.New("malformed host result")

	// ErrBridgeClosed is returned by bridges that have been shut down.
	ErrBridgeClosed = errors.New("bridge closed")
)

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Op    string
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("script: invalid %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("script: invalid %s.%s: %v", e.Op, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ExecError reports a failed host execution.
type ExecError struct {
	ID  string
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	return fmt.Sprintf("script: %s [%s]: %v", e.Op, e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}
