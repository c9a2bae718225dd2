package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrUnknownCommand is returned by run_command for unregistered names.
	ErrUnknownCommand = errors.New("unknown host command")

	// ErrNoComposition is returned when the scene has no usable frame.
	ErrNoComposition = errors.New("no active composition")
)
