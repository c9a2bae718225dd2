package script

import (
	"context"
	"unicode/utf8"
)

// DefaultMaxResult is the default bound on a host result string in bytes.
const DefaultMaxResult = 8192

// Bridge executes script text in the host and returns its result.
// Execution is synchronous; there is no timeout and no retry.
type Bridge interface {
	Execute(ctx context.Context, script string) (string, error)
}

// BridgeFunc adapts a function to the Bridge interface.
type BridgeFunc func(ctx context.Context, script string) (string, error)

// Execute calls f.
func (f BridgeFunc) Execute(ctx context.Context, script string) (string, error) {
	return f(ctx, script)
}

// Truncate bounds s to at most max bytes without splitting a UTF-8 sequence.
// A non-positive max disables the bound.
func Truncate(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
