package gesture

import (
	"fmt"
	"time"

	"github.com/dshills/snapkey/internal/input/trigger"
)

// Kind is the kind of gesture event.
type Kind uint8

const (
	// Press is a fresh key-down edge while input is allowed.
	Press Kind = iota
	// HoldReached fires once a hold binding has been held past the threshold.
	HoldReached
	// DoubleTap fires on the second press of a quick pair.
	DoubleTap
	// Release ends a hold gesture whose panel should commit.
	Release
	// Cancel asks the active panel to close without applying.
	Cancel
)

var kindNames = [...]string{"press", "hold", "double-tap", "release", "cancel"}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// CancelReason says why a Cancel event was raised.
type CancelReason uint8

const (
	NoReason CancelReason = iota
	EscapePressed
	FocusLost
)

// String returns the reason name.
func (r CancelReason) String() string {
	switch r {
	case EscapePressed:
		return "escape"
	case FocusLost:
		return "focus"
	default:
		return "none"
	}
}

// Event is a discrete gesture. Index and Binding are unset for Cancel.
type Event struct {
	Kind    Kind
	Index   int
	Binding trigger.Binding
	Time    time.Time

	// Sticky is the sticky flag after a DoubleTap toggled it.
	Sticky bool

	Reason CancelReason
}

// String describes the event for logs.
func (e Event) String() string {
	switch e.Kind {
	case Cancel:
		return "cancel(" + e.Reason.String() + ")"
	case DoubleTap:
		return fmt.Sprintf("%s %s sticky=%t", e.Kind, e.Binding.Chord, e.Sticky)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Binding.Chord)
	}
}
