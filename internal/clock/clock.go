// Package clock abstracts the monotonic time source read by the tick pipeline.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
// Implementations must be monotonic: successive calls never go backwards.
type Clock interface {
	Now() time.Time
}

// Real is a Clock backed by time.Now, which carries a monotonic reading.
type Real struct{}

// Now returns the current time.
func (Real) Now() time.Time { return time.Now() }

// Manual is a Clock that only moves when told to. It is used by tests and by
// scripted replays of recorded input.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock starting at start.
// A zero start is replaced with a fixed non-zero epoch so that callers can
// keep using the zero time as "never".
func NewManual(start time.Time) *Manual {
	if start.IsZero() {
		start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.now = m.now.Add(d)
	}
	return m.now
}
