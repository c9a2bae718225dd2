// Package oracle decides whether gesture input may fire, based on how
// recently the host reported activity of its own.
//
// The host refreshes its menus for every keystroke it processes itself, so
// a fresh refresh means the operator is not typing into a text field. A
// separate, longer grace window follows focus transitions and panel clicks,
// before any keystroke has reached the host. Without either signal input is
// refused.
package oracle

import (
	"time"

	"github.com/dshills/snapkey/internal/clock"
)

// Default windows.
const (
	DefaultTight = 50 * time.Millisecond
	DefaultGrace = 1000 * time.Millisecond
)

// Config holds the recency windows.
type Config struct {
	// Tight is how long a menu refresh keeps input allowed.
	Tight time.Duration
	// Grace is how long a panel activation keeps input allowed.
	Grace time.Duration
}

// DefaultConfig returns the default windows.
func DefaultConfig() Config {
	return Config{Tight: DefaultTight, Grace: DefaultGrace}
}

// Oracle tracks the two host timestamps.
type Oracle struct {
	cfg   Config
	clock clock.Clock

	lastRefresh    time.Time
	lastActivation time.Time
}

// New returns an oracle with no signals recorded, which refuses input.
func New(cfg Config, c clock.Clock) *Oracle {
	if c == nil {
		c = clock.Real{}
	}
	return &Oracle{cfg: cfg, clock: c}
}

// NotifyMenuRefresh records that the host just refreshed its menus.
func (o *Oracle) NotifyMenuRefresh() {
	o.lastRefresh = o.clock.Now()
}

// NotifyPanelActivated records that a panel or click was acknowledged.
func (o *Oracle) NotifyPanelActivated() {
	o.lastActivation = o.clock.Now()
}

// IsInputAllowed reports whether gesture input may fire now.
func (o *Oracle) IsInputAllowed() bool {
	now := o.clock.Now()
	return within(now, o.lastRefresh, o.cfg.Tight) || within(now, o.lastActivation, o.cfg.Grace)
}

// Config returns the windows in use.
func (o *Oracle) Config() Config {
	return o.cfg
}

func within(now, stamp time.Time, window time.Duration) bool {
	if stamp.IsZero() {
		return false
	}
	age := now.Sub(stamp)
	return age >= 0 && age < window
}
