// Package gesture turns polled key state into discrete gesture events.
//
// Each trigger binding runs a small state machine. Hold bindings arm on a
// fresh press, report HoldReached after the hold threshold and Release when
// the key comes up; two quick presses make a DoubleTap that toggles sticky
// mode, in which the panel outlives the key and a pointer press commits it.
// Every other binding kind reports a single Press on the fresh edge.
//
// Only a fresh up-to-down transition arms a binding. Keys already down on
// the first sample, held through focus loss or an escape, or pressed while
// input is disallowed are swallowed until they are released.
package gesture

import (
	"time"

	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/input/sampler"
	"github.com/dshills/snapkey/internal/input/trigger"
	"github.com/dshills/snapkey/internal/panel"
)

// Default thresholds.
const (
	DefaultHold      = 400 * time.Millisecond
	DefaultDoubleTap = 250 * time.Millisecond
)

// Config holds the classifier thresholds.
type Config struct {
	Hold      time.Duration
	DoubleTap time.Duration
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{Hold: DefaultHold, DoubleTap: DefaultDoubleTap}
}

// PanelView is the classifier's read-only view of panel visibility.
type PanelView interface {
	IsVisible(id panel.ID) bool
	IsPinned(id panel.ID) bool
	PrimaryVisible() (panel.ID, bool)
}

// KeyState is the timing state of one binding.
type KeyState struct {
	Held           bool
	PressTime      time.Time
	LastRelease    time.Time
	WaitingForHold bool
	Sticky         bool

	// Swallowed marks a held key that must be released before it counts.
	Swallowed bool
	// HoldFired marks that HoldReached was emitted for the current press.
	HoldFired bool
	// Tapped marks that the current press completed a double tap.
	Tapped bool
}

// Classifier runs the per-binding state machines.
type Classifier struct {
	cfg    Config
	table  *trigger.Table
	states []KeyState

	primed  bool
	focused bool
	escape  bool
	buttons mouse.EdgeTracker
}

// New returns a classifier for table.
func New(cfg Config, table *trigger.Table) *Classifier {
	return &Classifier{
		cfg:    cfg,
		table:  table,
		states: make([]KeyState, table.Len()),
	}
}

// State returns the timing state of binding i.
func (c *Classifier) State(i int) KeyState {
	return c.states[i]
}

// Update consumes one sample and returns the resulting events in order.
// allowed is the editability verdict for this tick.
func (c *Classifier) Update(s sampler.Sample, allowed bool, view PanelView) []Event {
	now := s.Time
	clicked := c.buttons.Update(s.Buttons)

	if !c.primed {
		c.primed = true
		c.focused = s.Focused
		c.escape = s.Escape()
		for i := range c.states {
			down := c.isDown(i, s)
			c.states[i] = KeyState{Held: down, Swallowed: down}
		}
		return nil
	}

	var events []Event

	focusLost := c.focused && !s.Focused
	c.focused = s.Focused
	escape := s.Escape()
	escaped := escape && !c.escape
	c.escape = escape

	switch {
	case focusLost:
		events = append(events, Event{Kind: Cancel, Time: now, Reason: FocusLost})
		c.swallowHeld()
	case escaped:
		events = append(events, Event{Kind: Cancel, Time: now, Reason: EscapePressed})
		c.swallowHeld()
	}
	allowed = allowed && s.Focused

	for i := range c.states {
		st := &c.states[i]
		b := c.table.At(i)
		if st.Sticky && !view.IsVisible(b.Target) {
			st.Sticky = false
		}
		// A sticky click the panel consumed in place leaves it pinned.
		if !st.Sticky && b.Kind == trigger.Hold && view.IsPinned(b.Target) {
			st.Sticky = true
		}

		down := c.isDown(i, s)
		switch {
		case down && !st.Held:
			events = c.press(events, i, now, allowed)
		case down && st.Held:
			events = c.held(events, i, now, view)
		case !down && st.Held:
			events = c.release(events, i, now, view)
		}
	}

	if clicked.Any() {
		for i := range c.states {
			st := &c.states[i]
			b := c.table.At(i)
			if b.Kind != trigger.Hold || !st.Sticky || !view.IsVisible(b.Target) {
				continue
			}
			st.Sticky = false
			events = append(events, c.event(Release, i, now))
		}
	}
	return events
}

func (c *Classifier) isDown(i int, s sampler.Sample) bool {
	b := c.table.At(i)
	return s.IsDown(b.Chord) && c.table.Engaged(i, s.Mods)
}

func (c *Classifier) swallowHeld() {
	for i := range c.states {
		st := &c.states[i]
		if st.Held {
			st.Swallowed = true
			st.WaitingForHold = false
		}
	}
}

func (c *Classifier) event(k Kind, i int, now time.Time) Event {
	return Event{Kind: k, Index: i, Binding: c.table.At(i), Time: now}
}

func (c *Classifier) press(events []Event, i int, now time.Time, allowed bool) []Event {
	st := &c.states[i]
	st.Held = true
	if !allowed {
		st.Swallowed = true
		return events
	}

	events = append(events, c.event(Press, i, now))
	if c.table.At(i).Kind != trigger.Hold {
		return events
	}

	if !st.LastRelease.IsZero() && now.Sub(st.LastRelease) < c.cfg.DoubleTap {
		st.Sticky = !st.Sticky
		st.Tapped = true
		st.WaitingForHold = false
		st.LastRelease = time.Time{}
		ev := c.event(DoubleTap, i, now)
		ev.Sticky = st.Sticky
		return append(events, ev)
	}

	st.PressTime = now
	st.WaitingForHold = true
	return events
}

func (c *Classifier) held(events []Event, i int, now time.Time, view PanelView) []Event {
	st := &c.states[i]
	if st.Swallowed || !st.WaitingForHold {
		return events
	}
	if now.Sub(st.PressTime) < c.cfg.Hold {
		return events
	}
	if _, busy := view.PrimaryVisible(); busy {
		return events
	}
	st.WaitingForHold = false
	st.HoldFired = true
	return append(events, c.event(HoldReached, i, now))
}

func (c *Classifier) release(events []Event, i int, now time.Time, view PanelView) []Event {
	st := &c.states[i]
	st.Held = false
	st.WaitingForHold = false
	if st.Swallowed {
		st.Swallowed = false
		st.HoldFired = false
		return events
	}

	b := c.table.At(i)
	if b.Kind != trigger.Hold {
		return events
	}

	fired := st.HoldFired
	st.HoldFired = false
	if st.Tapped {
		st.Tapped = false
	} else {
		st.LastRelease = now
	}
	if fired && !st.Sticky && view.IsVisible(b.Target) {
		events = append(events, c.event(Release, i, now))
	}
	return events
}
