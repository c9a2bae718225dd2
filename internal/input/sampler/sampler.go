// Package sampler defines the per-tick snapshot of keyboard and pointer
// state and the Sampler contract that produces it.
package sampler

import (
	"time"

	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/input/mouse"
)

// Sample is the input state observed at one tick.
type Sample struct {
	// Time is the tick time the sample was taken at.
	Time time.Time

	// Down lists the physical keys currently held. Modifiers on the
	// entries are ignored; held modifiers are reported in Mods.
	Down []key.Chord

	// Mods are the modifier keys currently held.
	Mods key.Modifier

	Pointer mouse.Position
	Buttons mouse.Button

	// Focused is false while the host does not have keyboard focus.
	Focused bool

	// Typed lists chords pressed since the previous sample, in order,
	// with the modifiers held at the time.
	Typed []key.Chord

	// MenuRefresh reports that the host processed a keystroke in its own
	// menu layer since the previous sample.
	MenuRefresh bool

	// Activated reports that a panel or click was acknowledged by the host
	// since the previous sample.
	Activated bool
}

// IsDown reports whether the physical key of c is held.
func (s Sample) IsDown(c key.Chord) bool {
	for _, d := range s.Down {
		if d.SameKey(c) {
			return true
		}
	}
	return false
}

// Escape reports whether the escape key is held.
func (s Sample) Escape() bool {
	return s.IsDown(key.SpecialChord(key.KeyEscape, key.ModNone))
}

// Sampler produces one Sample per tick.
type Sampler interface {
	// Sample returns the input state at now.
	Sample(now time.Time) Sample
}

// Func adapts a function to the Sampler interface.
type Func func(now time.Time) Sample

// Sample calls f.
func (f Func) Sample(now time.Time) Sample {
	return f(now)
}
