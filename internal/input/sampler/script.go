package sampler

import (
	"time"

	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/input/mouse"
)

// Script replays a fixed sequence of samples, one per call. Once the
// sequence is exhausted the last held state repeats with its one-shot
// fields (Typed, MenuRefresh, Activated) cleared.
type Script struct {
	frames []Sample
	last   Sample
}

// NewScript returns a Script that starts focused with nothing held.
func NewScript(frames ...Sample) *Script {
	return &Script{frames: frames, last: Sample{Focused: true}}
}

// Push appends frames to the sequence.
func (s *Script) Push(frames ...Sample) {
	s.frames = append(s.frames, frames...)
}

// Remaining returns the number of frames not yet replayed.
func (s *Script) Remaining() int {
	return len(s.frames)
}

// Sample implements Sampler.
func (s *Script) Sample(now time.Time) Sample {
	var out Sample
	if len(s.frames) > 0 {
		out = s.frames[0]
		s.frames = s.frames[1:]
		s.last = out
	} else {
		out = s.last
		out.Typed = nil
		out.MenuRefresh = false
		out.Activated = false
	}
	out.Time = now
	return out
}

// Keys returns a focused sample holding the given keys. Each spec is
// parsed with key.Parse; modifiers in the specs are added to Mods.
func Keys(specs ...string) Sample {
	s := Sample{Focused: true}
	for _, spec := range specs {
		c := key.MustParse(spec)
		s.Mods = s.Mods.With(c.Mods)
		if c.Key != key.KeyNone {
			s.Down = append(s.Down, key.Chord{Key: c.Key, Rune: c.Rune})
		}
	}
	return s
}

// WithPointer returns a copy of s with the pointer at pos holding buttons.
func (s Sample) WithPointer(pos mouse.Position, buttons mouse.Button) Sample {
	s.Pointer = pos
	s.Buttons = buttons
	return s
}

// WithRefresh returns a copy of s that carries a host menu refresh.
func (s Sample) WithRefresh() Sample {
	s.MenuRefresh = true
	return s
}

// Unfocused returns a copy of s taken while the host lacks focus.
func (s Sample) Unfocused() Sample {
	s.Focused = false
	return s
}
