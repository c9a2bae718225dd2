// Package menu is the quick menu: a short list of primary panels, each
// with a one-key accelerator. Choosing an entry commits a MenuPayload and
// the orchestrator opens the named panel in its place.
package menu

import (
	"errors"
	"fmt"

	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/panel"
	"github.com/dshills/snapkey/internal/panel/list"
)

// Entry binds an accelerator to a primary panel.
type Entry struct {
	Key    key.Chord
	Target panel.ID
}

// Default returns the stock entries.
func Default() []Entry {
	return []Entry{
		{Key: key.MustParse("A"), Target: panel.Align},
		{Key: key.MustParse("T"), Target: panel.Text},
		{Key: key.MustParse("K"), Target: panel.Keyframe},
		{Key: key.MustParse("L"), Target: panel.Layer},
		{Key: key.MustParse("C"), Target: panel.Control},
	}
}

// ErrInvalidEntry is returned by Validate.
var ErrInvalidEntry = errors.New("invalid menu entry")

// Validate checks that every entry has a key, targets a primary panel and
// that no key or target repeats.
func Validate(entries []Entry) error {
	for i, e := range entries {
		if e.Key.IsZero() {
			return fmt.Errorf("%w: entry %d has no key", ErrInvalidEntry, i)
		}
		if !e.Target.IsPrimary() {
			return fmt.Errorf("%w: %s is not a primary panel", ErrInvalidEntry, e.Target)
		}
		for _, prev := range entries[:i] {
			if prev.Key.Equals(e.Key) {
				return fmt.Errorf("%w: key %s used twice", ErrInvalidEntry, e.Key)
			}
			if prev.Target == e.Target {
				return fmt.Errorf("%w: %s listed twice", ErrInvalidEntry, e.Target)
			}
		}
	}
	return nil
}

// Panel is the quick menu.
type Panel struct {
	*list.Panel
	entries []Entry
}

// New returns a menu panel for entries.
func New(entries []Entry, opts ...list.Option) (*Panel, error) {
	if err := Validate(entries); err != nil {
		return nil, err
	}
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, list.Item{
			Label:   fmt.Sprintf("%s  %s", e.Key, e.Target),
			Key:     e.Key,
			Payload: panel.MenuPayload{Target: e.Target},
		})
	}
	return &Panel{Panel: list.New(panel.Menu.String(), items, opts...), entries: entries}, nil
}

// Entries returns the menu entries.
func (p *Panel) Entries() []Entry {
	return p.entries
}

// Lookup returns the panel an accelerator opens.
func (p *Panel) Lookup(c key.Chord) (panel.ID, bool) {
	for _, e := range p.entries {
		if e.Key.Equals(c) {
			return e.Target, true
		}
	}
	return 0, false
}
