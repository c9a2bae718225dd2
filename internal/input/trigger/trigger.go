// Package trigger holds the static trigger table: which key chords open
// which panels, and with what gesture.
package trigger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/panel"
)

// Kind is the gesture a binding expects.
type Kind uint8

const (
	// Hold opens its panel once the key is held past the hold threshold and
	// commits on release. A double tap pins the panel open.
	Hold Kind = iota
	// Instant fires on press and toggles its panel.
	Instant
	// Combo is an Instant binding that requires modifiers.
	Combo
	// Menu fires on press and opens the quick menu.
	Menu
)

var kindNames = [...]string{"hold", "instant", "combo", "menu"}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// FiresOnPress reports whether the binding acts on the press edge alone.
func (k Kind) FiresOnPress() bool {
	return k != Hold
}

// ParseKind parses a kind name (case-insensitive).
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trigger kind %q", s)
}

// Binding maps a chord to a gesture kind and a target panel.
type Binding struct {
	Chord  key.Chord
	Kind   Kind
	Target panel.ID
}

// String returns a description like "Shift+E combo -> control".
func (b Binding) String() string {
	return fmt.Sprintf("%s %s -> %s", b.Chord, b.Kind, b.Target)
}

// Validation errors.
var (
	ErrEmptyChord     = errors.New("binding has no key")
	ErrDuplicateChord = errors.New("duplicate chord")
	ErrBadTarget      = errors.New("invalid binding target")
	ErrComboNoMods    = errors.New("combo binding without modifiers")
)

// Table is an immutable, validated list of bindings.
type Table struct {
	bindings []Binding
}

// NewTable validates bindings and returns a table.
func NewTable(bindings []Binding) (*Table, error) {
	for i, b := range bindings {
		if b.Chord.IsZero() {
			return nil, fmt.Errorf("binding %d: %w", i, ErrEmptyChord)
		}
		switch {
		case b.Kind == Menu && b.Target != panel.Menu:
			return nil, fmt.Errorf("binding %s: %w: menu bindings must target the menu", b, ErrBadTarget)
		case b.Kind != Menu && !b.Target.IsPrimary():
			return nil, fmt.Errorf("binding %s: %w", b, ErrBadTarget)
		case b.Kind == Combo && b.Chord.Mods.IsEmpty():
			return nil, fmt.Errorf("binding %s: %w", b, ErrComboNoMods)
		case b.Kind > Menu:
			return nil, fmt.Errorf("binding %d: unknown kind %d", i, b.Kind)
		}
		for _, prev := range bindings[:i] {
			if prev.Chord.Equals(b.Chord) {
				return nil, fmt.Errorf("binding %s: %w", b, ErrDuplicateChord)
			}
		}
	}
	return &Table{bindings: append([]Binding(nil), bindings...)}, nil
}

// DefaultBindings returns the stock trigger table.
func DefaultBindings() []Binding {
	return []Binding{
		{Chord: key.MustParse("Y"), Kind: Hold, Target: panel.Grid},
		{Chord: key.MustParse("D"), Kind: Menu, Target: panel.Menu},
		{Chord: key.MustParse("Shift+E"), Kind: Combo, Target: panel.Control},
		{Chord: key.MustParse("RShift+K"), Kind: Combo, Target: panel.Keyframe},
	}
}

// Default returns a table of DefaultBindings.
func Default() *Table {
	t, err := NewTable(DefaultBindings())
	if err != nil {
		panic("default trigger table: " + err.Error())
	}
	return t
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.bindings)
}

// At returns binding i.
func (t *Table) At(i int) Binding {
	return t.bindings[i]
}

// Bindings returns a copy of all bindings.
func (t *Table) Bindings() []Binding {
	return append([]Binding(nil), t.bindings...)
}

// Engaged reports whether binding i should be considered pressed when its
// key is down with the held modifiers.
//
// Every modifier of the binding must be held, and no modifier outside it
// may be, except the right-shift bit when Shift itself is bound. A binding
// is also suppressed while another binding on the same key with a strict
// superset of its modifiers is fully held, so RShift+K wins over Shift+K.
func (t *Table) Engaged(i int, held key.Modifier) bool {
	b := t.bindings[i]
	if !held.HasAll(b.Chord.Mods) {
		return false
	}
	extra := held.Without(b.Chord.Mods)
	if b.Chord.Mods.HasShift() {
		extra = extra.Without(key.ModRightShift)
	}
	if !extra.IsEmpty() {
		return false
	}
	for j, o := range t.bindings {
		if j == i || !o.Chord.SameKey(b.Chord) {
			continue
		}
		if b.Chord.Mods.StrictSubsetOf(o.Chord.Mods) && held.HasAll(o.Chord.Mods) {
			return false
		}
	}
	return true
}

// ForTarget returns the bindings that open id.
func (t *Table) ForTarget(id panel.ID) []Binding {
	var out []Binding
	for _, b := range t.bindings {
		if b.Target == id {
			out = append(out, b)
		}
	}
	return out
}
