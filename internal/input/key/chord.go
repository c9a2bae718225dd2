package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty chord specification")
	ErrInvalidSpec = errors.New("invalid chord specification")
)

// Chord is a key together with the modifiers that must be held with it.
type Chord struct {
	// Key identifies the key.
	Key Key

	// Rune is the upper-cased character for KeyRune chords.
	Rune rune

	// Mods are the modifiers that must be held.
	Mods Modifier
}

// RuneChord returns a chord for a character key.
func RuneChord(r rune, mods Modifier) Chord {
	return Chord{Key: KeyRune, Rune: unicode.ToUpper(r), Mods: ModNone.With(mods)}
}

// SpecialChord returns a chord for a special key.
func SpecialChord(k Key, mods Modifier) Chord {
	return Chord{Key: k, Mods: ModNone.With(mods)}
}

// SameKey returns true if both chords name the same physical key.
func (c Chord) SameKey(other Chord) bool {
	return c.Key == other.Key && c.Rune == other.Rune
}

// Equals returns true if two chords are identical.
func (c Chord) Equals(other Chord) bool {
	return c.SameKey(other) && c.Mods == other.Mods
}

// IsZero returns true for the empty chord.
func (c Chord) IsZero() bool {
	return c.Key == KeyNone
}

// String returns a canonical specification, e.g. "Shift+E".
func (c Chord) String() string {
	var name string
	switch c.Key {
	case KeyRune:
		name = string(c.Rune)
	default:
		name = c.Key.String()
	}
	if c.Mods == ModNone {
		return name
	}
	return c.Mods.String() + "+" + name
}

// Parse parses a chord specification.
//
// Supported formats:
//   - Single character: "y", "Y", "1"
//   - Special keys: "Escape", "Space", "Enter"
//   - With modifiers: "Shift+E", "RShift+K", "Ctrl+Alt+P"
func Parse(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	parts := strings.Split(spec, "+")
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, strings.TrimSpace(p))
		}
		mods = mods.With(mod)
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		return Chord{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}
	if k := KeyFromName(keyPart); k != KeyNone {
		return SpecialChord(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) == 1 && unicode.IsPrint(runes[0]) && !unicode.IsSpace(runes[0]) {
		return RuneChord(runes[0], mods), nil
	}
	return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// MustParse parses a chord specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Chord {
	c, err := Parse(spec)
	if err != nil {
		panic("invalid chord specification: " + spec + ": " + err.Error())
	}
	return c
}
