// Package key provides the key vocabulary used by the trigger table and the
// input sampler.
//
// This package defines the fundamental types for representing keyboard state:
//
//   - Key: identifies a keyboard key (a few special keys, or a rune)
//   - Modifier: a bitset of modifier keys (Shift, Ctrl, Alt, Meta, RightShift)
//   - Chord: a key plus the modifiers that must be held with it
//
// # Chord Specifications
//
// Chords are written as "+"-separated names with the key last:
//
//   - Simple keys: "Y", "d", "Escape", "Space"
//   - With modifiers: "Shift+E", "RShift+K", "Ctrl+Alt+P"
//
// Letters are case-insensitive and normalized to upper case; Shift must be
// spelled out. RShift names the right Shift key and implies Shift.
package key
