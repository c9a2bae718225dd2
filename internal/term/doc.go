// Package term is a terminal harness for the overlay engine. It samples
// keyboard, pointer and focus from a tcell screen, draws the visible panels
// and runs the scheduler against a simulated host.
//
// Terminals report key presses but never key releases, so a key counts as
// held until no event for it arrives within the release window. Key repeat
// keeps a held key alive. Every key event also counts as a host menu
// refresh: the harness has no text fields, so the operator is never typing
// into one.
package term
