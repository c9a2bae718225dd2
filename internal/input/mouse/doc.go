// Package mouse provides the pointer vocabulary used by the sampler and the
// panels.
//
// # Core Types
//
// Position is a screen coordinate in host pixels (or terminal cells for the
// terminal harness). Rect is an axis-aligned rectangle used for panel hit
// testing. Buttons is a bitset of the pointer buttons currently held, and
// EdgeTracker turns successive Buttons samples into press edges:
//
//	var edges mouse.EdgeTracker
//	pressed := edges.Update(sample.Buttons)
//	if pressed.Has(mouse.ButtonLeft) {
//	    // a fresh left click this tick
//	}
package mouse
