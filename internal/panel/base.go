package panel

import "github.com/dshills/snapkey/internal/input/mouse"

// Base tracks the visibility and pending result shared by all panels.
// Panel implementations embed it and call Open, Close and Finish.
type Base struct {
	visible bool
	origin  mouse.Position
	hover   mouse.Position

	pending *Result
}

// Open marks the panel visible at pos and discards any stale result.
func (b *Base) Open(pos mouse.Position) {
	b.visible = true
	b.origin = pos
	b.hover = pos
	b.pending = nil
}

// Close hides the panel and returns r. Closing a hidden panel returns a
// cancelled result.
func (b *Base) Close(r Result) Result {
	if !b.visible {
		return Cancelled()
	}
	b.visible = false
	b.pending = nil
	return r
}

// Finish hides the panel from the inside and stores r for Result.
func (b *Base) Finish(r Result) {
	if !b.visible {
		return
	}
	b.visible = false
	b.pending = &r
}

// IsVisible reports whether the panel is open.
func (b *Base) IsVisible() bool {
	return b.visible
}

// Result returns the stored result once.
func (b *Base) Result() Result {
	if b.pending == nil {
		return Cancelled()
	}
	r := *b.pending
	b.pending = nil
	return r
}

// Origin returns the position the panel was opened at.
func (b *Base) Origin() mouse.Position {
	return b.origin
}

// Hover returns the last hover position.
func (b *Base) Hover() mouse.Position {
	return b.hover
}

// SetHover records the hover position.
func (b *Base) SetHover(pos mouse.Position) {
	b.hover = pos
}
