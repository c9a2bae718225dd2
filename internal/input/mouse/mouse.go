package mouse

import "strings"

// Button represents a mouse button.
type Button uint8

const (
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft Button = 1 << iota
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
)

// ButtonNone indicates no button.
const ButtonNone Button = 0

// Has returns true if b contains the given button.
func (b Button) Has(other Button) bool {
	return b&other != 0
}

// Any returns true if any button is set.
func (b Button) Any() bool {
	return b != ButtonNone
}

// String returns a string representation of the button set.
func (b Button) String() string {
	if b == ButtonNone {
		return "none"
	}
	var parts []string
	if b.Has(ButtonLeft) {
		parts = append(parts, "left")
	}
	if b.Has(ButtonRight) {
		parts = append(parts, "right")
	}
	if b.Has(ButtonMiddle) {
		parts = append(parts, "middle")
	}
	return strings.Join(parts, "+")
}

// Position represents a screen coordinate.
type Position struct {
	X int
	Y int
}

// Add returns p translated by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the Manhattan distance (|dx| + |dy|) between two positions.
func (p Position) Distance(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether p lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Position {
	return Position{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// CenteredAt returns a w x h rectangle centered on p.
func CenteredAt(p Position, w, h int) Rect {
	return Rect{X: p.X - w/2, Y: p.Y - h/2, Width: w, Height: h}
}

// ClampInto shifts r so that it lies within bounds where possible.
func (r Rect) ClampInto(bounds Rect) Rect {
	if r.X+r.Width > bounds.X+bounds.Width {
		r.X = bounds.X + bounds.Width - r.Width
	}
	if r.Y+r.Height > bounds.Y+bounds.Height {
		r.Y = bounds.Y + bounds.Height - r.Height
	}
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	return r
}
