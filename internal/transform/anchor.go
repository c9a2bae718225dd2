package transform

import (
	"fmt"
	"math"
)

// ReferenceMode selects the space a selection is expressed in.
type ReferenceMode uint8

const (
	// SelectionReference places the anchor relative to each object's own bounds.
	SelectionReference ReferenceMode = iota
	// CompositionReference places the anchor relative to the output frame.
	CompositionReference
)

// String returns the mode name.
func (m ReferenceMode) String() string {
	if m == CompositionReference {
		return "composition"
	}
	return "selection"
}

// MaskMode controls whether outlines are preferred over content bounds.
type MaskMode uint8

const (
	MaskOff MaskMode = iota
	MaskOn
)

// Selection is either a grid cell or a stored ratio pair.
type Selection struct {
	cell         bool
	gx, gy       int
	gridW, gridH int
	rx, ry       float64
}

// CellSelection selects cell (gx, gy) of a gridW x gridH grid.
func CellSelection(gx, gy, gridW, gridH int) Selection {
	return Selection{cell: true, gx: gx, gy: gy, gridW: gridW, gridH: gridH}
}

// RatioSelection selects a stored ratio. Values are clamped to [0,1];
// non-finite values resolve to the center.
func RatioSelection(rx, ry float64) Selection {
	return Selection{rx: clampRatio(rx), ry: clampRatio(ry)}
}

// IsCell reports whether the selection came from a grid cell.
func (s Selection) IsCell() bool { return s.cell }

// Cell returns the grid cell and grid size of a cell selection.
func (s Selection) Cell() (gx, gy, gridW, gridH int) {
	return s.gx, s.gy, s.gridW, s.gridH
}

// Ratio resolves the selection to (px, py) in [0,1].
func (s Selection) Ratio() (px, py float64) {
	if !s.cell {
		return s.rx, s.ry
	}
	return cellRatio(s.gx, s.gridW), cellRatio(s.gy, s.gridH)
}

// String returns a compact description for logs.
func (s Selection) String() string {
	if s.cell {
		return fmt.Sprintf("cell(%d,%d of %dx%d)", s.gx, s.gy, s.gridW, s.gridH)
	}
	return fmt.Sprintf("ratio(%.4g,%.4g)", s.rx, s.ry)
}

func cellRatio(g, n int) float64 {
	if n < 2 {
		return 0.5
	}
	return clampRatio(float64(g) / float64(n-1))
}

func clampRatio(v float64) float64 {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0.5
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// AnchorUpdate is the anchor and compensating position change for one object.
// Both must be written together to keep the object visually in place.
type AnchorUpdate struct {
	Index         int
	NewAnchor     Point
	PositionDelta [3]float64

	// Keyframe reports that at least one written property is animated and
	// the write must set a keyframe at the current time.
	Keyframe bool
}

// ObjectBounds returns the object's own bounds: its outline bounds when mask
// recognition is on and it has outlines, otherwise its content bounds.
func ObjectBounds(g Geometry, mask MaskMode) Bounds {
	if mask == MaskOn && len(g.Masks) > 0 {
		if b, ok := BoundsOf(g.Masks); ok {
			return b
		}
	}
	return g.Content
}

// ReferenceBounds resolves the bounds a selection is measured against.
func ReferenceBounds(g Geometry, ref ReferenceMode, mask MaskMode, frame Frame) Bounds {
	if ref == CompositionReference {
		return frame.Bounds()
	}
	return ObjectBounds(g, mask)
}

// ComputeAnchorUpdate computes the update for a single object.
// The second result is false when the object must be skipped: degenerate
// reference bounds, or a zero scale that cannot be inverted in composition
// mode. In composition mode the object's own bounds are never consulted.
func ComputeAnchorUpdate(sel Selection, g Geometry, ref ReferenceMode, mask MaskMode, frame Frame) (AnchorUpdate, bool) {
	bounds := ReferenceBounds(g, ref, mask, frame)
	if bounds.Degenerate() {
		return AnchorUpdate{}, false
	}

	px, py := sel.Ratio()
	target := bounds.At(px, py)
	if ref == CompositionReference {
		local, ok := g.screenToLocal(target)
		if !ok {
			return AnchorUpdate{}, false
		}
		target = local
	}

	delta := target.Sub(g.Anchor)
	screen := g.localToScreen(delta)
	if !finite(target.X, target.Y, screen.X, screen.Y) {
		return AnchorUpdate{}, false
	}

	return AnchorUpdate{
		Index:         g.Index,
		NewAnchor:     g.Anchor.Add(delta),
		PositionDelta: [3]float64{screen.X, screen.Y, 0},
		Keyframe:      g.AnchorAnimated || g.PositionAnimated,
	}, true
}

// ComputeBatch computes updates for every object, omitting skipped ones.
func ComputeBatch(sel Selection, objects []Geometry, ref ReferenceMode, mask MaskMode, frame Frame) []AnchorUpdate {
	updates := make([]AnchorUpdate, 0, len(objects))
	for _, g := range objects {
		if u, ok := ComputeAnchorUpdate(sel, g, ref, mask, frame); ok {
			updates = append(updates, u)
		}
	}
	return updates
}

// AnchorRatio returns the object's current anchor as a ratio of its content
// bounds, the inverse of a selection-mode update.
func AnchorRatio(g Geometry) (rx, ry float64, ok bool) {
	if g.Content.Degenerate() {
		return 0, 0, false
	}
	rx = (g.Anchor.X - g.Content.Left) / g.Content.Width
	ry = (g.Anchor.Y - g.Content.Top) / g.Content.Height
	return clampRatio(rx), clampRatio(ry), true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
