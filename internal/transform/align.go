package transform

import (
	"math"
	"sort"
)

// AlignDirection is an edge or center line to align to.
type AlignDirection uint8

const (
	AlignLeft AlignDirection = iota
	AlignCenterH
	AlignRight
	AlignTop
	AlignMiddleV
	AlignBottom
)

var alignNames = [...]string{"left", "center-h", "right", "top", "middle-v", "bottom"}

// String returns the direction name.
func (d AlignDirection) String() string {
	if int(d) < len(alignNames) {
		return alignNames[d]
	}
	return "unknown"
}

// ParseAlignDirection parses a direction name.
func ParseAlignDirection(s string) (AlignDirection, bool) {
	for i, n := range alignNames {
		if n == s {
			return AlignDirection(i), true
		}
	}
	return 0, false
}

// Axis is a distribution axis.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// String returns the axis name.
func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// MinDistribute is the smallest selection that can be distributed.
const MinDistribute = 3

// Move is a position change for one object.
type Move struct {
	Index int
	Delta Point
}

// box is an object's scaled content bounds in the shared space.
type box struct {
	index                    int
	left, top, right, bottom float64
}

func (b box) cx() float64 { return (b.left + b.right) / 2 }
func (b box) cy() float64 { return (b.top + b.bottom) / 2 }

// sceneBox places an object's content bounds in the shared space using its
// position, anchor and scale. Rotation is not applied.
func sceneBox(g Geometry) box {
	sx, sy := g.Scale.X/100, g.Scale.Y/100
	w, h := g.Content.Width*sx, g.Content.Height*sy
	left := g.Position[0] - (g.Anchor.X-g.Content.Left)*sx
	top := g.Position[1] - (g.Anchor.Y-g.Content.Top)*sy
	return box{index: g.Index, left: left, top: top, right: left + w, bottom: top + h}
}

func union(boxes []box) box {
	u := box{left: math.Inf(1), top: math.Inf(1), right: math.Inf(-1), bottom: math.Inf(-1)}
	for _, b := range boxes {
		u.left = math.Min(u.left, b.left)
		u.top = math.Min(u.top, b.top)
		u.right = math.Max(u.right, b.right)
		u.bottom = math.Max(u.bottom, b.bottom)
	}
	return u
}

// Align returns the moves that align every object to dir. In selection mode
// the target is the union of all objects; in composition mode it is the frame.
// Objects that are already aligned produce no move.
func Align(objects []Geometry, dir AlignDirection, ref ReferenceMode, frame Frame) []Move {
	if len(objects) == 0 {
		return nil
	}
	boxes := make([]box, len(objects))
	for i, g := range objects {
		boxes[i] = sceneBox(g)
	}

	target := box{right: frame.Width, bottom: frame.Height}
	if ref == SelectionReference {
		target = union(boxes)
	}

	var moves []Move
	for _, b := range boxes {
		var d Point
		switch dir {
		case AlignLeft:
			d.X = target.left - b.left
		case AlignCenterH:
			d.X = target.cx() - b.cx()
		case AlignRight:
			d.X = target.right - b.right
		case AlignTop:
			d.Y = target.top - b.top
		case AlignMiddleV:
			d.Y = target.cy() - b.cy()
		case AlignBottom:
			d.Y = target.bottom - b.bottom
		}
		if d != (Point{}) {
			moves = append(moves, Move{Index: b.index, Delta: d})
		}
	}
	return moves
}

// Distribute spaces object centers evenly along axis. The outermost objects
// stay put; in composition mode the span is the whole frame. Fewer than
// MinDistribute objects produce no moves.
func Distribute(objects []Geometry, axis Axis, ref ReferenceMode, frame Frame) []Move {
	if len(objects) < MinDistribute {
		return nil
	}
	boxes := make([]box, len(objects))
	for i, g := range objects {
		boxes[i] = sceneBox(g)
	}
	center := box.cx
	if axis == Vertical {
		center = box.cy
	}
	sort.SliceStable(boxes, func(i, j int) bool { return center(boxes[i]) < center(boxes[j]) })

	first, last := center(boxes[0]), center(boxes[len(boxes)-1])
	if ref == CompositionReference {
		first, last = 0, frame.Width
		if axis == Vertical {
			last = frame.Height
		}
	}
	spacing := (last - first) / float64(len(boxes)-1)

	var moves []Move
	for i := 1; i < len(boxes)-1; i++ {
		delta := first + spacing*float64(i) - center(boxes[i])
		if delta == 0 {
			continue
		}
		m := Move{Index: boxes[i].index}
		if axis == Vertical {
			m.Delta.Y = delta
		} else {
			m.Delta.X = delta
		}
		moves = append(moves, m)
	}
	return moves
}
