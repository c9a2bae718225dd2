package transform

import "math"

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Rotate rotates p by deg degrees around the origin.
func (p Point) Rotate(deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

// Bounds is an axis-aligned rectangle in some coordinate space.
type Bounds struct {
	Left, Top     float64
	Width, Height float64
}

// Degenerate reports whether the bounds have no usable area.
func (b Bounds) Degenerate() bool {
	return !(b.Width > 0) || !(b.Height > 0)
}

// Right returns the right edge.
func (b Bounds) Right() float64 { return b.Left + b.Width }

// Bottom returns the bottom edge.
func (b Bounds) Bottom() float64 { return b.Top + b.Height }

// At returns the point at ratio (px, py) inside the bounds.
func (b Bounds) At(px, py float64) Point {
	return Point{X: b.Left + b.Width*px, Y: b.Top + b.Height*py}
}

// BoundsOf returns the bounding box of the given outlines.
// The second result is false when there are no vertices.
func BoundsOf(outlines [][]Point) (Bounds, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, outline := range outlines {
		for _, v := range outline {
			minX = math.Min(minX, v.X)
			minY = math.Min(minY, v.Y)
			maxX = math.Max(maxX, v.X)
			maxY = math.Max(maxY, v.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return Bounds{}, false
	}
	return Bounds{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Frame is the host's output frame (composition) size.
type Frame struct {
	Width, Height float64
}

// Bounds returns the frame as bounds anchored at the origin.
func (f Frame) Bounds() Bounds {
	return Bounds{Width: f.Width, Height: f.Height}
}

// Geometry is a snapshot of one selected object, read fresh for each commit.
type Geometry struct {
	// Index identifies the object to the host (1-based layer index).
	Index int

	// Position is the object's position; Z is meaningful only when HasZ.
	Position [3]float64
	HasZ     bool

	Anchor      Point
	Scale       Point // percent
	RotationDeg float64

	// Content is the object's intrinsic content bounds in local space.
	Content Bounds

	// Masks holds the object's outline vertices at the current time.
	Masks [][]Point

	// AnchorAnimated and PositionAnimated report whether the host property
	// carries keyframes.
	AnchorAnimated   bool
	PositionAnimated bool
}

// Position2D returns the object's position ignoring Z.
func (g Geometry) Position2D() Point {
	return Point{X: g.Position[0], Y: g.Position[1]}
}

// localToScreen pushes a local-space delta through rotation and scale.
func (g Geometry) localToScreen(d Point) Point {
	r := d.Rotate(g.RotationDeg)
	return Point{X: r.X * g.Scale.X / 100, Y: r.Y * g.Scale.Y / 100}
}

// screenToLocal maps a point in the shared (composition) space into the
// object's local space: subtract position, rotate by -θ, undo scale, add anchor.
func (g Geometry) screenToLocal(p Point) (Point, bool) {
	if g.Scale.X == 0 || g.Scale.Y == 0 {
		return Point{}, false
	}
	r := p.Sub(g.Position2D()).Rotate(-g.RotationDeg)
	r.X *= 100 / g.Scale.X
	r.Y *= 100 / g.Scale.Y
	return r.Add(g.Anchor), true
}
