package grid

import (
	"math"

	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/settings"
)

// Option is one of the extended option buttons below the grid.
type Option uint8

const (
	OptionNone Option = iota
	OptionCustom1
	OptionCustom2
	OptionCustom3
	OptionCopy
	OptionPaste
	OptionCompMode
	OptionMaskMode
	OptionSettings
)

// Options lists the option buttons in display order.
var Options = []Option{
	OptionCustom1, OptionCustom2, OptionCustom3,
	OptionCopy, OptionPaste,
	OptionCompMode, OptionMaskMode,
	OptionSettings,
}

var optionLabels = [...]string{"", "1", "2", "3", "Copy", "Paste", "Comp", "Mask", "Settings"}

// String returns the button label.
func (o Option) String() string {
	if int(o) < len(optionLabels) {
		return optionLabels[o]
	}
	return "?"
}

// IsToggle reports whether clicking the option flips a mode in place.
func (o Option) IsToggle() bool {
	return o == OptionCompMode || o == OptionMaskMode
}

// CustomSlot returns the 1-based custom anchor slot, or 0.
func (o Option) CustomSlot() int {
	if o >= OptionCustom1 && o <= OptionCustom3 {
		return int(o-OptionCustom1) + 1
	}
	return 0
}

// Hit is what lies under a position.
type Hit struct {
	Cell   bool
	GX, GY int
	Option Option
}

// None reports whether nothing was hit.
func (h Hit) None() bool {
	return !h.Cell && h.Option == OptionNone
}

// Geometry constants in layout units.
const (
	BaseCellSize = 40
	Spacing      = 1
	Margin       = 2
)

// OptionBox is a laid out option button.
type OptionBox struct {
	Option Option
	Rect   mouse.Rect
}

// Layout is the grid placed on screen.
type Layout struct {
	Bounds   mouse.Rect
	Grid     mouse.Rect
	Width    int
	Height   int
	CellSize int
	Options  []OptionBox
}

// NewLayout places a width x height grid centered on pos, with the option
// row underneath. A non-empty screen keeps the panel inside it.
func NewLayout(pos mouse.Position, width, height, baseCell int, scale float64, screen mouse.Rect) Layout {
	cell := int(math.Round(float64(baseCell) * scale))
	if cell < 1 {
		cell = 1
	}
	gw := width*cell + (width-1)*Spacing + 2*Margin
	gh := height*cell + (height-1)*Spacing + 2*Margin

	l := Layout{
		Grid:     mouse.CenteredAt(pos, gw, gh),
		Width:    width,
		Height:   height,
		CellSize: cell,
	}

	opt := cell / 2
	if opt < 1 {
		opt = 1
	}
	rowW := len(Options)*opt + (len(Options)-1)*Spacing
	x := pos.X - rowW/2
	y := l.Grid.Y + l.Grid.Height + Spacing
	for _, o := range Options {
		l.Options = append(l.Options, OptionBox{Option: o, Rect: mouse.Rect{X: x, Y: y, Width: opt, Height: opt}})
		x += opt + Spacing
	}

	left := min(l.Grid.X, pos.X-rowW/2)
	right := max(l.Grid.X+l.Grid.Width, pos.X-rowW/2+rowW)
	l.Bounds = mouse.Rect{X: left, Y: l.Grid.Y, Width: right - left, Height: y + opt - l.Grid.Y}

	if !screen.Empty() {
		moved := l.Bounds.ClampInto(screen)
		l.shift(moved.X-l.Bounds.X, moved.Y-l.Bounds.Y)
	}
	return l
}

func (l *Layout) shift(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	move := func(r mouse.Rect) mouse.Rect {
		r.X += dx
		r.Y += dy
		return r
	}
	l.Bounds = move(l.Bounds)
	l.Grid = move(l.Grid)
	for i := range l.Options {
		l.Options[i].Rect = move(l.Options[i].Rect)
	}
}

// Cell returns the rectangle of cell (gx, gy).
func (l Layout) Cell(gx, gy int) mouse.Rect {
	step := l.CellSize + Spacing
	return mouse.Rect{
		X:      l.Grid.X + Margin + gx*step,
		Y:      l.Grid.Y + Margin + gy*step,
		Width:  l.CellSize,
		Height: l.CellSize,
	}
}

// HitTest returns what lies under pos. Gaps between cells hit nothing.
func (l Layout) HitTest(pos mouse.Position) Hit {
	if l.Grid.Contains(pos) {
		step := l.CellSize + Spacing
		rx := pos.X - l.Grid.X - Margin
		ry := pos.Y - l.Grid.Y - Margin
		if rx < 0 || ry < 0 {
			return Hit{}
		}
		gx, gy := rx/step, ry/step
		if gx >= l.Width || gy >= l.Height || rx%step >= l.CellSize || ry%step >= l.CellSize {
			return Hit{}
		}
		return Hit{Cell: true, GX: gx, GY: gy}
	}
	for _, b := range l.Options {
		if b.Rect.Contains(pos) {
			return Hit{Option: b.Option}
		}
	}
	return Hit{}
}

// clampDims keeps grid dimensions inside the supported range.
func clampDims(s settings.Settings) (int, int) {
	clampSize := func(v int) int {
		return max(settings.MinGridSize, min(settings.MaxGridSize, v))
	}
	return clampSize(s.GridWidth), clampSize(s.GridHeight)
}
