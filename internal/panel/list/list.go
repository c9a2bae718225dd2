// Package list is a vertical item-list panel. The align, text, keyframe,
// control and layer panels and the quick menu are all lists of actions
// that commit on click or accelerator key and cancel when hidden.
package list

import (
	"math"

	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/panel"
)

// Default row size in layout units.
const (
	DefaultRowWidth  = 160
	DefaultRowHeight = 24
)

// Item is one row.
type Item struct {
	Label string
	// Key is an optional accelerator.
	Key key.Chord
	// Payload is committed when the item is chosen. Items without a
	// payload are headings and cannot be chosen.
	Payload panel.Payload
}

// Selectable reports whether the item can be committed.
func (it Item) Selectable() bool {
	return it.Payload != nil
}

// Option configures a Panel.
type Option func(*Panel)

// WithRowSize sets the unscaled row size.
func WithRowSize(w, h int) Option {
	return func(p *Panel) {
		if w > 0 && h > 0 {
			p.rowW, p.rowH = w, h
		}
	}
}

// WithScale sets a function returning the display scale, read on Show.
func WithScale(fn func() float64) Option {
	return func(p *Panel) {
		p.scale = fn
	}
}

// WithSource sets a function that rebuilds the items on every Show.
func WithSource(fn func() []Item) Option {
	return func(p *Panel) {
		p.source = fn
	}
}

// WithScreen keeps the panel inside screen.
func WithScreen(screen mouse.Rect) Option {
	return func(p *Panel) {
		p.screen = screen
	}
}

// Panel is a list of actions.
type Panel struct {
	panel.Base

	title  string
	items  []Item
	rowW   int
	rowH   int
	scale  func() float64
	source func() []Item
	screen mouse.Rect

	rows  []mouse.Rect
	hover int
}

// New returns a list panel.
func New(title string, items []Item, opts ...Option) *Panel {
	p := &Panel{
		title: title,
		items: items,
		rowW:  DefaultRowWidth,
		rowH:  DefaultRowHeight,
		hover: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Initialize implements panel.Panel.
func (p *Panel) Initialize() error { return nil }

// Shutdown implements panel.Panel.
func (p *Panel) Shutdown() {}

// Title returns the panel title.
func (p *Panel) Title() string { return p.title }

// Items returns the rows.
func (p *Panel) Items() []Item { return p.items }

// Rows returns the laid out row rectangles, parallel to Items.
func (p *Panel) Rows() []mouse.Rect { return p.rows }

// Hovered returns the hovered row index, or -1.
func (p *Panel) Hovered() int { return p.hover }

// SetScreen updates the screen bounds used by the next Show.
func (p *Panel) SetScreen(screen mouse.Rect) {
	p.screen = screen
}

// Show implements panel.Panel. The list opens with its top-left corner at
// pos, shifted to stay on screen.
func (p *Panel) Show(pos mouse.Position) {
	if p.source != nil {
		p.items = p.source()
	}
	s := 1.0
	if p.scale != nil {
		if v := p.scale(); v > 0 && !math.IsInf(v, 0) {
			s = v
		}
	}
	w := max(1, int(math.Round(float64(p.rowW)*s)))
	h := max(1, int(math.Round(float64(p.rowH)*s)))

	bounds := mouse.Rect{X: pos.X, Y: pos.Y, Width: w, Height: h * len(p.items)}
	if !p.screen.Empty() {
		bounds = bounds.ClampInto(p.screen)
	}
	p.rows = p.rows[:0]
	for i := range p.items {
		p.rows = append(p.rows, mouse.Rect{X: bounds.X, Y: bounds.Y + i*h, Width: w, Height: h})
	}
	p.Open(pos)
	p.hover = p.rowAt(pos)
}

// Bounds returns the rectangle covering all rows.
func (p *Panel) Bounds() mouse.Rect {
	if len(p.rows) == 0 {
		return mouse.Rect{}
	}
	first, last := p.rows[0], p.rows[len(p.rows)-1]
	return mouse.Rect{X: first.X, Y: first.Y, Width: first.Width, Height: last.Y + last.Height - first.Y}
}

func (p *Panel) rowAt(pos mouse.Position) int {
	for i, r := range p.rows {
		if r.Contains(pos) && p.items[i].Selectable() {
			return i
		}
	}
	return -1
}

// UpdateHover implements panel.Panel.
func (p *Panel) UpdateHover(pos mouse.Position) {
	if !p.IsVisible() {
		return
	}
	p.SetHover(pos)
	p.hover = p.rowAt(pos)
}

// Hide implements panel.Panel. Lists only commit by click or key, so
// hiding always cancels.
func (p *Panel) Hide() panel.Result {
	p.hover = -1
	return p.Close(panel.Cancelled())
}

// Click implements panel.Clicker.
func (p *Panel) Click(pos mouse.Position, buttons mouse.Button) bool {
	if !p.IsVisible() || !buttons.Has(mouse.ButtonLeft) {
		return false
	}
	if i := p.rowAt(pos); i >= 0 {
		p.choose(i)
	}
	return false
}

// HandleKey implements panel.KeyHandler. Accelerators choose their item;
// Enter chooses the hovered item.
func (p *Panel) HandleKey(c key.Chord) bool {
	if !p.IsVisible() {
		return false
	}
	if c.Key == key.KeyEnter && c.Mods.IsEmpty() {
		if p.hover < 0 {
			return false
		}
		p.choose(p.hover)
		return true
	}
	for i, it := range p.items {
		if it.Selectable() && !it.Key.IsZero() && it.Key.Equals(c) {
			p.choose(i)
			return true
		}
	}
	return false
}

func (p *Panel) choose(i int) {
	p.hover = i
	p.Finish(panel.Applied(p.items[i].Payload))
}
