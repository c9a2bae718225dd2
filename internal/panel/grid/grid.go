// Package grid is the anchor grid panel: a small grid of cells centered
// on the pointer, each mapping to an anchor ratio, plus a row of extended
// options (custom anchors, copy and paste, reference and mask toggles).
//
// The grid commits whatever is hovered when it is hidden, which is how a
// hold gesture applies on key release. In sticky mode it commits on click.
package grid

import (
	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/panel"
	"github.com/dshills/snapkey/internal/settings"
	"github.com/dshills/snapkey/internal/transform"
)

// Toggle names a mode flipped from the option row.
type Toggle uint8

const (
	CompMode Toggle = iota
	MaskMode
)

// String returns the settings field backing the toggle.
func (t Toggle) String() string {
	if t == MaskMode {
		return settings.FieldUseMaskRecognition
	}
	return settings.FieldUseCompMode
}

// ToggleFunc is called when a mode is flipped while the grid is open.
type ToggleFunc func(t Toggle, on bool)

// PanelOption configures the panel.
type PanelOption func(*Panel)

// WithCellSize sets the base cell size in layout units.
func WithCellSize(n int) PanelOption {
	return func(p *Panel) {
		if n > 0 {
			p.baseCell = n
		}
	}
}

// WithScreen keeps the panel inside screen.
func WithScreen(screen mouse.Rect) PanelOption {
	return func(p *Panel) {
		p.screen = screen
	}
}

// WithToggle sets the hook called when a mode is toggled.
func WithToggle(fn ToggleFunc) PanelOption {
	return func(p *Panel) {
		p.onToggle = fn
	}
}

// Panel is the anchor grid.
type Panel struct {
	panel.Base

	load     func() settings.Settings
	onToggle ToggleFunc
	baseCell int
	screen   mouse.Rect

	cur    settings.Settings
	layout Layout
	hit    Hit
}

// New returns a grid panel. load is called on every Show to pick up the
// persisted grid settings.
func New(load func() settings.Settings, opts ...PanelOption) *Panel {
	p := &Panel{load: load, baseCell: BaseCellSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Initialize implements panel.Panel.
func (p *Panel) Initialize() error {
	p.cur = settings.Default()
	return nil
}

// Shutdown implements panel.Panel.
func (p *Panel) Shutdown() {}

// SetScreen updates the screen bounds used by the next Show.
func (p *Panel) SetScreen(screen mouse.Rect) {
	p.screen = screen
}

// Show implements panel.Panel.
func (p *Panel) Show(pos mouse.Position) {
	if p.load != nil {
		p.cur = p.load()
	}
	w, h := clampDims(p.cur)
	p.layout = NewLayout(pos, w, h, p.baseCell, p.cur.ScaleFactor(), p.screen)
	p.Open(pos)
	p.hit = p.layout.HitTest(pos)
}

// UpdateHover implements panel.Panel.
func (p *Panel) UpdateHover(pos mouse.Position) {
	if !p.IsVisible() {
		return
	}
	p.SetHover(pos)
	p.hit = p.layout.HitTest(pos)
}

// Hide implements panel.Panel. The hovered cell or option is committed;
// hovering nothing, or a toggle, cancels.
func (p *Panel) Hide() panel.Result {
	return p.Close(p.commit(p.hit))
}

// Click implements panel.Clicker. Toggle options flip their mode and keep
// the grid open; anything else commits.
func (p *Panel) Click(pos mouse.Position, buttons mouse.Button) bool {
	if !p.IsVisible() || !buttons.Has(mouse.ButtonLeft) {
		return false
	}
	hit := p.layout.HitTest(pos)
	p.hit = hit
	switch {
	case hit.None():
	case hit.Option.IsToggle():
		p.toggle(hit.Option)
		return true
	default:
		p.Finish(p.commit(hit))
	}
	return false
}

func (p *Panel) toggle(o Option) {
	t := CompMode
	on := !p.cur.UseCompMode
	if o == OptionMaskMode {
		t = MaskMode
		on = !p.cur.UseMaskRecognition
		p.cur.UseMaskRecognition = on
	} else {
		p.cur.UseCompMode = on
	}
	if p.onToggle != nil {
		p.onToggle(t, on)
	}
}

func (p *Panel) commit(hit Hit) panel.Result {
	if hit.Cell {
		return panel.Applied(panel.GridPayload{
			Action:    panel.GridCell,
			Selection: transform.CellSelection(hit.GX, hit.GY, p.layout.Width, p.layout.Height),
		})
	}
	switch hit.Option {
	case OptionCustom1, OptionCustom2, OptionCustom3:
		slot := hit.Option.CustomSlot()
		r := p.cur.CustomAnchors[slot-1]
		return panel.Applied(panel.GridPayload{
			Action:    panel.GridCustom,
			Selection: transform.RatioSelection(r.X, r.Y),
			Slot:      slot,
		})
	case OptionCopy:
		return panel.Applied(panel.GridPayload{Action: panel.GridCopy})
	case OptionPaste:
		if p.cur.ClipboardAnchor == nil {
			return panel.Cancelled()
		}
		c := p.cur.ClipboardAnchor
		return panel.Applied(panel.GridPayload{
			Action:    panel.GridPaste,
			Selection: transform.RatioSelection(c.X, c.Y),
		})
	case OptionSettings:
		return panel.Applied(panel.GridPayload{Action: panel.GridSettings})
	}
	return panel.Cancelled()
}

// Layout returns the current layout.
func (p *Panel) Layout() Layout {
	return p.layout
}

// Hovered returns what the pointer is over.
func (p *Panel) Hovered() Hit {
	return p.hit
}

// Settings returns the settings the panel was opened with, including
// toggles made since.
func (p *Panel) Settings() settings.Settings {
	return p.cur
}
