package term

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/orchestrator"
	"github.com/dshills/snapkey/internal/panel/grid"
	"github.com/dshills/snapkey/internal/panel/list"
	"github.com/dshills/snapkey/internal/panel/menu"
	"github.com/dshills/snapkey/internal/settings"
)

// Renderer draws the visible panels onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	theme  Theme
}

// NewRenderer returns a renderer for screen.
func NewRenderer(screen tcell.Screen, theme Theme) *Renderer {
	return &Renderer{screen: screen, theme: theme}
}

// Render implements app.Renderer.
func (r *Renderer) Render(state *orchestrator.State, cur settings.Settings) {
	pal := r.theme.resolve(cur.GridOpacity, cur.CellOpacity)
	r.screen.Clear()

	for _, id := range state.Visible() {
		switch p := state.Get(id).Panel.(type) {
		case *grid.Panel:
			r.drawGrid(p, pal)
		case *menu.Panel:
			r.drawList(p.Panel, pal)
		case *list.Panel:
			r.drawList(p, pal)
		}
	}
	r.drawStatus(state, pal)
	r.screen.Show()
}

func (r *Renderer) drawGrid(p *grid.Panel, pal palette) {
	l := p.Layout()
	hit := p.Hovered()
	cur := p.Settings()
	r.fill(l.Bounds, pal.panel)

	for gy := 0; gy < l.Height; gy++ {
		for gx := 0; gx < l.Width; gx++ {
			style := pal.cell
			if hit.Cell && hit.GX == gx && hit.GY == gy {
				style = pal.hover
			}
			cell := l.Cell(gx, gy)
			r.fill(cell, style)
			c := cell.Center()
			r.screen.SetContent(c.X, c.Y, '+', nil, style)
		}
	}

	for _, b := range l.Options {
		style := pal.panel
		switch {
		case hit.Option == b.Option:
			style = pal.hover
		case b.Option == grid.OptionCompMode && cur.UseCompMode,
			b.Option == grid.OptionMaskMode && cur.UseMaskRecognition:
			style = pal.active
		}
		r.fill(b.Rect, style)
		r.text(b.Rect.X, b.Rect.Y, b.Rect.Width, b.Option.String(), style)
	}
}

func (r *Renderer) drawList(p *list.Panel, pal palette) {
	r.fill(p.Bounds(), pal.panel)
	items := p.Items()
	for i, row := range p.Rows() {
		style := pal.text
		switch {
		case i == p.Hovered():
			style = pal.hover
		case !items[i].Selectable():
			style = pal.active
		}
		r.fill(row, style)
		r.text(row.X+1, row.Y, row.Width-2, items[i].Label, style)
	}
}

func (r *Renderer) drawStatus(state *orchestrator.State, pal palette) {
	w, h := r.screen.Size()
	if h == 0 {
		return
	}
	open := make([]string, 0, 2)
	for _, id := range state.Visible() {
		open = append(open, id.String())
	}
	if len(open) == 0 {
		open = append(open, "-")
	}
	line := " snapkey  open: " + strings.Join(open, ",") +
		"  menu: " + state.Trampoline().String() + "  Ctrl+C quits"
	r.fill(mouse.Rect{X: 0, Y: h - 1, Width: w, Height: 1}, pal.status)
	r.text(0, h-1, w, line, pal.status)
}

func (r *Renderer) fill(rect mouse.Rect, style tcell.Style) {
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// text draws s from (x, y), clipped to width columns on a grapheme
// boundary. It returns the columns used.
func (r *Renderer) text(x, y, width int, s string, style tcell.Style) int {
	col := 0
	state := -1
	for s != "" {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if col+w > width {
			break
		}
		runes := []rune(cluster)
		r.screen.SetContent(x+col, y, runes[0], runes[1:], style)
		col += w
	}
	return col
}
