package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the panel colors as hex strings.
type Theme struct {
	Backdrop string
	Panel    string
	Cell     string
	Hover    string
	Text     string
	Active   string
}

// DefaultTheme returns the stock dark theme.
func DefaultTheme() Theme {
	return Theme{
		Backdrop: "#101216",
		Panel:    "#2b2f3a",
		Cell:     "#6b7a99",
		Hover:    "#e0a526",
		Text:     "#e6e6e6",
		Active:   "#4caf50",
	}
}

// palette is a Theme resolved to terminal colors at given opacities.
type palette struct {
	panel  tcell.Style
	cell   tcell.Style
	hover  tcell.Style
	text   tcell.Style
	active tcell.Style
	status tcell.Style
}

// resolve blends the panel and cell colors over the backdrop by the
// opacity percentages. Unparseable colors fall back to the terminal
// default.
func (t Theme) resolve(panelOpacity, cellOpacity int) palette {
	back := parse(t.Backdrop, colorful.Color{})
	panelC := back.BlendRgb(parse(t.Panel, back), opacity(panelOpacity))
	cellC := panelC.BlendRgb(parse(t.Cell, panelC), opacity(cellOpacity))
	text := tc(parse(t.Text, colorful.Color{R: 1, G: 1, B: 1}))

	base := tcell.StyleDefault.Background(tc(panelC)).Foreground(text)
	return palette{
		panel:  base,
		cell:   base.Background(tc(cellC)),
		hover:  base.Background(tc(parse(t.Hover, cellC))).Foreground(tc(back)),
		text:   base,
		active: base.Foreground(tc(parse(t.Active, cellC))).Bold(true),
		status: tcell.StyleDefault.Reverse(true),
	}
}

func parse(hex string, fallback colorful.Color) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c
}

func opacity(pct int) float64 {
	return float64(max(0, min(100, pct))) / 100
}

func tc(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
