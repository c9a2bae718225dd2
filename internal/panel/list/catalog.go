package list

import (
	"fmt"

	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/panel"
	"github.com/dshills/snapkey/internal/script"
	"github.com/dshills/snapkey/internal/transform"
)

// AlignItems returns the align panel rows for reference mode ref.
func AlignItems(ref transform.ReferenceMode) []Item {
	heading := "Align to selection"
	if ref == transform.CompositionReference {
		heading = "Align to composition"
	}
	items := []Item{{Label: heading}}
	for i, d := range []transform.AlignDirection{
		transform.AlignLeft, transform.AlignCenterH, transform.AlignRight,
		transform.AlignTop, transform.AlignMiddleV, transform.AlignBottom,
	} {
		items = append(items, Item{
			Label:   d.String(),
			Key:     key.RuneChord(rune('1'+i), key.ModNone),
			Payload: panel.AlignPayload{Direction: d, Reference: ref},
		})
	}
	return append(items,
		Item{Label: "Distribute horizontally", Key: key.MustParse("H"),
			Payload: panel.AlignPayload{Distribute: true, Axis: transform.Horizontal, Reference: ref}},
		Item{Label: "Distribute vertically", Key: key.MustParse("V"),
			Payload: panel.AlignPayload{Distribute: true, Axis: transform.Vertical, Reference: ref}},
	)
}

// EasePreset is a named keyframe ease.
type EasePreset struct {
	Name string
	Ease script.ApplyEase
}

// DefaultEases returns the stock keyframe ease presets.
func DefaultEases() []EasePreset {
	return []EasePreset{
		{"Linear", script.ApplyEase{InSpeed: 0, InInfluence: script.MinEaseInfluence, OutSpeed: 0, OutInfluence: script.MinEaseInfluence}},
		{"Easy ease", script.ApplyEase{InSpeed: 0, InInfluence: script.DefaultEaseInfluence, OutSpeed: 0, OutInfluence: script.DefaultEaseInfluence}},
		{"Ease in", script.ApplyEase{InSpeed: 0, InInfluence: script.DefaultEaseInfluence, OutSpeed: 0, OutInfluence: script.MinEaseInfluence}},
		{"Ease out", script.ApplyEase{InSpeed: 0, InInfluence: script.MinEaseInfluence, OutSpeed: 0, OutInfluence: script.DefaultEaseInfluence}},
		{"Strong ease", script.ApplyEase{InSpeed: 0, InInfluence: 75, OutSpeed: 0, OutInfluence: 75}},
	}
}

// KeyframeItems returns the keyframe panel rows.
func KeyframeItems(presets []EasePreset) []Item {
	items := make([]Item, 0, len(presets))
	for i, p := range presets {
		it := Item{Label: p.Name, Payload: panel.KeyframePayload{Ease: p.Ease}}
		if i < 9 {
			it.Key = key.RuneChord(rune('1'+i), key.ModNone)
		}
		items = append(items, it)
	}
	return items
}

// TextPreset is a named text style change.
type TextPreset struct {
	Name  string
	Style script.SetTextStyle
}

func ptr(v float64) *float64 { return &v }

// DefaultTextStyles returns the stock text presets.
func DefaultTextStyles() []TextPreset {
	return []TextPreset{
		{"Size 24", script.SetTextStyle{FontSize: ptr(24)}},
		{"Size 48", script.SetTextStyle{FontSize: ptr(48)}},
		{"Size 96", script.SetTextStyle{FontSize: ptr(96)}},
		{"Tracking 0", script.SetTextStyle{Tracking: ptr(0)}},
		{"Tracking 100", script.SetTextStyle{Tracking: ptr(100)}},
		{"White", script.SetTextStyle{Color: "#ffffff"}},
		{"Black", script.SetTextStyle{Color: "#000000"}},
		{"Opacity 50%", script.SetTextStyle{Opacity: ptr(50)}},
	}
}

// TextItems returns the text panel rows.
func TextItems(presets []TextPreset) []Item {
	items := make([]Item, 0, len(presets))
	for i, p := range presets {
		it := Item{Label: p.Name, Payload: panel.TextPayload{Style: p.Style}}
		if i < 9 {
			it.Key = key.RuneChord(rune('1'+i), key.ModNone)
		}
		items = append(items, it)
	}
	return items
}

// Effect is an effect offered by the control panel.
type Effect struct {
	Name      string
	MatchName string
}

// DefaultEffects returns the stock effect list.
func DefaultEffects() []Effect {
	return []Effect{
		{"Gaussian Blur", "ADBE Gaussian Blur 2"},
		{"Fill", "ADBE Fill"},
		{"Drop Shadow", "ADBE Drop Shadow"},
		{"Glow", "ADBE Glo2"},
		{"Tint", "ADBE Tint"},
	}
}

// ControlItems returns the control panel rows: effects, then preset slots.
func ControlItems(effects []Effect) []Item {
	items := make([]Item, 0, len(effects)+2*panel.MaxPresetSlots+2)
	items = append(items, Item{Label: "Effects"})
	for _, e := range effects {
		items = append(items, Item{Label: e.Name, Payload: panel.ControlPayload{Action: panel.ApplyEffect, MatchName: e.MatchName}})
	}
	items = append(items, Item{Label: "Presets"})
	for slot := 1; slot <= panel.MaxPresetSlots; slot++ {
		items = append(items,
			Item{Label: fmt.Sprintf("Apply preset %d", slot), Key: key.RuneChord(rune('0'+slot), key.ModNone),
				Payload: panel.ControlPayload{Action: panel.ApplyPreset, Slot: slot}},
			Item{Label: fmt.Sprintf("Save preset %d", slot),
				Payload: panel.ControlPayload{Action: panel.SavePreset, Slot: slot}},
		)
	}
	return items
}

// LayerItems returns the layer panel rows.
func LayerItems() []Item {
	cmds := []struct{ label, cmd, key string }{
		{"Duplicate", "duplicate", "D"},
		{"Auto-crop", "auto_crop", "C"},
		{"Extend to comp", "extend", "E"},
		{"Trim to work area", "trim", "T"},
		{"Pre-render", "prerender", "P"},
	}
	items := make([]Item, 0, len(cmds))
	for _, c := range cmds {
		items = append(items, Item{Label: c.label, Key: key.MustParse(c.key), Payload: panel.LayerPayload{Command: c.cmd}})
	}
	return items
}
