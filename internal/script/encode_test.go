package script

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/snapkey/internal/transform"
)

func ptr(v float64) *float64 { return &v }

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "set anchors",
			req: &SetAnchors{Updates: []transform.AnchorUpdate{{
				Index:         1,
				NewAnchor:     transform.Point{X: 110, Y: 110},
				PositionDelta: [3]float64{50, 50, 0},
			}}},
			want: `return host.set_anchors("Set Anchor", {{index=1, anchor={110, 110}, delta={50, 50, 0}, keyframe=false}})`,
		},
		{
			name: "read geometry",
			req:  ReadGeometry{},
			want: `return host.read_geometry()`,
		},
		{
			name: "ease sanitized",
			req:  &ApplyEase{InSpeed: math.NaN(), InInfluence: 200, OutSpeed: 20000, OutInfluence: 0.01},
			want: `return host.apply_ease({in_speed=1, in_influence=100, out_speed=10000, out_influence=0.1})`,
		},
		{
			name: "text style clamped",
			req:  &SetTextStyle{FontSize: ptr(2000), Color: "#ff0000"},
			want: `return host.set_text_style({font_size=1296, color={1, 0, 0}})`,
		},
		{
			name: "text style font and short color",
			req:  &SetTextStyle{Font: "Inter-Bold", Opacity: ptr(-5), Color: "fff"},
			want: `return host.set_text_style({font="Inter-Bold", opacity=0, color={1, 1, 1}})`,
		},
		{
			name: "move layers",
			req:  &MoveLayers{Label: "Align Layers", Moves: []transform.Move{{Index: 3, Delta: transform.Point{X: -2.5}}}},
			want: `return host.move_layers("Align Layers", {{index=3, delta={-2.5, 0}}})`,
		},
		{
			name: "run command sorted args",
			req:  &RunCommand{Name: "layer.duplicate", Args: map[string]any{"name": `a"b`, "count": 2}},
			want: `return host.run_command("layer.duplicate", {count=2, name="a\"b"})`,
		},
		{
			name: "notify mode",
			req:  &NotifyModeChanged{Field: "useCompMode", Value: true},
			want: `return host.notify_mode("useCompMode", true)`,
		},
		{
			name: "alert",
			req:  &Alert{Message: "line1\nline2"},
			want: `return host.alert("line1\nline2")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeRejects(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"empty anchors", &SetAnchors{}, ErrEmptyRequest},
		{"NaN anchor", &SetAnchors{Updates: []transform.AnchorUpdate{{NewAnchor: transform.Point{X: math.NaN()}}}}, ErrNonFinite},
		{"Inf delta", &SetAnchors{Updates: []transform.AnchorUpdate{{PositionDelta: [3]float64{0, math.Inf(-1), 0}}}}, ErrNonFinite},
		{"empty text style", &SetTextStyle{}, ErrEmptyRequest},
		{"Inf font size", &SetTextStyle{FontSize: ptr(math.Inf(1))}, ErrNonFinite},
		{"bad color", &SetTextStyle{Color: "zzz"}, ErrInvalidColor},
		{"bad command name", &RunCommand{Name: "Layer Duplicate"}, ErrInvalidName},
		{"NaN command arg", &RunCommand{Name: "x", Args: map[string]any{"v": math.NaN()}}, ErrNonFinite},
		{"bad arg key", &RunCommand{Name: "x", Args: map[string]any{"Bad-Key": 1}}, ErrInvalidName},
		{"empty moves", &MoveLayers{}, ErrEmptyRequest},
		{"blank alert", &Alert{Message: "  "}, ErrEmptyRequest},
		{"bad mode field", &NotifyModeChanged{Field: "use comp"}, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "error should be a ValidationError: %v", err)
		})
	}
}

func TestEncodeUnsupportedArg(t *testing.T) {
	_, err := Encode(&RunCommand{Name: "x", Args: map[string]any{"v": []int{1}}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "v", verr.Field)
}

func TestApplyEaseSanitize(t *testing.T) {
	e := &ApplyEase{InSpeed: math.Inf(1), InInfluence: math.NaN(), OutSpeed: -4, OutInfluence: 50}
	e.Sanitize()
	assert.Equal(t, DefaultEaseSpeed, e.InSpeed)
	assert.Equal(t, DefaultEaseInfluence, e.InInfluence)
	assert.Equal(t, MinEaseSpeed, e.OutSpeed)
	assert.Equal(t, 50.0, e.OutInfluence)
}

func TestLuaQuote(t *testing.T) {
	assert.Equal(t, `"a\001\n\\"`, luaQuote("a\x01\n\\"))
	assert.Equal(t, `"héllo"`, luaQuote("héllo"))
}

func TestTruncate(t *testing.T) {
	s, cut := Truncate("héllo", 2)
	assert.True(t, cut)
	assert.Equal(t, "h", s, "must not split a multi-byte rune")

	s, cut = Truncate("abc", 0)
	assert.False(t, cut)
	assert.Equal(t, "abc", s)
}
