package panel

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/script"
	"github.com/dshills/snapkey/internal/transform"
)

func TestParseID(t *testing.T) {
	for _, id := range All {
		got, err := ParseID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
	got, err := ParseID(" Keyframe ")
	require.NoError(t, err)
	assert.Equal(t, Keyframe, got)

	_, err = ParseID("palette")
	assert.Error(t, err)
}

func TestIsPrimary(t *testing.T) {
	for _, id := range All {
		assert.Equal(t, id != Menu, id.IsPrimary(), id.String())
	}
	assert.False(t, ID(42).IsPrimary())
}

func TestBaseResultOnce(t *testing.T) {
	var b Base
	assert.True(t, b.Result().Cancelled, "no pending result reads as cancelled")

	b.Open(mouse.Position{X: 4, Y: 5})
	assert.True(t, b.IsVisible())
	assert.Equal(t, mouse.Position{X: 4, Y: 5}, b.Origin())

	b.Finish(Applied(MenuPayload{Target: Align}))
	assert.False(t, b.IsVisible())

	r := b.Result()
	assert.True(t, r.Applied)
	assert.Equal(t, MenuPayload{Target: Align}, r.Payload)
	assert.True(t, b.Result().Cancelled, "result is consumed exactly once")
}

func TestBaseCloseHidden(t *testing.T) {
	var b Base
	r := b.Close(Applied(MenuPayload{Target: Grid}))
	assert.True(t, r.Cancelled)

	b.Open(mouse.Position{})
	r = b.Close(Applied(MenuPayload{Target: Text}))
	assert.True(t, r.Applied)
	assert.False(t, b.IsVisible())
}

func TestPayloadValidate(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		payload Payload
		valid   bool
	}{
		{"grid cell", GridPayload{Action: GridCell, Selection: transform.CellSelection(2, 2, 3, 3)}, true},
		{"grid cell out of range", GridPayload{Action: GridCell, Selection: transform.CellSelection(3, 0, 3, 3)}, false},
		{"grid cell with ratio", GridPayload{Action: GridCell, Selection: transform.RatioSelection(0, 0)}, false},
		{"grid custom slot", GridPayload{Action: GridCustom, Slot: 3}, true},
		{"grid custom bad slot", GridPayload{Action: GridCustom, Slot: 4}, false},
		{"grid unknown", GridPayload{Action: GridAction(99)}, false},
		{"menu primary", MenuPayload{Target: Keyframe}, true},
		{"menu self", MenuPayload{Target: Menu}, false},
		{"align", AlignPayload{Direction: transform.AlignBottom}, true},
		{"align bad", AlignPayload{Direction: transform.AlignDirection(9)}, false},
		{"distribute", AlignPayload{Distribute: true, Axis: transform.Vertical}, true},
		{"text", TextPayload{Style: script.SetTextStyle{Font: "Inter"}}, true},
		{"text empty", TextPayload{}, false},
		{"text NaN", TextPayload{Style: script.SetTextStyle{FontSize: &nan}}, false},
		{"keyframe NaN sanitized", KeyframePayload{Ease: script.ApplyEase{InSpeed: nan}}, true},
		{"effect", ControlPayload{Action: ApplyEffect, MatchName: "ADBE Glow"}, true},
		{"effect empty", ControlPayload{Action: ApplyEffect}, false},
		{"preset slot", ControlPayload{Action: SavePreset, Slot: 1}, true},
		{"preset bad slot", ControlPayload{Action: ApplyPreset, Slot: 0}, false},
		{"layer", LayerPayload{Command: "duplicate"}, true},
		{"layer bad", LayerPayload{Command: "Dup licate"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrMalformedPayload), "got %v", err)
			}
		})
	}
}

func TestHostPayloadRequests(t *testing.T) {
	save := ControlPayload{Action: SavePreset, Slot: 2}.Request()
	cmd, ok := save.(*script.RunCommand)
	require.True(t, ok)
	assert.Equal(t, "preset.save", cmd.Name)
	assert.True(t, cmd.Destructive())

	text, err := script.Encode(LayerPayload{Command: "trim"}.Request())
	require.NoError(t, err)
	assert.Equal(t, `return host.run_command("layer.trim", {})`, text)

	p := KeyframePayload{Ease: script.ApplyEase{InSpeed: math.Inf(1), InInfluence: 50, OutSpeed: 2, OutInfluence: 50}}
	ease := p.Request().(*script.ApplyEase)
	assert.Equal(t, script.DefaultEaseSpeed, ease.InSpeed)
	assert.True(t, math.IsInf(p.Ease.InSpeed, 1), "Request must not mutate the payload")
}
