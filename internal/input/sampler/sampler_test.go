package sampler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/input/mouse"
)

func TestKeys(t *testing.T) {
	s := Keys("RShift+K", "y")
	assert.True(t, s.Focused)
	assert.True(t, s.IsDown(key.MustParse("K")))
	assert.True(t, s.IsDown(key.MustParse("Ctrl+Y")), "modifiers are ignored by IsDown")
	assert.False(t, s.IsDown(key.MustParse("D")))
	assert.True(t, s.Mods.Has(key.ModRightShift))
	assert.True(t, s.Mods.HasShift())
	assert.False(t, s.Escape())

	assert.True(t, Keys("Escape").Escape())
}

func TestScriptReplay(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := Keys("Y").WithRefresh().WithPointer(mouse.Position{X: 4, Y: 2}, mouse.ButtonLeft)
	first.Typed = []key.Chord{key.MustParse("Y")}
	s := NewScript(first)

	got := s.Sample(base)
	assert.Equal(t, base, got.Time)
	assert.True(t, got.MenuRefresh)
	require.Len(t, got.Typed, 1)
	assert.Equal(t, 0, s.Remaining())

	// Exhausted scripts keep the held state but drop one-shot fields.
	later := base.Add(time.Second)
	got = s.Sample(later)
	assert.Equal(t, later, got.Time)
	assert.True(t, got.IsDown(key.MustParse("Y")))
	assert.False(t, got.MenuRefresh)
	assert.Empty(t, got.Typed)
	assert.Equal(t, mouse.ButtonLeft, got.Buttons)
}

func TestScriptEmpty(t *testing.T) {
	s := NewScript()
	got := s.Sample(time.Time{})
	assert.True(t, got.Focused)
	assert.Empty(t, got.Down)

	s.Push(Keys("D").Unfocused())
	assert.Equal(t, 1, s.Remaining())
	assert.False(t, s.Sample(time.Time{}).Focused)
}

func TestFunc(t *testing.T) {
	var f Sampler = Func(func(now time.Time) Sample { return Sample{Time: now, Focused: true} })
	now := time.Unix(10, 0)
	assert.Equal(t, now, f.Sample(now).Time)
}
