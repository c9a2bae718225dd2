package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/input/mouse"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestKeyHeldUntilReleaseWindow(t *testing.T) {
	in := newInput(500 * time.Millisecond)
	in.events <- tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone)

	s := in.Sample(t0)
	assert.True(t, s.IsDown(key.MustParse("Y")))
	assert.True(t, s.MenuRefresh)
	assert.Equal(t, []key.Chord{key.RuneChord('y', key.ModNone)}, s.Typed)

	s = in.Sample(t0.Add(300 * time.Millisecond))
	assert.True(t, s.IsDown(key.MustParse("Y")), "still inside the release window")
	assert.Empty(t, s.Typed)
	assert.False(t, s.MenuRefresh)

	in.events <- tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone)
	s = in.Sample(t0.Add(600 * time.Millisecond))
	assert.True(t, s.IsDown(key.MustParse("Y")), "key repeat keeps the key held")

	s = in.Sample(t0.Add(1100 * time.Millisecond))
	assert.False(t, s.IsDown(key.MustParse("Y")))
	assert.Empty(t, s.Down)
}

func TestChordMapping(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want key.Chord
		ok   bool
	}{
		{"lower", tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone), key.RuneChord('e', key.ModNone), true},
		{"upper implies shift", tcell.NewEventKey(tcell.KeyRune, 'E', tcell.ModNone), key.MustParse("Shift+E"), true},
		{"alt", tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModAlt), key.MustParse("Alt+K"), true},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), key.SpecialChord(key.KeySpace, key.ModNone), true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), key.SpecialChord(key.KeyEscape, key.ModNone), true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), key.SpecialChord(key.KeyEnter, key.ModNone), true},
		{"unmapped", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), key.Chord{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := chordOf(tt.ev)
			assert.Equal(t, tt.ok, ok)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("chord mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPointerAndActivation(t *testing.T) {
	in := newInput(0)
	in.events <- tcell.NewEventMouse(10, 4, tcell.ButtonNone, tcell.ModNone)
	s := in.Sample(t0)
	assert.Equal(t, mouse.Position{X: 10, Y: 4}, s.Pointer)
	assert.False(t, s.Activated)

	in.events <- tcell.NewEventMouse(11, 4, tcell.Button1, tcell.ModNone)
	s = in.Sample(t0)
	assert.Equal(t, mouse.ButtonLeft, s.Buttons)
	assert.True(t, s.Activated, "a fresh click is acknowledged by the host")

	in.events <- tcell.NewEventMouse(12, 4, tcell.Button1, tcell.ModNone)
	s = in.Sample(t0)
	assert.False(t, s.Activated, "dragging is not a new click")
	assert.Equal(t, mouse.ButtonLeft, s.Buttons)
}

func TestFocusAndResize(t *testing.T) {
	in := newInput(0)
	var size [2]int
	in.OnResize(func(w, h int) { size = [2]int{w, h} })

	in.events <- tcell.NewEventFocus(false)
	in.events <- tcell.NewEventResize(100, 40)
	s := in.Sample(t0)
	assert.False(t, s.Focused)
	assert.Equal(t, [2]int{100, 40}, size)

	in.events <- tcell.NewEventFocus(true)
	s = in.Sample(t0)
	assert.True(t, s.Focused)
	assert.True(t, s.Activated)
}

func TestCtrlCQuits(t *testing.T) {
	in := newInput(0)
	in.events <- tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	in.events <- tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	s := in.Sample(t0)
	assert.Empty(t, s.Typed)

	select {
	case <-in.Quit():
	default:
		require.Fail(t, "quit channel not closed")
	}
}
