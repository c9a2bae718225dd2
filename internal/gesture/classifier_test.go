package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/snapkey/internal/clock"
	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/input/sampler"
	"github.com/dshills/snapkey/internal/input/trigger"
	"github.com/dshills/snapkey/internal/panel"
)

// Binding indices in trigger.Default.
const (
	holdY   = 0
	menuD   = 1
	comboE  = 2
	rshiftK = 3
)

type fakeView map[panel.ID]bool

func (v fakeView) IsVisible(id panel.ID) bool { return v[id] }

func (v fakeView) PrimaryVisible() (panel.ID, bool) {
	for _, id := range panel.All {
		if id.IsPrimary() && v[id] {
			return id, true
		}
	}
	return 0, false
}

// pinnedView adds sticky-mode pins to a fakeView.
type pinnedView struct {
	fakeView
	pinned map[panel.ID]bool
}

func (v pinnedView) IsPinned(id panel.ID) bool { return v.fakeView[id] && v.pinned[id] }

type rig struct {
	c       *Classifier
	clk     *clock.Manual
	view    fakeView
	pinned  map[panel.ID]bool
	allowed bool
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		c:       New(DefaultConfig(), trigger.Default()),
		clk:     clock.NewManual(time.Time{}),
		view:    fakeView{},
		allowed: true,
	}
	require.Empty(t, r.step(sampler.Keys()))
	return r
}

func (r *rig) step(s sampler.Sample) []Event {
	s.Time = r.clk.Now()
	return r.c.Update(s, r.allowed, pinnedView{r.view, r.pinned})
}

func (r *rig) after(d time.Duration, s sampler.Sample) []Event {
	r.clk.Advance(d)
	return r.step(s)
}

func kinds(events []Event) []Kind {
	out := make([]Kind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestHoldLifecycle(t *testing.T) {
	r := newRig(t)

	evs := r.after(33*time.Millisecond, sampler.Keys("Y"))
	require.Equal(t, []Kind{Press}, kinds(evs))
	assert.Equal(t, panel.Grid, evs[0].Binding.Target)
	assert.True(t, r.c.State(holdY).WaitingForHold)

	assert.Empty(t, r.after(399*time.Millisecond, sampler.Keys("Y")))

	evs = r.after(time.Millisecond, sampler.Keys("Y"))
	require.Equal(t, []Kind{HoldReached}, kinds(evs))
	assert.False(t, r.c.State(holdY).WaitingForHold)
	r.view[panel.Grid] = true

	assert.Empty(t, r.after(time.Second, sampler.Keys("Y")), "HoldReached fires once")

	evs = r.after(33*time.Millisecond, sampler.Keys())
	require.Equal(t, []Kind{Release}, kinds(evs))
	assert.Equal(t, holdY, evs[0].Index)
}

func TestReleaseBeforeHoldNeverReachesHold(t *testing.T) {
	for d := time.Duration(0); d < DefaultHold; d += 7 * time.Millisecond {
		r := newRig(t)
		var got []Kind
		got = append(got, kinds(r.after(33*time.Millisecond, sampler.Keys("Y")))...)
		for elapsed := time.Duration(0); elapsed+5*time.Millisecond <= d; elapsed += 5 * time.Millisecond {
			got = append(got, kinds(r.after(5*time.Millisecond, sampler.Keys("Y")))...)
		}
		got = append(got, kinds(r.after(time.Millisecond, sampler.Keys()))...)
		// Keep polling well past the threshold with the key up.
		got = append(got, kinds(r.after(time.Second, sampler.Keys()))...)

		assert.NotContains(t, got, HoldReached, "held for %v", d)
		assert.NotContains(t, got, Release, "held for %v", d)
	}
}

func TestHoldWaitsForCompetingPrimary(t *testing.T) {
	r := newRig(t)
	r.view[panel.Align] = true

	r.after(33*time.Millisecond, sampler.Keys("Y"))
	assert.Empty(t, r.after(500*time.Millisecond, sampler.Keys("Y")))

	r.view[panel.Align] = false
	evs := r.after(33*time.Millisecond, sampler.Keys("Y"))
	assert.Equal(t, []Kind{HoldReached}, kinds(evs))
}

func TestDoubleTapTogglesStickyOncePerPair(t *testing.T) {
	r := newRig(t)
	var all []Event
	tap := func() {
		all = append(all, r.after(40*time.Millisecond, sampler.Keys("Y"))...)
		all = append(all, r.after(60*time.Millisecond, sampler.Keys())...)
	}

	tap()
	tap()
	require.Equal(t, []Kind{Press, Press, DoubleTap}, kinds(all))
	assert.True(t, all[2].Sticky)
	assert.True(t, r.c.State(holdY).Sticky)
	r.view[panel.Grid] = true

	// Third press starts a new pair rather than pairing with the second.
	tap()
	assert.True(t, r.c.State(holdY).Sticky)
	tap()

	var taps []Event
	for _, e := range all {
		if e.Kind == DoubleTap {
			taps = append(taps, e)
		}
	}
	require.Len(t, taps, 2)
	assert.False(t, taps[1].Sticky)
	assert.False(t, r.c.State(holdY).Sticky)
	assert.NotContains(t, kinds(all), Release)
}

func TestSlowTapsAreNotDoubleTaps(t *testing.T) {
	r := newRig(t)
	r.after(33*time.Millisecond, sampler.Keys("Y"))
	r.after(50*time.Millisecond, sampler.Keys())
	evs := r.after(DefaultDoubleTap, sampler.Keys("Y"))
	assert.Equal(t, []Kind{Press}, kinds(evs))
	assert.True(t, r.c.State(holdY).WaitingForHold)
}

func TestStickyPointerCommit(t *testing.T) {
	r := newRig(t)
	r.after(33*time.Millisecond, sampler.Keys("Y"))
	r.after(50*time.Millisecond, sampler.Keys())
	evs := r.after(50*time.Millisecond, sampler.Keys("Y"))
	require.Equal(t, []Kind{Press, DoubleTap}, kinds(evs))
	r.view[panel.Grid] = true

	assert.Empty(t, r.after(50*time.Millisecond, sampler.Keys()), "sticky release keeps the panel")
	assert.Empty(t, r.after(2*time.Second, sampler.Keys()))

	click := sampler.Keys().WithPointer(mouse.Position{X: 3, Y: 3}, mouse.ButtonLeft)
	evs = r.after(33*time.Millisecond, click)
	require.Equal(t, []Kind{Release}, kinds(evs))
	assert.False(t, r.c.State(holdY).Sticky)

	assert.Empty(t, r.after(33*time.Millisecond, click), "holding the button is not a new click")
}

func TestStickyRestoredWhilePanelStaysPinned(t *testing.T) {
	r := newRig(t)
	r.after(33*time.Millisecond, sampler.Keys("Y"))
	r.after(50*time.Millisecond, sampler.Keys())
	r.after(50*time.Millisecond, sampler.Keys("Y"))
	r.view[panel.Grid] = true
	r.pinned = map[panel.ID]bool{panel.Grid: true}
	r.after(50*time.Millisecond, sampler.Keys())

	// The panel keeps the click for itself and stays pinned.
	click := sampler.Keys().WithPointer(mouse.Position{X: 3, Y: 3}, mouse.ButtonLeft)
	require.Equal(t, []Kind{Release}, kinds(r.after(33*time.Millisecond, click)))
	assert.False(t, r.c.State(holdY).Sticky)

	up := sampler.Keys().WithPointer(mouse.Position{X: 3, Y: 3}, mouse.ButtonNone)
	assert.Empty(t, r.after(33*time.Millisecond, up))
	assert.True(t, r.c.State(holdY).Sticky)

	// The next click commits as usual.
	require.Equal(t, []Kind{Release}, kinds(r.after(33*time.Millisecond, click)))
}

func TestStickyClearsWhenPanelCloses(t *testing.T) {
	r := newRig(t)
	r.after(33*time.Millisecond, sampler.Keys("Y"))
	r.after(50*time.Millisecond, sampler.Keys())
	r.after(50*time.Millisecond, sampler.Keys("Y"))
	require.True(t, r.c.State(holdY).Sticky)

	// The panel was never shown (or was closed elsewhere).
	r.after(33*time.Millisecond, sampler.Keys("Y"))
	assert.False(t, r.c.State(holdY).Sticky)
}

func TestDisallowedPressIsSwallowed(t *testing.T) {
	r := newRig(t)
	r.allowed = false
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys("Y")))
	assert.True(t, r.c.State(holdY).Swallowed)

	r.allowed = true
	assert.Empty(t, r.after(time.Second, sampler.Keys("Y")))
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys()))
	assert.True(t, r.c.State(holdY).LastRelease.IsZero())

	evs := r.after(50*time.Millisecond, sampler.Keys("Y"))
	assert.Equal(t, []Kind{Press}, kinds(evs), "a swallowed tap does not pair into a double tap")
}

func TestStuckKeyOnFirstSample(t *testing.T) {
	r := &rig{
		c:       New(DefaultConfig(), trigger.Default()),
		clk:     clock.NewManual(time.Time{}),
		view:    fakeView{},
		allowed: true,
	}
	assert.Empty(t, r.step(sampler.Keys("Y")))
	assert.Empty(t, r.after(time.Second, sampler.Keys("Y")))
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys()))
	assert.Equal(t, []Kind{Press}, kinds(r.after(time.Second, sampler.Keys("Y"))))
}

func TestFocusLoss(t *testing.T) {
	r := newRig(t)
	r.after(33*time.Millisecond, sampler.Keys("Y"))

	evs := r.after(33*time.Millisecond, sampler.Keys("Y").Unfocused())
	require.Equal(t, []Kind{Cancel}, kinds(evs))
	assert.Equal(t, FocusLost, evs[0].Reason)

	// Focus comes back with the key still down: no replay.
	assert.Empty(t, r.after(time.Second, sampler.Keys("Y")))
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys()))

	// Keys pressed while unfocused are swallowed too.
	assert.Equal(t, []Kind{Cancel}, kinds(r.after(33*time.Millisecond, sampler.Keys().Unfocused())))
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys("D").Unfocused()))
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys("D")))
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys()))
	assert.Equal(t, []Kind{Press}, kinds(r.after(33*time.Millisecond, sampler.Keys("D"))))
}

func TestEscapeCancels(t *testing.T) {
	r := newRig(t)
	r.after(33*time.Millisecond, sampler.Keys("Y"))

	evs := r.after(33*time.Millisecond, sampler.Keys("Y", "Escape"))
	require.Equal(t, []Kind{Cancel}, kinds(evs))
	assert.Equal(t, EscapePressed, evs[0].Reason)
	assert.Equal(t, "cancel(escape)", evs[0].String())

	assert.Empty(t, r.after(time.Second, sampler.Keys("Y", "Escape")), "escape is edge triggered")
}

func TestPressBindings(t *testing.T) {
	tests := []struct {
		name   string
		sample sampler.Sample
		index  int
		target panel.ID
	}{
		{"menu", sampler.Keys("D"), menuD, panel.Menu},
		{"shift combo", sampler.Keys("Shift+E"), comboE, panel.Control},
		{"right shift combo", sampler.Keys("RShift+K"), rshiftK, panel.Keyframe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			evs := r.after(33*time.Millisecond, tt.sample)
			require.Equal(t, []Kind{Press}, kinds(evs))
			assert.Equal(t, tt.index, evs[0].Index)
			assert.Equal(t, tt.target, evs[0].Binding.Target)

			assert.Empty(t, r.after(time.Second, tt.sample))
			assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys()))
		})
	}
}

func TestModifierExclusivity(t *testing.T) {
	r := newRig(t)
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys("E")), "E without Shift")
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys()))
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys("Shift+K")), "K needs right shift")
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys()))
	assert.Empty(t, r.after(33*time.Millisecond, sampler.Keys("Ctrl+Y")), "foreign modifier blocks the hold key")
}

func TestEventOrderingPerCycle(t *testing.T) {
	r := newRig(t)
	r.view[panel.Grid] = false
	var got []Kind
	got = append(got, kinds(r.after(33*time.Millisecond, sampler.Keys("Y")))...)
	for i := 0; i < 20; i++ {
		got = append(got, kinds(r.after(33*time.Millisecond, sampler.Keys("Y")))...)
		if len(got) == 2 {
			r.view[panel.Grid] = true
		}
	}
	got = append(got, kinds(r.after(33*time.Millisecond, sampler.Keys()))...)
	assert.Equal(t, []Kind{Press, HoldReached, Release}, got)
}
