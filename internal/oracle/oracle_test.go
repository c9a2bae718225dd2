package oracle

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/snapkey/internal/clock"
)

func TestFailsClosed(t *testing.T) {
	o := New(DefaultConfig(), clock.NewManual(time.Time{}))
	assert.False(t, o.IsInputAllowed())
}

func TestTightWindow(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	o := New(DefaultConfig(), clk)

	o.NotifyMenuRefresh()
	assert.True(t, o.IsInputAllowed())

	clk.Advance(49 * time.Millisecond)
	assert.True(t, o.IsInputAllowed())

	clk.Advance(time.Millisecond)
	assert.False(t, o.IsInputAllowed(), "refresh exactly Tight old is stale")
}

func TestGraceWindow(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	o := New(DefaultConfig(), clk)

	o.NotifyPanelActivated()
	clk.Advance(999 * time.Millisecond)
	assert.True(t, o.IsInputAllowed())

	clk.Advance(time.Millisecond)
	assert.False(t, o.IsInputAllowed(), "activation exactly Grace old is stale")

	// Either signal alone is enough.
	o.NotifyMenuRefresh()
	assert.True(t, o.IsInputAllowed())
}

func TestStaleTimestampsNeverAllow(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		clk := clock.NewManual(time.Time{})
		o := New(cfg, clk)

		refreshAge := cfg.Tight + time.Duration(rng.Int63n(int64(5*time.Second)))
		activationAge := cfg.Grace + time.Duration(rng.Int63n(int64(5*time.Second)))

		// Stamp the older signal first, then advance to "now".
		if refreshAge > activationAge {
			o.NotifyMenuRefresh()
			clk.Advance(refreshAge - activationAge)
			o.NotifyPanelActivated()
			clk.Advance(activationAge)
		} else {
			o.NotifyPanelActivated()
			clk.Advance(activationAge - refreshAge)
			o.NotifyMenuRefresh()
			clk.Advance(refreshAge)
		}

		if o.IsInputAllowed() {
			t.Fatalf("allowed with refresh age %v and activation age %v", refreshAge, activationAge)
		}
	}
}

func TestCustomWindows(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	o := New(Config{Tight: 10 * time.Millisecond, Grace: 20 * time.Millisecond}, clk)
	o.NotifyMenuRefresh()
	clk.Advance(15 * time.Millisecond)
	assert.False(t, o.IsInputAllowed())
	assert.Equal(t, 10*time.Millisecond, o.Config().Tight)
}
