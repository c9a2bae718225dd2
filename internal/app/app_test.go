package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/snapkey/internal/clock"
	"github.com/dshills/snapkey/internal/config"
	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/input/sampler"
	"github.com/dshills/snapkey/internal/orchestrator"
	"github.com/dshills/snapkey/internal/panel"
	"github.com/dshills/snapkey/internal/panel/grid"
	"github.com/dshills/snapkey/internal/script"
	"github.com/dshills/snapkey/internal/script/lua"
	"github.com/dshills/snapkey/internal/settings"
	"github.com/dshills/snapkey/internal/transform"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sceneDoc = `{
	"frame": {"width": 1920, "height": 1080},
	"layers": [
		{"index": 1, "name": "Logo", "position": [300, 200], "anchor": [60, 60], "scale": [100, 100],
		 "bounds": {"left": 10, "top": 10, "width": 100, "height": 100}}
	]
}`

var origin = mouse.Position{X: 500, Y: 500}

type harness struct {
	app    *Application
	host   *lua.Host
	script *sampler.Script
	clock  *clock.Manual
	frames int
}

func newHarness(t *testing.T, watch bool) *harness {
	t.Helper()
	scene, err := lua.LoadScene([]byte(sceneDoc))
	require.NoError(t, err)
	host, err := lua.NewHost(scene)
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Close() })

	cfg := config.Default()
	cfg.Settings.Path = filepath.Join(t.TempDir(), "settings.json")
	cfg.Settings.Watch = watch
	cfg.Timing.Tick = config.Duration(time.Millisecond)

	h := &harness{
		host:   host,
		script: sampler.NewScript(),
		clock:  clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	h.app, err = New(Options{
		Config:  cfg,
		Sampler: h.script,
		Bridge:  host,
		Clock:   h.clock,
		Renderer: RendererFunc(func(*orchestrator.State, settings.Settings) {
			h.frames++
		}),
	})
	require.NoError(t, err)
	t.Cleanup(h.app.Close)
	return h
}

// step replays one frame 100ms after the previous one.
func (h *harness) step(frame sampler.Sample) {
	h.script.Push(frame)
	h.clock.Advance(100 * time.Millisecond)
	h.app.Step(context.Background())
}

func TestNewRequiresSamplerAndBridge(t *testing.T) {
	_, err := New(Options{Bridge: script.BridgeFunc(func(context.Context, string) (string, error) { return "", nil })})
	var ierr *InitError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "sampler", ierr.Component)

	_, err = New(Options{Sampler: sampler.NewScript()})
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "bridge", ierr.Component)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Timing.Hold = 0
	_, err := New(Options{
		Config:  cfg,
		Sampler: sampler.NewScript(),
		Bridge:  script.BridgeFunc(func(context.Context, string) (string, error) { return "", nil }),
	})
	var ierr *InitError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "config", ierr.Component)
}

func TestHoldGestureAppliesAnchor(t *testing.T) {
	h := newHarness(t, false)
	held := sampler.Keys("Y").WithPointer(origin, mouse.ButtonNone)

	h.step(sampler.Keys().WithPointer(origin, mouse.ButtonNone))
	h.step(held.WithRefresh())
	for range 3 {
		h.step(held)
	}
	assert.False(t, h.app.State().IsVisible(panel.Grid), "grid opens only after the hold threshold")

	h.step(held)
	require.True(t, h.app.State().IsVisible(panel.Grid))

	g := h.app.State().Get(panel.Grid).Panel.(*grid.Panel)
	corner := g.Layout().Cell(2, 2).Center()
	h.step(held.WithPointer(corner, mouse.ButtonNone))
	h.step(sampler.Keys().WithPointer(corner, mouse.ButtonNone))
	assert.False(t, h.app.State().IsVisible(panel.Grid))

	logo := h.host.Scene().Layer(1)
	assert.Equal(t, transform.Point{X: 110, Y: 110}, logo.Anchor)
	assert.Equal(t, [3]float64{350, 250, 0}, logo.Position)
	assert.Equal(t, []string{"Set Anchor"}, h.host.Scene().UndoGroups)

	snap := h.app.Metrics().Snapshot()
	assert.Equal(t, uint64(8), snap.Ticks)
	assert.Equal(t, 8, h.frames)
	assert.GreaterOrEqual(t, snap.Events, uint64(3))
}

func TestStickyGridSurvivesToggleClick(t *testing.T) {
	h := newHarness(t, false)
	frame := func(at mouse.Position, b mouse.Button, keys ...string) sampler.Sample {
		return sampler.Keys(keys...).WithPointer(at, b)
	}

	h.step(frame(origin, mouse.ButtonNone))
	h.step(frame(origin, mouse.ButtonNone, "Y").WithRefresh())
	h.step(frame(origin, mouse.ButtonNone))
	h.step(frame(origin, mouse.ButtonNone, "Y").WithRefresh())
	h.step(frame(origin, mouse.ButtonNone))
	require.True(t, h.app.State().IsPinned(panel.Grid), "double tap opens the grid pinned")

	g := h.app.State().Get(panel.Grid).Panel.(*grid.Panel)
	var toggle mouse.Position
	for _, b := range g.Layout().Options {
		if b.Option == grid.OptionCompMode {
			toggle = b.Rect.Center()
		}
	}
	h.step(frame(toggle, mouse.ButtonNone))
	h.step(frame(toggle, mouse.ButtonLeft))
	h.step(frame(toggle, mouse.ButtonNone))

	assert.True(t, h.app.State().IsVisible(panel.Grid))
	assert.True(t, h.app.State().IsPinned(panel.Grid))
	assert.True(t, h.app.Store().Current().UseCompMode)

	// Switch back to selection mode, then commit a cell with a click.
	h.step(frame(toggle, mouse.ButtonLeft))
	h.step(frame(toggle, mouse.ButtonNone))
	require.True(t, h.app.State().IsPinned(panel.Grid))
	assert.False(t, h.app.Store().Current().UseCompMode)

	corner := g.Layout().Cell(2, 2).Center()
	h.step(frame(corner, mouse.ButtonNone))
	h.step(frame(corner, mouse.ButtonLeft))
	assert.False(t, h.app.State().IsVisible(panel.Grid))
	assert.Equal(t, transform.Point{X: 110, Y: 110}, h.host.Scene().Layer(1).Anchor)
}

func TestInputRefusedWithoutHostSignal(t *testing.T) {
	h := newHarness(t, false)
	held := sampler.Keys("Y").WithPointer(origin, mouse.ButtonNone)

	h.step(sampler.Keys())
	for range 8 {
		h.step(held)
	}
	assert.Empty(t, h.app.State().Visible())
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.app.Run(ctx) }()

	require.Eventually(t, func() bool {
		return h.app.Metrics().Snapshot().Ticks > 2
	}, time.Second, time.Millisecond)
	assert.ErrorIs(t, h.app.Run(ctx), ErrAlreadyRunning)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.False(t, h.app.IsRunning())
}

func TestRunReloadsSettingsOnTick(t *testing.T) {
	h := newHarness(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.app.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// A peer writes the file; rewrite until the watcher is up.
	path := h.app.Store().Path()
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(`{"gridWidth": 5}`), 0o644)
		return h.app.Store().Current().GridWidth == 5
	}, 3*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, h.app.Metrics().Snapshot().Reloads, uint64(1))
}

func TestRunStopsOnQuit(t *testing.T) {
	quit := make(chan struct{})
	a, err := New(Options{
		Config:  quietConfig(t),
		Sampler: sampler.NewScript(),
		Bridge:  script.BridgeFunc(func(context.Context, string) (string, error) { return "", errors.New("offline") }),
		Quit:    quit,
	})
	require.NoError(t, err)
	defer a.Close()

	close(quit)
	require.NoError(t, a.Run(context.Background()))
}

func quietConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Settings.Path = filepath.Join(t.TempDir(), "settings.json")
	cfg.Settings.Watch = false
	return cfg
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordTick(2*time.Millisecond, 10*time.Millisecond)
	m.RecordTick(20*time.Millisecond, 10*time.Millisecond)
	m.RecordEvents(3)
	m.RecordReload()

	s := m.Snapshot()
	assert.Equal(t, uint64(2), s.Ticks)
	assert.Equal(t, (2 * time.Millisecond).Nanoseconds(), s.MinTickNs)
	assert.Equal(t, (20 * time.Millisecond).Nanoseconds(), s.MaxTickNs)
	assert.Equal(t, (11 * time.Millisecond).Nanoseconds(), s.AvgTickNs)
	assert.Equal(t, uint64(1), s.Overruns)
	assert.InDelta(t, 50.0, s.OverrunRate(), 1e-9)
	assert.Equal(t, uint64(3), s.Events)
	assert.Equal(t, uint64(1), s.Reloads)

	assert.Zero(t, MetricsSnapshot{}.OverrunRate())
	assert.Zero(t, NewMetrics().Snapshot().MinTickNs)
}
