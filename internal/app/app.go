// Package app wires the input sampler, the editability oracle, the gesture
// classifier and the panel orchestrator into one fixed-rate scheduler, and
// keeps the shared settings in sync with the file on disk.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/snapkey/internal/clock"
	"github.com/dshills/snapkey/internal/config"
	"github.com/dshills/snapkey/internal/gesture"
	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/input/sampler"
	"github.com/dshills/snapkey/internal/oracle"
	"github.com/dshills/snapkey/internal/orchestrator"
	"github.com/dshills/snapkey/internal/panel"
	"github.com/dshills/snapkey/internal/script"
	"github.com/dshills/snapkey/internal/settings"
)

// Renderer draws the visible panels after every tick.
type Renderer interface {
	Render(state *orchestrator.State, cur settings.Settings)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(state *orchestrator.State, cur settings.Settings)

// Render calls f.
func (f RendererFunc) Render(state *orchestrator.State, cur settings.Settings) {
	f(state, cur)
}

// Options configures the application.
type Options struct {
	// Config is the static configuration. Nil means config.Default().
	Config *config.Config

	// Logger receives all component logs. Nil disables logging.
	Logger *zap.Logger

	// Sampler produces the input state each tick. Required.
	Sampler sampler.Sampler

	// Bridge executes host scripts. Required.
	Bridge script.Bridge

	// Clock is the time source. Nil means the wall clock.
	Clock clock.Clock

	// Renderer draws panels. Nil draws nothing.
	Renderer Renderer

	// Quit, when closed, stops Run.
	Quit <-chan struct{}

	// Panels are extra orchestrator options, such as the screen bounds.
	Panels []orchestrator.Option
}

// Application is the scheduler. Step and the loop started by Run are the
// only callers of the orchestrator, so it is owned by a single goroutine.
type Application struct {
	cfg      *config.Config
	logger   *zap.Logger
	clock    clock.Clock
	sampler  sampler.Sampler
	renderer Renderer
	quit     <-chan struct{}

	oracle     *oracle.Oracle
	classifier *gesture.Classifier
	edges      mouse.EdgeTracker
	client     *script.Client
	store      *settings.Store
	state      *orchestrator.State

	metrics *Metrics
	reload  chan struct{}
	running atomic.Bool
}

// New builds every component in dependency order.
func New(opts Options) (*Application, error) {
	if opts.Sampler == nil {
		return nil, &InitError{Component: "sampler", Err: errors.New("no sampler")}
	}
	if opts.Bridge == nil {
		return nil, &InitError{Component: "bridge", Err: errors.New("no script bridge")}
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session", uuid.NewString()))

	a := &Application{
		cfg:      cfg,
		logger:   logger,
		clock:    opts.Clock,
		sampler:  opts.Sampler,
		renderer: opts.Renderer,
		quit:     opts.Quit,
		metrics:  NewMetrics(),
		reload:   make(chan struct{}, 1),
	}
	if a.clock == nil {
		a.clock = clock.Real{}
	}
	if a.renderer == nil {
		a.renderer = RendererFunc(func(*orchestrator.State, settings.Settings) {})
	}

	// 1. Editability oracle and gesture classifier
	a.oracle = oracle.New(cfg.OracleConfig(), a.clock)
	table, err := cfg.TriggerTable()
	if err != nil {
		return nil, &InitError{Component: "triggers", Err: err}
	}
	a.classifier = gesture.New(cfg.GestureConfig(), table)

	// 2. Script bridge client
	a.client = script.NewClient(opts.Bridge,
		script.WithMaxResult(cfg.Bridge.MaxResult),
		script.WithLogger(logger.Named("script")),
	)

	// 3. Shared settings
	a.store = settings.NewStore(cfg.Settings.Path, settings.WithLogger(logger.Named("settings")))
	if _, err := a.store.Load(); err != nil {
		logger.Warn("using default settings", zap.Error(err))
	}

	// 4. Panel orchestrator
	entries, err := cfg.MenuEntries()
	if err != nil {
		return nil, &InitError{Component: "menu", Err: err}
	}
	panelOpts := []orchestrator.Option{
		orchestrator.WithLogger(logger.Named("orchestrator")),
		orchestrator.WithOracle(a.oracle),
		orchestrator.WithMenuEntries(entries),
		orchestrator.WithChangeFunc(func(id panel.ID, visible bool) {
			logger.Debug("panel", zap.Stringer("id", id), zap.Bool("visible", visible))
		}),
	}
	panelOpts = append(panelOpts, opts.Panels...)
	a.state, err = orchestrator.New(a.client, a.store, panelOpts...)
	if err != nil {
		return nil, &InitError{Component: "orchestrator", Err: err}
	}

	return a, nil
}

// State returns the orchestrator.
func (a *Application) State() *orchestrator.State {
	return a.state
}

// Store returns the settings store.
func (a *Application) Store() *settings.Store {
	return a.store
}

// Metrics returns the tick metrics.
func (a *Application) Metrics() *Metrics {
	return a.metrics
}

// IsRunning reports whether Run is active.
func (a *Application) IsRunning() bool {
	return a.running.Load()
}

// Close shuts down the panels. It must not be called while Run is active.
func (a *Application) Close() {
	a.state.Shutdown()
}

// Step runs one pass of the pipeline: sample, oracle, classify, dispatch,
// deliver pointer and keys, render.
func (a *Application) Step(ctx context.Context) {
	start := time.Now()

	select {
	case <-a.reload:
		a.reloadSettings()
	default:
	}

	s := a.sampler.Sample(a.clock.Now())
	if s.MenuRefresh {
		a.oracle.NotifyMenuRefresh()
	}
	if s.Activated {
		a.oracle.NotifyPanelActivated()
	}
	allowed := a.oracle.IsInputAllowed()

	events := a.classifier.Update(s, allowed, a.state)
	for _, ev := range events {
		a.logger.Debug("gesture", zap.Stringer("event", ev), zap.Bool("allowed", allowed))
		a.state.Dispatch(ctx, ev, s.Pointer)
	}

	a.state.Tick(ctx, orchestrator.Input{
		Pointer: s.Pointer,
		Pressed: a.edges.Update(s.Buttons),
		Typed:   s.Typed,
	})
	a.renderer.Render(a.state, a.store.Current())

	a.metrics.RecordEvents(len(events))
	a.metrics.RecordTick(time.Since(start), a.cfg.Timing.Tick.D())
}

// Run drives Step at the configured tick rate until ctx is done or Quit is
// closed. When enabled, the settings file is watched and reloaded
// alongside.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	g, ctx := errgroup.WithContext(ctx)
	if w := a.watcher(); w != nil {
		g.Go(func() error { return w.Run(ctx) })
		g.Go(func() error {
			a.forward(ctx, w.Changes())
			return nil
		})
	}
	g.Go(func() error { return a.loop(ctx) })

	err := g.Wait()
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

func (a *Application) loop(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.Timing.Tick.D())
	defer ticker.Stop()

	a.logger.Info("scheduler started", zap.Duration("tick", a.cfg.Timing.Tick.D()))
	defer func() {
		snap := a.metrics.Snapshot()
		a.logger.Info("scheduler stopped",
			zap.Uint64("ticks", snap.Ticks),
			zap.Duration("avg_tick", time.Duration(snap.AvgTickNs)),
			zap.Float64("overrun_pct", snap.OverrunRate()))
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.quit:
			return ErrQuit
		case <-ticker.C:
			a.Step(ctx)
		}
	}
}

// watcher returns a settings watcher, or nil when watching is disabled or
// the settings directory cannot be watched.
func (a *Application) watcher() *settings.Watcher {
	if !a.cfg.Settings.Watch {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.store.Path()), 0o755); err != nil {
		a.logger.Warn("settings watch disabled", zap.Error(err))
		return nil
	}
	w, err := settings.NewWatcher(a.store.Path(), settings.WithWatchLogger(a.logger.Named("watch")))
	if err != nil {
		a.logger.Warn("settings watch disabled", zap.Error(err))
		return nil
	}
	return w
}

// forward hands file changes to the loop. Changes the loop has not
// consumed yet coalesce into one pending reload.
func (a *Application) forward(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			select {
			case a.reload <- struct{}{}:
			default:
			}
		}
	}
}

// reloadSettings re-reads the settings file on the tick goroutine.
func (a *Application) reloadSettings() {
	cur, err := a.store.Load()
	if err != nil {
		a.logger.Warn("settings reload failed", zap.Error(err))
		return
	}
	a.metrics.RecordReload()
	a.logger.Debug("settings reloaded",
		zap.Int("grid_width", cur.GridWidth),
		zap.Int("grid_height", cur.GridHeight))
}
