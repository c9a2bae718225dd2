package term

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/snapkey/internal/app"
	"github.com/dshills/snapkey/internal/config"
	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/orchestrator"
	"github.com/dshills/snapkey/internal/script"
)

// Options configures the harness.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	Bridge script.Bridge
	Theme  Theme
	// Screen overrides the terminal screen. Nil opens the real terminal.
	Screen tcell.Screen
}

// Run takes over the terminal and runs the scheduler until ctx is done or
// the operator quits.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == (Theme{}) {
		theme = DefaultTheme()
	}

	screen := opts.Screen
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	in := NewInput(screen, cfg.Terminal.ReleaseAfter.D())
	defer in.Close()

	a, err := app.New(app.Options{
		Config:   cfg,
		Logger:   opts.Logger,
		Sampler:  in,
		Bridge:   opts.Bridge,
		Renderer: NewRenderer(screen, theme),
		Quit:     in.Quit(),
		Panels: []orchestrator.Option{
			orchestrator.WithScreen(workArea(screen.Size())),
			orchestrator.WithCellSize(cfg.Terminal.CellSize),
			orchestrator.WithRowSize(cfg.Terminal.RowWidth, 1),
		},
	})
	if err != nil {
		return err
	}
	defer a.Close()

	in.OnResize(func(w, h int) {
		a.State().SetScreen(workArea(w, h))
		screen.Sync()
	})
	return a.Run(ctx)
}

// workArea is the screen minus the status line.
func workArea(w, h int) mouse.Rect {
	return mouse.Rect{Width: w, Height: max(0, h-1)}
}
