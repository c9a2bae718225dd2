package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/dshills/snapkey/internal/gesture"
	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/input/trigger"
	"github.com/dshills/snapkey/internal/oracle"
	"github.com/dshills/snapkey/internal/panel"
	"github.com/dshills/snapkey/internal/panel/menu"
	"github.com/dshills/snapkey/internal/script"
)

// Config is the complete static configuration.
type Config struct {
	Timing   TimingConfig    `toml:"timing" yaml:"timing"`
	Bridge   BridgeConfig    `toml:"bridge" yaml:"bridge"`
	Settings SettingsConfig  `toml:"settings" yaml:"settings"`
	Logging  LoggingConfig   `toml:"logging" yaml:"logging"`
	Terminal TerminalConfig  `toml:"terminal" yaml:"terminal"`
	Triggers []TriggerConfig `toml:"triggers" yaml:"triggers"`
	Menu     []MenuConfig    `toml:"menu" yaml:"menu"`
}

// TimingConfig holds the gesture and editability thresholds.
type TimingConfig struct {
	// Tight is how long a host menu refresh keeps input allowed.
	Tight Duration `toml:"tight" yaml:"tight"`
	// Grace is how long a panel activation keeps input allowed.
	Grace Duration `toml:"grace" yaml:"grace"`
	// Hold is how long a hold key must be down before its panel opens.
	Hold Duration `toml:"hold" yaml:"hold"`
	// DoubleTap is the longest gap between release and press that pairs.
	DoubleTap Duration `toml:"double_tap" yaml:"double_tap"`
	// Tick is the scheduler interval.
	Tick Duration `toml:"tick" yaml:"tick"`
}

// BridgeConfig configures the host script bridge.
type BridgeConfig struct {
	// MaxResult bounds the result string in bytes.
	MaxResult int `toml:"max_result" yaml:"max_result"`
}

// SettingsConfig locates the settings file shared with the companion panel.
type SettingsConfig struct {
	Path  string `toml:"path" yaml:"path"`
	Watch bool   `toml:"watch" yaml:"watch"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
	// File, when set, receives log output instead of stderr.
	File string `toml:"file" yaml:"file"`
}

// TerminalConfig tunes the terminal harness.
type TerminalConfig struct {
	// ReleaseAfter is how long after the last key event a key counts as
	// released, since terminals do not report key-up.
	ReleaseAfter Duration `toml:"release_after" yaml:"release_after"`
	// CellSize is the grid cell size in terminal columns.
	CellSize int `toml:"cell_size" yaml:"cell_size"`
	// RowWidth is the width of list panels in terminal columns.
	RowWidth int `toml:"row_width" yaml:"row_width"`
}

// TriggerConfig is one trigger binding as written in the file.
type TriggerConfig struct {
	Key    string `toml:"key" yaml:"key"`
	Kind   string `toml:"kind" yaml:"kind"`
	Target string `toml:"target" yaml:"target"`
}

// MenuConfig is one quick menu entry as written in the file.
type MenuConfig struct {
	Key    string `toml:"key" yaml:"key"`
	Target string `toml:"target" yaml:"target"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Timing: TimingConfig{
			Tight:     Duration(oracle.DefaultTight),
			Grace:     Duration(oracle.DefaultGrace),
			Hold:      Duration(gesture.DefaultHold),
			DoubleTap: Duration(gesture.DefaultDoubleTap),
			Tick:      Duration(33 * time.Millisecond),
		},
		Bridge:   BridgeConfig{MaxResult: script.DefaultMaxResult},
		Settings: SettingsConfig{Path: DefaultSettingsPath(), Watch: true},
		Logging:  LoggingConfig{Level: "info"},
		Terminal: TerminalConfig{
			ReleaseAfter: Duration(650 * time.Millisecond),
			CellSize:     3,
			RowWidth:     28,
		},
		Triggers: defaultTriggers(),
		Menu:     defaultMenu(),
	}
}

func defaultTriggers() []TriggerConfig {
	bs := trigger.DefaultBindings()
	out := make([]TriggerConfig, 0, len(bs))
	for _, b := range bs {
		out = append(out, TriggerConfig{Key: b.Chord.String(), Kind: b.Kind.String(), Target: b.Target.String()})
	}
	return out
}

func defaultMenu() []MenuConfig {
	es := menu.Default()
	out := make([]MenuConfig, 0, len(es))
	for _, e := range es {
		out = append(out, MenuConfig{Key: e.Key.String(), Target: e.Target.String()})
	}
	return out
}

// DefaultSettingsPath returns the per-user settings file location.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "settings.json"
	}
	return filepath.Join(dir, "snapkey", "settings.json")
}

// Validate checks every section and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	positive := func(path string, d Duration) {
		if d <= 0 {
			errs = append(errs, &ValidationError{Path: path, Message: "must be positive", Value: d})
		}
	}
	positive("timing.tight", c.Timing.Tight)
	positive("timing.grace", c.Timing.Grace)
	positive("timing.hold", c.Timing.Hold)
	positive("timing.double_tap", c.Timing.DoubleTap)
	if c.Timing.Tick <= 0 || c.Timing.Tick.D() > time.Second {
		errs = append(errs, &ValidationError{Path: "timing.tick", Message: "must be between 0 and 1s", Value: c.Timing.Tick})
	}
	if c.Bridge.MaxResult <= 0 {
		errs = append(errs, &ValidationError{Path: "bridge.max_result", Message: "must be positive", Value: c.Bridge.MaxResult})
	}
	if strings.TrimSpace(c.Settings.Path) == "" {
		errs = append(errs, &ValidationError{Path: "settings.path", Message: "must not be empty", Value: c.Settings.Path})
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, &ValidationError{Path: "logging.level", Message: err.Error(), Value: c.Logging.Level})
	}
	if c.Terminal.CellSize <= 0 {
		errs = append(errs, &ValidationError{Path: "terminal.cell_size", Message: "must be positive", Value: c.Terminal.CellSize})
	}
	if c.Terminal.RowWidth <= 0 {
		errs = append(errs, &ValidationError{Path: "terminal.row_width", Message: "must be positive", Value: c.Terminal.RowWidth})
	}
	if _, err := c.TriggerTable(); err != nil {
		errs = append(errs, &ValidationError{Path: "triggers", Message: err.Error(), Value: len(c.Triggers)})
	}
	if _, err := c.MenuEntries(); err != nil {
		errs = append(errs, &ValidationError{Path: "menu", Message: err.Error(), Value: len(c.Menu)})
	}
	return errors.Join(errs...)
}

// TriggerTable builds the validated trigger table.
func (c *Config) TriggerTable() (*trigger.Table, error) {
	bindings := make([]trigger.Binding, 0, len(c.Triggers))
	for i, t := range c.Triggers {
		chord, err := key.Parse(t.Key)
		if err != nil {
			return nil, fmt.Errorf("trigger %d: %w", i, err)
		}
		kind, err := trigger.ParseKind(t.Kind)
		if err != nil {
			return nil, fmt.Errorf("trigger %d: %w", i, err)
		}
		target, err := panel.ParseID(t.Target)
		if err != nil {
			return nil, fmt.Errorf("trigger %d: %w", i, err)
		}
		bindings = append(bindings, trigger.Binding{Chord: chord, Kind: kind, Target: target})
	}
	return trigger.NewTable(bindings)
}

// MenuEntries builds the validated quick menu entries.
func (c *Config) MenuEntries() ([]menu.Entry, error) {
	entries := make([]menu.Entry, 0, len(c.Menu))
	for i, m := range c.Menu {
		chord, err := key.Parse(m.Key)
		if err != nil {
			return nil, fmt.Errorf("menu %d: %w", i, err)
		}
		target, err := panel.ParseID(m.Target)
		if err != nil {
			return nil, fmt.Errorf("menu %d: %w", i, err)
		}
		entries = append(entries, menu.Entry{Key: chord, Target: target})
	}
	if err := menu.Validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// OracleConfig returns the editability windows.
func (c *Config) OracleConfig() oracle.Config {
	return oracle.Config{Tight: c.Timing.Tight.D(), Grace: c.Timing.Grace.D()}
}

// GestureConfig returns the classifier thresholds.
func (c *Config) GestureConfig() gesture.Config {
	return gesture.Config{Hold: c.Timing.Hold.D(), DoubleTap: c.Timing.DoubleTap.D()}
}
