// Package main is the entry point for snapkey.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/snapkey/internal/app"
	"github.com/dshills/snapkey/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globals holds the state shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "snapkey",
		Short: "Keyboard-driven anchor grid and quick panels",
		Long: `snapkey opens overlay panels from hold, double-tap and combo gestures
and applies anchor, align and edit commands to a host document.

Run "snapkey run scene.json" to try the overlay in the terminal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = g.logLevel
			}
			g.cfg = cfg
			g.logger, err = app.NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("snapkey %s (commit %s, built %s)\n", version, commit, date))
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "path to a TOML or YAML configuration file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(g),
		newApplyCmd(g),
		newAlignCmd(g),
		newSettingsCmd(g),
	)
	return root
}
