package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/snapkey/internal/term"
)

func newRunCmd(g *globals) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "run <scene.json>",
		Short: "Run the overlay in the terminal against a scene file",
		Long: `Takes over the terminal and drives the overlay against the scene.

Hold Y for the anchor grid, press D for the quick menu, Shift+E for the
control panel. Escape cancels; Ctrl+C quits. Logs go to the configured
log file only, since the terminal is in use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := loadHost(args[0], g.logger)
			if err != nil {
				return err
			}
			defer host.Close()

			logger := g.logger
			if g.cfg.Logging.File == "" {
				logger = zap.NewNop()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := term.Run(ctx, term.Options{Config: g.cfg, Logger: logger, Bridge: host}); err != nil {
				return err
			}

			scene := host.Scene()
			fmt.Fprintf(cmd.OutOrStdout(), "%d undo group(s), %d command(s)\n", len(scene.UndoGroups), len(scene.Commands))
			for _, a := range scene.Alerts {
				fmt.Fprintf(cmd.OutOrStdout(), "alert: %s\n", a)
			}
			if save {
				return saveScene(args[0], scene)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write the edited scene back to the file")
	return cmd
}
