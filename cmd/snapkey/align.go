package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/snapkey/internal/script"
	"github.com/dshills/snapkey/internal/transform"
)

func newAlignCmd(g *globals) *cobra.Command {
	var (
		dir, axis string
		modes     modeFlags
	)
	cmd := &cobra.Command{
		Use:   "align <scene.json>",
		Short: "Align or distribute the selected layers",
		Example: `  snapkey align scene.json --dir left
  snapkey align scene.json --distribute vertical --comp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(g, args[0])
			if err != nil {
				return err
			}
			defer s.host.Close()
			ref, _ := modes.resolve(cmd, s.cur)

			scene, ok := s.client.ReadScene(cmd.Context())
			if !ok {
				return errNothingToDo
			}
			var (
				moves []transform.Move
				label string
			)
			if axis != "" {
				a, err := parseAxis(axis)
				if err != nil {
					return err
				}
				moves = transform.Distribute(scene.Geometries(), a, ref, scene.Frame)
				label = "Distribute " + a.String()
			} else {
				d, ok := transform.ParseAlignDirection(strings.ToLower(dir))
				if !ok {
					return fmt.Errorf("unknown direction %q", dir)
				}
				moves = transform.Align(scene.Geometries(), d, ref, scene.Frame)
				label = "Align " + d.String()
			}
			if len(moves) == 0 {
				return errNothingToDo
			}
			if err := s.client.Write(cmd.Context(), &script.MoveLayers{Label: label, Moves: moves}); err != nil {
				return err
			}
			if err := saveScene(modes.target(args[0]), s.host.Scene()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: moved %d layer(s)\n", label, len(moves))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "left, center-h, right, top, middle-v or bottom")
	cmd.Flags().StringVar(&axis, "distribute", "", "horizontal or vertical")
	cmd.MarkFlagsMutuallyExclusive("dir", "distribute")
	cmd.MarkFlagsOneRequired("dir", "distribute")
	modes.register(cmd)
	return cmd
}

func parseAxis(s string) (transform.Axis, error) {
	for _, a := range []transform.Axis{transform.Horizontal, transform.Vertical} {
		if strings.EqualFold(s, a.String()) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}
