package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/snapkey/internal/script"
	"github.com/dshills/snapkey/internal/script/lua"
	"github.com/dshills/snapkey/internal/settings"
	"github.com/dshills/snapkey/internal/transform"
)

var errNothingToDo = errors.New("no selected layer could be updated")

// modeFlags are the reference and mask switches shared by apply and align.
type modeFlags struct {
	comp bool
	mask bool
	out  string
}

func (m *modeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&m.comp, "comp", false, "use the composition frame as reference (default from settings)")
	cmd.Flags().BoolVar(&m.mask, "mask", false, "prefer mask outlines over content bounds (default from settings)")
	cmd.Flags().StringVarP(&m.out, "out", "o", "", "write the result here instead of in place")
}

// resolve merges explicit flags over the stored settings.
func (m *modeFlags) resolve(cmd *cobra.Command, cur settings.Settings) (transform.ReferenceMode, transform.MaskMode) {
	comp, mask := cur.UseCompMode, cur.UseMaskRecognition
	if cmd.Flags().Changed("comp") {
		comp = m.comp
	}
	if cmd.Flags().Changed("mask") {
		mask = m.mask
	}
	ref, mm := transform.SelectionReference, transform.MaskOff
	if comp {
		ref = transform.CompositionReference
	}
	if mask {
		mm = transform.MaskOn
	}
	return ref, mm
}

func (m *modeFlags) target(scenePath string) string {
	if m.out != "" {
		return m.out
	}
	return scenePath
}

// session is a loaded scene with a client and the stored settings.
type session struct {
	host   *lua.Host
	client *script.Client
	cur    settings.Settings
}

func openSession(g *globals, path string) (*session, error) {
	store := settings.NewStore(g.cfg.Settings.Path, settings.WithLogger(g.logger.Named("settings")))
	cur, err := store.Load()
	if err != nil {
		g.logger.Warn("using default settings", zap.Error(err))
	}
	host, err := loadHost(path, g.logger)
	if err != nil {
		return nil, err
	}
	client := script.NewClient(host,
		script.WithMaxResult(g.cfg.Bridge.MaxResult),
		script.WithLogger(g.logger.Named("script")),
	)
	return &session{host: host, client: client, cur: cur}, nil
}

func newApplyCmd(g *globals) *cobra.Command {
	var (
		cell, ratio, size string
		modes             modeFlags
	)
	cmd := &cobra.Command{
		Use:   "apply <scene.json>",
		Short: "Move the anchor of every selected layer without moving it on screen",
		Example: `  snapkey apply scene.json --cell 0,0
  snapkey apply scene.json --cell 4,2 --grid 5x3 --comp
  snapkey apply scene.json --ratio 0.25,0.75 -o out.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(g, args[0])
			if err != nil {
				return err
			}
			defer s.host.Close()

			sel, err := parseSelection(cell, ratio, size, s.cur)
			if err != nil {
				return err
			}
			ref, mask := modes.resolve(cmd, s.cur)

			scene, ok := s.client.ReadScene(cmd.Context())
			if !ok {
				return errNothingToDo
			}
			updates := transform.ComputeBatch(sel, scene.Geometries(), ref, mask, scene.Frame)
			if len(updates) == 0 {
				return errNothingToDo
			}
			if err := s.client.Write(cmd.Context(), &script.SetAnchors{Label: "Set Anchor", Updates: updates}); err != nil {
				return err
			}
			if err := saveScene(modes.target(args[0]), s.host.Scene()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "anchored %d layer(s) at %s (%s)\n", len(updates), sel, ref)
			return nil
		},
	}
	cmd.Flags().StringVar(&cell, "cell", "", "grid cell as column,row")
	cmd.Flags().StringVar(&ratio, "ratio", "", "anchor ratio as x,y in [0,1]")
	cmd.Flags().StringVar(&size, "grid", "", "grid size as WIDTHxHEIGHT (default from settings)")
	cmd.MarkFlagsMutuallyExclusive("cell", "ratio")
	cmd.MarkFlagsOneRequired("cell", "ratio")
	modes.register(cmd)
	return cmd
}

// parseSelection builds a selection from the --cell or --ratio flag.
func parseSelection(cell, ratio, size string, cur settings.Settings) (transform.Selection, error) {
	if ratio != "" {
		x, y, err := pair(ratio, ",", parseFloat)
		if err != nil {
			return transform.Selection{}, fmt.Errorf("--ratio: %w", err)
		}
		return transform.RatioSelection(x, y), nil
	}

	w, h := cur.GridWidth, cur.GridHeight
	if size != "" {
		var err error
		if w, h, err = pair(strings.ToLower(size), "x", strconv.Atoi); err != nil {
			return transform.Selection{}, fmt.Errorf("--grid: %w", err)
		}
	}
	if w < settings.MinGridSize || w > settings.MaxGridSize || h < settings.MinGridSize || h > settings.MaxGridSize {
		return transform.Selection{}, fmt.Errorf("grid %dx%d outside %d..%d", w, h, settings.MinGridSize, settings.MaxGridSize)
	}
	gx, gy, err := pair(cell, ",", strconv.Atoi)
	if err != nil {
		return transform.Selection{}, fmt.Errorf("--cell: %w", err)
	}
	if gx < 0 || gy < 0 || gx >= w || gy >= h {
		return transform.Selection{}, fmt.Errorf("cell %d,%d outside %dx%d grid", gx, gy, w, h)
	}
	return transform.CellSelection(gx, gy, w, h), nil
}

func pair[T any](s, sep string, parse func(string) (T, error)) (T, T, error) {
	var zero T
	a, b, ok := strings.Cut(s, sep)
	if !ok {
		return zero, zero, fmt.Errorf("expected two values separated by %q, got %q", sep, s)
	}
	x, err := parse(strings.TrimSpace(a))
	if err != nil {
		return zero, zero, err
	}
	y, err := parse(strings.TrimSpace(b))
	if err != nil {
		return zero, zero, err
	}
	return x, y, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
