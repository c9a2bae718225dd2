package orchestrator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/snapkey/internal/panel"
	"github.com/dshills/snapkey/internal/panel/grid"
	"github.com/dshills/snapkey/internal/panel/list"
	"github.com/dshills/snapkey/internal/panel/menu"
	"github.com/dshills/snapkey/internal/settings"
)

// stockPanel builds the default panel for id.
func (s *State) stockPanel(id panel.ID) (panel.Panel, error) {
	switch id {
	case panel.Grid:
		opts := []grid.PanelOption{grid.WithToggle(s.onToggle), grid.WithScreen(s.screen)}
		if s.cellSize > 0 {
			opts = append(opts, grid.WithCellSize(s.cellSize))
		}
		return grid.New(s.loadSettings, opts...), nil
	case panel.Menu:
		return menu.New(s.entries, s.listOptions(id)...)
	case panel.Align:
		opts := append(s.listOptions(id), list.WithSource(func() []list.Item {
			ref, _ := s.transformModes()
			return list.AlignItems(ref)
		}))
		return list.New(id.String(), nil, opts...), nil
	case panel.Text:
		return list.New(id.String(), list.TextItems(list.DefaultTextStyles()), s.listOptions(id)...), nil
	case panel.Keyframe:
		return list.New(id.String(), list.KeyframeItems(list.DefaultEases()), s.listOptions(id)...), nil
	case panel.Control:
		return list.New(id.String(), list.ControlItems(list.DefaultEffects()), s.listOptions(id)...), nil
	case panel.Layer:
		return list.New(id.String(), list.LayerItems(), s.listOptions(id)...), nil
	}
	return nil, fmt.Errorf("no stock panel for %s", id)
}

func (s *State) listOptions(id panel.ID) []list.Option {
	name := id.String()
	opts := []list.Option{
		list.WithScreen(s.screen),
		list.WithScale(func() float64 { return s.store.Current().ModuleScale(name) }),
	}
	if s.rowW > 0 && s.rowH > 0 {
		opts = append(opts, list.WithRowSize(s.rowW, s.rowH))
	}
	return opts
}

// loadSettings re-reads the settings file when the grid opens.
func (s *State) loadSettings() settings.Settings {
	cur, err := s.store.Load()
	if err != nil {
		s.logger.Warn("reading settings failed", zap.Error(err))
	}
	return cur
}

