package lua

import (
	"errors"
	"fmt"
	"slices"
)

// Command names understood by the simulated host.
const (
	CmdLayerDuplicate = "layer.duplicate"
	CmdLayerAutoCrop  = "layer.auto_crop"
	CmdLayerExtend    = "layer.extend"
	CmdLayerTrim      = "layer.trim"
	CmdLayerPrerender = "layer.prerender"
	CmdEffectApply    = "effect.apply"
	CmdPresetApply    = "preset.apply"
	CmdPresetSave     = "preset.save"
	CmdOpenSettings   = "settings.open"
)

var (
	errNoSelection = errors.New("no layers selected")
	errNoEffects   = errors.New("layer has no effects")
	errEmptyPreset = errors.New("preset slot is empty")
)

func defaultCommands() map[string]CommandFunc {
	record := func(*Scene, map[string]any) error { return nil }
	return map[string]CommandFunc{
		CmdLayerDuplicate: duplicateLayers,
		CmdLayerAutoCrop:  requireSelection,
		CmdLayerExtend:    requireSelection,
		CmdLayerTrim:      requireSelection,
		CmdLayerPrerender: requireSelection,
		CmdEffectApply:    applyEffect,
		CmdPresetApply:    applyPreset,
		CmdPresetSave:     savePreset,
		CmdOpenSettings:   record,
	}
}

func requireSelection(s *Scene, _ map[string]any) error {
	if len(s.Selected()) == 0 {
		return errNoSelection
	}
	return nil
}

func duplicateLayers(s *Scene, _ map[string]any) error {
	selected := s.Selected()
	if len(selected) == 0 {
		return errNoSelection
	}
	next := 0
	for _, l := range s.Layers {
		next = max(next, l.Index)
	}
	for _, l := range selected {
		next++
		dup := *l
		dup.Index = next
		dup.Name = l.Name + " copy"
		dup.Selected = false
		dup.AnchorKeys = nil
		dup.PositionKeys = nil
		dup.Effects = append([]string(nil), l.Effects...)
		s.Layers = append(s.Layers, &dup)
	}
	return nil
}

func applyEffect(s *Scene, args map[string]any) error {
	name, _ := args["match_name"].(string)
	if name == "" {
		return fmt.Errorf("missing match_name")
	}
	selected := s.Selected()
	if len(selected) == 0 {
		return errNoSelection
	}
	for _, l := range selected {
		l.Effects = append(l.Effects, name)
	}
	return nil
}

func presetSlot(args map[string]any) (int64, error) {
	slot, ok := args["slot"].(int64)
	if !ok || slot < 1 {
		return 0, fmt.Errorf("invalid preset slot %v", args["slot"])
	}
	return slot, nil
}

// savePreset stores the effect stack of the first selected layer.
func savePreset(s *Scene, args map[string]any) error {
	slot, err := presetSlot(args)
	if err != nil {
		return err
	}
	selected := s.Selected()
	if len(selected) == 0 {
		return errNoSelection
	}
	if len(selected[0].Effects) == 0 {
		return fmt.Errorf("%w: %s", errNoEffects, selected[0].Name)
	}
	if s.Presets == nil {
		s.Presets = make(map[int64][]string)
	}
	s.Presets[slot] = slices.Clone(selected[0].Effects)
	return nil
}

// applyPreset appends a saved effect stack to every selected layer.
func applyPreset(s *Scene, args map[string]any) error {
	slot, err := presetSlot(args)
	if err != nil {
		return err
	}
	effects := s.Presets[slot]
	if len(effects) == 0 {
		return fmt.Errorf("%w: %d", errEmptyPreset, slot)
	}
	selected := s.Selected()
	if len(selected) == 0 {
		return errNoSelection
	}
	for _, l := range selected {
		l.Effects = append(l.Effects, effects...)
	}
	return nil
}
