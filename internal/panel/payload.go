package panel

import (
	"errors"
	"fmt"

	"github.com/dshills/snapkey/internal/script"
	"github.com/dshills/snapkey/internal/transform"
)

// ErrMalformedPayload is returned by Validate for structurally invalid payloads.
var ErrMalformedPayload = errors.New("malformed payload")

// Payload is the data carried by an applied Result.
type Payload interface {
	// Validate reports whether the payload is structurally valid.
	Validate() error
}

// HostPayload is a payload that is already a host request and can be sent
// to the script bridge without further computation.
type HostPayload interface {
	Payload
	Request() script.Request
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}

// GridAction is what the grid panel committed.
type GridAction uint8

const (
	// GridCell applies the anchor at a grid cell.
	GridCell GridAction = iota
	// GridCustom applies a stored custom anchor ratio.
	GridCustom
	// GridCopy copies the first selected object's anchor ratio.
	GridCopy
	// GridPaste applies the copied anchor ratio.
	GridPaste
	// GridSettings opens the settings surface.
	GridSettings
)

var gridActionNames = [...]string{"cell", "custom", "copy", "paste", "settings"}

// String returns the action name.
func (a GridAction) String() string {
	if int(a) < len(gridActionNames) {
		return gridActionNames[a]
	}
	return "unknown"
}

// MaxCustomAnchors is the number of custom anchor slots.
const MaxCustomAnchors = 3

// GridPayload is the anchor grid's committed action.
type GridPayload struct {
	Action GridAction
	// Selection is set for GridCell, GridCustom and GridPaste.
	Selection transform.Selection
	// Slot is the 1-based custom anchor slot for GridCustom.
	Slot int
}

// Validate implements Payload.
func (p GridPayload) Validate() error {
	switch p.Action {
	case GridCell:
		if !p.Selection.IsCell() {
			return malformed("grid cell without cell selection")
		}
		gx, gy, w, h := p.Selection.Cell()
		if w < 1 || h < 1 || gx < 0 || gy < 0 || gx >= w || gy >= h {
			return malformed("cell (%d,%d) outside %dx%d grid", gx, gy, w, h)
		}
	case GridCustom:
		if p.Slot < 1 || p.Slot > MaxCustomAnchors {
			return malformed("custom anchor slot %d", p.Slot)
		}
	case GridCopy, GridPaste, GridSettings:
	default:
		return malformed("unknown grid action %d", p.Action)
	}
	return nil
}

// MenuPayload names the primary panel chosen in the quick menu.
type MenuPayload struct {
	Target ID
}

// Validate implements Payload.
func (p MenuPayload) Validate() error {
	if !p.Target.IsPrimary() {
		return malformed("menu target %s is not a primary panel", p.Target)
	}
	return nil
}

// AlignPayload is an align or distribute command. It needs fresh geometry,
// so it is not a HostPayload.
type AlignPayload struct {
	Distribute bool
	Direction  transform.AlignDirection
	Axis       transform.Axis
	Reference  transform.ReferenceMode
}

// Validate implements Payload.
func (p AlignPayload) Validate() error {
	if p.Distribute {
		if p.Axis > transform.Vertical {
			return malformed("distribute axis %d", p.Axis)
		}
		return nil
	}
	if p.Direction > transform.AlignBottom {
		return malformed("align direction %d", p.Direction)
	}
	return nil
}

// TextPayload is a text style edit.
type TextPayload struct {
	Style script.SetTextStyle
}

// Validate implements Payload.
func (p TextPayload) Validate() error {
	return validateRequest(p.Request())
}

// Request implements HostPayload.
func (p TextPayload) Request() script.Request {
	s := p.Style
	return &s
}

// KeyframePayload is an easing edit.
type KeyframePayload struct {
	Ease script.ApplyEase
}

// Validate implements Payload.
func (p KeyframePayload) Validate() error {
	return validateRequest(p.Request())
}

// Request implements HostPayload.
func (p KeyframePayload) Request() script.Request {
	e := p.Ease
	e.Sanitize()
	return &e
}

// ControlAction is what the control panel committed.
type ControlAction uint8

const (
	ApplyEffect ControlAction = iota
	ApplyPreset
	SavePreset
)

// MaxPresetSlots is the number of effect preset slots.
const MaxPresetSlots = 3

// ControlPayload applies an effect or a preset slot.
type ControlPayload struct {
	Action    ControlAction
	MatchName string
	Slot      int
}

// Validate implements Payload.
func (p ControlPayload) Validate() error {
	switch p.Action {
	case ApplyEffect:
		if p.MatchName == "" {
			return malformed("effect without match name")
		}
	case ApplyPreset, SavePreset:
		if p.Slot < 1 || p.Slot > MaxPresetSlots {
			return malformed("preset slot %d", p.Slot)
		}
	default:
		return malformed("unknown control action %d", p.Action)
	}
	return nil
}

// Request implements HostPayload.
func (p ControlPayload) Request() script.Request {
	switch p.Action {
	case ApplyPreset:
		return &script.RunCommand{Name: "preset.apply", Args: map[string]any{"slot": p.Slot}}
	case SavePreset:
		return &script.RunCommand{Name: "preset.save", Args: map[string]any{"slot": p.Slot}, Alert: true}
	default:
		return &script.RunCommand{Name: "effect.apply", Args: map[string]any{"match_name": p.MatchName}}
	}
}

// LayerPayload runs a layer command such as "duplicate" or "trim".
type LayerPayload struct {
	Command string
}

// Validate implements Payload.
func (p LayerPayload) Validate() error {
	if p.Command == "" {
		return malformed("empty layer command")
	}
	return validateRequest(p.Request())
}

// Request implements HostPayload.
func (p LayerPayload) Request() script.Request {
	return &script.RunCommand{Name: "layer." + p.Command}
}

// validateRequest runs the request through the serializer's validation.
func validateRequest(r script.Request) error {
	if _, err := script.Encode(r); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return nil
}
