package script

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/snapkey/internal/transform"
)

// Request is a structured host operation. Requests are only serialized by
// Encode.
type Request interface {
	// Op names the host function the request calls.
	Op() string

	// Mutates reports whether the request changes host state.
	Mutates() bool

	normalize() error
	encode(e *encoder)
}

// Destructive is implemented by write requests whose failure must be
// reported to the user through a host alert.
type Destructive interface {
	Destructive() bool
}

// Value ranges enforced before serialization.
const (
	MinEaseSpeed     = 0.0
	MaxEaseSpeed     = 10000.0
	MinEaseInfluence = 0.1
	MaxEaseInfluence = 100.0

	DefaultEaseSpeed     = 1.0
	DefaultEaseInfluence = 33.33

	MinFontSize = 1.0
	MaxFontSize = 1296.0

	MinTracking = -1000.0
	MaxTracking = 1000.0

	MinOpacity = 0.0
	MaxOpacity = 100.0
)

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// checkFinite returns a ValidationError for the first non-finite value.
func checkFinite(op, field string, vs ...float64) error {
	for _, v := range vs {
		if !isFinite(v) {
			return &ValidationError{Op: op, Field: field, Err: fmt.Errorf("%w: %v", ErrNonFinite, v)}
		}
	}
	return nil
}

// SetAnchors writes new anchors and compensating positions in one undo group.
type SetAnchors struct {
	Label   string
	Updates []transform.AnchorUpdate
}

func (*SetAnchors) Op() string    { return "set_anchors" }
func (*SetAnchors) Mutates() bool { return true }

func (r *SetAnchors) normalize() error {
	if len(r.Updates) == 0 {
		return &ValidationError{Op: r.Op(), Field: "updates", Err: ErrEmptyRequest}
	}
	for _, u := range r.Updates {
		if err := checkFinite(r.Op(), "anchor", u.NewAnchor.X, u.NewAnchor.Y); err != nil {
			return err
		}
		if err := checkFinite(r.Op(), "position_delta", u.PositionDelta[:]...); err != nil {
			return err
		}
	}
	if r.Label == "" {
		r.Label = "Set Anchor"
	}
	return nil
}

func (r *SetAnchors) encode(e *encoder) {
	e.str(r.Label)
	e.raw(", {")
	for i, u := range r.Updates {
		if i > 0 {
			e.sep()
		}
		e.raw("{")
		e.field("index")
		e.int(u.Index)
		e.sep()
		e.field("anchor")
		e.vec("anchor", u.NewAnchor.X, u.NewAnchor.Y)
		e.sep()
		e.field("delta")
		e.vec("position_delta", u.PositionDelta[:]...)
		e.sep()
		e.field("keyframe")
		e.bool(u.Keyframe)
		e.raw("}")
	}
	e.raw("}")
}

// ReadGeometry reads the frame and the geometry of the selected objects.
// The host answers with the JSON document parsed by ParseScene.
type ReadGeometry struct{}

func (ReadGeometry) Op() string        { return "read_geometry" }
func (ReadGeometry) Mutates() bool     { return false }
func (ReadGeometry) normalize() error  { return nil }
func (ReadGeometry) encode(e *encoder) {}

// ApplyEase sets temporal easing on the selected keyframes. Unlike other
// requests, non-finite values are replaced with defaults rather than rejected,
// since they come straight from a drag-to-scrub editor.
type ApplyEase struct {
	InSpeed, InInfluence   float64
	OutSpeed, OutInfluence float64
}

func (*ApplyEase) Op() string    { return "apply_ease" }
func (*ApplyEase) Mutates() bool { return true }

// Sanitize replaces non-finite values with defaults and clamps the rest.
func (r *ApplyEase) Sanitize() {
	r.InSpeed = sanitize(r.InSpeed, DefaultEaseSpeed, MinEaseSpeed, MaxEaseSpeed)
	r.OutSpeed = sanitize(r.OutSpeed, DefaultEaseSpeed, MinEaseSpeed, MaxEaseSpeed)
	r.InInfluence = sanitize(r.InInfluence, DefaultEaseInfluence, MinEaseInfluence, MaxEaseInfluence)
	r.OutInfluence = sanitize(r.OutInfluence, DefaultEaseInfluence, MinEaseInfluence, MaxEaseInfluence)
}

func sanitize(v, def, lo, hi float64) float64 {
	if !isFinite(v) {
		return def
	}
	return clamp(v, lo, hi)
}

func (r *ApplyEase) normalize() error {
	r.Sanitize()
	return nil
}

func (r *ApplyEase) encode(e *encoder) {
	e.raw("{")
	e.field("in_speed")
	e.num("in_speed", r.InSpeed)
	e.sep()
	e.field("in_influence")
	e.num("in_influence", r.InInfluence)
	e.sep()
	e.field("out_speed")
	e.num("out_speed", r.OutSpeed)
	e.sep()
	e.field("out_influence")
	e.num("out_influence", r.OutInfluence)
	e.raw("}")
}

// SetTextStyle changes character properties of the selected text layers.
// Nil fields are left unchanged.
type SetTextStyle struct {
	Font     string
	FontSize *float64
	Tracking *float64
	Opacity  *float64
	// Color is a hex color such as "#ff8800".
	Color string

	rgb [3]float64
}

func (*SetTextStyle) Op() string    { return "set_text_style" }
func (*SetTextStyle) Mutates() bool { return true }

func (r *SetTextStyle) normalize() error {
	if r.Font == "" && r.FontSize == nil && r.Tracking == nil && r.Opacity == nil && r.Color == "" {
		return &ValidationError{Op: r.Op(), Err: ErrEmptyRequest}
	}
	if err := clampField(r.Op(), "font_size", r.FontSize, MinFontSize, MaxFontSize); err != nil {
		return err
	}
	if err := clampField(r.Op(), "tracking", r.Tracking, MinTracking, MaxTracking); err != nil {
		return err
	}
	if err := clampField(r.Op(), "opacity", r.Opacity, MinOpacity, MaxOpacity); err != nil {
		return err
	}
	if r.Color != "" {
		c, err := colorful.Hex(normalizeHex(r.Color))
		if err != nil {
			return &ValidationError{Op: r.Op(), Field: "color", Err: fmt.Errorf("%w: %q", ErrInvalidColor, r.Color)}
		}
		c = c.Clamped()
		r.rgb = [3]float64{c.R, c.G, c.B}
	}
	return nil
}

// normalizeHex accepts "fa0", "#fa0" and "#ffaa00".
func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return strings.ToLower(s)
}

func clampField(op, field string, v *float64, lo, hi float64) error {
	if v == nil {
		return nil
	}
	if err := checkFinite(op, field, *v); err != nil {
		return err
	}
	c := clamp(*v, lo, hi)
	*v = c
	return nil
}

func (r *SetTextStyle) encode(e *encoder) {
	e.raw("{")
	first := true
	next := func(name string) {
		if !first {
			e.sep()
		}
		first = false
		e.field(name)
	}
	if r.Font != "" {
		next("font")
		e.str(r.Font)
	}
	if r.FontSize != nil {
		next("font_size")
		e.num("font_size", *r.FontSize)
	}
	if r.Tracking != nil {
		next("tracking")
		e.num("tracking", *r.Tracking)
	}
	if r.Opacity != nil {
		next("opacity")
		e.num("opacity", *r.Opacity)
	}
	if r.Color != "" {
		next("color")
		e.vec("color", r.rgb[:]...)
	}
	e.raw("}")
}

// MoveLayers offsets the positions of several objects in one undo group.
type MoveLayers struct {
	Label string
	Moves []transform.Move
}

func (*MoveLayers) Op() string    { return "move_layers" }
func (*MoveLayers) Mutates() bool { return true }

func (r *MoveLayers) normalize() error {
	if len(r.Moves) == 0 {
		return &ValidationError{Op: r.Op(), Field: "moves", Err: ErrEmptyRequest}
	}
	for _, m := range r.Moves {
		if err := checkFinite(r.Op(), "delta", m.Delta.X, m.Delta.Y); err != nil {
			return err
		}
	}
	if r.Label == "" {
		r.Label = "Move Layers"
	}
	return nil
}

func (r *MoveLayers) encode(e *encoder) {
	e.str(r.Label)
	e.raw(", {")
	for i, m := range r.Moves {
		if i > 0 {
			e.sep()
		}
		e.raw("{")
		e.field("index")
		e.int(m.Index)
		e.sep()
		e.field("delta")
		e.vec("delta", m.Delta.X, m.Delta.Y)
		e.raw("}")
	}
	e.raw("}")
}

// RunCommand invokes a named host command such as "layer.duplicate" or
// "preset.save". Arguments must be strings, booleans, integers or finite
// floats.
type RunCommand struct {
	Name string
	Args map[string]any

	// Alert requests a host alert if the command fails.
	Alert bool
}

func (*RunCommand) Op() string { return "run_command" }

// Mutates always reports true: commands are treated as writes.
func (*RunCommand) Mutates() bool { return true }

// Destructive reports whether a failure must be surfaced to the user.
func (r *RunCommand) Destructive() bool { return r.Alert }

func (r *RunCommand) normalize() error {
	if !validName(r.Name) {
		return &ValidationError{Op: r.Op(), Field: "name", Err: fmt.Errorf("%w: %q", ErrInvalidName, r.Name)}
	}
	return nil
}

func (r *RunCommand) encode(e *encoder) {
	e.str(r.Name)
	e.sep()
	e.dict(r.Args)
}

// Alert shows a host-native message box.
type Alert struct {
	Message string
}

func (*Alert) Op() string    { return "alert" }
func (*Alert) Mutates() bool { return false }

func (r *Alert) normalize() error {
	if strings.TrimSpace(r.Message) == "" {
		return &ValidationError{Op: r.Op(), Field: "message", Err: ErrEmptyRequest}
	}
	return nil
}

func (r *Alert) encode(e *encoder) {
	e.str(r.Message)
}

// NotifyModeChanged tells the companion panel that a mode flag changed.
type NotifyModeChanged struct {
	Field string
	Value bool
}

func (*NotifyModeChanged) Op() string    { return "notify_mode" }
func (*NotifyModeChanged) Mutates() bool { return false }

func (r *NotifyModeChanged) normalize() error {
	if r.Field == "" {
		return &ValidationError{Op: r.Op(), Field: "field", Err: ErrEmptyRequest}
	}
	for _, c := range r.Field {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return &ValidationError{Op: r.Op(), Field: "field", Err: fmt.Errorf("%w: %q", ErrInvalidName, r.Field)}
		}
	}
	return nil
}

func (r *NotifyModeChanged) encode(e *encoder) {
	e.str(r.Field)
	e.sep()
	e.bool(r.Value)
}
