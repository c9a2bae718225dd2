package lua

import (
	"context"
	"fmt"
	"math"
	"strconv"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/snapkey/internal/transform"
)

// CommandFunc implements a named host command.
type CommandFunc func(scene *Scene, args map[string]any) error

// Host is a script.Bridge backed by a Lua state and an in-memory scene.
type Host struct {
	state    *State
	scene    *Scene
	logger   *zap.Logger
	commands map[string]CommandFunc
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the host logger.
func WithLogger(l *zap.Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithCommand registers or replaces a host command.
func WithCommand(name string, fn CommandFunc) HostOption {
	return func(h *Host) {
		h.commands[name] = fn
	}
}

// NewHost creates a host driving scene.
func NewHost(scene *Scene, opts ...HostOption) (*Host, error) {
	if scene == nil {
		return nil, ErrNoComposition
	}
	if scene.Modes == nil {
		scene.Modes = make(map[string]bool)
	}
	h := &Host{
		state:    NewState(),
		scene:    scene,
		logger:   zap.NewNop(),
		commands: defaultCommands(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.state.RegisterModule("host", map[string]lua.LGFunction{
		"read_geometry":  h.readGeometry,
		"set_anchors":    h.setAnchors,
		"apply_ease":     h.applyEase,
		"set_text_style": h.setTextStyle,
		"move_layers":    h.moveLayers,
		"run_command":    h.runCommand,
		"alert":          h.alert,
		"notify_mode":    h.notifyMode,
	})
	return h, nil
}

// Scene returns the scene driven by the host.
func (h *Host) Scene() *Scene {
	return h.scene
}

// Execute runs script and returns its first return value as a string.
func (h *Host) Execute(ctx context.Context, script string) (string, error) {
	values, err := h.state.Eval(ctx, script)
	if err != nil {
		return "", fmt.Errorf("execute: %w", err)
	}
	if len(values) == 0 {
		return "", nil
	}
	switch v := values[0].(type) {
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case lua.LBool:
		return strconv.FormatBool(bool(v)), nil
	default:
		if v == lua.LNil {
			return "", nil
		}
		return v.String(), nil
	}
}

// Close releases the Lua state.
func (h *Host) Close() error {
	return h.state.Close()
}

func (h *Host) requireFrame(L *lua.LState) {
	if h.scene.Width <= 0 || h.scene.Height <= 0 {
		L.RaiseError("%s", ErrNoComposition.Error())
	}
}

func (h *Host) readGeometry(L *lua.LState) int {
	h.requireFrame(L)
	doc, err := h.scene.JSON(true)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LString(doc))
	return 1
}

func (h *Host) setAnchors(L *lua.LState) int {
	label := L.CheckString(1)
	updates := L.CheckTable(2)
	h.requireFrame(L)

	h.scene.UndoGroups = append(h.scene.UndoGroups, label)
	n := 0
	updates.ForEach(func(_, v lua.LValue) {
		t, ok := v.(*lua.LTable)
		if !ok {
			L.ArgError(2, "update must be a table")
			return
		}
		layer := h.scene.Layer(int(number(L, t, "index")))
		if layer == nil {
			return
		}
		anchor := vector(L, t, "anchor", 2)
		delta := vector(L, t, "delta", 3)

		h.scene.setAnchor(layer, transform.Point{X: anchor[0], Y: anchor[1]})
		pos := layer.Position
		pos[0] += delta[0]
		pos[1] += delta[1]
		if layer.ThreeD {
			pos[2] += delta[2]
		}
		h.scene.setPosition(layer, pos)
		n++
	})
	h.logger.Debug("anchors set", zap.String("label", label), zap.Int("layers", n))
	L.Push(lua.LNumber(n))
	return 1
}

func (h *Host) applyEase(L *lua.LState) int {
	t := L.CheckTable(1)
	ease := Ease{
		InSpeed:      number(L, t, "in_speed"),
		InInfluence:  number(L, t, "in_influence"),
		OutSpeed:     number(L, t, "out_speed"),
		OutInfluence: number(L, t, "out_influence"),
	}
	h.scene.UndoGroups = append(h.scene.UndoGroups, "Apply Ease")
	n := 0
	for _, l := range h.scene.Selected() {
		if len(l.AnchorKeys) == 0 && len(l.PositionKeys) == 0 {
			continue
		}
		e := ease
		l.Ease = &e
		n++
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (h *Host) setTextStyle(L *lua.LState) int {
	t := L.CheckTable(1)
	h.scene.UndoGroups = append(h.scene.UndoGroups, "Set Text Style")
	n := 0
	for _, l := range h.scene.Selected() {
		if !l.Text {
			continue
		}
		if v, ok := t.RawGetString("font").(lua.LString); ok {
			l.Style.Font = string(v)
		}
		if v, ok := t.RawGetString("font_size").(lua.LNumber); ok {
			l.Style.FontSize = float64(v)
		}
		if v, ok := t.RawGetString("tracking").(lua.LNumber); ok {
			l.Style.Tracking = float64(v)
		}
		if v, ok := t.RawGetString("opacity").(lua.LNumber); ok {
			l.Style.Opacity = float64(v)
		}
		if _, ok := t.RawGetString("color").(*lua.LTable); ok {
			c := vector(L, t, "color", 3)
			l.Style.Color = [3]float64{c[0], c[1], c[2]}
		}
		n++
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (h *Host) moveLayers(L *lua.LState) int {
	label := L.CheckString(1)
	moves := L.CheckTable(2)
	h.requireFrame(L)

	h.scene.UndoGroups = append(h.scene.UndoGroups, label)
	n := 0
	moves.ForEach(func(_, v lua.LValue) {
		t, ok := v.(*lua.LTable)
		if !ok {
			L.ArgError(2, "move must be a table")
			return
		}
		layer := h.scene.Layer(int(number(L, t, "index")))
		if layer == nil {
			return
		}
		d := vector(L, t, "delta", 2)
		pos := layer.Position
		pos[0] += d[0]
		pos[1] += d[1]
		h.scene.setPosition(layer, pos)
		n++
	})
	L.Push(lua.LNumber(n))
	return 1
}

func (h *Host) runCommand(L *lua.LState) int {
	name := L.CheckString(1)
	args := map[string]any{}
	if t, ok := L.Get(2).(*lua.LTable); ok {
		t.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				args[string(ks)] = toGoValue(v)
			}
		})
	}

	fn, ok := h.commands[name]
	if !ok {
		L.RaiseError("%s: %s", ErrUnknownCommand.Error(), name)
		return 0
	}
	if err := fn(h.scene, args); err != nil {
		L.RaiseError("%s: %s", name, err.Error())
		return 0
	}
	h.scene.Commands = append(h.scene.Commands, Command{Name: name, Args: args})
	L.Push(lua.LTrue)
	return 1
}

func (h *Host) alert(L *lua.LState) int {
	msg := L.CheckString(1)
	h.scene.Alerts = append(h.scene.Alerts, msg)
	h.logger.Info("host alert", zap.String("message", msg))
	return 0
}

func (h *Host) notifyMode(L *lua.LState) int {
	field := L.CheckString(1)
	h.scene.Modes[field] = L.CheckBool(2)
	return 0
}

// number reads a numeric field, raising a Lua error if it is missing or
// not finite.
func number(L *lua.LState, t *lua.LTable, key string) float64 {
	v, ok := t.RawGetString(key).(lua.LNumber)
	if !ok || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		L.RaiseError("field %q must be a finite number", key)
		return 0
	}
	return float64(v)
}

// vector reads an array field of at least n finite numbers.
func vector(L *lua.LState, t *lua.LTable, key string, n int) []float64 {
	arr, ok := t.RawGetString(key).(*lua.LTable)
	if !ok || arr.Len() < n {
		L.RaiseError("field %q must be an array of %d numbers", key, n)
		return make([]float64, n)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := arr.RawGetInt(i + 1).(lua.LNumber)
		if !ok || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			L.RaiseError("field %q[%d] must be a finite number", key, i+1)
			return out
		}
		out[i] = float64(v)
	}
	return out
}

// toGoValue converts a scalar Lua value to Go. Tables and functions have no
// command-argument meaning and convert to nil.
func toGoValue(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	default:
		return nil
	}
}
