package lua

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/snapkey/internal/script"
	"github.com/dshills/snapkey/internal/transform"
)

// TextStyle holds the character properties of a text layer.
type TextStyle struct {
	Font     string
	FontSize float64
	Tracking float64
	Opacity  float64
	Color    [3]float64
}

// Ease is the temporal easing applied to a layer's selected keyframes.
type Ease struct {
	InSpeed, InInfluence   float64
	OutSpeed, OutInfluence float64
}

// Layer is one object of the simulated composition.
type Layer struct {
	Index    int
	Name     string
	Text     bool
	Selected bool

	Position [3]float64
	ThreeD   bool
	Anchor   transform.Point
	Scale    transform.Point
	Rotation float64
	Bounds   transform.Bounds
	Masks    [][]transform.Point

	// AnchorKeys and PositionKeys hold keyframes by time. A property with
	// keys is animated; writes to it add or replace the key at the current
	// time instead of flattening it.
	AnchorKeys   map[float64]transform.Point
	PositionKeys map[float64][3]float64

	Style   TextStyle
	Ease    *Ease
	Effects []string
}

// Command is a run_command invocation recorded by the host.
type Command struct {
	Name string
	Args map[string]any
}

// Scene is the simulated host document.
type Scene struct {
	Width, Height float64
	Time          float64
	Layers        []*Layer

	// Journal of side effects, in order.
	UndoGroups []string
	Alerts     []string
	Commands   []Command
	Modes      map[string]bool

	// Presets holds saved effect stacks by slot.
	Presets map[int64][]string
}

// Frame returns the composition frame.
func (s *Scene) Frame() transform.Frame {
	return transform.Frame{Width: s.Width, Height: s.Height}
}

// Layer returns the layer with the given index, or nil.
func (s *Scene) Layer(index int) *Layer {
	for _, l := range s.Layers {
		if l.Index == index {
			return l
		}
	}
	return nil
}

// Selected returns the selected layers in index order.
func (s *Scene) Selected() []*Layer {
	var out []*Layer
	for _, l := range s.Layers {
		if l.Selected {
			out = append(out, l)
		}
	}
	return out
}

// setAnchor writes the anchor, keying it if the property is animated.
func (s *Scene) setAnchor(l *Layer, p transform.Point) {
	l.Anchor = p
	if len(l.AnchorKeys) > 0 {
		l.AnchorKeys[s.Time] = p
	}
}

// setPosition writes the position, keying it if the property is animated.
func (s *Scene) setPosition(l *Layer, p [3]float64) {
	l.Position = p
	if len(l.PositionKeys) > 0 {
		l.PositionKeys[s.Time] = p
	}
}

// LoadScene parses a scene document. The format is the read_geometry
// document with per-layer "selected" flags and optional keyframes:
//
//	"keys": {"anchor": [[t, x, y], ...], "position": [[t, x, y, z], ...]}
//
// Layers without a "selected" field are selected.
func LoadScene(data []byte) (*Scene, error) {
	doc := string(data)
	parsed, err := script.ParseScene(doc)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}

	scene := &Scene{
		Width:   parsed.Frame.Width,
		Height:  parsed.Frame.Height,
		Time:    parsed.Time,
		Modes:   make(map[string]bool),
		Presets: make(map[int64][]string),
	}
	gjson.Get(doc, "presets").ForEach(func(k, v gjson.Result) bool {
		slot, err := strconv.ParseInt(k.String(), 10, 64)
		if err != nil || slot < 1 {
			return true
		}
		var effects []string
		for _, e := range v.Array() {
			effects = append(effects, e.String())
		}
		scene.Presets[slot] = effects
		return true
	})
	raw := gjson.Get(doc, "layers").Array()
	for i, pl := range parsed.Layers {
		r := raw[i]
		l := &Layer{
			Index:    pl.Index,
			Name:     pl.Name,
			Text:     pl.IsText,
			Selected: !r.Get("selected").Exists() || r.Get("selected").Bool(),
			Position: pl.Position,
			ThreeD:   pl.HasZ,
			Anchor:   pl.Anchor,
			Scale:    pl.Scale,
			Rotation: pl.RotationDeg,
			Bounds:   pl.Content,
			Masks:    pl.Masks,
			Style: TextStyle{
				Font:     r.Get("style.font").String(),
				FontSize: r.Get("style.fontSize").Float(),
				Opacity:  100,
			},
		}
		if l.Index == 0 {
			l.Index = i + 1
		}
		for _, e := range r.Get("effects").Array() {
			l.Effects = append(l.Effects, e.String())
		}
		if op := r.Get("style.opacity"); op.Exists() {
			l.Style.Opacity = op.Float()
		}
		r.Get("keys.anchor").ForEach(func(_, k gjson.Result) bool {
			a := k.Array()
			if len(a) >= 3 {
				if l.AnchorKeys == nil {
					l.AnchorKeys = make(map[float64]transform.Point)
				}
				l.AnchorKeys[a[0].Float()] = transform.Point{X: a[1].Float(), Y: a[2].Float()}
			}
			return true
		})
		r.Get("keys.position").ForEach(func(_, k gjson.Result) bool {
			a := k.Array()
			if len(a) >= 3 {
				if l.PositionKeys == nil {
					l.PositionKeys = make(map[float64][3]float64)
				}
				var p [3]float64
				for j := 1; j < len(a) && j < 4; j++ {
					p[j-1] = a[j].Float()
				}
				l.PositionKeys[a[0].Float()] = p
			}
			return true
		})
		scene.Layers = append(scene.Layers, l)
	}
	return scene, nil
}

// JSON renders the scene. With selectedOnly it produces the read_geometry
// answer; otherwise the full document accepted by LoadScene.
func (s *Scene) JSON(selectedOnly bool) (string, error) {
	doc := `{"frame":{},"layers":[]}`
	set := func(path string, v any) {
		if doc2, err := sjson.Set(doc, path, v); err == nil {
			doc = doc2
		}
	}
	set("frame.width", s.Width)
	set("frame.height", s.Height)
	set("time", s.Time)

	i := 0
	for _, l := range s.Layers {
		if selectedOnly && !l.Selected {
			continue
		}
		p := fmt.Sprintf("layers.%d.", i)
		i++
		set(p+"index", l.Index)
		set(p+"name", l.Name)
		set(p+"text", l.Text)
		if l.ThreeD {
			set(p+"position", l.Position[:])
		} else {
			set(p+"position", l.Position[:2])
		}
		set(p+"threeD", l.ThreeD)
		set(p+"anchor", []float64{l.Anchor.X, l.Anchor.Y})
		set(p+"scale", []float64{l.Scale.X, l.Scale.Y})
		set(p+"rotation", l.Rotation)
		set(p+"bounds", map[string]float64{
			"left": l.Bounds.Left, "top": l.Bounds.Top,
			"width": l.Bounds.Width, "height": l.Bounds.Height,
		})
		if len(l.Masks) > 0 {
			masks := make([][][2]float64, len(l.Masks))
			for m, outline := range l.Masks {
				for _, v := range outline {
					masks[m] = append(masks[m], [2]float64{v.X, v.Y})
				}
			}
			set(p+"masks", masks)
		}
		set(p+"animated.anchor", len(l.AnchorKeys) > 0)
		set(p+"animated.position", len(l.PositionKeys) > 0)
		if selectedOnly {
			continue
		}
		set(p+"selected", l.Selected)
		if len(l.Effects) > 0 {
			set(p+"effects", l.Effects)
		}
		if l.Text {
			set(p+"style.font", l.Style.Font)
			set(p+"style.fontSize", l.Style.FontSize)
			set(p+"style.opacity", l.Style.Opacity)
		}
		if len(l.AnchorKeys) > 0 {
			var keys [][3]float64
			for _, t := range sortedTimes(l.AnchorKeys) {
				a := l.AnchorKeys[t]
				keys = append(keys, [3]float64{t, a.X, a.Y})
			}
			set(p+"keys.anchor", keys)
		}
		if len(l.PositionKeys) > 0 {
			var keys [][4]float64
			for _, t := range sortedTimes(l.PositionKeys) {
				v := l.PositionKeys[t]
				keys = append(keys, [4]float64{t, v[0], v[1], v[2]})
			}
			set(p+"keys.position", keys)
		}
	}
	if !selectedOnly && len(s.Presets) > 0 {
		presets := make(map[string][]string, len(s.Presets))
		for slot, effects := range s.Presets {
			presets[strconv.FormatInt(slot, 10)] = effects
		}
		set("presets", presets)
	}
	if !gjson.Valid(doc) {
		return "", fmt.Errorf("render scene: invalid document")
	}
	return doc, nil
}

func sortedTimes[V any](m map[float64]V) []float64 {
	ts := make([]float64, 0, len(m))
	for t := range m {
		ts = append(ts, t)
	}
	sort.Float64s(ts)
	return ts
}
