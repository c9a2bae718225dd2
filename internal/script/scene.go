package script

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/snapkey/internal/transform"
)

// Layer is a selected object as reported by the host.
type Layer struct {
	transform.Geometry

	Name   string
	IsText bool
}

// Scene is the host's answer to ReadGeometry.
type Scene struct {
	Frame transform.Frame
	// Time is the host's current time in seconds.
	Time   float64
	Layers []Layer
}

// Geometries returns the transform geometry of every layer.
func (s Scene) Geometries() []transform.Geometry {
	out := make([]transform.Geometry, len(s.Layers))
	for i, l := range s.Layers {
		out[i] = l.Geometry
	}
	return out
}

// HasText reports whether any selected layer is a text layer.
func (s Scene) HasText() bool {
	for _, l := range s.Layers {
		if l.IsText {
			return true
		}
	}
	return false
}

// ParseScene parses the JSON document returned by ReadGeometry:
//
//	{"frame":{"width":1920,"height":1080},"time":0,
//	 "layers":[{"index":1,"name":"Title","text":true,
//	   "position":[960,540,0],"threeD":false,"anchor":[0,0],
//	   "scale":[100,100],"rotation":0,
//	   "bounds":{"left":0,"top":0,"width":100,"height":50},
//	   "masks":[[[0,0],[10,0],[10,10]]],
//	   "animated":{"anchor":false,"position":false}}]}
//
// Missing numeric fields read as zero, except scale which defaults to 100.
func ParseScene(doc string) (Scene, error) {
	if !gjson.Valid(doc) {
		return Scene{}, fmt.Errorf("%w: invalid JSON", ErrMalformedResult)
	}
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return Scene{}, fmt.Errorf("%w: expected object", ErrMalformedResult)
	}

	scene := Scene{
		Frame: transform.Frame{
			Width:  root.Get("frame.width").Float(),
			Height: root.Get("frame.height").Float(),
		},
		Time: root.Get("time").Float(),
	}

	var err error
	root.Get("layers").ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			err = fmt.Errorf("%w: layer is not an object", ErrMalformedResult)
			return false
		}
		scene.Layers = append(scene.Layers, parseLayer(v))
		return true
	})
	if err != nil {
		return Scene{}, err
	}
	return scene, nil
}

func parseLayer(v gjson.Result) Layer {
	pos := v.Get("position").Array()
	g := transform.Geometry{
		Index:       int(v.Get("index").Int()),
		HasZ:        v.Get("threeD").Bool() || len(pos) == 3,
		Anchor:      point(v.Get("anchor")),
		Scale:       transform.Point{X: 100, Y: 100},
		RotationDeg: v.Get("rotation").Float(),
		Content: transform.Bounds{
			Left:   v.Get("bounds.left").Float(),
			Top:    v.Get("bounds.top").Float(),
			Width:  v.Get("bounds.width").Float(),
			Height: v.Get("bounds.height").Float(),
		},
		AnchorAnimated:   v.Get("animated.anchor").Bool(),
		PositionAnimated: v.Get("animated.position").Bool(),
	}
	for i := 0; i < len(pos) && i < 3; i++ {
		g.Position[i] = pos[i].Float()
	}
	if s := v.Get("scale"); s.Exists() {
		g.Scale = point(s)
	}
	v.Get("masks").ForEach(func(_, outline gjson.Result) bool {
		var pts []transform.Point
		outline.ForEach(func(_, p gjson.Result) bool {
			pts = append(pts, point(p))
			return true
		})
		g.Masks = append(g.Masks, pts)
		return true
	})

	return Layer{
		Geometry: g,
		Name:     v.Get("name").String(),
		IsText:   v.Get("text").Bool(),
	}
}

func point(v gjson.Result) transform.Point {
	a := v.Array()
	var p transform.Point
	if len(a) > 0 {
		p.X = a[0].Float()
	}
	if len(a) > 1 {
		p.Y = a[1].Float()
	}
	return p
}
