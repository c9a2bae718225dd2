// Package settings reads and writes the settings file shared with the
// companion panel.
//
// The file is plain JSON owned by both processes, so it is never
// rewritten wholesale: reads pick individual fields out with gjson and
// writes patch individual fields in place with sjson. A field that is
// missing or invalid leaves the in-memory value untouched.
package settings

import "math"

// Field names in the settings file.
const (
	FieldGridWidth          = "gridWidth"
	FieldGridHeight         = "gridHeight"
	FieldGridScale          = "gridScale"
	FieldGridOpacity        = "gridOpacity"
	FieldCellOpacity        = "cellOpacity"
	FieldUseCompMode        = "useCompMode"
	FieldUseMaskRecognition = "useMaskRecognition"
	FieldCustomAnchors      = "customAnchors"
	FieldClipboardAnchor    = "clipboardAnchor"
	FieldModuleScales       = "moduleScales"
)

// Limits.
const (
	MinGridSize      = 3
	MaxGridSize      = 7
	MaxGridScale     = 9
	MaxOpacity       = 100
	MaxCustomAnchors = 3

	MinModuleScale = 0.5
	MaxModuleScale = 3.0
)

// Display scale per gridScale step: 0 is -20%, 2 is the base size and 9 is +70%.
var scaleFactors = [MaxGridScale + 1]float64{0.8, 0.9, 1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6, 1.7}

// Ratio is a point inside a bounding box, each axis in [0,1].
type Ratio struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamp limits both axes to [0,1]. NaN becomes the center.
func (r Ratio) Clamp() Ratio {
	return Ratio{X: clamp01(r.X), Y: clamp01(r.Y)}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0.5
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Settings is the in-memory copy of the settings file.
type Settings struct {
	GridWidth   int
	GridHeight  int
	GridScale   int
	GridOpacity int
	CellOpacity int

	UseCompMode        bool
	UseMaskRecognition bool

	// CustomAnchors are stored as percentages in the file.
	CustomAnchors [MaxCustomAnchors]Ratio

	// ClipboardAnchor is nil until an anchor has been copied.
	ClipboardAnchor *Ratio

	// ModuleScales holds per-panel display scale factors by panel name.
	ModuleScales map[string]float64
}

// Default returns the settings used when the file is missing.
func Default() Settings {
	center := Ratio{X: 0.5, Y: 0.5}
	return Settings{
		GridWidth:     3,
		GridHeight:    3,
		GridScale:     2,
		GridOpacity:   75,
		CellOpacity:   50,
		CustomAnchors: [MaxCustomAnchors]Ratio{center, center, center},
	}
}

// ScaleFactor returns the grid display scale for GridScale.
func (s Settings) ScaleFactor() float64 {
	if s.GridScale < 0 || s.GridScale > MaxGridScale {
		return 1
	}
	return scaleFactors[s.GridScale]
}

// ModuleScale returns the display scale for a panel, 1 when unset.
func (s Settings) ModuleScale(name string) float64 {
	if v, ok := s.ModuleScales[name]; ok {
		return v
	}
	return 1
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	if s.ClipboardAnchor != nil {
		r := *s.ClipboardAnchor
		out.ClipboardAnchor = &r
	}
	if s.ModuleScales != nil {
		out.ModuleScales = make(map[string]float64, len(s.ModuleScales))
		for k, v := range s.ModuleScales {
			out.ModuleScales[k] = v
		}
	}
	return out
}
