package settings

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type field struct {
	name   string
	decode func(r gjson.Result, s *Settings) []error
	encode func(s Settings) any
}

var fields = []field{
	intField(FieldGridWidth, MinGridSize, MaxGridSize, func(s *Settings) *int { return &s.GridWidth }),
	intField(FieldGridHeight, MinGridSize, MaxGridSize, func(s *Settings) *int { return &s.GridHeight }),
	intField(FieldGridScale, 0, MaxGridScale, func(s *Settings) *int { return &s.GridScale }),
	intField(FieldGridOpacity, 0, MaxOpacity, func(s *Settings) *int { return &s.GridOpacity }),
	intField(FieldCellOpacity, 0, MaxOpacity, func(s *Settings) *int { return &s.CellOpacity }),
	boolField(FieldUseCompMode, func(s *Settings) *bool { return &s.UseCompMode }),
	boolField(FieldUseMaskRecognition, func(s *Settings) *bool { return &s.UseMaskRecognition }),
	{name: FieldCustomAnchors, decode: decodeCustomAnchors, encode: encodeCustomAnchors},
	{name: FieldClipboardAnchor, decode: decodeClipboard, encode: encodeClipboard},
	{name: FieldModuleScales, decode: decodeModuleScales, encode: encodeModuleScales},
}

func lookup(name string) (field, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

// Fields returns the names of all known fields.
func Fields() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}

// Encode renders every field of s as a settings document.
func Encode(s Settings) ([]byte, error) {
	doc := []byte("{}")
	for _, f := range fields {
		var err error
		if v := f.encode(s); v == nil {
			doc, err = sjson.SetRawBytes(doc, f.name, []byte("null"))
		} else {
			doc, err = sjson.SetBytes(doc, f.name, v)
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.name, err)
		}
	}
	return doc, nil
}

// Decode applies every field present in doc on top of prior. Fields that
// are missing keep their prior value; fields that are present but invalid
// also keep it and are reported as *FieldError.
func Decode(doc []byte, prior Settings) (Settings, []error) {
	out := prior.Clone()
	var errs []error
	for _, f := range fields {
		r := gjson.GetBytes(doc, f.name)
		if !r.Exists() {
			continue
		}
		errs = append(errs, f.decode(r, &out)...)
	}
	return out, errs
}

func fieldErr(name string, r gjson.Result, err error) *FieldError {
	return &FieldError{Field: name, Value: r.Raw, Err: err}
}

func intField(name string, lo, hi int, ptr func(*Settings) *int) field {
	return field{
		name: name,
		decode: func(r gjson.Result, s *Settings) []error {
			if r.Type != gjson.Number || r.Num != math.Trunc(r.Num) {
				return []error{fieldErr(name, r, ErrWrongType)}
			}
			v := int(r.Num)
			if v < lo || v > hi {
				return []error{fieldErr(name, r, ErrOutOfRange)}
			}
			*ptr(s) = v
			return nil
		},
		encode: func(s Settings) any { return *ptr(&s) },
	}
}

func boolField(name string, ptr func(*Settings) *bool) field {
	return field{
		name: name,
		decode: func(r gjson.Result, s *Settings) []error {
			if !r.IsBool() {
				return []error{fieldErr(name, r, ErrWrongType)}
			}
			*ptr(s) = r.Bool()
			return nil
		},
		encode: func(s Settings) any { return *ptr(&s) },
	}
}

func number(r gjson.Result, lo, hi float64) (float64, error) {
	if r.Type != gjson.Number {
		return 0, ErrWrongType
	}
	if math.IsNaN(r.Num) || r.Num < lo || r.Num > hi {
		return 0, ErrOutOfRange
	}
	return r.Num, nil
}

func decodeCustomAnchors(r gjson.Result, s *Settings) []error {
	if !r.IsArray() {
		return []error{fieldErr(FieldCustomAnchors, r, ErrWrongType)}
	}
	var errs []error
	for i, item := range r.Array() {
		if i >= MaxCustomAnchors {
			break
		}
		name := FieldCustomAnchors + "." + strconv.Itoa(i)
		x, errX := number(item.Get("x"), 0, 100)
		y, errY := number(item.Get("y"), 0, 100)
		if errX != nil || errY != nil {
			err := errX
			if err == nil {
				err = errY
			}
			errs = append(errs, fieldErr(name, item, err))
			continue
		}
		s.CustomAnchors[i] = Ratio{X: x / 100, Y: y / 100}
	}
	return errs
}

func encodeCustomAnchors(s Settings) any {
	out := make([]Ratio, len(s.CustomAnchors))
	for i, a := range s.CustomAnchors {
		out[i] = Ratio{X: math.Round(a.X * 100), Y: math.Round(a.Y * 100)}
	}
	return out
}

func decodeClipboard(r gjson.Result, s *Settings) []error {
	if r.Type == gjson.Null {
		s.ClipboardAnchor = nil
		return nil
	}
	if !r.IsObject() {
		return []error{fieldErr(FieldClipboardAnchor, r, ErrWrongType)}
	}
	x, errX := number(r.Get("x"), math.Inf(-1), math.Inf(1))
	y, errY := number(r.Get("y"), math.Inf(-1), math.Inf(1))
	if errX != nil || errY != nil {
		return []error{fieldErr(FieldClipboardAnchor, r, ErrWrongType)}
	}
	c := Ratio{X: x, Y: y}.Clamp()
	s.ClipboardAnchor = &c
	return nil
}

func encodeClipboard(s Settings) any {
	if s.ClipboardAnchor == nil {
		return nil
	}
	round := func(v float64) float64 { return math.Round(v*10000) / 10000 }
	return Ratio{X: round(s.ClipboardAnchor.X), Y: round(s.ClipboardAnchor.Y)}
}

func decodeModuleScales(r gjson.Result, s *Settings) []error {
	if !r.IsObject() {
		return []error{fieldErr(FieldModuleScales, r, ErrWrongType)}
	}
	var errs []error
	scales := make(map[string]float64)
	for k, v := range s.ModuleScales {
		scales[k] = v
	}
	type entry struct {
		name  string
		value gjson.Result
	}
	var entries []entry
	r.ForEach(func(k, v gjson.Result) bool {
		entries = append(entries, entry{name: k.String(), value: v})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	for _, e := range entries {
		f, err := number(e.value, MinModuleScale, MaxModuleScale)
		if err != nil {
			errs = append(errs, fieldErr(FieldModuleScales+"."+e.name, e.value, err))
			continue
		}
		scales[e.name] = f
	}
	s.ModuleScales = scales
	return errs
}

func encodeModuleScales(s Settings) any {
	if s.ModuleScales == nil {
		return map[string]float64{}
	}
	return s.ModuleScales
}
