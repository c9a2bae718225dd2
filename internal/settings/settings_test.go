package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDecode(t *testing.T) {
	doc := []byte(`{
		"gridWidth": 5,
		"gridHeight": 4,
		"gridScale": 9,
		"gridOpacity": 60,
		"cellOpacity": 20,
		"useCompMode": true,
		"useMaskRecognition": true,
		"customAnchors": [{"x": 0, "y": 100}, {"x": 25, "y": 75}],
		"clipboardAnchor": {"x": 0.25, "y": 1.5},
		"moduleScales": {"align": 1.25},
		"settingsPanelOpen": false
	}`)

	got, errs := Decode(doc, Default())
	assert.Empty(t, errs)

	want := Default()
	want.GridWidth = 5
	want.GridHeight = 4
	want.GridScale = 9
	want.GridOpacity = 60
	want.CellOpacity = 20
	want.UseCompMode = true
	want.UseMaskRecognition = true
	want.CustomAnchors[0] = Ratio{X: 0, Y: 1}
	want.CustomAnchors[1] = Ratio{X: 0.25, Y: 0.75}
	want.ClipboardAnchor = &Ratio{X: 0.25, Y: 1}
	want.ModuleScales = map[string]float64{"align": 1.25}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 1.7, got.ScaleFactor(), 1e-9)
	assert.Equal(t, 1.25, got.ModuleScale("align"))
	assert.Equal(t, 1.0, got.ModuleScale("text"))
}

func TestDecodeKeepsPriorOnInvalidFields(t *testing.T) {
	prior := Default()
	prior.GridWidth = 6
	prior.UseCompMode = true

	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"width too small", `{"gridWidth": 2}`, FieldGridWidth},
		{"width fractional", `{"gridWidth": 4.5}`, FieldGridWidth},
		{"width string", `{"gridWidth": "5"}`, FieldGridWidth},
		{"scale too big", `{"gridScale": 10}`, FieldGridScale},
		{"opacity negative", `{"gridOpacity": -1}`, FieldGridOpacity},
		{"bool as number", `{"useCompMode": 0}`, FieldUseCompMode},
		{"anchor out of range", `{"customAnchors": [{"x": 120, "y": 0}]}`, FieldCustomAnchors + ".0"},
		{"anchors not array", `{"customAnchors": {}}`, FieldCustomAnchors},
		{"clipboard string", `{"clipboardAnchor": "center"}`, FieldClipboardAnchor},
		{"module scale range", `{"moduleScales": {"grid": 9}}`, FieldModuleScales + ".grid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := Decode([]byte(tt.doc), prior)
			require.Len(t, errs, 1)
			var fe *FieldError
			require.ErrorAs(t, errs[0], &fe)
			assert.Equal(t, tt.field, fe.Field)

			if diff := cmp.Diff(prior, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("prior settings changed (-want +got):\n%s", diff)
			}
			assert.Equal(t, 6, got.GridWidth)
			assert.True(t, got.UseCompMode)
		})
	}
}

func TestDecodeNullClipboard(t *testing.T) {
	prior := Default()
	prior.ClipboardAnchor = &Ratio{X: 1, Y: 1}
	got, errs := Decode([]byte(`{"clipboardAnchor": null}`), prior)
	assert.Empty(t, errs)
	assert.Nil(t, got.ClipboardAnchor)
	assert.NotNil(t, prior.ClipboardAnchor, "prior is not mutated")
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Default().GridWidth, got.GridWidth)
}

func TestStoreLoadLogsSkippedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gridWidth": 11, "gridHeight": 5}`), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	s := NewStore(path, WithLogger(zap.New(core)))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, got.GridWidth)
	assert.Equal(t, 5, got.GridHeight)
	assert.Equal(t, 1, logs.FilterMessage("skipping settings field").Len())
}

func TestStoreUpdatePreservesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"settingsPanelOpen": true, "gridWidth": 5}`), 0o644))

	s := NewStore(path)
	_, err := s.Load()
	require.NoError(t, err)

	got, err := s.Update(func(st *Settings) {
		st.UseCompMode = true
		st.UseMaskRecognition = true
	}, FieldUseCompMode, FieldUseMaskRecognition)
	require.NoError(t, err)
	assert.True(t, got.UseCompMode)

	doc, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(doc, "settingsPanelOpen").Bool())
	assert.Equal(t, int64(5), gjson.GetBytes(doc, FieldGridWidth).Int())
	assert.True(t, gjson.GetBytes(doc, FieldUseCompMode).Bool())
	assert.False(t, gjson.GetBytes(doc, FieldGridHeight).Exists(), "only named fields are written")
}

func TestStoreClipboardRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := NewStore(path)

	_, err := s.Update(func(st *Settings) {
		st.ClipboardAnchor = &Ratio{X: 0.123456, Y: 1}
	}, FieldClipboardAnchor)
	require.NoError(t, err)

	doc, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.1235, gjson.GetBytes(doc, "clipboardAnchor.x").Float())

	_, err = s.Update(func(st *Settings) { st.ClipboardAnchor = nil }, FieldClipboardAnchor)
	require.NoError(t, err)
	doc, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, gjson.Null, gjson.GetBytes(doc, FieldClipboardAnchor).Type)
}

func TestStoreCustomAnchorsWrittenAsPercent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := NewStore(path)
	_, err := s.Update(func(st *Settings) {
		st.CustomAnchors[2] = Ratio{X: 1, Y: 0.25}
	}, FieldCustomAnchors)
	require.NoError(t, err)

	reloaded := NewStore(path)
	got, err := reloaded.Load()
	require.NoError(t, err)
	assert.Equal(t, Ratio{X: 1, Y: 0.25}, got.CustomAnchors[2])

	doc, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(25), gjson.GetBytes(doc, "customAnchors.2.y").Int())
}

func TestStoreSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := NewStore(path)

	got, err := s.Set(FieldGridWidth, "7")
	require.NoError(t, err)
	assert.Equal(t, 7, got.GridWidth)

	_, err = s.Set(FieldGridWidth, "8")
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 7, s.Current().GridWidth)

	_, err = s.Set("gridDepth", "1")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = s.Set(FieldUseCompMode, "yes")
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestStoreRewritesInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gridWidth": `), 0o644))

	s := NewStore(path)
	_, err := s.Update(func(st *Settings) { st.GridOpacity = 10 }, FieldGridOpacity)
	require.NoError(t, err)

	doc, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, gjson.ValidBytes(doc))
	assert.Equal(t, int64(10), gjson.GetBytes(doc, FieldGridOpacity).Int())
}

func TestClone(t *testing.T) {
	a := Default()
	a.ClipboardAnchor = &Ratio{X: 0.1, Y: 0.2}
	a.ModuleScales = map[string]float64{"grid": 1}

	b := a.Clone()
	b.ClipboardAnchor.X = 0.9
	b.ModuleScales["grid"] = 2
	assert.Equal(t, 0.1, a.ClipboardAnchor.X)
	assert.Equal(t, 1.0, a.ModuleScales["grid"])
}

func TestFields(t *testing.T) {
	names := Fields()
	assert.Contains(t, names, FieldGridWidth)
	assert.Contains(t, names, FieldClipboardAnchor)
	assert.Len(t, names, 10)
}

func TestEncodeDecodes(t *testing.T) {
	s := Default()
	s.GridWidth = 5
	s.UseCompMode = true
	s.CustomAnchors[1] = Ratio{X: 0.25, Y: 1}
	s.ModuleScales = map[string]float64{"align": 1.5}

	doc, err := Encode(s)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(doc, FieldClipboardAnchor).Type == gjson.Null)
	assert.Equal(t, 25.0, gjson.GetBytes(doc, FieldCustomAnchors+".1.x").Float())

	got, errs := Decode(doc, Default())
	require.Empty(t, errs)
	if diff := cmp.Diff(s, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}
