package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func square(index int, x, y float64) Geometry {
	return Geometry{
		Index:    index,
		Position: [3]float64{x, y, 0},
		Scale:    Point{X: 100, Y: 100},
		Content:  Bounds{Width: 20, Height: 20},
	}
}

func TestAlign(t *testing.T) {
	objects := []Geometry{square(1, 50, 50), square(2, 100, 80)}
	frame := Frame{Width: 200, Height: 100}

	tests := []struct {
		name string
		dir  AlignDirection
		ref  ReferenceMode
		want []Move
	}{
		{"left selection", AlignLeft, SelectionReference, []Move{{Index: 2, Delta: Point{X: -50}}}},
		{"top selection", AlignTop, SelectionReference, []Move{{Index: 2, Delta: Point{Y: -30}}}},
		{"center selection", AlignCenterH, SelectionReference, []Move{
			{Index: 1, Delta: Point{X: 25}},
			{Index: 2, Delta: Point{X: -25}},
		}},
		{"right composition", AlignRight, CompositionReference, []Move{
			{Index: 1, Delta: Point{X: 130}},
			{Index: 2, Delta: Point{X: 80}},
		}},
		{"bottom composition", AlignBottom, CompositionReference, []Move{
			{Index: 1, Delta: Point{Y: 30}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Align(objects, tt.dir, tt.ref, frame)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Align mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAlignUsesScaledBounds(t *testing.T) {
	big := square(1, 0, 0)
	big.Scale = Point{X: 200, Y: 200}
	small := square(2, 10, 0)

	got := Align([]Geometry{big, small}, AlignRight, SelectionReference, Frame{})
	want := []Move{{Index: 2, Delta: Point{X: 10}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Align mismatch (-want +got):\n%s", diff)
	}
}

func TestDistribute(t *testing.T) {
	objects := []Geometry{square(1, 80, 0), square(2, 0, 0), square(3, 10, 0)}

	got := Distribute(objects, Horizontal, SelectionReference, Frame{})
	want := []Move{{Index: 3, Delta: Point{X: 30}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Distribute mismatch (-want +got):\n%s", diff)
	}

	comp := Distribute(objects, Horizontal, CompositionReference, Frame{Width: 100, Height: 50})
	want = []Move{{Index: 3, Delta: Point{X: 30}}}
	if diff := cmp.Diff(want, comp); diff != "" {
		t.Errorf("Distribute composition mismatch (-want +got):\n%s", diff)
	}
}

func TestDistributeNeedsThree(t *testing.T) {
	if got := Distribute([]Geometry{square(1, 0, 0), square(2, 50, 0)}, Vertical, SelectionReference, Frame{}); got != nil {
		t.Errorf("Distribute with two objects = %v, want nil", got)
	}
}

func TestParseAlignDirection(t *testing.T) {
	for d := AlignLeft; d <= AlignBottom; d++ {
		got, ok := ParseAlignDirection(d.String())
		if !ok || got != d {
			t.Errorf("ParseAlignDirection(%q) = %v, %v", d.String(), got, ok)
		}
	}
	if _, ok := ParseAlignDirection("diagonal"); ok {
		t.Error("unknown direction should not parse")
	}
}
