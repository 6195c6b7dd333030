package math3d

import (
	"math"
	"testing"
)

func TestVec2Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec2
		want float64
	}{
		{"counter-clockwise", V2(1, 0), V2(0, 1), 1},
		{"clockwise", V2(0, 1), V2(1, 0), -1},
		{"parallel", V2(2, 2), V2(1, 1), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Cross(tc.b); got != tc.want {
				t.Errorf("%v x %v = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestVec2Normalize(t *testing.T) {
	n := V2(3, 4).Normalize()
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("normalized length = %v, want 1", n.Len())
	}
	if z := (Vec2{}).Normalize(); z != (Vec2{}) {
		t.Errorf("zero vector normalized to %v", z)
	}
}

func TestTranslateMulVec3(t *testing.T) {
	m := Translate(V3(-2, 0.5, 0))
	got := m.MulVec3(V3(1, 1, 1))
	if !got.ApproxEqual(V3(-1, 1.5, 1), 1e-12) {
		t.Errorf("translated point = %v", got)
	}
	if dir := m.MulVec3Dir(V3(0, 0, 1)); dir != V3(0, 0, 1) {
		t.Errorf("direction should ignore translation, got %v", dir)
	}
	if tr := m.Translation(); tr != V3(-2, 0.5, 0) {
		t.Errorf("Translation() = %v", tr)
	}
}

func TestPerspectiveMapsNearAndFar(t *testing.T) {
	p := Perspective(math.Pi/2, 1, 1, 10)

	near := p.MulVec4(V4(0, 0, -1, 1)).PerspectiveDivide()
	far := p.MulVec4(V4(0, 0, -10, 1)).PerspectiveDivide()

	if math.Abs(near.Z+1) > 1e-9 {
		t.Errorf("near plane z = %v, want -1", near.Z)
	}
	if math.Abs(far.Z-1) > 1e-9 {
		t.Errorf("far plane z = %v, want 1", far.Z)
	}
}
