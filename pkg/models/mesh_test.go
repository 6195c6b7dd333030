package models

import (
	"math"
	"testing"

	"github.com/taigrr/hares/pkg/math3d"
)

func TestAddTriangleReversesWinding(t *testing.T) {
	m := NewMesh("tri")
	a := m.AddVertex(math3d.V3(0, 0, 0), math3d.V3(0, 0, 1))
	b := m.AddVertex(math3d.V3(1, 0, 0), math3d.V3(0, 0, 1))
	c := m.AddVertex(math3d.V3(0, 1, 0), math3d.V3(0, 0, 1))
	m.AddTriangle(a, b, c)

	if got := m.GetFace(0); got != [3]int{a, c, b} {
		t.Errorf("stored face = %v, want %v", got, [3]int{a, c, b})
	}
	if got := m.CCW(0); got != [3]int{a, b, c} {
		t.Errorf("CCW(0) = %v, want %v", got, [3]int{a, b, c})
	}
	if m.GetFaceMaterial(0) != -1 {
		t.Errorf("new faces should have no material")
	}
}

func TestCalculateNormalsPointOutward(t *testing.T) {
	m := NewMesh("tri")
	a := m.AddVertex(math3d.V3(0, 0, 0), math3d.Zero3())
	b := m.AddVertex(math3d.V3(1, 0, 0), math3d.Zero3())
	c := m.AddVertex(math3d.V3(0, 1, 0), math3d.Zero3())
	m.AddTriangle(a, b, c)

	m.CalculateNormals()
	if n := m.Vertices[a].Normal; !n.ApproxEqual(math3d.V3(0, 0, 1), 1e-12) {
		t.Errorf("flat normal = %v, want +Z", n)
	}

	m.CalculateSmoothNormals()
	if n := m.Vertices[b].Normal; !n.ApproxEqual(math3d.V3(0, 0, 1), 1e-12) {
		t.Errorf("smooth normal = %v, want +Z", n)
	}
}

func TestNewBox(t *testing.T) {
	box := NewBox(2, 1, 4)

	if box.VertexCount() != 24 {
		t.Errorf("vertices = %d, want 24", box.VertexCount())
	}
	if box.TriangleCount() != 12 {
		t.Errorf("triangles = %d, want 12", box.TriangleCount())
	}
	if box.Size() != math3d.V3(2, 1, 4) {
		t.Errorf("size = %v, want (2, 1, 4)", box.Size())
	}
	if box.Center() != math3d.Zero3() {
		t.Errorf("center = %v, want origin", box.Center())
	}

	// Every stored face normal must agree with the vertex normal of that side
	for i, f := range box.Faces {
		geometric := box.faceNormal(f).Normalize()
		declared := box.Vertices[f.V[0]].Normal
		if geometric.Dot(declared) < 0.999 {
			t.Errorf("face %d: geometric normal %v disagrees with %v", i, geometric, declared)
		}
	}
}

func TestBoxEdges(t *testing.T) {
	edges := BoxEdges(1, 1, 1)
	if len(edges) != 12 {
		t.Fatalf("edges = %d, want 12", len(edges))
	}
	for _, e := range edges {
		if l := e[0].Distance(e[1]); math.Abs(l-1) > 1e-12 {
			t.Errorf("edge %v has length %v, want 1", e, l)
		}
	}
}
