package models

import "github.com/taigrr/hares/pkg/math3d"

// boxFaces lists each box side as an outward normal n and in-plane axes u, v
// with u x v = n, so the corners c-u-v, c+u-v, c+u+v, c-u+v are counter-clockwise.
var boxFaces = [6][3]math3d.Vec3{
	{{X: 1}, {Z: -1}, {Y: 1}},  // +X
	{{X: -1}, {Z: 1}, {Y: 1}},  // -X
	{{Y: 1}, {X: 1}, {Z: -1}},  // +Y
	{{Y: -1}, {X: 1}, {Z: 1}},  // -Y
	{{Z: 1}, {X: 1}, {Y: 1}},   // +Z
	{{Z: -1}, {X: -1}, {Y: 1}}, // -Z
}

// NewBox builds an axis-aligned box centered at the origin.
// Each side has its own four vertices so normals stay flat.
func NewBox(width, height, depth float64) *Mesh {
	m := NewMesh("box")
	half := math3d.V3(width/2, height/2, depth/2)

	for _, f := range boxFaces {
		n, u, v := f[0], half.Mul(f[1]), half.Mul(f[2])
		c := half.Mul(n)

		i0 := m.AddVertex(c.Sub(u).Sub(v), n)
		i1 := m.AddVertex(c.Add(u).Sub(v), n)
		i2 := m.AddVertex(c.Add(u).Add(v), n)
		i3 := m.AddVertex(c.Sub(u).Add(v), n)

		m.AddTriangle(i0, i1, i2)
		m.AddTriangle(i0, i2, i3)
	}

	m.CalculateBounds()
	return m
}

// BoxEdges returns the 12 edges of an axis-aligned box centered at the origin.
func BoxEdges(width, height, depth float64) [][2]math3d.Vec3 {
	x, y, z := width/2, height/2, depth/2
	c := [8]math3d.Vec3{
		{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z},
		{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0}, // back
		{4, 5}, {5, 6}, {6, 7}, {7, 4}, // front
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // connecting
	}

	out := make([][2]math3d.Vec3, len(edges))
	for i, e := range edges {
		out[i] = [2]math3d.Vec3{c[e[0]], c[e[1]]}
	}
	return out
}
