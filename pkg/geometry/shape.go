// Package geometry turns glyph outlines into extruded triangle meshes.
package geometry

import (
	"math"
	"slices"

	"github.com/taigrr/hares/pkg/math3d"
	"github.com/taigrr/hares/pkg/typeface"
)

// Contour is a closed polygon. The closing edge is implicit.
type Contour []math3d.Vec2

// Shape is an outer contour with the holes cut out of it.
// Outer is counter-clockwise and holes are clockwise.
type Shape struct {
	Outer Contour
	Holes []Contour
}

// SignedArea returns the area of c, positive when counter-clockwise.
func (c Contour) SignedArea() float64 {
	var a float64
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].Cross(c[j])
	}
	return a / 2
}

// Contains reports whether p lies inside c (even-odd rule).
func (c Contour) Contains(p math3d.Vec2) bool {
	inside := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

func (c Contour) reversed() Contour {
	out := slices.Clone(c)
	slices.Reverse(out)
	return out
}

// Flatten converts an outline path into contours, scaling every point by
// scale and then adding offset. Curves are split into segments steps.
func Flatten(path []typeface.Op, scale float64, offset math3d.Vec2, segments int) []Contour {
	if segments < 1 {
		segments = 1
	}
	xf := func(p math3d.Vec2) math3d.Vec2 { return p.Scale(scale).Add(offset) }

	var contours []Contour
	var cur Contour
	var pen math3d.Vec2

	flush := func() {
		if c := cleanContour(cur); len(c) >= 3 {
			contours = append(contours, c)
		}
		cur = nil
	}

	for _, op := range path {
		switch op.Kind {
		case typeface.MoveTo:
			flush()
			pen = xf(op.Points[0])
			cur = append(cur, pen)
		case typeface.LineTo:
			pen = xf(op.Points[0])
			cur = append(cur, pen)
		case typeface.QuadTo:
			p0, c, p1 := pen, xf(op.Points[0]), xf(op.Points[1])
			for i := 1; i <= segments; i++ {
				t := float64(i) / float64(segments)
				u := 1 - t
				cur = append(cur, p0.Scale(u*u).Add(c.Scale(2*u*t)).Add(p1.Scale(t*t)))
			}
			pen = p1
		case typeface.CubeTo:
			p0, c1, c2, p1 := pen, xf(op.Points[0]), xf(op.Points[1]), xf(op.Points[2])
			for i := 1; i <= segments; i++ {
				t := float64(i) / float64(segments)
				u := 1 - t
				cur = append(cur, p0.Scale(u*u*u).
					Add(c1.Scale(3*u*u*t)).
					Add(c2.Scale(3*u*t*t)).
					Add(p1.Scale(t*t*t)))
			}
			pen = p1
		}
	}
	flush()
	return contours
}

const pointEpsilon = 1e-9

// cleanContour drops repeated points, including a closing point equal to the
// first, and collinear runs.
func cleanContour(c Contour) Contour {
	out := make(Contour, 0, len(c))
	for _, p := range c {
		if len(out) > 0 && out[len(out)-1].Equals(p, pointEpsilon) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0].Equals(out[len(out)-1], pointEpsilon) {
		out = out[:len(out)-1]
	}

	// Remove collinear points so ear clipping only sees real corners.
	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if math.Abs(out[i].Sub(prev).Cross(next.Sub(out[i]))) <= pointEpsilon {
				out = slices.Delete(out, i, i+1)
				changed = true
				i--
			}
		}
	}
	return out
}

// Classify groups contours into shapes by containment depth: a contour inside
// an even number of others is an outer boundary, an odd number makes it a hole
// of the innermost outer that contains it. Orientation of the input is ignored.
func Classify(contours []Contour) []Shape {
	depth := make([]int, len(contours))
	for i, c := range contours {
		for j, other := range contours {
			if i != j && other.Contains(c[0]) {
				depth[i]++
			}
		}
	}

	shapeOf := make(map[int]int)
	var shapes []Shape
	for i, c := range contours {
		if depth[i]%2 != 0 {
			continue
		}
		if c.SignedArea() < 0 {
			c = c.reversed()
		}
		shapeOf[i] = len(shapes)
		shapes = append(shapes, Shape{Outer: c})
	}

	for i, c := range contours {
		if depth[i]%2 == 0 {
			continue
		}
		parent := -1
		for j := range contours {
			if depth[j] == depth[i]-1 && contours[j].Contains(c[0]) {
				parent = j
				break
			}
		}
		if parent < 0 {
			continue
		}
		if c.SignedArea() > 0 {
			c = c.reversed()
		}
		s := &shapes[shapeOf[parent]]
		s.Holes = append(s.Holes, c)
	}
	return shapes
}
