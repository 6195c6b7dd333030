package geometry

import (
	"cmp"
	"errors"
	"slices"

	"github.com/taigrr/hares/pkg/math3d"
)

// ErrNotTriangulable is returned when a shape collapses to fewer than three vertices.
var ErrNotTriangulable = errors.New("shape cannot be triangulated")

// Triangulate returns the vertices of s (outer first, then each hole in order)
// and counter-clockwise triangles indexing them.
func Triangulate(s Shape) ([]math3d.Vec2, [][3]int, error) {
	if len(s.Outer) < 3 {
		return nil, nil, ErrNotTriangulable
	}

	points := slices.Clone(s.Outer)
	ring := make([]int, len(s.Outer))
	for i := range ring {
		ring[i] = i
	}

	type hole struct {
		start, n int
	}
	holes := make([]hole, 0, len(s.Holes))
	for _, h := range s.Holes {
		if len(h) < 3 {
			continue
		}
		holes = append(holes, hole{start: len(points), n: len(h)})
		points = append(points, h...)
	}

	// Bridge holes rightmost first so each bridge sees the holes merged before it.
	rightmost := func(h hole) int {
		best := h.start
		for i := h.start + 1; i < h.start+h.n; i++ {
			if points[i].X > points[best].X {
				best = i
			}
		}
		return best
	}
	slices.SortStableFunc(holes, func(a, b hole) int {
		return cmp.Compare(points[rightmost(b)].X, points[rightmost(a)].X)
	})

	for k, h := range holes {
		m := rightmost(h)
		// The hole being bridged also blocks its own bridge.
		pending := make([][]int, 0, len(holes)-k)
		for _, other := range holes[k:] {
			idx := make([]int, other.n)
			for i := range idx {
				idx[i] = other.start + i
			}
			pending = append(pending, idx)
		}

		at := findBridge(points, ring, pending, m)
		if at < 0 {
			return nil, nil, ErrNotTriangulable
		}

		// ring[..at], m, hole walk from m back to m, ring[at], ring[at+1..]
		merged := make([]int, 0, len(ring)+h.n+2)
		merged = append(merged, ring[:at+1]...)
		for i := range h.n + 1 {
			merged = append(merged, h.start+(m-h.start+i)%h.n)
		}
		merged = append(merged, ring[at:]...)
		ring = merged
	}

	tris := earClip(points, ring)
	if len(tris) == 0 {
		return nil, nil, ErrNotTriangulable
	}
	return points, tris, nil
}

// findBridge returns the position in ring of the closest vertex that can be
// joined to points[m] without crossing any edge, or -1.
func findBridge(points []math3d.Vec2, ring []int, pending [][]int, m int) int {
	pm := points[m]

	order := make([]int, len(ring))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(points[ring[a]].Distance(pm), points[ring[b]].Distance(pm))
	})

	for _, pos := range order {
		pp := points[ring[pos]]
		if pp.Equals(pm, pointEpsilon) {
			continue
		}
		if crossesRing(points, ring, pm, pp) {
			continue
		}
		blocked := false
		for _, h := range pending {
			if crossesRing(points, h, pm, pp) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		// The bridge must run through the filled region.
		mid := pm.Add(pp).Scale(0.5)
		if !ringContains(points, ring, mid) {
			continue
		}
		inHole := false
		for _, h := range pending {
			if ringContains(points, h, mid) {
				inHole = true
				break
			}
		}
		if !inHole {
			return pos
		}
	}
	return -1
}

// crossesRing reports whether segment a-b properly crosses an edge of ring.
// Edges touching a or b are ignored.
func crossesRing(points []math3d.Vec2, ring []int, a, b math3d.Vec2) bool {
	for i := range ring {
		c := points[ring[i]]
		d := points[ring[(i+1)%len(ring)]]
		if c.Equals(a, pointEpsilon) || c.Equals(b, pointEpsilon) ||
			d.Equals(a, pointEpsilon) || d.Equals(b, pointEpsilon) {
			continue
		}
		if segmentsIntersect(a, b, c, d) {
			return true
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 math3d.Vec2) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func onSegment(a, b, p math3d.Vec2) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// orient is positive when a, b, c turn counter-clockwise.
func orient(a, b, c math3d.Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func ringContains(points []math3d.Vec2, ring []int, p math3d.Vec2) bool {
	c := make(Contour, len(ring))
	for i, idx := range ring {
		c[i] = points[idx]
	}
	return c.Contains(p)
}

// earClip triangulates a counter-clockwise ring that may revisit vertices
// along hole bridges.
func earClip(points []math3d.Vec2, ring []int) [][3]int {
	ring = slices.Clone(ring)
	tris := make([][3]int, 0, len(ring))

	for len(ring) > 3 {
		n := len(ring)
		clipped := false
		for i := range n {
			a, b, c := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
			if !isEar(points, ring, a, b, c) {
				continue
			}
			tris = append(tris, [3]int{a, b, c})
			ring = slices.Delete(ring, i, i+1)
			clipped = true
			break
		}
		if clipped {
			continue
		}

		// No clean ear: drop a flat vertex, or force the most convex one.
		best, bestTurn := 0, -1.0
		for i := range n {
			a, b, c := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
			turn := orient(points[a], points[b], points[c])
			if turn == 0 || points[a].Equals(points[c], pointEpsilon) {
				best, bestTurn = i, 0
				break
			}
			if turn > bestTurn {
				best, bestTurn = i, turn
			}
		}
		a, b, c := ring[(best+n-1)%n], ring[best], ring[(best+1)%n]
		if bestTurn > 0 {
			tris = append(tris, [3]int{a, b, c})
		}
		ring = slices.Delete(ring, best, best+1)
	}

	if len(ring) == 3 && orient(points[ring[0]], points[ring[1]], points[ring[2]]) > 0 {
		tris = append(tris, [3]int{ring[0], ring[1], ring[2]})
	}
	return tris
}

func isEar(points []math3d.Vec2, ring []int, a, b, c int) bool {
	pa, pb, pc := points[a], points[b], points[c]
	if orient(pa, pb, pc) <= 0 {
		return false
	}
	for _, idx := range ring {
		if idx == a || idx == b || idx == c {
			continue
		}
		p := points[idx]
		if p.Equals(pa, pointEpsilon) || p.Equals(pb, pointEpsilon) || p.Equals(pc, pointEpsilon) {
			continue
		}
		if orient(pa, pb, p) >= 0 && orient(pb, pc, p) >= 0 && orient(pc, pa, p) >= 0 {
			return false
		}
	}
	return true
}
