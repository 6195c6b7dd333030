package geometry

import (
	"fmt"

	"github.com/taigrr/hares/pkg/math3d"
	"github.com/taigrr/hares/pkg/models"
	"github.com/taigrr/hares/pkg/typeface"
)

// TextOptions controls text geometry generation.
type TextOptions struct {
	Size          float64 // Em size in world units
	Depth         float64 // Extrusion along +Z
	CurveSegments int     // Steps per curve
}

// DefaultTextOptions matches the usual text geometry defaults.
func DefaultTextOptions() TextOptions {
	return TextOptions{Size: 1, Depth: 0.2, CurveSegments: 12}
}

// Extrude builds a closed mesh from shapes: the front cap at z=depth facing
// +Z, the back cap at z=0 facing -Z and side walls with per-edge normals.
func Extrude(name string, shapes []Shape, depth float64) (*models.Mesh, error) {
	mesh := models.NewMesh(name)
	front := math3d.V3(0, 0, 1)
	back := math3d.V3(0, 0, -1)

	for i, s := range shapes {
		points, tris, err := Triangulate(s)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}

		frontIdx := make([]int, len(points))
		backIdx := make([]int, len(points))
		for k, p := range points {
			frontIdx[k] = mesh.AddVertex(math3d.V3(p.X, p.Y, depth), front)
			backIdx[k] = mesh.AddVertex(math3d.V3(p.X, p.Y, 0), back)
		}
		for _, t := range tris {
			mesh.AddTriangle(frontIdx[t[0]], frontIdx[t[1]], frontIdx[t[2]])
			mesh.AddTriangle(backIdx[t[0]], backIdx[t[2]], backIdx[t[1]])
		}

		addWalls(mesh, s.Outer, depth)
		for _, h := range s.Holes {
			addWalls(mesh, h, depth)
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// addWalls adds one quad per edge of c. Counter-clockwise outer contours and
// clockwise holes both produce normals pointing away from the solid.
func addWalls(mesh *models.Mesh, c Contour, depth float64) {
	for i := range c {
		a, b := c[i], c[(i+1)%len(c)]
		edge := b.Sub(a)
		n := math3d.V3(edge.Y, -edge.X, 0).Normalize()

		a0 := mesh.AddVertex(math3d.V3(a.X, a.Y, 0), n)
		b0 := mesh.AddVertex(math3d.V3(b.X, b.Y, 0), n)
		b1 := mesh.AddVertex(math3d.V3(b.X, b.Y, depth), n)
		a1 := mesh.AddVertex(math3d.V3(a.X, a.Y, depth), n)
		mesh.AddTriangle(a0, b0, b1)
		mesh.AddTriangle(a0, b1, a1)
	}
}

// TextShapes lays out text with font and returns the shapes of every glyph,
// scaled so one em equals opts.Size. Newlines start a new line below.
func TextShapes(font *typeface.Font, text string, opts TextOptions) ([]Shape, error) {
	if opts.Size <= 0 {
		opts.Size = 1
	}
	scale := opts.Size / font.Resolution
	lineHeight := font.LineHeight() * scale

	var shapes []Shape
	var offset math3d.Vec2
	for _, r := range text {
		if r == '\n' {
			offset = math3d.V2(0, offset.Y-lineHeight)
			continue
		}
		g, err := font.Glyph(r)
		if err != nil {
			return nil, err
		}
		contours := Flatten(g.Path, scale, offset, opts.CurveSegments)
		shapes = append(shapes, Classify(contours)...)
		offset.X += g.Advance * scale
	}
	return shapes, nil
}

// Text builds extruded geometry for text.
func Text(font *typeface.Font, text string, opts TextOptions) (*models.Mesh, error) {
	shapes, err := TextShapes(font, text, opts)
	if err != nil {
		return nil, fmt.Errorf("text %q: %w", text, err)
	}
	mesh, err := Extrude(text, shapes, opts.Depth)
	if err != nil {
		return nil, fmt.Errorf("text %q: %w", text, err)
	}
	return mesh, nil
}
