// Package typeface loads glyph outlines from three.js typeface JSON files and
// sfnt (TrueType/OpenType) fonts.
package typeface

import (
	"errors"
	"fmt"

	"github.com/taigrr/hares/pkg/math3d"
)

// ErrNoGlyph is returned when a font has neither the requested glyph nor the
// '?' replacement glyph.
var ErrNoGlyph = errors.New("glyph not found")

// OpKind identifies an outline path command.
type OpKind uint8

const (
	MoveTo OpKind = iota
	LineTo
	QuadTo
	CubeTo
)

func (k OpKind) String() string {
	switch k {
	case MoveTo:
		return "move"
	case LineTo:
		return "line"
	case QuadTo:
		return "quad"
	case CubeTo:
		return "cube"
	}
	return fmt.Sprintf("OpKind(%d)", uint8(k))
}

// Op is a single outline command in font units, Y up.
// Points holds control points first and the end point last:
// MoveTo and LineTo use Points[0], QuadTo uses Points[0..1], CubeTo uses Points[0..2].
type Op struct {
	Kind   OpKind
	Points [3]math3d.Vec2
}

// End returns the point the pen is left at after the command.
func (o Op) End() math3d.Vec2 {
	switch o.Kind {
	case QuadTo:
		return o.Points[1]
	case CubeTo:
		return o.Points[2]
	}
	return o.Points[0]
}

// Glyph is the outline and advance of a single character.
type Glyph struct {
	Advance float64 // Horizontal advance in font units
	Path    []Op
}

// Bounds is a rectangle in font units.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Font is a set of glyph outlines sharing one unit resolution.
type Font struct {
	Family             string
	Resolution         float64 // Font units per em
	Ascender           float64
	Descender          float64
	UnderlineThickness float64
	BoundingBox        Bounds
	Glyphs             map[rune]*Glyph
}

// Glyph returns the glyph for r, or the '?' glyph when r is missing.
func (f *Font) Glyph(r rune) (*Glyph, error) {
	if g, ok := f.Glyphs[r]; ok {
		return g, nil
	}
	if g, ok := f.Glyphs['?']; ok {
		return g, nil
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrNoGlyph, r, f.Family)
}

// LineHeight returns the distance between baselines in font units.
func (f *Font) LineHeight() float64 {
	h := f.BoundingBox.MaxY - f.BoundingBox.MinY + f.UnderlineThickness
	if h <= 0 {
		return f.Resolution
	}
	return h
}
