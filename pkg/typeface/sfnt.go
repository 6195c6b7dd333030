package typeface

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/taigrr/hares/pkg/math3d"
)

// DefaultCharset is the set of runes extracted from sfnt fonts.
const DefaultCharset = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// FromSFNT extracts the outlines of charset from a TrueType or OpenType font.
// Runes the font does not map are skipped.
func FromSFNT(data []byte, charset string) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse sfnt: %w", err)
	}

	var buf sfnt.Buffer
	upem := float64(f.UnitsPerEm())
	// Loading at ppem == units per em yields coordinates in font units.
	ppem := fixed.Int26_6(upem * 64)

	out := &Font{
		Resolution: upem,
		Glyphs:     make(map[rune]*Glyph),
	}
	if family, err := f.Name(&buf, sfnt.NameIDFamily); err == nil {
		out.Family = family
	}
	if m, err := f.Metrics(&buf, ppem, font.HintingNone); err == nil {
		out.Ascender = fixedToFloat(m.Ascent)
		out.Descender = -fixedToFloat(m.Descent)
	}
	if b, err := f.Bounds(&buf, ppem, font.HintingNone); err == nil {
		// sfnt bounds are Y down
		out.BoundingBox = Bounds{
			MinX: fixedToFloat(b.Min.X),
			MinY: -fixedToFloat(b.Max.Y),
			MaxX: fixedToFloat(b.Max.X),
			MaxY: -fixedToFloat(b.Min.Y),
		}
	}

	for _, r := range charset {
		gid, err := f.GlyphIndex(&buf, r)
		if err != nil || gid == 0 {
			continue
		}
		segments, err := f.LoadGlyph(&buf, gid, ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("load glyph %q: %w", r, err)
		}
		advance, err := f.GlyphAdvance(&buf, gid, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("glyph advance %q: %w", r, err)
		}
		out.Glyphs[r] = &Glyph{
			Advance: fixedToFloat(advance),
			Path:    convertSegments(segments),
		}
	}
	if len(out.Glyphs) == 0 {
		return nil, fmt.Errorf("parse sfnt: %w: no glyphs for charset", ErrNoGlyph)
	}
	return out, nil
}

// Builtin returns Go Regular, embedded in the binary.
func Builtin() (*Font, error) {
	return FromSFNT(goregular.TTF, DefaultCharset)
}

func convertSegments(segments sfnt.Segments) []Op {
	ops := make([]Op, 0, len(segments))
	for _, seg := range segments {
		op := Op{}
		n := 1
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			op.Kind = MoveTo
		case sfnt.SegmentOpLineTo:
			op.Kind = LineTo
		case sfnt.SegmentOpQuadTo:
			op.Kind = QuadTo
			n = 2
		case sfnt.SegmentOpCubeTo:
			op.Kind = CubeTo
			n = 3
		}
		for i := range n {
			op.Points[i] = fixedPoint(seg.Args[i])
		}
		ops = append(ops, op)
	}
	return ops
}

// fixedPoint converts a Y-down 26.6 point to a Y-up point.
func fixedPoint(p fixed.Point26_6) math3d.Vec2 {
	return math3d.V2(fixedToFloat(p.X), -fixedToFloat(p.Y))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
