package typeface

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/taigrr/hares/pkg/math3d"
)

// typefaceFile mirrors the JSON written by the three.js facetype converter.
type typefaceFile struct {
	FamilyName         string                   `json:"familyName"`
	Resolution         float64                  `json:"resolution"`
	Ascender           float64                  `json:"ascender"`
	Descender          float64                  `json:"descender"`
	UnderlineThickness float64                  `json:"underlineThickness"`
	BoundingBox        typefaceBounds           `json:"boundingBox"`
	Glyphs             map[string]typefaceGlyph `json:"glyphs"`
}

type typefaceBounds struct {
	XMin float64 `json:"xMin"`
	YMin float64 `json:"yMin"`
	XMax float64 `json:"xMax"`
	YMax float64 `json:"yMax"`
}

type typefaceGlyph struct {
	HA      float64 `json:"ha"`
	Outline string  `json:"o"`
}

// Parse decodes a typeface JSON document.
func Parse(r io.Reader) (*Font, error) {
	var file typefaceFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode typeface: %w", err)
	}
	if len(file.Glyphs) == 0 {
		return nil, errors.New("decode typeface: no glyphs")
	}

	font := &Font{
		Family:             file.FamilyName,
		Resolution:         file.Resolution,
		Ascender:           file.Ascender,
		Descender:          file.Descender,
		UnderlineThickness: file.UnderlineThickness,
		BoundingBox: Bounds{
			MinX: file.BoundingBox.XMin,
			MinY: file.BoundingBox.YMin,
			MaxX: file.BoundingBox.XMax,
			MaxY: file.BoundingBox.YMax,
		},
		Glyphs: make(map[rune]*Glyph, len(file.Glyphs)),
	}
	if font.Resolution <= 0 {
		font.Resolution = 1000
	}

	for key, g := range file.Glyphs {
		r, size := utf8.DecodeRuneInString(key)
		if r == utf8.RuneError || size != len(key) {
			continue
		}
		path, err := ParseOutline(g.Outline)
		if err != nil {
			return nil, fmt.Errorf("decode typeface: glyph %q: %w", key, err)
		}
		font.Glyphs[r] = &Glyph{Advance: g.HA, Path: path}
	}
	return font, nil
}

// ParseOutline parses a typeface outline string such as
// "m 10 0 l 20 0 q 30 10 25 5 b 0 0 1 1 2 2 z".
// Quadratic commands list the end point before the control point; cubic
// commands list the end point before both control points.
func ParseOutline(outline string) ([]Op, error) {
	fields := strings.Fields(outline)
	var ops []Op

	for i := 0; i < len(fields); {
		cmd := fields[i]
		i++

		var n int
		switch cmd {
		case "m", "l":
			n = 2
		case "q":
			n = 4
		case "b":
			n = 6
		case "z":
			continue
		default:
			return nil, fmt.Errorf("unknown command %q at field %d", cmd, i-1)
		}

		if i+n > len(fields) {
			return nil, fmt.Errorf("command %q needs %d values", cmd, n)
		}
		var v [6]float64
		for k := range n {
			f, err := strconv.ParseFloat(fields[i+k], 64)
			if err != nil {
				return nil, fmt.Errorf("command %q: %w", cmd, err)
			}
			v[k] = f
		}
		i += n

		switch cmd {
		case "m":
			ops = append(ops, Op{Kind: MoveTo, Points: [3]math3d.Vec2{math3d.V2(v[0], v[1])}})
		case "l":
			ops = append(ops, Op{Kind: LineTo, Points: [3]math3d.Vec2{math3d.V2(v[0], v[1])}})
		case "q":
			ops = append(ops, Op{Kind: QuadTo, Points: [3]math3d.Vec2{
				math3d.V2(v[2], v[3]),
				math3d.V2(v[0], v[1]),
			}})
		case "b":
			ops = append(ops, Op{Kind: CubeTo, Points: [3]math3d.Vec2{
				math3d.V2(v[2], v[3]),
				math3d.V2(v[4], v[5]),
				math3d.V2(v[0], v[1]),
			}})
		}
	}
	return ops, nil
}
