package typeface

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/hares/pkg/math3d"
)

func TestParseOutline(t *testing.T) {
	ops, err := ParseOutline("m 0 0 l 10 0 q 20 10 15 5 b 0 0 1 2 3 4 z")
	if err != nil {
		t.Fatalf("ParseOutline: %v", err)
	}
	if len(ops) != 4 {
		t.Fatalf("got %d ops, want 4", len(ops))
	}

	wantKinds := []OpKind{MoveTo, LineTo, QuadTo, CubeTo}
	for i, k := range wantKinds {
		if ops[i].Kind != k {
			t.Errorf("op %d kind = %v, want %v", i, ops[i].Kind, k)
		}
	}

	// Quadratic: end point first in the file, control point first in Op.
	if ops[2].Points[0] != math3d.V2(15, 5) || ops[2].End() != math3d.V2(20, 10) {
		t.Errorf("quad = %+v, want control (15,5) end (20,10)", ops[2])
	}
	// Cubic: end, control 1, control 2 in the file.
	if ops[3].Points[0] != math3d.V2(1, 2) || ops[3].Points[1] != math3d.V2(3, 4) || ops[3].End() != math3d.V2(0, 0) {
		t.Errorf("cube = %+v", ops[3])
	}
}

func TestParseOutlineErrors(t *testing.T) {
	tests := []struct {
		name    string
		outline string
	}{
		{"unknown command", "m 0 0 x 1 1"},
		{"missing values", "m 0 0 l 1"},
		{"bad number", "m 0 zero"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseOutline(tc.outline); err == nil {
				t.Errorf("ParseOutline(%q) succeeded, want error", tc.outline)
			}
		})
	}
}

func TestParseEmptyOutline(t *testing.T) {
	ops, err := ParseOutline("")
	if err != nil || len(ops) != 0 {
		t.Errorf("ParseOutline(\"\") = %v, %v; want no ops", ops, err)
	}
}

func loadTestFont(t *testing.T) *Font {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "square.typeface.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	font, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return font
}

func TestParseTypeface(t *testing.T) {
	font := loadTestFont(t)

	if font.Family != "Test Square" || font.Resolution != 1000 {
		t.Errorf("header = %q/%v", font.Family, font.Resolution)
	}
	if len(font.Glyphs) != 4 {
		t.Errorf("got %d glyphs, want 4", len(font.Glyphs))
	}
	if got := font.LineHeight(); got != 1050 {
		t.Errorf("LineHeight = %v, want 1050", got)
	}

	a, err := font.Glyph('A')
	if err != nil {
		t.Fatalf("Glyph('A'): %v", err)
	}
	if a.Advance != 1000 || len(a.Path) != 4 {
		t.Errorf("A = advance %v, %d ops", a.Advance, len(a.Path))
	}
}

func TestGlyphFallback(t *testing.T) {
	font := loadTestFont(t)

	g, err := font.Glyph('Z')
	if err != nil {
		t.Fatalf("Glyph('Z'): %v", err)
	}
	if g != font.Glyphs['?'] {
		t.Error("missing glyph should fall back to '?'")
	}

	delete(font.Glyphs, '?')
	if _, err := font.Glyph('Z'); !errors.Is(err, ErrNoGlyph) {
		t.Errorf("err = %v, want ErrNoGlyph", err)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "<html>"},
		{"no glyphs", `{"resolution": 1000, "glyphs": {}}`},
		{"bad outline", `{"glyphs": {"A": {"ha": 1, "o": "m 0"}}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.doc))
			if err == nil || !strings.Contains(err.Error(), "decode typeface") {
				t.Errorf("err = %v, want decode typeface error", err)
			}
		})
	}
}

func TestParseDefaultsResolution(t *testing.T) {
	font, err := Parse(strings.NewReader(`{"glyphs": {"A": {"ha": 1, "o": "m 0 0 l 1 0 l 1 1"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if font.Resolution != 1000 {
		t.Errorf("Resolution = %v, want 1000", font.Resolution)
	}
}

func TestBuiltin(t *testing.T) {
	font, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if font.Resolution <= 0 {
		t.Errorf("Resolution = %v", font.Resolution)
	}

	for _, r := range "A0" {
		g, ok := font.Glyphs[r]
		if !ok {
			t.Fatalf("builtin font missing %q", r)
		}
		if g.Advance <= 0 || len(g.Path) == 0 {
			t.Errorf("%q: advance %v, %d ops", r, g.Advance, len(g.Path))
		}
		if g.Path[0].Kind != MoveTo {
			t.Errorf("%q: first op %v, want move", r, g.Path[0].Kind)
		}
	}

	// Y up: the top of 'A' is above the baseline.
	var maxY float64
	for _, op := range font.Glyphs['A'].Path {
		maxY = max(maxY, op.End().Y)
	}
	if maxY <= 0 {
		t.Errorf("'A' max Y = %v, want positive", maxY)
	}
}

func TestHTTPSource(t *testing.T) {
	doc, err := os.ReadFile(filepath.Join("testdata", "square.typeface.json"))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/font.json" {
			http.NotFound(w, r)
			return
		}
		w.Write(doc)
	}))
	defer srv.Close()

	t.Run("ok", func(t *testing.T) {
		font, err := HTTPSource{URL: srv.URL + "/font.json"}.Load(context.Background())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if _, ok := font.Glyphs['0']; !ok {
			t.Error("font missing '0'")
		}
	})

	t.Run("status", func(t *testing.T) {
		_, err := HTTPSource{URL: srv.URL + "/missing"}.Load(context.Background())
		if err == nil || !strings.Contains(err.Error(), "unexpected status 404") {
			t.Errorf("err = %v, want unexpected status", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := HTTPSource{URL: srv.URL + "/font.json"}.Load(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestHTTPSourceDefaultURL(t *testing.T) {
	if got := (HTTPSource{}).String(); got != DefaultURL {
		t.Errorf("String() = %q, want %q", got, DefaultURL)
	}
}

func TestFileSource(t *testing.T) {
	font, err := FileSource{Path: filepath.Join("testdata", "square.typeface.json")}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load json: %v", err)
	}
	if font.Family != "Test Square" {
		t.Errorf("Family = %q", font.Family)
	}

	if _, err := (FileSource{Path: "testdata/nope.json"}).Load(context.Background()); err == nil {
		t.Error("missing file should fail")
	}

	txt := filepath.Join(t.TempDir(), "font.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (FileSource{Path: txt}).Load(context.Background()); err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("err = %v, want unsupported format", err)
	}
}

type failingSource struct{ err error }

func (s failingSource) Load(context.Context) (*Font, error) { return nil, s.err }
func (s failingSource) String() string                      { return "failing" }

func TestFallbackSource(t *testing.T) {
	primaryErr := errors.New("offline")

	var reported error
	src := FallbackSource{
		Primary:    failingSource{err: primaryErr},
		Secondary:  BuiltinSource{},
		OnFallback: func(err error) { reported = err },
	}
	font, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if font == nil || !errors.Is(reported, primaryErr) {
		t.Errorf("font = %v, reported = %v", font, reported)
	}

	both := FallbackSource{Primary: failingSource{err: primaryErr}, Secondary: failingSource{err: errors.New("also")}}
	if _, err := both.Load(context.Background()); !errors.Is(err, primaryErr) {
		t.Errorf("err = %v, want wrapped primary error", err)
	}
}
