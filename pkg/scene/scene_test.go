package scene

import (
	"math"
	"testing"

	"github.com/taigrr/hares/pkg/math3d"
	"github.com/taigrr/hares/pkg/models"
	"github.com/taigrr/hares/pkg/render"
)

func TestSceneAddFindRemove(t *testing.T) {
	s := New()
	a := NewMesh("A", models.NewBox(1, 1, 1), BasicMaterial(render.ColorGreen))
	b := NewMesh("0", models.NewBox(1, 1, 1), BasicMaterial(render.ColorBlue))
	light := NewPointLight("light", render.ColorWhite, 1)
	s.Add(a, b, light)

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if a.ID() == b.ID() {
		t.Error("nodes share an ID")
	}
	if s.Find(b.ID()) != b {
		t.Error("Find did not return the added node")
	}
	if got := s.Children()[2].Label(); got != "light" {
		t.Errorf("third child = %q, want light", got)
	}

	if !s.Remove(a.ID()) {
		t.Fatal("Remove returned false")
	}
	if s.Remove(a.ID()) {
		t.Error("second Remove should return false")
	}
	if s.Find(a.ID()) != nil || s.Len() != 2 {
		t.Errorf("after remove: Len = %d", s.Len())
	}
}

func TestSceneCollect(t *testing.T) {
	s := New()
	s.Add(
		NewMesh("A", nil, BasicMaterial(render.ColorGreen)),
		NewLines("edges", models.BoxEdges(1, 1, 1), render.ColorWhite),
		NewPointLight("key", render.ColorWhite, 1),
		NewPointLight("fill", render.ColorWhite, 1),
		NewAmbientLight("ambient", render.Hex(0x404040), 1),
	)

	if n := len(s.Meshes()); n != 1 {
		t.Errorf("Meshes = %d, want 1", n)
	}
	lights := s.PointLights()
	if len(lights) != 2 || lights[0].Label() != "key" {
		t.Errorf("PointLights = %v", lights)
	}
}

func TestBasicShaderIgnoresLights(t *testing.T) {
	s := New()
	s.Add(NewAmbientLight("ambient", render.ColorWhite, 1))
	shade := gatherLights(s).shader(BasicMaterial(render.ColorGreen))

	if got := shade(math3d.Zero3(), math3d.V3(0, 0, 1)); got != render.ColorGreen {
		t.Errorf("basic shade = %v, want green", got)
	}
}

func TestStandardShader(t *testing.T) {
	s := New()
	light := NewPointLight("key", render.ColorWhite, 25)
	light.Position = math3d.V3(0, 0, 5)
	s.Add(light)
	lights := gatherLights(s)

	t.Run("lambert with decay", func(t *testing.T) {
		shade := lights.shader(StandardMaterial(render.RGB(200, 100, 0)))
		got := shade(math3d.Zero3(), math3d.V3(0, 0, 1))
		if got != render.RGB(200, 100, 0) {
			t.Errorf("lit color = %v, want full base color", got)
		}
	})

	t.Run("facing away", func(t *testing.T) {
		shade := lights.shader(StandardMaterial(render.ColorWhite))
		if got := shade(math3d.Zero3(), math3d.V3(0, 0, -1)); got != render.ColorBlack {
			t.Errorf("unlit color = %v, want black", got)
		}
	})

	t.Run("emissive", func(t *testing.T) {
		m := StandardMaterial(render.ColorWhite)
		m.Emissive = render.ColorMagenta
		shade := lights.shader(m)
		if got := shade(math3d.Zero3(), math3d.V3(0, 0, -1)); got != render.ColorMagenta {
			t.Errorf("emissive color = %v, want magenta", got)
		}
	})

	t.Run("ambient", func(t *testing.T) {
		amb := New()
		amb.Add(NewAmbientLight("ambient", render.Hex(0x808080), 1))
		shade := gatherLights(amb).shader(StandardMaterial(render.ColorWhite))
		if got := shade(math3d.Zero3(), math3d.V3(0, 0, 1)); got != render.Hex(0x808080) {
			t.Errorf("ambient color = %v, want 0x808080", got)
		}
	})
}

func TestAttenuation(t *testing.T) {
	if got := attenuation(2, 0, 2); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("attenuation(2, 0, 2) = %v, want 0.25", got)
	}
	if got := attenuation(3, 0, 0); got != 1 {
		t.Errorf("decay 0 = %v, want 1", got)
	}
	if got := attenuation(10, 10, 2); got != 0 {
		t.Errorf("at cutoff = %v, want 0", got)
	}
	if got := attenuation(0.01, 0, 2); math.Abs(got-100) > 1e-9 {
		t.Errorf("near light = %v, want clamp at 100", got)
	}
}

func newTestRenderer(w, h int) *Renderer {
	cam := render.NewCamera()
	cam.SetAspect(float64(w) / float64(h))
	return NewRenderer(cam, w, h)
}

func TestRendererDrawsMeshes(t *testing.T) {
	r := newTestRenderer(64, 64)
	s := New()

	cube := StandardMaterial(render.ColorWhite)
	cube.Emissive = render.ColorMagenta
	s.Add(NewMesh("cube", models.NewBox(1, 1, 1), cube))

	far := NewMesh("far", models.NewBox(1, 1, 1), BasicMaterial(render.ColorGreen))
	far.Position = math3d.V3(500, 0, 0)
	s.Add(far)

	fb := r.Render(s)
	if got := fb.GetPixel(32, 32); got != render.ColorMagenta {
		t.Errorf("center = %v, want magenta cube", got)
	}
	if got := fb.GetPixel(0, 0); got != s.Background {
		t.Errorf("corner = %v, want background", got)
	}

	stats := r.Stats()
	if stats.MeshesTested != 2 || stats.MeshesCulled != 1 {
		t.Errorf("stats = %+v, want 2 tested 1 culled", stats)
	}
}

func TestRendererWireframeAndLines(t *testing.T) {
	r := newTestRenderer(64, 64)
	s := New()

	wire := BasicMaterial(render.ColorGreen)
	wire.Wireframe = true
	s.Add(NewMesh("wire", models.NewBox(1, 1, 1), wire))
	edges := NewLines("edges", models.BoxEdges(2, 2, 2), render.ColorWhite)
	s.Add(edges)

	fb := r.Render(s)
	var green, white int
	for _, c := range fb.Pixels {
		switch c {
		case render.ColorGreen:
			green++
		case render.ColorWhite:
			white++
		}
	}
	if green == 0 || white == 0 {
		t.Errorf("green=%d white=%d, want both drawn", green, white)
	}
	if got := fb.GetPixel(34, 32); got != s.Background {
		t.Errorf("face interior = %v, want background", got)
	}
}

func TestRendererSetSize(t *testing.T) {
	r := newTestRenderer(10, 10)
	before := r.Framebuffer()

	r.SetSize(10, 10)
	if r.Framebuffer() != before {
		t.Error("unchanged size should keep the framebuffer")
	}

	r.SetSize(40, 20)
	w, h := r.Size()
	if w != 40 || h != 20 {
		t.Errorf("Size = %dx%d, want 40x20", w, h)
	}
	fb := r.Render(New())
	if len(fb.Pixels) != 800 {
		t.Errorf("rendered %d pixels, want 800", len(fb.Pixels))
	}

	r.SetSize(-1, 5)
	if w, _ := r.Size(); w != 0 {
		t.Errorf("negative width clamped to %d, want 0", w)
	}
	r.Render(New())
}
