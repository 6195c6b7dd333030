package render

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/hares/pkg/math3d"
)

// recordingDisplay captures cells written by the terminal renderer.
type recordingDisplay struct {
	uv.Screen
	cells   map[[2]int]*uv.Cell
	flushes int
}

func newRecordingDisplay() *recordingDisplay {
	return &recordingDisplay{cells: make(map[[2]int]*uv.Cell)}
}

func (d *recordingDisplay) SetCell(x, y int, c *uv.Cell) { d.cells[[2]int{x, y}] = c }
func (d *recordingDisplay) Display() error              { d.flushes++; return nil }

func TestTerminalRendererHalfBlocks(t *testing.T) {
	display := newRecordingDisplay()
	tr := NewTerminalRenderer(display, 4, 3)

	w, h := tr.FramebufferSize()
	if w != 4 || h != 6 {
		t.Fatalf("FramebufferSize = %dx%d, want 4x6", w, h)
	}

	fb := NewFramebuffer(w, h)
	fb.Clear(ColorBlack)
	fb.SetPixel(1, 2, ColorGreen) // row 1, top half
	fb.SetPixel(1, 3, ColorBlue)  // row 1, bottom half

	tr.Render(fb)
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if len(display.cells) != 12 {
		t.Errorf("wrote %d cells, want 12", len(display.cells))
	}
	cell := display.cells[[2]int{1, 1}]
	if cell == nil {
		t.Fatal("cell (1, 1) not written")
	}
	if cell.Content != "▀" {
		t.Errorf("cell content = %q, want upper half block", cell.Content)
	}
	if cell.Style.Fg != ColorGreen || cell.Style.Bg != ColorBlue {
		t.Errorf("cell colors = %v/%v, want green over blue", cell.Style.Fg, cell.Style.Bg)
	}
	if display.flushes != 1 {
		t.Errorf("flushes = %d, want 1", display.flushes)
	}
}

func TestHex(t *testing.T) {
	if got := Hex(0xff00ff); got != ColorMagenta {
		t.Errorf("Hex(0xff00ff) = %v, want magenta", got)
	}
	if got := Hex(0x404040); got != RGB(64, 64, 64) {
		t.Errorf("Hex(0x404040) = %v", got)
	}
}

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera()
	if !cam.Position.ApproxEqual(math3d.V3(0, 0, 5), 0) {
		t.Errorf("position = %v, want (0, 0, 5)", cam.Position)
	}
	if cam.Near != 0.1 || cam.Far != 1000 {
		t.Errorf("clip planes = %v/%v, want 0.1/1000", cam.Near, cam.Far)
	}

	x, y, _, ok := cam.WorldToScreen(math3d.V3(0, 0, 0), 80, 40)
	if !ok || x != 40 || y != 20 {
		t.Errorf("origin projects to (%v, %v, %v), want screen center", x, y, ok)
	}
}

func TestCameraViewProjectionTracksChanges(t *testing.T) {
	cam := NewCamera()
	_ = cam.ViewProjectionMatrix()

	// Reading the view matrix alone must not leave the combined matrix stale.
	cam.Translate(math3d.V3(1, 0, 0))
	_ = cam.ViewMatrix()
	x, _, _, ok := cam.WorldToScreen(math3d.V3(1, 0, 0), 80, 40)
	if !ok || x != 40 {
		t.Errorf("point under moved camera projects to x=%v, want 40", x)
	}

	cam.SetAspect(2)
	_ = cam.ProjectionMatrix()
	if got := cam.ViewProjectionMatrix(); got == (math3d.Mat4{}) {
		t.Error("view-projection matrix is zero")
	}

	cam.SetAspect(0)
	if cam.Aspect != 2 {
		t.Errorf("aspect = %v after invalid update, want 2", cam.Aspect)
	}
}
