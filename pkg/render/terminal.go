package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Display is a cell screen that can flush its contents, such as *uv.Terminal.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalRenderer presents framebuffers on a terminal using half blocks.
type TerminalRenderer struct {
	display Display
	cols    int
	rows    int
}

// NewTerminalRenderer creates a renderer for a cols x rows terminal area.
func NewTerminalRenderer(display Display, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{display: display, cols: max(cols, 0), rows: max(rows, 0)}
}

// FramebufferSize returns the framebuffer dimensions that fill the terminal.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Render draws fb onto the terminal cells. Nothing is shown until Flush.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.display, uv.Rect(0, 0, t.cols, t.rows))
}

// Flush writes pending cell changes to the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.display.Display()
}

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < r.Width; col++ {
			topColor := r.GetPixel(col, topY)
			botColor := r.GetPixel(col, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(topColor),
					Bg: rgbaToColor(botColor),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
)

// Hex creates an opaque color from a 0xRRGGBB value.
func Hex(v uint32) color.RGBA {
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}
