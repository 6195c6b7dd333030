// Package postfx chains full-frame image passes after the primary scene draw.
package postfx

import (
	"errors"

	"github.com/taigrr/hares/pkg/render"
	"github.com/taigrr/hares/pkg/scene"
)

// ErrNoPasses is returned when a composer is rendered before any pass is added.
var ErrNoPasses = errors.New("postfx: composer has no passes")

// Pass is one stage of a post-processing chain. Render receives the previous
// pass's frame (nil for the first pass) and returns the frame for the next.
type Pass interface {
	SetSize(width, height int)
	Render(s *scene.Scene, in *render.Framebuffer) *render.Framebuffer
}

// Composer runs passes in order and returns the last pass's frame.
type Composer struct {
	passes []Pass
	width  int
	height int
}

// NewComposer creates an empty chain sized width x height pixels.
func NewComposer(width, height int) *Composer {
	return &Composer{width: max(width, 0), height: max(height, 0)}
}

// AddPass appends p and sizes it to the composer.
func (c *Composer) AddPass(p Pass) {
	p.SetSize(c.width, c.height)
	c.passes = append(c.passes, p)
}

// SetSize resizes every pass.
func (c *Composer) SetSize(width, height int) {
	c.width, c.height = max(width, 0), max(height, 0)
	for _, p := range c.passes {
		p.SetSize(c.width, c.height)
	}
}

// Size returns the composer dimensions.
func (c *Composer) Size() (width, height int) {
	return c.width, c.height
}

// Len returns the number of passes.
func (c *Composer) Len() int {
	return len(c.passes)
}

// Render draws s through the chain.
func (c *Composer) Render(s *scene.Scene) (*render.Framebuffer, error) {
	if len(c.passes) == 0 {
		return nil, ErrNoPasses
	}
	var fb *render.Framebuffer
	for _, p := range c.passes {
		fb = p.Render(s, fb)
	}
	return fb, nil
}

// RenderPass draws the scene with a renderer, ignoring its input frame.
type RenderPass struct {
	renderer *scene.Renderer
}

// NewRenderPass wraps r as the first stage of a chain.
func NewRenderPass(r *scene.Renderer) *RenderPass {
	return &RenderPass{renderer: r}
}

// SetSize resizes the underlying renderer.
func (p *RenderPass) SetSize(width, height int) {
	p.renderer.SetSize(width, height)
}

// Render draws s.
func (p *RenderPass) Render(s *scene.Scene, _ *render.Framebuffer) *render.Framebuffer {
	return p.renderer.Render(s)
}
