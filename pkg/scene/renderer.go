package scene

import (
	"github.com/taigrr/hares/pkg/math3d"
	"github.com/taigrr/hares/pkg/render"
)

// Renderer draws scenes from a camera into its own framebuffer.
type Renderer struct {
	camera *render.Camera
	fb     *render.Framebuffer
	rast   *render.Rasterizer
}

// NewRenderer creates a renderer with a width x height pixel framebuffer.
func NewRenderer(camera *render.Camera, width, height int) *Renderer {
	fb := render.NewFramebuffer(max(width, 0), max(height, 0))
	return &Renderer{
		camera: camera,
		fb:     fb,
		rast:   render.NewRasterizer(camera, fb),
	}
}

// SetSize reallocates the framebuffer. It is a no-op when unchanged.
func (r *Renderer) SetSize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == r.fb.Width && height == r.fb.Height {
		return
	}
	r.fb = render.NewFramebuffer(width, height)
	r.rast.SetFramebuffer(r.fb)
}

// Size returns the framebuffer dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.fb.Width, r.fb.Height
}

// Camera returns the camera the renderer draws from.
func (r *Renderer) Camera() *render.Camera {
	return r.camera
}

// Framebuffer returns the most recently rendered frame.
func (r *Renderer) Framebuffer() *render.Framebuffer {
	return r.fb
}

// Stats returns frustum culling statistics for the last frame.
func (r *Renderer) Stats() render.CullingStats {
	return r.rast.CullingStats
}

// Render draws s and returns the framebuffer holding the result.
func (r *Renderer) Render(s *Scene) *render.Framebuffer {
	r.fb.Clear(s.Background)
	r.rast.ClearDepth()
	r.rast.InvalidateFrustum()
	r.rast.ResetCullingStats()

	lights := gatherLights(s)
	for _, n := range s.children {
		switch v := n.(type) {
		case *Mesh:
			if v.Geometry == nil {
				continue
			}
			if v.Material.Wireframe {
				r.rast.DrawMeshWireframe(v.Geometry, v.Transform(), v.Material.Color)
				continue
			}
			r.rast.DrawMeshShaded(v.Geometry, v.Transform(), lights.shader(v.Material))
		case *Lines:
			r.rast.DrawSegments(v.Segments, math3d.Translate(v.Position), v.Color)
		}
	}
	return r.fb
}
