package render

import (
	"math"

	"github.com/taigrr/hares/pkg/math3d"
)

// Default projection used by the demo scene.
const (
	DefaultFOV  = 75 * math.Pi / 180
	DefaultNear = 0.1
	DefaultFar  = 1000
)

// Camera is a perspective camera looking down -Z from its position.
type Camera struct {
	Position math3d.Vec3

	FOV    float64 // Vertical field of view in radians
	Aspect float64 // Width / Height
	Near   float64
	Far    float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
}

// NewCamera creates a camera at (0, 0, 5) with a 75 degree field of view.
func NewCamera() *Camera {
	return &Camera{
		Position:  math3d.V3(0, 0, 5),
		FOV:       DefaultFOV,
		Aspect:    1,
		Near:      DefaultNear,
		Far:       DefaultFar,
		viewDirty: true,
		projDirty: true,
		vpDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
	c.vpDirty = true
}

// Translate moves the camera by delta in world space.
func (c *Camera) Translate(delta math3d.Vec3) {
	c.SetPosition(c.Position.Add(delta))
}

// SetAspect sets the aspect ratio. Non-positive values are ignored.
func (c *Camera) SetAspect(aspect float64) {
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		return
	}
	c.Aspect = aspect
	c.projDirty = true
	c.vpDirty = true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.Translate(c.Position.Negate())
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.vpDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.vpDirty = false
	}
	return c.viewProjMatrix
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	return x, y, ndc.Z, true
}
