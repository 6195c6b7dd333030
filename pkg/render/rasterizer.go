// Package render provides software rasterization onto a half-block framebuffer.
package render

import (
	"math"

	"github.com/taigrr/hares/pkg/math3d"
)

// Vertex represents a vertex with all attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3 // World normal
	Color    Color       // Shaded vertex color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// VertexShader computes the color of a vertex from its world position and
// world normal.
type VertexShader func(pos, normal math3d.Vec3) Color

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64    // Depth buffer (1D array, row-major)
	frustum                Frustum      // Cached frustum planes
	frustumDirty           bool         // Whether frustum needs recalculation
	CullingStats           CullingStats // Statistics for debugging/benchmarking
	DisableBackfaceCulling bool         // If true, render both sides of triangles
}

// CullingStats tracks frustum culling performance.
type CullingStats struct {
	MeshesTested int // Total meshes tested for culling
	MeshesCulled int // Meshes culled (not rendered)
	MeshesDrawn  int // Meshes that passed culling
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
	}
	r.Resize()
	return r
}

// SetFramebuffer retargets the rasterizer and reallocates its depth buffer.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
	r.Resize()
}

// Framebuffer returns the current render target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.frustumDirty = true
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// InvalidateFrustum marks the frustum as needing recalculation.
// Call this when the camera moves or its aspect changes.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// UpdateFrustum recalculates the frustum planes from the camera.
func (r *Rasterizer) UpdateFrustum() {
	if r.frustumDirty {
		r.frustum = NewFrustumFromMatrix(r.camera.ViewProjectionMatrix())
		r.frustumDirty = false
	}
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisibleTransformed tests if a local-space AABB is visible after transformation.
func (r *Rasterizer) IsVisibleTransformed(localBounds AABB, transform math3d.Mat4) bool {
	r.UpdateFrustum()
	return r.frustum.IntersectAABB(localBounds.Transform(transform))
}

func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // Depth (for Z-buffer)
	W     float64
	Color Color
}

// project maps a world position to screen space. ok is false when the point
// lies on or behind the camera plane.
func (r *Rasterizer) project(viewProj math3d.Mat4, p math3d.Vec3) (sv screenVertex, ok bool) {
	clipPos := viewProj.MulVec4(math3d.V4FromV3(p, 1))
	if clipPos.W <= 0 {
		return sv, false
	}
	sv.W = clipPos.W
	sv.X = (clipPos.X/clipPos.W + 1) * 0.5 * float64(r.Width())
	sv.Y = (1 - clipPos.Y/clipPos.W) * 0.5 * float64(r.Height()) // Y flipped
	sv.Z = clipPos.Z / clipPos.W
	return sv, true
}

// DrawTriangle rasterizes a single triangle with interpolated vertex colors.
// Triangles with any vertex behind the camera are skipped.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	if r.fb == nil || len(r.zbuffer) == 0 {
		return
	}

	var sv [3]screenVertex
	viewProj := r.camera.ViewProjectionMatrix()
	for i := range 3 {
		v, ok := r.project(viewProj, tri.V[i].Position)
		if !ok {
			return
		}
		v.Color = tri.V[i].Color
		sv[i] = v
	}

	// Backface culling (using screen-space winding)
	edge1 := math3d.V2(sv[1].X-sv[0].X, sv[1].Y-sv[0].Y)
	edge2 := math3d.V2(sv[2].X-sv[0].X, sv[2].Y-sv[0].Y)
	cross := edge1.Cross(edge2)
	if cross == 0 {
		return // Degenerate
	}
	if cross < 0 && !r.DisableBackfaceCulling {
		return // Back-facing
	}

	// Find bounding box
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z >= r.getDepth(x, y) {
				continue
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc))
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		Clamp8(float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z),
		Clamp8(float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z),
		Clamp8(float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z),
	)
}

// Clamp8 rounds v to the nearest channel value in [0, 255].
func Clamp8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// MeshRenderer is the read side of a mesh the rasterizer needs.
// It keeps this package independent of the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// tryFrustumCull reports whether the mesh is outside the view frustum.
// Meshes without bounds are never culled.
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++

	minBounds, maxBounds := bounded.GetBounds()
	if !r.IsVisibleTransformed(NewAABB(minBounds, maxBounds), transform) {
		r.CullingStats.MeshesCulled++
		return true
	}

	r.CullingStats.MeshesDrawn++
	return false
}

// DrawMeshShaded renders a mesh, coloring each vertex with shade.
// Automatically performs frustum culling if the mesh provides bounds.
func (r *Rasterizer) DrawMeshShaded(mesh MeshRenderer, transform math3d.Mat4, shade VertexShader) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		var tri Triangle
		for k := range 3 {
			pos, normal, _ := mesh.GetVertex(face[k])
			worldPos := transform.MulVec3(pos)
			worldNormal := transform.MulVec3Dir(normal).Normalize()
			tri.V[k] = Vertex{
				Position: worldPos,
				Normal:   worldNormal,
				Color:    shade(worldPos, worldNormal),
			}
		}
		r.DrawTriangle(tri)
	}
}

// DrawMesh renders a mesh in a single flat color.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	r.DrawMeshShaded(mesh, transform, func(_, _ math3d.Vec3) Color { return color })
}
