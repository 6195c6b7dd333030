package render

import (
	"github.com/taigrr/hares/pkg/math3d"
)

// minClipW keeps clipped line endpoints strictly in front of the camera.
const minClipW = 1e-5

// DrawLine3D draws a world-space line, clipping it against the camera plane.
// Lines are not depth tested.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color Color) {
	if r.fb == nil {
		return
	}
	viewProj := r.camera.ViewProjectionMatrix()

	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))

	if clipA.W <= minClipW && clipB.W <= minClipW {
		return
	}
	if clipA.W <= minClipW {
		clipA = clipToW(clipB, clipA)
	} else if clipB.W <= minClipW {
		clipB = clipToW(clipA, clipB)
	}

	x0, y0 := r.toScreen(clipA)
	x1, y1 := r.toScreen(clipB)
	r.fb.DrawLineF(x0, y0, x1, y1, color)
}

// clipToW moves out along the segment from in toward out until W reaches minClipW.
func clipToW(in, out math3d.Vec4) math3d.Vec4 {
	t := (in.W - minClipW) / (in.W - out.W)
	return math3d.V4(
		in.X+(out.X-in.X)*t,
		in.Y+(out.Y-in.Y)*t,
		in.Z+(out.Z-in.Z)*t,
		minClipW,
	)
}

func (r *Rasterizer) toScreen(clip math3d.Vec4) (x, y float64) {
	x = (clip.X/clip.W + 1) * 0.5 * float64(r.Width())
	y = (1 - clip.Y/clip.W) * 0.5 * float64(r.Height())
	return x, y
}

// DrawSegments draws local-space segments after applying transform.
func (r *Rasterizer) DrawSegments(segments [][2]math3d.Vec3, transform math3d.Mat4, color Color) {
	for _, seg := range segments {
		r.DrawLine3D(transform.MulVec3(seg[0]), transform.MulVec3(seg[1]), color)
	}
}

// DrawMeshWireframe renders a mesh as wireframe.
// Automatically performs frustum culling if the mesh provides bounds.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		r.DrawLine3D(v0, v1, color)
		r.DrawLine3D(v1, v2, color)
		r.DrawLine3D(v2, v0, color)
	}
}
