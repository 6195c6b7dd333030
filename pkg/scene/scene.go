// Package scene holds the drawable object graph: meshes, line sets and lights.
package scene

import (
	"slices"

	"github.com/google/uuid"

	"github.com/taigrr/hares/pkg/math3d"
	"github.com/taigrr/hares/pkg/models"
	"github.com/taigrr/hares/pkg/render"
)

// Node is anything that can be added to a Scene.
type Node interface {
	ID() uuid.UUID
	Label() string
}

type base struct {
	id   uuid.UUID
	Name string
}

func newBase(name string) base {
	return base{id: uuid.New(), Name: name}
}

// ID returns the node's unique identifier.
func (b *base) ID() uuid.UUID { return b.id }

// Label returns the node name.
func (b *base) Label() string { return b.Name }

// Mesh is triangle geometry drawn with a material at a position.
type Mesh struct {
	base
	Geometry *models.Mesh
	Material Material
	Position math3d.Vec3
}

// NewMesh creates a mesh node at the origin.
func NewMesh(name string, geometry *models.Mesh, material Material) *Mesh {
	return &Mesh{base: newBase(name), Geometry: geometry, Material: material}
}

// Transform returns the node's model matrix.
func (m *Mesh) Transform() math3d.Mat4 {
	return math3d.Translate(m.Position)
}

// Lines is a set of unlit line segments in local space.
type Lines struct {
	base
	Segments [][2]math3d.Vec3
	Color    render.Color
	Position math3d.Vec3
}

// NewLines creates a line set at the origin.
func NewLines(name string, segments [][2]math3d.Vec3, color render.Color) *Lines {
	return &Lines{base: newBase(name), Segments: segments, Color: color}
}

// PointLight emits light in all directions from Position.
// Distance 0 means no cutoff; Decay is the falloff exponent.
type PointLight struct {
	base
	Color     render.Color
	Intensity float64
	Distance  float64
	Decay     float64
	Position  math3d.Vec3
}

// NewPointLight creates a point light with decay 2 and no cutoff.
func NewPointLight(name string, color render.Color, intensity float64) *PointLight {
	return &PointLight{base: newBase(name), Color: color, Intensity: intensity, Decay: 2}
}

// AmbientLight lights every surface equally.
type AmbientLight struct {
	base
	Color     render.Color
	Intensity float64
}

// NewAmbientLight creates an ambient light.
func NewAmbientLight(name string, color render.Color, intensity float64) *AmbientLight {
	return &AmbientLight{base: newBase(name), Color: color, Intensity: intensity}
}

// Scene is an ordered list of nodes drawn over a background color.
type Scene struct {
	Background render.Color
	children   []Node
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{Background: render.ColorBlack}
}

// Add appends nodes in draw order.
func (s *Scene) Add(nodes ...Node) {
	s.children = append(s.children, nodes...)
}

// Remove deletes the node with id and reports whether it was present.
func (s *Scene) Remove(id uuid.UUID) bool {
	i := slices.IndexFunc(s.children, func(n Node) bool { return n.ID() == id })
	if i < 0 {
		return false
	}
	s.children = slices.Delete(s.children, i, i+1)
	return true
}

// Find returns the node with id, or nil.
func (s *Scene) Find(id uuid.UUID) Node {
	for _, n := range s.children {
		if n.ID() == id {
			return n
		}
	}
	return nil
}

// Children returns the nodes in draw order. The slice must not be modified.
func (s *Scene) Children() []Node {
	return s.children
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.children)
}

// Meshes returns the mesh nodes in draw order.
func (s *Scene) Meshes() []*Mesh {
	return collect[*Mesh](s)
}

// PointLights returns the point lights in draw order.
func (s *Scene) PointLights() []*PointLight {
	return collect[*PointLight](s)
}

func collect[T Node](s *Scene) []T {
	var out []T
	for _, n := range s.children {
		if v, ok := n.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
