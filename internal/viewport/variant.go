package viewport

import (
	"errors"
	"fmt"

	"github.com/taigrr/hares/internal/config"
	"github.com/taigrr/hares/pkg/geometry"
	"github.com/taigrr/hares/pkg/math3d"
	"github.com/taigrr/hares/pkg/models"
	"github.com/taigrr/hares/pkg/render"
	"github.com/taigrr/hares/pkg/scene"
	"github.com/taigrr/hares/pkg/typeface"
)

// ErrUnknownVariant is returned by LookupVariant for names it does not know.
var ErrUnknownVariant = errors.New("unknown variant")

// Scene colors.
var (
	textAColor   = render.Hex(0x00ff00)
	text0Color   = render.Hex(0x0000ff)
	cubeColor    = render.Hex(0xff00ff)
	cubeEmissive = render.Hex(0xffd0ff)
	edgeColor    = render.Hex(0xffffff)
	ambientColor = render.Hex(0x404040)
)

// Actors are the nodes the controls move. Any of them may be nil.
type Actors struct {
	Movable  *scene.Mesh
	Light    *scene.PointLight
	Follower *scene.Lines
}

// Variant is one fixed scene layout.
type Variant struct {
	Name string
	// Movable variants subscribe to key presses.
	Movable bool
	// Bloom variants draw through a render pass and a bloom pass.
	Bloom bool
	build func(font *typeface.Font, s *scene.Scene) (Actors, error)
}

var variants = map[string]Variant{
	"basic":          {Name: "basic", build: buildBasic},
	"glow":           {Name: "glow", Movable: true, Bloom: true, build: buildGlow},
	"glow-wireframe": {Name: "glow-wireframe", Movable: true, Bloom: true, build: buildGlowWireframe},
}

// LookupVariant returns the variant called name.
func LookupVariant(name string) (Variant, error) {
	v, ok := variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w %q: want one of %v", ErrUnknownVariant, name, config.Variants)
	}
	return v, nil
}

// Build adds the variant's nodes to s.
func (v Variant) Build(font *typeface.Font, s *scene.Scene) (Actors, error) {
	return v.build(font, s)
}

func buildBasic(font *typeface.Font, s *scene.Scene) (Actors, error) {
	opts := geometry.DefaultTextOptions()
	for _, t := range []struct {
		text  string
		color render.Color
		x     float64
	}{
		{"A", textAColor, -2},
		{"0", text0Color, 2},
	} {
		geo, err := geometry.Text(font, t.text, opts)
		if err != nil {
			return Actors{}, err
		}
		m := scene.NewMesh("text "+t.text, geo, scene.BasicMaterial(t.color))
		m.Position = math3d.V3(t.x, 0, 0)
		s.Add(m)
	}
	return Actors{}, nil
}

func newCube() *scene.Mesh {
	mat := scene.StandardMaterial(cubeColor)
	mat.Emissive = cubeEmissive
	return scene.NewMesh("cube", models.NewBox(1, 1, 1), mat)
}

func newCubeLight(name string) *scene.PointLight {
	l := scene.NewPointLight(name, render.ColorWhite, 1)
	l.Distance = 100
	return l
}

func buildGlow(font *typeface.Font, s *scene.Scene) (Actors, error) {
	if _, err := buildBasic(font, s); err != nil {
		return Actors{}, err
	}
	cube := newCube()
	light := newCubeLight("cube light")
	light.Position = cube.Position
	s.Add(cube, light)
	return Actors{Movable: cube, Light: light}, nil
}

func buildGlowWireframe(font *typeface.Font, s *scene.Scene) (Actors, error) {
	actors, err := buildGlow(font, s)
	if err != nil {
		return Actors{}, err
	}
	edges := scene.NewLines("cube wireframe", models.BoxEdges(1.2, 1.2, 1.2), edgeColor)
	edges.Position = actors.Movable.Position
	fill := scene.NewPointLight("fill light", render.ColorWhite, 1)
	fill.Distance = 100
	fill.Position = math3d.V3(0, 3, 3)
	s.Add(edges, fill, scene.NewAmbientLight("ambient", ambientColor, 1))
	actors.Follower = edges
	return actors, nil
}
