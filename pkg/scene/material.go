package scene

import (
	"math"

	"github.com/taigrr/hares/pkg/math3d"
	"github.com/taigrr/hares/pkg/render"
)

// Shading selects how a material responds to light.
type Shading int

const (
	// Basic materials ignore lights.
	Basic Shading = iota
	// Standard materials use ambient and Lambert point lighting plus emission.
	Standard
)

// Material describes a mesh surface.
type Material struct {
	Shading           Shading
	Color             render.Color
	Emissive          render.Color
	EmissiveIntensity float64
	Wireframe         bool
}

// BasicMaterial returns an unlit material.
func BasicMaterial(color render.Color) Material {
	return Material{Shading: Basic, Color: color}
}

// StandardMaterial returns a lit material with no emission.
func StandardMaterial(color render.Color) Material {
	return Material{Shading: Standard, Color: color, EmissiveIntensity: 1}
}

// lighting is the light state gathered once per frame.
type lighting struct {
	ambient [3]float64
	points  []*PointLight
}

func gatherLights(s *Scene) lighting {
	var l lighting
	for _, n := range s.children {
		switch v := n.(type) {
		case *AmbientLight:
			c := toLinear(v.Color)
			for i := range l.ambient {
				l.ambient[i] += c[i] * v.Intensity
			}
		case *PointLight:
			l.points = append(l.points, v)
		}
	}
	return l
}

// shader returns the per-vertex color function for m.
func (l lighting) shader(m Material) render.VertexShader {
	if m.Shading == Basic {
		c := m.Color
		return func(_, _ math3d.Vec3) render.Color { return c }
	}

	base := toLinear(m.Color)
	emissive := toLinear(m.Emissive)
	for i := range emissive {
		emissive[i] *= m.EmissiveIntensity
	}

	return func(pos, normal math3d.Vec3) render.Color {
		light := l.ambient
		for _, p := range l.points {
			toLight := p.Position.Sub(pos)
			d := toLight.Len()
			if d == 0 {
				continue
			}
			lambert := math.Max(0, normal.Dot(toLight.Scale(1/d)))
			if lambert == 0 {
				continue
			}
			k := lambert * p.Intensity * attenuation(d, p.Distance, p.Decay)
			c := toLinear(p.Color)
			for i := range light {
				light[i] += c[i] * k
			}
		}

		var out [3]float64
		for i := range out {
			out[i] = base[i]*light[i] + emissive[i]
		}
		return render.RGB(
			render.Clamp8(out[0]*255),
			render.Clamp8(out[1]*255),
			render.Clamp8(out[2]*255),
		)
	}
}

// attenuation is inverse-power falloff with an optional smooth cutoff.
func attenuation(d, cutoff, decay float64) float64 {
	falloff := 1 / math.Max(math.Pow(d, decay), 0.01)
	if cutoff > 0 {
		r := d / cutoff
		w := math.Max(0, 1-r*r*r*r)
		falloff *= w * w
	}
	return falloff
}

func toLinear(c render.Color) [3]float64 {
	return [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}
