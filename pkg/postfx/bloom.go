package postfx

import (
	"math"

	"github.com/taigrr/hares/pkg/render"
	"github.com/taigrr/hares/pkg/scene"
)

// Default bloom parameters.
const (
	DefaultStrength  = 1.5
	DefaultRadius    = 0.4
	DefaultThreshold = 0.85
)

// smoothWidth is the soft knee above the threshold.
const smoothWidth = 0.01

// Each mip level halves the previous one and blurs with a wider kernel.
var (
	mipRadii   = [...]int{3, 5, 7, 9, 11}
	mipFactors = [...]float64{1.0, 0.8, 0.6, 0.4, 0.2}
	mipKernels = buildKernels()
)

func buildKernels() [len(mipRadii)][]float64 {
	var ks [len(mipRadii)][]float64
	for i, r := range mipRadii {
		ks[i] = gaussianKernel(r)
	}
	return ks
}

// gaussianKernel returns a normalized 1D kernel of 2*radius+1 taps with sigma = radius.
func gaussianKernel(radius int) []float64 {
	if radius <= 0 {
		return []float64{1}
	}
	k := make([]float64, 2*radius+1)
	sigma := float64(radius)
	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	for i := range k {
		x := float64(i - radius)
		k[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// bloomFactor blends a level's base weight toward its mirror by radius.
func bloomFactor(f, radius float64) float64 {
	return f + (1.2-f-f)*radius
}

// plane is an RGB image with components in [0, 1] (or above, before compositing).
type plane struct {
	w, h int
	px   []float64
}

func newPlane(w, h int) plane {
	return plane{w: w, h: h, px: make([]float64, w*h*3)}
}

// at returns the pixel at (x, y) with edge extension.
func (p *plane) at(x, y int) (r, g, b float64) {
	x = min(max(x, 0), p.w-1)
	y = min(max(y, 0), p.h-1)
	i := (y*p.w + x) * 3
	return p.px[i], p.px[i+1], p.px[i+2]
}

func (p *plane) set(x, y int, r, g, b float64) {
	i := (y*p.w + x) * 3
	p.px[i], p.px[i+1], p.px[i+2] = r, g, b
}

// sample reads p bilinearly at normalized coordinates.
func (p *plane) sample(u, v float64) (r, g, b float64) {
	fx := u*float64(p.w) - 0.5
	fy := v*float64(p.h) - 0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	r00, g00, b00 := p.at(x0, y0)
	r10, g10, b10 := p.at(x0+1, y0)
	r01, g01, b01 := p.at(x0, y0+1)
	r11, g11, b11 := p.at(x0+1, y0+1)

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }
	r = lerp(lerp(r00, r10, tx), lerp(r01, r11, tx), ty)
	g = lerp(lerp(g00, g10, tx), lerp(g01, g11, tx), ty)
	b = lerp(lerp(b00, b10, tx), lerp(b01, b11, tx), ty)
	return r, g, b
}

// BloomPass extracts bright regions, blurs them over a mip chain and adds
// the result back onto the frame.
type BloomPass struct {
	Strength  float64
	Radius    float64
	Threshold float64

	width, height int
	bright        plane
	levels        []plane
	scratch       []plane
	out           *render.Framebuffer
}

// NewBloomPass creates a bloom pass. Buffers are allocated on SetSize or on first render.
func NewBloomPass(strength, radius, threshold float64) *BloomPass {
	return &BloomPass{Strength: strength, Radius: radius, Threshold: threshold, out: render.NewFramebuffer(0, 0)}
}

// SetSize reallocates the bright-pass buffer and mip chain for width x height input.
func (b *BloomPass) SetSize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	b.width, b.height = width, height
	b.out = render.NewFramebuffer(width, height)
	b.bright = newPlane(width, height)
	b.levels = b.levels[:0]
	b.scratch = b.scratch[:0]
	if width == 0 || height == 0 {
		return
	}

	w, h := width, height
	for range mipRadii {
		w, h = max((w+1)/2, 1), max((h+1)/2, 1)
		b.levels = append(b.levels, newPlane(w, h))
		b.scratch = append(b.scratch, newPlane(w, h))
	}
}

// Render returns in with bloom added. It resizes itself to match in.
func (b *BloomPass) Render(_ *scene.Scene, in *render.Framebuffer) *render.Framebuffer {
	if in == nil {
		return nil
	}
	if in.Width != b.width || in.Height != b.height {
		b.SetSize(in.Width, in.Height)
	}
	if len(b.levels) == 0 {
		return in
	}

	b.highPass(in)
	src := &b.bright
	for i := range b.levels {
		downsample(src, &b.levels[i])
		blur(&b.levels[i], &b.scratch[i], mipKernels[i])
		src = &b.levels[i]
	}
	b.composite(in)
	return b.out
}

func (b *BloomPass) highPass(in *render.Framebuffer) {
	lo, hi := b.Threshold, b.Threshold+smoothWidth
	for y := range in.Height {
		for x := range in.Width {
			c := in.Pixels[y*in.Width+x]
			r, g, bl := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
			a := smoothstep(lo, hi, 0.299*r+0.587*g+0.114*bl)
			b.bright.set(x, y, r*a, g*a, bl*a)
		}
	}
}

func (b *BloomPass) composite(in *render.Framebuffer) {
	var weights [len(mipFactors)]float64
	for i, f := range mipFactors {
		weights[i] = bloomFactor(f, b.Radius) * b.Strength * 255
	}

	for y := range in.Height {
		v := (float64(y) + 0.5) / float64(in.Height)
		for x := range in.Width {
			u := (float64(x) + 0.5) / float64(in.Width)
			var sr, sg, sb float64
			for i := range b.levels {
				r, g, bl := b.levels[i].sample(u, v)
				sr += r * weights[i]
				sg += g * weights[i]
				sb += bl * weights[i]
			}

			idx := y*in.Width + x
			c := in.Pixels[idx]
			b.out.Pixels[idx] = render.RGBA(
				render.Clamp8(float64(c.R)+sr),
				render.Clamp8(float64(c.G)+sg),
				render.Clamp8(float64(c.B)+sb),
				c.A,
			)
		}
	}
}

// downsample box-filters src into dst at half resolution.
func downsample(src, dst *plane) {
	for y := range dst.h {
		for x := range dst.w {
			var r, g, b float64
			for dy := range 2 {
				for dx := range 2 {
					pr, pg, pb := src.at(2*x+dx, 2*y+dy)
					r, g, b = r+pr, g+pg, b+pb
				}
			}
			dst.set(x, y, r/4, g/4, b/4)
		}
	}
}

// blur applies the separable kernel to p in place using tmp.
func blur(p, tmp *plane, kernel []float64) {
	half := len(kernel) / 2
	for y := range p.h {
		for x := range p.w {
			var r, g, b float64
			for k, w := range kernel {
				pr, pg, pb := p.at(x+k-half, y)
				r, g, b = r+pr*w, g+pg*w, b+pb*w
			}
			tmp.set(x, y, r, g, b)
		}
	}
	for y := range p.h {
		for x := range p.w {
			var r, g, b float64
			for k, w := range kernel {
				pr, pg, pb := tmp.at(x, y+k-half)
				r, g, b = r+pr*w, g+pg*w, b+pb*w
			}
			p.set(x, y, r, g, b)
		}
	}
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := math.Min(math.Max((x-edge0)/(edge1-edge0), 0), 1)
	return t * t * (3 - 2*t)
}
