package viewport

import (
	"errors"

	"github.com/taigrr/hares/pkg/render"
)

// ErrDetached is returned when presenting to a surface that is not attached.
var ErrDetached = errors.New("surface is not attached")

// Surface is where frames are shown. Size is in framebuffer pixels.
type Surface interface {
	Attach() error
	Detach() error
	Size() (width, height int)
	Present(fb *render.Framebuffer) error
}

// Offscreen keeps the last presented frame in memory.
type Offscreen struct {
	width, height int
	attached      bool
	frame         *render.Framebuffer
	presents      int
}

// NewOffscreen creates a width x height offscreen surface.
func NewOffscreen(width, height int) *Offscreen {
	return &Offscreen{width: max(width, 1), height: max(height, 1)}
}

func (o *Offscreen) Attach() error {
	if o.attached {
		return errors.New("surface is already attached")
	}
	o.attached = true
	return nil
}

func (o *Offscreen) Detach() error {
	o.attached = false
	return nil
}

func (o *Offscreen) Size() (width, height int) { return o.width, o.height }

// Present copies fb.
func (o *Offscreen) Present(fb *render.Framebuffer) error {
	if !o.attached {
		return ErrDetached
	}
	if o.frame == nil || o.frame.Width != fb.Width || o.frame.Height != fb.Height {
		o.frame = render.NewFramebuffer(fb.Width, fb.Height)
	}
	o.frame.CopyFrom(fb)
	o.presents++
	return nil
}

// Attached reports whether the surface is attached.
func (o *Offscreen) Attached() bool { return o.attached }

// Frame returns the last presented frame, or nil.
func (o *Offscreen) Frame() *render.Framebuffer { return o.frame }

// Presents returns the number of frames presented.
func (o *Offscreen) Presents() int { return o.presents }
