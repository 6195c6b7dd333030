// Package viewport hosts the glyph scene on a surface: it owns the scene,
// camera and renderer, loads the font, wires input and drives the frame loop.
package viewport

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/hares/internal/events"
	"github.com/taigrr/hares/pkg/postfx"
	"github.com/taigrr/hares/pkg/render"
	"github.com/taigrr/hares/pkg/scene"
	"github.com/taigrr/hares/pkg/typeface"
)

var (
	// ErrNoSurface is returned by Mount when there is nothing to draw on.
	ErrNoSurface = errors.New("no rendering surface")
	// ErrMounted is returned by Mount on a host that is already mounted.
	ErrMounted = errors.New("viewport is already mounted")
)

// Options configure a Host.
type Options struct {
	Variant      Variant
	Source       typeface.Source
	FPS          int
	Background   render.Color
	SmoothCamera bool

	BloomStrength  float64
	BloomRadius    float64
	BloomThreshold float64
}

// DefaultOptions returns options for variant with the default bloom and an
// HTTP font source.
func DefaultOptions(variant Variant) Options {
	return Options{
		Variant:        variant,
		Source:         typeface.HTTPSource{},
		FPS:            30,
		Background:     render.ColorBlack,
		BloomStrength:  postfx.DefaultStrength,
		BloomRadius:    postfx.DefaultRadius,
		BloomThreshold: postfx.DefaultThreshold,
	}
}

type fontResult struct {
	font *typeface.Font
	err  error
}

// Host owns one mounted scene. Its methods must be called from a single
// goroutine; Run is that goroutine for interactive sessions.
type Host struct {
	opts Options
	log  *zap.Logger
	bus  *events.Bus

	surface  Surface
	scene    *scene.Scene
	camera   *render.Camera
	renderer *scene.Renderer
	composer *postfx.Composer
	controls *Controls
	rig      *cameraRig
	loop     *Loop
	subs     []*events.Subscription

	fontCh     chan fontResult
	cancelFont context.CancelFunc
	fontErr    error
	populated  bool
	mounted    bool
}

// New creates an unmounted host. A nil logger discards output.
func New(opts Options, log *zap.Logger) *Host {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Source == nil {
		opts.Source = typeface.HTTPSource{}
	}
	return &Host{
		opts: opts,
		log:  log.With(zap.String("variant", opts.Variant.Name)),
		bus:  events.New(),
		loop: NewLoop(opts.FPS),
	}
}

// Mount attaches surface, creates an empty scene and starts the font load.
func (h *Host) Mount(ctx context.Context, surface Surface) error {
	if surface == nil {
		h.log.Error("mount failed", zap.Error(ErrNoSurface))
		return ErrNoSurface
	}
	if h.mounted {
		return ErrMounted
	}
	if err := surface.Attach(); err != nil {
		return fmt.Errorf("attach surface: %w", err)
	}
	h.surface = surface
	h.mounted = true

	width, height := surface.Size()
	h.scene = scene.New()
	h.scene.Background = h.opts.Background
	h.camera = render.NewCamera()
	h.camera.SetAspect(float64(width) / float64(height))
	h.renderer = scene.NewRenderer(h.camera, width, height)
	h.composer = nil
	h.populated = false
	h.fontErr = nil

	if h.opts.SmoothCamera {
		h.rig = newCameraRig(h.opts.FPS, h.camera.Position.X)
	}
	h.controls = newControls(h.camera, h.rig)

	h.subs = append(h.subs, h.bus.Subscribe(events.KindResize, h.onResize))
	if h.opts.Variant.Movable {
		h.subs = append(h.subs, h.bus.Subscribe(events.KindKeyDown, h.controls.Handle))
	}

	h.startFontLoad(ctx)
	h.log.Info("mounted", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (h *Host) startFontLoad(ctx context.Context) {
	fctx, cancel := context.WithCancel(ctx)
	h.cancelFont = cancel

	ch := make(chan fontResult, 1)
	h.fontCh = ch
	source := h.opts.Source
	go func() {
		f, err := source.Load(fctx)
		ch <- fontResult{font: f, err: err}
	}()
}

// Unmount releases every subscription, cancels the frame loop and any
// in-flight font load, and detaches the surface. Unmounting an unmounted
// host does nothing.
func (h *Host) Unmount() error {
	if !h.mounted {
		return nil
	}
	for _, s := range h.subs {
		s.Cancel()
	}
	h.subs = nil
	h.loop.Stop()
	if h.cancelFont != nil {
		h.cancelFont()
		h.cancelFont = nil
	}
	h.fontCh = nil
	h.mounted = false

	if err := h.surface.Detach(); err != nil {
		return fmt.Errorf("detach surface: %w", err)
	}
	h.log.Info("unmounted")
	return nil
}

// Dispatch delivers e to the current subscribers.
func (h *Host) Dispatch(e events.Event) error {
	return h.bus.Publish(e)
}

func (h *Host) onResize(e events.Event) error {
	r, ok := e.(events.Resize)
	if !ok || r.Width <= 0 || r.Height <= 0 {
		return nil
	}
	h.camera.SetAspect(float64(r.Width) / float64(r.Height))
	h.renderer.SetSize(r.Width, r.Height)
	if h.composer != nil {
		h.composer.SetSize(r.Width, r.Height)
	}
	h.log.Debug("resized", zap.Int("width", r.Width), zap.Int("height", r.Height))
	return nil
}

// AwaitFont blocks until the font load finishes and applies its result.
// It returns the load error, if any.
func (h *Host) AwaitFont(ctx context.Context) error {
	if h.fontCh == nil {
		return h.fontErr
	}
	select {
	case res := <-h.fontCh:
		h.handleFont(res)
		return res.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleFont populates the scene and starts the loop. Results for a host
// that is no longer mounted are dropped.
func (h *Host) handleFont(res fontResult) {
	h.fontCh = nil
	if !h.mounted {
		return
	}
	if res.err != nil {
		h.fontErr = res.err
		h.log.Warn("font load failed", zap.Stringer("source", h.opts.Source), zap.Error(res.err))
		return
	}

	actors, err := h.opts.Variant.Build(res.font, h.scene)
	if err != nil {
		h.fontErr = err
		h.log.Warn("build scene", zap.Error(err))
		return
	}
	h.controls.Bind(actors)

	if h.opts.Variant.Bloom {
		width, height := h.renderer.Size()
		h.composer = postfx.NewComposer(width, height)
		h.composer.AddPass(postfx.NewRenderPass(h.renderer))
		h.composer.AddPass(postfx.NewBloomPass(h.opts.BloomStrength, h.opts.BloomRadius, h.opts.BloomThreshold))
	}
	h.populated = true
	h.loop.Start()
	h.log.Info("scene ready",
		zap.String("family", res.font.Family),
		zap.Int("objects", h.scene.Len()),
		zap.Duration("interval", h.loop.Interval()))
}

// Frame draws and presents one frame.
func (h *Host) Frame() error {
	if !h.mounted {
		return ErrDetached
	}
	if h.rig != nil {
		h.rig.Update(h.camera)
	}

	var fb *render.Framebuffer
	if h.composer != nil {
		var err error
		if fb, err = h.composer.Render(h.scene); err != nil {
			return err
		}
	} else {
		fb = h.renderer.Render(h.scene)
	}
	return h.surface.Present(fb)
}

// Run serves the mounted host until ctx is done or input asks to quit, then
// unmounts. Input may be nil for surfaces without input.
func (h *Host) Run(ctx context.Context, input <-chan events.Event) error {
	if !h.mounted {
		return ErrNoSurface
	}
	for {
		select {
		case <-ctx.Done():
			return h.Unmount()

		case e, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			if quit(e) {
				return h.Unmount()
			}
			if err := h.Dispatch(e); err != nil {
				h.log.Warn("dispatch", zap.Error(err))
			}

		case res := <-h.fontCh:
			h.handleFont(res)

		case <-h.loop.C():
			if err := h.Frame(); err != nil {
				h.log.Error("present frame", zap.Error(err))
				return errors.Join(fmt.Errorf("present frame: %w", err), h.Unmount())
			}
		}
	}
}

func quit(e events.Event) bool {
	k, ok := e.(events.KeyDown)
	return ok && (k.Key == "escape" || k.Key == "ctrl+c")
}

// Scene returns the host's scene, or nil before the first mount.
func (h *Host) Scene() *scene.Scene { return h.scene }

// Camera returns the host's camera.
func (h *Host) Camera() *render.Camera { return h.camera }

// Renderer returns the host's renderer.
func (h *Host) Renderer() *scene.Renderer { return h.renderer }

// Composer returns the post-processing chain, or nil when the variant draws directly.
func (h *Host) Composer() *postfx.Composer { return h.composer }

// Loop returns the frame loop.
func (h *Host) Loop() *Loop { return h.loop }

// Mounted reports whether a surface is attached.
func (h *Host) Mounted() bool { return h.mounted }

// Populated reports whether the font loaded and the scene was built.
func (h *Host) Populated() bool { return h.populated }

// Subscriptions returns the number of live input subscriptions.
func (h *Host) Subscriptions() int { return h.bus.Count() }
