package viewport

import (
	"context"
	"fmt"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/hares/internal/events"
	"github.com/taigrr/hares/pkg/render"
)

// trackedKeys are the key presses forwarded to the host.
var trackedKeys = []string{"w", "s", "a", "d", "escape", "ctrl+c"}

// Terminal is a full-screen surface drawn with half blocks in the alternate screen.
type Terminal struct {
	term *uv.Terminal

	mu  sync.Mutex
	out *render.TerminalRenderer
}

// NewTerminal wraps the process terminal. Nothing is touched until Attach.
func NewTerminal() *Terminal {
	return &Terminal{term: uv.DefaultTerminal()}
}

// Attach starts the terminal and enters the alternate screen.
func (t *Terminal) Attach() error {
	cols, rows, err := t.term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := t.term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	t.term.EnterAltScreen()
	t.term.HideCursor()
	t.term.Resize(cols, rows)

	t.mu.Lock()
	t.out = render.NewTerminalRenderer(t.term, cols, rows)
	t.mu.Unlock()
	return nil
}

// Detach restores the screen and cursor and stops the terminal.
func (t *Terminal) Detach() error {
	t.term.ExitAltScreen()
	t.term.ShowCursor()
	t.term.Shutdown(context.Background())
	return nil
}

// Size returns the framebuffer size that fills the terminal.
func (t *Terminal) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.out == nil {
		return 0, 0
	}
	return t.out.FramebufferSize()
}

// Present draws fb and flushes it to the terminal.
func (t *Terminal) Present(fb *render.Framebuffer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.out == nil {
		return ErrDetached
	}
	t.out.Render(fb)
	return t.out.Flush()
}

// Pump forwards terminal input as bus events until ctx is done or the
// terminal's event stream closes.
func (t *Terminal) Pump(ctx context.Context, out chan<- events.Event) error {
	in := t.term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-in:
			if !ok {
				return nil
			}
			e := t.translate(ev)
			if e == nil {
				continue
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (t *Terminal) translate(ev any) events.Event {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		t.mu.Lock()
		defer t.mu.Unlock()
		t.term.Erase()
		t.term.Resize(ev.Width, ev.Height)
		t.out = render.NewTerminalRenderer(t.term, ev.Width, ev.Height)
		w, h := t.out.FramebufferSize()
		return events.Resize{Width: w, Height: h}
	case uv.KeyPressEvent:
		for _, k := range trackedKeys {
			if ev.MatchString(k) {
				return events.KeyDown{Key: k}
			}
		}
	}
	return nil
}
