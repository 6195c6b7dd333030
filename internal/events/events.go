// Package events is the viewport's in-process input bus. Handlers subscribe
// by event kind and receive events synchronously in the publisher's goroutine.
package events

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Kind routes an event to its subscribers.
type Kind string

const (
	KindResize  Kind = "resize"
	KindKeyDown Kind = "keydown"
)

// Event is a message delivered by a Bus.
type Event interface {
	Kind() Kind
}

// Resize reports new viewport dimensions in framebuffer pixels.
type Resize struct {
	Width  int
	Height int
}

func (Resize) Kind() Kind { return KindResize }

// KeyDown reports a key press. Key uses ultraviolet's key string form
// ("w", "escape", "ctrl+c").
type KeyDown struct {
	Key string
}

func (KeyDown) Kind() Kind { return KindKeyDown }

// Handler is called once per delivered event.
type Handler func(Event) error

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id      uuid.UUID
	kind    Kind
	handler Handler
	bus     *Bus
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() uuid.UUID { return s.id }

// Kind returns the event kind the subscription listens to.
func (s *Subscription) Kind() Kind { return s.kind }

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	if s == nil {
		return false
	}
	s.bus.mu.RLock()
	defer s.bus.mu.RUnlock()
	return slices.Contains(s.bus.subs[s.kind], s)
}

// Cancel removes the subscription. Repeated calls and nil receivers are safe.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.bus.subs[s.kind] = slices.DeleteFunc(s.bus.subs[s.kind], func(o *Subscription) bool { return o == s })
	if len(s.bus.subs[s.kind]) == 0 {
		delete(s.bus.subs, s.kind)
	}
}

// Bus fans events out to subscribers in subscription order.
// All methods are safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs map[Kind][]*Subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Kind][]*Subscription)}
}

// Subscribe registers h for events of kind k.
func (b *Bus) Subscribe(k Kind, h Handler) *Subscription {
	s := &Subscription{id: uuid.New(), kind: k, handler: h, bus: b}
	b.mu.Lock()
	b.subs[k] = append(b.subs[k], s)
	b.mu.Unlock()
	return s
}

// Publish delivers e to every subscriber of its kind and joins their errors.
// Handlers may cancel subscriptions while being delivered to.
func (b *Bus) Publish(e Event) error {
	b.mu.RLock()
	subs := slices.Clone(b.subs[e.Kind()])
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.handler(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Count returns the number of active subscriptions across all kinds.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, s := range b.subs {
		n += len(s)
	}
	return n
}

// CountKind returns the number of active subscriptions for k.
func (b *Bus) CountKind(k Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[k])
}
