package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishByKind(t *testing.T) {
	b := New()
	var keys []string
	var resizes []Resize

	b.Subscribe(KindKeyDown, func(e Event) error {
		keys = append(keys, e.(KeyDown).Key)
		return nil
	})
	b.Subscribe(KindResize, func(e Event) error {
		resizes = append(resizes, e.(Resize))
		return nil
	})

	require.NoError(t, b.Publish(KeyDown{Key: "w"}))
	require.NoError(t, b.Publish(Resize{Width: 80, Height: 48}))
	require.NoError(t, b.Publish(KeyDown{Key: "d"}))

	assert.Equal(t, []string{"w", "d"}, keys)
	assert.Equal(t, []Resize{{Width: 80, Height: 48}}, resizes)
}

func TestPublishOrderAndErrors(t *testing.T) {
	b := New()
	var order []int
	first := errors.New("first")
	third := errors.New("third")

	b.Subscribe(KindKeyDown, func(Event) error { order = append(order, 1); return first })
	b.Subscribe(KindKeyDown, func(Event) error { order = append(order, 2); return nil })
	b.Subscribe(KindKeyDown, func(Event) error { order = append(order, 3); return third })

	err := b.Publish(KeyDown{Key: "a"})
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, third)
}

func TestCancel(t *testing.T) {
	b := New()
	calls := 0
	sub := b.Subscribe(KindResize, func(Event) error { calls++; return nil })
	other := b.Subscribe(KindKeyDown, func(Event) error { return nil })

	assert.NotEqual(t, sub.ID(), other.ID())
	assert.Equal(t, KindResize, sub.Kind())
	assert.True(t, sub.Active())
	assert.Equal(t, 2, b.Count())

	sub.Cancel()
	sub.Cancel()
	assert.False(t, sub.Active())
	assert.Equal(t, 1, b.Count())
	assert.Zero(t, b.CountKind(KindResize))

	require.NoError(t, b.Publish(Resize{Width: 1, Height: 1}))
	assert.Zero(t, calls)

	var nilSub *Subscription
	assert.NotPanics(t, nilSub.Cancel)
	assert.False(t, nilSub.Active())
}

func TestCancelDuringPublish(t *testing.T) {
	b := New()
	calls := 0
	var sub *Subscription
	sub = b.Subscribe(KindKeyDown, func(Event) error {
		calls++
		sub.Cancel()
		return nil
	})
	b.Subscribe(KindKeyDown, func(Event) error { calls++; return nil })

	require.NoError(t, b.Publish(KeyDown{Key: "s"}))
	require.NoError(t, b.Publish(KeyDown{Key: "s"}))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, b.Count())
}

func TestConcurrentSubscribe(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	subs := make([]*Subscription, 50)
	for i := range subs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subs[i] = b.Subscribe(KindKeyDown, func(Event) error { return nil })
			_ = b.Publish(KeyDown{Key: "w"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, b.Count())

	for _, s := range subs {
		s.Cancel()
	}
	assert.Zero(t, b.Count())
}
