// Package busx is a small in-process publish/subscribe bus keyed by event
// name. Delivery is synchronous: Publish returns once every handler that was
// subscribed at the time of the call has run.
package busx

import (
	"context"
	"sync"
)

// Event is anything with a stable name subscribers can select on.
type Event interface {
	EventName() string
}

// Handler receives a published event.
type Handler func(ctx context.Context, ev Event)

type subscription struct {
	id      uint64
	name    string
	handler Handler
}

// Bus fans events out to the handlers subscribed to their name. The zero
// value is ready to use.
type Bus struct {
	mu   sync.RWMutex
	next uint64
	subs []subscription
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers h for events named name. Handlers only see events
// published after they subscribe. The returned func removes the handler and
// is safe to call more than once.
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.next++
	id := b.next
	b.subs = append(b.subs, subscription{id: id, name: name, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every matching handler in subscription order.
// Handlers run without the bus lock held, so they may subscribe, unsubscribe
// or publish themselves.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	name := ev.EventName()

	b.mu.RLock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.name == name {
			targets = append(targets, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range targets {
		h(ctx, ev)
	}
}

// Len reports how many handlers are subscribed to name.
func (b *Bus) Len(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, s := range b.subs {
		if s.name == name {
			n++
		}
	}
	return n
}
