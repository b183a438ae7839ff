package secretcache

import (
	"sync"

	"github.com/evergreen-ci/cachette"
)

// EventHandler observes cache notifications. Handlers are invoked
// synchronously from the goroutine producing the notification, so
// notifications for one alias are always delivered in the order they were
// produced. Handlers must not block for long and must be safe for concurrent
// invocation from different aliases' fetches.
type EventHandler func(cachette.Event)

type subscription struct {
	id      int
	handler EventHandler
}

// eventBus keeps an ordered list of subscribed handlers per event kind.
type eventBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[cachette.EventKind][]subscription
}

func newEventBus() *eventBus {
	return &eventBus{
		handlers: map[cachette.EventKind][]subscription{},
	}
}

func (b *eventBus) subscribe(kind cachette.EventKind, handler EventHandler) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[kind] = append(b.handlers[kind], subscription{id: b.nextID, handler: handler})
	return b.nextID
}

func (b *eventBus) unsubscribe(kind cachette.EventKind, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[kind]
	for i, sub := range subs {
		if sub.id == id {
			b.handlers[kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

func (b *eventBus) publish(e cachette.Event) {
	b.mu.RLock()
	subs := b.handlers[e.Kind]
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(e)
	}
}
