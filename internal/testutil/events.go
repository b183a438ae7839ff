package testutil

import (
	"sync"
	"time"

	"github.com/evergreen-ci/cachette"
)

// EventRecorder collects cache notifications for test assertions. It is safe
// for concurrent use from the fetch engine's goroutines.
type EventRecorder struct {
	mu     sync.Mutex
	events []cachette.Event
}

// Handle records an event. It has the signature of an event handler so it
// can be subscribed directly.
func (r *EventRecorder) Handle(e cachette.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

// Events returns a copy of all recorded events in order.
func (r *EventRecorder) Events() []cachette.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]cachette.Event{}, r.events...)
}

// Kind returns all recorded events of the given kind in order.
func (r *EventRecorder) Kind(kind cachette.EventKind) []cachette.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matching []cachette.Event
	for _, e := range r.events {
		if e.Kind == kind {
			matching = append(matching, e)
		}
	}
	return matching
}

// Count returns the number of recorded events of the given kind.
func (r *EventRecorder) Count(kind cachette.EventKind) int {
	return len(r.Kind(kind))
}

// PollUntil polls the condition until it returns true or the timeout
// elapses, and returns whether the condition was met.
func PollUntil(timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return condition()
}
