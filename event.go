package cachette

import "time"

// EventKind identifies the type of a cache notification.
type EventKind string

const (
	// EventUpdate is sent when a fetch observes a new or changed secret
	// value. The event carries the alias and the new value.
	EventUpdate EventKind = "update"
	// EventError is sent when a fetch exhausts its retries. The event
	// carries the alias (when the failure is tied to one) and the error.
	EventError EventKind = "error"
	// EventStart is sent when the scheduled refresh starts.
	EventStart EventKind = "start"
	// EventStop is sent when the scheduled refresh stops.
	EventStop EventKind = "stop"
	// EventRemove is sent when an alias mapping is removed. The event
	// carries the alias.
	EventRemove EventKind = "remove"
	// EventClear is sent when the cache is cleared.
	EventClear EventKind = "clear"
)

// Event is a notification about a change in the cache's state. Only the
// fields relevant to the event's kind are populated.
type Event struct {
	Kind      EventKind
	Alias     string
	Value     *Value
	Err       error
	Timestamp time.Time
}
