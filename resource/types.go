package resource

// ID identifies a value in a Table. IDs start at 0, increase by one per
// Create and are never reused.
type ID uint64

// EventType classifies table lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventMiss
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventMiss:
		return "miss"
	default:
		return "unknown"
	}
}

// Event represents a table lifecycle event.
type Event struct {
	Table string
	ID    ID
	Type  EventType
}

// Observer receives notifications about table lifecycle events.
// Observers run synchronously on the caller's goroutine, outside the table lock.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnResourceEvent implements Observer.
func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }
