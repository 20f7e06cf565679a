package ecs

// EventType names a gameplay event.
type EventType string

const (
	EventCapture    EventType = "capture"
	EventTransition EventType = "transition"
	EventReward     EventType = "reward"
	EventPickup     EventType = "pickup"
	EventDespawn    EventType = "despawn"
	EventBark       EventType = "bark"
	EventSound      EventType = "sound"
	EventDialogue   EventType = "dialogue"
)

// Event is a gameplay event payload. Systems push them; the host drains
// them once per tick.
type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len reports how many events are pending.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
