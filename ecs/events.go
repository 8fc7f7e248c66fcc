package ecs

// EventType identifies world events raised by systems.
type EventType string

const (
	EventPlatformTriggered EventType = "platform_triggered"
	EventPlatformFell      EventType = "platform_fell"
	EventPlatformCulled    EventType = "platform_culled"
	EventAgentCulled       EventType = "agent_culled"
	EventNodeReached       EventType = "node_reached"
)

// Event is a world event. Entity may no longer be alive when drained.
type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// EventQueue is a FIFO drained by the owner of the world once per tick.
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

// Len returns the number of pending events.
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
