package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const EventPlanetCollision = "planet_collision"

// CollisionEvent is emitted by physics when two planet shapes begin touching.
// RelVX/RelVY is the velocity of A relative to B, in units per second.
type CollisionEvent struct {
	A     Entity
	B     Entity
	RelVX float64
	RelVY float64
}

// EventQueue is a simple FIFO queue flushed at the end of every frame.
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

// Each visits the queued events of one type without consuming them.
func (q *EventQueue) Each(eventType string, fn func(Event)) {
	if q == nil || fn == nil {
		return
	}
	for _, evt := range q.items {
		if evt.Type == eventType {
			fn(evt)
		}
	}
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

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
