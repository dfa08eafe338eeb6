package ecs

// Event is a generic world event payload.
type Event struct {
	Type string
	Data any
}

const (
	// EventContact carries a ContactEvent for solid body pairs.
	EventContact = "contact"
	// EventTrigger carries a ContactEvent where at least one shape is a
	// trigger; physical response was suppressed but the pair still runs the
	// same begin/stay/end classification.
	EventTrigger = "trigger"
)

// ContactPhase classifies a pair transition between two physics steps.
type ContactPhase int

const (
	// ContactBegin: the pair touches this step but did not touch last step.
	ContactBegin ContactPhase = iota
	// ContactStay: the pair touched last step and still touches.
	ContactStay
	// ContactEnd: the pair touched last step and no longer does.
	ContactEnd
)

func (p ContactPhase) String() string {
	switch p {
	case ContactBegin:
		return "begin"
	case ContactStay:
		return "stay"
	case ContactEnd:
		return "end"
	}
	return "unknown"
}

// ContactEvent is emitted once per pair per step by the contact system.
// A and B are ordered by entity id.
type ContactEvent struct {
	A, B    Entity
	Phase   ContactPhase
	Trigger bool
}

// EventQueue is a simple FIFO queue drained by interested systems and
// flushed at end of frame.
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

// Drain returns all pending events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of pending events.
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
