package system

import (
	"github.com/jakecoffman/cp"

	"github.com/veldrane/helix/ecs"
)

// contactPair is an unordered entity pair, canonicalized so (a,b) and (b,a)
// collapse to one key.
type contactPair struct {
	a, b ecs.Entity
}

func makeContactPair(a, b ecs.Entity) contactPair {
	if b < a {
		a, b = b, a
	}
	return contactPair{a: a, b: b}
}

// contactTracker keeps the set of touching pairs and classifies transitions
// between steps: present now but not before is a begin, present before but
// not now is an end, present in both is a stay. Pairs where either shape is
// a sensor are flagged as trigger contacts.
//
// Two maintenance paths exist. When collision handlers are available the
// live set is driven by begin/separate callbacks during Space.Step. When
// they are not (config disables them), the caller rebuilds the live set
// after each step by polling body arbiters.
type contactTracker struct {
	live map[contactPair]bool // pair -> trigger flag
	prev map[contactPair]bool
}

func newContactTracker() *contactTracker {
	return &contactTracker{
		live: make(map[contactPair]bool),
		prev: make(map[contactPair]bool),
	}
}

func (t *contactTracker) beginPair(a, b ecs.Entity, trigger bool) {
	t.live[makeContactPair(a, b)] = trigger
}

func (t *contactTracker) endPair(a, b ecs.Entity) {
	delete(t.live, makeContactPair(a, b))
}

// resetLive clears the live set ahead of a polling rebuild.
func (t *contactTracker) resetLive() {
	clear(t.live)
}

// dropEntity removes every pair involving e from both sets so a destroyed
// entity cannot produce end events against a stale handle.
func (t *contactTracker) dropEntity(e ecs.Entity) {
	for p := range t.live {
		if p.a == e || p.b == e {
			delete(t.live, p)
		}
	}
	for p := range t.prev {
		if p.a == e || p.b == e {
			delete(t.prev, p)
		}
	}
}

// emit diffs the live set against the previous step's snapshot, pushes one
// event per pair, then rolls the snapshot forward.
func (t *contactTracker) emit(events *ecs.EventQueue) {
	for p, trigger := range t.live {
		phase := ecs.ContactStay
		if _, was := t.prev[p]; !was {
			phase = ecs.ContactBegin
		}
		pushContact(events, p, phase, trigger)
	}
	for p, trigger := range t.prev {
		if _, still := t.live[p]; !still {
			pushContact(events, p, ecs.ContactEnd, trigger)
		}
	}

	t.prev, t.live = t.live, t.prev
	clear(t.live)
	for p, trigger := range t.prev {
		t.live[p] = trigger
	}
}

func pushContact(events *ecs.EventQueue, p contactPair, phase ecs.ContactPhase, trigger bool) {
	if events == nil {
		return
	}
	evtType := ecs.EventContact
	if trigger {
		evtType = ecs.EventTrigger
	}
	events.Push(ecs.Event{Type: evtType, Data: ecs.ContactEvent{
		A:       p.a,
		B:       p.b,
		Phase:   phase,
		Trigger: trigger,
	}})
}

func shapeOwner(shape *cp.Shape) (ecs.Entity, bool) {
	if shape == nil {
		return ecs.NilEntity, false
	}
	e, ok := shape.UserData.(ecs.Entity)
	return e, ok
}

func pairFromArbiter(arb *cp.Arbiter) (ecs.Entity, ecs.Entity, bool, bool) {
	shapeA, shapeB := arb.Shapes()
	a, okA := shapeOwner(shapeA)
	b, okB := shapeOwner(shapeB)
	if !okA || !okB || a == b {
		return ecs.NilEntity, ecs.NilEntity, false, false
	}
	trigger := shapeA.Sensor() || shapeB.Sensor()
	return a, b, trigger, true
}
