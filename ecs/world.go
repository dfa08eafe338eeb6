package ecs

import (
	"sort"

	"github.com/veldrane/helix/ecs/component"
)

// System updates a world once per fixed step.
type System interface {
	Update(w *World, dt float64)
}

// ComponentRef is the type-erased view of a component.ComponentKind[T],
// letting kinds of different T travel through one variadic Query call.
type ComponentRef interface {
	ID() component.ComponentID
	Valid() bool
}

// World owns entities, per-kind component storage, and the frame event queue.
type World struct {
	generations []generation
	freeIDs     []entityID
	alive       int

	stores map[component.ComponentID]*sparseSet

	scheduler Scheduler
	events    EventQueue
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]*sparseSet),
	}
}

// CreateEntity allocates a new entity, recycling freed ids with a bumped
// generation.
func (w *World) CreateEntity() Entity {
	var id entityID
	if n := len(w.freeIDs); n > 0 {
		id = w.freeIDs[n-1]
		w.freeIDs = w.freeIDs[:n-1]
	} else {
		w.generations = append(w.generations, 0)
		id = entityID(len(w.generations))
	}
	w.alive++
	return makeEntity(id, w.generations[id-1])
}

// DestroyEntity removes all components and invalidates the handle. Returns
// false for stale or invalid handles.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	id := e.id()
	for _, s := range w.stores {
		s.remove(id)
	}
	w.generations[id-1]++
	w.freeIDs = append(w.freeIDs, id)
	w.alive--
	return true
}

// IsAlive reports whether the handle refers to a live entity.
func (w *World) IsAlive(e Entity) bool {
	if w == nil || !e.Valid() {
		return false
	}
	id := e.id()
	if int(id) > len(w.generations) {
		return false
	}
	return w.generations[id-1] == e.generation()
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	if w == nil {
		return 0
	}
	return w.alive
}

func (w *World) store(id component.ComponentID) *sparseSet {
	s, ok := w.stores[id]
	if !ok {
		s = &sparseSet{}
		w.stores[id] = s
	}
	return s
}

// AddComponent attaches (or replaces) a component value on an entity.
func (w *World) AddComponent(e Entity, kind component.ComponentID, v any) error {
	if kind == 0 {
		return component.ErrInvalidComponentKind
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	if v == nil {
		return component.ErrNilComponent
	}
	w.store(kind).set(e.id(), v)
	return nil
}

// GetComponent returns the stored value for a component kind.
func (w *World) GetComponent(e Entity, kind component.ComponentID) (any, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	s, ok := w.stores[kind]
	if !ok {
		return nil, false
	}
	return s.get(e.id())
}

// HasComponent reports whether the entity carries the component kind.
func (w *World) HasComponent(e Entity, kind component.ComponentID) bool {
	if !w.IsAlive(e) {
		return false
	}
	s, ok := w.stores[kind]
	return ok && s.has(e.id())
}

// RemoveComponent detaches a component, reporting whether it was present.
func (w *World) RemoveComponent(e Entity, kind component.ComponentID) bool {
	if !w.IsAlive(e) {
		return false
	}
	s, ok := w.stores[kind]
	if !ok {
		return false
	}
	return s.remove(e.id())
}

// Query returns the live entities carrying every listed component kind,
// ordered by id. Iteration starts from the smallest store.
func (w *World) Query(refs ...ComponentRef) []Entity {
	if w == nil || len(refs) == 0 {
		return nil
	}

	sets := make([]*sparseSet, 0, len(refs))
	for _, ref := range refs {
		if ref == nil || !ref.Valid() {
			return nil
		}
		s, ok := w.stores[ref.ID()]
		if !ok || s.len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}

	base := sets[0]
	for _, s := range sets[1:] {
		if s.len() < base.len() {
			base = s
		}
	}

	out := make([]Entity, 0, base.len())
outer:
	for _, id := range base.denseIDs {
		for _, s := range sets {
			if s == base {
				continue
			}
			if !s.has(id) {
				continue outer
			}
		}
		out = append(out, makeEntity(id, w.generations[id-1]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id() < out[j].id() })
	return out
}

// First returns the lowest-id entity carrying the component kind.
func (w *World) First(ref ComponentRef) (Entity, bool) {
	ents := w.Query(ref)
	if len(ents) == 0 {
		return NilEntity, false
	}
	return ents[0], true
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	w.scheduler.Add(s)
}

// Update runs all systems once, then flushes any undrained events so stale
// payloads never leak into the next frame.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	w.scheduler.Update(w, dt)
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
