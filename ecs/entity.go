package ecs

import "strconv"

// Entity is a handle packing a 32-bit id with a 32-bit generation. A handle
// is stale once its id is recycled; stale handles fail IsAlive and all
// component accessors.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

// NilEntity is the zero handle; it never refers to a live entity.
const NilEntity Entity = 0

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// ID exposes the raw 32-bit id for display and external bookkeeping.
func (e Entity) ID() uint32 {
	return uint32(e.id())
}

func (e Entity) Valid() bool {
	return e.id() != 0
}
