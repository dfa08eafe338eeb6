package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
	"github.com/veldrane/helix/logging"
)

// engineCollisionType is stamped on every shape the system creates so one
// collision handler pair covers all of them.
const engineCollisionType cp.CollisionType = 1

// PhysicsConfig is the slice of engine configuration the physics system
// needs. PollContacts selects the fallback contact path: instead of
// installing collision handlers on the space, touching pairs are rebuilt
// after each step by walking body arbiters.
type PhysicsConfig struct {
	GravityX     float64
	GravityY     float64
	TimeStep     float64
	MaxSubSteps  int
	Iterations   int
	Damping      float64
	PollContacts bool
}

// PhysicsSystem adapts the ECS to the Chipmunk space: it owns body and
// shape lifecycle, steps the simulation on a bounded fixed-timestep clock,
// mirrors body state back into Transform/Velocity components, and runs the
// contact diff bookkeeping. All of the actual collision detection and
// solving belongs to the wrapped library.
type PhysicsSystem struct {
	space       *cp.Space
	clock       stepClock
	cfg         PhysicsConfig
	bodies      map[ecs.Entity]*bodyEntry
	tracker     *contactTracker
	boundsBuilt map[ecs.Entity]bool
}

type bodyEntry struct {
	body   *cp.Body
	shape  *cp.Shape
	shapes []*cp.Shape
	kind   component.BodyKind
	sensor bool
}

func NewPhysicsSystem(cfg PhysicsConfig) *PhysicsSystem {
	space := cp.NewSpace()
	if cfg.Iterations > 0 {
		space.Iterations = uint(cfg.Iterations)
	} else {
		space.Iterations = 10
	}
	space.SetGravity(cp.Vector{X: cfg.GravityX, Y: cfg.GravityY})
	if cfg.Damping > 0 {
		space.SetDamping(cfg.Damping)
	}

	ps := &PhysicsSystem{
		space:       space,
		clock:       newStepClock(cfg.TimeStep, cfg.MaxSubSteps),
		cfg:         cfg,
		bodies:      make(map[ecs.Entity]*bodyEntry),
		tracker:     newContactTracker(),
		boundsBuilt: make(map[ecs.Entity]bool),
	}

	if !cfg.PollContacts {
		ps.installHandlers()
	} else {
		logging.Info("physics: collision handlers disabled, polling arbiters per step")
	}
	return ps
}

// Space returns the underlying Chipmunk space.
func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) installHandlers() {
	handler := ps.space.NewCollisionHandler(engineCollisionType, engineCollisionType)
	handler.UserData = ps
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok {
			return true
		}
		if a, b, trigger, ok := pairFromArbiter(arb); ok {
			sys.tracker.beginPair(a, b, trigger)
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		sys, ok := userData.(*PhysicsSystem)
		if !ok {
			return
		}
		if a, b, _, ok := pairFromArbiter(arb); ok {
			sys.tracker.endPair(a, b)
		}
	}
}

func (ps *PhysicsSystem) Update(w *ecs.World, dt float64) {
	if ps == nil || w == nil {
		return
	}

	ps.cleanupEntities(w)
	ps.syncEntities(w)
	ps.syncWorldBounds(w)
	ps.pushKinematicVelocities(w)

	steps := ps.clock.advance(dt)
	for i := 0; i < steps; i++ {
		ps.space.Step(ps.clock.step)
	}

	if ps.cfg.PollContacts && steps > 0 {
		ps.pollContacts()
	}
	if steps > 0 {
		ps.tracker.emit(w.Events())
	}

	ps.syncTransforms(w)
}

// pollContacts rebuilds the live pair set after a step. Solid pairs come
// from body arbiters; pairs against the shared static body are reachable
// from the dynamic side, so walking dynamic and kinematic bodies covers
// them. Sensor pairs never land on arbiter lists, so every sensor shape the
// system owns gets an explicit overlap query instead.
func (ps *PhysicsSystem) pollContacts() {
	ps.tracker.resetLive()
	ps.space.EachBody(func(body *cp.Body) {
		body.EachArbiter(func(arb *cp.Arbiter) {
			if a, b, trigger, ok := pairFromArbiter(arb); ok {
				ps.tracker.beginPair(a, b, trigger)
			}
		})
	})

	for e, entry := range ps.bodies {
		if !entry.sensor || entry.shape == nil {
			continue
		}
		ps.space.ShapeQuery(entry.shape, func(other *cp.Shape, _ *cp.ContactPointSet) {
			if owner, ok := shapeOwner(other); ok && owner != e {
				ps.tracker.beginPair(e, owner, true)
			}
		})
	}
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	for _, e := range w.Query(component.RigidBodyComponent.Kind(), component.ColliderComponent.Kind(), component.TransformComponent.Kind()) {
		if _, exists := ps.bodies[e]; exists {
			continue
		}

		bodyComp, ok := ecs.Get(w, e, component.RigidBodyComponent)
		if !ok {
			continue
		}
		collider, ok := ecs.Get(w, e, component.ColliderComponent)
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}

		entry := ps.createBody(e, transform, bodyComp, collider, ps.filterFor(w, e))
		if entry == nil {
			continue
		}
		ps.bodies[e] = entry

		if vel, ok := ecs.Get(w, e, component.VelocityComponent); ok && (vel.X != 0 || vel.Y != 0) {
			entry.body.SetVelocity(vel.X, vel.Y)
		}

		bodyComp.Body = entry.body
		bodyComp.Shape = entry.shape
		_ = ecs.Add(w, e, component.RigidBodyComponent, bodyComp)
	}
}

// filterFor builds the shape filter from an optional CollisionLayer. Zero
// category reads as category 1, zero mask as collide-with-all.
func (ps *PhysicsSystem) filterFor(w *ecs.World, e ecs.Entity) cp.ShapeFilter {
	layer, ok := ecs.Get(w, e, component.CollisionLayerComponent)
	if !ok {
		return cp.SHAPE_FILTER_ALL
	}
	category := uint(layer.Category)
	if category == 0 {
		category = 1
	}
	mask := uint(layer.Mask)
	if mask == 0 {
		mask = cp.ALL_CATEGORIES
	}
	return cp.NewShapeFilter(cp.NO_GROUP, category, mask)
}

func (ps *PhysicsSystem) createBody(e ecs.Entity, transform component.Transform, bodyComp component.RigidBody, collider component.Collider, filter cp.ShapeFilter) *bodyEntry {
	pos := cp.Vector{X: transform.X + collider.OffsetX, Y: transform.Y + collider.OffsetY}

	entry := &bodyEntry{kind: bodyComp.Kind, sensor: bodyComp.Trigger}

	switch bodyComp.Kind {
	case component.BodyStatic:
		entry.body = ps.space.StaticBody
		entry.shape = ps.buildShape(ps.space.StaticBody, collider, pos)
	case component.BodyKinematic:
		body := cp.NewKinematicBody()
		body.SetPosition(pos)
		body.SetAngle(transform.Rotation)
		ps.space.AddBody(body)
		entry.body = body
		entry.shape = ps.buildShape(body, collider, cp.Vector{})
	default:
		mass := bodyComp.Mass
		if mass <= 0 {
			mass = 1
		}
		moment := momentFor(mass, collider)
		if bodyComp.FixedRotation {
			moment = math.Inf(1)
		}
		body := cp.NewBody(mass, moment)
		body.SetPosition(pos)
		body.SetAngle(transform.Rotation)
		if scale := normalizeGravityScale(bodyComp.GravityScale); scale != 1 {
			applyGravityScale(body, scale)
		}
		ps.space.AddBody(body)
		entry.body = body
		entry.shape = ps.buildShape(body, collider, cp.Vector{})
	}

	if entry.shape == nil {
		logging.Warn("physics: unsupported collider shape", "entity", e.String())
		if entry.body != nil && bodyComp.Kind != component.BodyStatic {
			ps.space.RemoveBody(entry.body)
		}
		return nil
	}

	entry.shape.SetFriction(bodyComp.Friction)
	entry.shape.SetElasticity(bodyComp.Elasticity)
	entry.shape.SetCollisionType(engineCollisionType)
	entry.shape.SetFilter(filter)
	entry.shape.SetSensor(bodyComp.Trigger)
	entry.shape.UserData = e
	ps.space.AddShape(entry.shape)
	entry.shapes = []*cp.Shape{entry.shape}

	return entry
}

// buildShape constructs the collider geometry. Static shapes get the body
// position baked into their local coordinates via offset, since the shared
// static body sits at the origin.
func (ps *PhysicsSystem) buildShape(body *cp.Body, collider component.Collider, offset cp.Vector) *cp.Shape {
	switch collider.Shape {
	case component.ShapeCircle:
		if collider.Radius <= 0 {
			return nil
		}
		return cp.NewCircle(body, collider.Radius, offset)
	case component.ShapeSegment:
		a := cp.Vector{X: offset.X + collider.AX, Y: offset.Y + collider.AY}
		b := cp.Vector{X: offset.X + collider.BX, Y: offset.Y + collider.BY}
		return cp.NewSegment(body, a, b, collider.Radius)
	default:
		width, height := collider.Width, collider.Height
		if width <= 0 || height <= 0 {
			return nil
		}
		bb := cp.BB{
			L: offset.X - width/2,
			B: offset.Y - height/2,
			R: offset.X + width/2,
			T: offset.Y + height/2,
		}
		return cp.NewBox2(body, bb, 0)
	}
}

func momentFor(mass float64, collider component.Collider) float64 {
	switch collider.Shape {
	case component.ShapeCircle:
		return cp.MomentForCircle(mass, 0, collider.Radius, cp.Vector{})
	case component.ShapeSegment:
		a := cp.Vector{X: collider.AX, Y: collider.AY}
		b := cp.Vector{X: collider.BX, Y: collider.BY}
		return cp.MomentForSegment(mass, a, b, collider.Radius)
	default:
		return cp.MomentForBox(mass, collider.Width, collider.Height)
	}
}

// normalizeGravityScale maps the zero value (unset in prefab data) to 1 and
// negative scales (the prefab encoding for "no gravity") to 0.
func normalizeGravityScale(scale float64) float64 {
	if scale == 0 {
		return 1
	}
	if scale < 0 {
		return 0
	}
	return scale
}

func applyGravityScale(body *cp.Body, scale float64) {
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(b, gravity.Mult(scale), damping, dt)
	})
}

// syncWorldBounds builds static segment walls for WorldBounds entities.
func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	for _, e := range w.Query(component.WorldBoundsComponent.Kind()) {
		if ps.boundsBuilt[e] {
			continue
		}
		bounds, ok := ecs.Get(w, e, component.WorldBoundsComponent)
		if !ok || bounds.Width <= 0 || bounds.Height <= 0 {
			continue
		}

		thickness := 1.0
		corners := []struct{ a, b cp.Vector }{
			{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: bounds.Width, Y: 0}},
			{a: cp.Vector{X: 0, Y: bounds.Height}, b: cp.Vector{X: bounds.Width, Y: bounds.Height}},
			{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: bounds.Height}},
			{a: cp.Vector{X: bounds.Width, Y: 0}, b: cp.Vector{X: bounds.Width, Y: bounds.Height}},
		}

		entry := &bodyEntry{kind: component.BodyStatic, body: ps.space.StaticBody}
		for _, seg := range corners {
			shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, thickness)
			shape.SetFriction(0.8)
			shape.SetCollisionType(engineCollisionType)
			shape.UserData = e
			ps.space.AddShape(shape)
			entry.shapes = append(entry.shapes, shape)
		}
		ps.bodies[e] = entry
		ps.boundsBuilt[e] = true
	}
}

// pushKinematicVelocities writes Velocity components into kinematic bodies
// before stepping; dynamic bodies get the reverse sync after the step.
func (ps *PhysicsSystem) pushKinematicVelocities(w *ecs.World) {
	for e, entry := range ps.bodies {
		if entry.kind != component.BodyKinematic || entry.body == nil {
			continue
		}
		vel, ok := ecs.Get(w, e, component.VelocityComponent)
		if !ok {
			continue
		}
		entry.body.SetVelocity(vel.X, vel.Y)
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, entry := range ps.bodies {
		if entry.kind == component.BodyStatic || entry.body == nil {
			continue
		}
		if !w.IsAlive(e) {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		collider, _ := ecs.Get(w, e, component.ColliderComponent)

		pos := entry.body.Position()
		transform.X = pos.X - collider.OffsetX
		transform.Y = pos.Y - collider.OffsetY
		transform.Rotation = entry.body.Angle()
		_ = ecs.Add(w, e, component.TransformComponent, transform)

		if entry.kind == component.BodyDynamic {
			if _, ok := ecs.Get(w, e, component.VelocityComponent); ok {
				v := entry.body.Velocity()
				_ = ecs.Add(w, e, component.VelocityComponent, component.Velocity{X: v.X, Y: v.Y})
			}
		}
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, entry := range ps.bodies {
		keep := w.IsAlive(e) &&
			(ecs.Has(w, e, component.RigidBodyComponent) || ecs.Has(w, e, component.WorldBoundsComponent))
		if keep {
			continue
		}

		for _, shape := range entry.shapes {
			if shape != nil {
				ps.space.RemoveShape(shape)
			}
		}
		if entry.body != nil && entry.kind != component.BodyStatic {
			ps.space.RemoveBody(entry.body)
		}
		ps.tracker.dropEntity(e)
		delete(ps.bodies, e)
		delete(ps.boundsBuilt, e)
	}
}
