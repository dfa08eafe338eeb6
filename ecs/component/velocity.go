package component

// Velocity mirrors the physics body's linear velocity after each step. For
// entities without a rigid body it is free for systems to drive directly.
type Velocity struct {
	X float64
	Y float64
}

var VelocityComponent = NewComponent[Velocity]()
