package component

import "github.com/jakecoffman/cp"

// BodyKind selects how the physics library simulates a body.
type BodyKind int

const (
	// BodyDynamic bodies are fully simulated.
	BodyDynamic BodyKind = iota
	// BodyStatic shapes attach to the space's shared static body and never
	// move.
	BodyStatic
	// BodyKinematic bodies move only by the velocity written to them and are
	// unaffected by forces.
	BodyKinematic
)

func (k BodyKind) String() string {
	switch k {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	default:
		return "dynamic"
	}
}

// RigidBody holds the simulation configuration plus the Chipmunk runtime
// handles once the physics system has created them. Trigger bodies keep
// collision bookkeeping but suppress physical response.
type RigidBody struct {
	Kind          BodyKind
	Mass          float64
	Friction      float64
	Elasticity    float64
	FixedRotation bool
	Trigger       bool
	// GravityScale multiplies the space gravity for this body. Zero means
	// unset (scale 1); negative disables gravity entirely.
	GravityScale float64

	// Runtime handles, owned by the physics system.
	Body  *cp.Body  `yaml:"-"`
	Shape *cp.Shape `yaml:"-"`
}

var RigidBodyComponent = NewComponent[RigidBody]()
