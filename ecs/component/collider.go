package component

// ColliderShape selects the collision geometry attached to a rigid body.
type ColliderShape int

const (
	ShapeBox ColliderShape = iota
	ShapeCircle
	ShapeSegment
)

// Collider describes collision geometry in body-local units. Box colliders
// use Width/Height, circles use Radius, segments run from (AX,AY) to (BX,BY)
// with Radius as half-thickness.
type Collider struct {
	Shape   ColliderShape
	Width   float64
	Height  float64
	Radius  float64
	AX, AY  float64
	BX, BY  float64
	OffsetX float64
	OffsetY float64
}

var ColliderComponent = NewComponent[Collider]()
