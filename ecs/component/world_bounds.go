package component

// WorldBounds requests static segment walls around the given rectangle,
// anchored at the origin. The physics system builds them on first sight.
type WorldBounds struct {
	Width  float64
	Height float64
}

var WorldBoundsComponent = NewComponent[WorldBounds]()
