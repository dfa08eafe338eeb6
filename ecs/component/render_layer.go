package component

// RenderLayer assigns a drawable entity to a layer index.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
