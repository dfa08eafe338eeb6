package component

// Camera describes one viewpoint over the layer stack. Priority orders
// cameras within a frame (lower draws first); LayerMask selects which layers
// the camera renders, with zero meaning all. Flags feed the per-action
// enable-flag lookup.
type Camera struct {
	TargetName string
	Zoom       float64
	Priority   int
	Smoothness float64
	LayerMask  uint32
	Flags      map[string]bool
}

var CameraComponent = NewComponent[Camera]()
