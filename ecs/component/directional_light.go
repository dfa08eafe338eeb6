package component

// DirectionalLight tints the layers whose bit is set in LayerMask (zero
// means all layers). Direction is in world space and does not need to be
// normalized; the renderer normalizes before uploading uniforms.
type DirectionalLight struct {
	DirX      float64
	DirY      float64
	R, G, B   float64
	Intensity float64
	LayerMask uint32
}

var DirectionalLightComponent = NewComponent[DirectionalLight]()
