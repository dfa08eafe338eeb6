package component

// PointVertex is one point of a PointCloud, positioned relative to the
// entity transform.
type PointVertex struct {
	X, Y       float32
	R, G, B, A float32
	Size       float32
}

// PointCloud renders a particle field through a registered point shader.
// Points with Size zero fall back to PointSize.
type PointCloud struct {
	Points    []PointVertex
	PointSize float32
	Shader    string
}

var PointCloudComponent = NewComponent[PointCloud]()
