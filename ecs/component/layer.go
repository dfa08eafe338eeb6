package component

// Layer declares one render layer. Index orders layers back to front;
// Parallax scales the camera offset applied while drawing the layer.
type Layer struct {
	Name     string
	Index    int
	Parallax float64
	Visible  bool
}

var LayerComponent = NewComponent[Layer]()
