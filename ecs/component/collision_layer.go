package component

// CollisionLayer lets entities declare a collision category and mask so the
// physics system can selectively enable/disable collisions between groups.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. Zero is
	// treated as category 1.
	Category uint32 `yaml:"category,omitempty"`
	// Mask is a bitmask of categories this entity collides with. Zero is
	// treated as all-bits set.
	Mask uint32 `yaml:"mask,omitempty"`
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
