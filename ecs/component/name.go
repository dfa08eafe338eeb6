package component

// Name tags an entity for lookup by systems and tools. InstanceID is set by
// the scene builder when the entity came from a prefab.
type Name struct {
	Value      string
	InstanceID string
}

var NameComponent = NewComponent[Name]()
