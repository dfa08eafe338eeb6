package component

// Script binds a tengo behavior script from prefabs/scripts to this entity.
// The script system compiles each source once and keeps per-entity state.
type Script struct {
	Source string
}

var ScriptComponent = NewComponent[Script]()
