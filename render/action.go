// Package render builds the per-frame draw order: the compositor walks the
// camera and layer lists and emits one Action per camera-over-layer pass.
package render

import (
	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
)

// Action describes a single camera-over-layer draw pass within a frame.
// It is a plain data holder: the compositor fills it, the render system
// consumes it.
type Action struct {
	Camera ecs.Entity
	Layer  component.Layer
	// Order is the absolute position of this pass within the frame.
	Order int

	flags  map[string]bool
	lights []ecs.Entity
}

func NewAction(camera ecs.Entity, layer component.Layer, order int) *Action {
	return &Action{Camera: camera, Layer: layer, Order: order}
}

// SetFlag records a named enable flag for this pass.
func (a *Action) SetFlag(name string, on bool) {
	if a.flags == nil {
		a.flags = make(map[string]bool)
	}
	a.flags[name] = on
}

// Enabled looks up a named flag. Unknown flags read as enabled.
func (a *Action) Enabled(name string) bool {
	if a == nil || a.flags == nil {
		return true
	}
	on, ok := a.flags[name]
	if !ok {
		return true
	}
	return on
}

// AddLight collects a directional light into the pass, ignoring duplicates.
func (a *Action) AddLight(e ecs.Entity) {
	if a == nil || !e.Valid() {
		return
	}
	for _, have := range a.lights {
		if have == e {
			return
		}
	}
	a.lights = append(a.lights, e)
}

// Lights returns the collected directional-light set in insertion order.
func (a *Action) Lights() []ecs.Entity {
	if a == nil {
		return nil
	}
	return a.lights
}
