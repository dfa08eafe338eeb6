package render

import (
	"sort"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
)

// Compositor turns the world's camera and layer lists into the frame's
// ordered action list. Cameras draw in priority order (ties broken by
// entity id), each over its visible layers back to front.
type Compositor struct {
	actions []*Action
}

func NewCompositor() *Compositor {
	return &Compositor{}
}

// Compose rebuilds and returns the frame's action list. The returned slice
// is reused between frames.
func (c *Compositor) Compose(w *ecs.World) []*Action {
	if c == nil || w == nil {
		return nil
	}
	c.actions = c.actions[:0]

	cameras := w.Query(component.CameraComponent.Kind())
	sort.SliceStable(cameras, func(i, j int) bool {
		pi, pj := 0, 0
		if cam, ok := ecs.Get(w, cameras[i], component.CameraComponent); ok {
			pi = cam.Priority
		}
		if cam, ok := ecs.Get(w, cameras[j], component.CameraComponent); ok {
			pj = cam.Priority
		}
		if pi != pj {
			return pi < pj
		}
		return cameras[i] < cameras[j]
	})

	layers := w.Query(component.LayerComponent.Kind())
	sort.SliceStable(layers, func(i, j int) bool {
		li, _ := ecs.Get(w, layers[i], component.LayerComponent)
		lj, _ := ecs.Get(w, layers[j], component.LayerComponent)
		return li.Index < lj.Index
	})

	lights := w.Query(component.DirectionalLightComponent.Kind())

	order := 0
	for _, camEntity := range cameras {
		cam, ok := ecs.Get(w, camEntity, component.CameraComponent)
		if !ok {
			continue
		}
		for _, layerEntity := range layers {
			layer, ok := ecs.Get(w, layerEntity, component.LayerComponent)
			if !ok || !layer.Visible {
				continue
			}
			if !maskMatches(cam.LayerMask, layer.Index) {
				continue
			}

			action := NewAction(camEntity, layer, order)
			for name, on := range cam.Flags {
				action.SetFlag(name, on)
			}
			for _, lightEntity := range lights {
				light, ok := ecs.Get(w, lightEntity, component.DirectionalLightComponent)
				if !ok {
					continue
				}
				if maskMatches(light.LayerMask, layer.Index) {
					action.AddLight(lightEntity)
				}
			}

			c.actions = append(c.actions, action)
			order++
		}
	}
	return c.actions
}

// maskMatches tests a layer index against a bitmask where zero means all.
// Indexes beyond the mask width always match so deep layer stacks are not
// silently dropped.
func maskMatches(mask uint32, layerIndex int) bool {
	if mask == 0 {
		return true
	}
	if layerIndex < 0 || layerIndex >= 32 {
		return true
	}
	return mask&(1<<uint(layerIndex)) != 0
}
