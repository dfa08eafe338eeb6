package system

import (
	"github.com/veldrane/helix/common"
	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
)

// CameraSystem moves every camera toward its named target entity.
// Smoothness in (0,1] is the fraction of the remaining distance covered per
// step; zero snaps.
type CameraSystem struct {
	targets map[ecs.Entity]ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{targets: make(map[ecs.Entity]ecs.Entity)}
}

func (cs *CameraSystem) Update(w *ecs.World, dt float64) {
	if cs == nil || w == nil {
		return
	}

	for _, camEntity := range w.Query(component.CameraComponent.Kind(), component.TransformComponent.Kind()) {
		cam, ok := ecs.Get(w, camEntity, component.CameraComponent)
		if !ok || cam.TargetName == "" {
			continue
		}

		target := cs.targets[camEntity]
		if !w.IsAlive(target) {
			target = findEntityByName(w, cam.TargetName)
			if !target.Valid() {
				continue
			}
			cs.targets[camEntity] = target
		}

		targetTransform, ok := ecs.Get(w, target, component.TransformComponent)
		if !ok {
			continue
		}
		camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent)
		if !ok {
			continue
		}

		smoothness := common.Clamp(cam.Smoothness, 0, 1)
		if smoothness == 0 {
			camTransform.X = targetTransform.X
			camTransform.Y = targetTransform.Y
		} else {
			camTransform.X = common.Lerp(camTransform.X, targetTransform.X, smoothness)
			camTransform.Y = common.Lerp(camTransform.Y, targetTransform.Y, smoothness)
		}
		_ = ecs.Add(w, camEntity, component.TransformComponent, camTransform)
	}
}

func findEntityByName(w *ecs.World, name string) ecs.Entity {
	for _, e := range w.Query(component.NameComponent.Kind()) {
		n, ok := ecs.Get(w, e, component.NameComponent)
		if ok && n.Value == name {
			return e
		}
	}
	return ecs.NilEntity
}
