package scene

import (
	"testing"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
)

const demoScene = `
name: demo
bounds:
  width: 800
  height: 600
layers:
  - name: world
    index: 0
  - name: sky
    index: 1
    parallax: 0.5
    hidden: true
cameras:
  - target: hero
    priority: 2
    smoothness: 0.2
    x: 400
    y: 300
lights:
  - dir_x: -1
    dir_y: 1
    color: [1, 0.9, 0.8]
    intensity: 1.5
instances:
  - prefab: ball.yaml
    name: hero
    x: 100
    y: 50
  - prefab: ball.yaml
`

func TestSceneParseAndBuild(t *testing.T) {
	s, err := Parse([]byte(demoScene))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Name != "demo" {
		t.Fatalf("name = %q", s.Name)
	}

	w := ecs.NewWorld()
	if err := s.Build(w); err != nil {
		t.Fatalf("build: %v", err)
	}

	t.Run("bounds", func(t *testing.T) {
		e, ok := w.First(component.WorldBoundsComponent.Kind())
		if !ok {
			t.Fatalf("no bounds entity")
		}
		bounds, _ := ecs.Get(w, e, component.WorldBoundsComponent)
		if bounds.Width != 800 || bounds.Height != 600 {
			t.Fatalf("bounds = %+v", bounds)
		}
	})

	t.Run("layers", func(t *testing.T) {
		layers := w.Query(component.LayerComponent.Kind())
		if len(layers) != 2 {
			t.Fatalf("expected 2 layers, got %d", len(layers))
		}
		sky, _ := ecs.Get(w, layers[1], component.LayerComponent)
		if sky.Name != "sky" || sky.Visible || sky.Parallax != 0.5 {
			t.Fatalf("sky layer = %+v", sky)
		}
	})

	t.Run("camera", func(t *testing.T) {
		e, ok := w.First(component.CameraComponent.Kind())
		if !ok {
			t.Fatalf("no camera entity")
		}
		cam, _ := ecs.Get(w, e, component.CameraComponent)
		if cam.TargetName != "hero" || cam.Priority != 2 {
			t.Fatalf("camera = %+v", cam)
		}
		if cam.Zoom != 1 {
			t.Fatalf("zoom should default to 1, got %v", cam.Zoom)
		}
		transform, _ := ecs.Get(w, e, component.TransformComponent)
		if transform.X != 400 || transform.Y != 300 {
			t.Fatalf("camera transform = %+v", transform)
		}
	})

	t.Run("light", func(t *testing.T) {
		e, ok := w.First(component.DirectionalLightComponent.Kind())
		if !ok {
			t.Fatalf("no light entity")
		}
		light, _ := ecs.Get(w, e, component.DirectionalLightComponent)
		if light.DirX != -1 || light.G != 0.9 || light.Intensity != 1.5 {
			t.Fatalf("light = %+v", light)
		}
	})

	t.Run("instances", func(t *testing.T) {
		named := map[string]ecs.Entity{}
		var ids []string
		for _, e := range w.Query(component.NameComponent.Kind()) {
			name, _ := ecs.Get(w, e, component.NameComponent)
			named[name.Value] = e
			if name.InstanceID == "" {
				t.Fatalf("instance %q missing id", name.Value)
			}
			ids = append(ids, name.InstanceID)
		}
		if len(ids) != 2 {
			t.Fatalf("expected 2 instances, got %d", len(ids))
		}
		if ids[0] == ids[1] {
			t.Fatalf("instance ids should be unique")
		}

		hero, ok := named["hero"]
		if !ok {
			t.Fatalf("instance name override missing: %v", named)
		}
		transform, _ := ecs.Get(w, hero, component.TransformComponent)
		if transform.X != 100 || transform.Y != 50 {
			t.Fatalf("spawn transform not applied: %+v", transform)
		}

		if _, ok := named["ball"]; !ok {
			t.Fatalf("prefab default name missing: %v", named)
		}
	})
}

func TestSceneSkipsBrokenInstances(t *testing.T) {
	s := &Scene{Instances: []InstanceSpec{{Prefab: "missing.yaml"}}}
	w := ecs.NewWorld()
	if err := s.Build(w); err != nil {
		t.Fatalf("broken instance should not fail the build: %v", err)
	}
	if w.EntityCount() != 0 {
		t.Fatalf("expected empty world, got %d entities", w.EntityCount())
	}
}
