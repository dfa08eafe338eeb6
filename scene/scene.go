// Package scene loads YAML scene files and instantiates their contents
// into a world: render layers, cameras, directional lights, world bounds
// and prefab instances with spawn transforms.
package scene

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
	"github.com/veldrane/helix/logging"
	"github.com/veldrane/helix/prefabs"
)

type LayerSpec struct {
	Name     string  `yaml:"name"`
	Index    int     `yaml:"index"`
	Parallax float64 `yaml:"parallax"`
	Hidden   bool    `yaml:"hidden"`
}

type CameraSpec struct {
	Target     string          `yaml:"target"`
	Zoom       float64         `yaml:"zoom"`
	Priority   int             `yaml:"priority"`
	Smoothness float64         `yaml:"smoothness"`
	LayerMask  uint32          `yaml:"layer_mask"`
	Flags      map[string]bool `yaml:"flags"`
	X          float64         `yaml:"x"`
	Y          float64         `yaml:"y"`
}

type LightSpec struct {
	DirX      float64    `yaml:"dir_x"`
	DirY      float64    `yaml:"dir_y"`
	Color     [3]float64 `yaml:"color"`
	Intensity float64    `yaml:"intensity"`
	LayerMask uint32     `yaml:"layer_mask"`
}

type BoundsSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// InstanceSpec places one prefab into the scene. Spawn transform fields
// override whatever the prefab declares.
type InstanceSpec struct {
	Prefab   string   `yaml:"prefab"`
	Name     string   `yaml:"name"`
	X        *float64 `yaml:"x"`
	Y        *float64 `yaml:"y"`
	Rotation *float64 `yaml:"rotation"`
}

type Scene struct {
	Name      string         `yaml:"name"`
	Bounds    *BoundsSpec    `yaml:"bounds"`
	Layers    []LayerSpec    `yaml:"layers"`
	Cameras   []CameraSpec   `yaml:"cameras"`
	Lights    []LightSpec    `yaml:"lights"`
	Instances []InstanceSpec `yaml:"instances"`
}

func Load(filename string) (*Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", filename, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	return &s, nil
}

// Build instantiates the scene into w. Instances that fail to build are
// skipped with a warning so one broken prefab does not take down the
// whole scene.
func (s *Scene) Build(w *ecs.World) error {
	if w == nil {
		return fmt.Errorf("scene: nil world")
	}

	if s.Bounds != nil {
		e := w.CreateEntity()
		if err := ecs.Add(w, e, component.WorldBoundsComponent, component.WorldBounds{
			Width:  s.Bounds.Width,
			Height: s.Bounds.Height,
		}); err != nil {
			return err
		}
	}

	for _, l := range s.Layers {
		e := w.CreateEntity()
		if err := ecs.Add(w, e, component.LayerComponent, component.Layer{
			Name:     l.Name,
			Index:    l.Index,
			Parallax: l.Parallax,
			Visible:  !l.Hidden,
		}); err != nil {
			return err
		}
	}

	for _, c := range s.Cameras {
		zoom := c.Zoom
		if zoom == 0 {
			zoom = 1
		}
		e := w.CreateEntity()
		if err := ecs.Add(w, e, component.CameraComponent, component.Camera{
			TargetName: c.Target,
			Zoom:       zoom,
			Priority:   c.Priority,
			Smoothness: c.Smoothness,
			LayerMask:  c.LayerMask,
			Flags:      c.Flags,
		}); err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.TransformComponent, component.Transform{
			X: c.X, Y: c.Y, ScaleX: 1, ScaleY: 1,
		}); err != nil {
			return err
		}
	}

	for _, l := range s.Lights {
		e := w.CreateEntity()
		if err := ecs.Add(w, e, component.DirectionalLightComponent, component.DirectionalLight{
			DirX:      l.DirX,
			DirY:      l.DirY,
			R:         l.Color[0],
			G:         l.Color[1],
			B:         l.Color[2],
			Intensity: l.Intensity,
			LayerMask: l.LayerMask,
		}); err != nil {
			return err
		}
	}

	for _, inst := range s.Instances {
		if _, err := s.spawn(w, inst); err != nil {
			logging.Warn("scene: skipping instance", "prefab", inst.Prefab, "err", err)
		}
	}
	return nil
}

// Spawn builds one prefab instance; exposed for scripts and tooling that
// place prefabs after scene load.
func (s *Scene) Spawn(w *ecs.World, inst InstanceSpec) (ecs.Entity, error) {
	return s.spawn(w, inst)
}

func (s *Scene) spawn(w *ecs.World, inst InstanceSpec) (ecs.Entity, error) {
	data, err := prefabs.Load(inst.Prefab)
	if err != nil {
		return ecs.NilEntity, err
	}
	spec, err := prefabs.ParseSpec(data)
	if err != nil {
		return ecs.NilEntity, err
	}

	e, err := prefabs.Build(w, spec)
	if err != nil {
		return ecs.NilEntity, err
	}

	name, _ := ecs.Get(w, e, component.NameComponent)
	if inst.Name != "" {
		name.Value = inst.Name
	}
	name.InstanceID = uuid.NewString()
	if err := ecs.Add(w, e, component.NameComponent, name); err != nil {
		return ecs.NilEntity, err
	}

	if inst.X != nil || inst.Y != nil || inst.Rotation != nil {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			t = component.Transform{ScaleX: 1, ScaleY: 1}
		}
		if inst.X != nil {
			t.X = *inst.X
		}
		if inst.Y != nil {
			t.Y = *inst.Y
		}
		if inst.Rotation != nil {
			t.Rotation = *inst.Rotation
		}
		if err := ecs.Add(w, e, component.TransformComponent, t); err != nil {
			return ecs.NilEntity, err
		}
	}
	return e, nil
}
