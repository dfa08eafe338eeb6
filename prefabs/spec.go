// Package prefabs loads YAML entity specs and tengo behavior scripts from
// an embedded FS with disk override, and builds entities from them.
package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
)

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type RigidBodySpec struct {
	// Kind is dynamic, static or kinematic; empty means dynamic.
	Kind          string  `yaml:"kind"`
	Mass          float64 `yaml:"mass"`
	Friction      float64 `yaml:"friction"`
	Elasticity    float64 `yaml:"elasticity"`
	FixedRotation bool    `yaml:"fixed_rotation"`
	Trigger       bool    `yaml:"trigger"`
	GravityScale  float64 `yaml:"gravity_scale"`
}

type ColliderSpec struct {
	// Shape is box, circle or segment; empty means box.
	Shape   string  `yaml:"shape"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Radius  float64 `yaml:"radius"`
	AX      float64 `yaml:"ax"`
	AY      float64 `yaml:"ay"`
	BX      float64 `yaml:"bx"`
	BY      float64 `yaml:"by"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type CollisionLayerSpec struct {
	Category uint32 `yaml:"category"`
	Mask     uint32 `yaml:"mask"`
}

type RenderLayerSpec struct {
	Index int `yaml:"index"`
}

type PointCloudSpec struct {
	// Count points are generated on a ring between MinRadius and MaxRadius
	// when no explicit Points are given.
	Count     int              `yaml:"count"`
	MinRadius float64          `yaml:"min_radius"`
	MaxRadius float64          `yaml:"max_radius"`
	PointSize float64          `yaml:"point_size"`
	Shader    string           `yaml:"shader"`
	Color     [4]float64       `yaml:"color"`
	Points    []PointEntrySpec `yaml:"points"`
}

type PointEntrySpec struct {
	X    float64   `yaml:"x"`
	Y    float64   `yaml:"y"`
	Size float64   `yaml:"size"`
	RGBA []float64 `yaml:"rgba"`
}

type ScriptSpec struct {
	Source string `yaml:"source"`
}

// EntitySpec is one prefab file. Sections are optional; only present
// sections become components.
type EntitySpec struct {
	Name           string              `yaml:"name"`
	Transform      *TransformSpec      `yaml:"transform"`
	RigidBody      *RigidBodySpec      `yaml:"rigid_body"`
	Collider       *ColliderSpec       `yaml:"collider"`
	CollisionLayer *CollisionLayerSpec `yaml:"collision_layer"`
	RenderLayer    *RenderLayerSpec    `yaml:"render_layer"`
	PointCloud     *PointCloudSpec     `yaml:"point_cloud"`
	Script         *ScriptSpec         `yaml:"script"`
}

// LoadSpec parses a prefab file from the embedded FS (or its disk override).
func LoadSpec(filename string) (*EntitySpec, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return ParseSpec(data)
}

// ParseSpec parses prefab YAML bytes.
func ParseSpec(data []byte) (*EntitySpec, error) {
	var spec EntitySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal: %w", err)
	}
	return &spec, nil
}

func bodyKind(name string) (component.BodyKind, error) {
	switch name {
	case "", "dynamic":
		return component.BodyDynamic, nil
	case "static":
		return component.BodyStatic, nil
	case "kinematic":
		return component.BodyKinematic, nil
	}
	return 0, fmt.Errorf("prefabs: unknown body kind %q", name)
}

func colliderShape(name string) (component.ColliderShape, error) {
	switch name {
	case "", "box":
		return component.ShapeBox, nil
	case "circle":
		return component.ShapeCircle, nil
	case "segment":
		return component.ShapeSegment, nil
	}
	return 0, fmt.Errorf("prefabs: unknown collider shape %q", name)
}

// Build instantiates the spec as a new entity.
func Build(w *ecs.World, spec *EntitySpec) (ecs.Entity, error) {
	if w == nil || spec == nil {
		return ecs.NilEntity, fmt.Errorf("prefabs: nil world or spec")
	}

	e := w.CreateEntity()
	fail := func(err error) (ecs.Entity, error) {
		w.DestroyEntity(e)
		return ecs.NilEntity, err
	}

	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent, component.Name{Value: spec.Name}); err != nil {
			return fail(err)
		}
	}

	t := component.Transform{ScaleX: 1, ScaleY: 1}
	if spec.Transform != nil {
		t.X = spec.Transform.X
		t.Y = spec.Transform.Y
		t.Rotation = spec.Transform.Rotation
		if spec.Transform.ScaleX != 0 {
			t.ScaleX = spec.Transform.ScaleX
		}
		if spec.Transform.ScaleY != 0 {
			t.ScaleY = spec.Transform.ScaleY
		}
	}
	if err := ecs.Add(w, e, component.TransformComponent, t); err != nil {
		return fail(err)
	}

	if spec.RigidBody != nil {
		kind, err := bodyKind(spec.RigidBody.Kind)
		if err != nil {
			return fail(err)
		}
		body := component.RigidBody{
			Kind:          kind,
			Mass:          spec.RigidBody.Mass,
			Friction:      spec.RigidBody.Friction,
			Elasticity:    spec.RigidBody.Elasticity,
			FixedRotation: spec.RigidBody.FixedRotation,
			Trigger:       spec.RigidBody.Trigger,
			GravityScale:  spec.RigidBody.GravityScale,
		}
		if err := ecs.Add(w, e, component.RigidBodyComponent, body); err != nil {
			return fail(err)
		}
		if err := ecs.Add(w, e, component.VelocityComponent, component.Velocity{}); err != nil {
			return fail(err)
		}
	}

	if spec.Collider != nil {
		shape, err := colliderShape(spec.Collider.Shape)
		if err != nil {
			return fail(err)
		}
		col := component.Collider{
			Shape:   shape,
			Width:   spec.Collider.Width,
			Height:  spec.Collider.Height,
			Radius:  spec.Collider.Radius,
			AX:      spec.Collider.AX,
			AY:      spec.Collider.AY,
			BX:      spec.Collider.BX,
			BY:      spec.Collider.BY,
			OffsetX: spec.Collider.OffsetX,
			OffsetY: spec.Collider.OffsetY,
		}
		if err := ecs.Add(w, e, component.ColliderComponent, col); err != nil {
			return fail(err)
		}
	}

	if spec.CollisionLayer != nil {
		layer := component.CollisionLayer{
			Category: spec.CollisionLayer.Category,
			Mask:     spec.CollisionLayer.Mask,
		}
		if err := ecs.Add(w, e, component.CollisionLayerComponent, layer); err != nil {
			return fail(err)
		}
	}

	if spec.RenderLayer != nil {
		if err := ecs.Add(w, e, component.RenderLayerComponent, component.RenderLayer{Index: spec.RenderLayer.Index}); err != nil {
			return fail(err)
		}
	}

	if spec.PointCloud != nil {
		cloud := buildPointCloud(spec.PointCloud)
		if err := ecs.Add(w, e, component.PointCloudComponent, cloud); err != nil {
			return fail(err)
		}
	}

	if spec.Script != nil && spec.Script.Source != "" {
		if err := ecs.Add(w, e, component.ScriptComponent, component.Script{Source: spec.Script.Source}); err != nil {
			return fail(err)
		}
	}

	return e, nil
}
