package prefabs

import (
	"math"
	"testing"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
)

const ballYAML = `
name: ball
transform:
  x: 10
  y: 20
rigid_body:
  kind: dynamic
  mass: 2
  friction: 0.5
collider:
  shape: circle
  radius: 8
collision_layer:
  category: 2
  mask: 5
render_layer:
  index: 1
`

func TestParseAndBuildEntity(t *testing.T) {
	spec, err := ParseSpec([]byte(ballYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	w := ecs.NewWorld()
	e, err := Build(w, spec)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	name, ok := ecs.Get(w, e, component.NameComponent)
	if !ok || name.Value != "ball" {
		t.Fatalf("name = %+v ok=%v", name, ok)
	}
	transform, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok || transform.X != 10 || transform.Y != 20 {
		t.Fatalf("transform = %+v", transform)
	}
	if transform.ScaleX != 1 || transform.ScaleY != 1 {
		t.Fatalf("scale should default to 1, got %+v", transform)
	}
	body, ok := ecs.Get(w, e, component.RigidBodyComponent)
	if !ok || body.Kind != component.BodyDynamic || body.Mass != 2 {
		t.Fatalf("rigid body = %+v", body)
	}
	if !ecs.Has(w, e, component.VelocityComponent) {
		t.Fatalf("rigid bodies should get a velocity component")
	}
	collider, ok := ecs.Get(w, e, component.ColliderComponent)
	if !ok || collider.Shape != component.ShapeCircle || collider.Radius != 8 {
		t.Fatalf("collider = %+v", collider)
	}
	layer, ok := ecs.Get(w, e, component.CollisionLayerComponent)
	if !ok || layer.Category != 2 || layer.Mask != 5 {
		t.Fatalf("collision layer = %+v", layer)
	}
}

func TestBuildRejectsBadKinds(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad_body_kind", "rigid_body:\n  kind: floaty\n"},
		{"bad_collider_shape", "collider:\n  shape: blob\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := ParseSpec([]byte(c.yaml))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			w := ecs.NewWorld()
			if _, err := Build(w, spec); err == nil {
				t.Fatalf("expected build error")
			}
			if w.EntityCount() != 0 {
				t.Fatalf("failed build leaked an entity")
			}
		})
	}
}

func TestPointCloudExplicitPoints(t *testing.T) {
	spec := &PointCloudSpec{
		PointSize: 4,
		Points: []PointEntrySpec{
			{X: 1, Y: 2, Size: 3, RGBA: []float64{0.1, 0.2, 0.3, 0.4}},
			{X: -1, Y: -2},
		},
	}

	cloud := buildPointCloud(spec)
	if len(cloud.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(cloud.Points))
	}
	p := cloud.Points[0]
	if p.X != 1 || p.Y != 2 || p.Size != 3 {
		t.Fatalf("point 0 = %+v", p)
	}
	if p.R != 0.1 || p.A != 0.4 {
		t.Fatalf("point 0 color = %+v", p)
	}
	if cloud.Points[1].R != 1 || cloud.Points[1].A != 1 {
		t.Fatalf("missing rgba should default to white, got %+v", cloud.Points[1])
	}
}

func TestPointCloudScatterDeterministic(t *testing.T) {
	spec := &PointCloudSpec{Count: 100, MinRadius: 10, MaxRadius: 50, Color: [4]float64{1, 0, 0, 1}}

	first := buildPointCloud(spec)
	second := buildPointCloud(spec)
	if len(first.Points) != 100 {
		t.Fatalf("expected 100 points, got %d", len(first.Points))
	}
	for i := range first.Points {
		if first.Points[i] != second.Points[i] {
			t.Fatalf("scatter not deterministic at point %d", i)
		}
	}

	for i, p := range first.Points {
		r := math.Hypot(float64(p.X), float64(p.Y))
		if r < 10-1e-3 || r > 50+1e-3 {
			t.Fatalf("point %d radius %v outside annulus", i, r)
		}
		if p.R != 1 || p.G != 0 {
			t.Fatalf("point %d color = %+v", i, p)
		}
	}
}

func TestEmbeddedPrefabsParse(t *testing.T) {
	for _, name := range []string{"ball.yaml", "ground.yaml", "zone.yaml", "nebula.yaml"} {
		t.Run(name, func(t *testing.T) {
			data, err := Load(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			spec, err := ParseSpec(data)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			w := ecs.NewWorld()
			if _, err := Build(w, spec); err != nil {
				t.Fatalf("build: %v", err)
			}
		})
	}
}
