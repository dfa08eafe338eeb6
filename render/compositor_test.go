package render

import (
	"testing"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
)

func addLayer(t *testing.T, w *ecs.World, name string, index int, visible bool) {
	t.Helper()
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.LayerComponent, component.Layer{
		Name: name, Index: index, Visible: visible,
	}); err != nil {
		t.Fatalf("add layer: %v", err)
	}
}

func addCamera(t *testing.T, w *ecs.World, priority int, mask uint32, flags map[string]bool) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.CameraComponent, component.Camera{
		Zoom: 1, Priority: priority, LayerMask: mask, Flags: flags,
	}); err != nil {
		t.Fatalf("add camera: %v", err)
	}
	return e
}

func TestComposeOrdersCamerasAndLayers(t *testing.T) {
	w := ecs.NewWorld()
	addLayer(t, w, "background", 0, true)
	addLayer(t, w, "actors", 1, true)
	addLayer(t, w, "hidden", 2, false)

	second := addCamera(t, w, 5, 0, nil)
	first := addCamera(t, w, 1, 0, nil)

	actions := NewCompositor().Compose(w)
	if len(actions) != 4 {
		t.Fatalf("expected 4 actions, got %d", len(actions))
	}

	wantCameras := []ecs.Entity{first, first, second, second}
	wantLayers := []string{"background", "actors", "background", "actors"}
	for i, action := range actions {
		if action.Order != i {
			t.Fatalf("action %d has order %d", i, action.Order)
		}
		if action.Camera != wantCameras[i] {
			t.Fatalf("action %d camera = %v, want %v", i, action.Camera, wantCameras[i])
		}
		if action.Layer.Name != wantLayers[i] {
			t.Fatalf("action %d layer = %q, want %q", i, action.Layer.Name, wantLayers[i])
		}
	}
}

func TestComposeCameraPriorityTieBreaksOnEntity(t *testing.T) {
	w := ecs.NewWorld()
	addLayer(t, w, "only", 0, true)
	camA := addCamera(t, w, 3, 0, nil)
	camB := addCamera(t, w, 3, 0, nil)

	actions := NewCompositor().Compose(w)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0].Camera != camA || actions[1].Camera != camB {
		t.Fatalf("tie not broken by entity id: %v then %v", actions[0].Camera, actions[1].Camera)
	}
}

func TestComposeLayerMask(t *testing.T) {
	w := ecs.NewWorld()
	addLayer(t, w, "background", 0, true)
	addLayer(t, w, "actors", 1, true)
	addLayer(t, w, "overflow", 40, true)

	// Mask selects only layer 1; index 40 is beyond mask width and always
	// matches.
	addCamera(t, w, 0, 1<<1, nil)

	actions := NewCompositor().Compose(w)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0].Layer.Name != "actors" || actions[1].Layer.Name != "overflow" {
		t.Fatalf("mask selected wrong layers: %q, %q", actions[0].Layer.Name, actions[1].Layer.Name)
	}
}

func TestComposeCopiesCameraFlags(t *testing.T) {
	w := ecs.NewWorld()
	addLayer(t, w, "only", 0, true)
	addCamera(t, w, 0, 0, map[string]bool{"sprites": false})

	actions := NewCompositor().Compose(w)
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if actions[0].Enabled("sprites") {
		t.Fatalf("camera flag not copied into action")
	}
	if !actions[0].Enabled("points") {
		t.Fatalf("unset flag should read enabled")
	}
}

func TestComposeAttachesLightsByLayerMask(t *testing.T) {
	w := ecs.NewWorld()
	addLayer(t, w, "background", 0, true)
	addLayer(t, w, "sky", 1, true)
	addCamera(t, w, 0, 0, nil)

	everywhere := w.CreateEntity()
	if err := ecs.Add(w, everywhere, component.DirectionalLightComponent, component.DirectionalLight{
		DirY: 1, Intensity: 1,
	}); err != nil {
		t.Fatalf("add light: %v", err)
	}
	skyOnly := w.CreateEntity()
	if err := ecs.Add(w, skyOnly, component.DirectionalLightComponent, component.DirectionalLight{
		DirY: 1, Intensity: 1, LayerMask: 1 << 1,
	}); err != nil {
		t.Fatalf("add light: %v", err)
	}

	actions := NewCompositor().Compose(w)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}

	background := actions[0]
	if len(background.Lights()) != 1 || background.Lights()[0] != everywhere {
		t.Fatalf("background lights = %v", background.Lights())
	}
	sky := actions[1]
	if len(sky.Lights()) != 2 {
		t.Fatalf("sky lights = %v", sky.Lights())
	}
}

func TestMaskMatches(t *testing.T) {
	cases := []struct {
		name  string
		mask  uint32
		index int
		want  bool
	}{
		{"zero_mask_matches_all", 0, 7, true},
		{"bit_set", 1 << 3, 3, true},
		{"bit_clear", 1 << 3, 4, false},
		{"negative_index", 1, -1, true},
		{"index_beyond_width", 1, 32, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := maskMatches(c.mask, c.index); got != c.want {
				t.Fatalf("maskMatches(%#x, %d) = %v, want %v", c.mask, c.index, got, c.want)
			}
		})
	}
}
