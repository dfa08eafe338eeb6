package render

import (
	"testing"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
)

func TestActionFlags(t *testing.T) {
	cases := []struct {
		name string
		set  map[string]bool
		ask  string
		want bool
	}{
		{"unknown_defaults_enabled", nil, "sprites", true},
		{"explicit_on", map[string]bool{"sprites": true}, "sprites", true},
		{"explicit_off", map[string]bool{"sprites": false}, "sprites", false},
		{"other_flag_untouched", map[string]bool{"points": false}, "sprites", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NewAction(ecs.NilEntity, component.Layer{}, 0)
			for name, on := range c.set {
				a.SetFlag(name, on)
			}
			if got := a.Enabled(c.ask); got != c.want {
				t.Fatalf("Enabled(%q) = %v, want %v", c.ask, got, c.want)
			}
		})
	}
}

func TestActionLightsDeduplicate(t *testing.T) {
	w := ecs.NewWorld()
	l1 := w.CreateEntity()
	l2 := w.CreateEntity()

	a := NewAction(ecs.NilEntity, component.Layer{}, 0)
	a.AddLight(l1)
	a.AddLight(l2)
	a.AddLight(l1)
	a.AddLight(ecs.NilEntity)

	got := a.Lights()
	if len(got) != 2 || got[0] != l1 || got[1] != l2 {
		t.Fatalf("lights = %v, want [%v %v]", got, l1, l2)
	}
}
