package system

import (
	"fmt"
	"testing"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
)

func newScriptWorld(t *testing.T, sources map[string]string) (*ecs.World, *ScriptSystem) {
	t.Helper()
	load := func(name string) ([]byte, error) {
		src, ok := sources[name]
		if !ok {
			return nil, fmt.Errorf("no such script %s", name)
		}
		return []byte(src), nil
	}
	w := ecs.NewWorld()
	ss := NewScriptSystem(load, nil)
	w.AddSystem(ss)
	return w, ss
}

func spawnScripted(t *testing.T, w *ecs.World, source string) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	mustAdd(t, w, e, component.TransformComponent, component.Transform{ScaleX: 1, ScaleY: 1})
	mustAdd(t, w, e, component.ScriptComponent, component.Script{Source: source})
	return e
}

func TestScriptStateAndPositionAccess(t *testing.T) {
	sources := map[string]string{
		"counter.tengo": `
start := func(engine, state) {
	state.n = 0
}

update := func(engine, state, dt) {
	state.n += 1
	engine.set_position(10.0 + state.n, 5.0)
}
`,
	}
	w, _ := newScriptWorld(t, sources)
	e := spawnScripted(t, w, "counter.tengo")

	w.Update(1.0 / 60.0)
	w.Update(1.0 / 60.0)

	transform, _ := ecs.Get(w, e, component.TransformComponent)
	if transform.X != 12 || transform.Y != 5 {
		t.Fatalf("state did not persist across frames: %+v", transform)
	}
}

func TestScriptStartRunsOnce(t *testing.T) {
	sources := map[string]string{
		"once.tengo": `
start := func(engine, state) {
	if state.starts == undefined {
		state.starts = 0
	}
	state.starts += 1
}

update := func(engine, state, dt) {
	engine.set_position(state.starts, 0.0)
}
`,
	}
	w, _ := newScriptWorld(t, sources)
	e := spawnScripted(t, w, "once.tengo")

	for i := 0; i < 3; i++ {
		w.Update(1.0 / 60.0)
	}
	transform, _ := ecs.Get(w, e, component.TransformComponent)
	if transform.X != 1 {
		t.Fatalf("start ran %v times", transform.X)
	}
}

func TestScriptCompileErrorQuarantinesSource(t *testing.T) {
	sources := map[string]string{
		"bad.tengo": `this is not tengo`,
	}
	w, ss := newScriptWorld(t, sources)
	spawnScripted(t, w, "bad.tengo")

	w.Update(1.0 / 60.0)
	if !ss.broken["bad.tengo"] {
		t.Fatalf("broken source not quarantined")
	}
	// Subsequent frames skip it without recompiling.
	w.Update(1.0 / 60.0)
}

func TestScriptInvalidateRecompiles(t *testing.T) {
	sources := map[string]string{
		"swap.tengo": `
start := func(engine, state) {}

update := func(engine, state, dt) {
	engine.set_position(1.0, 0.0)
}
`,
	}
	w, ss := newScriptWorld(t, sources)
	e := spawnScripted(t, w, "swap.tengo")

	w.Update(1.0 / 60.0)
	transform, _ := ecs.Get(w, e, component.TransformComponent)
	if transform.X != 1 {
		t.Fatalf("expected x=1, got %v", transform.X)
	}

	sources["swap.tengo"] = `
start := func(engine, state) {}

update := func(engine, state, dt) {
	engine.set_position(2.0, 0.0)
}
`
	ss.Invalidate("swap.tengo")
	w.Update(1.0 / 60.0)

	transform, _ = ecs.Get(w, e, component.TransformComponent)
	if transform.X != 2 {
		t.Fatalf("invalidate did not recompile, x=%v", transform.X)
	}
}
