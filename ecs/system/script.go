package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
	"github.com/veldrane/helix/logging"
)

// scriptDispatch is appended to every behavior script so one compiled
// program serves both lifecycle phases. Scripts must define
// start(engine, state) and update(engine, state, dt).
const scriptDispatch = `
if __phase == "start" {
	start(__engine, __state)
} else {
	update(__engine, __state, __dt)
}
`

// ScriptLoader resolves a script name to tengo source, usually
// prefabs.LoadScript.
type ScriptLoader func(name string) ([]byte, error)

// ScriptSystem runs per-entity tengo behavior scripts. Each source compiles
// once; per-entity state lives in a tengo map that persists across frames.
// Scripts see an `engine` host-function table for transform access,
// impulses and raycasts.
type ScriptSystem struct {
	load    ScriptLoader
	physics *PhysicsSystem
	runtime map[ecs.Entity]*scriptRuntime
	broken  map[string]bool
}

type scriptRuntime struct {
	source   string
	compiled *tengo.Compiled
	state    *tengo.Map
	started  bool
}

func NewScriptSystem(load ScriptLoader, physics *PhysicsSystem) *ScriptSystem {
	return &ScriptSystem{
		load:    load,
		physics: physics,
		runtime: make(map[ecs.Entity]*scriptRuntime),
		broken:  make(map[string]bool),
	}
}

// Invalidate drops compiled runtimes for a source so the next frame
// recompiles it; the prefab hot-reload path calls this.
func (ss *ScriptSystem) Invalidate(source string) {
	if ss == nil {
		return
	}
	delete(ss.broken, source)
	for e, rt := range ss.runtime {
		if rt.source == source {
			delete(ss.runtime, e)
		}
	}
}

func (ss *ScriptSystem) Update(w *ecs.World, dt float64) {
	if ss == nil || w == nil || ss.load == nil {
		return
	}

	seen := make(map[ecs.Entity]struct{})
	for _, e := range w.Query(component.ScriptComponent.Kind()) {
		seen[e] = struct{}{}

		script, ok := ecs.Get(w, e, component.ScriptComponent)
		if !ok || strings.TrimSpace(script.Source) == "" {
			continue
		}
		if ss.broken[script.Source] {
			continue
		}

		rt, err := ss.getRuntime(e, script.Source)
		if err != nil {
			logging.Error("script: compile failed", "source", script.Source, "err", err)
			ss.broken[script.Source] = true
			continue
		}

		engine := ss.buildEngine(w, e)
		if !rt.started {
			if err := rt.run("start", engine, dt); err != nil {
				logging.Error("script: start failed", "entity", e.String(), "source", script.Source, "err", err)
				continue
			}
			rt.started = true
		}
		if err := rt.run("update", engine, dt); err != nil {
			logging.Error("script: update failed", "entity", e.String(), "source", script.Source, "err", err)
		}
	}

	for e := range ss.runtime {
		if _, ok := seen[e]; !ok {
			delete(ss.runtime, e)
		}
	}
}

func (ss *ScriptSystem) getRuntime(e ecs.Entity, source string) (*scriptRuntime, error) {
	if rt, ok := ss.runtime[e]; ok && rt.source == source {
		return rt, nil
	}

	src, err := ss.load(source)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}

	script := tengo.NewScript(append(src, []byte("\n"+scriptDispatch)...))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__dt", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", source, err)
	}

	rt := &scriptRuntime{
		source:   source,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	ss.runtime[e] = rt
	return rt, nil
}

func (rt *scriptRuntime) run(phase string, engine *tengo.ImmutableMap, dt float64) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	if err := rt.compiled.Set("__dt", dt); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (ss *ScriptSystem) buildEngine(w *ecs.World, e ecs.Entity) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			return floatPair(0, 0), nil
		}
		return floatPair(t.X, t.Y), nil
	}}

	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		t, _ := ecs.Get(w, e, component.TransformComponent)
		t.X, t.Y = x, y
		if err := ecs.Add(w, e, component.TransformComponent, t); err != nil {
			return tengo.FalseValue, nil
		}
		if body, ok := ecs.Get(w, e, component.RigidBodyComponent); ok && body.Body != nil {
			body.Body.SetPosition(cp.Vector{X: x, Y: y})
		}
		return tengo.TrueValue, nil
	}}

	values["get_velocity"] = &tengo.UserFunction{Name: "get_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if body, ok := ecs.Get(w, e, component.RigidBodyComponent); ok && body.Body != nil {
			v := body.Body.Velocity()
			return floatPair(v.X, v.Y), nil
		}
		vel, _ := ecs.Get(w, e, component.VelocityComponent)
		return floatPair(vel.X, vel.Y), nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		if body, ok := ecs.Get(w, e, component.RigidBodyComponent); ok && body.Body != nil {
			body.Body.SetVelocity(x, y)
		}
		_ = ecs.Add(w, e, component.VelocityComponent, component.Velocity{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["apply_impulse"] = &tengo.UserFunction{Name: "apply_impulse", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		body, ok := ecs.Get(w, e, component.RigidBodyComponent)
		if !ok || body.Body == nil {
			return tengo.FalseValue, nil
		}
		body.Body.ApplyImpulseAtWorldPoint(cp.Vector{X: x, Y: y}, body.Body.Position())
		return tengo.TrueValue, nil
	}}

	values["raycast"] = &tengo.UserFunction{Name: "raycast", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ss.physics == nil || len(args) < 4 {
			return tengo.UndefinedValue, nil
		}
		x0, ok0 := tengo.ToFloat64(args[0])
		y0, ok1 := tengo.ToFloat64(args[1])
		x1, ok2 := tengo.ToFloat64(args[2])
		y1, ok3 := tengo.ToFloat64(args[3])
		if !ok0 || !ok1 || !ok2 || !ok3 {
			return tengo.UndefinedValue, nil
		}
		hit, found := ss.physics.Raycast(cp.Vector{X: x0, Y: y0}, cp.Vector{X: x1, Y: y1}, cp.SHAPE_FILTER_ALL)
		if !found {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Map{Value: map[string]tengo.Object{
			"entity": &tengo.Int{Value: int64(hit.Entity)},
			"x":      &tengo.Float{Value: hit.Point.X},
			"y":      &tengo.Float{Value: hit.Point.Y},
			"alpha":  &tengo.Float{Value: hit.Alpha},
		}}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func floatPair(x, y float64) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}
}
