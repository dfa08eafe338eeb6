// Package helix is a small 2D engine: an entity component world stepped on
// a fixed physics timestep over Chipmunk, composed into camera-over-layer
// render passes and drawn with Ebitengine.
package helix

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/veldrane/helix/config"
	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/system"
	"github.com/veldrane/helix/logging"
	"github.com/veldrane/helix/prefabs"
	"github.com/veldrane/helix/render"
	"github.com/veldrane/helix/scene"
)

// Engine implements ebiten.Game over a world and its systems. Update order
// is scripts, physics, camera; Draw executes whatever the compositor
// produced for the current frame.
type Engine struct {
	cfg    config.Config
	world  *ecs.World
	frames int
	debug  bool

	physics    *system.PhysicsSystem
	scripts    *system.ScriptSystem
	compositor *render.Compositor
	renderer   *system.RenderSystem

	watcher *prefabs.Watcher
}

func New(cfg config.Config) *Engine {
	logging.SetLevel(cfg.LogLevel)

	w := ecs.NewWorld()
	physics := system.NewPhysicsSystem(system.PhysicsConfig{
		GravityX:     cfg.Physics.GravityX,
		GravityY:     cfg.Physics.GravityY,
		TimeStep:     cfg.Physics.TimeStep,
		MaxSubSteps:  cfg.Physics.MaxSubSteps,
		Iterations:   cfg.Physics.Iterations,
		Damping:      cfg.Physics.Damping,
		PollContacts: cfg.Physics.PollContacts,
	})
	scripts := system.NewScriptSystem(prefabs.LoadScript, physics)

	w.AddSystem(scripts)
	w.AddSystem(physics)
	w.AddSystem(system.NewCameraSystem())

	return &Engine{
		cfg:        cfg,
		world:      w,
		physics:    physics,
		scripts:    scripts,
		compositor: render.NewCompositor(),
		renderer:   system.NewRenderSystem(render.NewShaderRegistry()),
	}
}

func (e *Engine) World() *ecs.World              { return e.world }
func (e *Engine) Physics() *system.PhysicsSystem { return e.physics }
func (e *Engine) Renderer() *system.RenderSystem { return e.renderer }
func (e *Engine) SetDebug(debug bool)            { e.debug = debug }

// LoadScene reads a scene file and instantiates it into the world.
func (e *Engine) LoadScene(path string) error {
	s, err := scene.Load(path)
	if err != nil {
		return err
	}
	if err := s.Build(e.world); err != nil {
		return err
	}
	logging.Info("scene loaded", "name", s.Name, "entities", e.world.EntityCount())
	return nil
}

// WatchAssets starts a watcher over the given directories and recompiles
// scripts whose source files change on disk.
func (e *Engine) WatchAssets(dirs ...string) error {
	if e.watcher != nil {
		return fmt.Errorf("helix: assets already watched")
	}
	watcher, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	e.watcher = watcher
	go func() {
		for {
			select {
			case path, ok := <-watcher.Events:
				if !ok {
					return
				}
				if strings.EqualFold(filepath.Ext(path), ".tengo") {
					logging.Info("script changed", "path", path)
					e.scripts.Invalidate(filepath.Base(path))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("asset watcher", "err", err)
			}
		}
	}()
	return nil
}

func (e *Engine) Update() error {
	e.frames++
	e.world.Update(stepDelta(ebiten.TPS()))
	return nil
}

// stepDelta converts a ticks-per-second rate to a frame delta. Non-positive
// rates (ebiten.SyncWithFPS reports -1) fall back to 1/60.
func stepDelta(tps int) float64 {
	if tps <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(tps)
}

func (e *Engine) Draw(screen *ebiten.Image) {
	actions := e.compositor.Compose(e.world)
	e.renderer.Draw(e.world, screen, actions)

	if e.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    Entities: %d",
			e.frames, ebiten.ActualFPS(), e.world.EntityCount()))
	}
}

func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	return e.cfg.Window.Width, e.cfg.Window.Height
}

// Run sets up the window from config and blocks inside ebiten's game loop.
func (e *Engine) Run() error {
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(e.cfg.Window.Width, e.cfg.Window.Height)
	ebiten.SetWindowTitle(e.cfg.Window.Title)
	defer func() {
		if e.watcher != nil {
			e.watcher.Close()
		}
	}()
	return ebiten.RunGame(e)
}
