// Inspector runs a scene with a side panel listing live entities and the
// contact events the physics step produced, formats an entity summary and
// copies it to the system clipboard.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	helix "github.com/veldrane/helix"
	"github.com/veldrane/helix/config"
	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
)

const contactLogSize = 12

type inspectorGame struct {
	engine *helix.Engine
	ui     *ebitenui.UI
	panel  *inspectorPanel
	log    *contactLog

	frames        int
	clipboardOK   bool
	selected      ecs.Entity
	lastSelection string
}

// contactLog is a world system that drains contact and trigger events into
// a bounded line buffer before the frame flush discards them.
type contactLog struct {
	lines []string
}

func (cl *contactLog) Update(w *ecs.World, dt float64) {
	for _, ev := range w.Events().Drain() {
		contact, ok := ev.Data.(ecs.ContactEvent)
		if !ok {
			continue
		}
		kind := "contact"
		if contact.Trigger {
			kind = "trigger"
		}
		line := fmt.Sprintf("%s %s %s ~ %s",
			kind, contact.Phase, entityLabel(w, contact.A), entityLabel(w, contact.B))
		cl.lines = append(cl.lines, line)
		if len(cl.lines) > contactLogSize {
			cl.lines = cl.lines[len(cl.lines)-contactLogSize:]
		}
	}
}

func entityLabel(w *ecs.World, e ecs.Entity) string {
	if name, ok := ecs.Get(w, e, component.NameComponent); ok && name.Value != "" {
		return name.Value
	}
	return e.String()
}

func main() {
	configPath := flag.String("config", "helix.yaml", "engine config file")
	scenePath := flag.String("scene", "", "scene file to load")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	cfg.Window.Title = "helix inspector"

	engine := helix.New(cfg)
	if *scenePath != "" {
		if err := engine.LoadScene(*scenePath); err != nil {
			log.Fatal(err)
		}
	}

	game := &inspectorGame{engine: engine, log: &contactLog{}}
	engine.World().AddSystem(game.log)

	game.clipboardOK = clipboard.Init() == nil
	game.ui, game.panel = buildInspectorUI(
		func(e ecs.Entity) { game.selected = e },
		game.copySelection,
	)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func (g *inspectorGame) Update() error {
	if err := g.engine.Update(); err != nil {
		return err
	}
	g.frames++
	if g.frames%30 == 0 {
		g.panel.SetEntities(g.entityEntries())
	}
	g.panel.SetContacts(g.log.lines)
	g.ui.Update()
	return nil
}

func (g *inspectorGame) Draw(screen *ebiten.Image) {
	g.engine.Draw(screen)
	g.ui.Draw(screen)
}

func (g *inspectorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.engine.Layout(outsideWidth, outsideHeight)
}

func (g *inspectorGame) entityEntries() []entityEntry {
	w := g.engine.World()
	entries := make([]entityEntry, 0, w.EntityCount())
	for _, e := range w.Query(component.TransformComponent.Kind()) {
		entries = append(entries, entityEntry{Entity: e, Label: entityLabel(w, e)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Label < entries[j].Label })
	return entries
}

func (g *inspectorGame) copySelection() {
	if !g.clipboardOK || g.selected == ecs.NilEntity {
		return
	}
	summary := g.summarize(g.selected)
	if summary == "" || summary == g.lastSelection {
		return
	}
	g.lastSelection = summary
	clipboard.Write(clipboard.FmtText, []byte(summary))
}

func (g *inspectorGame) summarize(e ecs.Entity) string {
	w := g.engine.World()
	if !w.IsAlive(e) {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "entity %s\n", e)
	if name, ok := ecs.Get(w, e, component.NameComponent); ok {
		fmt.Fprintf(&b, "name: %s instance: %s\n", name.Value, name.InstanceID)
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
		fmt.Fprintf(&b, "position: (%.2f, %.2f) rotation: %.3f\n", t.X, t.Y, t.Rotation)
	}
	if v, ok := ecs.Get(w, e, component.VelocityComponent); ok {
		fmt.Fprintf(&b, "velocity: (%.2f, %.2f)\n", v.X, v.Y)
	}
	if rb, ok := ecs.Get(w, e, component.RigidBodyComponent); ok {
		fmt.Fprintf(&b, "body: %v trigger: %v mass: %.2f\n", rb.Kind, rb.Trigger, rb.Mass)
	}
	if pc, ok := ecs.Get(w, e, component.PointCloudComponent); ok {
		fmt.Fprintf(&b, "points: %d shader: %s\n", len(pc.Points), pc.Shader)
	}
	return b.String()
}
