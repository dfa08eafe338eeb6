package system

import (
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/veldrane/helix/ecs"
	"github.com/veldrane/helix/ecs/component"
	"github.com/veldrane/helix/logging"
	"github.com/veldrane/helix/render"
)

// Pass flags consulted per action; cameras can disable either via their
// Flags map.
const (
	FlagSprites = "sprites"
	FlagPoints  = "points"
)

// RenderSystem executes the compositor's action list: one camera-over-layer
// pass per action, sprites first, then point clouds through their shader.
type RenderSystem struct {
	shaders    *render.ShaderRegistry
	shaderWarn map[string]bool
}

func NewRenderSystem(shaders *render.ShaderRegistry) *RenderSystem {
	if shaders == nil {
		shaders = render.NewShaderRegistry()
	}
	return &RenderSystem{
		shaders:    shaders,
		shaderWarn: make(map[string]bool),
	}
}

// Shaders exposes the registry so applications can register custom shaders.
func (r *RenderSystem) Shaders() *render.ShaderRegistry {
	if r == nil {
		return nil
	}
	return r.shaders
}

// Draw runs every action against the screen.
func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image, actions []*render.Action) {
	if r == nil || w == nil || screen == nil {
		return
	}
	for _, action := range actions {
		r.drawAction(w, screen, action)
	}
}

func (r *RenderSystem) drawAction(w *ecs.World, screen *ebiten.Image, action *render.Action) {
	camX, camY := 0.0, 0.0
	zoom := 1.0
	if camTransform, ok := ecs.Get(w, action.Camera, component.TransformComponent); ok {
		camX = camTransform.X
		camY = camTransform.Y
	}
	if cam, ok := ecs.Get(w, action.Camera, component.CameraComponent); ok && cam.Zoom > 0 {
		zoom = cam.Zoom
	}

	parallax := 1.0
	if action.Layer.Parallax > 0 {
		parallax = action.Layer.Parallax
	}
	offX := camX * parallax
	offY := camY * parallax

	if action.Enabled(FlagSprites) {
		r.drawSprites(w, screen, action.Layer.Index, offX, offY, zoom)
	}
	if action.Enabled(FlagPoints) {
		r.drawPointClouds(w, screen, action, offX, offY, zoom)
	}
}

func (r *RenderSystem) drawSprites(w *ecs.World, screen *ebiten.Image, layerIndex int, offX, offY, zoom float64) {
	entities := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind(), component.RenderLayerComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i] < entities[j]
	})

	for _, e := range entities {
		layer, ok := ecs.Get(w, e, component.RenderLayerComponent)
		if !ok || layer.Index != layerIndex {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		s, ok := ecs.Get(w, e, component.SpriteComponent)
		if !ok || s.Image == nil {
			continue
		}

		img := s.Image
		if s.UseSource {
			if sub, ok := s.Image.SubImage(s.Source).(*ebiten.Image); ok {
				img = sub
			}
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)

		sx := t.ScaleX
		if sx == 0 {
			sx = 1
		}
		sy := t.ScaleY
		if sy == 0 {
			sy = 1
		}
		if s.FlipX {
			sx = -sx
			op.GeoM.Translate(float64(-img.Bounds().Dx()), 0)
		}

		op.GeoM.Scale(sx, sy)
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Scale(zoom, zoom)
		op.GeoM.Translate((t.X-offX)*zoom, (t.Y-offY)*zoom)

		screen.DrawImage(img, op)
	}
}

func (r *RenderSystem) drawPointClouds(w *ecs.World, screen *ebiten.Image, action *render.Action, offX, offY, zoom float64) {
	entities := w.Query(component.TransformComponent.Kind(), component.PointCloudComponent.Kind(), component.RenderLayerComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i] < entities[j]
	})

	uniforms := lightUniforms(w, action)

	for _, e := range entities {
		layer, ok := ecs.Get(w, e, component.RenderLayerComponent)
		if !ok || layer.Index != action.Layer.Index {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		cloud, ok := ecs.Get(w, e, component.PointCloudComponent)
		if !ok || len(cloud.Points) == 0 {
			continue
		}

		name := cloud.Shader
		if name == "" {
			name = render.PointShader
		}
		shader, err := r.shaders.Shader(name)
		if err != nil {
			if !r.shaderWarn[name] {
				logging.Error("render: point cloud shader unavailable", "shader", name, "err", err)
				r.shaderWarn[name] = true
			}
			continue
		}

		vertices, indices := buildPointQuads(cloud, t, offX, offY, zoom)
		opts := &ebiten.DrawTrianglesShaderOptions{Uniforms: uniforms}
		screen.DrawTrianglesShader(vertices, indices, shader, opts)
	}
}

// lightUniforms folds the action's directional-light set into the shader
// uniforms: the first light supplies the direction, intensities sum with
// their colors premultiplied.
func lightUniforms(w *ecs.World, action *render.Action) map[string]any {
	dirX, dirY := 0.0, 1.0
	colR, colG, colB := 0.0, 0.0, 0.0
	intensity := 0.0

	for i, lightEntity := range action.Lights() {
		light, ok := ecs.Get(w, lightEntity, component.DirectionalLightComponent)
		if !ok {
			continue
		}
		if i == 0 {
			dirX, dirY = light.DirX, light.DirY
		}
		colR += light.R * light.Intensity
		colG += light.G * light.Intensity
		colB += light.B * light.Intensity
		intensity += light.Intensity
	}
	if intensity > 0 {
		colR /= intensity
		colG /= intensity
		colB /= intensity
	}

	length := math.Hypot(dirX, dirY)
	if length == 0 {
		dirX, dirY, length = 0, 1, 1
	}

	return map[string]any{
		"LightDir":       []float32{float32(dirX / length), float32(dirY / length), -0.5},
		"LightColor":     []float32{float32(colR), float32(colG), float32(colB)},
		"LightIntensity": float32(intensity),
	}
}

func buildPointQuads(cloud component.PointCloud, t component.Transform, offX, offY, zoom float64) ([]ebiten.Vertex, []uint16) {
	vertices := make([]ebiten.Vertex, 0, len(cloud.Points)*4)
	indices := make([]uint16, 0, len(cloud.Points)*6)

	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	for _, p := range cloud.Points {
		if len(vertices) > math.MaxUint16-4 {
			// uint16 index space is full; remaining points are dropped.
			break
		}
		size := p.Size
		if size <= 0 {
			size = cloud.PointSize
		}
		if size <= 0 {
			size = 2
		}
		half := float64(size) / 2 * zoom

		cx := (t.X + float64(p.X) - offX) * zoom
		cy := (t.Y + float64(p.Y) - offY) * zoom

		base := uint16(len(vertices))
		for _, c := range corners {
			vertices = append(vertices, ebiten.Vertex{
				DstX:   float32(cx + float64(c[0])*half),
				DstY:   float32(cy + float64(c[1])*half),
				SrcX:   c[0],
				SrcY:   c[1],
				ColorR: p.R,
				ColorG: p.G,
				ColorB: p.B,
				ColorA: p.A,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}
