package render

import (
	"embed"
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed shaders/*.kage
var shadersFS embed.FS

// PointShader is the name of the builtin point-cloud shader.
const PointShader = "points"

// ShaderRegistry maps names to Kage sources and compiles them lazily, so
// registration can happen before a graphics context exists.
type ShaderRegistry struct {
	sources  map[string][]byte
	compiled map[string]*ebiten.Shader
}

// NewShaderRegistry returns a registry seeded with the builtin shaders.
func NewShaderRegistry() *ShaderRegistry {
	r := &ShaderRegistry{
		sources:  make(map[string][]byte),
		compiled: make(map[string]*ebiten.Shader),
	}
	src, err := shadersFS.ReadFile("shaders/points.kage")
	if err != nil {
		panic("render: builtin point shader missing: " + err.Error())
	}
	r.sources[PointShader] = src
	return r
}

// Register adds or replaces a named Kage source. Replacing drops the cached
// compilation.
func (r *ShaderRegistry) Register(name string, src []byte) {
	if r == nil || name == "" || len(src) == 0 {
		return
	}
	r.sources[name] = src
	delete(r.compiled, name)
}

// Shader compiles (once) and returns the named shader.
func (r *ShaderRegistry) Shader(name string) (*ebiten.Shader, error) {
	if r == nil {
		return nil, fmt.Errorf("render: nil shader registry")
	}
	if s, ok := r.compiled[name]; ok {
		return s, nil
	}
	src, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("render: unknown shader %q", name)
	}
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("render: compile shader %q: %w", name, err)
	}
	r.compiled[name] = s
	return s, nil
}

// Names lists registered shader names, sorted.
func (r *ShaderRegistry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
