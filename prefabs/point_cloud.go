package prefabs

import (
	"math"
	"math/rand"

	"github.com/veldrane/helix/ecs/component"
)

// buildPointCloud expands a spec into point vertices. Explicit points win;
// otherwise Count points are scattered on an annulus with a deterministic
// seed so reloading a prefab reproduces the same cloud.
func buildPointCloud(spec *PointCloudSpec) component.PointCloud {
	cloud := component.PointCloud{
		PointSize: float32(spec.PointSize),
		Shader:    spec.Shader,
	}

	if len(spec.Points) > 0 {
		cloud.Points = make([]component.PointVertex, 0, len(spec.Points))
		for _, p := range spec.Points {
			v := component.PointVertex{
				X:    float32(p.X),
				Y:    float32(p.Y),
				Size: float32(p.Size),
				R:    1, G: 1, B: 1, A: 1,
			}
			if len(p.RGBA) == 4 {
				v.R = float32(p.RGBA[0])
				v.G = float32(p.RGBA[1])
				v.B = float32(p.RGBA[2])
				v.A = float32(p.RGBA[3])
			}
			cloud.Points = append(cloud.Points, v)
		}
		return cloud
	}

	count := spec.Count
	if count <= 0 {
		return cloud
	}

	r, g, b, a := float32(1), float32(1), float32(1), float32(1)
	if spec.Color != [4]float64{} {
		r = float32(spec.Color[0])
		g = float32(spec.Color[1])
		b = float32(spec.Color[2])
		a = float32(spec.Color[3])
	}

	minR := spec.MinRadius
	maxR := spec.MaxRadius
	if maxR < minR {
		minR, maxR = maxR, minR
	}

	rng := rand.New(rand.NewSource(int64(count)<<16 ^ int64(maxR*1000)))
	cloud.Points = make([]component.PointVertex, 0, count)
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		radius := minR + rng.Float64()*(maxR-minR)
		cloud.Points = append(cloud.Points, component.PointVertex{
			X: float32(math.Cos(angle) * radius),
			Y: float32(math.Sin(angle) * radius),
			R: r, G: g, B: b, A: a,
		})
	}
	return cloud
}
