package integrator

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// ShadowEpsilon is the minimum hit distance for every traced ray. Scattered
// rays start exactly on a surface, and rounding would otherwise let them hit
// that same surface at t ≈ 0.
const ShadowEpsilon = 0.001

// PathTracer implements recursive unidirectional path tracing with a hard depth cutoff
type PathTracer struct {
	background Background
}

// NewPathTracer creates a path tracer with the default sky gradient
func NewPathTracer() *PathTracer {
	return &PathTracer{background: DefaultBackground()}
}

// NewPathTracerWithBackground creates a path tracer with a custom sky gradient
func NewPathTracerWithBackground(background Background) *PathTracer {
	return &PathTracer{background: background}
}

// Background returns the sky gradient used for rays that escape the scene
func (pt *PathTracer) Background() Background {
	return pt.background
}

// RayColor computes the color for a single ray
func (pt *PathTracer) RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := world.Hit(ray, ShadowEpsilon, math32.Inf(1))
	if !isHit {
		return pt.background.Color(ray.Direction)
	}

	scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
	if !didScatter {
		return core.Color{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(
		pt.RayColor(scatter.Scattered, world, depth-1, sampler))
}

var defaultTracer = NewPathTracer()

// RayColor traces ray through world against the default sky gradient
func RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Color {
	return defaultTracer.RayColor(ray, world, depth, sampler)
}
