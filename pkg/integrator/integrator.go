package integrator

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray with at most depth bounces
	RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Color
}

// Background is a vertical sky gradient, blended by the ray direction's y component
type Background struct {
	Top    core.Color // Color straight up
	Bottom core.Color // Color straight down
}

// DefaultBackground returns the blue-sky to white gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewColor(0.5, 0.7, 1.0),
		Bottom: core.NewColor(1.0, 1.0, 1.0),
	}
}

// Color returns the background color seen along direction
func (b Background) Color(direction core.Vec3) core.Color {
	unitDirection := direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}
