package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// NewDefaultScene creates the three-sphere scene: diffuse center, hollow glass left,
// gold metal right, on a large diffuse ground sphere, with a shallow depth of field
func NewDefaultScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(3, 3, 2),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        20.0,
		AspectRatio: 16.0 / 9.0,
		Aperture:    2.0,
		// Focus on the center sphere
		FocusDistance: 0.0,
	}

	s := newScene("default", 400, cameraConfig, renderer.DefaultSamplingConfig())
	s.Description = "Diffuse, hollow glass and gold spheres with a shallow depth of field"

	// Create materials
	ground := material.NewLambertian(core.NewColor(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewColor(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	gold := material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.0)

	s.World.Add(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground))
	s.World.Add(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, center))
	// A negative radius flips the normals, making the glass sphere hollow
	s.World.Add(geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass))
	s.World.Add(geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, glass))
	s.World.Add(geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, gold))

	return s
}

// NewSingleSphereScene creates one diffuse sphere of radius 0.5 at (0, 0, -1)
// seen from the origin down -z
func NewSingleSphereScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90.0,
		AspectRatio: 16.0 / 9.0,
	}

	s := newScene("single-sphere", 400, cameraConfig, renderer.DefaultSamplingConfig())
	s.Description = "One diffuse sphere on a diffuse ground"

	s.World.Add(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))))
	s.World.Add(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))))

	return s
}
