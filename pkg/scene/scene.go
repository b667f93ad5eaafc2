package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

var (
	// ErrUnknownScene is returned when a scene name is neither built in nor a scene file
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidScene is returned when a scene file decodes but describes an unusable scene
	ErrInvalidScene = errors.New("invalid scene")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Description    string
	Width          int // Image width
	Height         int // Image height
	CameraConfig   renderer.CameraConfig
	Camera         *renderer.Camera
	World          *geometry.HittableList
	SamplingConfig renderer.SamplingConfig
	Background     integrator.Background
}

// newScene assembles a scene and derives its camera and image height
func newScene(name string, width int, cameraConfig renderer.CameraConfig, sampling renderer.SamplingConfig) *Scene {
	s := &Scene{
		Name:           name,
		CameraConfig:   cameraConfig,
		World:          geometry.NewHittableList(),
		SamplingConfig: sampling,
		Background:     integrator.DefaultBackground(),
	}
	s.SetWidth(width)
	return s
}

// SetWidth changes the image width, keeping the camera's aspect ratio
func (s *Scene) SetWidth(width int) {
	s.Width = max(1, width)
	s.Height = max(1, int(float32(s.Width)/s.CameraConfig.AspectRatio))
	s.Camera = renderer.NewCamera(s.CameraConfig)
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld returns the aggregate of every shape in the scene
func (s *Scene) GetWorld() geometry.Shape {
	return s.World
}

// GetBackground returns the sky gradient
func (s *Scene) GetBackground() integrator.Background {
	return s.Background
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return countPrimitives(s.World)
}

func countPrimitives(shape geometry.Shape) int {
	switch v := shape.(type) {
	case *geometry.HittableList:
		n := 0
		for _, child := range v.Objects() {
			n += countPrimitives(child)
		}
		return n
	case *geometry.Sphere:
		return 1
	default:
		return 0
	}
}

// Spheres returns every sphere in the world in insertion order, flattening nested lists
func (s *Scene) Spheres() []*geometry.Sphere {
	return spheres(s.World)
}

// Load returns a built-in scene by name, or loads a scene file when name ends in .toml
func Load(name string) (*Scene, error) {
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		return LoadFile(name)
	}

	switch name {
	case "random", "final":
		return NewRandomScene(42), nil
	case "default", "three-spheres":
		return NewDefaultScene(), nil
	case "sphere", "single-sphere":
		return NewSingleSphereScene(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
}
