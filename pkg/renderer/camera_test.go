package renderer

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func forwardConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}
}

func TestCamera_Forward(t *testing.T) {
	camera := NewCamera(forwardConfig())

	forward := camera.Forward()
	expected := core.NewVec3(0, 0, -1)
	if forward.Subtract(expected).Length() > 1e-6 {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCamera_GetRay_CenterAndCorners(t *testing.T) {
	camera := NewCamera(forwardConfig())
	sampler := core.NewSeededSampler(1)

	// vfov 90 gives a viewport 2 high at distance 1
	halfWidth := float32(16.0 / 9.0)
	tests := []struct {
		name      string
		s, t      float32
		direction core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-halfWidth, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(halfWidth, 1, -1)},
		{"top center", 0.5, 1, core.NewVec3(0, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t, sampler)
			if ray.Origin != (core.Vec3{}) {
				t.Errorf("Pinhole camera should not move the origin, got %v", ray.Origin)
			}
			if ray.Direction.Subtract(tt.direction).Length() > 1e-5 {
				t.Errorf("Expected direction %v, got %v", tt.direction, ray.Direction)
			}
		})
	}
}

// countingSampler records how often it is consulted
type countingSampler struct {
	inner core.Sampler
	calls int
}

func (c *countingSampler) Get1D() float32   { c.calls++; return c.inner.Get1D() }
func (c *countingSampler) Get2D() core.Vec2 { c.calls++; return c.inner.Get2D() }
func (c *countingSampler) Get3D() core.Vec3 { c.calls++; return c.inner.Get3D() }

func TestCamera_GetRay_NoApertureSkipsSampler(t *testing.T) {
	camera := NewCamera(forwardConfig())
	sampler := &countingSampler{inner: core.NewSeededSampler(1)}

	camera.GetRay(0.25, 0.75, sampler)
	if sampler.calls != 0 {
		t.Errorf("Expected no sampler calls without aperture, got %d", sampler.calls)
	}
}

func TestCamera_GetRay_DepthOfField(t *testing.T) {
	config := forwardConfig()
	config.Aperture = 0.5
	config.FocusDistance = 4
	camera := NewCamera(config)
	sampler := core.NewSeededSampler(7)

	// Every lens sample for the same pixel converges on the same focus-plane point
	focusPoint := core.NewVec3(0, 0, -4)
	moved := false
	for i := 0; i < 100; i++ {
		ray := camera.GetRay(0.5, 0.5, sampler)

		if ray.Origin.Z != 0 {
			t.Fatalf("Lens offset should stay in the (u, v) plane, got %v", ray.Origin)
		}
		if ray.Origin.Length() >= 0.25 {
			t.Fatalf("Lens offset %v exceeds aperture radius", ray.Origin)
		}
		if ray.Origin.Length() > 0 {
			moved = true
		}

		// Point at z = -4 along the ray
		tFocus := -4 / ray.Direction.Z
		p := ray.At(tFocus)
		if p.Subtract(focusPoint).Length() > 1e-4 {
			t.Fatalf("Ray does not pass through focus point: %v", p)
		}
	}
	if !moved {
		t.Error("Expected lens sampling to move the ray origin")
	}
}

func TestCamera_LookFromBasis(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(13, 2, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        20,
		AspectRatio: 3.0 / 2.0,
	}
	camera := NewCamera(config)

	ray := camera.GetRay(0.5, 0.5, core.NewSeededSampler(1))
	toTarget := config.LookAt.Subtract(config.Center).Normalize()
	if ray.Direction.Normalize().Subtract(toTarget).Length() > 1e-4 {
		t.Errorf("Center ray should aim at look-at point: expected %v, got %v", toTarget, ray.Direction.Normalize())
	}

	if math32.Abs(camera.u.Dot(camera.v)) > 1e-5 || math32.Abs(camera.u.Dot(camera.w)) > 1e-5 {
		t.Errorf("Camera basis is not orthogonal: u=%v v=%v w=%v", camera.u, camera.v, camera.w)
	}
}
