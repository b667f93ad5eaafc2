package renderer

import (
	"image/color"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// MockScene implements Scene for testing
type MockScene struct {
	camera     *Camera
	world      *geometry.HittableList
	background integrator.Background
}

func (m MockScene) GetCamera() *Camera                   { return m.camera }
func (m MockScene) GetWorld() geometry.Shape             { return m.world }
func (m MockScene) GetBackground() integrator.Background { return m.background }

func singleSphereScene(width, height int) MockScene {
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: float32(width) / float32(height),
	})
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))),
	)
	return MockScene{camera: camera, world: world, background: integrator.DefaultBackground()}
}

func TestRaytracer_CenterDarkerThanBackground(t *testing.T) {
	const width, height = 21, 11
	sc := singleSphereScene(width, height)
	rt := NewRaytracer(sc, width, height)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 16, MaxDepth: 10, Seed: 1})

	frame, stats := rt.Render()

	center := frame.At(width/2, height/2)
	sky := sc.background.Color(core.NewVec3(0, 0, -1))
	if center.X >= sky.X || center.Y >= sky.Y || center.Z >= sky.Z {
		t.Errorf("Center pixel %v should be darker than background %v", center, sky)
	}

	// The top corners see only sky
	corner := frame.At(0, 0)
	if corner.Luminance() <= center.Luminance() {
		t.Errorf("Sky corner %v should be brighter than sphere center %v", corner, center)
	}

	if stats.TotalPixels != width*height {
		t.Errorf("Expected %d pixels, got %d", width*height, stats.TotalPixels)
	}
	if stats.TotalSamples != width*height*16 {
		t.Errorf("Expected %d samples, got %d", width*height*16, stats.TotalSamples)
	}
	if stats.AverageSamples != 16 {
		t.Errorf("Expected 16 average samples, got %f", stats.AverageSamples)
	}
}

func TestRaytracer_Deterministic(t *testing.T) {
	const width, height = 8, 6
	config := SamplingConfig{SamplesPerPixel: 4, MaxDepth: 5, Seed: 99}

	render := func() *Frame {
		rt := NewRaytracer(singleSphereScene(width, height), width, height)
		rt.SetSamplingConfig(config)
		frame, _ := rt.Render()
		return frame
	}

	a, b := render(), render()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("Pixel (%d, %d) differs between identical renders: %v vs %v", x, y, a.At(x, y), b.At(x, y))
			}
		}
	}
}

func TestRaytracer_EmptySceneMatchesGradient(t *testing.T) {
	const width, height = 4, 5
	sc := singleSphereScene(width, height)
	sc.world = geometry.NewHittableList()
	rt := NewRaytracer(sc, width, height)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 8, MaxDepth: 3, Seed: 5})

	frame, _ := rt.Render()

	// Higher rows look further up, toward the blue top of the gradient
	top := frame.At(0, 0)
	bottom := frame.At(0, height-1)
	if top.X >= bottom.X {
		t.Errorf("Top row %v should be bluer (less red) than bottom row %v", top, bottom)
	}
}

func TestRaytracer_ProgressCallback(t *testing.T) {
	const width, height = 3, 4
	rt := NewRaytracer(singleSphereScene(width, height), width, height)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 1, MaxDepth: 2, Seed: 1})

	var updates []Progress
	rt.SetProgressCallback(func(p Progress) { updates = append(updates, p) })
	rt.Render()

	if len(updates) != height {
		t.Fatalf("Expected %d progress updates, got %d", height, len(updates))
	}
	for i, p := range updates {
		if p.RowsDone != i+1 || p.TotalRows != height {
			t.Errorf("Update %d: expected %d/%d, got %d/%d", i, i+1, height, p.RowsDone, p.TotalRows)
		}
	}
	if last := updates[len(updates)-1]; last.Fraction() != 1 {
		t.Errorf("Expected final fraction 1, got %f", last.Fraction())
	}
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name     string
		in       core.Color
		expected color.RGBA
	}{
		{"black", core.NewColor(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"white clamps to 255", core.NewColor(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{"overexposed clamps", core.NewColor(4, 4, 4), color.RGBA{255, 255, 255, 255}},
		{"gamma 2", core.NewColor(0.25, 0.25, 0.25), color.RGBA{128, 128, 128, 255}},
		{"negative clamps to 0", core.NewColor(-1, 0, 0), color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGBA(tt.in); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFrame_ToRGBA(t *testing.T) {
	frame := NewFrame(2, 1)
	frame.Set(1, 0, core.NewColor(1, 0, 0))
	img := frame.ToRGBA()

	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Fatalf("Unexpected bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Expected red, got %v", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("Expected black, got %v", got)
	}
}
