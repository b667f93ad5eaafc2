package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

const minimalScene = `
[camera]
look_from = [0.0, 0.0, 0.0]
look_at = [0.0, 0.0, -1.0]

[materials.gray]
type = "lambertian"
albedo = [0.5, 0.5, 0.5]

[[spheres]]
center = [0.0, 0.0, -1.0]
radius = 0.5
material = "gray"
`

const fullScene = `
name = "glass-and-gold"
description = "Two spheres"

[image]
width = 200
aspect_ratio = 2.0

[sampling]
samples_per_pixel = 8
max_depth = 4
seed = 7

[camera]
look_from = [0.0, 1.0, 3.0]
look_at = [0.0, 0.0, -1.0]
up = [0.0, 1.0, 0.0]
vfov = 40.0
aperture = 0.5
focus_distance = 4.0

[background]
top = [0.2, 0.3, 0.9]

[materials.glass]
type = "dielectric"
refractive_index = 1.5

[materials.gold]
type = "metal"
albedo = [0.8, 0.6, 0.2]
fuzz = 3.0

[[spheres]]
center = [-1.0, 0.0, -1.0]
radius = 0.5
material = "glass"

[[spheres]]
center = [-1.0, 0.0, -1.0]
radius = -0.45
material = "glass"

[[spheres]]
center = [1.0, 0.0, -1.0]
radius = 0.5
material = "gold"
`

func TestDecode_Defaults(t *testing.T) {
	s, err := Decode(strings.NewReader(minimalScene))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if s.Width != defaultWidth {
		t.Errorf("Expected default width %d, got %d", defaultWidth, s.Width)
	}
	if s.CameraConfig.AspectRatio != defaultAspectRatio {
		t.Errorf("Expected default aspect ratio, got %f", s.CameraConfig.AspectRatio)
	}
	if s.CameraConfig.VFov != defaultVFov {
		t.Errorf("Expected default vfov, got %f", s.CameraConfig.VFov)
	}
	if s.CameraConfig.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected +y up, got %v", s.CameraConfig.Up)
	}
	if s.SamplingConfig.SamplesPerPixel != 100 || s.SamplingConfig.MaxDepth != 10 || s.SamplingConfig.Seed != 42 {
		t.Errorf("Expected default sampling, got %+v", s.SamplingConfig)
	}
	if s.World.Len() != 1 {
		t.Errorf("Expected 1 sphere, got %d", s.World.Len())
	}
}

func TestDecode_Full(t *testing.T) {
	s, err := Decode(strings.NewReader(fullScene))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if s.Name != "glass-and-gold" || s.Description != "Two spheres" {
		t.Errorf("Unexpected name/description %q/%q", s.Name, s.Description)
	}
	if s.Width != 200 || s.Height != 100 {
		t.Errorf("Expected 200x100, got %dx%d", s.Width, s.Height)
	}
	if s.SamplingConfig.SamplesPerPixel != 8 || s.SamplingConfig.MaxDepth != 4 || s.SamplingConfig.Seed != 7 {
		t.Errorf("Unexpected sampling %+v", s.SamplingConfig)
	}
	if s.CameraConfig.VFov != 40 || s.CameraConfig.Aperture != 0.5 || s.CameraConfig.FocusDistance != 4 {
		t.Errorf("Unexpected camera %+v", s.CameraConfig)
	}
	if s.Background.Top != core.NewColor(0.2, 0.3, 0.9) {
		t.Errorf("Expected overridden top color, got %v", s.Background.Top)
	}
	if s.Background.Bottom != core.NewColor(1, 1, 1) {
		t.Errorf("Bottom color should keep its default, got %v", s.Background.Bottom)
	}

	all := spheres(s.World)
	if len(all) != 3 {
		t.Fatalf("Expected 3 spheres, got %d", len(all))
	}
	if all[0].Material != all[1].Material {
		t.Error("Spheres naming the same material should share it")
	}
	if all[1].Radius != -0.45 {
		t.Errorf("Negative radius should be kept, got %f", all[1].Radius)
	}
	// Fuzz is clamped on construction
	if all[2].Material.Kind != material.KindMetal || all[2].Material.Fuzz != 1 {
		t.Errorf("Expected metal with fuzz 1, got %+v", all[2].Material)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", minimalScene + "\n[extra]\nfoo = 1\n"},
		{"undefined material", strings.Replace(minimalScene, `material = "gray"`, `material = "missing"`, 1)},
		{"zero radius", strings.Replace(minimalScene, "radius = 0.5", "radius = 0.0", 1)},
		{"unknown material type", strings.Replace(minimalScene, `type = "lambertian"`, `type = "plastic"`, 1)},
		{"dielectric without index", strings.Replace(minimalScene, `type = "lambertian"`, `type = "dielectric"`, 1)},
		{"coincident camera", strings.Replace(minimalScene, "look_at = [0.0, 0.0, -1.0]", "look_at = [0.0, 0.0, 0.0]", 1)},
		{"parallel up", strings.Replace(minimalScene, "look_at = [0.0, 0.0, -1.0]", "look_at = [0.0, 5.0, 0.0]", 1)},
		{"vfov too wide", strings.Replace(minimalScene, "[camera]", "[camera]\nvfov = 180.0", 1)},
		{"negative width", "[image]\nwidth = -5\n" + minimalScene},
		{"negative spp", "[sampling]\nsamples_per_pixel = -1\n" + minimalScene},
		{"negative aperture", strings.Replace(minimalScene, "[camera]", "[camera]\naperture = -1.0", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.content))
			if !errors.Is(err, ErrInvalidScene) {
				t.Errorf("Expected ErrInvalidScene, got %v", err)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader("[camera\nlook_from = "))
	if err == nil {
		t.Fatal("Expected a syntax error")
	}
	if errors.Is(err, ErrInvalidScene) {
		t.Errorf("Syntax errors should not be reported as invalid scenes: %v", err)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	for _, original := range []*Scene{NewDefaultScene(), NewRandomScene(3)} {
		t.Run(original.Name, func(t *testing.T) {
			data, err := original.Marshal()
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}

			decoded, err := Decode(strings.NewReader(string(data)))
			if err != nil {
				t.Fatalf("Decode() error: %v\n%s", err, data)
			}

			if decoded.Name != original.Name || decoded.Width != original.Width || decoded.Height != original.Height {
				t.Errorf("Header mismatch: %s %dx%d vs %s %dx%d",
					decoded.Name, decoded.Width, decoded.Height, original.Name, original.Width, original.Height)
			}
			if decoded.CameraConfig != original.CameraConfig {
				t.Errorf("Camera mismatch: %+v vs %+v", decoded.CameraConfig, original.CameraConfig)
			}
			if decoded.SamplingConfig != original.SamplingConfig {
				t.Errorf("Sampling mismatch: %+v vs %+v", decoded.SamplingConfig, original.SamplingConfig)
			}
			if decoded.Background != original.Background {
				t.Errorf("Background mismatch: %+v vs %+v", decoded.Background, original.Background)
			}

			a, b := spheres(original.World), spheres(decoded.World)
			if len(a) != len(b) {
				t.Fatalf("Expected %d spheres, got %d", len(a), len(b))
			}
			for i := range a {
				if *a[i] != *b[i] {
					t.Errorf("Sphere %d: %+v vs %+v", i, b[i], a[i])
				}
			}
		})
	}
}

func TestToFile_SharesMaterials(t *testing.T) {
	f := NewDefaultScene().ToFile()

	// Ground, center, glass (twice) and gold: four distinct materials
	if len(f.Materials) != 4 {
		t.Errorf("Expected 4 materials, got %d: %v", len(f.Materials), f.Materials)
	}
	if f.Spheres[2].Material != f.Spheres[3].Material {
		t.Errorf("Hollow glass shells should share a material, got %q and %q", f.Spheres[2].Material, f.Spheres[3].Material)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my-scene.toml")
	if err := os.WriteFile(path, []byte(minimalScene), 0o644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}
	if s.Name != "my-scene" {
		t.Errorf("Expected name from file name, got %q", s.Name)
	}

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestBundledScenes(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.toml"))
	if err != nil {
		t.Fatalf("Glob error: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no bundled scenes")
	}

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error: %v", err)
			}
			if s.World.Len() == 0 {
				t.Error("Bundled scene has no spheres")
			}

			info, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}
			if info.Description == "" {
				t.Error("Bundled scene should carry a description header")
			}
		})
	}
}
