package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Defaults applied to scene files that leave a field out
const (
	defaultWidth       = 400
	defaultAspectRatio = float32(16.0 / 9.0)
	defaultVFov        = float32(90.0)
)

// File is the on-disk TOML layout of a scene
type File struct {
	Name        string                    `toml:"name,omitempty"`
	Description string                    `toml:"description,omitempty"`
	Image       ImageConfig               `toml:"image"`
	Sampling    SamplingFileConfig        `toml:"sampling"`
	Camera      CameraFileConfig          `toml:"camera"`
	Background  *BackgroundConfig         `toml:"background,omitempty"`
	Materials   map[string]MaterialConfig `toml:"materials"`
	Spheres     []SphereConfig            `toml:"spheres"`
}

// ImageConfig holds the output image dimensions
type ImageConfig struct {
	Width       int     `toml:"width,omitempty"`
	AspectRatio float32 `toml:"aspect_ratio,omitempty"`
}

// SamplingFileConfig mirrors renderer.SamplingConfig
type SamplingFileConfig struct {
	SamplesPerPixel int     `toml:"samples_per_pixel,omitempty"`
	MaxDepth        int     `toml:"max_depth,omitempty"`
	Seed            *uint64 `toml:"seed,omitempty"`
}

// CameraFileConfig mirrors renderer.CameraConfig, minus the aspect ratio
type CameraFileConfig struct {
	LookFrom      [3]float32  `toml:"look_from"`
	LookAt        [3]float32  `toml:"look_at"`
	Up            *[3]float32 `toml:"up,omitempty"`
	VFov          float32     `toml:"vfov,omitempty"`
	Aperture      float32     `toml:"aperture,omitempty"`
	FocusDistance float32     `toml:"focus_distance,omitempty"`
}

// BackgroundConfig overrides either end of the sky gradient
type BackgroundConfig struct {
	Top    *[3]float32 `toml:"top,omitempty"`
	Bottom *[3]float32 `toml:"bottom,omitempty"`
}

// MaterialConfig is one named material. Type is lambertian, metal or dielectric.
type MaterialConfig struct {
	Type            string     `toml:"type"`
	Albedo          [3]float32 `toml:"albedo"`
	Fuzz            float32    `toml:"fuzz,omitempty"`
	RefractiveIndex float32    `toml:"refractive_index,omitempty"`
}

// SphereConfig places a sphere and names its material
type SphereConfig struct {
	Center   [3]float32 `toml:"center"`
	Radius   float32    `toml:"radius"`
	Material string     `toml:"material"`
}

// LoadFile reads and builds a scene from a TOML file
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene file: %w", err)
	}
	defer f.Close()

	sc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Decode parses a TOML scene. Unknown keys are rejected.
func Decode(r io.Reader) (*Scene, error) {
	var file File
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidScene, strict.String())
		}
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return file.Build()
}

// Build validates the file and converts it into a renderable scene
func (f File) Build() (*Scene, error) {
	width := f.Image.Width
	if width == 0 {
		width = defaultWidth
	}
	if width < 0 {
		return nil, fmt.Errorf("%w: image width %d must be positive", ErrInvalidScene, width)
	}

	aspect := f.Image.AspectRatio
	if aspect == 0 {
		aspect = defaultAspectRatio
	}
	if aspect < 0 {
		return nil, fmt.Errorf("%w: aspect ratio %g must be positive", ErrInvalidScene, aspect)
	}

	cameraConfig, err := f.Camera.toCameraConfig(aspect)
	if err != nil {
		return nil, err
	}

	sampling, err := f.Sampling.toSamplingConfig()
	if err != nil {
		return nil, err
	}

	materials := make(map[string]material.Material, len(f.Materials))
	for name, mc := range f.Materials {
		m, err := mc.toMaterial()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = m
	}

	s := newScene(f.Name, width, cameraConfig, sampling)
	s.Description = f.Description

	if f.Background != nil {
		if f.Background.Top != nil {
			s.Background.Top = vec(*f.Background.Top)
		}
		if f.Background.Bottom != nil {
			s.Background.Bottom = vec(*f.Background.Bottom)
		}
	}

	for i, sc := range f.Spheres {
		if sc.Radius == 0 {
			return nil, fmt.Errorf("%w: sphere %d has zero radius", ErrInvalidScene, i)
		}
		m, ok := materials[sc.Material]
		if !ok {
			return nil, fmt.Errorf("%w: sphere %d references undefined material %q", ErrInvalidScene, i, sc.Material)
		}
		s.World.Add(geometry.NewSphere(vec(sc.Center), sc.Radius, m))
	}

	return s, nil
}

func (c CameraFileConfig) toCameraConfig(aspect float32) (renderer.CameraConfig, error) {
	up := core.NewVec3(0, 1, 0)
	if c.Up != nil {
		up = vec(*c.Up)
	}

	vfov := c.VFov
	if vfov == 0 {
		vfov = defaultVFov
	}
	if vfov <= 0 || vfov >= 180 {
		return renderer.CameraConfig{}, fmt.Errorf("%w: vfov %g must be in (0, 180)", ErrInvalidScene, vfov)
	}

	config := renderer.CameraConfig{
		Center:        vec(c.LookFrom),
		LookAt:        vec(c.LookAt),
		Up:            up,
		VFov:          vfov,
		AspectRatio:   aspect,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
	}

	forward := config.LookAt.Subtract(config.Center)
	if forward.NearZero() {
		return renderer.CameraConfig{}, fmt.Errorf("%w: look_from and look_at coincide", ErrInvalidScene)
	}
	if forward.Cross(up).NearZero() {
		return renderer.CameraConfig{}, fmt.Errorf("%w: up is parallel to the view direction", ErrInvalidScene)
	}
	if c.Aperture < 0 {
		return renderer.CameraConfig{}, fmt.Errorf("%w: aperture %g must not be negative", ErrInvalidScene, c.Aperture)
	}

	return config, nil
}

func (c SamplingFileConfig) toSamplingConfig() (renderer.SamplingConfig, error) {
	config := renderer.DefaultSamplingConfig()
	if c.SamplesPerPixel < 0 || c.MaxDepth < 0 {
		return config, fmt.Errorf("%w: samples_per_pixel and max_depth must not be negative", ErrInvalidScene)
	}
	if c.SamplesPerPixel > 0 {
		config.SamplesPerPixel = c.SamplesPerPixel
	}
	if c.MaxDepth > 0 {
		config.MaxDepth = c.MaxDepth
	}
	if c.Seed != nil {
		config.Seed = *c.Seed
	}
	return config, nil
}

func (c MaterialConfig) toMaterial() (material.Material, error) {
	switch c.Type {
	case "lambertian":
		return material.NewLambertian(vec(c.Albedo)), nil
	case "metal":
		return material.NewMetal(vec(c.Albedo), c.Fuzz), nil
	case "dielectric":
		if c.RefractiveIndex <= 0 {
			return material.Material{}, fmt.Errorf("%w: refractive_index %g must be positive", ErrInvalidScene, c.RefractiveIndex)
		}
		return material.NewDielectric(c.RefractiveIndex), nil
	default:
		return material.Material{}, fmt.Errorf("%w: unknown material type %q", ErrInvalidScene, c.Type)
	}
}

// ToFile converts a scene back into its TOML layout. Identical materials share one entry.
func (s *Scene) ToFile() File {
	seed := s.SamplingConfig.Seed
	up := arr(s.CameraConfig.Up)
	top, bottom := arr(s.Background.Top), arr(s.Background.Bottom)

	f := File{
		Name:        s.Name,
		Description: s.Description,
		Image: ImageConfig{
			Width:       s.Width,
			AspectRatio: s.CameraConfig.AspectRatio,
		},
		Sampling: SamplingFileConfig{
			SamplesPerPixel: s.SamplingConfig.SamplesPerPixel,
			MaxDepth:        s.SamplingConfig.MaxDepth,
			Seed:            &seed,
		},
		Camera: CameraFileConfig{
			LookFrom:      arr(s.CameraConfig.Center),
			LookAt:        arr(s.CameraConfig.LookAt),
			Up:            &up,
			VFov:          s.CameraConfig.VFov,
			Aperture:      s.CameraConfig.Aperture,
			FocusDistance: s.CameraConfig.FocusDistance,
		},
		Background: &BackgroundConfig{Top: &top, Bottom: &bottom},
		Materials:  make(map[string]MaterialConfig),
	}

	names := make(map[material.Material]string)
	for _, sphere := range spheres(s.World) {
		name, ok := names[sphere.Material]
		if !ok {
			name = fmt.Sprintf("%s_%d", sphere.Material.Kind, len(names)+1)
			names[sphere.Material] = name
			f.Materials[name] = MaterialConfig{
				Type:            sphere.Material.Kind.String(),
				Albedo:          arr(sphere.Material.Albedo),
				Fuzz:            sphere.Material.Fuzz,
				RefractiveIndex: sphere.Material.RefractiveIndex,
			}
		}
		f.Spheres = append(f.Spheres, SphereConfig{
			Center:   arr(sphere.Center),
			Radius:   sphere.Radius,
			Material: name,
		})
	}

	return f
}

// Marshal encodes the scene as TOML
func (s *Scene) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf).SetIndentTables(true)
	if err := enc.Encode(s.ToFile()); err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return buf.Bytes(), nil
}

// spheres flattens nested lists into their spheres, in insertion order
func spheres(shape geometry.Shape) []*geometry.Sphere {
	switch v := shape.(type) {
	case *geometry.Sphere:
		return []*geometry.Sphere{v}
	case *geometry.HittableList:
		var out []*geometry.Sphere
		for _, child := range v.Objects() {
			out = append(out, spheres(child)...)
		}
		return out
	default:
		return nil
	}
}

func vec(a [3]float32) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

func arr(v core.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
