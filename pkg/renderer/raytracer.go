package renderer

import (
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int    // Number of rays per pixel
	MaxDepth        int    // Maximum ray bounce depth
	Seed            uint64 // Seed of the render's random stream
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        10,
		Seed:            42,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Shape
	GetBackground() integrator.Background
}

// Progress reports how many image rows are finished
type Progress struct {
	RowsDone  int
	TotalRows int
}

// Fraction returns completion in [0, 1]
func (p Progress) Fraction() float64 {
	if p.TotalRows == 0 {
		return 1
	}
	return float64(p.RowsDone) / float64(p.TotalRows)
}

// Raytracer drives the per-pixel sampling loop on a single goroutine
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	integrator integrator.Integrator
	logger     core.Logger
	onProgress func(Progress)
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     DefaultSamplingConfig(),
		integrator: integrator.NewPathTracerWithBackground(scene.GetBackground()),
		logger:     core.NopLogger{},
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SamplingConfig returns the active sampling configuration
func (rt *Raytracer) SamplingConfig() SamplingConfig {
	return rt.config
}

// SetLogger sets the logger used for render messages
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	rt.logger = logger
}

// SetProgressCallback registers fn to be called after every finished row
func (rt *Raytracer) SetProgressCallback(fn func(Progress)) {
	rt.onProgress = fn
}

// RenderPixel averages SamplesPerPixel jittered samples for pixel (i, j),
// where j counts rows from the bottom of the image.
func (rt *Raytracer) RenderPixel(i, j int, camera *Camera, sampler core.Sampler) PixelStats {
	var stats PixelStats
	world := rt.scene.GetWorld()

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		// Convert pixel coordinates to normalized coordinates with jitter
		jitter := sampler.Get2D()
		s := (float32(i) + jitter.X) / float32(rt.width)
		t := (float32(j) + jitter.Y) / float32(rt.height)

		ray := camera.GetRay(s, t, sampler)
		stats.AddSample(rt.integrator.RayColor(ray, world, rt.config.MaxDepth, sampler))
	}

	return stats
}

// Render traces every pixel and returns the averaged frame.
// The same seed, scene and configuration always produce the same frame.
func (rt *Raytracer) Render() (*Frame, RenderStats) {
	startTime := time.Now()
	frame := NewFrame(rt.width, rt.height)
	camera := rt.scene.GetCamera()
	sampler := core.NewSeededSampler(rt.config.Seed)

	rt.logger.Debugf("rendering %dx%d at %d spp, max depth %d, seed %d",
		rt.width, rt.height, rt.config.SamplesPerPixel, rt.config.MaxDepth, rt.config.Seed)

	var stats RenderStats
	var varianceSum float64

	// Rows are traced top to bottom so output can be written in scan order
	for j := rt.height - 1; j >= 0; j-- {
		row := rt.height - 1 - j
		for i := 0; i < rt.width; i++ {
			pixel := rt.RenderPixel(i, j, camera, sampler)
			frame.Set(i, row, pixel.GetColor())

			stats.TotalSamples += pixel.SampleCount
			varianceSum += pixel.Variance()
		}

		if rt.onProgress != nil {
			rt.onProgress(Progress{RowsDone: row + 1, TotalRows: rt.height})
		}
	}

	stats.TotalPixels = rt.width * rt.height
	stats.Duration = time.Since(startTime)
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
		stats.MeanVariance = varianceSum / float64(stats.TotalPixels)
	}
	if seconds := stats.Duration.Seconds(); seconds > 0 {
		stats.SamplesPerSecond = float64(stats.TotalSamples) / seconds
	}

	rt.logger.Infof("rendered %d pixels, %d samples in %v", stats.TotalPixels, stats.TotalSamples, stats.Duration)
	return frame, stats
}
