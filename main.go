package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneName string
	out       string
	format    string
	width     int
	spp       int
	depth     int
	seed      uint64
	seedSet   bool
	watch     bool
	dump      bool
	list      bool
	verbose   bool
}

func main() {
	// Parse command line flags
	var opts options
	flag.StringVar(&opts.sceneName, "scene", "default", "Built-in scene name or path to a .toml scene file")
	flag.StringVar(&opts.out, "out", "", "Output file; the extension picks the format (default output/<scene>/render_<timestamp>_<id>.<format>)")
	flag.StringVar(&opts.format, "format", "png", "Output format when -out is not given: ppm, png, bmp or tiff")
	flag.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&opts.spp, "spp", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&opts.depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	flag.Uint64Var(&opts.seed, "seed", 0, "Random seed of the render (default from the scene)")
	flag.BoolVar(&opts.watch, "watch", false, "Re-render whenever the .toml scene file changes")
	flag.BoolVar(&opts.dump, "dump", false, "Print the scene as TOML and exit")
	flag.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	flag.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seedSet = true
		}
	})

	// Show help if requested
	if *help {
		fmt.Println("Weekend Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Run with -list to see the available scenes.")
		return
	}

	logger := newLogger(opts.verbose)

	if err := run(opts, logger); err != nil {
		logger.Error("render failed", "err", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger, writing to stderr
func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "raytracer",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportCaller(true)
	}
	return logger
}

func run(opts options, logger *log.Logger) error {
	if opts.list {
		return listScenes(os.Stdout, "scenes")
	}

	if opts.dump {
		s, err := createScene(opts.sceneName)
		if err != nil {
			return err
		}
		applyOverrides(s, opts)
		data, err := s.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if opts.out == "" {
		if _, err := output.FormatFromPath("render." + opts.format); err != nil {
			return err
		}
	}

	if !opts.watch {
		_, err := renderOnce(opts, logger)
		return err
	}

	if !strings.EqualFold(filepath.Ext(opts.sceneName), ".toml") {
		return fmt.Errorf("-watch needs a .toml scene file, got %q", opts.sceneName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watchAndRender(ctx, opts, logger)
}

// createScene loads a built-in scene by name or a scene file by path
func createScene(sceneName string) (*scene.Scene, error) {
	if sceneName == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}
	return scene.Load(sceneName)
}

// applyOverrides replaces scene defaults with the values given on the command line
func applyOverrides(s *scene.Scene, opts options) {
	if opts.width > 0 {
		s.SetWidth(opts.width)
	}
	if opts.spp > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.spp
	}
	if opts.depth > 0 {
		s.SamplingConfig.MaxDepth = opts.depth
	}
	if opts.seedSet {
		s.SamplingConfig.Seed = opts.seed
	}
}

// createOutputPath returns output/<scene>/render_<timestamp>_<id>.<format>
func createOutputPath(sceneName, renderID string, now time.Time, format string) string {
	base := strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	if base == "" || base == "." {
		base = "scene"
	}
	if len(renderID) > 8 {
		renderID = renderID[:8]
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", base, fmt.Sprintf("render_%s_%s.%s", timestamp, renderID, format))
}

// renderOnce loads, renders and saves the scene, returning the path written
func renderOnce(opts options, logger *log.Logger) (string, error) {
	s, err := createScene(opts.sceneName)
	if err != nil {
		return "", err
	}
	applyOverrides(s, opts)

	renderID := uuid.New().String()
	rlog := logger.With("render", renderID[:8], "scene", s.Name)

	config := s.SamplingConfig
	rlog.Info("starting render",
		"width", s.Width, "height", s.Height,
		"spp", config.SamplesPerPixel, "depth", config.MaxDepth, "seed", config.Seed,
		"spheres", s.GetPrimitiveCount())

	raytracer := renderer.NewRaytracer(s, s.Width, s.Height)
	raytracer.SetSamplingConfig(config)
	raytracer.SetLogger(rlog)

	lastReport := -1
	raytracer.SetProgressCallback(func(p renderer.Progress) {
		percent := int(p.Fraction() * 100)
		if percent/10 != lastReport/10 {
			lastReport = percent
			rlog.Debugf("progress %d%% (%d/%d rows)", percent, p.RowsDone, p.TotalRows)
		}
	})

	frame, stats := raytracer.Render()

	path := opts.out
	if path == "" {
		path = createOutputPath(s.Name, renderID, time.Now(), opts.format)
	}
	if err := output.Save(path, frame); err != nil {
		return "", err
	}

	rlog.Info("render saved",
		"path", path,
		"duration", stats.Duration.Round(time.Millisecond),
		"samples/s", fmt.Sprintf("%.0f", stats.SamplesPerSecond))
	return path, nil
}

// watchAndRender renders the scene file, then again after every change until ctx is done.
// A broken edit is logged and the previous image is kept.
func watchAndRender(ctx context.Context, opts options, logger *log.Logger) error {
	watcher, err := scene.NewWatcher(opts.sceneName)
	if err != nil {
		return err
	}
	watcher.SetLogger(logger)

	if _, err := renderOnce(opts, logger); err != nil {
		logger.Warn("initial render failed", "err", err)
	}

	logger.Info("watching scene file", "path", watcher.Path())
	err = watcher.Run(ctx, func() {
		logger.Info("scene file changed, re-rendering")
		if _, err := renderOnce(opts, logger); err != nil {
			logger.Warn("render failed", "err", err)
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// listScenes prints the available scenes grouped by category
func listScenes(w io.Writer, dir string) error {
	groups, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}
	for _, group := range groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-24s %s\n", info.ID, info.Description)
		}
	}
	return nil
}
