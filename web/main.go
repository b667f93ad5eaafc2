package main

import (
	"flag"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/df07/go-weekend-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of .toml scene files to offer")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "raytracer-web",
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	webServer := server.NewServer(*port, *scenesDir, logger)

	logger.Infof("Visit http://localhost:%d/api/scenes to list scenes", *port)

	if err := webServer.Start(); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
