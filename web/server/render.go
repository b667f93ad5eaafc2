package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string        // Scene ID from /api/scenes
	Width           int           // Image width; height follows the scene's aspect ratio
	SamplesPerPixel int           // Rays per pixel
	MaxDepth        int           // Bounce limit
	Seed            *uint64       // Optional seed override
	Format          output.Format // Encoding for /api/image
}

// ProgressUpdate is sent after each finished row
type ProgressUpdate struct {
	RowsDone  int   `json:"rowsDone"`
	TotalRows int   `json:"totalRows"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	AverageSamples   float64 `json:"averageSamples"`
	MeanVariance     float64 `json:"meanVariance"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
}

// handleRender renders a scene and streams row progress, console output and
// the final PNG via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sendSSEEvent(w, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj := s.createScene(req.Scene)
	if sceneObj == nil {
		sendSSEEvent(w, "error", "Unknown scene: "+req.Scene)
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(uuid.New().String(), s.logger, consoleChan)
	raytracer := s.setupRaytracer(sceneObj, req)
	raytracer.SetLogger(webLogger)

	startTime := time.Now()
	raytracer.SetProgressCallback(func(p renderer.Progress) {
		drainConsole(w, consoleChan)
		sendJSONEvent(w, "progress", ProgressUpdate{
			RowsDone:  p.RowsDone,
			TotalRows: p.TotalRows,
			ElapsedMs: time.Since(startTime).Milliseconds(),
		})
	})

	frame, stats := raytracer.Render()
	drainConsole(w, consoleChan)

	imageData, err := imageToBase64PNG(frame.ToRGBA())
	if err != nil {
		sendSSEEvent(w, "error", fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	sendJSONEvent(w, "complete", CompleteUpdate{
		ImageData: imageData,
		Width:     frame.Width,
		Height:    frame.Height,
		Stats: Stats{
			TotalPixels:      stats.TotalPixels,
			TotalSamples:     stats.TotalSamples,
			AverageSamples:   stats.AverageSamples,
			MeanVariance:     stats.MeanVariance,
			SamplesPerSecond: stats.SamplesPerSecond,
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// handleImage renders a scene and responds with the encoded image
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sceneObj := s.createScene(req.Scene)
	if sceneObj == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown scene: " + req.Scene})
		return
	}

	raytracer := s.setupRaytracer(sceneObj, req)
	raytracer.SetLogger(s.logger.With("scene", req.Scene))
	frame, _ := raytracer.Render()

	var buf bytes.Buffer
	if err := output.Encode(&buf, frame, req.Format); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", contentType(req.Format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// setupRaytracer applies the request's overrides and builds a raytracer for the scene
func (s *Server) setupRaytracer(sceneObj *scene.Scene, req *RenderRequest) *renderer.Raytracer {
	sceneObj.SetWidth(req.Width)
	config := sceneObj.SamplingConfig
	config.SamplesPerPixel = req.SamplesPerPixel
	config.MaxDepth = req.MaxDepth
	if req.Seed != nil {
		config.Seed = *req.Seed
	}

	raytracer := renderer.NewRaytracer(sceneObj, sceneObj.Width, sceneObj.Height)
	raytracer.SetSamplingConfig(config)
	return raytracer
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 200, 8, 1200); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", 16, 1, 1000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", 10, 1, 100); err != nil {
		return nil, err
	}

	if value := query.Get("seed"); value != "" {
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
		req.Seed = &seed
	}

	format := query.Get("format")
	if format == "" {
		format = "png"
	}
	if req.Format, err = output.FormatFromPath("image." + format); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width > 800 && req.SamplesPerPixel > 100 {
		s.logger.Warn("large image with high samples may render slowly", "width", req.Width, "spp", req.SamplesPerPixel)
	}

	return req, nil
}

func contentType(f output.Format) string {
	switch f {
	case output.FormatPNG:
		return "image/png"
	case output.FormatBMP:
		return "image/bmp"
	case output.FormatTIFF:
		return "image/tiff"
	default:
		return "image/x-portable-pixmap"
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// drainConsole forwards queued console messages without blocking
func drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			sendJSONEvent(w, "console", msg)
		default:
			return
		}
	}
}

func sendJSONEvent(w http.ResponseWriter, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return sendSSEEvent(w, event, string(data))
}

// sendSSEEvent sends a generic SSE event
func sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
