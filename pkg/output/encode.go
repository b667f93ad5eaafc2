package output

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// ErrUnknownFormat is returned for output paths whose extension has no encoder
var ErrUnknownFormat = errors.New("unknown image format")

// Format selects an image encoder
type Format int

const (
	FormatPPM Format = iota
	FormatPNG
	FormatBMP
	FormatTIFF
)

// String returns the file extension for the format, without the dot
func (f Format) String() string {
	switch f {
	case FormatPPM:
		return "ppm"
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks a format from the file extension, case-insensitively
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return FormatPPM, nil
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Encode writes frame to w in the given format
func Encode(w io.Writer, frame *renderer.Frame, format Format) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, frame)
	case FormatPNG:
		return png.Encode(w, frame.ToRGBA())
	case FormatBMP:
		return bmp.Encode(w, frame.ToRGBA())
	case FormatTIFF:
		return tiff.Encode(w, frame.ToRGBA(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Save encodes frame to path, creating parent directories as needed.
// The format follows the file extension.
func Save(path string, frame *renderer.Frame) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := Encode(file, frame, format); err != nil {
		file.Close()
		return fmt.Errorf("error saving %s: %w", format, err)
	}
	return file.Close()
}
