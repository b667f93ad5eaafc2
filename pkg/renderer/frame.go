package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Frame holds the averaged linear color of every pixel, row-major with row 0 at the top
type Frame struct {
	Width  int
	Height int
	pixels []core.Color
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		pixels: make([]core.Color, width*height),
	}
}

// At returns the linear color at pixel (x, y)
func (f *Frame) At(x, y int) core.Color {
	return f.pixels[y*f.Width+x]
}

// Set stores the linear color at pixel (x, y)
func (f *Frame) Set(x, y int, c core.Color) {
	f.pixels[y*f.Width+x] = c
}

// ToRGBA converts the frame to 8-bit sRGB-ish output: gamma 2 via sqrt,
// clamped to [0, 0.999] and scaled by 256.
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, ToRGBA(f.At(x, y)))
		}
	}
	return img
}

// ToRGBA converts one averaged linear color to an 8-bit RGBA value
func ToRGBA(c core.Color) color.RGBA {
	c = c.Sqrt()
	return color.RGBA{
		R: toByte(c.X),
		G: toByte(c.Y),
		B: toByte(c.Z),
		A: 255,
	}
}

func toByte(v float32) uint8 {
	if v != v { // NaN
		return 0
	}
	return uint8(256 * core.Clamp(v, 0, 0.999))
}
