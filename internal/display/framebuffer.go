// Package display implements the monochrome CHIP-8 framebuffer.
package display

import (
	"errors"
	"fmt"
)

// Screen dimensions in pixels
const (
	Width  = 64
	Height = 32
)

// ErrOutOfRange is returned for pixel coordinates outside the screen.
var ErrOutOfRange = errors.New("pixel out of range")

// Frame is a read-only copy of the screen, one byte per pixel (0 or 1),
// row-major.
type Frame [Width * Height]uint8

// At returns whether the pixel at (x, y) is lit. Coordinates must be in range.
func (f *Frame) At(x, y int) bool {
	return f[y*Width+x] != 0
}

// LitCount returns the number of lit pixels.
func (f *Frame) LitCount() int {
	count := 0
	for _, p := range f {
		if p != 0 {
			count++
		}
	}
	return count
}

// Framebuffer holds the current screen contents.
type Framebuffer struct {
	pixels Frame
}

// New creates a cleared framebuffer.
func New() *Framebuffer {
	return &Framebuffer{}
}

func checkRange(x, y int) error {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, x, y)
	}
	return nil
}

// Pixel returns whether the pixel at (x, y) is lit.
func (fb *Framebuffer) Pixel(x, y int) (bool, error) {
	if err := checkRange(x, y); err != nil {
		return false, err
	}
	return fb.pixels[y*Width+x] != 0, nil
}

// SetPixel lights or clears the pixel at (x, y).
func (fb *Framebuffer) SetPixel(x, y int, on bool) error {
	if err := checkRange(x, y); err != nil {
		return err
	}
	var v uint8
	if on {
		v = 1
	}
	fb.pixels[y*Width+x] = v
	return nil
}

// Clear turns every pixel off.
func (fb *Framebuffer) Clear() {
	fb.pixels = Frame{}
}

// Frame returns a copy of the current screen.
func (fb *Framebuffer) Frame() Frame {
	return fb.pixels
}

// Restore replaces the screen with a previously captured frame.
func (fb *Framebuffer) Restore(f Frame) {
	fb.pixels = f
}
