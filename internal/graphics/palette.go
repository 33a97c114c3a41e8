package graphics

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"nibble8/internal/display"

	"golang.org/x/image/bmp"
)

// Palette holds the two colors of the monochrome screen.
type Palette struct {
	On  color.RGBA
	Off color.RGBA
}

// DefaultPalette returns white pixels on black.
func DefaultPalette() Palette {
	return Palette{
		On:  color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Off: color.RGBA{A: 0xFF},
	}
}

// NewPalette builds a palette from "#RRGGBB" color strings.
func NewPalette(on, off string) (Palette, error) {
	onColor, err := ParseHexColor(on)
	if err != nil {
		return Palette{}, fmt.Errorf("parsing foreground color: %w", err)
	}
	offColor, err := ParseHexColor(off)
	if err != nil {
		return Palette{}, fmt.Errorf("parsing background color: %w", err)
	}
	return Palette{On: onColor, Off: offColor}, nil
}

// ParseHexColor parses a "#RRGGBB" or "RRGGBB" color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color '%s'", s)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color '%s': %w", s, err)
	}
	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 0xFF,
	}, nil
}

// Fill converts frame into dst, which must be display.Width x
// display.Height pixels.
func (p Palette) Fill(dst *image.RGBA, frame *display.Frame) {
	for y := range display.Height {
		for x := range display.Width {
			c := p.Off
			if frame.At(x, y) {
				c = p.On
			}
			dst.SetRGBA(x, y, c)
		}
	}
}

// Image returns frame as an image scaled by scale in both directions.
func (p Palette) Image(frame *display.Frame, scale int) *image.RGBA {
	scale = max(scale, 1)
	img := image.NewRGBA(image.Rect(0, 0, display.Width*scale, display.Height*scale))
	for y := range display.Height * scale {
		for x := range display.Width * scale {
			c := p.Off
			if frame.At(x/scale, y/scale) {
				c = p.On
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// EncodeBMP writes frame as a BMP image.
func EncodeBMP(w io.Writer, frame *display.Frame, palette Palette, scale int) error {
	if err := bmp.Encode(w, palette.Image(frame, scale)); err != nil {
		return fmt.Errorf("encoding bmp: %w", err)
	}
	return nil
}

// SaveBMP writes frame as a BMP image file.
func SaveBMP(path string, frame *display.Frame, palette Palette, scale int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", path, err)
	}

	if err := EncodeBMP(file, frame, palette, scale); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file '%s': %w", path, err)
	}
	return nil
}
