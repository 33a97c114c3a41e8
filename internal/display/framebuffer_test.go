package display

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestSetPixel(t *testing.T) {
	fb := New()

	assert.NoError(t, fb.SetPixel(63, 31, true))
	on, err := fb.Pixel(63, 31)
	assert.NoError(t, err)
	assert.True(t, on)

	assert.NoError(t, fb.SetPixel(63, 31, false))
	on, err = fb.Pixel(63, 31)
	assert.NoError(t, err)
	assert.False(t, on)
}

func TestPixelOutOfRange(t *testing.T) {
	fb := New()

	coords := [][2]int{{-1, 0}, {0, -1}, {Width, 0}, {0, Height}, {100, 100}}
	for _, c := range coords {
		_, err := fb.Pixel(c[0], c[1])
		assert.True(t, errors.Is(err, ErrOutOfRange))

		err = fb.SetPixel(c[0], c[1], true)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	}
}

func TestClear(t *testing.T) {
	fb := New()
	for x := 0; x < Width; x++ {
		assert.NoError(t, fb.SetPixel(x, 5, true))
	}
	frame := fb.Frame()
	assert.Equal(t, Width, frame.LitCount())

	fb.Clear()
	frame = fb.Frame()
	assert.Equal(t, 0, frame.LitCount())
}

func TestFrameIsACopy(t *testing.T) {
	fb := New()
	assert.NoError(t, fb.SetPixel(1, 2, true))

	frame := fb.Frame()
	assert.True(t, frame.At(1, 2))
	assert.False(t, frame.At(2, 1))

	fb.Clear()
	assert.True(t, frame.At(1, 2))

	fb.Restore(frame)
	on, err := fb.Pixel(1, 2)
	assert.NoError(t, err)
	assert.True(t, on)
}
