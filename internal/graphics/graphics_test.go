package graphics

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nibble8/internal/display"

	"github.com/retroenv/retrogolib/assert"
	"golang.org/x/image/bmp"
)

func TestKeyNames(t *testing.T) {
	tests := []struct {
		key  Key
		name string
	}{
		{Key0, "0"},
		{Key9, "9"},
		{KeyA, "A"},
		{KeyQ, "Q"},
		{KeyZ, "Z"},
		{KeyF1, "F1"},
		{KeyF12, "F12"},
		{KeyEscape, "ESCAPE"},
		{KeyUp, "UP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.key.String())

			key, ok := KeyFromName(strings.ToLower(tt.name))
			assert.True(t, ok)
			assert.Equal(t, tt.key, key)
		})
	}

	_, ok := KeyFromName("F13")
	assert.False(t, ok)
}

func TestKeyNamesUnique(t *testing.T) {
	seen := map[string]Key{}
	for k := KeyUnknown; k < keyCount; k++ {
		name := k.String()
		if other, ok := seen[name]; ok {
			t.Errorf("keys %d and %d share name %s", other, k, name)
		}
		seen[name] = k
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#33FF66")
	assert.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x33, G: 0xFF, B: 0x66, A: 0xFF}, c)

	c, err = ParseHexColor("000000")
	assert.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 0xFF}, c)

	_, err = ParseHexColor("#12345")
	assert.Error(t, err)
	_, err = ParseHexColor("#GGGGGG")
	assert.Error(t, err)

	_, err = NewPalette("#FFFFFF", "black")
	assert.Error(t, err)
}

func TestEncodeBMP(t *testing.T) {
	fb := display.New()
	assert.NoError(t, fb.SetPixel(1, 0, true))
	frame := fb.Frame()

	var buf bytes.Buffer
	assert.NoError(t, EncodeBMP(&buf, &frame, DefaultPalette(), 2))

	img, err := bmp.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, display.Width*2, img.Bounds().Dx())
	assert.Equal(t, display.Height*2, img.Bounds().Dy())

	r, _, _, _ := img.At(2, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	r, _, _, _ = img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0), r)
}

func TestParseTerminalInput(t *testing.T) {
	events := parseTerminalInput([]byte("q4\x1b[A\x1b[1;2P\r\x1b\x03"))

	want := []struct {
		typ       InputEventType
		key       Key
		modifiers ModifierKey
	}{
		{InputEventTypeKey, KeyQ, ModifierNone},
		{InputEventTypeKey, Key4, ModifierNone},
		{InputEventTypeKey, KeyUp, ModifierNone},
		{InputEventTypeKey, KeyF1, ModifierShift},
		{InputEventTypeKey, KeyEnter, ModifierNone},
		{InputEventTypeKey, KeyEscape, ModifierNone},
		{InputEventTypeQuit, KeyUnknown, ModifierNone},
	}

	assert.Len(t, events, len(want))
	for i, w := range want {
		assert.Equal(t, w.typ, events[i].Type)
		assert.Equal(t, w.key, events[i].Key)
		assert.Equal(t, w.modifiers, events[i].Modifiers)
		assert.True(t, events[i].Pressed)
	}
}

func TestTerminalKeyRelease(t *testing.T) {
	w := &TerminalWindow{held: make(map[Key]int)}
	w.pending = parseTerminalInput([]byte("w"))

	events := w.PollEvents()
	assert.Len(t, events, 1)
	assert.True(t, events[0].Pressed)

	var released []InputEvent
	for range terminalHoldFrames {
		released = append(released, w.PollEvents()...)
	}
	assert.Len(t, released, 1)
	assert.Equal(t, KeyW, released[0].Key)
	assert.False(t, released[0].Pressed)
}

func TestTerminalReadInputStopsAtEOF(t *testing.T) {
	w := &TerminalWindow{held: make(map[Key]int), stopCh: make(chan struct{})}
	w.readInput(bytes.NewReader([]byte("qw")))

	events := w.PollEvents()
	assert.Len(t, events, 2)
	assert.Equal(t, KeyQ, events[0].Key)
	assert.Equal(t, KeyW, events[1].Key)
}

func TestTerminalReadInputStopsAfterCleanup(t *testing.T) {
	w := &TerminalWindow{held: make(map[Key]int), stopCh: make(chan struct{})}
	assert.NoError(t, w.Cleanup())

	w.readInput(bytes.NewReader([]byte("q")))
	assert.Len(t, w.PollEvents(), 0)
}

func TestWriteHalfBlocks(t *testing.T) {
	fb := display.New()
	assert.NoError(t, fb.SetPixel(0, 0, true))
	assert.NoError(t, fb.SetPixel(1, 1, true))
	assert.NoError(t, fb.SetPixel(2, 0, true))
	assert.NoError(t, fb.SetPixel(2, 1, true))
	frame := fb.Frame()

	var buf bytes.Buffer
	assert.NoError(t, writeHalfBlocks(&buf, &frame))

	lines := strings.Split(buf.String(), "\r\n")
	assert.Len(t, lines, display.Height/2+1)
	assert.True(t, strings.HasPrefix(lines[0], "▀▄█ "))
}

func TestHeadlessBackend(t *testing.T) {
	dir := t.TempDir()
	backend, err := CreateBackend(BackendHeadless)
	assert.NoError(t, err)
	assert.True(t, backend.IsHeadless())
	assert.NoError(t, backend.Initialize(Config{
		Palette:      DefaultPalette(),
		DumpInterval: 2,
		OutputDir:    dir,
	}))
	assert.Error(t, backend.Initialize(Config{}))

	window, err := backend.CreateWindow("test", 640, 320)
	assert.NoError(t, err)
	headless, ok := AsHeadlessWindow(window)
	assert.True(t, ok)

	fb := display.New()
	assert.NoError(t, fb.SetPixel(3, 3, true))
	for range 4 {
		assert.NoError(t, window.RenderFrame(fb.Frame()))
	}
	assert.Equal(t, 4, headless.GetFrameCount())
	lastFrame := headless.LastFrame()
	assert.True(t, lastFrame.At(3, 3))

	for _, name := range []string{"frame_00002.bmp", "frame_00004.bmp"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
	}
	_, err = os.Stat(filepath.Join(dir, "frame_00001.bmp"))
	assert.True(t, os.IsNotExist(err))

	assert.False(t, window.ShouldClose())
	assert.NoError(t, window.Cleanup())
	assert.True(t, window.ShouldClose())
}

func TestHeadlessBackendCreatesDumpDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps", "run1")
	backend := NewHeadlessBackend()
	assert.NoError(t, backend.Initialize(Config{
		Palette:      DefaultPalette(),
		DumpInterval: 1,
		OutputDir:    dir,
	}))

	window, err := backend.CreateWindow("test", 640, 320)
	assert.NoError(t, err)
	assert.NoError(t, window.RenderFrame(display.New().Frame()))

	_, err = os.Stat(filepath.Join(dir, "frame_00001.bmp"))
	assert.NoError(t, err)
}

func TestCreateBackendUnknown(t *testing.T) {
	_, err := CreateBackend("vulkan")
	assert.Error(t, err)
}
