package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nibble8/internal/cpu"
	"nibble8/internal/input"

	"github.com/retroenv/retrogolib/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	assert.NoError(t, c.validate())

	quirks, err := c.Quirks()
	assert.NoError(t, err)
	assert.Equal(t, cpu.DefaultQuirks(), quirks)

	keyMap, err := c.KeyMap()
	assert.NoError(t, err)
	key, ok := keyMap.Lookup("q")
	assert.True(t, ok)
	assert.Equal(t, uint8(0x4), key)

	width, height := c.GetWindowResolution()
	assert.Equal(t, 640, width)
	assert.Equal(t, 320, height)
	assert.Equal(t, 10, c.Emulation.InstructionsPerFrame)
	assert.False(t, c.IsLoaded())
}

func TestLoadFromFileCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "nibble8.json")

	c := NewConfig()
	assert.NoError(t, c.LoadFromFile(path))
	assert.Equal(t, path, c.GetConfigPath())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nibble8.json")

	c := NewConfig()
	c.Emulation.InstructionsPerFrame = 20
	c.Emulation.ShiftQuirk = "legacy"
	c.Emulation.SpriteEdges = "clip"
	c.Emulation.Seed = 42
	c.Video.Backend = "terminal"
	c.Input.Keys = map[string]string{"Q": "4", "SPACE": "0xF"}
	assert.NoError(t, c.SaveToFile(path))

	loaded := NewConfig()
	assert.NoError(t, loaded.LoadFromFile(path))
	assert.True(t, loaded.IsLoaded())
	assert.Equal(t, 20, loaded.Emulation.InstructionsPerFrame)
	assert.Equal(t, uint64(42), loaded.Emulation.Seed)
	assert.Equal(t, "terminal", loaded.Video.Backend)

	quirks, err := loaded.Quirks()
	assert.NoError(t, err)
	assert.Equal(t, cpu.ShiftVY, quirks.Shift)
	assert.Equal(t, cpu.SpriteClip, quirks.Sprites)

	// bindings from the file replace the defaults
	keyMap, err := loaded.KeyMap()
	assert.NoError(t, err)
	assert.Equal(t, 2, len(keyMap))
	key, ok := keyMap.Lookup("space")
	assert.True(t, ok)
	assert.Equal(t, uint8(0xF), key)
}

func TestLoadFromFileClampsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nibble8.json")
	data := `{
		"window": {"scale": 0},
		"emulation": {"instructions_per_frame": -5, "save_state_slots": 99},
		"debug": {"dump_interval": -1}
	}`
	assert.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c := NewConfig()
	assert.NoError(t, c.LoadFromFile(path))
	assert.Equal(t, defaultScale, c.Window.Scale)
	assert.Equal(t, defaultInstructionsPerFrame, c.Emulation.InstructionsPerFrame)
	assert.Equal(t, defaultSaveStateSlots, c.Emulation.SaveStateSlots)
	assert.Equal(t, 0, c.Debug.DumpInterval)
	assert.Equal(t, input.DefaultBindings(), c.Input.Keys)
}

func TestLoadFromFileRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"shift quirk", `{"emulation": {"shift_quirk": "sideways"}}`, "emulation.shift_quirk"},
		{"sprite edges", `{"emulation": {"sprite_edges": "bounce"}}`, "emulation.sprite_edges"},
		{"backend", `{"video": {"backend": "vulkan"}}`, "video.backend"},
		{"filter", `{"video": {"filter": "bicubic"}}`, "video.filter"},
		{"key", `{"input": {"keys": {"Q": "10"}}}`, "input.keys"},
		{"color", `{"video": {"foreground": "green"}}`, "video.foreground/background"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nibble8.json")
			assert.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))

			err := NewConfig().LoadFromFile(path)
			assert.Error(t, err)

			var configErr *ConfigError
			assert.True(t, errors.As(err, &configErr))
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestLoadFromFileInvalidKeyIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nibble8.json")
	assert.NoError(t, os.WriteFile(path, []byte(`{"input": {"keys": {"Q": "1F"}}}`), 0644))

	err := NewConfig().LoadFromFile(path)
	assert.True(t, errors.Is(err, input.ErrInvalidKey))
}

func TestLoadFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nibble8.json")
	assert.NoError(t, os.WriteFile(path, []byte(`{"window":`), 0644))

	err := NewConfig().LoadFromFile(path)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestSaveWithoutPath(t *testing.T) {
	assert.Error(t, NewConfig().Save())
}

func TestClone(t *testing.T) {
	c := NewConfig()
	clone := c.Clone()

	clone.Input.Keys["P"] = "1"
	clone.Emulation.InstructionsPerFrame = 99

	_, ok := c.Input.Keys["P"]
	assert.False(t, ok)
	assert.Equal(t, defaultInstructionsPerFrame, c.Emulation.InstructionsPerFrame)
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		quiet bool
	}{
		{"debug", true, false},
		{"DEBUG", true, false},
		{"info", false, false},
		{"", false, false},
		{"error", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			c := NewConfig()
			c.Debug.LogLevel = tt.level
			debug, quiet := c.LogLevel()
			assert.Equal(t, tt.debug, debug)
			assert.Equal(t, tt.quiet, quiet)
		})
	}
}
