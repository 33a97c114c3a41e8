package main

import (
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-ipf", "20", "-trace", "pong.ch8"})
	assert.NoError(t, err)
	assert.Equal(t, "pong.ch8", opts.ROM)
	assert.Equal(t, 20, opts.IPF)
	assert.True(t, opts.Trace)
	assert.Equal(t, defaultHeadlessFrames, opts.Frames)
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "headless without rom", args: []string{"-nogui"}},
		{name: "rom given twice", args: []string{"-rom", "a.ch8", "b.ch8"}},
		{name: "invalid frame count", args: []string{"-frames", "0"}},
		{name: "unknown flag", args: []string{"-turbo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nibble8.json")

	config, err := loadConfig(options{
		Config:  path,
		IPF:     15,
		Backend: "terminal",
		Trace:   true,
	})
	assert.NoError(t, err)
	assert.Equal(t, 15, config.Emulation.InstructionsPerFrame)
	assert.Equal(t, "terminal", config.Video.Backend)
	assert.True(t, config.Debug.CPUTracing)

	debug, quiet := config.LogLevel()
	assert.True(t, debug)
	assert.False(t, quiet)
}

func TestLoadConfigQuiet(t *testing.T) {
	config, err := loadConfig(options{
		Config: filepath.Join(t.TempDir(), "nibble8.json"),
		Quiet:  true,
	})
	assert.NoError(t, err)

	_, quiet := config.LogLevel()
	assert.True(t, quiet)
}
