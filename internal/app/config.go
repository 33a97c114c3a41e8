// Package app provides configuration management for the CHIP-8 interpreter.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"nibble8/internal/cpu"
	"nibble8/internal/display"
	"nibble8/internal/graphics"
	"nibble8/internal/input"
)

// Config holds all application configuration
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Input     InputConfig     `json:"input"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	// Internal state
	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration
type WindowConfig struct {
	Fullscreen bool `json:"fullscreen"`
	Scale      int  `json:"scale"` // CHIP-8 resolution multiplier
}

// VideoConfig contains video rendering configuration
type VideoConfig struct {
	VSync      bool   `json:"vsync"`
	Filter     string `json:"filter"`  // "nearest", "linear"
	Backend    string `json:"backend"` // "ebitengine", "terminal", "headless"
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

// InputConfig maps host key names to CHIP-8 keypad keys in hex.
type InputConfig struct {
	Keys map[string]string `json:"keys"`
}

// EmulationConfig contains emulation-specific settings
type EmulationConfig struct {
	InstructionsPerFrame int    `json:"instructions_per_frame"`
	ShiftQuirk           string `json:"shift_quirk"`  // "modern", "legacy"
	SpriteEdges          string `json:"sprite_edges"` // "wrap", "clip"
	Seed                 uint64 `json:"seed"`         // 0 seeds from the clock
	SaveStateSlots       int    `json:"save_state_slots"`
}

// DebugConfig contains debugging and development options
type DebugConfig struct {
	LogLevel       string `json:"log_level"` // "debug", "info", "error"
	CPUTracing     bool   `json:"cpu_tracing"`
	InputDebugging bool   `json:"input_debugging"`
	DumpInterval   int    `json:"dump_interval"` // headless frame dumps, 0 disables
}

// PathsConfig contains file and directory paths
type PathsConfig struct {
	ROMs        string `json:"roms"`
	Screenshots string `json:"screenshots"`
	Output      string `json:"output"`
}

// Limits applied by validate.
const (
	defaultScale                = 10
	maxScale                    = 40
	defaultInstructionsPerFrame = 10
	maxInstructionsPerFrame     = 1000
	defaultSaveStateSlots       = 4
	maxSaveStateSlots           = 10
)

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	config := &Config{
		Window: WindowConfig{
			Fullscreen: false,
			Scale:      defaultScale, // 640x320
		},
		Video: VideoConfig{
			VSync:      true,
			Filter:     "nearest",
			Backend:    string(graphics.BackendEbitengine),
			Foreground: "#33FF66",
			Background: "#000000",
		},
		Input: InputConfig{
			Keys: input.DefaultBindings(),
		},
		Emulation: EmulationConfig{
			InstructionsPerFrame: defaultInstructionsPerFrame,
			ShiftQuirk:           cpu.ShiftVX.String(),
			SpriteEdges:          cpu.SpriteWrap.String(),
			Seed:                 0,
			SaveStateSlots:       defaultSaveStateSlots,
		},
		Debug: DebugConfig{
			LogLevel:       "info",
			CPUTracing:     false,
			InputDebugging: false,
			DumpInterval:   0,
		},
		Paths: PathsConfig{
			ROMs:        "./roms",
			Screenshots: "./screenshots",
			Output:      "./output",
		},
		loaded: false,
	}

	return config
}

// LoadFromFile loads configuration from a JSON file. A missing file is
// created with the current values.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// the file's key bindings replace the defaults instead of merging
	c.Input.Keys = nil
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	c.configPath = path
	return nil
}

// Save saves the configuration to the current config file
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("no config file path set")
	}

	return c.SaveToFile(c.configPath)
}

// validate clamps numeric values into range and rejects settings that
// cannot be parsed.
func (c *Config) validate() error {
	if c.Window.Scale <= 0 || c.Window.Scale > maxScale {
		c.Window.Scale = defaultScale
	}

	if c.Emulation.InstructionsPerFrame <= 0 {
		c.Emulation.InstructionsPerFrame = defaultInstructionsPerFrame
	}
	if c.Emulation.InstructionsPerFrame > maxInstructionsPerFrame {
		c.Emulation.InstructionsPerFrame = maxInstructionsPerFrame
	}

	if c.Emulation.SaveStateSlots <= 0 || c.Emulation.SaveStateSlots > maxSaveStateSlots {
		c.Emulation.SaveStateSlots = defaultSaveStateSlots
	}

	if c.Debug.DumpInterval < 0 {
		c.Debug.DumpInterval = 0
	}

	if len(c.Input.Keys) == 0 {
		c.Input.Keys = input.DefaultBindings()
	}

	switch graphics.BackendType(c.Video.Backend) {
	case graphics.BackendEbitengine, graphics.BackendTerminal, graphics.BackendHeadless:
	case "":
		c.Video.Backend = string(graphics.BackendEbitengine)
	default:
		return &ConfigError{Field: "video.backend", Value: c.Video.Backend, Err: errors.New("unknown backend")}
	}

	switch c.Video.Filter {
	case "nearest", "linear":
	case "":
		c.Video.Filter = "nearest"
	default:
		return &ConfigError{Field: "video.filter", Value: c.Video.Filter, Err: errors.New("unknown filter")}
	}

	if _, err := c.Quirks(); err != nil {
		return err
	}
	if _, err := c.KeyMap(); err != nil {
		return err
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	return nil
}

// Quirks returns the interpreter behavior switches.
func (c *Config) Quirks() (cpu.Quirks, error) {
	shift, err := cpu.ParseShiftSource(c.Emulation.ShiftQuirk)
	if err != nil {
		return cpu.Quirks{}, &ConfigError{Field: "emulation.shift_quirk", Value: c.Emulation.ShiftQuirk, Err: err}
	}
	sprites, err := cpu.ParseSpriteEdges(c.Emulation.SpriteEdges)
	if err != nil {
		return cpu.Quirks{}, &ConfigError{Field: "emulation.sprite_edges", Value: c.Emulation.SpriteEdges, Err: err}
	}
	return cpu.Quirks{Shift: shift, Sprites: sprites}, nil
}

// KeyMap returns the parsed host key to keypad mapping.
func (c *Config) KeyMap() (input.KeyMap, error) {
	keyMap, err := input.ParseKeyMap(c.Input.Keys)
	if err != nil {
		return nil, &ConfigError{Field: "input.keys", Value: c.Input.Keys, Err: err}
	}
	return keyMap, nil
}

// Palette returns the screen colors.
func (c *Config) Palette() (graphics.Palette, error) {
	palette, err := graphics.NewPalette(c.Video.Foreground, c.Video.Background)
	if err != nil {
		return graphics.Palette{}, &ConfigError{
			Field: "video.foreground/background",
			Value: c.Video.Foreground + "/" + c.Video.Background,
			Err:   err,
		}
	}
	return palette, nil
}

// LogLevel returns the debug and quiet switches for CreateLogger.
func (c *Config) LogLevel() (debug, quiet bool) {
	switch strings.ToLower(c.Debug.LogLevel) {
	case "debug", "trace":
		return true, false
	case "error", "quiet":
		return false, true
	default:
		return false, false
	}
}

// GetWindowResolution returns the window resolution based on scale
func (c *Config) GetWindowResolution() (int, int) {
	return display.Width * c.Window.Scale, display.Height * c.Window.Scale
}

// IsLoaded returns whether the configuration was loaded from file
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// GetConfigPath returns the path to the config file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	clone.Input.Keys = maps.Clone(c.Input.Keys)
	return &clone
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return "./config/nibble8.json"
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
