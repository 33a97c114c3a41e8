// Package graphics provides an abstraction layer for different rendering backends
package graphics

import (
	"errors"
	"fmt"

	"nibble8/internal/display"

	"github.com/retroenv/retrogolib/log"
)

// ErrQuit is returned by an update function to end a backend's main loop.
var ErrQuit = errors.New("quit requested")

// Backend represents a graphics rendering backend (Ebitengine, terminal, headless)
type Backend interface {
	// Initialize initializes the graphics backend
	Initialize(config Config) error

	// CreateWindow creates a window for rendering
	CreateWindow(title string, width, height int) (Window, error)

	// Cleanup releases all resources
	Cleanup() error

	// IsHeadless returns true if running in headless mode
	IsHeadless() bool

	// GetName returns the backend name for identification
	GetName() string
}

// Window represents a rendering window
type Window interface {
	// SetTitle sets the window title
	SetTitle(title string)

	// GetSize returns window dimensions
	GetSize() (width, height int)

	// ShouldClose returns true if window should close
	ShouldClose() bool

	// PollEvents returns the input events received since the last call
	PollEvents() []InputEvent

	// RenderFrame renders a CHIP-8 screen to the window
	RenderFrame(frame display.Frame) error

	// RenderMenu renders the ROM selection menu instead of the screen
	RenderMenu(menu Menu) error

	// Cleanup releases window resources
	Cleanup() error
}

// Menu is a list of entries with one selected entry.
type Menu struct {
	Title    string
	Items    []string
	Selected int
	Footer   string
}

// Config contains configuration for graphics backends
type Config struct {
	// Window configuration
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool

	// Rendering configuration
	Filter  string // "nearest", "linear"
	Palette Palette

	// Headless frame dumps, every DumpInterval frames into OutputDir
	DumpInterval int
	OutputDir    string

	// Backend-specific options
	Headless bool
	Logger   *log.Logger
}

// InputEvent represents an input event from the window
type InputEvent struct {
	Type      InputEventType
	Key       Key
	Pressed   bool
	Modifiers ModifierKey
}

// InputEventType represents the type of input event
type InputEventType int

const (
	InputEventTypeKey InputEventType = iota
	InputEventTypeQuit
)

// ModifierKey represents modifier keys
type ModifierKey int

const (
	ModifierNone  ModifierKey = 0
	ModifierShift ModifierKey = 1 << iota
	ModifierCtrl
	ModifierAlt
)

// Has returns whether all modifiers in mod are set.
func (m ModifierKey) Has(mod ModifierKey) bool {
	return m&mod == mod
}

// BackendType represents different graphics backend types
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend creates a graphics backend of the specified type
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendEbitengine, "":
		return NewEbitengineBackend(), nil
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported graphics backend '%s'", backendType)
	}
}

// Helper type assertion functions

// AsEbitengineWindow tries to cast a Window to EbitengineWindow
func AsEbitengineWindow(window Window) (*EbitengineWindow, bool) {
	if ebitengineWindow, ok := window.(*EbitengineWindow); ok {
		return ebitengineWindow, true
	}
	return nil, false
}

// AsHeadlessWindow tries to cast a Window to HeadlessWindow
func AsHeadlessWindow(window Window) (*HeadlessWindow, bool) {
	if headlessWindow, ok := window.(*HeadlessWindow); ok {
		return headlessWindow, true
	}
	return nil, false
}
