//go:build headless

package graphics

import (
	"errors"

	"nibble8/internal/display"
)

var errNoEbitengine = errors.New("ebitengine backend not available in headless build")

// EbitengineBackend stub for headless builds
type EbitengineBackend struct{}

// EbitengineWindow stub for headless builds
type EbitengineWindow struct{}

// NewEbitengineBackend creates a stub backend for headless builds
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Stub implementations for EbitengineBackend
func (b *EbitengineBackend) Initialize(config Config) error {
	return errNoEbitengine
}

func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	return nil, errNoEbitengine
}

func (b *EbitengineBackend) Cleanup() error {
	return nil
}

func (b *EbitengineBackend) IsHeadless() bool {
	return true
}

func (b *EbitengineBackend) GetName() string {
	return "Ebitengine-Stub"
}

// Stub implementations for EbitengineWindow
func (w *EbitengineWindow) SetTitle(title string)          {}
func (w *EbitengineWindow) GetSize() (width, height int)   { return 0, 0 }
func (w *EbitengineWindow) ShouldClose() bool              { return true }
func (w *EbitengineWindow) PollEvents() []InputEvent       { return nil }
func (w *EbitengineWindow) RenderFrame(display.Frame) error { return errNoEbitengine }
func (w *EbitengineWindow) RenderMenu(Menu) error           { return errNoEbitengine }
func (w *EbitengineWindow) Cleanup() error                 { return nil }
func (w *EbitengineWindow) Run() error                     { return errNoEbitengine }
func (w *EbitengineWindow) SetEmulatorUpdateFunc(updateFunc func() error) {}
