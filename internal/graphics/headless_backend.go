package graphics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"nibble8/internal/display"

	"github.com/retroenv/retrogolib/log"
)

// headlessDumpScale is the scale factor of dumped frame images.
const headlessDumpScale = 4

// HeadlessBackend implements the Backend interface for headless operation
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow implements the Window interface for headless operation
type HeadlessWindow struct {
	title        string
	width        int
	height       int
	running      bool
	frameCount   int
	lastFrame    display.Frame
	palette      Palette
	dumpInterval int
	outputPath   string
	logger       *log.Logger
}

// NewHeadlessBackend creates a new headless graphics backend
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize initializes the headless backend
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return errors.New("headless backend already initialized")
	}

	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow creates a headless "window" (no actual window)
func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, errors.New("backend not initialized")
	}

	outputPath := b.config.OutputDir
	if outputPath == "" {
		outputPath = "."
	}
	if b.config.DumpInterval > 0 {
		if err := os.MkdirAll(outputPath, 0755); err != nil {
			return nil, fmt.Errorf("creating frame dump directory: %w", err)
		}
	}

	return &HeadlessWindow{
		title:        title,
		width:        width,
		height:       height,
		running:      true,
		palette:      b.config.Palette,
		dumpInterval: b.config.DumpInterval,
		outputPath:   outputPath,
		logger:       b.config.Logger,
	}, nil
}

// Cleanup releases all headless resources
func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true (this is a headless backend)
func (b *HeadlessBackend) IsHeadless() bool {
	return true
}

// GetName returns the backend name
func (b *HeadlessBackend) GetName() string {
	return "Headless"
}

// HeadlessWindow implementation

// SetTitle sets the window title (for logging purposes)
func (w *HeadlessWindow) SetTitle(title string) {
	w.title = title
}

// GetSize returns window dimensions
func (w *HeadlessWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if window should close
func (w *HeadlessWindow) ShouldClose() bool {
	return !w.running
}

// PollEvents returns empty events list (no input in headless mode)
func (w *HeadlessWindow) PollEvents() []InputEvent {
	return nil
}

// RenderFrame records the frame and dumps it every dump interval frames.
func (w *HeadlessWindow) RenderFrame(frame display.Frame) error {
	w.frameCount++
	w.lastFrame = frame

	if w.dumpInterval > 0 && w.frameCount%w.dumpInterval == 0 {
		filename := filepath.Join(w.outputPath, fmt.Sprintf("frame_%05d.bmp", w.frameCount))
		if err := w.SaveFrame(filename); err != nil {
			return err
		}
		if w.logger != nil {
			w.logger.Debug("Frame dumped", log.String("file", filename))
		}
	}
	return nil
}

// RenderMenu does nothing, headless runs never show the menu.
func (w *HeadlessWindow) RenderMenu(Menu) error {
	return nil
}

// SaveFrame writes the last rendered frame as a BMP image.
func (w *HeadlessWindow) SaveFrame(filename string) error {
	return SaveBMP(filename, &w.lastFrame, w.palette, headlessDumpScale)
}

// Cleanup releases window resources
func (w *HeadlessWindow) Cleanup() error {
	w.running = false
	return nil
}

// GetFrameCount returns the current frame count
func (w *HeadlessWindow) GetFrameCount() int {
	return w.frameCount
}

// LastFrame returns the last rendered frame.
func (w *HeadlessWindow) LastFrame() display.Frame {
	return w.lastFrame
}
