// Package app ties the interpreter core to a graphics backend: configuration,
// the frame loop, the ROM menu and save slots.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nibble8/internal/graphics"
	"nibble8/internal/input"
	"nibble8/internal/rom"

	"github.com/retroenv/retrogolib/log"
)

// FrameRate is the rate of the host loop and the CHIP-8 timers.
const FrameRate = 60

// screenshotScale is the pixel size of saved screenshots.
const screenshotScale = 8

// State is the top level state of the application.
type State int

const (
	// StateMenu shows the ROM selection menu.
	StateMenu State = iota
	// StatePlaying runs the loaded ROM.
	StatePlaying
)

func (s State) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "menu"
}

// Application represents the main interpreter application
type Application struct {
	// Core components
	config   *Config
	logger   *log.Logger
	emulator *Emulator
	states   *StateManager
	keyMap   input.KeyMap
	palette  graphics.Palette

	// Graphics
	graphicsBackend graphics.Backend
	window          graphics.Window
	headless        bool

	// Application state
	state       State
	running     bool
	paused      bool
	initialized bool
	needsRedraw bool
	beeping     bool

	// ROM selection
	romPath    string
	romName    string
	romEntries []rom.Entry
	selected   int
	status     string

	// Statistics
	frameCount uint64
	startTime  time.Time
}

// ApplicationError represents application-specific errors
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// HeadlessResult summarizes a headless run.
type HeadlessResult struct {
	Frames     int
	Idle       bool
	Screenshot string
}

// NewApplication creates an application for config. In headless mode the
// headless graphics backend is used regardless of the configured backend.
func NewApplication(config *Config, logger *log.Logger, headless bool) (*Application, error) {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = CreateLogger(config.LogLevel())
	}

	app := &Application{
		config:   config,
		logger:   logger,
		headless: headless,
		state:    StateMenu,
	}

	if err := app.initializeComponents(); err != nil {
		return nil, err
	}
	if err := app.initializeGraphicsBackend(); err != nil {
		return nil, &ApplicationError{
			Component: "graphics",
			Operation: "initialization",
			Err:       err,
		}
	}

	app.initialized = true
	return app, nil
}

// initializeComponents creates the emulator and parses the config parts it
// depends on.
func (app *Application) initializeComponents() error {
	if err := app.config.validate(); err != nil {
		return &ApplicationError{Component: "config", Operation: "validation", Err: err}
	}

	var err error
	if app.keyMap, err = app.config.KeyMap(); err != nil {
		return &ApplicationError{Component: "input", Operation: "key mapping", Err: err}
	}
	if app.palette, err = app.config.Palette(); err != nil {
		return &ApplicationError{Component: "graphics", Operation: "palette", Err: err}
	}
	if app.emulator, err = NewEmulator(app.config, app.logger); err != nil {
		return &ApplicationError{Component: "emulator", Operation: "initialization", Err: err}
	}

	app.states = NewStateManager(app.config.Emulation.SaveStateSlots)
	return nil
}

// initializeGraphicsBackend creates the backend and its window.
func (app *Application) initializeGraphicsBackend() error {
	backendType := graphics.BackendType(app.config.Video.Backend)
	if app.headless {
		backendType = graphics.BackendHeadless
	}

	var err error
	app.graphicsBackend, err = graphics.CreateBackend(backendType)
	if err != nil {
		return err
	}

	width, height := app.config.GetWindowResolution()
	graphicsConfig := graphics.Config{
		WindowTitle:  "nibble8",
		WindowWidth:  width,
		WindowHeight: height,
		Fullscreen:   app.config.Window.Fullscreen,
		VSync:        app.config.Video.VSync,
		Filter:       app.config.Video.Filter,
		Palette:      app.palette,
		DumpInterval: app.config.Debug.DumpInterval,
		OutputDir:    app.config.Paths.Output,
		Headless:     app.headless,
		Logger:       app.logger,
	}

	if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
		if backendType != graphics.BackendEbitengine {
			return fmt.Errorf("initializing graphics backend: %w", err)
		}

		app.logger.Warn("Ebitengine backend failed, falling back to terminal backend", log.Err(err))
		app.graphicsBackend = graphics.NewTerminalBackend()
		if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
			return fmt.Errorf("initializing fallback terminal backend: %w", err)
		}
	}

	app.window, err = app.graphicsBackend.CreateWindow(graphicsConfig.WindowTitle, width, height)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}

	app.logger.Debug("Graphics backend initialized",
		log.String("backend", app.graphicsBackend.GetName()),
		log.Int("width", width),
		log.Int("height", height))
	return nil
}

// LoadROM loads a ROM file and starts playing it.
func (app *Application) LoadROM(romPath string) error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	r, err := rom.LoadFromFile(romPath)
	if err != nil {
		return &ApplicationError{
			Component: "rom",
			Operation: "load ROM",
			Err:       err,
		}
	}

	app.romPath = romPath
	return app.startROM(r)
}

// startROM resets the emulator with a ROM image and switches to playing.
func (app *Application) startROM(r *rom.ROM) error {
	if err := app.emulator.LoadROM(r.Data); err != nil {
		return &ApplicationError{
			Component: "emulator",
			Operation: "load ROM",
			Err:       err,
		}
	}

	app.romName = r.Name
	app.state = StatePlaying
	app.paused = false
	app.needsRedraw = true
	app.status = ""
	app.beeping = false
	app.window.SetTitle(app.title())

	app.logger.Info("ROM loaded", log.String("name", r.Name), log.Int("size", r.Size()))
	return nil
}

// Run starts the main application loop. It returns when the window is
// closed, the user quits or ctx is canceled.
func (app *Application) Run(ctx context.Context) error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	app.running = true
	app.startTime = time.Now()
	app.needsRedraw = true
	if app.state == StateMenu {
		app.refreshROMList()
	}

	app.logger.Debug("Starting main loop", log.String("backend", app.graphicsBackend.GetName()))

	if ebitengineWindow, ok := graphics.AsEbitengineWindow(app.window); ok {
		ebitengineWindow.SetEmulatorUpdateFunc(func() error {
			if ctx.Err() != nil {
				return graphics.ErrQuit
			}
			return app.Update()
		})
		return ebitengineWindow.Run()
	}

	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := app.Update(); err != nil {
			if errors.Is(err, graphics.ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// RunHeadless runs the loaded ROM for up to frames frames without input.
// It stops early when the program halts or idles on a jump to itself, then
// saves the last frame into the output directory. A halted CPU is reported
// as error together with the result.
func (app *Application) RunHeadless(ctx context.Context, frames int) (HeadlessResult, error) {
	var result HeadlessResult
	if !app.emulator.HasROM() {
		return result, errors.New("ROM file required for headless mode")
	}

	if err := os.MkdirAll(app.config.Paths.Output, 0755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}

	app.startTime = time.Now()
	for result.Frames < frames && ctx.Err() == nil {
		if _, err := app.emulator.RunFrame(); err != nil {
			break
		}
		result.Frames++
		app.frameCount++

		if err := app.window.RenderFrame(app.emulator.Frame()); err != nil {
			return result, &ApplicationError{Component: "graphics", Operation: "render", Err: err}
		}
		if app.emulator.Idle() {
			result.Idle = true
			break
		}
	}

	result.Screenshot = filepath.Join(app.config.Paths.Output, app.screenshotName()+".bmp")
	frame := app.emulator.Frame()
	if err := graphics.SaveBMP(result.Screenshot, &frame, app.palette, screenshotScale); err != nil {
		return result, &ApplicationError{Component: "graphics", Operation: "screenshot", Err: err}
	}

	app.logger.Info("Headless run finished",
		log.Int("frames", result.Frames),
		log.String("idle", fmt.Sprint(result.Idle)),
		log.String("elapsed", app.GetUptime().String()),
		log.String("screenshot", result.Screenshot))

	if err := app.emulator.HaltReason(); err != nil {
		return result, &ApplicationError{Component: "cpu", Operation: "execution", Err: err}
	}
	return result, nil
}

// Update runs one host frame: input, emulation and rendering. It returns
// graphics.ErrQuit when the application should end.
func (app *Application) Update() error {
	if err := app.processInput(); err != nil {
		return err
	}
	if !app.running {
		return graphics.ErrQuit
	}

	if err := app.updateEmulator(); err != nil {
		return err
	}
	return app.render()
}

// updateEmulator runs one frame unless paused, halted or in the menu.
func (app *Application) updateEmulator() error {
	if app.state != StatePlaying || app.paused || app.emulator.Halted() {
		return nil
	}

	redraw, err := app.emulator.RunFrame()
	app.frameCount++
	if redraw {
		app.needsRedraw = true
	}
	if err != nil {
		// the CPU logged the halt, keep showing the last screen
		app.status = err.Error()
		app.beeping = false
		app.window.SetTitle(app.title())
		return nil
	}
	if sound := app.emulator.SoundActive(); sound != app.beeping {
		app.beeping = sound
		app.window.SetTitle(app.title())
	}
	return nil
}

// title returns the window title for the current ROM. A running sound
// timer is shown as a note since no audio is produced.
func (app *Application) title() string {
	if app.romName == "" {
		return "nibble8"
	}
	t := "nibble8 - " + app.romName
	switch {
	case app.emulator.Halted():
		t += " (halted)"
	case app.beeping:
		t += " \u266a"
	}
	return t
}

// processInput handles the events of the graphics backend.
func (app *Application) processInput() error {
	for _, event := range app.window.PollEvents() {
		if err := app.handleEvent(event); err != nil {
			return err
		}
	}
	return nil
}

// handleEvent dispatches one input event by application state.
func (app *Application) handleEvent(event graphics.InputEvent) error {
	if event.Type == graphics.InputEventTypeQuit {
		app.Stop()
		return nil
	}

	if app.state == StateMenu {
		if event.Pressed {
			return app.handleMenuInput(event)
		}
		return nil
	}

	// bound keys reach the keypad before any hotkey
	if key, ok := app.keyMap.Lookup(event.Key.String()); ok {
		if err := app.emulator.SetKey(key, event.Pressed); err != nil {
			return &ApplicationError{Component: "input", Operation: "key event", Err: err}
		}
		return nil
	}

	if event.Pressed {
		app.handleSpecialInput(event)
	}
	return nil
}

// handleMenuInput moves the menu selection and starts the selected ROM.
func (app *Application) handleMenuInput(event graphics.InputEvent) error {
	count := len(app.romEntries)

	switch event.Key {
	case graphics.KeyEscape:
		app.Stop()

	case graphics.KeyUp:
		if count > 0 {
			app.selected = (app.selected - 1 + count) % count
			app.needsRedraw = true
		}

	case graphics.KeyDown:
		if count > 0 {
			app.selected = (app.selected + 1) % count
			app.needsRedraw = true
		}

	case graphics.KeyEnter, graphics.KeySpace:
		if count == 0 {
			return nil
		}
		entry := app.romEntries[app.selected]
		if err := app.LoadROM(entry.Path); err != nil {
			app.logger.Error("Loading ROM failed", log.String("path", entry.Path), log.Err(err))
			app.status = err.Error()
			app.needsRedraw = true
		}
	}
	return nil
}

// handleSpecialInput handles the hotkeys available while playing.
func (app *Application) handleSpecialInput(event graphics.InputEvent) {
	switch event.Key {
	case graphics.KeyEscape:
		app.ShowMenu()

	case graphics.KeyP:
		app.TogglePause()

	case graphics.KeyF5:
		app.Reset()

	case graphics.KeyF12:
		if path, err := app.SaveScreenshot(); err != nil {
			app.logger.Error("Saving screenshot failed", log.Err(err))
		} else {
			app.logger.Info("Screenshot saved", log.String("file", path))
		}

	case graphics.KeyF1, graphics.KeyF2, graphics.KeyF3, graphics.KeyF4:
		slot := int(event.Key - graphics.KeyF1)
		if event.Modifiers.Has(graphics.ModifierShift) {
			if err := app.LoadState(slot); err != nil {
				app.logger.Error("Loading state failed", log.Int("slot", slot+1), log.Err(err))
				return
			}
			app.logger.Info("State loaded", log.Int("slot", slot+1))
			return
		}
		if err := app.SaveState(slot); err != nil {
			app.logger.Error("Saving state failed", log.Int("slot", slot+1), log.Err(err))
			return
		}
		app.logger.Info("State saved", log.Int("slot", slot+1))
	}
}

// render draws the menu or, when it changed, the screen.
func (app *Application) render() error {
	if !app.needsRedraw {
		return nil
	}
	app.needsRedraw = false

	if app.state == StateMenu {
		if err := app.window.RenderMenu(app.menu()); err != nil {
			return &ApplicationError{Component: "graphics", Operation: "render menu", Err: err}
		}
		return nil
	}

	if err := app.window.RenderFrame(app.emulator.Frame()); err != nil {
		return &ApplicationError{Component: "graphics", Operation: "render", Err: err}
	}
	return nil
}

// menu builds the ROM selection menu.
func (app *Application) menu() graphics.Menu {
	menu := graphics.Menu{
		Title:    "nibble8 - select a ROM",
		Selected: app.selected,
		Footer:   "Up/Down select, Enter start, Esc quit",
	}
	for _, entry := range app.romEntries {
		menu.Items = append(menu.Items, entry.Name)
	}

	switch {
	case app.status != "":
		menu.Footer = app.status
	case len(app.romEntries) == 0:
		menu.Footer = fmt.Sprintf("No ROMs found in %s", app.config.Paths.ROMs)
	}
	return menu
}

// refreshROMList rereads the ROM directory.
func (app *Application) refreshROMList() {
	entries, err := rom.List(app.config.Paths.ROMs)
	if err != nil {
		app.logger.Warn("Listing ROMs failed", log.String("dir", app.config.Paths.ROMs), log.Err(err))
	}
	app.romEntries = entries
	if app.selected >= len(entries) {
		app.selected = 0
	}
	app.needsRedraw = true
}

// Stop ends the main loop after the current frame.
func (app *Application) Stop() {
	app.running = false
}

// TogglePause toggles pause state
func (app *Application) TogglePause() {
	app.paused = !app.paused
	app.logger.Debug("Pause toggled", log.String("paused", fmt.Sprint(app.paused)))
}

// ShowMenu returns to the ROM selection menu.
func (app *Application) ShowMenu() {
	app.state = StateMenu
	app.status = ""
	app.emulator.GetBus().Keypad.Reset()
	app.window.SetTitle("nibble8")
	app.refreshROMList()
}

// SaveState saves the current emulator state into a slot.
func (app *Application) SaveState(slot int) error {
	if !app.emulator.HasROM() {
		return errors.New("no ROM loaded")
	}
	return app.states.SaveState(app.emulator, slot, app.romName)
}

// LoadState restores the emulator state from a slot.
func (app *Application) LoadState(slot int) error {
	if !app.emulator.HasROM() {
		return errors.New("no ROM loaded")
	}
	if err := app.states.LoadState(app.emulator, slot, app.romName); err != nil {
		return err
	}
	app.status = ""
	app.needsRedraw = true
	app.beeping = app.emulator.SoundActive()
	app.window.SetTitle(app.title())
	return nil
}

// Reset restarts the current ROM.
func (app *Application) Reset() {
	if err := app.emulator.Reset(); err != nil {
		app.logger.Error("Reset failed", log.Err(err))
	}
	app.status = ""
	app.paused = false
	app.needsRedraw = true
	app.beeping = false
	app.window.SetTitle(app.title())
}

// SaveScreenshot writes the screen as BMP file into the screenshots
// directory and returns the file path.
func (app *Application) SaveScreenshot() (string, error) {
	dir := app.config.Paths.Screenshots
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating screenshot directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%05d.bmp", app.screenshotName(),
		time.Now().Format("20060102_150405"), app.emulator.GetFrameCount())
	path := filepath.Join(dir, name)

	frame := app.emulator.Frame()
	if err := graphics.SaveBMP(path, &frame, app.palette, screenshotScale); err != nil {
		return "", err
	}
	return path, nil
}

// screenshotName returns the base name for image files of the current ROM.
func (app *Application) screenshotName() string {
	if app.romName == "" {
		return "screen"
	}
	return app.romName
}

// IsRunning returns whether the application is running
func (app *Application) IsRunning() bool {
	return app.running
}

// IsPaused returns whether the emulator is paused
func (app *Application) IsPaused() bool {
	return app.paused
}

// GetState returns whether the menu is shown or a ROM is playing.
func (app *Application) GetState() State {
	return app.state
}

// GetEmulator returns the emulator.
func (app *Application) GetEmulator() *Emulator {
	return app.emulator
}

// GetFrameCount returns the total frame count
func (app *Application) GetFrameCount() uint64 {
	return app.frameCount
}

// GetUptime returns the application uptime
func (app *Application) GetUptime() time.Duration {
	return time.Since(app.startTime)
}

// GetROMPath returns the currently loaded ROM path
func (app *Application) GetROMPath() string {
	return app.romPath
}

// GetConfig returns the application configuration
func (app *Application) GetConfig() *Config {
	return app.config
}

// Cleanup releases all resources and shuts down the application
func (app *Application) Cleanup() error {
	var errs []error

	if app.window != nil {
		if err := app.window.Cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("window cleanup: %w", err))
		}
	}
	if app.graphicsBackend != nil {
		if err := app.graphicsBackend.Cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("graphics backend cleanup: %w", err))
		}
	}

	app.initialized = false
	app.logger.Debug("Application cleanup complete")
	return errors.Join(errs...)
}
