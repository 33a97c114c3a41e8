//go:build !headless

package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"nibble8/internal/display"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/font/basicfont"
)

// Menu layout
const (
	menuMarginX    = 16
	menuLineHeight = 16
	menuTitleY     = 24
	menuFirstItemY = 56
)

// EbitengineBackend implements the Backend interface using Ebitengine
type EbitengineBackend struct {
	initialized bool
	config      Config
	game        *EbitengineGame
}

// EbitengineWindow implements the Window interface for Ebitengine
type EbitengineWindow struct {
	backend            *EbitengineBackend
	title              string
	width              int
	height             int
	game               *EbitengineGame
	running            bool
	events             []InputEvent
	emulatorUpdateFunc func() error
}

// EbitengineGame implements ebiten.Game for the emulator
type EbitengineGame struct {
	window       *EbitengineWindow
	frameImage   *ebiten.Image
	windowWidth  int
	windowHeight int
	palette      Palette
	filter       ebiten.Filter
	logger       *log.Logger

	// Menu shown instead of the screen while set
	menu     Menu
	showMenu bool

	// Reusable image buffer for pixel uploads
	imageBuffer *image.RGBA
}

// ebitenKeys maps Ebitengine keys to host keys.
var ebitenKeys = map[ebiten.Key]Key{
	ebiten.KeyEscape:     KeyEscape,
	ebiten.KeyEnter:      KeyEnter,
	ebiten.KeySpace:      KeySpace,
	ebiten.KeyBackspace:  KeyBackspace,
	ebiten.KeyArrowUp:    KeyUp,
	ebiten.KeyArrowDown:  KeyDown,
	ebiten.KeyArrowLeft:  KeyLeft,
	ebiten.KeyArrowRight: KeyRight,

	ebiten.KeyDigit0: Key0,
	ebiten.KeyDigit1: Key1,
	ebiten.KeyDigit2: Key2,
	ebiten.KeyDigit3: Key3,
	ebiten.KeyDigit4: Key4,
	ebiten.KeyDigit5: Key5,
	ebiten.KeyDigit6: Key6,
	ebiten.KeyDigit7: Key7,
	ebiten.KeyDigit8: Key8,
	ebiten.KeyDigit9: Key9,

	ebiten.KeyA: KeyA,
	ebiten.KeyB: KeyB,
	ebiten.KeyC: KeyC,
	ebiten.KeyD: KeyD,
	ebiten.KeyE: KeyE,
	ebiten.KeyF: KeyF,
	ebiten.KeyG: KeyG,
	ebiten.KeyH: KeyH,
	ebiten.KeyI: KeyI,
	ebiten.KeyJ: KeyJ,
	ebiten.KeyK: KeyK,
	ebiten.KeyL: KeyL,
	ebiten.KeyM: KeyM,
	ebiten.KeyN: KeyN,
	ebiten.KeyO: KeyO,
	ebiten.KeyP: KeyP,
	ebiten.KeyQ: KeyQ,
	ebiten.KeyR: KeyR,
	ebiten.KeyS: KeyS,
	ebiten.KeyT: KeyT,
	ebiten.KeyU: KeyU,
	ebiten.KeyV: KeyV,
	ebiten.KeyW: KeyW,
	ebiten.KeyX: KeyX,
	ebiten.KeyY: KeyY,
	ebiten.KeyZ: KeyZ,

	ebiten.KeyF1:  KeyF1,
	ebiten.KeyF2:  KeyF2,
	ebiten.KeyF3:  KeyF3,
	ebiten.KeyF4:  KeyF4,
	ebiten.KeyF5:  KeyF5,
	ebiten.KeyF6:  KeyF6,
	ebiten.KeyF7:  KeyF7,
	ebiten.KeyF8:  KeyF8,
	ebiten.KeyF9:  KeyF9,
	ebiten.KeyF10: KeyF10,
	ebiten.KeyF11: KeyF11,
	ebiten.KeyF12: KeyF12,
}

// NewEbitengineBackend creates a new Ebitengine graphics backend
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Initialize initializes the Ebitengine backend
func (b *EbitengineBackend) Initialize(config Config) error {
	if b.initialized {
		return errors.New("ebitengine backend already initialized")
	}

	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow creates an Ebitengine window
func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, errors.New("backend not initialized")
	}
	if b.config.Headless {
		return nil, errors.New("cannot create window in headless mode")
	}

	game := &EbitengineGame{
		windowWidth:  width,
		windowHeight: height,
		palette:      b.config.Palette,
		filter:       ebitenFilter(b.config.Filter),
		logger:       b.config.Logger,
		frameImage:   ebiten.NewImage(display.Width, display.Height),
		imageBuffer:  image.NewRGBA(image.Rect(0, 0, display.Width, display.Height)),
	}

	window := &EbitengineWindow{
		backend: b,
		title:   title,
		width:   width,
		height:  height,
		game:    game,
		running: true,
	}

	game.window = window
	b.game = game

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)
	ebiten.SetScreenClearedEveryFrame(true)

	if b.config.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if b.config.Logger != nil {
		b.config.Logger.Debug("Ebitengine window created",
			log.String("title", title),
			log.Int("width", width),
			log.Int("height", height))
	}
	return window, nil
}

// Cleanup releases all Ebitengine resources
func (b *EbitengineBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true if running in headless mode
func (b *EbitengineBackend) IsHeadless() bool {
	return b.config.Headless
}

// GetName returns the backend name
func (b *EbitengineBackend) GetName() string {
	return "Ebitengine"
}

// EbitengineWindow implementation

// SetTitle sets the window title
func (w *EbitengineWindow) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

// GetSize returns window dimensions
func (w *EbitengineWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if window should close
func (w *EbitengineWindow) ShouldClose() bool {
	return !w.running
}

// PollEvents returns the events collected since the last call
func (w *EbitengineWindow) PollEvents() []InputEvent {
	events := w.events
	w.events = nil
	return events
}

// RenderFrame uploads a CHIP-8 screen to the window
func (w *EbitengineWindow) RenderFrame(frame display.Frame) error {
	if w.game == nil {
		return errors.New("game not initialized")
	}

	w.game.palette.Fill(w.game.imageBuffer, &frame)
	w.game.frameImage.WritePixels(w.game.imageBuffer.Pix)
	w.game.showMenu = false
	return nil
}

// RenderMenu shows the menu until the next RenderFrame
func (w *EbitengineWindow) RenderMenu(menu Menu) error {
	if w.game == nil {
		return errors.New("game not initialized")
	}

	w.game.menu = menu
	w.game.showMenu = true
	return nil
}

// Cleanup releases window resources
func (w *EbitengineWindow) Cleanup() error {
	w.running = false
	return nil
}

// Run starts the Ebitengine game loop. It returns when the window is closed
// or the update function returns ErrQuit.
func (w *EbitengineWindow) Run() error {
	if w.game == nil {
		return errors.New("game not initialized")
	}

	if err := ebiten.RunGame(w.game); err != nil {
		return fmt.Errorf("running game loop: %w", err)
	}
	return nil
}

// SetEmulatorUpdateFunc sets the function called once per 60 Hz tick
func (w *EbitengineWindow) SetEmulatorUpdateFunc(updateFunc func() error) {
	w.emulatorUpdateFunc = updateFunc
}

// EbitengineGame implementation

// Update implements ebiten.Game.Update
func (g *EbitengineGame) Update() error {
	if g.window == nil {
		return nil
	}
	if !g.window.running {
		return ebiten.Termination
	}

	g.processInput()

	if g.window.emulatorUpdateFunc != nil {
		if err := g.window.emulatorUpdateFunc(); err != nil {
			if errors.Is(err, ErrQuit) {
				g.window.running = false
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func ebitenFilter(name string) ebiten.Filter {
	if name == "linear" {
		return ebiten.FilterLinear
	}
	return ebiten.FilterNearest
}

// Draw implements ebiten.Game.Draw
func (g *EbitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.palette.Off)

	if g.showMenu {
		g.drawMenu(screen)
		return
	}

	// Scale to fit the window while keeping the aspect ratio, centered
	scaleX := float64(g.windowWidth) / float64(display.Width)
	scaleY := float64(g.windowHeight) / float64(display.Height)
	scale := min(scaleX, scaleY)

	offsetX := (float64(g.windowWidth) - float64(display.Width)*scale) / 2
	offsetY := (float64(g.windowHeight) - float64(display.Height)*scale) / 2

	op := &ebiten.DrawImageOptions{Filter: g.filter}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(g.frameImage, op)
}

func (g *EbitengineGame) drawMenu(screen *ebiten.Image) {
	face := basicfont.Face7x13
	fg := g.palette.On

	text.Draw(screen, g.menu.Title, face, menuMarginX, menuTitleY, fg)

	for i, item := range g.menu.Items {
		y := menuFirstItemY + i*menuLineHeight
		if y > g.windowHeight-2*menuLineHeight {
			break
		}

		if i == g.menu.Selected {
			width := text.BoundString(face, item).Dx()
			ebitenutil.DrawRect(screen, float64(menuMarginX-4), float64(y-menuLineHeight+4),
				float64(width+8), float64(menuLineHeight), fg)
			text.Draw(screen, item, face, menuMarginX, y, g.palette.Off)
			continue
		}
		text.Draw(screen, item, face, menuMarginX, y, fg)
	}

	if g.menu.Footer != "" {
		text.Draw(screen, g.menu.Footer, face, menuMarginX, g.windowHeight-menuLineHeight/2,
			color.RGBA{R: fg.R / 2, G: fg.G / 2, B: fg.B / 2, A: 0xFF})
	}
}

// Layout implements ebiten.Game.Layout
func (g *EbitengineGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	g.windowWidth = outsideWidth
	g.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}

// processInput converts key changes of this tick into input events
func (g *EbitengineGame) processInput() {
	if ebiten.IsWindowBeingClosed() {
		g.window.events = append(g.window.events, InputEvent{
			Type:    InputEventTypeQuit,
			Pressed: true,
		})
		return
	}

	modifiers := ModifierNone
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		modifiers |= ModifierShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		modifiers |= ModifierCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		modifiers |= ModifierAlt
	}

	for ebitenKey, key := range ebitenKeys {
		switch {
		case inpututil.IsKeyJustPressed(ebitenKey):
			g.window.events = append(g.window.events, InputEvent{
				Type:      InputEventTypeKey,
				Key:       key,
				Pressed:   true,
				Modifiers: modifiers,
			})
		case inpututil.IsKeyJustReleased(ebitenKey):
			g.window.events = append(g.window.events, InputEvent{
				Type:      InputEventTypeKey,
				Key:       key,
				Pressed:   false,
				Modifiers: modifiers,
			})
		}
	}
}
