package graphics

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"nibble8/internal/display"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// Terminals report key presses only. A key counts as held for this many
// frames after its last press, then a release event is synthesized.
const terminalHoldFrames = 6

// TerminalBackend implements the Backend interface for terminal-based rendering
type TerminalBackend struct {
	initialized bool
	config      Config
}

// TerminalWindow renders the screen with half-block characters and reads
// raw keyboard input from stdin.
type TerminalWindow struct {
	title   string
	width   int
	height  int
	running bool
	logger  *log.Logger

	out       *bufio.Writer
	lastFrame display.Frame
	drawn     bool

	// stdin reader state
	fd       int
	oldState *term.State
	stopCh   chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	pending []InputEvent
	held    map[Key]int // frames left until release
}

// NewTerminalBackend creates a new terminal graphics backend
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

// Initialize initializes the terminal backend
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return errors.New("terminal backend already initialized")
	}

	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow switches the terminal to raw mode and starts reading input.
// Without an interactive stdin the window renders but receives no input.
func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, errors.New("backend not initialized")
	}

	w := &TerminalWindow{
		title:   title,
		width:   width,
		height:  height,
		running: true,
		logger:  b.config.Logger,
		out:     bufio.NewWriter(os.Stdout),
		fd:      int(os.Stdin.Fd()),
		stopCh:  make(chan struct{}),
		held:    make(map[Key]int),
	}

	if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		w.width, w.height = cols, rows
	}

	if !term.IsTerminal(w.fd) {
		if w.logger != nil {
			w.logger.Debug("Stdin is not a terminal, keyboard input disabled")
		}
		return w, nil
	}

	oldState, err := term.MakeRaw(w.fd)
	if err != nil {
		return nil, fmt.Errorf("setting terminal raw mode: %w", err)
	}
	w.oldState = oldState

	// hide cursor, clear screen
	_, _ = w.out.WriteString("\033[?25l\033[2J")
	_ = w.out.Flush()

	go w.readInput(os.Stdin)
	return w, nil
}

// Cleanup releases all terminal resources
func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns false (terminal has basic output)
func (b *TerminalBackend) IsHeadless() bool {
	return false
}

// GetName returns the backend name
func (b *TerminalBackend) GetName() string {
	return "Terminal"
}

// TerminalWindow implementation

// SetTitle sets the terminal title
func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	_, _ = fmt.Fprintf(w.out, "\033]0;%s\007", title)
	_ = w.out.Flush()
}

// GetSize returns terminal dimensions in characters
func (w *TerminalWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true if window should close
func (w *TerminalWindow) ShouldClose() bool {
	return !w.running
}

// PollEvents returns key events read since the last call and synthesizes
// releases for keys that were not repeated recently. Call once per frame.
func (w *TerminalWindow) PollEvents() []InputEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	events := w.pending
	w.pending = nil

	for _, event := range events {
		if event.Type == InputEventTypeKey && event.Pressed {
			w.held[event.Key] = terminalHoldFrames
		}
	}

	for key, frames := range w.held {
		frames--
		if frames > 0 {
			w.held[key] = frames
			continue
		}
		delete(w.held, key)
		events = append(events, InputEvent{
			Type:    InputEventTypeKey,
			Key:     key,
			Pressed: false,
		})
	}
	return events
}

// RenderFrame draws the screen using one character per two pixel rows.
// Unchanged frames are not redrawn.
func (w *TerminalWindow) RenderFrame(frame display.Frame) error {
	if w.drawn && frame == w.lastFrame {
		return nil
	}
	w.lastFrame = frame
	w.drawn = true

	_, _ = w.out.WriteString("\033[H")
	if err := writeHalfBlocks(w.out, &frame); err != nil {
		return err
	}
	return w.out.Flush()
}

// RenderMenu prints the menu as a plain text list.
func (w *TerminalWindow) RenderMenu(menu Menu) error {
	w.drawn = false

	var buf bytes.Buffer
	buf.WriteString("\033[H\033[2J")
	buf.WriteString(menu.Title)
	buf.WriteString("\r\n\r\n")
	for i, item := range menu.Items {
		marker := "  "
		if i == menu.Selected {
			marker = "> "
		}
		buf.WriteString(marker + item + "\r\n")
	}
	if menu.Footer != "" {
		buf.WriteString("\r\n" + menu.Footer + "\r\n")
	}

	if _, err := w.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing menu: %w", err)
	}
	return w.out.Flush()
}

// Cleanup stops the input reader and restores the terminal state.
func (w *TerminalWindow) Cleanup() error {
	w.running = false
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})

	var err error
	if w.oldState != nil {
		// show cursor
		_, _ = w.out.WriteString("\033[?25h\r\n")
		_ = w.out.Flush()
		err = term.Restore(w.fd, w.oldState)
		w.oldState = nil
	}
	return err
}

// readInput queues key events parsed from r until r fails or the window is
// cleaned up. It never touches emulator state. A Read blocked on stdin is not interrupted by Cleanup, so the
// goroutine may live until the next key press or process exit.
func (w *TerminalWindow) readInput(r io.Reader) {
	buf := make([]byte, 32)

	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			events := parseTerminalInput(buf[:n])
			w.mu.Lock()
			w.pending = append(w.pending, events...)
			w.mu.Unlock()
		}
		if err != nil {
			return
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// escapeSequences maps terminal escape sequences to keys.
var escapeSequences = map[string]InputEvent{
	"\x1b[A":    {Key: KeyUp},
	"\x1b[B":    {Key: KeyDown},
	"\x1b[C":    {Key: KeyRight},
	"\x1b[D":    {Key: KeyLeft},
	"\x1bOP":    {Key: KeyF1},
	"\x1bOQ":    {Key: KeyF2},
	"\x1bOR":    {Key: KeyF3},
	"\x1bOS":    {Key: KeyF4},
	"\x1b[15~":  {Key: KeyF5},
	"\x1b[24~":  {Key: KeyF12},
	"\x1b[1;2P": {Key: KeyF1, Modifiers: ModifierShift},
	"\x1b[1;2Q": {Key: KeyF2, Modifiers: ModifierShift},
	"\x1b[1;2R": {Key: KeyF3, Modifiers: ModifierShift},
	"\x1b[1;2S": {Key: KeyF4, Modifiers: ModifierShift},
}

// parseTerminalInput decodes a chunk of raw terminal input into key press
// events. Ctrl+C produces a quit event.
func parseTerminalInput(data []byte) []InputEvent {
	var events []InputEvent
	press := func(event InputEvent) {
		event.Type = InputEventTypeKey
		event.Pressed = true
		events = append(events, event)
	}

	for i := 0; i < len(data); i++ {
		b := data[i]
		switch {
		case b == 0x03:
			events = append(events, InputEvent{Type: InputEventTypeQuit, Pressed: true})

		case b == 0x1b:
			rest := string(data[i:])
			matched := false
			for seq, event := range escapeSequences {
				if strings.HasPrefix(rest, seq) {
					press(event)
					i += len(seq) - 1
					matched = true
					break
				}
			}
			if !matched {
				press(InputEvent{Key: KeyEscape})
			}

		case b == '\r' || b == '\n':
			press(InputEvent{Key: KeyEnter})
		case b == ' ':
			press(InputEvent{Key: KeySpace})
		case b == 0x7f || b == 0x08:
			press(InputEvent{Key: KeyBackspace})

		default:
			if key, ok := letterKey(b); ok {
				press(InputEvent{Key: key})
			}
		}
	}
	return events
}

// writeHalfBlocks renders two pixel rows per text line.
func writeHalfBlocks(w io.Writer, frame *display.Frame) error {
	var line strings.Builder
	for y := 0; y < display.Height; y += 2 {
		line.Reset()
		for x := range display.Width {
			top := frame.At(x, y)
			bottom := y+1 < display.Height && frame.At(x, y+1)
			switch {
			case top && bottom:
				line.WriteString("█")
			case top:
				line.WriteString("▀")
			case bottom:
				line.WriteString("▄")
			default:
				line.WriteByte(' ')
			}
		}
		line.WriteString("\r\n")
		if _, err := io.WriteString(w, line.String()); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}
	return nil
}
