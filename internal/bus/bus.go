// Package bus implements the system bus connecting memory, display and keypad.
package bus

import (
	"fmt"

	"nibble8/internal/display"
	"nibble8/internal/input"
	"nibble8/internal/memory"
)

// Bus connects all CHIP-8 peripherals together. The CPU reaches every
// peripheral through it.
type Bus struct {
	// Core components
	Memory  *memory.Memory
	Display *display.Framebuffer
	Keypad  *input.Keypad
}

// New creates a new system bus with all components in their reset state.
func New() *Bus {
	return &Bus{
		Memory:  memory.New(),
		Display: display.New(),
		Keypad:  input.New(),
	}
}

// Reset zeroes RAM, reloads the font, clears the screen and releases all keys.
func (b *Bus) Reset() {
	b.Memory.Reset()
	b.Display.Clear()
	b.Keypad.Reset()
}

// LoadROM copies a ROM image into memory at the program start address.
func (b *Bus) LoadROM(data []byte) error {
	if err := b.Memory.LoadROM(data); err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}
	return nil
}

// Read returns the memory byte at address.
func (b *Bus) Read(address uint16) (uint8, error) {
	return b.Memory.Read(address)
}

// Write stores a memory byte at address.
func (b *Bus) Write(address uint16, value uint8) error {
	return b.Memory.Write(address, value)
}

// Pixel returns whether the screen pixel at (x, y) is lit.
func (b *Bus) Pixel(x, y int) (bool, error) {
	return b.Display.Pixel(x, y)
}

// SetPixel lights or clears the screen pixel at (x, y).
func (b *Bus) SetPixel(x, y int, on bool) error {
	return b.Display.SetPixel(x, y, on)
}

// ClearScreen turns every pixel off.
func (b *Bus) ClearScreen() {
	b.Display.Clear()
}

// SetKey updates a keypad key. Only host input translation calls this.
func (b *Bus) SetKey(key uint8, pressed bool) error {
	return b.Keypad.SetKey(key, pressed)
}

// Key returns whether a keypad key is held down.
func (b *Bus) Key(key uint8) (bool, error) {
	return b.Keypad.IsPressed(key)
}

// PressedKey returns the lowest keypad key currently held down.
func (b *Bus) PressedKey() (uint8, bool) {
	return b.Keypad.PressedKey()
}

// Frame returns a read-only copy of the screen for renderers.
func (b *Bus) Frame() display.Frame {
	return b.Display.Frame()
}

// State is a copy of all bus owned state.
type State struct {
	RAM    [memory.Size]uint8
	Screen display.Frame
	Keys   [input.KeyCount]bool
}

// Snapshot captures memory, screen and keypad contents.
func (b *Bus) Snapshot() State {
	return State{
		RAM:    b.Memory.Snapshot(),
		Screen: b.Display.Frame(),
		Keys:   b.Keypad.State(),
	}
}

// Restore replaces memory and screen contents with a snapshot. Keys are
// left alone since they mirror the host keyboard, not the program.
func (b *Bus) Restore(s State) {
	b.Memory.Restore(s.RAM)
	b.Display.Restore(s.Screen)
}
