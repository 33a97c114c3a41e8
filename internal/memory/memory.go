// Package memory implements the 4 KiB CHIP-8 address space.
package memory

import (
	"errors"
	"fmt"
)

// Memory layout constants
const (
	// Size is the addressable memory in bytes.
	Size = 4096
	// ProgramStart is where ROMs are loaded and execution begins.
	ProgramStart = 0x200
	// MaxROMSize is the space available for a ROM image.
	MaxROMSize = Size - ProgramStart
)

var (
	// ErrOutOfBounds is returned for accesses outside [0, Size).
	ErrOutOfBounds = errors.New("memory access out of bounds")
	// ErrROMTooLarge is returned when a ROM does not fit above ProgramStart.
	ErrROMTooLarge = errors.New("rom too large")
)

// AccessError describes a rejected memory access.
type AccessError struct {
	Op      string // "read" or "write"
	Address int
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s at 0x%04X: %v", e.Op, e.Address, ErrOutOfBounds)
}

// Unwrap allows errors.Is(err, ErrOutOfBounds).
func (e *AccessError) Unwrap() error {
	return ErrOutOfBounds
}

// Memory represents the CHIP-8 RAM. The reserved area below ProgramStart
// holds the built-in font.
type Memory struct {
	ram     [Size]uint8
	romSize int
}

// New creates a zeroed memory with the font loaded.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset zeroes RAM and reloads the font.
func (m *Memory) Reset() {
	m.ram = [Size]uint8{}
	m.romSize = 0
	copy(m.ram[FontStart:], fontSet[:])
}

// LoadROM copies a ROM image to ProgramStart. Images larger than
// MaxROMSize are rejected without touching memory.
func (m *Memory) LoadROM(data []byte) error {
	if len(data) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, %d available", ErrROMTooLarge, len(data), MaxROMSize)
	}
	copy(m.ram[ProgramStart:], data)
	m.romSize = len(data)
	return nil
}

// Read returns the byte at address.
func (m *Memory) Read(address uint16) (uint8, error) {
	if int(address) >= Size {
		return 0, &AccessError{Op: "read", Address: int(address)}
	}
	return m.ram[address], nil
}

// Write stores value at address.
func (m *Memory) Write(address uint16, value uint8) error {
	if int(address) >= Size {
		return &AccessError{Op: "write", Address: int(address)}
	}
	m.ram[address] = value
	return nil
}

// ROMSize returns the size of the last loaded ROM.
func (m *Memory) ROMSize() int {
	return m.romSize
}

// Snapshot returns a copy of the whole address space.
func (m *Memory) Snapshot() [Size]uint8 {
	return m.ram
}

// Restore replaces the address space with a snapshot.
func (m *Memory) Restore(ram [Size]uint8) {
	m.ram = ram
}
