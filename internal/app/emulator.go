package app

import (
	"bytes"
	"fmt"
	"time"

	"nibble8/internal/bus"
	"nibble8/internal/cpu"
	"nibble8/internal/display"

	"github.com/retroenv/retrogolib/log"
)

// Emulator owns the bus and the CPU and runs them one 60 Hz frame at a time.
type Emulator struct {
	bus    *bus.Bus
	cpu    *cpu.CPU
	logger *log.Logger

	rom                  []byte
	instructionsPerFrame int

	frameCount uint64
}

// NewEmulator creates an emulator configured from config. logger may be nil.
func NewEmulator(config *Config, logger *log.Logger) (*Emulator, error) {
	quirks, err := config.Quirks()
	if err != nil {
		return nil, err
	}

	seed := config.Emulation.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	opts := []cpu.Option{
		cpu.WithQuirks(quirks),
		cpu.WithTracing(config.Debug.CPUTracing),
	}
	if logger != nil {
		opts = append(opts, cpu.WithLogger(logger))
	}

	e := &Emulator{
		bus:                  bus.New(),
		cpu:                  cpu.New(cpu.NewRandSource(seed), opts...),
		logger:               logger,
		instructionsPerFrame: config.Emulation.InstructionsPerFrame,
	}
	if e.instructionsPerFrame <= 0 {
		e.instructionsPerFrame = defaultInstructionsPerFrame
	}
	if logger != nil && config.Debug.InputDebugging {
		e.bus.Keypad.EnableDebug(logger)
	}
	return e, nil
}

// LoadROM starts a new session with data loaded at the program start.
// A ROM that does not fit halts the CPU and is returned as error.
func (e *Emulator) LoadROM(data []byte) error {
	e.rom = bytes.Clone(data)
	return e.Reset()
}

// Reset clears all state and reloads the current ROM.
func (e *Emulator) Reset() error {
	e.bus.Reset()
	e.cpu.Reset()
	e.frameCount = 0

	if e.rom == nil {
		return nil
	}
	if err := e.bus.LoadROM(e.rom); err != nil {
		e.cpu.Halt(err)
		return err
	}
	if e.logger != nil {
		e.logger.Debug("Emulator reset", log.Int("rom_size", len(e.rom)))
	}
	return nil
}

// RunFrame executes up to the configured number of instructions, then
// ticks the timers once. Execution stops early when the CPU halts or waits
// for a key. It returns whether the screen must be redrawn.
func (e *Emulator) RunFrame() (bool, error) {
	if e.cpu.State() == cpu.Halted {
		return false, e.cpu.HaltReason()
	}

	var redraw bool
	for range e.instructionsPerFrame {
		changed, err := e.cpu.Step(e.bus)
		if err != nil {
			return redraw, fmt.Errorf("frame %d: %w", e.frameCount, err)
		}
		redraw = redraw || changed
		if e.cpu.Waiting() {
			break
		}
	}

	e.cpu.TickTimers()
	e.frameCount++
	return redraw, nil
}

// SetKey updates a keypad key.
func (e *Emulator) SetKey(key uint8, pressed bool) error {
	return e.bus.SetKey(key, pressed)
}

// Frame returns a copy of the screen.
func (e *Emulator) Frame() display.Frame {
	return e.bus.Frame()
}

// Halted returns whether the CPU stopped on an error.
func (e *Emulator) Halted() bool {
	return e.cpu.State() == cpu.Halted
}

// HaltReason returns the error that halted the CPU, or nil.
func (e *Emulator) HaltReason() error {
	return e.cpu.HaltReason()
}

// Idle returns whether the program is spinning on a jump to itself.
func (e *Emulator) Idle() bool {
	return e.cpu.Idle()
}

// SoundActive returns whether the beeper should sound.
func (e *Emulator) SoundActive() bool {
	return e.cpu.SoundActive()
}

// HasROM returns whether a ROM was loaded.
func (e *Emulator) HasROM() bool {
	return e.rom != nil
}

// GetFrameCount returns the number of frames run since the last reset.
func (e *Emulator) GetFrameCount() uint64 {
	return e.frameCount
}

// GetCPU returns the CPU for inspection.
func (e *Emulator) GetCPU() *cpu.CPU {
	return e.cpu
}

// GetBus returns the bus for inspection.
func (e *Emulator) GetBus() *bus.Bus {
	return e.bus
}

// Snapshot is a copy of the complete machine state.
type Snapshot struct {
	Registers  cpu.Registers
	Bus        bus.State
	FrameCount uint64
}

// Snapshot captures the machine state.
func (e *Emulator) Snapshot() Snapshot {
	return Snapshot{
		Registers:  e.cpu.Snapshot(),
		Bus:        e.bus.Snapshot(),
		FrameCount: e.frameCount,
	}
}

// Restore replaces the machine state with a snapshot. A halted CPU resumes.
func (e *Emulator) Restore(s Snapshot) {
	e.cpu.Reset()
	e.cpu.Restore(s.Registers)
	e.bus.Restore(s.Bus)
	e.frameCount = s.FrameCount
}
