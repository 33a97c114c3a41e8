// Package cpu implements the CHIP-8 interpreter core.
package cpu

import (
	"errors"
	"fmt"

	"nibble8/internal/instruction"
	"nibble8/internal/memory"

	"github.com/retroenv/retrogolib/log"
)

// CPU constants
const (
	// StackDepth is the number of return addresses the call stack holds.
	StackDepth = 16
	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16
	// flagRegister is VF.
	flagRegister = 0xF
	// opcodeSize is the size of an instruction in bytes.
	opcodeSize = 2
)

// RunState is the macro state of the CPU.
type RunState uint8

const (
	// Running executes instructions.
	Running RunState = iota
	// Halted rejects all instructions until Reset.
	Halted
)

func (s RunState) String() string {
	if s == Halted {
		return "halted"
	}
	return "running"
}

// Bus is the peripheral interface the CPU executes against.
type Bus interface {
	Read(address uint16) (uint8, error)
	Write(address uint16, value uint8) error
	Pixel(x, y int) (bool, error)
	SetPixel(x, y int, on bool) error
	ClearScreen()
	Key(key uint8) (bool, error)
	PressedKey() (uint8, bool)
}

// CPU represents the CHIP-8 processor state.
type CPU struct {
	// Registers
	V  [RegisterCount]uint8
	I  uint16
	PC uint16

	// Call stack
	Stack [StackDepth]uint16
	SP    uint8

	// Timers, decremented at 60 Hz
	DT uint8
	ST uint8

	quirks Quirks
	rng    RandomSource

	state   RunState
	haltErr *HaltError

	// Address and opcode of the instruction being executed
	lastPC     uint16
	lastOpcode uint16

	waiting bool
	idle    bool
	cycles  uint64

	// Debug logging
	logger  *log.Logger
	tracing bool
}

// Option configures a CPU.
type Option func(*CPU)

// WithQuirks selects the interpreter behavior switches.
func WithQuirks(q Quirks) Option {
	return func(c *CPU) {
		c.quirks = q
	}
}

// WithLogger sets the logger used for halt and trace messages.
func WithLogger(logger *log.Logger) Option {
	return func(c *CPU) {
		c.logger = logger
	}
}

// WithTracing enables logging of every executed instruction at debug level.
func WithTracing(enabled bool) Option {
	return func(c *CPU) {
		c.tracing = enabled
	}
}

// New creates a new CPU in the reset state. rng feeds the RND instruction.
func New(rng RandomSource, opts ...Option) *CPU {
	c := &CPU{
		quirks: DefaultQuirks(),
		rng:    rng,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Reset clears registers, stack and timers, sets PC to the program start
// and leaves the Halted state.
func (c *CPU) Reset() {
	c.V = [RegisterCount]uint8{}
	c.I = 0
	c.PC = memory.ProgramStart
	c.Stack = [StackDepth]uint16{}
	c.SP = 0
	c.DT = 0
	c.ST = 0

	c.state = Running
	c.haltErr = nil
	c.lastPC = 0
	c.lastOpcode = 0
	c.waiting = false
	c.idle = false
	c.cycles = 0
}

// Quirks returns the active behavior switches.
func (c *CPU) Quirks() Quirks {
	return c.quirks
}

// State returns whether the CPU is running or halted.
func (c *CPU) State() RunState {
	return c.state
}

// HaltReason returns the error that halted the CPU, or nil while running.
func (c *CPU) HaltReason() error {
	if c.haltErr == nil {
		return nil
	}
	return c.haltErr
}

// Waiting returns true while an FX0A key wait has not seen a key press.
func (c *CPU) Waiting() bool {
	return c.waiting
}

// Idle returns true when the last instruction was a jump to itself, the
// usual way CHIP-8 programs end.
func (c *CPU) Idle() bool {
	return c.idle
}

// SoundActive returns true while the sound timer is non-zero.
func (c *CPU) SoundActive() bool {
	return c.ST > 0
}

// Cycles returns the number of instructions executed since reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Halt stops the CPU with err as the reason. Halting an already halted CPU
// keeps the first reason.
func (c *CPU) Halt(err error) {
	if c.state == Halted {
		return
	}

	var haltErr *HaltError
	if !errors.As(err, &haltErr) {
		haltErr = &HaltError{
			PC:     c.lastPC,
			Opcode: c.lastOpcode,
			Err:    err,
		}
	}

	c.state = Halted
	c.haltErr = haltErr
	c.waiting = false

	if c.logger != nil {
		c.logger.Error("CPU halted",
			log.Hex("pc", haltErr.PC),
			log.Hex("opcode", haltErr.Opcode),
			log.Err(haltErr.Err))
	}
}

// Fetch reads the big-endian opcode at PC and advances PC by 2.
func (c *CPU) Fetch(bus Bus) (uint16, error) {
	if c.state == Halted {
		return 0, c.haltErr
	}

	c.lastPC = c.PC
	c.lastOpcode = 0

	hi, err := bus.Read(c.PC)
	if err != nil {
		return 0, c.fail(fmt.Errorf("fetching opcode: %w", err))
	}
	// PC is at most memory.Size-1 here, so PC+1 cannot wrap.
	lo, err := bus.Read(c.PC + 1)
	if err != nil {
		return 0, c.fail(fmt.Errorf("fetching opcode: %w", err))
	}

	c.PC += opcodeSize
	return uint16(hi)<<8 | uint16(lo), nil
}

// Execute decodes and executes opcode. It returns true when the screen
// changed and must be redrawn.
func (c *CPU) Execute(opcode uint16, bus Bus) (bool, error) {
	if c.state == Halted {
		return false, c.haltErr
	}

	c.lastPC = c.PC - opcodeSize
	c.lastOpcode = opcode
	c.waiting = false

	in, err := instruction.Decode(opcode)
	if err != nil {
		return false, c.fail(err)
	}

	if c.tracing && c.logger != nil {
		c.logger.Debug("Executing",
			log.Hex("pc", c.lastPC),
			log.Hex("opcode", opcode),
			log.Stringer("instruction", in))
	}

	next := c.PC
	redraw, err := handlers[in.Op](c, in, bus)
	if err != nil {
		return false, c.fail(err)
	}
	if c.tracing && c.logger != nil {
		c.traceFlow(in, next)
	}
	if in.Op != instruction.OpJP {
		c.idle = false
	}

	c.cycles++
	return redraw, nil
}

// traceFlow logs where control went after a branch or a taken skip.
// next is the PC the instruction would have fallen through to.
func (c *CPU) traceFlow(in instruction.Instruction, next uint16) {
	switch {
	case in.IsControlFlow():
		c.logger.Debug("Branch", log.Hex("from", c.lastPC), log.Hex("to", c.PC))
	case in.IsSkip() && c.PC != next:
		c.logger.Debug("Skipped", log.Hex("pc", next))
	}
}

// Step fetches and executes one instruction.
func (c *CPU) Step(bus Bus) (bool, error) {
	opcode, err := c.Fetch(bus)
	if err != nil {
		return false, err
	}
	return c.Execute(opcode, bus)
}

// TickTimers decrements both timers toward zero. Call once per 60 Hz frame.
func (c *CPU) TickTimers() {
	if c.DT > 0 {
		c.DT--
	}
	if c.ST > 0 {
		c.ST--
	}
}

// fail halts the CPU and returns the resulting halt error.
func (c *CPU) fail(err error) error {
	c.Halt(err)
	return c.haltErr
}

// Stack operations

func (c *CPU) push(address uint16) error {
	if int(c.SP) >= StackDepth {
		return ErrStackOverflow
	}
	c.Stack[c.SP] = address
	c.SP++
	return nil
}

func (c *CPU) pop() (uint16, error) {
	if c.SP == 0 {
		return 0, ErrStackUnderflow
	}
	c.SP--
	return c.Stack[c.SP], nil
}

// checkRange verifies that n bytes starting at I are addressable.
func (c *CPU) checkRange(op string, n int) error {
	last := int(c.I) + n - 1
	if n > 0 && last >= memory.Size {
		return &memory.AccessError{Op: op, Address: max(int(c.I), memory.Size)}
	}
	return nil
}

// Registers is a copy of the complete CPU register state.
type Registers struct {
	V     [RegisterCount]uint8
	I     uint16
	PC    uint16
	Stack [StackDepth]uint16
	SP    uint8
	DT    uint8
	ST    uint8
}

// Snapshot captures the register state.
func (c *CPU) Snapshot() Registers {
	return Registers{
		V:     c.V,
		I:     c.I,
		PC:    c.PC,
		Stack: c.Stack,
		SP:    c.SP,
		DT:    c.DT,
		ST:    c.ST,
	}
}

// Restore replaces the register state with a snapshot. The run state is
// not changed.
func (c *CPU) Restore(r Registers) {
	c.V = r.V
	c.I = r.I
	c.PC = r.PC
	c.Stack = r.Stack
	c.SP = r.SP
	c.DT = r.DT
	c.ST = r.ST
	c.waiting = false
	c.idle = false
}
