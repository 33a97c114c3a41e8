package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrHalted is wrapped by every error returned from a halted CPU.
	ErrHalted = errors.New("cpu halted")
	// ErrStackOverflow is returned by CALL with a full stack.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned by RET with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// HaltError reports the fatal condition that halted the CPU together with
// the location of the failing instruction.
type HaltError struct {
	PC     uint16 // address of the failing instruction
	Opcode uint16
	Err    error
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("cpu halted at $%04X (opcode $%04X): %v", e.PC, e.Opcode, e.Err)
}

// Unwrap allows errors.Is to match both ErrHalted and the halt reason.
func (e *HaltError) Unwrap() []error {
	return []error{ErrHalted, e.Err}
}
