package instruction

import (
	"errors"
	"fmt"
)

// ErrInvalidOpcode is returned for words that match no instruction family.
var ErrInvalidOpcode = errors.New("invalid opcode")

// DecodeError carries the word that failed to decode.
type DecodeError struct {
	Opcode uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v 0x%04X", ErrInvalidOpcode, e.Opcode)
}

// Unwrap allows errors.Is(err, ErrInvalidOpcode).
func (e *DecodeError) Unwrap() error {
	return ErrInvalidOpcode
}

// Field extraction helpers.
func nnn(w uint16) uint16 { return w & 0x0FFF }
func kk(w uint16) uint8   { return uint8(w & 0x00FF) }
func nx(w uint16) uint8   { return uint8((w & 0x0F00) >> 8) }
func ny(w uint16) uint8   { return uint8((w & 0x00F0) >> 4) }
func n(w uint16) uint8    { return uint8(w & 0x000F) }

// Decode maps a 16-bit opcode to its instruction. It never guesses: any
// word outside the standard CHIP-8 families returns a *DecodeError.
func Decode(w uint16) (Instruction, error) {
	ins := Instruction{Opcode: w}

	switch w >> 12 {
	case 0x0:
		switch w {
		case 0x00E0:
			ins.Op = OpCLS
		case 0x00EE:
			ins.Op = OpRET
		}

	case 0x1:
		ins.Op, ins.Addr = OpJP, nnn(w)
	case 0x2:
		ins.Op, ins.Addr = OpCALL, nnn(w)
	case 0x3:
		ins.Op, ins.X, ins.KK = OpSEVxKK, nx(w), kk(w)
	case 0x4:
		ins.Op, ins.X, ins.KK = OpSNEVxKK, nx(w), kk(w)

	case 0x5:
		if n(w) == 0 {
			ins.Op, ins.X, ins.Y = OpSEVxVy, nx(w), ny(w)
		}

	case 0x6:
		ins.Op, ins.X, ins.KK = OpLDVxKK, nx(w), kk(w)
	case 0x7:
		ins.Op, ins.X, ins.KK = OpADDVxKK, nx(w), kk(w)

	case 0x8:
		ins.Op = aluOp(n(w))
		if ins.Op != OpUnknown {
			ins.X, ins.Y = nx(w), ny(w)
		}

	case 0x9:
		if n(w) == 0 {
			ins.Op, ins.X, ins.Y = OpSNEVxVy, nx(w), ny(w)
		}

	case 0xA:
		ins.Op, ins.Addr = OpLDI, nnn(w)
	case 0xB:
		ins.Op, ins.Addr = OpJPV0, nnn(w)
	case 0xC:
		ins.Op, ins.X, ins.KK = OpRND, nx(w), kk(w)
	case 0xD:
		ins.Op, ins.X, ins.Y, ins.N = OpDRW, nx(w), ny(w), n(w)

	case 0xE:
		switch kk(w) {
		case 0x9E:
			ins.Op, ins.X = OpSKP, nx(w)
		case 0xA1:
			ins.Op, ins.X = OpSKNP, nx(w)
		}

	case 0xF:
		ins.Op = miscOp(kk(w))
		if ins.Op != OpUnknown {
			ins.X = nx(w)
		}
	}

	if ins.Op == OpUnknown {
		return Instruction{Opcode: w}, &DecodeError{Opcode: w}
	}
	return ins, nil
}

// aluOp selects the 8XYN variant by its low nibble.
func aluOp(low uint8) Op {
	switch low {
	case 0x0:
		return OpLDVxVy
	case 0x1:
		return OpOR
	case 0x2:
		return OpAND
	case 0x3:
		return OpXOR
	case 0x4:
		return OpADDVxVy
	case 0x5:
		return OpSUB
	case 0x6:
		return OpSHR
	case 0x7:
		return OpSUBN
	case 0xE:
		return OpSHL
	}
	return OpUnknown
}

// miscOp selects the FXKK variant by its low byte.
func miscOp(low uint8) Op {
	switch low {
	case 0x07:
		return OpLDVxDT
	case 0x0A:
		return OpLDVxKey
	case 0x15:
		return OpLDDTVx
	case 0x18:
		return OpLDSTVx
	case 0x1E:
		return OpADDIVx
	case 0x29:
		return OpLDFVx
	case 0x33:
		return OpLDBVx
	case 0x55:
		return OpLDIVx
	case 0x65:
		return OpLDVxI
	}
	return OpUnknown
}
