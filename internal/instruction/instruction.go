// Package instruction defines the CHIP-8 instruction set and its decoder.
package instruction

// Op identifies one instruction variant. The set is closed: OpCount is
// the number of variants and sizes every per-op table in the interpreter.
type Op uint8

const (
	OpUnknown Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1NNN
	OpCALL       // 2NNN
	OpSEVxKK     // 3XKK
	OpSNEVxKK    // 4XKK
	OpSEVxVy     // 5XY0
	OpLDVxKK     // 6XKK
	OpADDVxKK    // 7XKK
	OpLDVxVy     // 8XY0
	OpOR         // 8XY1
	OpAND        // 8XY2
	OpXOR        // 8XY3
	OpADDVxVy    // 8XY4
	OpSUB        // 8XY5
	OpSHR        // 8XY6
	OpSUBN       // 8XY7
	OpSHL        // 8XYE
	OpSNEVxVy    // 9XY0
	OpLDI        // ANNN
	OpJPV0       // BNNN
	OpRND        // CXKK
	OpDRW        // DXYN
	OpSKP        // EX9E
	OpSKNP       // EXA1
	OpLDVxDT     // FX07
	OpLDVxKey    // FX0A
	OpLDDTVx     // FX15
	OpLDSTVx     // FX18
	OpADDIVx     // FX1E
	OpLDFVx      // FX29
	OpLDBVx      // FX33
	OpLDIVx      // FX55
	OpLDVxI      // FX65

	OpCount
)

var opNames = [OpCount]string{
	OpUnknown: "UNKNOWN",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEVxKK:  "SE_VX_KK",
	OpSNEVxKK: "SNE_VX_KK",
	OpSEVxVy:  "SE_VX_VY",
	OpLDVxKK:  "LD_VX_KK",
	OpADDVxKK: "ADD_VX_KK",
	OpLDVxVy:  "LD_VX_VY",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDVxVy: "ADD_VX_VY",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEVxVy: "SNE_VX_VY",
	OpLDI:     "LD_I",
	OpJPV0:    "JP_V0",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD_VX_DT",
	OpLDVxKey: "LD_VX_KEY",
	OpLDDTVx:  "LD_DT_VX",
	OpLDSTVx:  "LD_ST_VX",
	OpADDIVx:  "ADD_I_VX",
	OpLDFVx:   "LD_F_VX",
	OpLDBVx:   "LD_B_VX",
	OpLDIVx:   "LD_I_VX",
	OpLDVxI:   "LD_VX_I",
}

// String returns the variant name, e.g. "LD_VX_KK".
func (o Op) String() string {
	if o >= OpCount {
		return opNames[OpUnknown]
	}
	return opNames[o]
}

// Instruction is a decoded opcode. Only the operand fields used by Op are
// meaningful; the others are zero.
type Instruction struct {
	Op     Op
	Opcode uint16 // raw word the instruction was decoded from

	Addr uint16 // NNN, 12-bit address
	KK   uint8  // 8-bit immediate
	X    uint8  // register index from bits 8-11
	Y    uint8  // register index from bits 4-7
	N    uint8  // 4-bit count
}

// IsSkip reports whether the instruction conditionally skips the next one.
func (i Instruction) IsSkip() bool {
	switch i.Op {
	case OpSEVxKK, OpSNEVxKK, OpSEVxVy, OpSNEVxVy, OpSKP, OpSKNP:
		return true
	}
	return false
}

// IsControlFlow reports whether the instruction writes PC directly.
func (i Instruction) IsControlFlow() bool {
	switch i.Op {
	case OpJP, OpJPV0, OpCALL, OpRET:
		return true
	}
	return false
}
