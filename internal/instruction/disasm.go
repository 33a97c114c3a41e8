package instruction

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// mnemonics maps every variant to the shared CHIP-8 mnemonic definition.
var mnemonics = [OpCount]*chip8.Instruction{
	OpCLS:     chip8.ClsInst,
	OpRET:     chip8.RetInst,
	OpJP:      chip8.JpInst,
	OpCALL:    chip8.CallInst,
	OpSEVxKK:  chip8.SeInst,
	OpSNEVxKK: chip8.SneInst,
	OpSEVxVy:  chip8.SeInst,
	OpLDVxKK:  chip8.LdInst,
	OpADDVxKK: chip8.AddInst,
	OpLDVxVy:  chip8.LdInst,
	OpOR:      chip8.OrInst,
	OpAND:     chip8.AndInst,
	OpXOR:     chip8.XorInst,
	OpADDVxVy: chip8.AddInst,
	OpSUB:     chip8.SubInst,
	OpSHR:     chip8.ShrInst,
	OpSUBN:    chip8.SubnInst,
	OpSHL:     chip8.ShlInst,
	OpSNEVxVy: chip8.SneInst,
	OpLDI:     chip8.LdInst,
	OpJPV0:    chip8.JpInst,
	OpRND:     chip8.RndInst,
	OpDRW:     chip8.DrwInst,
	OpSKP:     chip8.SkpInst,
	OpSKNP:    chip8.SknpInst,
	OpLDVxDT:  chip8.LdInst,
	OpLDVxKey: chip8.LdInst,
	OpLDDTVx:  chip8.LdInst,
	OpLDSTVx:  chip8.LdInst,
	OpADDIVx:  chip8.AddInst,
	OpLDFVx:   chip8.LdInst,
	OpLDBVx:   chip8.LdInst,
	OpLDIVx:   chip8.LdInst,
	OpLDVxI:   chip8.LdInst,
}

// Mnemonic returns the assembler mnemonic, e.g. "ld".
func (i Instruction) Mnemonic() string {
	if i.Op >= OpCount || mnemonics[i.Op] == nil {
		return "unknown"
	}
	return mnemonics[i.Op].Name
}

// String renders the instruction as assembler text, e.g. "ld V2, $34".
func (i Instruction) String() string {
	params := i.operands()
	if params == "" {
		return i.Mnemonic()
	}
	return i.Mnemonic() + " " + params
}

func (i Instruction) operands() string {
	switch i.Op {
	case OpJP, OpCALL:
		return fmt.Sprintf("$%03X", i.Addr)
	case OpJPV0:
		return fmt.Sprintf("V0, $%03X", i.Addr)
	case OpLDI:
		return fmt.Sprintf("I, $%03X", i.Addr)
	case OpSEVxKK, OpSNEVxKK, OpLDVxKK, OpADDVxKK, OpRND:
		return fmt.Sprintf("V%X, $%02X", i.X, i.KK)
	case OpSEVxVy, OpSNEVxVy, OpLDVxVy, OpOR, OpAND, OpXOR,
		OpADDVxVy, OpSUB, OpSHR, OpSUBN, OpSHL:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	case OpDRW:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.N)
	case OpSKP, OpSKNP:
		return fmt.Sprintf("V%X", i.X)
	case OpLDVxDT:
		return fmt.Sprintf("V%X, DT", i.X)
	case OpLDVxKey:
		return fmt.Sprintf("V%X, K", i.X)
	case OpLDDTVx:
		return fmt.Sprintf("DT, V%X", i.X)
	case OpLDSTVx:
		return fmt.Sprintf("ST, V%X", i.X)
	case OpADDIVx:
		return fmt.Sprintf("I, V%X", i.X)
	case OpLDFVx:
		return fmt.Sprintf("F, V%X", i.X)
	case OpLDBVx:
		return fmt.Sprintf("B, V%X", i.X)
	case OpLDIVx:
		return fmt.Sprintf("[I], V%X", i.X)
	case OpLDVxI:
		return fmt.Sprintf("V%X, [I]", i.X)
	case OpUnknown:
		return fmt.Sprintf("$%04X", i.Opcode)
	}
	return ""
}
