package cpu

import (
	"nibble8/internal/display"
	"nibble8/internal/instruction"
	"nibble8/internal/memory"

	"github.com/retroenv/retrogolib/log"
)

// handler executes one decoded instruction and reports whether the screen
// must be redrawn.
type handler func(c *CPU, in instruction.Instruction, bus Bus) (bool, error)

// handlers maps every instruction variant to its implementation.
var handlers = [instruction.OpCount]handler{
	instruction.OpUnknown: (*CPU).unknown,
	instruction.OpCLS:     (*CPU).cls,
	instruction.OpRET:     (*CPU).ret,
	instruction.OpJP:      (*CPU).jp,
	instruction.OpCALL:    (*CPU).call,
	instruction.OpSEVxKK:  (*CPU).seVxKK,
	instruction.OpSNEVxKK: (*CPU).sneVxKK,
	instruction.OpSEVxVy:  (*CPU).seVxVy,
	instruction.OpLDVxKK:  (*CPU).ldVxKK,
	instruction.OpADDVxKK: (*CPU).addVxKK,
	instruction.OpLDVxVy:  (*CPU).ldVxVy,
	instruction.OpOR:      (*CPU).or,
	instruction.OpAND:     (*CPU).and,
	instruction.OpXOR:     (*CPU).xor,
	instruction.OpADDVxVy: (*CPU).addVxVy,
	instruction.OpSUB:     (*CPU).sub,
	instruction.OpSHR:     (*CPU).shr,
	instruction.OpSUBN:    (*CPU).subn,
	instruction.OpSHL:     (*CPU).shl,
	instruction.OpSNEVxVy: (*CPU).sneVxVy,
	instruction.OpLDI:     (*CPU).ldI,
	instruction.OpJPV0:    (*CPU).jpV0,
	instruction.OpRND:     (*CPU).rnd,
	instruction.OpDRW:     (*CPU).drw,
	instruction.OpSKP:     (*CPU).skp,
	instruction.OpSKNP:    (*CPU).sknp,
	instruction.OpLDVxDT:  (*CPU).ldVxDT,
	instruction.OpLDVxKey: (*CPU).ldVxKey,
	instruction.OpLDDTVx:  (*CPU).ldDTVx,
	instruction.OpLDSTVx:  (*CPU).ldSTVx,
	instruction.OpADDIVx:  (*CPU).addIVx,
	instruction.OpLDFVx:   (*CPU).ldFVx,
	instruction.OpLDBVx:   (*CPU).ldBVx,
	instruction.OpLDIVx:   (*CPU).ldIVx,
	instruction.OpLDVxI:   (*CPU).ldVxI,
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.PC += opcodeSize
	}
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (c *CPU) unknown(in instruction.Instruction, _ Bus) (bool, error) {
	return false, &instruction.DecodeError{Opcode: in.Opcode}
}

// Flow control

func (c *CPU) cls(_ instruction.Instruction, bus Bus) (bool, error) {
	bus.ClearScreen()
	return true, nil
}

func (c *CPU) ret(_ instruction.Instruction, _ Bus) (bool, error) {
	address, err := c.pop()
	if err != nil {
		return false, err
	}
	c.PC = address
	return false, nil
}

func (c *CPU) jp(in instruction.Instruction, _ Bus) (bool, error) {
	if in.Addr == c.lastPC && !c.idle && c.logger != nil {
		c.logger.Debug("Program entered idle loop", log.Hex("pc", c.lastPC))
	}
	c.idle = in.Addr == c.lastPC
	c.PC = in.Addr
	return false, nil
}

func (c *CPU) call(in instruction.Instruction, _ Bus) (bool, error) {
	if err := c.push(c.PC); err != nil {
		return false, err
	}
	c.PC = in.Addr
	return false, nil
}

func (c *CPU) jpV0(in instruction.Instruction, _ Bus) (bool, error) {
	c.PC = in.Addr + uint16(c.V[0])
	return false, nil
}

// Skips

func (c *CPU) seVxKK(in instruction.Instruction, _ Bus) (bool, error) {
	c.skipIf(c.V[in.X] == in.KK)
	return false, nil
}

func (c *CPU) sneVxKK(in instruction.Instruction, _ Bus) (bool, error) {
	c.skipIf(c.V[in.X] != in.KK)
	return false, nil
}

func (c *CPU) seVxVy(in instruction.Instruction, _ Bus) (bool, error) {
	c.skipIf(c.V[in.X] == c.V[in.Y])
	return false, nil
}

func (c *CPU) sneVxVy(in instruction.Instruction, _ Bus) (bool, error) {
	c.skipIf(c.V[in.X] != c.V[in.Y])
	return false, nil
}

func (c *CPU) skp(in instruction.Instruction, bus Bus) (bool, error) {
	pressed, err := bus.Key(c.V[in.X] & 0x0F)
	if err != nil {
		return false, err
	}
	c.skipIf(pressed)
	return false, nil
}

func (c *CPU) sknp(in instruction.Instruction, bus Bus) (bool, error) {
	pressed, err := bus.Key(c.V[in.X] & 0x0F)
	if err != nil {
		return false, err
	}
	c.skipIf(!pressed)
	return false, nil
}

// Register loads and ALU

func (c *CPU) ldVxKK(in instruction.Instruction, _ Bus) (bool, error) {
	c.V[in.X] = in.KK
	return false, nil
}

func (c *CPU) addVxKK(in instruction.Instruction, _ Bus) (bool, error) {
	c.V[in.X] += in.KK
	return false, nil
}

func (c *CPU) ldVxVy(in instruction.Instruction, _ Bus) (bool, error) {
	c.V[in.X] = c.V[in.Y]
	return false, nil
}

func (c *CPU) or(in instruction.Instruction, _ Bus) (bool, error) {
	c.V[in.X] |= c.V[in.Y]
	return false, nil
}

func (c *CPU) and(in instruction.Instruction, _ Bus) (bool, error) {
	c.V[in.X] &= c.V[in.Y]
	return false, nil
}

func (c *CPU) xor(in instruction.Instruction, _ Bus) (bool, error) {
	c.V[in.X] ^= c.V[in.Y]
	return false, nil
}

func (c *CPU) addVxVy(in instruction.Instruction, _ Bus) (bool, error) {
	sum := uint16(c.V[in.X]) + uint16(c.V[in.Y])
	c.V[in.X] = uint8(sum)
	c.V[flagRegister] = boolToFlag(sum > 0xFF)
	return false, nil
}

func (c *CPU) sub(in instruction.Instruction, _ Bus) (bool, error) {
	vx, vy := c.V[in.X], c.V[in.Y]
	c.V[in.X] = vx - vy
	c.V[flagRegister] = boolToFlag(vx >= vy)
	return false, nil
}

func (c *CPU) subn(in instruction.Instruction, _ Bus) (bool, error) {
	vx, vy := c.V[in.X], c.V[in.Y]
	c.V[in.X] = vy - vx
	c.V[flagRegister] = boolToFlag(vy >= vx)
	return false, nil
}

func (c *CPU) shiftOperand(in instruction.Instruction) uint8 {
	if c.quirks.Shift == ShiftVY {
		return c.V[in.Y]
	}
	return c.V[in.X]
}

func (c *CPU) shr(in instruction.Instruction, _ Bus) (bool, error) {
	value := c.shiftOperand(in)
	c.V[in.X] = value >> 1
	c.V[flagRegister] = value & 0x01
	return false, nil
}

func (c *CPU) shl(in instruction.Instruction, _ Bus) (bool, error) {
	value := c.shiftOperand(in)
	c.V[in.X] = value << 1
	c.V[flagRegister] = value >> 7
	return false, nil
}

func (c *CPU) rnd(in instruction.Instruction, _ Bus) (bool, error) {
	c.V[in.X] = c.rng.Byte() & in.KK
	return false, nil
}

// Index register

func (c *CPU) ldI(in instruction.Instruction, _ Bus) (bool, error) {
	c.I = in.Addr
	return false, nil
}

func (c *CPU) addIVx(in instruction.Instruction, _ Bus) (bool, error) {
	c.I += uint16(c.V[in.X])
	return false, nil
}

func (c *CPU) ldFVx(in instruction.Instruction, _ Bus) (bool, error) {
	c.I = memory.GlyphAddress(c.V[in.X])
	return false, nil
}

// Display

// drw XORs an N byte sprite from memory at I onto the screen at (VX, VY).
// The sprite is read completely before the screen is touched.
func (c *CPU) drw(in instruction.Instruction, bus Bus) (bool, error) {
	rows := int(in.N)
	if err := c.checkRange("read", rows); err != nil {
		return false, err
	}

	sprite := make([]uint8, rows)
	for row := range sprite {
		value, err := bus.Read(c.I + uint16(row))
		if err != nil {
			return false, err
		}
		sprite[row] = value
	}

	x0 := int(c.V[in.X]) % display.Width
	y0 := int(c.V[in.Y]) % display.Height
	clip := c.quirks.Sprites == SpriteClip
	collision := false

	for row, bits := range sprite {
		y := y0 + row
		if y >= display.Height {
			if clip {
				break
			}
			y %= display.Height
		}

		for col := range 8 {
			if bits&(0x80>>col) == 0 {
				continue
			}

			x := x0 + col
			if x >= display.Width {
				if clip {
					break
				}
				x %= display.Width
			}

			lit, err := bus.Pixel(x, y)
			if err != nil {
				return false, err
			}
			if lit {
				collision = true
			}
			if err := bus.SetPixel(x, y, !lit); err != nil {
				return false, err
			}
		}
	}

	c.V[flagRegister] = boolToFlag(collision)
	return true, nil
}

// Timers and keypad

func (c *CPU) ldVxDT(in instruction.Instruction, _ Bus) (bool, error) {
	c.V[in.X] = c.DT
	return false, nil
}

func (c *CPU) ldDTVx(in instruction.Instruction, _ Bus) (bool, error) {
	c.DT = c.V[in.X]
	return false, nil
}

func (c *CPU) ldSTVx(in instruction.Instruction, _ Bus) (bool, error) {
	c.ST = c.V[in.X]
	return false, nil
}

// ldVxKey polls the keypad. Without a pressed key PC is rewound so the
// same instruction runs again on the next step.
func (c *CPU) ldVxKey(in instruction.Instruction, bus Bus) (bool, error) {
	key, ok := bus.PressedKey()
	if !ok {
		c.PC -= opcodeSize
		c.waiting = true
		return false, nil
	}
	c.V[in.X] = key
	return false, nil
}

// Memory transfers

func (c *CPU) ldBVx(in instruction.Instruction, bus Bus) (bool, error) {
	if err := c.checkRange("write", 3); err != nil {
		return false, err
	}

	value := c.V[in.X]
	digits := [3]uint8{value / 100, value / 10 % 10, value % 10}
	for i, digit := range digits {
		if err := bus.Write(c.I+uint16(i), digit); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (c *CPU) ldIVx(in instruction.Instruction, bus Bus) (bool, error) {
	count := int(in.X) + 1
	if err := c.checkRange("write", count); err != nil {
		return false, err
	}

	for i := range count {
		if err := bus.Write(c.I+uint16(i), c.V[i]); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (c *CPU) ldVxI(in instruction.Instruction, bus Bus) (bool, error) {
	count := int(in.X) + 1
	if err := c.checkRange("read", count); err != nil {
		return false, err
	}

	var values [RegisterCount]uint8
	for i := range count {
		value, err := bus.Read(c.I + uint16(i))
		if err != nil {
			return false, err
		}
		values[i] = value
	}
	copy(c.V[:count], values[:count])
	return false, nil
}
