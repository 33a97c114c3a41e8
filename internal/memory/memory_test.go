package memory

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNewLoadsFont(t *testing.T) {
	m := New()

	for digit := uint8(0); digit < 16; digit++ {
		addr := GlyphAddress(digit)
		for row := uint16(0); row < GlyphSize; row++ {
			value, err := m.Read(addr + row)
			assert.NoError(t, err)
			assert.Equal(t, fontSet[uint16(digit)*GlyphSize+row], value)
		}
	}

	value, err := m.Read(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), value)
}

func TestGlyphAddress(t *testing.T) {
	assert.Equal(t, uint16(FontStart), GlyphAddress(0x0))
	assert.Equal(t, uint16(FontStart+5*0xA), GlyphAddress(0xA))
	// only the low nibble selects the glyph
	assert.Equal(t, GlyphAddress(0x3), GlyphAddress(0xF3))
}

func TestLoadROM(t *testing.T) {
	m := New()

	rom := []byte{0x12, 0x34, 0xAB}
	assert.NoError(t, m.LoadROM(rom))
	assert.Equal(t, len(rom), m.ROMSize())

	for i, want := range rom {
		got, err := m.Read(ProgramStart + uint16(i))
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestLoadROMFillsAvailableSpace(t *testing.T) {
	m := New()

	rom := bytes.Repeat([]byte{0xEE}, MaxROMSize)
	assert.NoError(t, m.LoadROM(rom))

	last, err := m.Read(Size - 1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xEE), last)
}

func TestLoadROMTooLarge(t *testing.T) {
	m := New()

	rom := bytes.Repeat([]byte{0xEE}, MaxROMSize+1)
	err := m.LoadROM(rom)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrROMTooLarge))

	// nothing was copied
	value, err := m.Read(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), value)
	assert.Equal(t, 0, m.ROMSize())
}

func TestReadWriteBounds(t *testing.T) {
	m := New()

	assert.NoError(t, m.Write(0x0FFF, 0x42))
	value, err := m.Read(0x0FFF)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x42), value)

	_, err = m.Read(Size)
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	err = m.Write(0xFFFF, 1)
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	var accessErr *AccessError
	assert.True(t, errors.As(err, &accessErr))
	assert.Equal(t, "write", accessErr.Op)
	assert.Equal(t, 0xFFFF, accessErr.Address)
}

func TestResetClearsROMAndRestoresFont(t *testing.T) {
	m := New()
	assert.NoError(t, m.LoadROM([]byte{0x00, 0xE0}))
	assert.NoError(t, m.Write(FontStart, 0x00))

	m.Reset()

	value, err := m.Read(ProgramStart + 1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), value)

	glyph, err := m.Read(FontStart)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xF0), glyph)
}

func TestSnapshotRestore(t *testing.T) {
	m := New()
	assert.NoError(t, m.Write(0x300, 0x99))
	snap := m.Snapshot()

	assert.NoError(t, m.Write(0x300, 0x11))
	m.Restore(snap)

	value, err := m.Read(0x300)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x99), value)
}
