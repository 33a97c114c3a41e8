package app

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestStateManagerSaveLoad(t *testing.T) {
	e := newTestEmulator(t, 0x7001, 0x1200)
	sm := NewStateManager(4)

	_, err := e.RunFrame()
	assert.NoError(t, err)
	assert.NoError(t, sm.SaveState(e, 0, "pong"))
	assert.True(t, sm.HasSaveState(0))
	assert.False(t, sm.HasSaveState(1))

	_, err = e.RunFrame()
	assert.NoError(t, err)
	assert.Equal(t, uint8(10), e.GetCPU().V[0])

	assert.NoError(t, sm.LoadState(e, 0, "pong"))
	assert.Equal(t, uint8(5), e.GetCPU().V[0])
	assert.Equal(t, uint64(1), e.GetFrameCount())
}

func TestStateManagerErrors(t *testing.T) {
	e := newTestEmulator(t, 0x1200)
	sm := NewStateManager(2)

	err := sm.SaveState(e, 2, "pong")
	assert.True(t, errors.Is(err, ErrInvalidSlot))
	err = sm.LoadState(e, -1, "pong")
	assert.True(t, errors.Is(err, ErrInvalidSlot))

	err = sm.LoadState(e, 1, "pong")
	assert.True(t, errors.Is(err, ErrEmptySlot))

	assert.NoError(t, sm.SaveState(e, 1, "pong"))
	err = sm.LoadState(e, 1, "tetris")
	assert.True(t, errors.Is(err, ErrROMMismatch))

	assert.Error(t, sm.SaveState(nil, 0, "pong"))
}

func TestStateManagerLoadResumesHaltedCPU(t *testing.T) {
	// ADD V0, 1; invalid
	e := newTestEmulator(t, 0x7001, 0xFFFF)
	sm := NewStateManager(1)
	assert.NoError(t, sm.SaveState(e, 0, "bad"))

	_, err := e.RunFrame()
	assert.Error(t, err)
	assert.True(t, e.Halted())

	assert.NoError(t, sm.LoadState(e, 0, "bad"))
	assert.False(t, e.Halted())
	assert.Equal(t, uint16(0x200), e.GetCPU().PC)
}

func TestStateManagerSlotInfo(t *testing.T) {
	e := newTestEmulator(t, 0x1200)
	sm := NewStateManager(0)
	assert.Equal(t, defaultSaveStateSlots, sm.GetMaxSlots())

	assert.NoError(t, sm.SaveState(e, 2, "pong"))
	infos := sm.GetSlotInfo()
	assert.Len(t, infos, defaultSaveStateSlots)
	assert.False(t, infos[0].Used)
	assert.True(t, infos[2].Used)
	assert.Equal(t, 2, infos[2].SlotNumber)
	assert.Equal(t, "pong", infos[2].ROMName)

	assert.NoError(t, sm.DeleteState(2))
	assert.False(t, sm.HasSaveState(2))
	assert.True(t, errors.Is(sm.DeleteState(9), ErrInvalidSlot))

	assert.NoError(t, sm.SaveState(e, 1, "pong"))
	sm.Clear()
	assert.False(t, sm.HasSaveState(1))
}
