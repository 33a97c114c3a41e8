package app

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSlot is returned for slot numbers outside the slot range.
	ErrInvalidSlot = errors.New("invalid save slot")
	// ErrEmptySlot is returned when loading a slot that holds no state.
	ErrEmptySlot = errors.New("save slot is empty")
	// ErrROMMismatch is returned when a slot was saved for another ROM.
	ErrROMMismatch = errors.New("save state is for a different ROM")
)

// StateManager keeps save states in memory for the running session.
type StateManager struct {
	slots []*SaveState
}

// SaveState represents a saved emulator state
type SaveState struct {
	Timestamp time.Time
	ROMName   string
	Slot      int
	Snapshot  Snapshot
}

// StateSlotInfo contains information about a save state slot
type StateSlotInfo struct {
	SlotNumber int
	Used       bool
	Timestamp  time.Time
	ROMName    string
	FrameCount uint64
}

// NewStateManager creates a state manager with maxSlots empty slots.
func NewStateManager(maxSlots int) *StateManager {
	if maxSlots <= 0 {
		maxSlots = defaultSaveStateSlots
	}
	return &StateManager{
		slots: make([]*SaveState, maxSlots),
	}
}

func (sm *StateManager) checkSlot(slot int) error {
	if slot < 0 || slot >= len(sm.slots) {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidSlot, slot, len(sm.slots)-1)
	}
	return nil
}

// SaveState stores the emulator state in a slot, replacing its contents.
func (sm *StateManager) SaveState(emulator *Emulator, slot int, romName string) error {
	if err := sm.checkSlot(slot); err != nil {
		return err
	}
	if emulator == nil {
		return errors.New("emulator cannot be nil")
	}

	sm.slots[slot] = &SaveState{
		Timestamp: time.Now(),
		ROMName:   romName,
		Slot:      slot,
		Snapshot:  emulator.Snapshot(),
	}
	return nil
}

// LoadState restores the emulator state from a slot saved for romName.
func (sm *StateManager) LoadState(emulator *Emulator, slot int, romName string) error {
	if err := sm.checkSlot(slot); err != nil {
		return err
	}
	if emulator == nil {
		return errors.New("emulator cannot be nil")
	}

	state := sm.slots[slot]
	if state == nil {
		return fmt.Errorf("%w: %d", ErrEmptySlot, slot)
	}
	if state.ROMName != romName {
		return fmt.Errorf("%w: slot %d holds %s", ErrROMMismatch, slot, state.ROMName)
	}

	emulator.Restore(state.Snapshot)
	return nil
}

// HasSaveState returns whether a slot holds a state.
func (sm *StateManager) HasSaveState(slot int) bool {
	return sm.checkSlot(slot) == nil && sm.slots[slot] != nil
}

// DeleteState empties a slot.
func (sm *StateManager) DeleteState(slot int) error {
	if err := sm.checkSlot(slot); err != nil {
		return err
	}
	sm.slots[slot] = nil
	return nil
}

// Clear empties all slots.
func (sm *StateManager) Clear() {
	clear(sm.slots)
}

// GetSlotInfo returns information about all save slots
func (sm *StateManager) GetSlotInfo() []StateSlotInfo {
	infos := make([]StateSlotInfo, len(sm.slots))
	for i, state := range sm.slots {
		infos[i].SlotNumber = i
		if state == nil {
			continue
		}
		infos[i].Used = true
		infos[i].Timestamp = state.Timestamp
		infos[i].ROMName = state.ROMName
		infos[i].FrameCount = state.Snapshot.FrameCount
	}
	return infos
}

// GetMaxSlots returns the number of slots.
func (sm *StateManager) GetMaxSlots() int {
	return len(sm.slots)
}
