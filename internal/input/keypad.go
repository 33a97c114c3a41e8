// Package input implements the CHIP-8 hexadecimal keypad.
package input

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// KeyCount is the number of keys on the keypad (0x0-0xF).
const KeyCount = 16

// ErrInvalidKey is returned for key indices outside [0, KeyCount).
var ErrInvalidKey = errors.New("invalid key index")

// Keypad represents the 16-key hexadecimal keypad. Only the host input
// translation writes it; the CPU only reads it.
type Keypad struct {
	keys [KeyCount]bool

	// Debug tracking
	logger       *log.Logger
	debugEnabled bool
}

// New creates a keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

func checkKey(key uint8) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: 0x%X", ErrInvalidKey, key)
	}
	return nil
}

// SetKey sets the state of a key.
func (k *Keypad) SetKey(key uint8, pressed bool) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if k.debugEnabled && k.keys[key] != pressed {
		k.logger.Debug("Key state changed",
			log.Hex("key", key),
			log.String("state", pressedString(pressed)))
	}

	k.keys[key] = pressed
	return nil
}

// IsPressed returns true if the key is currently held down.
func (k *Keypad) IsPressed(key uint8) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	return k.keys[key], nil
}

// PressedKey returns the lowest-numbered key currently held down.
func (k *Keypad) PressedKey() (uint8, bool) {
	for i, pressed := range k.keys {
		if pressed {
			return uint8(i), true
		}
	}
	return 0, false
}

// State returns a copy of all key states.
func (k *Keypad) State() [KeyCount]bool {
	return k.keys
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.keys = [KeyCount]bool{}
}

// EnableDebug enables debug logging of key changes. A nil logger disables it.
func (k *Keypad) EnableDebug(logger *log.Logger) {
	k.logger = logger
	k.debugEnabled = logger != nil
}

func pressedString(pressed bool) string {
	if pressed {
		return "down"
	}
	return "up"
}
