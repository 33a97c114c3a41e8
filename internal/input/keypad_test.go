package input

import (
	"errors"
	"testing"
)

func TestNew_ShouldCreateKeypadWithAllKeysReleased(t *testing.T) {
	keypad := New()

	if keypad == nil {
		t.Fatal("Expected keypad, got nil")
	}
	for key := uint8(0); key < KeyCount; key++ {
		pressed, err := keypad.IsPressed(key)
		if err != nil {
			t.Fatalf("IsPressed(0x%X) returned error: %v", key, err)
		}
		if pressed {
			t.Errorf("Key 0x%X should be released initially", key)
		}
	}
	if _, ok := keypad.PressedKey(); ok {
		t.Error("Expected no pressed key on a new keypad")
	}
}

func TestSetKey_ShouldUpdateKeyState(t *testing.T) {
	keypad := New()

	for key := uint8(0); key < KeyCount; key++ {
		if err := keypad.SetKey(key, true); err != nil {
			t.Fatalf("SetKey(0x%X) returned error: %v", key, err)
		}
		pressed, _ := keypad.IsPressed(key)
		if !pressed {
			t.Errorf("Key 0x%X should be pressed after SetKey(true)", key)
		}

		if err := keypad.SetKey(key, false); err != nil {
			t.Fatalf("SetKey(0x%X) returned error: %v", key, err)
		}
		pressed, _ = keypad.IsPressed(key)
		if pressed {
			t.Errorf("Key 0x%X should be released after SetKey(false)", key)
		}
	}
}

func TestSetKey_InvalidIndex_ShouldFail(t *testing.T) {
	keypad := New()

	if err := keypad.SetKey(KeyCount, true); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey, got %v", err)
	}
	if _, err := keypad.IsPressed(0xFF); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey, got %v", err)
	}
}

func TestPressedKey_ShouldReturnLowestPressedKey(t *testing.T) {
	keypad := New()
	_ = keypad.SetKey(0xB, true)
	_ = keypad.SetKey(0x4, true)

	key, ok := keypad.PressedKey()
	if !ok {
		t.Fatal("Expected a pressed key")
	}
	if key != 0x4 {
		t.Errorf("Expected key 0x4, got 0x%X", key)
	}
}

func TestReset_ShouldReleaseAllKeys(t *testing.T) {
	keypad := New()
	if err := keypad.SetKey(0x0, true); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}
	if err := keypad.SetKey(0xF, true); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}

	var want [KeyCount]bool
	want[0x0] = true
	want[0xF] = true
	if keypad.State() != want {
		t.Error("State should report keys 0 and F as pressed")
	}

	keypad.Reset()
	if _, ok := keypad.PressedKey(); ok {
		t.Error("Expected no pressed key after Reset")
	}
}
