package input

import (
	"errors"
	"testing"
)

func TestDefaultKeyMap_ShouldCoverAllKeysOnce(t *testing.T) {
	m := DefaultKeyMap()

	var seen [KeyCount]int
	for _, key := range m {
		seen[key]++
	}
	for key, count := range seen {
		if count != 1 {
			t.Errorf("Key 0x%X bound %d times, expected once", key, count)
		}
	}
}

func TestLookup_ShouldBeCaseInsensitive(t *testing.T) {
	m := DefaultKeyMap()

	tests := []struct {
		name string
		want uint8
	}{
		{"1", 0x1},
		{"4", 0xC},
		{"q", 0x4},
		{"R", 0xD},
		{"x", 0x0},
		{"V", 0xF},
	}
	for _, tt := range tests {
		key, ok := m.Lookup(tt.name)
		if !ok {
			t.Errorf("Lookup(%q) found nothing", tt.name)
			continue
		}
		if key != tt.want {
			t.Errorf("Lookup(%q) = 0x%X, expected 0x%X", tt.name, key, tt.want)
		}
	}

	if _, ok := m.Lookup("P"); ok {
		t.Error("P should not be bound")
	}
}

func TestParseKeyMap_ShouldRoundTripDefaultBindings(t *testing.T) {
	parsed, err := ParseKeyMap(DefaultBindings())
	if err != nil {
		t.Fatalf("ParseKeyMap returned error: %v", err)
	}

	def := DefaultKeyMap()
	if len(parsed) != len(def) {
		t.Fatalf("Expected %d bindings, got %d", len(def), len(parsed))
	}
	for name, key := range def {
		if parsed[name] != key {
			t.Errorf("Binding %s = 0x%X, expected 0x%X", name, parsed[name], key)
		}
	}
}

func TestParseKeyMap_ShouldRejectBadBindings(t *testing.T) {
	if _, err := ParseKeyMap(map[string]string{"Q": "G"}); err == nil {
		t.Error("Expected error for non-hex digit")
	}

	_, err := ParseKeyMap(map[string]string{"Q": "0x10"})
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey, got %v", err)
	}
}
