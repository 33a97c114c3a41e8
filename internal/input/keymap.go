package input

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyMap translates host key names to keypad indices. The core never sees
// host key codes, only the indices produced here.
type KeyMap map[string]uint8

// DefaultKeyMap returns the conventional QWERTY layout:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
func DefaultKeyMap() KeyMap {
	return KeyMap{
		"1": 0x1, "2": 0x2, "3": 0x3, "4": 0xC,
		"Q": 0x4, "W": 0x5, "E": 0x6, "R": 0xD,
		"A": 0x7, "S": 0x8, "D": 0x9, "F": 0xE,
		"Z": 0xA, "X": 0x0, "C": 0xB, "V": 0xF,
	}
}

// DefaultBindings returns DefaultKeyMap in its configuration file form.
func DefaultBindings() map[string]string {
	return DefaultKeyMap().Bindings()
}

// Lookup returns the keypad index bound to a host key name. Names are
// case-insensitive.
func (m KeyMap) Lookup(name string) (uint8, bool) {
	key, ok := m[strings.ToUpper(name)]
	return key, ok
}

// Bindings converts the map to host key name -> hex digit strings.
func (m KeyMap) Bindings() map[string]string {
	bindings := make(map[string]string, len(m))
	for name, key := range m {
		bindings[name] = strconv.FormatUint(uint64(key), 16)
	}
	return bindings
}

// ParseKeyMap builds a KeyMap from host key name -> hex digit bindings,
// e.g. {"Q": "4"}.
func ParseKeyMap(bindings map[string]string) (KeyMap, error) {
	m := make(KeyMap, len(bindings))
	for name, digit := range bindings {
		value, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(digit), "0x"), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("binding %q: parsing key %q: %w", name, digit, err)
		}
		if value >= KeyCount {
			return nil, fmt.Errorf("binding %q: %w: 0x%X", name, ErrInvalidKey, value)
		}
		m[strings.ToUpper(name)] = uint8(value)
	}
	return m, nil
}
