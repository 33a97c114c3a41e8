package graphics

import (
	"fmt"
	"strings"
)

// Key represents host keyboard keys. Letter, digit and function keys are
// contiguous ranges.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	keyCount
)

var specialKeyNames = map[Key]string{
	KeyUnknown:   "UNKNOWN",
	KeyEscape:    "ESCAPE",
	KeyEnter:     "ENTER",
	KeySpace:     "SPACE",
	KeyBackspace: "BACKSPACE",
	KeyUp:        "UP",
	KeyDown:      "DOWN",
	KeyLeft:      "LEFT",
	KeyRight:     "RIGHT",
}

// String returns the key name used in key map configuration, e.g. "Q",
// "4" or "F5".
func (k Key) String() string {
	switch {
	case k >= Key0 && k <= Key9:
		return string(rune('0' + int(k-Key0)))
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + int(k-KeyA)))
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	if name, ok := specialKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// KeyFromName returns the key with the given case-insensitive name.
func KeyFromName(name string) (Key, bool) {
	name = strings.ToUpper(name)
	for k := KeyEscape; k < keyCount; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return KeyUnknown, false
}

// letterKey returns the key for an ASCII letter or digit.
func letterKey(b byte) (Key, bool) {
	switch {
	case b >= '0' && b <= '9':
		return Key0 + Key(b-'0'), true
	case b >= 'a' && b <= 'z':
		return KeyA + Key(b-'a'), true
	case b >= 'A' && b <= 'Z':
		return KeyA + Key(b-'A'), true
	default:
		return KeyUnknown, false
	}
}
