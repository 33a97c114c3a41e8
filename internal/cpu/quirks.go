package cpu

import "fmt"

// ShiftSource selects which register SHR and SHL read.
type ShiftSource uint8

const (
	// ShiftVX shifts VX in place (modern interpreters).
	ShiftVX ShiftSource = iota
	// ShiftVY shifts VY into VX (original COSMAC VIP).
	ShiftVY
)

func (s ShiftSource) String() string {
	switch s {
	case ShiftVX:
		return "modern"
	case ShiftVY:
		return "legacy"
	default:
		return fmt.Sprintf("ShiftSource(%d)", uint8(s))
	}
}

// ParseShiftSource parses "modern" or "legacy".
func ParseShiftSource(s string) (ShiftSource, error) {
	switch s {
	case "modern", "":
		return ShiftVX, nil
	case "legacy":
		return ShiftVY, nil
	default:
		return 0, fmt.Errorf("unsupported shift quirk '%s'", s)
	}
}

// SpriteEdges selects what happens to sprite pixels past the screen edge.
type SpriteEdges uint8

const (
	// SpriteWrap wraps pixels around to the opposite edge.
	SpriteWrap SpriteEdges = iota
	// SpriteClip drops pixels past the right and bottom edges. The sprite
	// origin still wraps.
	SpriteClip
)

func (e SpriteEdges) String() string {
	switch e {
	case SpriteWrap:
		return "wrap"
	case SpriteClip:
		return "clip"
	default:
		return fmt.Sprintf("SpriteEdges(%d)", uint8(e))
	}
}

// ParseSpriteEdges parses "wrap" or "clip".
func ParseSpriteEdges(s string) (SpriteEdges, error) {
	switch s {
	case "wrap", "":
		return SpriteWrap, nil
	case "clip":
		return SpriteClip, nil
	default:
		return 0, fmt.Errorf("unsupported sprite edge mode '%s'", s)
	}
}

// Quirks holds the behavior switches that differ between interpreters.
type Quirks struct {
	Shift   ShiftSource
	Sprites SpriteEdges
}

// DefaultQuirks returns the modern shift behavior with wrapping sprites.
func DefaultQuirks() Quirks {
	return Quirks{
		Shift:   ShiftVX,
		Sprites: SpriteWrap,
	}
}
