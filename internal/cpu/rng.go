package cpu

import "math/rand/v2"

// RandomSource produces the random bytes consumed by RND.
type RandomSource interface {
	Byte() uint8
}

// RandSource is a seeded PCG generator.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource returns a generator seeded with seed. Equal seeds produce
// equal sequences.
func NewRandSource(seed uint64) *RandSource {
	return &RandSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
}

// Byte returns a uniformly distributed byte.
func (r *RandSource) Byte() uint8 {
	return uint8(r.rng.Uint32())
}

// SequenceSource replays a fixed byte sequence, wrapping at the end.
// An empty sequence always yields zero.
type SequenceSource struct {
	values []uint8
	pos    int
}

// NewSequenceSource returns a source replaying values.
func NewSequenceSource(values ...uint8) *SequenceSource {
	return &SequenceSource{values: values}
}

// Byte returns the next byte of the sequence.
func (s *SequenceSource) Byte() uint8 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos]
	s.pos = (s.pos + 1) % len(s.values)
	return v
}
