package core

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"
)

// pcgStream is mixed into the second PCG seed word so two generators built
// from the same user seed do not collide with a plain (seed, seed) pair.
const pcgStream = 0x9e3779b97f4a7c15

// Rand is the single pseudo-random source shared by every stochastic step
// of a run. It wraps a PCG generator whose state can be captured into a
// snapshot and restored on resume, which keeps runs bit-reproducible.
type Rand struct {
	src *mathrand.PCG
	*mathrand.Rand
}

// NewRand creates a generator from an explicit seed.
func NewRand(seed uint64) *Rand {
	src := mathrand.NewPCG(seed, seed^pcgStream)
	return &Rand{src: src, Rand: mathrand.New(src)}
}

// NewRandomSeed draws a seed from the operating system entropy source.
func NewRandomSeed() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read OS entropy: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// NewReseededRand derives a generator deterministically from the original
// run seed and a generation counter. Used when a snapshot carries no PRNG
// state: resuming at the same generation always yields the same stream.
func NewReseededRand(seed uint64, generation int) *Rand {
	src := mathrand.NewPCG(seed, (seed^pcgStream)+uint64(generation))
	return &Rand{src: src, Rand: mathrand.New(src)}
}

// State captures the generator state for serialisation.
func (r *Rand) State() ([]byte, error) {
	return r.src.MarshalBinary()
}

// RestoreState rewinds the generator to a state captured with State.
func (r *Rand) RestoreState(state []byte) error {
	if err := r.src.UnmarshalBinary(state); err != nil {
		return fmt.Errorf("failed to restore PRNG state: %w", err)
	}
	return nil
}
