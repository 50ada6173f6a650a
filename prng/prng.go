// Package prng derives stable 64-bit seeds from strings and wraps
// math/rand/v2's PCG generator with explicit state capture so stages can snapshot and
// restore a PRNG exactly, matching the clone/rollback discipline the
// layered map state relies on (spec.md §4.1, §4.8).
package prng

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// StableHash returns the first 8 bytes of SHA-256(s) interpreted as a
// big-endian uint64. It is deterministic across platforms and Go versions
// and is the sole mechanism by which seeds are derived from strings
// (map id, retry-attempt counters, clone provenance).
func StableHash(s string) uint64 {
	sum := sha256.Sum256([]byte(s))
	return binary.BigEndian.Uint64(sum[:8])
}

// Source is a seeded, reproducible PRNG. Every stage and sub-algorithm
// receives its own Source rather than touching a process-global
// generator, so that two runs with the same seed produce byte-identical
// streams regardless of call ordering elsewhere in the program.
type Source struct {
	seed uint64
	pcg  *rand.PCG
	rnd  *rand.Rand
}

// New creates a Source seeded directly from a uint64.
func New(seed uint64) *Source {
	pcg := rand.NewPCG(seed, seed)
	return &Source{seed: seed, pcg: pcg, rnd: rand.New(pcg)}
}

// NewFromString derives the seed from StableHash(s).
func NewFromString(s string) *Source {
	return New(StableHash(s))
}

// Derive produces a child Source seeded from this Source's seed combined
// with a discriminator string (e.g. a retry attempt counter), via
// StableHash. This is how clone(attempts) re-seeds a snapshot
// (spec.md §4.8).
func (s *Source) Derive(discriminator string) *Source {
	return NewFromString(fmt.Sprintf("%d:%s", s.seed, discriminator))
}

// Seed returns the seed this Source was constructed from.
func (s *Source) Seed() uint64 { return s.seed }

// Intn returns a pseudo-random int in [0, n).
func (s *Source) Intn(n int) int { return s.rnd.IntN(n) }

// IntRange returns a pseudo-random int in [lo, hi] inclusive.
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rnd.IntN(hi-lo+1)
}

// Float64 returns a pseudo-random float64 in [0, 1).
func (s *Source) Float64() float64 { return s.rnd.Float64() }

// Bool returns a pseudo-random boolean.
func (s *Source) Bool() bool { return s.rnd.IntN(2) == 0 }

// Shuffle shuffles n items in place using swap(i, j).
func (s *Source) Shuffle(n int, swap func(i, j int)) { s.rnd.Shuffle(n, swap) }

// WeightedChoice picks an index in [0, len(weights)) with probability
// proportional to weights[i]. weights must be non-negative and sum > 0.
func (s *Source) WeightedChoice(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return s.Intn(len(weights))
	}
	r := s.Intn(total)
	acc := 0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}

// State captures the internal state of a Source well enough to restore
// an identical future stream. The underlying rand.PCG implements
// MarshalBinary/UnmarshalBinary and holds all of the generator's state;
// State captures that binary form directly rather than replaying draws,
// so Snapshot/Restore is exact regardless of which methods were called.
type State struct {
	Seed  uint64
	Bytes []byte
}

// Snapshot captures the current state for later restoration.
func (s *Source) Snapshot() State {
	st := State{Seed: s.seed}
	if data, err := s.pcg.MarshalBinary(); err == nil {
		st.Bytes = data
	}
	return st
}

// Restore resets the Source to a previously captured State.
func (s *Source) Restore(st State) {
	fresh := New(st.Seed)
	s.seed, s.pcg, s.rnd = fresh.seed, fresh.pcg, fresh.rnd
	if st.Bytes != nil {
		_ = s.pcg.UnmarshalBinary(st.Bytes)
	}
}

// Clone returns an independent copy of this Source at its current state.
func (s *Source) Clone() *Source {
	clone := &Source{seed: s.seed}
	clone.Restore(s.Snapshot())
	return clone
}
