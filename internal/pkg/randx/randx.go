/*
Package randx provides the random sources used by the avatar overlay.

It supplies the uniform draws behind the autonomous behavior loop (intervals, walk durations,
walk chance, facing) and the avatar start positions, plus UUID identifiers for visual handles
and overlay messages.
*/
package randx

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// Source is the subset of *rand.Rand the application draws from.
type Source interface {
	// IntN returns a uniform integer in [0, n). It panics if n <= 0.
	IntN(n int) int

	// Float64 returns a uniform float in [0.0, 1.0).
	Float64() float64
}

// lockedSource serializes access to a *rand.Rand, which is not safe for concurrent use.
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// New returns a concurrency-safe Source seeded from crypto/rand.
func New() Source {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return Seeded(uint64(uuid.New().ID()), uint64(uuid.New().ID()))
	}
	return Seeded(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:]))
}

// Seeded returns a deterministic concurrency-safe Source, mainly for tests.
func Seeded(seed1, seed2 uint64) Source {
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

// Between returns a uniform integer in the inclusive range [lo, hi].
// If hi < lo the range collapses to lo.
func Between(src Source, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + int64(src.IntN(int(hi-lo+1)))
}

// Chance reports true with probability p. p <= 0 never succeeds and p >= 1 always does.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// HandleID generates a UUID v4 string identifying a visual handle.
func HandleID() string {
	return uuid.New().String()
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}
