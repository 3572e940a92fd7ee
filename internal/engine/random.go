// Package engine implements the randomized allocation core: weighted sampling,
// ladder generation and resolution, outcome assignment and roulette targeting.
//
// Every function is a pure computation over its inputs plus an injected
// RandomSource. Nothing here performs I/O or keeps state between calls.
package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// mathSource adapts *rand.Rand. rand.Rand is not safe for concurrent use, so
// calls are serialized; a single source may back several services.
type mathSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a source seeded with seed.
func NewRandomSource(seed int64) RandomSource {
	return &mathSource{rnd: rand.New(rand.NewSource(seed))}
}

// NewSeededSource returns a source seeded from crypto/rand.
// Falls back to seed 1 if the system reader fails.
func NewSeededSource() RandomSource {
	var b [8]byte
	seed := int64(1)
	if _, err := crand.Read(b[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return NewRandomSource(seed)
}

func (s *mathSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// SequenceSource replays a fixed list of values, wrapping around at the end.
// An empty sequence always yields 0.
type SequenceSource struct {
	Values []float64
	pos    int
}

// NewSequenceSource returns a source that replays values in order.
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{Values: values}
}

func (s *SequenceSource) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}

// Consumed reports how many values have been read.
func (s *SequenceSource) Consumed() int {
	return s.pos
}

// intn maps one draw onto [0, n).
func intn(rng RandomSource, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// shuffleInts performs a Fisher-Yates shuffle in place.
func shuffleInts(rng RandomSource, xs []int) {
	for i := len(xs) - 1; i > 0; i-- {
		j := intn(rng, i+1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// shuffleStrings performs a Fisher-Yates shuffle in place.
func shuffleStrings(rng RandomSource, xs []string) {
	for i := len(xs) - 1; i > 0; i-- {
		j := intn(rng, i+1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
