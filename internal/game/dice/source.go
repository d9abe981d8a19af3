package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"sync"
)

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Intn panics with "dice: Intn called with n <= 0" if n <= 0.
func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource is a reproducible Source for simulations.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source for the given seed.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// FixedSource returns Val for every draw, clamped into [0, n).
type FixedSource struct{ Val int }

// Intn returns min(max(Val, 0), n-1).
func (f FixedSource) Intn(n int) int {
	switch {
	case f.Val < 0:
		return 0
	case f.Val >= n:
		return n - 1
	default:
		return f.Val
	}
}

// SeqSource replays Vals in order, cycling when exhausted. Each value is
// reduced modulo n.
type SeqSource struct {
	Vals []int
	next int
}

// Intn returns the next scripted value modulo n.
func (s *SeqSource) Intn(n int) int {
	if len(s.Vals) == 0 {
		return 0
	}
	v := s.Vals[s.next%len(s.Vals)]
	s.next++
	return ((v % n) + n) % n
}
