package service

import (
	"math/rand"
	"sync"
)

// Rand is the randomness source for game outcomes. Production uses a
// mutex-guarded math/rand; tests script the draws.
type Rand interface {
	// Intn returns a uniform int in [0, n)
	Intn(n int) int

	// Float64 returns a uniform float64 in [0, 1)
	Float64() float64
}

// lockedRand makes a *rand.Rand safe for concurrent use
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand creates a concurrency-safe Rand from a seed
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// randBetween returns a uniform int64 in [lo, hi]
func randBetween(r Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + int64(r.Intn(int(hi-lo+1)))
}
