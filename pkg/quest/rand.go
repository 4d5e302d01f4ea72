package quest

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the single source of randomness for the engine: stage
// targets, event rolls, karma jitter, battle ids and zen point scores
// all draw from it. *math/rand.Rand satisfies it, so tests inject a
// fixed seed and assert exact branches.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a time-seeded source safe for concurrent use.
func NewRand() Rand {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// lockedRand guards a shared source; engine calls may run from
// concurrent request handlers.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// RollRange returns a uniform value in [lo,hi], both ends inclusive.
func RollRange(r Rand, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}
