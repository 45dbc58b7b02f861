package greptime

import (
	"math/rand"
	"sync"
	"time"
)

// LoadBalancer picks one endpoint out of the current peer list. Returning
// false means no endpoint is available.
type LoadBalancer interface {
	GetPeer(peers []string) (string, bool)
}

// Random selects uniformly at random on every call, with no affinity and no
// health tracking.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom() *Random {
	return NewRandomSeeded(time.Now().UnixNano())
}

// NewRandomSeeded fixes the selection sequence, mainly for tests.
func NewRandomSeeded(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) GetPeer(peers []string) (string, bool) {
	if len(peers) == 0 {
		return "", false
	}
	r.mu.Lock()
	i := r.rng.Intn(len(peers))
	r.mu.Unlock()
	return peers[i], true
}
