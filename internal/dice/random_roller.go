package dice

import (
	"math/rand"
	"sync"
	"time"
)

// randomRoller implements Roller backed by math/rand. A mutex guards the
// generator because orchestrators roll from concurrent requests.
type randomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller creates a roller seeded from the current time.
func NewRandomRoller() Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRoller creates a roller with a fixed seed, for deterministic
// replay of recorded rolls.
func NewSeededRoller(seed int64) Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(seed))}
}

// RollDie implements Roller.RollDie
func (r *randomRoller) RollDie(sides int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1
}
