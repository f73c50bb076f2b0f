package sim

import (
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible run.
// Two runs with the same SimulationKey, process set and actions MUST produce
// identical histories and identical plans.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// NewRNG returns the single random source a run draws from. It is created once
// at start-up and handed to the WorldModel; clones share it rather than
// forking or reseeding, so all delay and jitter draws form one ordered stream.
//
// Thread-safety: NOT thread-safe. Must be used from a single goroutine.
func (k SimulationKey) NewRNG() *rand.Rand {
	return rand.New(rand.NewSource(int64(k)))
}
