package sim

import (
	"hash/fnv"
	"math/rand"
)

// Subsystem names for the partitioned random streams. Each stream is
// consumed in a fixed, documented order (see Simulator.Run) so that
// identical (seed, config) inputs reproduce an identical event log.
const (
	// SubsystemArrivals draws one inter-arrival time per case.
	SubsystemArrivals = "arrivals"

	// SubsystemDurations draws one cycle duration per executed operation.
	SubsystemDurations = "durations"

	// SubsystemDefects draws one defect check per executed operation.
	SubsystemDefects = "defects"
)

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
// Each subsystem stream is seeded with masterSeed XOR fnv1a64(subsystemName),
// so adding draws to one subsystem never perturbs another.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the master seed used to create this PartitionedRNG.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
