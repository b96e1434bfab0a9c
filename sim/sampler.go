package sim

import (
	"math"
	"math/rand"
)

// DurationSampler generates cycle durations for one executed operation.
type DurationSampler interface {
	// SampleCycle returns a cycle duration in minutes, always > 0.
	SampleCycle(rng *rand.Rand, op *OperationDef) float64
}

// TruncatedGaussianSampler draws max(floor, N(mean, stdDev)) + setup minutes.
// The floor keeps extreme left-tail draws from producing zero or negative
// cycle times; setup time is part of the busy interval, so it counts toward
// the emitted cycle time (timestamp_end - timestamp_start).
type TruncatedGaussianSampler struct {
	FloorMinutes float64
}

func (s *TruncatedGaussianSampler) SampleCycle(rng *rand.Rand, op *OperationDef) float64 {
	val := rng.NormFloat64()*op.StdDevMinutes + op.MeanMinutes
	floor := s.FloorMinutes
	if floor <= 0 {
		floor = math.SmallestNonzeroFloat64
	}
	return math.Max(floor, val) + op.SetupMinutes
}

// ArrivalSampler generates inter-arrival times between consecutive cases.
type ArrivalSampler interface {
	// SampleIAT returns the next inter-arrival time in minutes, >= 0.
	SampleIAT(rng *rand.Rand) float64
}

// ExponentialArrivals generates exponentially-distributed inter-arrival
// times (Poisson arrival process). A zero mean disables arrivals entirely:
// every case arrives at time zero.
type ExponentialArrivals struct {
	MeanMinutes float64
}

func (s *ExponentialArrivals) SampleIAT(rng *rand.Rand) float64 {
	if s.MeanMinutes <= 0 {
		return 0
	}
	return rng.ExpFloat64() * s.MeanMinutes
}
