package sim

import (
	"math"
	"math/rand"
	"testing"
)

func TestTruncatedGaussianSampler_MeanMatchesParam(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := &TruncatedGaussianSampler{FloorMinutes: 5}
	op := &OperationDef{ID: "OP1", MeanMinutes: 45, StdDevMinutes: 8, SetupMinutes: 10, Stations: 1}

	n := 10000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.SampleCycle(rng, op)
	}
	mean := sum / float64(n)
	want := op.MeanMinutes + op.SetupMinutes
	if math.Abs(mean-want)/want > 0.05 {
		t.Errorf("sampled mean = %.1f, want ≈ %.1f (within 5%%)", mean, want)
	}
}

func TestTruncatedGaussianSampler_FlooredAboveZero(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := &TruncatedGaussianSampler{FloorMinutes: 5}
	op := &OperationDef{ID: "OP1", MeanMinutes: 2, StdDevMinutes: 50, Stations: 1}

	for i := 0; i < 10000; i++ {
		if v := s.SampleCycle(rng, op); v < 5 {
			t.Errorf("sample %d: %.2f below floor", i, v)
			break
		}
	}
}

func TestTruncatedGaussianSampler_ZeroFloorStillPositive(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := &TruncatedGaussianSampler{}
	op := &OperationDef{ID: "OP1", MeanMinutes: 1, StdDevMinutes: 100, Stations: 1}

	for i := 0; i < 10000; i++ {
		if v := s.SampleCycle(rng, op); v <= 0 {
			t.Errorf("sample %d: %.6f not positive", i, v)
			break
		}
	}
}

func TestExponentialArrivals_MeanMatchesParam(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := &ExponentialArrivals{MeanMinutes: 30}

	n := 10000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.SampleIAT(rng)
	}
	mean := sum / float64(n)
	if math.Abs(mean-30)/30 > 0.05 {
		t.Errorf("arrival mean = %.2f, want ≈ 30 (within 5%%)", mean)
	}
}

func TestExponentialArrivals_ZeroMeanDisablesArrivals(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := &ExponentialArrivals{MeanMinutes: 0}
	for i := 0; i < 100; i++ {
		if v := s.SampleIAT(rng); v != 0 {
			t.Fatalf("expected 0 inter-arrival time, got %v", v)
		}
	}
}
