package sim

import "testing"

func TestPartitionedRNG_SameSubsystemCached(t *testing.T) {
	p := NewPartitionedRNG(42)
	a := p.ForSubsystem(SubsystemDurations)
	b := p.ForSubsystem(SubsystemDurations)
	if a != b {
		t.Error("same subsystem returned different RNG instances")
	}
}

func TestPartitionedRNG_SubsystemsIsolated(t *testing.T) {
	p := NewPartitionedRNG(42)
	durations := p.ForSubsystem(SubsystemDurations)
	defects := p.ForSubsystem(SubsystemDefects)

	// Draining one stream must not perturb the other.
	q := NewPartitionedRNG(42)
	for i := 0; i < 1000; i++ {
		durations.Float64()
	}
	want := q.ForSubsystem(SubsystemDefects).Float64()
	got := defects.Float64()
	if got != want {
		t.Errorf("defects stream perturbed by durations draws: got %v, want %v", got, want)
	}
}

func TestPartitionedRNG_SeedReproducible(t *testing.T) {
	a := NewPartitionedRNG(7).ForSubsystem(SubsystemArrivals)
	b := NewPartitionedRNG(7).ForSubsystem(SubsystemArrivals)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("draw %d differs for identical seeds", i)
		}
	}
}

func TestPartitionedRNG_DifferentSeedsDiffer(t *testing.T) {
	a := NewPartitionedRNG(1).ForSubsystem(SubsystemArrivals)
	b := NewPartitionedRNG(2).ForSubsystem(SubsystemArrivals)
	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical streams")
	}
}
