package sim

// StationPool tracks the next-free time of each station at one operation.
// It is mutated only by the simulator during generation and not persisted.
type StationPool struct {
	opID     string
	nextFree []float64
}

// NewStationPool creates a pool of count stations, all free at time zero.
func NewStationPool(opID string, count int) *StationPool {
	return &StationPool{
		opID:     opID,
		nextFree: make([]float64, count),
	}
}

// Earliest returns the index and next-free time of the station that becomes
// available soonest. Ties resolve to the lowest station index.
func (p *StationPool) Earliest() (int, float64) {
	best := 0
	for i := 1; i < len(p.nextFree); i++ {
		if p.nextFree[i] < p.nextFree[best] {
			best = i
		}
	}
	return best, p.nextFree[best]
}

// Assign marks station idx busy until the given end time. Later assignments
// read this value, so pool updates must happen in scheduling order.
func (p *StationPool) Assign(idx int, end float64) {
	p.nextFree[idx] = end
}

// Size returns the number of stations in the pool.
func (p *StationPool) Size() int {
	return len(p.nextFree)
}
