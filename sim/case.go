package sim

// Case is one product flowing through the chain. Created at simulation
// start, mutated only by the simulator, and discarded once its final
// event is emitted.
type Case struct {
	ID          string
	ArrivalTime float64

	// ready is when the case can start its next operation:
	// the arrival time before the first event, then the previous
	// event's end time.
	ready float64

	// executions counts how many times each operation has run for this
	// case. The first execution is the regular pass; every subsequent
	// one is rework.
	executions map[string]int
}

func newCase(id string, arrival float64) *Case {
	return &Case{
		ID:          id,
		ArrivalTime: arrival,
		ready:       arrival,
		executions:  make(map[string]int),
	}
}

// recordExecution bumps the per-operation execution count and reports
// the new count along with whether this execution is rework.
func (c *Case) recordExecution(opID string) (count int, isRework bool) {
	c.executions[opID]++
	count = c.executions[opID]
	return count, count > 1
}
