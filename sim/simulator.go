package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// ErrReworkLimit reports a case that triggered more reworks at one
// operation than the configured bound allows. It is a logic error
// surfaced to the caller, distinct from ordinary business-rule rework.
var ErrReworkLimit = errors.New("rework limit exceeded")

// SimConfig holds the generation parameters for one simulation run.
type SimConfig struct {
	// Cases is the number of products to push through the chain. Must be > 0.
	Cases int

	// Seed is the master seed for the simulator-owned random streams.
	Seed int64

	// InterArrivalMinutes is the mean exponential inter-arrival time
	// between cases. Zero disables arrivals: every case arrives at t=0.
	InterArrivalMinutes float64

	// MinCycleMinutes floors the sampled cycle duration so extreme
	// left-tail draws never produce zero or negative processing time.
	MinCycleMinutes float64

	// MaxReworkPerOp bounds rework executions per operation per case.
	// Exceeding it aborts the run with ErrReworkLimit.
	MaxReworkPerOp int

	// ReworkDestinations optionally routes a defect at the key operation
	// back to the value operation. Operations absent from the map
	// re-queue at themselves.
	ReworkDestinations map[string]string
}

// DefaultSimConfig returns a SimConfig with the standard knobs:
// 30min mean inter-arrival, 5min cycle floor, at most 5 reworks
// per operation per case, defects re-queued at the same operation.
func DefaultSimConfig(cases int, seed int64) SimConfig {
	return SimConfig{
		Cases:               cases,
		Seed:                seed,
		InterArrivalMinutes: 30.0,
		MinCycleMinutes:     5.0,
		MaxReworkPerOp:      5,
	}
}

// Validate checks the config against the chain it will run over.
func (cfg *SimConfig) Validate(chain *Chain) error {
	if cfg.Cases <= 0 {
		return fmt.Errorf("cases must be positive, got %d", cfg.Cases)
	}
	if cfg.InterArrivalMinutes < 0 {
		return fmt.Errorf("inter-arrival minutes must be non-negative, got %f", cfg.InterArrivalMinutes)
	}
	if cfg.MinCycleMinutes < 0 {
		return fmt.Errorf("min cycle minutes must be non-negative, got %f", cfg.MinCycleMinutes)
	}
	if cfg.MaxReworkPerOp < 1 {
		return fmt.Errorf("max rework per operation must be >= 1, got %d", cfg.MaxReworkPerOp)
	}
	for from, to := range cfg.ReworkDestinations {
		if chain.Index(from) < 0 {
			return fmt.Errorf("rework route from unknown operation %q", from)
		}
		toIdx := chain.Index(to)
		if toIdx < 0 {
			return fmt.Errorf("rework route to unknown operation %q", to)
		}
		if toIdx > chain.Index(from) {
			return fmt.Errorf("rework route %s -> %s moves forward in the chain", from, to)
		}
	}
	return nil
}

// Simulator generates a synthetic event log by running cases through the
// chain under finite-capacity queueing with stochastic durations and
// bounded rework.
//
// Determinism: the random streams are owned by the instance and consumed
// in a fixed order — one arrival draw per case, then per executed
// operation one duration draw and one defect draw, cases strictly
// sequential. Identical (chain, config) inputs reproduce an identical log.
type Simulator struct {
	chain     *Chain
	cfg       SimConfig
	rng       *PartitionedRNG
	durations DurationSampler
	arrivals  ArrivalSampler
	pools     map[string]*StationPool
}

// NewSimulator validates the chain and config and builds a simulator.
// No partial state is created on validation failure.
func NewSimulator(chain *Chain, cfg SimConfig) (*Simulator, error) {
	if err := chain.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chain: %w", err)
	}
	if err := cfg.Validate(chain); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	pools := make(map[string]*StationPool, len(chain.Operations))
	for _, op := range chain.Operations {
		pools[op.ID] = NewStationPool(op.ID, op.Stations)
	}
	return &Simulator{
		chain:     chain,
		cfg:       cfg,
		rng:       NewPartitionedRNG(cfg.Seed),
		durations: &TruncatedGaussianSampler{FloorMinutes: cfg.MinCycleMinutes},
		arrivals:  &ExponentialArrivals{MeanMinutes: cfg.InterArrivalMinutes},
		pools:     pools,
	}, nil
}

// Run generates the event log. The returned log is in canonical order
// (case id, then start time).
func (s *Simulator) Run() (EventLog, error) {
	arrivalRNG := s.rng.ForSubsystem(SubsystemArrivals)
	durationRNG := s.rng.ForSubsystem(SubsystemDurations)
	defectRNG := s.rng.ForSubsystem(SubsystemDefects)

	logrus.Infof("simulating %d cases over %d operations (seed=%d)",
		s.cfg.Cases, len(s.chain.Operations), s.cfg.Seed)

	log := make(EventLog, 0, s.cfg.Cases*len(s.chain.Operations))
	arrivalClock := 0.0

	for caseNum := 1; caseNum <= s.cfg.Cases; caseNum++ {
		arrivalClock += s.arrivals.SampleIAT(arrivalRNG)
		c := newCase(fmt.Sprintf("CASE-%04d", caseNum), arrivalClock)

		i := 0
		for i < len(s.chain.Operations) {
			op := &s.chain.Operations[i]
			count, isRework := c.recordExecution(op.ID)

			pool := s.pools[op.ID]
			station, free := pool.Earliest()
			start := math.Max(c.ready, free)
			// Derived from the timestamps so wait equals start minus the
			// previous event's end bit-exactly (zero for a first event).
			wait := start - c.ready
			end := start + s.durations.SampleCycle(durationRNG, op)
			// Recompute the cycle from the timestamps so the emitted
			// value equals end-start bit-exactly.
			cycle := end - start
			pool.Assign(station, end)

			log = append(log, Event{
				CaseID:       c.ID,
				Activity:     op.Name,
				OperationID:  op.ID,
				Start:        start,
				End:          end,
				Station:      fmt.Sprintf("%s_WS%d", op.ID, station+1),
				IsRework:     isRework,
				ReworkCount:  count,
				WaitMinutes:  wait,
				CycleMinutes: cycle,
			})
			c.ready = end

			// One defect draw per execution regardless of rate, so the
			// stream position does not depend on chain parameters.
			defect := defectRNG.Float64() < op.DefectRate
			if defect {
				dest := op.ID
				if to, ok := s.cfg.ReworkDestinations[op.ID]; ok {
					dest = to
				}
				if c.executions[dest] >= s.cfg.MaxReworkPerOp+1 {
					return nil, fmt.Errorf("case %s at operation %s: %w (max %d)",
						c.ID, dest, ErrReworkLimit, s.cfg.MaxReworkPerOp)
				}
				logrus.Debugf("defect at %s for %s, re-queueing at %s (execution %d)",
					op.ID, c.ID, dest, c.executions[dest]+1)
				i = s.chain.Index(dest)
				continue
			}
			i++
		}
	}

	log.Sort()
	logrus.Infof("generated %d events for %d cases", len(log), s.cfg.Cases)
	return log, nil
}
