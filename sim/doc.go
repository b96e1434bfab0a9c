// Package sim generates synthetic manufacturing event logs under
// finite-capacity queueing.
//
// # Reading Guide
//
// Start with these three files to understand the generation kernel:
//   - chain.go: the ordered operation configuration every case flows through
//   - simulator.go: the per-case scheduling loop, rework routing, determinism
//   - event.go: the Event record and the EventLog contract with analysis
//
// Randomness is owned by the simulator instance: rng.go partitions a single
// master seed into isolated subsystem streams (arrivals, durations, defects)
// consumed in a documented order, so a (chain, config) pair always
// reproduces a bit-identical log. Analysis of completed logs lives in the
// sim/analysis sub-package.
package sim
