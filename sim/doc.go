// Package sim provides the core discrete-event engine: a world of named state
// fields evolved by causal processes that fire after sampled delays.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - state.go: State, an ordered set of scalar fields including the transient "action"
//   - process.go: CausalProcess, the trigger/continuity/landing contract of a law
//   - world.go: WorldModel, SmallStep and BigStep
//
// # Architecture
//
// The sim package defines the engine and its small interfaces; concrete worlds
// and tooling live in sub-packages:
//   - sim/kitchen/: the boiling-water world and its laws
//   - sim/planner/: BFS and A* over WorldModel clones, plus replay policies
//   - sim/scenario/: YAML scenario files
//   - sim/trace/: search trace recording
//
// # Time
//
// One small step is one tick. The action given to SmallStep is written into
// the state before anything lands, effects due on the tick land in the order
// they were scheduled, the state is appended to the history, and processes
// whose start condition just became true are scheduled at tick plus a sampled
// delay. A big step repeats small steps until the state changes, nothing is
// pending, or the tick cap is hit.
//
// # Randomness
//
// A run draws every delay and jitter from one *rand.Rand created from a
// SimulationKey. Clones share it, so draws form a single ordered stream and a
// run is reproducible only as a whole.
package sim
