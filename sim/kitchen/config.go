package kitchen

import (
	"fmt"

	"github.com/causal-sim/causal-sim/sim"
)

// Config holds the delay distributions and thresholds of the kitchen laws.
type Config struct {
	ToggleFaucet sim.DelayDistribution
	ToggleStove  sim.DelayDistribution
	MoveToFaucet sim.DelayDistribution
	MoveToStove  sim.DelayDistribution
	Noop         sim.DelayDistribution
	FillPot      sim.DelayDistribution
	OverfillPot  sim.DelayDistribution
	Boil         sim.DelayDistribution

	OverfillThreshold int // ticks a full pot tolerates under running water
	OverfillJitter    int
	BoilThreshold     int // ticks on a lit stove before the water boils
	BoilJitter        int
}

// DefaultConfig returns the reference parameters of the boiling-water world.
func DefaultConfig() Config {
	action := sim.GaussianDelay{Mean: 5, StdDev: 2}
	return Config{
		ToggleFaucet:      action,
		ToggleStove:       action,
		MoveToFaucet:      action,
		MoveToStove:       action,
		Noop:              sim.GaussianDelay{Mean: 20, StdDev: 1},
		FillPot:           sim.GaussianDelay{Mean: 5, StdDev: 2},
		OverfillPot:       sim.ConstantDelay{D: 1},
		Boil:              sim.ConstantDelay{D: 1},
		OverfillThreshold: 10,
		OverfillJitter:    10,
		BoilThreshold:     10,
		BoilJitter:        30,
	}
}

// Validate checks that every delay is set and every threshold is non-negative.
func (c Config) Validate() error {
	delays := map[string]sim.DelayDistribution{
		"toggle_faucet": c.ToggleFaucet, "toggle_stove": c.ToggleStove,
		"move_to_faucet": c.MoveToFaucet, "move_to_stove": c.MoveToStove,
		"noop": c.Noop, "fill_pot": c.FillPot, "overfill_pot": c.OverfillPot, "boil": c.Boil,
	}
	for name, d := range delays {
		if d == nil {
			return fmt.Errorf("kitchen: missing delay for %s", name)
		}
	}
	for name, v := range map[string]int{
		"overfill_threshold": c.OverfillThreshold, "overfill_jitter": c.OverfillJitter,
		"boil_threshold": c.BoilThreshold, "boil_jitter": c.BoilJitter,
	} {
		if v < 0 {
			return fmt.Errorf("kitchen: %s must be non-negative, got %d", name, v)
		}
	}
	return nil
}

// Processes builds the kitchen laws: the controllable actions first, then the
// passive dynamics.
func Processes(c Config) []sim.CausalProcess {
	return []sim.CausalProcess{
		NewToggleFaucet(c.ToggleFaucet),
		NewToggleStove(c.ToggleStove),
		NewMoveToFaucet(c.MoveToFaucet),
		NewMoveToStove(c.MoveToStove),
		NewNoop(c.Noop),
		NewFillPot(c.FillPot),
		NewOverfillPot(c.OverfillPot, c.OverfillThreshold, c.OverfillJitter),
		NewBoil(c.Boil, c.BoilThreshold, c.BoilJitter),
	}
}

// NewWorld builds a kitchen WorldModel from c, starting at InitialState.
func NewWorld(c Config, key sim.SimulationKey, opts ...sim.Option) (*sim.WorldModel, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return sim.NewWorldModel(Processes(c), InitialState(), key.NewRNG(), opts...)
}
