package kitchen

import (
	"math/rand"

	"github.com/causal-sim/causal-sim/sim"
)

// ActionProcess is an agent action: it triggers on the rising edge of its
// action name and, when it lands, applies its change and clears the action.
type ActionProcess struct {
	sim.BaseProcess
	name   string
	change func(sim.State) []sim.Field
}

func (p ActionProcess) Action() sim.Action { return sim.Act(p.name) }

func (p ActionProcess) ConditionAtStart(h sim.History, _ *rand.Rand) bool {
	return sim.EdgeTriggered(h, sim.ActionIs(p.name))
}

func (p ActionProcess) Effect(s sim.State, _ sim.History) (sim.State, error) {
	fields := append(p.change(s), sim.Field{Name: sim.ActionField, Value: nil})
	return s.Update(fields...)
}

func NewToggleFaucet(delay sim.DelayDistribution) ActionProcess {
	return ActionProcess{
		BaseProcess: sim.NewBaseProcess("ToggleFaucet", delay),
		name:        ActToggleFaucet,
		change: func(s sim.State) []sim.Field {
			return []sim.Field{{Name: FaucetOn, Value: !s.Bool(FaucetOn)}}
		},
	}
}

func NewToggleStove(delay sim.DelayDistribution) ActionProcess {
	return ActionProcess{
		BaseProcess: sim.NewBaseProcess("ToggleStove", delay),
		name:        ActToggleStove,
		change: func(s sim.State) []sim.Field {
			return []sim.Field{{Name: StoveOn, Value: !s.Bool(StoveOn)}}
		},
	}
}

func NewMoveToFaucet(delay sim.DelayDistribution) ActionProcess {
	return ActionProcess{
		BaseProcess: sim.NewBaseProcess("MoveToFaucet", delay),
		name:        ActMoveToFaucet,
		change: func(sim.State) []sim.Field {
			return []sim.Field{{Name: PotLocation, Value: Faucet}}
		},
	}
}

func NewMoveToStove(delay sim.DelayDistribution) ActionProcess {
	return ActionProcess{
		BaseProcess: sim.NewBaseProcess("MoveToStove", delay),
		name:        ActMoveToStove,
		change: func(sim.State) []sim.Field {
			return []sim.Field{{Name: PotLocation, Value: Stove}}
		},
	}
}

// NewNoop is the explicit wait: it only clears the action once its delay has
// passed, which lets a big step cover a stretch of passive dynamics.
func NewNoop(delay sim.DelayDistribution) ActionProcess {
	return ActionProcess{
		BaseProcess: sim.NewBaseProcess("Noop", delay),
		name:        ActNoop,
		change:      func(sim.State) []sim.Field { return nil },
	}
}

// FillPot fills the pot once it has stood under running water for the whole delay.
type FillPot struct {
	sim.BaseProcess
}

func NewFillPot(delay sim.DelayDistribution) FillPot {
	return FillPot{sim.NewBaseProcess("FillPot", delay)}
}

func (p FillPot) ConditionAtStart(h sim.History, _ *rand.Rand) bool {
	return sim.EdgeTriggered(h, filling)
}

func (p FillPot) ConditionOverall(span sim.History) bool {
	return sim.HeldThroughout(span, underRunningWater)
}

func (p FillPot) Effect(s sim.State, _ sim.History) (sim.State, error) {
	return s.With(PotFilled, true)
}

// OverfillPot spills the water when a full pot stays under running water for
// more than Threshold plus up to Jitter ticks.
type OverfillPot struct {
	sim.BaseProcess
	Threshold int
	Jitter    int
}

func NewOverfillPot(delay sim.DelayDistribution, threshold, jitter int) OverfillPot {
	return OverfillPot{BaseProcess: sim.NewBaseProcess("OverfillPot", delay), Threshold: threshold, Jitter: jitter}
}

func (p OverfillPot) ConditionAtStart(h sim.History, rng *rand.Rand) bool {
	return sim.Sustained(h, overflowing, p.Threshold, p.Jitter, rng)
}

func (p OverfillPot) ConditionAtEnd(s sim.State) bool {
	return underRunningWater(s)
}

func (p OverfillPot) Effect(s sim.State, _ sim.History) (sim.State, error) {
	return s.With(WaterSpilled, true)
}

// Boil brings a full pot to the boil after it has sat on a lit stove for more
// than Threshold plus up to Jitter ticks.
type Boil struct {
	sim.BaseProcess
	Threshold int
	Jitter    int
}

func NewBoil(delay sim.DelayDistribution, threshold, jitter int) Boil {
	return Boil{BaseProcess: sim.NewBaseProcess("Boil", delay), Threshold: threshold, Jitter: jitter}
}

func (p Boil) ConditionAtStart(h sim.History, rng *rand.Rand) bool {
	return sim.Sustained(h, heating, p.Threshold, p.Jitter, rng)
}

func (p Boil) ConditionAtEnd(s sim.State) bool {
	return onLitStove(s)
}

func (p Boil) Effect(s sim.State, _ sim.History) (sim.State, error) {
	return s.With(Boiling, true)
}
