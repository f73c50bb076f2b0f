package kitchen

import "github.com/causal-sim/causal-sim/sim"

// IsBoiling is the task goal: boiling water that was never spilled.
func IsBoiling(s sim.State) bool {
	return s.Bool(Boiling) && !s.Bool(WaterSpilled)
}

// spillPenalty makes spilled states sort last. No law dries the floor, so they
// can never reach the goal anyway.
const spillPenalty = 100

// Heuristic counts the milestones still missing on the way to boiling water.
// Each one needs at least one more big step, which keeps it admissible as long
// as no two milestones land on the same tick.
func Heuristic(s sim.State) float64 {
	if IsBoiling(s) {
		return 0
	}
	if s.Bool(WaterSpilled) {
		return spillPenalty
	}
	h := 1.0 // the boil itself
	if !s.Bool(PotFilled) {
		h++
	}
	if s.Str(PotLocation) != Stove {
		h++
	}
	if !s.Bool(StoveOn) {
		h++
	}
	return h
}

// ScriptedPlan is the hand-written fill-and-boil sequence. Waiting is done with
// the noop action; callers keep issuing noop afterwards until the water boils.
func ScriptedPlan() []sim.Action {
	return []sim.Action{
		sim.Act(ActMoveToFaucet),
		sim.Act(ActToggleFaucet),
		sim.Act(ActNoop),
		sim.Act(ActToggleFaucet),
		sim.Act(ActMoveToStove),
		sim.Act(ActToggleStove),
		sim.Act(ActNoop),
	}
}
