package planner

import "github.com/causal-sim/causal-sim/sim"

// Policy hands out a plan one action per big step and then waits.
// It owns its remaining plan, so several policies can run side by side.
type Policy struct {
	remaining Plan
	fallback  sim.Action
}

// NewPolicy creates a policy that plays plan and then returns sim.NoAction.
func NewPolicy(plan Plan) *Policy {
	return NewPolicyWithFallback(plan, sim.NoAction)
}

// NewPolicyWithFallback creates a policy that plays plan and then keeps returning fallback.
func NewPolicyWithFallback(plan Plan, fallback sim.Action) *Policy {
	remaining := make(Plan, len(plan))
	copy(remaining, plan)
	return &Policy{remaining: remaining, fallback: fallback}
}

// Next pops the next action, or returns the fallback once the plan is used up.
func (p *Policy) Next() sim.Action {
	if len(p.remaining) == 0 {
		return p.fallback
	}
	a := p.remaining[0]
	p.remaining = p.remaining[1:]
	return a
}

// Remaining returns how many planned actions are left.
func (p *Policy) Remaining() int {
	return len(p.remaining)
}

// Run drives model with the policy until goal holds or maxSteps big steps
// have been taken. It reports whether the goal was reached.
func (p *Policy) Run(model *sim.WorldModel, goal Goal, maxSteps int) (bool, error) {
	for i := 0; i < maxSteps; i++ {
		if goal != nil && goal(model.State()) {
			return true, nil
		}
		if _, err := model.BigStep(p.Next()); err != nil {
			return false, err
		}
	}
	return goal != nil && goal(model.State()), nil
}
