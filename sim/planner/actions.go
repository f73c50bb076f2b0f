package planner

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/causal-sim/causal-sim/sim"
)

// Plan is a sequence of actions, one per big step.
type Plan []sim.Action

// Goal decides whether a state satisfies the search objective.
type Goal func(sim.State) bool

// Heuristic estimates the remaining big steps from a state. It must be >= 0;
// admissibility is the caller's responsibility.
type Heuristic func(sim.State) float64

// ZeroHeuristic turns A* into uniform-cost search.
func ZeroHeuristic(sim.State) float64 { return 0 }

// extend returns a new plan with a appended, never sharing the backing array.
func (p Plan) extend(a sim.Action) Plan {
	out := make(Plan, len(p)+1)
	copy(out, p)
	out[len(p)] = a
	return out
}

func (p Plan) String() string {
	parts := make([]string, len(p))
	for i, a := range p {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Apply clones model and rolls the clone forward one big step under a.
// The original model is never touched.
func Apply(model *sim.WorldModel, a sim.Action) (*sim.WorldModel, sim.State, error) {
	clone := model.Clone()
	s, err := clone.BigStep(a)
	if err != nil {
		return nil, s, fmt.Errorf("big step %s at tick %d: %w", a, model.T(), err)
	}
	return clone, s, nil
}

// Actions lists the action of every controllable process of model, in process order.
func Actions(model *sim.WorldModel) []sim.Action {
	var out []sim.Action
	for _, p := range model.Processes() {
		if c, ok := p.(sim.Controllable); ok {
			out = append(out, c.Action())
		}
	}
	return out
}

// AvailableActions returns the actions worth expanding from model: waiting,
// plus each controllable action whose process would trigger if the action were
// recorded on the next small step. Actions that could never trigger, such as
// re-issuing one that is still pending, are pruned. The check runs on a
// scratch random source so the model's stream is not advanced.
func AvailableActions(model *sim.WorldModel) ([]sim.Action, error) {
	out := []sim.Action{sim.NoAction}
	h := model.History()
	last := h.Last()
	scratch := rand.New(rand.NewSource(0))
	for _, p := range model.Processes() {
		c, ok := p.(sim.Controllable)
		if !ok {
			continue
		}
		a := c.Action()
		next, err := a.Apply(last)
		if err != nil {
			return nil, err
		}
		if c.ConditionAtStart(h.WithNext(next), scratch) {
			out = append(out, a)
		}
	}
	return out, nil
}
