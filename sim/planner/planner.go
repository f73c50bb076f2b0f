package planner

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/causal-sim/causal-sim/sim"
	"github.com/causal-sim/causal-sim/sim/trace"
)

// Algorithm names, also used as metric labels.
const (
	AlgorithmBFS   = "bfs"
	AlgorithmAStar = "astar"
)

// validAlgorithms maps accepted algorithm names.
var validAlgorithms = map[string]bool{
	AlgorithmBFS:   true,
	AlgorithmAStar: true,
}

// IsValidAlgorithm reports whether name is a recognized planner algorithm.
func IsValidAlgorithm(name string) bool {
	return validAlgorithms[name]
}

// Planner runs forward searches over a WorldModel.
//
// Thread-safety: NOT thread-safe. Searches draw from the model's shared random source.
type Planner struct {
	budget  Budget
	metrics *Metrics
	trace   *trace.SearchTrace
}

// Option configures a Planner.
type Option func(*Planner)

// WithBudget bounds every search run by the planner.
func WithBudget(b Budget) Option {
	return func(p *Planner) { p.budget = b }
}

// WithMetrics records search counters into m.
func WithMetrics(m *Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// WithTrace records popped nodes into st when its level asks for it.
func WithTrace(st *trace.SearchTrace) Option {
	return func(p *Planner) { p.trace = st }
}

// New creates a Planner with DefaultBudget and no instrumentation.
func New(opts ...Option) *Planner {
	p := &Planner{budget: DefaultBudget()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanBFS runs a breadth-first search with the default budget.
func PlanBFS(model *sim.WorldModel, goal Goal) (Plan, bool, error) {
	return New().BFS(context.Background(), model, goal)
}

// PlanAStar runs an A* search with the default budget.
func PlanAStar(model *sim.WorldModel, goal Goal, h Heuristic) (Plan, bool, error) {
	return New().AStar(context.Background(), model, goal, h)
}

// BFS explores action sequences level by level and returns the first plan
// whose resulting state satisfies goal, which has the fewest big steps.
// Nodes are never merged: two models with equal states may still differ in
// their pending effects. found is false when the search space or the budget is
// exhausted without reaching goal, so an unreachable goal relies on the budget
// to terminate.
func (p *Planner) BFS(ctx context.Context, model *sim.WorldModel, goal Goal) (Plan, bool, error) {
	return p.search(ctx, AlgorithmBFS, model, goal, nil, &fifo{})
}

// AStar pops nodes by cost plus heuristic, breaking ties by cost and then by
// insertion order. Every action costs one. The first visit of a signature is
// treated as final, so optimality needs a consistent heuristic.
func (p *Planner) AStar(ctx context.Context, model *sim.WorldModel, goal Goal, h Heuristic) (Plan, bool, error) {
	if h == nil {
		h = ZeroHeuristic
	}
	return p.search(ctx, AlgorithmAStar, model, goal, h, newNodeHeap())
}

func (p *Planner) search(ctx context.Context, algo string, model *sim.WorldModel, goal Goal, h Heuristic, open frontier) (Plan, bool, error) {
	if model == nil || goal == nil {
		return nil, false, &sim.ConfigError{Reason: "planner requires a model and a goal"}
	}
	var seq uint64
	priority := func(s sim.State, cost int) (float64, error) {
		if h == nil {
			return float64(cost), nil
		}
		v := h(s)
		if v < 0 || math.IsNaN(v) {
			return 0, &sim.ConfigError{Reason: fmt.Sprintf("heuristic returned %g for %s", v, s)}
		}
		return float64(cost) + v, nil
	}

	f, err := priority(model.State(), 0)
	if err != nil {
		return nil, false, err
	}
	open.push(&node{model: model.Clone(), f: f, seq: seq})
	seq++
	p.metrics.enqueued(algo)

	visited := make(map[string]bool)
	expanded := 0
	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			p.outcome(algo, OutcomeCanceled)
			return nil, false, err
		}
		n := open.pop()
		s := n.model.State()
		record := trace.ExpansionRecord{
			Seq:       n.seq,
			Depth:     n.cost,
			Priority:  n.f,
			Tick:      n.model.T(),
			Signature: s.Signature(),
			Plan:      n.plan.String(),
		}

		if goal(s) {
			record.Goal = true
			p.record(record)
			p.outcome(algo, OutcomeFound)
			logrus.Infof("[%s] plan of %d steps found after %d expansions", algo, len(n.plan), expanded)
			return n.plan, true, nil
		}

		// Only A* discards revisited signatures. BFS keeps every node.
		if algo == AlgorithmAStar {
			if visited[record.Signature] {
				record.Duplicate = true
				p.record(record)
				p.metrics.duplicate(algo)
				continue
			}
			visited[record.Signature] = true
		}

		if p.budget.nodesExhausted(expanded) {
			p.record(record)
			p.outcome(algo, OutcomeExhausted)
			logrus.Warnf("[%s] node budget of %d exhausted, no plan", algo, p.budget.MaxNodes)
			return nil, false, nil
		}
		if p.budget.tooDeep(n.cost) {
			p.record(record)
			continue
		}

		actions, err := AvailableActions(n.model)
		if err != nil {
			p.outcome(algo, OutcomeError)
			return nil, false, err
		}
		expanded++
		p.metrics.expanded(algo)
		for _, a := range actions {
			child, cs, err := Apply(n.model, a)
			if err != nil {
				p.outcome(algo, OutcomeError)
				return nil, false, err
			}
			f, err := priority(cs, n.cost+1)
			if err != nil {
				p.outcome(algo, OutcomeError)
				return nil, false, err
			}
			open.push(&node{model: child, plan: n.plan.extend(a), cost: n.cost + 1, f: f, seq: seq})
			seq++
			p.metrics.enqueued(algo)
			record.Children++
		}
		p.record(record)
		logrus.Debugf("[%s] expanded depth=%d f=%g %s -> %d children", algo, n.cost, n.f, record.Signature, record.Children)
	}

	p.outcome(algo, OutcomeNoPlan)
	logrus.Infof("[%s] search space exhausted after %d expansions, no plan", algo, expanded)
	return nil, false, nil
}

func (p *Planner) record(r trace.ExpansionRecord) {
	if p.trace.Enabled() {
		p.trace.RecordExpansion(r)
	}
}

func (p *Planner) outcome(algo, outcome string) {
	p.metrics.search(algo, outcome)
}
