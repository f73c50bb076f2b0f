package sim

import (
	"math/rand"
)

// CausalProcess is one cause-effect law of the world: a trigger condition and a
// state transformation that lands after a sampled delay.
// Implementations must be immutable; a single instance is shared by a
// WorldModel and every clone the planners make of it.
type CausalProcess interface {
	Name() string
	Delay() DelayDistribution
	// ConditionAtStart decides, against the history just extended by the
	// current tick, whether the process is newly triggered.
	ConditionAtStart(h History, rng *rand.Rand) bool
	// ConditionOverall re-validates, when the effect lands, that the cause
	// held over span (the trigger entry through the latest entry).
	ConditionOverall(span History) bool
	// ConditionAtEnd checks the state the effect is about to be applied to.
	ConditionAtEnd(s State) bool
	Effect(s State, span History) (State, error)
}

// Controllable is a process that is started by an agent action.
// Planners build their action set from the controllable processes of a model.
type Controllable interface {
	CausalProcess
	Action() Action
}

// BaseProcess carries the name and delay of a process and the permissive
// defaults for the optional conditions. Embed it in concrete processes.
type BaseProcess struct {
	ProcessName  string
	Distribution DelayDistribution
}

// NewBaseProcess creates a BaseProcess.
func NewBaseProcess(name string, delay DelayDistribution) BaseProcess {
	return BaseProcess{ProcessName: name, Distribution: delay}
}

func (b BaseProcess) Name() string                  { return b.ProcessName }
func (b BaseProcess) Delay() DelayDistribution      { return b.Distribution }
func (b BaseProcess) ConditionOverall(History) bool { return true }
func (b BaseProcess) ConditionAtEnd(State) bool     { return true }

// EdgeTriggered reports whether check holds on the latest entry of h and did not
// hold on the one before it (or there is none). A condition that stays true
// across consecutive ticks therefore fires once.
func EdgeTriggered(h History, check func(State) bool) bool {
	if len(h) == 0 || !check(h.Last()) {
		return false
	}
	prev, ok := h.Prev()
	return !ok || !check(prev)
}

// RunLength counts how many of the most recent entries of h satisfy check,
// scanning backward to the most recent failure.
func RunLength(h History, check func(State) bool) int {
	n := 0
	for i := len(h) - 1; i >= 0; i-- {
		if !check(h[i]) {
			break
		}
		n++
	}
	return n
}

// Sustained reports whether check has held for more than threshold plus a
// jitter drawn uniformly from [0, jitter] of the most recent ticks.
func Sustained(h History, check func(State) bool, threshold, jitter int, rng *rand.Rand) bool {
	run := RunLength(h, check)
	if run == 0 {
		return false
	}
	j := 0
	if jitter > 0 {
		j = rng.Intn(jitter + 1)
	}
	return run > threshold+j
}

// HeldThroughout reports whether check holds on every entry of span.
func HeldThroughout(span History, check func(State) bool) bool {
	for _, s := range span {
		if !check(s) {
			return false
		}
	}
	return true
}

// ActionIs returns a check matching states whose pending action equals name.
func ActionIs(name string) func(State) bool {
	return func(s State) bool {
		return s.Action() == name
	}
}
