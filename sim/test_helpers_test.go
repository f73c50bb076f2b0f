package sim

import (
	"math/rand"
	"testing"
)

// flipProcess toggles "light" when the action field reads "flip".
type flipProcess struct {
	BaseProcess
}

func newFlip(delay int) flipProcess {
	return flipProcess{NewBaseProcess("Flip", ConstantDelay{D: delay})}
}

func (p flipProcess) Action() Action { return Act("flip") }

func (p flipProcess) ConditionAtStart(h History, _ *rand.Rand) bool {
	return EdgeTriggered(h, ActionIs("flip"))
}

func (p flipProcess) Effect(s State, _ History) (State, error) {
	return s.Update(Field{"light", !s.Bool("light")}, Field{ActionField, nil})
}

// warmProcess sets "warm" once "light" is on, provided the light stayed on
// the whole time the effect was in flight.
type warmProcess struct {
	BaseProcess
}

func newWarm(delay int) warmProcess {
	return warmProcess{NewBaseProcess("Warm", ConstantDelay{D: delay})}
}

func lightOnCold(s State) bool { return s.Bool("light") && !s.Bool("warm") }

func (p warmProcess) ConditionAtStart(h History, _ *rand.Rand) bool {
	return EdgeTriggered(h, lightOnCold)
}

func (p warmProcess) ConditionOverall(span History) bool {
	return HeldThroughout(span, func(s State) bool { return s.Bool("light") })
}

func (p warmProcess) Effect(s State, _ History) (State, error) {
	return s.With("warm", true)
}

// badProcess writes to a field the state does not declare.
type badProcess struct {
	BaseProcess
}

func (p badProcess) ConditionAtStart(h History, _ *rand.Rand) bool {
	return EdgeTriggered(h, ActionIs("break"))
}

func (p badProcess) Effect(s State, _ History) (State, error) {
	return s.With("missing", true)
}

func lampState(t *testing.T) State {
	t.Helper()
	s, err := NewState(Field{"light", false}, Field{"warm", false})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newLampModel(t *testing.T, seed int64, procs ...CausalProcess) *WorldModel {
	t.Helper()
	if len(procs) == 0 {
		procs = []CausalProcess{newFlip(3), newWarm(4)}
	}
	w, err := NewWorldModel(procs, lampState(t), NewSimulationKey(seed).NewRNG())
	if err != nil {
		t.Fatal(err)
	}
	return w
}
