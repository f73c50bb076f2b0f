package sim

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultMaxBigStepTicks caps how many small steps one BigStep may take while
// events are still pending.
const DefaultMaxBigStepTicks = 100000

// WorldModel is the discrete-event engine. It owns the current state, the
// history, the schedule of in-flight effects and the tick counter.
//
// Thread-safety: NOT thread-safe. Search explores alternatives through Clone.
type WorldModel struct {
	processes []CausalProcess // shared, immutable
	rng       *rand.Rand      // shared by all clones: one ordered stream of draws

	state    State
	history  History
	schedule Schedule
	t        int

	maxBigStepTicks int
}

// Option configures a WorldModel.
type Option func(*WorldModel)

// WithMaxBigStepTicks overrides DefaultMaxBigStepTicks. n <= 0 disables the cap.
func WithMaxBigStepTicks(n int) Option {
	return func(w *WorldModel) {
		w.maxBigStepTicks = n
	}
}

// NewWorldModel creates a model at tick 0 whose history holds only initial.
func NewWorldModel(processes []CausalProcess, initial State, rng *rand.Rand, opts ...Option) (*WorldModel, error) {
	if rng == nil {
		return nil, &ConfigError{Reason: "world model requires a random source"}
	}
	if initial.IsZero() {
		return nil, &ConfigError{Reason: "initial state has no fields"}
	}
	seen := make(map[string]bool, len(processes))
	for i, p := range processes {
		if p == nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("process %d is nil", i)}
		}
		if p.Name() == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("process %d has no name", i)}
		}
		if seen[p.Name()] {
			return nil, &ConfigError{Field: p.Name(), Reason: "duplicate process"}
		}
		if p.Delay() == nil {
			return nil, &ConfigError{Field: p.Name(), Reason: "process has no delay distribution"}
		}
		if c, ok := p.(Controllable); ok {
			if a := c.Action(); !a.IsNone() && !initial.Has(a.Field) {
				return nil, &ConfigError{Field: a.Field, Reason: "process " + p.Name() + " acts on unknown state field"}
			}
		}
		seen[p.Name()] = true
	}
	procs := make([]CausalProcess, len(processes))
	copy(procs, processes)
	w := &WorldModel{
		processes:       procs,
		rng:             rng,
		state:           initial,
		history:         History{initial},
		schedule:        make(Schedule),
		t:               0,
		maxBigStepTicks: DefaultMaxBigStepTicks,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// State returns the current state.
func (w *WorldModel) State() State { return w.state }

// T returns the current tick.
func (w *WorldModel) T() int { return w.t }

// History returns a copy of the history.
func (w *WorldModel) History() History { return w.history.Clone() }

// HistoryLen returns the number of history entries without copying them.
func (w *WorldModel) HistoryLen() int { return len(w.history) }

// Processes returns the process list. The processes themselves are shared.
func (w *WorldModel) Processes() []CausalProcess {
	out := make([]CausalProcess, len(w.processes))
	copy(out, w.processes)
	return out
}

// RNG returns the shared random source.
func (w *WorldModel) RNG() *rand.Rand { return w.rng }

// Pending returns the number of in-flight events.
func (w *WorldModel) Pending() int { return w.schedule.Len() }

// PendingEvents lists the in-flight events ordered by landing tick.
func (w *WorldModel) PendingEvents() []PendingEvent { return w.schedule.Pending() }

// Clone deep-copies state, history and schedule. Processes and the random
// source are shared, so every draw still comes from one ordered stream.
func (w *WorldModel) Clone() *WorldModel {
	return &WorldModel{
		processes:       w.processes,
		rng:             w.rng,
		state:           w.state,
		history:         w.history.Clone(),
		schedule:        w.schedule.Clone(),
		t:               w.t,
		maxBigStepTicks: w.maxBigStepTicks,
	}
}

// historyIndex maps the tick a small step ran at to the history entry it appended.
func historyIndex(tick int) int {
	return tick + 1
}

// SmallStep advances the world by exactly one tick.
func (w *WorldModel) SmallStep(a Action) error {
	before := w.state

	// 1. the action only marks the state; processes react to it
	if !a.IsNone() {
		next, err := a.Apply(w.state)
		if err != nil {
			return fmt.Errorf("applying %s at tick %d: %w", a, w.t, err)
		}
		w.state = next
		logrus.Debugf("[tick %07d] %s", w.t, a)
	}

	// 2. land the effects due now, in insertion order
	for _, ev := range w.schedule.Take(w.t) {
		next, err := w.land(ev)
		if err != nil {
			return err
		}
		w.state = next
	}

	// 3. record
	w.history = append(w.history, w.state)

	// 4. schedule processes that just became true
	for _, p := range w.processes {
		if !p.ConditionAtStart(w.history, w.rng) {
			continue
		}
		at := w.t + p.Delay().Sample(w.rng)
		w.schedule.Add(at, ScheduledEvent{Process: p, Origin: w.t})
		logrus.Debugf("[tick %07d] %s.effect scheduled for %d", w.t, p.Name(), at)
	}

	if !w.state.Equal(before) {
		logrus.Debugf("[tick %07d] state changes to %s", w.t, strings.Join(before.Diff(w.state), ", "))
	}

	w.t++
	return nil
}

// land applies one scheduled effect, or leaves the state unchanged when the
// cause did not hold throughout the interval since the trigger.
func (w *WorldModel) land(ev ScheduledEvent) (State, error) {
	start := historyIndex(ev.Origin)
	if start > len(w.history) {
		start = len(w.history)
	}
	span := w.history[start:]
	if !ev.Process.ConditionOverall(span) || !ev.Process.ConditionAtEnd(w.state) {
		logrus.Debugf("[tick %07d] %s.effect dropped: cause did not persist since tick %d", w.t, ev.Process.Name(), ev.Origin)
		return w.state, nil
	}
	next, err := ev.Process.Effect(w.state, span)
	if err != nil {
		return w.state, fmt.Errorf("effect of %s at tick %d: %w", ev.Process.Name(), w.t, err)
	}
	return next, nil
}

// BigStep takes small steps, supplying a on the first one only, until the
// state differs from the state right after the action was consumed. It
// returns early when nothing is in flight and nothing changed, since no
// further change is possible without a new action.
func (w *WorldModel) BigStep(a Action) (State, error) {
	baseline := w.state
	if err := w.SmallStep(a); err != nil {
		return w.state, err
	}
	if !a.IsNone() {
		baseline = w.state
	}
	ticks := 1
	for w.state.Equal(baseline) {
		if w.schedule.Len() == 0 {
			logrus.Debugf("[tick %07d] big step stagnated: no pending events", w.t)
			return w.state, nil
		}
		if w.maxBigStepTicks > 0 && ticks >= w.maxBigStepTicks {
			return w.state, fmt.Errorf("%w after %d ticks (%d events pending)", ErrTickLimit, ticks, w.schedule.Len())
		}
		if err := w.SmallStep(NoAction); err != nil {
			return w.state, err
		}
		ticks++
	}
	logrus.Debugf("[tick %07d] big step done: %s", w.t-1, w.state)
	return w.state, nil
}
