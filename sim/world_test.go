package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoProcess fires every tick and never changes anything.
type echoProcess struct {
	BaseProcess
}

func (p echoProcess) ConditionAtStart(History, *rand.Rand) bool { return true }
func (p echoProcess) Effect(s State, _ History) (State, error)  { return s, nil }

func TestNewWorldModel_Validation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := lampState(t)
	tests := []struct {
		name  string
		procs []CausalProcess
		init  State
		rng   *rand.Rand
	}{
		{"nil rng", []CausalProcess{newFlip(1)}, s, nil},
		{"zero state", []CausalProcess{newFlip(1)}, State{}, rng},
		{"nil process", []CausalProcess{nil}, s, rng},
		{"duplicate names", []CausalProcess{newFlip(1), newFlip(2)}, s, rng},
		{"nil delay", []CausalProcess{flipProcess{BaseProcess{ProcessName: "Flip"}}}, s, rng},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWorldModel(tt.procs, tt.init, tt.rng)
			var cfgErr *ConfigError
			assert.True(t, errors.As(err, &cfgErr), "want *ConfigError, got %v", err)
		})
	}
}

func TestWorldModel_SmallStep_AppendsAndAdvances(t *testing.T) {
	w := newLampModel(t, 1)
	require.Equal(t, 0, w.T())
	require.Equal(t, 1, w.HistoryLen())

	require.NoError(t, w.SmallStep(NoAction))
	assert.Equal(t, 1, w.T())
	assert.Equal(t, 2, w.HistoryLen())
	assert.Equal(t, 0, w.Pending())
}

func TestWorldModel_SmallStep_ActionOnlyMarksState(t *testing.T) {
	w := newLampModel(t, 1)
	require.NoError(t, w.SmallStep(Act("flip")))

	assert.Equal(t, "flip", w.State().Action())
	assert.False(t, w.State().Bool("light"), "the effect lands later")
	assert.Equal(t, []PendingEvent{{At: 3, Origin: 0, Process: "Flip"}}, w.PendingEvents())
}

func TestWorldModel_EdgeTriggeredSchedulesOnce(t *testing.T) {
	w := newLampModel(t, 1)
	require.NoError(t, w.SmallStep(Act("flip")))
	// the action lingers on the state for the next ticks
	require.NoError(t, w.SmallStep(NoAction))
	require.NoError(t, w.SmallStep(NoAction))
	assert.Equal(t, "flip", w.State().Action())
	assert.Equal(t, 1, w.Pending(), "a held condition must not re-trigger")
}

func TestWorldModel_EffectsLandOnSchedule(t *testing.T) {
	w := newLampModel(t, 1)
	require.NoError(t, w.SmallStep(Act("flip"))) // t=0, lands at 3
	for w.T() < 3 {
		require.NoError(t, w.SmallStep(NoAction))
		assert.False(t, w.State().Bool("light"))
	}
	require.NoError(t, w.SmallStep(NoAction)) // t=3
	assert.True(t, w.State().Bool("light"))
	assert.Nil(t, w.State().Action(), "the effect clears the consumed action")
	assert.Equal(t, []PendingEvent{{At: 7, Origin: 3, Process: "Warm"}}, w.PendingEvents())
}

func TestWorldModel_BigStep_FastForwardsToChange(t *testing.T) {
	w := newLampModel(t, 1)

	s, err := w.BigStep(Act("flip"))
	require.NoError(t, err)
	assert.True(t, s.Bool("light"))
	assert.False(t, s.Bool("warm"))
	assert.Equal(t, 4, w.T())

	s, err = w.BigStep(NoAction)
	require.NoError(t, err)
	assert.True(t, s.Bool("warm"))
	assert.Equal(t, 8, w.T())
	assert.Equal(t, 9, w.HistoryLen())
}

func TestWorldModel_BigStep_StagnationGuard(t *testing.T) {
	w := newLampModel(t, 1)
	before := w.State()

	s, err := w.BigStep(NoAction)
	require.NoError(t, err)
	assert.True(t, s.Equal(before), "nothing can change without an action")
	assert.Equal(t, 1, w.T())
}

func TestWorldModel_BigStep_ActionWithoutConsequence(t *testing.T) {
	w := newLampModel(t, 1)
	s, err := w.BigStep(Act("dance"))
	require.NoError(t, err)
	assert.Equal(t, "dance", s.Action())
	assert.Equal(t, 1, w.T(), "no process reacts, so the big step ends after one tick")
}

func TestWorldModel_BigStep_NeverReturnsPreCallStateWhileEventsPending(t *testing.T) {
	w := newLampModel(t, 1)
	_, err := w.BigStep(Act("flip"))
	require.NoError(t, err)
	require.Positive(t, w.Pending())
	before := w.State()
	s, err := w.BigStep(NoAction)
	require.NoError(t, err)
	assert.False(t, s.Equal(before))
}

func TestWorldModel_ContinuityRevalidation(t *testing.T) {
	w := newLampModel(t, 1, newFlip(1), newWarm(4))

	_, err := w.BigStep(Act("flip")) // light on at t=1, warm due at 5
	require.NoError(t, err)
	require.True(t, w.State().Bool("light"))

	_, err = w.BigStep(Act("flip")) // light off again at t=3
	require.NoError(t, err)
	require.False(t, w.State().Bool("light"))

	for w.T() <= 5 {
		require.NoError(t, w.SmallStep(NoAction))
	}
	assert.False(t, w.State().Bool("warm"), "light went off before the effect landed")
	assert.Equal(t, 0, w.Pending(), "the dropped effect is consumed")
}

func TestWorldModel_UnknownActionField(t *testing.T) {
	w := newLampModel(t, 1)
	err := w.SmallStep(Do("door", "open"))
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "door", cfgErr.Field)
}

func TestWorldModel_EffectError(t *testing.T) {
	w := newLampModel(t, 1, badProcess{NewBaseProcess("Bad", ConstantDelay{D: 1})})
	_, err := w.BigStep(Act("break"))
	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr), "got %v", err)
}

func TestWorldModel_BigStep_TickLimit(t *testing.T) {
	procs := []CausalProcess{echoProcess{NewBaseProcess("Echo", ConstantDelay{D: 1})}}
	w, err := NewWorldModel(procs, lampState(t), rand.New(rand.NewSource(1)), WithMaxBigStepTicks(50))
	require.NoError(t, err)

	_, err = w.BigStep(NoAction)
	assert.ErrorIs(t, err, ErrTickLimit)
	assert.Equal(t, 50, w.T())
}

func TestWorldModel_CloneIsIndependent(t *testing.T) {
	w := newLampModel(t, 1)
	require.NoError(t, w.SmallStep(Act("flip")))
	state, hlen, pending, tick := w.State(), w.HistoryLen(), w.PendingEvents(), w.T()

	c := w.Clone()
	for i := 0; i < 10; i++ {
		require.NoError(t, c.SmallStep(NoAction))
	}
	_, err := c.BigStep(Act("flip"))
	require.NoError(t, err)

	assert.True(t, w.State().Equal(state))
	assert.Equal(t, hlen, w.HistoryLen())
	assert.Equal(t, pending, w.PendingEvents())
	assert.Equal(t, tick, w.T())
	assert.NotEqual(t, w.HistoryLen(), c.HistoryLen())
}

func TestWorldModel_SameKeySameHistory(t *testing.T) {
	run := func() History {
		procs := []CausalProcess{
			flipProcess{NewBaseProcess("Flip", GaussianDelay{Mean: 5, StdDev: 2})},
			warmProcess{NewBaseProcess("Warm", GaussianDelay{Mean: 5, StdDev: 2})},
		}
		w, err := NewWorldModel(procs, lampState(t), NewSimulationKey(99).NewRNG())
		require.NoError(t, err)
		for i := 0; i < 4; i++ {
			_, err := w.BigStep(Act("flip"))
			require.NoError(t, err)
		}
		return w.History()
	}
	a, b := run(), run()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.True(t, a[i].Equal(b[i]), "entry %d differs", i)
	}
}
