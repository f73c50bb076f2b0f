package kitchen

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causal-sim/causal-sim/sim"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

// fixedConfig removes all randomness so timelines can be asserted tick by tick.
func fixedConfig() Config {
	five := sim.ConstantDelay{D: 5}
	return Config{
		ToggleFaucet:      five,
		ToggleStove:       five,
		MoveToFaucet:      five,
		MoveToStove:       five,
		Noop:              sim.ConstantDelay{D: 20},
		FillPot:           five,
		OverfillPot:       sim.ConstantDelay{D: 1},
		Boil:              sim.ConstantDelay{D: 1},
		OverfillThreshold: 10,
		BoilThreshold:     10,
	}
}

func newWorld(t *testing.T, c Config, seed int64) *sim.WorldModel {
	t.Helper()
	w, err := NewWorld(c, sim.NewSimulationKey(seed))
	require.NoError(t, err)
	return w
}

// runUntilBoiling plays the scripted plan, then keeps waiting with noop.
func runUntilBoiling(t *testing.T, w *sim.WorldModel, maxWaits int) sim.State {
	t.Helper()
	var s sim.State
	var err error
	for _, a := range ScriptedPlan() {
		s, err = w.BigStep(a)
		require.NoError(t, err)
	}
	for i := 0; i < maxWaits && !s.Bool(Boiling); i++ {
		s, err = w.BigStep(sim.Act(ActNoop))
		require.NoError(t, err)
	}
	return s
}

func firstIndex(h sim.History, field string) int {
	for i, s := range h {
		if s.Bool(field) {
			return i
		}
	}
	return -1
}

func TestInitialState(t *testing.T) {
	s := InitialState()
	assert.Equal(t, Table, s.Str(PotLocation))
	for _, f := range []string{Boiling, StoveOn, FaucetOn, PotFilled, WaterSpilled} {
		assert.False(t, s.Bool(f), f)
	}
	assert.Nil(t, s.Action())
}

func TestProcesses_ControllableActions(t *testing.T) {
	var actions []string
	for _, p := range Processes(DefaultConfig()) {
		if c, ok := p.(sim.Controllable); ok {
			actions = append(actions, c.Action().Value.(string))
		}
	}
	assert.Equal(t, []string{ActToggleFaucet, ActToggleStove, ActMoveToFaucet, ActMoveToStove, ActNoop}, actions)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	c := DefaultConfig()
	c.Boil = nil
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.BoilJitter = -1
	assert.Error(t, c.Validate())
}

func TestFillAndBoil_FixedDelays(t *testing.T) {
	w := newWorld(t, fixedConfig(), 1)
	s := runUntilBoiling(t, w, 10)

	assert.True(t, s.Bool(Boiling))
	assert.False(t, s.Bool(WaterSpilled))
	assert.True(t, IsBoiling(s))
	assert.Equal(t, 46, w.T(), "boil lands at tick 45")
}

func TestFillAndBoil_DefaultDelays(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		w := newWorld(t, DefaultConfig(), seed)
		s := runUntilBoiling(t, w, 40)
		assert.True(t, s.Bool(Boiling), "seed %d: water never boiled: %s", seed, s)
	}
}

func TestSpillWhileWaitingAtFaucet(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		seed int64
	}{
		{"fixed delays", fixedConfig(), 1},
		{"default delays seed 1", DefaultConfig(), 1},
		{"default delays seed 2", DefaultConfig(), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t, tt.cfg, tt.seed)
			_, err := w.BigStep(sim.Act(ActMoveToFaucet))
			require.NoError(t, err)
			s, err := w.BigStep(sim.Act(ActToggleFaucet))
			require.NoError(t, err)
			require.True(t, s.Bool(FaucetOn))

			for i := 0; i < 20 && !s.Bool(WaterSpilled); i++ {
				s, err = w.BigStep(sim.Act(ActNoop))
				require.NoError(t, err)
			}
			require.True(t, s.Bool(WaterSpilled))

			h := w.History()
			filled, spilled := firstIndex(h, PotFilled), firstIndex(h, WaterSpilled)
			require.NotEqual(t, -1, filled)
			assert.Less(t, filled, spilled, "spill must come strictly after the pot filled")
		})
	}
}

func TestSpill_FixedDelaysTimeline(t *testing.T) {
	w := newWorld(t, fixedConfig(), 1)
	_, err := w.BigStep(sim.Act(ActMoveToFaucet))
	require.NoError(t, err)
	_, err = w.BigStep(sim.Act(ActToggleFaucet))
	require.NoError(t, err)

	s, err := w.BigStep(sim.Act(ActNoop))
	require.NoError(t, err)
	assert.True(t, s.Bool(PotFilled), "fill lands at tick 16")
	assert.Equal(t, 17, w.T())

	s, err = w.BigStep(sim.Act(ActNoop))
	require.NoError(t, err)
	assert.True(t, s.Bool(WaterSpilled), "more than 10 ticks of overflow spill at tick 27")
	assert.Equal(t, 28, w.T())
}

func TestFillPot_DroppedWhenPotLeavesFaucet(t *testing.T) {
	c := fixedConfig()
	c.MoveToStove = sim.ConstantDelay{D: 1}
	w := newWorld(t, c, 1)
	_, err := w.BigStep(sim.Act(ActMoveToFaucet))
	require.NoError(t, err)
	_, err = w.BigStep(sim.Act(ActToggleFaucet)) // fill due in 5 ticks
	require.NoError(t, err)
	s, err := w.BigStep(sim.Act(ActMoveToStove)) // pot leaves after 1 tick
	require.NoError(t, err)
	require.Equal(t, Stove, s.Str(PotLocation))

	for i := 0; i < 10; i++ {
		require.NoError(t, w.SmallStep(sim.NoAction))
	}
	assert.False(t, w.State().Bool(PotFilled), "the pot must stay under running water the whole time")
	assert.Equal(t, 0, w.Pending())
}

func TestHeuristic(t *testing.T) {
	s := InitialState()
	assert.Equal(t, 4.0, Heuristic(s))

	s, err := s.Update(
		sim.Field{Name: PotFilled, Value: true},
		sim.Field{Name: PotLocation, Value: Stove},
		sim.Field{Name: StoveOn, Value: true},
	)
	require.NoError(t, err)
	assert.Equal(t, 1.0, Heuristic(s))

	boiling, err := s.With(Boiling, true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, Heuristic(boiling))

	spilled, err := s.With(WaterSpilled, true)
	require.NoError(t, err)
	assert.Equal(t, float64(spillPenalty), Heuristic(spilled))
}
