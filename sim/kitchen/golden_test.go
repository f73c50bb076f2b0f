package kitchen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/causal-sim/causal-sim/sim"
	"github.com/causal-sim/causal-sim/sim/internal/testutil"
)

func goldenConfig(tl testutil.GoldenTimeline) Config {
	action := sim.ConstantDelay{D: tl.ActionDelay}
	return Config{
		ToggleFaucet:      action,
		ToggleStove:       action,
		MoveToFaucet:      action,
		MoveToStove:       action,
		Noop:              sim.ConstantDelay{D: tl.NoopDelay},
		FillPot:           sim.ConstantDelay{D: tl.FillDelay},
		OverfillPot:       sim.ConstantDelay{D: 1},
		Boil:              sim.ConstantDelay{D: 1},
		OverfillThreshold: tl.OverfillThreshold,
		BoilThreshold:     tl.BoilThreshold,
	}
}

func goldenAction(name string) sim.Action {
	if name == "" || name == "wait" {
		return sim.NoAction
	}
	return sim.Act(name)
}

func TestGoldenTimelines(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Timelines)

	for _, tl := range dataset.Timelines {
		t.Run(tl.Name, func(t *testing.T) {
			w := newWorld(t, goldenConfig(tl), tl.Seed)

			steps := 0
			for _, name := range tl.Plan {
				_, err := w.BigStep(goldenAction(name))
				require.NoError(t, err)
				steps++
			}
			for tl.Until != "" && !w.State().Bool(tl.Until) && steps < tl.MaxSteps {
				_, err := w.BigStep(goldenAction(tl.Fallback))
				require.NoError(t, err)
				steps++
			}

			if w.T() != tl.FinalTick {
				t.Errorf("final tick: got %d, want %d", w.T(), tl.FinalTick)
			}
			testutil.AssertLandings(t, tl.Name, tl.Landings, testutil.Landings(w.History()))
		})
	}
}
