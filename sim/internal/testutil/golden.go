// Package testutil provides shared test infrastructure for the simulator.
// It holds the golden timeline types and assertion helpers used by the
// sim/kitchen and sim/planner test packages.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/causal-sim/causal-sim/sim"
)

// GoldenDataset represents the structure of testdata/golden_timelines.json.
type GoldenDataset struct {
	Timelines []GoldenTimeline `json:"timelines"`
}

// GoldenTimeline is one deterministic kitchen run and the landings it must produce.
type GoldenTimeline struct {
	Name string `json:"name"`
	Seed int64  `json:"seed"`

	// Constant delays in ticks; jitter is always zero so runs are exact.
	ActionDelay       int `json:"action_delay"`
	NoopDelay         int `json:"noop_delay"`
	FillDelay         int `json:"fill_delay"`
	OverfillThreshold int `json:"overfill_threshold"`
	BoilThreshold     int `json:"boil_threshold"`

	Plan     []string `json:"plan"`
	Fallback string   `json:"fallback,omitempty"` // played after the plan until Until holds
	Until    string   `json:"until,omitempty"`    // boolean field that ends the run
	MaxSteps int      `json:"max_steps"`

	FinalTick int             `json:"final_tick"`
	Landings  []GoldenLanding `json:"landings"`
}

// GoldenLanding is a change of a non-action field recorded at Tick.
type GoldenLanding struct {
	Tick  int    `json:"tick"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (l GoldenLanding) String() string {
	return fmt.Sprintf("t%d %s=%s", l.Tick, l.Field, l.Value)
}

// LoadGoldenDataset loads the golden timelines from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_timelines.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// Landings extracts every change of a non-action field from h, in tick order.
// History entry i was recorded at tick i-1.
func Landings(h sim.History) []GoldenLanding {
	var out []GoldenLanding
	for i := 1; i < len(h); i++ {
		for _, name := range h[i].Fields() {
			if name == sim.ActionField {
				continue
			}
			prev, _ := h[i-1].Get(name)
			cur, _ := h[i].Get(name)
			if prev != cur {
				out = append(out, GoldenLanding{Tick: i - 1, Field: name, Value: fmt.Sprint(cur)})
			}
		}
	}
	return out
}

// AssertLandings compares landings one by one so a mismatch names the first divergent tick.
func AssertLandings(t *testing.T, name string, want, got []GoldenLanding) {
	t.Helper()
	n := len(want)
	if len(got) < n {
		n = len(got)
	}
	for i := 0; i < n; i++ {
		if want[i] != got[i] {
			t.Errorf("%s: landing %d: got %s, want %s", name, i, got[i], want[i])
			return
		}
	}
	if len(want) != len(got) {
		t.Errorf("%s: got %d landings %v, want %d %v", name, len(got), got, len(want), want)
	}
}
