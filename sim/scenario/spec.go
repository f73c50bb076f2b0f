// Package scenario loads YAML scenario files: the kitchen parameters, the
// initial state, the goal and how to plan for it.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/causal-sim/causal-sim/sim"
	"github.com/causal-sim/causal-sim/sim/kitchen"
	"github.com/causal-sim/causal-sim/sim/planner"
	"github.com/causal-sim/causal-sim/sim/trace"
)

// ScenarioSpec is the top-level scenario configuration.
// Loaded from YAML via LoadScenarioSpec(path).
type ScenarioSpec struct {
	Version         string         `yaml:"version"`
	Seed            int64          `yaml:"seed"`
	World           string         `yaml:"world"`
	Initial         map[string]any `yaml:"initial,omitempty"` // overrides of the world's initial state
	Delays          DelaysSpec     `yaml:"delays"`
	Thresholds      ThresholdsSpec `yaml:"thresholds"`
	Goal            GoalSpec       `yaml:"goal"`
	Planner         PlannerSpec    `yaml:"planner"`
	Plan            []string       `yaml:"plan,omitempty"`     // scripted action names for `run`
	Fallback        string         `yaml:"fallback,omitempty"` // action repeated once the plan runs out
	MaxBigStepTicks int            `yaml:"max_big_step_ticks,omitempty"`
}

// DelaysSpec overrides the delay of each kitchen law. Omitted entries keep the default.
type DelaysSpec struct {
	ToggleFaucet *sim.DelaySpec `yaml:"toggle_faucet,omitempty"`
	ToggleStove  *sim.DelaySpec `yaml:"toggle_stove,omitempty"`
	MoveToFaucet *sim.DelaySpec `yaml:"move_to_faucet,omitempty"`
	MoveToStove  *sim.DelaySpec `yaml:"move_to_stove,omitempty"`
	Noop         *sim.DelaySpec `yaml:"noop,omitempty"`
	FillPot      *sim.DelaySpec `yaml:"fill_pot,omitempty"`
	OverfillPot  *sim.DelaySpec `yaml:"overfill_pot,omitempty"`
	Boil         *sim.DelaySpec `yaml:"boil,omitempty"`
}

// ThresholdsSpec overrides the sustained-trigger thresholds.
type ThresholdsSpec struct {
	Overfill       *int `yaml:"overfill,omitempty"`
	OverfillJitter *int `yaml:"overfill_jitter,omitempty"`
	Boil           *int `yaml:"boil,omitempty"`
	BoilJitter     *int `yaml:"boil_jitter,omitempty"`
}

// GoalSpec names the target. With no fields the goal is boiling, unspilled water.
type GoalSpec struct {
	Fields    map[string]any `yaml:"fields,omitempty"`
	Heuristic string         `yaml:"heuristic,omitempty"`
}

// PlannerSpec configures the search run by `plan`.
type PlannerSpec struct {
	Algorithm string `yaml:"algorithm,omitempty"`
	MaxNodes  int    `yaml:"max_nodes,omitempty"`
	MaxDepth  int    `yaml:"max_depth,omitempty"`
	Trace     string `yaml:"trace,omitempty"`
}

// Heuristic names.
const (
	HeuristicZero       = "zero"
	HeuristicMilestones = "milestones"
)

// Valid value registries.
var (
	validWorlds = map[string]bool{
		"": true, "kitchen": true,
	}
	validHeuristics = map[string]bool{
		"": true, HeuristicZero: true, HeuristicMilestones: true,
	}
	// waitNames are the plan entries that mean "take no action".
	waitNames = map[string]bool{
		"none": true, "wait": true,
	}
)

// LoadScenarioSpec reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenarioSpec(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenarioSpec(data)
}

// ParseScenarioSpec parses scenario YAML with strict field checking.
func ParseScenarioSpec(data []byte) (*ScenarioSpec, error) {
	var spec ScenarioSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if spec.Version == "" {
		spec.Version = "1"
	}
	return &spec, nil
}

// Default returns the reference scenario: the default kitchen, boiling water
// as the goal and A* with the milestone heuristic.
func Default() *ScenarioSpec {
	plan := make([]string, 0, len(kitchen.ScriptedPlan()))
	for _, a := range kitchen.ScriptedPlan() {
		plan = append(plan, fmt.Sprint(a.Value))
	}
	budget := planner.DefaultBudget()
	return &ScenarioSpec{
		Version: "1",
		Seed:    42,
		World:   "kitchen",
		Goal:    GoalSpec{Heuristic: HeuristicMilestones},
		Planner: PlannerSpec{
			Algorithm: planner.AlgorithmAStar,
			MaxNodes:  budget.MaxNodes,
			MaxDepth:  budget.MaxDepth,
		},
		Plan:     plan,
		Fallback: kitchen.ActNoop,
	}
}

// Validate checks that all fields in the spec are valid.
func (s *ScenarioSpec) Validate() error {
	if !validWorlds[s.World] {
		return fmt.Errorf("unknown world %q; valid: kitchen", s.World)
	}
	if _, err := s.KitchenConfig(); err != nil {
		return err
	}
	if _, err := s.InitialState(); err != nil {
		return err
	}
	if err := s.validateGoal(); err != nil {
		return err
	}
	if s.Planner.Algorithm != "" && !planner.IsValidAlgorithm(s.Planner.Algorithm) {
		return fmt.Errorf("planner: unknown algorithm %q; valid: bfs, astar", s.Planner.Algorithm)
	}
	if s.Planner.MaxNodes < 0 {
		return fmt.Errorf("planner: max_nodes must be non-negative, got %d", s.Planner.MaxNodes)
	}
	if s.Planner.MaxDepth < 0 {
		return fmt.Errorf("planner: max_depth must be non-negative, got %d", s.Planner.MaxDepth)
	}
	if !trace.IsValidTraceLevel(s.Planner.Trace) {
		return fmt.Errorf("planner: unknown trace level %q; valid: none, expansions", s.Planner.Trace)
	}
	if s.MaxBigStepTicks < 0 {
		return fmt.Errorf("max_big_step_ticks must be non-negative, got %d", s.MaxBigStepTicks)
	}
	if _, err := s.ScriptedPlan(); err != nil {
		return err
	}
	if _, err := s.FallbackAction(); err != nil {
		return err
	}
	return nil
}

func (s *ScenarioSpec) validateGoal() error {
	if !validHeuristics[s.Goal.Heuristic] {
		return fmt.Errorf("goal: unknown heuristic %q; valid: zero, milestones", s.Goal.Heuristic)
	}
	if s.Goal.Heuristic == HeuristicMilestones && len(s.Goal.Fields) > 0 {
		return fmt.Errorf("goal: the milestones heuristic only estimates the boiling goal; use zero with custom goal fields")
	}
	schema := kitchenSchema()
	for _, name := range sortedKeys(s.Goal.Fields) {
		if err := checkField(schema, "goal.fields", name, s.Goal.Fields[name]); err != nil {
			return err
		}
	}
	return nil
}

// KitchenConfig merges the delay and threshold overrides into kitchen.DefaultConfig.
func (s *ScenarioSpec) KitchenConfig() (kitchen.Config, error) {
	c := kitchen.DefaultConfig()
	delays := []struct {
		name string
		spec *sim.DelaySpec
		dst  *sim.DelayDistribution
	}{
		{"toggle_faucet", s.Delays.ToggleFaucet, &c.ToggleFaucet},
		{"toggle_stove", s.Delays.ToggleStove, &c.ToggleStove},
		{"move_to_faucet", s.Delays.MoveToFaucet, &c.MoveToFaucet},
		{"move_to_stove", s.Delays.MoveToStove, &c.MoveToStove},
		{"noop", s.Delays.Noop, &c.Noop},
		{"fill_pot", s.Delays.FillPot, &c.FillPot},
		{"overfill_pot", s.Delays.OverfillPot, &c.OverfillPot},
		{"boil", s.Delays.Boil, &c.Boil},
	}
	for _, d := range delays {
		if d.spec == nil {
			continue
		}
		dist, err := sim.NewDelayDistribution(*d.spec)
		if err != nil {
			return c, fmt.Errorf("delays.%s: %w", d.name, err)
		}
		*d.dst = dist
	}
	if s.Thresholds.Overfill != nil {
		c.OverfillThreshold = *s.Thresholds.Overfill
	}
	if s.Thresholds.OverfillJitter != nil {
		c.OverfillJitter = *s.Thresholds.OverfillJitter
	}
	if s.Thresholds.Boil != nil {
		c.BoilThreshold = *s.Thresholds.Boil
	}
	if s.Thresholds.BoilJitter != nil {
		c.BoilJitter = *s.Thresholds.BoilJitter
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("thresholds: %w", err)
	}
	return c, nil
}

// InitialState applies the initial overrides to kitchen.InitialState.
// The action field cannot be preset.
func (s *ScenarioSpec) InitialState() (sim.State, error) {
	st := kitchen.InitialState()
	schema := kitchenSchema()
	for _, name := range sortedKeys(s.Initial) {
		v := s.Initial[name]
		if name == sim.ActionField {
			return st, fmt.Errorf("initial: the %q field cannot be preset", sim.ActionField)
		}
		if err := checkField(schema, "initial", name, v); err != nil {
			return st, err
		}
		next, err := st.With(name, v)
		if err != nil {
			return st, fmt.Errorf("initial: %w", err)
		}
		st = next
	}
	return st, nil
}

// NewWorld builds the scenario's WorldModel seeded from Seed.
func (s *ScenarioSpec) NewWorld(opts ...sim.Option) (*sim.WorldModel, error) {
	c, err := s.KitchenConfig()
	if err != nil {
		return nil, err
	}
	initial, err := s.InitialState()
	if err != nil {
		return nil, err
	}
	if s.MaxBigStepTicks > 0 {
		opts = append([]sim.Option{sim.WithMaxBigStepTicks(s.MaxBigStepTicks)}, opts...)
	}
	return sim.NewWorldModel(kitchen.Processes(c), initial, sim.NewSimulationKey(s.Seed).NewRNG(), opts...)
}

// GoalFunc returns the goal predicate: every listed field holds its value, or
// kitchen.IsBoiling when none are listed.
func (s *ScenarioSpec) GoalFunc() planner.Goal {
	if len(s.Goal.Fields) == 0 {
		return kitchen.IsBoiling
	}
	fields := make(map[string]any, len(s.Goal.Fields))
	for k, v := range s.Goal.Fields {
		fields[k] = v
	}
	return func(st sim.State) bool {
		for name, want := range fields {
			got, ok := st.Get(name)
			if !ok || got != want {
				return false
			}
		}
		return true
	}
}

// HeuristicFunc returns the A* heuristic named by the goal.
func (s *ScenarioSpec) HeuristicFunc() planner.Heuristic {
	if s.Goal.Heuristic == HeuristicMilestones {
		return kitchen.Heuristic
	}
	return planner.ZeroHeuristic
}

// Budget returns the planner budget; zero fields mean unlimited.
func (s *ScenarioSpec) Budget() planner.Budget {
	return planner.Budget{MaxNodes: s.Planner.MaxNodes, MaxDepth: s.Planner.MaxDepth}
}

// Algorithm returns the configured algorithm, defaulting to A*.
func (s *ScenarioSpec) Algorithm() string {
	if s.Planner.Algorithm == "" {
		return planner.AlgorithmAStar
	}
	return s.Planner.Algorithm
}

// ScriptedPlan resolves the plan entries to actions. "none" and "wait" mean no action.
func (s *ScenarioSpec) ScriptedPlan() (planner.Plan, error) {
	plan := make(planner.Plan, 0, len(s.Plan))
	for i, name := range s.Plan {
		a, err := resolveAction(name)
		if err != nil {
			return nil, fmt.Errorf("plan[%d]: %w", i, err)
		}
		plan = append(plan, a)
	}
	return plan, nil
}

// FallbackAction resolves the action played after the scripted plan. Empty means no action.
func (s *ScenarioSpec) FallbackAction() (sim.Action, error) {
	if s.Fallback == "" {
		return sim.NoAction, nil
	}
	a, err := resolveAction(s.Fallback)
	if err != nil {
		return sim.NoAction, fmt.Errorf("fallback: %w", err)
	}
	return a, nil
}

func resolveAction(name string) (sim.Action, error) {
	if waitNames[name] {
		return sim.NoAction, nil
	}
	for _, p := range kitchen.Processes(kitchen.DefaultConfig()) {
		if c, ok := p.(sim.Controllable); ok && c.Action().Value == name {
			return c.Action(), nil
		}
	}
	return sim.NoAction, fmt.Errorf("unknown action %q", name)
}

// kitchenSchema maps each settable kitchen field to its initial value.
func kitchenSchema() map[string]any {
	out := make(map[string]any)
	for _, f := range kitchen.Schema() {
		if f.Name != sim.ActionField {
			out[f.Name] = f.Value
		}
	}
	return out
}

// checkField rejects unknown fields and values whose type differs from the schema's.
func checkField(schema map[string]any, section, name string, v any) error {
	def, ok := schema[name]
	if !ok {
		return fmt.Errorf("%s: unknown field %q", section, name)
	}
	if fmt.Sprintf("%T", def) != fmt.Sprintf("%T", v) {
		return fmt.Errorf("%s: field %q wants a %T, got %v", section, name, def, v)
	}
	if name == kitchen.PotLocation {
		switch v {
		case kitchen.Table, kitchen.Faucet, kitchen.Stove:
		default:
			return fmt.Errorf("%s: unknown pot location %q; valid: table, faucet, stove", section, v)
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
