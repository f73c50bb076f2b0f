package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/causal-sim/causal-sim/sim"
	"github.com/causal-sim/causal-sim/sim/planner"
	"github.com/causal-sim/causal-sim/sim/scenario"
	"github.com/causal-sim/causal-sim/sim/trace"
)

var (
	// CLI flags shared by all subcommands
	scenarioPath string // YAML scenario file; empty uses the built-in default
	seed         int64  // Overrides the scenario seed when set
	logLevel     string // Log verbosity level

	// CLI flags for `run`
	maxSteps int // Big steps before giving up on the goal

	// CLI flags for `plan`
	algorithm  string        // bfs or astar
	maxNodes   int           // Node expansion budget
	maxDepth   int           // Plan length limit
	traceLevel string        // none or expansions
	timeout    time.Duration // Wall-clock limit for the search
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "causal-sim",
	Short: "Discrete-event causal world model with forward planners",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd plays the scenario's scripted plan
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the world with the scenario's scripted plan",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := loadScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Starting run with seed=%d, steps=%d", spec.Seed, maxSteps)
		startTime := time.Now()
		reached, err := runScripted(spec, maxSteps, os.Stdout)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		logrus.Infof("Run complete in %v, goal reached: %v", time.Since(startTime), reached)
	},
}

// planCmd searches for a plan from the scenario's initial state
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Search for an action sequence that reaches the scenario goal",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := loadScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if _, _, err := runPlanner(ctx, spec, prometheus.NewRegistry(), os.Stdout); err != nil {
			logrus.Fatalf("Planning failed: %v", err)
		}
	},
}

// validateCmd checks a scenario file without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := loadScenario(cmd); err != nil {
			logrus.Fatalf("%v", err)
		}
		fmt.Printf("scenario %s is valid\n", displayPath(scenarioPath))
	},
}

// loadScenario reads the scenario, applies explicitly set flags over it and validates the result.
// Flags left at their defaults never overwrite scenario values.
func loadScenario(cmd *cobra.Command) (*scenario.ScenarioSpec, error) {
	spec := scenario.Default()
	if scenarioPath != "" {
		var err error
		if spec, err = scenario.LoadScenarioSpec(scenarioPath); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		spec.Seed = seed
	}
	if flags.Changed("algo") {
		spec.Planner.Algorithm = algorithm
	}
	if flags.Changed("max-nodes") {
		spec.Planner.MaxNodes = maxNodes
	}
	if flags.Changed("max-depth") {
		spec.Planner.MaxDepth = maxDepth
	}
	if flags.Changed("trace") {
		spec.Planner.Trace = traceLevel
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", displayPath(scenarioPath), err)
	}
	return spec, nil
}

func displayPath(path string) string {
	if path == "" {
		return "(built-in)"
	}
	return path
}

// runScripted drives a fresh world with the scripted plan, then the fallback action, until
// the goal holds or steps big steps have been taken. The history is written to w.
func runScripted(spec *scenario.ScenarioSpec, steps int, w io.Writer) (bool, error) {
	world, err := spec.NewWorld()
	if err != nil {
		return false, err
	}
	plan, err := spec.ScriptedPlan()
	if err != nil {
		return false, err
	}
	fallback, err := spec.FallbackAction()
	if err != nil {
		return false, err
	}
	goal := spec.GoalFunc()
	policy := planner.NewPolicyWithFallback(plan, fallback)
	reached, runErr := policy.Run(world, goal, steps)
	if errors.Is(runErr, sim.ErrTickLimit) {
		logrus.Warnf("A big step hit the tick cap; raise max_big_step_ticks if the world is just slow")
	}
	printHistory(w, world.History())
	printRun(w, world, reached)
	return reached, runErr
}

// runPlanner searches with the configured algorithm and writes the plan, the
// trace summary and the planner counters gathered from reg to w.
func runPlanner(ctx context.Context, spec *scenario.ScenarioSpec, reg *prometheus.Registry, w io.Writer) (planner.Plan, bool, error) {
	world, err := spec.NewWorld()
	if err != nil {
		return nil, false, err
	}
	algo := spec.Algorithm()
	var st *trace.SearchTrace
	if spec.Planner.Trace == string(trace.TraceLevelExpansions) {
		st = trace.NewSearchTrace(trace.TraceConfig{Level: trace.TraceLevelExpansions, Algorithm: algo})
	}
	p := planner.New(
		planner.WithBudget(spec.Budget()),
		planner.WithMetrics(planner.NewMetrics(reg)),
		planner.WithTrace(st),
	)

	logrus.Infof("Planning with %s, budget=%+v, seed=%d", algo, spec.Budget(), spec.Seed)
	startTime := time.Now()
	var (
		plan  planner.Plan
		found bool
	)
	switch algo {
	case planner.AlgorithmBFS:
		plan, found, err = p.BFS(ctx, world, spec.GoalFunc())
	default:
		plan, found, err = p.AStar(ctx, world, spec.GoalFunc(), spec.HeuristicFunc())
	}
	if err != nil {
		return nil, false, err
	}

	printPlan(w, algo, plan, found, time.Since(startTime))
	if st != nil {
		printTraceSummary(w, st)
	}
	if err := printCounters(w, reg); err != nil {
		return plan, found, err
	}
	if found {
		replayPlan(spec, plan)
	}
	return plan, found, nil
}

// replayPlan replays a found plan on a fresh world and logs the outcome. The
// shared random stream has moved on during search, so stochastic worlds may diverge.
func replayPlan(spec *scenario.ScenarioSpec, plan planner.Plan) {
	world, err := spec.NewWorld()
	if err != nil {
		logrus.Warnf("replay: %v", err)
		return
	}
	reached, err := planner.NewPolicy(plan).Run(world, spec.GoalFunc(), len(plan))
	if err != nil {
		logrus.Warnf("replay: %v", err)
		return
	}
	logrus.Infof("Replay of %d steps reached goal: %v (t=%d)", len(plan), reached, world.T())
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addScenarioFlags registers the flags that select and seed a scenario.
func addScenarioFlags(c *cobra.Command) {
	c.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file (default: built-in kitchen scenario)")
	c.Flags().Int64Var(&seed, "seed", 42, "Seed for the world's random source (overrides the scenario)")
}

// addPlanFlags registers the search flags of `plan`.
func addPlanFlags(c *cobra.Command) {
	c.Flags().StringVar(&algorithm, "algo", planner.AlgorithmAStar, "Search algorithm (bfs, astar)")
	c.Flags().IntVar(&maxNodes, "max-nodes", planner.DefaultBudget().MaxNodes, "Maximum node expansions (0 = unlimited)")
	c.Flags().IntVar(&maxDepth, "max-depth", planner.DefaultBudget().MaxDepth, "Maximum plan length (0 = unlimited)")
	c.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Search trace level (none, expansions)")
	c.Flags().DurationVar(&timeout, "timeout", 0, "Abort the search after this long (0 = no limit)")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	for _, c := range []*cobra.Command{runCmd, planCmd, validateCmd} {
		addScenarioFlags(c)
	}
	runCmd.Flags().IntVar(&maxSteps, "steps", 50, "Maximum number of big steps")
	addPlanFlags(planCmd)

	rootCmd.AddCommand(runCmd, planCmd, validateCmd)
}
