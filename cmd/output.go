package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/causal-sim/causal-sim/sim"
	"github.com/causal-sim/causal-sim/sim/planner"
	"github.com/causal-sim/causal-sim/sim/trace"
)

// printHistory writes one line per tick, showing only the fields that changed.
func printHistory(w io.Writer, h sim.History) {
	_, _ = fmt.Fprintln(w, "=== History ===")
	for i, s := range h {
		if i == 0 {
			_, _ = fmt.Fprintf(w, "[init]      %s\n", s)
			continue
		}
		changed := h[i-1].Diff(s)
		if len(changed) == 0 {
			continue
		}
		// history entry i was recorded at tick i-1
		_, _ = fmt.Fprintf(w, "[tick %05d] %s\n", i-1, strings.Join(changed, ", "))
	}
}

func printRun(w io.Writer, world *sim.WorldModel, reached bool) {
	_, _ = fmt.Fprintln(w, "=== Run ===")
	_, _ = fmt.Fprintf(w, "Goal reached         : %v\n", reached)
	_, _ = fmt.Fprintf(w, "Final tick           : %d\n", world.T())
	_, _ = fmt.Fprintf(w, "Pending effects      : %d\n", world.Pending())
	_, _ = fmt.Fprintf(w, "Final state          : %s\n", world.State())
}

func printPlan(w io.Writer, algo string, plan planner.Plan, found bool, elapsed time.Duration) {
	_, _ = fmt.Fprintln(w, "=== Plan ===")
	_, _ = fmt.Fprintf(w, "Algorithm            : %s\n", algo)
	_, _ = fmt.Fprintf(w, "Found                : %v\n", found)
	_, _ = fmt.Fprintf(w, "Search time          : %v\n", elapsed.Round(time.Microsecond))
	if !found {
		return
	}
	_, _ = fmt.Fprintf(w, "Length               : %d\n", len(plan))
	for i, a := range plan {
		_, _ = fmt.Fprintf(w, "  %2d. %s\n", i+1, a)
	}
}

func printTraceSummary(w io.Writer, st *trace.SearchTrace) {
	sum := trace.Summarize(st)
	_, _ = fmt.Fprintln(w, "=== Search Trace ===")
	_, _ = fmt.Fprintf(w, "Trace ID             : %s\n", st.ID)
	_, _ = fmt.Fprintf(w, "Popped               : %d\n", sum.Popped)
	_, _ = fmt.Fprintf(w, "Expanded             : %d\n", sum.Expanded)
	_, _ = fmt.Fprintf(w, "Duplicates           : %d\n", sum.Duplicates)
	_, _ = fmt.Fprintf(w, "Pruned               : %d\n", sum.Pruned)
	_, _ = fmt.Fprintf(w, "Generated            : %d\n", sum.Generated)
	_, _ = fmt.Fprintf(w, "Unique signatures    : %d\n", sum.UniqueSignatures)
	_, _ = fmt.Fprintf(w, "Max depth            : %d\n", sum.MaxDepth)
	depths := make([]int, 0, len(sum.DepthDistribution))
	for d := range sum.DepthDistribution {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	for _, d := range depths {
		_, _ = fmt.Fprintf(w, "  depth %2d           : %d expanded\n", d, sum.DepthDistribution[d])
	}
}

// printCounters writes every counter in reg, one line per label set.
func printCounters(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering planner metrics: %w", err)
	}
	_, _ = fmt.Fprintln(w, "=== Planner Metrics ===")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			_, _ = fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}
