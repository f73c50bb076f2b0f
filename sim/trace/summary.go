package trace

// TraceSummary aggregates statistics from a SearchTrace.
type TraceSummary struct {
	Popped            int
	Expanded          int
	Duplicates        int
	Pruned            int // popped but not expanded (depth or node budget)
	Generated         int
	MaxDepth          int
	GoalFound         bool
	UniqueSignatures  int
	DepthDistribution map[int]int // depth → count of expanded nodes
}

// Summarize computes aggregate statistics from a SearchTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SearchTrace) *TraceSummary {
	summary := &TraceSummary{
		DepthDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	signatures := make(map[string]bool)
	summary.Popped = len(st.Expansions)
	for _, e := range st.Expansions {
		signatures[e.Signature] = true
		if e.Depth > summary.MaxDepth {
			summary.MaxDepth = e.Depth
		}
		switch {
		case e.Goal:
			summary.GoalFound = true
		case e.Duplicate:
			summary.Duplicates++
		case e.Children == 0:
			summary.Pruned++
		default:
			summary.Expanded++
			summary.Generated += e.Children
			summary.DepthDistribution[e.Depth]++
		}
	}
	summary.UniqueSignatures = len(signatures)

	return summary
}
