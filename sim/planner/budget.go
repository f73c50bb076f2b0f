package planner

// Budget bounds a search. Zero fields mean unlimited.
type Budget struct {
	MaxNodes int // nodes expanded before giving up
	MaxDepth int // longest plan considered
}

// DefaultBudget returns limits generous enough for small worlds.
func DefaultBudget() Budget {
	return Budget{
		MaxNodes: 100000,
		MaxDepth: 50,
	}
}

func (b Budget) nodesExhausted(expanded int) bool {
	return b.MaxNodes > 0 && expanded >= b.MaxNodes
}

func (b Budget) tooDeep(depth int) bool {
	return b.MaxDepth > 0 && depth >= b.MaxDepth
}
