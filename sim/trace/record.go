// Package trace provides search-trace recording for planner analysis.
// It stores plain data and does not import sim or sim/planner.
package trace

// ExpansionRecord captures a single node popped from a planner frontier.
type ExpansionRecord struct {
	Seq       uint64  // insertion sequence number of the node
	Depth     int     // big steps from the root
	Priority  float64 // f value (cost for BFS)
	Tick      int     // simulated tick of the node's model
	Signature string  // state signature
	Plan      string  // plan that produced the node
	Duplicate bool    // signature was already visited; node discarded
	Goal      bool    // node satisfied the goal
	Children  int     // successors pushed (0 for duplicates and goals)
}
