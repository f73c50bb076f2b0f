// Package planner searches for action sequences that drive a sim.WorldModel to
// a goal. The model is treated as a black-box transition function: every
// branch holds its own clone, rolled forward one big step per action.
//
// BFS returns a plan with the fewest big steps. AStar orders the frontier by
// cost plus a caller-supplied heuristic and discards nodes whose state
// signature (the state without its transient action field) was already
// expanded. Both report an exhausted frontier or budget as "no plan" rather
// than as an error.
package planner
