package planner

import (
	"container/heap"

	"github.com/causal-sim/causal-sim/sim"
)

// node is one search branch: a model clone and the plan that produced it.
type node struct {
	model *sim.WorldModel
	plan  Plan
	cost  int     // big steps taken
	f     float64 // cost + heuristic
	seq   uint64  // insertion order, the final tie-breaker
}

// frontier is the open list of a search.
type frontier interface {
	push(n *node)
	pop() *node
	Len() int
}

// fifo is the BFS queue.
type fifo struct {
	nodes []*node
	head  int
}

func (q *fifo) push(n *node) {
	q.nodes = append(q.nodes, n)
}

func (q *fifo) pop() *node {
	n := q.nodes[q.head]
	q.nodes[q.head] = nil
	q.head++
	if q.head > len(q.nodes)/2 {
		q.nodes = append(q.nodes[:0], q.nodes[q.head:]...)
		q.head = 0
	}
	return n
}

func (q *fifo) Len() int {
	return len(q.nodes) - q.head
}

// nodeHeap implements a priority queue with deterministic ordering.
// Order by: f → cost → insertion sequence.
type nodeHeap struct {
	nodes []*node
}

func newNodeHeap() *nodeHeap {
	h := &nodeHeap{nodes: make([]*node, 0)}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *nodeHeap) Len() int {
	return len(h.nodes)
}

// Less implements heap.Interface with deterministic ordering
func (h *nodeHeap) Less(i, j int) bool {
	ni, nj := h.nodes[i], h.nodes[j]

	// Primary: estimated total cost (lower first)
	if ni.f != nj.f {
		return ni.f < nj.f
	}

	// Secondary: cost so far (lower first)
	if ni.cost != nj.cost {
		return ni.cost < nj.cost
	}

	// Tertiary: insertion order. States are not comparable, so this keeps the order total.
	return ni.seq < nj.seq
}

// Swap implements heap.Interface
func (h *nodeHeap) Swap(i, j int) {
	h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i]
}

// Push implements heap.Interface
func (h *nodeHeap) Push(x interface{}) {
	h.nodes = append(h.nodes, x.(*node))
}

// Pop implements heap.Interface
func (h *nodeHeap) Pop() interface{} {
	old := h.nodes
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.nodes = old[0 : n-1]
	return item
}

func (h *nodeHeap) push(n *node) {
	heap.Push(h, n)
}

func (h *nodeHeap) pop() *node {
	return heap.Pop(h).(*node)
}
