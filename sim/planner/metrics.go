package planner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes recorded by Metrics.
const (
	OutcomeFound     = "found"
	OutcomeNoPlan    = "no_plan"
	OutcomeExhausted = "budget_exhausted"
	OutcomeCanceled  = "canceled"
	OutcomeError     = "error"
)

// Metrics counts search work per algorithm.
type Metrics struct {
	Expanded   *prometheus.CounterVec
	Duplicates *prometheus.CounterVec
	Enqueued   *prometheus.CounterVec
	Searches   *prometheus.CounterVec
}

// NewMetrics creates the planner counters and registers them with reg.
// A nil reg leaves them unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Expanded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "causal_sim",
			Subsystem: "planner",
			Name:      "nodes_expanded_total",
			Help:      "Search nodes whose successors were generated.",
		}, []string{"algorithm"}),
		Duplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "causal_sim",
			Subsystem: "planner",
			Name:      "nodes_duplicate_total",
			Help:      "Search nodes discarded because their state signature was already visited.",
		}, []string{"algorithm"}),
		Enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "causal_sim",
			Subsystem: "planner",
			Name:      "nodes_enqueued_total",
			Help:      "Search nodes pushed onto the frontier.",
		}, []string{"algorithm"}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "causal_sim",
			Subsystem: "planner",
			Name:      "searches_total",
			Help:      "Completed searches by outcome.",
		}, []string{"algorithm", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.Expanded, m.Duplicates, m.Enqueued, m.Searches)
	}
	return m
}

// The helpers below are no-ops on a nil *Metrics.

func (m *Metrics) expanded(algo string) {
	if m != nil {
		m.Expanded.WithLabelValues(algo).Inc()
	}
}

func (m *Metrics) duplicate(algo string) {
	if m != nil {
		m.Duplicates.WithLabelValues(algo).Inc()
	}
}

func (m *Metrics) enqueued(algo string) {
	if m != nil {
		m.Enqueued.WithLabelValues(algo).Inc()
	}
}

func (m *Metrics) search(algo, outcome string) {
	if m != nil {
		m.Searches.WithLabelValues(algo, outcome).Inc()
	}
}
