package trace

import "github.com/google/uuid"

// TraceLevel controls the verbosity of search tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelExpansions captures every node popped from the frontier.
	TraceLevelExpansions TraceLevel = "expansions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:       true,
	TraceLevelExpansions: true,
	"":                   true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level     TraceLevel
	Algorithm string
}

// SearchTrace collects expansion records during one planner run.
type SearchTrace struct {
	ID         string
	Config     TraceConfig
	Expansions []ExpansionRecord
}

// NewSearchTrace creates a SearchTrace ready for recording.
func NewSearchTrace(config TraceConfig) *SearchTrace {
	return &SearchTrace{
		ID:         uuid.NewString(),
		Config:     config,
		Expansions: make([]ExpansionRecord, 0),
	}
}

// Enabled reports whether records should be collected. Safe on a nil trace.
func (st *SearchTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelExpansions
}

// RecordExpansion appends an expansion record.
func (st *SearchTrace) RecordExpansion(record ExpansionRecord) {
	st.Expansions = append(st.Expansions, record)
}
