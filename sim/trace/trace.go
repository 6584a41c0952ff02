// Package trace records which events fired when, so two runs of the same
// workload can be compared.
// It has no dependencies on sim/ and stores pure data types.
package trace

import "fmt"

// TraceLevel controls the verbosity of firing traces.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelFirings captures every event firing.
	TraceLevelFirings TraceLevel = "firings"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelFirings: true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Firing captures one event handler invocation.
type Firing struct {
	Time    float64
	EventID int64
	Kind    string
}

// Trace collects firing records during a simulation run.
type Trace struct {
	Level   TraceLevel
	Firings []Firing
}

// NewTrace creates a Trace ready for recording.
func NewTrace(level TraceLevel) *Trace {
	return &Trace{
		Level:   level,
		Firings: make([]Firing, 0),
	}
}

// Record appends a firing. A no-op unless the level is TraceLevelFirings.
func (tr *Trace) Record(f Firing) {
	if tr.Level != TraceLevelFirings {
		return
	}
	tr.Firings = append(tr.Firings, f)
}

// CompareTimes checks that two traces fired the same number of events at the
// same sequence of times. Which event fires first among equal times is not
// compared: queues only promise FIFO ties within one of their tiers.
func CompareTimes(a, b *Trace) error {
	n := min(len(a.Firings), len(b.Firings))
	for i := 0; i < n; i++ {
		if a.Firings[i].Time != b.Firings[i].Time {
			return fmt.Errorf("firing %d: time %v vs %v", i, a.Firings[i].Time, b.Firings[i].Time)
		}
	}
	if len(a.Firings) != len(b.Firings) {
		return fmt.Errorf("firing count %d vs %d", len(a.Firings), len(b.Firings))
	}
	return nil
}
