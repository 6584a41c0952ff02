// Tracks run-wide counters of the execution loop.

package sim

// Metrics aggregates statistics about a simulation run for final reporting.
type Metrics struct {
	EventsFired   int64   // Events whose handler ran
	Batches       int64   // DequeueAll calls; a handler scheduling at the current clock adds one
	DistinctTimes int64   // Clock values visited
	MaxBatch      int     // Largest number of events taken in one batch
	Scheduled     int64   // Schedule calls
	Cancelled     int64   // Successful Cancel calls
	Rescheduled   int64   // Reschedule calls
	PeakPending   int     // Largest queue length observed after a schedule
	PendingAtEnd  int     // Events still queued when the run stopped
	SimEndedTime  float64 // Clock at the end, capped at the horizon
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// MeanBatch returns the average number of events fired per batch.
func (m *Metrics) MeanBatch() float64 {
	if m.Batches == 0 {
		return 0
	}
	return float64(m.EventsFired) / float64(m.Batches)
}
