package trace

// TraceSummary aggregates statistics from a Trace.
type TraceSummary struct {
	TotalFirings     int
	DistinctTimes    int
	MaxTies          int     // most firings sharing one time
	Span             float64 // last firing time minus first
	Monotonic        bool    // times never decrease
	KindDistribution map[string]int
}

// Summarize computes aggregate statistics from a Trace.
// Safe for nil or empty traces (returns zero-value fields, Monotonic true).
func Summarize(tr *Trace) *TraceSummary {
	summary := &TraceSummary{
		Monotonic:        true,
		KindDistribution: make(map[string]int),
	}
	if tr == nil || len(tr.Firings) == 0 {
		return summary
	}

	summary.TotalFirings = len(tr.Firings)
	ties := 0
	for i, f := range tr.Firings {
		summary.KindDistribution[f.Kind]++
		if i > 0 && f.Time == tr.Firings[i-1].Time {
			ties++
		} else {
			summary.DistinctTimes++
			ties = 1
		}
		if i > 0 && f.Time < tr.Firings[i-1].Time {
			summary.Monotonic = false
		}
		summary.MaxTies = max(summary.MaxTies, ties)
	}
	summary.Span = tr.Firings[len(tr.Firings)-1].Time - tr.Firings[0].Time

	return summary
}
