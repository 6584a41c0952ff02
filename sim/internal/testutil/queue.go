// Package testutil provides shared test infrastructure for the pending-event
// set implementations and the workload samplers.
package testutil

import (
	"math"
	"testing"

	"github.com/inference-sim/dsplay/sim"
)

// DrainTimes dequeues q one event at a time and returns the times in the
// order they came out.
func DrainTimes[E any, T sim.Time](q sim.EventQueue[E, T]) []T {
	out := make([]T, 0, q.Len())
	for {
		e, ok := q.Dequeue()
		if !ok {
			return out
		}
		out = append(out, e.Time)
	}
}

// AssertNonDecreasing fails if times ever go backwards.
func AssertNonDecreasing[T sim.Time](t *testing.T, name string, times []T) {
	t.Helper()
	for i := 1; i < len(times); i++ {
		if times[i] < times[i-1] {
			t.Errorf("%s: time[%d] = %v after %v", name, i, times[i], times[i-1])
			return
		}
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
