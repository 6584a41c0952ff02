// Package dsplay implements the Dsplay pending-event set: a three-tier,
// time-bucketed priority queue that keeps only the near future in an exactly
// ordered splay tree.
//
// Tier 1 is a splay tree of every event below tier 2's current bucket edge.
// Tier 2 is an array of unsorted buckets covering one window of time. Tier 3
// is an unsorted list of everything beyond that window. Events enter the
// coarsest tier whose window contains them; when tier 1 runs dry the next
// bucket of tier 2 is promoted into it, and when tier 2 runs dry it is rebuilt
// from the whole of tier 3. At every instant tier 1 times < tier 2 times <=
// tier 3 times, so tier 1 always holds the global minimum once it is
// non-empty.
//
// A Queue is not safe for concurrent use.
package dsplay

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/dsplay/sim"
)

// ErrInvalidStart is returned by New when the start time cannot order events.
var ErrInvalidStart = errors.New("dsplay: start time must be a number")

// Queue is the three-tier facade. It routes each operation to the tier that
// owns the time involved and cascades promotions when tier 1 empties.
type Queue[E any, T sim.Time] struct {
	t1 *tier1[E, T]
	t2 *tier2[E, T]
	t3 *tier3[E, T]

	counters counters
}

var _ sim.EventQueue[struct{}, float64] = (*Queue[struct{}, float64])(nil)

// New creates an empty queue. Events at or before start are ordered exactly
// from the first enqueue; later events wait in tier 3 until the first
// promotion.
func New[E any, T sim.Time](start T) (*Queue[E, T], error) {
	if sim.IsNaN(start) {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidStart, start)
	}
	return &Queue[E, T]{
		t1: newTier1[E](start),
		t2: newTier2[E](start),
		t3: newTier3[E](start),
	}, nil
}

// Enqueue schedules ev at t. It panics on a nil event or a NaN time.
func (q *Queue[E, T]) Enqueue(ev *E, t T) {
	if ev == nil {
		panic("dsplay: Enqueue: ev must not be nil")
	}
	if sim.IsNaN(t) {
		panic("dsplay: Enqueue: time must not be NaN")
	}
	switch q.route(t) {
	case 3:
		q.t3.enqueue(ev, t)
	case 2:
		q.t2.enqueue(ev, t)
	default:
		q.t1.enqueue(ev, t)
	}
	q.counters.enqueued++
}

// route picks the coarsest tier whose window holds t.
func (q *Queue[E, T]) route(t T) int {
	switch {
	case t > q.t3.cur:
		return 3
	case q.t2.accepts(t):
		return 2
	default:
		return 1
	}
}

// Dequeue removes and returns the earliest event. Among events at the same
// time it returns the one that has been in tier 1 longest.
func (q *Queue[E, T]) Dequeue() (sim.Entry[E, T], bool) {
	if !q.promote() {
		return sim.Entry[E, T]{}, false
	}
	e, ok := q.t1.dequeue()
	if ok {
		q.counters.dequeued++
	}
	return e, ok
}

// DequeueAll removes every event at the current minimum time.
func (q *Queue[E, T]) DequeueAll() ([]*E, T, bool) {
	if !q.promote() {
		var zero T
		return nil, zero, false
	}
	evs, t, ok := q.t1.dequeueAll()
	q.counters.dequeued += uint64(len(evs))
	return evs, t, ok
}

// DequeueAllAt removes every event at exactly t from the tier that owns t.
// No promotion happens, so t must not lie in a window that has already been
// promoted past (any t at or below the current minimum is safe).
func (q *Queue[E, T]) DequeueAllAt(t T) []*E {
	var evs []*E
	switch q.route(t) {
	case 3:
		evs = q.t3.dequeueAllAt(t)
	case 2:
		evs = q.t2.dequeueAllAt(t)
	default:
		evs = q.t1.dequeueAllAt(t)
	}
	q.counters.dequeued += uint64(len(evs))
	return evs
}

// DequeueEvent removes ev from whichever tier holds it.
func (q *Queue[E, T]) DequeueEvent(ev *E) (T, bool) {
	t, ok := q.t1.dequeueEvent(ev)
	if !ok {
		t, ok = q.t2.dequeueEvent(ev)
	}
	if !ok {
		t, ok = q.t3.dequeueEvent(ev)
	}
	if ok {
		q.counters.dequeued++
	}
	return t, ok
}

// DequeueEventAt removes ev using t as a hint for where it is stored. When
// the hint is wrong the whole queue is searched.
func (q *Queue[E, T]) DequeueEventAt(ev *E, t T) bool {
	var ok bool
	switch q.route(t) {
	case 3:
		ok = q.t3.dequeueEventAt(ev, t)
	case 2:
		ok = q.t2.dequeueEventAt(ev, t)
	default:
		ok = q.t1.dequeueEventAt(ev, t)
	}
	if ok {
		q.counters.dequeued++
		return true
	}
	q.counters.hintMisses++
	logrus.Debugf("dsplay: event not stored at hinted time %v, searching all tiers", t)
	_, ok = q.DequeueEvent(ev)
	return ok
}

// Min returns the earliest pending time. It never promotes.
func (q *Queue[E, T]) Min() (T, bool) {
	if t, ok := q.t1.min(); ok {
		return t, true
	}
	if t, ok := q.t2.minTime(); ok {
		return t, true
	}
	return q.t3.minTime()
}

// TimeOf returns the time ev is scheduled for.
func (q *Queue[E, T]) TimeOf(ev *E) (T, bool) {
	if t, ok := q.t1.lookup(ev); ok {
		return t, true
	}
	if t, ok := q.t2.lookup(ev); ok {
		return t, true
	}
	return q.t3.lookup(ev)
}

// Requeue moves ev to newT and reports whether ev was pending before.
func (q *Queue[E, T]) Requeue(ev *E, newT T) bool {
	_, found := q.DequeueEvent(ev)
	q.Enqueue(ev, newT)
	return found
}

// RequeueFrom is Requeue with the time ev is believed to be stored at.
func (q *Queue[E, T]) RequeueFrom(ev *E, oldT, newT T) bool {
	found := q.DequeueEventAt(ev, oldT)
	q.Enqueue(ev, newT)
	return found
}

func (q *Queue[E, T]) Len() int {
	return q.t1.num + q.t2.num + q.t3.len()
}

func (q *Queue[E, T]) IsEmpty() bool {
	return q.Len() == 0
}

// promote makes sure tier 1 holds the global minimum, refilling it from
// tier 2 and tier 2 from tier 3 as needed. It reports false only when every
// tier is empty.
func (q *Queue[E, T]) promote() bool {
	if q.t1.num > 0 {
		return true
	}
	if q.t2.num == 0 {
		if q.t3.len() == 0 {
			return false
		}
		n := q.t3.len()
		q.t2.fromTier3(q.t3)
		q.counters.tier3ToTier2++
		logrus.Debugf("dsplay: tier3 -> tier2: %d events into [%v, %v], width %g",
			n, q.t2.start, q.t2.max, q.t2.bw)
	}
	bucket := q.t2.drainNext()
	q.t1.fill(bucket)
	q.counters.tier2ToTier1++
	logrus.Debugf("dsplay: tier2 -> tier1: %d events, next bucket %d", len(bucket), q.t2.idx)
	return q.t1.num > 0
}
