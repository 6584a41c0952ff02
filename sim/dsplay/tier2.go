package dsplay

import (
	"math"

	"github.com/inference-sim/dsplay/sim"
)

// tier2 covers the mid future with unsorted buckets of equal width spanning
// [start, max]. Buckets below idx have been handed to tier 1 and are always
// empty. lo is the lower edge of bucket idx: the smallest time tier 2 accepts.
//
// Bucket edges and the accept bound are both computed in float64 by lower(),
// so a time is never routed by one rounding and bucketed by another.
type tier2[E any, T sim.Time] struct {
	buckets [][]sim.Entry[E, T]
	start   T
	max     T
	bw      float64
	lo      float64
	idx     int
	num     int
}

func newTier2[E any, T sim.Time](start T) *tier2[E, T] {
	return &tier2[E, T]{start: start, max: start, lo: float64(start)}
}

// active reports whether a bucket array is in place. An inactive tier 2
// accepts nothing and routing falls through to tier 1.
func (t2 *tier2[E, T]) active() bool {
	return len(t2.buckets) > 0
}

func (t2 *tier2[E, T]) accepts(t T) bool {
	return t2.active() && float64(t) >= t2.lo
}

func (t2 *tier2[E, T]) lower(i int) float64 {
	return float64(t2.start) + float64(i)*t2.bw
}

// bucketOf maps t to its bucket. The last bucket is inclusive of max for
// every caller, and the result never points below idx.
func (t2 *tier2[E, T]) bucketOf(t T) int {
	last := len(t2.buckets) - 1
	if t >= t2.max || t2.bw <= 0 {
		return last
	}
	ft := float64(t)
	i := int(math.Floor((ft - float64(t2.start)) / t2.bw))
	for i > 0 && ft < t2.lower(i) {
		i--
	}
	for i < last && ft >= t2.lower(i+1) {
		i++
	}
	return min(max(i, t2.idx), last)
}

// fromTier3 rebuilds the bucket array from everything tier 3 holds, one
// bucket per entry. This is the only place buckets are allocated.
func (t2 *tier2[E, T]) fromTier3(t3 *tier3[E, T]) {
	entries, lo, hi := t3.drain()
	n := len(entries)
	t2.buckets = make([][]sim.Entry[E, T], n)
	t2.start, t2.max = lo, hi
	t2.bw = (float64(hi) - float64(lo)) / float64(n)
	t2.idx = 0
	t2.lo = float64(lo)
	t2.num = 0
	for _, e := range entries {
		i := t2.bucketOf(e.Time)
		t2.buckets[i] = append(t2.buckets[i], e)
		t2.num++
	}
}

func (t2 *tier2[E, T]) enqueue(ev *E, t T) {
	i := t2.bucketOf(t)
	t2.buckets[i] = append(t2.buckets[i], sim.Entry[E, T]{Event: ev, Time: t})
	t2.num++
}

// drainNext empties the first non-empty bucket at or after idx and returns
// its contents. Draining the last bucket retires the whole array.
func (t2 *tier2[E, T]) drainNext() []sim.Entry[E, T] {
	for t2.idx < len(t2.buckets) && len(t2.buckets[t2.idx]) == 0 {
		t2.idx++
	}
	if t2.idx >= len(t2.buckets) {
		t2.retire()
		return nil
	}
	b := t2.buckets[t2.idx]
	t2.buckets[t2.idx] = nil
	t2.num -= len(b)
	if t2.idx == len(t2.buckets)-1 {
		t2.retire()
	} else {
		t2.idx++
		t2.lo = t2.lower(t2.idx)
	}
	return b
}

func (t2 *tier2[E, T]) retire() {
	t2.buckets = nil
	t2.idx = 0
	t2.lo = float64(t2.max)
}

func (t2 *tier2[E, T]) dequeueEvent(ev *E) (T, bool) {
	for i := t2.idx; i < len(t2.buckets); i++ {
		if j := indexOf(t2.buckets[i], ev); j >= 0 {
			t := t2.buckets[i][j].Time
			t2.removeAt(i, j)
			return t, true
		}
	}
	var zero T
	return zero, false
}

func (t2 *tier2[E, T]) dequeueEventAt(ev *E, t T) bool {
	if !t2.active() {
		return false
	}
	i := t2.bucketOf(t)
	j := indexOf(t2.buckets[i], ev)
	if j < 0 || t2.buckets[i][j].Time != t {
		return false
	}
	t2.removeAt(i, j)
	return true
}

// dequeueAllAt removes every entry at exactly t from its owning bucket,
// keeping the rest of the bucket in order.
func (t2 *tier2[E, T]) dequeueAllAt(t T) []*E {
	if !t2.active() {
		return nil
	}
	i := t2.bucketOf(t)
	var evs []*E
	b := t2.buckets[i]
	kept := b[:0]
	for _, e := range b {
		if e.Time == t {
			evs = append(evs, e.Event)
		} else {
			kept = append(kept, e)
		}
	}
	clear(b[len(kept):])
	t2.buckets[i] = kept
	t2.num -= len(evs)
	return evs
}

func (t2 *tier2[E, T]) lookup(ev *E) (T, bool) {
	for i := t2.idx; i < len(t2.buckets); i++ {
		if j := indexOf(t2.buckets[i], ev); j >= 0 {
			return t2.buckets[i][j].Time, true
		}
	}
	var zero T
	return zero, false
}

// minTime scans forward to the first non-empty bucket and then through it;
// buckets are not sorted internally.
func (t2 *tier2[E, T]) minTime() (T, bool) {
	var zero T
	if t2.num == 0 {
		return zero, false
	}
	for i := t2.idx; i < len(t2.buckets); i++ {
		b := t2.buckets[i]
		if len(b) == 0 {
			continue
		}
		m := b[0].Time
		for _, e := range b[1:] {
			m = min(m, e.Time)
		}
		return m, true
	}
	return zero, false
}

func (t2 *tier2[E, T]) removeAt(i, j int) {
	b := t2.buckets[i]
	copy(b[j:], b[j+1:])
	b[len(b)-1] = sim.Entry[E, T]{}
	t2.buckets[i] = b[:len(b)-1]
	t2.num--
}

func indexOf[E any, T sim.Time](b []sim.Entry[E, T], ev *E) int {
	for j, e := range b {
		if e.Event == ev {
			return j
		}
	}
	return -1
}
