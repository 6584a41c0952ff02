// Package heapq is a binary-heap pending-event set. It implements the same
// sim.EventQueue contract as sim/dsplay with O(log n) for every operation and
// serves as the baseline the tiered queue is compared against.
package heapq

import (
	"container/heap"

	"github.com/inference-sim/dsplay/sim"
)

type item[E any, T sim.Time] struct {
	ev    *E
	t     T
	seq   uint64 // insertion order, breaks ties first-in-first-out
	index int
}

// entries implements heap.Interface.
// Order by: time → insertion sequence.
type entries[E any, T sim.Time] []*item[E, T]

func (h entries[E, T]) Len() int { return len(h) }

func (h entries[E, T]) Less(i, j int) bool {
	if h[i].t != h[j].t {
		return h[i].t < h[j].t
	}
	return h[i].seq < h[j].seq
}

func (h entries[E, T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entries[E, T]) Push(x any) {
	it := x.(*item[E, T])
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *entries[E, T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	it.index = -1
	return it
}

// Queue is a heap-ordered event queue with an identity index for removal by
// event. Not safe for concurrent use.
type Queue[E any, T sim.Time] struct {
	items entries[E, T]
	byEv  map[*E]*item[E, T]
	seq   uint64
}

var _ sim.EventQueue[struct{}, float64] = (*Queue[struct{}, float64])(nil)

// New creates an empty queue.
func New[E any, T sim.Time]() *Queue[E, T] {
	q := &Queue[E, T]{
		items: make(entries[E, T], 0),
		byEv:  make(map[*E]*item[E, T]),
	}
	heap.Init(&q.items)
	return q
}

// Enqueue schedules ev at t. An event may be pending only once; enqueueing a
// pending event again moves it, like Requeue.
func (q *Queue[E, T]) Enqueue(ev *E, t T) {
	if ev == nil {
		panic("heapq: Enqueue: ev must not be nil")
	}
	if old, ok := q.byEv[ev]; ok {
		heap.Remove(&q.items, old.index)
	}
	q.seq++
	it := &item[E, T]{ev: ev, t: t, seq: q.seq}
	q.byEv[ev] = it
	heap.Push(&q.items, it)
}

func (q *Queue[E, T]) Dequeue() (sim.Entry[E, T], bool) {
	if q.items.Len() == 0 {
		return sim.Entry[E, T]{}, false
	}
	it := heap.Pop(&q.items).(*item[E, T])
	delete(q.byEv, it.ev)
	return sim.Entry[E, T]{Event: it.ev, Time: it.t}, true
}

func (q *Queue[E, T]) DequeueEvent(ev *E) (T, bool) {
	it, ok := q.byEv[ev]
	if !ok {
		var zero T
		return zero, false
	}
	heap.Remove(&q.items, it.index)
	delete(q.byEv, ev)
	return it.t, true
}

// DequeueEventAt ignores the hint; the identity index already finds ev in O(1).
func (q *Queue[E, T]) DequeueEventAt(ev *E, _ T) bool {
	_, ok := q.DequeueEvent(ev)
	return ok
}

func (q *Queue[E, T]) DequeueAll() ([]*E, T, bool) {
	first, ok := q.Dequeue()
	if !ok {
		var zero T
		return nil, zero, false
	}
	evs := []*E{first.Event}
	for q.items.Len() > 0 && q.items[0].t == first.Time {
		e, _ := q.Dequeue()
		evs = append(evs, e.Event)
	}
	return evs, first.Time, true
}

// DequeueAllAt removes every event at exactly t, oldest first. O(n).
func (q *Queue[E, T]) DequeueAllAt(t T) []*E {
	var hits []*item[E, T]
	for _, it := range q.items {
		if it.t == t {
			hits = append(hits, it)
		}
	}
	if len(hits) == 0 {
		return nil
	}
	evs := make([]*E, 0, len(hits))
	for len(hits) > 0 {
		oldest := 0
		for i, it := range hits {
			if it.seq < hits[oldest].seq {
				oldest = i
			}
		}
		it := hits[oldest]
		hits = append(hits[:oldest], hits[oldest+1:]...)
		heap.Remove(&q.items, it.index)
		delete(q.byEv, it.ev)
		evs = append(evs, it.ev)
	}
	return evs
}

func (q *Queue[E, T]) Min() (T, bool) {
	if q.items.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.items[0].t, true
}

func (q *Queue[E, T]) TimeOf(ev *E) (T, bool) {
	it, ok := q.byEv[ev]
	if !ok {
		var zero T
		return zero, false
	}
	return it.t, true
}

func (q *Queue[E, T]) Len() int {
	return q.items.Len()
}

func (q *Queue[E, T]) IsEmpty() bool {
	return q.items.Len() == 0
}

func (q *Queue[E, T]) Requeue(ev *E, newT T) bool {
	_, found := q.DequeueEvent(ev)
	q.Enqueue(ev, newT)
	return found
}

// RequeueFrom ignores the hint; the identity index already finds ev in O(1).
func (q *Queue[E, T]) RequeueFrom(ev *E, _, newT T) bool {
	return q.Requeue(ev, newT)
}
