package dsplay

import (
	"github.com/inference-sim/dsplay/sim"
	"github.com/inference-sim/dsplay/sim/splay"
)

// tier1 holds the near future in a splay tree. It is the only tier with
// exact ordering; every other tier feeds it one bucket at a time.
type tier1[E any, T sim.Time] struct {
	tree *splay.Tree[E, T]
	num  int // the tree does not count its events
	cur  T   // time of the last minimum handed out
}

func newTier1[E any, T sim.Time](start T) *tier1[E, T] {
	return &tier1[E, T]{tree: splay.New[E, T](), cur: start}
}

func (t1 *tier1[E, T]) enqueue(ev *E, t T) {
	t1.tree.Insert(ev, t)
	t1.num++
}

// dequeue pops the oldest event at the minimum key.
func (t1 *tier1[E, T]) dequeue() (sim.Entry[E, T], bool) {
	n := t1.tree.MinNode()
	if n == nil {
		return sim.Entry[E, T]{}, false
	}
	ev := n.PopFront()
	if n.Len() == 0 {
		t1.tree.Delete(n.Key)
	}
	t1.num--
	t1.cur = n.Key
	return sim.Entry[E, T]{Event: ev, Time: n.Key}, true
}

// dequeueAll removes the whole event list at the minimum key.
func (t1 *tier1[E, T]) dequeueAll() ([]*E, T, bool) {
	n := t1.tree.MinNode()
	if n == nil {
		var zero T
		return nil, zero, false
	}
	t1.tree.Delete(n.Key)
	evs := n.TakeAll()
	t1.num -= len(evs)
	t1.cur = n.Key
	return evs, n.Key, true
}

func (t1 *tier1[E, T]) dequeueAllAt(t T) []*E {
	n := t1.tree.Delete(t)
	if n == nil {
		return nil
	}
	evs := n.TakeAll()
	t1.num -= len(evs)
	return evs
}

// dequeueEvent finds ev anywhere in the tree.
func (t1 *tier1[E, T]) dequeueEvent(ev *E) (T, bool) {
	n := t1.tree.Lookup(ev)
	if n == nil {
		var zero T
		return zero, false
	}
	t1.removeFrom(n, ev)
	return n.Key, true
}

// dequeueEventAt removes ev from the node at t only.
func (t1 *tier1[E, T]) dequeueEventAt(ev *E, t T) bool {
	n := t1.tree.Access(t)
	if n == nil || !t1.removeFrom(n, ev) {
		return false
	}
	return true
}

func (t1 *tier1[E, T]) removeFrom(n *splay.Node[E, T], ev *E) bool {
	if !n.Remove(ev) {
		return false
	}
	if n.Len() == 0 {
		t1.tree.Delete(n.Key)
	}
	t1.num--
	return true
}

func (t1 *tier1[E, T]) lookup(ev *E) (T, bool) {
	n := t1.tree.Lookup(ev)
	if n == nil {
		var zero T
		return zero, false
	}
	return n.Key, true
}

func (t1 *tier1[E, T]) min() (T, bool) {
	return t1.tree.Min()
}

// fill inserts a bucket drained from tier 2, preserving its order so that
// equal times stay first-in-first-out.
func (t1 *tier1[E, T]) fill(bucket []sim.Entry[E, T]) {
	for _, e := range bucket {
		t1.enqueue(e.Event, e.Time)
	}
}
