package dsplay

import "github.com/inference-sim/dsplay/sim"

// tier3 is an unordered list of far-future events. Only times strictly above
// cur land here.
type tier3[E any, T sim.Time] struct {
	entries []sim.Entry[E, T]
	cur     T
	min     T
	max     T
}

func newTier3[E any, T sim.Time](start T) *tier3[E, T] {
	return &tier3[E, T]{cur: start}
}

func (t3 *tier3[E, T]) len() int {
	return len(t3.entries)
}

func (t3 *tier3[E, T]) enqueue(ev *E, t T) {
	if len(t3.entries) == 0 {
		t3.min, t3.max = t, t
	} else {
		t3.min = min(t3.min, t)
		t3.max = max(t3.max, t)
	}
	t3.entries = append(t3.entries, sim.Entry[E, T]{Event: ev, Time: t})
}

func (t3 *tier3[E, T]) dequeueEvent(ev *E) (T, bool) {
	for i, e := range t3.entries {
		if e.Event == ev {
			t3.removeAt(i)
			return e.Time, true
		}
	}
	var zero T
	return zero, false
}

func (t3 *tier3[E, T]) dequeueEventAt(ev *E, t T) bool {
	for i, e := range t3.entries {
		if e.Event == ev && e.Time == t {
			t3.removeAt(i)
			return true
		}
	}
	return false
}

func (t3 *tier3[E, T]) dequeueAllAt(t T) []*E {
	var evs []*E
	kept := t3.entries[:0]
	for _, e := range t3.entries {
		if e.Time == t {
			evs = append(evs, e.Event)
		} else {
			kept = append(kept, e)
		}
	}
	if len(evs) == 0 {
		return nil
	}
	clear(t3.entries[len(kept):])
	t3.entries = kept
	t3.refreshBounds()
	return evs
}

func (t3 *tier3[E, T]) lookup(ev *E) (T, bool) {
	for _, e := range t3.entries {
		if e.Event == ev {
			return e.Time, true
		}
	}
	var zero T
	return zero, false
}

func (t3 *tier3[E, T]) minTime() (T, bool) {
	return t3.min, len(t3.entries) > 0
}

// drain hands every entry to tier 2 together with the running bounds, and
// moves cur up to the old maximum so the next cycle only collects later times.
func (t3 *tier3[E, T]) drain() ([]sim.Entry[E, T], T, T) {
	entries, lo, hi := t3.entries, t3.min, t3.max
	t3.entries = nil
	t3.cur = hi
	var zero T
	t3.min, t3.max = zero, zero
	return entries, lo, hi
}

// removeAt keeps the remaining order intact; ties must stay FIFO when the
// list is later bucketed.
func (t3 *tier3[E, T]) removeAt(i int) {
	removed := t3.entries[i].Time
	copy(t3.entries[i:], t3.entries[i+1:])
	t3.entries[len(t3.entries)-1] = sim.Entry[E, T]{}
	t3.entries = t3.entries[:len(t3.entries)-1]
	if removed == t3.min || removed == t3.max {
		t3.refreshBounds()
	}
}

func (t3 *tier3[E, T]) refreshBounds() {
	var zero T
	t3.min, t3.max = zero, zero
	for i, e := range t3.entries {
		if i == 0 {
			t3.min, t3.max = e.Time, e.Time
			continue
		}
		t3.min = min(t3.min, e.Time)
		t3.max = max(t3.max, e.Time)
	}
}
