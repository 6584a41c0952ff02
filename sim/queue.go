// Defines the time-ordered event queue contract shared by every pending-event-set
// implementation (sim/dsplay, sim/heapq) and consumed by the Simulator.

package sim

// Time is the set of totally-ordered numeric types a queue can order events by.
// The simulator itself runs on float64.
type Time interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// IsNaN reports whether t is a floating point NaN. Always false for integer kinds.
func IsNaN[T Time](t T) bool {
	return t != t
}

// Entry pairs an event with the time it is scheduled for.
// The queue owns the Entry; the caller keeps ownership of the event itself.
type Entry[E any, T Time] struct {
	Event *E
	Time  T
}

// EventQueue maps scheduled events to future time points and yields the
// earliest pending event(s) first.
//
// Events are identified by pointer identity, never by value: two distinct
// events holding equal payloads are different entries. Not-found conditions
// are reported through the boolean or an empty slice, never through a panic.
//
// Implementations are NOT safe for concurrent use; a single simulation loop
// owns the queue.
type EventQueue[E any, T Time] interface {
	// Enqueue schedules ev at time t. The same event may be enqueued again
	// later at a different time once it has been removed.
	Enqueue(ev *E, t T)

	// Dequeue removes and returns the global minimum.
	Dequeue() (Entry[E, T], bool)

	// DequeueEvent removes ev wherever it is and returns its time.
	DequeueEvent(ev *E) (T, bool)

	// DequeueEventAt removes ev using t as a hint of where it is stored.
	// A stale hint is tolerated: the queue falls back to a full search.
	DequeueEventAt(ev *E, t T) bool

	// DequeueAll removes every event sharing the current minimum time.
	DequeueAll() ([]*E, T, bool)

	// DequeueAllAt removes every event scheduled exactly at t.
	DequeueAllAt(t T) []*E

	// Min returns the earliest pending time without removing anything.
	Min() (T, bool)

	// TimeOf returns the time ev is scheduled for.
	TimeOf(ev *E) (T, bool)

	Len() int
	IsEmpty() bool

	// Requeue moves ev to newT. It reports whether ev was pending before the
	// move; ev is scheduled at newT either way.
	Requeue(ev *E, newT T) bool

	// RequeueFrom is Requeue with a hint of the time ev is currently stored at.
	// A stale hint is tolerated: the queue falls back to a full search.
	RequeueFrom(ev *E, oldT, newT T) bool
}
