// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/dsplay/sim/trace"
)

// Simulator is the execution loop around a pending-event set: it repeatedly
// takes every event at the earliest time, advances the clock to it and fires
// each one in turn.
type Simulator struct {
	Clock   float64
	Horizon float64
	// MaxEvents stops the run once this many events have fired (0 = no limit).
	// The current batch always completes.
	MaxEvents int64
	// Queue holds every pending event
	Queue   EventQueue[Event, float64]
	Metrics *Metrics
	// Trace, when non-nil, records every firing
	Trace *trace.Trace

	// due maps each pending event to its time, so cancellation and
	// rescheduling can hand the queue an exact hint
	due    map[*Event]float64
	nextID int64
}

// NewSimulator wires a simulator around q. A non-positive horizon means run
// until the queue is empty.
func NewSimulator(q EventQueue[Event, float64], horizon float64, maxEvents int64) *Simulator {
	if horizon <= 0 {
		horizon = math.Inf(1)
	}
	return &Simulator{
		Horizon:   horizon,
		MaxEvents: maxEvents,
		Queue:     q,
		Metrics:   NewMetrics(),
		due:       make(map[*Event]float64),
	}
}

// NewEvent allocates an event with the next run-unique ID.
func (sim *Simulator) NewEvent(kind string, h Handler) *Event {
	sim.nextID++
	return &Event{ID: sim.nextID, Kind: kind, Handler: h}
}

// Schedule pushes ev to fire at time at. Scheduling into the past or
// scheduling an event that is already pending is a programming error.
func (sim *Simulator) Schedule(ev *Event, at float64) {
	if at < sim.Clock {
		panic(fmt.Sprintf("Schedule: event %d at %v is before clock %v", ev.ID, at, sim.Clock))
	}
	if old, ok := sim.due[ev]; ok {
		panic(fmt.Sprintf("Schedule: event %d already pending at %v", ev.ID, old))
	}
	sim.Queue.Enqueue(ev, at)
	sim.due[ev] = at
	sim.Metrics.Scheduled++
	sim.Metrics.PeakPending = max(sim.Metrics.PeakPending, sim.Queue.Len())
}

// Pending returns the time ev is due, if it is waiting in the queue. Events
// already taken for the current batch are not pending.
func (sim *Simulator) Pending(ev *Event) (float64, bool) {
	at, ok := sim.due[ev]
	return at, ok
}

// Cancel withdraws a pending event. It reports false if ev was not pending.
func (sim *Simulator) Cancel(ev *Event) bool {
	at, ok := sim.due[ev]
	if !ok || !sim.Queue.DequeueEventAt(ev, at) {
		return false
	}
	delete(sim.due, ev)
	sim.Metrics.Cancelled++
	return true
}

// Reschedule moves a pending event to time at. It reports false, and leaves
// ev alone, if ev was not pending.
func (sim *Simulator) Reschedule(ev *Event, at float64) bool {
	if at < sim.Clock {
		panic(fmt.Sprintf("Reschedule: event %d at %v is before clock %v", ev.ID, at, sim.Clock))
	}
	old, ok := sim.due[ev]
	if !ok {
		return false
	}
	sim.Queue.RequeueFrom(ev, old, at)
	sim.due[ev] = at
	sim.Metrics.Rescheduled++
	return true
}

func (sim *Simulator) Run() {
	for !sim.Queue.IsEmpty() {
		if sim.MaxEvents > 0 && sim.Metrics.EventsFired >= sim.MaxEvents {
			logrus.Infof("[t %.4f] Event limit %d reached", sim.Clock, sim.MaxEvents)
			break
		}
		// stop before firing anything beyond the horizon
		if next, ok := sim.Queue.Min(); !ok || next > sim.Horizon {
			break
		}
		evs, at, ok := sim.Queue.DequeueAll()
		if !ok {
			break
		}
		if sim.Metrics.Batches == 0 || at != sim.Clock {
			sim.Metrics.DistinctTimes++
		}
		sim.Clock = at
		sim.Metrics.Batches++
		sim.Metrics.MaxBatch = max(sim.Metrics.MaxBatch, len(evs))
		for _, ev := range evs {
			delete(sim.due, ev)
		}
		for _, ev := range evs {
			logrus.Debugf("[t %.4f] Firing %s #%d", sim.Clock, ev.Kind, ev.ID)
			if sim.Trace != nil {
				sim.Trace.Record(trace.Firing{Time: sim.Clock, EventID: ev.ID, Kind: ev.Kind})
			}
			ev.Handler.Handle(sim, ev)
			sim.Metrics.EventsFired++
		}
	}
	sim.Metrics.SimEndedTime = min(sim.Clock, sim.Horizon)
	sim.Metrics.PendingAtEnd = sim.Queue.Len()
	logrus.Infof("[t %.4f] Simulation ended after %d events", sim.Clock, sim.Metrics.EventsFired)
}
