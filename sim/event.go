package sim

// Handler reacts to an event firing at the simulator's current clock. It may
// schedule, cancel or reschedule any events, including the one that fired.
type Handler interface {
	Handle(s *Simulator, ev *Event)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(s *Simulator, ev *Event)

func (f HandlerFunc) Handle(s *Simulator, ev *Event) { f(s, ev) }

// Event is a schedulable unit of work. The queue keys it by pointer, so one
// Event value may be rescheduled any number of times but must never be
// pending twice at once.
type Event struct {
	ID      int64   // Assigned by Simulator.NewEvent, unique per run
	Kind    string  // Free-form label used in traces and logs
	Handler Handler // Invoked when the event fires
}
