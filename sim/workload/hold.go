package workload

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/dsplay/sim"
)

// KindHold labels events created by the hold model.
const KindHold = "hold"

// HoldSpec configures the hold model: a fixed population of events, each of
// which reschedules itself a random increment into the future every time it
// fires. The queue length therefore stays constant while the time axis keeps
// moving, which is the standard workload for pending-event-set benchmarks.
type HoldSpec struct {
	Population int      `yaml:"population"`
	Increment  DistSpec `yaml:"increment"`
	// CancelProb is the chance, per firing, that another pending member is
	// cancelled and replaced by a fresh event.
	CancelProb float64 `yaml:"cancel_prob"`
	// RescheduleProb is the chance, per firing, that another pending member
	// is moved to a new time.
	RescheduleProb float64 `yaml:"reschedule_prob"`
}

// Validate checks that all fields in the spec are valid.
func (s *HoldSpec) Validate() error {
	if s.Population <= 0 {
		return fmt.Errorf("population must be positive, got %d", s.Population)
	}
	if s.CancelProb < 0 || s.CancelProb > 1 {
		return fmt.Errorf("cancel_prob must be in [0, 1], got %f", s.CancelProb)
	}
	if s.RescheduleProb < 0 || s.RescheduleProb > 1 {
		return fmt.Errorf("reschedule_prob must be in [0, 1], got %f", s.RescheduleProb)
	}
	if _, err := NewSampler(s.Increment); err != nil {
		return fmt.Errorf("increment: %w", err)
	}
	return nil
}

// Hold drives the hold model. It is the Handler of every event it creates.
type Hold struct {
	spec    HoldSpec
	sampler Sampler
	rng     *rand.Rand // increments
	pick    *rand.Rand // cancellation and reschedule victims

	members []*sim.Event
	slot    map[*sim.Event]int
}

// NewHold validates spec and binds the model to its RNG streams.
func NewHold(spec HoldSpec, rngs *sim.PartitionedRNG) (*Hold, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	sampler, err := NewSampler(spec.Increment)
	if err != nil {
		return nil, err
	}
	return &Hold{
		spec:    spec,
		sampler: sampler,
		rng:     rngs.ForSubsystem(sim.SubsystemWorkload),
		pick:    rngs.ForSubsystem(sim.SubsystemCancel),
		slot:    make(map[*sim.Event]int, spec.Population),
	}, nil
}

// Sampler exposes the increment distribution.
func (h *Hold) Sampler() Sampler {
	return h.sampler
}

// Members returns the current population. The slice is owned by Hold.
func (h *Hold) Members() []*sim.Event {
	return h.members
}

// Install creates the population and schedules each member one increment
// after the simulator's current clock.
func (h *Hold) Install(s *sim.Simulator) {
	for i := 0; i < h.spec.Population; i++ {
		ev := s.NewEvent(KindHold, h)
		h.slot[ev] = len(h.members)
		h.members = append(h.members, ev)
		s.Schedule(ev, s.Clock+h.sampler.Sample(h.rng))
	}
	logrus.Infof("Hold model installed: %d events", h.spec.Population)
}

// Handle reschedules the fired event and, by chance, disturbs another member.
func (h *Hold) Handle(s *sim.Simulator, ev *sim.Event) {
	s.Schedule(ev, s.Clock+h.sampler.Sample(h.rng))

	if h.spec.CancelProb > 0 && h.pick.Float64() < h.spec.CancelProb {
		if victim := h.victim(ev); victim != nil && s.Cancel(victim) {
			h.replace(s, victim)
		}
	}
	if h.spec.RescheduleProb > 0 && h.pick.Float64() < h.spec.RescheduleProb {
		if victim := h.victim(ev); victim != nil {
			s.Reschedule(victim, s.Clock+h.sampler.Sample(h.rng))
		}
	}
}

// victim picks a random member other than ev.
func (h *Hold) victim(ev *sim.Event) *sim.Event {
	if len(h.members) < 2 {
		return nil
	}
	v := h.members[h.pick.Intn(len(h.members))]
	if v == ev {
		return nil
	}
	return v
}

func (h *Hold) replace(s *sim.Simulator, old *sim.Event) {
	i := h.slot[old]
	delete(h.slot, old)
	ev := s.NewEvent(KindHold, h)
	h.members[i] = ev
	h.slot[ev] = i
	s.Schedule(ev, s.Clock+h.sampler.Sample(h.rng))
	logrus.Debugf("[t %.4f] Cancelled #%d, replaced by #%d", s.Clock, old.ID, ev.ID)
}
