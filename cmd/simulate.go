package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/dsplay/sim"
	"github.com/inference-sim/dsplay/sim/dsplay"
	"github.com/inference-sim/dsplay/sim/heapq"
	"github.com/inference-sim/dsplay/sim/trace"
	"github.com/inference-sim/dsplay/sim/workload"
)

// RunResult is everything a finished run reports.
type RunResult struct {
	RunID   string
	Config  RunConfig
	Metrics *sim.Metrics
	Trace   *trace.Trace
	Wall    time.Duration

	// Dsplay is the queue the run used, nil for the heap baseline.
	Dsplay *dsplay.Queue[sim.Event, float64]
}

// newQueue builds the pending-event set named by cfg.Queue.
func newQueue(cfg RunConfig) (sim.EventQueue[sim.Event, float64], *dsplay.Queue[sim.Event, float64], error) {
	switch cfg.Queue {
	case QueueHeap:
		return heapq.New[sim.Event, float64](), nil, nil
	case QueueDsplay:
		q, err := dsplay.New[sim.Event](cfg.Start)
		if err != nil {
			return nil, nil, err
		}
		return q, q, nil
	default:
		return nil, nil, fmt.Errorf("unknown queue %q", cfg.Queue)
	}
}

// Simulate runs the hold workload described by cfg to completion.
func Simulate(cfg RunConfig) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	q, dq, err := newQueue(cfg)
	if err != nil {
		return nil, err
	}
	hold, err := workload.NewHold(cfg.Hold, sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed)))
	if err != nil {
		return nil, err
	}

	s := sim.NewSimulator(q, cfg.Horizon, cfg.MaxEvents)
	s.Clock = cfg.Start
	if lvl := trace.TraceLevel(cfg.Trace); lvl != "" && lvl != trace.TraceLevelNone {
		s.Trace = trace.NewTrace(lvl)
	}

	runID := uuid.NewString()
	logrus.Infof("Run %s: queue=%s seed=%d population=%d increment=%s (mean %g)",
		runID, cfg.Queue, cfg.Seed, cfg.Hold.Population, cfg.Hold.Increment.Type, hold.Sampler().Mean())

	hold.Install(s)
	started := time.Now()
	s.Run()

	return &RunResult{
		RunID:   runID,
		Config:  cfg,
		Metrics: s.Metrics,
		Trace:   s.Trace,
		Wall:    time.Since(started),
		Dsplay:  dq,
	}, nil
}

// Verify replays cfg on the binary-heap baseline and checks that both runs
// fired the same number of events at the same sequence of times.
func Verify(cfg RunConfig) error {
	cfg.Trace = string(trace.TraceLevelFirings)
	got, err := Simulate(cfg)
	if err != nil {
		return err
	}
	base := cfg
	base.Queue = QueueHeap
	want, err := Simulate(base)
	if err != nil {
		return err
	}
	if err := trace.CompareTimes(got.Trace, want.Trace); err != nil {
		return fmt.Errorf("%s diverges from %s: %w", cfg.Queue, QueueHeap, err)
	}
	logrus.Infof("Verified %d firings against %s", len(got.Trace.Firings), QueueHeap)
	return nil
}
