package cmd

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/dsplay/sim/trace"
	"github.com/inference-sim/dsplay/sim/workload"
)

// Queue implementations selectable with --queue.
const (
	QueueDsplay = "dsplay"
	QueueHeap   = "heap"
)

// RunConfig is the full description of one `dsplay run`. It can be loaded
// from YAML and is then overridden by any flag set explicitly.
type RunConfig struct {
	Queue     string            `yaml:"queue"`
	Seed      int64             `yaml:"seed"`
	Start     float64           `yaml:"start"`
	Horizon   float64           `yaml:"horizon"`    // <= 0 runs until the event limit
	MaxEvents int64             `yaml:"max_events"` // 0 = no limit
	Trace     string            `yaml:"trace"`
	Hold      workload.HoldSpec `yaml:"hold"`
}

// DefaultRunConfig returns the configuration used when no file is given.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Queue:     QueueDsplay,
		Seed:      42,
		MaxEvents: 1_000_000,
		Trace:     string(trace.TraceLevelNone),
		Hold: workload.HoldSpec{
			Population: 10_000,
			Increment:  workload.DistSpec{Type: "exponential", Params: map[string]float64{"mean": 1}},
		},
	}
}

// LoadRunConfig reads a YAML run config on top of the defaults.
// Unknown keys are rejected so typos surface as errors.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse run config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field, including the workload.
func (c *RunConfig) Validate() error {
	if c.Queue != QueueDsplay && c.Queue != QueueHeap {
		return fmt.Errorf("unknown queue %q; valid: %s, %s", c.Queue, QueueDsplay, QueueHeap)
	}
	if math.IsNaN(c.Start) {
		return fmt.Errorf("start must be a number")
	}
	if c.MaxEvents < 0 {
		return fmt.Errorf("max_events must be >= 0, got %d", c.MaxEvents)
	}
	if c.Horizon <= 0 && c.MaxEvents == 0 {
		return fmt.Errorf("a hold workload never drains: set a horizon or max_events")
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q", c.Trace)
	}
	if err := c.Hold.Validate(); err != nil {
		return fmt.Errorf("hold: %w", err)
	}
	if c.MaxEvents == 0 {
		// validated above
		sampler, _ := workload.NewSampler(c.Hold.Increment)
		if sampler.Mean() == 0 {
			return fmt.Errorf("hold: a zero increment never advances the clock; set max_events")
		}
	}
	return nil
}
