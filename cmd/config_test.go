package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/dsplay/sim/workload"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRunConfig_OverlaysDefaults(t *testing.T) {
	// GIVEN a file that sets only some fields
	path := writeFile(t, `
queue: heap
max_events: 500
hold:
  population: 64
  increment:
    type: bimodal
    params:
      far_weight: 0.25
`)

	// WHEN loaded
	cfg, err := LoadRunConfig(path)

	// THEN the file wins where it speaks and defaults fill the rest
	require.NoError(t, err)
	assert.Equal(t, QueueHeap, cfg.Queue)
	assert.Equal(t, int64(500), cfg.MaxEvents)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 64, cfg.Hold.Population)
	assert.Equal(t, "bimodal", cfg.Hold.Increment.Type)
	assert.Equal(t, 0.25, cfg.Hold.Increment.Params["far_weight"])
	assert.NoError(t, cfg.Validate())
}

func TestLoadRunConfig_UnknownField_Rejected(t *testing.T) {
	path := writeFile(t, "queue: dsplay\npopulaton: 5\n")

	_, err := LoadRunConfig(path)

	assert.Error(t, err, "typos must not be silently ignored")
}

func TestLoadRunConfig_MissingFile(t *testing.T) {
	_, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRunConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
		ok     bool
	}{
		{"defaults", func(*RunConfig) {}, true},
		{"unknown queue", func(c *RunConfig) { c.Queue = "calendar" }, false},
		{"negative max events", func(c *RunConfig) { c.MaxEvents = -1 }, false},
		{"never stops", func(c *RunConfig) { c.MaxEvents = 0; c.Horizon = 0 }, false},
		{"horizon only", func(c *RunConfig) { c.MaxEvents = 0; c.Horizon = 100 }, true},
		{"bad trace level", func(c *RunConfig) { c.Trace = "verbose" }, false},
		{"empty population", func(c *RunConfig) { c.Hold.Population = 0 }, false},
		{"bad distribution", func(c *RunConfig) { c.Hold.Increment.Type = "zipf" }, false},
		{"zero increment, horizon only", func(c *RunConfig) {
			c.MaxEvents, c.Horizon = 0, 10
			c.Hold.Increment = workload.DistSpec{Type: "constant", Params: map[string]float64{"value": 0}}
		}, false},
		{"zero increment, event limit", func(c *RunConfig) {
			c.MaxEvents, c.Horizon = 100, 10
			c.Hold.Increment = workload.DistSpec{Type: "constant", Params: map[string]float64{"value": 0}}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRunConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseDistParams(t *testing.T) {
	got, err := parseDistParams(map[string]string{"mean": "2.5", "xm": "1e-1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"mean": 2.5, "xm": 0.1}, got)

	_, err = parseDistParams(map[string]string{"mean": "two"})
	assert.Error(t, err)
}
