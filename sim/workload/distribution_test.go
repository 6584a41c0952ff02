package workload

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/dsplay/sim/internal/testutil"
)

func TestNewSampler_AllTypes_SampleWithinRange(t *testing.T) {
	tests := []struct {
		spec   DistSpec
		lo, hi float64
	}{
		{DistSpec{Type: "exponential", Params: map[string]float64{"mean": 2}}, 0, math.Inf(1)},
		{DistSpec{Type: "uniform", Params: map[string]float64{"min": 1, "max": 3}}, 1, 3},
		{DistSpec{Type: "bimodal"}, 0, 100},
		{DistSpec{Type: "triangular"}, 0, 2},
		{DistSpec{Type: "pareto"}, 0.6, math.Inf(1)},
		{DistSpec{Type: "constant", Params: map[string]float64{"value": 4}}, 4, 4},
	}
	for _, tc := range tests {
		t.Run(tc.spec.Type, func(t *testing.T) {
			s, err := NewSampler(tc.spec)
			require.NoError(t, err)
			rng := rand.New(rand.NewSource(1))
			for i := 0; i < 10000; i++ {
				v := s.Sample(rng)
				require.GreaterOrEqual(t, v, tc.lo)
				require.LessOrEqual(t, v, tc.hi)
			}
		})
	}
}

func TestNewSampler_EmpiricalMean_CloseToMean(t *testing.T) {
	for _, typ := range []string{"exponential", "uniform", "bimodal", "triangular"} {
		s, err := NewSampler(DistSpec{Type: typ})
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(9))
		sum := 0.0
		const n = 200000
		for i := 0; i < n; i++ {
			sum += s.Sample(rng)
		}
		testutil.AssertFloat64Equal(t, typ, s.Mean(), sum/n, 0.05)
	}
}

func TestNewSampler_EmptyType_DefaultsToExponential(t *testing.T) {
	s, err := NewSampler(DistSpec{})
	require.NoError(t, err)
	assert.IsType(t, &ExponentialSampler{}, s)
	assert.Equal(t, 1.0, s.Mean())
}

func TestNewSampler_InvalidParams_ReturnError(t *testing.T) {
	bad := []DistSpec{
		{Type: "exponential", Params: map[string]float64{"mean": 0}},
		{Type: "uniform", Params: map[string]float64{"min": 3, "max": 1}},
		{Type: "bimodal", Params: map[string]float64{"far_weight": 1.5}},
		{Type: "triangular", Params: map[string]float64{"mode": 5}},
		{Type: "pareto", Params: map[string]float64{"alpha": -1}},
		{Type: "constant", Params: map[string]float64{"value": -1}},
		{Type: "gaussian"},
	}
	for _, spec := range bad {
		_, err := NewSampler(spec)
		assert.Error(t, err, "%+v", spec)
	}
}

func TestParetoSampler_Mean_InfiniteForHeavyTail(t *testing.T) {
	s := &ParetoSampler{alpha: 1, xm: 1}
	assert.True(t, math.IsInf(s.Mean(), 1))
}
