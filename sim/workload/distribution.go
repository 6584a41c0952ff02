package workload

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
)

// Sampler generates non-negative time increments between an event firing
// and its next occurrence.
type Sampler interface {
	// Sample returns an increment >= 0.
	Sample(rng *rand.Rand) float64
	// Mean returns the expected increment. A zero mean never advances the
	// clock, so a run needs an event limit to stop.
	Mean() float64
}

// DistSpec parameterizes an increment distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// ExponentialSampler draws exponentially distributed increments.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * s.mean
}

func (s *ExponentialSampler) Mean() float64 { return s.mean }

// UniformSampler draws from [lo, hi).
type UniformSampler struct {
	lo, hi float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	return s.lo + rng.Float64()*(s.hi-s.lo)
}

func (s *UniformSampler) Mean() float64 { return (s.lo + s.hi) / 2 }

// BimodalSampler mixes a narrow uniform mode with a rare wide one. This is the
// classic stress shape for bucketed queues: most events are near-term, a few
// land far out.
type BimodalSampler struct {
	near, far UniformSampler
	farWeight float64 // Probability of drawing from the far mode
}

func (s *BimodalSampler) Sample(rng *rand.Rand) float64 {
	if rng.Float64() < s.farWeight {
		return s.far.Sample(rng)
	}
	return s.near.Sample(rng)
}

func (s *BimodalSampler) Mean() float64 {
	return (1-s.farWeight)*s.near.Mean() + s.farWeight*s.far.Mean()
}

// TriangularSampler draws from a triangular distribution on [lo, hi] with the
// given mode, by inverse CDF.
type TriangularSampler struct {
	lo, mode, hi float64
}

func (s *TriangularSampler) Sample(rng *rand.Rand) float64 {
	u := rng.Float64()
	f := (s.mode - s.lo) / (s.hi - s.lo)
	if u < f {
		return s.lo + math.Sqrt(u*(s.hi-s.lo)*(s.mode-s.lo))
	}
	return s.hi - math.Sqrt((1-u)*(s.hi-s.lo)*(s.hi-s.mode))
}

func (s *TriangularSampler) Mean() float64 { return (s.lo + s.mode + s.hi) / 3 }

// ParetoSampler draws heavy-tailed increments: X = xm / U^(1/alpha).
type ParetoSampler struct {
	alpha float64 // Pareto shape
	xm    float64 // Pareto scale (minimum)
}

func (s *ParetoSampler) Sample(rng *rand.Rand) float64 {
	u := rng.Float64()
	if u == 0 {
		u = math.SmallestNonzeroFloat64 // prevent division by zero → +Inf
	}
	val := s.xm / math.Pow(u, 1.0/s.alpha)
	// Guard against +Inf from extreme u
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return s.xm
	}
	return val
}

func (s *ParetoSampler) Mean() float64 {
	if s.alpha <= 1 {
		return math.Inf(1)
	}
	return s.alpha * s.xm / (s.alpha - 1)
}

// ConstantSampler always returns the same increment. Every event then ties
// with the others scheduled in the same batch.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 { return s.value }

func (s *ConstantSampler) Mean() float64 { return s.value }

// ValidDistributions lists the recognized distribution type names.
var ValidDistributions = []string{"bimodal", "constant", "exponential", "pareto", "triangular", "uniform"}

// NewSampler creates a Sampler from a DistSpec, applying per-type defaults
// for missing parameters.
func NewSampler(spec DistSpec) (Sampler, error) {
	p := func(name string, def float64) float64 {
		if v, ok := spec.Params[name]; ok {
			return v
		}
		return def
	}
	switch spec.Type {
	case "exponential", "":
		mean := p("mean", 1)
		if mean <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %f", mean)
		}
		return &ExponentialSampler{mean: mean}, nil
	case "uniform":
		lo, hi := p("min", 0), p("max", 2)
		if lo < 0 || hi <= lo {
			return nil, fmt.Errorf("uniform requires 0 <= min < max, got [%f, %f)", lo, hi)
		}
		return &UniformSampler{lo: lo, hi: hi}, nil
	case "bimodal":
		s := &BimodalSampler{
			near:      UniformSampler{lo: 0, hi: p("near_max", 1)},
			far:       UniformSampler{lo: 0, hi: p("far_max", 100)},
			farWeight: p("far_weight", 0.1),
		}
		if s.near.hi <= 0 || s.far.hi <= 0 {
			return nil, fmt.Errorf("bimodal near_max and far_max must be positive")
		}
		if s.farWeight < 0 || s.farWeight > 1 {
			return nil, fmt.Errorf("bimodal far_weight must be in [0, 1], got %f", s.farWeight)
		}
		return s, nil
	case "triangular":
		lo, mode, hi := p("min", 0), p("mode", 1.5), p("max", 2)
		if lo < 0 || mode < lo || hi < mode || hi == lo {
			return nil, fmt.Errorf("triangular requires 0 <= min <= mode <= max and min < max, got %f/%f/%f", lo, mode, hi)
		}
		return &TriangularSampler{lo: lo, mode: mode, hi: hi}, nil
	case "pareto":
		alpha, xm := p("alpha", 2.5), p("xm", 0.6)
		if alpha <= 0 || xm <= 0 {
			return nil, fmt.Errorf("pareto alpha and xm must be positive, got %f, %f", alpha, xm)
		}
		return &ParetoSampler{alpha: alpha, xm: xm}, nil
	case "constant":
		v := p("value", 1)
		if v < 0 {
			return nil, fmt.Errorf("constant value must be non-negative, got %f", v)
		}
		return &ConstantSampler{value: v}, nil
	default:
		valid := append([]string(nil), ValidDistributions...)
		sort.Strings(valid)
		return nil, fmt.Errorf("unknown distribution %q; valid: %s", spec.Type, strings.Join(valid, ", "))
	}
}
