// Package interp builds callable profiles from sampled data. The main use
// is turning tabulated drive cycles (time, current) into the time-varying
// current functions accepted by parameter sets and protocols.
package interp

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrLengthMismatch indicates times and values differ in length.
	ErrLengthMismatch = errors.New("interp: times and values must have equal length")

	// ErrTooFewSamples indicates fewer than two sample points.
	ErrTooFewSamples = errors.New("interp: need at least two sample points")

	// ErrNotIncreasing indicates times are not strictly increasing.
	ErrNotIncreasing = errors.New("interp: times must be strictly increasing")
)

// PiecewiseLinear interpolates linearly between sample points and clamps
// to the boundary values outside the sampled range.
type PiecewiseLinear struct {
	times  []float64
	values []float64
}

func NewPiecewiseLinear(times, values []float64) (*PiecewiseLinear, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("%w: %d times, %d values", ErrLengthMismatch, len(times), len(values))
	}
	if len(times) < 2 {
		return nil, ErrTooFewSamples
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("%w: times[%d]=%g, times[%d]=%g", ErrNotIncreasing, i-1, times[i-1], i, times[i])
		}
	}

	p := &PiecewiseLinear{
		times:  make([]float64, len(times)),
		values: make([]float64, len(values)),
	}
	copy(p.times, times)
	copy(p.values, values)
	return p, nil
}

// At evaluates the interpolant. Sample points reproduce their input values
// exactly.
func (p *PiecewiseLinear) At(t float64) float64 {
	n := len(p.times)
	if t <= p.times[0] {
		return p.values[0]
	}
	if t >= p.times[n-1] {
		return p.values[n-1]
	}

	// Index of the first sample strictly after t.
	i := sort.SearchFloat64s(p.times, t)
	if p.times[i] == t {
		return p.values[i]
	}

	t0, t1 := p.times[i-1], p.times[i]
	v0, v1 := p.values[i-1], p.values[i]
	frac := (t - t0) / (t1 - t0)
	return v0 + frac*(v1-v0)
}

// Func adapts the interpolant to the plain callable shape used by
// parameter values and protocols.
func (p *PiecewiseLinear) Func() func(float64) float64 {
	return p.At
}

// Domain returns the sampled time range.
func (p *PiecewiseLinear) Domain() (start, end float64) {
	return p.times[0], p.times[len(p.times)-1]
}

// Len returns the number of sample points.
func (p *PiecewiseLinear) Len() int { return len(p.times) }
