package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/cellsim/internal/sim"
)

// Dormand-Prince coefficients.
var (
	dpA = [7][6]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	}
	dpC = [7]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1}
	// Fifth order solution weights.
	dpB5 = [7]float64{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0, 0}
	// Embedded fourth order weights for the error estimate.
	dpB4 = [7]float64{5179.0 / 57600.0, 0, 7571.0 / 16695.0, 393.0 / 640.0, -92097.0 / 339200.0, 187.0 / 2100.0, 1.0 / 40.0}
)

// RK45 is the Dormand-Prince 5(4) pair. Step takes a plain fifth order
// step; StepAdaptive additionally proposes the next step size from the
// embedded error estimate.
type RK45 struct {
	pool     *sim.StatePool
	poolSize int
}

func NewRK45() *RK45 { return &RK45{} }

func (r *RK45) Name() string { return "rk45" }

func (r *RK45) stages(m sim.Model, x sim.State, current float64, t, dt float64) [7]sim.State {
	n := len(x)
	if r.pool == nil || r.poolSize != n {
		r.pool = sim.NewStatePool(n)
		r.poolSize = n
	}

	var k [7]sim.State
	y := r.pool.Get()
	defer r.pool.Put(y)

	for s := 0; s < 7; s++ {
		copy(y, x)
		for j := 0; j < s; j++ {
			a := dpA[s][j]
			if a == 0 {
				continue
			}
			for i := 0; i < n; i++ {
				y[i] += dt * a * k[j][i]
			}
		}
		k[s] = m.Derive(y, current, t+dpC[s]*dt)
	}
	return k
}

func (r *RK45) Step(m sim.Model, x sim.State, current float64, t, dt float64) sim.State {
	k := r.stages(m, x, current, t, dt)
	n := len(x)
	next := make(sim.State, n)
	for i := 0; i < n; i++ {
		acc := x[i]
		for s := 0; s < 7; s++ {
			if dpB5[s] != 0 {
				acc += dt * dpB5[s] * k[s][i]
			}
		}
		next[i] = acc
	}
	return next
}

// StepAdaptive takes one 5(4) step and returns the fifth order solution
// together with a suggested next step size. An error above the tolerance
// is reported so the caller can retry with the smaller step.
func (r *RK45) StepAdaptive(m sim.Model, x sim.State, current float64, t, dt, tol float64) (sim.State, float64, error) {
	k := r.stages(m, x, current, t, dt)
	n := len(x)
	next := make(sim.State, n)

	errNorm := 0.0
	for i := 0; i < n; i++ {
		acc5, acc4 := x[i], x[i]
		for s := 0; s < 7; s++ {
			if dpB5[s] != 0 {
				acc5 += dt * dpB5[s] * k[s][i]
			}
			if dpB4[s] != 0 {
				acc4 += dt * dpB4[s] * k[s][i]
			}
		}
		next[i] = acc5

		scale := tol * (1 + math.Abs(x[i]))
		diff := (acc5 - acc4) / scale
		errNorm += diff * diff
	}
	errNorm = math.Sqrt(errNorm / float64(n))

	// Standard step size controller with a safety factor and growth clamp.
	factor := 2.0
	if errNorm > 0 {
		factor = 0.9 * math.Pow(1/errNorm, 0.2)
		if factor > 2 {
			factor = 2
		}
		if factor < 0.2 {
			factor = 0.2
		}
	}
	nextDt := dt * factor

	if errNorm > 1 {
		return next, nextDt, fmt.Errorf("integrators: rk45 error %.3g above tolerance at t=%.4f", errNorm, t)
	}
	return next, nextDt, nil
}
