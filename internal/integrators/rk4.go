package integrators

import "github.com/san-kum/cellsim/internal/sim"

// RK4 is the classical fourth-order Runge-Kutta stepper.
type RK4 struct{}

func NewRK4() *RK4 { return &RK4{} }

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(m sim.Model, x sim.State, current float64, t, dt float64) sim.State {
	n := len(x)
	stage := func(base sim.State, k sim.State, scale float64) sim.State {
		y := make(sim.State, n)
		for i := 0; i < n; i++ {
			y[i] = base[i] + scale*k[i]
		}
		return y
	}

	k1 := m.Derive(x, current, t)
	k2 := m.Derive(stage(x, k1, dt/2), current, t+dt/2)
	k3 := m.Derive(stage(x, k2, dt/2), current, t+dt/2)
	k4 := m.Derive(stage(x, k3, dt), current, t+dt)

	next := make(sim.State, n)
	for i := 0; i < n; i++ {
		next[i] = x[i] + dt/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next
}
