// Package integrators provides explicit time steppers for the model ODEs.
// Euler and RK4 take fixed steps; RK45 (Dormand-Prince) embeds a fourth
// order error estimate for adaptive step control.
package integrators

import "github.com/san-kum/cellsim/internal/sim"

// Euler is the explicit first-order stepper. Cheap and adequate for the
// single particle model at modest step sizes.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(m sim.Model, x sim.State, current float64, t, dt float64) sim.State {
	dx := m.Derive(x, current, t)
	next := make(sim.State, len(x))
	for k := range x {
		next[k] = x[k] + dt*dx[k]
	}
	return next
}
