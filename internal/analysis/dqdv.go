package analysis

import (
	"errors"

	"github.com/san-kum/cellsim/internal/sim"
)

// ErrTooFewSamples indicates a trajectory too short to differentiate.
var ErrTooFewSamples = errors.New("analysis: need at least three samples")

// DQDVPoint is one sample of a differential capacity curve.
type DQDVPoint struct {
	Voltage float64 // [V]
	DQDV    float64 // [Ah/V]
}

// DifferentialCapacity computes dQ/dV over a solved trajectory. Charge is
// integrated from the recorded current; the derivative is taken with
// central differences on the voltage trace. Samples where the voltage is
// locally flat are skipped to keep the curve finite.
func DifferentialCapacity(sol *sim.Solution) ([]DQDVPoint, error) {
	if sol.Empty() || len(sol.Times) < 3 {
		return nil, ErrTooFewSamples
	}

	// Cumulative charge [Ah] by trapezoid.
	q := make([]float64, len(sol.Times))
	for i := 1; i < len(q); i++ {
		dt := sol.Times[i] - sol.Times[i-1]
		q[i] = q[i-1] + (sol.Current[i]+sol.Current[i-1])/2*dt/3600
	}

	points := make([]DQDVPoint, 0, len(q)-2)
	for i := 1; i < len(q)-1; i++ {
		dv := sol.Voltage[i+1] - sol.Voltage[i-1]
		if dv == 0 {
			continue
		}
		points = append(points, DQDVPoint{
			Voltage: sol.Voltage[i],
			DQDV:    (q[i+1] - q[i-1]) / dv,
		})
	}
	if len(points) == 0 {
		return nil, errors.New("analysis: voltage trace is flat")
	}
	return points, nil
}

// CapacityAtRate reports the charge [Ah] delivered while the voltage
// stayed at or above the floor.
func CapacityAtRate(sol *sim.Solution, voltageFloor float64) float64 {
	if sol.Empty() {
		return 0
	}
	total := 0.0
	for i := 1; i < len(sol.Times); i++ {
		if sol.Voltage[i] < voltageFloor {
			break
		}
		dt := sol.Times[i] - sol.Times[i-1]
		total += (sol.Current[i] + sol.Current[i-1]) / 2 * dt / 3600
	}
	return total
}
