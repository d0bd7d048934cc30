// Package metrics provides scalar summaries accumulated over a run:
// charge throughput, discharged energy, and time spent inside a voltage
// window. Integrals use trapezoidal accumulation over the sample times.
package metrics

import (
	"math"

	"github.com/san-kum/cellsim/internal/sim"
)

// accumulator integrates |f| dt with the trapezoid rule.
type accumulator struct {
	total    float64
	lastT    float64
	lastVal  float64
	started  bool
}

func (a *accumulator) observe(val, t float64) {
	if a.started {
		a.total += (val + a.lastVal) / 2 * (t - a.lastT)
	}
	a.lastT = t
	a.lastVal = val
	a.started = true
}

func (a *accumulator) reset() { *a = accumulator{} }

// Throughput accumulates total charge moved [Ah], counting both
// directions.
type Throughput struct {
	acc accumulator
}

func NewThroughput() *Throughput { return &Throughput{} }

func (m *Throughput) Name() string { return "throughput_ah" }

func (m *Throughput) Observe(_ sim.State, current, _ float64, t float64) {
	m.acc.observe(math.Abs(current), t)
}

func (m *Throughput) Value() float64 { return m.acc.total / 3600 }
func (m *Throughput) Reset()         { m.acc.reset() }

// Energy accumulates net discharged energy [Wh]; charging subtracts.
type Energy struct {
	acc accumulator
}

func NewEnergy() *Energy { return &Energy{} }

func (m *Energy) Name() string { return "energy_wh" }

func (m *Energy) Observe(_ sim.State, current, voltage float64, t float64) {
	m.acc.observe(current*voltage, t)
}

func (m *Energy) Value() float64 { return m.acc.total / 3600 }
func (m *Energy) Reset()         { m.acc.reset() }

// VoltageWindow measures the fraction of run time spent inside
// [Low, High].
type VoltageWindow struct {
	Low, High float64

	inside  accumulator
	elapsed accumulator
}

func NewVoltageWindow(low, high float64) *VoltageWindow {
	return &VoltageWindow{Low: low, High: high}
}

func (m *VoltageWindow) Name() string { return "voltage_window_fraction" }

func (m *VoltageWindow) Observe(_ sim.State, _, voltage float64, t float64) {
	in := 0.0
	if voltage >= m.Low && voltage <= m.High {
		in = 1.0
	}
	m.inside.observe(in, t)
	m.elapsed.observe(1, t)
}

func (m *VoltageWindow) Value() float64 {
	if m.elapsed.total == 0 {
		return 0
	}
	return m.inside.total / m.elapsed.total
}

func (m *VoltageWindow) Reset() {
	m.inside.reset()
	m.elapsed.reset()
}

// MinVoltage tracks the lowest voltage seen during the run.
type MinVoltage struct {
	min float64
	set bool
}

func NewMinVoltage() *MinVoltage { return &MinVoltage{} }

func (m *MinVoltage) Name() string { return "min_voltage" }

func (m *MinVoltage) Observe(_ sim.State, _, voltage float64, _ float64) {
	if !m.set || voltage < m.min {
		m.min = voltage
		m.set = true
	}
}

func (m *MinVoltage) Value() float64 { return m.min }
func (m *MinVoltage) Reset()         { *m = MinVoltage{} }
