package sim

import (
	"context"
	"math"
	"testing"
)

// testCell drains a single bucket state linearly with current; voltage is an
// affine function of the remaining charge.
type testCell struct {
	capacityAs float64
}

func (c *testCell) Derive(x State, current float64, t float64) State {
	return State{-current / c.capacityAs}
}

func (c *testCell) StateDim() int       { return 1 }
func (c *testCell) InitialState() State { return State{1.0} }
func (c *testCell) Name() string        { return "test-cell" }

func (c *testCell) Voltage(x State, current float64) float64 {
	return 3.0 + x[0] - 0.01*current
}

func (c *testCell) SOC(x State) float64 { return x[0] }

type testIntegrator struct{}

func (testIntegrator) Step(m Model, x State, current float64, t float64, dt float64) State {
	dx := m.Derive(x, current, t)
	result := make(State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

type constantProtocol struct{ amps float64 }

func (p constantProtocol) Current(x State, voltage float64, t float64) float64 { return p.amps }

func TestSimulatorRun(t *testing.T) {
	s := New(&testCell{capacityAs: 3600}, testIntegrator{}, constantProtocol{amps: 1.0})

	cfg := DefaultConfig()
	cfg.Dt = 100.0

	sol, err := s.Run(context.Background(), Span{Start: 0, End: 1000}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(sol.Times) != 11 {
		t.Errorf("expected 11 samples, got %d", len(sol.Times))
	}
	if sol.FirstTime() != 0 || sol.LastTime() != 1000 {
		t.Errorf("span not covered: [%g, %g]", sol.FirstTime(), sol.LastTime())
	}
	if sol.Termination != TerminationFinalTime {
		t.Errorf("unexpected termination: %s", sol.Termination)
	}

	// 1 A for 1000 s out of 3600 As drains SOC to 1 - 1000/3600.
	finalSOC := sol.SOC[len(sol.SOC)-1]
	expected := 1.0 - 1000.0/3600.0
	if math.Abs(finalSOC-expected) > 1e-9 {
		t.Errorf("expected final SOC %.6f, got %.6f", expected, finalSOC)
	}
}

func TestSimulatorSpanCoverage(t *testing.T) {
	s := New(&testCell{capacityAs: 36000}, testIntegrator{}, constantProtocol{amps: 1.0})

	cfg := DefaultConfig()
	cfg.Dt = 7.0 // does not divide the span evenly

	sol, err := s.Run(context.Background(), Span{Start: 0, End: 3600}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if sol.FirstTime() != 0 {
		t.Errorf("expected first time 0, got %g", sol.FirstTime())
	}
	if sol.LastTime() != 3600 {
		t.Errorf("expected last time 3600, got %g", sol.LastTime())
	}
	for i := 1; i < len(sol.Times); i++ {
		if sol.Times[i] <= sol.Times[i-1] {
			t.Fatalf("time grid not increasing at index %d", i)
		}
	}
}

func TestSimulatorInvalidInput(t *testing.T) {
	s := New(&testCell{capacityAs: 3600}, testIntegrator{}, constantProtocol{amps: 1.0})

	tests := []struct {
		name string
		span Span
		cfg  Config
	}{
		{"zero dt", Span{End: 10}, Config{Dt: 0}},
		{"negative dt", Span{End: 10}, Config{Dt: -0.1}},
		{"empty span", Span{Start: 10, End: 10}, Config{Dt: 0.1}},
		{"inverted span", Span{Start: 10, End: 5}, Config{Dt: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), tt.span, tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorLowerCutoff(t *testing.T) {
	// Voltage is 3.0 + SOC, so SOC 0.5 crosses a 3.5 V cut-off.
	s := New(&testCell{capacityAs: 100}, testIntegrator{}, constantProtocol{amps: 1.0})

	cfg := DefaultConfig()
	cfg.Dt = 1.0
	cfg.LowerVoltageCutoff = 3.5

	sol, err := s.Run(context.Background(), Span{End: 1000}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if sol.Termination != TerminationLowerCutoff {
		t.Errorf("expected lower cut-off termination, got %s", sol.Termination)
	}
	if sol.LastTime() >= 1000 {
		t.Error("expected early termination")
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (m *testMetric) Name() string { return "mean_voltage" }
func (m *testMetric) Observe(x State, current, voltage, t float64) {
	m.count++
	m.sum += voltage
}
func (m *testMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *testMetric) Reset() {
	m.count = 0
	m.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	s := New(&testCell{capacityAs: 3600}, testIntegrator{}, constantProtocol{amps: 1.0})

	metric := &testMetric{}
	s.AddMetric(metric)

	cfg := DefaultConfig()
	cfg.Dt = 100.0

	sol, err := s.Run(context.Background(), Span{End: 1000}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := sol.Metrics["mean_voltage"]; !ok {
		t.Error("metric not found in solution")
	}
	if metric.count != len(sol.Times) {
		t.Errorf("expected %d observations, got %d", len(sol.Times), metric.count)
	}
}

func TestEnsembleRun(t *testing.T) {
	sims := make([]*Simulator, 4)
	for i := range sims {
		sims[i] = New(&testCell{capacityAs: 3600}, testIntegrator{}, constantProtocol{amps: float64(i + 1)})
	}

	cfg := DefaultConfig()
	cfg.Dt = 100.0

	ens := NewEnsemble(sims)
	solutions, err := ens.Run(context.Background(), Span{End: 1000}, cfg)
	if err != nil {
		t.Fatalf("ensemble run failed: %v", err)
	}

	if len(solutions) != 4 {
		t.Fatalf("expected 4 solutions, got %d", len(solutions))
	}
	for i, sol := range solutions {
		if sol.Empty() {
			t.Errorf("solution %d is empty", i)
		}
	}

	// Higher current drains SOC faster.
	last := func(sol *Solution) float64 { return sol.SOC[len(sol.SOC)-1] }
	for i := 1; i < len(solutions); i++ {
		if last(solutions[i]) >= last(solutions[i-1]) {
			t.Errorf("expected monotonically lower final SOC across currents")
		}
	}
}
