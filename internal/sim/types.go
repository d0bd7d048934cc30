package sim

import "math"

// State is a vector of internal model states.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Model is a cell model exposing its ODE right-hand side and the
// terminal quantities derived from a state.
type Model interface {
	// Derive returns dX/dt for applied current [A] (positive = discharge).
	Derive(x State, current float64, t float64) State
	StateDim() int
	// InitialState builds the state vector for the configured initial SOC.
	InitialState() State
	// Voltage returns the terminal voltage [V] for a state and applied current.
	Voltage(x State, current float64) float64
	// SOC returns the cell state of charge in [0, 1].
	SOC(x State) float64
	Name() string
}

// Integrator advances a model state by one timestep.
type Integrator interface {
	Step(m Model, x State, current float64, t float64, dt float64) State
}

// AdaptiveIntegrator additionally proposes the next timestep from a local
// error estimate.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(m Model, x State, current float64, t, dt, tol float64) (State, float64, error)
}

// Protocol decides the applied current each step from the cell terminal
// voltage. Implementations may be stateful (e.g. CC-CV phase latching).
type Protocol interface {
	Current(x State, voltage float64, t float64) float64
}

// Finisher is an optional Protocol extension: a protocol that knows when it
// has run to completion (e.g. a hold reaching its cutoff current).
type Finisher interface {
	Complete(x State, voltage float64, t float64) bool
}

// Metric accumulates a scalar summary over a run.
type Metric interface {
	Name() string
	Observe(x State, current, voltage, t float64)
	Value() float64
	Reset()
}

// Observer receives every accepted step.
type Observer interface {
	OnStep(x State, current, voltage, t float64)
}

// Span is the solve interval [Start, End] in seconds.
type Span struct {
	Start float64
	End   float64
}

func (s Span) Duration() float64 { return s.End - s.Start }

type Config struct {
	Dt            float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
	// Voltage cut-offs terminate the run when crossed. Zero disables.
	LowerVoltageCutoff float64
	UpperVoltageCutoff float64
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0,
		Tolerance:     1e-6,
		MaxDt:         30.0,
		MinDt:         1e-6,
		Adaptive:      false,
		ValidateState: true,
	}
}

// Termination records why a run ended.
type Termination string

const (
	TerminationFinalTime    Termination = "final time"
	TerminationLowerCutoff  Termination = "lower voltage cut-off"
	TerminationUpperCutoff  Termination = "upper voltage cut-off"
	TerminationProtocol     Termination = "protocol complete"
	TerminationInvalidState Termination = "invalid state"
)

// Solution holds the recorded trajectory of a run. All slices share the
// same length and indexing.
type Solution struct {
	Times       []float64
	States      []State
	Current     []float64
	Voltage     []float64
	SOC         []float64
	Metrics     map[string]float64
	Termination Termination
	StepsTaken  int
}

// Empty reports whether the solution carries no samples.
func (s *Solution) Empty() bool { return s == nil || len(s.Times) == 0 }

// FirstTime and LastTime bound the recorded time grid.
func (s *Solution) FirstTime() float64 {
	if s.Empty() {
		return 0
	}
	return s.Times[0]
}

func (s *Solution) LastTime() float64 {
	if s.Empty() {
		return 0
	}
	return s.Times[len(s.Times)-1]
}
