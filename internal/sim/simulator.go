package sim

import (
	"context"
	"fmt"
	"math"
)

// Simulator binds a model, integrator, and current protocol into a
// runnable simulation.
type Simulator struct {
	model      Model
	integrator Integrator
	protocol   Protocol
	metrics    []Metric
	observers  []Observer
}

func New(model Model, integrator Integrator, protocol Protocol) *Simulator {
	return &Simulator{
		model:      model,
		integrator: integrator,
		protocol:   protocol,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Model() Model           { return s.model }
func (s *Simulator) Integrator() Integrator { return s.integrator }
func (s *Simulator) Protocol() Protocol     { return s.protocol }

// Run integrates the model over span, sampling every accepted step.
// The returned solution's time grid starts at span.Start and, unless the run
// terminates early on an event, ends exactly at span.End.
func (s *Simulator) Run(ctx context.Context, span Span, cfg Config) (*Solution, error) {
	if err := s.validate(span, cfg); err != nil {
		return nil, err
	}

	steps := int(math.Ceil(span.Duration() / cfg.Dt))
	sol := &Solution{
		Times:       make([]float64, 0, steps+1),
		States:      make([]State, 0, steps+1),
		Current:     make([]float64, 0, steps+1),
		Voltage:     make([]float64, 0, steps+1),
		SOC:         make([]float64, 0, steps+1),
		Metrics:     make(map[string]float64),
		Termination: TerminationFinalTime,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := s.model.InitialState()
	t := span.Start
	dt := cfg.Dt
	current := 0.0

	for {
		select {
		case <-ctx.Done():
			return sol, ctx.Err()
		default:
		}

		voltage := s.model.Voltage(x, current)
		current = s.protocol.Current(x, voltage, t)
		voltage = s.model.Voltage(x, current)

		sol.Times = append(sol.Times, t)
		sol.States = append(sol.States, x.Clone())
		sol.Current = append(sol.Current, current)
		sol.Voltage = append(sol.Voltage, voltage)
		sol.SOC = append(sol.SOC, s.model.SOC(x))

		for _, m := range s.metrics {
			m.Observe(x, current, voltage, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, current, voltage, t)
		}

		if cfg.LowerVoltageCutoff > 0 && voltage <= cfg.LowerVoltageCutoff {
			sol.Termination = TerminationLowerCutoff
			break
		}
		if cfg.UpperVoltageCutoff > 0 && voltage >= cfg.UpperVoltageCutoff && current < 0 {
			sol.Termination = TerminationUpperCutoff
			break
		}
		if f, ok := s.protocol.(Finisher); ok && f.Complete(x, voltage, t) {
			sol.Termination = TerminationProtocol
			break
		}
		if t >= span.End {
			break
		}

		// Land the final sample exactly on span.End.
		h := dt
		if t+h > span.End {
			h = span.End - t
		}

		var newX State
		took := h
		if cfg.Adaptive {
			var err error
			newX, took, dt, err = s.adaptiveStep(x, current, t, h, cfg)
			if err != nil {
				return sol, &SolveError{Step: sol.StepsTaken, Time: t, Wrapped: err}
			}
		} else {
			newX = s.integrator.Step(s.model, x, current, t, h)
		}

		if cfg.ValidateState && !newX.IsValid() {
			sol.Termination = TerminationInvalidState
			return sol, &SolveError{Step: sol.StepsTaken, Time: t, Wrapped: ErrInvalidState}
		}

		x = newX
		t += took
		sol.StepsTaken++
	}

	for _, m := range s.metrics {
		sol.Metrics[m.Name()] = m.Value()
	}

	return sol, nil
}

func (s *Simulator) validate(span Span, cfg Config) error {
	if s.model == nil || s.integrator == nil || s.protocol == nil {
		return ErrNotConfigured
	}
	if span.Start >= span.End {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidSpan, span.Start, span.End)
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("sim: tolerance must be positive for adaptive stepping")
	}
	return nil
}

// adaptiveStep advances from t by at most dt, shrinking the step until the
// error estimate clears the tolerance. It returns the new state, the step
// actually taken, and the suggested size for the next step.
func (s *Simulator) adaptiveStep(x State, current, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		h := dt
		for attempt := 0; attempt < 30; attempt++ {
			newX, next, err := adaptive.StepAdaptive(s.model, x, current, t, h, cfg.Tolerance)
			if err == nil {
				if next > cfg.MaxDt {
					next = cfg.MaxDt
				}
				return newX, h, next, nil
			}
			// Rejected step: retry at the integrator's proposed size.
			if next >= h {
				next = h / 2
			}
			h = next
			if h < cfg.MinDt {
				break
			}
		}
		return nil, 0, dt, ErrStepTooSmall
	}

	// Step doubling for integrators without embedded error estimates.
	x1 := s.integrator.Step(s.model, x, current, t, dt)
	xHalf := s.integrator.Step(s.model, x, current, t, dt/2)
	x2 := s.integrator.Step(s.model, xHalf, current, t+dt/2, dt/2)

	err := x1.Sub(x2).Norm()

	if err > cfg.Tolerance && dt > cfg.MinDt {
		return s.adaptiveStep(x, current, t, dt/2, cfg)
	}

	next := dt
	if err < cfg.Tolerance/10 && dt < cfg.MaxDt {
		next = math.Min(dt*2, cfg.MaxDt)
	}

	return x2, dt, next, nil
}

// RunWithCallback steps the simulation without recording, invoking callback
// each step. Returning false from the callback stops the run. Used by the
// live terminal view.
func (s *Simulator) RunWithCallback(ctx context.Context, span Span, cfg Config, callback func(x State, current, voltage, t float64) bool) error {
	if err := s.validate(span, cfg); err != nil {
		return err
	}

	x := s.model.InitialState()
	t := span.Start
	current := 0.0

	for t < span.End {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		voltage := s.model.Voltage(x, current)
		current = s.protocol.Current(x, voltage, t)
		voltage = s.model.Voltage(x, current)

		if !callback(x, current, voltage, t) {
			return nil
		}

		x = s.integrator.Step(s.model, x, current, t, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("%w at t=%.4f", ErrInvalidState, t)
		}
	}

	return nil
}
