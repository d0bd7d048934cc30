package sim

import (
	"errors"
	"fmt"
)

// Domain errors for solve operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf entries.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidSpan indicates a solve interval with start >= end.
	ErrInvalidSpan = errors.New("sim: time span start must be before end")

	// ErrStepTooSmall indicates the adaptive timestep fell below minimum.
	ErrStepTooSmall = errors.New("sim: adaptive timestep below minimum")

	// ErrNotConfigured indicates a simulator missing a model or integrator.
	ErrNotConfigured = errors.New("sim: simulator not fully configured")
)

// SolveError wraps an error with the step and time it occurred at.
type SolveError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
