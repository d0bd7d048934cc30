package protocol

import (
	"errors"

	"github.com/san-kum/cellsim/internal/sim"
)

// ErrEmptySequence indicates a sequence with no steps.
var ErrEmptySequence = errors.New("protocol: empty sequence")

// Step is one segment of an experiment: a program plus an exit rule. The
// step ends after Duration seconds, or earlier if the program itself
// reports completion.
type Step struct {
	Name     string
	Program  sim.Protocol
	Duration float64 // [s], <= 0 means until the program completes
}

// Sequence runs steps back to back. It tracks its position by simulation
// time, so a Sequence instance belongs to a single run and is not safe
// for concurrent use.
type Sequence struct {
	steps   []Step
	cursor  int
	started float64
	active  bool
}

// NewSequence validates the steps. Steps without a duration must be able
// to finish on their own.
func NewSequence(steps ...Step) (*Sequence, error) {
	if len(steps) == 0 {
		return nil, ErrEmptySequence
	}
	for _, s := range steps {
		if s.Program == nil {
			return nil, errors.New("protocol: sequence step has no program")
		}
		if s.Duration <= 0 {
			if _, ok := s.Program.(sim.Finisher); !ok {
				return nil, errors.New("protocol: open-ended step needs a self-completing program")
			}
		}
	}
	return &Sequence{steps: steps}, nil
}

// StepIndex reports the currently active step.
func (q *Sequence) StepIndex() int { return q.cursor }

// Len reports the number of steps.
func (q *Sequence) Len() int { return len(q.steps) }

func (q *Sequence) advance(x sim.State, voltage float64, t float64) {
	if !q.active {
		q.started = t
		q.active = true
	}
	for q.cursor < len(q.steps) {
		s := q.steps[q.cursor]
		expired := s.Duration > 0 && t-q.started >= s.Duration
		done := false
		if f, ok := s.Program.(sim.Finisher); ok {
			done = f.Complete(x, voltage, t)
		}
		if !expired && !done {
			return
		}
		q.cursor++
		q.started = t
	}
}

func (q *Sequence) Current(x sim.State, voltage float64, t float64) float64 {
	q.advance(x, voltage, t)
	if q.cursor >= len(q.steps) {
		return 0
	}
	return q.steps[q.cursor].Program.Current(x, voltage, t)
}

// Complete reports that every step has finished.
func (q *Sequence) Complete(x sim.State, voltage float64, t float64) bool {
	q.advance(x, voltage, t)
	return q.cursor >= len(q.steps)
}
