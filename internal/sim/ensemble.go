package sim

import (
	"context"
	"sync"
)

// Ensemble runs a family of independently configured simulators in
// parallel, one goroutine per member. Used for parameter sweeps.
type Ensemble struct {
	sims []*Simulator
}

func NewEnsemble(sims []*Simulator) *Ensemble {
	return &Ensemble{sims: sims}
}

func (e *Ensemble) Size() int { return len(e.sims) }

// Run solves every member over the same span. The returned slice is indexed
// like the simulator slice. The first member error, if any, is returned
// alongside whatever solutions completed.
func (e *Ensemble) Run(ctx context.Context, span Span, cfg Config) ([]*Solution, error) {
	solutions := make([]*Solution, len(e.sims))
	errs := make([]error, len(e.sims))

	var wg sync.WaitGroup
	for i, s := range e.sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			solutions[idx], errs[idx] = s.Run(ctx, span, cfg)
		}(i, s)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return solutions, err
		}
	}

	return solutions, nil
}
