package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent simulations concurrently, one goroutine per
// run. Because a Plant owns mutable mechanism state, each run gets a fresh
// Simulator and initial state from the build function.
type Ensemble struct {
	build func(run int) (*Simulator, []float64)
	runs  int
}

func NewEnsemble(runs int, build func(run int) (*Simulator, []float64)) *Ensemble {
	return &Ensemble{build: build, runs: runs}
}

// Run executes all runs and returns their results in run order. The first
// run error is returned; completed results are still populated.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.runs)
	errs := make([]error, e.runs)

	var wg sync.WaitGroup
	for i := 0; i < e.runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			s, x0 := e.build(idx)
			results[idx], errs[idx] = s.Run(ctx, x0, cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
