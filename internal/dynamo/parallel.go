package dynamo

import (
	"context"
	"math/rand"
	"sync"
)

// Ensemble runs the same system from perturbed initial conditions in
// parallel. Each run gets its own simulator; metrics are not shared.
type Ensemble struct {
	sys         System
	newInteg    func() Integrator
	numRuns     int
	seedStart   int64
	perturbSize float64
}

// NewEnsemble takes an integrator factory because integrators may keep
// scratch buffers and must not be shared across runs.
func NewEnsemble(sys System, newInteg func() Integrator, numRuns int, seedStart int64, perturbSize float64) *Ensemble {
	return &Ensemble{
		sys:         sys,
		newInteg:    newInteg,
		numRuns:     numRuns,
		seedStart:   seedStart,
		perturbSize: perturbSize,
	}
}

func (e *Ensemble) Run(ctx context.Context, x0 State, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(e.seedStart + int64(idx)))
			xi := x0.Clone()
			if idx > 0 && e.perturbSize > 0 {
				for j := range xi {
					xi[j] += (rng.Float64()*2 - 1) * e.perturbSize
				}
			}

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s := New(e.sys, e.newInteg())
			results[idx], errs[idx] = s.Run(ctx, xi, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
