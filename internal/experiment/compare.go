package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/tinytorch/internal/derive"
	"github.com/san-kum/tinytorch/internal/dynamo"
	"github.com/san-kum/tinytorch/internal/metrics"
	"github.com/san-kum/tinytorch/internal/systems"
)

// Comparison holds the outcome of running a family's full and reduced
// variants from the same initial condition. Lifted is the reduced
// trajectory mapped back into full coordinates.
type Comparison struct {
	Family      string
	Full        *dynamo.Result
	Reduced     *dynamo.Result
	Lifted      []dynamo.State
	RMSE        float64
	MaxAbsError float64
}

// Compare runs both variants of a family with the same integrator and
// time grid, projecting the initial condition into reduced coordinates
// and lifting the reduced trajectory back for the error report.
func (r *Registry) Compare(ctx context.Context, family, integrator string, init dynamo.State, dt, duration float64, seed int64) (*Comparison, error) {
	fullSys, err := r.GetSystem(family, systems.Full)
	if err != nil {
		return nil, err
	}
	reducedSys, err := r.GetSystem(family, systems.Reduced)
	if err != nil {
		return nil, err
	}

	ro, ok := reducedSys.(systems.ReducedOrder)
	if !ok {
		return nil, fmt.Errorf("family %s has no reduced-order mapping", family)
	}

	if len(init) == 0 {
		d, ok := fullSys.(systems.Defaulter)
		if !ok {
			return nil, fmt.Errorf("family %s needs an explicit initial state", family)
		}
		init = d.DefaultState()
	}

	runVariant := func(sys dynamo.System, x0 dynamo.State, extra ...dynamo.Metric) (*dynamo.Result, error) {
		integ, err := r.GetIntegrator(integrator)
		if err != nil {
			return nil, err
		}
		sim := dynamo.New(sys, integ)
		for _, m := range r.DefaultMetrics(sys) {
			sim.AddMetric(m)
		}
		for _, m := range extra {
			sim.AddMetric(m)
		}
		cfg := dynamo.DefaultConfig()
		cfg.Dt = dt
		cfg.Duration = duration
		cfg.Seed = seed
		return sim.Run(ctx, x0, cfg)
	}

	full, err := runVariant(fullSys, init)
	if err != nil {
		return nil, fmt.Errorf("full variant: %w", err)
	}

	// streamed error against the full run, lifted sample by sample
	redErr := metrics.NewReductionError(full.States, ro.LiftState)

	reduced, err := runVariant(reducedSys, ro.ProjectState(init), redErr)
	if err != nil {
		return nil, fmt.Errorf("reduced variant: %w", err)
	}

	lifted := make([]dynamo.State, len(reduced.States))
	for i, s := range reduced.States {
		lifted[i] = ro.LiftState(s)
	}

	return &Comparison{
		Family:      family,
		Full:        full,
		Reduced:     reduced,
		Lifted:      lifted,
		RMSE:        derive.RMSE(full.States, lifted),
		MaxAbsError: derive.MaxAbsError(full.States, lifted),
	}, nil
}
