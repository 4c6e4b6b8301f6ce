package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/tinytorch/internal/dynamo"
	"github.com/san-kum/tinytorch/internal/systems"
)

type Config struct {
	Family     string
	Variant    systems.Variant
	Integrator string
	InitState  []float64
	Dt         float64
	Duration   float64
	Seed       int64
}

type Experiment struct {
	cfg       Config
	system    dynamo.System
	simulator *dynamo.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(sys dynamo.System, integrator dynamo.Integrator, metrics []dynamo.Metric) error {
	e.system = sys
	e.simulator = dynamo.New(sys, integrator)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := e.initState()
	if x0 == nil {
		return nil, fmt.Errorf("no initial state for %s and system has no default", e.cfg.Family)
	}

	simCfg := dynamo.DefaultConfig()
	simCfg.Dt = e.cfg.Dt
	simCfg.Duration = e.cfg.Duration
	simCfg.Seed = e.cfg.Seed

	return e.simulator.Run(ctx, x0, simCfg)
}

func (e *Experiment) initState() dynamo.State {
	if len(e.cfg.InitState) > 0 {
		x0 := make(dynamo.State, len(e.cfg.InitState))
		copy(x0, e.cfg.InitState)
		return x0
	}
	if d, ok := e.system.(systems.Defaulter); ok {
		return d.DefaultState()
	}
	return nil
}

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}

// System returns the system the experiment was set up with.
func (e *Experiment) System() dynamo.System {
	return e.system
}
