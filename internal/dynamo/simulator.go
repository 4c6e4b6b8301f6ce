package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	sys        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(sys System, integrator Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.StateDim() {
		return nil, fmt.Errorf("%w: got %d, system needs %d", ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	initialEnergy := s.computeEnergy(x)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		var newX State
		var stepErr error

		if cfg.Adaptive {
			newX, dt, stepErr = s.adaptiveStep(x, t, dt, cfg)
		} else {
			newX = s.integrator.Step(s.sys, x, t, dt)
		}

		if stepErr != nil {
			result.Errors = append(result.Errors, stepErr)
		}

		if cfg.ValidateState && !newX.IsValid() {
			cause := ErrInvalidState
			if diverged(newX) {
				cause = ErrUnstable
			}
			result.Errors = append(result.Errors, &SimulationError{
				Step:    i,
				Time:    t,
				State:   newX.Clone(),
				Wrapped: cause,
			})
			break
		}

		x = newX
		t += dt
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}

func (s *Simulator) computeEnergy(x State) float64 {
	if h, ok := s.sys.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

func (s *Simulator) adaptiveStep(x State, t, dt float64, cfg Config) (State, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		return adaptive.StepAdaptive(s.sys, x, t, dt, cfg.Tolerance)
	}

	// step doubling with the fixed-step integrator
	x1 := s.integrator.Step(s.sys, x, t, dt)
	xHalf := s.integrator.Step(s.sys, x, t, dt/2)
	x2 := s.integrator.Step(s.sys, xHalf, t+dt/2, dt/2)

	err := x1.Sub(x2).Norm()

	if err > cfg.Tolerance {
		if dt/2 < cfg.MinDt {
			return x2, dt, fmt.Errorf("%w: dt=%.3g at t=%.4f", ErrStepTooSmall, dt, t)
		}
		return s.adaptiveStep(x, t, dt/2, cfg)
	}

	if err < cfg.Tolerance/10 && dt < cfg.MaxDt {
		dt = math.Min(dt*2, cfg.MaxDt)
	}

	return x2, dt, nil
}

// diverged reports whether the state blew up to infinity, as opposed to
// producing NaN through an invalid operation.
func diverged(x State) bool {
	for _, v := range x {
		if math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// RunWithCallback steps the simulation and hands each state to callback.
// Returning false from the callback stops the run. Used by live views.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		x = s.integrator.Step(s.sys, x, t, dt)
		t += dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("%w at t=%.4f", ErrInvalidState, t)
		}
	}

	return nil
}
