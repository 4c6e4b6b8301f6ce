// Package experiment wires model families, integrators, and metrics
// into runnable simulations and full-versus-reduced comparisons.
package experiment

import (
	"fmt"

	"github.com/san-kum/tinytorch/internal/dynamo"
	"github.com/san-kum/tinytorch/internal/integrators"
	"github.com/san-kum/tinytorch/internal/metrics"
	"github.com/san-kum/tinytorch/internal/systems"
)

type Registry struct {
	families    map[string]func(systems.Variant) dynamo.System
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		families:    make(map[string]func(systems.Variant) dynamo.System),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.families["pendulum"] = func(v systems.Variant) dynamo.System { return systems.NewPendulum(v) }
	r.families["duffing"] = func(v systems.Variant) dynamo.System { return systems.NewDuffing(v) }
	r.families["masschain"] = func(v systems.Variant) dynamo.System { return systems.NewMassChain(v) }

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	return r
}

// GetSystem builds a fresh system for the family and variant.
func (r *Registry) GetSystem(family string, variant systems.Variant) (dynamo.System, error) {
	fn, ok := r.families[family]
	if !ok {
		return nil, fmt.Errorf("unknown family: %s", family)
	}
	return fn(variant), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListFamilies() []string {
	return systems.Families()
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	return names
}

// DefaultMetrics builds the standard metric set for a system. Energy
// metrics attach only when the system exposes a Hamiltonian.
func (r *Registry) DefaultMetrics(sys dynamo.System) []dynamo.Metric {
	ms := []dynamo.Metric{metrics.NewStability(100.0)}
	if h, ok := sys.(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergy(h), metrics.NewEnergyDrift(h))
	}
	return ms
}
