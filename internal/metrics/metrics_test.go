package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/tinytorch/internal/dynamo"
	"github.com/san-kum/tinytorch/internal/systems"
)

func TestEnergyMean(t *testing.T) {
	p := systems.NewPendulum(systems.Full)
	m := NewEnergy(p)

	m.Observe(dynamo.State{0, 0}, 0)
	m.Observe(dynamo.State{0, 1}, 0.01)

	// first sample 0, second 0.5*m*(L*omega)^2 = 0.5
	if math.Abs(m.Value()-0.25) > 1e-9 {
		t.Errorf("mean energy = %f, expected 0.25", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("value should be 0 after reset")
	}
}

func TestEnergyDriftConservative(t *testing.T) {
	p := systems.NewPendulum(systems.Full)
	m := NewEnergyDrift(p)

	x := dynamo.State{0.5, 0}
	m.Observe(x, 0)
	m.Observe(x, 0.01)

	if m.Value() != 0 {
		t.Errorf("drift for constant state = %f, expected 0", m.Value())
	}

	m.Observe(dynamo.State{0.5, 1.0}, 0.02)
	if m.Value() <= 0 {
		t.Error("drift should be positive after energy change")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10.0)

	m.Observe(dynamo.State{1, 2}, 0)
	m.Observe(dynamo.State{11, 0}, 0.01)
	m.Observe(dynamo.State{3, -4}, 0.02)

	if math.Abs(m.Value()-2.0/3.0) > 1e-9 {
		t.Errorf("stability = %f, expected 2/3", m.Value())
	}
}

func TestReductionErrorExactMatch(t *testing.T) {
	ref := []dynamo.State{{1, 0}, {0.9, -0.1}}
	m := NewReductionError(ref, nil)

	m.Observe(dynamo.State{1, 0}, 0)
	m.Observe(dynamo.State{0.9, -0.1}, 0.01)

	if m.Value() != 0 {
		t.Errorf("rmse = %f, expected 0", m.Value())
	}
}

func TestReductionErrorWithLift(t *testing.T) {
	ref := []dynamo.State{{2, 4}}
	double := func(x dynamo.State) dynamo.State { return x.Scale(2) }
	m := NewReductionError(ref, double)

	m.Observe(dynamo.State{1, 2}, 0)
	if m.Value() != 0 {
		t.Errorf("rmse = %f, expected 0 after lift", m.Value())
	}

	m.Reset()
	m.Observe(dynamo.State{1, 1}, 0)
	// lifted to {2,2}, error only in second component: rmse = sqrt(4/2)
	if math.Abs(m.Value()-math.Sqrt2) > 1e-9 {
		t.Errorf("rmse = %f, expected sqrt(2)", m.Value())
	}
}

func TestReductionErrorIgnoresExtraSamples(t *testing.T) {
	ref := []dynamo.State{{1}}
	m := NewReductionError(ref, nil)

	m.Observe(dynamo.State{1}, 0)
	m.Observe(dynamo.State{99}, 0.01) // past the reference, ignored

	if m.Value() != 0 {
		t.Errorf("rmse = %f, expected 0", m.Value())
	}
}
