package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

func TestRK45Accuracy(t *testing.T) {
	sys := oscillator{}
	integ := NewRK45()

	x := dynamo.State{1.0, 0.0}
	dt := 0.05
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	expected := math.Cos(float64(steps) * dt)
	if math.Abs(x[0]-expected) > 1e-5 {
		t.Errorf("position error too large: got %.8f, expected %.8f", x[0], expected)
	}
}

func TestRK45AdaptiveShrinksOnError(t *testing.T) {
	sys := oscillator{}
	integ := NewRK45()

	x := dynamo.State{1.0, 0.0}
	_, dtNew, err := integ.StepAdaptive(sys, x, 0, 1.0, 1e-10)
	if err != nil {
		t.Fatal(err)
	}
	if dtNew >= 1.0 {
		t.Errorf("expected step shrink under tight tolerance, got dt=%f", dtNew)
	}
}

func TestRK45AdaptiveGrowsWhenEasy(t *testing.T) {
	sys := oscillator{}
	integ := NewRK45()

	x := dynamo.State{1.0, 0.0}
	_, dtNew, err := integ.StepAdaptive(sys, x, 0, 1e-6, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if dtNew <= 1e-6 {
		t.Errorf("expected step growth under loose tolerance, got dt=%g", dtNew)
	}
}
