package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

// harmonic oscillator: x'' = -x, analytic solution cos(t)
type oscillator struct{}

func (oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (oscillator) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	sys := oscillator{}
	integ := NewRK4()

	x0 := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	x := x0
	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerConvergesWithSmallerSteps(t *testing.T) {
	sys := oscillator{}
	integ := NewEuler()

	finalError := func(dt float64) float64 {
		x := dynamo.State{1.0, 0.0}
		steps := int(1.0 / dt)
		for i := 0; i < steps; i++ {
			x = integ.Step(sys, x, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - math.Cos(1.0))
	}

	coarse := finalError(0.01)
	fine := finalError(0.001)

	if fine >= coarse {
		t.Errorf("error did not shrink with smaller dt: %.6f vs %.6f", fine, coarse)
	}
}

func TestRK4BeatsEuler(t *testing.T) {
	sys := oscillator{}
	dt := 0.05
	steps := 200

	xe := dynamo.State{1.0, 0.0}
	xr := dynamo.State{1.0, 0.0}
	euler := NewEuler()
	rk4 := NewRK4()

	for i := 0; i < steps; i++ {
		tNow := float64(i) * dt
		xe = euler.Step(sys, xe, tNow, dt)
		xr = rk4.Step(sys, xr, tNow, dt)
	}

	exact := math.Cos(float64(steps) * dt)
	errEuler := math.Abs(xe[0] - exact)
	errRK4 := math.Abs(xr[0] - exact)

	if errRK4 >= errEuler {
		t.Errorf("rk4 error %.6f should be below euler error %.6f", errRK4, errEuler)
	}
}
