package derive

import (
	"math"
	"testing"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

func TestTimeDerivativesLinearRamp(t *testing.T) {
	// x(t) = 3t has exact derivative 3 under finite differences
	n := 10
	states := make([]dynamo.State, n)
	times := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = float64(i) * 0.1
		states[i] = dynamo.State{3 * times[i]}
	}

	dx, err := TimeDerivatives(states, times)
	if err != nil {
		t.Fatal(err)
	}
	for i := range dx {
		if math.Abs(dx[i][0]-3.0) > 1e-9 {
			t.Errorf("sample %d: derivative %f, expected 3", i, dx[i][0])
		}
	}
}

func TestTimeDerivativesSine(t *testing.T) {
	// d/dt sin(t) = cos(t); central differences are 2nd order
	dt := 0.01
	n := 200
	states := make([]dynamo.State, n)
	times := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = float64(i) * dt
		states[i] = dynamo.State{math.Sin(times[i])}
	}

	dx, err := TimeDerivatives(states, times)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < n-1; i++ {
		expected := math.Cos(times[i])
		if math.Abs(dx[i][0]-expected) > 1e-4 {
			t.Errorf("t=%.2f: derivative %f, expected %f", times[i], dx[i][0], expected)
		}
	}
}

func TestTimeDerivativesErrors(t *testing.T) {
	if _, err := TimeDerivatives([]dynamo.State{{1}}, []float64{0}); err == nil {
		t.Error("expected error for single sample")
	}

	states := []dynamo.State{{1}, {2}}
	if _, err := TimeDerivatives(states, []float64{0}); err == nil {
		t.Error("expected error for length mismatch")
	}
	if _, err := TimeDerivatives(states, []float64{0.1, 0.1}); err == nil {
		t.Error("expected error for non-increasing time")
	}
}

func TestRMSE(t *testing.T) {
	a := []dynamo.State{{0, 0}, {1, 1}}
	b := []dynamo.State{{0, 0}, {1, 3}}

	// single error of 2 across 4 elements: sqrt(4/4) = 1
	if got := RMSE(a, b); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("rmse = %f, expected 1", got)
	}
	if RMSE(a, a) != 0 {
		t.Error("identical trajectories should give 0")
	}
	if RMSE(nil, nil) != 0 {
		t.Error("empty trajectories should give 0")
	}
}

func TestMaxAbsError(t *testing.T) {
	a := []dynamo.State{{0, 5}, {1, 1}}
	b := []dynamo.State{{0, 2}, {1, 1.5}}
	if got := MaxAbsError(a, b); got != 3 {
		t.Errorf("max abs error = %f, expected 3", got)
	}
}

func TestDominantFrequency(t *testing.T) {
	// 2 Hz sine sampled at 100 Hz for 4 seconds
	dt := 0.01
	n := 400
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 2.0 * float64(i) * dt)
	}

	freq := DominantFrequency(signal, dt)
	if math.Abs(freq-2.0) > 0.3 {
		t.Errorf("dominant frequency = %f, expected ~2", freq)
	}
}

func TestPowerSpectrumEmpty(t *testing.T) {
	if ps := PowerSpectrum(nil); ps != nil {
		t.Error("expected nil spectrum for empty signal")
	}
}
