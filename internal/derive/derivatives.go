// Package derive computes derived quantities from stored trajectories:
// time derivatives, power spectra and full-vs-reduced error measures.
package derive

import (
	"fmt"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

// TimeDerivatives estimates dX/dt from sampled states using central
// differences in the interior and one-sided differences at the ends.
// Times must be strictly increasing.
func TimeDerivatives(states []dynamo.State, times []float64) ([]dynamo.State, error) {
	n := len(states)
	if n < 2 {
		return nil, fmt.Errorf("derive: need at least 2 samples, got %d", n)
	}
	if len(times) != n {
		return nil, fmt.Errorf("derive: %d states but %d times", n, len(times))
	}
	dim := len(states[0])
	for i := 1; i < n; i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("derive: time not increasing at sample %d (%f -> %f)", i, times[i-1], times[i])
		}
		if len(states[i]) != dim {
			return nil, fmt.Errorf("derive: state dim changed at sample %d", i)
		}
	}

	out := make([]dynamo.State, n)

	// forward difference at the start
	out[0] = states[1].Sub(states[0]).Scale(1 / (times[1] - times[0]))

	for i := 1; i < n-1; i++ {
		out[i] = states[i+1].Sub(states[i-1]).Scale(1 / (times[i+1] - times[i-1]))
	}

	// backward difference at the end
	out[n-1] = states[n-1].Sub(states[n-2]).Scale(1 / (times[n-1] - times[n-2]))

	return out, nil
}

// RMSE computes the root mean square error between two trajectories,
// truncated to the shorter one.
func RMSE(a, b []dynamo.State) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	sumSq := 0.0
	count := 0
	for i := 0; i < n; i++ {
		dim := len(a[i])
		if len(b[i]) < dim {
			dim = len(b[i])
		}
		for j := 0; j < dim; j++ {
			d := a[i][j] - b[i][j]
			sumSq += d * d
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sqrt(sumSq / float64(count))
}

// MaxAbsError computes the largest per-element deviation between two
// trajectories, truncated to the shorter one.
func MaxAbsError(a, b []dynamo.State) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	peak := 0.0
	for i := 0; i < n; i++ {
		dim := len(a[i])
		if len(b[i]) < dim {
			dim = len(b[i])
		}
		for j := 0; j < dim; j++ {
			d := a[i][j] - b[i][j]
			if d < 0 {
				d = -d
			}
			if d > peak {
				peak = d
			}
		}
	}
	return peak
}
