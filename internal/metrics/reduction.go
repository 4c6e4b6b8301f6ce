package metrics

import (
	"math"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

// ReductionError streams the RMSE of a reduced-order trajectory against
// a reference full-system trajectory, sample by sample. The optional
// lift maps observed states into the reference coordinates first.
type ReductionError struct {
	name      string
	reference []dynamo.State
	lift      func(dynamo.State) dynamo.State
	sumSq     float64
	count     int
	idx       int
}

func NewReductionError(reference []dynamo.State, lift func(dynamo.State) dynamo.State) *ReductionError {
	return &ReductionError{
		name:      "reduction_error",
		reference: reference,
		lift:      lift,
	}
}

func (r *ReductionError) Name() string { return r.name }

func (r *ReductionError) Observe(x dynamo.State, t float64) {
	if r.idx >= len(r.reference) {
		return
	}
	ref := r.reference[r.idx]
	r.idx++

	obs := x
	if r.lift != nil {
		obs = r.lift(x)
	}
	n := len(ref)
	if len(obs) < n {
		n = len(obs)
	}
	for i := 0; i < n; i++ {
		d := obs[i] - ref[i]
		r.sumSq += d * d
		r.count++
	}
}

func (r *ReductionError) Value() float64 {
	if r.count == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.count))
}

func (r *ReductionError) Reset() {
	r.sumSq = 0
	r.count = 0
	r.idx = 0
}
