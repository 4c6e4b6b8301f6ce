// Package learn fits neural surrogates to derivative datasets: given a
// stored trajectory and its computed derivatives, it trains an MLP to
// map state to state derivative.
package learn

import (
	"fmt"
	"math"

	"github.com/san-kum/tinytorch/autograd"
	"github.com/san-kum/tinytorch/internal/dataset"
	"github.com/san-kum/tinytorch/nn"
	"github.com/san-kum/tinytorch/tensor"
)

type Options struct {
	Epochs       int
	Hidden       []int
	LearningRate float32
	TrainFrac    float64
	Activation   string
	Seed         int64
	ClipGrad     float32
}

func DefaultOptions() Options {
	return Options{
		Epochs:       500,
		Hidden:       []int{32, 32},
		LearningRate: 0.01,
		TrainFrac:    0.8,
		Activation:   "tanh",
		Seed:         42,
		ClipGrad:     5.0,
	}
}

// Result holds the trained surrogate with its input normalization, so
// predictions can be made on raw states.
type Result struct {
	Model       *nn.MLP
	LossHistory []float32
	ValRMSE     float64
	TrainRows   int
	TestRows    int

	mean, std *tensor.Tensor
}

// Predict evaluates the surrogate on raw (unnormalized) states.
func (r *Result) Predict(x *tensor.Tensor) (*tensor.Tensor, error) {
	centered, err := x.Sub(r.mean)
	if err != nil {
		return nil, err
	}
	normalized, err := centered.Div(r.std)
	if err != nil {
		return nil, err
	}
	return r.Model.Predict(normalized)
}

// FitDerivatives loads a run's trajectory and derivative dataset from
// the store and trains an MLP mapping state to derivative.
func FitDerivatives(store *dataset.Store, runID string, opts Options) (*Result, error) {
	states, times, err := store.LoadStates(runID)
	if err != nil {
		return nil, fmt.Errorf("learn: load states: %w", err)
	}
	derivs, _, err := store.LoadDerivatives(runID)
	if err != nil {
		return nil, fmt.Errorf("learn: load derivatives: %w", err)
	}
	if len(derivs) != len(states) {
		n := len(states)
		if len(derivs) < n {
			n = len(derivs)
		}
		states, times, derivs = states[:n], times[:n], derivs[:n]
	}

	x, _, err := dataset.ToTensors(states, times)
	if err != nil {
		return nil, err
	}
	y, _, err := dataset.ToTensors(derivs, times[:len(derivs)])
	if err != nil {
		return nil, err
	}

	return Fit(x, y, opts)
}

// Fit trains an MLP on paired (state, derivative) tensors.
func Fit(x, y *tensor.Tensor, opts Options) (*Result, error) {
	if opts.Epochs <= 0 {
		return nil, fmt.Errorf("learn: epochs must be positive")
	}
	if x.Dim(0) < 4 {
		return nil, fmt.Errorf("learn: need at least 4 samples, got %d", x.Dim(0))
	}

	act, ok := nn.ByName(opts.Activation)
	if !ok {
		return nil, fmt.Errorf("learn: unknown activation: %s", opts.Activation)
	}

	normX, mean, std, err := dataset.Normalize(x)
	if err != nil {
		return nil, err
	}

	trainX, trainY, testX, testY, err := dataset.Split(normX, y, opts.TrainFrac, opts.Seed)
	if err != nil {
		return nil, err
	}

	dim := x.Dim(1)
	outDim := y.Dim(1)
	sizes := append([]int{dim}, opts.Hidden...)
	sizes = append(sizes, outDim)

	tape := autograd.NewTape()
	model, err := nn.NewMLP(tape, sizes, act, opts.Seed)
	if err != nil {
		return nil, err
	}
	optim := nn.NewSGD(opts.LearningRate)

	res := &Result{
		Model:       model,
		LossHistory: make([]float32, 0, opts.Epochs),
		TrainRows:   trainX.Dim(0),
		TestRows:    testX.Dim(0),
		mean:        mean,
		std:         std,
	}

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		tape.Reset()

		in := tape.Const(trainX)
		target := tape.Const(trainY)

		pred, err := model.Forward(in)
		if err != nil {
			return nil, err
		}
		loss, err := nn.MSE(pred, target)
		if err != nil {
			return nil, err
		}
		if err := tape.Backward(loss); err != nil {
			return nil, err
		}
		if opts.ClipGrad > 0 {
			if err := nn.ClipGrads(model.Params(), opts.ClipGrad); err != nil {
				return nil, err
			}
		}
		optim.Step(model.Params())

		lossVal, err := loss.Value.Item()
		if err != nil {
			return nil, err
		}
		res.LossHistory = append(res.LossHistory, lossVal)
	}

	res.ValRMSE, err = validate(model, testX, testY)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func validate(model *nn.MLP, x, y *tensor.Tensor) (float64, error) {
	pred, err := model.Predict(x)
	if err != nil {
		return 0, err
	}
	pd, yd := pred.Data(), y.Data()
	if len(pd) != len(yd) {
		return 0, fmt.Errorf("learn: prediction size mismatch")
	}
	if len(pd) == 0 {
		return 0, nil
	}
	sum := 0.0
	for i := range pd {
		d := float64(pd[i] - yd[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(pd))), nil
}
