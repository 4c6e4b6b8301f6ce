package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/tinytorch/internal/dynamo"
	"github.com/san-kum/tinytorch/tensor"
)

// ToTensors converts a trajectory to a (samples, dim) state tensor and
// a (samples,) time tensor for the learning stage.
func ToTensors(states []dynamo.State, times []float64) (*tensor.Tensor, *tensor.Tensor, error) {
	if len(states) == 0 {
		return nil, nil, fmt.Errorf("dataset: empty trajectory")
	}
	if len(times) != len(states) {
		return nil, nil, fmt.Errorf("dataset: %d states but %d times", len(states), len(times))
	}
	dim := len(states[0])
	data := make([]float32, 0, len(states)*dim)
	for i, s := range states {
		if len(s) != dim {
			return nil, nil, fmt.Errorf("dataset: state dim changed at sample %d", i)
		}
		for _, v := range s {
			data = append(data, float32(v))
		}
	}
	x, err := tensor.New(data, len(states), dim)
	if err != nil {
		return nil, nil, err
	}

	tData := make([]float32, len(times))
	for i, v := range times {
		tData[i] = float32(v)
	}
	t, err := tensor.New(tData, len(times))
	if err != nil {
		return nil, nil, err
	}
	return x, t, nil
}

// Normalize z-scores each column of a (samples, dim) tensor. Columns
// with zero variance are left centered but unscaled. Returns the
// normalized tensor with the per-column mean and std.
func Normalize(x *tensor.Tensor) (normalized, mean, std *tensor.Tensor, err error) {
	if x.Rank() != 2 {
		return nil, nil, nil, fmt.Errorf("dataset: normalize needs a 2-D tensor, got shape %v", x.Shape())
	}
	rows, cols := x.Dim(0), x.Dim(1)
	if rows == 0 {
		return nil, nil, nil, fmt.Errorf("dataset: normalize on empty tensor")
	}

	mean, err = x.MeanAxis(0, true)
	if err != nil {
		return nil, nil, nil, err
	}

	centered, err := x.Sub(mean)
	if err != nil {
		return nil, nil, nil, err
	}

	stdData := make([]float32, cols)
	cd := centered.Data()
	for c := 0; c < cols; c++ {
		sumSq := float64(0)
		for r := 0; r < rows; r++ {
			v := float64(cd[r*cols+c])
			sumSq += v * v
		}
		sd := float32(math.Sqrt(sumSq / float64(rows)))
		if sd == 0 {
			sd = 1
		}
		stdData[c] = sd
	}
	std, err = tensor.New(stdData, 1, cols)
	if err != nil {
		return nil, nil, nil, err
	}

	normalized, err = centered.Div(std)
	if err != nil {
		return nil, nil, nil, err
	}
	return normalized, mean, std, nil
}

// Denormalize inverts Normalize for a (samples, dim) tensor.
func Denormalize(x, mean, std *tensor.Tensor) (*tensor.Tensor, error) {
	scaled, err := x.Mul(std)
	if err != nil {
		return nil, err
	}
	return scaled.Add(mean)
}

// Split shuffles row indices with the seed and splits paired (X, Y)
// tensors into train and test sets. frac is the training fraction.
func Split(x, y *tensor.Tensor, frac float64, seed int64) (trainX, trainY, testX, testY *tensor.Tensor, err error) {
	if x.Rank() != 2 || y.Rank() != 2 {
		return nil, nil, nil, nil, fmt.Errorf("dataset: split needs 2-D tensors")
	}
	rows := x.Dim(0)
	if y.Dim(0) != rows {
		return nil, nil, nil, nil, fmt.Errorf("dataset: X has %d rows, Y has %d", rows, y.Dim(0))
	}
	if frac <= 0 || frac >= 1 {
		return nil, nil, nil, nil, fmt.Errorf("dataset: train fraction must be in (0,1), got %f", frac)
	}

	idx := rand.New(rand.NewSource(seed)).Perm(rows)
	nTrain := int(float64(rows) * frac)
	if nTrain == 0 {
		nTrain = 1
	}

	gather := func(t *tensor.Tensor, rows []int) (*tensor.Tensor, error) {
		cols := t.Dim(1)
		data := make([]float32, 0, len(rows)*cols)
		src := t.Data()
		for _, r := range rows {
			data = append(data, src[r*cols:(r+1)*cols]...)
		}
		return tensor.New(data, len(rows), cols)
	}

	if trainX, err = gather(x, idx[:nTrain]); err != nil {
		return nil, nil, nil, nil, err
	}
	if trainY, err = gather(y, idx[:nTrain]); err != nil {
		return nil, nil, nil, nil, err
	}
	if testX, err = gather(x, idx[nTrain:]); err != nil {
		return nil, nil, nil, nil, err
	}
	if testY, err = gather(y, idx[nTrain:]); err != nil {
		return nil, nil, nil, nil, err
	}
	return trainX, trainY, testX, testY, nil
}
