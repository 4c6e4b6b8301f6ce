// Package nn provides activation functions, a linear layer, a small
// multilayer perceptron and an SGD optimizer on top of the autograd
// engine.
package nn

import (
	"math"

	"github.com/san-kum/tinytorch/autograd"
	"github.com/san-kum/tinytorch/tensor"
)

// Activation is an elementwise (or row-wise, for Softmax) nonlinearity.
// Forward evaluates on plain tensors; Apply records on a gradient tape.
type Activation interface {
	Name() string
	Forward(t *tensor.Tensor) *tensor.Tensor
	Apply(v *autograd.Var) *autograd.Var
}

// ByName returns the activation registered under name.
func ByName(name string) (Activation, bool) {
	switch name {
	case "sigmoid":
		return Sigmoid{}, true
	case "relu":
		return ReLU{}, true
	case "tanh":
		return Tanh{}, true
	case "gelu":
		return GELU{}, true
	case "softmax":
		return Softmax{}, true
	}
	return nil, false
}

type Sigmoid struct{}

func (Sigmoid) Name() string { return "sigmoid" }

func sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}

func (Sigmoid) Forward(t *tensor.Tensor) *tensor.Tensor { return t.Apply(sigmoid) }

func (Sigmoid) Apply(v *autograd.Var) *autograd.Var {
	return autograd.Unary(v, sigmoid, func(x float32) float32 {
		s := sigmoid(x)
		return s * (1 - s)
	})
}

type ReLU struct{}

func (ReLU) Name() string { return "relu" }

func relu(x float32) float32 {
	if x > 0 {
		return x
	}
	return 0
}

func (ReLU) Forward(t *tensor.Tensor) *tensor.Tensor { return t.Apply(relu) }

func (ReLU) Apply(v *autograd.Var) *autograd.Var {
	return autograd.Unary(v, relu, func(x float32) float32 {
		if x > 0 {
			return 1
		}
		return 0
	})
}

type Tanh struct{}

func (Tanh) Name() string { return "tanh" }

func tanhf(x float32) float32 { return float32(math.Tanh(float64(x))) }

func (Tanh) Forward(t *tensor.Tensor) *tensor.Tensor { return t.Apply(tanhf) }

func (Tanh) Apply(v *autograd.Var) *autograd.Var {
	return autograd.Unary(v, tanhf, func(x float32) float32 {
		th := tanhf(x)
		return 1 - th*th
	})
}

// GELU uses the tanh approximation:
//
//	0.5 * x * (1 + tanh(sqrt(2/pi) * (x + 0.044715*x^3)))
type GELU struct{}

func (GELU) Name() string { return "gelu" }

const geluCoeff = 0.044715

var geluScale = float32(math.Sqrt(2 / math.Pi))

func gelu(x float32) float32 {
	inner := geluScale * (x + geluCoeff*x*x*x)
	return 0.5 * x * (1 + tanhf(inner))
}

func geluDeriv(x float32) float32 {
	inner := geluScale * (x + geluCoeff*x*x*x)
	th := tanhf(inner)
	sech2 := 1 - th*th
	return 0.5*(1+th) + 0.5*x*sech2*geluScale*(1+3*geluCoeff*x*x)
}

func (GELU) Forward(t *tensor.Tensor) *tensor.Tensor { return t.Apply(gelu) }

func (GELU) Apply(v *autograd.Var) *autograd.Var {
	return autograd.Unary(v, gelu, geluDeriv)
}

// Softmax normalizes along the last axis with the max-subtraction trick
// for numerical stability.
type Softmax struct{}

func (Softmax) Name() string { return "softmax" }

func (Softmax) Forward(t *tensor.Tensor) *tensor.Tensor {
	out := t.Clone()
	data := out.Data()
	n := lastDim(out)
	if n == 0 {
		return out
	}
	for start := 0; start < len(data); start += n {
		row := data[start : start+n]
		max := row[0]
		for _, v := range row[1:] {
			if v > max {
				max = v
			}
		}
		sum := float32(0)
		for i, v := range row {
			e := float32(math.Exp(float64(v - max)))
			row[i] = e
			sum += e
		}
		for i := range row {
			row[i] /= sum
		}
	}
	return out
}

// Apply records softmax with its full Jacobian-vector backward:
//
//	dL/dx_i = s_i * (g_i - sum_j g_j s_j)   per row
func (sm Softmax) Apply(v *autograd.Var) *autograd.Var {
	value := sm.Forward(v.Value)
	return v.Tape().Record(value, func(out *autograd.Var) {
		n := lastDim(value)
		if n == 0 || out.Grad == nil {
			return
		}
		s := value.Data()
		g := out.Grad.Data()
		gx := make([]float32, len(s))
		for start := 0; start < len(s); start += n {
			dot := float32(0)
			for i := start; i < start+n; i++ {
				dot += g[i] * s[i]
			}
			for i := start; i < start+n; i++ {
				gx[i] = s[i] * (g[i] - dot)
			}
		}
		grad, err := tensor.New(gx)
		if err != nil {
			return
		}
		if grad, err = grad.Reshape(v.Value.Shape()...); err != nil {
			return
		}
		autograd.Accumulate(v, grad)
	})
}

func lastDim(t *tensor.Tensor) int {
	if t.Rank() == 0 {
		return t.Size()
	}
	return t.Dim(t.Rank() - 1)
}
