package nn

import (
	"fmt"
	"math"

	"github.com/san-kum/tinytorch/autograd"
	"github.com/san-kum/tinytorch/tensor"
)

// Linear is a fully connected layer: y = x @ W + b.
type Linear struct {
	W *autograd.Var // (in, out)
	B *autograd.Var // (out,)

	in, out int
}

// NewLinear creates a layer with uniform init scaled by 1/sqrt(in).
func NewLinear(tape *autograd.Tape, in, out int, seed int64) *Linear {
	scale := float32(1 / math.Sqrt(float64(in)))
	return &Linear{
		W:   tape.Var(tensor.Rand(seed, scale, in, out)),
		B:   tape.Var(tensor.Zeros(out)),
		in:  in,
		out: out,
	}
}

// Forward computes y = x @ W + b for a (batch, in) input.
func (l *Linear) Forward(x *autograd.Var) (*autograd.Var, error) {
	z, err := autograd.MatMul(x, l.W)
	if err != nil {
		return nil, err
	}
	return autograd.Add(z, l.B)
}

// Params returns the trainable variables.
func (l *Linear) Params() []*autograd.Var { return []*autograd.Var{l.W, l.B} }

// MLP is a stack of linear layers with a shared hidden activation.
// The output layer is linear.
type MLP struct {
	layers []*Linear
	act    Activation
}

// NewMLP builds a network with the given layer sizes, e.g.
// sizes = [2, 32, 2] is one hidden layer of width 32.
func NewMLP(tape *autograd.Tape, sizes []int, act Activation, seed int64) (*MLP, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("nn: mlp needs at least input and output sizes, got %v", sizes)
	}
	if act == nil {
		act = Tanh{}
	}
	layers := make([]*Linear, 0, len(sizes)-1)
	for i := 0; i+1 < len(sizes); i++ {
		layers = append(layers, NewLinear(tape, sizes[i], sizes[i+1], seed+int64(i)))
	}
	return &MLP{layers: layers, act: act}, nil
}

// Forward runs the network on a (batch, in) input.
func (m *MLP) Forward(x *autograd.Var) (*autograd.Var, error) {
	h := x
	for i, l := range m.layers {
		z, err := l.Forward(h)
		if err != nil {
			return nil, err
		}
		if i+1 < len(m.layers) {
			z = m.act.Apply(z)
		}
		h = z
	}
	return h, nil
}

// Predict evaluates the network on a plain tensor without recording
// gradients. Used after training.
func (m *MLP) Predict(x *tensor.Tensor) (*tensor.Tensor, error) {
	h := x
	for i, l := range m.layers {
		z, err := h.MatMul(l.W.Value)
		if err != nil {
			return nil, err
		}
		if z, err = z.Add(l.B.Value); err != nil {
			return nil, err
		}
		if i+1 < len(m.layers) {
			z = m.act.Forward(z)
		}
		h = z
	}
	return h, nil
}

// Params returns all trainable variables of all layers.
func (m *MLP) Params() []*autograd.Var {
	params := make([]*autograd.Var, 0, 2*len(m.layers))
	for _, l := range m.layers {
		params = append(params, l.Params()...)
	}
	return params
}
