// Package autograd implements reverse-mode automatic differentiation
// over tensors using a gradient tape. Every operation performed through
// a Tape records a backward closure; Backward replays the tape in
// reverse and accumulates gradients into the participating variables.
package autograd

import (
	"fmt"

	"github.com/san-kum/tinytorch/tensor"
)

// Var is a tensor tracked by a gradient tape.
type Var struct {
	Value *tensor.Tensor
	Grad  *tensor.Tensor

	tape         *Tape
	requiresGrad bool
}

// RequiresGrad reports whether backward accumulates into this variable.
func (v *Var) RequiresGrad() bool { return v.requiresGrad }

// Tape returns the tape this variable is recorded on.
func (v *Var) Tape() *Tape { return v.tape }

// ZeroGrad clears the accumulated gradient.
func (v *Var) ZeroGrad() { v.Grad = nil }

type taped struct {
	backward func()
}

// Tape records operations for automatic differentiation.
type Tape struct {
	ops []taped
}

// NewTape creates an empty gradient tape.
func NewTape() *Tape {
	return &Tape{ops: make([]taped, 0, 64)}
}

// Var registers a leaf variable that receives gradients.
func (t *Tape) Var(v *tensor.Tensor) *Var {
	return &Var{Value: v, tape: t, requiresGrad: true}
}

// Const registers a value that participates in the forward pass but
// never receives a gradient.
func (t *Tape) Const(v *tensor.Tensor) *Var {
	return &Var{Value: v, tape: t}
}

// Record appends a custom operation to the tape. The returned variable
// tracks gradients; backward must read out.Grad and accumulate into the
// inputs via Accumulate. This is the extension point layers build on.
func (t *Tape) Record(value *tensor.Tensor, backward func(out *Var)) *Var {
	out := &Var{Value: value, tape: t, requiresGrad: true}
	t.ops = append(t.ops, taped{backward: func() { backward(out) }})
	return out
}

// Reset discards all recorded operations so the tape can be reused for
// the next forward pass. Leaf variables keep their gradients.
func (t *Tape) Reset() { t.ops = t.ops[:0] }

// Len returns the number of recorded operations.
func (t *Tape) Len() int { return len(t.ops) }

// Backward seeds the loss gradient with ones and replays the tape in
// reverse. The loss must be a single-element tensor.
func (t *Tape) Backward(loss *Var) error {
	if loss == nil || loss.Value == nil {
		return fmt.Errorf("autograd: nil loss")
	}
	if loss.Value.Size() != 1 {
		return fmt.Errorf("autograd: backward needs a scalar loss, got shape %v", loss.Value.Shape())
	}
	loss.Grad = tensor.Ones(loss.Value.Shape()...)
	for i := len(t.ops) - 1; i >= 0; i-- {
		t.ops[i].backward()
	}
	return nil
}

// Accumulate adds grad into v, reducing broadcast axes back to the
// variable's own shape first. No-op for constants.
func Accumulate(v *Var, grad *tensor.Tensor) {
	if v == nil || !v.requiresGrad || grad == nil {
		return
	}
	g, err := unbroadcast(grad, v.Value.Shape())
	if err != nil {
		return
	}
	if v.Grad == nil {
		v.Grad = g
		return
	}
	sum, err := v.Grad.Add(g)
	if err != nil {
		return
	}
	v.Grad = sum
}

// unbroadcast reduces grad to the target shape by summing over the axes
// broadcasting expanded: leading extra axes first, then size-1 axes.
func unbroadcast(grad *tensor.Tensor, shape []int) (*tensor.Tensor, error) {
	g := grad
	for g.Rank() > len(shape) {
		reduced, err := g.SumAxis(0, false)
		if err != nil {
			return nil, err
		}
		g = reduced
	}
	for axis := 0; axis < len(shape); axis++ {
		if axis < g.Rank() && shape[axis] == 1 && g.Dim(axis) != 1 {
			reduced, err := g.SumAxis(axis, true)
			if err != nil {
				return nil, err
			}
			g = reduced
		}
	}
	return g.Reshape(shape...)
}
