package autograd

import (
	"fmt"

	"github.com/san-kum/tinytorch/tensor"
)

// Add records z = a + b (broadcasting).
func Add(a, b *Var) (*Var, error) {
	if err := sameTape(a, b); err != nil {
		return nil, err
	}
	value, err := a.Value.Add(b.Value)
	if err != nil {
		return nil, err
	}
	return a.tape.Record(value, func(out *Var) {
		Accumulate(a, out.Grad)
		Accumulate(b, out.Grad)
	}), nil
}

// Sub records z = a - b (broadcasting).
func Sub(a, b *Var) (*Var, error) {
	if err := sameTape(a, b); err != nil {
		return nil, err
	}
	value, err := a.Value.Sub(b.Value)
	if err != nil {
		return nil, err
	}
	return a.tape.Record(value, func(out *Var) {
		Accumulate(a, out.Grad)
		Accumulate(b, out.Grad.Neg())
	}), nil
}

// Mul records the elementwise product z = a * b (broadcasting).
func Mul(a, b *Var) (*Var, error) {
	if err := sameTape(a, b); err != nil {
		return nil, err
	}
	value, err := a.Value.Mul(b.Value)
	if err != nil {
		return nil, err
	}
	return a.tape.Record(value, func(out *Var) {
		if ga, err := out.Grad.Mul(b.Value); err == nil {
			Accumulate(a, ga)
		}
		if gb, err := out.Grad.Mul(a.Value); err == nil {
			Accumulate(b, gb)
		}
	}), nil
}

// MatMul records z = a @ b for 2-D operands.
//
//	dL/da = dL/dz @ b^T
//	dL/db = a^T @ dL/dz
func MatMul(a, b *Var) (*Var, error) {
	if err := sameTape(a, b); err != nil {
		return nil, err
	}
	value, err := a.Value.MatMul(b.Value)
	if err != nil {
		return nil, err
	}
	return a.tape.Record(value, func(out *Var) {
		grad := out.Grad
		if grad.Rank() == 1 {
			// matrix-vector product: lift the gradient back to 2-D
			g, err := grad.Reshape(grad.Size(), 1)
			if err != nil {
				return
			}
			grad = g
		}
		bv := b.Value
		if bv.Rank() == 1 {
			v, err := bv.Reshape(bv.Size(), 1)
			if err != nil {
				return
			}
			bv = v
		}
		if ga, err := grad.MatMul(bv.Transpose()); err == nil {
			Accumulate(a, ga)
		}
		if gb, err := a.Value.Transpose().MatMul(grad); err == nil {
			if b.Value.Rank() == 1 {
				if flat, err := gb.Reshape(-1); err == nil {
					Accumulate(b, flat)
				}
			} else {
				Accumulate(b, gb)
			}
		}
	}), nil
}

// Scale records z = a * c for a constant c.
func Scale(a *Var, c float32) *Var {
	return a.tape.Record(a.Value.Scale(c), func(out *Var) {
		Accumulate(a, out.Grad.Scale(c))
	})
}

// AddScalar records z = a + c for a constant c.
func AddScalar(a *Var, c float32) *Var {
	return a.tape.Record(a.Value.AddScalar(c), func(out *Var) {
		Accumulate(a, out.Grad)
	})
}

// Sum records the scalar sum of all elements.
func Sum(a *Var) *Var {
	return a.tape.Record(tensor.Scalar(a.Value.Sum()), func(out *Var) {
		g, err := out.Grad.Item()
		if err != nil {
			return
		}
		Accumulate(a, tensor.Full(g, a.Value.Shape()...))
	})
}

// Mean records the scalar mean of all elements.
func Mean(a *Var) *Var {
	n := a.Value.Size()
	return a.tape.Record(tensor.Scalar(a.Value.Mean()), func(out *Var) {
		g, err := out.Grad.Item()
		if err != nil || n == 0 {
			return
		}
		Accumulate(a, tensor.Full(g/float32(n), a.Value.Shape()...))
	})
}

// Unary records an elementwise function with derivative df evaluated at
// the input value. Layers use this for most activations.
func Unary(a *Var, f, df func(float32) float32) *Var {
	return a.tape.Record(a.Value.Apply(f), func(out *Var) {
		if g, err := out.Grad.Mul(a.Value.Apply(df)); err == nil {
			Accumulate(a, g)
		}
	})
}

func sameTape(a, b *Var) error {
	if a == nil || b == nil {
		return fmt.Errorf("autograd: nil operand")
	}
	if a.tape != b.tape {
		return fmt.Errorf("autograd: operands recorded on different tapes")
	}
	return nil
}
