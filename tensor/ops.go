package tensor

import (
	"fmt"
	"math"
)

// Add returns the elementwise sum with broadcasting.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	return broadcastApply(t, other, func(x, y float32) float32 { return x + y })
}

// Sub returns the elementwise difference with broadcasting.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	return broadcastApply(t, other, func(x, y float32) float32 { return x - y })
}

// Mul returns the elementwise product with broadcasting. This is NOT
// matrix multiplication; see MatMul.
func (t *Tensor) Mul(other *Tensor) (*Tensor, error) {
	return broadcastApply(t, other, func(x, y float32) float32 { return x * y })
}

// Div returns the elementwise quotient with broadcasting.
func (t *Tensor) Div(other *Tensor) (*Tensor, error) {
	return broadcastApply(t, other, func(x, y float32) float32 { return x / y })
}

// AddScalar adds v to every element.
func (t *Tensor) AddScalar(v float32) *Tensor {
	return t.Apply(func(x float32) float32 { return x + v })
}

// Scale multiplies every element by v.
func (t *Tensor) Scale(v float32) *Tensor {
	return t.Apply(func(x float32) float32 { return x * v })
}

// Neg returns the elementwise negation.
func (t *Tensor) Neg() *Tensor { return t.Scale(-1) }

// Apply returns a new tensor with fn applied to every element.
func (t *Tensor) Apply(fn func(float32) float32) *Tensor {
	out := &Tensor{data: make([]float32, len(t.data)), shape: cloneShape(t.shape)}
	for i, v := range t.data {
		out.data[i] = fn(v)
	}
	return out
}

// MatMul computes a matrix product. Supported operand shapes:
//
//	(m,k) x (k,n) -> (m,n)
//	(m,k) x (k,)  -> (m,)
//	(m,k) x scalar -> elementwise scale
//
// Inner dimensions must match.
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) {
	if other == nil {
		return nil, fmt.Errorf("tensor: matmul with nil operand")
	}
	if other.Rank() == 0 {
		return t.Scale(other.data[0]), nil
	}
	if t.Rank() != 2 {
		return nil, fmt.Errorf("tensor: matmul needs a 2-D left operand, got shape %v", t.shape)
	}
	m, k := t.shape[0], t.shape[1]

	switch other.Rank() {
	case 1:
		if len(other.data) != k {
			return nil, fmt.Errorf("tensor: inner dimensions must match, %d != %d", k, len(other.data))
		}
		out := Zeros(m)
		for i := 0; i < m; i++ {
			sum := float32(0)
			row := t.data[i*k : (i+1)*k]
			for j := 0; j < k; j++ {
				sum += row[j] * other.data[j]
			}
			out.data[i] = sum
		}
		return out, nil
	case 2:
		if other.shape[0] != k {
			return nil, fmt.Errorf("tensor: inner dimensions must match, %d != %d", k, other.shape[0])
		}
		n := other.shape[1]
		out := Zeros(m, n)
		for i := 0; i < m; i++ {
			row := t.data[i*k : (i+1)*k]
			outRow := out.data[i*n : (i+1)*n]
			for p := 0; p < k; p++ {
				a := row[p]
				if a == 0 {
					continue
				}
				bRow := other.data[p*n : (p+1)*n]
				for j := 0; j < n; j++ {
					outRow[j] += a * bRow[j]
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("tensor: matmul right operand must be rank 0, 1 or 2, got shape %v", other.shape)
	}
}

// Reshape returns a tensor with new dimensions over the same elements.
// One dimension may be -1 and is inferred from the element count.
func (t *Tensor) Reshape(dims ...int) (*Tensor, error) {
	infer := -1
	known := 1
	for i, d := range dims {
		switch {
		case d == -1:
			if infer >= 0 {
				return nil, fmt.Errorf("tensor: at most one -1 dimension allowed in %v", dims)
			}
			infer = i
		case d < 0:
			return nil, fmt.Errorf("tensor: negative dimension %d in %v", d, dims)
		default:
			known *= d
		}
	}
	shape := cloneShape(dims)
	if infer >= 0 {
		if known == 0 || len(t.data)%known != 0 {
			return nil, fmt.Errorf("tensor: cannot infer -1 dimension, %d elements do not divide by %d", len(t.data), known)
		}
		shape[infer] = len(t.data) / known
		known *= shape[infer]
	}
	if known != len(t.data) {
		return nil, fmt.Errorf("tensor: total elements must match, %d != %d", len(t.data), known)
	}
	out := t.Clone()
	out.shape = shape
	return out, nil
}

// Transpose swaps the last two axes. Tensors of rank < 2 are returned
// unchanged.
func (t *Tensor) Transpose() *Tensor {
	if t.Rank() < 2 {
		return t.Clone()
	}
	out, _ := t.TransposeAxes(t.Rank()-2, t.Rank()-1)
	return out
}

// TransposeAxes swaps two chosen axes.
func (t *Tensor) TransposeAxes(d0, d1 int) (*Tensor, error) {
	r := t.Rank()
	if d0 < 0 || d0 >= r || d1 < 0 || d1 >= r {
		return nil, fmt.Errorf("tensor: transpose axes (%d,%d) out of range for rank %d", d0, d1, r)
	}
	if d0 == d1 {
		return t.Clone(), nil
	}
	shape := cloneShape(t.shape)
	shape[d0], shape[d1] = shape[d1], shape[d0]

	out := Zeros(shape...)
	src := strides(t.shape)
	perm := make([]int, r)
	for i := range perm {
		perm[i] = i
	}
	perm[d0], perm[d1] = perm[d1], perm[d0]

	idx := make([]int, r)
	for i := range out.data {
		off := 0
		for d := 0; d < r; d++ {
			off += idx[d] * src[perm[d]]
		}
		out.data[i] = t.data[off]
		for d := r - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out, nil
}

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float32 {
	sum := float32(0)
	for _, v := range t.data {
		sum += v
	}
	return sum
}

// Mean returns the mean of all elements.
func (t *Tensor) Mean() float32 {
	if len(t.data) == 0 {
		return 0
	}
	return t.Sum() / float32(len(t.data))
}

// Max returns the largest element.
func (t *Tensor) Max() float32 {
	if len(t.data) == 0 {
		return float32(math.Inf(-1))
	}
	max := t.data[0]
	for _, v := range t.data[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// SumAxis sums along one axis, optionally keeping it as size 1.
func (t *Tensor) SumAxis(axis int, keepdims bool) (*Tensor, error) {
	return t.reduceAxis(axis, keepdims, 0, func(acc, v float32) float32 { return acc + v }, nil)
}

// MeanAxis averages along one axis, optionally keeping it as size 1.
func (t *Tensor) MeanAxis(axis int, keepdims bool) (*Tensor, error) {
	n := float32(t.Dim(axis))
	return t.reduceAxis(axis, keepdims, 0,
		func(acc, v float32) float32 { return acc + v },
		func(acc float32) float32 {
			if n == 0 {
				return 0
			}
			return acc / n
		})
}

// MaxAxis takes the maximum along one axis, optionally keeping it as size 1.
func (t *Tensor) MaxAxis(axis int, keepdims bool) (*Tensor, error) {
	return t.reduceAxis(axis, keepdims, float32(math.Inf(-1)),
		func(acc, v float32) float32 {
			if v > acc {
				return v
			}
			return acc
		}, nil)
}

func (t *Tensor) reduceAxis(axis int, keepdims bool, init float32, step func(acc, v float32) float32, finish func(float32) float32) (*Tensor, error) {
	r := t.Rank()
	if axis < 0 || axis >= r {
		return nil, fmt.Errorf("tensor: axis %d out of range for rank %d", axis, r)
	}
	outShape := make([]int, 0, r)
	for i, d := range t.shape {
		if i == axis {
			if keepdims {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, d)
	}
	out := Full(init, outShape...)

	src := strides(t.shape)
	outer := 1
	for i := 0; i < axis; i++ {
		outer *= t.shape[i]
	}
	inner := src[axis]
	n := t.shape[axis]

	oi := 0
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			acc := init
			base := o*n*inner + in
			for j := 0; j < n; j++ {
				acc = step(acc, t.data[base+j*inner])
			}
			if finish != nil {
				acc = finish(acc)
			}
			out.data[oi] = acc
			oi++
		}
	}
	return out, nil
}
