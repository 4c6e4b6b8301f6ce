package tensor

import "fmt"

// BroadcastShape computes the NumPy-style broadcast of two shapes.
// Trailing axes are aligned; sizes must match or one of them be 1.
func BroadcastShape(a, b []int) ([]int, error) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		da, db := 1, 1
		if i < len(a) {
			da = a[len(a)-1-i]
		}
		if i < len(b) {
			db = b[len(b)-1-i]
		}
		switch {
		case da == db:
			out[n-1-i] = da
		case da == 1:
			out[n-1-i] = db
		case db == 1:
			out[n-1-i] = da
		default:
			return nil, fmt.Errorf("tensor: shapes %v and %v are not broadcastable", a, b)
		}
	}
	return out, nil
}

// strides returns row-major strides for a shape.
func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}

// broadcastStrides maps a source shape onto a broadcast target shape,
// zeroing the stride on axes the source repeats along.
func broadcastStrides(src, target []int) []int {
	ss := strides(src)
	out := make([]int, len(target))
	offset := len(target) - len(src)
	for i := range target {
		j := i - offset
		if j < 0 || src[j] == 1 {
			out[i] = 0
		} else {
			out[i] = ss[j]
		}
	}
	return out
}

// broadcastApply runs fn elementwise over a and b after broadcasting.
func broadcastApply(a, b *Tensor, fn func(x, y float32) float32) (*Tensor, error) {
	shape, err := BroadcastShape(a.shape, b.shape)
	if err != nil {
		return nil, err
	}
	out := Zeros(shape...)
	sa := broadcastStrides(a.shape, shape)
	sb := broadcastStrides(b.shape, shape)

	idx := make([]int, len(shape))
	for i := range out.data {
		offA, offB := 0, 0
		for d := range idx {
			offA += idx[d] * sa[d]
			offB += idx[d] * sb[d]
		}
		out.data[i] = fn(a.data[offA], b.data[offB])

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out, nil
}
