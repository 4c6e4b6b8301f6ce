package tensor

import (
	"fmt"
	"math/rand"
	"strings"
)

// Tensor is a dense float32 array with a row-major layout.
type Tensor struct {
	data  []float32
	shape []int
}

// New creates a tensor from data with the given shape. The element count
// must match the product of the shape. A nil shape makes a 1-D tensor.
func New(data []float32, shape ...int) (*Tensor, error) {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	n, err := checkShape(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("tensor: %d elements do not fit shape %v", len(data), shape)
	}
	d := make([]float32, len(data))
	copy(d, data)
	return &Tensor{data: d, shape: cloneShape(shape)}, nil
}

// FromRows creates a 2-D tensor from equally sized rows.
func FromRows(rows [][]float32) (*Tensor, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("tensor: no rows")
	}
	cols := len(rows[0])
	data := make([]float32, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("tensor: row %d has %d elements, want %d", i, len(r), cols)
		}
		data = append(data, r...)
	}
	t, _ := New(data, len(rows), cols)
	return t, nil
}

// Zeros creates a zero-filled tensor.
func Zeros(shape ...int) *Tensor {
	n, err := checkShape(shape)
	if err != nil {
		n = 0
		shape = []int{0}
	}
	return &Tensor{data: make([]float32, n), shape: cloneShape(shape)}
}

// Ones creates a tensor filled with 1.
func Ones(shape ...int) *Tensor { return Full(1, shape...) }

// Full creates a tensor filled with v.
func Full(v float32, shape ...int) *Tensor {
	t := Zeros(shape...)
	for i := range t.data {
		t.data[i] = v
	}
	return t
}

// Rand creates a tensor of uniform values in [-scale, scale) from a seed.
func Rand(seed int64, scale float32, shape ...int) *Tensor {
	t := Zeros(shape...)
	rng := rand.New(rand.NewSource(seed))
	for i := range t.data {
		t.data[i] = (rng.Float32()*2 - 1) * scale
	}
	return t
}

// Scalar creates a rank-0 tensor holding a single value.
func Scalar(v float32) *Tensor {
	return &Tensor{data: []float32{v}, shape: []int{}}
}

// Shape returns a copy of the tensor dimensions.
func (t *Tensor) Shape() []int { return cloneShape(t.shape) }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.shape) }

// Size returns the total number of elements.
func (t *Tensor) Size() int { return len(t.data) }

// NumBytes returns the exact memory footprint of the element data.
func (t *Tensor) NumBytes() int { return 4 * len(t.data) }

// Data returns the underlying element slice. Mutating it mutates the tensor.
func (t *Tensor) Data() []float32 { return t.data }

// Dim returns the size of axis i.
func (t *Tensor) Dim(i int) int {
	if i < 0 || i >= len(t.shape) {
		return 0
	}
	return t.shape[i]
}

// At returns the element at a full multi-index.
func (t *Tensor) At(idx ...int) (float32, error) {
	off, err := t.offset(idx)
	if err != nil {
		return 0, err
	}
	return t.data[off], nil
}

// Set writes the element at a full multi-index.
func (t *Tensor) Set(v float32, idx ...int) error {
	off, err := t.offset(idx)
	if err != nil {
		return err
	}
	t.data[off] = v
	return nil
}

// Row returns row i of a tensor as a view-free copy with one fewer axis.
func (t *Tensor) Row(i int) (*Tensor, error) {
	if len(t.shape) == 0 {
		return nil, fmt.Errorf("tensor: cannot index a scalar")
	}
	if i < 0 || i >= t.shape[0] {
		return nil, fmt.Errorf("tensor: index %d out of range for axis of size %d", i, t.shape[0])
	}
	stride := len(t.data) / t.shape[0]
	data := make([]float32, stride)
	copy(data, t.data[i*stride:(i+1)*stride])
	shape := cloneShape(t.shape[1:])
	if len(shape) == 0 {
		return &Tensor{data: data, shape: []int{}}, nil
	}
	return &Tensor{data: data, shape: shape}, nil
}

// Item returns the single element of a scalar or one-element tensor.
func (t *Tensor) Item() (float32, error) {
	if len(t.data) != 1 {
		return 0, fmt.Errorf("tensor: Item on tensor with %d elements", len(t.data))
	}
	return t.data[0], nil
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float32, len(t.data))
	copy(data, t.data)
	return &Tensor{data: data, shape: cloneShape(t.shape)}
}

// Equal reports exact element and shape equality.
func (t *Tensor) Equal(other *Tensor) bool {
	return t.AllClose(other, 0)
}

// AllClose reports whether both tensors have the same shape and every
// element pair differs by at most tol.
func (t *Tensor) AllClose(other *Tensor, tol float32) bool {
	if other == nil || !sameShape(t.shape, other.shape) {
		return false
	}
	for i := range t.data {
		d := t.data[i] - other.data[i]
		if d < 0 {
			d = -d
		}
		if d > tol {
			return false
		}
	}
	return true
}

// String renders a short debug form.
func (t *Tensor) String() string {
	var sb strings.Builder
	sb.WriteString("Tensor(")
	limit := len(t.data)
	truncated := false
	if limit > 8 {
		limit = 8
		truncated = true
	}
	sb.WriteByte('[')
	for i := 0; i < limit; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%g", t.data[i])
	}
	if truncated {
		sb.WriteString(" ...")
	}
	fmt.Fprintf(&sb, "], shape=%v)", t.shape)
	return sb.String()
}

func (t *Tensor) offset(idx []int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, fmt.Errorf("tensor: index rank %d does not match tensor rank %d", len(idx), len(t.shape))
	}
	off := 0
	stride := 1
	for i := len(t.shape) - 1; i >= 0; i-- {
		if idx[i] < 0 || idx[i] >= t.shape[i] {
			return 0, fmt.Errorf("tensor: index %d out of range for axis %d (size %d)", idx[i], i, t.shape[i])
		}
		off += idx[i] * stride
		stride *= t.shape[i]
	}
	return off, nil
}

func checkShape(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("tensor: negative dimension %d in shape %v", d, shape)
		}
		n *= d
	}
	return n, nil
}

func cloneShape(shape []int) []int {
	s := make([]int, len(shape))
	copy(s, shape)
	return s
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
