package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementwise(t *testing.T) {
	a, _ := New([]float32{1, 2, 3})
	b, _ := New([]float32{4, 5, 6})

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 7, 9}, sum.Data())

	prod, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 10, 18}, prod.Data())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 3, 3}, diff.Data())

	quot, err := b.Div(a)
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 2.5, 2}, quot.Data())
}

func TestBroadcastAdd(t *testing.T) {
	a, _ := New([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	bias, _ := New([]float32{10, 20, 30}, 3)

	out, err := a.Add(bias)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, out.Shape())
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, out.Data())

	col, _ := New([]float32{100, 200}, 2, 1)
	out, err = a.Add(col)
	require.NoError(t, err)
	assert.Equal(t, []float32{101, 102, 103, 204, 205, 206}, out.Data())
}

func TestBroadcastIncompatible(t *testing.T) {
	a := Zeros(2, 3)
	b := Zeros(2, 2)
	_, err := a.Add(b)
	assert.Error(t, err)
}

func TestMatMul2D(t *testing.T) {
	a, _ := New([]float32{1, 2, 3, 4}, 2, 2)
	b, _ := New([]float32{5, 6, 7, 8}, 2, 2)

	out, err := a.MatMul(b)
	require.NoError(t, err)
	assert.Equal(t, []float32{19, 22, 43, 50}, out.Data())
}

func TestMatMulVector(t *testing.T) {
	a, _ := New([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	v, _ := New([]float32{1, 0, -1})

	out, err := a.MatMul(v)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, out.Shape())
	assert.Equal(t, []float32{-2, -2}, out.Data())
}

func TestMatMulScalar(t *testing.T) {
	a, _ := New([]float32{1, 2, 3, 4}, 2, 2)
	out, err := a.MatMul(Scalar(2))
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4, 6, 8}, out.Data())
}

func TestMatMulInnerMismatch(t *testing.T) {
	a := Zeros(2, 3)
	b := Zeros(2, 2)
	_, err := a.MatMul(b)
	assert.Error(t, err)

	v := Zeros(4)
	_, err = a.MatMul(v)
	assert.Error(t, err)
}

func TestReshape(t *testing.T) {
	a, _ := New([]float32{1, 2, 3, 4, 5, 6}, 2, 3)

	out, err := a.Reshape(3, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, out.Shape())
	assert.Equal(t, a.Data(), out.Data())

	out, err = a.Reshape(3, -1)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, out.Shape())

	_, err = a.Reshape(4, 2)
	assert.Error(t, err)
	_, err = a.Reshape(-1, -1)
	assert.Error(t, err)
}

func TestTranspose(t *testing.T) {
	a, _ := New([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	out := a.Transpose()
	assert.Equal(t, []int{3, 2}, out.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.Data())

	// 1-D transpose is the identity.
	v, _ := New([]float32{1, 2, 3})
	assert.Equal(t, v.Data(), v.Transpose().Data())
}

func TestTransposeAxes(t *testing.T) {
	a := Zeros(2, 3, 4)
	out, err := a.TransposeAxes(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2}, out.Shape())

	_, err = a.TransposeAxes(0, 3)
	assert.Error(t, err)
}

func TestReductions(t *testing.T) {
	a, _ := New([]float32{1, 2, 3, 4, 5, 6}, 2, 3)

	assert.Equal(t, float32(21), a.Sum())
	assert.Equal(t, float32(3.5), a.Mean())
	assert.Equal(t, float32(6), a.Max())
}

func TestReduceAxis(t *testing.T) {
	a, _ := New([]float32{1, 2, 3, 4, 5, 6}, 2, 3)

	rows, err := a.SumAxis(1, false)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, rows.Shape())
	assert.Equal(t, []float32{6, 15}, rows.Data())

	cols, err := a.SumAxis(0, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, cols.Shape())
	assert.Equal(t, []float32{5, 7, 9}, cols.Data())

	means, err := a.MeanAxis(1, false)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 5}, means.Data())

	maxs, err := a.MaxAxis(0, false)
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 5, 6}, maxs.Data())

	_, err = a.SumAxis(2, false)
	assert.Error(t, err)
}

func TestApplyScale(t *testing.T) {
	a, _ := New([]float32{1, -2, 3})
	assert.Equal(t, []float32{2, -4, 6}, a.Scale(2).Data())
	assert.Equal(t, []float32{-1, 2, -3}, a.Neg().Data())
	assert.Equal(t, []float32{2, -1, 4}, a.AddScalar(1).Data())
}
