package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShapeMismatch(t *testing.T) {
	_, err := New([]float32{1, 2, 3}, 2, 2)
	require.Error(t, err)
}

func TestNewDefaultShape(t *testing.T) {
	tt, err := New([]float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, tt.Shape())
	assert.Equal(t, 3, tt.Size())
}

func TestNumBytes(t *testing.T) {
	// 1000x1000 float32 = 4MB, the canonical footprint example.
	tt := Zeros(1000, 1000)
	assert.Equal(t, 4_000_000, tt.NumBytes())
}

func TestAtSet(t *testing.T) {
	tt := Zeros(2, 3)
	require.NoError(t, tt.Set(7, 1, 2))
	v, err := tt.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(7), v)

	_, err = tt.At(2, 0)
	assert.Error(t, err)
	_, err = tt.At(0)
	assert.Error(t, err)
}

func TestRow(t *testing.T) {
	tt, _ := FromRows([][]float32{{1, 2}, {3, 4}, {5, 6}})
	row, err := tt.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, row.Shape())
	assert.Equal(t, []float32{3, 4}, row.Data())

	_, err = tt.Row(3)
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	a, _ := New([]float32{1, 2, 3, 4}, 2, 2)
	b := a.Clone()
	require.NoError(t, b.Set(9, 0, 0))
	v, _ := a.At(0, 0)
	assert.Equal(t, float32(1), v)
}

func TestAllClose(t *testing.T) {
	a, _ := New([]float32{1, 2, 3})
	b, _ := New([]float32{1.0005, 2, 3})
	assert.True(t, a.AllClose(b, 1e-3))
	assert.False(t, a.AllClose(b, 1e-6))
	assert.False(t, a.AllClose(Zeros(2), 1))
}

func TestScalar(t *testing.T) {
	s := Scalar(2.5)
	assert.Equal(t, 0, s.Rank())
	v, err := s.Item()
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), v)
}

func TestBroadcastShape(t *testing.T) {
	shape, err := BroadcastShape([]int{3, 1}, []int{4})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, shape)

	_, err = BroadcastShape([]int{3}, []int{4})
	assert.Error(t, err)
}

func TestRandDeterministic(t *testing.T) {
	a := Rand(42, 1, 3, 3)
	b := Rand(42, 1, 3, 3)
	assert.True(t, a.Equal(b))

	c := Rand(43, 1, 3, 3)
	assert.False(t, a.Equal(c))
}
