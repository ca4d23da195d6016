package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackedIndexing(t *testing.T) {
	// 1) Packed length of successive orders
	assert.Equal(t, 1, PackedLen(1))
	assert.Equal(t, 28, PackedLen(7))
	assert.Equal(t, 378, PackedLen(27))

	// 2) PackedIndex walks the lower triangle row by row
	var ind int
	for i := 0; i < 7; i++ {
		for j := 0; j <= i; j++ {
			assert.Equal(t, ind, PackedIndex(i, j))
			// symmetric access folds onto the lower triangle
			assert.Equal(t, ind, PackedIndex(j, i))
			ind++
		}
	}
}

func TestPackLowerMulVec(t *testing.T) {
	const n = 4
	// L = lower triangle of a (with the upper part ignored)
	a := []float64{
		2, 9, 9, 9,
		1, 3, 9, 9,
		0, 4, 5, 9,
		7, 0, 1, 6,
	}
	p := PackLower(a, n)
	require.Equal(t, PackedLen(n), len(p))
	assert.Equal(t, []float64{2, 1, 3, 0, 4, 5, 7, 0, 1, 6}, p)

	x := []float64{1, -1, 2, 0.5}
	y := make([]float64, n)
	PackedMulVec(p, n, x, y)
	assert.InDeltaSlice(t, []float64{2, -2, 6, 12}, y, 1.e-14)

	// the single-precision factor path accumulates in double
	p32 := make([]float32, len(p))
	for i, v := range p {
		p32[i] = float32(v)
	}
	y32 := PackedMulVec32(p32, n, x)
	assert.InDeltaSlice(t, y, y32, 1.e-6)
}

func TestMatrixBasics(t *testing.T) {
	A := NewMatrix(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	nr, nc := A.Dims()
	require.Equal(t, 2, nr)
	require.Equal(t, 3, nc)

	At := A.Transpose()
	nr, nc = At.Dims()
	assert.Equal(t, 3, nr)
	assert.Equal(t, 2, nc)
	assert.Equal(t, A.At(0, 2), At.At(2, 0))

	B := At.Mul(A)
	nr, nc = B.Dims()
	assert.Equal(t, 3, nr)
	assert.Equal(t, 3, nc)
	assert.InDelta(t, 17, B.At(0, 0), 1.e-14)

	S := A.SliceRowsCols([]int{1}, []int{0, 2})
	nr, nc = S.Dims()
	assert.Equal(t, 1, nr)
	assert.Equal(t, 2, nc)
	assert.Equal(t, 4., S.At(0, 0))
	assert.Equal(t, 6., S.At(0, 1))

	assert.Equal(t, 6., A.Max())
	assert.Equal(t, 1., A.Min())
	assert.Equal(t, 5., A.Row(1).AtVec(1))
	assert.Equal(t, 2., A.Col(1).AtVec(0))

	C := A.Copy().Scale(2)
	assert.Equal(t, 12., C.At(1, 2))
	assert.Equal(t, 6., A.At(1, 2)) // receiver untouched by Copy

	D := C.Subtract(A)
	assert.Equal(t, 6., D.At(1, 2))
}

func TestVectorBasics(t *testing.T) {
	v := NewVector(3, []float64{3, -4, 0})
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, -4., v.Min())
	assert.Equal(t, 3., v.Max())
	assert.InDelta(t, 25., v.Dot(v), 1.e-14)
	v.POW(2)
	assert.Equal(t, 16., v.AtVec(1))
	w := NewVector(3).Set(1).Scale(2).Add(-1)
	assert.Equal(t, 1., w.AtVec(2))
}
