package LAS3D

import (
	"math"
	"testing"

	"github.com/notargets/golas/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomSymmetric fills an n x n symmetric matrix with entries in
// (-1,1).
func randomSymmetric(s *rng.Stream, n int) (a []float64) {
	a = make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := 2*s.Uniform() - 1
			a[i*n+j] = v
			a[j*n+i] = v
		}
	}
	return
}

// randomSPD builds a well conditioned symmetric positive definite
// matrix M*Mᵀ + n*I.
func randomSPD(s *rng.Stream, n int) (a []float64) {
	m := make([]float64, n*n)
	for i := range m {
		m[i] = 2*s.Uniform() - 1
	}
	a = make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var v float64
			for k := 0; k < n; k++ {
				v += m[i*n+k] * m[j*n+k]
			}
			if i == j {
				v += float64(n)
			}
			a[i*n+j] = v
		}
	}
	return
}

func TestCholeskyRoundTrip(t *testing.T) {
	s := rng.New(2024)
	for _, n := range []int{1, 2, 3, 7, 8, 27, 64} {
		a := randomSPD(s, n)
		orig := make([]float64, len(a))
		copy(orig, a)

		rerr, err := CholeskyFactor(a, n)
		require.NoError(t, err, "order %d", n)
		assert.Less(t, rerr, 1.e-12, "order %d residual estimate", n)

		// 1) Reconstruct L*Lᵀ from the lower triangle
		for i := 0; i < n; i++ {
			for j := 0; j <= i; j++ {
				var v float64
				for k := 0; k <= j; k++ {
					v += a[i*n+k] * a[j*n+k]
				}
				assert.InDelta(t, orig[i*n+j], v, 1.e-10*math.Abs(orig[i*n+j])+1.e-12,
					"order %d entry (%d,%d)", n, i, j)
			}
		}
	}
}

func TestCholeskyNotPositiveDefinite(t *testing.T) {
	// 1) An indefinite matrix is rejected
	a := []float64{
		1, 2,
		2, 1,
	}
	_, err := CholeskyFactor(a, 2)
	assert.ErrorIs(t, err, ErrNotPositiveDefinite)

	// 2) A rank deficient matrix (all ones) hits a zero pivot
	b := make([]float64, 9)
	for i := range b {
		b[i] = 1
	}
	_, err = CholeskyFactor(b, 3)
	assert.ErrorIs(t, err, ErrNotPositiveDefinite)

	// 3) Nonsense order
	_, err = CholeskyFactor(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSymIndefSolve(t *testing.T) {
	s := rng.New(11)
	for _, n := range []int{1, 2, 3, 5, 8, 12, 18, 27} {
		for trial := 0; trial < 5; trial++ {
			a := randomSymmetric(s, n)
			orig := make([]float64, len(a))
			copy(orig, a)
			b := make([]float64, n)
			for i := range b {
				b[i] = 2*s.Uniform() - 1
			}
			x := make([]float64, n)
			copy(x, b)

			kpvt, err := SymIndefFactorize(a, n)
			require.NoError(t, err, "order %d trial %d", n, trial)
			SymIndefSolve(a, n, kpvt, x)

			// A * x must reproduce b
			for i := 0; i < n; i++ {
				var v float64
				for j := 0; j < n; j++ {
					v += orig[i*n+j] * x[j]
				}
				assert.InDelta(t, b[i], v, 1.e-10,
					"order %d trial %d row %d", n, trial, i)
			}
		}
	}
}

func TestSymIndefTwoByTwoPivot(t *testing.T) {
	// Zero diagonal forces a 2x2 pivot block
	a := []float64{
		0, 1,
		1, 0,
	}
	b := []float64{3, 5}
	x := make([]float64, 2)
	copy(x, b)
	kpvt, err := SymIndefFactorize(a, 2)
	require.NoError(t, err)
	SymIndefSolve(a, 2, kpvt, x)
	assert.InDelta(t, 5, x[0], 1.e-12)
	assert.InDelta(t, 3, x[1], 1.e-12)
}

func TestSymIndefSingular(t *testing.T) {
	a := make([]float64, 16)
	_, err := SymIndefFactorize(a, 4)
	assert.ErrorIs(t, err, ErrSingularMatrix)
}
