package LAS3D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCovAvgAvgZeroLagMatchesVarianceFunction(t *testing.T) {
	// The quadrature of the point covariance at zero lag must agree
	// with the analytic variance function, or the assembled matrices
	// mix inconsistent diagonals and off-diagonals.
	kernels := []Kernel{
		MarkovKernel{Sigma2: 1, ThetaX: 0.5, ThetaY: 0.8, ThetaZ: 1.2},
		MarkovKernel{Sigma2: 2.5, ThetaX: 4, ThetaY: 4, ThetaZ: 4},
		GaussianKernel{Sigma2: 1, ThetaX: 0.7, ThetaY: 0.7, ThetaZ: 1.5},
	}
	sizes := [][3]float64{{0.25, 0.25, 0.25}, {0.5, 1, 0.125}, {1, 1, 1}}
	for ik, k := range kernels {
		for is, d := range sizes {
			q := CovAvgAvg(k.Cov, d[0], d[1], d[2], 0, 0, 0)
			v := k.Dvfn(d[0], d[1], d[2])
			assert.InDelta(t, v, q, 1.e-8*v, "kernel %d size %d", ik, is)
		}
	}
}

func TestCovAvgAvgLagSymmetry(t *testing.T) {
	k := MarkovKernel{Sigma2: 1, ThetaX: 0.5, ThetaY: 0.5, ThetaZ: 0.5}
	a := CovAvgAvg(k.Cov, 0.25, 0.25, 0.25, 1, 2, 0.5)
	b := CovAvgAvg(k.Cov, 0.25, 0.25, 0.25, -1, 2, -0.5)
	assert.InDelta(t, a, b, 1.e-14)
	// covariance decays with lag
	c := CovAvgAvg(k.Cov, 0.25, 0.25, 0.25, 2, 2, 0.5)
	assert.Less(t, c, a)
	assert.Greater(t, c, 0.0)
}

func TestCovAvgAvgConstantKernel(t *testing.T) {
	// A fully correlated process has cell covariance Sigma2 at every
	// lag: the triangular weights integrate to one per axis.
	k := ConstantKernel{Sigma2: 3}
	assert.InDelta(t, 3, CovAvgAvg(k.Cov, 0.3, 0.7, 1.1, 0, 0, 0), 1.e-12)
	assert.InDelta(t, 3, CovAvgAvg(k.Cov, 0.3, 0.7, 1.1, 1, 0, 2), 1.e-12)
}

func TestCovAvgSubParentConsistency(t *testing.T) {
	// A parent is the exact mean of its eight children, so the mean of
	// the parent-child cross-covariances over the octet equals the
	// parent variance.
	var (
		k          = MarkovKernel{Sigma2: 1, ThetaX: 1, ThetaY: 1, ThetaZ: 1}
		D1, D2, D3 = 0.5, 0.5, 0.5
		sum        float64
	)
	for _, cx := range []float64{-0.5, 0.5} {
		for _, cy := range []float64{-0.5, 0.5} {
			for _, cz := range []float64{-0.5, 0.5} {
				sum += CovAvgSub(k.Cov, D1, D2, D3, cx, cy, cz)
			}
		}
	}
	assert.InDelta(t, k.Dvfn(D1, D2, D3), sum/8, 1.e-8)
}

func TestStage0CovarianceWhiteKernel(t *testing.T) {
	R0, R := Stage0Covariance(WhiteKernel{Sigma2: 1}, 0.25, 0.25, 0.25, 4, 4, 4)
	nr, nc := R0.Dims()
	require.Equal(t, 64, nr)
	require.Equal(t, 64, nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.Equal(t, want, R0.At(i, j), "entry (%d,%d)", i, j)
		}
	}
	nr, nc = R.Dims()
	assert.Equal(t, 27, nr)
	assert.Equal(t, 27, nc)
}

func TestStage0CovarianceStructure(t *testing.T) {
	var (
		k      = MarkovKernel{Sigma2: 1, ThetaX: 1, ThetaY: 1, ThetaZ: 1}
		T      = 0.25
		R0, R  = Stage0Covariance(k, T, T, T, 2, 2, 2)
		nr, nc = R0.Dims()
	)
	require.Equal(t, 8, nr)
	require.Equal(t, 8, nc)
	// 1) symmetric with constant diagonal
	for i := 0; i < nr; i++ {
		assert.InDelta(t, k.Dvfn(T, T, T), R0.At(i, i), 1.e-14)
		for j := 0; j < nc; j++ {
			assert.Equal(t, R0.At(i, j), R0.At(j, i))
		}
	}
	// 2) homogeneous: equal lags share a covariance. Cells 0=(0,0,0),
	// 1=(1,0,0), 2=(0,1,0), 4=(0,0,1) with equal axis scales
	assert.InDelta(t, R0.At(0, 1), R0.At(0, 2), 1.e-14)
	assert.InDelta(t, R0.At(0, 1), R0.At(0, 4), 1.e-14)
	// 3) the neighborhood template carries the same cell size: its
	// unit lag equals the grid's unit lag
	assert.InDelta(t, R0.At(0, 1), R.At(13, 14), 1.e-14)
}

func TestStageCovarianceShapes(t *testing.T) {
	k := MarkovKernel{Sigma2: 1, ThetaX: 1, ThetaY: 1, ThetaZ: 1}

	// 1) full 3-D subdivision
	B, S, R := StageCovariance(k, 0.5, 0.5, 0.5, [3]bool{true, true, true}, true)
	nr, nc := B.Dims()
	assert.Equal(t, 8, nr)
	assert.Equal(t, 8, nc)
	nr, nc = S.Dims()
	assert.Equal(t, 27, nr)
	assert.Equal(t, 8, nc)
	nr, nc = R.Dims()
	assert.Equal(t, 27, nr)
	assert.Equal(t, 27, nc)

	// 2) planar subdivision with a flat z axis
	B, S, _ = StageCovariance(k, 0.5, 0.5, 2, [3]bool{true, true, false}, false)
	nr, nc = B.Dims()
	assert.Equal(t, 4, nr)
	assert.Equal(t, 4, nc)
	nr, nc = S.Dims()
	assert.Equal(t, 27, nr)
	assert.Equal(t, 4, nc)
}

func TestStageCovarianceCrossConsistency(t *testing.T) {
	// Center parent (template index 13) against its own children: the
	// octet mean of the cross-covariances is the parent variance.
	var (
		k   = MarkovKernel{Sigma2: 1, ThetaX: 0.8, ThetaY: 0.8, ThetaZ: 0.8}
		P   = 0.5
		sum float64
	)
	_, S, _ := StageCovariance(k, P, P, P, [3]bool{true, true, true}, false)
	for c := 0; c < 8; c++ {
		sum += S.At(13, c)
	}
	assert.InDelta(t, k.Dvfn(P, P, P), sum/8, 1.e-8)
}
