package LAS3D

import (
	"math"
	"sync"

	"github.com/notargets/golas/utils"
	"gonum.org/v1/gonum/mat"
)

// NQuad is the order of the tensor-product rule used by the covariance
// integrals. A 16-point rule is exact through polynomial degree 31,
// far beyond what any smooth covariance kernel requires.
const NQuad = 16

// GaussLegendre returns the N-point Gauss-Legendre nodes and weights
// on (-1,1), computed from the eigen decomposition of the Jacobi
// matrix of the Legendre recurrence (Golub-Welsch). Nodes come out in
// ascending order.
func GaussLegendre(N int) (X, W utils.Vector) {
	var (
		x []float64
	)
	if N == 1 {
		return utils.NewVector(1, []float64{0}), utils.NewVector(1, []float64{2})
	}
	JJ := mat.NewSymDense(N, nil)
	for i := 1; i < N; i++ {
		fi := float64(i)
		b := fi / math.Sqrt(4*fi*fi-1)
		JJ.SetSym(i-1, i, b)
	}
	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(x)
	X = utils.NewVector(N, x)

	VVr := mat.NewDense(N, N, nil)
	eig.VectorsTo(VVr)
	W = utils.NewVector(N, VVr.RawRowView(0)).POW(2).Scale(2)
	return X, W
}

var (
	glOnce sync.Once
	glX    []float64 // nodes mapped to (0,1)
	glW    []float64 // weights scaled for (0,1)
)

// gauss01 returns the cached NQuad-point rule mapped to the unit
// interval.
func gauss01() (x, w []float64) {
	glOnce.Do(func() {
		X, W := GaussLegendre(NQuad)
		glX = make([]float64, NQuad)
		glW = make([]float64, NQuad)
		for i := 0; i < NQuad; i++ {
			glX[i] = 0.5 * (1 + X.DataP[i])
			glW[i] = 0.5 * W.DataP[i]
		}
	})
	return glX, glW
}
