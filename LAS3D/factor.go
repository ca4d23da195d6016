package LAS3D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
)

// Symmetric indefinite factorization with Bunch-Kaufman diagonal
// pivoting, and the companion solver. The matrix is held in the upper
// triangle of a full n x n row-major array; the factorization
//
//	A = U*D*Uᵀ
//
// overwrites it, with D a block diagonal of 1x1 and 2x2 blocks and U a
// product of permutations and unit upper triangular matrices. This is
// the solver behind the conditioning systems of the subdivision: those
// matrices are symmetric but, being extracted sub-blocks, are not
// guaranteed positive definite, so plain Cholesky is not safe here.

// SymIndefFactorize factors a in place and returns the pivot vector.
// A negative kpvt entry marks (both halves of) a 2x2 pivot block. An
// exact zero pivot returns ErrSingularMatrix; the factorization is
// still completed for the remaining columns, but the solver must not
// be called.
func SymIndefFactorize(a []float64, n int) (kpvt []int, err error) {
	var (
		alpha = (1 + math.Sqrt(17)) / 8
		info  int
	)
	if n <= 0 || len(a) < n*n {
		return nil, fmt.Errorf("factorize order %d: %w", n, ErrInvalidArgument)
	}
	kpvt = make([]int, n)
	// 1-based accessors over the row-major upper triangle
	at := func(i, j int) float64 { return a[(i-1)*n+j-1] }
	set := func(i, j int, v float64) { a[(i-1)*n+j-1] = v }
	// column j, rows 1..length (stride n in row-major storage)
	col := func(j, length int) blas64.Vector {
		return blas64.Vector{N: length, Data: a[j-1:], Inc: n}
	}

	k := n
	for k > 0 {
		if k == 1 {
			kpvt[0] = 1
			if at(1, 1) == 0 {
				info = 1
			}
			break
		}
		var (
			km1    = k - 1
			absakk = math.Abs(at(k, k))
			imax   = blas64.Iamax(col(k, k-1)) + 1
			colmax = math.Abs(at(imax, k))
			kstep  int
			swap   bool
		)
		if absakk >= alpha*colmax {
			kstep, swap = 1, false
		} else {
			var rowmax float64
			for j := imax + 1; j <= k; j++ {
				rowmax = math.Max(rowmax, math.Abs(at(imax, j)))
			}
			if imax != 1 {
				jmax := blas64.Iamax(col(imax, imax-1)) + 1
				rowmax = math.Max(rowmax, math.Abs(at(jmax, imax)))
			}
			switch {
			case math.Abs(at(imax, imax)) >= alpha*rowmax:
				kstep, swap = 1, true
			case absakk >= alpha*colmax*(colmax/rowmax):
				kstep, swap = 1, false
			default:
				kstep = 2
				swap = imax != km1
			}
		}
		if math.Max(absakk, colmax) == 0 {
			// column k is zero: record and move on
			kpvt[k-1] = k
			info = k
			k -= kstep
			continue
		}
		if kstep == 1 {
			if swap {
				blas64.Swap(col(imax, imax), col(k, imax))
				for j := k; j >= imax; j-- {
					t := at(j, k)
					set(j, k, at(imax, j))
					set(imax, j, t)
				}
			}
			for j := km1; j >= 1; j-- {
				mulk := -at(j, k) / at(k, k)
				blas64.Axpy(mulk, col(k, j), col(j, j))
				set(j, k, mulk)
			}
			kpvt[k-1] = k
			if swap {
				kpvt[k-1] = imax
			}
		} else {
			if swap {
				blas64.Swap(col(imax, imax), col(k-1, imax))
				for j := km1; j >= imax; j-- {
					t := at(j, k-1)
					set(j, k-1, at(imax, j))
					set(imax, j, t)
				}
				t := at(k-1, k)
				set(k-1, k, at(imax, k))
				set(imax, k, t)
			}
			if km2 := k - 2; km2 != 0 {
				ak := at(k, k) / at(k-1, k)
				akm1 := at(k-1, k-1) / at(k-1, k)
				denom := 1 - ak*akm1
				for j := km2; j >= 1; j-- {
					bk := at(j, k) / at(k-1, k)
					bkm1 := at(j, k-1) / at(k-1, k)
					mulk := (akm1*bk - bkm1) / denom
					mulkm1 := (ak*bkm1 - bk) / denom
					blas64.Axpy(mulk, col(k, j), col(j, j))
					blas64.Axpy(mulkm1, col(k-1, j), col(j, j))
					set(j, k, mulk)
					set(j, k-1, mulkm1)
				}
			}
			kpvt[k-1] = 1 - k
			if swap {
				kpvt[k-1] = -imax
			}
			kpvt[k-2] = kpvt[k-1]
		}
		k -= kstep
	}
	if info != 0 {
		return kpvt, fmt.Errorf("zero pivot at column %d: %w", info, ErrSingularMatrix)
	}
	return kpvt, nil
}

// SymIndefSolve solves A*x = b in place using the factorization from
// SymIndefFactorize.
func SymIndefSolve(a []float64, n int, kpvt []int, b []float64) {
	at := func(i, j int) float64 { return a[(i-1)*n+j-1] }
	col := func(j, length int) blas64.Vector {
		return blas64.Vector{N: length, Data: a[j-1:], Inc: n}
	}
	bv := func(length int) blas64.Vector {
		return blas64.Vector{N: length, Data: b, Inc: 1}
	}

	// backward: apply the transformations and D inverse
	k := n
	for k > 0 {
		if kpvt[k-1] >= 0 {
			if k != 1 {
				if kp := kpvt[k-1]; kp != k {
					b[k-1], b[kp-1] = b[kp-1], b[k-1]
				}
				blas64.Axpy(b[k-1], col(k, k-1), bv(k-1))
			}
			b[k-1] /= at(k, k)
			k--
		} else {
			if k != 2 {
				if kp := -kpvt[k-1]; kp != k-1 {
					b[k-2], b[kp-1] = b[kp-1], b[k-2]
				}
				blas64.Axpy(b[k-1], col(k, k-2), bv(k-2))
				blas64.Axpy(b[k-2], col(k-1, k-2), bv(k-2))
			}
			var (
				ak    = at(k, k) / at(k-1, k)
				akm1  = at(k-1, k-1) / at(k-1, k)
				bk    = b[k-1] / at(k-1, k)
				bkm1  = b[k-2] / at(k-1, k)
				denom = ak*akm1 - 1
			)
			b[k-1] = (akm1*bk - bkm1) / denom
			b[k-2] = (ak*bkm1 - bk) / denom
			k -= 2
		}
	}
	// forward: apply Uᵀ
	k = 1
	for k <= n {
		if kpvt[k-1] >= 0 {
			if k != 1 {
				b[k-1] += blas64.Dot(col(k, k-1), bv(k-1))
				if kp := kpvt[k-1]; kp != k {
					b[k-1], b[kp-1] = b[kp-1], b[k-1]
				}
			}
			k++
		} else {
			if k != 1 {
				b[k-1] += blas64.Dot(col(k, k-1), bv(k-1))
				b[k] += blas64.Dot(col(k+1, k-1), bv(k-1))
				if kp := -kpvt[k-1]; kp != k {
					b[k-1], b[kp-1] = b[kp-1], b[k-1]
				}
			}
			k += 2
		}
	}
}

// CholeskyFactor factors the symmetric positive definite matrix held
// in the n x n row-major array a into L*Lᵀ, storing L in the lower
// triangle. The returned rerr compares the reconstructed lower-right
// element of L*Lᵀ against the original as a cheap global consistency
// estimate; callers treat rerr above their tolerance as a warning, not
// a failure. A non-positive pivot returns ErrNotPositiveDefinite.
func CholeskyFactor(a []float64, n int) (rerr float64, err error) {
	if n <= 0 || len(a) < n*n {
		return 0, fmt.Errorf("cholesky order %d: %w", n, ErrInvalidArgument)
	}
	ann := a[(n-1)*n+(n-1)]
	for j := 0; j < n; j++ {
		s := a[j*n+j]
		for k := 0; k < j; k++ {
			s -= a[j*n+k] * a[j*n+k]
		}
		if s <= 0 {
			return 0, fmt.Errorf("pivot %d is %g: %w", j+1, s, ErrNotPositiveDefinite)
		}
		d := math.Sqrt(s)
		a[j*n+j] = d
		for i := j + 1; i < n; i++ {
			t := a[i*n+j]
			for k := 0; k < j; k++ {
				t -= a[i*n+k] * a[j*n+k]
			}
			a[i*n+j] = t / d
		}
	}
	var recon float64
	for k := 0; k < n; k++ {
		recon += a[(n-1)*n+k] * a[(n-1)*n+k]
	}
	if ann != 0 {
		rerr = math.Abs(recon-ann) / math.Abs(ann)
	} else {
		rerr = math.Abs(recon)
	}
	return rerr, nil
}
