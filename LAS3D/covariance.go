package LAS3D

import (
	"math"

	"github.com/notargets/golas/utils"
)

// CovFunc is a point covariance B(X,Y,Z). It must be octant-symmetric:
// B(|X|,|Y|,|Z|) = B(X,Y,Z).
type CovFunc func(X, Y, Z float64) float64

// Kernel supplies the two views of a covariance structure the engine
// needs: the point covariance, integrated by quadrature for cell-cell
// covariances at nonzero lag, and the variance function, used directly
// for the zero-lag (diagonal) entries. Dvfn must be quadrant-symmetric
// in its volume arguments and the two views must describe the same
// process for the assembled covariance matrices to be consistent.
type Kernel interface {
	// Dvfn returns the variance of the process averaged over a
	// V1 x V2 x V3 volume.
	Dvfn(V1, V2, V3 float64) float64
	// Cov returns the point covariance at lag (X, Y, Z).
	Cov(X, Y, Z float64) float64
}

// CovAvgAvg returns the covariance between two equal-size local
// averages over D1 x D2 x D3 cells whose centers are separated by
// (C1*D1, C2*D2, C3*D3). The six-fold integral collapses to three
// dimensions with a triangular weight per axis,
//
//	Cov = ∫∫∫ Π(1-|t_i|) cov(D1(C1+t1), D2(C2+t2), D3(C3+t3)) dt
//
// over [-1,1]^3, evaluated by the NQuad-point tensor-product
// Gauss-Legendre rule folded onto [0,1]^3 using the octant symmetry of
// the kernel. At zero lag the eight sign combinations coincide and a
// single octant is integrated.
func CovAvgAvg(cov CovFunc, D1, D2, D3, C1, C2, C3 float64) (cv float64) {
	var (
		xg, wg = gauss01()
	)
	if C1 == 0 && C2 == 0 && C3 == 0 {
		for i := 0; i < NQuad; i++ {
			t1 := xg[i]
			w1 := wg[i] * (1 - t1)
			for j := 0; j < NQuad; j++ {
				t2 := xg[j]
				w2 := w1 * wg[j] * (1 - t2)
				for k := 0; k < NQuad; k++ {
					t3 := xg[k]
					cv += w2 * wg[k] * (1 - t3) * cov(D1*t1, D2*t2, D3*t3)
				}
			}
		}
		return 8 * cv
	}
	var a1, a2, a3 [2]float64
	for i := 0; i < NQuad; i++ {
		n1 := signLags(D1, C1, xg[i], &a1)
		w1 := wg[i] * (1 - xg[i])
		for j := 0; j < NQuad; j++ {
			n2 := signLags(D2, C2, xg[j], &a2)
			w2 := w1 * wg[j] * (1 - xg[j])
			for k := 0; k < NQuad; k++ {
				n3 := signLags(D3, C3, xg[k], &a3)
				w3 := w2 * wg[k] * (1 - xg[k])
				var sum float64
				for p := 0; p < n1; p++ {
					for q := 0; q < n2; q++ {
						for r := 0; r < n3; r++ {
							sum += cov(a1[p], a2[q], a3[r])
						}
					}
				}
				cv += w3 * sum * float64(8/(n1*n2*n3))
			}
		}
	}
	return
}

// signLags fills dst with the folded lag arguments D|C+t| and D|C-t|.
// At zero lag the two coincide and one entry with double weight is
// returned.
func signLags(D, C, t float64, dst *[2]float64) int {
	if C == 0 {
		dst[0] = D * t
		return 1
	}
	dst[0] = math.Abs(D * (C + t))
	dst[1] = math.Abs(D * (C - t))
	return 2
}

// CovAvgSub returns the cross-covariance between a parent cell of side
// (D1, D2, D3) and one of its half-size children whose center is
// offset by (C1, C2, C3) child-cell widths from the parent center. The
// parent average is the exact mean of its two halves along each axis,
// so the cross-covariance reduces to the mean of eight equal-size
// child-cell covariances.
func CovAvgSub(cov CovFunc, D1, D2, D3, C1, C2, C3 float64) (cv float64) {
	var (
		h1, h2, h3 = D1 / 2, D2 / 2, D3 / 2
	)
	for _, s1 := range [2]float64{-0.5, 0.5} {
		for _, s2 := range [2]float64{-0.5, 0.5} {
			for _, s3 := range [2]float64{-0.5, 0.5} {
				cv += CovAvgAvg(cov, h1, h2, h3, C1+s1, C2+s2, C3+s3)
			}
		}
	}
	return cv / 8
}

// Stage0Covariance assembles the kk x kk covariance matrix R0 of the
// k1 x k2 x k3 stage-0 cell averages (cell size T1 x T2 x T3, x
// fastest ordering) together with the 27 x 27 covariance template R of
// a 3x3x3 neighborhood at the same cell size. Only the k1*k2*k3
// distinct absolute lags are integrated; the matrices are filled from
// that table. Diagonals come from the variance function.
func Stage0Covariance(kern Kernel, T1, T2, T3 float64, k1, k2, k3 int) (R0, R utils.Matrix) {
	var (
		kk  = k1 * k2 * k3
		tab = make([]float64, kk)
	)
	for lz := 0; lz < k3; lz++ {
		for ly := 0; ly < k2; ly++ {
			for lx := 0; lx < k1; lx++ {
				ind := lx + k1*(ly+k2*lz)
				if ind == 0 {
					tab[0] = kern.Dvfn(T1, T2, T3)
					continue
				}
				tab[ind] = CovAvgAvg(kern.Cov, T1, T2, T3,
					float64(lx), float64(ly), float64(lz))
			}
		}
	}
	R0 = utils.NewMatrix(kk, kk)
	for b := 0; b < kk; b++ {
		bx, by, bz := b%k1, (b/k1)%k2, b/(k1*k2)
		for a := b; a < kk; a++ {
			ax, ay, az := a%k1, (a/k1)%k2, a/(k1*k2)
			v := tab[abs(ax-bx)+k1*(abs(ay-by)+k2*abs(az-bz))]
			R0.DataP[a*kk+b] = v
			R0.DataP[b*kk+a] = v
		}
	}
	R = NeighborhoodTemplate(kern, T1, T2, T3)
	return
}

// NeighborhoodTemplate returns the 27 x 27 covariance matrix of a
// 3x3x3 block of cells of size T1 x T2 x T3, ordered x fastest.
func NeighborhoodTemplate(kern Kernel, T1, T2, T3 float64) (R utils.Matrix) {
	var tab [27]float64
	for lz := 0; lz < 3; lz++ {
		for ly := 0; ly < 3; ly++ {
			for lx := 0; lx < 3; lx++ {
				ind := lx + 3*(ly+3*lz)
				if ind == 0 {
					tab[0] = kern.Dvfn(T1, T2, T3)
					continue
				}
				tab[ind] = CovAvgAvg(kern.Cov, T1, T2, T3,
					float64(lx), float64(ly), float64(lz))
			}
		}
	}
	R = utils.NewMatrix(27, 27)
	for b := 0; b < 27; b++ {
		bx, by, bz := b%3, (b/3)%3, b/9
		for a := b; a < 27; a++ {
			ax, ay, az := a%3, (a/3)%3, a/9
			v := tab[abs(ax-bx)+3*(abs(ay-by)+3*abs(az-bz))]
			R.DataP[a*27+b] = v
			R.DataP[b*27+a] = v
		}
	}
	return
}

// StageCovariance assembles the subdivision matrices for one
// refinement stage with parent cell size (P1, P2, P3): the nc x nc
// child covariance B, the 27 x nc parent-child cross-covariance S
// (parents ordered x fastest over the 3x3x3 neighborhood, children x
// fastest over the subdivided axes), and, when formR is set, the
// 27 x 27 neighborhood template at the child cell size for the next
// stage. Axes with split false are carried at full size with zero
// child offset, which is how the planar (flat-axis) refinements are
// expressed.
func StageCovariance(kern Kernel, P1, P2, P3 float64, split [3]bool, formR bool) (B, S, R utils.Matrix) {
	var (
		csz  = [3]float64{P1, P2, P3}
		nsub = [3]int{1, 1, 1}
	)
	for i := 0; i < 3; i++ {
		if split[i] {
			csz[i] /= 2
			nsub[i] = 2
		}
	}
	nc := nsub[0] * nsub[1] * nsub[2]

	// child-child covariances: lags are 0 or 1 child widths per axis
	var btab [8]float64
	for lz := 0; lz < nsub[2]; lz++ {
		for ly := 0; ly < nsub[1]; ly++ {
			for lx := 0; lx < nsub[0]; lx++ {
				ind := lx + nsub[0]*(ly+nsub[1]*lz)
				if ind == 0 {
					btab[0] = kern.Dvfn(csz[0], csz[1], csz[2])
					continue
				}
				btab[ind] = CovAvgAvg(kern.Cov, csz[0], csz[1], csz[2],
					float64(lx), float64(ly), float64(lz))
			}
		}
	}
	B = utils.NewMatrix(nc, nc)
	for d := 0; d < nc; d++ {
		dx, dy, dz := childCoords(d, nsub)
		for c := d; c < nc; c++ {
			cx, cy, cz := childCoords(c, nsub)
			v := btab[abs(cx-dx)+nsub[0]*(abs(cy-dy)+nsub[1]*abs(cz-dz))]
			B.DataP[c*nc+d] = v
			B.DataP[d*nc+c] = v
		}
	}

	// parent-child cross-covariances. Along a split axis the lag from
	// the parent center to the child center is (c-1/2) - 2p child
	// widths; along a flat axis it is p full widths. Memoized on the
	// absolute lags in half-width units.
	memo := make(map[[3]int]float64)
	cross := func(C [3]float64) float64 {
		var key [3]int
		for i := 0; i < 3; i++ {
			key[i] = abs(int(math.Round(2 * C[i])))
		}
		if v, ok := memo[key]; ok {
			return v
		}
		var v float64
		// mean over the parent halves of each split axis
		var lag [3]float64
		var rec func(axis int, mult float64)
		rec = func(axis int, mult float64) {
			if axis == 3 {
				v += mult * CovAvgAvg(kern.Cov, csz[0], csz[1], csz[2],
					lag[0], lag[1], lag[2])
				return
			}
			if !split[axis] {
				lag[axis] = C[axis]
				rec(axis+1, mult)
				return
			}
			for _, s := range [2]float64{-0.5, 0.5} {
				lag[axis] = C[axis] + s
				rec(axis+1, mult/2)
			}
		}
		rec(0, 1)
		memo[key] = v
		return v
	}
	S = utils.NewMatrix(27, nc)
	for p := 0; p < 27; p++ {
		px, py, pz := p%3-1, (p/3)%3-1, p/9-1
		poff := [3]int{px, py, pz}
		for c := 0; c < nc; c++ {
			cx, cy, cz := childCoords(c, nsub)
			coff := [3]int{cx, cy, cz}
			var C [3]float64
			for i := 0; i < 3; i++ {
				if split[i] {
					C[i] = float64(coff[i]) - 0.5 - 2*float64(poff[i])
				} else {
					C[i] = float64(poff[i])
				}
			}
			S.DataP[p*nc+c] = cross(C)
		}
	}

	if formR {
		R = NeighborhoodTemplate(kern, csz[0], csz[1], csz[2])
	}
	return
}

func childCoords(c int, nsub [3]int) (cx, cy, cz int) {
	cx = c % nsub[0]
	cy = (c / nsub[0]) % nsub[1]
	cz = c / (nsub[0] * nsub[1])
	return
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
