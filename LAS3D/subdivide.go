package LAS3D

import (
	"fmt"

	"github.com/notargets/golas/utils"
)

// Each refinement stage conditions every child octet on the parent
// cells actually available around it. Availability is a per-axis
// property of the parent's position in the stage grid, so the
// corner/edge/side/interior taxonomy and all of its degenerate planar
// variants collapse onto one table keyed by the three axis states.

type axisState uint8

const (
	axLow    axisState = iota // first cell: neighbors at offsets {0,+1}
	axHigh                    // last cell: offsets {-1,0}
	axMid                     // offsets {-1,0,+1}
	axSingle                  // only cell in this axis: offset {0}
)

func stateOf(i, n int) axisState {
	switch {
	case n == 1:
		return axSingle
	case i == 0:
		return axLow
	case i == n-1:
		return axHigh
	default:
		return axMid
	}
}

var axOffsets = [4][]int{
	axLow:    {0, 1},
	axHigh:   {-1, 0},
	axMid:    {-1, 0, 1},
	axSingle: {0},
}

const nStateKeys = 64 // 4 states on each of 3 axes

func stateKey(sx, sy, sz axisState) int {
	return int(sx) | int(sy)<<2 | int(sz)<<4
}

// Class labels a neighborhood by the familiar taxonomy: in a full 3-D
// stage grid the eight corner cells see 2x2x2 parents, edge cells
// 2x2x3, side cells 2x3x3 and interior cells the full 3x3x3 block. The
// 2-D variants appear on stages whose grid is a single cell thick in
// one axis, and Root is the one-parent neighborhood of a 1x1x1 stage.
type Class uint8

const (
	Corner Class = iota
	Edge
	Side
	Interior
	Corner2D
	Side2D
	Interior2D
	End1D
	Mid1D
	Root
	numClasses
)

func (c Class) String() string {
	return [numClasses]string{
		"corner", "edge", "side", "interior",
		"corner2d", "side2d", "interior2d",
		"end1d", "mid1d", "root",
	}[c]
}

func classify(sx, sy, sz axisState) Class {
	var singles, mids int
	for _, s := range [3]axisState{sx, sy, sz} {
		switch s {
		case axSingle:
			singles++
		case axMid:
			mids++
		}
	}
	switch singles {
	case 0:
		return [4]Class{Corner, Edge, Side, Interior}[mids]
	case 1:
		return [3]Class{Corner2D, Side2D, Interior2D}[mids]
	case 2:
		if mids == 0 {
			return End1D
		}
		return Mid1D
	default:
		return Root
	}
}

// neighborhoodMask lists the 3x3x3 template indices (x fastest,
// offsets -1..1 mapped to 0..2) available for the given axis states,
// in ascending template order.
func neighborhoodMask(sx, sy, sz axisState) (mask []int) {
	for _, oz := range axOffsets[sz] {
		for _, oy := range axOffsets[sy] {
			for _, ox := range axOffsets[sx] {
				mask = append(mask, (ox+1)+3*(oy+1)+9*(oz+1))
			}
		}
	}
	return
}

// subParam holds the conditioning parameters of one neighborhood
// variant at one stage: the projection A mapping the masked parent
// vector to the first nfirst children, and the packed lower Cholesky
// factor C of the residual covariance. Both are stored in single
// precision after a double-precision solve: the emitted field is
// single precision and the residual noise dominates the downcast.
type subParam struct {
	class Class
	mask  []int
	rel   []int32 // linear parent-buffer offsets of the mask entries
	A     []float32
	C     []float32
}

// buildSubParam solves the conditioning system for one neighborhood
// variant: RR a_c = S[mask, c] for each of the first nfirst children
// (best linear unbiased estimator), then factors the residual
// covariance BB = B - Sᵀ A. RR is symmetric but not necessarily
// positive definite, so the solve goes through the Bunch-Kaufman
// factorization; BB must be positive definite and its Cholesky
// residual estimate is returned for the caller's tolerance check.
func buildSubParam(R, B, S utils.Matrix, mask []int, nfirst int) (A, C []float32, rerr float64, err error) {
	var (
		nm = len(mask)
		RR = R.SliceRowsCols(mask, mask)
	)
	kpvt, err := SymIndefFactorize(RR.DataP, nm)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("neighborhood covariance: %w", err)
	}
	Af := make([]float64, nm*nfirst)
	b := make([]float64, nm)
	for c := 0; c < nfirst; c++ {
		for k := 0; k < nm; k++ {
			b[k] = S.At(mask[k], c)
		}
		SymIndefSolve(RR.DataP, nm, kpvt, b)
		for k := 0; k < nm; k++ {
			Af[k*nfirst+c] = b[k]
		}
	}
	BB := make([]float64, nfirst*nfirst)
	for i := 0; i < nfirst; i++ {
		for j := 0; j < nfirst; j++ {
			v := B.At(i, j)
			for k := 0; k < nm; k++ {
				v -= S.At(mask[k], i) * Af[k*nfirst+j]
			}
			BB[i*nfirst+j] = v
		}
	}
	rerr, err = CholeskyFactor(BB, nfirst)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("residual covariance: %w", err)
	}
	Cf := utils.PackLower(BB, nfirst)
	A = make([]float32, len(Af))
	for i, v := range Af {
		A[i] = float32(v)
	}
	C = make([]float32, len(Cf))
	for i, v := range Cf {
		C[i] = float32(v)
	}
	return
}

// stageTable carries everything one refinement stage needs at sampling
// time: the parent and child grid dimensions, the child placement
// offsets, and the parameter variants present in this grid.
type stageTable struct {
	pn1, pn2, pn3 int
	cn1, cn2, cn3 int
	nchild        int   // children per parent (8, 4 or 2)
	childRel      []int // linear child-buffer offsets, x fastest
	params        [nStateKeys]*subParam
}

// axisStatesFor enumerates the states that occur along an axis of n
// parent cells.
func axisStatesFor(n int) []axisState {
	switch {
	case n == 1:
		return []axisState{axSingle}
	case n == 2:
		return []axisState{axLow, axHigh}
	default:
		return []axisState{axLow, axMid, axHigh}
	}
}
