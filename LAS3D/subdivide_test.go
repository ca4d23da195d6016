package LAS3D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighborhoodMasks(t *testing.T) {
	// 1) Mask sizes by class: corner 2x2x2, edge 2x2x3, side 2x3x3,
	// interior 3x3x3, and the planar variants over a single-cell axis
	cases := []struct {
		sx, sy, sz axisState
		size       int
		class      Class
	}{
		{axLow, axLow, axLow, 8, Corner},
		{axHigh, axHigh, axHigh, 8, Corner},
		{axMid, axLow, axHigh, 12, Edge},
		{axLow, axMid, axLow, 12, Edge},
		{axMid, axMid, axLow, 18, Side},
		{axHigh, axMid, axMid, 18, Side},
		{axMid, axMid, axMid, 27, Interior},
		{axLow, axHigh, axSingle, 4, Corner2D},
		{axMid, axLow, axSingle, 6, Side2D},
		{axMid, axMid, axSingle, 9, Interior2D},
		{axLow, axSingle, axSingle, 2, End1D},
		{axMid, axSingle, axSingle, 3, Mid1D},
		{axSingle, axSingle, axSingle, 1, Root},
	}
	for _, c := range cases {
		mask := neighborhoodMask(c.sx, c.sy, c.sz)
		assert.Equal(t, c.size, len(mask), "states (%d,%d,%d)", c.sx, c.sy, c.sz)
		assert.Equal(t, c.class, classify(c.sx, c.sy, c.sz))
		// masks are ascending template indices within 0..26
		for i, ind := range mask {
			assert.True(t, ind >= 0 && ind < 27)
			if i > 0 {
				assert.Greater(t, ind, mask[i-1])
			}
		}
	}

	// 2) An interior mask is the identity enumeration
	interior := neighborhoodMask(axMid, axMid, axMid)
	for i, ind := range interior {
		assert.Equal(t, i, ind)
	}

	// 3) The corner mask at the low corner holds the center cell
	corner := neighborhoodMask(axLow, axLow, axLow)
	assert.Contains(t, corner, 13)
}

func TestVariantEnumeration(t *testing.T) {
	// A full 3-D stage grid has 8 corner, 12 edge, 6 side and 1
	// interior variants
	counts := make(map[Class]int)
	for _, sz := range axisStatesFor(4) {
		for _, sy := range axisStatesFor(4) {
			for _, sx := range axisStatesFor(4) {
				counts[classify(sx, sy, sz)]++
			}
		}
	}
	assert.Equal(t, 8, counts[Corner])
	assert.Equal(t, 12, counts[Edge])
	assert.Equal(t, 6, counts[Side])
	assert.Equal(t, 1, counts[Interior])

	// a planar grid has 4 corner, 4 side and 1 interior variants
	counts = make(map[Class]int)
	for _, sz := range axisStatesFor(1) {
		for _, sy := range axisStatesFor(4) {
			for _, sx := range axisStatesFor(4) {
				counts[classify(sx, sy, sz)]++
			}
		}
	}
	assert.Equal(t, 4, counts[Corner2D])
	assert.Equal(t, 4, counts[Side2D])
	assert.Equal(t, 1, counts[Interior2D])
}

func TestBuildSubParamBLUE(t *testing.T) {
	// The stored parameters must satisfy the conditioning identities
	// R*A = S (on the masked rows) and C*Cᵀ = B - Sᵀ*A, up to the
	// single-precision downcast of the stored tables.
	var (
		k     = MarkovKernel{Sigma2: 1, ThetaX: 0.5, ThetaY: 0.5, ThetaZ: 0.5}
		T     = 0.25
		R     = NeighborhoodTemplate(k, T, T, T)
		split = [3]bool{true, true, true}
		tol   = 5.e-5
	)
	B, S, _ := StageCovariance(k, T, T, T, split, false)
	for _, tc := range []struct {
		sx, sy, sz axisState
	}{
		{axLow, axLow, axLow},
		{axMid, axLow, axHigh},
		{axMid, axMid, axLow},
		{axMid, axMid, axMid},
	} {
		mask := neighborhoodMask(tc.sx, tc.sy, tc.sz)
		A, C, rerr, err := buildSubParam(R, B, S, mask, 7)
		require.NoError(t, err)
		require.Equal(t, len(mask)*7, len(A))
		require.Equal(t, 28, len(C))
		assert.Less(t, rerr, 1.e-10)

		// 1) normal equations: RR * a_c = S[mask, c]
		for c := 0; c < 7; c++ {
			for i, mi := range mask {
				var v float64
				for j, mj := range mask {
					v += R.At(mi, mj) * float64(A[j*7+c])
				}
				assert.InDelta(t, S.At(mi, c), v, tol,
					"class %v child %d row %d", classify(tc.sx, tc.sy, tc.sz), c, i)
			}
		}

		// 2) residual factor: C*Cᵀ = B - Sᵀ*A on the first 7 children
		for i := 0; i < 7; i++ {
			for j := 0; j <= i; j++ {
				var cc float64
				for q := 0; q <= j; q++ {
					cc += float64(C[i*(i+1)/2+q]) * float64(C[j*(j+1)/2+q])
				}
				want := B.At(i, j)
				for q := range mask {
					want -= S.At(mask[q], i) * float64(A[q*7+j])
				}
				assert.InDelta(t, want, cc, tol, "residual (%d,%d)", i, j)
			}
		}
	}
}
