package utils

// Packed lower-triangular storage: the lower triangle of an n x n
// matrix stored row by row, so element (i,j) with j <= i sits at
// offset i*(i+1)/2 + j and the full factor occupies n*(n+1)/2 slots.

func PackedLen(n int) int {
	return n * (n + 1) / 2
}

func PackedIndex(i, j int) int {
	if j > i {
		i, j = j, i
	}
	return i*(i+1)/2 + j
}

// PackLower copies the lower triangle of the nxn row-major matrix a
// into packed storage.
func PackLower(a []float64, n int) (p []float64) {
	p = make([]float64, PackedLen(n))
	var ind int
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			p[ind] = a[i*n+j]
			ind++
		}
	}
	return
}

// PackedMulVec computes y = L*x for a packed lower-triangular L of
// order n. y and x must not alias.
func PackedMulVec(L []float64, n int, x, y []float64) {
	var ind int
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j <= i; j++ {
			sum += L[ind] * x[j]
			ind++
		}
		y[i] = sum
	}
}

// PackedMulVec32 is the variant of PackedMulVec for a packed factor
// stored in single precision: the accumulation stays in double
// precision.
func PackedMulVec32(L []float32, n int, x []float64) (y []float64) {
	y = make([]float64, n)
	var ind int
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j <= i; j++ {
			sum += float64(L[ind]) * x[j]
			ind++
		}
		y[i] = sum
	}
	return
}
