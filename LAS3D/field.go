package LAS3D

import (
	"gonum.org/v1/gonum/stat"
)

// Field statistics over an emitted realization, used by the command
// line driver and the end-to-end tests.

// FieldMean returns the mean of the field values.
func FieldMean(z []float32) float64 {
	return stat.Mean(fieldToF64(z), nil)
}

// FieldVariance returns the unbiased sample variance of the field
// values.
func FieldVariance(z []float32) float64 {
	return stat.Variance(fieldToF64(z), nil)
}

// FieldMoments returns mean and variance in one pass over the
// conversion.
func FieldMoments(z []float32) (mean, variance float64) {
	x := fieldToF64(z)
	return stat.Mean(x, nil), stat.Variance(x, nil)
}

func fieldToF64(z []float32) (x []float64) {
	x = make([]float64, len(z))
	for i, v := range z {
		x[i] = float64(v)
	}
	return
}
