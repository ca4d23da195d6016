package LAS3D

import "errors"

var (
	// ErrIncompatibleGrid reports a target grid that cannot be written
	// as (k1*2^m, k2*2^m, k3*2^m) within the configured limits.
	ErrIncompatibleGrid = errors.New("grid cannot be factored into k*2^m within limits")
	// ErrSingularMatrix reports an exact zero pivot in the symmetric
	// indefinite factorization.
	ErrSingularMatrix = errors.New("symmetric matrix is singular")
	// ErrNotPositiveDefinite reports a non-positive pivot in the
	// Cholesky factorization.
	ErrNotPositiveDefinite = errors.New("matrix is not positive definite")
	// ErrInvalidArgument reports nonsensical sizes or missing inputs.
	ErrInvalidArgument = errors.New("invalid argument")
)
