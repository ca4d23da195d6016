package LAS3D

import (
	"math"
)

// Built-in covariance kernels. Each pairs a point covariance with the
// matching variance function so the assembled covariance matrices stay
// internally consistent. Sigma2 is the point variance; the Theta
// parameters are Vanmarcke's scale of fluctuation along each axis.

// MarkovKernel is the separable exponential (Gauss-Markov) structure
//
//	Cov(x,y,z) = Sigma2 * exp(-2|x|/ThetaX - 2|y|/ThetaY - 2|z|/ThetaZ)
//
// whose variance function is the product of the one-dimensional
// exponential variance functions.
type MarkovKernel struct {
	Sigma2                 float64
	ThetaX, ThetaY, ThetaZ float64
}

func (k MarkovKernel) Cov(x, y, z float64) float64 {
	return k.Sigma2 * math.Exp(-2*math.Abs(x)/k.ThetaX-
		2*math.Abs(y)/k.ThetaY-2*math.Abs(z)/k.ThetaZ)
}

func (k MarkovKernel) Dvfn(V1, V2, V3 float64) float64 {
	return k.Sigma2 * vfExp(V1, k.ThetaX) * vfExp(V2, k.ThetaY) * vfExp(V3, k.ThetaZ)
}

// vfExp is the 1-D variance function of exp(-2|t|/theta):
// with a = 2T/theta, gamma(T) = 2(a - 1 + exp(-a))/a^2.
func vfExp(T, theta float64) float64 {
	a := 2 * T / theta
	if a < 1.e-8 {
		return 1 - a/3
	}
	return 2 * (a - 1 + math.Exp(-a)) / (a * a)
}

// GaussianKernel is the separable squared-exponential structure
//
//	Cov(x,y,z) = Sigma2 * Π exp(-pi (t_i/Theta_i)^2)
type GaussianKernel struct {
	Sigma2                 float64
	ThetaX, ThetaY, ThetaZ float64
}

func (k GaussianKernel) Cov(x, y, z float64) float64 {
	sq := func(t, th float64) float64 { return math.Pi * t * t / (th * th) }
	return k.Sigma2 * math.Exp(-sq(x, k.ThetaX)-sq(y, k.ThetaY)-sq(z, k.ThetaZ))
}

func (k GaussianKernel) Dvfn(V1, V2, V3 float64) float64 {
	return k.Sigma2 * vfGauss(V1, k.ThetaX) * vfGauss(V2, k.ThetaY) * vfGauss(V3, k.ThetaZ)
}

// vfGauss is the 1-D variance function of exp(-pi t^2/theta^2):
// gamma(T) = (theta/T) erf(sqrt(pi) T/theta)
//   - (theta/T)^2 (1 - exp(-pi T^2/theta^2))/pi.
func vfGauss(T, theta float64) float64 {
	a := T / theta
	if a < 1.e-8 {
		return 1 - math.Pi*a*a/6
	}
	return math.Erf(math.SqrtPi*a)/a - (1-math.Exp(-math.Pi*a*a))/(math.Pi*a*a)
}

// ExponentialKernel is the isotropic (radial) exponential structure
//
//	Cov(x,y,z) = Sigma2 * exp(-2 r / Theta), r = sqrt(x^2+y^2+z^2).
//
// The radial form is not separable and has no closed-form variance
// function; Dvfn integrates the point covariance over the cell with
// the same quadrature the off-diagonal assembly uses.
type ExponentialKernel struct {
	Sigma2, Theta float64
}

func (k ExponentialKernel) Cov(x, y, z float64) float64 {
	return k.Sigma2 * math.Exp(-2*math.Sqrt(x*x+y*y+z*z)/k.Theta)
}

func (k ExponentialKernel) Dvfn(V1, V2, V3 float64) float64 {
	return CovAvgAvg(k.Cov, V1, V2, V3, 0, 0, 0)
}

// WhiteKernel is the degenerate structure in which the local average
// over any volume has variance Sigma2 while distinct volumes are
// uncorrelated. The stage-0 covariance it assembles is Sigma2 times
// the identity. Mainly useful for testing the sampling path.
type WhiteKernel struct {
	Sigma2 float64
}

func (k WhiteKernel) Cov(x, y, z float64) float64 { return 0 }

func (k WhiteKernel) Dvfn(V1, V2, V3 float64) float64 { return k.Sigma2 }

// ConstantKernel is the opposite degenerate extreme: full correlation
// at every lag. Its cell covariance matrices are rank one, so the
// stage-0 Cholesky factorization rejects it within rounding of a zero
// pivot. It is kept for the quadrature identities it satisfies.
type ConstantKernel struct {
	Sigma2 float64
}

func (k ConstantKernel) Cov(x, y, z float64) float64 { return k.Sigma2 }

func (k ConstantKernel) Dvfn(V1, V2, V3 float64) float64 { return k.Sigma2 }
