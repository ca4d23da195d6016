// Package rng provides the uniform and Gaussian variate streams used
// by the field generators. The uniform source is L'Ecuyer's combined
// multiplicative congruential generator with a Bays-Durham shuffle,
// which has a period of about 2.3e18 and no known low-order
// correlations at the lag structure the subdivision consumes.
package rng

import (
	"errors"
	"math"
)

const (
	im1  = 2147483563
	im2  = 2147483399
	am   = 1.0 / float64(im1)
	imm1 = im1 - 1
	ia1  = 40014
	ia2  = 40692
	iq1  = 53668
	iq2  = 52774
	ir1  = 12211
	ir2  = 3791
	ntab = 32
	ndiv = 1 + imm1/ntab
	rnmx = 1.0 - 1.2e-7
)

var ErrNonPositiveCount = errors.New("rng: fill count must be positive")

// Stream holds the full generator state: the two congruential seeds,
// the shuffle table and the last shuffled output.
type Stream struct {
	idum, idum2 int32
	iy          int32
	iv          [ntab]int32
}

// New returns a Stream seeded with max(seed, 1).
func New(seed int) (s *Stream) {
	s = &Stream{}
	s.Seed(seed)
	return
}

// Seed re-initializes the stream. Seeds below 1 are clamped to 1. The
// shuffle table is loaded by running the primary stream through
// ntab + 8 warm-up steps.
func (s *Stream) Seed(seed int) {
	if seed < 1 {
		seed = 1
	}
	s.idum = int32(seed)
	s.idum2 = s.idum
	for j := ntab + 7; j >= 0; j-- {
		k := s.idum / iq1
		s.idum = ia1*(s.idum-k*iq1) - k*ir1
		if s.idum < 0 {
			s.idum += im1
		}
		if j < ntab {
			s.iv[j] = s.idum
		}
	}
	s.iy = s.iv[0]
}

// Uniform advances the stream one step and returns a variate in the
// open interval (0,1). The Schrage decomposition keeps every product
// within int32 range; the output is clamped below 1 - 1.2e-7 to
// exclude the upper endpoint.
func (s *Stream) Uniform() float64 {
	k := s.idum / iq1
	s.idum = ia1*(s.idum-k*iq1) - k*ir1
	if s.idum < 0 {
		s.idum += im1
	}
	k = s.idum2 / iq2
	s.idum2 = ia2*(s.idum2-k*iq2) - k*ir2
	if s.idum2 < 0 {
		s.idum2 += im2
	}
	j := s.iy / ndiv
	s.iy = s.iv[j] - s.idum2
	s.iv[j] = s.idum
	if s.iy < 1 {
		s.iy += imm1
	}
	if u := am * float64(s.iy); u < rnmx {
		return u
	}
	return rnmx
}

// Normal fills dst with independent standard normal variates by the
// Box-Muller transform. Both variates of each pair are consumed within
// a single call; when len(dst) is odd the unused second variate of the
// last pair is discarded rather than carried over, so a fill of n
// draws exactly ceil(n/2) pairs from the uniform stream.
func (s *Stream) Normal(dst []float64) error {
	if len(dst) <= 0 {
		return ErrNonPositiveCount
	}
	for i := 0; i < len(dst); i += 2 {
		a := 2 * math.Pi * s.Uniform()
		r := math.Sqrt(-2 * math.Log(s.Uniform()))
		dst[i] = r * math.Cos(a)
		if i+1 < len(dst) {
			dst[i+1] = r * math.Sin(a)
		}
	}
	return nil
}
