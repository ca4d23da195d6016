package LAS3D

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/notargets/golas/rng"
	"github.com/notargets/golas/utils"
)

const (
	DefaultMaxM = 6     // maximum number of subdivision stages
	DefaultMaxK = 512   // maximum number of stage-0 cells
	DefaultTol  = 1.e-3 // Cholesky residual warning threshold
)

// Config describes the target field. It is captured by New and not
// consulted again; a generator cannot be reconfigured.
type Config struct {
	N1, N2, N3 int     // target grid cells per axis
	XL, YL, ZL float64 // physical extent of the box
	MaxM       int     // maximum subdivisions, DefaultMaxM when zero
	MaxK       int     // maximum stage-0 cells, DefaultMaxK when zero
	Tol        float64 // warning threshold, DefaultTol when zero
	Seed       int     // initial PRNG seed; <= 0 seeds from the clock
	Log        io.Writer
}

// Stats reports the accumulated cost of a generator: initialization
// and sampling wall-clock, realizations emitted, and how many parent
// cells of each neighborhood class the refinement sweeps visited.
type Stats struct {
	InitTime     time.Duration
	GenTime      time.Duration
	Realizations int
	ClassCounts  map[Class]int64
}

// Generator produces realizations of a zero-mean homogeneous Gaussian
// random field of local averages over an N1 x N2 x N3 grid by Local
// Average Subdivision: a k1 x k2 x k3 coarse field is simulated
// directly from its Cholesky-factored covariance, then refined m times
// by conditioned 2x subdivision, doubling each non-flat axis per stage.
// All state lives behind the handle; independent generators sample
// concurrently, a single generator does not.
type Generator struct {
	cfg        Config
	kern       Kernel
	k1, k2, k3 int
	m          int
	split      [3]bool
	seed       int
	stream     *rng.Stream
	c0         []float64 // packed lower Cholesky factor, stage 0
	stages     []*stageTable
	bufA, bufB []float32
	classCount [numClasses]int64
	initTime   time.Duration
	genTime    time.Duration
	nreal      int
	logw       io.Writer

	// previous-stage field of the most recent realization, kept for
	// diagnostics and the averaging checks in the tests
	lastParents    []float32
	lastParentDims [3]int
}

// New builds a generator: it factors the target grid, assembles the
// stage-0 covariance and its Cholesky factor, and precomputes the
// conditioning parameters of every neighborhood variant of every
// stage. The kernel is only evaluated here; Sample reuses the cached
// tables. On error no handle is returned.
func New(cfg Config, kern Kernel) (g *Generator, err error) {
	start := time.Now()
	if cfg.MaxM == 0 {
		cfg.MaxM = DefaultMaxM
	}
	if cfg.MaxK == 0 {
		cfg.MaxK = DefaultMaxK
	}
	if cfg.Tol == 0 {
		cfg.Tol = DefaultTol
	}
	if cfg.Log == nil {
		cfg.Log = os.Stdout
	}
	if kern == nil {
		return nil, fmt.Errorf("nil kernel: %w", ErrInvalidArgument)
	}
	if cfg.N1 < 1 || cfg.N2 < 1 || cfg.N3 < 1 {
		return nil, fmt.Errorf("grid %dx%dx%d: %w", cfg.N1, cfg.N2, cfg.N3, ErrInvalidArgument)
	}
	if cfg.XL <= 0 || cfg.YL <= 0 || cfg.ZL <= 0 {
		return nil, fmt.Errorf("extent %gx%gx%g: %w", cfg.XL, cfg.YL, cfg.ZL, ErrInvalidArgument)
	}
	g = &Generator{
		cfg:   cfg,
		kern:  kern,
		split: [3]bool{cfg.N1 > 1, cfg.N2 > 1, cfg.N3 > 1},
		logw:  cfg.Log,
	}

	// factor N_i = k_i * 2^m, halving until the coarse grid fits.
	// Axes one cell thick stay flat: they keep k = 1 and are never
	// subdivided.
	k := [3]int{cfg.N1, cfg.N2, cfg.N3}
	m := 0
	for k[0]*k[1]*k[2] > cfg.MaxK {
		if m >= cfg.MaxM {
			err = fmt.Errorf("grid %dx%dx%d needs more than %d stages: %w",
				cfg.N1, cfg.N2, cfg.N3, cfg.MaxM, ErrIncompatibleGrid)
			fmt.Fprintf(g.logw, "Error: %v\n", err)
			return nil, err
		}
		for i := 0; i < 3; i++ {
			if g.split[i] && k[i]%2 != 0 {
				err = fmt.Errorf("grid %dx%dx%d stalls at %dx%dx%d coarse cells: %w",
					cfg.N1, cfg.N2, cfg.N3, k[0], k[1], k[2], ErrIncompatibleGrid)
				fmt.Fprintf(g.logw, "Error: %v\n", err)
				return nil, err
			}
		}
		for i := 0; i < 3; i++ {
			if g.split[i] {
				k[i] /= 2
			}
		}
		m++
	}
	g.k1, g.k2, g.k3, g.m = k[0], k[1], k[2], m
	fmt.Fprintf(g.logw, "field %dx%dx%d = %dx%dx%d coarse cells, %d subdivision stages\n",
		cfg.N1, cfg.N2, cfg.N3, g.k1, g.k2, g.k3, g.m)

	g.Seed(cfg.Seed)

	// stage-0 covariance and factor
	var (
		kk = g.k1 * g.k2 * g.k3
		T  = [3]float64{cfg.XL / float64(g.k1), cfg.YL / float64(g.k2), cfg.ZL / float64(g.k3)}
	)
	R0, R := Stage0Covariance(kern, T[0], T[1], T[2], g.k1, g.k2, g.k3)
	rerr, err := CholeskyFactor(R0.DataP, kk)
	if err != nil {
		err = fmt.Errorf("stage 0 covariance: %w", err)
		fmt.Fprintf(g.logw, "Error: %v\n", err)
		return nil, err
	}
	if rerr > cfg.Tol {
		fmt.Fprintf(g.logw, "Warning: stage 0 Cholesky relative error %.3g exceeds %.3g\n",
			rerr, cfg.Tol)
	}
	g.c0 = utils.PackLower(R0.DataP, kk)

	// per-stage conditioning tables
	P := T
	for s := 1; s <= g.m; s++ {
		st := &stageTable{nchild: 1}
		dims := [3]int{}
		cdims := [3]int{}
		for i, ki := range k {
			dims[i], cdims[i] = ki, ki
			if g.split[i] {
				dims[i] = ki << (s - 1)
				cdims[i] = ki << s
				st.nchild *= 2
			}
		}
		st.pn1, st.pn2, st.pn3 = dims[0], dims[1], dims[2]
		st.cn1, st.cn2, st.cn3 = cdims[0], cdims[1], cdims[2]
		for cz := 0; cz < cdims[2]/dims[2]; cz++ {
			for cy := 0; cy < cdims[1]/dims[1]; cy++ {
				for cx := 0; cx < cdims[0]/dims[0]; cx++ {
					st.childRel = append(st.childRel, cx+st.cn1*(cy+st.cn2*cz))
				}
			}
		}
		B, S, Rnext := StageCovariance(kern, P[0], P[1], P[2], g.split, s < g.m)
		nfirst := st.nchild - 1
		for _, sz := range axisStatesFor(st.pn3) {
			for _, sy := range axisStatesFor(st.pn2) {
				for _, sx := range axisStatesFor(st.pn1) {
					mask := neighborhoodMask(sx, sy, sz)
					class := classify(sx, sy, sz)
					A, C, rerr, err := buildSubParam(R, B, S, mask, nfirst)
					if err != nil {
						err = fmt.Errorf("stage %d %s: %w", s, class, err)
						fmt.Fprintf(g.logw, "Error: %v\n", err)
						return nil, err
					}
					if rerr > cfg.Tol {
						fmt.Fprintf(g.logw, "Warning: stage %d %s residual Cholesky relative error %.3g exceeds %.3g\n",
							s, class, rerr, cfg.Tol)
					}
					rel := make([]int32, len(mask))
					for i, t := range mask {
						ox, oy, oz := t%3-1, (t/3)%3-1, t/9-1
						rel[i] = int32(ox + st.pn1*(oy+st.pn2*oz))
					}
					st.params[stateKey(sx, sy, sz)] = &subParam{
						class: class, mask: mask, rel: rel, A: A, C: C,
					}
				}
			}
		}
		g.stages = append(g.stages, st)
		R = Rnext
		for i := 0; i < 3; i++ {
			if g.split[i] {
				P[i] /= 2
			}
		}
	}
	if g.m > 0 {
		last := g.stages[g.m-1]
		prevSize := last.pn1 * last.pn2 * last.pn3
		g.bufA = make([]float32, prevSize)
		g.bufB = make([]float32, prevSize)
	}
	g.initTime = time.Since(start)
	return g, nil
}

// Seed re-seeds the uniform stream and returns the seed actually used.
// Non-positive seeds are replaced by one derived from the wall clock:
// the UnixNano timestamp xor-folded into a positive 31-bit integer.
func (g *Generator) Seed(s int) int {
	if s <= 0 {
		n := time.Now().UnixNano()
		s = int((n ^ n>>31) & 0x7fffffff)
		if s < 1 {
			s = 1
		}
		fmt.Fprintf(g.logw, "random seed from clock: %d\n", s)
	}
	g.seed = s
	if g.stream == nil {
		g.stream = rng.New(s)
	} else {
		g.stream.Seed(s)
	}
	return s
}

// Decomposition reports the coarse grid factorization in use.
func (g *Generator) Decomposition() (k1, k2, k3, m int) {
	return g.k1, g.k2, g.k3, g.m
}

// Stats returns a snapshot of the accumulated timing and sweep
// counters.
func (g *Generator) Stats() (s Stats) {
	s = Stats{
		InitTime:     g.initTime,
		GenTime:      g.genTime,
		Realizations: g.nreal,
		ClassCounts:  make(map[Class]int64),
	}
	for c, n := range g.classCount {
		if n != 0 {
			s.ClassCounts[Class(c)] = n
		}
	}
	return
}

// Sample writes one realization into z[0:N1*N2*N3], x varying fastest.
// Stage 0 fills the coarse grid as C0*u; each refinement stage then
// sweeps the parent grid, conditions the first children of each octet
// on the surrounding parents and closes the octet by upward averaging,
// so the mean of every child group reproduces its parent exactly. On
// error z is left in an indeterminate state.
func (g *Generator) Sample(z []float32) error {
	var (
		start = time.Now()
		n     = g.cfg.N1 * g.cfg.N2 * g.cfg.N3
		kk    = g.k1 * g.k2 * g.k3
	)
	if len(z) < n {
		return fmt.Errorf("field buffer holds %d of %d cells: %w", len(z), n, ErrInvalidArgument)
	}
	var (
		u   = make([]float64, kk)
		y   = make([]float64, kk)
		un  [7]float64
		nbr [27]float64
	)
	dst := z
	if g.m > 0 {
		dst = g.bufA
	}
	if err := g.stream.Normal(u); err != nil {
		return err
	}
	utils.PackedMulVec(g.c0, kk, u, y)
	for i := 0; i < kk; i++ {
		dst[i] = float32(y[i])
	}

	work := [2][]float32{g.bufA, g.bufB}
	wi := 0
	cur := dst
	for s := 1; s <= g.m; s++ {
		st := g.stages[s-1]
		src := cur
		if s == g.m {
			dst = z
		} else {
			dst = work[1-wi]
		}
		nfirst := st.nchild - 1
		for kz := 0; kz < st.pn3; kz++ {
			sz := stateOf(kz, st.pn3)
			cz0 := kz * (st.cn3 / st.pn3)
			for jy := 0; jy < st.pn2; jy++ {
				sy := stateOf(jy, st.pn2)
				cy0 := jy * (st.cn2 / st.pn2)
				rowKey := int(sy)<<2 | int(sz)<<4
				for ix := 0; ix < st.pn1; ix++ {
					p := st.params[rowKey|int(stateOf(ix, st.pn1))]
					g.classCount[p.class]++
					base := ix + st.pn1*(jy+st.pn2*kz)
					for i, r := range p.rel {
						nbr[i] = float64(src[base+int(r)])
					}
					parent := float64(src[base])
					g.stream.Normal(un[:nfirst])
					cbase := ix*(st.cn1/st.pn1) + st.cn1*(cy0+st.cn2*cz0)
					var sum float64
					for c := 0; c < nfirst; c++ {
						var v float64
						for i := range p.rel {
							v += float64(p.A[i*nfirst+c]) * nbr[i]
						}
						for j, cind := 0, c*(c+1)/2; j <= c; j++ {
							v += float64(p.C[cind+j]) * un[j]
						}
						fv := float32(v)
						dst[cbase+st.childRel[c]] = fv
						sum += float64(fv)
					}
					dst[cbase+st.childRel[nfirst]] = float32(float64(st.nchild)*parent - sum)
				}
			}
		}
		cur = dst
		if s < g.m {
			wi = 1 - wi
		} else {
			g.lastParents = src
			g.lastParentDims = [3]int{st.pn1, st.pn2, st.pn3}
		}
	}
	g.genTime += time.Since(start)
	g.nreal++
	return nil
}
