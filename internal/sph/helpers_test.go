package sph_test

import (
	"iter"

	. "github.com/onsi/gomega"

	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/particles"
	"github.com/san-kum/sphcore/internal/sph"
	"github.com/san-kum/sphcore/internal/vec"
)

// fixedReader serves hand-picked state, including densities no real scene
// would produce.
type fixedReader struct {
	mass    []float64
	pos     []vec.Vec
	vel     []vec.Vec
	density []float64
}

func (f *fixedReader) Len() int               { return len(f.mass) }
func (f *fixedReader) Mass(i int) float64     { return f.mass[i] }
func (f *fixedReader) Position(i int) vec.Vec { return f.pos[i] }
func (f *fixedReader) Velocity(i int) vec.Vec { return f.vel[i] }
func (f *fixedReader) Density(i int) float64  { return f.density[i] }

func (f *fixedReader) NeighborsWithin(p vec.Vec, r float64) iter.Seq[int] {
	return f.NeighborsWithinSq(p, r*r)
}

func (f *fixedReader) NeighborsWithinSq(p vec.Vec, r2 float64) iter.Seq[int] {
	return func(yield func(int) bool) {
		for j, q := range f.pos {
			if p.Sub(q).Norm2() <= r2 && !yield(j) {
				return
			}
		}
	}
}

func cubic(dim int) kernel.Kernel {
	k, err := kernel.NewCubicSpline(dim)
	Expect(err).NotTo(HaveOccurred())
	return k
}

func newSolver(p sph.Params) *sph.Solver {
	s, err := sph.New(p, cubic(p.Dim))
	Expect(err).NotTo(HaveOccurred())
	return s
}

// quiet returns params with every force but the ones set afterwards off.
func quiet(dim int) sph.Params {
	p := sph.DefaultParams()
	p.Dim = dim
	p.K = 0
	p.Mu = 0
	p.Gravity = 0
	return p
}

func pair(dim int, d, mass float64) *particles.Set {
	s := particles.New(dim, 1.0)
	s.Add(mass, vec.Vec{}, vec.Vec{})
	s.Add(mass, vec.Of(d), vec.Vec{})
	return s
}

func expectVecNear(got, want vec.Vec, tol float64) {
	for d := range got {
		ExpectWithOffset(1, got[d]).To(BeNumerically("~", want[d], tol), "component %d", d)
	}
}
