package sph_test

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/sph"
	"github.com/san-kum/sphcore/internal/vec"
)

var _ = Describe("Pressure", func() {
	It("gives pairwise contributions that cancel", func() {
		rng := rand.New(rand.NewSource(1))
		k := cubic(3)

		for trial := 0; trial < 200; trial++ {
			r := &fixedReader{
				mass: []float64{0.5 + rng.Float64(), 0.5 + rng.Float64()},
				pos: []vec.Vec{
					vec.Of(rng.Float64(), rng.Float64(), rng.Float64()),
					vec.Of(rng.Float64(), rng.Float64(), rng.Float64()),
				},
				vel:     make([]vec.Vec, 2),
				density: []float64{0.5 + rng.Float64(), 0.5 + rng.Float64()},
			}
			p := &sph.Pressure{K: rng.Float64() * 100, Rho0: rng.Float64() * 2, H: 2, Grad: k.Gradient}

			ij := p.Pair(r, 0, 1).Scale(r.mass[0])
			ji := p.Pair(r, 1, 0).Scale(r.mass[1])
			expectVecNear(ij, ji.Scale(-1), 1e-9*(1+ij.Norm()))
		}
	})

	It("converts density with the linear equation of state", func() {
		p := &sph.Pressure{K: 3, Rho0: 10}
		Expect(p.Pressure(12)).To(Equal(6.0))
		Expect(p.Pressure(8)).To(Equal(-6.0))
	})
})

var _ = Describe("Zero-distance neighbours", func() {
	var k kernel.Kernel
	BeforeEach(func() {
		k = cubic(2)
	})

	r := &fixedReader{
		mass:    []float64{3, 0.7, 2},
		pos:     []vec.Vec{vec.Of(1, 1), vec.Of(1, 1), vec.Of(1+5e-7, 1)},
		vel:     []vec.Vec{vec.Of(1, 0), vec.Of(-4, 2), vec.Of(0, 9)},
		density: []float64{0.01, 1e6, 3},
	}

	It("contribute nothing to pressure", func() {
		p := &sph.Pressure{K: 1e4, Rho0: 1000, H: 1, Grad: k.Gradient}
		for i := 0; i < r.Len(); i++ {
			a := p.Acceleration(r, i)
			Expect(a.IsFinite()).To(BeTrue())
			Expect(a).To(Equal(vec.Vec{}))
		}
	})

	It("contribute nothing to viscosity", func() {
		v := &sph.Viscosity{Mu: 5, H: 1, Deriv: k.Derivative}
		for i := 0; i < r.Len(); i++ {
			a := v.Acceleration(r, i)
			Expect(a.IsFinite()).To(BeTrue())
			Expect(a).To(Equal(vec.Vec{}))
		}
	})
})

var _ = Describe("Gravity", func() {
	It("acts against the configured axis only", func() {
		g := &sph.Gravity{G: 9.81, Axis: 1}
		Expect(g.Acceleration(nil, 0)).To(Equal(vec.Of(0, -9.81)))
	})
})

type constantTerm struct{ a vec.Vec }

func (c constantTerm) Name() string                             { return "constant" }
func (c constantTerm) Acceleration(_ sph.Reader, _ int) vec.Vec { return c.a }

var _ = Describe("Extra terms", func() {
	It("are summed after the defaults", func() {
		p := quiet(2)
		s := newSolver(p)
		s.AddTerm(constantTerm{a: vec.Of(2, 0)})

		set := pair(2, 3, 1)
		Expect(s.Step(set)).To(Succeed())
		Expect(set.Velocity(0)).To(Equal(vec.Of(2*p.Dt, 0)))
		Expect(s.Terms()[len(s.Terms())-1].Name()).To(Equal("constant"))
	})
})

var _ = Describe("CheckFinite", func() {
	It("reports the first bad particle", func() {
		set := pair(2, 0.5, 1)
		Expect(sph.CheckFinite(set)).To(Succeed())

		set.SetVelocity(1, vec.Of(0, math.NaN()))
		var nf *sph.NonFiniteError
		Expect(errors.As(sph.CheckFinite(set), &nf)).To(BeTrue())
		Expect(nf.Index).To(Equal(1))
		Expect(nf.Field).To(Equal("velocity"))
	})
})
