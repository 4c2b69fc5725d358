package sph_test

import (
	"math"
	"math/rand"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/particles"
	"github.com/san-kum/sphcore/internal/sph"
	"github.com/san-kum/sphcore/internal/vec"
)

var _ = Describe("Solver setup", func() {
	DescribeTable("rejects invalid params",
		func(mutate func(*sph.Params), want error) {
			p := sph.DefaultParams()
			mutate(&p)
			k, _ := kernel.NewCubicSpline(2)
			_, err := sph.New(p, k)
			Expect(err).To(MatchError(want))
		},
		Entry("zero dim", func(p *sph.Params) { p.Dim = 0 }, sph.ErrUnsupportedDim),
		Entry("four dims", func(p *sph.Params) { p.Dim = 4 }, sph.ErrUnsupportedDim),
		Entry("zero h", func(p *sph.Params) { p.H = 0 }, sph.ErrNonPositiveH),
		Entry("negative h", func(p *sph.Params) { p.H = -1 }, sph.ErrNonPositiveH),
		Entry("NaN h", func(p *sph.Params) { p.H = math.NaN() }, sph.ErrNonPositiveH),
		Entry("zero dt", func(p *sph.Params) { p.Dt = 0 }, sph.ErrNonPositiveDt),
		Entry("negative stiffness", func(p *sph.Params) { p.K = -1 }, sph.ErrParameterBounds),
		Entry("negative viscosity", func(p *sph.Params) { p.Mu = -0.1 }, sph.ErrParameterBounds),
		Entry("infinite gravity", func(p *sph.Params) { p.Gravity = math.Inf(1) }, sph.ErrParameterBounds),
	)

	It("rejects a kernel of another dimension", func() {
		_, err := sph.New(sph.DefaultParams(), cubic(3))
		Expect(err).To(MatchError(sph.ErrDimensionMismatch))
	})

	It("rejects scenes that do not match the configured dimension", func() {
		s := newSolver(sph.DefaultParams())

		Expect(s.CheckScene(particles.New(3, 1))).To(MatchError(sph.ErrDimensionMismatch))
		Expect(s.Step(particles.New(3, 1))).To(MatchError(sph.ErrDimensionMismatch))

		flat := particles.New(2, 1)
		flat.Add(1, vec.Of(0, 0, 1), vec.Vec{})
		Expect(s.CheckScene(flat)).To(MatchError(sph.ErrDimensionMismatch))

		massless := particles.New(2, 1)
		massless.Add(0, vec.Of(0, 0), vec.Vec{})
		Expect(s.CheckScene(massless)).To(MatchError(sph.ErrParameterBounds))

		good := pair(2, 0.5, 1)
		Expect(s.CheckScene(good)).To(Succeed())
	})

	It("wires viscosity only when mu is positive", func() {
		names := func(s *sph.Solver) []string {
			var out []string
			for _, t := range s.Terms() {
				out = append(out, t.Name())
			}
			return out
		}

		s := newSolver(sph.DefaultParams())
		Expect(names(s)).To(Equal([]string{"pressure", "viscosity", "gravity"}))

		Expect(s.SetParam("viscosity", 0)).To(Succeed())
		Expect(names(s)).To(Equal([]string{"pressure", "gravity"}))
	})

	It("validates SetParam as a whole", func() {
		s := newSolver(sph.DefaultParams())
		Expect(s.SetParam("nope", 1)).To(MatchError(sph.ErrUnknownParam))
		Expect(s.SetParam("h", -1)).To(MatchError(sph.ErrNonPositiveH))
		Expect(s.Params().H).To(Equal(sph.DefaultH))

		Expect(s.SetParam("stiffness", 50)).To(Succeed())
		Expect(s.GetParams()).To(HaveKeyWithValue("stiffness", 50.0))
	})
})

var _ = Describe("Step", func() {
	It("applies gravity alone to a lone particle", func() {
		for dim := 1; dim <= 3; dim++ {
			p := sph.DefaultParams()
			p.Dim = dim
			s := newSolver(p)

			set := particles.New(dim, p.H)
			v0 := vec.Of(0.25)
			set.Add(1.5, vec.Of(3), v0)

			Expect(s.Step(set)).To(Succeed())

			var g vec.Vec
			g[p.UpAxis()] = -p.Gravity
			Expect(set.Velocity(0)).To(Equal(v0.Add(g.Scale(p.Dt))), "dim %d", dim)
			Expect(set.Density(0)).To(BeNumerically(">", 0))
		}
	})

	It("never moves particles", func() {
		set := particles.New(2, 1)
		set.Fill(particles.Block{Count: 25, Spacing: 0.4, Mass: 1, Seed: 3, Jitter: 0.1})
		before := make([]vec.Vec, set.Len())
		for i := range before {
			before[i] = set.Position(i)
		}

		s := newSolver(sph.DefaultParams())
		Expect(s.Step(set)).To(Succeed())
		Expect(s.Steps()).To(Equal(1))
		for i := range before {
			Expect(set.Position(i)).To(Equal(before[i]))
		}
	})

	It("produces equal and opposite pressure accelerations for a symmetric pair", func() {
		for dim := 1; dim <= 3; dim++ {
			p := quiet(dim)
			p.K = 1000
			p.Rho0 = 0.5
			s := newSolver(p)

			set := pair(dim, 0.4, 1)
			a := s.Accelerations(set)

			Expect(a[0].Norm()).To(BeNumerically(">", 0))
			expectVecNear(a[0], a[1].Scale(-1), 1e-12)
			// along the joining line, pushing apart when compressed
			Expect(a[0][0]).To(BeNumerically("<", 0))
			for d := 1; d < vec.MaxDim; d++ {
				Expect(a[0][d]).To(Equal(0.0))
			}
		}
	})

	It("damps relative velocity through viscosity", func() {
		p := quiet(2)
		p.Mu = 1
		p.Dt = 0.01
		s := newSolver(p)

		set := pair(2, 0.5, 1)
		set.SetVelocity(0, vec.Of(1, 0.5))
		set.SetVelocity(1, vec.Of(-1, 0))
		before := set.Velocity(0).Sub(set.Velocity(1)).Norm()
		momentum := set.Velocity(0).Add(set.Velocity(1))

		Expect(s.Step(set)).To(Succeed())

		after := set.Velocity(0).Sub(set.Velocity(1)).Norm()
		Expect(after).To(BeNumerically("<", before))
		expectVecNear(set.Velocity(0).Add(set.Velocity(1)), momentum, 1e-12)
	})

	It("is deterministic regardless of scheduling", func() {
		rng := rand.New(rand.NewSource(9))
		base := particles.New(2, 1)
		base.Fill(particles.Block{Count: 400, Spacing: 0.45, Mass: 1, Jitter: 0.2, Seed: 5})
		for i := 0; i < base.Len(); i++ {
			base.SetVelocity(i, vec.Of(rng.NormFloat64(), rng.NormFloat64()))
		}

		p := sph.DefaultParams()
		p.Rho0 = 1
		type snapshot struct {
			Velocities []vec.Vec
			Densities  []float64
		}
		run := func(minChunk int) snapshot {
			set := base.Clone()
			set.SetMinChunk(minChunk)
			s := newSolver(p)
			s.SetMinChunk(minChunk)
			for step := 0; step < 3; step++ {
				Expect(s.Step(set)).To(Succeed())
				set.Advance(p.Dt)
			}
			return snapshot{Velocities: set.Velocities(), Densities: set.Densities()}
		}

		serial := run(1 << 20)
		Expect(cmp.Diff(serial, run(1))).To(BeEmpty())
		Expect(cmp.Diff(serial, run(7))).To(BeEmpty())
	})
})

var _ = Describe("Density", func() {
	It("never decreases when a neighbour gets heavier", func() {
		k := cubic(2)
		set := particles.New(2, 1)
		set.Add(1, vec.Of(0, 0), vec.Vec{})
		set.Add(1, vec.Of(0.3, 0), vec.Vec{})
		set.Add(1, vec.Of(0, 0.8), vec.Vec{})

		set.RecalculateDensities(k.Weight, 1)
		prev := set.Density(0)
		for _, m := range []float64{1.5, 2, 10, 100} {
			set.SetMass(1, m)
			set.RecalculateDensities(k.Weight, 1)
			Expect(set.Density(0)).To(BeNumerically(">=", prev))
			prev = set.Density(0)
		}
	})

	It("includes the self contribution", func() {
		k := cubic(1)
		set := pair(1, 5, 2)
		set.RecalculateDensities(k.Weight, 1)
		Expect(set.Density(0)).To(Equal(2 * k.Weight(0, 1)))
	})

	It("is recomputed before forces read it", func() {
		p := quiet(2)
		p.K = 10
		s := newSolver(p)
		set := pair(2, 0.3, 1)

		s.Accelerations(set)
		first := set.Density(0)
		set.SetPosition(1, vec.Of(0.9, 0))
		s.Accelerations(set)
		Expect(set.Density(0)).To(BeNumerically("<", first))
	})
})
