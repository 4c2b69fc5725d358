package sph

import (
	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/vec"
)

// Term is one contribution to a particle's acceleration. Implementations
// only read from r and must be safe to call concurrently for distinct i.
type Term interface {
	Name() string
	Acceleration(r Reader, i int) vec.Vec
}

// Pressure is the symmetric pressure term with the linear equation of state
// p = K(rho - Rho0).
type Pressure struct {
	K, Rho0, H float64
	Grad       kernel.GradientFunc
}

func (p *Pressure) Name() string { return "pressure" }

// Pressure converts a density to pressure.
func (p *Pressure) Pressure(rho float64) float64 {
	return p.K * (rho - p.Rho0)
}

// ratio returns p/rho², false when rho is not positive.
func (p *Pressure) ratio(rho float64) (float64, bool) {
	if rho <= 0 {
		return 0, false
	}
	return p.Pressure(rho) / (rho * rho), true
}

// Pair is j's contribution to the pressure sum of i, before division by
// rho_i: m_j (p_i/rho_i² + p_j/rho_j²) gradW(x_j - x_i). Zero for
// coincident particles or non-positive densities.
func (p *Pressure) Pair(r Reader, i, j int) vec.Vec {
	xi, ok := p.ratio(r.Density(i))
	if !ok {
		return vec.Vec{}
	}
	return p.pair(r, xi, r.Position(i), j)
}

func (p *Pressure) pair(r Reader, xi float64, posI vec.Vec, j int) vec.Vec {
	xj, ok := p.ratio(r.Density(j))
	if !ok {
		return vec.Vec{}
	}
	rv := r.Position(j).Sub(posI)
	if rv.Norm() <= kernel.Epsilon {
		return vec.Vec{}
	}
	return p.Grad(rv, p.H).Scale(r.Mass(j) * (xi + xj))
}

func (p *Pressure) Acceleration(r Reader, i int) vec.Vec {
	rhoI := r.Density(i)
	xi, ok := p.ratio(rhoI)
	if !ok {
		return vec.Vec{}
	}
	posI := r.Position(i)

	var sum vec.Vec
	for j := range r.NeighborsWithinSq(posI, p.H*p.H) {
		sum = sum.Add(p.pair(r, xi, posI, j))
	}
	return sum.Scale(1 / rhoI)
}

// Viscosity damps relative velocity between neighbours.
type Viscosity struct {
	Mu, H float64
	Deriv kernel.DerivativeFunc
}

func (v *Viscosity) Name() string { return "viscosity" }

func (v *Viscosity) Acceleration(r Reader, i int) vec.Vec {
	mi := r.Mass(i)
	if v.Mu == 0 || mi <= 0 {
		return vec.Vec{}
	}
	posI, velI := r.Position(i), r.Velocity(i)

	var sum vec.Vec
	for j := range r.NeighborsWithin(posI, v.H) {
		d := posI.Sub(r.Position(j)).Norm()
		rhoJ := r.Density(j)
		if d <= kernel.Epsilon || rhoJ <= 0 {
			continue
		}
		f := r.Mass(j) / rhoJ * 2 * v.Deriv(d, v.H) / d
		sum = sum.Add(velI.Sub(r.Velocity(j)).Scale(f))
	}
	return sum.Scale(v.Mu / mi)
}

// Gravity is a constant acceleration of magnitude G against Axis.
type Gravity struct {
	G    float64
	Axis int
}

func (g *Gravity) Name() string { return "gravity" }

func (g *Gravity) Acceleration(_ Reader, _ int) vec.Vec {
	var a vec.Vec
	a[g.Axis] = -g.G
	return a
}
