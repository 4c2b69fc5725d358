package sph

import (
	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/vec"
)

// DensityAt sums mass-weighted kernel values of all particles within h of p.
// A particle located at p contributes m*w(0, h).
func DensityAt(r Reader, p vec.Vec, w kernel.WeightFunc, h float64) float64 {
	rho := 0.0
	for j := range r.NeighborsWithinSq(p, h*h) {
		rho += r.Mass(j) * w(p.Sub(r.Position(j)).Norm(), h)
	}
	return rho
}
