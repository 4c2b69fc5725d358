package sph

import (
	"iter"

	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/vec"
)

// Reader is the read-only view of particle state used by density and force
// computations. All methods must be safe for concurrent use while no writer
// is active.
type Reader interface {
	Len() int
	Mass(i int) float64
	Position(i int) vec.Vec
	Velocity(i int) vec.Vec
	Density(i int) float64
	// NeighborsWithin yields indices of particles within r of p, in an
	// unspecified order, possibly including a particle located at p.
	NeighborsWithin(p vec.Vec, r float64) iter.Seq[int]
	// NeighborsWithinSq is NeighborsWithin with a squared radius.
	NeighborsWithinSq(p vec.Vec, r2 float64) iter.Seq[int]
}

// Scene is the particle store a Solver advances.
type Scene interface {
	Reader
	Dim() int
	// AddVelocity adds dv to particle i's velocity. Calls for distinct i
	// may run concurrently.
	AddVelocity(i int, dv vec.Vec)
	// RecalculateDensities sets every particle's density from w and h and
	// returns only when all densities are stored.
	RecalculateDensities(w kernel.WeightFunc, h float64)
}
