// Package particles stores particles column-wise and implements sph.Scene.
//
// Besides the capability the solver needs, a Set owns the scene-level
// operations the solver leaves out: spawning particles and advancing
// positions from velocities.
package particles

import (
	"iter"
	"sync"
	"sync/atomic"

	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/spatial"
	"github.com/san-kum/sphcore/internal/sph"
	"github.com/san-kum/sphcore/internal/vec"
	"github.com/san-kum/sphcore/internal/workers"
)

var _ sph.Scene = (*Set)(nil)

type Set struct {
	dim      int
	mass     []float64
	pos      []vec.Vec
	vel      []vec.Vec
	density  []float64
	minChunk int

	mu    sync.Mutex
	index spatial.Index
	dirty atomic.Bool
}

// New returns an empty set indexed by a uniform grid with cell size h.
func New(dim int, h float64) *Set {
	return NewWithIndex(dim, spatial.NewGrid(dim, h))
}

// NewWithIndex returns an empty set using idx for neighbour queries.
func NewWithIndex(dim int, idx spatial.Index) *Set {
	s := &Set{dim: dim, index: idx, minChunk: workers.DefaultMinChunk}
	s.dirty.Store(true)
	return s
}

// SetMinChunk sets the smallest particle range one goroutine handles in
// RecalculateDensities and Advance. n >= Len() runs them serially.
func (s *Set) SetMinChunk(n int) { s.minChunk = n }

// Add appends a particle and returns its index.
func (s *Set) Add(mass float64, pos, vel vec.Vec) int {
	s.mass = append(s.mass, mass)
	s.pos = append(s.pos, pos)
	s.vel = append(s.vel, vel)
	s.density = append(s.density, 0)
	s.dirty.Store(true)
	return len(s.mass) - 1
}

func (s *Set) Dim() int               { return s.dim }
func (s *Set) Len() int               { return len(s.mass) }
func (s *Set) Mass(i int) float64     { return s.mass[i] }
func (s *Set) Position(i int) vec.Vec { return s.pos[i] }
func (s *Set) Velocity(i int) vec.Vec { return s.vel[i] }
func (s *Set) Density(i int) float64  { return s.density[i] }

func (s *Set) SetMass(i int, m float64)     { s.mass[i] = m }
func (s *Set) SetVelocity(i int, v vec.Vec) { s.vel[i] = v }

func (s *Set) SetPosition(i int, p vec.Vec) {
	s.pos[i] = p
	s.dirty.Store(true)
}

func (s *Set) AddVelocity(i int, dv vec.Vec) {
	s.vel[i] = s.vel[i].Add(dv)
}

// Reindex rebuilds the neighbour index if positions changed since the last
// build. Queries call it implicitly.
func (s *Set) Reindex() {
	if !s.dirty.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty.Load() {
		s.index.Rebuild(s.pos)
		s.dirty.Store(false)
	}
}

func (s *Set) NeighborsWithin(p vec.Vec, r float64) iter.Seq[int] {
	s.Reindex()
	return s.index.Within(p, r)
}

func (s *Set) NeighborsWithinSq(p vec.Vec, r2 float64) iter.Seq[int] {
	s.Reindex()
	return s.index.WithinSq(p, r2)
}

// RecalculateDensities stores sph.DensityAt for every particle. Densities
// are written to per-particle slots that no density sum reads.
func (s *Set) RecalculateDensities(w kernel.WeightFunc, h float64) {
	s.Reindex()
	workers.For(s.Len(), s.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			s.density[i] = sph.DensityAt(s, s.pos[i], w, h)
		}
	})
}

// Advance moves every particle by velocity*dt. This is the position half of
// a symplectic Euler step and runs after sph.Solver.Step.
func (s *Set) Advance(dt float64) {
	workers.For(s.Len(), s.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			s.pos[i] = s.pos[i].Add(s.vel[i].Scale(dt))
		}
	})
	s.dirty.Store(true)
}

// Clone returns a deep copy with its own index of the same kind.
func (s *Set) Clone() *Set {
	var idx spatial.Index
	switch ix := s.index.(type) {
	case *spatial.Grid:
		idx = spatial.NewGrid(s.dim, ix.CellSize())
	default:
		idx = spatial.NewBruteForce()
	}
	c := NewWithIndex(s.dim, idx)
	c.mass = append([]float64(nil), s.mass...)
	c.pos = append([]vec.Vec(nil), s.pos...)
	c.vel = append([]vec.Vec(nil), s.vel...)
	c.density = append([]float64(nil), s.density...)
	c.minChunk = s.minChunk
	return c
}

// Velocities returns a copy of all velocities.
func (s *Set) Velocities() []vec.Vec {
	return append([]vec.Vec(nil), s.vel...)
}

// Densities returns a copy of all densities.
func (s *Set) Densities() []float64 {
	return append([]float64(nil), s.density...)
}
