package particles

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/spatial"
	"github.com/san-kum/sphcore/internal/vec"
)

func collect(seq func(func(int) bool)) []int {
	var out []int
	for j := range seq {
		out = append(out, j)
	}
	return out
}

func TestFillLattice(t *testing.T) {
	tests := []struct {
		dim     int
		count   int
		columns int
		last    vec.Vec
	}{
		{1, 5, 0, vec.Of(2.0)},
		{2, 9, 0, vec.Of(1.0, 1.0)},
		{2, 6, 2, vec.Of(0.5, 1.0)},
		{3, 8, 0, vec.Of(0.5, 0.5, 0.5)},
	}

	for _, tt := range tests {
		s := New(tt.dim, 1.0)
		s.Fill(Block{Count: tt.count, Columns: tt.columns, Spacing: 0.5, Mass: 2})

		require.Equal(t, tt.count, s.Len(), "dim=%d", tt.dim)
		assert.Equal(t, tt.last, s.Position(s.Len()-1), "dim=%d", tt.dim)
		for i := 0; i < s.Len(); i++ {
			assert.Equal(t, 2.0, s.Mass(i))
			assert.True(t, s.Position(i).FitsDim(tt.dim))
		}
	}
}

func TestFillJitterIsSeeded(t *testing.T) {
	a := New(2, 1.0)
	b := New(2, 1.0)
	block := Block{Count: 16, Spacing: 1, Mass: 1, Jitter: 0.1, Seed: 42}
	a.Fill(block)
	b.Fill(block)

	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, a.Position(i), b.Position(i))
	}
	assert.NotEqual(t, vec.Of(0, 0), a.Position(0))
}

func TestAdvanceReindexes(t *testing.T) {
	s := New(2, 1.0)
	s.Add(1, vec.Of(0, 0), vec.Vec{})
	s.Add(1, vec.Of(5, 0), vec.Of(-4.5, 0))

	require.ElementsMatch(t, []int{0}, collect(s.NeighborsWithin(vec.Of(0, 0), 1)))

	s.Advance(1.0)
	assert.Equal(t, vec.Of(0.5, 0), s.Position(1))
	assert.ElementsMatch(t, []int{0, 1}, collect(s.NeighborsWithin(vec.Of(0, 0), 1)))
}

func TestAdvanceLeavesVelocity(t *testing.T) {
	s := New(3, 1.0)
	s.Add(1, vec.Of(1, 2, 3), vec.Of(1, 1, 1))
	s.Advance(0.5)
	assert.Equal(t, vec.Of(1.5, 2.5, 3.5), s.Position(0))
	assert.Equal(t, vec.Of(1, 1, 1), s.Velocity(0))
}

func TestRecalculateDensitiesMatchesBruteForce(t *testing.T) {
	k, err := kernel.NewCubicSpline(2)
	require.NoError(t, err)

	grid := New(2, 1.0)
	grid.Fill(Block{Count: 100, Spacing: 0.4, Mass: 1, Jitter: 0.2, Seed: 1})

	brute := NewWithIndex(2, spatial.NewBruteForce())
	for i := 0; i < grid.Len(); i++ {
		brute.Add(grid.Mass(i), grid.Position(i), grid.Velocity(i))
	}

	grid.RecalculateDensities(k.Weight, 1.0)
	brute.RecalculateDensities(k.Weight, 1.0)

	if diff := cmp.Diff(brute.Densities(), grid.Densities(), cmpopts.EquateApprox(1e-12, 0)); diff != "" {
		t.Errorf("densities differ (-brute +grid):\n%s", diff)
	}
}

func TestRecalculateDensitiesSerialMatchesParallel(t *testing.T) {
	k, err := kernel.NewCubicSpline(2)
	require.NoError(t, err)

	parallel := New(2, 1.0)
	parallel.Fill(Block{Count: 300, Spacing: 0.4, Mass: 1, Jitter: 0.2, Seed: 2})
	parallel.SetMinChunk(1)

	serial := parallel.Clone()
	serial.SetMinChunk(serial.Len())

	parallel.RecalculateDensities(k.Weight, 1.0)
	serial.RecalculateDensities(k.Weight, 1.0)
	assert.Equal(t, serial.Densities(), parallel.Densities())

	parallel.Advance(0.1)
	serial.Advance(0.1)
	for i := 0; i < serial.Len(); i++ {
		assert.Equal(t, serial.Position(i), parallel.Position(i))
	}
}

func TestLoneParticleDensity(t *testing.T) {
	k, err := kernel.NewCubicSpline(3)
	require.NoError(t, err)

	s := New(3, 1.0)
	s.Add(2.5, vec.Of(1, 1, 1), vec.Vec{})
	s.RecalculateDensities(k.Weight, 1.0)

	assert.InDelta(t, 2.5*k.Factor(1.0), s.Density(0), 1e-12)
	assert.Greater(t, s.Density(0), 0.0)
}

func TestCloneIsIndependent(t *testing.T) {
	s := New(2, 1.0)
	s.Add(1, vec.Of(0, 0), vec.Of(1, 0))
	c := s.Clone()

	c.AddVelocity(0, vec.Of(1, 0))
	c.SetPosition(0, vec.Of(3, 3))

	assert.Equal(t, vec.Of(1, 0), s.Velocity(0))
	assert.Equal(t, vec.Of(0, 0), s.Position(0))
	assert.Equal(t, vec.Of(2, 0), c.Velocity(0))
}
