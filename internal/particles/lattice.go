package particles

import (
	"math"
	"math/rand"

	"github.com/san-kum/sphcore/internal/vec"
)

// Block describes a rectangular block of particles on a regular lattice.
type Block struct {
	Origin  vec.Vec
	Count   int     // total particles
	Columns int     // particles per row along axis 0; 0 means a square/cubic block
	Spacing float64 // lattice spacing
	Mass    float64
	Jitter  float64 // max random offset per component, as a fraction of Spacing
	Seed    int64
}

// Fill appends b's particles to s, row-major along axis 0 then 1 then 2.
func (s *Set) Fill(b Block) {
	cols := b.Columns
	if cols <= 0 {
		cols = sideLength(b.Count, s.dim)
	}
	rng := rand.New(rand.NewSource(b.Seed))

	for n := 0; n < b.Count; n++ {
		var cell [vec.MaxDim]int
		switch s.dim {
		case 1:
			cell[0] = n
		case 2:
			cell[0], cell[1] = n%cols, n/cols
		default:
			cell[0], cell[1], cell[2] = n%cols, (n/cols)%cols, n/(cols*cols)
		}

		p := b.Origin
		for d := 0; d < s.dim; d++ {
			p[d] += float64(cell[d]) * b.Spacing
			if b.Jitter > 0 {
				p[d] += (rng.Float64()*2 - 1) * b.Jitter * b.Spacing
			}
		}
		s.Add(b.Mass, p, vec.Vec{})
	}
}

// sideLength returns the smallest c with c^dim >= n.
func sideLength(n, dim int) int {
	c := int(math.Round(math.Pow(float64(n), 1/float64(dim))))
	if c < 1 {
		c = 1
	}
	for pow(c, dim) < n {
		c++
	}
	for c > 1 && pow(c-1, dim) >= n {
		c--
	}
	return c
}

func pow(c, dim int) int {
	p := 1
	for i := 0; i < dim; i++ {
		p *= c
	}
	return p
}
