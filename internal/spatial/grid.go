package spatial

import (
	"iter"
	"math"

	"github.com/san-kum/sphcore/internal/vec"
)

// Hash primes for cell coordinates (Teschner et al.).
const (
	primeX = 73856093
	primeY = 19349663
	primeZ = 83492791
)

type cell [vec.MaxDim]int

type entry struct {
	key uint32
	idx int32
}

// Grid is a hashed uniform grid. Cell coordinates are floor(p/cellSize);
// each cell hashes into a power-of-two table. Entries are kept sorted by
// key (then index) with start[key] pointing at the first entry of a key, so
// a lookup is one table read plus a contiguous scan.
//
// Distinct cells may share a key. Queries visit each key at most once and
// filter every candidate by exact distance, so collisions cost time but
// never correctness.
type Grid struct {
	dim      int
	cellSize float64
	inv      float64

	positions []vec.Vec
	entries   []entry
	start     []int32 // len(table)+1, start[k]..start[k+1] are entries of key k
	mask      uint32
}

// NewGrid returns a grid for dim-dimensional positions. cellSize should be
// about the largest query radius (the smoothing length h).
func NewGrid(dim int, cellSize float64) *Grid {
	if dim < 1 {
		dim = 1
	}
	if dim > vec.MaxDim {
		dim = vec.MaxDim
	}
	return &Grid{dim: dim, cellSize: cellSize, inv: 1.0 / cellSize}
}

func (g *Grid) CellSize() float64 { return g.cellSize }

func (g *Grid) cellOf(p vec.Vec) cell {
	var c cell
	for d := 0; d < g.dim; d++ {
		c[d] = int(math.Floor(p[d] * g.inv))
	}
	return c
}

func (g *Grid) hash(c cell) uint32 {
	h := uint32(c[0])*primeX ^ uint32(c[1])*primeY ^ uint32(c[2])*primeZ
	return h & g.mask
}

// Rebuild re-indexes positions with a counting sort over hash keys.
func (g *Grid) Rebuild(positions []vec.Vec) {
	n := len(positions)
	g.positions = positions

	size := 1
	for size < n {
		size <<= 1
	}
	g.mask = uint32(size - 1)

	if cap(g.start) < size+1 {
		g.start = make([]int32, size+1)
	}
	g.start = g.start[:size+1]
	clear(g.start)

	if cap(g.entries) < n {
		g.entries = make([]entry, n)
	}
	g.entries = g.entries[:n]

	keys := make([]uint32, n)
	for i, p := range positions {
		k := g.hash(g.cellOf(p))
		keys[i] = k
		g.start[k+1]++
	}
	for k := 1; k <= size; k++ {
		g.start[k] += g.start[k-1]
	}

	// Filling in index order keeps each key's run sorted by index.
	fill := make([]int32, size)
	copy(fill, g.start[:size])
	for i, k := range keys {
		g.entries[fill[k]] = entry{key: k, idx: int32(i)}
		fill[k]++
	}
}

func (g *Grid) Within(p vec.Vec, r float64) iter.Seq[int] {
	return g.WithinSq(p, r*r)
}

func (g *Grid) WithinSq(p vec.Vec, r2 float64) iter.Seq[int] {
	return func(yield func(int) bool) {
		if len(g.positions) == 0 {
			return
		}

		if math.IsNaN(r2) || r2 < 0 {
			return
		}

		// Once the cell block covers more cells than the table has keys,
		// every key would be visited anyway.
		fr := math.Max(1, math.Ceil(math.Sqrt(r2)*g.inv))
		if math.Pow(2*fr+1, float64(g.dim)) > float64(len(g.start)-1) {
			g.scan(p, r2, yield)
			return
		}
		reach := int(fr)
		center := g.cellOf(p)

		var lo, hi cell
		for d := 0; d < g.dim; d++ {
			lo[d], hi[d] = center[d]-reach, center[d]+reach
		}

		var seenBuf [27]uint32
		seen := seenBuf[:0]

		var c cell
		for c[2] = lo[2]; c[2] <= hi[2]; c[2]++ {
			for c[1] = lo[1]; c[1] <= hi[1]; c[1]++ {
				for c[0] = lo[0]; c[0] <= hi[0]; c[0]++ {
					k := g.hash(c)
					if contains(seen, k) {
						continue
					}
					seen = append(seen, k)

					for _, e := range g.entries[g.start[k]:g.start[k+1]] {
						j := int(e.idx)
						if p.Sub(g.positions[j]).Norm2() <= r2 {
							if !yield(j) {
								return
							}
						}
					}
				}
			}
		}
	}
}

func (g *Grid) scan(p vec.Vec, r2 float64, yield func(int) bool) {
	for _, e := range g.entries {
		j := int(e.idx)
		if p.Sub(g.positions[j]).Norm2() <= r2 {
			if !yield(j) {
				return
			}
		}
	}
}

func contains(keys []uint32, k uint32) bool {
	for _, s := range keys {
		if s == k {
			return true
		}
	}
	return false
}
