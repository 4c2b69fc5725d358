package spatial

import (
	"iter"

	"github.com/san-kum/sphcore/internal/vec"
)

// Index answers "which particles lie within a radius of p".
type Index interface {
	// Rebuild re-indexes positions. The slice is retained and must not be
	// modified until the next Rebuild.
	Rebuild(positions []vec.Vec)
	Within(p vec.Vec, r float64) iter.Seq[int]
	WithinSq(p vec.Vec, r2 float64) iter.Seq[int]
}

// BruteForce tests every position against the query.
type BruteForce struct {
	positions []vec.Vec
}

func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

func (b *BruteForce) Rebuild(positions []vec.Vec) { b.positions = positions }

func (b *BruteForce) Within(p vec.Vec, r float64) iter.Seq[int] {
	return b.WithinSq(p, r*r)
}

func (b *BruteForce) WithinSq(p vec.Vec, r2 float64) iter.Seq[int] {
	return func(yield func(int) bool) {
		for j, q := range b.positions {
			if p.Sub(q).Norm2() <= r2 {
				if !yield(j) {
					return
				}
			}
		}
	}
}
