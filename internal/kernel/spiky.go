package kernel

import (
	"math"

	"github.com/san-kum/sphcore/internal/vec"
)

// Spiky is the Desbrun spiky kernel, W = sigma (h - r)³. Its gradient does
// not vanish as r approaches zero, which keeps close particles apart.
type Spiky struct {
	dim int
}

func NewSpiky(dim int) (*Spiky, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	return &Spiky{dim: dim}, nil
}

func (s *Spiky) Name() string              { return "spiky" }
func (s *Spiky) Dim() int                  { return s.dim }
func (s *Spiky) Support(h float64) float64 { return h }

func (s *Spiky) factor(h float64) float64 {
	switch s.dim {
	case 1:
		return 2.0 / math.Pow(h, 4)
	case 2:
		return 10.0 / (math.Pi * math.Pow(h, 5))
	default:
		return 15.0 / (math.Pi * math.Pow(h, 6))
	}
}

func (s *Spiky) Weight(r, h float64) float64 {
	if r > h {
		return 0
	}
	d := h - r
	return s.factor(h) * d * d * d
}

func (s *Spiky) Derivative(r, h float64) float64 {
	if r > h {
		return 0
	}
	d := h - r
	return -3.0 * s.factor(h) * d * d
}

func (s *Spiky) Gradient(rv vec.Vec, h float64) vec.Vec {
	return gradient(s.Derivative, rv, h)
}
