package kernel

import (
	"math"

	"github.com/san-kum/sphcore/internal/vec"
)

// Poly6 is the Müller et al. poly6 kernel, W = sigma (h² - r²)³.
type Poly6 struct {
	dim int
}

func NewPoly6(dim int) (*Poly6, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	return &Poly6{dim: dim}, nil
}

func (p *Poly6) Name() string              { return "poly6" }
func (p *Poly6) Dim() int                  { return p.dim }
func (p *Poly6) Support(h float64) float64 { return h }

func (p *Poly6) factor(h float64) float64 {
	switch p.dim {
	case 1:
		return 35.0 / (32.0 * math.Pow(h, 7))
	case 2:
		return 4.0 / (math.Pi * math.Pow(h, 8))
	default:
		return 315.0 / (64.0 * math.Pi * math.Pow(h, 9))
	}
}

func (p *Poly6) Weight(r, h float64) float64 {
	if r > h {
		return 0
	}
	d := h*h - r*r
	return p.factor(h) * d * d * d
}

func (p *Poly6) Derivative(r, h float64) float64 {
	if r > h {
		return 0
	}
	d := h*h - r*r
	return -6.0 * p.factor(h) * r * d * d
}

func (p *Poly6) Gradient(rv vec.Vec, h float64) vec.Vec {
	return gradient(p.Derivative, rv, h)
}
