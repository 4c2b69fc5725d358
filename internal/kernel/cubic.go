package kernel

import (
	"math"

	"github.com/san-kum/sphcore/internal/vec"
)

// CubicSpline is the M4 cubic B-spline kernel with support h.
type CubicSpline struct {
	dim int
}

// NewCubicSpline returns a cubic spline kernel for dim in 1..3.
func NewCubicSpline(dim int) (*CubicSpline, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	return &CubicSpline{dim: dim}, nil
}

func (c *CubicSpline) Name() string              { return "cubic_spline" }
func (c *CubicSpline) Dim() int                  { return c.dim }
func (c *CubicSpline) Support(h float64) float64 { return h }

// Factor is the normalisation constant sigma for the kernel's dimension.
func (c *CubicSpline) Factor(h float64) float64 {
	switch c.dim {
	case 1:
		return 4.0 / (3.0 * h)
	case 2:
		return 40.0 / (7.0 * math.Pi * h * h)
	default:
		return 8.0 / (math.Pi * h * h * h)
	}
}

func (c *CubicSpline) Weight(r, h float64) float64 {
	q := r / h
	switch {
	case q <= 0.5:
		return c.Factor(h) * (6.0*(q*q*q-q*q) + 1.0)
	case q <= 1.0:
		u := 1.0 - q
		return c.Factor(h) * 2.0 * u * u * u
	default:
		return 0
	}
}

func (c *CubicSpline) Derivative(r, h float64) float64 {
	q := r / h
	switch {
	case q < 0.5:
		return 6.0 * c.Factor(h) * r / (h * h) * (3.0*q - 2.0)
	case q < 1.0:
		u := 1.0 - q
		return -6.0 * c.Factor(h) * u * u / h
	default:
		return 0
	}
}

func (c *CubicSpline) Gradient(rv vec.Vec, h float64) vec.Vec {
	return gradient(c.Derivative, rv, h)
}
