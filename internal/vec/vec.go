// Package vec provides the small fixed-capacity vector used for particle
// positions, velocities and accelerations.
//
// A Vec always has three components; a simulation of dimension D < 3 keeps
// the trailing components at zero. This keeps vectors on the stack in the
// hot neighbour loops instead of allocating a slice per pair.
package vec

import "math"

// MaxDim is the largest supported dimensionality.
const MaxDim = 3

type Vec [MaxDim]float64

func (v Vec) Add(o Vec) Vec {
	return Vec{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec) Scale(f float64) Vec {
	return Vec{v[0] * f, v[1] * f, v[2] * f}
}

func (v Vec) Dot(o Vec) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Norm2 returns the squared euclidean length.
func (v Vec) Norm2() float64 { return v.Dot(v) }

func (v Vec) Norm() float64 { return math.Sqrt(v.Norm2()) }

// IsFinite reports whether no component is NaN or Inf.
func (v Vec) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// FitsDim reports whether every component at index >= dim is zero.
func (v Vec) FitsDim(dim int) bool {
	for i := dim; i < MaxDim; i++ {
		if v[i] != 0 {
			return false
		}
	}
	return true
}

// Of builds a Vec from up to MaxDim components.
func Of(c ...float64) Vec {
	var v Vec
	copy(v[:], c)
	return v
}
