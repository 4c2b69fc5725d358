package sph

import (
	"fmt"
	"math"
)

const (
	DefaultH       = 1.0
	DefaultDt      = 0.001
	DefaultK       = 1000.0
	DefaultRho0    = 1000.0
	DefaultMu      = 0.1
	DefaultGravity = 9.81
)

// Params holds the physical constants of a simulation instance.
type Params struct {
	Dim     int
	H       float64 // smoothing length and force support radius
	Dt      float64
	K       float64 // equation of state stiffness
	Rho0    float64 // rest density
	Mu      float64 // viscosity coefficient, 0 disables viscosity
	Gravity float64 // magnitude along -UpAxis()
}

func DefaultParams() Params {
	return Params{
		Dim:     2,
		H:       DefaultH,
		Dt:      DefaultDt,
		K:       DefaultK,
		Rho0:    DefaultRho0,
		Mu:      DefaultMu,
		Gravity: DefaultGravity,
	}
}

// UpAxis is the axis gravity acts against: the second coordinate, or the
// only one in 1D.
func (p Params) UpAxis() int {
	if p.Dim < 2 {
		return 0
	}
	return 1
}

// Validate reports the first configuration error in p.
func (p Params) Validate() error {
	if p.Dim < 1 || p.Dim > 3 {
		return fmt.Errorf("%w: %d", ErrUnsupportedDim, p.Dim)
	}
	if !(p.H > 0) || math.IsInf(p.H, 0) {
		return fmt.Errorf("%w, got %g", ErrNonPositiveH, p.H)
	}
	if !(p.Dt > 0) || math.IsInf(p.Dt, 0) {
		return fmt.Errorf("%w, got %g", ErrNonPositiveDt, p.Dt)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"stiffness", p.K},
		{"rest_density", p.Rho0},
		{"viscosity", p.Mu},
		{"gravity", p.Gravity},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrParameterBounds, f.name)
		}
	}
	if p.K < 0 {
		return fmt.Errorf("%w: stiffness must be >= 0, got %g", ErrParameterBounds, p.K)
	}
	if p.Rho0 < 0 {
		return fmt.Errorf("%w: rest_density must be >= 0, got %g", ErrParameterBounds, p.Rho0)
	}
	if p.Mu < 0 {
		return fmt.Errorf("%w: viscosity must be >= 0, got %g", ErrParameterBounds, p.Mu)
	}
	return nil
}
