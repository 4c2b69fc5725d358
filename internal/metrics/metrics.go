// Package metrics observes particle state between steps and reduces it to
// scalar diagnostics.
package metrics

import (
	"math"

	"github.com/san-kum/sphcore/internal/sph"
	"github.com/san-kum/sphcore/internal/vec"
)

type Metric interface {
	Name() string
	Observe(r sph.Reader)
	Value() float64
	Reset()
}

// Defaults returns the metrics reported by a run.
func Defaults(rho0 float64) []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewMomentumDrift(),
		NewDensityError(rho0),
	}
}

// KineticEnergy reports the total kinetic energy at the last observation.
type KineticEnergy struct {
	last float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(r sph.Reader) {
	e := 0.0
	for i := 0; i < r.Len(); i++ {
		e += 0.5 * r.Mass(i) * r.Velocity(i).Norm2()
	}
	k.last = e
}

func (k *KineticEnergy) Value() float64 { return k.last }
func (k *KineticEnergy) Reset()         { k.last = 0 }

// MomentumDrift reports the largest deviation of total momentum from its
// value at the first observation.
type MomentumDrift struct {
	initial  vec.Vec
	samples  int
	maxDrift float64
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(r sph.Reader) {
	var p vec.Vec
	for i := 0; i < r.Len(); i++ {
		p = p.Add(r.Velocity(i).Scale(r.Mass(i)))
	}
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Norm())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = vec.Vec{}
	m.samples = 0
	m.maxDrift = 0
}

// DensityError reports the largest relative deviation from rest density
// over all particles at the last observation. With a zero rest density the
// deviation is absolute.
type DensityError struct {
	rho0 float64
	max  float64
}

func NewDensityError(rho0 float64) *DensityError { return &DensityError{rho0: rho0} }

func (d *DensityError) Name() string { return "max_density_error" }

func (d *DensityError) Observe(r sph.Reader) {
	scale := 1.0
	if d.rho0 > 0 {
		scale = 1 / d.rho0
	}
	d.max = 0
	for i := 0; i < r.Len(); i++ {
		d.max = math.Max(d.max, math.Abs(r.Density(i)-d.rho0)*scale)
	}
}

func (d *DensityError) Value() float64 { return d.max }
func (d *DensityError) Reset()         { d.max = 0 }
