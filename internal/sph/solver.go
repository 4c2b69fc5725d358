package sph

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-logr/logr"

	"github.com/san-kum/sphcore/internal/kernel"
	"github.com/san-kum/sphcore/internal/vec"
	"github.com/san-kum/sphcore/internal/workers"
)

// Solver advances a Scene by one time step per call to Step.
type Solver struct {
	params   Params
	kernel   kernel.Kernel
	builtin  []Term
	extra    []Term
	accel    []vec.Vec
	minChunk int
	steps    int
	log      logr.Logger
}

// New validates p against k and returns a solver using the default terms:
// pressure, viscosity (when Mu > 0) and gravity.
func New(p Params, k kernel.Kernel) (*Solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if k == nil {
		return nil, errors.New("sph: nil kernel")
	}
	if k.Dim() != p.Dim {
		return nil, fmt.Errorf("%w: kernel is %dD, params are %dD", ErrDimensionMismatch, k.Dim(), p.Dim)
	}
	s := &Solver{
		params:   p,
		kernel:   k,
		minChunk: workers.DefaultMinChunk,
		log:      logr.Discard(),
	}
	s.buildTerms()
	return s, nil
}

func (s *Solver) buildTerms() {
	p := s.params
	s.builtin = s.builtin[:0]
	s.builtin = append(s.builtin, &Pressure{K: p.K, Rho0: p.Rho0, H: p.H, Grad: s.kernel.Gradient})
	if p.Mu > 0 {
		s.builtin = append(s.builtin, &Viscosity{Mu: p.Mu, H: p.H, Deriv: s.kernel.Derivative})
	}
	s.builtin = append(s.builtin, &Gravity{G: p.Gravity, Axis: p.UpAxis()})
}

func (s *Solver) Params() Params          { return s.params }
func (s *Solver) Kernel() kernel.Kernel   { return s.kernel }
func (s *Solver) Steps() int              { return s.steps }
func (s *Solver) SetLogger(l logr.Logger) { s.log = l }

// SetMinChunk sets the smallest particle range processed by one goroutine.
func (s *Solver) SetMinChunk(n int) { s.minChunk = n }

// AddTerm appends an extra acceleration term evaluated after the defaults.
func (s *Solver) AddTerm(t Term) { s.extra = append(s.extra, t) }

// Terms returns the active terms in evaluation order.
func (s *Solver) Terms() []Term {
	out := make([]Term, 0, len(s.builtin)+len(s.extra))
	out = append(out, s.builtin...)
	return append(out, s.extra...)
}

// CheckScene verifies that sc matches the solver's dimensionality and holds
// usable particles. Run it once at setup; Step only re-checks Dim.
func (s *Solver) CheckScene(sc Scene) error {
	if sc.Dim() != s.params.Dim {
		return fmt.Errorf("%w: scene is %dD, solver is %dD", ErrDimensionMismatch, sc.Dim(), s.params.Dim)
	}
	for i := 0; i < sc.Len(); i++ {
		if !sc.Position(i).FitsDim(s.params.Dim) || !sc.Velocity(i).FitsDim(s.params.Dim) {
			return fmt.Errorf("%w: particle %d has components beyond %dD", ErrDimensionMismatch, i, s.params.Dim)
		}
		if m := sc.Mass(i); !(m > 0) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: particle %d has mass %g", ErrParameterBounds, i, m)
		}
	}
	return nil
}

// Step recomputes densities, then adds acceleration*dt to every velocity.
func (s *Solver) Step(sc Scene) error {
	if sc.Dim() != s.params.Dim {
		return fmt.Errorf("%w: scene is %dD, solver is %dD", ErrDimensionMismatch, sc.Dim(), s.params.Dim)
	}
	accel := s.accelerations(sc)

	dt := s.params.Dt
	workers.For(len(accel), s.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			sc.AddVelocity(i, accel[i].Scale(dt))
		}
	})

	s.steps++
	if s.log.V(1).Enabled() {
		s.log.V(1).Info("step done", "step", s.steps, "particles", len(accel), "dt", dt)
	}
	return nil
}

// Accelerations recomputes densities and returns every particle's total
// acceleration without touching velocities.
func (s *Solver) Accelerations(sc Scene) []vec.Vec {
	accel := s.accelerations(sc)
	out := make([]vec.Vec, len(accel))
	copy(out, accel)
	return out
}

func (s *Solver) accelerations(sc Scene) []vec.Vec {
	sc.RecalculateDensities(s.kernel.Weight, s.params.H)

	n := sc.Len()
	if cap(s.accel) < n {
		s.accel = make([]vec.Vec, n)
	}
	accel := s.accel[:n]
	terms := s.Terms()

	// Each chunk owns accel[start:end]; velocities are not written until
	// every acceleration is known.
	workers.For(n, s.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			var a vec.Vec
			for _, t := range terms {
				a = a.Add(t.Acceleration(sc, i))
			}
			accel[i] = a
		}
	})

	if s.log.V(2).Enabled() && n > 0 {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < n; i++ {
			rho := sc.Density(i)
			lo, hi = math.Min(lo, rho), math.Max(hi, rho)
		}
		s.log.V(2).Info("densities", "min", lo, "max", hi, "rest", s.params.Rho0)
	}
	return accel
}

// GetParams returns the tunable parameters by name.
func (s *Solver) GetParams() map[string]float64 {
	p := s.params
	return map[string]float64{
		"h":            p.H,
		"dt":           p.Dt,
		"stiffness":    p.K,
		"rest_density": p.Rho0,
		"viscosity":    p.Mu,
		"gravity":      p.Gravity,
	}
}

// SetParam updates one parameter by name. The change is validated as a
// whole and rejected without side effects when invalid.
func (s *Solver) SetParam(name string, v float64) error {
	p := s.params
	switch name {
	case "h":
		p.H = v
	case "dt":
		p.Dt = v
	case "stiffness":
		p.K = v
	case "rest_density":
		p.Rho0 = v
	case "viscosity":
		p.Mu = v
	case "gravity":
		p.Gravity = v
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	s.buildTerms()
	s.log.V(1).Info("parameter updated", "name", name, "value", v)
	return nil
}
