package kernel

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/sphcore/internal/vec"
)

// Epsilon is the distance at or below which two particles are treated as
// coincident. Gradient-based terms contribute nothing for such pairs.
const Epsilon = 1e-6

// ErrUnsupportedDim indicates a dimensionality outside 1..3.
var ErrUnsupportedDim = errors.New("kernel: unsupported dimension")

type (
	WeightFunc     func(r, h float64) float64
	DerivativeFunc func(r, h float64) float64
	GradientFunc   func(rv vec.Vec, h float64) vec.Vec
)

// Kernel is a smoothing kernel fixed to one dimensionality.
type Kernel interface {
	Name() string
	Dim() int
	// Weight evaluates W(r, h).
	Weight(r, h float64) float64
	// Derivative evaluates dW/dr.
	Derivative(r, h float64) float64
	// Gradient evaluates dW/dr along rv/|rv|; zero when |rv| <= Epsilon.
	Gradient(rv vec.Vec, h float64) vec.Vec
	// Support returns the radius beyond which W and dW/dr vanish.
	Support(h float64) float64
}

// gradient is shared by all radially symmetric kernels.
func gradient(deriv DerivativeFunc, rv vec.Vec, h float64) vec.Vec {
	r := rv.Norm()
	if r <= Epsilon {
		return vec.Vec{}
	}
	return rv.Scale(deriv(r, h) / r)
}

func checkDim(dim int) error {
	if dim < 1 || dim > vec.MaxDim {
		return fmt.Errorf("%w: %d", ErrUnsupportedDim, dim)
	}
	return nil
}

var registry = map[string]func(dim int) (Kernel, error){
	"cubic_spline": func(dim int) (Kernel, error) { return NewCubicSpline(dim) },
	"poly6":        func(dim int) (Kernel, error) { return NewPoly6(dim) },
	"spiky":        func(dim int) (Kernel, error) { return NewSpiky(dim) },
}

// New returns the named kernel for the given dimension.
func New(name string, dim int) (Kernel, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown kernel: %s", name)
	}
	return fn(dim)
}

// Names lists the registered kernel names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
