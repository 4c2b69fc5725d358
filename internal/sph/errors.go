package sph

import (
	"errors"
	"fmt"

	"github.com/san-kum/sphcore/internal/kernel"
)

// Configuration errors. They are reported once at setup and are fatal.
var (
	// ErrUnsupportedDim indicates a dimensionality outside 1..3.
	ErrUnsupportedDim = kernel.ErrUnsupportedDim

	// ErrNonPositiveH indicates a smoothing length <= 0.
	ErrNonPositiveH = errors.New("sph: smoothing length must be positive")

	// ErrNonPositiveDt indicates a time step <= 0.
	ErrNonPositiveDt = errors.New("sph: time step must be positive")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("sph: parameter out of valid bounds")

	// ErrDimensionMismatch indicates scene, kernel and parameters disagree on D.
	ErrDimensionMismatch = errors.New("sph: dimension mismatch")

	// ErrUnknownParam indicates SetParam was called with an unknown name.
	ErrUnknownParam = errors.New("sph: unknown parameter")
)

// NonFiniteError reports the first particle holding a NaN or Inf value.
type NonFiniteError struct {
	Index int
	Field string
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("sph: non-finite %s at particle %d", e.Field, e.Index)
}
