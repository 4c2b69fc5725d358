package sph

import "math"

// CheckFinite returns a *NonFiniteError for the first particle whose
// density, position or velocity holds NaN or Inf. The solver never calls it;
// it is an invariant check for callers that want one between steps.
func CheckFinite(r Reader) error {
	for i := 0; i < r.Len(); i++ {
		switch {
		case !isFinite(r.Density(i)):
			return &NonFiniteError{Index: i, Field: "density"}
		case !r.Position(i).IsFinite():
			return &NonFiniteError{Index: i, Field: "position"}
		case !r.Velocity(i).IsFinite():
			return &NonFiniteError{Index: i, Field: "velocity"}
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
