// Package kernel provides SPH smoothing kernels.
//
// Every kernel is radially symmetric with compact support h and is
// normalised to integrate to one over its support in the configured
// dimension:
//
//   - [CubicSpline]: the default kernel used for density and forces
//   - [Poly6]: smooth kernel, common for density estimation
//   - [Spiky]: kernel with a non-vanishing gradient near the origin
//
// Force and density code take kernels either through the [Kernel]
// interface or as plain [WeightFunc], [DerivativeFunc] and [GradientFunc]
// values, so kernels can be swapped without touching that code:
//
//	k, err := kernel.New("cubic_spline", 2)
//	w := k.Weight(0.3, 1.0)
package kernel
