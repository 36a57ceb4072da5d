// Package invert recovers the rest position of a displaced surface point.
//
// An ocean displacement map stores, for each rest-state UV, how far the
// surface point moved. The forward map is
//
//	D(p) = p + disp(p)/scale
//
// where disp is the horizontal (X, Z) displacement sampled bilinearly at p
// and scale converts displacement units to UV units. Given a target UV the
// Inverter finds p with D(p) ≈ target using damped fixed-point iteration.
// There is no closed form and no global convergence guarantee; fields with
// bounded derivatives, as produced by ocean simulations, converge in a few
// steps.
package invert

import (
	"github.com/gogpu/heightfield/internal/image"
)

// Solver defaults.
const (
	// MaxIterations caps the number of corrective steps.
	MaxIterations = 100

	// Damping is the fraction of the residual removed per step.
	Damping float32 = 0.6

	// EpsilonSq is the squared residual below which the solver stops.
	EpsilonSq float32 = 1e-6
)

// Inverter solves D(p) = target for p. Zero-valued fields use the package
// defaults. An Inverter holds no per-call state and may be shared between
// goroutines.
type Inverter struct {
	// Scale converts displacement units to UV units. Must be positive.
	Scale float32

	// Damping overrides the default damping factor when non-zero.
	Damping float32

	// MaxIterations overrides the iteration cap when non-zero.
	MaxIterations int

	// EpsilonSq overrides the squared tolerance when non-zero.
	EpsilonSq float32
}

// Result is the outcome of one inversion.
type Result struct {
	// UV is the best estimate of the source coordinate. It is not wrapped
	// into [0,1).
	UV image.UV

	// Iterations is the number of steps taken before the residual fell
	// under the tolerance, or the cap when it never did.
	Iterations int

	// Converged reports whether the tolerance was reached before the cap.
	Converged bool
}

// params returns the effective damping, cap and tolerance.
func (inv Inverter) params() (damping float32, maxIters int, epsSq float32) {
	damping, maxIters, epsSq = Damping, MaxIterations, EpsilonSq
	if inv.Damping != 0 {
		damping = inv.Damping
	}
	if inv.MaxIterations > 0 {
		maxIters = inv.MaxIterations
	}
	if inv.EpsilonSq > 0 {
		epsSq = inv.EpsilonSq
	}
	return damping, maxIters, epsSq
}

// Invert finds the source UV whose displaced position is target.
//
// Step i computes the residual e = (p_i + disp(p_i)/scale) - target on U and
// V (channels 0 and 2), moves p by -damping*e, resamples, and stops once
// |e|² is under the tolerance. The returned UV is the point after the last
// update. Reaching the cap is not an error; Converged is false then.
func (inv Inverter) Invert(s *image.Sampler, target image.UV) Result {
	damping, maxIters, epsSq := inv.params()
	scale := inv.Scale

	p := target
	values := s.SampleUV(p)

	i := 0
	for ; i < maxIters; i++ {
		errU := (p[0] + values[0]/scale) - target[0]
		errV := (p[1] + values[2]/scale) - target[1]
		p[0] -= damping * errU
		p[1] -= damping * errV

		values = s.SampleUV(p)

		if errU*errU+errV*errV < epsSq {
			return Result{UV: p, Iterations: i, Converged: true}
		}
	}
	return Result{UV: p, Iterations: i}
}

// Forward returns D(p), the displaced position of rest coordinate p.
func (inv Inverter) Forward(s *image.Sampler, p image.UV) image.UV {
	values := s.SampleUV(p)
	return image.UV{p[0] + values[0]/inv.Scale, p[1] + values[2]/inv.Scale}
}
