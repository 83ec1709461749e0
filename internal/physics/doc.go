// Package physics computes the motion of a two-axis sand pendulum.
//
// Each axis is treated as an independent small-angle pendulum, so its
// angle follows simple harmonic motion θ(t) = A·cos(ωt + δ) and the bob
// sits at L·θ(t) along that axis. The superposition of the two axes
// traces a Lissajous figure.
//
//   - [SolveCoefficients] / [Solve]: initial position and velocity to
//     amplitude, angular frequency and phase per axis
//   - [Trajectory]: closed-form evaluation at an instant or over a range
//   - [Path]: lazy, restartable sequence of samples for rendering
//   - [SandPendulum]: the same model as an ODE, for cross-checking
//     against the numerical integrators
//
// Every function here is pure. Nothing holds mutable state, so values may
// be shared between goroutines without locking.
//
// # Advisories
//
// Amplitudes beyond the isochronism limit (0.1 rad) or beyond 20° make
// the small-angle model increasingly wrong. [Solve] reports this as
// [Advisory] values next to the coefficients; the coefficients are never
// altered.
//
//	sol, err := physics.Solve(
//	    physics.AxisState{Position: 0.3, Length: 1},
//	    physics.AxisState{Length: 0.64},
//	)
//	path, err := sol.Trajectory().Range(5, 0.03)
//	for t, p := range path.All() {
//	    ...
//	}
package physics
