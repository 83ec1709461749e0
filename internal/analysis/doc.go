// Package analysis inspects sand pendulum trajectories.
//
//   - [Spectrum] and [DominantFrequency]: power spectrum of a sampled axis
//   - [GeneratePhasePortrait]: θ against θ̇ for one axis
//   - [GeneratePoincareSection]: y samples each time x swings through zero
//
// The closed form predicts each axis oscillates at ω/2π Hz, so the
// spectral peak of a sampled path is a check on the solver:
//
//	xs, _ := path.XY()
//	f, _ := analysis.DominantFrequency(xs, path.Step())
package analysis
