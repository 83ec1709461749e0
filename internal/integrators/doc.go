// Package integrators holds fixed-step and adaptive ODE steppers for
// [dynamo.System].
//
// The sand pendulum has a closed-form solution, so these steppers are
// used to cross-check it: a correct closed form and a converging
// integrator must agree to within the integrator's truncation error.
package integrators
