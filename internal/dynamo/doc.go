// Package dynamo provides core simulation primitives for the sand pendulum lab.
//
// The package defines the fundamental interfaces and types used to
// integrate the pendulum ODE numerically and to report invalid input:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Metric]: observer that reduces a run to a single number
//   - [Run]: drives one simulation from an initial state
//   - [DomainError]: invalid physical input, wraps [ErrDomain]
//
// # Example
//
//	dyn := physics.NewSandPendulum(1, 0.64)
//	integ := integrators.NewRK4()
//	result, _ := dynamo.Run(ctx, dyn, integ, x0, cfg)
//
// # Thread Safety
//
// Integrators keep scratch buffers and are NOT thread-safe. Create one
// integrator per goroutine.
package dynamo
