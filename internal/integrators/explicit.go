package integrators

import "github.com/san-kum/sandpend/internal/dynamo"

// axpy writes x + a*k into dst and returns it.
func axpy(dst, x dynamo.State, a float64, k dynamo.State) dynamo.State {
	for i := range x {
		dst[i] = x[i] + a*k[i]
	}
	return dst
}

// Euler is the first-order forward Euler method. It gains energy on
// oscillators and is kept as the baseline in comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return axpy(make(dynamo.State, len(x)), x, dt, dyn.Derive(x, t))
}

// RK4 is the classic fourth-order Runge-Kutta method.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.scratch = make(dynamo.State, n)
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	r.ensureScratch(len(x))
	half := 0.5 * dt

	copy(r.k[0], dyn.Derive(x, t))
	copy(r.k[1], dyn.Derive(axpy(r.scratch, x, half, r.k[0]), t+half))
	copy(r.k[2], dyn.Derive(axpy(r.scratch, x, half, r.k[1]), t+half))
	copy(r.k[3], dyn.Derive(axpy(r.scratch, x, dt, r.k[2]), t+dt))

	out := make(dynamo.State, len(x))
	for i := range x {
		out[i] = x[i] + dt/6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return out
}
