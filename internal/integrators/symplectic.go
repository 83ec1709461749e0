package integrators

import "github.com/san-kum/sandpend/internal/dynamo"

// Verlet is velocity Verlet for states laid out as [q..., q̇...].
// It is symplectic, so the pendulum energy error stays bounded.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	out := make(dynamo.State, n)
	acc := dyn.Derive(x, t)
	for i := 0; i < half; i++ {
		out[i] = x[i] + x[half+i]*dt + 0.5*acc[half+i]*dt*dt
		v.scratch[i] = out[i]
		v.scratch[half+i] = x[half+i]
	}

	accNew := dyn.Derive(v.scratch, t+dt)
	for i := 0; i < half; i++ {
		out[half+i] = x[half+i] + 0.5*dt*(acc[half+i]+accNew[half+i])
	}
	return out
}

// Leapfrog is the kick-drift-kick form of the same scheme.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	out := make(dynamo.State, n)
	acc := dyn.Derive(x, t)

	// kick, drift
	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + 0.5*dt*acc[half+i]
		out[i] = x[i] + dt*l.scratch[half+i]
		l.scratch[i] = out[i]
	}

	// kick
	accNew := dyn.Derive(l.scratch, t+dt)
	for i := 0; i < half; i++ {
		out[half+i] = l.scratch[half+i] + 0.5*dt*accNew[half+i]
	}
	return out
}
