package integrators

import (
	"math"

	"github.com/san-kum/sandpend/internal/dynamo"
)

// Dormand-Prince 5(4) tableau.
var (
	dpNodes = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}

	dpCoupling = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}

	// fifth order weights are the last coupling row; fourth order below
	dpLower = [7]float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40}
)

// RK45 is the adaptive Dormand-Prince method. Step uses a fixed tolerance
// of 1e-9 and ignores the suggested next step.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next, _, _ := r.StepAdaptive(dyn, x, t, dt, 1e-9)
	return next
}

// StepAdaptive always accepts the step it was given and returns the step
// size its error estimate suggests for the next one.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	n := len(x)
	var k [7]dynamo.State
	stage := make(dynamo.State, n)

	for s := 0; s < 7; s++ {
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < s; j++ {
				sum += dpCoupling[s][j] * k[j][i]
			}
			stage[i] = x[i] + dt*sum
		}
		k[s] = dyn.Derive(stage, t+dpNodes[s]*dt)
	}

	// stage 6 was evaluated at the fifth order solution (FSAL)
	next := stage.Clone()

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := 0.0
		for j := 0; j < 7; j++ {
			w := dpLower[j]
			if j < 6 {
				w = dpCoupling[6][j] - w
			} else {
				w = -w
			}
			errEst += w * k[j][i]
		}
		errEst *= dt
		scale := math.Abs(x[i]) + math.Abs(dt*k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	ratio := errMax / tol
	var factor float64
	switch {
	case ratio > 1:
		factor = math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	case ratio > 0:
		factor = math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	default:
		factor = r.maxScale
	}

	return next, dt * factor, nil
}
