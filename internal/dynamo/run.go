package dynamo

import (
	"context"
	"fmt"
	"math"
)

// timeEpsilon absorbs accumulated rounding in t so a run does not end with
// a vanishing extra step.
const timeEpsilon = 1e-12

// Run integrates dyn from x0 for cfg.Duration and records every state.
// Metrics are reset before the run and observed once per recorded state.
func Run(ctx context.Context, dyn System, integ Integrator, x0 State, cfg Config, metrics ...Metric) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != dyn.StateDim() {
		return nil, fmt.Errorf("initial state has %d values, system wants %d: %w", len(x0), dyn.StateDim(), ErrInvalidState)
	}

	steps := int(math.Ceil(cfg.Duration / cfg.Dt))
	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	record := func() {
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
		for _, m := range metrics {
			m.Observe(x, t)
		}
	}
	record()

	initialEnergy := computeEnergy(dyn, x)

	for i := 0; cfg.Duration-t > timeEpsilon*cfg.Duration; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %v", ErrContextCanceled, ctx.Err())
		default:
		}

		// land exactly on Duration
		if t+dt > cfg.Duration {
			dt = cfg.Duration - t
		}

		var newX State
		var stepErr error
		used := dt

		if cfg.Adaptive {
			newX, dt, stepErr = adaptiveStep(dyn, integ, x, t, dt, cfg)
		} else {
			newX = integ.Step(dyn, x, t, dt)
		}

		if stepErr != nil {
			result.Errors = append(result.Errors, stepErr)
		}

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		x = newX
		t += used
		result.StepsTaken++
		record()
	}

	finalEnergy := computeEnergy(dyn, x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return NewDomainError("dt", cfg.Dt, "must be positive and finite")
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return NewDomainError("duration", cfg.Duration, "must be positive and finite")
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping: %w", ErrParameterBounds)
	}
	return nil
}

func computeEnergy(dyn System, x State) float64 {
	if h, ok := dyn.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

// adaptiveStep takes one step of size dt and returns the suggested size
// for the next step.
func adaptiveStep(dyn System, integ Integrator, x State, t, dt float64, cfg Config) (State, float64, error) {
	if adaptive, ok := integ.(AdaptiveIntegrator); ok {
		newX, next, err := adaptive.StepAdaptive(dyn, x, t, dt, cfg.Tolerance)
		return newX, clampDt(next, cfg), err
	}

	x1 := integ.Step(dyn, x, t, dt)
	xHalf := integ.Step(dyn, x, t, dt/2)
	x2 := integ.Step(dyn, xHalf, t+dt/2, dt/2)

	diff := x1.Sub(x2).Norm()

	next := dt
	if diff > cfg.Tolerance && dt > cfg.MinDt {
		next = dt / 2
	} else if diff < cfg.Tolerance/10 && dt < cfg.MaxDt {
		next = dt * 2
	}

	return x2, clampDt(next, cfg), nil
}

func clampDt(dt float64, cfg Config) float64 {
	if cfg.MaxDt > 0 && dt > cfg.MaxDt {
		return cfg.MaxDt
	}
	if dt < cfg.MinDt {
		return cfg.MinDt
	}
	return dt
}
