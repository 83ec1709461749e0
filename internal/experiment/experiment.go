package experiment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/sandpend/internal/dynamo"
	"github.com/san-kum/sandpend/internal/metrics"
	"github.com/san-kum/sandpend/internal/physics"
)

// Config selects how a closed-form trajectory is cross-checked.
type Config struct {
	Integrator string
	Dt         float64
	Duration   float64
	Adaptive   bool
	Tolerance  float64
}

// Report summarises one verification run.
type Report struct {
	Integrator   string
	Steps        int
	MaxDeviation float64 // m
	WorstTime    float64 // s
	EnergyDrift  float64
	SmallAngle   float64
	Elapsed      time.Duration
	Errors       []error
}

type Experiment struct {
	cfg      Config
	registry *Registry
	logger   *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Experiment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   logger.Named("experiment"),
	}
}

// Run integrates the sand pendulum ODE from the trajectory's initial
// state and compares it against the closed form.
func (e *Experiment) Run(ctx context.Context, tr physics.Trajectory) (*Report, error) {
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return nil, err
	}

	simCfg := dynamo.DefaultConfig()
	simCfg.Dt = e.cfg.Dt
	simCfg.Duration = e.cfg.Duration
	simCfg.Adaptive = e.cfg.Adaptive
	if e.cfg.Tolerance > 0 {
		simCfg.Tolerance = e.cfg.Tolerance
	}

	report, err := Verify(ctx, tr, integ, simCfg)
	if report != nil {
		report.Integrator = e.cfg.Integrator
		e.logger.Debug("verified trajectory",
			zap.String("integrator", report.Integrator),
			zap.Int("steps", report.Steps),
			zap.Float64("max_deviation_m", report.MaxDeviation),
			zap.Float64("energy_drift", report.EnergyDrift),
			zap.Duration("elapsed", report.Elapsed),
		)
	}
	return report, err
}

// Verify integrates the SandPendulum ODE with integ and reports how far it
// strays from tr.
func Verify(ctx context.Context, tr physics.Trajectory, integ dynamo.Integrator, cfg dynamo.Config) (*Report, error) {
	p := physics.NewSandPendulum(tr.LengthX, tr.LengthY)
	x0, err := initialState(p, tr)
	if err != nil {
		return nil, err
	}

	dev := metrics.NewDeviation(p, tr)
	drift := metrics.NewEnergyDrift(p)
	small := metrics.NewSmallAngle(0)

	start := time.Now()
	res, err := dynamo.Run(ctx, p, integ, x0, cfg, dev, drift, small)
	if res == nil {
		return nil, err
	}

	report := &Report{
		Steps:        res.StepsTaken,
		MaxDeviation: dev.Value(),
		WorstTime:    dev.WorstTime(),
		EnergyDrift:  drift.Value(),
		SmallAngle:   small.Value(),
		Elapsed:      time.Since(start),
		Errors:       res.Errors,
	}
	if err != nil {
		return report, fmt.Errorf("verify: %w", err)
	}
	return report, nil
}

func initialState(p *physics.SandPendulum, tr physics.Trajectory) (dynamo.State, error) {
	thetaX, thetaY, err := tr.Angles(0)
	if err != nil {
		return nil, err
	}
	omegaX, omegaY, err := tr.AngularVelocities(0)
	if err != nil {
		return nil, err
	}
	return p.InitialState(
		physics.AxisState{Position: thetaX * tr.LengthX, Velocity: omegaX * tr.LengthX, Length: tr.LengthX},
		physics.AxisState{Position: thetaY * tr.LengthY, Velocity: omegaY * tr.LengthY, Length: tr.LengthY},
	)
}
