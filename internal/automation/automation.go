package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sandpend/internal/config"
	"github.com/san-kum/sandpend/internal/experiment"
	"github.com/san-kum/sandpend/internal/export"
	"github.com/san-kum/sandpend/internal/physics"
	"github.com/san-kum/sandpend/internal/session"
)

// Scenario defines a scripted sequence of throws
type Scenario struct {
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Pendulum    config.PendulumConfig `yaml:"pendulum"`
	Formats     []string              `yaml:"formats"`
	Steps       []ScenarioStep        `yaml:"steps"`
}

// ScenarioStep is a single throw. Zero lengths and times inherit from the
// scenario's pendulum after the step's preset is applied.
type ScenarioStep struct {
	Name     string             `yaml:"name"`
	Preset   string             `yaml:"preset"`
	LengthX  float64            `yaml:"length_x"`
	LengthY  float64            `yaml:"length_y"`
	MaxTime  float64            `yaml:"max_time"`
	TimeStep float64            `yaml:"time_step"`
	Throw    config.ThrowConfig `yaml:"throw"`
	Verify   string             `yaml:"verify"` // integrator name, empty to skip
	Formats  []string           `yaml:"formats"`
}

// StepResult is the outcome of one step.
type StepResult struct {
	Name   string
	RunID  string
	Plan   *session.Plan
	Report *experiment.Report
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// ParseScenario decodes a scenario. Pendulum fields left out of the
// document keep their defaults.
func ParseScenario(data []byte) (*Scenario, error) {
	scenario := Scenario{Pendulum: config.DefaultPendulum()}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// pendulum resolves the configuration of one step.
func (sc *Scenario) pendulum(step ScenarioStep) (config.PendulumConfig, error) {
	cfg := sc.Pendulum
	if cfg == (config.PendulumConfig{}) {
		cfg = config.DefaultPendulum()
	}
	if step.Preset != "" {
		p := config.GetPreset(step.Preset)
		if p == nil {
			return cfg, fmt.Errorf("unknown preset %q", step.Preset)
		}
		cfg.LengthX, cfg.LengthY = p.LengthX, p.LengthY
	}
	for _, o := range []struct {
		dst *float64
		v   float64
	}{
		{&cfg.LengthX, step.LengthX},
		{&cfg.LengthY, step.LengthY},
		{&cfg.MaxTime, step.MaxTime},
		{&cfg.TimeStep, step.TimeStep},
	} {
		if o.v != 0 {
			*o.dst = o.v
		}
	}
	return cfg, cfg.Validate()
}

func formats(names ...[]string) ([]export.Format, error) {
	for _, n := range names {
		if len(n) == 0 {
			continue
		}
		var out []export.Format
		for _, s := range n {
			f, err := export.ParseFormats(s)
			if err != nil {
				return nil, err
			}
			out = append(out, f...)
		}
		return out, nil
	}
	return export.AllFormats, nil
}

// RunScenario executes all steps in a scenario, saving each throw to
// store. A nil store skips the files.
func RunScenario(ctx context.Context, scenario *Scenario, store *export.Store, logger *zap.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("batch")
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%02d", i+1)
		}
		logger.Info("running step",
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("name", name),
		)

		cfg, err := scenario.pendulum(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		s, err := session.New(cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		plan, err := s.ThrowAt(step.Throw)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res := StepResult{Name: name, Plan: plan}

		if step.Verify != "" {
			exp := experiment.New(experiment.Config{
				Integrator: step.Verify,
				Dt:         cfg.TimeStep / 10,
				Duration:   cfg.MaxTime,
			}, logger)
			report, err := exp.Run(ctx, plan.Trajectory)
			if err != nil {
				return results, fmt.Errorf("step %d verify: %w", i+1, err)
			}
			res.Report = report
		}

		if store != nil {
			fs, err := formats(step.Formats, scenario.Formats)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			opts := export.DefaultFigureOptions()
			opts.Title = name
			opts.ShowRatio = cfg.ShowRatio
			runID, err := store.Save(name, plan, fs, opts)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.RunID = runID
		}

		results = append(results, res)
	}

	return results, nil
}

// ParameterSweep throws the same initial condition across a range of one
// pendulum or throw parameter.
type ParameterSweep struct {
	Pendulum  config.PendulumConfig
	Throw     config.ThrowConfig
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Ratio      physics.Ratio
	Extent     physics.Point
	Advisories int
}

// SweepParams lists the parameters a sweep can vary.
var SweepParams = []string{"length_x", "length_y", "x0", "vx0", "y0", "vy0"}

func sweepTarget(name string, cfg *config.PendulumConfig, t *config.ThrowConfig) (*float64, error) {
	switch name {
	case "length_x":
		return &cfg.LengthX, nil
	case "length_y":
		return &cfg.LengthY, nil
	case "x0":
		return &t.X0, nil
	case "vx0":
		return &t.VX0, nil
	case "y0":
		return &t.Y0, nil
	case "vy0":
		return &t.VY0, nil
	}
	return nil, fmt.Errorf("unknown sweep parameter %q (have %v)", name, SweepParams)
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *zap.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	cfg, throw := sweep.Pendulum, sweep.Throw
	target, err := sweepTarget(sweep.ParamName, &cfg, &throw)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		paramVal := sweep.ParamMin + float64(i)*paramStep
		*target = paramVal

		s, err := session.New(cfg, nil)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}
		plan, err := s.ThrowAt(throw)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Ratio:      plan.Ratio,
			Extent:     plan.Trajectory.Extent(),
			Advisories: len(plan.Advisories()),
		})

		logger.Debug("sweep", zap.Int("step", i+1), zap.String("param", sweep.ParamName), zap.Float64("value", paramVal))
	}

	return results, nil
}

// MonteCarloConfig perturbs a base throw at random.
type MonteCarloConfig struct {
	Pendulum     config.PendulumConfig
	Base         config.ThrowConfig
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID   int
	Throw     config.ThrowConfig
	Amplitude physics.Point // rad
	Stable    bool          // stayed under the unpredictability limit on both axes
}

// RunMonteCarlo throws NumTrials randomly perturbed initial conditions.
// The draws are sequential so a fixed seed repeats; the throws are solved
// by an Ensemble.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *zap.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	jitter := func(v float64) float64 {
		return v + (rng.Float64()-0.5)*2*cfg.Perturbation
	}

	throws := make([]config.ThrowConfig, cfg.NumTrials)
	for i := range throws {
		throws[i] = config.ThrowConfig{
			X0:  jitter(cfg.Base.X0),
			VX0: jitter(cfg.Base.VX0),
			Y0:  jitter(cfg.Base.Y0),
			VY0: jitter(cfg.Base.VY0),
		}
	}

	plans, err := NewEnsemble(cfg.Pendulum, 0, logger).Run(ctx, throws)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, len(plans))
	for trial, plan := range plans {
		sol := plan.Solution
		results = append(results, MonteCarloResult{
			TrialID:   trial,
			Throw:     throws[trial],
			Amplitude: physics.Point{X: sol.X.Amplitude, Y: sol.Y.Amplitude},
			Stable:    !physics.HasLevel(sol.Advisories, physics.AdvisoryUnpredictable),
		})
	}
	logger.Debug("monte carlo", zap.Int("trials", len(results)))

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int, maxAmplitude float64) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
		maxAmplitude = math.Max(maxAmplitude, math.Max(r.Amplitude.X, r.Amplitude.Y))
	}
	return
}
