package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sandpend/internal/dynamo"
)

const (
	DefaultLengthX         = 1.0
	DefaultLengthY         = 0.64
	DefaultMaxTime         = 5.0
	DefaultTimeStep        = 0.03
	DefaultSpeedMultiplier = 4.0
	DefaultTheme           = "sand"
	DefaultExportDir       = "."
	DefaultFigure          = "output.png"
)

type Config struct {
	Pendulum PendulumConfig `yaml:"pendulum"`
	Throw    ThrowConfig    `yaml:"throw"`
	Theme    string         `yaml:"theme"`
	Export   ExportConfig   `yaml:"export"`
}

// PendulumConfig is the state the interactive front ends let a user edit.
type PendulumConfig struct {
	LengthX         float64 `yaml:"length_x"`         // m
	LengthY         float64 `yaml:"length_y"`         // m
	MaxTime         float64 `yaml:"max_time"`         // s
	TimeStep        float64 `yaml:"time_step"`        // s
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // drag metres to m/s
	PredictPath     bool    `yaml:"predict_path"`
	ShowRatio       bool    `yaml:"show_ratio"`
}

// ThrowConfig is the initial condition used by the non-interactive commands.
type ThrowConfig struct {
	X0  float64 `yaml:"x0"`
	VX0 float64 `yaml:"vx0"`
	Y0  float64 `yaml:"y0"`
	VY0 float64 `yaml:"vy0"`
}

type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Figure string `yaml:"figure"`
}

func DefaultConfig() *Config {
	return &Config{
		Pendulum: DefaultPendulum(),
		Theme:    DefaultTheme,
		Export: ExportConfig{
			Dir:    DefaultExportDir,
			Figure: DefaultFigure,
		},
	}
}

func DefaultPendulum() PendulumConfig {
	return PendulumConfig{
		LengthX:         DefaultLengthX,
		LengthY:         DefaultLengthY,
		MaxTime:         DefaultMaxTime,
		TimeStep:        DefaultTimeStep,
		SpeedMultiplier: DefaultSpeedMultiplier,
		PredictPath:     true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Pendulum.Validate(); err != nil {
		return err
	}
	checks := []struct {
		field string
		value float64
	}{
		{"x0", c.Throw.X0},
		{"vx0", c.Throw.VX0},
		{"y0", c.Throw.Y0},
		{"vy0", c.Throw.VY0},
	}
	for _, t := range checks {
		if math.IsNaN(t.value) || math.IsInf(t.value, 0) {
			return dynamo.NewDomainError(t.field, t.value, "must be finite")
		}
	}
	return nil
}

// Validate rejects values the solver or the sampler would refuse.
// A non-positive MaxTime is allowed and yields an empty path.
func (p PendulumConfig) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"length_x", p.LengthX},
		{"length_y", p.LengthY},
		{"time_step", p.TimeStep},
	}
	for _, c := range checks {
		if !(c.value > 0) || math.IsInf(c.value, 0) {
			return dynamo.NewDomainError(c.field, c.value, "must be positive and finite")
		}
	}
	if math.IsNaN(p.MaxTime) || math.IsInf(p.MaxTime, 0) {
		return dynamo.NewDomainError("max_time", p.MaxTime, "must be finite")
	}
	if math.IsNaN(p.SpeedMultiplier) || math.IsInf(p.SpeedMultiplier, 0) {
		return dynamo.NewDomainError("speed_multiplier", p.SpeedMultiplier, "must be finite")
	}
	return nil
}
