package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/sandpend/internal/dynamo"
	"github.com/san-kum/sandpend/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Pendulum.LengthX != 1 || cfg.Pendulum.LengthY != 0.64 {
		t.Errorf("lengths = %f, %f, want 1, 0.64", cfg.Pendulum.LengthX, cfg.Pendulum.LengthY)
	}
	if cfg.Pendulum.MaxTime != 5 {
		t.Errorf("max time = %f, want 5", cfg.Pendulum.MaxTime)
	}
	if cfg.Pendulum.TimeStep != 0.03 {
		t.Errorf("time step = %f, want 0.03", cfg.Pendulum.TimeStep)
	}
	if cfg.Pendulum.SpeedMultiplier != 4 {
		t.Errorf("speed multiplier = %f, want 4", cfg.Pendulum.SpeedMultiplier)
	}
	if !cfg.Pendulum.PredictPath || cfg.Pendulum.ShowRatio {
		t.Error("expected predict path on and show ratio off")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero length x", func(c *Config) { c.Pendulum.LengthX = 0 }, "length_x"},
		{"negative length y", func(c *Config) { c.Pendulum.LengthY = -1 }, "length_y"},
		{"nan step", func(c *Config) { c.Pendulum.TimeStep = math.NaN() }, "time_step"},
		{"inf max time", func(c *Config) { c.Pendulum.MaxTime = math.Inf(1) }, "max_time"},
		{"nan throw", func(c *Config) { c.Throw.VY0 = math.NaN() }, "vy0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, dynamo.ErrDomain) {
				t.Fatalf("got %v, want ErrDomain", err)
			}
			var de *dynamo.DomainError
			if !errors.As(err, &de) || de.Field != tt.field {
				t.Errorf("field = %v, want %s", de, tt.field)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Pendulum.MaxTime = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero max time should be allowed: %v", err)
	}
}

func TestValidateReportsFirstThrowField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Throw.VY0 = math.NaN()
	cfg.Throw.Y0 = math.Inf(-1)
	cfg.Throw.X0 = math.NaN()

	// several bad fields always report the first in x0, vx0, y0, vy0 order
	for i := 0; i < 50; i++ {
		var de *dynamo.DomainError
		if err := cfg.Validate(); !errors.As(err, &de) || de.Field != "x0" {
			t.Fatalf("run %d: got %v, want field x0", i, err)
		}
	}

	cfg.Throw.X0 = 0
	var de *dynamo.DomainError
	if err := cfg.Validate(); !errors.As(err, &de) || de.Field != "y0" {
		t.Errorf("got %v, want field y0", err)
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sandpend.yaml")

	cfg := DefaultConfig()
	cfg.Pendulum.LengthY = 0.25
	cfg.Throw.X0 = 0.1
	cfg.Theme = "ocean"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Pendulum.LengthY != 0.25 || loaded.Throw.X0 != 0.1 || loaded.Theme != "ocean" {
		t.Errorf("loaded %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("pendulum:\n  length_y: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pendulum.LengthY != 0.5 || cfg.Pendulum.LengthX != DefaultLengthX || cfg.Pendulum.TimeStep != DefaultTimeStep {
		t.Errorf("got %+v", cfg.Pendulum)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pendulum:\n  length_x: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, dynamo.ErrDomain) {
		t.Errorf("got %v, want ErrDomain", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("octave")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.LengthY != 0.25 {
		t.Errorf("expected length y 0.25, got %f", p.LengthY)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetRatios(t *testing.T) {
	tests := []struct {
		preset string
		ratio  string
	}{
		{"unison", "1/1"},
		{"octave", "1/2"},
		{"fifth", "2/3"},
		{"fourth", "3/4"},
		{"default", "4/5"},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			p := GetPreset(tt.preset)
			r, err := physics.FrequencyRatio(p.LengthX, p.LengthY)
			if err != nil {
				t.Fatal(err)
			}
			if got := r.Approximate(16).String(); got != tt.ratio {
				t.Errorf("ratio = %s, want %s", got, tt.ratio)
			}
		})
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets()
	want := []string{"default", "fifth", "fourth", "octave", "unison"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestPresetApply(t *testing.T) {
	cfg := DefaultConfig()
	GetPreset("fifth").Apply(cfg)
	if math.Abs(cfg.Pendulum.LengthY-4.0/9) > 1e-12 {
		t.Errorf("length y = %f", cfg.Pendulum.LengthY)
	}
}
