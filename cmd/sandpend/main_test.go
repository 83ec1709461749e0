package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/sandpend/internal/config"
	"github.com/san-kum/sandpend/internal/dynamo"
)

// parsed returns the ratio subcommand with args parsed onto a fresh root.
func parsed(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := newRootCmd()
	cmd, _, err := root.Find([]string{"ratio"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(parsed(t))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := config.DefaultConfig()
	if cfg.Pendulum != want.Pendulum || cfg.Throw != want.Throw || cfg.Theme != want.Theme {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandpend.yaml")
	doc := "pendulum:\n  length_x: 2\n  length_y: 0.5\n  max_time: 3\nthrow:\n  x0: 0.02\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(parsed(t, "--config", path, "--preset", "octave", "--ly", "0.3", "--vy0", "0.1"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tests := []struct {
		name      string
		got, want float64
	}{
		{"preset over file", cfg.Pendulum.LengthX, 1},
		{"flag over preset", cfg.Pendulum.LengthY, 0.3},
		{"file over default", cfg.Pendulum.MaxTime, 3},
		{"file throw", cfg.Throw.X0, 0.02},
		{"flag throw", cfg.Throw.VY0, 0.1},
		{"default kept", cfg.Pendulum.TimeStep, config.DefaultTimeStep},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %g, want %g", tt.name, tt.got, tt.want)
		}
	}
}

func TestResolveConfigUnsetFlagKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandpend.yaml")
	if err := os.WriteFile(path, []byte("pendulum:\n  length_y: 0.81\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(parsed(t, "--config", path))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Pendulum.LengthY != 0.81 {
		t.Errorf("LengthY = %g, want 0.81", cfg.Pendulum.LengthY)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	if _, err := resolveConfig(parsed(t, "--preset", "tritone")); err == nil {
		t.Error("expected error for unknown preset")
	}

	_, err := resolveConfig(parsed(t, "--lx=-1"))
	if !errors.Is(err, dynamo.ErrDomain) {
		t.Errorf("expected domain error, got %v", err)
	}

	if _, err := resolveConfig(parsed(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestConfigCommandWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	root := newRootCmd()
	root.SetArgs([]string{"config", "--preset", "fifth", "--time", "12", "--write", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pendulum.MaxTime != 12 {
		t.Errorf("MaxTime = %g, want 12", cfg.Pendulum.MaxTime)
	}
	if cfg.Pendulum.LengthY != 4.0/9 {
		t.Errorf("LengthY = %g, want %g", cfg.Pendulum.LengthY, 4.0/9)
	}
}
