package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

type decay struct{}

func (d *decay) Derive(x State, t float64) State { return State{-x[0]} }
func (d *decay) StateDim() int                   { return 1 }

type eulerStep struct{}

func (e *eulerStep) Step(dyn System, x State, t float64, dt float64) State {
	dx := dyn.Derive(x, t)
	return State{x[0] + dt*dx[0]}
}

type countMetric struct {
	count int
	sum   float64
}

func (c *countMetric) Name() string { return "mean" }
func (c *countMetric) Observe(x State, t float64) {
	c.count++
	c.sum += x[0]
}
func (c *countMetric) Value() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}
func (c *countMetric) Reset() {
	c.count = 0
	c.sum = 0
}

func TestRun(t *testing.T) {
	cfg := Config{Dt: 0.1, Duration: 1.0}

	result, err := Run(context.Background(), &decay{}, &eulerStep{}, State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	last := result.Times[len(result.Times)-1]
	if math.Abs(last-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %.12f", last)
	}

	finalState := result.States[len(result.States)-1][0]
	expected := math.Exp(-1.0)
	if math.Abs(finalState-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, finalState)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"NaN dt", Config{Dt: math.NaN(), Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"infinite duration", Config{Dt: 0.1, Duration: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), &decay{}, &eulerStep{}, State{1.0}, tt.cfg)
			if !errors.Is(err, ErrDomain) {
				t.Errorf("expected ErrDomain, got %v", err)
			}
		})
	}
}

func TestRunDimensionMismatch(t *testing.T) {
	_, err := Run(context.Background(), &decay{}, &eulerStep{}, State{1, 2}, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestRunMetrics(t *testing.T) {
	metric := &countMetric{}
	cfg := Config{Dt: 0.1, Duration: 1.0}

	result, err := Run(context.Background(), &decay{}, &eulerStep{}, State{1.0}, cfg, metric)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["mean"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, &decay{}, &eulerStep{}, State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, ErrContextCanceled) {
		t.Errorf("expected ErrContextCanceled, got %v", err)
	}
}

func TestRunAdaptiveFallback(t *testing.T) {
	cfg := Config{Dt: 0.1, Duration: 1.0, Adaptive: true, Tolerance: 1e-4, MinDt: 1e-6, MaxDt: 0.2}

	result, err := Run(context.Background(), &decay{}, &eulerStep{}, State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	last := result.Times[len(result.Times)-1]
	if math.Abs(last-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %.12f", last)
	}
}
