// Package session holds the mutable state behind the interactive front
// ends: the current pendulum configuration and the throws made under it.
package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/sandpend/internal/config"
	"github.com/san-kum/sandpend/internal/physics"
)

// Drag is a mouse gesture in metres: press at Start, release at End.
type Drag struct {
	Start physics.Point
	End   physics.Point
}

// Velocity is the throw velocity for a drag, multiplier·(End − Start).
func (d Drag) Velocity(multiplier float64) physics.Point {
	return physics.Point{
		X: multiplier * (d.End.X - d.Start.X),
		Y: multiplier * (d.End.Y - d.Start.Y),
	}
}

// Plan is everything needed to draw one throw.
type Plan struct {
	Drag       Drag
	Velocity   physics.Point
	Solution   *physics.Solution
	Trajectory physics.Trajectory
	Path       *physics.Path
	Ratio      physics.Ratio

	gesture bool
}

// Advisories is shorthand for p.Solution.Advisories.
func (p *Plan) Advisories() []physics.Advisory {
	if p == nil || p.Solution == nil {
		return nil
	}
	return p.Solution.Advisories
}

// MaxPlans bounds the throw history; the oldest throw is dropped first.
const MaxPlans = 256

type Session struct {
	mu     sync.RWMutex
	cfg    config.PendulumConfig
	solver *physics.Solver
	logger *zap.Logger
	plans  []*Plan
}

func New(cfg config.PendulumConfig, logger *zap.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		cfg:    cfg,
		solver: physics.NewSolver(logger),
		logger: logger.Named("session"),
	}, nil
}

func (s *Session) Config() config.PendulumConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update replaces the configuration. The history is kept; callers use
// Rethrow if they want it redrawn with the new lengths.
func (s *Session) Update(cfg config.PendulumConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.logger.Debug("config updated",
		zap.Float64("length_x", cfg.LengthX),
		zap.Float64("length_y", cfg.LengthY),
		zap.Float64("max_time", cfg.MaxTime),
		zap.Float64("time_step", cfg.TimeStep),
	)
	return nil
}

// Throw solves the gesture against the current configuration. Each call
// builds its own initial conditions from the drag alone. The plan is
// appended to the history.
func (s *Session) Throw(d Drag) (*Plan, error) {
	cfg := s.Config()
	p, err := s.plan(cfg, d, d.Velocity(cfg.SpeedMultiplier))
	if err != nil {
		return nil, err
	}
	p.gesture = true
	s.push(p)
	return p, nil
}

// ThrowAt solves an explicit initial condition, bypassing the gesture.
func (s *Session) ThrowAt(t config.ThrowConfig) (*Plan, error) {
	start := physics.Point{X: t.X0, Y: t.Y0}
	d := Drag{Start: start, End: start}
	p, err := s.plan(s.Config(), d, physics.Point{X: t.VX0, Y: t.VY0})
	if err != nil {
		return nil, err
	}
	s.push(p)
	return p, nil
}

// Rethrow solves every throw in the history again under the current
// configuration and replaces the history with the result. Gestures pick
// up the current speed multiplier; explicit throws keep their velocity.
// On error the history is left as it was.
func (s *Session) Rethrow() ([]*Plan, error) {
	cfg := s.Config()
	old := s.Plans()
	plans := make([]*Plan, 0, len(old))
	for _, o := range old {
		v := o.Velocity
		if o.gesture {
			v = o.Drag.Velocity(cfg.SpeedMultiplier)
		}
		p, err := s.plan(cfg, o.Drag, v)
		if err != nil {
			return nil, err
		}
		p.gesture = o.gesture
		plans = append(plans, p)
	}

	s.mu.Lock()
	s.plans = plans
	s.mu.Unlock()
	return append([]*Plan(nil), plans...), nil
}

func (s *Session) plan(cfg config.PendulumConfig, d Drag, v physics.Point) (*Plan, error) {
	sol, err := s.solver.Solve(
		physics.AxisState{Position: d.Start.X, Velocity: v.X, Length: cfg.LengthX},
		physics.AxisState{Position: d.Start.Y, Velocity: v.Y, Length: cfg.LengthY},
	)
	if err != nil {
		return nil, fmt.Errorf("throw: %w", err)
	}

	tr := sol.Trajectory()
	path, err := tr.Range(cfg.MaxTime, cfg.TimeStep)
	if err != nil {
		return nil, fmt.Errorf("throw: %w", err)
	}
	ratio, err := physics.FrequencyRatio(cfg.LengthX, cfg.LengthY)
	if err != nil {
		return nil, fmt.Errorf("throw: %w", err)
	}

	return &Plan{
		Drag:       d,
		Velocity:   v,
		Solution:   sol,
		Trajectory: tr,
		Path:       path,
		Ratio:      ratio,
	}, nil
}

func (s *Session) push(p *Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.plans) == MaxPlans {
		s.plans = append(s.plans[:0:0], s.plans[1:]...)
	}
	s.plans = append(s.plans, p)
}

// Last returns the most recent successful plan, or nil.
func (s *Session) Last() *Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.plans) == 0 {
		return nil
	}
	return s.plans[len(s.plans)-1]
}

// Plans returns the throw history, oldest first.
func (s *Session) Plans() []*Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Plan(nil), s.plans...)
}

// Clear forgets every throw.
func (s *Session) Clear() {
	s.mu.Lock()
	s.plans = nil
	s.mu.Unlock()
}
