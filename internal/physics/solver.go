package physics

import (
	"go.uber.org/zap"
)

// Solver wraps Solve and reports advisories on a logger instead of
// leaving them to the caller.
type Solver struct {
	logger *zap.Logger
}

// NewSolver returns a Solver logging to logger. A nil logger discards.
func NewSolver(logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{logger: logger.Named("solver")}
}

// Solve behaves like the package-level Solve. Coefficients are logged at
// debug level and every advisory at warn level.
func (s *Solver) Solve(x, y AxisState) (*Solution, error) {
	sol, err := Solve(x, y)
	if err != nil {
		s.logger.Debug("rejected initial conditions", zap.Error(err))
		return nil, err
	}

	if s.logger.Core().Enabled(zap.DebugLevel) {
		s.logger.Debug("solved coefficients", axisFields("x", x, sol.X)...)
		s.logger.Debug("solved coefficients", axisFields("y", y, sol.Y)...)
	}

	for _, a := range sol.Advisories {
		s.logger.Warn(a.String(),
			zap.String("axis", a.Axis),
			zap.Stringer("level", a.Level),
			zap.Float64("amplitude_rad", a.Amplitude),
			zap.Float64("amplitude_deg", a.Degrees()),
			zap.Float64("limit_rad", a.Limit),
		)
	}

	return sol, nil
}

func axisFields(axis string, st AxisState, c AxisCoefficients) []zap.Field {
	return []zap.Field{
		zap.String("axis", axis),
		zap.Float64("period_s", c.Period()),
		zap.Float64("omega_rad_s", c.Omega),
		zap.Float64("position_m", st.Position),
		zap.Float64("velocity_m_s", st.Velocity),
		zap.Float64("theta0_rad", st.Position/st.Length),
		zap.Float64("theta_dot0_rad_s", st.Velocity/st.Length),
		zap.Float64("phase_rad", c.Phase),
		zap.Float64("amplitude_rad", c.Amplitude),
	}
}
