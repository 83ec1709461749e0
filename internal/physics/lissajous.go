package physics

import (
	"math"

	"github.com/san-kum/sandpend/internal/dynamo"
)

// Gravity is the gravitational acceleration used by every solver, in m/s².
const Gravity = 9.81

// AxisState is the initial condition of one pendulum axis.
type AxisState struct {
	Position float64 // m
	Velocity float64 // m/s
	Length   float64 // m
}

// AxisCoefficients describe θ(t) = Amplitude·cos(Omega·t + Phase).
type AxisCoefficients struct {
	Amplitude float64 // rad
	Omega     float64 // rad/s
	Phase     float64 // rad
}

// Period returns the oscillation period in seconds.
func (c AxisCoefficients) Period() float64 {
	return 2 * math.Pi / c.Omega
}

// Solution holds the coefficients of both axes plus any advisories raised
// while solving them.
type Solution struct {
	X, Y       AxisCoefficients
	LengthX    float64
	LengthY    float64
	Advisories []Advisory
}

// Trajectory returns the closed-form trajectory for the solved axes. Solve
// has already checked the lengths.
func (s *Solution) Trajectory() Trajectory {
	return Trajectory{X: s.X, Y: s.Y, LengthX: s.LengthX, LengthY: s.LengthY}
}

// Omega returns sqrt(g/length), the small-angle angular frequency.
func Omega(length float64) (float64, error) {
	if err := checkLength("length", length); err != nil {
		return 0, err
	}
	return math.Sqrt(Gravity / length), nil
}

// Period returns 2π/ω for a pendulum of the given length.
func Period(length float64) (float64, error) {
	w, err := Omega(length)
	if err != nil {
		return 0, err
	}
	return 2 * math.Pi / w, nil
}

// SolveAxis computes the SHM coefficients of a single axis.
func SolveAxis(s AxisState) (AxisCoefficients, error) {
	return solveAxis("", s)
}

// SolveCoefficients maps initial positions and velocities of both axes
// to their coefficients.
func SolveCoefficients(x0, vx0, y0, vy0, lengthX, lengthY float64) (AxisCoefficients, AxisCoefficients, error) {
	sol, err := Solve(
		AxisState{Position: x0, Velocity: vx0, Length: lengthX},
		AxisState{Position: y0, Velocity: vy0, Length: lengthY},
	)
	if err != nil {
		return AxisCoefficients{}, AxisCoefficients{}, err
	}
	return sol.X, sol.Y, nil
}

// Solve computes both axes and checks their amplitudes against the
// small-angle limits.
func Solve(x, y AxisState) (*Solution, error) {
	cx, err := solveAxis("x", x)
	if err != nil {
		return nil, err
	}
	cy, err := solveAxis("y", y)
	if err != nil {
		return nil, err
	}

	return &Solution{
		X:          cx,
		Y:          cy,
		LengthX:    x.Length,
		LengthY:    y.Length,
		Advisories: CheckAmplitudes(cx.Amplitude, cy.Amplitude),
	}, nil
}

func solveAxis(axis string, s AxisState) (AxisCoefficients, error) {
	if err := checkLength(fieldName("length", axis), s.Length); err != nil {
		return AxisCoefficients{}, err
	}
	if err := checkFinite(fieldName("position", axis), s.Position); err != nil {
		return AxisCoefficients{}, err
	}
	if err := checkFinite(fieldName("velocity", axis), s.Velocity); err != nil {
		return AxisCoefficients{}, err
	}

	w := math.Sqrt(Gravity / s.Length)
	theta0 := s.Position / s.Length
	thetaDot0 := s.Velocity / s.Length

	amp := math.Hypot(theta0, thetaDot0/w)
	if amp == 0 {
		// at rest: phase is arbitrary
		return AxisCoefficients{Omega: w}, nil
	}

	return AxisCoefficients{
		Amplitude: amp,
		Omega:     w,
		Phase:     math.Atan2(-thetaDot0, theta0*w),
	}, nil
}

func checkLength(field string, l float64) error {
	if math.IsNaN(l) || math.IsInf(l, 0) {
		return dynamo.NewDomainError(field, l, "must be finite")
	}
	if l <= 0 {
		return dynamo.NewDomainError(field, l, "must be positive")
	}
	return nil
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return dynamo.NewDomainError(field, v, "must be finite")
	}
	return nil
}

func fieldName(base, axis string) string {
	if axis == "" {
		return base
	}
	return base + "_" + axis
}
