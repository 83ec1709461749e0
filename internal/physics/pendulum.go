package physics

import (
	"fmt"

	"github.com/san-kum/sandpend/internal/dynamo"
)

// SandPendulum is the small-angle two-axis model written as an ODE with
// state [θx, θy, θ̇x, θ̇y]. It exists to cross-check the closed form
// against the numerical integrators.
type SandPendulum struct {
	LengthX float64
	LengthY float64
	Gravity float64
}

func NewSandPendulum(lengthX, lengthY float64) *SandPendulum {
	return &SandPendulum{
		LengthX: lengthX,
		LengthY: lengthY,
		Gravity: Gravity,
	}
}

func (p *SandPendulum) StateDim() int {
	return 4
}

func (p *SandPendulum) Derive(x dynamo.State, t float64) dynamo.State {
	thetaX, thetaY := x[0], x[1]
	omegaX, omegaY := x[2], x[3]

	return dynamo.State{
		omegaX,
		omegaY,
		-p.Gravity / p.LengthX * thetaX,
		-p.Gravity / p.LengthY * thetaY,
	}
}

// Energy is the small-angle mechanical energy per unit mass.
func (p *SandPendulum) Energy(x dynamo.State) float64 {
	// KE = 0.5 * (L*omega)^2
	// PE = 0.5 * g * L * theta^2
	vx := p.LengthX * x[2]
	vy := p.LengthY * x[3]
	ke := 0.5 * (vx*vx + vy*vy)
	pe := 0.5 * p.Gravity * (p.LengthX*x[0]*x[0] + p.LengthY*x[1]*x[1])
	return ke + pe
}

// Position maps a state to bob coordinates in metres.
func (p *SandPendulum) Position(x dynamo.State) Point {
	return Point{X: p.LengthX * x[0], Y: p.LengthY * x[1]}
}

// InitialState converts per-axis initial conditions into an ODE state.
func (p *SandPendulum) InitialState(x, y AxisState) (dynamo.State, error) {
	if err := checkLength("length_x", x.Length); err != nil {
		return nil, err
	}
	if err := checkLength("length_y", y.Length); err != nil {
		return nil, err
	}
	return dynamo.State{
		x.Position / x.Length,
		y.Position / y.Length,
		x.Velocity / x.Length,
		y.Velocity / y.Length,
	}, nil
}

func (p *SandPendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"length_x": p.LengthX,
		"length_y": p.LengthY,
		"gravity":  p.Gravity,
	}
}

func (p *SandPendulum) SetParam(name string, value float64) error {
	switch name {
	case "length_x":
		if err := checkLength(name, value); err != nil {
			return err
		}
		p.LengthX = value
	case "length_y":
		if err := checkLength(name, value); err != nil {
			return err
		}
		p.LengthY = value
	case "gravity":
		if !(value > 0) {
			return fmt.Errorf("gravity %g: %w", value, dynamo.ErrParameterBounds)
		}
		p.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
