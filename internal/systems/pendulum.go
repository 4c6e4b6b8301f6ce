package systems

import (
	"fmt"
	"math"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

// Pendulum is a damped pendulum. The full variant keeps the sin(theta)
// restoring term; the reduced variant is the small-angle linearization.
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64

	variant Variant
}

func NewPendulum(variant Variant) *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
		variant: variant,
	}
}

func (p *Pendulum) Variant() Variant { return p.variant }
func (p *Pendulum) StateDim() int    { return 2 }

func (p *Pendulum) StateLabels() []string {
	return []string{"theta (angle)", "omega (angular velocity)"}
}

func (p *Pendulum) DefaultState() dynamo.State { return dynamo.State{0.5, 0.0} }

func (p *Pendulum) Derive(x dynamo.State, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]

	restoring := math.Sin(theta)
	if p.variant == Reduced {
		restoring = theta
	}
	alpha := (-p.Damping*omega - p.Mass*p.Gravity*p.Length*restoring) / (p.Mass * p.Length * p.Length)

	return dynamo.State{omega, alpha}
}

func (p *Pendulum) Energy(x dynamo.State) float64 {
	v := p.Length * x[1]
	ke := 0.5 * p.Mass * v * v
	var pe float64
	if p.variant == Reduced {
		// quadratic potential of the linearized system
		pe = 0.5 * p.Mass * p.Gravity * p.Length * x[0] * x[0]
	} else {
		pe = p.Mass * p.Gravity * p.Length * (1.0 - math.Cos(x[0]))
	}
	return ke + pe
}

// ProjectState and LiftState are identities: the linearization keeps
// the state space.
func (p *Pendulum) ProjectState(full dynamo.State) dynamo.State { return full.Clone() }
func (p *Pendulum) LiftState(reduced dynamo.State) dynamo.State { return reduced.Clone() }

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    p.Mass,
		"length":  p.Length,
		"damping": p.Damping,
		"gravity": p.Gravity,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		if value <= 0 {
			return fmt.Errorf("%w: mass must be positive", dynamo.ErrParameterBounds)
		}
		p.Mass = value
	case "length":
		if value <= 0 {
			return fmt.Errorf("%w: length must be positive", dynamo.ErrParameterBounds)
		}
		p.Length = value
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
