package systems

import (
	"fmt"
	"math"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

// Duffing is a periodically forced oscillator with a hardening spring:
//
//	x'' = -delta*x' - alpha*x - beta*x^3 + gamma*cos(omega*t)
//
// The reduced variant drops the cubic term, leaving the forced linear
// oscillator at the same stiffness and damping.
type Duffing struct {
	Alpha float64 // linear stiffness
	Beta  float64 // cubic stiffness
	Delta float64 // damping
	Gamma float64 // forcing amplitude
	Omega float64 // forcing frequency

	variant Variant
}

func NewDuffing(variant Variant) *Duffing {
	return &Duffing{
		Alpha:   1.0,
		Beta:    1.0,
		Delta:   0.2,
		Gamma:   0.3,
		Omega:   1.2,
		variant: variant,
	}
}

func (d *Duffing) Variant() Variant { return d.variant }
func (d *Duffing) StateDim() int    { return 2 }

func (d *Duffing) StateLabels() []string {
	return []string{"x (displacement)", "v (velocity)"}
}

func (d *Duffing) DefaultState() dynamo.State { return dynamo.State{1.0, 0.0} }

func (d *Duffing) Derive(x dynamo.State, t float64) dynamo.State {
	pos, vel := x[0], x[1]
	acc := -d.Delta*vel - d.Alpha*pos + d.Gamma*math.Cos(d.Omega*t)
	if d.variant == Full {
		acc -= d.Beta * pos * pos * pos
	}
	return dynamo.State{vel, acc}
}

// Energy of the autonomous part (forcing and damping exchange energy
// with the environment, so this drifts by construction).
func (d *Duffing) Energy(x dynamo.State) float64 {
	pos, vel := x[0], x[1]
	e := 0.5*vel*vel + 0.5*d.Alpha*pos*pos
	if d.variant == Full {
		e += 0.25 * d.Beta * pos * pos * pos * pos
	}
	return e
}

func (d *Duffing) ProjectState(full dynamo.State) dynamo.State { return full.Clone() }
func (d *Duffing) LiftState(reduced dynamo.State) dynamo.State { return reduced.Clone() }

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{
		"alpha": d.Alpha,
		"beta":  d.Beta,
		"delta": d.Delta,
		"gamma": d.Gamma,
		"omega": d.Omega,
	}
}

func (d *Duffing) SetParam(name string, value float64) error {
	switch name {
	case "alpha":
		d.Alpha = value
	case "beta":
		d.Beta = value
	case "delta":
		d.Delta = value
	case "gamma":
		d.Gamma = value
	case "omega":
		d.Omega = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
