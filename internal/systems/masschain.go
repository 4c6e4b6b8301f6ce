package systems

import (
	"fmt"
	"math"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

const (
	DefaultChainMasses    = 8
	DefaultChainStiffness = 10.0
	DefaultChainDamping   = 0.2
	DefaultChainModes     = 2
)

// MassChain is a chain of equal masses coupled by springs, fixed to
// walls at both ends, with viscous damping to ground.
//
// The full variant integrates all masses. The reduced variant is a modal
// truncation: only the lowest Modes standing-wave modes are kept, and
// [ProjectState]/[LiftState] move between mass and modal coordinates.
//
// Full state layout: [x_0..x_{n-1}, v_0..v_{n-1}]
// Reduced state layout: [q_0..q_{m-1}, qdot_0..qdot_{m-1}]
type MassChain struct {
	N         int
	Mass      float64
	Stiffness float64
	Damping   float64
	Modes     int

	variant Variant
}

func NewMassChain(variant Variant) *MassChain {
	return &MassChain{
		N:         DefaultChainMasses,
		Mass:      1.0,
		Stiffness: DefaultChainStiffness,
		Damping:   DefaultChainDamping,
		Modes:     DefaultChainModes,
		variant:   variant,
	}
}

func (c *MassChain) Variant() Variant { return c.variant }

func (c *MassChain) StateDim() int {
	if c.variant == Reduced {
		return 2 * c.Modes
	}
	return 2 * c.N
}

func (c *MassChain) StateLabels() []string {
	labels := make([]string, 0, c.StateDim())
	if c.variant == Reduced {
		for k := 0; k < c.Modes; k++ {
			labels = append(labels, fmt.Sprintf("q%d (mode amplitude)", k))
		}
		for k := 0; k < c.Modes; k++ {
			labels = append(labels, fmt.Sprintf("qdot%d (mode velocity)", k))
		}
		return labels
	}
	for i := 0; i < c.N; i++ {
		labels = append(labels, fmt.Sprintf("x%d (position)", i))
	}
	for i := 0; i < c.N; i++ {
		labels = append(labels, fmt.Sprintf("v%d (velocity)", i))
	}
	return labels
}

// DefaultState plucks the first mass (full) or the equivalent modal
// amplitudes (reduced).
func (c *MassChain) DefaultState() dynamo.State {
	return c.PluckedState(1.0)
}

// PluckedState displaces the first mass by amplitude with everything at
// rest. Reduced variants return the modal projection of that state.
func (c *MassChain) PluckedState(amplitude float64) dynamo.State {
	full := make(dynamo.State, 2*c.N)
	full[0] = amplitude
	if c.variant == Reduced {
		return c.ProjectState(full)
	}
	return full
}

func (c *MassChain) Derive(x dynamo.State, t float64) dynamo.State {
	if c.variant == Reduced {
		return c.deriveModal(x)
	}
	n := c.N
	dx := make(dynamo.State, 2*n)

	for i := 0; i < n; i++ {
		dx[i] = x[n+i]
	}

	for i := 0; i < n; i++ {
		pos, vel := x[i], x[n+i]

		left := 0.0
		if i > 0 {
			left = x[i-1]
		}
		right := 0.0
		if i < n-1 {
			right = x[i+1]
		}

		force := -c.Stiffness*(pos-left) - c.Stiffness*(pos-right) - c.Damping*vel
		dx[n+i] = force / c.Mass
	}

	return dx
}

func (c *MassChain) deriveModal(q dynamo.State) dynamo.State {
	m := c.Modes
	dq := make(dynamo.State, 2*m)
	for k := 0; k < m; k++ {
		w2 := c.modeFreqSq(k)
		dq[k] = q[m+k]
		dq[m+k] = -w2*q[k] - (c.Damping/c.Mass)*q[m+k]
	}
	return dq
}

// modeFreqSq is the squared natural frequency of mode k for a uniform
// fixed-fixed chain: (4K/m) sin^2((k+1)π / (2(N+1))).
func (c *MassChain) modeFreqSq(k int) float64 {
	s := math.Sin(float64(k+1) * math.Pi / (2 * float64(c.N+1)))
	return 4 * c.Stiffness / c.Mass * s * s
}

// modeShape evaluates mode k at mass i: sin((k+1)π(i+1)/(N+1)).
func (c *MassChain) modeShape(k, i int) float64 {
	return math.Sin(float64(k+1) * math.Pi * float64(i+1) / float64(c.N+1))
}

// ProjectState maps mass coordinates onto the kept modes using the
// discrete sine basis (orthogonal with weight 2/(N+1)).
func (c *MassChain) ProjectState(full dynamo.State) dynamo.State {
	m := c.Modes
	out := make(dynamo.State, 2*m)
	norm := 2.0 / float64(c.N+1)
	for k := 0; k < m; k++ {
		for i := 0; i < c.N; i++ {
			phi := c.modeShape(k, i)
			out[k] += norm * full[i] * phi
			out[m+k] += norm * full[c.N+i] * phi
		}
	}
	return out
}

// LiftState reconstructs approximate mass coordinates from the kept modes.
func (c *MassChain) LiftState(reduced dynamo.State) dynamo.State {
	m := c.Modes
	out := make(dynamo.State, 2*c.N)
	for i := 0; i < c.N; i++ {
		for k := 0; k < m; k++ {
			phi := c.modeShape(k, i)
			out[i] += reduced[k] * phi
			out[c.N+i] += reduced[m+k] * phi
		}
	}
	return out
}

func (c *MassChain) Energy(x dynamo.State) float64 {
	if c.variant == Reduced {
		// modal mass is m(N+1)/2 in this basis
		mm := c.Mass * float64(c.N+1) / 2
		e := 0.0
		for k := 0; k < c.Modes; k++ {
			e += 0.5 * mm * (x[c.Modes+k]*x[c.Modes+k] + c.modeFreqSq(k)*x[k]*x[k])
		}
		return e
	}

	n := c.N
	e := 0.0
	for i := 0; i < n; i++ {
		e += 0.5 * c.Mass * x[n+i] * x[n+i]
	}
	for i := 0; i <= n; i++ {
		left := 0.0
		if i > 0 {
			left = x[i-1]
		}
		right := 0.0
		if i < n {
			right = x[i]
		}
		stretch := right - left
		e += 0.5 * c.Stiffness * stretch * stretch
	}
	return e
}

func (c *MassChain) GetParams() map[string]float64 {
	return map[string]float64{
		"n":         float64(c.N),
		"mass":      c.Mass,
		"stiffness": c.Stiffness,
		"damping":   c.Damping,
		"modes":     float64(c.Modes),
	}
}

func (c *MassChain) SetParam(name string, value float64) error {
	switch name {
	case "n":
		if value < 2 {
			return fmt.Errorf("%w: chain needs at least 2 masses", dynamo.ErrParameterBounds)
		}
		c.N = int(value)
	case "mass":
		c.Mass = value
	case "stiffness":
		c.Stiffness = value
	case "damping":
		c.Damping = value
	case "modes":
		if int(value) < 1 || int(value) > c.N {
			return fmt.Errorf("%w: modes must be in [1, %d]", dynamo.ErrParameterBounds, c.N)
		}
		c.Modes = int(value)
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
