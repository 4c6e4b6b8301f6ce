package nn

import (
	"fmt"

	"github.com/san-kum/tinytorch/autograd"
)

// SGD is plain stochastic gradient descent with optional weight decay.
type SGD struct {
	LR          float32
	WeightDecay float32
}

// NewSGD creates an optimizer with the given learning rate.
func NewSGD(lr float32) *SGD { return &SGD{LR: lr} }

// Step applies one update to every parameter with a gradient and clears
// the gradients afterwards.
func (o *SGD) Step(params []*autograd.Var) {
	for _, p := range params {
		if p == nil || p.Grad == nil {
			continue
		}
		g := p.Grad
		if o.WeightDecay != 0 {
			decayed, err := g.Add(p.Value.Scale(o.WeightDecay))
			if err == nil {
				g = decayed
			}
		}
		updated, err := p.Value.Sub(g.Scale(o.LR))
		if err != nil {
			continue
		}
		p.Value = updated
		p.ZeroGrad()
	}
}

// MSE records the mean squared error between prediction and target.
func MSE(pred, target *autograd.Var) (*autograd.Var, error) {
	d, err := autograd.Sub(pred, target)
	if err != nil {
		return nil, err
	}
	sq, err := autograd.Mul(d, d)
	if err != nil {
		return nil, err
	}
	return autograd.Mean(sq), nil
}

// ClipGrads scales gradients down so no element exceeds maxAbs.
func ClipGrads(params []*autograd.Var, maxAbs float32) error {
	if maxAbs <= 0 {
		return fmt.Errorf("nn: clip bound must be positive, got %f", maxAbs)
	}
	for _, p := range params {
		if p == nil || p.Grad == nil {
			continue
		}
		peak := float32(0)
		for _, v := range p.Grad.Data() {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		if peak > maxAbs {
			p.Grad = p.Grad.Scale(maxAbs / peak)
		}
	}
	return nil
}
