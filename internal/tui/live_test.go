package tui

import (
	"testing"

	"github.com/san-kum/tinytorch/internal/dynamo"
	"github.com/san-kum/tinytorch/internal/systems"
)

// tunable is a minimal configurable oscillator for parameter tests.
type tunable struct {
	params map[string]float64
}

func (s *tunable) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}
func (s *tunable) StateDim() int                  { return 2 }
func (s *tunable) GetParams() map[string]float64  { return s.params }
func (s *tunable) SetParam(name string, v float64) error {
	s.params[name] = v
	return nil
}

type fixedStep struct{}

func (fixedStep) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	dx := sys.Derive(x, t)
	out := make(dynamo.State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}

func TestResetRestoresZeroValuedParams(t *testing.T) {
	sys := &tunable{params: map[string]float64{"forcing": 0.0, "damping": 0.2}}
	m := NewModel(sys, fixedStep{}, dynamo.State{1, 0}, 0.01, "oscillator", 30)

	m.params["forcing"] = 3.0
	m.params["damping"] = 0.4
	m.reset()

	if m.params["forcing"] != 0 {
		t.Errorf("forcing restored to %f, expected 0", m.params["forcing"])
	}
	if sys.params["forcing"] != 0 {
		t.Errorf("system forcing set to %f, expected 0", sys.params["forcing"])
	}
	if m.params["damping"] != 0.2 {
		t.Errorf("damping restored to %f, expected 0.2", m.params["damping"])
	}
}

func TestViewHandlesZeroInitialParam(t *testing.T) {
	sys := &tunable{params: map[string]float64{"forcing": 0.0}}
	m := NewModel(sys, fixedStep{}, dynamo.State{1, 0}, 0.01, "oscillator", 30)

	// must not divide by the zero initial value
	if out := m.View(); out == "" {
		t.Error("expected rendered view")
	}
}

func TestReducedChainDrawsPhaseScene(t *testing.T) {
	sys := systems.NewMassChain(systems.Reduced)
	x0 := sys.DefaultState()

	m := NewModel(sys, fixedStep{}, x0, 0.005, "masschain", 30)
	if !m.reduced {
		t.Fatal("reduced chain model should be flagged reduced")
	}
	m.draw()
	got := m.canvas.String()

	ref := NewModel(sys, fixedStep{}, x0, 0.005, "masschain", 30)
	ref.drawPhase()
	want := ref.canvas.String()

	if got != want {
		t.Error("reduced modal state should render as phase space, not mass positions")
	}
}

func TestFullChainDrawsChainScene(t *testing.T) {
	sys := systems.NewMassChain(systems.Full)
	x0 := sys.DefaultState()

	m := NewModel(sys, fixedStep{}, x0, 0.005, "masschain", 30)
	if m.reduced {
		t.Fatal("full chain model should not be flagged reduced")
	}
	m.draw()
	got := m.canvas.String()

	ref := NewModel(sys, fixedStep{}, x0, 0.005, "masschain", 30)
	ref.drawPhase()
	phase := ref.canvas.String()

	if got == phase {
		t.Error("full chain should render mass positions, not phase space")
	}
}
