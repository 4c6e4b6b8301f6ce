package metrics

import (
	"math"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

// Energy tracks the mean total energy of a Hamiltonian system.
type Energy struct {
	name    string
	sys     dynamo.Hamiltonian
	samples int
	total   float64
}

func NewEnergy(sys dynamo.Hamiltonian) *Energy {
	return &Energy{name: "energy", sys: sys}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, t float64) {
	if e.sys == nil {
		return
	}
	e.total += e.sys.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift tracks the maximum relative deviation from the initial
// energy over a run.
type EnergyDrift struct {
	name     string
	sys      dynamo.Hamiltonian
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(sys dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", sys: sys}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	if e.sys == nil {
		return
	}
	energy := e.sys.Energy(x)

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
