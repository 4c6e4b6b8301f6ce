package systems

import "github.com/san-kum/tinytorch/internal/dynamo"

// Variant selects the fidelity of a model family.
type Variant string

const (
	Full    Variant = "full"
	Reduced Variant = "reduced"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case Full, Reduced:
		return Variant(s), true
	}
	return "", false
}

// ReducedOrder maps between full and reduced coordinates. Identity for
// families whose reduction keeps the state space (linearizations).
type ReducedOrder interface {
	// ProjectState maps a full-system state into reduced coordinates.
	ProjectState(full dynamo.State) dynamo.State
	// LiftState maps a reduced state back to full coordinates.
	LiftState(reduced dynamo.State) dynamo.State
}

// Defaulter systems provide a sensible initial state.
type Defaulter interface {
	DefaultState() dynamo.State
}

// Varianted systems report which fidelity variant they were built as.
type Varianted interface {
	Variant() Variant
}

// Pluckable systems build an initial state from a single displacement
// amplitude.
type Pluckable interface {
	PluckedState(amplitude float64) dynamo.State
}

// Families lists the model family names.
func Families() []string {
	return []string{"pendulum", "duffing", "masschain"}
}
