// Package systems defines the model families of the foundation pipeline.
//
// Every family comes in two variants of the same physical system:
//
//   - Full: the high-fidelity dynamics
//   - Reduced: a reduced-order approximation (linearization or modal
//     truncation)
//
// Reduced variants implement [ReducedOrder] so full-system states can be
// projected into reduced coordinates and reduced trajectories lifted back
// for comparison against the full system.
package systems
