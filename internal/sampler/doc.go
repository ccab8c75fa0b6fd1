// Package sampler provides a small adaptive random-walk Metropolis
// engine over a pure log-density function.
//
// It is a stand-in for a full probabilistic-programming engine: the
// model side of the contract is a deterministic, side-effect-free
// func([]float64) float64, so swapping in an external sampler is a
// one-line change in the caller. The implementation is deliberately
// minimal: independent chains, each with its own seeded RNG and its own
// copy of the starting point, a symmetric Gaussian proposal whose step
// size adapts during warmup, and cancellation between iterations via
// context. Chains share no mutable state.
//
// Numerical failures inside the target (for example a -Inf density at a
// proposed point) are handled by rejection, never by fault: the target
// is required to return -Inf for invalid states rather than panic.
package sampler
