// Package model defines the Bayesian latent-trait models for binary
// roll-call data and their evaluation as log posterior densities.
//
// Every variant shares the same likelihood: vote i is Bernoulli with
// logit link on the linear predictor
//
//	mu_i = alpha[item(i)] + lambda[item(i)] * theta[legislator(i)]
//
// where alpha is item difficulty, lambda is item discrimination, and
// theta is the legislator ideal point. The variants differ only in what
// is free versus fixed and in how priors are supplied:
//
//   - VariantUnidentified: every parameter free, shared scalar priors.
//     The prior is the only (weak) source of identification.
//   - VariantInformative: every parameter free, per-index prior
//     location/scale vectors allowing externally computed regularization.
//   - VariantFixedReference: a subset of ideal points fixed at literal
//     anchor values, removing the scale, shift, and reflection
//     invariances (see package identify).
//
// Index convention used throughout the repository: counts are NumItems,
// NumLegislators, NumObs; loop variables are k for items, j for
// legislators, i for observations. Index arrays in a Dataset are
// 1-based, mirroring the usual presentation of the model; they are
// converted to 0-based positions internally.
//
// A Model exposes a pure, deterministic, side-effect-free function from
// a flat parameter vector to the unnormalized log posterior density,
// which is the entire interface an external sampling engine needs. Any
// parameter vector containing non-finite values evaluates to -Inf
// rather than faulting.
package model
