// Package identify encodes the invariances of the bilinear ideal-point
// model and the anchor schemes that remove them.
//
// The linear predictor for an observed vote is
//
//	mu = alpha[item] + lambda[item] * theta[legislator]
//
// which is invariant under three continuous transformations of the
// parameters:
//
//   - Scale: (lambda, theta) -> (lambda/c, theta*c) for any c != 0
//   - Shift: (alpha, theta) -> (alpha - lambda*c, theta + c) for any c
//   - Reflection: (lambda, theta) -> (-lambda, -theta)
//
// Any identification strategy must break all three at once. Fixing a
// single ideal point pins none of them fully; fixing two ideal points at
// distinct literal values pins the shift (the difference is fixed), the
// scale (the unit is fixed), and the reflection (the sign of the spread
// is fixed). AnchorScheme.BreaksAllInvariances verifies exactly that
// condition. The verification is a design-time check on the scheme, not
// a runtime property of a sampled posterior: a scheme that passes leaves
// no continuous symmetry of the likelihood, a scheme that fails must be
// rejected before sampling.
package identify
