// Package draws provides SQLite-backed durable storage for posterior
// sampling runs.
//
// The store is append-only:
//   - Runs: one record per sampling run (variant, counts, sampler
//     settings, and the full fit configuration as JSON)
//   - Draws: one row per (chain, iteration, parameter) realization
//   - LogLik: one row per (chain, iteration, observation) pointwise
//     log-likelihood value, the model-comparison output
//
// Parameter names follow the flat layout of the model space:
// "alpha[k]", "lambda[k]", "theta[j]" with 1-based indices.
//
// All reads use a fixed ordering (chain, iteration, then key) so that
// summaries computed from a stored run are deterministic.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: draws and loglik rows require their run
package draws
