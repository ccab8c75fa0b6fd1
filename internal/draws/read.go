package draws

import (
	"context"
	"database/sql"
	"fmt"
)

// ErrRunNotFound is returned when a run ID has no record.
var ErrRunNotFound = fmt.Errorf("draws: run not found")

// ReadRun returns the metadata for one run.
func (s *Store) ReadRun(ctx context.Context, runID string) (RunMeta, error) {
	var meta RunMeta
	err := s.db.QueryRowContext(ctx, `
		SELECT id, variant, num_items, num_legislators, chains, iterations, seed, config
		FROM runs WHERE id = ?
	`, runID).Scan(
		&meta.ID, &meta.Variant, &meta.NumItems, &meta.NumLegislators,
		&meta.Chains, &meta.Iterations, &meta.Seed, &meta.Config,
	)
	if err == sql.ErrNoRows {
		return RunMeta{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return RunMeta{}, fmt.Errorf("read run: %w", err)
	}
	return meta, nil
}

// ListRuns returns all run records in insertion order.
func (s *Store) ListRuns(ctx context.Context) ([]RunMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, variant, num_items, num_legislators, chains, iterations, seed, config
		FROM runs ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var metas []RunMeta
	for rows.Next() {
		var m RunMeta
		if err := rows.Scan(&m.ID, &m.Variant, &m.NumItems, &m.NumLegislators,
			&m.Chains, &m.Iterations, &m.Seed, &m.Config); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: iterate: %w", err)
	}
	if metas == nil {
		metas = []RunMeta{}
	}
	return metas, nil
}

// ReadParamDraws returns every stored draw of one named parameter,
// pooled across chains in (chain, iteration) order.
func (s *Store) ReadParamDraws(ctx context.Context, runID, param string) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT value FROM draws
		WHERE run_id = ? AND param = ?
		ORDER BY chain ASC, iteration ASC
	`, runID, param)
	if err != nil {
		return nil, fmt.Errorf("read param draws: %w", err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("read param draws: scan: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read param draws: iterate: %w", err)
	}
	return values, nil
}

// ReadThetaDraws returns pooled ideal-point draws per legislator:
// result[j] holds all draws of theta[j+1] in (chain, iteration) order.
// Anchored legislators in a fixed-reference run have constant series.
func (s *Store) ReadThetaDraws(ctx context.Context, runID string, numLegislators int) ([][]float64, error) {
	out := make([][]float64, numLegislators)
	for j := 0; j < numLegislators; j++ {
		values, err := s.ReadParamDraws(ctx, runID, ThetaParam(j+1))
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("read theta draws: no draws for %s in run %s", ThetaParam(j+1), runID)
		}
		out[j] = values
	}
	return out, nil
}

// ReadLogLik returns the stored pointwise log likelihoods, draw-major:
// result[d][obs], with draws pooled across chains in (chain, iteration)
// order.
func (s *Store) ReadLogLik(ctx context.Context, runID string) ([][]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chain, iteration, obs, value FROM loglik
		WHERE run_id = ?
		ORDER BY chain ASC, iteration ASC, obs ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read loglik: %w", err)
	}
	defer rows.Close()

	var out [][]float64
	lastChain, lastIter := -1, -1
	for rows.Next() {
		var chain, iter, obs int
		var v float64
		if err := rows.Scan(&chain, &iter, &obs, &v); err != nil {
			return nil, fmt.Errorf("read loglik: scan: %w", err)
		}
		if chain != lastChain || iter != lastIter {
			out = append(out, []float64{})
			lastChain, lastIter = chain, iter
		}
		out[len(out)-1] = append(out[len(out)-1], v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read loglik: iterate: %w", err)
	}
	return out, nil
}

// Parameter name helpers; indices are 1-based.

// AlphaParam names the difficulty parameter of item k.
func AlphaParam(k int) string { return fmt.Sprintf("alpha[%d]", k) }

// LambdaParam names the discrimination parameter of item k.
func LambdaParam(k int) string { return fmt.Sprintf("lambda[%d]", k) }

// ThetaParam names the ideal point of legislator j.
func ThetaParam(j int) string { return fmt.Sprintf("theta[%d]", j) }

// ParamNames builds the flat parameter-name list matching the model
// space layout: alphas, lambdas, then free thetas given by their
// 0-based legislator positions.
func ParamNames(numItems int, freeTheta []int) []string {
	names := make([]string, 0, 2*numItems+len(freeTheta))
	for k := 1; k <= numItems; k++ {
		names = append(names, AlphaParam(k))
	}
	for k := 1; k <= numItems; k++ {
		names = append(names, LambdaParam(k))
	}
	for _, j := range freeTheta {
		names = append(names, ThetaParam(j+1))
	}
	return names
}
