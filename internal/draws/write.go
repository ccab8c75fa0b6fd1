package draws

import (
	"context"
	"fmt"
)

// RunMeta describes one sampling run.
type RunMeta struct {
	ID             string `json:"id"`
	Variant        string `json:"variant"`
	NumItems       int    `json:"num_items"`
	NumLegislators int    `json:"num_legislators"`
	Chains         int    `json:"chains"`
	Iterations     int    `json:"iterations"`
	Seed           int64  `json:"seed"`
	Config         string `json:"config"` // fit configuration as JSON
}

// WriteRun inserts the run record. Duplicate IDs are rejected; run IDs
// are caller-generated UUIDs so a conflict indicates a caller bug.
func (s *Store) WriteRun(ctx context.Context, meta RunMeta) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, variant, num_items, num_legislators, chains, iterations, seed, config)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		meta.ID,
		meta.Variant,
		meta.NumItems,
		meta.NumLegislators,
		meta.Chains,
		meta.Iterations,
		meta.Seed,
		meta.Config,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteChain stores one chain's draws and pointwise log likelihoods in
// a single transaction. paramNames labels the flat parameter vector;
// draws is iteration-major; loglik may be nil when pointwise values
// were not computed.
func (s *Store) WriteChain(ctx context.Context, runID string, chain int, paramNames []string, draws [][]float64, loglik [][]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write chain: begin: %w", err)
	}
	defer tx.Rollback()

	drawStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO draws (run_id, chain, iteration, param, value)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write chain: prepare draws: %w", err)
	}
	defer drawStmt.Close()

	for it, draw := range draws {
		if len(draw) != len(paramNames) {
			return fmt.Errorf("write chain: iteration %d has %d values for %d parameters", it, len(draw), len(paramNames))
		}
		for p, v := range draw {
			if _, err := drawStmt.ExecContext(ctx, runID, chain, it, paramNames[p], v); err != nil {
				return fmt.Errorf("write chain: draw (it=%d, param=%s): %w", it, paramNames[p], err)
			}
		}
	}

	if loglik != nil {
		llStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO loglik (run_id, chain, iteration, obs, value)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("write chain: prepare loglik: %w", err)
		}
		defer llStmt.Close()

		for it, row := range loglik {
			for obs, v := range row {
				if _, err := llStmt.ExecContext(ctx, runID, chain, it, obs, v); err != nil {
					return fmt.Errorf("write chain: loglik (it=%d, obs=%d): %w", it, obs, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write chain: commit: %w", err)
	}
	return nil
}
