package draws

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "draws.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testMeta() RunMeta {
	return RunMeta{
		ID:             uuid.NewString(),
		Variant:        "fixed_reference",
		NumItems:       2,
		NumLegislators: 3,
		Chains:         2,
		Iterations:     2,
		Seed:           42,
		Config:         `{"model":"fixed_reference"}`,
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draws.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestWriteAndReadRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	meta := testMeta()

	require.NoError(t, s.WriteRun(ctx, meta))

	got, err := s.ReadRun(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, meta, got)
}

func TestReadRunNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestDuplicateRunIDRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	meta := testMeta()

	require.NoError(t, s.WriteRun(ctx, meta))
	assert.Error(t, s.WriteRun(ctx, meta))
}

func TestListRunsInsertionOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	empty, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	a, b := testMeta(), testMeta()
	require.NoError(t, s.WriteRun(ctx, a))
	require.NoError(t, s.WriteRun(ctx, b))

	metas, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, a.ID, metas[0].ID)
	assert.Equal(t, b.ID, metas[1].ID)
}

func TestWriteChainAndReadBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	meta := testMeta()
	require.NoError(t, s.WriteRun(ctx, meta))

	names := ParamNames(2, []int{0, 1, 2})
	require.Equal(t, []string{
		"alpha[1]", "alpha[2]",
		"lambda[1]", "lambda[2]",
		"theta[1]", "theta[2]", "theta[3]",
	}, names)

	chain0 := [][]float64{
		{0.1, 0.2, 0.3, 0.4, -1, 0.5, 1},
		{0.15, 0.25, 0.35, 0.45, -1, 0.55, 1},
	}
	chain1 := [][]float64{
		{1.1, 1.2, 1.3, 1.4, -1, 1.5, 1},
		{1.15, 1.25, 1.35, 1.45, -1, 1.55, 1},
	}
	ll := [][]float64{{-0.6, -0.7}, {-0.65, -0.75}}

	require.NoError(t, s.WriteChain(ctx, meta.ID, 0, names, chain0, ll))
	require.NoError(t, s.WriteChain(ctx, meta.ID, 1, names, chain1, nil))

	// Pooled series come back in (chain, iteration) order.
	theta2, err := s.ReadParamDraws(ctx, meta.ID, ThetaParam(2))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.55, 1.5, 1.55}, theta2)

	thetas, err := s.ReadThetaDraws(ctx, meta.ID, 3)
	require.NoError(t, err)
	require.Len(t, thetas, 3)
	assert.Equal(t, []float64{-1, -1, -1, -1}, thetas[0])
	assert.Equal(t, []float64{1, 1, 1, 1}, thetas[2])

	loglik, err := s.ReadLogLik(ctx, meta.ID)
	require.NoError(t, err)
	require.Len(t, loglik, 2) // only chain 0 stored loglik
	assert.Equal(t, []float64{-0.6, -0.7}, loglik[0])
	assert.Equal(t, []float64{-0.65, -0.75}, loglik[1])
}

func TestWriteChainLengthMismatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	meta := testMeta()
	require.NoError(t, s.WriteRun(ctx, meta))

	names := ParamNames(1, nil)
	err := s.WriteChain(ctx, meta.ID, 0, names, [][]float64{{1, 2, 3}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 values for 2 parameters")
}

func TestWriteChainRequiresRun(t *testing.T) {
	s := openTestStore(t)
	// Foreign keys are on: draws for an unknown run must fail.
	err := s.WriteChain(context.Background(), "missing-run", 0, []string{"alpha[1]"}, [][]float64{{1}}, nil)
	assert.Error(t, err)
}

func TestReadThetaDrawsMissingLegislator(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	meta := testMeta()
	require.NoError(t, s.WriteRun(ctx, meta))

	names := []string{"theta[1]"}
	require.NoError(t, s.WriteChain(ctx, meta.ID, 0, names, [][]float64{{0.5}}, nil))

	_, err := s.ReadThetaDraws(ctx, meta.ID, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theta[2]")
}
