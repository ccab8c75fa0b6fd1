package simulate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statehouse-labs/idealpoint/internal/model"
	"github.com/statehouse-labs/idealpoint/internal/sampler"
	"github.com/statehouse-labs/idealpoint/internal/simulate"
	"github.com/statehouse-labs/idealpoint/internal/summary"
	"github.com/statehouse-labs/idealpoint/internal/votes"
)

// TestFixedReferencePipelineOrdersExtremes runs the whole pipeline on
// a sharply polarized synthetic chamber: generate, bind with anchors,
// fit, summarize. The check is deliberately coarse: with the extremes
// anchored at +-1, the remaining left-bloc legislator must land below
// the remaining right-bloc legislator.
func TestFixedReferencePipelineOrdersExtremes(t *testing.T) {
	if testing.Short() {
		t.Skip("sampling run")
	}

	cfg := simulate.Config{
		NumItems:       6,
		NumLegislators: 4,
		Alpha:          []float64{0, 0.5, -0.5, 0, 0.25, -0.25},
		Lambda:         []float64{3, 3, -3, 3, -3, 3},
		Theta:          []float64{-1.5, -1, 1, 1.5},
	}
	records, _, err := simulate.Generate(cfg, 21)
	require.NoError(t, err)

	binding, err := votes.Build(records, votes.Options{
		Anchors: []votes.Anchor{
			{Legislator: simulate.LegislatorName(0), Value: -1},
			{Legislator: simulate.LegislatorName(3), Value: 1},
		},
	})
	require.NoError(t, err)

	spec := model.NewFixedReference(
		len(binding.RollCalls), len(binding.Legislators),
		model.PriorSpec{Loc: 0, Scale: 5},
		model.PriorSpec{Loc: 0, Scale: 2.5},
		model.PriorSpec{Loc: 0, Scale: 1},
		binding.Anchors,
	)
	m, err := model.New(spec, binding.Dataset())
	require.NoError(t, err)

	init := m.Space().Pack(binding.InitialParams())
	res, err := sampler.Run(context.Background(), m.LogPosterior, init, sampler.Config{
		Chains: 2, Iterations: 3000, Warmup: 3000, Seed: 17,
	})
	require.NoError(t, err)

	// Pool theta draws per legislator.
	pooled := make([][]float64, len(binding.Legislators))
	for _, c := range res.Chains {
		for _, d := range c.Draws {
			p := m.Space().Unpack(d)
			for j, v := range p.Theta {
				pooled[j] = append(pooled[j], v)
			}
		}
	}

	est, err := summary.Summarize(pooled, binding.Legislators, 0.9)
	require.NoError(t, err)
	require.Len(t, est, 4)

	rank := make(map[string]int, len(est))
	mean := make(map[string]float64, len(est))
	for _, e := range est {
		rank[e.Name] = e.Rank
		mean[e.Name] = e.Mean
	}
	assert.Less(t, rank[simulate.LegislatorName(1)], rank[simulate.LegislatorName(2)],
		"left-bloc legislator should rank below right-bloc legislator")
	assert.Negative(t, mean[simulate.LegislatorName(1)])
	assert.Positive(t, mean[simulate.LegislatorName(2)])
}
