package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statehouse-labs/idealpoint/internal/identify"
)

// smallDataset binds three items, four legislators, six observations.
func smallDataset() *Dataset {
	return &Dataset{
		NumItems:       3,
		NumLegislators: 4,
		ItemIdx:        []int{1, 1, 2, 2, 3, 3},
		LegislatorIdx:  []int{1, 2, 2, 3, 3, 4},
		Vote:           []int{1, 0, 1, 1, 0, 1},
	}
}

func weakPriors() (alpha, lambda, theta PriorSpec) {
	return PriorSpec{Loc: 0, Scale: 5},
		PriorSpec{Loc: 0, Scale: 2.5, Skew: 0},
		PriorSpec{Loc: 0, Scale: 1}
}

func TestNewUnidentifiedModel(t *testing.T) {
	a, l, th := weakPriors()
	m, err := New(NewUnidentified(3, 4, a, l, th), smallDataset())
	require.NoError(t, err)

	// 3 alpha + 3 lambda + 4 theta, all free.
	assert.Equal(t, 10, m.Dim())
	assert.Equal(t, 4, m.Space().FreeThetaCount())
}

func TestFixedReferenceFreeCount(t *testing.T) {
	a, l, th := weakPriors()
	spec := NewFixedReference(3, 4, a, l, th, identify.AnchorScheme{
		Indices: []int{0, 3},
		Values:  []float64{-1, 1},
	})
	m, err := New(spec, smallDataset())
	require.NoError(t, err)

	// Free theta count equals total legislators minus anchors.
	assert.Equal(t, 2, m.Space().FreeThetaCount())
	assert.Equal(t, 3+3+2, m.Dim())
	assert.Equal(t, []int{1, 2}, m.Space().FreeThetaIndices())
	assert.Equal(t, map[int]float64{0: -1, 3: 1}, m.Space().FixedValues())
}

func TestUnpackSplicesAnchors(t *testing.T) {
	a, l, th := weakPriors()
	spec := NewFixedReference(3, 4, a, l, th, identify.AnchorScheme{
		Indices: []int{3, 0},
		Values:  []float64{1, -1},
	})
	m, err := New(spec, smallDataset())
	require.NoError(t, err)

	x := []float64{
		0.1, 0.2, 0.3, // alpha
		-0.4, 0.5, 0.6, // lambda
		0.7, 0.8, // free theta for legislators 1 and 2
	}
	p := m.Space().Unpack(x)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, p.Alpha)
	assert.Equal(t, []float64{-0.4, 0.5, 0.6}, p.Lambda)
	assert.Equal(t, []float64{-1, 0.7, 0.8, 1}, p.Theta)

	// Pack is the inverse on the free coordinates.
	assert.Equal(t, x, m.Space().Pack(p))
}

func TestLogPosteriorDeterministic(t *testing.T) {
	a, l, th := weakPriors()
	m, err := New(NewUnidentified(3, 4, a, l, th), smallDataset())
	require.NoError(t, err)

	x := make([]float64, m.Dim())
	for i := range x {
		x[i] = 0.1 * float64(i+1)
	}
	first := m.LogPosterior(x)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.LogPosterior(x))
	}
	assert.False(t, math.IsNaN(first))
	assert.False(t, math.IsInf(first, 0))
}

func TestLogPosteriorNonFiniteInput(t *testing.T) {
	a, l, th := weakPriors()
	m, err := New(NewUnidentified(3, 4, a, l, th), smallDataset())
	require.NoError(t, err)

	x := make([]float64, m.Dim())
	x[2] = math.NaN()
	assert.True(t, math.IsInf(m.LogPosterior(x), -1))

	x[2] = math.Inf(1)
	assert.True(t, math.IsInf(m.LogPosterior(x), -1))
}

func TestPointwiseLogLikAtZeroParams(t *testing.T) {
	// All parameters zero means mu = 0 everywhere, so every
	// observation contributes exactly log(0.5).
	a, l, th := weakPriors()
	m, err := New(NewUnidentified(3, 4, a, l, th), smallDataset())
	require.NoError(t, err)

	ll := m.PointwiseLogLik(make([]float64, m.Dim()))
	require.Len(t, ll, 6)
	for i, v := range ll {
		assert.InDelta(t, math.Log(0.5), v, 1e-12, "obs %d", i)
	}
}

func TestLogPosteriorMatchesManualSum(t *testing.T) {
	a, l, th := weakPriors()
	m, err := New(NewUnidentified(3, 4, a, l, th), smallDataset())
	require.NoError(t, err)

	x := []float64{1, 0, -1, -0.5, 0, 0.5, -1, -0.5, 0.5, 1}
	p := m.Space().Unpack(x)

	want := 0.0
	for k := 0; k < 3; k++ {
		want += normalLogPDF(p.Alpha[k], 0, 5)
		want += normalLogPDF(p.Lambda[k], 0, 2.5)
	}
	for j := 0; j < 4; j++ {
		want += normalLogPDF(p.Theta[j], 0, 1)
	}
	d := smallDataset()
	for i := 0; i < d.NumObs(); i++ {
		k := d.ItemIdx[i] - 1
		j := d.LegislatorIdx[i] - 1
		want += BernoulliLogitLogPMF(d.Vote[i], p.Alpha[k]+p.Lambda[k]*p.Theta[j])
	}

	assert.InDelta(t, want, m.LogPosterior(x), 1e-10)
}

func TestInformativeVariantPerIndexPriors(t *testing.T) {
	alpha := VectorPrior{Loc: []float64{0, 0, 0}, Scale: []float64{5, 5, 5}}
	lambda := VectorPrior{Loc: []float64{0, 0, 0}, Scale: []float64{2.5, 2.5, 2.5}, Skew: []float64{0, 0, 4}}
	theta := VectorPrior{Loc: []float64{0, 0, 0, 0}, Scale: []float64{1, 1, 0.25, 1}}

	m, err := New(NewInformative(3, 4, alpha, lambda, theta), smallDataset())
	require.NoError(t, err)
	assert.Equal(t, 10, m.Dim())

	// The tight prior on legislator 3 must make a displaced theta[2]
	// cost more than the same displacement under the loose baseline.
	a, l, th := weakPriors()
	base, err := New(NewUnidentified(3, 4, a, l, th), smallDataset())
	require.NoError(t, err)

	x := make([]float64, 10)
	x[2*3+2] = 1.5 // theta for legislator 3
	assert.Less(t, m.LogPosterior(x), base.LogPosterior(x))
}

func TestLogPosteriorInvariantUnderReparameterization(t *testing.T) {
	// The likelihood term is invariant under the three transforms; only
	// the prior term moves. Checked via pointwise log lik.
	a, l, th := weakPriors()
	m, err := New(NewUnidentified(3, 4, a, l, th), smallDataset())
	require.NoError(t, err)

	p := identify.Params{
		Alpha:  []float64{1, 0, -1},
		Lambda: []float64{-0.5, 0.3, 0.5},
		Theta:  []float64{-1, -0.5, 0.5, 1},
	}

	base := m.PointwiseLogLik(m.Space().Pack(p))
	for _, q := range []identify.Params{p.Scale(2), p.Shift(-1.3), p.Reflect()} {
		got := m.PointwiseLogLik(m.Space().Pack(q))
		for i := range base {
			assert.InDelta(t, base[i], got[i], 1e-10)
		}
	}
}
