package votes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fourMembers yields votes for two roll calls: "hr1" is unanimous yea,
// "hr2" splits two against two.
func fourMembers() []RawVote {
	return []RawVote{
		{Legislator: "ADAMS", Party: "D", RollCall: "hr1", Code: 1},
		{Legislator: "BAKER", Party: "D", RollCall: "hr1", Code: 1},
		{Legislator: "CLARK", Party: "R", RollCall: "hr1", Code: 1},
		{Legislator: "DAVIS", Party: "R", RollCall: "hr1", Code: 1},
		{Legislator: "ADAMS", Party: "D", RollCall: "hr2", Code: 1},
		{Legislator: "BAKER", Party: "D", RollCall: "hr2", Code: 1},
		{Legislator: "CLARK", Party: "R", RollCall: "hr2", Code: 6},
		{Legislator: "DAVIS", Party: "R", RollCall: "hr2", Code: 6},
	}
}

func TestBuildDropsUnanimousRollCall(t *testing.T) {
	b, err := Build(fourMembers(), Options{})
	require.NoError(t, err)

	// Only the split roll call survives, reindexed densely from 1.
	require.Len(t, b.RollCalls, 1)
	assert.Equal(t, "hr2", b.RollCalls[0].Label)
	assert.Equal(t, 1, b.RollCalls[0].Index)
	assert.Equal(t, 2, b.RollCalls[0].Yea)
	assert.Equal(t, 2, b.RollCalls[0].Nay)

	require.Len(t, b.Legislators, 4)
	assert.Equal(t, []int{1, 1, 1, 1}, b.ItemIdx)
	assert.Equal(t, []int{1, 2, 3, 4}, b.LegislatorIdx)
	assert.Equal(t, []int{1, 1, 0, 0}, b.Vote)
}

func TestRecodeScheme(t *testing.T) {
	s := DefaultRecode()
	for _, code := range []int{1, 2, 3} {
		assert.Equal(t, ResponseYea, s.Recode(code), "code %d", code)
	}
	for _, code := range []int{4, 5, 6} {
		assert.Equal(t, ResponseNay, s.Recode(code), "code %d", code)
	}
	for _, code := range []int{0, 7, 8, 9} {
		assert.Equal(t, ResponseMissing, s.Recode(code), "code %d", code)
	}
}

func TestBuildDropsMissingVotes(t *testing.T) {
	records := []RawVote{
		{Legislator: "ADAMS", Party: "D", RollCall: "hr1", Code: 1},
		{Legislator: "BAKER", Party: "D", RollCall: "hr1", Code: 9}, // missing
		{Legislator: "CLARK", Party: "R", RollCall: "hr1", Code: 5},
		{Legislator: "ADAMS", Party: "D", RollCall: "hr2", Code: 2},
		{Legislator: "CLARK", Party: "R", RollCall: "hr2", Code: 4},
	}
	b, err := Build(records, Options{})
	require.NoError(t, err)

	// BAKER only appears through the missing row and is not retained.
	require.Len(t, b.Legislators, 2)
	assert.Equal(t, "ADAMS", b.Legislators[0].Name)
	assert.Equal(t, "CLARK", b.Legislators[1].Name)
	assert.Len(t, b.Vote, 4)
}

func TestBuildAnchorPartition(t *testing.T) {
	b, err := Build(fourMembers(), Options{
		Anchors: []Anchor{
			{Legislator: "ADAMS", Value: 1},
			{Legislator: "CLARK", Value: -1},
		},
	})
	require.NoError(t, err)

	// Free count is total minus the two anchors.
	assert.Equal(t, len(b.Legislators)-2, b.FreeLegislatorCount())
	assert.Equal(t, []float64{1, -1}, b.Anchors.Values)
	assert.Equal(t, []int{0, 2}, b.Anchors.Indices)
	require.NoError(t, b.Anchors.BreaksAllInvariances())
}

func TestBuildMissingAnchorFailsFast(t *testing.T) {
	_, err := Build(fourMembers(), Options{
		Anchors: []Anchor{{Legislator: "NOBODY", Value: 1}},
	})
	require.Error(t, err)
	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ErrBuildAnchorMissing, be.Code)
	assert.Equal(t, "NOBODY", be.Subject)
}

func TestBuildAnchorNameNormalization(t *testing.T) {
	records := fourMembers()
	records[0].Legislator = "  ADAMS " // stray whitespace in the data
	b, err := Build(records, Options{
		Anchors: []Anchor{{Legislator: "ADAMS", Value: 1}, {Legislator: "DAVIS", Value: -1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, b.Anchors.Indices)
}

func TestPartyLineDetection(t *testing.T) {
	b, err := Build(fourMembers(), Options{})
	require.NoError(t, err)

	// hr2 splits perfectly along party lines: D yea, R nay. D and R tie
	// on size, so D is the first major party by label and yea maps to a
	// positive sign seed.
	require.Len(t, b.RollCalls, 1)
	assert.True(t, b.RollCalls[0].PartyLine())
	assert.Equal(t, 1.0, b.RollCalls[0].SignSeed)
	assert.Equal(t, []float64{1}, b.LambdaInit)
}

func TestPartyLineNotDetectedOnCrossover(t *testing.T) {
	records := []RawVote{
		{Legislator: "ADAMS", Party: "D", RollCall: "hr2", Code: 1},
		{Legislator: "BAKER", Party: "D", RollCall: "hr2", Code: 6}, // crosses over
		{Legislator: "CLARK", Party: "R", RollCall: "hr2", Code: 6},
		{Legislator: "DAVIS", Party: "R", RollCall: "hr2", Code: 6},
		{Legislator: "ADAMS", Party: "D", RollCall: "hr3", Code: 1},
		{Legislator: "BAKER", Party: "D", RollCall: "hr3", Code: 1},
		{Legislator: "CLARK", Party: "R", RollCall: "hr3", Code: 6},
		{Legislator: "DAVIS", Party: "R", RollCall: "hr3", Code: 1},
	}
	b, err := Build(records, Options{})
	require.NoError(t, err)
	for _, rc := range b.RollCalls {
		assert.False(t, rc.PartyLine(), "roll call %s", rc.Label)
		assert.Zero(t, b.LambdaInit[rc.Index-1])
	}
}

func TestThetaInitSeeds(t *testing.T) {
	b, err := Build(fourMembers(), Options{
		Anchors: []Anchor{
			{Legislator: "ADAMS", Value: 1},  // D
			{Legislator: "CLARK", Value: -1}, // R
		},
	})
	require.NoError(t, err)

	// Anchors at their literal values; co-partisans at half the sign
	// of their party's anchor mean.
	assert.Equal(t, []float64{1, 0.5, -1, -0.5}, b.ThetaInit)
}

func TestBuildErrors(t *testing.T) {
	t.Run("no records", func(t *testing.T) {
		_, err := Build(nil, Options{})
		var be *BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, ErrBuildNoRecords, be.Code)
	})

	t.Run("all unanimous", func(t *testing.T) {
		records := []RawVote{
			{Legislator: "ADAMS", Party: "D", RollCall: "hr1", Code: 1},
			{Legislator: "BAKER", Party: "D", RollCall: "hr1", Code: 1},
		}
		_, err := Build(records, Options{})
		var be *BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, ErrBuildNoRetained, be.Code)
	})

	t.Run("bad threshold", func(t *testing.T) {
		_, err := Build(fourMembers(), Options{PartyLineThreshold: 0.4})
		var be *BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, ErrBuildBadThreshold, be.Code)
	})

	t.Run("blank legislator", func(t *testing.T) {
		records := fourMembers()
		records[2].Legislator = ""
		_, err := Build(records, Options{})
		var be *BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, ErrBuildEmptyField, be.Code)
	})
}

func TestBindingDataset(t *testing.T) {
	b, err := Build(fourMembers(), Options{})
	require.NoError(t, err)

	d := b.Dataset()
	assert.Equal(t, 1, d.NumItems)
	assert.Equal(t, 4, d.NumLegislators)
	assert.Empty(t, d.Validate())
}

func TestCustomRecodeScheme(t *testing.T) {
	recode := RecodeScheme{Yea: []int{10}, Nay: []int{20}}
	records := []RawVote{
		{Legislator: "ADAMS", Party: "D", RollCall: "hr1", Code: 10},
		{Legislator: "CLARK", Party: "R", RollCall: "hr1", Code: 20},
		{Legislator: "DAVIS", Party: "R", RollCall: "hr1", Code: 1}, // missing here
	}
	b, err := Build(records, Options{Recode: &recode})
	require.NoError(t, err)
	assert.Len(t, b.Legislators, 2)
	assert.Equal(t, []int{1, 0}, b.Vote)
}
