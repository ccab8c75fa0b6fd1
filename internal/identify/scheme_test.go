package identify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeTwoDistinctAnchorsValid(t *testing.T) {
	s := AnchorScheme{
		Indices: []int{0, 7},
		Values:  []float64{1, -1},
	}
	assert.NoError(t, s.BreaksAllInvariances())
}

func TestSchemeRejections(t *testing.T) {
	tests := []struct {
		name     string
		scheme   AnchorScheme
		wantCode string
	}{
		{
			name:     "no anchors",
			scheme:   AnchorScheme{},
			wantCode: ErrSchemeTooFewAnchors,
		},
		{
			name: "single anchor leaves scale and reflection free",
			scheme: AnchorScheme{
				Indices: []int{3},
				Values:  []float64{1},
			},
			wantCode: ErrSchemeTooFewAnchors,
		},
		{
			name: "equal anchor values leave scale free",
			scheme: AnchorScheme{
				Indices: []int{0, 5},
				Values:  []float64{0.5, 0.5},
			},
			wantCode: ErrSchemeEqualAnchors,
		},
		{
			name: "duplicate index",
			scheme: AnchorScheme{
				Indices: []int{2, 2},
				Values:  []float64{1, -1},
			},
			wantCode: ErrSchemeDuplicateIndex,
		},
		{
			name: "non-finite value",
			scheme: AnchorScheme{
				Indices: []int{0, 1},
				Values:  []float64{1, math.Inf(1)},
			},
			wantCode: ErrSchemeNonFiniteValue,
		},
		{
			name: "length mismatch",
			scheme: AnchorScheme{
				Indices: []int{0, 1},
				Values:  []float64{1},
			},
			wantCode: ErrSchemeLengthMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scheme.BreaksAllInvariances()
			require.Error(t, err)
			var se *SchemeError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantCode, se.Code)
		})
	}
}

func TestSchemeThreeAnchorsOneDistinct(t *testing.T) {
	// Three anchors where only one value differs still pin all three
	// invariances.
	s := AnchorScheme{
		Indices: []int{1, 4, 9},
		Values:  []float64{-1, -1, 1},
	}
	assert.NoError(t, s.BreaksAllInvariances())
}
