package identify

import (
	"fmt"
	"math"
)

// Scheme error codes (E200-E209).
const (
	ErrSchemeTooFewAnchors  = "E200" // fewer than two fixed ideal points
	ErrSchemeEqualAnchors   = "E201" // fixed values not distinct
	ErrSchemeDuplicateIndex = "E202" // same legislator fixed twice
	ErrSchemeNonFiniteValue = "E203" // fixed value is NaN or infinite
	ErrSchemeLengthMismatch = "E204" // indices and values differ in length
)

// SchemeError reports a defect in an anchor scheme. It is returned by
// BreaksAllInvariances before any density evaluation takes place.
type SchemeError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *SchemeError) Error() string {
	return fmt.Sprintf("[%s] anchor scheme: %s", e.Code, e.Message)
}

// AnchorScheme fixes a subset of legislator ideal points at literal
// values. Indices are 0-based positions into the theta vector; Values is
// the parallel array of fixed ideal points.
type AnchorScheme struct {
	Indices []int
	Values  []float64
}

// BreaksAllInvariances reports whether the scheme removes the scale,
// shift, and reflection invariances simultaneously.
//
// The condition is that at least two ideal points are fixed at distinct
// finite values: the fixed difference pins the unit (scale), the fixed
// locations pin the origin (shift), and the sign of the fixed spread
// pins the reflection. A scheme that fixes fewer points, or fixes all
// points at the same value, leaves a continuous symmetry and is
// rejected.
func (s AnchorScheme) BreaksAllInvariances() error {
	if len(s.Indices) != len(s.Values) {
		return &SchemeError{
			Code:    ErrSchemeLengthMismatch,
			Message: fmt.Sprintf("%d indices but %d values", len(s.Indices), len(s.Values)),
		}
	}
	if len(s.Indices) < 2 {
		return &SchemeError{
			Code:    ErrSchemeTooFewAnchors,
			Message: fmt.Sprintf("need at least 2 fixed ideal points, got %d", len(s.Indices)),
		}
	}

	seen := make(map[int]bool, len(s.Indices))
	for _, idx := range s.Indices {
		if seen[idx] {
			return &SchemeError{
				Code:    ErrSchemeDuplicateIndex,
				Message: fmt.Sprintf("legislator index %d fixed more than once", idx),
			}
		}
		seen[idx] = true
	}

	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &SchemeError{
				Code:    ErrSchemeNonFiniteValue,
				Message: fmt.Sprintf("fixed value %v is not finite", v),
			}
		}
	}

	// At least one pair of fixed values must differ, otherwise scale
	// and reflection remain free around the common point.
	first := s.Values[0]
	distinct := false
	for _, v := range s.Values[1:] {
		if v != first {
			distinct = true
			break
		}
	}
	if !distinct {
		return &SchemeError{
			Code:    ErrSchemeEqualAnchors,
			Message: fmt.Sprintf("all %d fixed values equal %v; scale and reflection remain unidentified", len(s.Values), first),
		}
	}

	return nil
}
