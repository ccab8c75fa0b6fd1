package model

import "fmt"

// Validation error codes (E100-E129).
const (
	// Dataset errors (E100-E109)
	ErrDatasetEmptyItems       = "E100" // item count < 1
	ErrDatasetEmptyLegislators = "E101" // legislator count < 1
	ErrDatasetLengthMismatch   = "E102" // parallel arrays differ in length
	ErrDatasetItemOutOfRange   = "E103" // item index outside [1, NumItems]
	ErrDatasetLegOutOfRange    = "E104" // legislator index outside [1, NumLegislators]
	ErrDatasetBadVote          = "E105" // vote value not 0 or 1
	ErrDatasetNoObservations   = "E106" // no observations bound

	// Spec errors (E110-E129)
	ErrSpecUnknownVariant    = "E110" // variant tag not recognized
	ErrSpecNonPositiveScale  = "E111" // prior scale <= 0
	ErrSpecVectorLength      = "E112" // prior vector length mismatch
	ErrSpecMissingVector     = "E113" // informative variant without vectors
	ErrSpecAnchorScheme      = "E114" // anchor scheme fails identification
	ErrSpecAnchorOutOfRange  = "E115" // anchor index outside theta vector
	ErrSpecCountMismatch     = "E116" // spec counts disagree with dataset
)

// ValidationError identifies a single defect in a Dataset or Spec.
// Validation collects every error it finds rather than stopping at the
// first.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the dataset invariants: positive counts, parallel
// array lengths, 1-based indices in range, and binary vote values.
func (d *Dataset) Validate() []ValidationError {
	var errs []ValidationError

	if d.NumItems < 1 {
		errs = append(errs, ValidationError{
			Field:   "num_items",
			Message: fmt.Sprintf("item count must be >= 1, got %d", d.NumItems),
			Code:    ErrDatasetEmptyItems,
		})
	}
	if d.NumLegislators < 1 {
		errs = append(errs, ValidationError{
			Field:   "num_legislators",
			Message: fmt.Sprintf("legislator count must be >= 1, got %d", d.NumLegislators),
			Code:    ErrDatasetEmptyLegislators,
		})
	}

	if len(d.ItemIdx) != len(d.Vote) || len(d.LegislatorIdx) != len(d.Vote) {
		errs = append(errs, ValidationError{
			Field: "observations",
			Message: fmt.Sprintf("parallel arrays differ in length: item=%d legislator=%d vote=%d",
				len(d.ItemIdx), len(d.LegislatorIdx), len(d.Vote)),
			Code: ErrDatasetLengthMismatch,
		})
		// Index range checks below assume equal lengths.
		return errs
	}

	if len(d.Vote) == 0 {
		errs = append(errs, ValidationError{
			Field:   "observations",
			Message: "no observations bound",
			Code:    ErrDatasetNoObservations,
		})
	}

	for i := range d.Vote {
		if d.ItemIdx[i] < 1 || d.ItemIdx[i] > d.NumItems {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("item_idx[%d]", i),
				Message: fmt.Sprintf("index %d outside [1, %d]", d.ItemIdx[i], d.NumItems),
				Code:    ErrDatasetItemOutOfRange,
			})
		}
		if d.LegislatorIdx[i] < 1 || d.LegislatorIdx[i] > d.NumLegislators {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("legislator_idx[%d]", i),
				Message: fmt.Sprintf("index %d outside [1, %d]", d.LegislatorIdx[i], d.NumLegislators),
				Code:    ErrDatasetLegOutOfRange,
			})
		}
		if d.Vote[i] != 0 && d.Vote[i] != 1 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("vote[%d]", i),
				Message: fmt.Sprintf("vote must be 0 or 1, got %d", d.Vote[i]),
				Code:    ErrDatasetBadVote,
			})
		}
	}

	return errs
}

// Validate checks the spec: known variant, strictly positive prior
// scales, prior vector lengths, and (fixed-reference) a sound anchor
// scheme with in-range indices.
func (s *Spec) Validate() []ValidationError {
	var errs []ValidationError

	if !ValidVariants[s.Variant] {
		errs = append(errs, ValidationError{
			Field:   "variant",
			Message: fmt.Sprintf("unknown variant %q", s.Variant),
			Code:    ErrSpecUnknownVariant,
		})
	}

	switch s.Variant {
	case VariantInformative:
		errs = append(errs, s.validateVector("alpha", s.AlphaVec, s.NumItems)...)
		errs = append(errs, s.validateVector("lambda", s.LambdaVec, s.NumItems)...)
		errs = append(errs, s.validateVector("theta", s.ThetaVec, s.NumLegislators)...)
	default:
		errs = append(errs, validateScalarPrior("alpha", s.Alpha)...)
		errs = append(errs, validateScalarPrior("lambda", s.Lambda)...)
		errs = append(errs, validateScalarPrior("theta", s.Theta)...)
	}

	if s.Variant == VariantFixedReference {
		if err := s.Anchors.BreaksAllInvariances(); err != nil {
			errs = append(errs, ValidationError{
				Field:   "anchors",
				Message: err.Error(),
				Code:    ErrSpecAnchorScheme,
			})
		}
		for _, idx := range s.Anchors.Indices {
			if idx < 0 || idx >= s.NumLegislators {
				errs = append(errs, ValidationError{
					Field:   "anchors",
					Message: fmt.Sprintf("anchor index %d outside [0, %d)", idx, s.NumLegislators),
					Code:    ErrSpecAnchorOutOfRange,
				})
			}
		}
	}

	return errs
}

// validateVector checks a per-index prior vector against the expected
// length and positive-scale requirement.
func (s *Spec) validateVector(field string, v *VectorPrior, want int) []ValidationError {
	if v == nil {
		return []ValidationError{{
			Field:   field,
			Message: "informative variant requires a prior vector",
			Code:    ErrSpecMissingVector,
		}}
	}

	var errs []ValidationError
	if len(v.Loc) != want || len(v.Scale) != want {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("prior vector length: loc=%d scale=%d, want %d", len(v.Loc), len(v.Scale), want),
			Code:    ErrSpecVectorLength,
		})
		return errs
	}
	if v.Skew != nil && len(v.Skew) != want {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("skew vector length %d, want %d", len(v.Skew), want),
			Code:    ErrSpecVectorLength,
		})
	}
	for i, sc := range v.Scale {
		if !(sc > 0) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.scale[%d]", field, i),
				Message: fmt.Sprintf("prior scale must be strictly positive, got %v", sc),
				Code:    ErrSpecNonPositiveScale,
			})
		}
	}
	return errs
}

func validateScalarPrior(field string, p PriorSpec) []ValidationError {
	if !(p.Scale > 0) {
		return []ValidationError{{
			Field:   field + ".scale",
			Message: fmt.Sprintf("prior scale must be strictly positive, got %v", p.Scale),
			Code:    ErrSpecNonPositiveScale,
		}}
	}
	return nil
}
