package model

import "github.com/statehouse-labs/idealpoint/internal/identify"

// Variant selects which identification strategy a Spec uses.
type Variant string

const (
	// VariantUnidentified is the baseline model: shared scalar priors,
	// no constraints. Posterior geometry retains the scale, shift, and
	// reflection invariances.
	VariantUnidentified Variant = "unidentified"

	// VariantInformative is the baseline likelihood with per-index
	// prior vectors instead of shared scalars.
	VariantInformative Variant = "informative"

	// VariantFixedReference fixes anchor legislators at literal ideal
	// points, removing all three invariances.
	VariantFixedReference Variant = "fixed_reference"
)

// ValidVariants defines the allowed variant tags.
var ValidVariants = map[Variant]bool{
	VariantUnidentified:   true,
	VariantInformative:    true,
	VariantFixedReference: true,
}

// Dataset is the bound observation data consumed by a Model. Index
// arrays are parallel and 1-based; Vote holds 0 (nay) or 1 (yea).
type Dataset struct {
	NumItems       int
	NumLegislators int

	ItemIdx       []int
	LegislatorIdx []int
	Vote          []int
}

// NumObs returns the number of bound observations.
func (d *Dataset) NumObs() int { return len(d.Vote) }

// PriorSpec is a scalar prior: Normal(Loc, Scale) when Skew is zero,
// SkewNormal(Loc, Scale, Skew) otherwise. Scale must be strictly
// positive.
type PriorSpec struct {
	Loc   float64
	Scale float64
	Skew  float64
}

// VectorPrior supplies per-index prior hyperparameters. Loc and Scale
// are required and equal length; Skew may be nil (all zero) or the same
// length.
type VectorPrior struct {
	Loc   []float64
	Scale []float64
	Skew  []float64
}

// at returns the scalar prior for index i.
func (v *VectorPrior) at(i int) PriorSpec {
	p := PriorSpec{Loc: v.Loc[i], Scale: v.Scale[i]}
	if v.Skew != nil {
		p.Skew = v.Skew[i]
	}
	return p
}

// Spec declares one model variant: counts, priors, and (for the
// fixed-reference variant) the anchor scheme. Specs are built by the
// New* constructors and validated before use; a Spec is immutable once
// handed to New.
type Spec struct {
	Variant        Variant
	NumItems       int
	NumLegislators int

	// Scalar priors, used by VariantUnidentified and as the free-theta
	// prior in VariantFixedReference.
	Alpha  PriorSpec
	Lambda PriorSpec
	Theta  PriorSpec

	// Per-index priors, used by VariantInformative. When set they take
	// precedence over the scalar fields.
	AlphaVec  *VectorPrior
	LambdaVec *VectorPrior
	ThetaVec  *VectorPrior

	// Anchors, used by VariantFixedReference. Indices are 0-based
	// positions into the theta vector.
	Anchors identify.AnchorScheme
}

// NewUnidentified builds a Variant A spec with shared scalar priors.
func NewUnidentified(numItems, numLegislators int, alpha, lambda, theta PriorSpec) *Spec {
	return &Spec{
		Variant:        VariantUnidentified,
		NumItems:       numItems,
		NumLegislators: numLegislators,
		Alpha:          alpha,
		Lambda:         lambda,
		Theta:          theta,
	}
}

// NewInformative builds a Variant C spec with per-index prior vectors.
func NewInformative(numItems, numLegislators int, alpha, lambda, theta VectorPrior) *Spec {
	return &Spec{
		Variant:        VariantInformative,
		NumItems:       numItems,
		NumLegislators: numLegislators,
		AlphaVec:       &alpha,
		LambdaVec:      &lambda,
		ThetaVec:       &theta,
	}
}

// NewFixedReference builds a Variant B spec. Anchor indices are 0-based
// theta positions; theta is the prior for the free ideal points.
func NewFixedReference(numItems, numLegislators int, alpha, lambda, theta PriorSpec, anchors identify.AnchorScheme) *Spec {
	return &Spec{
		Variant:        VariantFixedReference,
		NumItems:       numItems,
		NumLegislators: numLegislators,
		Alpha:          alpha,
		Lambda:         lambda,
		Theta:          theta,
		Anchors:        anchors,
	}
}

// alphaPrior returns the difficulty prior for item k.
func (s *Spec) alphaPrior(k int) PriorSpec {
	if s.AlphaVec != nil {
		return s.AlphaVec.at(k)
	}
	return s.Alpha
}

// lambdaPrior returns the discrimination prior for item k.
func (s *Spec) lambdaPrior(k int) PriorSpec {
	if s.LambdaVec != nil {
		return s.LambdaVec.at(k)
	}
	return s.Lambda
}

// thetaPrior returns the ideal-point prior for legislator j. For the
// fixed-reference variant this is only consulted for free indices.
func (s *Spec) thetaPrior(j int) PriorSpec {
	if s.ThetaVec != nil {
		return s.ThetaVec.at(j)
	}
	return s.Theta
}
