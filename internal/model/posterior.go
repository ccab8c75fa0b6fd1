package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/statehouse-labs/idealpoint/internal/identify"
)

// Space describes the flat parameter-vector layout handed to a sampler:
//
//	[ alpha_0..alpha_K | lambda_0..lambda_K | theta_free_0..theta_free_F ]
//
// For the fixed-reference variant the theta block holds only the free
// ideal points; anchors are spliced back in by Unpack. Free indices are
// laid out in ascending legislator order.
type Space struct {
	numItems       int
	numLegislators int
	freeIdx        []int           // 0-based free theta positions, ascending
	fixed          map[int]float64 // 0-based anchor position -> literal value
}

// newSpace builds the layout for a validated spec.
func newSpace(s *Spec) *Space {
	sp := &Space{
		numItems:       s.NumItems,
		numLegislators: s.NumLegislators,
		fixed:          make(map[int]float64),
	}
	if s.Variant == VariantFixedReference {
		for i, idx := range s.Anchors.Indices {
			sp.fixed[idx] = s.Anchors.Values[i]
		}
	}
	for j := 0; j < s.NumLegislators; j++ {
		if _, ok := sp.fixed[j]; !ok {
			sp.freeIdx = append(sp.freeIdx, j)
		}
	}
	sort.Ints(sp.freeIdx)
	return sp
}

// Dim returns the flat vector length: 2*NumItems + free theta count.
func (sp *Space) Dim() int {
	return 2*sp.numItems + len(sp.freeIdx)
}

// FreeThetaCount returns the number of free ideal points.
func (sp *Space) FreeThetaCount() int { return len(sp.freeIdx) }

// FreeThetaIndices returns the 0-based legislator positions of the free
// ideal points, in the order they occupy in the flat vector.
func (sp *Space) FreeThetaIndices() []int {
	return append([]int(nil), sp.freeIdx...)
}

// FixedValues returns the literal anchor values keyed by 0-based
// legislator position. Empty for unconstrained variants.
func (sp *Space) FixedValues() map[int]float64 {
	out := make(map[int]float64, len(sp.fixed))
	for k, v := range sp.fixed {
		out[k] = v
	}
	return out
}

// Unpack expands a flat vector into full parameter arrays, splicing
// anchor values into theta. The input is not retained.
func (sp *Space) Unpack(x []float64) identify.Params {
	if len(x) != sp.Dim() {
		panic(fmt.Sprintf("model: parameter vector length %d, want %d", len(x), sp.Dim()))
	}
	p := identify.Params{
		Alpha:  append([]float64(nil), x[:sp.numItems]...),
		Lambda: append([]float64(nil), x[sp.numItems:2*sp.numItems]...),
		Theta:  make([]float64, sp.numLegislators),
	}
	for j, v := range sp.fixed {
		p.Theta[j] = v
	}
	for i, j := range sp.freeIdx {
		p.Theta[j] = x[2*sp.numItems+i]
	}
	return p
}

// Pack flattens full parameter arrays into the sampler layout, dropping
// anchored theta entries.
func (sp *Space) Pack(p identify.Params) []float64 {
	x := make([]float64, 0, sp.Dim())
	x = append(x, p.Alpha...)
	x = append(x, p.Lambda...)
	for _, j := range sp.freeIdx {
		x = append(x, p.Theta[j])
	}
	return x
}

// Model binds a validated Spec to a validated Dataset and evaluates the
// unnormalized log posterior. A Model is immutable and safe for
// concurrent use; independent chains may share one Model or hold their
// own copies of the binding.
type Model struct {
	spec  *Spec
	data  *Dataset
	space *Space
}

// New validates spec and dataset, confirms they agree on counts, and
// returns the bound model. All validation errors are collected; any
// defect fails fast here, before a sampler ever sees the model.
func New(spec *Spec, data *Dataset) (*Model, error) {
	var errs []ValidationError
	errs = append(errs, spec.Validate()...)
	errs = append(errs, data.Validate()...)

	if spec.NumItems != data.NumItems || spec.NumLegislators != data.NumLegislators {
		errs = append(errs, ValidationError{
			Field: "counts",
			Message: fmt.Sprintf("spec declares %d items / %d legislators, dataset has %d / %d",
				spec.NumItems, spec.NumLegislators, data.NumItems, data.NumLegislators),
			Code: ErrSpecCountMismatch,
		})
	}

	if len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &Model{spec: spec, data: data, space: newSpace(spec)}, nil
}

// ValidationErrors aggregates multiple validation errors into one error
// value.
type ValidationErrors []ValidationError

// Error implements the error interface, listing every collected defect.
func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:", len(e))
	for _, v := range e {
		msg += "\n  " + v.Error()
	}
	return msg
}

// Space returns the parameter layout for this model.
func (m *Model) Space() *Space { return m.space }

// Dim returns the flat parameter-vector length.
func (m *Model) Dim() int { return m.space.Dim() }

// Spec returns the model's spec.
func (m *Model) Spec() *Spec { return m.spec }

// Dataset returns the bound data.
func (m *Model) Dataset() *Dataset { return m.data }

// LogPosterior evaluates the unnormalized log posterior density at the
// flat parameter vector x. Pure and deterministic: the same x always
// yields the same value and nothing is mutated. Non-finite inputs
// evaluate to -Inf.
func (m *Model) LogPosterior(x []float64) float64 {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.Inf(-1)
		}
	}

	p := m.space.Unpack(x)
	lp := 0.0

	for k := 0; k < m.spec.NumItems; k++ {
		lp += priorLogPDF(p.Alpha[k], m.spec.alphaPrior(k))
		lp += priorLogPDF(p.Lambda[k], m.spec.lambdaPrior(k))
	}
	for _, j := range m.space.freeIdx {
		lp += priorLogPDF(p.Theta[j], m.spec.thetaPrior(j))
	}

	for i := 0; i < m.data.NumObs(); i++ {
		k := m.data.ItemIdx[i] - 1
		j := m.data.LegislatorIdx[i] - 1
		mu := p.Alpha[k] + p.Lambda[k]*p.Theta[j]
		lp += BernoulliLogitLogPMF(m.data.Vote[i], mu)
	}

	if math.IsNaN(lp) {
		return math.Inf(-1)
	}
	return lp
}

// PointwiseLogLik returns the per-observation log likelihood at x, in
// observation order. This is the model-comparison output: one log
// Bernoulli-logit mass per recorded vote.
func (m *Model) PointwiseLogLik(x []float64) []float64 {
	p := m.space.Unpack(x)
	out := make([]float64, m.data.NumObs())
	for i := range out {
		k := m.data.ItemIdx[i] - 1
		j := m.data.LegislatorIdx[i] - 1
		mu := p.Alpha[k] + p.Lambda[k]*p.Theta[j]
		out[i] = BernoulliLogitLogPMF(m.data.Vote[i], mu)
	}
	return out
}
