package identify

// Params holds one full realization of the model parameters: per-item
// difficulty and discrimination, and per-legislator ideal points. All
// transformation methods return fresh copies; a Params value is never
// mutated in place.
type Params struct {
	Alpha  []float64 // item difficulty, one per item
	Lambda []float64 // item discrimination, one per item
	Theta  []float64 // legislator ideal point, one per legislator
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	return Params{
		Alpha:  append([]float64(nil), p.Alpha...),
		Lambda: append([]float64(nil), p.Lambda...),
		Theta:  append([]float64(nil), p.Theta...),
	}
}

// Scale applies the multiplicative reparameterization
// (lambda, theta) -> (lambda/c, theta*c). The linear predictor is
// unchanged for any nonzero c. Panics if c == 0 since the transformation
// is undefined there.
func (p Params) Scale(c float64) Params {
	if c == 0 {
		panic("identify: scale constant must be nonzero")
	}
	q := p.Clone()
	for i := range q.Lambda {
		q.Lambda[i] /= c
	}
	for i := range q.Theta {
		q.Theta[i] *= c
	}
	return q
}

// Shift applies the additive reparameterization
// (alpha, theta) -> (alpha - lambda*c, theta + c). The linear predictor
// is unchanged for any c.
func (p Params) Shift(c float64) Params {
	q := p.Clone()
	for i := range q.Alpha {
		q.Alpha[i] -= q.Lambda[i] * c
	}
	for i := range q.Theta {
		q.Theta[i] += c
	}
	return q
}

// Reflect applies the sign flip (lambda, theta) -> (-lambda, -theta).
// The linear predictor is unchanged.
func (p Params) Reflect() Params {
	q := p.Clone()
	for i := range q.Lambda {
		q.Lambda[i] = -q.Lambda[i]
	}
	for i := range q.Theta {
		q.Theta[i] = -q.Theta[i]
	}
	return q
}

// LinearPredictors evaluates mu for every (item, legislator) pair given
// by the parallel 0-based index arrays. Both arrays must have equal
// length; indices must be in range for p.
func (p Params) LinearPredictors(itemIdx, legIdx []int) []float64 {
	mu := make([]float64, len(itemIdx))
	for i := range itemIdx {
		k := itemIdx[i]
		j := legIdx[i]
		mu[i] = p.Alpha[k] + p.Lambda[k]*p.Theta[j]
	}
	return mu
}

// DensePredictors evaluates mu over the full item x legislator grid in
// row-major order (item varies slowest). Used by invariance checks that
// compare complete predictor surfaces rather than observed cells.
func (p Params) DensePredictors() []float64 {
	mu := make([]float64, 0, len(p.Alpha)*len(p.Theta))
	for k := range p.Alpha {
		for j := range p.Theta {
			mu = append(mu, p.Alpha[k]+p.Lambda[k]*p.Theta[j])
		}
	}
	return mu
}
