package model

import "math"

const log2Pi = 1.8378770664093453 // log(2*pi)

// softplus computes log(1 + exp(x)) without overflow.
func softplus(x float64) float64 {
	if x > 35 {
		return x
	}
	if x < -35 {
		return math.Exp(x)
	}
	return math.Log1p(math.Exp(x))
}

// BernoulliLogitLogPMF returns the log probability mass of vote y under
// a Bernoulli with logit-scale parameter mu:
//
//	log P(y=1) = -softplus(-mu)
//	log P(y=0) = -softplus(mu)
func BernoulliLogitLogPMF(y int, mu float64) float64 {
	if y == 1 {
		return -softplus(-mu)
	}
	return -softplus(mu)
}

// InvLogit returns 1/(1+exp(-mu)).
func InvLogit(mu float64) float64 {
	return 1 / (1 + math.Exp(-mu))
}

// normalLogPDF is the log density of Normal(loc, scale) at x. Scale is
// assumed strictly positive; specs are validated before evaluation.
func normalLogPDF(x, loc, scale float64) float64 {
	z := (x - loc) / scale
	return -0.5*z*z - math.Log(scale) - 0.5*log2Pi
}

// logPhi is the log standard normal CDF, via erfc for accuracy in the
// left tail. Underflows to -Inf below roughly z = -38, which the
// posterior treats as an invalid-density signal rather than a fault.
func logPhi(z float64) float64 {
	return math.Log(0.5 * math.Erfc(-z/math.Sqrt2))
}

// skewNormalLogPDF is the log density of SkewNormal(loc, scale, skew)
// at x. With skew zero it reduces exactly to the normal log density:
// log 2 + logPhi(0) = 0.
func skewNormalLogPDF(x, loc, scale, skew float64) float64 {
	z := (x - loc) / scale
	return math.Ln2 + normalLogPDF(x, loc, scale) + logPhi(skew*z)
}

// priorLogPDF evaluates a scalar prior at x: skew normal when the skew
// parameter is nonzero, normal otherwise.
func priorLogPDF(x float64, p PriorSpec) float64 {
	if p.Skew != 0 {
		return skewNormalLogPDF(x, p.Loc, p.Scale, p.Skew)
	}
	return normalLogPDF(x, p.Loc, p.Scale)
}
