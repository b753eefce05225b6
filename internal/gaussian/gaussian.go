// Package gaussian implements univariate normal distributions in natural
// parameter form (precision, precision-mean), the algebra the rating engine's
// factor graph runs on.
package gaussian

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Gaussian is an immutable univariate normal in natural parameters.
// Pi is the precision (1/sigma^2); Tau is the precision-adjusted mean
// (mu/sigma^2). Pi == 0 represents the improper flat prior.
type Gaussian struct {
	Pi  float64
	Tau float64
}

// Flat is the improper, zero-information prior: pi=0, tau=0.
var Flat = Gaussian{}

// FromMuSigma builds a Gaussian from its mean/stddev view.
func FromMuSigma(mu, sigma float64) Gaussian {
	pi := 1.0 / (sigma * sigma)
	return Gaussian{Pi: pi, Tau: pi * mu}
}

// MuSigma returns the mean/stddev view of g. When Pi == 0 this is (0, +Inf).
func (g Gaussian) MuSigma() (mu, sigma float64) {
	if g.Pi == 0 {
		return 0, math.Inf(1)
	}
	return g.Tau / g.Pi, math.Sqrt(1.0 / g.Pi)
}

// Mul combines evidence: the product of two Gaussian messages.
func Mul(a, b Gaussian) Gaussian {
	return Gaussian{Pi: a.Pi + b.Pi, Tau: a.Tau + b.Tau}
}

// Div removes evidence: the quotient of two Gaussian messages. The result's
// Pi may be zero or negative in intermediate computation; callers treat
// non-positive precision as "no information" per the engine's numerical
// guardrails.
func Div(a, b Gaussian) Gaussian {
	return Gaussian{Pi: a.Pi - b.Pi, Tau: a.Tau - b.Tau}
}

// Add sums two independent normal variates. Both inputs must have Pi > 0.
func Add(a, b Gaussian) Gaussian {
	muA, sigmaA := a.MuSigma()
	muB, sigmaB := b.MuSigma()
	return FromMuSigma(muA+muB, math.Sqrt(sigmaA*sigmaA+sigmaB*sigmaB))
}

// Sub differences two independent normal variates. Both inputs must have
// Pi > 0.
func Sub(a, b Gaussian) Gaussian {
	muA, sigmaA := a.MuSigma()
	muB, sigmaB := b.MuSigma()
	return FromMuSigma(muA-muB, math.Sqrt(sigmaA*sigmaA+sigmaB*sigmaB))
}

// PDF is the standard normal density at x.
func PDF(x float64) float64 {
	return standardNormal.Prob(x)
}

// CDF is the standard normal cumulative distribution at x.
func CDF(x float64) float64 {
	return standardNormal.CDF(x)
}

// InvCDF is the standard normal quantile function.
func InvCDF(p float64) float64 {
	return standardNormal.Quantile(p)
}
