package graph

import (
	"math"
	"testing"

	"github.com/openingrank/trueskill/internal/gaussian"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPriorStart(t *testing.T) {
	v := NewVariable()
	p := NewPrior(v, gaussian.FromMuSigma(25, 25.0/3))
	p.Start()

	mu, sigma := v.MuSigma()
	if !approxEqual(mu, 25, 1e-9) || !approxEqual(sigma, 25.0/3, 1e-9) {
		t.Fatalf("prior start: got mu=%v sigma=%v", mu, sigma)
	}
}

func TestLikelihoodUpdateValueWidensSigma(t *testing.T) {
	skill := NewVariable()
	NewPrior(skill, gaussian.FromMuSigma(25, 25.0/3)).Start()

	perf := NewVariable()
	lk := NewLikelihood(skill, perf, (25.0 / 6) * (25.0 / 6))
	lk.UpdateValue()

	mu, sigma := perf.MuSigma()
	if !approxEqual(mu, 25, 1e-9) {
		t.Fatalf("expected performance mean to match skill mean, got %v", mu)
	}
	if sigma <= 25.0/3 {
		t.Fatalf("expected added noise to widen sigma, got %v", sigma)
	}
}

func TestSumUpdateSumAndTerm(t *testing.T) {
	a := NewVariable()
	NewPrior(a, gaussian.FromMuSigma(10, 1)).Start()
	b := NewVariable()
	NewPrior(b, gaussian.FromMuSigma(20, 1)).Start()

	sum := NewVariable()
	s := NewSum(sum, []*Variable{a, b}, []float64{1, 1})
	s.UpdateSum()

	mu, _ := sum.MuSigma()
	if !approxEqual(mu, 30, 1e-6) {
		t.Fatalf("expected sum mean 30, got %v", mu)
	}

	// Pin the sum and solve back for b given a.
	NewPrior(sum, gaussian.FromMuSigma(30, 1)).Start()
	s.UpdateTerm(1)
	muB, _ := b.MuSigma()
	if !approxEqual(muB, 20, 1e-3) {
		t.Fatalf("expected term b mean near 20, got %v", muB)
	}
}

func TestTruncateDecisiveWinNarrowsVariance(t *testing.T) {
	diff := NewVariable()
	NewPrior(diff, gaussian.FromMuSigma(0, 1)).Start()

	_, sigmaBefore := diff.MuSigma()
	tr := NewTruncate(diff, Vwin, Wwin, 0)
	tr.Update()
	muAfter, sigmaAfter := diff.MuSigma()

	if muAfter <= 0 {
		t.Fatalf("expected a decisive win to shift the difference mean positive, got %v", muAfter)
	}
	if sigmaAfter >= sigmaBefore {
		t.Fatalf("expected truncation to narrow variance, before=%v after=%v", sigmaBefore, sigmaAfter)
	}
}

func TestMomentFunctionsAtOrigin(t *testing.T) {
	v := Vwin(0, 0)
	w := Wwin(0, 0)
	if !approxEqual(w, v*v, 1e-9) {
		t.Fatalf("Wwin(0,0) should equal Vwin(0,0)^2, got Vwin=%v Wwin=%v", v, w)
	}
}
