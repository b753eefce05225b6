package graph

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/openingrank/trueskill/internal/gaussian"
)

var log = logrus.WithField("component", "graph")

// Prior pins a variable's marginal to a fixed Gaussian. It is the only
// factor kind that never reads its variable's current value.
type Prior struct {
	Var   *Variable
	slot  int
	Param gaussian.Gaussian
}

// NewPrior attaches a prior factor to v.
func NewPrior(v *Variable, param gaussian.Gaussian) *Prior {
	return &Prior{Var: v, slot: v.Attach(), Param: param}
}

// Start installs the prior's parameter as v's marginal.
func (p *Prior) Start() {
	p.Var.UpdateValue(p.slot, p.Param)
}

// Likelihood links two variables (mean and value) through additive Gaussian
// noise of the given variance — performance given skill.
type Likelihood struct {
	Mean, Value         *Variable
	meanSlot, valueSlot int
	Variance            float64
}

// NewLikelihood attaches a likelihood factor between mean and value.
func NewLikelihood(mean, value *Variable, variance float64) *Likelihood {
	return &Likelihood{
		Mean: mean, Value: value,
		meanSlot: mean.Attach(), valueSlot: value.Attach(),
		Variance: variance,
	}
}

// UpdateValue propagates a message from Mean to Value.
func (l *Likelihood) UpdateValue() {
	l.update(l.Mean, l.meanSlot, l.Value, l.valueSlot)
}

// UpdateMean propagates a message from Value to Mean.
func (l *Likelihood) UpdateMean() {
	l.update(l.Value, l.valueSlot, l.Mean, l.meanSlot)
}

func (l *Likelihood) update(from *Variable, fromSlot int, to *Variable, toSlot int) {
	y := from.Value
	fy := from.GetMessage(fromSlot)
	denomPi := y.Pi - fy.Pi
	if denomPi <= 0 {
		log.WithFields(logrus.Fields{"reason": "non-positive precision"}).Debug("likelihood update skipped")
		return
	}
	a := 1.0 / (1.0 + l.Variance*denomPi)
	msg := gaussian.Gaussian{Pi: a * denomPi, Tau: a * (y.Tau - fy.Tau)}
	to.UpdateMessage(toSlot, msg)
}

// Sum links a variable to a weighted sum of other variables: sum = Σ
// coeffs[i] * terms[i]. It supports updating the sum variable from the
// terms, or any one term from the sum and the remaining terms.
type Sum struct {
	Sum      *Variable
	sumSlot  int
	Terms    []*Variable
	termSlot []int
	Coeffs   []float64
}

// NewSum attaches a sum factor across sum and terms with the given
// coefficients. len(terms) must equal len(coeffs).
func NewSum(sum *Variable, terms []*Variable, coeffs []float64) *Sum {
	slots := make([]int, len(terms))
	for i, t := range terms {
		slots[i] = t.Attach()
	}
	return &Sum{
		Sum: sum, sumSlot: sum.Attach(),
		Terms: terms, termSlot: slots,
		Coeffs: coeffs,
	}
}

// UpdateSum propagates a message to the Sum variable from all the terms.
func (s *Sum) UpdateSum() {
	y := make([]gaussian.Gaussian, len(s.Terms))
	fy := make([]gaussian.Gaussian, len(s.Terms))
	for i, t := range s.Terms {
		y[i] = t.Value
		fy[i] = t.GetMessage(s.termSlot[i])
	}
	g, ok := internalUpdate(y, fy, s.Coeffs)
	if !ok {
		log.Debug("sum update skipped")
		return
	}
	s.Sum.UpdateMessage(s.sumSlot, g)
}

// UpdateTerm propagates a message to Terms[index] from the Sum variable and
// the remaining terms, solving the linear relation for that term.
func (s *Sum) UpdateTerm(index int) {
	bIndex := s.Coeffs[index]
	a := make([]float64, len(s.Coeffs))
	for i, b := range s.Coeffs {
		if i == index {
			a[i] = 1.0 / bIndex
		} else {
			a[i] = -b / bIndex
		}
	}

	vars := make([]*Variable, len(s.Terms))
	slots := make([]int, len(s.Terms))
	copy(vars, s.Terms)
	copy(slots, s.termSlot)
	vars[index] = s.Sum
	slots[index] = s.sumSlot

	y := make([]gaussian.Gaussian, len(vars))
	fy := make([]gaussian.Gaussian, len(vars))
	for i, v := range vars {
		y[i] = v.Value
		fy[i] = v.GetMessage(slots[i])
	}
	g, ok := internalUpdate(y, fy, a)
	if !ok {
		log.WithField("term", index).Debug("sum term update skipped")
		return
	}
	s.Terms[index].UpdateMessage(s.termSlot[index], g)
}

func internalUpdate(y, fy []gaussian.Gaussian, a []float64) (gaussian.Gaussian, bool) {
	var invSum float64
	for j := range a {
		denom := y[j].Pi - fy[j].Pi
		if denom <= 0 {
			return gaussian.Gaussian{}, false
		}
		invSum += a[j] * a[j] / denom
	}
	if invSum <= 0 {
		return gaussian.Gaussian{}, false
	}
	newPi := 1.0 / invSum
	var tauSum float64
	for j := range a {
		denom := y[j].Pi - fy[j].Pi
		tauSum += a[j] * (y[j].Tau - fy[j].Tau) / denom
	}
	return gaussian.Gaussian{Pi: newPi, Tau: newPi * tauSum}, true
}

// MomentFunc is one of the four win/draw moment functions (Vwin, Wwin,
// Vdraw, Wdraw) used by Truncate to fold a rank comparison into a Gaussian.
type MomentFunc func(t, e float64) float64

// Truncate rewrites a variable's marginal by moment-matching it against a
// truncated Gaussian determined by V and W — the non-Gaussian step in the
// graph, standing in for the win/draw/loss comparison between two team
// performances, applied to their team-difference variable.
type Truncate struct {
	Var     *Variable
	slot    int
	V, W    MomentFunc
	Epsilon float64
}

// NewTruncate attaches a truncate factor to v.
func NewTruncate(v *Variable, v1, w1 MomentFunc, epsilon float64) *Truncate {
	return &Truncate{Var: v, slot: v.Attach(), V: v1, W: w1, Epsilon: epsilon}
}

// Update moment-matches Var's marginal against the truncation implied by V
// and W. A degenerate input (non-positive precision, or a W at or beyond 1)
// leaves the variable unchanged.
func (t *Truncate) Update() {
	x := t.Var.Value
	fx := t.Var.GetMessage(t.slot)
	c := x.Pi - fx.Pi
	if c <= 0 {
		log.Debug("truncate update skipped: non-positive precision")
		return
	}
	d := x.Tau - fx.Tau
	sqrtC := math.Sqrt(c)
	vVal := t.V(d/sqrtC, t.Epsilon*sqrtC)
	wVal := t.W(d/sqrtC, t.Epsilon*sqrtC)
	if wVal >= 1 {
		log.Debug("truncate update skipped: W >= 1")
		return
	}
	newVal := gaussian.Gaussian{
		Pi:  c / (1 - wVal),
		Tau: (d + sqrtC*vVal) / (1 - wVal),
	}
	t.Var.UpdateValue(t.slot, newVal)
}
