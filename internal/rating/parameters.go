// Package rating implements the team-based rating update procedure: given a
// ranked set of teams and their current skill estimates, it builds a
// per-match factor graph, runs it to convergence, and returns updated
// (mu, sigma) pairs for every participant.
package rating

import (
	"fmt"
	"math"

	"github.com/openingrank/trueskill/internal/gaussian"
)

// InitialMu and InitialSigma are the default skill prior used when a player
// or opening is first seen.
const (
	InitialMu    = 25.0
	InitialSigma = InitialMu / 3.0
)

// Parameters holds the three global tuning constants of the rating engine.
// It is a plain value type — copied, never mutated in place, matching the
// teacher's preference for small value-semantic configuration structs.
type Parameters struct {
	// Beta is the performance standard deviation: how much a single game's
	// outcome can vary from what raw skill alone predicts.
	Beta float64
	// Epsilon is the draw margin in performance-difference units.
	Epsilon float64
	// Gamma is the default per-game additive uncertainty inflation. Neither
	// UpdateTeams nor the driver reads this field: each Player carries its
	// own Gamma, taken from its skill record.
	Gamma float64
}

// DefaultParameters returns the engine's documented defaults: Beta is 1.5x
// the initial sigma, Gamma is 1% of the initial sigma, and Epsilon is
// derived from a 10% draw probability.
func DefaultParameters() Parameters {
	p := Parameters{
		Beta:  InitialSigma * 1.5,
		Gamma: InitialSigma / 100,
	}
	p.Epsilon = DrawMargin(0.10, 2, p.Beta)
	return p
}

// DrawMargin converts a draw probability into the corresponding epsilon,
// following the inverse of the standard TrueSkill draw-probability relation,
// with n = participantsPerTeam (values below 1 are treated as 1; the callers
// in this module pass 2):
//
//	epsilon = InvCDF((p+1)/2) * sqrt(n) * beta
func DrawMargin(drawProbability float64, participantsPerTeam int, beta float64) float64 {
	if participantsPerTeam < 1 {
		participantsPerTeam = 1
	}
	return gaussian.InvCDF((drawProbability+1)/2) * math.Sqrt(float64(participantsPerTeam)) * beta
}

// NewParameters builds Parameters from Beta and exactly one of epsilon or
// drawProbability. Supplying both is a configuration error: the caller must
// pick one knob. participantsPerTeam scales the draw-probability relation
// and is ignored when epsilon is supplied directly.
func NewParameters(beta float64, epsilon, drawProbability *float64, gamma float64, participantsPerTeam int) (Parameters, error) {
	if epsilon != nil && drawProbability != nil {
		return Parameters{}, fmt.Errorf("rating: specify either epsilon or draw probability, not both")
	}
	p := Parameters{Beta: beta, Gamma: gamma}
	switch {
	case epsilon != nil:
		p.Epsilon = *epsilon
	case drawProbability != nil:
		p.Epsilon = DrawMargin(*drawProbability, participantsPerTeam, beta)
	default:
		p.Epsilon = DrawMargin(0.10, 2, beta)
	}
	return p, nil
}
