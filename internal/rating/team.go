package rating

import (
	"errors"
	"fmt"
	"sort"

	"github.com/openingrank/trueskill/internal/gaussian"
	"github.com/openingrank/trueskill/internal/graph"
)

// ErrInvalidTeamResult is returned when a call's team/participant shape
// cannot be turned into a factor graph: too few teams, an empty team, a
// player with an empty key, or (for AdjustPlayers) ratings, ranks and keys
// of unequal length.
var ErrInvalidTeamResult = errors.New("rating: invalid team result")

// Rating is the (mu, sigma) view of a participant's skill, independent of
// how the caller stores it durably.
type Rating struct {
	Mu, Sigma float64
}

func fromGaussian(g gaussian.Gaussian) Rating {
	mu, sigma := g.MuSigma()
	return Rating{Mu: mu, Sigma: sigma}
}

// Player is one participant's current rating and its weight in its team's
// performance sum. A solo participant has Contribution 1.0; team games
// typically split contribution evenly across teammates (e.g. 1/N), though
// the caller is free to weight unevenly. Gamma is that player's per-game
// uncertainty inflation; it widens the prior built for this match only
// (sigma + gamma), distinct from the skill table's periodic
// inflate_uncertainty sweep.
type Player struct {
	Key          string
	Current      Rating
	Gamma        float64
	Contribution float64
}

func (p Player) priorGaussian() gaussian.Gaussian {
	return gaussian.FromMuSigma(p.Current.Mu, p.Current.Sigma+p.Gamma)
}

// TeamResult is one team's roster and its finishing position. Rank 0 is
// first place; equal ranks denote a draw between those teams. Ranks need
// not be contiguous — only their relative order matters.
type TeamResult struct {
	Players []Player
	Rank    int
}

func (t TeamResult) validate() error {
	if len(t.Players) == 0 {
		return fmt.Errorf("%w: team has no players", ErrInvalidTeamResult)
	}
	for _, p := range t.Players {
		if p.Key == "" {
			return fmt.Errorf("%w: player with empty key", ErrInvalidTeamResult)
		}
	}
	return nil
}

// UpdateTeams runs the rating update procedure over a ranked set of teams
// and returns every participant's updated rating, keyed by Player.Key.
//
// The procedure: sort teams by rank, build one skill/performance variable
// per player plus one team-performance variable per team and one
// team-difference variable between each pair of adjacent teams in rank
// order; wire Prior, Likelihood and Sum factors accordingly; sweep
// downward from skills to differences; iterate the truncation step at each
// difference to a fixed point; sweep back upward from differences to
// skills; and read off each skill variable's marginal.
func UpdateTeams(params Parameters, teams []TeamResult) (map[string]Rating, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: need at least two teams, got %d", ErrInvalidTeamResult, len(teams))
	}
	for _, t := range teams {
		if err := t.validate(); err != nil {
			return nil, err
		}
	}

	ordered := make([]TeamResult, len(teams))
	copy(ordered, teams)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Rank < ordered[j].Rank })

	betaSq := params.Beta * params.Beta

	type playerVars struct {
		key    string
		skill  *graph.Variable
		prior  *graph.Prior
		perf   *graph.Variable
		likely *graph.Likelihood
	}

	teamPlayers := make([][]playerVars, len(ordered))
	teamPerf := make([]*graph.Variable, len(ordered))
	teamSum := make([]*graph.Sum, len(ordered))

	for ti, team := range ordered {
		players := make([]playerVars, len(team.Players))
		perfVars := make([]*graph.Variable, len(team.Players))
		coeffs := make([]float64, len(team.Players))
		for pi, p := range team.Players {
			skill := graph.NewVariable()
			prior := graph.NewPrior(skill, p.priorGaussian())
			perf := graph.NewVariable()
			likely := graph.NewLikelihood(skill, perf, betaSq)
			players[pi] = playerVars{key: p.Key, skill: skill, prior: prior, perf: perf, likely: likely}
			perfVars[pi] = perf
			coeffs[pi] = p.Contribution
		}
		teamPlayers[ti] = players
		tperf := graph.NewVariable()
		teamPerf[ti] = tperf
		teamSum[ti] = graph.NewSum(tperf, perfVars, coeffs)
	}

	nDiffs := len(ordered) - 1
	diffs := make([]*graph.Variable, nDiffs)
	diffSums := make([]*graph.Sum, nDiffs)
	truncates := make([]*graph.Truncate, nDiffs)
	for m := 0; m < nDiffs; m++ {
		d := graph.NewVariable()
		diffs[m] = d
		diffSums[m] = graph.NewSum(d, []*graph.Variable{teamPerf[m], teamPerf[m+1]}, []float64{1, -1})

		v, w := graph.Vwin, graph.Wwin
		if ordered[m].Rank == ordered[m+1].Rank {
			v, w = graph.Vdraw, graph.Wdraw
		}
		truncates[m] = graph.NewTruncate(d, v, w, params.Epsilon)
	}

	// Downward sweep: priors, skill->performance, performance->team
	// performance.
	for _, players := range teamPlayers {
		for _, pv := range players {
			pv.prior.Start()
		}
	}
	for _, players := range teamPlayers {
		for _, pv := range players {
			pv.likely.UpdateValue()
		}
	}
	for _, s := range teamSum {
		s.UpdateSum()
	}

	// Fixed point loop: five passes over the truncation layer, each
	// re-deriving the difference marginal, moment-matching it against the
	// win/draw comparison, and pushing the result back onto both team
	// performances that feed it.
	const iterations = 5
	for iter := 0; iter < iterations; iter++ {
		for m := 0; m < nDiffs; m++ {
			diffSums[m].UpdateSum()
			truncates[m].Update()
			diffSums[m].UpdateTerm(0)
			diffSums[m].UpdateTerm(1)
		}
	}

	// Upward sweep: team performance->individual performance,
	// performance->skill.
	for ti, s := range teamSum {
		for pi := range teamPlayers[ti] {
			s.UpdateTerm(pi)
		}
	}
	for _, players := range teamPlayers {
		for _, pv := range players {
			pv.likely.UpdateMean()
		}
	}

	out := make(map[string]Rating)
	for _, players := range teamPlayers {
		for _, pv := range players {
			out[pv.key] = fromGaussian(pv.skill.Value)
		}
	}
	return out, nil
}

// AdjustPlayers is the single-player convenience path: a match with one
// team per entry of ratings, where every team has exactly one player and
// full (1.0) contribution.
func AdjustPlayers(params Parameters, ratings []Rating, ranks []int, keys []string) (map[string]Rating, error) {
	if len(ratings) != len(ranks) || len(ratings) != len(keys) {
		return nil, fmt.Errorf("%w: ratings, ranks and keys must have equal length", ErrInvalidTeamResult)
	}
	teams := make([]TeamResult, len(ratings))
	for i := range ratings {
		teams[i] = TeamResult{
			Rank:    ranks[i],
			Players: []Player{{Key: keys[i], Current: ratings[i], Contribution: 1.0}},
		}
	}
	return UpdateTeams(params, teams)
}
