// Package driver implements the rating driver: it folds a stream of
// historical match records into two skill tables (players and deck
// openings), checkpointing periodically and honoring a caller-specified
// match cap.
package driver

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/openingrank/trueskill/internal/matchlog"
	"github.com/openingrank/trueskill/internal/rating"
	"github.com/openingrank/trueskill/internal/scan"
	"github.com/openingrank/trueskill/internal/skill"
)

// DefaultCheckpointCadence matches the reference driver's hardcoded
// checkpoint interval: flush and inflate every 15000 processed records.
const DefaultCheckpointCadence = 15000

// resignedPoints is the ordering-key score forced onto a resigned deck,
// low enough to always sort last.
const resignedPoints = -1000

// inflateStrength is the per-checkpoint uncertainty inflation strength
// applied to both tables.
const inflateStrength = 0.01

// Driver folds a match stream into the player and opening skill tables.
//
// The opening table carries two kinds of key: opening identifiers, and —
// because each opening-combination update is a 2-member team of (opening,
// player) — the player's name too, tracking that player's skill component
// as weighed within the opening model, distinct from (and never
// overwriting) its entry in the player table.
type Driver struct {
	Players  *skill.Table
	Openings *skill.Table
	Params   rating.Parameters
	Scanner  scan.Scanner

	// Checkpoint is how many processed records elapse between a flush +
	// inflate_uncertainty cycle. New replaces a zero or negative value with
	// DefaultCheckpointCadence; Run requires it to be positive.
	Checkpoint int
	// MaxGames caps the number of matches processed this run. Zero means
	// unlimited.
	MaxGames int

	Log *logrus.Entry

	playerKeysInOpenings map[string]struct{}
}

// New builds a Driver with its checkpoint cadence defaulted if unset.
func New(players, openings *skill.Table, params rating.Parameters, scanner scan.Scanner, checkpoint, maxGames int) *Driver {
	if checkpoint <= 0 {
		checkpoint = DefaultCheckpointCadence
	}
	return &Driver{
		Players: players, Openings: openings, Params: params, Scanner: scanner,
		Checkpoint: checkpoint, MaxGames: maxGames,
		Log:                  logrus.WithField("component", "driver"),
		playerKeysInOpenings: make(map[string]struct{}),
	}
}

// Run pulls every match from the scanner, updates both skill tables, and
// checkpoints periodically. It returns the first error encountered, if any.
func (d *Driver) Run(ctx context.Context) error {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out, errc := d.Scanner.Scan(cctx)

	processed := 0
	for {
		if d.MaxGames > 0 && processed >= d.MaxGames {
			cancel()
			break
		}
		match, ok := <-out
		if !ok {
			break
		}
		if err := d.processMatch(ctx, match); err != nil {
			cancel()
			return fmt.Errorf("driver: processing match %d: %w", processed, err)
		}
		processed++

		if processed%d.Checkpoint == 0 {
			if err := d.checkpoint(ctx); err != nil {
				cancel()
				return err
			}
		}
	}

	if err := <-errc; err != nil && cctx.Err() == nil {
		return fmt.Errorf("driver: scanning: %w", err)
	}

	if err := d.checkpoint(ctx); err != nil {
		return err
	}
	if err := d.Scanner.Save(); err != nil {
		return fmt.Errorf("driver: persisting scanner cursor: %w", err)
	}
	d.Log.WithField("processed", processed).Info("rating driver run complete")
	return nil
}

func (d *Driver) checkpoint(ctx context.Context) error {
	if err := d.Players.Flush(ctx); err != nil {
		return fmt.Errorf("driver: flushing player table: %w", err)
	}
	if err := d.Openings.Flush(ctx); err != nil {
		return fmt.Errorf("driver: flushing opening table: %w", err)
	}
	d.Players.InflateUncertainty(skill.InitialSigma, inflateStrength, nil)
	d.Openings.InflateUncertainty(skill.InitialSigma, inflateStrength, d.isPlayerKeyInOpenings)
	return nil
}

// isPlayerKeyInOpenings is the predicate restricting the opening table's
// checkpoint inflation to the player-name half of its combined teams —
// opening identifiers themselves are left alone, matching the distilled
// driver contract's step 6.
func (d *Driver) isPlayerKeyInOpenings(key string) bool {
	_, ok := d.playerKeysInOpenings[key]
	return ok
}

func (d *Driver) processMatch(ctx context.Context, m matchlog.Match) error {
	if !m.HasEnoughDecks() {
		return nil
	}

	keys := make([]orderingKey, len(m.Decks))
	openings := make([]string, len(m.Decks))
	seenOpenings := make(map[string]int, len(m.Decks))
	dubious := false

	for i, dk := range m.Decks {
		points := dk.Points
		if dk.Resigned {
			points = resignedPoints
		}
		keys[i] = orderingKey{negPoints: -points, turns: len(dk.Turns)}
		openings[i] = dk.Opening()
		seenOpenings[openings[i]]++
		if !dk.HasEnoughTurns() {
			dubious = true
		}
	}
	for _, count := range seenOpenings {
		if count > 1 {
			dubious = true
		}
	}
	ranks := denseRanks(keys)

	playerTeams := make([]rating.TeamResult, len(m.Decks))
	for i, dk := range m.Decks {
		rec, err := d.Players.Get(ctx, dk.Name)
		if err != nil {
			return fmt.Errorf("loading player %q: %w", dk.Name, err)
		}
		playerTeams[i] = rating.TeamResult{
			Rank: ranks[i],
			Players: []rating.Player{{
				Key: dk.Name, Contribution: 1.0,
				Current: rating.Rating{Mu: rec.Mu, Sigma: rec.Sigma}, Gamma: rec.Gamma,
			}},
		}
	}
	updatedPlayers, err := rating.UpdateTeams(d.Params, playerTeams)
	if err != nil {
		return fmt.Errorf("updating player table: %w", err)
	}
	for _, dk := range m.Decks {
		r := updatedPlayers[dk.Name]
		if err := d.Players.SetMu(ctx, dk.Name, r.Mu); err != nil {
			return err
		}
		if err := d.Players.SetSigma(ctx, dk.Name, r.Sigma); err != nil {
			return err
		}
	}

	if dubious {
		return nil
	}

	openingKeys := make([]string, len(m.Decks))
	openingTeams := make([]rating.TeamResult, len(m.Decks))
	for i, dk := range m.Decks {
		openingKeys[i] = skill.OpeningKeyPrefix + openings[i]
		d.playerKeysInOpenings[dk.Name] = struct{}{}

		openRec, err := d.Openings.Get(ctx, openingKeys[i])
		if err != nil {
			return fmt.Errorf("loading opening %q: %w", openingKeys[i], err)
		}
		playerInOpenings, err := d.Openings.Get(ctx, dk.Name)
		if err != nil {
			return fmt.Errorf("loading player %q within the opening table: %w", dk.Name, err)
		}
		openingTeams[i] = rating.TeamResult{
			Rank: ranks[i],
			Players: []rating.Player{
				{Key: openingKeys[i], Contribution: 0.5, Current: rating.Rating{Mu: openRec.Mu, Sigma: openRec.Sigma}, Gamma: openRec.Gamma},
				{Key: dk.Name, Contribution: 0.5, Current: rating.Rating{Mu: playerInOpenings.Mu, Sigma: playerInOpenings.Sigma}, Gamma: playerInOpenings.Gamma},
			},
		}
	}
	updatedOpenings, err := rating.UpdateTeams(d.Params, openingTeams)
	if err != nil {
		return fmt.Errorf("updating opening table: %w", err)
	}
	for i, ok := range openingKeys {
		r := updatedOpenings[ok]
		if err := d.Openings.SetMu(ctx, ok, r.Mu); err != nil {
			return err
		}
		if err := d.Openings.SetSigma(ctx, ok, r.Sigma); err != nil {
			return err
		}
		pr := updatedOpenings[m.Decks[i].Name]
		if err := d.Openings.SetMu(ctx, m.Decks[i].Name, pr.Mu); err != nil {
			return err
		}
		if err := d.Openings.SetSigma(ctx, m.Decks[i].Name, pr.Sigma); err != nil {
			return err
		}
	}
	return nil
}
