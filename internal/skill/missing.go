package skill

import (
	"context"
	"strings"

	"github.com/openingrank/trueskill/internal/store"
)

// OpeningKeyPrefix disambiguates an opening identifier from a bare player
// name within the opening table, which stores both: every opening-team
// update is a 2-member team of (opening, player), and this driver tracks
// both halves in the same table. Mirrors the "open:" namespace convention
// of the table this design is grounded on.
const OpeningKeyPrefix = "open:"

// InitialMu and InitialSigma mirror the rating engine's default prior and
// are exported here so a caller can feed them into InflateUncertainty
// without importing the rating package just for two constants.
const (
	InitialMu    = 25.0
	InitialSigma = InitialMu / 3.0
)

// PlayerMissing builds the reference driver's player policy: a fresh
// default-prior record (mu=25, sigma=25/3, gamma=0), optionally hydrated
// from s if a prior run already saved this key.
func PlayerMissing(s store.Store) MissingFunc {
	return func(ctx context.Context, key string) (Record, error) {
		if s != nil {
			rec, ok, err := s.Load(ctx, key)
			if err != nil {
				return Record{}, err
			}
			if ok {
				return NewRecord(rec.Mu, rec.Sigma, rec.Gamma), nil
			}
		}
		return NewRecord(InitialMu, InitialSigma, 0), nil
	}
}

// OpeningMissing builds the reference driver's opening policy: always a
// fresh record (mu=0, sigma=25/3, gamma=1e-4), never consulting a durable
// store — openings are seeded in-process only.
func OpeningMissing() MissingFunc {
	return func(_ context.Context, _ string) (Record, error) {
		return NewRecord(0, InitialSigma, 1e-4), nil
	}
}

// OpeningTableMissing builds the combined missing policy for the opening
// table: keys prefixed with OpeningKeyPrefix get the opening policy; any
// other key is a player name tracked within the opening table and gets the
// player policy (optionally hydrated from s).
func OpeningTableMissing(s store.Store) MissingFunc {
	opening := OpeningMissing()
	player := PlayerMissing(s)
	return func(ctx context.Context, key string) (Record, error) {
		if strings.HasPrefix(key, OpeningKeyPrefix) {
			return opening(ctx, key)
		}
		return player(ctx, key)
	}
}
