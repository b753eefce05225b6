package driver

import (
	"context"
	"testing"

	"github.com/openingrank/trueskill/internal/matchlog"
	"github.com/openingrank/trueskill/internal/rating"
	"github.com/openingrank/trueskill/internal/skill"
	"github.com/openingrank/trueskill/internal/store"
)

// sliceScanner is a minimal in-memory Scanner used only by these tests; it
// has no cursor persistence since tests never need to resume it.
type sliceScanner struct {
	matches []matchlog.Match
	saved   int
}

func (s *sliceScanner) Scan(ctx context.Context) (<-chan matchlog.Match, <-chan error) {
	out := make(chan matchlog.Match)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, m := range s.matches[s.saved:] {
			select {
			case out <- m:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc
}

func (s *sliceScanner) Reset() error      { s.saved = 0; return nil }
func (s *sliceScanner) Save() error       { return nil }
func (s *sliceScanner) StatusMsg() string { return "test scanner" }

func twoDeckMatch(aPoints, bPoints int) matchlog.Match {
	return matchlog.Match{Decks: []matchlog.Deck{
		{Name: "alice", Points: aPoints, Turns: []matchlog.Turn{
			{Buys: []string{"copper"}}, {Buys: []string{"estate"}},
		}},
		{Name: "bob", Points: bPoints, Turns: []matchlog.Turn{
			{Buys: []string{"silver"}}, {Buys: []string{"duchy"}},
		}},
	}}
}

func newTestDriver(t *testing.T, matches []matchlog.Match) (*Driver, *skill.Table) {
	t.Helper()
	players := skill.NewTable(store.NewMemory(), skill.PlayerMissing(nil))
	openings := skill.NewTable(store.NewMemory(), skill.OpeningTableMissing(nil))
	params := rating.Parameters{Beta: 25.0 / 6, Epsilon: rating.DrawMargin(0.10, 2, 25.0/6), Gamma: 25.0 / 300}
	d := New(players, openings, params, &sliceScanner{matches: matches}, 1000, 0)
	return d, players
}

func TestDriverProcessesDecisiveMatch(t *testing.T) {
	d, players := newTestDriver(t, []matchlog.Match{twoDeckMatch(20, 5)})
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alice, err := players.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alice.Mu <= skill.InitialMu {
		t.Fatalf("expected winner's mu to rise, got %v", alice.Mu)
	}
}

func TestDriverSigmaMonotonicallyDecreases(t *testing.T) {
	d, players := newTestDriver(t, []matchlog.Match{twoDeckMatch(20, 5), twoDeckMatch(20, 5)})
	ctx := context.Background()

	// Process the first match alone to capture sigma after one game.
	single, singlePlayers := newTestDriver(t, []matchlog.Match{twoDeckMatch(20, 5)})
	if err := single.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	afterOne, _ := singlePlayers.Get(ctx, "alice")

	if err := d.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	afterTwo, _ := players.Get(ctx, "alice")

	if !(afterTwo.Sigma < afterOne.Sigma) {
		t.Fatalf("expected sigma to strictly decrease after a second identical match: after one=%v after two=%v",
			afterOne.Sigma, afterTwo.Sigma)
	}
}

func TestDriverRejectsShortMatch(t *testing.T) {
	short := matchlog.Match{Decks: []matchlog.Deck{
		{Name: "alice", Turns: []matchlog.Turn{{Buys: []string{"copper"}}}},
	}}
	d, players := newTestDriver(t, []matchlog.Match{short})
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := players.Get(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// alice should still be at the untouched default, since the match was
	// rejected before any rating update.
	rec, _ := players.Get(context.Background(), "alice")
	if rec.Mu != skill.InitialMu {
		t.Fatalf("expected an untouched default record, got mu=%v", rec.Mu)
	}
}

func TestDriverHonorsMaxGames(t *testing.T) {
	d, players := newTestDriver(t, []matchlog.Match{twoDeckMatch(20, 5), twoDeckMatch(1, 30)})
	d.MaxGames = 1
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alice, _ := players.Get(context.Background(), "alice")
	if alice.Mu <= skill.InitialMu {
		t.Fatalf("expected only the first (alice-winning) match to apply, got mu=%v", alice.Mu)
	}
}
