// Package matchlog defines the shape of a single historical match record
// and the opening-identifier derivation the rating driver folds over.
package matchlog

import (
	"sort"
	"strings"
)

// ResignOpening is the sentinel opening identifier for a deck that resigned
// before completing its second turn.
const ResignOpening = "resign"

// Turn is one deck's actions during a single game turn. Only the
// purchases matter to opening-identifier derivation; other turn data a
// richer match log might carry is out of scope here.
type Turn struct {
	Buys []string
}

// Deck is one participant's play through a match.
type Deck struct {
	Name     string
	Points   int
	Resigned bool
	Turns    []Turn
}

// Match is one completed game: a set of decks and their outcomes.
type Match struct {
	Decks []Deck
}

// HasEnoughTurns reports whether d has at least two recorded turns, the
// minimum needed to derive an opening identifier.
func (d Deck) HasEnoughTurns() bool {
	return len(d.Turns) >= 2
}

// Opening derives the deck's opening identifier: the sorted, "+"-joined
// purchase lists of its first two turns, or ResignOpening if it never
// reached a second turn.
func (d Deck) Opening() string {
	if !d.HasEnoughTurns() {
		return ResignOpening
	}
	buys := append(append([]string{}, d.Turns[0].Buys...), d.Turns[1].Buys...)
	sort.Strings(buys)
	return strings.Join(buys, "+")
}

// HasEnoughDecks reports whether the match has at least two decks with at
// least two turns each — the top-level precondition a match must satisfy
// before any rating update is attempted.
func (m Match) HasEnoughDecks() bool {
	qualifying := 0
	for _, d := range m.Decks {
		if d.HasEnoughTurns() {
			qualifying++
		}
	}
	return len(m.Decks) >= 2 && qualifying >= 2
}
