package driver

import "sort"

// orderingKey is a deck's (-points, turn_count) comparison key: higher
// points sort first, and among ties, fewer turns sort first.
type orderingKey struct {
	negPoints int
	turns     int
}

func less(a, b orderingKey) bool {
	if a.negPoints != b.negPoints {
		return a.negPoints < b.negPoints
	}
	return a.turns < b.turns
}

func equal(a, b orderingKey) bool {
	return a.negPoints == b.negPoints && a.turns == b.turns
}

// denseRanks converts a slice of ordering keys into dense ranks (0 = best),
// preserving ties: decks with equal keys share a rank, and the next
// distinct key gets the next integer rank (not skipped by the tie's size).
func denseRanks(keys []orderingKey) []int {
	sortedUnique := make([]orderingKey, len(keys))
	copy(sortedUnique, keys)
	sort.Slice(sortedUnique, func(i, j int) bool { return less(sortedUnique[i], sortedUnique[j]) })

	unique := sortedUnique[:0:0]
	for _, k := range sortedUnique {
		if len(unique) == 0 || !equal(unique[len(unique)-1], k) {
			unique = append(unique, k)
		}
	}

	ranks := make([]int, len(keys))
	for i, k := range keys {
		for r, u := range unique {
			if equal(u, k) {
				ranks[i] = r
				break
			}
		}
	}
	return ranks
}
