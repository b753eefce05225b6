package driver

import "testing"

func TestDenseRanksPreservesTies(t *testing.T) {
	keys := []orderingKey{
		{negPoints: -20, turns: 10}, // best
		{negPoints: -5, turns: 8},
		{negPoints: -5, turns: 8}, // tied with previous
		{negPoints: 0, turns: 12}, // worst
	}
	ranks := denseRanks(keys)
	want := []int{0, 1, 1, 2}
	for i := range want {
		if ranks[i] != want[i] {
			t.Fatalf("rank %d: expected %d, got %d (full: %v)", i, want[i], ranks[i], ranks)
		}
	}
}

func TestDenseRanksAllDistinct(t *testing.T) {
	keys := []orderingKey{{negPoints: -3}, {negPoints: -2}, {negPoints: -1}}
	ranks := denseRanks(keys)
	for i, r := range ranks {
		if r != i {
			t.Fatalf("expected rank %d at index %d, got %d", i, i, r)
		}
	}
}
