package evaluator

import (
	"testing"

	"github.com/tablecraft/holdem/internal/deck"
)

func mustCards(t *testing.T, s string) []deck.Card {
	t.Helper()
	cards, err := deck.ParseCards(s)
	if err != nil {
		t.Fatalf("bad cards %q: %v", s, err)
	}
	return cards
}

func mustEvaluate(t *testing.T, s string) HandResult {
	t.Helper()
	result, err := Evaluate(mustCards(t, s))
	if err != nil {
		t.Fatalf("evaluate %q: %v", s, err)
	}
	return result
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards string
		want  Category
	}{
		{"royal flush", "AsKsQsJsTs", RoyalFlush},
		{"straight flush", "9h8h7h6h5h", StraightFlush},
		{"steel wheel", "5c4c3c2cAc", StraightFlush},
		{"four of a kind", "7h7d7c7sKd", FourOfAKind},
		{"full house", "KhKdKc2s2h", FullHouse},
		{"flush", "AhJh9h6h3h", Flush},
		{"straight", "Th9c8d7s6h", Straight},
		{"wheel", "5h4c3d2sAh", Straight},
		{"three of a kind", "QhQdQc8s4h", ThreeOfAKind},
		{"two pair", "JhJd8c8sAh", TwoPair},
		{"pair", "ThTd7c5s2h", Pair},
		{"high card", "AhJd9c6s3h", HighCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := mustEvaluate(t, tt.cards)
			if result.Rank != tt.want {
				t.Errorf("expected %s, got %s (%s)", tt.want, result.Rank, result.Description)
			}
			if len(result.Cards) != 5 {
				t.Errorf("expected 5 result cards, got %d", len(result.Cards))
			}
		})
	}
}

func TestEvaluateRequiresFiveCards(t *testing.T) {
	t.Parallel()

	if _, err := Evaluate(mustCards(t, "AsKs")); err == nil {
		t.Error("expected error for 2 cards")
	}
	if _, err := Evaluate(mustCards(t, "AsKsQsJsTs9s")); err == nil {
		t.Error("expected error for 6 cards")
	}
}

func TestCategoryOrderingByValue(t *testing.T) {
	t.Parallel()

	// Strongest hand per category, weakest first. Every category's weakest
	// representative must still beat the strongest of the category below.
	ladder := []string{
		"7h5d4c3s2h", // worst high card
		"2h2d5c4s3h", // worst pair
		"3h3d2c2sAh", // two pair
		"2h2d2c4s3h", // worst trips
		"5h4c3d2sAh", // wheel straight
		"7h5h4h3h2h", // worst flush
		"2h2d2c3s3h", // worst full house
		"2h2d2c2s3h", // worst quads
		"6h5h4h3h2h", // worst straight flush
		"AsKsQsJsTs", // royal flush
	}

	prev := uint32(0)
	for _, s := range ladder {
		result := mustEvaluate(t, s)
		if result.Value <= prev {
			t.Errorf("%s (%s, value %d) does not exceed previous category (value %d)",
				s, result.Rank, result.Value, prev)
		}
		prev = result.Value
	}
}

func TestTiebreakWithinCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stronger string
		weaker   string
	}{
		{"higher pair wins", "KhKd7c5s2h", "QhQdAc5s2h"},
		{"kicker breaks pair tie", "KhKd7c5s2h", "KsKc6c5d2d"},
		{"two pair by high pair", "AhAd2c2sKh", "KhKdQcQsAc"},
		{"straight by high card", "Th9c8d7s6h", "9h8c7d6s5c"},
		{"wheel is lowest straight", "6h5c4d3s2h", "5h4c3d2sAh"},
		{"quads by rank", "8h8d8c8s2h", "7h7d7c7sAd"},
		{"full house by trips", "QhQdQc2s2h", "JhJdJcAsAh"},
		{"flush by top card", "Ah9h7h5h3h", "Kh9h7h5h3h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := mustEvaluate(t, tt.stronger)
			b := mustEvaluate(t, tt.weaker)
			if a.Value <= b.Value {
				t.Errorf("%s (%d) should beat %s (%d)", tt.stronger, a.Value, tt.weaker, b.Value)
			}
		})
	}
}

func TestSuitsNeverBreakTies(t *testing.T) {
	t.Parallel()

	a := mustEvaluate(t, "AhKhQd9c5s")
	b := mustEvaluate(t, "AsKsQc9d5h")
	if a.Value != b.Value {
		t.Errorf("identical ranks in different suits must tie: %d vs %d", a.Value, b.Value)
	}
}

func TestFindBestHandBeatsEverySubset(t *testing.T) {
	t.Parallel()

	hole := mustCards(t, "AhKh")
	community := mustCards(t, "QhJhTh7c2d")

	best, err := FindBestHand(hole, community)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.Rank != RoyalFlush {
		t.Fatalf("expected royal flush, got %s", best.Rank)
	}

	combined := append(append([]deck.Card{}, hole...), community...)
	subset := make([]deck.Card, 5)
	n := len(combined)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						subset[0], subset[1], subset[2], subset[3], subset[4] =
							combined[a], combined[b], combined[c], combined[d], combined[e]
						result, err := Evaluate(subset)
						if err != nil {
							t.Fatal(err)
						}
						if result.Value > best.Value {
							t.Fatalf("subset %v (%d) beats FindBestHand result (%d)",
								subset, result.Value, best.Value)
						}
					}
				}
			}
		}
	}
}

func TestFindBestHandWithFiveCards(t *testing.T) {
	t.Parallel()

	best, err := FindBestHand(mustCards(t, "AhAd"), mustCards(t, "AcKs2h"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.Rank != ThreeOfAKind {
		t.Errorf("expected three of a kind, got %s", best.Rank)
	}

	if _, err := FindBestHand(mustCards(t, "AhAd"), mustCards(t, "AcKs")); err == nil {
		t.Error("expected error with fewer than 5 total cards")
	}
}

func TestDetermineWinners(t *testing.T) {
	t.Parallel()

	strong := mustEvaluate(t, "KhKd7c5s2h")
	weak := mustEvaluate(t, "QhQdAc5s2h")

	winners := DetermineWinners([]PlayerHand{
		{ID: "a", Result: weak},
		{ID: "b", Result: strong},
		{ID: "c", Result: weak},
	})
	if len(winners) != 1 || winners[0] != "b" {
		t.Errorf("expected [b], got %v", winners)
	}
}

func TestDetermineWinnersTie(t *testing.T) {
	t.Parallel()

	// Identical category and tiebreaks in different suits: a true tie.
	a := mustEvaluate(t, "AhKhQd9c5s")
	b := mustEvaluate(t, "AsKsQc9d5h")

	winners := DetermineWinners([]PlayerHand{
		{ID: "first", Result: a},
		{ID: "second", Result: b},
	})
	if len(winners) != 2 || winners[0] != "first" || winners[1] != "second" {
		t.Errorf("expected both winners in encounter order, got %v", winners)
	}
}
