// Package evaluator scores five-card poker hands into a total-ordered
// category plus tiebreak value, finds the best five-card hand from up to
// seven cards, and ranks players at showdown.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/tablecraft/holdem/internal/deck"
)

// Category enumerates hand categories ordered from weakest to strongest.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Value encoding: each category gets a disjoint band, and within the band the
// five significance-ordered ranks are weighted positionally. Two results are
// comparable purely by Value; equal Values are exact ties for pot-splitting.
// Suits never contribute beyond flush detection.
const (
	categoryBand = 1_000_000 // > 15^5, so bands cannot overlap
	rankBase     = 15
)

// HandResult is the immutable score of a five-card hand.
type HandResult struct {
	Rank        Category    `json:"rank"`
	Cards       []deck.Card `json:"cards"`
	Value       uint32      `json:"value"`
	Description string      `json:"description"`
}

// Evaluate scores exactly five cards. Anything else is a precondition
// violation and returns an error.
func Evaluate(cards []deck.Card) (HandResult, error) {
	if len(cards) != 5 {
		return HandResult{}, fmt.Errorf("evaluate: expected 5 cards, got %d", len(cards))
	}

	sorted := make([]deck.Card, 5)
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank > sorted[j].Rank })

	flush := isFlush(sorted)
	straightHigh, straight := straightHighRank(sorted)

	var category Category
	var tiebreak []deck.Rank

	counts := rankCounts(sorted)

	switch {
	case flush && straight && straightHigh == deck.Ace:
		category = RoyalFlush
		tiebreak = []deck.Rank{straightHigh}
	case flush && straight:
		category = StraightFlush
		tiebreak = []deck.Rank{straightHigh}
	case counts.quad != 0:
		category = FourOfAKind
		tiebreak = append([]deck.Rank{counts.quad}, counts.kickers...)
	case counts.trips != 0 && len(counts.pairs) > 0:
		category = FullHouse
		tiebreak = []deck.Rank{counts.trips, counts.pairs[0]}
	case flush:
		category = Flush
		tiebreak = ranksOf(sorted)
	case straight:
		category = Straight
		tiebreak = []deck.Rank{straightHigh}
	case counts.trips != 0:
		category = ThreeOfAKind
		tiebreak = append([]deck.Rank{counts.trips}, counts.kickers...)
	case len(counts.pairs) >= 2:
		category = TwoPair
		tiebreak = append([]deck.Rank{counts.pairs[0], counts.pairs[1]}, counts.kickers...)
	case len(counts.pairs) == 1:
		category = Pair
		tiebreak = append([]deck.Rank{counts.pairs[0]}, counts.kickers...)
	default:
		category = HighCard
		tiebreak = ranksOf(sorted)
	}

	return HandResult{
		Rank:        category,
		Cards:       sorted,
		Value:       encodeValue(category, tiebreak),
		Description: describe(category, tiebreak),
	}, nil
}

// FindBestHand evaluates every 5-card subset of the combined hole and
// community cards (at most C(7,5)=21) and returns the maximum by Value.
// Callers must guarantee at least five cards in total.
func FindBestHand(holeCards, communityCards []deck.Card) (HandResult, error) {
	combined := make([]deck.Card, 0, len(holeCards)+len(communityCards))
	combined = append(combined, holeCards...)
	combined = append(combined, communityCards...)

	if len(combined) < 5 {
		return HandResult{}, fmt.Errorf("find best hand: need at least 5 cards, got %d", len(combined))
	}
	if len(combined) == 5 {
		return Evaluate(combined)
	}

	var best HandResult
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
							return HandResult{}, err
						}
						if result.Value > best.Value {
							best = result
						}
					}
				}
			}
		}
	}
	return best, nil
}

func encodeValue(category Category, tiebreak []deck.Rank) uint32 {
	value := uint32(category) * categoryBand
	weight := uint32(rankBase * rankBase * rankBase * rankBase)
	for _, r := range tiebreak {
		value += uint32(r) * weight
		weight /= rankBase
	}
	return value
}

func describe(category Category, tiebreak []deck.Rank) string {
	switch category {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush, Straight:
		return fmt.Sprintf("%s, %s high", category, tiebreak[0].Name())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %ss", tiebreak[0].Name())
	case FullHouse:
		return fmt.Sprintf("Full House, %ss over %ss", tiebreak[0].Name(), tiebreak[1].Name())
	case Flush, HighCard:
		return fmt.Sprintf("%s, %s high", category, tiebreak[0].Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %ss", tiebreak[0].Name())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %ss and %ss", tiebreak[0].Name(), tiebreak[1].Name())
	case Pair:
		return fmt.Sprintf("Pair of %ss", tiebreak[0].Name())
	default:
		return category.String()
	}
}

func isFlush(cards []deck.Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// straightHighRank reports whether the five cards (sorted descending by rank)
// form a straight and its high card. The wheel A-2-3-4-5 counts the ace low,
// making Five the high card.
func straightHighRank(sorted []deck.Card) (deck.Rank, bool) {
	// Wheel: A,5,4,3,2 in descending order.
	if sorted[0].Rank == deck.Ace &&
		sorted[1].Rank == deck.Five &&
		sorted[2].Rank == deck.Four &&
		sorted[3].Rank == deck.Three &&
		sorted[4].Rank == deck.Two {
		return deck.Five, true
	}

	for i := 1; i < 5; i++ {
		if sorted[i-1].Rank != sorted[i].Rank+1 {
			return 0, false
		}
	}
	return sorted[0].Rank, true
}

func ranksOf(cards []deck.Card) []deck.Rank {
	ranks := make([]deck.Rank, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	return ranks
}

type groupCounts struct {
	quad    deck.Rank
	trips   deck.Rank
	pairs   []deck.Rank // descending
	kickers []deck.Rank // descending, ranks not in any group
}

func rankCounts(sorted []deck.Card) groupCounts {
	freq := make(map[deck.Rank]int, 5)
	for _, c := range sorted {
		freq[c.Rank]++
	}

	var g groupCounts
	for _, c := range sorted {
		switch freq[c.Rank] {
		case 4:
			g.quad = c.Rank
		case 3:
			g.trips = c.Rank
		case 2:
			if len(g.pairs) == 0 || g.pairs[len(g.pairs)-1] != c.Rank {
				g.pairs = append(g.pairs, c.Rank)
			}
		case 1:
			g.kickers = append(g.kickers, c.Rank)
		}
	}
	return g
}
