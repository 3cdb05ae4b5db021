package deck

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/charmbracelet/log"
	mathrand "math/rand/v2"
)

// Size is the number of cards in a full deck.
const Size = 52

// ErrInsufficientCards is returned when a deal requests more cards than the
// deck holds. With at most 9 players (18 hole cards) plus 5 community cards
// this is unreachable at a correctly configured table, so hitting it means a
// configuration or invariant bug and the hand should be aborted.
var ErrInsufficientCards = errors.New("insufficient cards in deck")

// New returns an ordered 52-card deck, one card per (suit, rank) pair.
func New() []Card {
	cards := make([]Card, 0, Size)
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Shuffle returns a shuffled copy of the deck along with the seed the
// permutation was derived from. The swap index for every Fisher-Yates step is
// derived from SHA-256(seed:i), so publishing the seed after the hand lets
// anyone re-derive the exact permutation without storing it.
//
// If the system's strong randomness source fails, Shuffle falls back to a
// plain math/rand shuffle with an empty seed and logs the degradation; a
// table never goes down because the entropy pool hiccupped.
func Shuffle(cards []Card) ([]Card, string) {
	seed := make([]byte, 16)
	if _, err := rand.Read(seed); err != nil {
		log.Warn("strong randomness unavailable, falling back to system RNG", "err", err)
		shuffled := make([]Card, len(cards))
		copy(shuffled, cards)
		mathrand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		return shuffled, ""
	}
	s := hex.EncodeToString(seed)
	return ShuffleWithSeed(cards, s), s
}

// ShuffleWithSeed deterministically shuffles a copy of the deck using the
// given seed. Re-running it with a published seed reproduces the shuffle
// for audit.
func ShuffleWithSeed(cards []Card, seed string) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := swapIndex(seed, i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// swapIndex derives the Fisher-Yates swap target for position i from the seed.
func swapIndex(seed string, i int) int {
	sum := sha256.Sum256([]byte(seed + ":" + strconv.Itoa(i)))
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(i+1))
}

// Deal takes count cards from the front of the deck, stamping the requested
// visibility, and returns them with the shortened deck. The remaining cards
// keep their order.
func Deal(cards []Card, count int, faceDown bool) (dealt, rest []Card, err error) {
	if count < 0 || count > len(cards) {
		return nil, cards, ErrInsufficientCards
	}
	dealt = make([]Card, count)
	copy(dealt, cards[:count])
	for i := range dealt {
		dealt[i].FaceDown = faceDown
	}
	rest = make([]Card, len(cards)-count)
	copy(rest, cards[count:])
	return dealt, rest, nil
}
