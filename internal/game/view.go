package game

import "github.com/tablecraft/holdem/internal/deck"

// PlayerView is the projection of the state safe to send to one player:
// every other live player's hole cards become anonymous face-down
// placeholders until showdown, the deck is stripped, and the shuffle seed is
// withheld until the hand is over (publishing it earlier would let a client
// re-derive the whole deck). Masking follows each card's own FaceDown flag
// rather than the stage, deliberately stricter than revealing everything at
// showdown: folded hands stay hidden even after the hand ends. Views are for
// transmission only, never for server-side logic.
func PlayerView(s *State, playerID string) *State {
	view := s.Clone()
	view.Deck = nil
	if view.Stage != Showdown {
		view.Seed = ""
	}

	for _, p := range view.Players {
		if p.ID == playerID {
			continue
		}
		// Only cards the state machine has turned face up (a contested
		// showdown) travel with their identity. A winner by fold never
		// reveals.
		for i := range p.Cards {
			if p.Cards[i].FaceDown {
				p.Cards[i] = deck.Card{FaceDown: true}
			}
		}
	}
	return view
}
