package game

import (
	"fmt"
	"testing"

	"github.com/tablecraft/holdem/internal/deck"
)

func testSettings() TableSettings {
	return TableSettings{
		MaxPlayers:    9,
		SmallBlind:    5,
		BigBlind:      10,
		MinBuyIn:      100,
		MaxBuyIn:      5000,
		ActionTimeout: 30,
	}
}

// seatPlayers returns a waiting table with players p0..p(n-1) holding the
// given stacks, seated in order.
func seatPlayers(t *testing.T, stacks ...int) *State {
	t.Helper()
	s := NewState("test-table", testSettings())
	for i, chips := range stacks {
		var err error
		s, err = AddPlayer(s, fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), "", testSettings().MinBuyIn)
		if err != nil {
			t.Fatalf("AddPlayer(p%d): %v", i, err)
		}
		s.Players[i].Chips = chips
	}
	return s
}

// dealTestHand seats the given stacks and deals a hand with the button on
// seat 0, so seat 1 posts the small blind and seat 2 the big blind (seat 0
// is the small blind heads-up).
func dealTestHand(t *testing.T, stacks ...int) *State {
	t.Helper()
	s := seatPlayers(t, stacks...)
	s.DealerIndex = len(stacks) - 1
	s, err := StartNewHand(s)
	if err != nil {
		t.Fatalf("StartNewHand: %v", err)
	}
	return s
}

func mustAct(t *testing.T, s *State, playerID string, action Action, amount int) *State {
	t.Helper()
	next, err := HandlePlayerAction(s, playerID, action, amount)
	if err != nil {
		t.Fatalf("HandlePlayerAction(%s, %s, %d): %v", playerID, action, amount, err)
	}
	return next
}

func mustCards(t *testing.T, spec string) []deck.Card {
	t.Helper()
	cards, err := deck.ParseCards(spec)
	if err != nil {
		t.Fatalf("ParseCards(%q): %v", spec, err)
	}
	return cards
}
