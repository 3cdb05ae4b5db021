package game

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPlayerViewMasksOpponents(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)
	view := PlayerView(s, "p1")

	if view.Deck != nil {
		t.Error("view still carries the deck")
	}
	if view.Seed != "" {
		t.Error("shuffle seed leaked before showdown")
	}

	own := view.Player("p1")
	for i, c := range own.Cards {
		if c.Rank == 0 {
			t.Errorf("own card %d was masked", i)
		}
	}
	for _, id := range []string{"p0", "p2"} {
		for i, c := range view.Player(id).Cards {
			if c.Rank != 0 || c.Suit != 0 || !c.FaceDown {
				t.Errorf("%s card %d leaked: %+v", id, i, c)
			}
		}
	}
}

func TestPlayerViewIsIndependent(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)
	view := PlayerView(s, "p0")

	view.Players[1].Chips = 0
	view.Pot = 9999
	if s.Players[1].Chips == 0 || s.Pot == 9999 {
		t.Error("mutating a view reached the source state")
	}
}

func TestPlayerViewAtShowdown(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 100, 200, 200)
	s.Players[0].Cards = mustCards(t, "2h7d")
	s.Players[1].Cards = mustCards(t, "AhAd")
	s.Players[2].Cards = mustCards(t, "KhKd")
	s.Deck = mustCards(t, "2s5s9cJcQh")

	s = mustAct(t, s, "p0", AllIn, 0)
	s = mustAct(t, s, "p1", AllIn, 0)
	s = mustAct(t, s, "p2", Call, 0)

	view := PlayerView(s, "p0")
	if view.Seed == "" {
		t.Error("seed should be published at showdown for shuffle audit")
	}
	for _, id := range []string{"p1", "p2"} {
		for _, c := range view.Player(id).Cards {
			if c.Rank == 0 {
				t.Errorf("%s cards should be revealed at showdown", id)
			}
		}
	}
}

func TestPlayerViewWinByFoldRevealsNothing(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)
	s = mustAct(t, s, "p0", Fold, 0)
	s = mustAct(t, s, "p1", Fold, 0)

	// p2 won unseen; their cards stay hidden even though the hand is over.
	view := PlayerView(s, "p0")
	for _, c := range view.Player("p2").Cards {
		if c.Rank != 0 || !c.FaceDown {
			t.Errorf("fold winner's card leaked: %+v", c)
		}
	}
}

func TestPlayerViewSerialization(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)
	view := PlayerView(s, "p0")

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	body := string(data)
	if strings.Contains(body, `"seed"`) {
		t.Error("serialized view contains the shuffle seed")
	}
	// The deck field is excluded from serialization entirely.
	if strings.Contains(body, `"deck"`) {
		t.Error("serialized view contains the deck")
	}
}
