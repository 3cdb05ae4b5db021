package game

import (
	mathrand "math/rand/v2"

	"github.com/tablecraft/holdem/internal/deck"
	"github.com/tablecraft/holdem/internal/evaluator"
)

// StartNewHand deals the next hand: resets per-hand player state, advances
// the button, posts blinds, shuffles a fresh deck (recording its seed) and
// deals two face-down hole cards to every active player.
//
// Heads-up, the dealer posts the small blind and acts first pre-flop. A
// short-stacked blind post is an implicit all-in.
func StartNewHand(s *State) (*State, error) {
	if s.HandInProgress() {
		return nil, ErrHandInProgress
	}

	funded := 0
	for _, p := range s.Players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return nil, ErrNotEnoughPlayers
	}

	next := s.Clone()

	for _, p := range next.Players {
		p.Bet = 0
		p.TotalBet = 0
		p.Folded = false
		p.Cards = nil
		p.AllIn = false
		p.Dealer = false
		p.SmallBlind = false
		p.BigBlind = false
		p.Turn = false
		p.HandResult = nil
		p.Active = p.Chips > 0
	}
	next.CommunityCards = nil
	next.Pot = 0
	next.SidePots = nil
	next.CurrentBet = 0
	next.MinRaise = next.Settings.BigBlind
	next.LastRaiseIndex = -1
	next.Winners = nil
	next.LastAction = nil
	next.acted = make([]bool, len(next.Players))

	// Advance the button; the table's very first hand seats it randomly.
	if next.DealerIndex < 0 {
		next.DealerIndex = next.nextActive(mathrand.IntN(len(next.Players)))
	} else {
		next.DealerIndex = next.nextActive(next.DealerIndex + 1)
	}
	next.Players[next.DealerIndex].Dealer = true

	var sb, bb int
	if activeCount(next) == 2 {
		sb = next.DealerIndex
		bb = next.nextActive(sb + 1)
	} else {
		sb = next.nextActive(next.DealerIndex + 1)
		bb = next.nextActive(sb + 1)
	}
	next.Players[sb].SmallBlind = true
	next.Players[bb].BigBlind = true
	placeBet(next, sb, next.Settings.SmallBlind)
	placeBet(next, bb, next.Settings.BigBlind)
	// The big blind sets the price even when posted short.
	next.CurrentBet = next.Settings.BigBlind

	shuffled, seed := deck.Shuffle(deck.New())
	next.Deck = shuffled
	next.Seed = seed

	for _, p := range next.Players {
		if !p.Active {
			continue
		}
		cards, rest, err := deck.Deal(next.Deck, 2, true)
		if err != nil {
			return nil, err
		}
		p.Cards = cards
		next.Deck = rest
	}

	next.Stage = PreFlop

	var first int
	if activeCount(next) == 2 {
		first = next.nextEligible(next.DealerIndex)
	} else {
		first = next.nextEligible(bb + 1)
	}
	next.setTurn(first)

	// A short-stacked blind can leave nobody with a live decision; run the
	// board out to showdown.
	if first == -1 || isBettingRoundComplete(next) {
		next.setTurn(-1)
		if err := advanceStage(next); err != nil {
			return nil, err
		}
	}

	return next, nil
}

func activeCount(s *State) int {
	n := 0
	for _, p := range s.Players {
		if p.Active {
			n++
		}
	}
	return n
}

// advanceStage closes the current betting round and opens the next one:
// round bets reset, the next community cards hit the board, and the first
// eligible seat after the dealer takes the turn. From the river the hand
// goes to showdown.
func advanceStage(s *State) error {
	for _, p := range s.Players {
		p.Bet = 0
	}
	s.CurrentBet = 0
	s.MinRaise = s.Settings.BigBlind
	s.LastRaiseIndex = -1
	s.acted = make([]bool, len(s.Players))

	switch s.Stage {
	case PreFlop:
		s.Stage = Flop
		if err := dealCommunity(s, 3); err != nil {
			return err
		}
	case Flop:
		s.Stage = Turn
		if err := dealCommunity(s, 1); err != nil {
			return err
		}
	case Turn:
		s.Stage = River
		if err := dealCommunity(s, 1); err != nil {
			return err
		}
	case River:
		return endHand(s)
	default:
		return nil
	}

	first := s.nextEligible(s.DealerIndex + 1)
	s.setTurn(first)

	// All remaining contenders all-in: nothing to decide, keep dealing.
	if first == -1 && s.inHandCount() > 1 {
		return advanceStage(s)
	}
	// A lone player with live chips has nobody left to bet against.
	if first != -1 && isBettingRoundComplete(s) {
		s.setTurn(-1)
		return advanceStage(s)
	}
	return nil
}

func dealCommunity(s *State, count int) error {
	cards, rest, err := deck.Deal(s.Deck, count, false)
	if err != nil {
		return err
	}
	s.CommunityCards = append(s.CommunityCards, cards...)
	s.Deck = rest
	return nil
}

// endHand finishes the hand. With one contender left they take the whole pot
// unseen; otherwise remaining hole cards are revealed, every contender's
// best five-card hand is scored, and the pot (split into side pots when an
// all-in is short) is divided among the winners. Integer-division remainders
// go to the first winner in evaluation order.
func endHand(s *State) error {
	s.setTurn(-1)
	s.Stage = Showdown

	var contenders []*PlayerState
	for _, p := range s.Players {
		if p.InHand() {
			contenders = append(contenders, p)
		}
	}

	if len(contenders) == 0 {
		return nil
	}

	if len(contenders) == 1 {
		winner := contenders[0]
		amount := s.Pot
		winner.Chips += amount
		s.Pot = 0
		s.Winners = []WinnerInfo{{
			PlayerID:    winner.ID,
			Amount:      amount,
			Description: "win by fold",
		}}
		return nil
	}

	for _, p := range contenders {
		for i := range p.Cards {
			p.Cards[i].FaceDown = false
		}
		result, err := evaluator.FindBestHand(p.Cards, s.CommunityCards)
		if err != nil {
			return err
		}
		r := result
		p.HandResult = &r
	}

	slices := payoutSlices(s)
	won := make(map[string]int)
	order := make([]string, 0, len(contenders))

	for _, slice := range slices {
		winners := sliceWinners(s, slice)
		if len(winners) == 0 {
			continue
		}
		share := slice.Amount / len(winners)
		remainder := slice.Amount % len(winners)
		for i, id := range winners {
			amount := share
			if i == 0 {
				amount += remainder
			}
			if _, seen := won[id]; !seen {
				order = append(order, id)
			}
			won[id] += amount
		}
	}

	s.Winners = make([]WinnerInfo, 0, len(order))
	for _, id := range order {
		p := s.Player(id)
		p.Chips += won[id]
		s.Winners = append(s.Winners, WinnerInfo{
			PlayerID:    id,
			Amount:      won[id],
			HandResult:  p.HandResult,
			Description: p.HandResult.Description,
		})
	}
	s.SidePots = nil
	s.Pot = 0

	return nil
}

// sliceWinners scores one pot slice: the eligible contenders with the
// maximum hand value, in seat order.
func sliceWinners(s *State, pot SidePot) []string {
	hands := make([]evaluator.PlayerHand, 0, len(pot.Eligible))
	for _, id := range pot.Eligible {
		p := s.Player(id)
		if p == nil || !p.InHand() || p.HandResult == nil {
			continue
		}
		hands = append(hands, evaluator.PlayerHand{ID: id, Result: *p.HandResult})
	}
	return evaluator.DetermineWinners(hands)
}

// payoutSlices returns the pot divided for payout: the computed side pots
// when any contender is all-in short of another's total, otherwise one slice
// holding the whole pot.
func payoutSlices(s *State) []SidePot {
	if sidePotsNeeded(s) {
		return sidePots(s)
	}
	eligible := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		if p.InHand() {
			eligible = append(eligible, p.ID)
		}
	}
	return []SidePot{{Amount: s.Pot, Eligible: eligible}}
}
