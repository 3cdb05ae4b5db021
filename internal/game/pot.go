package game

import "sort"

// CalculateSidePots returns a new state with SidePots recomputed from the
// players' total bets. It is a derived view: chip totals never depend on it,
// but payout does whenever a contender is all-in for less than another's
// total. It must be recomputed after every all-in, never cached.
func CalculateSidePots(s *State) *State {
	next := s.Clone()
	next.SidePots = sidePots(next)
	return next
}

// sidePotsNeeded reports whether any contender is all-in for less than
// another contender's total bet.
func sidePotsNeeded(s *State) bool {
	maxTotal := 0
	for _, p := range s.Players {
		if p.InHand() && p.TotalBet > maxTotal {
			maxTotal = p.TotalBet
		}
	}
	for _, p := range s.Players {
		if p.InHand() && p.AllIn && p.TotalBet < maxTotal {
			return true
		}
	}
	return false
}

// sidePots splits the pot into ascending bet tiers. Each contender's total
// bet forms a tier; a tier's slice collects every player's contribution up
// to that tier (folded money included) and only contenders who covered the
// tier are eligible to win it. Any folded excess above the top tier folds
// into the last slice so the slices always sum to the pot.
func sidePots(s *State) []SidePot {
	tierSet := make(map[int]bool)
	for _, p := range s.Players {
		if p.InHand() && p.TotalBet > 0 {
			tierSet[p.TotalBet] = true
		}
	}
	if len(tierSet) == 0 {
		return nil
	}
	tiers := make([]int, 0, len(tierSet))
	for t := range tierSet {
		tiers = append(tiers, t)
	}
	sort.Ints(tiers)

	pots := make([]SidePot, 0, len(tiers))
	prev := 0
	distributed := 0
	for _, tier := range tiers {
		pot := SidePot{BetTier: tier}
		for _, p := range s.Players {
			contribution := min(p.TotalBet, tier) - min(p.TotalBet, prev)
			pot.Amount += contribution
			if p.InHand() && p.TotalBet >= tier {
				pot.Eligible = append(pot.Eligible, p.ID)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
			distributed += pot.Amount
		}
		prev = tier
	}

	if len(pots) > 0 && distributed < s.Pot {
		pots[len(pots)-1].Amount += s.Pot - distributed
	}
	return pots
}
