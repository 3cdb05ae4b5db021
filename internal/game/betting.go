package game

// placeBet is the sole chip-movement primitive: it moves
// min(amount, player.Chips) from the player's stack into their current-round
// bet and the pot, flags an emptied stack as all-in, and lifts the table's
// current bet when overtaken. It mutates s and must only ever run on a clone.
func placeBet(s *State, idx int, amount int) int {
	p := s.Players[idx]
	paid := min(amount, p.Chips)
	if paid <= 0 {
		return 0
	}
	p.Chips -= paid
	p.Bet += paid
	p.TotalBet += paid
	s.Pot += paid
	if p.Chips == 0 {
		p.AllIn = true
	}
	if p.Bet > s.CurrentBet {
		s.CurrentBet = p.Bet
	}
	return paid
}

// PlaceBet returns a new state with min(amount, chips) moved from the
// player's stack into their bet and the pot. All betting actions route
// through this primitive.
func PlaceBet(s *State, playerIndex int, amount int) (*State, error) {
	if playerIndex < 0 || playerIndex >= len(s.Players) {
		return nil, ErrUnknownPlayer
	}
	next := s.Clone()
	placeBet(next, playerIndex, amount)
	return next, nil
}

// HandlePlayerAction validates and applies one player action, then advances
// the turn (which may close the betting round, deal the next street, or end
// the hand). Validation failures return the error with the input state
// untouched; the transition is all-or-nothing.
//
// For Bet and Raise, amount is the player's total bet for the round (the
// amount they are raising to, not the increment).
func HandlePlayerAction(s *State, playerID string, action Action, amount int) (*State, error) {
	idx := s.playerIndex(playerID)
	if idx < 0 {
		return nil, ErrUnknownPlayer
	}
	if !s.HandInProgress() || idx != s.ActivePlayer || !s.Players[idx].Turn {
		return nil, ErrNotYourTurn
	}

	p := s.Players[idx]

	// Validate before cloning so a rejected action cannot leave partial
	// mutations behind.
	switch action {
	case Check:
		if s.CurrentBet > p.Bet {
			return nil, ErrCannotCheck
		}
	case Bet, Raise:
		maxTotal := p.Chips + p.Bet
		if amount > maxTotal || amount <= s.CurrentBet {
			return nil, ErrInvalidBetAmount
		}
		minTotal := s.Settings.BigBlind
		if s.CurrentBet > 0 {
			minTotal = s.CurrentBet + s.MinRaise
		}
		// Going all-in short of the minimum is allowed.
		if amount < minTotal && amount < maxTotal {
			return nil, ErrInvalidBetAmount
		}
	case Call:
		// Calling with nothing owed is a check; make the caller say so.
		if s.CurrentBet <= p.Bet {
			return nil, ErrInvalidBetAmount
		}
	case Fold, AllIn:
		// Always legal on your turn.
	}

	next := s.Clone()
	np := next.Players[idx]
	record := ActionRecord{PlayerID: playerID, Action: action}

	switch action {
	case Fold:
		np.Folded = true
		np.Turn = false

	case Check:
		// No chips move.

	case Call:
		record.Amount = placeBet(next, idx, s.CurrentBet-np.Bet)

	case Bet, Raise:
		previous := next.CurrentBet
		placeBet(next, idx, amount-np.Bet)
		record.Amount = np.Bet
		if np.Bet > previous {
			next.MinRaise = np.Bet - previous
			next.LastRaiseIndex = idx
			next.acted = make([]bool, len(next.Players))
		}

	case AllIn:
		previous := next.CurrentBet
		placeBet(next, idx, np.Chips)
		record.Amount = np.Bet
		// An all-in past the current bet is a raise and reopens action.
		if np.Bet > previous {
			next.MinRaise = np.Bet - previous
			next.LastRaiseIndex = idx
			next.acted = make([]bool, len(next.Players))
		}
	}

	markActed(next, idx)
	next.LastAction = &record

	if sidePotsNeeded(next) {
		next.SidePots = sidePots(next)
	}

	if err := advanceTurn(next, idx); err != nil {
		return nil, err
	}
	return next, nil
}

// advanceTurn moves the game forward after an action at fromIdx: the hand
// ends immediately when one contender remains, the stage advances when the
// betting round has closed, and otherwise the next eligible seat takes the
// turn with a fresh action clock.
func advanceTurn(s *State, fromIdx int) error {
	if s.inHandCount() <= 1 {
		return endHand(s)
	}
	if isBettingRoundComplete(s) {
		s.setTurn(-1)
		return advanceStage(s)
	}
	next := s.nextEligible(fromIdx + 1)
	if next == -1 {
		s.setTurn(-1)
		return advanceStage(s)
	}
	s.setTurn(next)
	return nil
}

// isBettingRoundComplete reports whether the current round has closed:
// every player who can still act has matched the current bet and has acted
// since the last raise. Because posting a blind does not count as acting,
// the big blind keeps its pre-flop option until it checks or raises.
func isBettingRoundComplete(s *State) bool {
	var eligible []int
	for i, p := range s.Players {
		if p.CanAct() {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return true
	}

	for _, i := range eligible {
		if s.Players[i].Bet != s.CurrentBet {
			return false
		}
	}

	// A lone player with live chips has nobody left to bet against once
	// they have matched; the round is over regardless of the acted set.
	if len(eligible) == 1 {
		return true
	}

	for _, i := range eligible {
		if !s.acted[i] {
			return false
		}
	}
	return true
}

func markActed(s *State, idx int) {
	if idx >= 0 && idx < len(s.acted) {
		s.acted[idx] = true
	}
}

// CanPlayerAct mirrors HandlePlayerAction's validation as a pure predicate
// for UI affordances. It is advisory only; HandlePlayerAction re-validates
// independently.
func CanPlayerAct(s *State, playerID string, action Action) bool {
	idx := s.playerIndex(playerID)
	if idx < 0 || !s.HandInProgress() || idx != s.ActivePlayer || !s.Players[idx].Turn {
		return false
	}
	p := s.Players[idx]

	switch action {
	case Fold:
		return true
	case Check:
		return s.CurrentBet == p.Bet
	case Call:
		return s.CurrentBet > p.Bet
	case Bet:
		return s.CurrentBet == 0 && p.Chips > 0
	case Raise:
		return s.CurrentBet > 0 && p.Chips+p.Bet > s.CurrentBet
	case AllIn:
		return p.Chips > 0
	default:
		return false
	}
}

// BetLimits returns the minimum and maximum total bet the player may make
// this turn. The minimum is the big blind for an opening bet or the current
// bet plus the minimum raise, capped by the player's stack (an all-in short
// of the minimum is always permitted).
func BetLimits(s *State, playerID string) (minBet, maxBet int) {
	p := s.Player(playerID)
	if p == nil {
		return 0, 0
	}
	maxBet = p.Chips + p.Bet
	if s.CurrentBet == 0 {
		minBet = s.Settings.BigBlind
	} else {
		minBet = s.CurrentBet + s.MinRaise
	}
	if minBet > maxBet {
		minBet = maxBet
	}
	return minBet, maxBet
}
