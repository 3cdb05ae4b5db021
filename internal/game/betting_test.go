package game

import (
	"reflect"
	"testing"
)

func TestActionOutOfTurn(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)
	before := s.Clone()

	if _, err := HandlePlayerAction(s, "p1", Call, 0); err != ErrNotYourTurn {
		t.Fatalf("err = %v, want %v", err, ErrNotYourTurn)
	}
	if _, err := HandlePlayerAction(s, "ghost", Fold, 0); err != ErrUnknownPlayer {
		t.Fatalf("err = %v, want %v", err, ErrUnknownPlayer)
	}
	if !reflect.DeepEqual(before, s) {
		t.Error("rejected action mutated the state")
	}
}

func TestActionWhenNoHandInProgress(t *testing.T) {
	t.Parallel()

	s := seatPlayers(t, 1000, 1000)
	if _, err := HandlePlayerAction(s, "p0", Check, 0); err != ErrNotYourTurn {
		t.Errorf("err = %v, want %v", err, ErrNotYourTurn)
	}
}

func TestCheckBehindABet(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)
	before := s.Clone()

	if _, err := HandlePlayerAction(s, "p0", Check, 0); err != ErrCannotCheck {
		t.Fatalf("err = %v, want %v", err, ErrCannotCheck)
	}
	if !reflect.DeepEqual(before, s) {
		t.Error("rejected check mutated the state")
	}
}

func TestCallWithNothingOwedRejected(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)
	s = mustAct(t, s, "p0", Call, 0)
	s = mustAct(t, s, "p1", Call, 0)

	// The big blind has the bet matched already: checking is the move,
	// calling nothing is not.
	before := s.Clone()
	if _, err := HandlePlayerAction(s, "p2", Call, 0); err != ErrInvalidBetAmount {
		t.Fatalf("err = %v, want %v", err, ErrInvalidBetAmount)
	}
	if !reflect.DeepEqual(before, s) {
		t.Error("rejected call mutated the state")
	}
	if CanPlayerAct(s, "p2", Call) {
		t.Error("CanPlayerAct(Call) = true with the bet matched")
	}
	if !CanPlayerAct(s, "p2", Check) {
		t.Error("CanPlayerAct(Check) = false with the bet matched")
	}
}

func TestBigBlindOptionThenFlop(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)
	s = mustAct(t, s, "p0", Call, 0)
	s = mustAct(t, s, "p1", Call, 0)

	// Everyone has matched but the big blind has not acted: the round stays
	// open for their option.
	if s.Stage != PreFlop {
		t.Fatalf("stage = %v, want %v", s.Stage, PreFlop)
	}
	if s.ActivePlayer != 2 {
		t.Fatalf("active player = %d, want big blind (2)", s.ActivePlayer)
	}

	s = mustAct(t, s, "p2", Check, 0)

	if s.Stage != Flop {
		t.Fatalf("stage = %v, want %v", s.Stage, Flop)
	}
	if len(s.CommunityCards) != 3 {
		t.Errorf("community cards = %d, want 3", len(s.CommunityCards))
	}
	if s.Pot != 30 {
		t.Errorf("pot = %d, want 30", s.Pot)
	}
	if s.CurrentBet != 0 {
		t.Errorf("current bet = %d, want 0", s.CurrentBet)
	}
	for _, p := range s.Players {
		if p.Bet != 0 {
			t.Errorf("%s round bet = %d, want 0", p.ID, p.Bet)
		}
	}
	// Post-flop action starts with the first live seat after the button.
	if s.ActivePlayer != 1 {
		t.Errorf("active player = %d, want 1", s.ActivePlayer)
	}
}

func TestRaiseReopensAction(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)
	s = mustAct(t, s, "p0", Raise, 30)

	if s.CurrentBet != 30 {
		t.Fatalf("current bet = %d, want 30", s.CurrentBet)
	}
	if s.MinRaise != 20 {
		t.Errorf("min raise = %d, want 20", s.MinRaise)
	}
	if s.LastRaiseIndex != 0 {
		t.Errorf("last raise index = %d, want 0", s.LastRaiseIndex)
	}

	s = mustAct(t, s, "p1", Call, 0)
	if s.Stage != PreFlop {
		t.Fatalf("round closed before the big blind responded")
	}
	s = mustAct(t, s, "p2", Call, 0)

	if s.Stage != Flop {
		t.Fatalf("stage = %v, want %v", s.Stage, Flop)
	}
	if s.Pot != 90 {
		t.Errorf("pot = %d, want 90", s.Pot)
	}
	for _, p := range s.Players {
		if p.Chips != 970 {
			t.Errorf("%s chips = %d, want 970", p.ID, p.Chips)
		}
	}
}

func TestRaiseValidation(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)

	cases := []struct {
		name   string
		amount int
	}{
		{"below current bet", 8},
		{"equal to current bet", 10},
		{"below minimum raise", 15},
		{"beyond stack", 1500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := HandlePlayerAction(s, "p0", Raise, tc.amount); err != ErrInvalidBetAmount {
				t.Errorf("raise to %d: err = %v, want %v", tc.amount, err, ErrInvalidBetAmount)
			}
		})
	}
}

func TestShortAllInIsAllowedAndReopens(t *testing.T) {
	t.Parallel()

	// p0 cannot cover a full min-raise but may still push all-in over the
	// current bet.
	s := dealTestHand(t, 15, 1000, 1000)
	s = mustAct(t, s, "p0", AllIn, 0)

	p := s.Players[0]
	if !p.AllIn || p.Chips != 0 || p.Bet != 15 {
		t.Fatalf("after all-in: allIn=%v chips=%d bet=%d", p.AllIn, p.Chips, p.Bet)
	}
	if s.CurrentBet != 15 {
		t.Errorf("current bet = %d, want 15", s.CurrentBet)
	}
	// The short raise still reopens action for everyone else.
	if s.MinRaise != 5 || s.LastRaiseIndex != 0 {
		t.Errorf("minRaise = %d lastRaiseIndex = %d, want 5/0", s.MinRaise, s.LastRaiseIndex)
	}

	s = mustAct(t, s, "p1", Call, 0)
	if s.Players[1].Bet != 15 {
		t.Errorf("caller bet = %d, want 15", s.Players[1].Bet)
	}
	s = mustAct(t, s, "p2", Call, 0)

	if s.Stage != Flop {
		t.Fatalf("stage = %v, want %v", s.Stage, Flop)
	}
	if s.Pot != 45 {
		t.Errorf("pot = %d, want 45", s.Pot)
	}
	// The all-in player no longer takes turns.
	if s.ActivePlayer != 1 {
		t.Errorf("active player = %d, want 1", s.ActivePlayer)
	}
}

func TestPotMatchesCommittedChips(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)

	check := func(s *State) {
		t.Helper()
		total := 0
		for _, p := range s.Players {
			total += p.TotalBet
		}
		if s.Pot != total {
			t.Fatalf("pot = %d, committed chips = %d", s.Pot, total)
		}
	}

	check(s)
	s = mustAct(t, s, "p0", Raise, 40)
	check(s)
	s = mustAct(t, s, "p1", Call, 0)
	check(s)
	s = mustAct(t, s, "p2", Fold, 0)
	check(s)
	s = mustAct(t, s, "p1", Bet, 50)
	check(s)
	s = mustAct(t, s, "p0", Call, 0)
	check(s)
}

func TestBetLimits(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)

	minBet, maxBet := BetLimits(s, "p0")
	if minBet != 20 || maxBet != 1000 {
		t.Errorf("pre-flop limits = %d/%d, want 20/1000", minBet, maxBet)
	}

	// A stack short of the minimum raise caps the minimum at all-in.
	short := dealTestHand(t, 12, 1000, 1000)
	minBet, maxBet = BetLimits(short, "p0")
	if minBet != 12 || maxBet != 12 {
		t.Errorf("short-stack limits = %d/%d, want 12/12", minBet, maxBet)
	}

	s = mustAct(t, s, "p0", Call, 0)
	s = mustAct(t, s, "p1", Call, 0)
	s = mustAct(t, s, "p2", Check, 0)
	// Opening a post-flop round, the minimum bet is the big blind.
	minBet, _ = BetLimits(s, "p1")
	if minBet != 10 {
		t.Errorf("post-flop opening minimum = %d, want 10", minBet)
	}
}

func TestCanPlayerAct(t *testing.T) {
	t.Parallel()

	s := dealTestHand(t, 1000, 1000, 1000)

	if !CanPlayerAct(s, "p0", Fold) || !CanPlayerAct(s, "p0", Call) || !CanPlayerAct(s, "p0", Raise) {
		t.Error("the active player should be able to fold, call and raise")
	}
	if CanPlayerAct(s, "p0", Check) {
		t.Error("check must not be offered behind a bet")
	}
	if CanPlayerAct(s, "p0", Bet) {
		t.Error("bet must not be offered once a bet stands")
	}
	if CanPlayerAct(s, "p1", Fold) {
		t.Error("an out-of-turn player has no actions")
	}
}
