// Package game implements the authoritative state machine for one table's
// hand of Texas Hold'em: seating, blinds, dealing, turn order, betting-round
// completion, stage advancement, side pots and payout.
//
// Every transition takes a *State and returns a new *State value; no
// transition mutates its receiver, blocks, or suspends. Validation errors
// leave the input state untouched. Callers own concurrency: all transitions
// for a table must be serialized through a single owner (see internal/table),
// and turn timeouts are the caller's job, synthesized as fold or check
// actions through the same serialized path.
package game

import (
	"github.com/tablecraft/holdem/internal/deck"
	"github.com/tablecraft/holdem/internal/evaluator"
)

// Stage represents the lifecycle stage of the current hand.
type Stage int

const (
	Waiting Stage = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
)

// String returns the string representation of a stage
func (s Stage) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case PreFlop:
		return "pre-flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// TableSettings is the immutable configuration surface supplied once at
// table creation.
type TableSettings struct {
	MaxPlayers    int `json:"maxPlayers"`
	SmallBlind    int `json:"smallBlind"`
	BigBlind      int `json:"bigBlind"`
	MinBuyIn      int `json:"minBuyIn"`
	MaxBuyIn      int `json:"maxBuyIn"`
	ActionTimeout int `json:"actionTimeout"` // seconds per decision
}

// PlayerState is a seat's state. It is owned exclusively by the State that
// contains it and only ever changes through the state machine's transitions.
type PlayerState struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	AvatarURL  string                `json:"avatarUrl,omitempty"`
	Chips      int                   `json:"chips"`
	Bet        int                   `json:"bet"`      // this betting round
	TotalBet   int                   `json:"totalBet"` // whole hand, drives side pots
	Folded     bool                  `json:"folded"`
	Cards      []deck.Card           `json:"cards"`
	AllIn      bool                  `json:"isAllIn"`
	Dealer     bool                  `json:"isDealer"`
	SmallBlind bool                  `json:"isSmallBlind"`
	BigBlind   bool                  `json:"isBigBlind"`
	Active     bool                  `json:"isActive"` // dealt into the current hand
	Turn       bool                  `json:"isTurn"`
	Seat       int                   `json:"seatIndex"`
	HandResult *evaluator.HandResult `json:"handResult,omitempty"`
}

// CanAct reports whether the player still has decisions to make this hand.
func (p *PlayerState) CanAct() bool {
	return p.Active && !p.Folded && !p.AllIn
}

// InHand reports whether the player still contests the pot.
func (p *PlayerState) InHand() bool {
	return p.Active && !p.Folded
}

// SidePot is a point-in-time slice of the pot restricted to the players who
// covered its tier. Recomputed on demand, never cached across bets.
type SidePot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligiblePlayerIds"`
	BetTier  int      `json:"betTier"` // per-player contribution cap for this slice
}

// WinnerInfo describes one winner's share of a finished hand.
type WinnerInfo struct {
	PlayerID    string                `json:"playerId"`
	Amount      int                   `json:"amount"`
	HandResult  *evaluator.HandResult `json:"handResult,omitempty"`
	Description string                `json:"description"`
}

// ActionRecord is the last applied action, kept for display layers.
type ActionRecord struct {
	PlayerID string `json:"playerId"`
	Action   Action `json:"action"`
	Amount   int    `json:"amount,omitempty"`
}

// State is the full authoritative state of one table. Snapshots handed out
// by transitions are value-independent: no mutable data is shared between an
// input state and the state a transition returns.
type State struct {
	TableID        string         `json:"tableId"`
	Settings       TableSettings  `json:"tableSettings"`
	Players        []*PlayerState `json:"players"`
	CommunityCards []deck.Card    `json:"communityCards"`
	Deck           []deck.Card    `json:"-"`
	Pot            int            `json:"pot"`
	SidePots       []SidePot      `json:"sidePots,omitempty"`
	CurrentBet     int            `json:"currentBet"`
	Stage          Stage          `json:"stage"`
	ActivePlayer   int            `json:"activePlayerIndex"`
	DealerIndex    int            `json:"dealerIndex"`
	LastRaiseIndex int            `json:"lastRaiseIndex"`
	MinRaise       int            `json:"minRaise"`
	TimeLeft       int            `json:"timeLeft"`
	Seed           string         `json:"seed,omitempty"`
	Winners        []WinnerInfo   `json:"winners,omitempty"`
	LastAction     *ActionRecord  `json:"lastAction,omitempty"`

	// Betting-round bookkeeping: which seats have acted since the last
	// raise. Cleared on every raise, rebuilt at every new street. Blinds do
	// not count as acting, which is what gives the big blind its pre-flop
	// option.
	acted []bool
}

// NewState creates the long-lived state for a table: waiting stage, no
// players. One State lineage persists across many hands.
func NewState(tableID string, settings TableSettings) *State {
	return &State{
		TableID:        tableID,
		Settings:       settings,
		Stage:          Waiting,
		ActivePlayer:   -1,
		DealerIndex:    -1,
		LastRaiseIndex: -1,
	}
}

// Clone returns a deep copy. Transitions clone first and mutate the copy so
// that every returned snapshot is independent of its predecessor.
func (s *State) Clone() *State {
	c := *s

	if s.Players != nil {
		c.Players = make([]*PlayerState, len(s.Players))
	}
	for i, p := range s.Players {
		cp := *p
		cp.Cards = append([]deck.Card(nil), p.Cards...)
		if p.HandResult != nil {
			hr := *p.HandResult
			hr.Cards = append([]deck.Card(nil), p.HandResult.Cards...)
			cp.HandResult = &hr
		}
		c.Players[i] = &cp
	}

	c.CommunityCards = append([]deck.Card(nil), s.CommunityCards...)
	c.Deck = append([]deck.Card(nil), s.Deck...)

	if s.SidePots != nil {
		c.SidePots = make([]SidePot, len(s.SidePots))
		for i, sp := range s.SidePots {
			sp.Eligible = append([]string(nil), sp.Eligible...)
			c.SidePots[i] = sp
		}
	}

	if s.Winners != nil {
		c.Winners = make([]WinnerInfo, len(s.Winners))
		for i, w := range s.Winners {
			if w.HandResult != nil {
				hr := *w.HandResult
				hr.Cards = append([]deck.Card(nil), w.HandResult.Cards...)
				w.HandResult = &hr
			}
			c.Winners[i] = w
		}
	}

	if s.LastAction != nil {
		la := *s.LastAction
		c.LastAction = &la
	}

	c.acted = append([]bool(nil), s.acted...)

	return &c
}

// Player returns the seat state for the given id, or nil.
func (s *State) Player(id string) *PlayerState {
	i := s.playerIndex(id)
	if i < 0 {
		return nil
	}
	return s.Players[i]
}

func (s *State) playerIndex(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// HandInProgress reports whether a hand is currently being played.
func (s *State) HandInProgress() bool {
	return s.Stage != Waiting && s.Stage != Showdown
}

// nextEligible returns the index of the first player at or after `from`
// (wrapping) who can still act, or -1 if none remain.
func (s *State) nextEligible(from int) int {
	n := len(s.Players)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		idx := ((from+i)%n + n) % n
		if s.Players[idx].CanAct() {
			return idx
		}
	}
	return -1
}

// nextActive returns the index of the first player at or after `from`
// (wrapping) who is dealt into the hand, regardless of all-in status.
func (s *State) nextActive(from int) int {
	n := len(s.Players)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		idx := ((from+i)%n + n) % n
		if s.Players[idx].Active {
			return idx
		}
	}
	return -1
}

// inHandCount counts players still contesting the pot.
func (s *State) inHandCount() int {
	n := 0
	for _, p := range s.Players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// setTurn points the turn marker at idx, clearing all others and resetting
// the action clock. Exactly one player holds the turn during betting stages.
func (s *State) setTurn(idx int) {
	for i, p := range s.Players {
		p.Turn = i == idx
	}
	s.ActivePlayer = idx
	if idx >= 0 {
		s.TimeLeft = s.Settings.ActionTimeout
	} else {
		s.TimeLeft = 0
	}
}
