package game

import "errors"

// Validation errors are expected and recoverable: they are surfaced to the
// acting client and the engine guarantees no partial mutation occurred.
var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrCannotCheck      = errors.New("cannot check, there is a bet to call")
	ErrInvalidBetAmount = errors.New("invalid bet amount")
	ErrNoAvailableSeat  = errors.New("no available seat")
	ErrNotEnoughPlayers = errors.New("not enough players to start a hand")
	ErrHandInProgress   = errors.New("hand already in progress")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrAlreadySeated    = errors.New("player already seated")
	ErrInvalidBuyIn     = errors.New("buy-in outside table limits")
)
