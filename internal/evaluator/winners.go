package evaluator

// PlayerHand pairs a player id with their best hand result.
type PlayerHand struct {
	ID     string
	Result HandResult
}

// DetermineWinners returns the ids of all players whose hand value equals the
// maximum, in the order encountered. Equal values are true ties and share
// the pot.
func DetermineWinners(players []PlayerHand) []string {
	var winners []string
	var best uint32
	for _, p := range players {
		switch {
		case p.Result.Value > best:
			best = p.Result.Value
			winners = winners[:0]
			winners = append(winners, p.ID)
		case p.Result.Value == best && len(winners) > 0:
			winners = append(winners, p.ID)
		}
	}
	return winners
}
