package game

// AddPlayer seats a new player at the lowest free seat index with their
// buy-in as their stack. Players joining mid-hand sit out until the next
// hand is dealt.
func AddPlayer(s *State, id, name, avatarURL string, buyIn int) (*State, error) {
	if s.playerIndex(id) >= 0 {
		return nil, ErrAlreadySeated
	}
	if len(s.Players) >= s.Settings.MaxPlayers {
		return nil, ErrNoAvailableSeat
	}
	if buyIn < s.Settings.MinBuyIn || (s.Settings.MaxBuyIn > 0 && buyIn > s.Settings.MaxBuyIn) {
		return nil, ErrInvalidBuyIn
	}

	next := s.Clone()

	seat := lowestFreeSeat(next)
	player := &PlayerState{
		ID:        id,
		Name:      name,
		AvatarURL: avatarURL,
		Chips:     buyIn,
		Seat:      seat,
	}

	// Keep Players ordered by seat so "next seat after" walks are a simple
	// slice traversal.
	pos := 0
	for pos < len(next.Players) && next.Players[pos].Seat < seat {
		pos++
	}
	next.Players = append(next.Players, nil)
	copy(next.Players[pos+1:], next.Players[pos:])
	next.Players[pos] = player

	if len(next.acted) > 0 {
		next.acted = append(next.acted, false)
		copy(next.acted[pos+1:], next.acted[pos:])
		next.acted[pos] = false
	}

	// Positional indexes at or after the insertion point shift right.
	if next.DealerIndex >= pos {
		next.DealerIndex++
	}
	if next.ActivePlayer >= pos {
		next.ActivePlayer++
	}
	if next.LastRaiseIndex >= pos {
		next.LastRaiseIndex++
	}

	return next, nil
}

// RemovePlayer unseats a player. A committed bet stays in the pot; if it was
// their turn the turn advances, and the dealer button moves on if they held
// it. Removing a player can end the hand when only one contender remains.
func RemovePlayer(s *State, id string) (*State, error) {
	idx := s.playerIndex(id)
	if idx < 0 {
		return nil, ErrUnknownPlayer
	}

	next := s.Clone()
	player := next.Players[idx]

	if next.HandInProgress() && player.InHand() {
		// Fold them in place first so round-completion logic sees a
		// consistent table, then physically unseat below.
		player.Folded = true
		markActed(next, idx)
		if next.LastRaiseIndex == idx {
			next.LastRaiseIndex = -1
		}
		if player.Turn {
			if err := advanceTurn(next, idx); err != nil {
				return nil, err
			}
		} else if next.inHandCount() <= 1 {
			if err := endHand(next); err != nil {
				return nil, err
			}
		}
	}

	// Re-resolve the index: advancing the turn never reorders seats, but be
	// explicit about which element goes.
	idx = next.playerIndex(id)
	wasDealer := next.Players[idx].Dealer

	next.Players = append(next.Players[:idx], next.Players[idx+1:]...)
	if len(next.acted) > idx {
		next.acted = append(next.acted[:idx], next.acted[idx+1:]...)
	}

	if next.ActivePlayer > idx {
		next.ActivePlayer--
	} else if next.ActivePlayer == idx {
		next.ActivePlayer = -1
	}
	if next.LastRaiseIndex > idx {
		next.LastRaiseIndex--
	} else if next.LastRaiseIndex == idx {
		next.LastRaiseIndex = -1
	}
	if next.DealerIndex > idx {
		next.DealerIndex--
	} else if next.DealerIndex == idx {
		next.DealerIndex = -1
	}

	if wasDealer && len(next.Players) > 0 {
		// After the splice the seat clockwise of the removed dealer sits at
		// idx (wrapping), so scan from there rather than from seat 0.
		newDealer := next.nextActive(idx)
		if newDealer < 0 {
			newDealer = idx % len(next.Players)
		}
		next.DealerIndex = newDealer
		for i, p := range next.Players {
			p.Dealer = i == newDealer
		}
	}

	return next, nil
}

func lowestFreeSeat(s *State) int {
	taken := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		taken[p.Seat] = true
	}
	for seat := 0; ; seat++ {
		if !taken[seat] {
			return seat
		}
	}
}
