package brackets

import "github.com/Dosada05/bracket-engine/models"

// Slot is one seed position in a bracket. A nil slot is a BYE, a slot with
// a nil ID is a participant to be determined.
type Slot = *models.Opponent

// Duel is a pair of slots matched against each other.
type Duel [2]Slot

// MakePairs pairs consecutive slots into duels.
func MakePairs(slots []Slot) []Duel {
	duels := make([]Duel, 0, len(slots)/2)
	for i := 0; i+1 < len(slots); i += 2 {
		duels = append(duels, Duel{slots[i], slots[i+1]})
	}
	return duels
}

// SplitByParity splits slots into the even-indexed and odd-indexed halves.
// Used by the skip-first-round option to send half of the seeds directly to
// the lower bracket.
func SplitByParity(slots []Slot) (even, odd []Slot) {
	for i, slot := range slots {
		if i%2 == 0 {
			even = append(even, slot)
		} else {
			odd = append(odd, slot)
		}
	}
	return even, odd
}

// ByeWinner returns the slot advancing from a duel before any result is
// known. A double BYE propagates a BYE, a single BYE propagates the real
// opponent, and a normal duel propagates a TBD.
func ByeWinner(duel Duel) Slot {
	if duel[0] == nil && duel[1] == nil {
		return nil
	}
	if duel[0] == nil {
		return duel[1].Clone()
	}
	if duel[1] == nil {
		return duel[0].Clone()
	}
	return &models.Opponent{}
}

// ByeWinnerToGrandFinal is ByeWinner with the position set for the first
// slot of the grand final.
func ByeWinnerToGrandFinal(duel Duel) Slot {
	winner := ByeWinner(duel)
	if winner != nil {
		winner.Position = 1
	}
	return winner
}

// ByeLoser returns the slot for the loser of a duel. A duel with a BYE has
// no loser. The position records the match number the loser comes from.
func ByeLoser(duel Duel, index int) Slot {
	if duel[0] == nil || duel[1] == nil {
		return nil
	}
	return &models.Opponent{Position: index + 1}
}

// TransitionToMajor builds the duels of the next major round from the
// winners of the previous round.
func TransitionToMajor(previous []Duel) []Duel {
	duels := make([]Duel, 0, len(previous)/2)
	for i := 0; i+1 < len(previous); i += 2 {
		duels = append(duels, Duel{ByeWinner(previous[i]), ByeWinner(previous[i+1])})
	}
	return duels
}

// TransitionToMinor builds the duels of a minor round of the lower bracket,
// matching ordered winner-bracket losers against the winners of the
// previous major round.
func TransitionToMinor(previous []Duel, losers []Slot, method models.SeedOrdering) ([]Duel, error) {
	ordered := losers
	if method != "" {
		var err error
		ordered, err = Order(losers, method)
		if err != nil {
			return nil, err
		}
	}

	duels := make([]Duel, 0, len(previous))
	for i, duel := range previous {
		duels = append(duels, Duel{ordered[i], ByeWinner(duel)})
	}
	return duels, nil
}
