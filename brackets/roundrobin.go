package brackets

import "github.com/Dosada05/bracket-engine/models"

// RoundRobinDistribution builds the rounds of a round-robin group with the
// circle method. Each participant meets every other exactly once. Odd
// participant counts get a BYE slot which is never paired.
func RoundRobinDistribution(participants []Slot) [][]Duel {
	n := len(participants)
	n1 := n
	if n%2 == 1 {
		n1 = n + 1
	}
	roundCount := n1 - 1
	matchPerRound := n1 / 2

	rounds := make([][]Duel, 0, roundCount)
	for round := 0; round < roundCount; round++ {
		matches := make([]Duel, 0, matchPerRound)
		for match := 0; match < matchPerRound; match++ {
			if match == 0 && n%2 == 1 {
				continue
			}
			side1 := (round + match) % (n1 - 1)
			side2 := n1 - 1
			if match != 0 {
				side2 = (round + n1 - 1 - match) % (n1 - 1)
			}
			matches = append(matches, Duel{participants[side1], participants[side2]})
		}
		rounds = append(rounds, matches)
	}
	return rounds
}

// MakeRoundRobinMatches builds the rounds of a round-robin group. The
// double mode appends a second leg with the sides swapped.
func MakeRoundRobinMatches(participants []Slot, mode models.RoundRobinMode) [][]Duel {
	rounds := RoundRobinDistribution(participants)
	if mode != models.RoundRobinDouble {
		return rounds
	}

	for _, round := range RoundRobinDistribution(participants) {
		swapped := make([]Duel, 0, len(round))
		for _, duel := range round {
			swapped = append(swapped, Duel{duel[1], duel[0]})
		}
		rounds = append(rounds, swapped)
	}
	return rounds
}

// MakeGroups splits items into the given number of sequential groups.
func MakeGroups[T any](items []T, groupCount int) [][]T {
	groupSize := (len(items) + groupCount - 1) / groupCount
	groups := make([][]T, 0, groupCount)
	for start := 0; start < len(items); start += groupSize {
		end := start + groupSize
		if end > len(items) {
			end = len(items)
		}
		groups = append(groups, items[start:end])
	}
	return groups
}
