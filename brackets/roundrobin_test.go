package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func duelIDs(d Duel) [2]int {
	return [2]int{*d[0].ID, *d[1].ID}
}

func TestRoundRobinDistributionEven(t *testing.T) {
	rounds := RoundRobinDistribution([]Slot{slot(1), slot(2), slot(3), slot(4)})
	require.Len(t, rounds, 3)

	assert.Equal(t, [2]int{1, 4}, duelIDs(rounds[0][0]))
	assert.Equal(t, [2]int{2, 3}, duelIDs(rounds[0][1]))
	assert.Equal(t, [2]int{2, 4}, duelIDs(rounds[1][0]))
	assert.Equal(t, [2]int{3, 1}, duelIDs(rounds[1][1]))
	assert.Equal(t, [2]int{3, 4}, duelIDs(rounds[2][0]))
	assert.Equal(t, [2]int{1, 2}, duelIDs(rounds[2][1]))
}

func TestRoundRobinDistributionOdd(t *testing.T) {
	rounds := RoundRobinDistribution([]Slot{slot(1), slot(2), slot(3)})
	require.Len(t, rounds, 3)

	// One participant sits out each round.
	for _, round := range rounds {
		assert.Len(t, round, 1)
	}
	assert.Equal(t, [2]int{2, 3}, duelIDs(rounds[0][0]))
	assert.Equal(t, [2]int{3, 1}, duelIDs(rounds[1][0]))
	assert.Equal(t, [2]int{1, 2}, duelIDs(rounds[2][0]))
}

func TestRoundRobinEveryPairMeetsOnce(t *testing.T) {
	participants := []Slot{slot(1), slot(2), slot(3), slot(4), slot(5), slot(6)}
	rounds := RoundRobinDistribution(participants)
	require.Len(t, rounds, 5)

	met := make(map[[2]int]int)
	for _, round := range rounds {
		for _, duel := range round {
			a, b := *duel[0].ID, *duel[1].ID
			if a > b {
				a, b = b, a
			}
			met[[2]int{a, b}]++
		}
	}
	assert.Len(t, met, 15)
	for pair, count := range met {
		assert.Equal(t, 1, count, "pair %v", pair)
	}
}

func TestMakeRoundRobinMatchesDouble(t *testing.T) {
	participants := []Slot{slot(1), slot(2), slot(3), slot(4)}
	rounds := MakeRoundRobinMatches(participants, models.RoundRobinDouble)
	require.Len(t, rounds, 6)

	// The second leg replays the first one with the sides swapped.
	assert.Equal(t, [2]int{4, 1}, duelIDs(rounds[3][0]))
	assert.Equal(t, [2]int{3, 2}, duelIDs(rounds[3][1]))
}

func TestMakeGroups(t *testing.T) {
	groups := MakeGroups([]int{1, 2, 3, 4, 5, 6, 7, 8}, 3)
	require.Len(t, groups, 3)
	assert.Equal(t, []int{1, 2, 3}, groups[0])
	assert.Equal(t, []int{4, 5, 6}, groups[1])
	assert.Equal(t, []int{7, 8}, groups[2])
}
