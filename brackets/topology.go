package brackets

import (
	"errors"
	"math/bits"

	"github.com/Dosada05/bracket-engine/models"
)

var ErrPositionNotFound = errors.New("position not found in the match")

// IsPowerOfTwo reports whether n is a power of two. Elimination stages only
// accept power-of-two sizes.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NearestPowerOfTwo returns the smallest power of two greater than or equal
// to n.
func NearestPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// UpperBracketRoundCount returns the number of rounds in an upper bracket
// for the given participant count.
func UpperBracketRoundCount(participantCount int) int {
	return bits.Len(uint(participantCount)) - 1
}

// LowerBracketRoundCount returns the number of rounds in the lower bracket
// for the given participant count.
func LowerBracketRoundCount(participantCount int) int {
	return (UpperBracketRoundCount(participantCount) - 1) * 2
}

// RoundPairCount returns the number of major/minor round pairs in the lower
// bracket for the given participant count.
func RoundPairCount(participantCount int) int {
	return UpperBracketRoundCount(participantCount) - 1
}

// IsDoubleEliminationNecessary reports whether the stage is big enough to
// have a lower bracket and a grand final.
func IsDoubleEliminationNecessary(participantCount int) bool {
	return participantCount > 2
}

// SideOf returns the side a match number feeds into in the next round.
func SideOf(matchNumber int) models.Side {
	if matchNumber%2 == 1 {
		return models.SideOpponent1
	}
	return models.SideOpponent2
}

// DiagonalMatchNumber returns the number of the match the given match feeds
// into from one round to the next.
func DiagonalMatchNumber(matchNumber int) int {
	return (matchNumber + 1) / 2
}

// NextSide returns the side of the next match an opponent of the given
// match will take.
func NextSide(matchNumber, roundNumber, roundCount int, role models.BracketRole) models.Side {
	// Winner bracket final feeds the first slot of the grand final, the
	// lower bracket final feeds the second.
	if role == models.RoleUpperBracket && roundNumber == roundCount {
		return models.SideOpponent1
	}
	if role == models.RoleLowerBracket && roundNumber == roundCount {
		return models.SideOpponent2
	}
	// Lower bracket major rounds feed the second slot of the next minor
	// round, the first slot being taken by a loser from the winner bracket.
	if role == models.RoleLowerBracket && roundNumber%2 == 1 {
		return models.SideOpponent2
	}
	return SideOf(matchNumber)
}

// NextSideLoserBracket returns the side a winner-bracket loser will take in
// its destination lower-bracket match.
func NextSideLoserBracket(wbMatchNumber int, nextMatch *models.Match, roundNumber int) (models.Side, error) {
	if roundNumber > 1 {
		return models.SideOpponent1, nil
	}
	if nextMatch.Opponent1 != nil && nextMatch.Opponent1.Position == wbMatchNumber {
		return models.SideOpponent1, nil
	}
	if nextMatch.Opponent2 != nil && nextMatch.Opponent2.Position == wbMatchNumber {
		return models.SideOpponent2, nil
	}
	return "", ErrPositionNotFound
}

// OriginPosition returns the position stored on one side of a match, which
// points at the source match in the winner bracket.
func OriginPosition(match *models.Match, side models.Side) (int, error) {
	opponent := match.Side(side)
	if opponent == nil || opponent.Position == 0 {
		return 0, ErrPositionNotFound
	}
	return opponent.Position, nil
}

// LoserOrdering returns the ordering method applied to winner-bracket
// losers entering the given lower-bracket round.
func LoserOrdering(seedOrdering []models.SeedOrdering, roundNumberLB int) models.SeedOrdering {
	index := 1 + roundNumberLB/2
	if index >= len(seedOrdering) {
		return ""
	}
	return seedOrdering[index]
}

// LoserMatchNumber returns the number of the lower-bracket match that
// receives the loser of the given winner-bracket match.
func LoserMatchNumber(participantCount, roundNumberLB, wbMatchNumber int, method models.SeedOrdering) (int, error) {
	loserCount := participantCount / 2
	if roundNumberLB > 1 {
		loserCount = participantCount / (1 << (roundNumberLB/2 + 1))
	}

	losers := make([]int, loserCount)
	for i := range losers {
		losers[i] = i + 1
	}

	ordered := losers
	if method != "" {
		var err error
		ordered, err = Order(losers, method)
		if err != nil {
			return 0, err
		}
	}

	matchNumber := 0
	for i, n := range ordered {
		if n == wbMatchNumber {
			matchNumber = i + 1
			break
		}
	}

	if roundNumberLB == 1 {
		return (matchNumber + 1) / 2, nil
	}
	return matchNumber, nil
}

// IsOrderingSupportedUpperBracket reports whether an upper bracket round
// has ordered participants.
func IsOrderingSupportedUpperBracket(roundNumber int) bool {
	return roundNumber == 1
}

// IsOrderingSupportedLoserBracket reports whether a lower bracket round has
// ordered participants. The first round is fully ordered and minor rounds
// receive one ordered loser each, except the last one.
func IsOrderingSupportedLoserBracket(roundNumber, roundCount int) bool {
	return roundNumber == 1 || (roundNumber%2 == 0 && roundNumber < roundCount)
}

// DefaultMinorOrdering returns the default ordering methods for the lower
// bracket by stage size. The first entry is the major ordering of the first
// round, the rest apply to minor rounds.
func DefaultMinorOrdering(participantCount int) []models.SeedOrdering {
	switch participantCount {
	case 4:
		return []models.SeedOrdering{models.OrderNatural, models.OrderReverse}
	case 8:
		return []models.SeedOrdering{models.OrderNatural, models.OrderReverse, models.OrderNatural}
	case 16:
		return []models.SeedOrdering{
			models.OrderNatural, models.OrderReverseHalfShift,
			models.OrderReverse, models.OrderNatural,
		}
	case 32:
		return []models.SeedOrdering{
			models.OrderNatural, models.OrderReverseHalfShift, models.OrderHalfShift,
			models.OrderReverse, models.OrderNatural,
		}
	case 64:
		return []models.SeedOrdering{
			models.OrderNatural, models.OrderReverseHalfShift, models.OrderHalfShift,
			models.OrderReverse, models.OrderReverseHalfShift, models.OrderNatural,
		}
	default:
		return nil
	}
}
