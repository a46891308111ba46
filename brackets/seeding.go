package brackets

import (
	"errors"

	"github.com/Dosada05/bracket-engine/models"
)

var ErrDuplicateParticipant = errors.New("the seeding contains a duplicate participant")

// EnsureNoDuplicates checks that a participant appears at most once in a
// seeding. BYEs may repeat.
func EnsureNoDuplicates(seeding models.Seeding) error {
	seen := make(map[int]struct{}, len(seeding))
	for _, id := range seeding {
		if id == nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			return ErrDuplicateParticipant
		}
		seen[*id] = struct{}{}
	}
	return nil
}

// FixSeeding pads or truncates a seeding to the given size, filling with
// BYEs.
func FixSeeding(seeding models.Seeding, size int) models.Seeding {
	out := make(models.Seeding, size)
	copy(out, seeding)
	return out
}

// BalanceByes spreads the BYEs of a seeding so that matches with a BYE are
// evenly distributed instead of stacked at the end.
func BalanceByes(seeding models.Seeding, size int) models.Seeding {
	nonNull := make(models.Seeding, 0, len(seeding))
	for _, id := range seeding {
		if id != nil {
			nonNull = append(nonNull, id)
		}
	}

	if size == 0 {
		size = NearestPowerOfTwo(len(nonNull))
	}

	// Fewer participants than half the size: every participant gets a BYE.
	if len(nonNull) < size/2 {
		out := make(models.Seeding, 0, size)
		for _, id := range nonNull {
			out = append(out, id, nil)
		}
		return FixSeeding(out, size)
	}

	byeCount := size - len(nonNull)
	headCount := len(nonNull) - byeCount

	out := make(models.Seeding, 0, size)
	// The top seeds play against each other.
	out = append(out, nonNull[:headCount]...)
	// The rest get a BYE each.
	for _, id := range nonNull[headCount:] {
		out = append(out, id, nil)
	}
	return FixSeeding(out, size)
}
