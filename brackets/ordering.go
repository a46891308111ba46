// Package brackets contains the pure seeding and topology helpers used to
// build and navigate tournament stages. Nothing in this package touches
// storage.
package brackets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/bracket-engine/models"
)

var (
	ErrUnknownOrdering = errors.New("unknown seed ordering method")
	ErrGroupCount      = errors.New("a group count is required for group ordering methods")
)

// IsGroupMethod reports whether the ordering method distributes seeds into
// groups instead of placing them in a single bracket round.
func IsGroupMethod(method models.SeedOrdering) bool {
	return strings.HasPrefix(string(method), "groups.")
}

// Order places items according to the given method. Group methods
// (groups.*) need the group count as an extra argument.
func Order[T any](items []T, method models.SeedOrdering, args ...int) ([]T, error) {
	switch method {
	case models.OrderNatural:
		return append([]T(nil), items...), nil
	case models.OrderReverse:
		return reverse(items), nil
	case models.OrderHalfShift:
		return halfShift(items), nil
	case models.OrderReverseHalfShift:
		return reverseHalfShift(items), nil
	case models.OrderPairFlip:
		return pairFlip(items), nil
	case models.OrderInnerOuter:
		return innerOuter(items), nil
	case models.OrderEffortBalanced:
		if len(args) == 0 {
			return nil, ErrGroupCount
		}
		return effortBalanced(items, args[0]), nil
	case models.OrderSeedOptimized:
		if len(args) == 0 {
			return nil, ErrGroupCount
		}
		return seedOptimized(items, args[0]), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrdering, method)
	}
}

func reverse[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}

// halfShift moves the second half of the list in front of the first half.
func halfShift[T any](items []T) []T {
	half := len(items) / 2
	out := make([]T, 0, len(items))
	out = append(out, items[half:]...)
	return append(out, items[:half]...)
}

// reverseHalfShift reverses each half of the list in place.
func reverseHalfShift[T any](items []T) []T {
	half := len(items) / 2
	out := make([]T, 0, len(items))
	out = append(out, reverse(items[:half])...)
	return append(out, reverse(items[half:])...)
}

func pairFlip[T any](items []T) []T {
	out := make([]T, 0, len(items))
	for i := 0; i+1 < len(items); i += 2 {
		out = append(out, items[i+1], items[i])
	}
	if len(items)%2 == 1 {
		out = append(out, items[len(items)-1])
	}
	return out
}

// innerOuter interleaves the outermost and innermost seeds so that the two
// best seeds can only meet in the final. This is the classic placement for
// the first round of an elimination bracket.
func innerOuter[T any](items []T) []T {
	if len(items) <= 2 {
		return append([]T(nil), items...)
	}

	size := len(items) / 4
	outer := [2][]T{
		append([]T(nil), items[:size]...),
		append([]T(nil), items[3*size:]...),
	}
	inner := [2][]T{
		append([]T(nil), items[size : 2*size]...),
		append([]T(nil), items[2*size : 3*size]...),
	}

	// first of the left list against last of the right list
	takeOuter := func(part *[2][]T) []T {
		a, b := part[0][0], part[1][len(part[1])-1]
		part[0] = part[0][1:]
		part[1] = part[1][:len(part[1])-1]
		return []T{a, b}
	}
	// last of the left list against first of the right list
	takeInner := func(part *[2][]T) []T {
		a, b := part[0][len(part[0])-1], part[1][0]
		part[0] = part[0][:len(part[0])-1]
		part[1] = part[1][1:]
		return []T{a, b}
	}
	hasPairs := func(part [2][]T) bool {
		return len(part[0]) > 0 && len(part[1]) > 0
	}

	out := make([]T, 0, len(items))
	for i := 0; i < (size+1)/2; i++ {
		if hasPairs(outer) {
			out = append(out, takeOuter(&outer)...)
		}
		if hasPairs(inner) {
			out = append(out, takeInner(&inner)...)
		}
		if hasPairs(outer) {
			out = append(out, takeInner(&outer)...)
		}
		if hasPairs(inner) {
			out = append(out, takeOuter(&inner)...)
		}
	}
	return out
}

// effortBalanced deals seeds into groups like cards, so every group gets an
// even spread of strong and weak seeds.
func effortBalanced[T any](items []T, groupCount int) []T {
	out := make([]T, 0, len(items))
	for g := 0; g < groupCount; g++ {
		for i := g; i < len(items); i += groupCount {
			out = append(out, items[i])
		}
	}
	return out
}

// seedOptimized distributes seeds into groups in a snake pattern, keeping
// the strongest seeds apart.
func seedOptimized[T any](items []T, groupCount int) []T {
	groups := make([][]T, groupCount)
	for i, item := range items {
		row := i / groupCount
		col := i % groupCount
		if row%2 == 1 {
			col = groupCount - 1 - col
		}
		groups[col] = append(groups[col], item)
	}
	out := make([]T, 0, len(items))
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}
