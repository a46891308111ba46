package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/storage"
)

// Find locates groups and matches inside a stored stage.
type Find interface {
	// UpperBracket returns the only bracket of a single elimination stage
	// or the winner bracket of a double elimination stage.
	UpperBracket(ctx context.Context, stageID int) (*models.Group, error)
	// LoserBracket returns the loser bracket of a double elimination stage.
	LoserBracket(ctx context.Context, stageID int) (*models.Group, error)
	// Match returns the match with the given number in the given round of a
	// group.
	Match(ctx context.Context, groupID, roundNumber, matchNumber int) (*models.Match, error)
	// PreviousMatches returns the matches leading to the given match. With
	// a participant it returns the previous matches from their point of
	// view.
	PreviousMatches(ctx context.Context, matchID int, participantID *int) ([]*models.Match, error)
	// NextMatches returns the matches following the given match. With a
	// participant it returns where they advance to, or nothing when they
	// are eliminated.
	NextMatches(ctx context.Context, matchID int, participantID *int) ([]*models.Match, error)
}

type findService struct {
	navigator
}

func NewFind(store storage.Storage) Find {
	return &findService{navigator{store: store}}
}

func (s *findService) UpperBracket(ctx context.Context, stageID int) (*models.Group, error) {
	stage, err := s.stage(ctx, stageID)
	if err != nil {
		return nil, err
	}

	switch stage.Type {
	case models.StageRoundRobin:
		return nil, ErrNoUpperBracket
	case models.StageSingleElimination, models.StageDoubleElimination:
		return s.upperBracket(ctx, stageID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStageType, stage.Type)
	}
}

func (s *findService) LoserBracket(ctx context.Context, stageID int) (*models.Group, error) {
	stage, err := s.stage(ctx, stageID)
	if err != nil {
		return nil, err
	}

	switch stage.Type {
	case models.StageRoundRobin, models.StageSingleElimination:
		return nil, ErrNoLoserBracket
	case models.StageDoubleElimination:
		group, err := s.loserBracket(ctx, stageID)
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, fmt.Errorf("%w: loser bracket of stage %d", ErrGroupNotFound, stageID)
		}
		return group, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStageType, stage.Type)
	}
}

func (s *findService) Match(ctx context.Context, groupID, roundNumber, matchNumber int) (*models.Match, error) {
	return s.findMatch(ctx, groupID, roundNumber, matchNumber)
}

func (s *findService) PreviousMatches(ctx context.Context, matchID int, participantID *int) ([]*models.Match, error) {
	match, stage, loc, roundNumber, _, err := s.locate(ctx, matchID)
	if err != nil {
		return nil, err
	}

	previous, err := s.previousMatches(ctx, match, loc, stage, roundNumber)
	if err != nil {
		return nil, err
	}
	if participantID == nil {
		return previous, nil
	}

	filtered := make([]*models.Match, 0, len(previous))
	for _, m := range previous {
		if participantInMatch(m, *participantID) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func (s *findService) NextMatches(ctx context.Context, matchID int, participantID *int) ([]*models.Match, error) {
	match, stage, loc, roundNumber, roundCount, err := s.locate(ctx, matchID)
	if err != nil {
		return nil, err
	}

	next, err := s.nextMatches(ctx, match, loc, stage, roundNumber, roundCount)
	if err != nil {
		return nil, err
	}

	if participantID != nil {
		loser := brackets.Loser(match)
		lost := loser != nil && loser.ID != nil && *loser.ID == *participantID

		if stage.Type == models.StageSingleElimination && lost {
			// Eliminated.
			return nil, nil
		}

		if stage.Type == models.StageDoubleElimination {
			if lost {
				if len(next) > 1 && next[1] != nil {
					return []*models.Match{next[1]}, nil
				}
				// Eliminated from the lower bracket.
				return nil, nil
			}

			winner := brackets.Winner(match)
			if winner == nil || winner.ID == nil || *winner.ID != *participantID {
				return nil, ErrParticipantNotInMatch
			}
			if len(next) > 0 && next[0] != nil {
				return []*models.Match{next[0]}, nil
			}
			return nil, nil
		}
	}

	nonNil := make([]*models.Match, 0, len(next))
	for _, m := range next {
		if m != nil {
			nonNil = append(nonNil, m)
		}
	}
	return nonNil, nil
}

// locate loads a match with the positional context needed by the bracket
// walkers.
func (s *findService) locate(ctx context.Context, matchID int) (*models.Match, *models.Stage, location, int, int, error) {
	match, err := s.match(ctx, matchID)
	if err != nil {
		return nil, nil, 0, 0, 0, err
	}
	stage, err := s.stage(ctx, match.StageID)
	if err != nil {
		return nil, nil, 0, 0, 0, err
	}
	group, err := s.group(ctx, match.GroupID)
	if err != nil {
		return nil, nil, 0, 0, 0, err
	}
	roundNumber, roundCount, err := s.roundPositionalInfo(ctx, match.RoundID)
	if err != nil {
		return nil, nil, 0, 0, 0, err
	}
	return match, stage, matchLocation(stage, group), roundNumber, roundCount, nil
}

func participantInMatch(match *models.Match, participantID int) bool {
	for _, opponent := range []*models.Opponent{match.Opponent1, match.Opponent2} {
		if opponent != nil && opponent.ID != nil && *opponent.ID == participantID {
			return true
		}
	}
	return false
}
