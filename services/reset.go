package services

import (
	"context"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/storage"
)

// Reset removes results and seedings, undoing their propagation.
type Reset interface {
	// MatchResults removes the results of a match, as long as no following
	// match has started with its outcome.
	MatchResults(ctx context.Context, matchID int) error
	// Seeding resets every seeding slot of a stage to TBD.
	Seeding(ctx context.Context, stageID int) error
}

type resetService struct {
	updater
}

func NewReset(store storage.Storage) Reset {
	return &resetService{updater{navigator{store: store}}}
}

func (s *resetService) MatchResults(ctx context.Context, matchID int) error {
	stored, err := s.match(ctx, matchID)
	if err != nil {
		return err
	}
	if stored.ChildCount > 0 && !brackets.ForfeitCompleted(stored) {
		return ErrMatchChildGames
	}

	stage, err := s.stage(ctx, stored.StageID)
	if err != nil {
		return err
	}
	group, err := s.group(ctx, stored.GroupID)
	if err != nil {
		return err
	}
	roundNumber, roundCount, err := s.roundPositionalInfo(ctx, stored.RoundID)
	if err != nil {
		return err
	}

	loc := matchLocation(stage, group)
	nextMatches, err := s.nextMatches(ctx, stored, loc, stage, roundNumber, roundCount)
	if err != nil {
		return err
	}
	for _, next := range nextMatches {
		if next != nil && next.Status >= models.StatusRunning && !brackets.ByeCompleted(next) {
			return ErrMatchLocked
		}
	}

	brackets.RemoveCompleted(stored)
	if err := s.saveMatch(ctx, stored); err != nil {
		return err
	}

	if stage.Type == models.StageRoundRobin {
		return nil
	}
	return s.updateRelatedMatches(ctx, stored, true, true)
}

func (s *resetService) Seeding(ctx context.Context, stageID int) error {
	return s.updateSeeding(ctx, stageID, nil)
}
