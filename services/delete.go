package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-engine/storage"
)

// Delete removes stages and everything they contain.
type Delete interface {
	// Stage deletes a stage with its groups, rounds and matches.
	Stage(ctx context.Context, stageID int) error
	// Tournament deletes every stage of a tournament.
	Tournament(ctx context.Context, tournamentID int) error
}

type deleteService struct {
	navigator
}

func NewDelete(store storage.Storage) Delete {
	return &deleteService{navigator{store: store}}
}

func (s *deleteService) Stage(ctx context.Context, stageID int) error {
	// Children first, so a failure never leaves orphaned records behind a
	// missing stage.
	if err := s.store.Matches().Delete(ctx, storage.MatchFilter{StageID: &stageID}); err != nil {
		return fmt.Errorf("failed to delete matches of stage %d: %w", stageID, err)
	}
	if err := s.store.Rounds().Delete(ctx, storage.RoundFilter{StageID: &stageID}); err != nil {
		return fmt.Errorf("failed to delete rounds of stage %d: %w", stageID, err)
	}
	if err := s.store.Groups().Delete(ctx, storage.GroupFilter{StageID: &stageID}); err != nil {
		return fmt.Errorf("failed to delete groups of stage %d: %w", stageID, err)
	}
	if err := s.store.Stages().Delete(ctx, storage.StageFilter{ID: &stageID}); err != nil {
		return fmt.Errorf("failed to delete stage %d: %w", stageID, err)
	}
	return nil
}

func (s *deleteService) Tournament(ctx context.Context, tournamentID int) error {
	stages, err := s.store.Stages().List(ctx, storage.StageFilter{TournamentID: &tournamentID})
	if err != nil {
		return fmt.Errorf("failed to list stages of tournament %d: %w", tournamentID, err)
	}
	for _, stage := range stages {
		if err := s.Stage(ctx, stage.ID); err != nil {
			return err
		}
	}
	return nil
}
