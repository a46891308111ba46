// Package services implements the tournament bracket engine: stage
// creation, match updates with propagation, queries, resets and deletions
// on top of a storage implementation.
package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-engine/storage"
)

// Manager bundles every service of the engine behind a single storage.
type Manager struct {
	store storage.Storage

	Create Create
	Get    Get
	Find   Find
	Update Update
	Reset  Reset
	Delete Delete
}

func NewManager(store storage.Storage) *Manager {
	return &Manager{
		store:  store,
		Create: NewCreate(store),
		Get:    NewGet(store),
		Find:   NewFind(store),
		Update: NewUpdate(store),
		Reset:  NewReset(store),
		Delete: NewDelete(store),
	}
}

// Export dumps the whole storage into a dataset.
func (m *Manager) Export(ctx context.Context) (*storage.Dataset, error) {
	if snapshotter, ok := m.store.(storage.Snapshotter); ok {
		return snapshotter.Snapshot(ctx)
	}

	stages, err := m.store.Stages().List(ctx, storage.StageFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	groups, err := m.store.Groups().List(ctx, storage.GroupFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	rounds, err := m.store.Rounds().List(ctx, storage.RoundFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	matches, err := m.store.Matches().List(ctx, storage.MatchFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	return &storage.Dataset{
		Stages:  stages,
		Groups:  groups,
		Rounds:  rounds,
		Matches: matches,
	}, nil
}

// Import replaces the whole storage content with a dataset, keeping the
// record IDs it carries.
func (m *Manager) Import(ctx context.Context, dataset *storage.Dataset) error {
	restorer, ok := m.store.(storage.Restorer)
	if !ok {
		return ErrRestoreUnsupported
	}
	return restorer.Restore(ctx, dataset)
}
