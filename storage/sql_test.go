package storage

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-engine/models"
)

func setupTestDB(t *testing.T) *SQL {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)

	store, err := NewSQL(db)
	require.NoError(t, err)
	return store
}

func TestSQLStagesCRUD(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	stage := &models.Stage{
		TournamentID: 1,
		Name:         "Example",
		Type:         models.StageSingleElimination,
		Number:       1,
		Settings: models.StageSettings{
			Size:         8,
			SeedOrdering: []models.SeedOrdering{models.OrderInnerOuter},
		},
	}
	id, err := store.Stages().Insert(ctx, stage)
	require.NoError(t, err)
	assert.Equal(t, 0, id)
	assert.Equal(t, 0, stage.ID)

	loaded, err := store.Stages().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, stage, loaded)

	_, err = store.Stages().Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	loaded.Name = "Renamed"
	loaded.Settings.Size = 16
	require.NoError(t, store.Stages().Update(ctx, loaded))
	updated, err := store.Stages().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 16, updated.Settings.Size)

	stages, err := store.Stages().List(ctx, StageFilter{TournamentID: intp(1)})
	require.NoError(t, err)
	assert.Len(t, stages, 1)

	require.NoError(t, store.Stages().Delete(ctx, StageFilter{ID: intp(id)}))
	_, err = store.Stages().Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLMatchesJSONColumns(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	match := &models.Match{
		StageID:    0,
		GroupID:    0,
		RoundID:    0,
		Number:     1,
		ChildCount: 3,
		Status:     models.StatusRunning,
		Opponent1: &models.Opponent{
			ID:       intp(1),
			Position: 1,
			Score:    intp(2),
		},
		Opponent2: &models.Opponent{
			ID:       intp(2),
			Position: 2,
			Score:    intp(1),
			Result:   models.ResultLoss,
		},
	}
	id, err := store.Matches().Insert(ctx, match)
	require.NoError(t, err)

	loaded, err := store.Matches().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, match, loaded)

	// A BYE opponent survives the round trip as nil.
	bye := &models.Match{Number: 2, Status: models.StatusLocked, Opponent1: &models.Opponent{Position: 1}}
	byeID, err := store.Matches().Insert(ctx, bye)
	require.NoError(t, err)

	loaded, err = store.Matches().Get(ctx, byeID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Opponent2)
	require.NotNil(t, loaded.Opponent1)
	assert.Nil(t, loaded.Opponent1.ID)
	assert.Equal(t, 1, loaded.Opponent1.Position)

	status := models.StatusRunning
	matches, err := store.Matches().List(ctx, MatchFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, id, matches[0].ID)

	loaded.Status = models.StatusReady
	require.NoError(t, store.Matches().Update(ctx, loaded))
	updated, err := store.Matches().Get(ctx, byeID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, updated.Status)
}

func TestSQLRoundsAndGroups(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	groupID, err := store.Groups().Insert(ctx, &models.Group{StageID: 0, Number: 1, Role: models.RoleUpperBracket})
	require.NoError(t, err)
	group, err := store.Groups().Get(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUpperBracket, group.Role)

	for number := 1; number <= 3; number++ {
		_, err := store.Rounds().Insert(ctx, &models.Round{StageID: 0, GroupID: groupID, Number: number})
		require.NoError(t, err)
	}

	rounds, err := store.Rounds().List(ctx, RoundFilter{GroupID: intp(groupID)})
	require.NoError(t, err)
	require.Len(t, rounds, 3)
	assert.Equal(t, 1, rounds[0].Number)

	rounds, err = store.Rounds().List(ctx, RoundFilter{GroupID: intp(groupID), Number: intp(2)})
	require.NoError(t, err)
	require.Len(t, rounds, 1)

	require.NoError(t, store.Rounds().Delete(ctx, RoundFilter{GroupID: intp(groupID)}))
	rounds, err = store.Rounds().List(ctx, RoundFilter{})
	require.NoError(t, err)
	assert.Empty(t, rounds)
}

func TestSQLSnapshotRestore(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	_, err := store.Stages().Insert(ctx, &models.Stage{Name: "Example", Type: models.StageSingleElimination})
	require.NoError(t, err)
	_, err = store.Groups().Insert(ctx, &models.Group{StageID: 0, Number: 1})
	require.NoError(t, err)
	_, err = store.Rounds().Insert(ctx, &models.Round{StageID: 0, GroupID: 0, Number: 1})
	require.NoError(t, err)
	_, err = store.Matches().Insert(ctx, &models.Match{
		Number:    1,
		Status:    models.StatusReady,
		Opponent1: &models.Opponent{ID: intp(1), Position: 1},
		Opponent2: &models.Opponent{ID: intp(2), Position: 2},
	})
	require.NoError(t, err)

	dataset, err := store.Snapshot(ctx)
	require.NoError(t, err)

	restored := setupTestDB(t)
	require.NoError(t, restored.Restore(ctx, dataset))

	roundTrip, err := restored.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, dataset, roundTrip)
}
