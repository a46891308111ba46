package services

import (
	"context"
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetMatchResults(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	stage := createTestStage(t, m, InputStage{
		Name:    "Example",
		Type:    models.StageSingleElimination,
		Seeding: sequentialSeeding(4),
	})
	group := stageData(t, m, stage.ID).Groups[0]

	semifinal := getMatch(t, m, group.ID, 1, 1)
	require.NoError(t, m.Update.Match(ctx, winUpdate(semifinal.ID)))

	final := getMatch(t, m, group.ID, 2, 1)
	assert.Equal(t, 1, opponentIDOf(final.Opponent1))

	require.NoError(t, m.Reset.MatchResults(ctx, semifinal.ID))

	// The match is playable again and the propagated winner is gone.
	semifinal = getMatch(t, m, group.ID, 1, 1)
	assert.Equal(t, models.StatusReady, semifinal.Status)
	assert.Equal(t, models.Result(""), semifinal.Opponent1.Result)

	final = getMatch(t, m, group.ID, 2, 1)
	assert.Nil(t, final.Opponent1.ID)
	assert.Equal(t, models.StatusLocked, final.Status)
}

func TestResetMatchResultsLocked(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	stage := createTestStage(t, m, InputStage{
		Name:    "Example",
		Type:    models.StageSingleElimination,
		Seeding: sequentialSeeding(4),
	})
	group := stageData(t, m, stage.ID).Groups[0]

	semifinal := getMatch(t, m, group.ID, 1, 1)
	require.NoError(t, m.Update.Match(ctx, winUpdate(semifinal.ID)))
	require.NoError(t, m.Update.Match(ctx, winUpdate(getMatch(t, m, group.ID, 1, 2).ID)))
	require.NoError(t, m.Update.Match(ctx, winUpdate(getMatch(t, m, group.ID, 2, 1).ID)))

	// The final is over, the semifinal result is frozen.
	err := m.Reset.MatchResults(ctx, semifinal.ID)
	assert.ErrorIs(t, err, ErrMatchLocked)
}

func TestResetMatchResultsWithChildGames(t *testing.T) {
	store := storage.NewMemory()
	m := NewManager(store)
	ctx := context.Background()
	stage := createTestStage(t, m, InputStage{
		Name:    "Example",
		Type:    models.StageSingleElimination,
		Seeding: sequentialSeeding(4),
	})
	group := stageData(t, m, stage.ID).Groups[0]

	// A match played as a best-of series only resets through its games.
	match := getMatch(t, m, group.ID, 1, 1)
	match.ChildCount = 3
	require.NoError(t, store.Matches().Update(ctx, match))

	err := m.Reset.MatchResults(ctx, match.ID)
	assert.ErrorIs(t, err, ErrMatchChildGames)
}

func TestResetSeeding(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	stage := createTestStage(t, m, InputStage{
		Name:    "Example",
		Type:    models.StageSingleElimination,
		Seeding: sequentialSeeding(4),
	})
	group := stageData(t, m, stage.ID).Groups[0]

	require.NoError(t, m.Reset.Seeding(ctx, stage.ID))

	semifinal := getMatch(t, m, group.ID, 1, 1)
	require.NotNil(t, semifinal.Opponent1)
	require.NotNil(t, semifinal.Opponent2)
	assert.Nil(t, semifinal.Opponent1.ID)
	assert.Nil(t, semifinal.Opponent2.ID)
	assert.Equal(t, models.StatusLocked, semifinal.Status)
}

func TestResetSeedingLocked(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	stage := createTestStage(t, m, InputStage{
		Name:    "Example",
		Type:    models.StageSingleElimination,
		Seeding: sequentialSeeding(4),
	})
	group := stageData(t, m, stage.ID).Groups[0]

	require.NoError(t, m.Update.Match(ctx, winUpdate(getMatch(t, m, group.ID, 1, 1).ID)))

	err := m.Reset.Seeding(ctx, stage.ID)
	assert.ErrorIs(t, err, ErrSeedingLocked)
}
