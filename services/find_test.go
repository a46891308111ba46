package services

import (
	"context"
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBrackets(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	se := createTestStage(t, m, InputStage{
		Name:    "Playoffs",
		Type:    models.StageSingleElimination,
		Seeding: sequentialSeeding(4),
	})
	de := createTestStage(t, m, InputStage{
		Name:     "Main",
		Type:     models.StageDoubleElimination,
		Seeding:  sequentialSeeding(4),
		Settings: models.StageSettings{GrandFinal: models.GrandFinalSimple},
	})
	rr := createTestStage(t, m, InputStage{
		Name:     "Groups",
		Type:     models.StageRoundRobin,
		Seeding:  sequentialSeeding(4),
		Settings: models.StageSettings{GroupCount: 1},
	})

	upper, err := m.Find.UpperBracket(ctx, se.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, upper.Number)

	upper, err = m.Find.UpperBracket(ctx, de.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, upper.Number)

	_, err = m.Find.UpperBracket(ctx, rr.ID)
	assert.ErrorIs(t, err, ErrNoUpperBracket)

	lower, err := m.Find.LoserBracket(ctx, de.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, lower.Number)

	_, err = m.Find.LoserBracket(ctx, se.ID)
	assert.ErrorIs(t, err, ErrNoLoserBracket)

	_, err = m.Find.LoserBracket(ctx, rr.ID)
	assert.ErrorIs(t, err, ErrNoLoserBracket)
}

func TestFindMatch(t *testing.T) {
	m := newTestManager()
	stage := createTestStage(t, m, InputStage{
		Name:    "Example",
		Type:    models.StageSingleElimination,
		Seeding: sequentialSeeding(4),
	})
	group := stageData(t, m, stage.ID).Groups[0]

	match, err := m.Find.Match(context.Background(), group.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, opponentIDOf(match.Opponent1))
	assert.Equal(t, 3, opponentIDOf(match.Opponent2))

	_, err = m.Find.Match(context.Background(), group.ID, 3, 1)
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestFindPreviousMatches(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	stage := createTestStage(t, m, InputStage{
		Name:     "Example",
		Type:     models.StageDoubleElimination,
		Seeding:  sequentialSeeding(4),
		Settings: models.StageSettings{GrandFinal: models.GrandFinalSimple},
	})
	data := stageData(t, m, stage.ID)
	wb, lb, finals := data.Groups[0], data.Groups[1], data.Groups[2]

	first := getMatch(t, m, wb.ID, 1, 1)
	previous, err := m.Find.PreviousMatches(ctx, first.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, previous)

	// The grand final follows both bracket finals.
	grandFinal := getMatch(t, m, finals.ID, 1, 1)
	previous, err = m.Find.PreviousMatches(ctx, grandFinal.ID, nil)
	require.NoError(t, err)
	require.Len(t, previous, 2)
	assert.Equal(t, getMatch(t, m, wb.ID, 2, 1).ID, previous[0].ID)
	assert.Equal(t, getMatch(t, m, lb.ID, 2, 1).ID, previous[1].ID)

	require.NoError(t, m.Update.Match(ctx, winUpdate(getMatch(t, m, wb.ID, 1, 1).ID)))
	require.NoError(t, m.Update.Match(ctx, winUpdate(getMatch(t, m, wb.ID, 1, 2).ID)))
	require.NoError(t, m.Update.Match(ctx, winUpdate(getMatch(t, m, wb.ID, 2, 1).ID)))

	one := 1
	previous, err = m.Find.PreviousMatches(ctx, grandFinal.ID, &one)
	require.NoError(t, err)
	require.Len(t, previous, 1)
	assert.Equal(t, getMatch(t, m, wb.ID, 2, 1).ID, previous[0].ID)
}

func TestFindNextMatches(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	stage := createTestStage(t, m, InputStage{
		Name:     "Example",
		Type:     models.StageDoubleElimination,
		Seeding:  sequentialSeeding(4),
		Settings: models.StageSettings{GrandFinal: models.GrandFinalSimple},
	})
	data := stageData(t, m, stage.ID)
	wb, lb, finals := data.Groups[0], data.Groups[1], data.Groups[2]

	require.NoError(t, m.Update.Match(ctx, winUpdate(getMatch(t, m, wb.ID, 1, 1).ID)))
	require.NoError(t, m.Update.Match(ctx, winUpdate(getMatch(t, m, wb.ID, 1, 2).ID)))

	winnerBracketFinal := getMatch(t, m, wb.ID, 2, 1)
	require.NoError(t, m.Update.Match(ctx, winUpdate(winnerBracketFinal.ID)))

	grandFinalID := getMatch(t, m, finals.ID, 1, 1).ID
	loserBracketFinalID := getMatch(t, m, lb.ID, 2, 1).ID

	next, err := m.Find.NextMatches(ctx, winnerBracketFinal.ID, nil)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, grandFinalID, next[0].ID)
	assert.Equal(t, loserBracketFinalID, next[1].ID)

	// The winner moves on to the grand final.
	one := 1
	next, err = m.Find.NextMatches(ctx, winnerBracketFinal.ID, &one)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, grandFinalID, next[0].ID)

	// The loser drops to the loser bracket final.
	two := 2
	next, err = m.Find.NextMatches(ctx, winnerBracketFinal.ID, &two)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, loserBracketFinalID, next[0].ID)

	stranger := 9
	_, err = m.Find.NextMatches(ctx, winnerBracketFinal.ID, &stranger)
	assert.ErrorIs(t, err, ErrParticipantNotInMatch)
}

func TestFindNextMatchesEliminated(t *testing.T) {
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

	// Seed 4 lost the semifinal and has nowhere to go.
	four := 4
	next, err := m.Find.NextMatches(ctx, semifinal.ID, &four)
	require.NoError(t, err)
	assert.Empty(t, next)

	final := getMatch(t, m, group.ID, 2, 1)
	next, err = m.Find.NextMatches(ctx, final.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, next)
}
