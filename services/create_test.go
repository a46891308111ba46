package services

import (
	"context"
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(storage.NewMemory())
}

// testSeeding builds a seeding from participant IDs, 0 meaning a BYE.
func testSeeding(ids ...int) models.Seeding {
	out := make(models.Seeding, len(ids))
	for i, id := range ids {
		if id == 0 {
			continue
		}
		v := id
		out[i] = &v
	}
	return out
}

func sequentialSeeding(n int) models.Seeding {
	out := make(models.Seeding, n)
	for i := range out {
		v := i + 1
		out[i] = &v
	}
	return out
}

func createTestStage(t *testing.T, m *Manager, input InputStage) *models.Stage {
	t.Helper()
	stage, err := m.Create.Stage(context.Background(), input)
	require.NoError(t, err)
	return stage
}

func stageData(t *testing.T, m *Manager, stageID int) *storage.Dataset {
	t.Helper()
	data, err := m.Get.StageData(context.Background(), stageID)
	require.NoError(t, err)
	return data
}

func opponentIDOf(o *models.Opponent) int {
	if o == nil || o.ID == nil {
		return 0
	}
	return *o.ID
}

func TestCreateSingleElimination(t *testing.T) {
	m := newTestManager()
	stage := createTestStage(t, m, InputStage{
		Name:    "Example",
		Type:    models.StageSingleElimination,
		Seeding: sequentialSeeding(16),
	})

	assert.Equal(t, 1, stage.Number)
	assert.Equal(t, 16, stage.Settings.Size)
	// The default first round placement is persisted.
	assert.Equal(t, []models.SeedOrdering{models.OrderInnerOuter}, stage.Settings.SeedOrdering)

	data := stageData(t, m, stage.ID)
	assert.Len(t, data.Groups, 1)
	assert.Len(t, data.Rounds, 4)
	assert.Len(t, data.Matches, 15)

	// Seed 1 opens against seed 16.
	first := data.Matches[0]
	assert.Equal(t, 1, opponentIDOf(first.Opponent1))
	assert.Equal(t, 16, opponentIDOf(first.Opponent2))
	assert.Equal(t, models.StatusReady, first.Status)

	// Later rounds are not determined yet.
	final := data.Matches[14]
	assert.Equal(t, models.StatusLocked, final.Status)
}

func TestCreateSingleEliminationConsolationFinal(t *testing.T) {
	m := newTestManager()
	stage := createTestStage(t, m, InputStage{
		Name:     "Example",
		Type:     models.StageSingleElimination,
		Seeding:  sequentialSeeding(8),
		Settings: models.StageSettings{ConsolationFinal: true},
	})

	data := stageData(t, m, stage.ID)
	assert.Len(t, data.Groups, 2)
	assert.Len(t, data.Rounds, 4)
	assert.Len(t, data.Matches, 8)
	assert.Equal(t, models.RoleFinalGroup, data.Groups[1].Role)
}

func TestCreateDoubleElimination(t *testing.T) {
	m := newTestManager()
	stage := createTestStage(t, m, InputStage{
		Name:     "Example",
		Type:     models.StageDoubleElimination,
		Seeding:  sequentialSeeding(16),
		Settings: models.StageSettings{GrandFinal: models.GrandFinalSimple},
	})

	data := stageData(t, m, stage.ID)
	require.Len(t, data.Groups, 3)
	assert.Len(t, data.Rounds, 11)
	assert.Len(t, data.Matches, 30)

	assert.Equal(t, models.RoleUpperBracket, data.Groups[0].Role)
	assert.Equal(t, models.RoleLowerBracket, data.Groups[1].Role)
	assert.Equal(t, models.RoleFinalGroup, data.Groups[2].Role)

	// The first lower bracket match waits for the losers of the first two
	// winner bracket matches.
	lbFirst, err := m.Find.Match(context.Background(), data.Groups[1].ID, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, lbFirst.Opponent1)
	require.NotNil(t, lbFirst.Opponent2)
	assert.Equal(t, 1, lbFirst.Opponent1.Position)
	assert.Equal(t, 2, lbFirst.Opponent2.Position)
	assert.Nil(t, lbFirst.Opponent1.ID)
}

func TestCreateDoubleEliminationDoubleGrandFinal(t *testing.T) {
	m := newTestManager()
	stage := createTestStage(t, m, InputStage{
		Name:     "Example",
		Type:     models.StageDoubleElimination,
		Seeding:  sequentialSeeding(8),
		Settings: models.StageSettings{GrandFinal: models.GrandFinalDouble},
	})

	data := stageData(t, m, stage.ID)
	assert.Len(t, data.Groups, 3)
	assert.Len(t, data.Rounds, 9)
	require.Len(t, data.Matches, 15)

	// The bracket reset starts fully undetermined.
	reset := data.Matches[14]
	assert.Equal(t, models.StatusLocked, reset.Status)
	require.NotNil(t, reset.Opponent1)
	assert.Nil(t, reset.Opponent1.ID)
}

func TestCreateDoubleEliminationSkipFirstRound(t *testing.T) {
	m := newTestManager()
	stage := createTestStage(t, m, InputStage{
		Name:    "Example",
		Type:    models.StageDoubleElimination,
		Seeding: sequentialSeeding(16),
		Settings: models.StageSettings{
			SkipFirstRound: true,
			GrandFinal:     models.GrandFinalDouble,
		},
	})

	data := stageData(t, m, stage.ID)
	require.Len(t, data.Groups, 3)
	assert.Len(t, data.Rounds, 11)
	assert.Len(t, data.Matches, 23)

	// After the inner-outer placement, even slots go to the winner bracket
	// and odd slots start directly in the lower bracket.
	wbFirst, err := m.Find.Match(context.Background(), data.Groups[0].ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, opponentIDOf(wbFirst.Opponent1))
	assert.Equal(t, 8, opponentIDOf(wbFirst.Opponent2))

	lbFirst, err := m.Find.Match(context.Background(), data.Groups[1].ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 16, opponentIDOf(lbFirst.Opponent1))
	assert.Equal(t, 9, opponentIDOf(lbFirst.Opponent2))
}

func TestCreateRoundRobin(t *testing.T) {
	m := newTestManager()
	stage := createTestStage(t, m, InputStage{
		Name:     "Example",
		Type:     models.StageRoundRobin,
		Seeding:  sequentialSeeding(8),
		Settings: models.StageSettings{GroupCount: 2},
	})

	data := stageData(t, m, stage.ID)
	assert.Len(t, data.Groups, 2)
	assert.Len(t, data.Rounds, 6)
	assert.Len(t, data.Matches, 12)

	// Effort balanced distribution deals the seeds like cards: 1, 3, 5, 7
	// in the first group.
	firstGroupFirst, err := m.Find.Match(context.Background(), data.Groups[0].ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, opponentIDOf(firstGroupFirst.Opponent1))
	assert.Equal(t, 7, opponentIDOf(firstGroupFirst.Opponent2))
}

func TestCreateByePropagation(t *testing.T) {
	m := newTestManager()
	stage := createTestStage(t, m, InputStage{
		Name:    "Example",
		Type:    models.StageSingleElimination,
		Seeding: testSeeding(1, 0, 3, 4, 0, 0, 7, 8),
	})

	data := stageData(t, m, stage.ID)
	require.Len(t, data.Matches, 7)

	// BYE walkovers are completed at creation.
	assert.Equal(t, models.StatusReady, data.Matches[0].Status)
	assert.Equal(t, models.StatusCompleted, data.Matches[1].Status)
	assert.Equal(t, models.StatusCompleted, data.Matches[2].Status)
	assert.Equal(t, models.StatusCompleted, data.Matches[3].Status)

	// Their opponents advance immediately: 7 and 3 meet in the second round.
	semi2 := data.Matches[5]
	assert.Equal(t, 7, opponentIDOf(semi2.Opponent1))
	assert.Equal(t, 3, opponentIDOf(semi2.Opponent2))
	assert.Equal(t, models.StatusReady, semi2.Status)
}

func TestCreateStageNumbering(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	first := createTestStage(t, m, InputStage{
		Name:    "Group stage",
		Type:    models.StageRoundRobin,
		Seeding: sequentialSeeding(4),
		Settings: models.StageSettings{
			GroupCount: 1,
		},
	})
	assert.Equal(t, 1, first.Number)

	second := createTestStage(t, m, InputStage{
		Name:    "Playoffs",
		Type:    models.StageSingleElimination,
		Seeding: sequentialSeeding(4),
	})
	assert.Equal(t, 2, second.Number)

	_, err := m.Create.Stage(ctx, InputStage{
		Name:    "Conflict",
		Type:    models.StageSingleElimination,
		Number:  2,
		Seeding: sequentialSeeding(4),
	})
	assert.ErrorIs(t, err, ErrStageNumberExists)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input InputStage
		want  error
	}{
		{
			"missing name",
			InputStage{Type: models.StageSingleElimination, Seeding: sequentialSeeding(4)},
			ErrStageNameRequired,
		},
		{
			"no size nor seeding",
			InputStage{Name: "x", Type: models.StageSingleElimination},
			ErrSizeOrSeedingRequired,
		},
		{
			"empty seeding",
			InputStage{Name: "x", Type: models.StageSingleElimination, Seeding: models.Seeding{}},
			ErrEmptyStage,
		},
		{
			"single participant",
			InputStage{Name: "x", Type: models.StageSingleElimination, Settings: models.StageSettings{Size: 1}},
			ErrTooFewParticipants,
		},
		{
			"not a power of two",
			InputStage{Name: "x", Type: models.StageSingleElimination, Settings: models.StageSettings{Size: 6}},
			ErrSizeNotPowerOfTwo,
		},
		{
			"missing group count",
			InputStage{Name: "x", Type: models.StageRoundRobin, Seeding: sequentialSeeding(4)},
			ErrGroupCountRequired,
		},
		{
			"too many ordering methods",
			InputStage{
				Name: "x", Type: models.StageSingleElimination, Seeding: sequentialSeeding(4),
				Settings: models.StageSettings{SeedOrdering: []models.SeedOrdering{models.OrderNatural, models.OrderNatural}},
			},
			ErrOneOrderingMethod,
		},
		{
			"group ordering on elimination",
			InputStage{
				Name: "x", Type: models.StageSingleElimination, Seeding: sequentialSeeding(4),
				Settings: models.StageSettings{SeedOrdering: []models.SeedOrdering{models.OrderEffortBalanced}},
			},
			ErrEliminationOrdering,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestManager().Create.Stage(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateDuplicateSeeding(t *testing.T) {
	m := newTestManager()
	_, err := m.Create.Stage(context.Background(), InputStage{
		Name:    "Example",
		Type:    models.StageSingleElimination,
		Seeding: testSeeding(1, 2, 1, 4),
	})
	assert.Error(t, err)
}

func TestCreateBalancedByes(t *testing.T) {
	m := newTestManager()
	stage := createTestStage(t, m, InputStage{
		Name:    "Example",
		Type:    models.StageSingleElimination,
		Seeding: testSeeding(1, 2, 3, 4, 5, 6),
		Settings: models.StageSettings{
			Size:         8,
			BalanceByes:  true,
			SeedOrdering: []models.SeedOrdering{models.OrderNatural},
		},
	})

	data := stageData(t, m, stage.ID)
	require.Len(t, data.Matches, 7)

	// The two BYEs are spread over the two last first-round matches.
	assert.Equal(t, models.StatusReady, data.Matches[0].Status)
	assert.Equal(t, models.StatusReady, data.Matches[1].Status)
	assert.Equal(t, models.StatusCompleted, data.Matches[2].Status)
	assert.Equal(t, models.StatusCompleted, data.Matches[3].Status)
}
