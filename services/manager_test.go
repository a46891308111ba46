package services

import (
	"context"
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerExportImport(t *testing.T) {
	source := newTestManager()
	ctx := context.Background()
	stage := createTestStage(t, source, InputStage{
		Name:     "Example",
		Type:     models.StageDoubleElimination,
		Seeding:  sequentialSeeding(8),
		Settings: models.StageSettings{GrandFinal: models.GrandFinalDouble},
	})
	group := stageData(t, source, stage.ID).Groups[0]
	require.NoError(t, source.Update.Match(ctx, winUpdate(getMatch(t, source, group.ID, 1, 1).ID)))

	dataset, err := source.Export(ctx)
	require.NoError(t, err)
	require.Len(t, dataset.Stages, 1)
	require.Len(t, dataset.Matches, 15)

	target := NewManager(storage.NewMemory())
	require.NoError(t, target.Import(ctx, dataset))

	imported, err := target.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, dataset, imported)

	// The imported stage behaves like the original one.
	match := getMatch(t, target, group.ID, 1, 2)
	require.NoError(t, target.Update.Match(ctx, winUpdate(match.ID)))
}
