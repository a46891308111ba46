package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tbd() *models.Opponent {
	return &models.Opponent{}
}

func intp(v int) *int { return &v }

func TestMatchStatusOf(t *testing.T) {
	assert.Equal(t, models.StatusLocked, MatchStatusOf(nil, nil))
	assert.Equal(t, models.StatusLocked, MatchStatusOf(nil, tbd()))
	assert.Equal(t, models.StatusLocked, MatchStatusOf(tbd(), tbd()))
	assert.Equal(t, models.StatusWaiting, MatchStatusOf(slot(1), tbd()))
	assert.Equal(t, models.StatusReady, MatchStatusOf(slot(1), slot(2)))

	// BYE walkover against a real opponent is already decided.
	assert.Equal(t, models.StatusCompleted, MatchStatusOf(slot(1), nil))

	running := slot(1)
	running.Score = intp(2)
	assert.Equal(t, models.StatusRunning, MatchStatusOf(running, slot(2)))

	won := slot(1)
	won.Result = models.ResultWin
	assert.Equal(t, models.StatusCompleted, MatchStatusOf(won, slot(2)))
}

func TestWinnerAndLoser(t *testing.T) {
	match := &models.Match{Opponent1: slot(1), Opponent2: slot(2)}
	assert.Nil(t, Winner(match))
	assert.Nil(t, Loser(match))

	match.Opponent2.Result = models.ResultWin
	require.NotNil(t, Winner(match))
	assert.Equal(t, 2, *Winner(match).ID)
	assert.Equal(t, 1, *Loser(match).ID)

	// BYE walkover.
	walkover := &models.Match{Opponent1: slot(1)}
	require.NotNil(t, Winner(walkover))
	assert.Equal(t, 1, *Winner(walkover).ID)
	assert.Nil(t, Loser(walkover))
}

func TestApplyMatchUpdateScoreStartsMatch(t *testing.T) {
	match := &models.Match{
		Status:    models.StatusReady,
		Opponent1: slot(1),
		Opponent2: slot(2),
	}

	outcome, err := ApplyMatchUpdate(match, &models.MatchUpdate{
		Opponent1: &models.OpponentUpdate{Score: intp(2)},
		Opponent2: &models.OpponentUpdate{Score: intp(1)},
	})
	require.NoError(t, err)

	assert.True(t, outcome.StatusChanged)
	assert.False(t, outcome.ResultChanged)
	assert.Equal(t, models.StatusRunning, match.Status)
	assert.Equal(t, 2, *match.Opponent1.Score)
}

func TestApplyMatchUpdateResultCompletes(t *testing.T) {
	match := &models.Match{
		Status:    models.StatusReady,
		Opponent1: slot(1),
		Opponent2: slot(2),
	}

	outcome, err := ApplyMatchUpdate(match, &models.MatchUpdate{
		Opponent1: &models.OpponentUpdate{Result: models.ResultWin},
	})
	require.NoError(t, err)

	assert.True(t, outcome.StatusChanged)
	assert.True(t, outcome.ResultChanged)
	assert.Equal(t, models.StatusCompleted, match.Status)
	assert.Equal(t, models.ResultWin, match.Opponent1.Result)
	// The result is mirrored to the other side.
	assert.Equal(t, models.ResultLoss, match.Opponent2.Result)
}

func TestApplyMatchUpdateCompletedStatusDerivesResults(t *testing.T) {
	match := &models.Match{
		Status:    models.StatusReady,
		Opponent1: slot(1),
		Opponent2: slot(2),
	}

	status := models.StatusCompleted
	_, err := ApplyMatchUpdate(match, &models.MatchUpdate{
		Status:    &status,
		Opponent1: &models.OpponentUpdate{Score: intp(3)},
		Opponent2: &models.OpponentUpdate{Score: intp(3)},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, match.Status)
	assert.Equal(t, models.ResultDraw, match.Opponent1.Result)
	assert.Equal(t, models.ResultDraw, match.Opponent2.Result)
}

func TestApplyMatchUpdateForfeit(t *testing.T) {
	match := &models.Match{
		Status:    models.StatusReady,
		Opponent1: slot(1),
		Opponent2: slot(2),
	}

	forfeit := true
	_, err := ApplyMatchUpdate(match, &models.MatchUpdate{
		Opponent1: &models.OpponentUpdate{Forfeit: &forfeit},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, match.Status)
	assert.True(t, match.Opponent1.Forfeit)
	assert.Equal(t, models.ResultWin, match.Opponent2.Result)
}

func TestApplyMatchUpdateInvertedSides(t *testing.T) {
	match := &models.Match{
		Status:    models.StatusReady,
		Opponent1: slot(1),
		Opponent2: slot(2),
	}

	// The update identifies the opponents by ID, in the opposite order.
	_, err := ApplyMatchUpdate(match, &models.MatchUpdate{
		Opponent1: &models.OpponentUpdate{ID: intp(2), Result: models.ResultWin},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ResultWin, match.Opponent2.Result)
	assert.Equal(t, models.ResultLoss, match.Opponent1.Result)
}

func TestApplyMatchUpdateRejectsStrangers(t *testing.T) {
	match := &models.Match{
		Status:    models.StatusReady,
		Opponent1: slot(1),
		Opponent2: slot(2),
	}

	_, err := ApplyMatchUpdate(match, &models.MatchUpdate{
		Opponent1: &models.OpponentUpdate{ID: intp(9), Result: models.ResultWin},
	})
	assert.ErrorIs(t, err, ErrOpponentNotInMatch)
}

func TestApplyMatchUpdateInconsistentResults(t *testing.T) {
	match := &models.Match{
		Status:    models.StatusReady,
		Opponent1: slot(1),
		Opponent2: slot(2),
	}

	_, err := ApplyMatchUpdate(match, &models.MatchUpdate{
		Opponent1: &models.OpponentUpdate{Result: models.ResultWin},
		Opponent2: &models.OpponentUpdate{Result: models.ResultWin},
	})
	assert.ErrorIs(t, err, ErrTwoWinners)
}

func TestRemoveCompleted(t *testing.T) {
	match := &models.Match{
		Status:    models.StatusCompleted,
		Opponent1: slot(1),
		Opponent2: slot(2),
	}
	match.Opponent1.Result = models.ResultWin
	match.Opponent2.Result = models.ResultLoss
	match.Opponent1.Score = intp(2)

	RemoveCompleted(match)

	assert.Equal(t, models.Result(""), match.Opponent1.Result)
	assert.Equal(t, models.Result(""), match.Opponent2.Result)
	// Scores are kept, so the match goes back to running.
	assert.Equal(t, models.StatusRunning, match.Status)
}

func TestSetAndResetNextOpponent(t *testing.T) {
	match := &models.Match{Opponent1: slot(1), Opponent2: slot(2)}
	match.Opponent1.Result = models.ResultWin

	next := &models.Match{
		Status:    models.StatusLocked,
		Opponent1: &models.Opponent{Position: 1},
		Opponent2: slot(3),
	}

	SetNextOpponent(next, models.SideOpponent1, match, models.SideOpponent1)
	require.NotNil(t, next.Opponent1)
	assert.Equal(t, 1, *next.Opponent1.ID)
	assert.Equal(t, 1, next.Opponent1.Position)
	assert.Equal(t, models.StatusReady, next.Status)

	ResetNextOpponent(next, models.SideOpponent1)
	require.NotNil(t, next.Opponent1)
	assert.Nil(t, next.Opponent1.ID)
	assert.Equal(t, 1, next.Opponent1.Position)
	assert.Equal(t, models.StatusWaiting, next.Status)
}
