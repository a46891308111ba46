package brackets

import (
	"errors"

	"github.com/Dosada05/bracket-engine/models"
)

var (
	ErrOpponentNotInMatch = errors.New("the given opponent is not in the match")
	ErrTwoWinners         = errors.New("there are two winners")
	ErrTwoLosers          = errors.New("there are two losers")
	ErrTwoForfeits        = errors.New("there are two forfeits")
)

// MatchStatusOf derives the status of a match from its opponents, ignoring
// any stored status.
func MatchStatusOf(o1, o2 *models.Opponent) models.Status {
	// Two BYEs.
	if o1 == nil && o2 == nil {
		return models.StatusLocked
	}
	// One BYE against one TBD.
	if (o1 == nil && o2 != nil && o2.ID == nil) || (o2 == nil && o1 != nil && o1.ID == nil) {
		return models.StatusLocked
	}
	// Two TBDs.
	if o1 != nil && o1.ID == nil && o2 != nil && o2.ID == nil {
		return models.StatusLocked
	}
	// One TBD.
	if (o1 != nil && o1.ID == nil) || (o2 != nil && o2.ID == nil) {
		return models.StatusWaiting
	}

	m := models.Match{Opponent1: o1, Opponent2: o2}
	if MatchCompleted(&m) {
		return models.StatusCompleted
	}
	if (o1 != nil && o1.Score != nil) || (o2 != nil && o2.Score != nil) {
		return models.StatusRunning
	}
	return models.StatusReady
}

// ResultCompleted reports whether the match has a result on either side.
func ResultCompleted(m *models.Match) bool {
	return (m.Opponent1 != nil && m.Opponent1.Result != "") ||
		(m.Opponent2 != nil && m.Opponent2.Result != "")
}

// ForfeitCompleted reports whether the match was decided by a forfeit.
func ForfeitCompleted(m *models.Match) bool {
	return (m.Opponent1 != nil && m.Opponent1.Forfeit) ||
		(m.Opponent2 != nil && m.Opponent2.Forfeit)
}

// ByeCompleted reports whether the match is a BYE walkover.
func ByeCompleted(m *models.Match) bool {
	return (m.Opponent1 == nil && (m.Opponent2 == nil || m.Opponent2.ID != nil)) ||
		(m.Opponent2 == nil && (m.Opponent1 == nil || m.Opponent1.ID != nil))
}

// MatchCompleted reports whether the match is over, by result, forfeit or
// BYE walkover.
func MatchCompleted(m *models.Match) bool {
	return ResultCompleted(m) || ForfeitCompleted(m) || ByeCompleted(m)
}

// HasBye reports whether either side of the match is a BYE.
func HasBye(m *models.Match) bool {
	return m.Opponent1 == nil || m.Opponent2 == nil
}

// WinnerSide returns the winning side of a match, or "" when the match has
// no winner (not finished, or a draw).
func WinnerSide(m *models.Match) models.Side {
	if m.Opponent1 != nil && m.Opponent1.Result == models.ResultWin {
		return models.SideOpponent1
	}
	if m.Opponent2 != nil && m.Opponent2.Result == models.ResultWin {
		return models.SideOpponent2
	}
	// A BYE walkover is won by the real opponent.
	if m.Opponent1 == nil && m.Opponent2 != nil && m.Opponent2.ID != nil {
		return models.SideOpponent2
	}
	if m.Opponent2 == nil && m.Opponent1 != nil && m.Opponent1.ID != nil {
		return models.SideOpponent1
	}
	return ""
}

// Winner returns the slot of the winner of a match, or nil if there is none
// yet.
func Winner(m *models.Match) Slot {
	side := WinnerSide(m)
	if side == "" {
		return nil
	}
	return m.Side(side)
}

// Loser returns the slot of the loser of a match, or nil if there is none.
func Loser(m *models.Match) Slot {
	side := WinnerSide(m)
	if side == "" {
		return nil
	}
	return m.Side(side.Other())
}

// UpdateOutcome tells which aspects of a match changed after an update.
type UpdateOutcome struct {
	StatusChanged bool
	ResultChanged bool
}

// ApplyMatchUpdate applies a partial update to a stored match, handling
// opponent inversion, explicit statuses, scores, results and forfeits. The
// outcome says whether the neighbouring matches need to be updated.
func ApplyMatchUpdate(stored *models.Match, update *models.MatchUpdate) (UpdateOutcome, error) {
	update, err := alignUpdateSides(stored, update)
	if err != nil {
		return UpdateOutcome{}, err
	}

	setExtraFields(stored, update)
	handleGivenStatus(stored, update)

	if err := ensureConsistentResults(update); err != nil {
		return UpdateOutcome{}, err
	}

	statusChanged := applyScores(stored, update)

	completed := updateCompletes(update) || ByeCompleted(stored)
	currentlyCompleted := MatchCompleted(stored)

	switch {
	case completed && currentlyCompleted:
		setCompleted(stored, update)
		return UpdateOutcome{StatusChanged: false, ResultChanged: true}, nil
	case completed:
		setCompleted(stored, update)
		return UpdateOutcome{StatusChanged: true, ResultChanged: true}, nil
	case currentlyCompleted:
		RemoveCompleted(stored)
		return UpdateOutcome{StatusChanged: true, ResultChanged: true}, nil
	default:
		return UpdateOutcome{StatusChanged: statusChanged}, nil
	}
}

// alignUpdateSides checks that the participant IDs given in the update
// belong to the match and flips the update when they are given in the
// opposite side order.
func alignUpdateSides(stored *models.Match, update *models.MatchUpdate) (*models.MatchUpdate, error) {
	id1 := updateOpponentID(update.Opponent1)
	id2 := updateOpponentID(update.Opponent2)
	storedID1 := opponentID(stored.Opponent1)
	storedID2 := opponentID(stored.Opponent2)

	if id1 != nil && !matchesEither(*id1, storedID1, storedID2) {
		return nil, ErrOpponentNotInMatch
	}
	if id2 != nil && !matchesEither(*id2, storedID1, storedID2) {
		return nil, ErrOpponentNotInMatch
	}

	inverted := (id1 != nil && storedID2 != nil && *id1 == *storedID2) ||
		(id2 != nil && storedID1 != nil && *id2 == *storedID1)
	if !inverted {
		return update, nil
	}

	flipped := *update
	flipped.Opponent1, flipped.Opponent2 = update.Opponent2, update.Opponent1
	return &flipped, nil
}

func updateOpponentID(u *models.OpponentUpdate) *int {
	if u == nil {
		return nil
	}
	return u.ID
}

func opponentID(o *models.Opponent) *int {
	if o == nil {
		return nil
	}
	return o.ID
}

func matchesEither(id int, a, b *int) bool {
	return (a != nil && *a == id) || (b != nil && *b == id)
}

func setExtraFields(stored *models.Match, update *models.MatchUpdate) {
	if update.Extra != nil {
		stored.Extra = update.Extra
	}
	for _, side := range []models.Side{models.SideOpponent1, models.SideOpponent2} {
		in := update.Side(side)
		out := stored.Side(side)
		if in != nil && in.Extra != nil && out != nil {
			out.Extra = in.Extra
		}
	}
}

// handleGivenStatus applies an explicitly requested status. Running clears
// any previous result, Completed derives results from the known scores.
func handleGivenStatus(stored *models.Match, update *models.MatchUpdate) {
	if update.Status == nil {
		return
	}

	switch *update.Status {
	case models.StatusRunning:
		clearResults(stored)
		stored.Status = models.StatusRunning
	case models.StatusCompleted:
		score1 := effectiveScore(stored.Opponent1, update.Opponent1)
		score2 := effectiveScore(stored.Opponent2, update.Opponent2)
		if score1 == nil || score2 == nil {
			return
		}
		if update.Opponent1 == nil {
			update.Opponent1 = &models.OpponentUpdate{}
		}
		if update.Opponent2 == nil {
			update.Opponent2 = &models.OpponentUpdate{}
		}
		switch {
		case *score1 > *score2:
			update.Opponent1.Result = models.ResultWin
			update.Opponent2.Result = models.ResultLoss
		case *score1 < *score2:
			update.Opponent1.Result = models.ResultLoss
			update.Opponent2.Result = models.ResultWin
		default:
			update.Opponent1.Result = models.ResultDraw
			update.Opponent2.Result = models.ResultDraw
		}
	}
}

func effectiveScore(stored *models.Opponent, update *models.OpponentUpdate) *int {
	if update != nil && update.Score != nil {
		return update.Score
	}
	if stored != nil {
		return stored.Score
	}
	return nil
}

func ensureConsistentResults(update *models.MatchUpdate) error {
	r1, r2 := updateResult(update.Opponent1), updateResult(update.Opponent2)
	if r1 == models.ResultWin && r2 == models.ResultWin {
		return ErrTwoWinners
	}
	if r1 == models.ResultLoss && r2 == models.ResultLoss {
		return ErrTwoLosers
	}
	if updateForfeit(update.Opponent1) && updateForfeit(update.Opponent2) {
		return ErrTwoForfeits
	}
	return nil
}

func updateResult(u *models.OpponentUpdate) models.Result {
	if u == nil {
		return ""
	}
	return u.Result
}

func updateForfeit(u *models.OpponentUpdate) bool {
	return u != nil && u.Forfeit != nil && *u.Forfeit
}

// applyScores copies the given scores into the match and reports whether
// this started the match.
func applyScores(stored *models.Match, update *models.MatchUpdate) bool {
	statusChanged := false
	for _, side := range []models.Side{models.SideOpponent1, models.SideOpponent2} {
		in := update.Side(side)
		out := stored.Side(side)
		if in == nil || in.Score == nil || out == nil {
			continue
		}
		score := *in.Score
		out.Score = &score
		if stored.Status < models.StatusRunning {
			stored.Status = models.StatusRunning
			statusChanged = true
		}
	}
	return statusChanged
}

// updateCompletes reports whether the update itself finishes the match.
func updateCompletes(update *models.MatchUpdate) bool {
	return updateResult(update.Opponent1) != "" || updateResult(update.Opponent2) != "" ||
		updateForfeit(update.Opponent1) || updateForfeit(update.Opponent2)
}

// setCompleted marks the match as completed, mirroring the result to the
// other side and granting the win to the real opponent of a BYE walkover.
func setCompleted(stored *models.Match, update *models.MatchUpdate) {
	stored.Status = models.StatusCompleted

	setResults(stored, update, models.ResultWin, models.ResultLoss)
	setResults(stored, update, models.ResultLoss, models.ResultWin)
	setResults(stored, update, models.ResultDraw, models.ResultDraw)
	setForfeits(stored, update)

	if stored.Opponent1 == nil && stored.Opponent2 != nil && stored.Opponent2.ID != nil {
		stored.Opponent2.Result = models.ResultWin
	}
	if stored.Opponent2 == nil && stored.Opponent1 != nil && stored.Opponent1.ID != nil {
		stored.Opponent1.Result = models.ResultWin
	}
}

func setResults(stored *models.Match, update *models.MatchUpdate, check, mirror models.Result) {
	if updateResult(update.Opponent1) == check {
		if stored.Opponent1 != nil {
			stored.Opponent1.Result = check
		}
		if stored.Opponent2 != nil {
			stored.Opponent2.Result = mirror
		}
	}
	if updateResult(update.Opponent2) == check {
		if stored.Opponent2 != nil {
			stored.Opponent2.Result = check
		}
		if stored.Opponent1 != nil {
			stored.Opponent1.Result = mirror
		}
	}
}

func setForfeits(stored *models.Match, update *models.MatchUpdate) {
	if updateForfeit(update.Opponent1) && stored.Opponent1 != nil {
		stored.Opponent1.Forfeit = true
		if stored.Opponent2 != nil {
			stored.Opponent2.Result = models.ResultWin
		}
	}
	if updateForfeit(update.Opponent2) && stored.Opponent2 != nil {
		stored.Opponent2.Forfeit = true
		if stored.Opponent1 != nil {
			stored.Opponent1.Result = models.ResultWin
		}
	}
}

// RemoveCompleted clears the results and forfeits of a match, keeping the
// scores, and recomputes its status.
func RemoveCompleted(stored *models.Match) {
	clearResults(stored)
	stored.Status = MatchStatusOf(stored.Opponent1, stored.Opponent2)
}

func clearResults(stored *models.Match) {
	if stored.Opponent1 != nil {
		stored.Opponent1.Result = ""
		stored.Opponent1.Forfeit = false
	}
	if stored.Opponent2 != nil {
		stored.Opponent2.Result = ""
		stored.Opponent2.Forfeit = false
	}
}

// SetNextOpponent carries the participant from one side of a finished match
// into a side of the next match, keeping the destination position.
func SetNextOpponent(next *models.Match, side models.Side, match *models.Match, fromSide models.Side) {
	opponent := &models.Opponent{}
	if from := match.Side(fromSide); from != nil && from.ID != nil {
		id := *from.ID
		opponent.ID = &id
	}
	if existing := next.Side(side); existing != nil {
		opponent.Position = existing.Position
	}
	next.SetSide(side, opponent)
	next.Status = MatchStatusOf(next.Opponent1, next.Opponent2)
}

// ResetNextOpponent removes the participant from a side of the next match,
// keeping the destination position.
func ResetNextOpponent(next *models.Match, side models.Side) {
	if existing := next.Side(side); existing != nil {
		next.SetSide(side, &models.Opponent{Position: existing.Position})
	}
	next.Status = MatchStatusOf(next.Opponent1, next.Opponent2)
}
