package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/storage"
)

// location says where a match sits inside its stage. It drives the rules
// for finding the previous and next matches.
type location int

const (
	locSingleBracket location = iota
	locWinnerBracket
	locLoserBracket
	locFinalGroup
	locRoundRobin
)

// navigator knows how to move around a stored bracket: from a match to the
// matches feeding it and to the matches its opponents advance to. Every
// service embeds one.
type navigator struct {
	store storage.Storage
}

func (n navigator) stage(ctx context.Context, id int) (*models.Stage, error) {
	stage, err := n.store.Stages().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrStageNotFound, id)
	}
	return stage, nil
}

func (n navigator) group(ctx context.Context, id int) (*models.Group, error) {
	group, err := n.store.Groups().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, id)
	}
	return group, nil
}

func (n navigator) round(ctx context.Context, id int) (*models.Round, error) {
	round, err := n.store.Rounds().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrRoundNotFound, id)
	}
	return round, nil
}

func (n navigator) match(ctx context.Context, id int) (*models.Match, error) {
	match, err := n.store.Matches().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, id)
	}
	return match, nil
}

// matchLocation resolves where a match of the given group lives. The group
// role is the source of truth, with the legacy group number as a fallback
// for imported datasets that predate roles.
func matchLocation(stage *models.Stage, group *models.Group) location {
	if stage.Type == models.StageRoundRobin {
		return locRoundRobin
	}

	switch group.Role {
	case models.RoleFinalGroup:
		return locFinalGroup
	case models.RoleLowerBracket:
		return locLoserBracket
	case models.RoleUpperBracket:
		if stage.Type == models.StageSingleElimination {
			return locSingleBracket
		}
		return locWinnerBracket
	}

	if stage.Type == models.StageSingleElimination {
		if group.Number == 2 {
			return locFinalGroup
		}
		return locSingleBracket
	}
	switch group.Number {
	case 2:
		return locLoserBracket
	case 3:
		return locFinalGroup
	default:
		return locWinnerBracket
	}
}

// bracketRoleOf maps a location to the role used by the topology helpers.
func bracketRoleOf(loc location) models.BracketRole {
	switch loc {
	case locLoserBracket:
		return models.RoleLowerBracket
	case locFinalGroup:
		return models.RoleFinalGroup
	default:
		return models.RoleUpperBracket
	}
}

func (n navigator) roundPositionalInfo(ctx context.Context, roundID int) (roundNumber, roundCount int, err error) {
	round, err := n.round(ctx, roundID)
	if err != nil {
		return 0, 0, err
	}

	rounds, err := n.store.Rounds().List(ctx, storage.RoundFilter{GroupID: &round.GroupID})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list rounds of group %d: %w", round.GroupID, err)
	}
	return round.Number, len(rounds), nil
}

func (n navigator) roundByNumber(ctx context.Context, groupID, number int) (*models.Round, error) {
	rounds, err := n.store.Rounds().List(ctx, storage.RoundFilter{GroupID: &groupID, Number: &number})
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds of group %d: %w", groupID, err)
	}
	if len(rounds) == 0 {
		return nil, fmt.Errorf("%w: round %d of group %d", ErrRoundNotFound, number, groupID)
	}
	return rounds[0], nil
}

func (n navigator) lastRound(ctx context.Context, groupID int) (*models.Round, error) {
	rounds, err := n.store.Rounds().List(ctx, storage.RoundFilter{GroupID: &groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds of group %d: %w", groupID, err)
	}
	if len(rounds) == 0 {
		return nil, fmt.Errorf("%w: last round of group %d", ErrRoundNotFound, groupID)
	}
	return rounds[len(rounds)-1], nil
}

// findMatch returns the match with the given number in the given round of a
// group.
func (n navigator) findMatch(ctx context.Context, groupID, roundNumber, matchNumber int) (*models.Match, error) {
	round, err := n.roundByNumber(ctx, groupID, roundNumber)
	if err != nil {
		return nil, err
	}

	matches, err := n.store.Matches().List(ctx, storage.MatchFilter{RoundID: &round.ID, Number: &matchNumber})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of round %d: %w", round.ID, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: match %d of round %d", ErrMatchNotFound, matchNumber, round.ID)
	}
	return matches[0], nil
}

func (n navigator) matchesOfRound(ctx context.Context, roundID int) ([]*models.Match, error) {
	matches, err := n.store.Matches().List(ctx, storage.MatchFilter{RoundID: &roundID})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of round %d: %w", roundID, err)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Number < matches[j].Number })
	return matches, nil
}

func (n navigator) groupByNumber(ctx context.Context, stageID, number int) (*models.Group, error) {
	groups, err := n.store.Groups().List(ctx, storage.GroupFilter{StageID: &stageID, Number: &number})
	if err != nil {
		return nil, fmt.Errorf("failed to list groups of stage %d: %w", stageID, err)
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return groups[0], nil
}

// upperBracket returns the only bracket of a single elimination stage or
// the winner bracket of a double elimination stage.
func (n navigator) upperBracket(ctx context.Context, stageID int) (*models.Group, error) {
	group, err := n.groupByNumber(ctx, stageID, 1)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("%w: upper bracket of stage %d", ErrGroupNotFound, stageID)
	}
	return group, nil
}

// loserBracket returns the lower bracket of a double elimination stage, or
// nil when the stage has none.
func (n navigator) loserBracket(ctx context.Context, stageID int) (*models.Group, error) {
	return n.groupByNumber(ctx, stageID, 2)
}

// finalGroup returns the consolation final or grand final group, or nil
// when the stage has none.
func (n navigator) finalGroup(ctx context.Context, stage *models.Stage) (*models.Group, error) {
	number := 3
	if stage.Type == models.StageSingleElimination {
		number = 2
	}
	return n.groupByNumber(ctx, stage.ID, number)
}

// previousMatches returns the matches feeding the given match.
func (n navigator) previousMatches(ctx context.Context, match *models.Match, loc location, stage *models.Stage, roundNumber int) ([]*models.Match, error) {
	switch loc {
	case locLoserBracket:
		return n.previousMatchesLB(ctx, match, stage, roundNumber)
	case locFinalGroup:
		return n.previousMatchesFinal(ctx, match, stage, roundNumber)
	}

	if roundNumber == 1 {
		// First round of an upper bracket.
		return nil, nil
	}
	return n.matchesBeforeMajorRound(ctx, match, roundNumber)
}

func (n navigator) matchesBeforeMajorRound(ctx context.Context, match *models.Match, roundNumber int) ([]*models.Match, error) {
	first, err := n.findMatch(ctx, match.GroupID, roundNumber-1, match.Number*2-1)
	if err != nil {
		return nil, err
	}
	second, err := n.findMatch(ctx, match.GroupID, roundNumber-1, match.Number*2)
	if err != nil {
		return nil, err
	}
	return []*models.Match{first, second}, nil
}

func (n navigator) previousMatchesFinal(ctx context.Context, match *models.Match, stage *models.Stage, roundNumber int) ([]*models.Match, error) {
	if stage.Type == models.StageSingleElimination {
		return n.previousMatchesConsolationFinal(ctx, match, stage)
	}
	return n.previousMatchesGrandFinal(ctx, match, roundNumber)
}

// previousMatchesConsolationFinal returns the semi-final matches. In single
// elimination both the final and the consolation final come from them.
func (n navigator) previousMatchesConsolationFinal(ctx context.Context, match *models.Match, stage *models.Stage) ([]*models.Match, error) {
	upperBracket, err := n.upperBracket(ctx, match.StageID)
	if err != nil {
		return nil, err
	}

	roundCount := brackets.UpperBracketRoundCount(stage.Settings.Size)
	semiFinals, err := n.roundByNumber(ctx, upperBracket.ID, roundCount-1)
	if err != nil {
		return nil, err
	}
	return n.matchesOfRound(ctx, semiFinals.ID)
}

func (n navigator) previousMatchesGrandFinal(ctx context.Context, match *models.Match, roundNumber int) ([]*models.Match, error) {
	if roundNumber > 1 {
		// Bracket reset of a double grand final.
		previous, err := n.findMatch(ctx, match.GroupID, roundNumber-1, 1)
		if err != nil {
			return nil, err
		}
		return []*models.Match{previous}, nil
	}

	winnerBracket, err := n.upperBracket(ctx, match.StageID)
	if err != nil {
		return nil, err
	}
	lastRoundWB, err := n.lastRound(ctx, winnerBracket.ID)
	if err != nil {
		return nil, err
	}
	finalWB, err := n.findMatch(ctx, winnerBracket.ID, lastRoundWB.Number, 1)
	if err != nil {
		return nil, err
	}

	loserBracket, err := n.loserBracket(ctx, match.StageID)
	if err != nil {
		return nil, err
	}
	if loserBracket == nil {
		return nil, fmt.Errorf("%w: loser bracket of stage %d", ErrGroupNotFound, match.StageID)
	}
	lastRoundLB, err := n.lastRound(ctx, loserBracket.ID)
	if err != nil {
		return nil, err
	}
	finalLB, err := n.findMatch(ctx, loserBracket.ID, lastRoundLB.Number, 1)
	if err != nil {
		return nil, err
	}

	return []*models.Match{finalWB, finalLB}, nil
}

func (n navigator) previousMatchesLB(ctx context.Context, match *models.Match, stage *models.Stage, roundNumber int) ([]*models.Match, error) {
	if stage.Settings.SkipFirstRound && roundNumber == 1 {
		return nil, nil
	}
	if brackets.HasBye(match) {
		// Coming from a BYE propagation, there is nothing to walk back to.
		return nil, nil
	}

	winnerBracket, err := n.upperBracket(ctx, match.StageID)
	if err != nil {
		return nil, err
	}

	roundNumberWB := (roundNumber + 2) / 2
	if stage.Settings.SkipFirstRound {
		roundNumberWB--
	}

	if roundNumber == 1 {
		return n.matchesBeforeFirstRoundLB(ctx, match, winnerBracket.ID, roundNumberWB)
	}
	if roundNumber%2 == 0 {
		return n.matchesBeforeMinorRoundLB(ctx, match, winnerBracket.ID, roundNumber, roundNumberWB)
	}
	return n.matchesBeforeMajorRound(ctx, match, roundNumber)
}

// matchesBeforeFirstRoundLB finds the winner bracket matches whose losers
// fill the given first-round lower bracket match, using the positions
// stored on its opponents.
func (n navigator) matchesBeforeFirstRoundLB(ctx context.Context, match *models.Match, winnerBracketID, roundNumberWB int) ([]*models.Match, error) {
	position1, err := brackets.OriginPosition(match, models.SideOpponent1)
	if err != nil {
		return nil, err
	}
	position2, err := brackets.OriginPosition(match, models.SideOpponent2)
	if err != nil {
		return nil, err
	}

	first, err := n.findMatch(ctx, winnerBracketID, roundNumberWB, position1)
	if err != nil {
		return nil, err
	}
	second, err := n.findMatch(ctx, winnerBracketID, roundNumberWB, position2)
	if err != nil {
		return nil, err
	}
	return []*models.Match{first, second}, nil
}

// matchesBeforeMinorRoundLB finds the winner bracket match dropping a loser
// into this minor round match, and the previous major round match.
func (n navigator) matchesBeforeMinorRoundLB(ctx context.Context, match *models.Match, winnerBracketID, roundNumber, roundNumberWB int) ([]*models.Match, error) {
	position, err := brackets.OriginPosition(match, models.SideOpponent1)
	if err != nil {
		return nil, err
	}

	fromWB, err := n.findMatch(ctx, winnerBracketID, roundNumberWB, position)
	if err != nil {
		return nil, err
	}
	fromLB, err := n.findMatch(ctx, match.GroupID, roundNumber-1, match.Number)
	if err != nil {
		return nil, err
	}
	return []*models.Match{fromWB, fromLB}, nil
}

// nextMatches returns the matches the opponents of the given match advance
// to. For winner bracket matches the second entry is the lower bracket
// destination of the loser, for single elimination semi-finals it is the
// consolation final.
func (n navigator) nextMatches(ctx context.Context, match *models.Match, loc location, stage *models.Stage, roundNumber, roundCount int) ([]*models.Match, error) {
	switch loc {
	case locSingleBracket:
		return n.nextMatchesUpperBracket(ctx, match, stage, roundNumber, roundCount)
	case locWinnerBracket:
		return n.nextMatchesWB(ctx, match, stage, roundNumber, roundCount)
	case locLoserBracket:
		return n.nextMatchesLB(ctx, match, stage, roundNumber, roundCount)
	case locFinalGroup:
		return n.nextMatchesFinal(ctx, match, roundNumber, roundCount)
	default:
		return nil, fmt.Errorf("unknown bracket location for match %d", match.ID)
	}
}

func (n navigator) nextMatchesWB(ctx context.Context, match *models.Match, stage *models.Stage, roundNumber, roundCount int) ([]*models.Match, error) {
	loserBracket, err := n.loserBracket(ctx, match.StageID)
	if err != nil {
		return nil, err
	}
	if loserBracket == nil {
		// Only one match in the stage.
		return nil, nil
	}

	actualRoundNumber := roundNumber
	if stage.Settings.SkipFirstRound {
		actualRoundNumber++
	}
	roundNumberLB := 1
	if actualRoundNumber > 1 {
		roundNumberLB = (actualRoundNumber - 1) * 2
	}

	method := brackets.LoserOrdering(stage.Settings.SeedOrdering, roundNumberLB)
	matchNumberLB, err := brackets.LoserMatchNumber(stage.Settings.Size, roundNumberLB, match.Number, method)
	if err != nil {
		return nil, err
	}

	next, err := n.nextMatchesUpperBracket(ctx, match, stage, roundNumber, roundCount)
	if err != nil {
		return nil, err
	}

	loserDestination, err := n.findMatch(ctx, loserBracket.ID, roundNumberLB, matchNumberLB)
	if err != nil {
		return nil, err
	}
	return append(next, loserDestination), nil
}

func (n navigator) nextMatchesUpperBracket(ctx context.Context, match *models.Match, stage *models.Stage, roundNumber, roundCount int) ([]*models.Match, error) {
	if stage.Type == models.StageSingleElimination {
		return n.nextMatchesSingleBracket(ctx, match, stage, roundNumber, roundCount)
	}

	if roundNumber == roundCount {
		// The winner advances to the grand final. Without one, a nil entry
		// keeps the loser destination in second position.
		final, err := n.firstMatchFinal(ctx, stage)
		if err != nil {
			return nil, err
		}
		return []*models.Match{final}, nil
	}

	diagonal, err := n.findMatch(ctx, match.GroupID, roundNumber+1, brackets.DiagonalMatchNumber(match.Number))
	if err != nil {
		return nil, err
	}
	return []*models.Match{diagonal}, nil
}

func (n navigator) nextMatchesSingleBracket(ctx context.Context, match *models.Match, stage *models.Stage, roundNumber, roundCount int) ([]*models.Match, error) {
	if roundNumber == roundCount {
		return nil, nil
	}

	diagonal, err := n.findMatch(ctx, match.GroupID, roundNumber+1, brackets.DiagonalMatchNumber(match.Number))
	if err != nil {
		return nil, err
	}

	if roundNumber == roundCount-1 {
		// Semi-final losers can advance to a consolation final.
		final, err := n.firstMatchFinal(ctx, stage)
		if err != nil {
			return nil, err
		}
		if final != nil {
			return []*models.Match{diagonal, final}, nil
		}
	}
	return []*models.Match{diagonal}, nil
}

func (n navigator) nextMatchesLB(ctx context.Context, match *models.Match, stage *models.Stage, roundNumber, roundCount int) ([]*models.Match, error) {
	if roundNumber == roundCount {
		final, err := n.firstMatchFinal(ctx, stage)
		if err != nil {
			return nil, err
		}
		if final == nil {
			// No grand final configured.
			return nil, nil
		}
		return []*models.Match{final}, nil
	}

	// Major rounds feed the parallel match of the next minor round, minor
	// rounds feed the diagonal match of the next major round.
	matchNumber := match.Number
	if roundNumber%2 == 0 {
		matchNumber = brackets.DiagonalMatchNumber(match.Number)
	}
	next, err := n.findMatch(ctx, match.GroupID, roundNumber+1, matchNumber)
	if err != nil {
		return nil, err
	}
	return []*models.Match{next}, nil
}

func (n navigator) firstMatchFinal(ctx context.Context, stage *models.Stage) (*models.Match, error) {
	finalGroup, err := n.finalGroup(ctx, stage)
	if err != nil {
		return nil, err
	}
	if finalGroup == nil {
		return nil, nil
	}
	return n.findMatch(ctx, finalGroup.ID, 1, 1)
}

func (n navigator) nextMatchesFinal(ctx context.Context, match *models.Match, roundNumber, roundCount int) ([]*models.Match, error) {
	// No bracket reset when the tournament is already decided.
	if roundNumber == roundCount || (match.Opponent1 != nil && match.Opponent1.Result == models.ResultWin) {
		return nil, nil
	}
	next, err := n.findMatch(ctx, match.GroupID, roundNumber+1, 1)
	if err != nil {
		return nil, err
	}
	return []*models.Match{next}, nil
}

// orderedRounds returns the rounds of an elimination stage whose
// participants were placed by an ordering method.
func (n navigator) orderedRounds(ctx context.Context, stage *models.Stage) ([]*models.Round, error) {
	upperBracket, err := n.upperBracket(ctx, stage.ID)
	if err != nil {
		return nil, err
	}
	firstRound, err := n.roundByNumber(ctx, upperBracket.ID, 1)
	if err != nil {
		return nil, err
	}

	if stage.Type == models.StageSingleElimination {
		return []*models.Round{firstRound}, nil
	}

	loserBracket, err := n.loserBracket(ctx, stage.ID)
	if err != nil {
		return nil, err
	}
	if loserBracket == nil {
		return []*models.Round{firstRound}, nil
	}

	roundsLB, err := n.store.Rounds().List(ctx, storage.RoundFilter{GroupID: &loserBracket.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds of group %d: %w", loserBracket.ID, err)
	}

	ordered := []*models.Round{firstRound}
	for _, round := range roundsLB {
		if brackets.IsOrderingSupportedLoserBracket(round.Number, len(roundsLB)) {
			ordered = append(ordered, round)
		}
	}
	return ordered, nil
}

// seedingMatches returns the matches holding the seeding of a stage: all of
// them for a round-robin stage, the first upper bracket round otherwise.
func (n navigator) seedingMatches(ctx context.Context, stage *models.Stage) ([]*models.Match, error) {
	if stage.Type == models.StageRoundRobin {
		matches, err := n.store.Matches().List(ctx, storage.MatchFilter{StageID: &stage.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to list matches of stage %d: %w", stage.ID, err)
		}
		return matches, nil
	}

	upperBracket, err := n.upperBracket(ctx, stage.ID)
	if err != nil {
		return nil, err
	}
	firstRound, err := n.roundByNumber(ctx, upperBracket.ID, 1)
	if err != nil {
		return nil, err
	}
	return n.matchesOfRound(ctx, firstRound.ID)
}
