package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/storage"
)

// StandingItem is one row of the final standings of a stage. Participants
// sharing a rank were eliminated in the same round.
type StandingItem struct {
	ID   int `json:"id"`
	Rank int `json:"rank"`
}

// Get answers queries about stored stages.
type Get interface {
	// StageData returns everything needed to display a stage.
	StageData(ctx context.Context, stageID int) (*storage.Dataset, error)
	// TournamentData returns every stage of a tournament with its records.
	TournamentData(ctx context.Context, tournamentID int) (*storage.Dataset, error)
	// CurrentStage returns the first stage with uncompleted matches, or nil
	// when the tournament is over.
	CurrentStage(ctx context.Context, tournamentID int) (*models.Stage, error)
	// CurrentRound returns the first round with uncompleted matches, or nil
	// when the stage is over.
	CurrentRound(ctx context.Context, stageID int) (*models.Round, error)
	// CurrentMatches returns the matches that can be played in parallel.
	// Only implemented for single elimination stages.
	CurrentMatches(ctx context.Context, stageID int) ([]*models.Match, error)
	// Seeding returns the current seeding of a stage, with a nil entry per
	// BYE.
	Seeding(ctx context.Context, stageID int) ([]*models.Opponent, error)
	// FinalStandings ranks the participants of a completed elimination
	// stage.
	FinalStandings(ctx context.Context, stageID int) ([]StandingItem, error)
}

type getService struct {
	navigator
}

func NewGet(store storage.Storage) Get {
	return &getService{navigator{store: store}}
}

func (s *getService) StageData(ctx context.Context, stageID int) (*storage.Dataset, error) {
	stage, err := s.stage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	return s.stageDataset(ctx, stage)
}

func (s *getService) TournamentData(ctx context.Context, tournamentID int) (*storage.Dataset, error) {
	stages, err := s.store.Stages().List(ctx, storage.StageFilter{TournamentID: &tournamentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list stages of tournament %d: %w", tournamentID, err)
	}

	dataset := &storage.Dataset{Stages: stages}
	for _, stage := range stages {
		part, err := s.stageDataset(ctx, stage)
		if err != nil {
			return nil, err
		}
		dataset.Groups = append(dataset.Groups, part.Groups...)
		dataset.Rounds = append(dataset.Rounds, part.Rounds...)
		dataset.Matches = append(dataset.Matches, part.Matches...)
	}
	return dataset, nil
}

func (s *getService) stageDataset(ctx context.Context, stage *models.Stage) (*storage.Dataset, error) {
	groups, err := s.store.Groups().List(ctx, storage.GroupFilter{StageID: &stage.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list groups of stage %d: %w", stage.ID, err)
	}
	rounds, err := s.store.Rounds().List(ctx, storage.RoundFilter{StageID: &stage.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds of stage %d: %w", stage.ID, err)
	}
	matches, err := s.store.Matches().List(ctx, storage.MatchFilter{StageID: &stage.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of stage %d: %w", stage.ID, err)
	}

	return &storage.Dataset{
		Stages:  []*models.Stage{stage},
		Groups:  groups,
		Rounds:  rounds,
		Matches: matches,
	}, nil
}

func (s *getService) CurrentStage(ctx context.Context, tournamentID int) (*models.Stage, error) {
	stages, err := s.store.Stages().List(ctx, storage.StageFilter{TournamentID: &tournamentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list stages of tournament %d: %w", tournamentID, err)
	}

	for _, stage := range stages {
		matches, err := s.store.Matches().List(ctx, storage.MatchFilter{StageID: &stage.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to list matches of stage %d: %w", stage.ID, err)
		}
		if !allCompleted(matches) {
			return stage, nil
		}
	}
	return nil, nil
}

func (s *getService) CurrentRound(ctx context.Context, stageID int) (*models.Round, error) {
	matches, err := s.store.Matches().List(ctx, storage.MatchFilter{StageID: &stageID})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of stage %d: %w", stageID, err)
	}

	for _, roundMatches := range splitByRound(matches) {
		if allCompleted(roundMatches) {
			continue
		}
		return s.round(ctx, roundMatches[0].RoundID)
	}
	return nil, nil
}

func (s *getService) CurrentMatches(ctx context.Context, stageID int) ([]*models.Match, error) {
	stage, err := s.stage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if stage.Type != models.StageSingleElimination {
		return nil, ErrNotImplemented
	}

	matches, err := s.store.Matches().List(ctx, storage.MatchFilter{StageID: &stageID})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of stage %d: %w", stageID, err)
	}

	matchesByRound := splitByRound(matches)
	roundCount := brackets.UpperBracketRoundCount(stage.Settings.Size)

	for index, roundMatches := range matchesByRound {
		if stage.Settings.ConsolationFinal && index == roundCount-1 && index+1 < len(matchesByRound) {
			// The final and the consolation final can be played in parallel.
			finals := []*models.Match{roundMatches[0], matchesByRound[index+1][0]}
			if allCompleted(finals) {
				return nil, nil
			}
			return finals, nil
		}

		if allCompleted(roundMatches) {
			continue
		}
		return roundMatches, nil
	}
	return nil, nil
}

func (s *getService) Seeding(ctx context.Context, stageID int) ([]*models.Opponent, error) {
	stage, err := s.stage(ctx, stageID)
	if err != nil {
		return nil, err
	}

	slots, err := s.stageSeedingSlots(ctx, stage)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Opponent, len(slots))
	for i, slot := range slots {
		if slot == nil {
			continue
		}
		out[i] = &models.Opponent{ID: cloneID(slot.ID), Position: slot.Position}
	}
	return out, nil
}

func (s *getService) FinalStandings(ctx context.Context, stageID int) ([]StandingItem, error) {
	stage, err := s.stage(ctx, stageID)
	if err != nil {
		return nil, err
	}

	switch stage.Type {
	case models.StageRoundRobin:
		return nil, ErrRoundRobinStandings
	case models.StageSingleElimination:
		return s.singleEliminationStandings(ctx, stage)
	case models.StageDoubleElimination:
		if stage.Settings.Size == 2 {
			// No lower bracket, the stage is a single match.
			return s.singleEliminationStandings(ctx, stage)
		}
		return s.doubleEliminationStandings(ctx, stage)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStageType, stage.Type)
	}
}

func (s *getService) singleEliminationStandings(ctx context.Context, stage *models.Stage) ([]StandingItem, error) {
	data, err := s.stageDataset(ctx, stage)
	if err != nil {
		return nil, err
	}
	if len(data.Groups) == 0 {
		return nil, fmt.Errorf("%w: brackets of stage %d", ErrGroupNotFound, stage.ID)
	}

	bracketMatches := matchesOfGroup(data.Matches, data.Groups[0].ID)
	if len(bracketMatches) == 0 {
		return nil, fmt.Errorf("%w: final of stage %d", ErrMatchNotFound, stage.ID)
	}

	final := bracketMatches[len(bracketMatches)-1]
	winner, err := finalWinner(final)
	if err != nil {
		return nil, err
	}

	// First the champion, then every loser, latest eliminations first.
	grouped := [][]int{{winner}}
	losers := losersByRound(bracketMatches)
	for i := len(losers) - 1; i >= 0; i-- {
		grouped = append(grouped, losers[i])
	}

	if stage.Settings.ConsolationFinal && len(data.Groups) > 1 {
		consolationMatches := matchesOfGroup(data.Matches, data.Groups[1].ID)
		if len(consolationMatches) == 0 {
			return nil, fmt.Errorf("%w: consolation final of stage %d", ErrMatchNotFound, stage.ID)
		}
		consolation := consolationMatches[len(consolationMatches)-1]

		consolationWinner, err := finalWinner(consolation)
		if err != nil {
			return nil, err
		}
		loser := brackets.Loser(consolation)
		if loser == nil || loser.ID == nil {
			return nil, ErrNoWinner
		}

		// The consolation final decides the 3rd and 4th places, replacing
		// the semi-final losers group.
		replaced := append([][]int{}, grouped[:2]...)
		replaced = append(replaced, []int{consolationWinner}, []int{*loser.ID})
		grouped = append(replaced, grouped[3:]...)
	}

	return makeStandings(grouped), nil
}

func (s *getService) doubleEliminationStandings(ctx context.Context, stage *models.Stage) ([]StandingItem, error) {
	data, err := s.stageDataset(ctx, stage)
	if err != nil {
		return nil, err
	}
	if len(data.Groups) < 2 {
		return nil, fmt.Errorf("%w: brackets of stage %d", ErrGroupNotFound, stage.ID)
	}

	winnerBracket := matchesOfGroup(data.Matches, data.Groups[0].ID)
	loserBracket := matchesOfGroup(data.Matches, data.Groups[1].ID)
	if len(winnerBracket) == 0 || len(loserBracket) == 0 {
		return nil, fmt.Errorf("%w: finals of stage %d", ErrMatchNotFound, stage.ID)
	}

	var grouped [][]int
	if stage.Settings.GrandFinal == models.GrandFinalNone {
		winnerWB, err := finalWinner(winnerBracket[len(winnerBracket)-1])
		if err != nil {
			return nil, err
		}
		winnerLB, err := finalWinner(loserBracket[len(loserBracket)-1])
		if err != nil {
			return nil, err
		}
		grouped = [][]int{{winnerWB}, {winnerLB}}
	} else {
		if len(data.Groups) < 3 {
			return nil, fmt.Errorf("%w: grand final of stage %d", ErrGroupNotFound, stage.ID)
		}
		grandFinal := matchesOfGroup(data.Matches, data.Groups[2].ID)
		decisive, err := grandFinalDecisiveMatch(stage.Settings.GrandFinal, grandFinal)
		if err != nil {
			return nil, err
		}

		winner, err := finalWinner(decisive)
		if err != nil {
			return nil, err
		}
		loser := brackets.Loser(decisive)
		if loser == nil || loser.ID == nil {
			return nil, ErrNoWinner
		}
		grouped = [][]int{{winner}, {*loser.ID}}
	}

	losers := losersByRound(loserBracket)
	for i := len(losers) - 1; i >= 0; i-- {
		grouped = append(grouped, losers[i])
	}
	return makeStandings(grouped), nil
}

// grandFinalDecisiveMatch returns the grand final match that decided the
// stage. With a double grand final, the second match only counts when the
// lower bracket winner won the first one.
func grandFinalDecisiveMatch(grandFinal models.GrandFinalType, matches []*models.Match) (*models.Match, error) {
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: grand final", ErrMatchNotFound)
	}
	if grandFinal == models.GrandFinalDouble {
		first := matches[0]
		if first.Opponent1 == nil || first.Opponent1.Result != models.ResultWin {
			if len(matches) < 2 {
				return nil, fmt.Errorf("%w: grand final reset", ErrMatchNotFound)
			}
			return matches[1], nil
		}
	}
	return matches[0], nil
}

func finalWinner(match *models.Match) (int, error) {
	winner := brackets.Winner(match)
	if winner == nil || winner.ID == nil {
		return 0, ErrNoWinner
	}
	return *winner.ID, nil
}

// losersByRound collects the losers of a bracket, one group per round, in
// round order. Matches without a decided loser are skipped.
func losersByRound(matches []*models.Match) [][]int {
	var grouped [][]int
	currentRound := -1
	for _, match := range matches {
		if match.RoundID != currentRound {
			currentRound = match.RoundID
			grouped = append(grouped, nil)
		}
		loser := brackets.Loser(match)
		if loser == nil || loser.ID == nil {
			continue
		}
		grouped[len(grouped)-1] = append(grouped[len(grouped)-1], *loser.ID)
	}
	return grouped
}

func makeStandings(grouped [][]int) []StandingItem {
	var standings []StandingItem
	for rank, group := range grouped {
		for _, id := range group {
			standings = append(standings, StandingItem{ID: id, Rank: rank + 1})
		}
	}
	return standings
}

func matchesOfGroup(matches []*models.Match, groupID int) []*models.Match {
	var out []*models.Match
	for _, match := range matches {
		if match.GroupID == groupID {
			out = append(out, match)
		}
	}
	return out
}

func allCompleted(matches []*models.Match) bool {
	for _, match := range matches {
		if match.Status < models.StatusCompleted {
			return false
		}
	}
	return true
}

// splitByRound groups matches by round, keeping the storage order.
func splitByRound(matches []*models.Match) [][]*models.Match {
	var (
		grouped [][]*models.Match
		index   = make(map[int]int)
	)
	for _, match := range matches {
		i, ok := index[match.RoundID]
		if !ok {
			i = len(grouped)
			index[match.RoundID] = i
			grouped = append(grouped, nil)
		}
		grouped[i] = append(grouped[i], match)
	}
	return grouped
}

// stageSeedingSlots rebuilds the seeding of a stage from its stored
// matches, BYEs included.
func (n navigator) stageSeedingSlots(ctx context.Context, stage *models.Stage) ([]brackets.Slot, error) {
	matches, err := n.seedingMatches(ctx, stage)
	if err != nil {
		return nil, err
	}

	slots := seedingFromMatches(matches)
	if stage.Type != models.StageRoundRobin {
		return slots, nil
	}

	// BYE vs. BYE matches are not stored for round-robin stages, so the
	// flattened slots can come up short.
	size := stage.Settings.Size
	for len(slots) < size {
		slots = append(slots, nil)
	}
	slots = uniqueByPosition(slots)
	return setSlotsSize(slots, size), nil
}

func seedingFromMatches(matches []*models.Match) []brackets.Slot {
	flattened := make([]brackets.Slot, 0, len(matches)*2)
	for _, match := range matches {
		flattened = append(flattened, match.Opponent1, match.Opponent2)
	}
	return sortSeedingSlots(flattened)
}

// sortSeedingSlots puts slots back in seed order. BYEs leave their seed
// position empty, and TBD slots without a recorded position take the
// remaining free positions.
func sortSeedingSlots(slots []brackets.Slot) []brackets.Slot {
	out := make([]brackets.Slot, len(slots))
	var unpositioned []brackets.Slot

	for _, slot := range slots {
		switch {
		case slot == nil:
		case slot.Position >= 1 && slot.Position <= len(slots):
			if out[slot.Position-1] == nil {
				out[slot.Position-1] = slot
			}
		default:
			unpositioned = append(unpositioned, slot)
		}
	}

	for i := 0; i < len(out) && len(unpositioned) > 0; i++ {
		if out[i] == nil {
			out[i] = unpositioned[0]
			unpositioned = unpositioned[1:]
		}
	}
	return out
}

// uniqueByPosition keeps the first slot seen for each position. BYEs are
// all kept.
func uniqueByPosition(slots []brackets.Slot) []brackets.Slot {
	seen := make(map[int]struct{})
	out := make([]brackets.Slot, 0, len(slots))
	for _, slot := range slots {
		if slot == nil || slot.Position == 0 {
			out = append(out, slot)
			continue
		}
		if _, ok := seen[slot.Position]; ok {
			continue
		}
		seen[slot.Position] = struct{}{}
		out = append(out, slot)
	}
	return out
}

func setSlotsSize(slots []brackets.Slot, size int) []brackets.Slot {
	out := make([]brackets.Slot, size)
	copy(out, slots)
	return out
}

func cloneID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
