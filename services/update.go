package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/storage"
)

// Update applies match results and stage reconfigurations, propagating the
// consequences through the bracket.
type Update interface {
	// Match applies a partial update to the match identified by update.ID.
	Match(ctx context.Context, update *models.MatchUpdate) error
	// Seeding replaces the seeding of a stage, recreating its matches in
	// place. Matches that already started keep their participants.
	Seeding(ctx context.Context, stageID int, seeding models.Seeding) error
	// ConfirmSeeding freezes the current seeding of a stage: every
	// undetermined slot becomes a BYE, which is then propagated.
	ConfirmSeeding(ctx context.Context, stageID int) error
	// Ordering reapplies a seed ordering method to every ordered round of
	// an elimination stage.
	Ordering(ctx context.Context, stageID int, methods []models.SeedOrdering) error
	// RoundOrdering reapplies a seed ordering method to a single round.
	RoundOrdering(ctx context.Context, roundID int, method models.SeedOrdering) error
}

type updateService struct {
	updater
}

func NewUpdate(store storage.Storage) Update {
	return &updateService{updater: updater{navigator{store: store}}}
}

func (s *updateService) Match(ctx context.Context, update *models.MatchUpdate) error {
	stored, err := s.match(ctx, update.ID)
	if err != nil {
		return err
	}
	return s.updateMatch(ctx, stored, update, false)
}

func (s *updateService) Seeding(ctx context.Context, stageID int, seeding models.Seeding) error {
	return s.updateSeeding(ctx, stageID, seeding)
}

func (s *updateService) ConfirmSeeding(ctx context.Context, stageID int) error {
	stage, err := s.stage(ctx, stageID)
	if err != nil {
		return err
	}

	slots, err := s.stageSeedingSlots(ctx, stage)
	if err != nil {
		return err
	}

	// Convert TBDs to BYEs.
	seeding := make(models.Seeding, len(slots))
	for i, slot := range slots {
		if slot == nil || slot.ID == nil {
			continue
		}
		id := *slot.ID
		seeding[i] = &id
	}

	creator := newStageCreator(s.store, InputStage{
		TournamentID: stage.TournamentID,
		Name:         stage.Name,
		Type:         stage.Type,
		Seeding:      seeding,
		Settings:     stage.Settings,
	})
	creator.setExisting(stageID, true)

	_, err = creator.run(ctx)
	return err
}

func (s *updateService) Ordering(ctx context.Context, stageID int, methods []models.SeedOrdering) error {
	stage, err := s.stage(ctx, stageID)
	if err != nil {
		return err
	}
	if stage.Type == models.StageRoundRobin {
		return ErrRoundRobinOrdering
	}

	rounds, err := s.orderedRounds(ctx, stage)
	if err != nil {
		return err
	}
	if len(methods) != len(rounds) {
		return ErrOrderingCount
	}

	for i, round := range rounds {
		if err := s.updateRoundOrdering(ctx, stage, round, methods[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *updateService) RoundOrdering(ctx context.Context, roundID int, method models.SeedOrdering) error {
	round, err := s.round(ctx, roundID)
	if err != nil {
		return err
	}
	stage, err := s.stage(ctx, round.StageID)
	if err != nil {
		return err
	}
	if stage.Type == models.StageRoundRobin {
		return ErrRoundRobinOrdering
	}
	return s.updateRoundOrdering(ctx, stage, round, method)
}

// updater carries the propagation logic shared by match updates, seeding
// updates and resets.
type updater struct {
	navigator
}

func (u updater) saveMatch(ctx context.Context, match *models.Match) error {
	if err := u.store.Matches().Update(ctx, match); err != nil {
		return fmt.Errorf("failed to update match %d: %w", match.ID, err)
	}
	return nil
}

// updateMatch applies a partial update to a stored match and updates the
// related matches when the status or the result changed.
func (u updater) updateMatch(ctx context.Context, stored *models.Match, update *models.MatchUpdate, force bool) error {
	if !force {
		locked, err := u.isMatchUpdateLocked(ctx, stored)
		if err != nil {
			return err
		}
		if locked {
			return ErrMatchLocked
		}
	}

	stage, err := u.stage(ctx, stored.StageID)
	if err != nil {
		return err
	}

	outcome, err := brackets.ApplyMatchUpdate(stored, update)
	if err != nil {
		return err
	}
	if err := u.saveMatch(ctx, stored); err != nil {
		return err
	}

	// A simple score update does not affect the related matches.
	if !outcome.StatusChanged && !outcome.ResultChanged {
		return nil
	}

	if stage.Type == models.StageRoundRobin {
		return nil
	}
	return u.updateRelatedMatches(ctx, stored, outcome.StatusChanged, outcome.ResultChanged)
}

// isMatchUpdateLocked reports whether the match cannot be updated, either
// because its participants are not determined yet, or because a following
// match already started with its outcome.
func (u updater) isMatchUpdateLocked(ctx context.Context, match *models.Match) (bool, error) {
	if match.Status == models.StatusLocked || match.Status == models.StatusWaiting {
		return true, nil
	}

	stage, err := u.stage(ctx, match.StageID)
	if err != nil {
		return false, err
	}
	if stage.Type == models.StageRoundRobin {
		return false, nil
	}

	group, err := u.group(ctx, match.GroupID)
	if err != nil {
		return false, err
	}
	roundNumber, roundCount, err := u.roundPositionalInfo(ctx, match.RoundID)
	if err != nil {
		return false, err
	}

	loc := matchLocation(stage, group)
	nextMatches, err := u.nextMatches(ctx, match, loc, stage, roundNumber, roundCount)
	if err != nil {
		return false, err
	}

	for _, next := range nextMatches {
		if next != nil && next.Status >= models.StatusRunning && !brackets.ByeCompleted(next) {
			return true, nil
		}
	}
	return false, nil
}

func (u updater) updateRelatedMatches(ctx context.Context, match *models.Match, updatePrevious, updateNext bool) error {
	roundNumber, roundCount, err := u.roundPositionalInfo(ctx, match.RoundID)
	if err != nil {
		return err
	}
	stage, err := u.stage(ctx, match.StageID)
	if err != nil {
		return err
	}
	group, err := u.group(ctx, match.GroupID)
	if err != nil {
		return err
	}

	loc := matchLocation(stage, group)

	if updatePrevious {
		if err := u.updatePrevious(ctx, match, loc, stage, roundNumber); err != nil {
			return err
		}
	}
	if updateNext {
		if err := u.updateNext(ctx, match, loc, stage, roundNumber, roundCount); err != nil {
			return err
		}
	}
	return nil
}

// updatePrevious resets the status of the matches leading to the given
// match when its own completion was removed.
func (u updater) updatePrevious(ctx context.Context, match *models.Match, loc location, stage *models.Stage, roundNumber int) error {
	previousMatches, err := u.previousMatches(ctx, match, loc, stage, roundNumber)
	if err != nil {
		return err
	}
	if len(previousMatches) == 0 || match.Status >= models.StatusRunning {
		return nil
	}

	for _, previous := range previousMatches {
		previous.Status = brackets.MatchStatusOf(previous.Opponent1, previous.Opponent2)
		if err := u.saveMatch(ctx, previous); err != nil {
			return err
		}
	}
	return nil
}

// updateNext carries the winner and loser of the given match into the
// following matches, or removes them when the match has no winner anymore.
func (u updater) updateNext(ctx context.Context, match *models.Match, loc location, stage *models.Stage, roundNumber, roundCount int) error {
	nextMatches, err := u.nextMatches(ctx, match, loc, stage, roundNumber, roundCount)
	if err != nil {
		return err
	}
	if len(nextMatches) == 0 {
		return nil
	}

	winnerSide := brackets.WinnerSide(match)
	actualRoundNumber := roundNumber
	if stage.Settings.SkipFirstRound && loc == locWinnerBracket {
		actualRoundNumber++
	}

	apply := brackets.SetNextOpponent
	if winnerSide == "" {
		apply = func(next *models.Match, side models.Side, _ *models.Match, _ models.Side) {
			brackets.ResetNextOpponent(next, side)
		}
	}
	return u.applyToNextMatches(ctx, apply, match, loc, actualRoundNumber, roundCount, nextMatches, winnerSide)
}

type setNextOpponentFn func(next *models.Match, side models.Side, match *models.Match, fromSide models.Side)

func (u updater) applyToNextMatches(ctx context.Context, apply setNextOpponentFn, match *models.Match, loc location, roundNumber, roundCount int, nextMatches []*models.Match, winnerSide models.Side) error {
	if loc == locFinalGroup {
		next := nextMatches[0]
		apply(next, models.SideOpponent1, match, models.SideOpponent1)
		apply(next, models.SideOpponent2, match, models.SideOpponent2)
		return u.saveMatch(ctx, next)
	}

	nextSide := brackets.NextSide(match.Number, roundNumber, roundCount, bracketRoleOf(loc))

	// The first entry is nil for a winner bracket final without a grand
	// final: the winner goes nowhere but the loser still drops below.
	if nextMatches[0] != nil {
		apply(nextMatches[0], nextSide, match, winnerSide)
		if err := u.propagateByeWinners(ctx, nextMatches[0]); err != nil {
			return err
		}
	}

	if len(nextMatches) != 2 {
		return nil
	}

	// The second next match receives the loser: it is either the
	// consolation final of a single elimination stage or a lower bracket
	// match of a double elimination stage.
	loserSide := winnerSide
	if winnerSide != "" {
		loserSide = winnerSide.Other()
	}

	if loc == locSingleBracket {
		apply(nextMatches[1], nextSide, match, loserSide)
		return u.saveMatch(ctx, nextMatches[1])
	}

	nextSideLB, err := brackets.NextSideLoserBracket(match.Number, nextMatches[1], roundNumber)
	if err != nil {
		return err
	}
	apply(nextMatches[1], nextSideLB, match, loserSide)
	return u.propagateByeWinners(ctx, nextMatches[1])
}

// propagateByeWinners completes a match when one side is a BYE and walks
// the walkover down the bracket.
func (u updater) propagateByeWinners(ctx context.Context, match *models.Match) error {
	if _, err := brackets.ApplyMatchUpdate(match, &models.MatchUpdate{ID: match.ID}); err != nil {
		return err
	}
	if err := u.saveMatch(ctx, match); err != nil {
		return err
	}

	if brackets.HasBye(match) {
		return u.updateRelatedMatches(ctx, match, true, true)
	}
	return nil
}

// updateSeeding recreates the matches of a stage with a new seeding. A nil
// seeding resets every slot to TBD.
func (u updater) updateSeeding(ctx context.Context, stageID int, seeding models.Seeding) error {
	stage, err := u.stage(ctx, stageID)
	if err != nil {
		return err
	}

	creator := newStageCreator(u.store, InputStage{
		TournamentID: stage.TournamentID,
		Name:         stage.Name,
		Type:         stage.Type,
		Seeding:      seeding,
		Settings:     stage.Settings,
	})
	creator.setExisting(stageID, false)

	method, err := creator.seedingOrdering()
	if err != nil {
		return err
	}
	slots, err := creator.slots(nil)
	if err != nil {
		return err
	}

	var args []int
	if brackets.IsGroupMethod(method) {
		args = append(args, stage.Settings.GroupCount)
	}
	ordered, err := brackets.Order(slots, method, args...)
	if err != nil {
		return err
	}

	matches, err := u.seedingMatches(ctx, stage)
	if err != nil {
		return err
	}
	if err := assertCanUpdateSeeding(matches, ordered); err != nil {
		return err
	}

	_, err = creator.run(ctx)
	return err
}

// assertCanUpdateSeeding checks that a new seeding does not move the
// participants of a match that already started.
func assertCanUpdateSeeding(matches []*models.Match, slots []brackets.Slot) error {
	index := 0
	for _, match := range matches {
		var slot1, slot2 brackets.Slot
		if index < len(slots) {
			slot1 = slots[index]
		}
		index++
		if index < len(slots) {
			slot2 = slots[index]
		}
		index++

		if match.Status < models.StatusRunning {
			continue
		}
		if !sameSeedSlot(match.Opponent1, slot1) || !sameSeedSlot(match.Opponent2, slot2) {
			return ErrSeedingLocked
		}
	}
	return nil
}

func sameSeedSlot(stored, slot *models.Opponent) bool {
	if (stored == nil) != (slot == nil) {
		return false
	}
	if stored == nil {
		return true
	}
	if (stored.ID == nil) != (slot.ID == nil) {
		return false
	}
	return stored.ID == nil || *stored.ID == *slot.ID
}

// updateRoundOrdering replaces the participants of a round according to an
// ordering method, as long as no match of the round has started.
func (u updater) updateRoundOrdering(ctx context.Context, stage *models.Stage, round *models.Round, method models.SeedOrdering) error {
	matches, err := u.matchesOfRound(ctx, round.ID)
	if err != nil {
		return err
	}
	for _, match := range matches {
		if match.Status > models.StatusReady {
			return ErrRoundStarted
		}
	}

	group, err := u.group(ctx, round.GroupID)
	if err != nil {
		return err
	}
	inLoserBracket := matchLocation(stage, group) == locLoserBracket
	roundCountLB := brackets.LowerBracketRoundCount(stage.Settings.Size)

	seedCount, err := orderedSeedCount(inLoserBracket, round.Number, roundCountLB, len(matches))
	if err != nil {
		return err
	}
	seeds := make([]int, seedCount)
	for i := range seeds {
		seeds[i] = i + 1
	}
	positions, err := brackets.Order(seeds, method)
	if err != nil {
		return err
	}

	return u.applyRoundOrdering(ctx, round.Number, matches, positions)
}

// orderedSeedCount returns the number of ordered participants in a round.
// First rounds have both sides ordered, minor rounds of the lower bracket
// only receive one winner bracket loser per match.
func orderedSeedCount(inLoserBracket bool, roundNumber, roundCountLB, matchCount int) (int, error) {
	if inLoserBracket {
		if !brackets.IsOrderingSupportedLoserBracket(roundNumber, roundCountLB) {
			return 0, ErrRoundOrderingUnsupported
		}
		if roundNumber%2 == 0 {
			return matchCount, nil
		}
		return matchCount * 2, nil
	}

	if !brackets.IsOrderingSupportedUpperBracket(roundNumber) {
		return 0, ErrRoundOrderingUnsupported
	}
	return matchCount * 2, nil
}

func (u updater) applyRoundOrdering(ctx context.Context, roundNumber int, matches []*models.Match, positions []int) error {
	for _, match := range matches {
		updated := match.Clone()

		slot, err := findSeedPosition(matches, positions[0])
		if err != nil {
			return err
		}
		positions = positions[1:]
		updated.Opponent1 = slot

		// Only first rounds of a bracket have two ordered participants.
		if roundNumber == 1 {
			slot, err := findSeedPosition(matches, positions[0])
			if err != nil {
				return err
			}
			positions = positions[1:]
			updated.Opponent2 = slot
		}

		if err := u.saveMatch(ctx, updated); err != nil {
			return err
		}
	}
	return nil
}

// findSeedPosition returns the slot holding the given position among the
// matches of a round, as stored before the reordering.
func findSeedPosition(matches []*models.Match, position int) (*models.Opponent, error) {
	for _, match := range matches {
		if match.Opponent1 != nil && match.Opponent1.Position == position {
			return match.Opponent1.Clone(), nil
		}
		if match.Opponent2 != nil && match.Opponent2.Position == position {
			return match.Opponent2.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %d", brackets.ErrPositionNotFound, position)
}
