package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/storage"
)

// InputStage describes a stage to create. Either Settings.Size or Seeding
// must be given. A Number of 0 appends the stage after the existing ones.
type InputStage struct {
	TournamentID int                  `json:"tournament_id"`
	Name         string               `json:"name"`
	Type         models.StageType     `json:"type"`
	Number       int                  `json:"number,omitempty"`
	Seeding      models.Seeding       `json:"seeding,omitempty"`
	Settings     models.StageSettings `json:"settings,omitempty"`
}

// Create builds stages with their groups, rounds and matches.
type Create interface {
	Stage(ctx context.Context, input InputStage) (*models.Stage, error)
}

type createService struct {
	store storage.Storage
}

func NewCreate(store storage.Storage) Create {
	return &createService{store: store}
}

func (s *createService) Stage(ctx context.Context, input InputStage) (*models.Stage, error) {
	return newStageCreator(s.store, input).run(ctx)
}

// stageCreator holds the state of one stage creation. It is also used by the
// seeding updates, which recreate the stage in place over the existing
// records.
type stageCreator struct {
	store storage.Storage
	input InputStage

	// Orderings in resolution order, defaults included.
	seedOrdering []models.SeedOrdering

	updateMode     bool
	enableByes     bool
	currentStageID int
}

func newStageCreator(store storage.Storage, input InputStage) *stageCreator {
	switch input.Type {
	case models.StageRoundRobin:
		if input.Settings.RoundRobinMode == "" {
			input.Settings.RoundRobinMode = models.RoundRobinSimple
		}
	case models.StageDoubleElimination:
		if input.Settings.GrandFinal == "" {
			input.Settings.GrandFinal = models.GrandFinalNone
		}
	}
	return &stageCreator{store: store, input: input}
}

// setExisting enables the update mode: groups, rounds and matches are looked
// up instead of inserted, and existing match results are merged in.
// enableByes controls whether a nil seed becomes a BYE or a TBD.
func (c *stageCreator) setExisting(stageID int, enableByes bool) {
	c.updateMode = true
	c.currentStageID = stageID
	c.enableByes = enableByes
}

func (c *stageCreator) run(ctx context.Context) (*models.Stage, error) {
	if c.input.Name == "" {
		return nil, ErrStageNameRequired
	}

	var (
		stage *models.Stage
		err   error
	)
	switch c.input.Type {
	case models.StageRoundRobin:
		stage, err = c.roundRobin(ctx)
	case models.StageSingleElimination:
		stage, err = c.singleElimination(ctx)
	case models.StageDoubleElimination:
		stage, err = c.doubleElimination(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStageType, c.input.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := c.ensureSeedOrdering(ctx, stage); err != nil {
		return nil, err
	}
	return stage, nil
}

func (c *stageCreator) roundRobin(ctx context.Context) (*models.Stage, error) {
	groups, err := c.roundRobinGroups()
	if err != nil {
		return nil, err
	}

	stage, err := c.createStage(ctx)
	if err != nil {
		return nil, err
	}

	for i, group := range groups {
		if err := c.createRoundRobinGroup(ctx, stage.ID, i+1, group); err != nil {
			return nil, err
		}
	}
	return stage, nil
}

func (c *stageCreator) singleElimination(ctx context.Context) (*models.Stage, error) {
	if c.input.Settings.SeedOrdering != nil && len(c.input.Settings.SeedOrdering) != 1 {
		return nil, ErrOneOrderingMethod
	}

	slots, err := c.slots(nil)
	if err != nil {
		return nil, err
	}
	stage, err := c.createStage(ctx)
	if err != nil {
		return nil, err
	}

	method, err := c.ordering(0, orderingElimination, models.OrderInnerOuter)
	if err != nil {
		return nil, err
	}
	ordered, err := brackets.Order(slots, method)
	if err != nil {
		return nil, err
	}

	result, err := c.createStandardBracket(ctx, stage.ID, 1, ordered)
	if err != nil {
		return nil, err
	}
	if err := c.createConsolationFinal(ctx, stage.ID, result.losers); err != nil {
		return nil, err
	}
	return stage, nil
}

func (c *stageCreator) doubleElimination(ctx context.Context) (*models.Stage, error) {
	if c.input.Settings.SeedOrdering != nil && len(c.input.Settings.SeedOrdering) == 0 {
		return nil, ErrAtLeastOneOrdering
	}

	slots, err := c.slots(nil)
	if err != nil {
		return nil, err
	}
	stage, err := c.createStage(ctx)
	if err != nil {
		return nil, err
	}

	method, err := c.ordering(0, orderingElimination, models.OrderInnerOuter)
	if err != nil {
		return nil, err
	}
	ordered, err := brackets.Order(slots, method)
	if err != nil {
		return nil, err
	}

	if c.input.Settings.SkipFirstRound {
		err = c.createSkipFirstRound(ctx, stage.ID, ordered)
	} else {
		err = c.createFullDoubleElimination(ctx, stage.ID, ordered)
	}
	if err != nil {
		return nil, err
	}
	return stage, nil
}

// createFullDoubleElimination builds a winner bracket, a lower bracket fed
// by its losers and a grand final between both winners.
func (c *stageCreator) createFullDoubleElimination(ctx context.Context, stageID int, slots []brackets.Slot) error {
	result, err := c.createStandardBracket(ctx, stageID, 1, slots)
	if err != nil {
		return err
	}
	if !brackets.IsDoubleEliminationNecessary(c.input.Settings.Size) {
		return nil
	}

	winnerLB, err := c.createLowerBracket(ctx, stageID, 2, result.losers)
	if err != nil {
		return err
	}
	return c.createGrandFinal(ctx, stageID, result.winner, winnerLB)
}

// createSkipFirstRound sends the even seeds directly to the winner bracket
// and the odd seeds directly to the lower bracket, skipping the first winner
// bracket round.
func (c *stageCreator) createSkipFirstRound(ctx context.Context, stageID int, slots []brackets.Slot) error {
	directInWB, directInLB := brackets.SplitByParity(slots)

	result, err := c.createStandardBracket(ctx, stageID, 1, directInWB)
	if err != nil {
		return err
	}
	if !brackets.IsDoubleEliminationNecessary(c.input.Settings.Size) {
		return nil
	}

	losers := append([][]brackets.Slot{directInLB}, result.losers...)
	winnerLB, err := c.createLowerBracket(ctx, stageID, 2, losers)
	if err != nil {
		return err
	}
	return c.createGrandFinal(ctx, stageID, result.winner, winnerLB)
}

func (c *stageCreator) createRoundRobinGroup(ctx context.Context, stageID, number int, slots []brackets.Slot) error {
	group, err := c.insertGroup(ctx, &models.Group{StageID: stageID, Number: number})
	if err != nil {
		return err
	}

	rounds := brackets.MakeRoundRobinMatches(slots, c.input.Settings.RoundRobinMode)
	for i, duels := range rounds {
		if err := c.createRound(ctx, stageID, group.ID, i+1, len(rounds[0]), duels); err != nil {
			return err
		}
	}
	return nil
}

type standardBracketResult struct {
	// One list of losers per round, in round order.
	losers [][]brackets.Slot
	winner brackets.Slot
}

// createStandardBracket builds the single bracket of a single elimination
// stage or the winner bracket of a double elimination stage.
func (c *stageCreator) createStandardBracket(ctx context.Context, stageID, number int, slots []brackets.Slot) (*standardBracketResult, error) {
	roundCount := brackets.UpperBracketRoundCount(len(slots))
	group, err := c.insertGroup(ctx, &models.Group{StageID: stageID, Number: number, Role: models.RoleUpperBracket})
	if err != nil {
		return nil, err
	}

	duels := brackets.MakePairs(slots)
	losers := make([][]brackets.Slot, 0, roundCount)
	roundNumber := 1

	for i := roundCount - 1; i >= 0; i-- {
		matchCount := 1 << i
		duels = currentMajorDuels(duels, matchCount)

		roundLosers := make([]brackets.Slot, 0, len(duels))
		for j, duel := range duels {
			roundLosers = append(roundLosers, brackets.ByeLoser(duel, j))
		}
		losers = append(losers, roundLosers)

		if err := c.createRound(ctx, stageID, group.ID, roundNumber, matchCount, duels); err != nil {
			return nil, err
		}
		roundNumber++
	}

	return &standardBracketResult{losers: losers, winner: brackets.ByeWinner(duels[0])}, nil
}

// createLowerBracket builds the lower bracket of a double elimination stage,
// alternating major rounds with minor rounds that receive the winner bracket
// losers. It returns the slot advancing to the grand final.
func (c *stageCreator) createLowerBracket(ctx context.Context, stageID, number int, losers [][]brackets.Slot) (brackets.Slot, error) {
	participantCount := c.input.Settings.Size
	roundPairCount := brackets.RoundPairCount(participantCount)

	losersIndex := 0
	method, err := c.majorOrdering(participantCount)
	if err != nil {
		return nil, err
	}
	ordered, err := brackets.Order(losers[losersIndex], method)
	if err != nil {
		return nil, err
	}
	losersIndex++

	group, err := c.insertGroup(ctx, &models.Group{StageID: stageID, Number: number, Role: models.RoleLowerBracket})
	if err != nil {
		return nil, err
	}

	duels := brackets.MakePairs(ordered)
	roundNumber := 1

	for i := 0; i < roundPairCount; i++ {
		matchCount := 1 << (roundPairCount - i - 1)

		// Major round.
		duels = currentMajorDuels(duels, matchCount)
		if err := c.createRound(ctx, stageID, group.ID, roundNumber, matchCount, duels); err != nil {
			return nil, err
		}
		roundNumber++

		// Minor round.
		minorMethod, err := c.minorOrdering(participantCount, i, roundPairCount)
		if err != nil {
			return nil, err
		}
		duels, err = brackets.TransitionToMinor(duels, losers[losersIndex], minorMethod)
		if err != nil {
			return nil, err
		}
		losersIndex++
		if err := c.createRound(ctx, stageID, group.ID, roundNumber, matchCount, duels); err != nil {
			return nil, err
		}
		roundNumber++
	}

	return brackets.ByeWinnerToGrandFinal(duels[0]), nil
}

// currentMajorDuels returns the duels of a major round. The first round of a
// bracket keeps the duels it was given, later rounds pair the winners of the
// previous one.
func currentMajorDuels(previous []brackets.Duel, matchCount int) []brackets.Duel {
	if len(previous) == matchCount {
		return previous
	}
	return brackets.TransitionToMajor(previous)
}

// createConsolationFinal matches the semi-final losers of a single
// elimination stage for third place.
func (c *stageCreator) createConsolationFinal(ctx context.Context, stageID int, losers [][]brackets.Slot) error {
	if !c.input.Settings.ConsolationFinal || len(losers) < 2 {
		return nil
	}

	semiFinalLosers := losers[len(losers)-2]
	duel := brackets.Duel{semiFinalLosers[0], semiFinalLosers[1]}
	return c.createUniqueMatchBracket(ctx, stageID, 2, []brackets.Duel{duel})
}

// createGrandFinal matches the winners of both brackets. A double grand
// final gets a second match for the bracket reset.
func (c *stageCreator) createGrandFinal(ctx context.Context, stageID int, winnerWB, winnerLB brackets.Slot) error {
	grandFinal := c.input.Settings.GrandFinal
	if grandFinal == models.GrandFinalNone {
		return nil
	}

	duels := []brackets.Duel{{winnerWB, winnerLB}}
	if grandFinal == models.GrandFinalDouble {
		duels = append(duels, brackets.Duel{&models.Opponent{}, &models.Opponent{}})
	}
	return c.createUniqueMatchBracket(ctx, stageID, 3, duels)
}

// createUniqueMatchBracket builds a group with one round per duel and one
// match per round. Used for finals.
func (c *stageCreator) createUniqueMatchBracket(ctx context.Context, stageID, number int, duels []brackets.Duel) error {
	group, err := c.insertGroup(ctx, &models.Group{StageID: stageID, Number: number, Role: models.RoleFinalGroup})
	if err != nil {
		return err
	}
	for i, duel := range duels {
		if err := c.createRound(ctx, stageID, group.ID, i+1, 1, []brackets.Duel{duel}); err != nil {
			return err
		}
	}
	return nil
}

func (c *stageCreator) createRound(ctx context.Context, stageID, groupID, roundNumber, matchCount int, duels []brackets.Duel) error {
	round, err := c.insertRound(ctx, &models.Round{StageID: stageID, GroupID: groupID, Number: roundNumber})
	if err != nil {
		return err
	}
	for i := 0; i < matchCount; i++ {
		if err := c.createMatch(ctx, stageID, groupID, round.ID, i+1, duels[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *stageCreator) createMatch(ctx context.Context, stageID, groupID, roundID, matchNumber int, duel brackets.Duel) error {
	opponent1 := duel[0].Clone()
	opponent2 := duel[1].Clone()

	// Round-robin matches can simply be removed, so don't create BYE vs. BYE
	// matches in the first place.
	if c.input.Type == models.StageRoundRobin && opponent1 == nil && opponent2 == nil {
		return nil
	}

	var existing *models.Match
	status := brackets.MatchStatusOf(opponent1, opponent2)

	if c.updateMode {
		matches, err := c.store.Matches().List(ctx, storage.MatchFilter{RoundID: &roundID, Number: &matchNumber})
		if err != nil {
			return fmt.Errorf("failed to list matches of round %d: %w", roundID, err)
		}
		if len(matches) > 0 {
			existing = matches[0]
			// Keep the most advanced status when reseeding.
			if existingStatus := brackets.MatchStatusOf(existing.Opponent1, existing.Opponent2); existingStatus > status {
				status = existingStatus
			}
		}
	}

	match := &models.Match{
		StageID:   stageID,
		GroupID:   groupID,
		RoundID:   roundID,
		Number:    matchNumber,
		Status:    status,
		Opponent1: opponent1,
		Opponent2: opponent2,
	}

	if existing == nil {
		if _, err := c.store.Matches().Insert(ctx, match); err != nil {
			return fmt.Errorf("failed to insert match: %w", err)
		}
		return nil
	}

	merged := mergeSeedingMatch(match, existing, c.enableByes)
	if err := c.store.Matches().Update(ctx, merged); err != nil {
		return fmt.Errorf("failed to update match %d: %w", existing.ID, err)
	}
	return nil
}

// mergeSeedingMatch overlays a freshly built match on an existing one,
// keeping the results and scores already stored.
func mergeSeedingMatch(match, existing *models.Match, enableByes bool) *models.Match {
	merged := existing.Clone()
	merged.StageID = match.StageID
	merged.GroupID = match.GroupID
	merged.RoundID = match.RoundID
	merged.Number = match.Number
	merged.Status = match.Status
	merged.Opponent1 = mergeSeedingOpponent(match.Opponent1, existing.Opponent1, enableByes)
	merged.Opponent2 = mergeSeedingOpponent(match.Opponent2, existing.Opponent2, enableByes)
	return merged
}

func mergeSeedingOpponent(incoming, existing *models.Opponent, enableByes bool) *models.Opponent {
	if incoming == nil {
		if enableByes {
			return nil
		}
		return &models.Opponent{}
	}

	merged := existing.Clone()
	if merged == nil {
		return incoming
	}
	merged.ID = incoming.ID
	merged.Position = incoming.Position
	return merged
}

// slots expands the input size or seeding into participant slots. An
// optional list of positions applies a manual ordering.
func (c *stageCreator) slots(positions []int) ([]brackets.Slot, error) {
	size := c.input.Settings.Size
	if size == 0 && c.input.Seeding == nil {
		return nil, ErrSizeOrSeedingRequired
	}
	if size == 0 {
		size = len(c.input.Seeding)
	}
	if err := ensureValidSize(c.input.Type, size); err != nil {
		return nil, err
	}

	if c.input.Seeding == nil {
		slots := make([]brackets.Slot, size)
		for i := range slots {
			slots[i] = &models.Opponent{Position: i + 1}
		}
		return slots, nil
	}

	// Always set the size.
	c.input.Settings.Size = size

	if err := brackets.EnsureNoDuplicates(c.input.Seeding); err != nil {
		return nil, err
	}
	c.input.Seeding = brackets.FixSeeding(c.input.Seeding, size)

	if c.input.Type != models.StageRoundRobin && c.input.Settings.BalanceByes {
		c.input.Seeding = brackets.BalanceByes(c.input.Seeding, size)
	}

	return seedingSlots(c.input.Seeding, positions)
}

func seedingSlots(seeding models.Seeding, positions []int) ([]brackets.Slot, error) {
	if positions != nil && len(positions) != len(seeding) {
		return nil, ErrNotEnoughManualSeeds
	}

	slots := make([]brackets.Slot, len(seeding))
	for i, id := range seeding {
		if id == nil {
			continue // BYE
		}
		v := *id
		slots[i] = &models.Opponent{ID: &v, Position: i + 1}
	}

	if positions == nil {
		return slots, nil
	}

	ordered := make([]brackets.Slot, 0, len(positions))
	for _, position := range positions {
		if position < 1 || position > len(slots) {
			return nil, ErrNotEnoughManualSeeds
		}
		ordered = append(ordered, slots[position-1])
	}
	return ordered, nil
}

func ensureValidSize(stageType models.StageType, size int) error {
	if size == 0 {
		return ErrEmptyStage
	}
	if size < 2 {
		return ErrTooFewParticipants
	}
	if stageType != models.StageRoundRobin && !brackets.IsPowerOfTwo(size) {
		return ErrSizeNotPowerOfTwo
	}
	return nil
}

func (c *stageCreator) roundRobinGroups() ([][]brackets.Slot, error) {
	groupCount := c.input.Settings.GroupCount
	if groupCount == 0 {
		return nil, ErrGroupCountRequired
	}
	if groupCount < 0 {
		return nil, ErrGroupCountNotPositive
	}

	if len(c.input.Settings.ManualOrdering) > 0 {
		if len(c.input.Settings.ManualOrdering) != groupCount {
			return nil, ErrManualOrderingGroupCount
		}

		var positions []int
		for _, group := range c.input.Settings.ManualOrdering {
			positions = append(positions, group...)
		}
		slots, err := c.slots(positions)
		if err != nil {
			return nil, err
		}
		return brackets.MakeGroups(slots, groupCount), nil
	}

	if c.input.Settings.SeedOrdering != nil && len(c.input.Settings.SeedOrdering) != 1 {
		return nil, ErrOneOrderingMethod
	}

	method, err := c.ordering(0, orderingGroups, models.OrderEffortBalanced)
	if err != nil {
		return nil, err
	}
	slots, err := c.slots(nil)
	if err != nil {
		return nil, err
	}
	ordered, err := brackets.Order(slots, method, groupCount)
	if err != nil {
		return nil, err
	}
	return brackets.MakeGroups(ordered, groupCount), nil
}

type orderingKind int

const (
	orderingElimination orderingKind = iota
	orderingGroups
)

// ordering resolves the seed ordering method at the given index of the stage
// settings, falling back to a default, and records it so the full list can
// be persisted afterwards.
func (c *stageCreator) ordering(index int, kind orderingKind, defaultMethod models.SeedOrdering) (models.SeedOrdering, error) {
	method, err := c.peekOrdering(index, kind, defaultMethod)
	if err != nil {
		return "", err
	}
	c.seedOrdering = append(c.seedOrdering, method)
	return method, nil
}

// peekOrdering is ordering without the recording. Used when the method is
// needed outside of the creation process itself.
func (c *stageCreator) peekOrdering(index int, kind orderingKind, defaultMethod models.SeedOrdering) (models.SeedOrdering, error) {
	given := c.input.Settings.SeedOrdering
	if index >= len(given) || given[index] == "" {
		return defaultMethod, nil
	}

	method := given[index]
	if kind == orderingElimination && brackets.IsGroupMethod(method) {
		return "", ErrEliminationOrdering
	}
	if kind == orderingGroups && method != models.OrderNatural && !brackets.IsGroupMethod(method) {
		return "", ErrGroupsOrdering
	}
	return method, nil
}

// seedingOrdering returns the ordering applied to the stage seeding, which
// is the one of the first round for elimination stages and the group
// distribution method for round-robin stages.
func (c *stageCreator) seedingOrdering() (models.SeedOrdering, error) {
	if c.input.Type == models.StageRoundRobin {
		return c.peekOrdering(0, orderingGroups, models.OrderEffortBalanced)
	}
	return c.peekOrdering(0, orderingElimination, models.OrderInnerOuter)
}

// majorOrdering is the ordering of the first lower bracket round.
func (c *stageCreator) majorOrdering(participantCount int) (models.SeedOrdering, error) {
	def := models.OrderNatural
	if defaults := brackets.DefaultMinorOrdering(participantCount); len(defaults) > 0 {
		def = defaults[0]
	}
	return c.ordering(1, orderingElimination, def)
}

// minorOrdering is the ordering of the losers entering a minor round. The
// last minor round receives a single loser, so there is nothing to order.
func (c *stageCreator) minorOrdering(participantCount, index, minorRoundCount int) (models.SeedOrdering, error) {
	if index == minorRoundCount-1 {
		return "", nil
	}

	def := models.OrderNatural
	if defaults := brackets.DefaultMinorOrdering(participantCount); 1+index < len(defaults) {
		def = defaults[1+index]
	}
	return c.ordering(2+index, orderingElimination, def)
}

func (c *stageCreator) createStage(ctx context.Context) (*models.Stage, error) {
	number, err := c.stageNumber(ctx)
	if err != nil {
		return nil, err
	}

	stage := &models.Stage{
		TournamentID: c.input.TournamentID,
		Name:         c.input.Name,
		Type:         c.input.Type,
		Number:       number,
		Settings:     c.input.Settings,
	}

	if c.updateMode {
		existing, err := c.store.Stages().Get(ctx, c.currentStageID)
		if err != nil {
			return nil, fmt.Errorf("%w: %d", ErrStageNotFound, c.currentStageID)
		}
		stage.ID = existing.ID
		stage.Number = existing.Number
		if err := c.store.Stages().Update(ctx, stage); err != nil {
			return nil, fmt.Errorf("failed to update stage %d: %w", stage.ID, err)
		}
		return stage, nil
	}

	id, err := c.store.Stages().Insert(ctx, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stage: %w", err)
	}
	stage.ID = id
	return stage, nil
}

func (c *stageCreator) stageNumber(ctx context.Context) (int, error) {
	stages, err := c.store.Stages().List(ctx, storage.StageFilter{TournamentID: &c.input.TournamentID})
	if err != nil {
		return 0, fmt.Errorf("failed to list stages of tournament %d: %w", c.input.TournamentID, err)
	}

	if c.input.Number > 0 {
		for _, stage := range stages {
			if stage.Number == c.input.Number && !(c.updateMode && stage.ID == c.currentStageID) {
				return 0, ErrStageNumberExists
			}
		}
		return c.input.Number, nil
	}

	max := 0
	for _, stage := range stages {
		if stage.Number > max {
			max = stage.Number
		}
	}
	return max + 1, nil
}

func (c *stageCreator) insertGroup(ctx context.Context, group *models.Group) (*models.Group, error) {
	if c.updateMode {
		existing, err := c.store.Groups().List(ctx, storage.GroupFilter{StageID: &group.StageID, Number: &group.Number})
		if err != nil {
			return nil, fmt.Errorf("failed to list groups of stage %d: %w", group.StageID, err)
		}
		if len(existing) > 0 {
			return existing[0], nil
		}
	}

	id, err := c.store.Groups().Insert(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to insert group: %w", err)
	}
	group.ID = id
	return group, nil
}

func (c *stageCreator) insertRound(ctx context.Context, round *models.Round) (*models.Round, error) {
	if c.updateMode {
		existing, err := c.store.Rounds().List(ctx, storage.RoundFilter{GroupID: &round.GroupID, Number: &round.Number})
		if err != nil {
			return nil, fmt.Errorf("failed to list rounds of group %d: %w", round.GroupID, err)
		}
		if len(existing) > 0 {
			return existing[0], nil
		}
	}

	id, err := c.store.Rounds().Insert(ctx, round)
	if err != nil {
		return nil, fmt.Errorf("failed to insert round: %w", err)
	}
	round.ID = id
	return round, nil
}

// ensureSeedOrdering persists the resolved seed ordering list when defaults
// were filled in, so later round ordering updates know what was applied.
func (c *stageCreator) ensureSeedOrdering(ctx context.Context, stage *models.Stage) error {
	if len(c.input.Settings.SeedOrdering) == len(c.seedOrdering) {
		return nil
	}

	stage.Settings.SeedOrdering = c.seedOrdering
	if err := c.store.Stages().Update(ctx, stage); err != nil {
		return fmt.Errorf("failed to update stage %d: %w", stage.ID, err)
	}
	return nil
}
