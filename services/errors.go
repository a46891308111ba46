package services

import "errors"

// Errors shared by the engine services. Wrap them with fmt.Errorf and %w at
// call sites that can add context.
var (
	// Lookup errors
	ErrStageNotFound = errors.New("stage not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrRoundNotFound = errors.New("round not found")
	ErrMatchNotFound = errors.New("match not found")

	// Stage creation
	ErrStageNameRequired        = errors.New("you must provide a name for the stage")
	ErrUnknownStageType         = errors.New("unknown stage type")
	ErrSizeOrSeedingRequired    = errors.New("either size or seeding must be given")
	ErrEmptyStage               = errors.New("impossible to create an empty stage")
	ErrTooFewParticipants       = errors.New("impossible to create a stage with less than 2 participants")
	ErrSizeNotPowerOfTwo        = errors.New("the size of an elimination stage must be a power of two")
	ErrGroupCountRequired       = errors.New("you must specify a group count for round-robin stages")
	ErrGroupCountNotPositive    = errors.New("you must provide a strictly positive group count")
	ErrOneOrderingMethod        = errors.New("you must specify one seed ordering method")
	ErrAtLeastOneOrdering       = errors.New("you must specify at least one seed ordering method")
	ErrEliminationOrdering      = errors.New("elimination stages require an ordering method without a groups prefix")
	ErrGroupsOrdering           = errors.New("round-robin stages require an ordering method with a groups prefix")
	ErrManualOrderingGroupCount = errors.New("group count in the manual ordering does not correspond to the given group count")
	ErrNotEnoughManualSeeds     = errors.New("not enough seeds in at least one group of the manual ordering")
	ErrStageNumberExists        = errors.New("the given stage number already exists")

	// Match updates
	ErrMatchLocked     = errors.New("the match is locked")
	ErrSeedingLocked   = errors.New("a match is locked")
	ErrMatchChildGames = errors.New("the match is controlled by its child games")

	// Round ordering
	ErrRoundOrderingUnsupported = errors.New("this round does not support ordering")
	ErrRoundStarted             = errors.New("at least one match has started or is completed")
	ErrOrderingCount            = errors.New("the count of seed orderings is incorrect")
	ErrRoundRobinOrdering       = errors.New("impossible to update the ordering of a round-robin stage")

	// Queries
	ErrNoUpperBracket        = errors.New("round-robin stages do not have an upper bracket")
	ErrNoLoserBracket        = errors.New("this type of stage does not have a loser bracket")
	ErrNotImplemented        = errors.New("not implemented for round robin and double elimination")
	ErrNoWinner              = errors.New("the final match does not have a winner")
	ErrRoundRobinStandings   = errors.New("a round-robin stage does not have standings")
	ErrParticipantNotInMatch = errors.New("the participant does not appear in this match")
	ErrRestoreUnsupported    = errors.New("the storage does not support restoring a dataset")
)
