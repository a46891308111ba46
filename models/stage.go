package models

type StageType string

const (
	StageRoundRobin        StageType = "round_robin"
	StageSingleElimination StageType = "single_elimination"
	StageDoubleElimination StageType = "double_elimination"
)

type GrandFinalType string

const (
	GrandFinalNone   GrandFinalType = "none"
	GrandFinalSimple GrandFinalType = "simple"
	GrandFinalDouble GrandFinalType = "double"
)

type RoundRobinMode string

const (
	RoundRobinSimple RoundRobinMode = "simple"
	RoundRobinDouble RoundRobinMode = "double"
)

// SeedOrdering is a placement method for seeds in a round.
type SeedOrdering string

const (
	OrderNatural          SeedOrdering = "natural"
	OrderReverse          SeedOrdering = "reverse"
	OrderHalfShift        SeedOrdering = "half_shift"
	OrderReverseHalfShift SeedOrdering = "reverse_half_shift"
	OrderPairFlip         SeedOrdering = "pair_flip"
	OrderInnerOuter       SeedOrdering = "inner_outer"
	OrderEffortBalanced   SeedOrdering = "groups.effort_balanced"
	OrderSeedOptimized    SeedOrdering = "groups.seed_optimized"
)

// Seeding is a list of participant IDs by seed position. A nil entry is a BYE.
type Seeding []*int

type StageSettings struct {
	Size             int            `json:"size,omitempty"`
	SeedOrdering     []SeedOrdering `json:"seedOrdering,omitempty"`
	GroupCount       int            `json:"groupCount,omitempty"`
	GrandFinal       GrandFinalType `json:"grandFinal,omitempty"`
	SkipFirstRound   bool           `json:"skipFirstRound,omitempty"`
	ConsolationFinal bool           `json:"consolationFinal,omitempty"`
	BalanceByes      bool           `json:"balanceByes,omitempty"`
	ManualOrdering   [][]int        `json:"manualOrdering,omitempty"`
	RoundRobinMode   RoundRobinMode `json:"roundRobinMode,omitempty"`
}

type Stage struct {
	ID           int           `json:"id"`
	TournamentID int           `json:"tournament_id"`
	Name         string        `json:"name"`
	Type         StageType     `json:"type"`
	Number       int           `json:"number"`
	Settings     StageSettings `json:"settings"`
}
