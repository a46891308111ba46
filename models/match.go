package models

// Status describes how far a match has progressed. Values are ordered so
// that statuses can be compared with < and >.
type Status int

const (
	// StatusLocked means the match depends on other matches that are not
	// finished yet, or has no opponent determined at all.
	StatusLocked Status = iota
	// StatusWaiting means one opponent is determined and the other is not.
	StatusWaiting
	// StatusReady means both opponents are determined.
	StatusReady
	// StatusRunning means at least one score was reported.
	StatusRunning
	// StatusCompleted means the match has a result, a forfeit or is a BYE
	// walkover.
	StatusCompleted
)

type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

type Side string

const (
	SideOpponent1 Side = "opponent1"
	SideOpponent2 Side = "opponent2"
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideOpponent1 {
		return SideOpponent2
	}
	return SideOpponent1
}

// Opponent is one side of a match.
//
// A nil *Opponent is a BYE. A non-nil opponent with a nil ID is a
// participant to be determined (TBD).
type Opponent struct {
	ID       *int           `json:"id"`
	Position int            `json:"position,omitempty"`
	Score    *int           `json:"score,omitempty"`
	Result   Result         `json:"result,omitempty"`
	Forfeit  bool           `json:"forfeit,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Clone returns a deep copy of the opponent. Cloning a BYE returns nil.
func (o *Opponent) Clone() *Opponent {
	if o == nil {
		return nil
	}
	c := *o
	if o.ID != nil {
		id := *o.ID
		c.ID = &id
	}
	if o.Score != nil {
		score := *o.Score
		c.Score = &score
	}
	if o.Extra != nil {
		c.Extra = make(map[string]any, len(o.Extra))
		for k, v := range o.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

type Match struct {
	ID         int            `json:"id"`
	StageID    int            `json:"stage_id"`
	GroupID    int            `json:"group_id"`
	RoundID    int            `json:"round_id"`
	Number     int            `json:"number"`
	ChildCount int            `json:"child_count"`
	Status     Status         `json:"status"`
	Opponent1  *Opponent      `json:"opponent1"`
	Opponent2  *Opponent      `json:"opponent2"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Side returns the opponent on the given side.
func (m *Match) Side(side Side) *Opponent {
	if side == SideOpponent1 {
		return m.Opponent1
	}
	return m.Opponent2
}

// SetSide replaces the opponent on the given side.
func (m *Match) SetSide(side Side, o *Opponent) {
	if side == SideOpponent1 {
		m.Opponent1 = o
		return
	}
	m.Opponent2 = o
}

// Clone returns a deep copy of the match.
func (m *Match) Clone() *Match {
	c := *m
	c.Opponent1 = m.Opponent1.Clone()
	c.Opponent2 = m.Opponent2.Clone()
	if m.Extra != nil {
		c.Extra = make(map[string]any, len(m.Extra))
		for k, v := range m.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// MatchUpdate is a partial update of a match. Nil fields are left untouched.
type MatchUpdate struct {
	ID        int             `json:"id"`
	Status    *Status         `json:"status,omitempty"`
	Opponent1 *OpponentUpdate `json:"opponent1,omitempty"`
	Opponent2 *OpponentUpdate `json:"opponent2,omitempty"`
	Extra     map[string]any  `json:"extra,omitempty"`
}

// OpponentUpdate is a partial update of one side of a match. The ID, when
// given, identifies which participant the update refers to, so updates can
// be given in any side order.
type OpponentUpdate struct {
	ID      *int           `json:"id,omitempty"`
	Score   *int           `json:"score,omitempty"`
	Result  Result         `json:"result,omitempty"`
	Forfeit *bool          `json:"forfeit,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// Side returns the opponent update on the given side.
func (u *MatchUpdate) Side(side Side) *OpponentUpdate {
	if side == SideOpponent1 {
		return u.Opponent1
	}
	return u.Opponent2
}
