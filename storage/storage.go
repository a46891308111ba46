// Package storage defines the persistence contract of the bracket engine
// and provides an in-memory and an SQL implementation of it.
package storage

import (
	"context"
	"errors"

	"github.com/Dosada05/bracket-engine/models"
)

var ErrNotFound = errors.New("requested record not found")

// Filters are partial records. Non-nil fields are combined with AND.

type StageFilter struct {
	ID           *int
	TournamentID *int
	Number       *int
}

type GroupFilter struct {
	ID      *int
	StageID *int
	Number  *int
}

type RoundFilter struct {
	ID      *int
	StageID *int
	GroupID *int
	Number  *int
}

type MatchFilter struct {
	ID      *int
	StageID *int
	GroupID *int
	RoundID *int
	Number  *int
	Status  *models.Status
}

// StageStore is the CRUD access to stages. List returns records ordered by
// ID, which is also their creation order.
type StageStore interface {
	Insert(ctx context.Context, stage *models.Stage) (int, error)
	Get(ctx context.Context, id int) (*models.Stage, error)
	List(ctx context.Context, filter StageFilter) ([]*models.Stage, error)
	Update(ctx context.Context, stage *models.Stage) error
	Delete(ctx context.Context, filter StageFilter) error
}

type GroupStore interface {
	Insert(ctx context.Context, group *models.Group) (int, error)
	Get(ctx context.Context, id int) (*models.Group, error)
	List(ctx context.Context, filter GroupFilter) ([]*models.Group, error)
	Delete(ctx context.Context, filter GroupFilter) error
}

type RoundStore interface {
	Insert(ctx context.Context, round *models.Round) (int, error)
	Get(ctx context.Context, id int) (*models.Round, error)
	List(ctx context.Context, filter RoundFilter) ([]*models.Round, error)
	Delete(ctx context.Context, filter RoundFilter) error
}

type MatchStore interface {
	Insert(ctx context.Context, match *models.Match) (int, error)
	Get(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter MatchFilter) ([]*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	Delete(ctx context.Context, filter MatchFilter) error
}

// Storage groups the four record stores the engine works against.
type Storage interface {
	Stages() StageStore
	Groups() GroupStore
	Rounds() RoundStore
	Matches() MatchStore
}

// Dataset is a full dump of a storage, used for import and export.
type Dataset struct {
	Stages  []*models.Stage `json:"stage"`
	Groups  []*models.Group `json:"group"`
	Rounds  []*models.Round `json:"round"`
	Matches []*models.Match `json:"match"`
}

// Snapshotter is implemented by storages that can dump all tables at once.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*Dataset, error)
}

// Restorer is implemented by storages that can replace their whole content
// atomically.
type Restorer interface {
	Restore(ctx context.Context, dataset *Dataset) error
}

func cloneStage(s *models.Stage) *models.Stage {
	c := *s
	if s.Settings.SeedOrdering != nil {
		c.Settings.SeedOrdering = append([]models.SeedOrdering(nil), s.Settings.SeedOrdering...)
	}
	if s.Settings.ManualOrdering != nil {
		c.Settings.ManualOrdering = make([][]int, len(s.Settings.ManualOrdering))
		for i, group := range s.Settings.ManualOrdering {
			c.Settings.ManualOrdering[i] = append([]int(nil), group...)
		}
	}
	return &c
}

func cloneGroup(g *models.Group) *models.Group {
	c := *g
	return &c
}

func cloneRound(r *models.Round) *models.Round {
	c := *r
	return &c
}
