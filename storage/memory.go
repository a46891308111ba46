package storage

import (
	"context"
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

// Memory is a map-backed Storage. IDs start at 0 and follow insertion
// order. All reads and writes deep-clone records, so callers can never
// mutate the stored state through a returned pointer.
type Memory struct {
	stages  *memoryTable[models.Stage]
	groups  *memoryTable[models.Group]
	rounds  *memoryTable[models.Round]
	matches *memoryTable[models.Match]
}

func NewMemory() *Memory {
	return &Memory{
		stages:  newMemoryTable(cloneStage),
		groups:  newMemoryTable(cloneGroup),
		rounds:  newMemoryTable(cloneRound),
		matches: newMemoryTable((*models.Match).Clone),
	}
}

func (m *Memory) Stages() StageStore  { return (*memoryStages)(m.stages) }
func (m *Memory) Groups() GroupStore  { return (*memoryGroups)(m.groups) }
func (m *Memory) Rounds() RoundStore  { return (*memoryRounds)(m.rounds) }
func (m *Memory) Matches() MatchStore { return (*memoryMatches)(m.matches) }

// Snapshot dumps all four tables.
func (m *Memory) Snapshot(context.Context) (*Dataset, error) {
	return &Dataset{
		Stages:  m.stages.list(func(*models.Stage) bool { return true }),
		Groups:  m.groups.list(func(*models.Group) bool { return true }),
		Rounds:  m.rounds.list(func(*models.Round) bool { return true }),
		Matches: m.matches.list(func(*models.Match) bool { return true }),
	}, nil
}

// Restore replaces the whole content of the storage with the dataset.
func (m *Memory) Restore(_ context.Context, dataset *Dataset) error {
	fresh := NewMemory()
	for _, stage := range dataset.Stages {
		fresh.stages.put(stage.ID, stage)
	}
	for _, group := range dataset.Groups {
		fresh.groups.put(group.ID, group)
	}
	for _, round := range dataset.Rounds {
		fresh.rounds.put(round.ID, round)
	}
	for _, match := range dataset.Matches {
		fresh.matches.put(match.ID, match)
	}
	*m = *fresh
	return nil
}

type memoryTable[T any] struct {
	records map[int]*T
	nextID  int
	clone   func(*T) *T
}

func newMemoryTable[T any](clone func(*T) *T) *memoryTable[T] {
	return &memoryTable[T]{records: make(map[int]*T), clone: clone}
}

func (t *memoryTable[T]) insert(record *T, setID func(*T, int)) int {
	id := t.nextID
	t.nextID++
	stored := t.clone(record)
	setID(stored, id)
	t.records[id] = stored
	setID(record, id)
	return id
}

func (t *memoryTable[T]) put(id int, record *T) {
	t.records[id] = t.clone(record)
	if id >= t.nextID {
		t.nextID = id + 1
	}
}

func (t *memoryTable[T]) get(id int) (*T, error) {
	record, ok := t.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t.clone(record), nil
}

func (t *memoryTable[T]) list(match func(*T) bool) []*T {
	ids := make([]int, 0, len(t.records))
	for id := range t.records {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []*T
	for _, id := range ids {
		if match(t.records[id]) {
			out = append(out, t.clone(t.records[id]))
		}
	}
	return out
}

func (t *memoryTable[T]) update(id int, record *T) error {
	if _, ok := t.records[id]; !ok {
		return ErrNotFound
	}
	t.records[id] = t.clone(record)
	return nil
}

func (t *memoryTable[T]) delete(match func(*T) bool) {
	for id, record := range t.records {
		if match(record) {
			delete(t.records, id)
		}
	}
}

func eq(filter *int, value int) bool {
	return filter == nil || *filter == value
}

func matchStageFilter(f StageFilter) func(*models.Stage) bool {
	return func(s *models.Stage) bool {
		return eq(f.ID, s.ID) && eq(f.TournamentID, s.TournamentID) && eq(f.Number, s.Number)
	}
}

func matchGroupFilter(f GroupFilter) func(*models.Group) bool {
	return func(g *models.Group) bool {
		return eq(f.ID, g.ID) && eq(f.StageID, g.StageID) && eq(f.Number, g.Number)
	}
}

func matchRoundFilter(f RoundFilter) func(*models.Round) bool {
	return func(r *models.Round) bool {
		return eq(f.ID, r.ID) && eq(f.StageID, r.StageID) && eq(f.GroupID, r.GroupID) && eq(f.Number, r.Number)
	}
}

func matchMatchFilter(f MatchFilter) func(*models.Match) bool {
	return func(m *models.Match) bool {
		return eq(f.ID, m.ID) && eq(f.StageID, m.StageID) && eq(f.GroupID, m.GroupID) &&
			eq(f.RoundID, m.RoundID) && eq(f.Number, m.Number) &&
			(f.Status == nil || *f.Status == m.Status)
	}
}

type memoryStages memoryTable[models.Stage]

func (t *memoryStages) table() *memoryTable[models.Stage] { return (*memoryTable[models.Stage])(t) }

func (t *memoryStages) Insert(_ context.Context, stage *models.Stage) (int, error) {
	return t.table().insert(stage, func(s *models.Stage, id int) { s.ID = id }), nil
}

func (t *memoryStages) Get(_ context.Context, id int) (*models.Stage, error) {
	return t.table().get(id)
}

func (t *memoryStages) List(_ context.Context, filter StageFilter) ([]*models.Stage, error) {
	return t.table().list(matchStageFilter(filter)), nil
}

func (t *memoryStages) Update(_ context.Context, stage *models.Stage) error {
	return t.table().update(stage.ID, stage)
}

func (t *memoryStages) Delete(_ context.Context, filter StageFilter) error {
	t.table().delete(matchStageFilter(filter))
	return nil
}

type memoryGroups memoryTable[models.Group]

func (t *memoryGroups) table() *memoryTable[models.Group] { return (*memoryTable[models.Group])(t) }

func (t *memoryGroups) Insert(_ context.Context, group *models.Group) (int, error) {
	return t.table().insert(group, func(g *models.Group, id int) { g.ID = id }), nil
}

func (t *memoryGroups) Get(_ context.Context, id int) (*models.Group, error) {
	return t.table().get(id)
}

func (t *memoryGroups) List(_ context.Context, filter GroupFilter) ([]*models.Group, error) {
	return t.table().list(matchGroupFilter(filter)), nil
}

func (t *memoryGroups) Delete(_ context.Context, filter GroupFilter) error {
	t.table().delete(matchGroupFilter(filter))
	return nil
}

type memoryRounds memoryTable[models.Round]

func (t *memoryRounds) table() *memoryTable[models.Round] { return (*memoryTable[models.Round])(t) }

func (t *memoryRounds) Insert(_ context.Context, round *models.Round) (int, error) {
	return t.table().insert(round, func(r *models.Round, id int) { r.ID = id }), nil
}

func (t *memoryRounds) Get(_ context.Context, id int) (*models.Round, error) {
	return t.table().get(id)
}

func (t *memoryRounds) List(_ context.Context, filter RoundFilter) ([]*models.Round, error) {
	return t.table().list(matchRoundFilter(filter)), nil
}

func (t *memoryRounds) Delete(_ context.Context, filter RoundFilter) error {
	t.table().delete(matchRoundFilter(filter))
	return nil
}

type memoryMatches memoryTable[models.Match]

func (t *memoryMatches) table() *memoryTable[models.Match] { return (*memoryTable[models.Match])(t) }

func (t *memoryMatches) Insert(_ context.Context, match *models.Match) (int, error) {
	return t.table().insert(match, func(m *models.Match, id int) { m.ID = id }), nil
}

func (t *memoryMatches) Get(_ context.Context, id int) (*models.Match, error) {
	return t.table().get(id)
}

func (t *memoryMatches) List(_ context.Context, filter MatchFilter) ([]*models.Match, error) {
	return t.table().list(matchMatchFilter(filter)), nil
}

func (t *memoryMatches) Update(_ context.Context, match *models.Match) error {
	return t.table().update(match.ID, match)
}

func (t *memoryMatches) Delete(_ context.Context, filter MatchFilter) error {
	t.table().delete(matchMatchFilter(filter))
	return nil
}
