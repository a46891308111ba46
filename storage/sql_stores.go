package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Dosada05/bracket-engine/models"
)

type stageRow struct {
	ID           int    `db:"id"`
	TournamentID int    `db:"tournament_id"`
	Name         string `db:"name"`
	Type         string `db:"type"`
	Number       int    `db:"number"`
	Settings     string `db:"settings"`
}

func stageToRow(stage *models.Stage) (*stageRow, error) {
	settings, err := json.Marshal(stage.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stage settings: %w", err)
	}
	return &stageRow{
		ID:           stage.ID,
		TournamentID: stage.TournamentID,
		Name:         stage.Name,
		Type:         string(stage.Type),
		Number:       stage.Number,
		Settings:     string(settings),
	}, nil
}

func (r *stageRow) toModel() (*models.Stage, error) {
	stage := &models.Stage{
		ID:           r.ID,
		TournamentID: r.TournamentID,
		Name:         r.Name,
		Type:         models.StageType(r.Type),
		Number:       r.Number,
	}
	if err := json.Unmarshal([]byte(r.Settings), &stage.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings of stage %d: %w", r.ID, err)
	}
	return stage, nil
}

type groupRow struct {
	ID      int    `db:"id"`
	StageID int    `db:"stage_id"`
	Number  int    `db:"number"`
	Role    string `db:"role"`
}

func groupToRow(group *models.Group) *groupRow {
	return &groupRow{ID: group.ID, StageID: group.StageID, Number: group.Number, Role: string(group.Role)}
}

func (r *groupRow) toModel() *models.Group {
	return &models.Group{ID: r.ID, StageID: r.StageID, Number: r.Number, Role: models.BracketRole(r.Role)}
}

type roundRow struct {
	ID      int `db:"id"`
	StageID int `db:"stage_id"`
	GroupID int `db:"group_id"`
	Number  int `db:"number"`
}

func roundToRow(round *models.Round) *roundRow {
	return &roundRow{ID: round.ID, StageID: round.StageID, GroupID: round.GroupID, Number: round.Number}
}

func (r *roundRow) toModel() *models.Round {
	return &models.Round{ID: r.ID, StageID: r.StageID, GroupID: r.GroupID, Number: r.Number}
}

type matchRow struct {
	ID         int            `db:"id"`
	StageID    int            `db:"stage_id"`
	GroupID    int            `db:"group_id"`
	RoundID    int            `db:"round_id"`
	Number     int            `db:"number"`
	ChildCount int            `db:"child_count"`
	Status     int            `db:"status"`
	Opponent1  sql.NullString `db:"opponent1"`
	Opponent2  sql.NullString `db:"opponent2"`
	Extra      sql.NullString `db:"extra"`
}

func matchToRow(match *models.Match) (*matchRow, error) {
	row := &matchRow{
		ID:         match.ID,
		StageID:    match.StageID,
		GroupID:    match.GroupID,
		RoundID:    match.RoundID,
		Number:     match.Number,
		ChildCount: match.ChildCount,
		Status:     int(match.Status),
	}

	var err error
	if row.Opponent1, err = encodeJSONColumn(match.Opponent1); err != nil {
		return nil, fmt.Errorf("failed to encode opponent1 of match %d: %w", match.ID, err)
	}
	if row.Opponent2, err = encodeJSONColumn(match.Opponent2); err != nil {
		return nil, fmt.Errorf("failed to encode opponent2 of match %d: %w", match.ID, err)
	}
	if match.Extra != nil {
		if row.Extra, err = encodeJSONColumn(match.Extra); err != nil {
			return nil, fmt.Errorf("failed to encode extra of match %d: %w", match.ID, err)
		}
	}
	return row, nil
}

func encodeJSONColumn(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func (r *matchRow) toModel() (*models.Match, error) {
	match := &models.Match{
		ID:         r.ID,
		StageID:    r.StageID,
		GroupID:    r.GroupID,
		RoundID:    r.RoundID,
		Number:     r.Number,
		ChildCount: r.ChildCount,
		Status:     models.Status(r.Status),
	}

	if r.Opponent1.Valid {
		if err := json.Unmarshal([]byte(r.Opponent1.String), &match.Opponent1); err != nil {
			return nil, fmt.Errorf("failed to decode opponent1 of match %d: %w", r.ID, err)
		}
	}
	if r.Opponent2.Valid {
		if err := json.Unmarshal([]byte(r.Opponent2.String), &match.Opponent2); err != nil {
			return nil, fmt.Errorf("failed to decode opponent2 of match %d: %w", r.ID, err)
		}
	}
	if r.Extra.Valid {
		if err := json.Unmarshal([]byte(r.Extra.String), &match.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode extra of match %d: %w", r.ID, err)
		}
	}
	return match, nil
}

type sqlStages struct {
	db *sqlx.DB
}

func (s *sqlStages) Insert(ctx context.Context, stage *models.Stage) (int, error) {
	row, err := stageToRow(stage)
	if err != nil {
		return 0, err
	}
	id, err := insertRow(ctx, s.db,
		`INSERT INTO stages (id, tournament_id, name, type, number, settings)
		 VALUES ((SELECT COALESCE(MAX(id) + 1, 0) FROM stages), ?, ?, ?, ?, ?)
		 RETURNING id`,
		row.TournamentID, row.Name, row.Type, row.Number, row.Settings)
	if err != nil {
		return 0, fmt.Errorf("failed to insert stage: %w", err)
	}
	stage.ID = id
	return id, nil
}

func (s *sqlStages) Get(ctx context.Context, id int) (*models.Stage, error) {
	var row stageRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM stages WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stage %d: %w", id, err)
	}
	return row.toModel()
}

func (s *sqlStages) List(ctx context.Context, filter StageFilter) ([]*models.Stage, error) {
	where := &whereClause{}
	where.add("id", filter.ID)
	where.add("tournament_id", filter.TournamentID)
	where.add("number", filter.Number)

	var rows []stageRow
	query := s.db.Rebind(`SELECT * FROM stages` + where.sql() + ` ORDER BY id`)
	if err := s.db.SelectContext(ctx, &rows, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}

	stages := make([]*models.Stage, 0, len(rows))
	for i := range rows {
		stage, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

func (s *sqlStages) Update(ctx context.Context, stage *models.Stage) error {
	row, err := stageToRow(stage)
	if err != nil {
		return err
	}
	res, err := s.db.NamedExecContext(ctx,
		`UPDATE stages SET tournament_id = :tournament_id, name = :name, type = :type,
		 number = :number, settings = :settings WHERE id = :id`, row)
	if err != nil {
		return fmt.Errorf("failed to update stage %d: %w", stage.ID, err)
	}
	return ensureAffected(res)
}

func (s *sqlStages) Delete(ctx context.Context, filter StageFilter) error {
	where := &whereClause{}
	where.add("id", filter.ID)
	where.add("tournament_id", filter.TournamentID)
	where.add("number", filter.Number)

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM stages`+where.sql()), where.args...); err != nil {
		return fmt.Errorf("failed to delete stages: %w", err)
	}
	return nil
}

type sqlGroups struct {
	db *sqlx.DB
}

func (s *sqlGroups) Insert(ctx context.Context, group *models.Group) (int, error) {
	id, err := insertRow(ctx, s.db,
		`INSERT INTO stage_groups (id, stage_id, number, role)
		 VALUES ((SELECT COALESCE(MAX(id) + 1, 0) FROM stage_groups), ?, ?, ?)
		 RETURNING id`,
		group.StageID, group.Number, string(group.Role))
	if err != nil {
		return 0, fmt.Errorf("failed to insert group: %w", err)
	}
	group.ID = id
	return id, nil
}

func (s *sqlGroups) Get(ctx context.Context, id int) (*models.Group, error) {
	var row groupRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM stage_groups WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group %d: %w", id, err)
	}
	return row.toModel(), nil
}

func (s *sqlGroups) List(ctx context.Context, filter GroupFilter) ([]*models.Group, error) {
	where := &whereClause{}
	where.add("id", filter.ID)
	where.add("stage_id", filter.StageID)
	where.add("number", filter.Number)

	var rows []groupRow
	query := s.db.Rebind(`SELECT * FROM stage_groups` + where.sql() + ` ORDER BY id`)
	if err := s.db.SelectContext(ctx, &rows, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	groups := make([]*models.Group, 0, len(rows))
	for i := range rows {
		groups = append(groups, rows[i].toModel())
	}
	return groups, nil
}

func (s *sqlGroups) Delete(ctx context.Context, filter GroupFilter) error {
	where := &whereClause{}
	where.add("id", filter.ID)
	where.add("stage_id", filter.StageID)
	where.add("number", filter.Number)

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM stage_groups`+where.sql()), where.args...); err != nil {
		return fmt.Errorf("failed to delete groups: %w", err)
	}
	return nil
}

type sqlRounds struct {
	db *sqlx.DB
}

func (s *sqlRounds) Insert(ctx context.Context, round *models.Round) (int, error) {
	id, err := insertRow(ctx, s.db,
		`INSERT INTO rounds (id, stage_id, group_id, number)
		 VALUES ((SELECT COALESCE(MAX(id) + 1, 0) FROM rounds), ?, ?, ?)
		 RETURNING id`,
		round.StageID, round.GroupID, round.Number)
	if err != nil {
		return 0, fmt.Errorf("failed to insert round: %w", err)
	}
	round.ID = id
	return id, nil
}

func (s *sqlRounds) Get(ctx context.Context, id int) (*models.Round, error) {
	var row roundRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM rounds WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round %d: %w", id, err)
	}
	return row.toModel(), nil
}

func (s *sqlRounds) List(ctx context.Context, filter RoundFilter) ([]*models.Round, error) {
	where := &whereClause{}
	where.add("id", filter.ID)
	where.add("stage_id", filter.StageID)
	where.add("group_id", filter.GroupID)
	where.add("number", filter.Number)

	var rows []roundRow
	query := s.db.Rebind(`SELECT * FROM rounds` + where.sql() + ` ORDER BY id`)
	if err := s.db.SelectContext(ctx, &rows, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	rounds := make([]*models.Round, 0, len(rows))
	for i := range rows {
		rounds = append(rounds, rows[i].toModel())
	}
	return rounds, nil
}

func (s *sqlRounds) Delete(ctx context.Context, filter RoundFilter) error {
	where := &whereClause{}
	where.add("id", filter.ID)
	where.add("stage_id", filter.StageID)
	where.add("group_id", filter.GroupID)
	where.add("number", filter.Number)

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM rounds`+where.sql()), where.args...); err != nil {
		return fmt.Errorf("failed to delete rounds: %w", err)
	}
	return nil
}

type sqlMatches struct {
	db *sqlx.DB
}

func (s *sqlMatches) Insert(ctx context.Context, match *models.Match) (int, error) {
	row, err := matchToRow(match)
	if err != nil {
		return 0, err
	}
	id, err := insertRow(ctx, s.db,
		`INSERT INTO matches (id, stage_id, group_id, round_id, number, child_count, status, opponent1, opponent2, extra)
		 VALUES ((SELECT COALESCE(MAX(id) + 1, 0) FROM matches), ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		row.StageID, row.GroupID, row.RoundID, row.Number, row.ChildCount, row.Status,
		row.Opponent1, row.Opponent2, row.Extra)
	if err != nil {
		return 0, fmt.Errorf("failed to insert match: %w", err)
	}
	match.ID = id
	return id, nil
}

func (s *sqlMatches) Get(ctx context.Context, id int) (*models.Match, error) {
	var row matchRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM matches WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return row.toModel()
}

func (s *sqlMatches) List(ctx context.Context, filter MatchFilter) ([]*models.Match, error) {
	where := &whereClause{}
	where.add("id", filter.ID)
	where.add("stage_id", filter.StageID)
	where.add("group_id", filter.GroupID)
	where.add("round_id", filter.RoundID)
	where.add("number", filter.Number)
	if filter.Status != nil {
		status := int(*filter.Status)
		where.add("status", &status)
	}

	var rows []matchRow
	query := s.db.Rebind(`SELECT * FROM matches` + where.sql() + ` ORDER BY id`)
	if err := s.db.SelectContext(ctx, &rows, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	matches := make([]*models.Match, 0, len(rows))
	for i := range rows {
		match, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (s *sqlMatches) Update(ctx context.Context, match *models.Match) error {
	row, err := matchToRow(match)
	if err != nil {
		return err
	}
	res, err := s.db.NamedExecContext(ctx,
		`UPDATE matches SET stage_id = :stage_id, group_id = :group_id, round_id = :round_id,
		 number = :number, child_count = :child_count, status = :status,
		 opponent1 = :opponent1, opponent2 = :opponent2, extra = :extra
		 WHERE id = :id`, row)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", match.ID, err)
	}
	return ensureAffected(res)
}

func (s *sqlMatches) Delete(ctx context.Context, filter MatchFilter) error {
	where := &whereClause{}
	where.add("id", filter.ID)
	where.add("stage_id", filter.StageID)
	where.add("group_id", filter.GroupID)
	where.add("round_id", filter.RoundID)
	where.add("number", filter.Number)

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM matches`+where.sql()), where.args...); err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	return nil
}

func ensureAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
