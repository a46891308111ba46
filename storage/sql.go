package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQL is a Storage backed by a relational database through sqlx. Postgres
// and SQLite are supported. Opponents, stage settings and extra fields are
// stored as JSON columns.
type SQL struct {
	db *sqlx.DB
}

// NewSQL wraps an open database handle and applies the schema migrations.
func NewSQL(db *sqlx.DB) (*SQL, error) {
	if err := migrateSchema(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQL{db: db}, nil
}

func migrateSchema(db *sqlx.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	var driver database.Driver
	switch db.DriverName() {
	case "postgres":
		driver, err = migratepostgres.WithInstance(db.DB, &migratepostgres.Config{})
	case "sqlite3":
		driver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("unsupported driver %q", db.DriverName())
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, db.DriverName(), driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	log.Printf("storage: schema is up to date (%s)", db.DriverName())
	return nil
}

func (s *SQL) Stages() StageStore  { return &sqlStages{db: s.db} }
func (s *SQL) Groups() GroupStore  { return &sqlGroups{db: s.db} }
func (s *SQL) Rounds() RoundStore  { return &sqlRounds{db: s.db} }
func (s *SQL) Matches() MatchStore { return &sqlMatches{db: s.db} }

// Snapshot reads the four tables in parallel and returns a full dump.
func (s *SQL) Snapshot(ctx context.Context) (*Dataset, error) {
	dataset := &Dataset{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dataset.Stages, err = s.Stages().List(ctx, StageFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		dataset.Groups, err = s.Groups().List(ctx, GroupFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		dataset.Rounds, err = s.Rounds().List(ctx, RoundFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		dataset.Matches, err = s.Matches().List(ctx, MatchFilter{})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to snapshot storage: %w", err)
	}
	return dataset, nil
}

// Restore replaces the whole content of the storage with the dataset, in a
// single transaction.
func (s *SQL) Restore(ctx context.Context, dataset *Dataset) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"matches", "rounds", "stage_groups", "stages"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, stage := range dataset.Stages {
		row, err := stageToRow(stage)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO stages (id, tournament_id, name, type, number, settings)
			 VALUES (:id, :tournament_id, :name, :type, :number, :settings)`, row); err != nil {
			return fmt.Errorf("failed to restore stage %d: %w", stage.ID, err)
		}
	}
	for _, group := range dataset.Groups {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO stage_groups (id, stage_id, number, role)
			 VALUES (:id, :stage_id, :number, :role)`, groupToRow(group)); err != nil {
			return fmt.Errorf("failed to restore group %d: %w", group.ID, err)
		}
	}
	for _, round := range dataset.Rounds {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO rounds (id, stage_id, group_id, number)
			 VALUES (:id, :stage_id, :group_id, :number)`, roundToRow(round)); err != nil {
			return fmt.Errorf("failed to restore round %d: %w", round.ID, err)
		}
	}
	for _, match := range dataset.Matches {
		row, err := matchToRow(match)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO matches (id, stage_id, group_id, round_id, number, child_count, status, opponent1, opponent2, extra)
			 VALUES (:id, :stage_id, :group_id, :round_id, :number, :child_count, :status, :opponent1, :opponent2, :extra)`,
			row); err != nil {
			return fmt.Errorf("failed to restore match %d: %w", match.ID, err)
		}
	}

	return tx.Commit()
}

type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(column string, value *int) {
	if value != nil {
		w.conds = append(w.conds, column+" = ?")
		w.args = append(w.args, *value)
	}
}

func (w *whereClause) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// insertRow runs an INSERT ... RETURNING id. The id is allocated inside the
// statement so that IDs start at 0 and follow insertion order on every
// backend, matching the in-memory storage.
func insertRow(ctx context.Context, db *sqlx.DB, query string, args ...any) (int, error) {
	var id int
	err := db.QueryRowxContext(ctx, db.Rebind(query), args...).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
