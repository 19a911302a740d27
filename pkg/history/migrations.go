package history

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// migration is one schema change, versioned by timestamp so additions
// stay ordered without renumbering.
type migration struct {
	Version     int64 // YYYYMMDDHHmmss
	Description string
	Up          func(*sql.Tx) error
}

var migrations = []migration{
	{
		Version:     20250810120000,
		Description: "create evaluations table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS evaluations (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					run_id TEXT NOT NULL UNIQUE,
					skill_name TEXT NOT NULL,
					skill_path TEXT NOT NULL,
					total_score REAL NOT NULL,
					grade TEXT NOT NULL,
					evaluated_at DATETIME NOT NULL,
					report TEXT NOT NULL
				)`)
			return err
		},
	},
	{
		Version:     20250810120001,
		Description: "index evaluations by skill name and time",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_evaluations_skill_time
				ON evaluations (skill_name, evaluated_at DESC)`)
			return err
		},
	},
}

type migrationRunner struct {
	db *sqlx.DB
}

func newMigrationRunner(db *sqlx.DB) *migrationRunner {
	return &migrationRunner{db: db}
}

// Run applies pending migrations in version order inside transactions.
func (r *migrationRunner) Run(ctx context.Context, pending []migration) error {
	if err := r.ensureMigrationsTable(ctx); err != nil {
		return err
	}

	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return err
	}

	sorted := make([]migration, len(pending))
	copy(sorted, pending)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	for _, m := range sorted {
		if applied[m.Version] {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return errors.Wrapf(err, "failed to apply migration %d: %s", m.Version, m.Description)
		}
	}
	return nil
}

func (r *migrationRunner) ensureMigrationsTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL,
			description TEXT
		)`)
	return errors.Wrap(err, "failed to create schema_migrations table")
}

func (r *migrationRunner) appliedVersions(ctx context.Context) (map[int64]bool, error) {
	var versions []int64
	if err := r.db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations"); err != nil {
		return nil, errors.Wrap(err, "failed to get applied migrations")
	}
	applied := make(map[int64]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func (r *migrationRunner) apply(ctx context.Context, m migration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := m.Up(tx.Tx); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at, description) VALUES (?, ?, ?)",
		m.Version, time.Now(), m.Description)
	if err != nil {
		return errors.Wrap(err, "failed to record migration")
	}
	return tx.Commit()
}
