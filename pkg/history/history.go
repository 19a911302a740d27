// Package history persists past evaluation reports in a local SQLite
// database so grades can be compared across runs. The store sits outside
// the evaluation path; evaluation inputs are always re-read fresh.
package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/jingkaihe/skillgrade/pkg/report"
)

// Entry is one stored evaluation, the row shape of the evaluations table.
type Entry struct {
	ID          int64     `db:"id" json:"id"`
	RunID       string    `db:"run_id" json:"run_id"`
	SkillName   string    `db:"skill_name" json:"skill_name"`
	SkillPath   string    `db:"skill_path" json:"skill_path"`
	TotalScore  float64   `db:"total_score" json:"total_score"`
	Grade       string    `db:"grade" json:"grade"`
	EvaluatedAt time.Time `db:"evaluated_at" json:"evaluated_at"`
	Report      string    `db:"report" json:"-"`
}

// Store wraps the history database.
type Store struct {
	db *sqlx.DB
}

// DefaultPath returns the history database location, honoring
// SKILLGRADE_BASE_PATH for relocated data directories.
func DefaultPath() (string, error) {
	if basePath := os.Getenv("SKILLGRADE_BASE_PATH"); basePath != "" {
		return filepath.Join(basePath, "history.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".skillgrade", "history.db"), nil
}

// Open opens or creates the history database at path, applies the WAL
// pragmas, and runs pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create history directory")
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open history database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping history database")
	}

	if err := configure(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to configure history database")
	}

	runner := newMigrationRunner(db)
	if err := runner.Run(ctx, migrations); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to migrate history database")
	}

	return &Store{db: db}, nil
}

// configure applies the SQLite pragmas for single-writer WAL operation.
func configure(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute pragma: %s", pragma)
		}
	}

	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	var journalMode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return errors.Wrap(err, "failed to query journal mode")
	}
	if strings.ToLower(journalMode) != "wal" {
		return errors.Errorf("WAL mode not enabled, current mode: %s", journalMode)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores one evaluation report under a fresh run id and returns it.
// The report itself carries no run identity; the id and timestamp are
// assigned here, at the moment of persistence.
func (s *Store) Save(ctx context.Context, r *report.EvaluationReport) (string, error) {
	runID := uuid.NewString()
	if err := s.insert(ctx, r, runID, time.Now().UTC()); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) insert(ctx context.Context, r *report.EvaluationReport, runID string, evaluatedAt time.Time) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluations (run_id, skill_name, skill_path, total_score, grade, evaluated_at, report)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, r.SkillName, r.SkillPath, r.TotalScore, r.Grade, evaluatedAt, string(payload))
	return errors.Wrap(err, "failed to save evaluation")
}

// List returns the most recent entries, newest first. A non-empty
// skillName filters to that skill; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, skillName string, limit int) ([]Entry, error) {
	query := "SELECT id, run_id, skill_name, skill_path, total_score, grade, evaluated_at, report FROM evaluations"
	var args []interface{}
	if skillName != "" {
		query += " WHERE skill_name = ?"
		args = append(args, skillName)
	}
	query += " ORDER BY evaluated_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var entries []Entry
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list evaluations")
	}
	return entries, nil
}

// Show loads the full stored report for a run ID.
func (s *Store) Show(ctx context.Context, runID string) (*report.EvaluationReport, error) {
	var entry Entry
	err := s.db.GetContext(ctx, &entry,
		"SELECT id, run_id, skill_name, skill_path, total_score, grade, evaluated_at, report FROM evaluations WHERE run_id = ?",
		runID)
	if err != nil {
		return nil, errors.Wrapf(err, "no stored evaluation with run id %s", runID)
	}

	var r report.EvaluationReport
	if err := json.Unmarshal([]byte(entry.Report), &r); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal stored report")
	}
	return &r, nil
}

// Prune deletes entries evaluated before the cutoff. Returns how many
// rows were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM evaluations WHERE evaluated_at < ?", cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune evaluations")
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count pruned evaluations")
	}
	return removed, nil
}

// PruneKeep deletes everything except the newest keep entries. Returns
// how many rows were removed.
func (s *Store) PruneKeep(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, errors.New("keep must not be negative")
	}
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM evaluations WHERE id NOT IN (SELECT id FROM evaluations ORDER BY evaluated_at DESC, id DESC LIMIT ?)",
		keep)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune evaluations")
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count pruned evaluations")
	}
	return removed, nil
}
