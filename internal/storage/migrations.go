package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStep is one versioned change to the journal schema.
type schemaStep struct {
	Version int
	Name    string
	Apply   func(ctx context.Context, tx *sql.Tx) error
}

// schemaSteps lists every step in version order. Steps are append-only.
var schemaSteps = []schemaStep{
	{Version: 1, Name: "initial_schema", Apply: migrateV001},
}

// MigrationRunner brings a journal database up to the latest schema.
type MigrationRunner struct {
	db          *sql.DB
	journalMode string
	steps       []schemaStep
}

// NewMigrationRunner returns a runner for db. A non-empty journalMode is
// applied with PRAGMA journal_mode before any step runs.
func NewMigrationRunner(db *sql.DB, journalMode string) *MigrationRunner {
	return &MigrationRunner{db: db, journalMode: journalMode, steps: schemaSteps}
}

// Run applies every step not yet recorded in schema_migrations, each in
// its own transaction.
func (r *MigrationRunner) Run(ctx context.Context) error {
	if r.journalMode != "" {
		if _, err := r.db.ExecContext(ctx, "PRAGMA journal_mode = "+r.journalMode); err != nil {
			return fmt.Errorf("set journal mode %s: %w", r.journalMode, err)
		}
	}

	if _, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, step := range r.steps {
		if applied[step.Version] {
			continue
		}
		if err := r.apply(ctx, step); err != nil {
			return fmt.Errorf("schema v%d (%s): %w", step.Version, step.Name, err)
		}
	}
	return nil
}

func (r *MigrationRunner) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (r *MigrationRunner) apply(ctx context.Context, step schemaStep) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := step.Apply(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		step.Version, step.Name,
	); err != nil {
		return fmt.Errorf("record version: %w", err)
	}
	return tx.Commit()
}
