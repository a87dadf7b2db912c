package storage

import (
	"context"
	"database/sql"
)

// migrateV001 creates the initial schema: entries, categories and the
// settings singleton, plus the secondary indexes on entries. Every statement
// uses IF NOT EXISTS for idempotency. Default rows are seeded by
// Initialize, not here, so that ClearAll can re-seed them.
func migrateV001(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS entries (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL DEFAULT '',
			content    TEXT NOT NULL,
			mood       TEXT NOT NULL,
			category   TEXT NOT NULL,
			weather    TEXT NOT NULL DEFAULT '',
			latitude   REAL,
			longitude  REAL,
			address    TEXT NOT NULL DEFAULT '',
			city       TEXT NOT NULL DEFAULT '',
			images     TEXT NOT NULL DEFAULT '[]',
			tags       TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			color        TEXT NOT NULL DEFAULT '',
			record_count INTEGER NOT NULL DEFAULT 0 CHECK (record_count >= 0),
			created_at   TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key                  TEXT PRIMARY KEY,
			theme                TEXT NOT NULL DEFAULT 'auto',
			font_size            TEXT NOT NULL DEFAULT 'medium',
			enable_notifications BOOLEAN NOT NULL DEFAULT 1,
			enable_location      BOOLEAN NOT NULL DEFAULT 0,
			enable_weather       BOOLEAN NOT NULL DEFAULT 0,
			default_category     TEXT NOT NULL DEFAULT ''
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_entries_category   ON entries(category)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_mood       ON entries(mood)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_weather    ON entries(weather)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_name    ON categories(name)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
