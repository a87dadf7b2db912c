package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store defines the persistent operations on entries, categories and
// settings. Updates and deletes of unknown ids are no-ops.
type Store interface {
	Initialize(ctx context.Context) error

	GetAllEntries(ctx context.Context) ([]Entry, error)
	GetEntry(ctx context.Context, id string) (*Entry, error)
	GetEntriesByCategory(ctx context.Context, categoryID string) ([]Entry, error)
	CreateEntry(ctx context.Context, entry Entry) error
	UpdateEntry(ctx context.Context, id string, patch EntryPatch) (*Entry, error)
	DeleteEntry(ctx context.Context, id string) (bool, error)

	GetAllCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	CreateCategory(ctx context.Context, category Category) error
	UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*Category, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)

	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error

	ExportSnapshot(ctx context.Context) (*Snapshot, error)
	ImportSnapshot(ctx context.Context, snap *Snapshot) error
	ClearAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = `id, title, content, mood, category, weather, latitude, longitude,
	address, city, images, tags, created_at, updated_at`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the logger used for non-fatal store events.
func WithLogger(l *slog.Logger) Option {
	return func(s *SQLiteStore) { s.log = l }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = now }
}

// WithJournalMode sets the SQLite journal mode applied on initialization.
func WithJournalMode(mode string) Option {
	return func(s *SQLiteStore) { s.journalMode = mode }
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db          *sql.DB
	log         *slog.Logger
	now         func() time.Time
	journalMode string

	mu    sync.Mutex
	ready bool

	// Prepared statements, created by Initialize.
	getEntry    *sql.Stmt
	getCategory *sql.Stmt
	getSettings *sql.Stmt
}

// Open opens (creating if needed) the SQLite file at path. The caller owns
// the returned *sql.DB.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and matches
	// SQLite's single-writer model.
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLiteStore creates a SQLiteStore over an opened database. The schema is
// migrated and seeded lazily on first use, or explicitly with Initialize.
func NewSQLiteStore(db *sql.DB, opts ...Option) *SQLiteStore {
	s := &SQLiteStore{
		db:          db,
		log:         slog.Default(),
		now:         time.Now,
		journalMode: "WAL",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize migrates the schema, prepares statements and seeds the default
// categories and settings when absent. It is idempotent.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	if err := NewMigrationRunner(s.db, s.journalMode).Run(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := s.prepareStatements(ctx); err != nil {
		return fmt.Errorf("prepare statements: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := s.seedDefaults(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	s.ready = true
	return nil
}

func (s *SQLiteStore) prepareStatements(ctx context.Context) error {
	var err error

	s.getEntry, err = s.db.PrepareContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE id = ?")
	if err != nil {
		return err
	}

	s.getCategory, err = s.db.PrepareContext(ctx, `
		SELECT id, name, color, record_count, created_at
		FROM categories WHERE id = ?
	`)
	if err != nil {
		return err
	}

	s.getSettings, err = s.db.PrepareContext(ctx, `
		SELECT theme, font_size, enable_notifications, enable_location,
		       enable_weather, default_category
		FROM settings WHERE key = ?
	`)
	if err != nil {
		return err
	}

	return nil
}

// seedDefaults inserts the default categories if there are none and the
// default settings if the singleton is missing.
func (s *SQLiteStore) seedDefaults(ctx context.Context, q queryer) error {
	var count int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count == 0 {
		for _, c := range DefaultCategories(s.now().UTC()) {
			if err := upsertCategory(ctx, q, c); err != nil {
				return fmt.Errorf("seed category %s: %w", c.ID, err)
			}
		}
		s.log.Debug("seeded default categories")
	}

	var present int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM settings WHERE key = ?", SettingsKey,
	).Scan(&present)
	if err != nil {
		return fmt.Errorf("check settings: %w", err)
	}
	if present == 0 {
		if err := putSettings(ctx, q, DefaultSettings()); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
		s.log.Debug("seeded default settings")
	}

	return nil
}

// --- Entries ---

// GetAllEntries returns every entry in insertion order.
func (s *SQLiteStore) GetAllEntries(ctx context.Context) ([]Entry, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return scanEntries(ctx, s.db, "SELECT "+entryColumns+" FROM entries ORDER BY rowid")
}

// GetEntry retrieves a single entry by id, or ErrNotFound.
func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (*Entry, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	e, err := scanEntry(s.getEntry.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("entry %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// GetEntriesByCategory returns the entries referencing categoryID, using the
// category index.
func (s *SQLiteStore) GetEntriesByCategory(ctx context.Context, categoryID string) ([]Entry, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return scanEntries(ctx, s.db,
		"SELECT "+entryColumns+" FROM entries WHERE category = ? ORDER BY rowid", categoryID)
}

// CreateEntry inserts entry and increments its category's record count in
// the same transaction. Zero timestamps are set to now.
func (s *SQLiteStore) CreateEntry(ctx context.Context, entry Entry) error {
	if err := s.Initialize(ctx); err != nil {
		return err
	}
	if entry.ID == "" {
		return fmt.Errorf("create entry: empty id")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = entry.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertEntry(ctx, tx, entry); err != nil {
		return err
	}
	if err := s.adjustCount(ctx, tx, entry.Category, +1); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateEntry merges patch into the stored entry and bumps UpdatedAt. When
// the category changes, the old category is decremented and the new one
// incremented in the same transaction. It returns nil, nil if id is unknown.
func (s *SQLiteStore) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (*Entry, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	old, err := scanEntry(tx.StmtContext(ctx, s.getEntry).QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	updated := patch.Apply(*old)
	updated.ID = old.ID
	updated.CreatedAt = old.CreatedAt
	updated.UpdatedAt = s.now().UTC()
	if !updated.UpdatedAt.After(old.UpdatedAt) {
		updated.UpdatedAt = old.UpdatedAt.Add(time.Nanosecond)
	}

	if err := writeEntry(ctx, tx, updated); err != nil {
		return nil, err
	}

	if updated.Category != old.Category {
		if err := s.adjustCount(ctx, tx, old.Category, -1); err != nil {
			return nil, err
		}
		if err := s.adjustCount(ctx, tx, updated.Category, +1); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return &updated, nil
}

// DeleteEntry removes an entry and decrements its category's record count.
// It reports whether an entry was removed.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, id string) (bool, error) {
	if err := s.Initialize(ctx); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var category string
	err = tx.QueryRowContext(ctx, "SELECT category FROM entries WHERE id = ?", id).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	if err := s.adjustCount(ctx, tx, category, -1); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete: %w", err)
	}
	return true, nil
}

// adjustCount moves a category's record count by delta, floored at zero. A
// missing category is logged and skipped.
func (s *SQLiteStore) adjustCount(ctx context.Context, q queryer, categoryID string, delta int) error {
	if categoryID == "" {
		return nil
	}
	res, err := q.ExecContext(ctx,
		"UPDATE categories SET record_count = MAX(0, record_count + ?) WHERE id = ?",
		delta, categoryID,
	)
	if err != nil {
		return fmt.Errorf("adjust category %s count: %w", categoryID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		s.log.Warn("record count not adjusted: category missing", "category", categoryID, "delta", delta)
	}
	return nil
}

// --- Categories ---

// GetAllCategories returns every category in insertion order.
func (s *SQLiteStore) GetAllCategories(ctx context.Context) ([]Category, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return scanCategories(ctx, s.db)
}

// GetCategory retrieves a category by id, or ErrNotFound.
func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*Category, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	c, err := scanCategory(s.getCategory.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// CreateCategory inserts or replaces a category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category Category) error {
	if err := s.Initialize(ctx); err != nil {
		return err
	}
	if category.ID == "" {
		return fmt.Errorf("create category: empty id")
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = s.now().UTC()
	}
	return upsertCategory(ctx, s.db, category)
}

// UpdateCategory merges patch into a stored category. It returns nil, nil if
// id is unknown.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*Category, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	c, err := scanCategory(tx.StmtContext(ctx, s.getCategory).QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE categories SET name = ?, color = ? WHERE id = ?",
		c.Name, c.Color, c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes a category. Entries referencing it are left as
// they are and keep the dangling id.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) (bool, error) {
	if err := s.Initialize(ctx); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- Settings ---

// GetSettings returns the settings singleton, or nil if none is stored.
func (s *SQLiteStore) GetSettings(ctx context.Context) (*Settings, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	st, err := scanSettings(s.getSettings.QueryRowContext(ctx, SettingsKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return st, nil
}

// SaveSettings replaces the settings singleton.
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings Settings) error {
	if err := s.Initialize(ctx); err != nil {
		return err
	}
	return putSettings(ctx, s.db, settings)
}

// --- Snapshot ---

// ExportSnapshot reads entries, categories and settings in one read
// transaction.
func (s *SQLiteStore) ExportSnapshot(ctx context.Context) (*Snapshot, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	entries, err := scanEntries(ctx, tx, "SELECT "+entryColumns+" FROM entries ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	categories, err := scanCategories(ctx, tx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Entries: entries, Categories: categories}

	st, err := scanSettings(tx.StmtContext(ctx, s.getSettings).QueryRowContext(ctx, SettingsKey))
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("get settings: %w", err)
	default:
		snap.Settings = st
	}

	return snap, nil
}

// ImportSnapshot replaces entries and categories with the snapshot's data,
// and the settings too when the snapshot carries them. The snapshot is
// validated first; nothing is written unless the whole import commits.
func (s *SQLiteStore) ImportSnapshot(ctx context.Context, snap *Snapshot) error {
	if err := s.Initialize(ctx); err != nil {
		return err
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range []string{"DELETE FROM entries", "DELETE FROM categories"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("import (%s): %w", stmt, err)
		}
	}

	for _, e := range snap.Entries {
		if err := insertEntry(ctx, tx, e); err != nil {
			return fmt.Errorf("import entry %s: %w", e.ID, err)
		}
	}
	for _, c := range snap.Categories {
		if err := upsertCategory(ctx, tx, c); err != nil {
			return fmt.Errorf("import category %s: %w", c.ID, err)
		}
	}
	if snap.Settings != nil {
		if err := putSettings(ctx, tx, *snap.Settings); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
	}

	return tx.Commit()
}

// ClearAll deletes every entry, category and the settings, then re-seeds the
// defaults, all in one transaction.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	if err := s.Initialize(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmts := []string{
		"DELETE FROM entries",
		"DELETE FROM categories",
		"DELETE FROM settings",
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear (%s): %w", stmt, err)
		}
	}

	if err := s.seedDefaults(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// GetStats returns aggregate figures about the database, including any
// category whose stored record count has drifted from the actual count.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&stats.TotalEntries)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&stats.TotalCategories)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	// Oldest and newest (handle empty DB)
	if stats.TotalEntries > 0 {
		var oldestStr, newestStr string
		err = s.db.QueryRowContext(ctx,
			"SELECT MIN(created_at), MAX(created_at) FROM entries",
		).Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("entry time range: %w", err)
		}
		stats.OldestEntry, _ = parseTimestamp(oldestStr)
		stats.NewestEntry, _ = parseTimestamp(newestStr)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.record_count, COUNT(e.id)
		FROM categories c
		LEFT JOIN entries e ON e.category = c.id
		GROUP BY c.id, c.record_count
		HAVING c.record_count != COUNT(e.id)
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("category drift: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d CategoryDrift
		if err := rows.Scan(&d.CategoryID, &d.Stored, &d.Actual); err != nil {
			return nil, err
		}
		stats.Drift = append(stats.Drift, d)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmts := []*sql.Stmt{s.getEntry, s.getCategory, s.getSettings}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	s.ready = false
	return nil
}

// --- row helpers ---

func insertEntry(ctx context.Context, q queryer, e Entry) error {
	var exists int
	if err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries WHERE id = ?", e.ID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check entry: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("entry %s: %w", e.ID, ErrDuplicate)
	}

	args, err := entryArgs(e)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func writeEntry(ctx context.Context, q queryer, e Entry) error {
	args, err := entryArgs(e)
	if err != nil {
		return err
	}
	// id goes last for the WHERE clause
	args = append(args[1:], args[0])
	_, err = q.ExecContext(ctx, `
		UPDATE entries SET
			title = ?, content = ?, mood = ?, category = ?, weather = ?,
			latitude = ?, longitude = ?, address = ?, city = ?,
			images = ?, tags = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}

func entryArgs(e Entry) ([]any, error) {
	images, err := encodeList(e.Images)
	if err != nil {
		return nil, fmt.Errorf("encode images: %w", err)
	}
	tags, err := encodeList(e.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	var lat, lng sql.NullFloat64
	var address, city string
	if e.Location != nil {
		lat = sql.NullFloat64{Float64: e.Location.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: e.Location.Longitude, Valid: true}
		address = e.Location.Address
		city = e.Location.City
	}

	return []any{
		e.ID, e.Title, e.Content, string(e.Mood), e.Category, string(e.Weather),
		lat, lng, address, city, images, tags,
		formatTimestamp(e.CreatedAt), formatTimestamp(e.UpdatedAt),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var mood, weather, address, city, images, tags, created, updated string
	var lat, lng sql.NullFloat64

	if err := row.Scan(
		&e.ID, &e.Title, &e.Content, &mood, &e.Category, &weather,
		&lat, &lng, &address, &city, &images, &tags, &created, &updated,
	); err != nil {
		return nil, err
	}

	e.Mood = Mood(mood)
	e.Weather = Weather(weather)
	if lat.Valid && lng.Valid {
		e.Location = &Location{
			Latitude:  lat.Float64,
			Longitude: lng.Float64,
			Address:   address,
			City:      city,
		}
	}

	var err error
	if e.Images, err = decodeList(images); err != nil {
		return nil, fmt.Errorf("decode images of %s: %w", e.ID, err)
	}
	if e.Tags, err = decodeList(tags); err != nil {
		return nil, fmt.Errorf("decode tags of %s: %w", e.ID, err)
	}
	if e.CreatedAt, err = parseTimestamp(created); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return nil, err
	}

	return &e, nil
}

// scanEntries executes a query and scans results into an Entry slice.
func scanEntries(ctx context.Context, q queryer, query string, args ...any) ([]Entry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

func scanCategory(row rowScanner) (*Category, error) {
	var c Category
	var created string
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.RecordCount, &created); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = parseTimestamp(created); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCategories(ctx context.Context, q queryer) ([]Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, color, record_count, created_at
		FROM categories ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}

	return categories, rows.Err()
}

func upsertCategory(ctx context.Context, q queryer, c Category) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, record_count, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			record_count = excluded.record_count,
			created_at = excluded.created_at
	`, c.ID, c.Name, c.Color, c.RecordCount, formatTimestamp(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

func scanSettings(row rowScanner) (*Settings, error) {
	var st Settings
	var theme, fontSize string
	if err := row.Scan(
		&theme, &fontSize, &st.EnableNotifications, &st.EnableLocation,
		&st.EnableWeather, &st.DefaultCategory,
	); err != nil {
		return nil, err
	}
	st.Theme = Theme(theme)
	st.FontSize = FontSize(fontSize)
	return &st, nil
}

func putSettings(ctx context.Context, q queryer, st Settings) error {
	_, err := q.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (key, theme, font_size, enable_notifications,
			enable_location, enable_weather, default_category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, SettingsKey, string(st.Theme), string(st.FontSize), st.EnableNotifications,
		st.EnableLocation, st.EnableWeather, st.DefaultCategory)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func encodeList(items []string) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTimestamp tries the stored layout, then common RFC3339 variants.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}
