package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/runnerr0/treehole/internal/config"
	"github.com/runnerr0/treehole/internal/journal"
	"github.com/runnerr0/treehole/internal/provider"
	"github.com/runnerr0/treehole/internal/storage"
)

// env is everything a command needs: configuration, the opened store and
// the loaded journal over it.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	dbPath  string
	db      *sql.DB
	store   *storage.SQLiteStore
	journal *journal.Journal
	now     func() time.Time

	// location resolves the position for new entries; nil when none is
	// configured.
	location provider.LocationResolver

	closers []io.Closer
}

// openEnv loads the config, opens and migrates the database and loads the
// journal.
func openEnv(ctx context.Context, g *GlobalFlags) (*env, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := cfg.Logging.NewLogger(os.Stderr, g.Verbose)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	e := &env{cfg: cfg, log: logger, now: time.Now, closers: []io.Closer{logCloser}}
	if cfg.Location.Configured() {
		e.location = provider.StaticLocation{Location: &storage.Location{
			Latitude:  cfg.Location.Latitude,
			Longitude: cfg.Location.Longitude,
			City:      cfg.Location.City,
			Address:   cfg.Location.Address,
		}}
	}

	e.dbPath = g.DB
	if e.dbPath == "" {
		if e.dbPath, err = cfg.DBPath(); err != nil {
			e.Close()
			return nil, err
		}
	} else if e.dbPath, err = config.ExpandPath(e.dbPath); err != nil {
		e.Close()
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(e.dbPath), 0755); err != nil {
		e.Close()
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := storage.Open(e.dbPath)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.closers = append(e.closers, db)

	store := storage.NewSQLiteStore(db,
		storage.WithLogger(logger),
		storage.WithJournalMode(strings.ToUpper(cfg.Storage.SQLiteJournalMode)),
	)
	if err := store.Initialize(ctx); err != nil {
		e.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	e.closers = append(e.closers, store)

	if err := e.attach(ctx, db, store); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// attach builds and loads the journal over an initialized store.
func (e *env) attach(ctx context.Context, db *sql.DB, store *storage.SQLiteStore) error {
	e.db = db
	e.store = store
	e.journal = journal.New(store,
		journal.WithLogger(e.log),
		journal.WithMaxTags(e.cfg.Entries.MaxTags),
		journal.WithTitleLength(e.cfg.Entries.TitleLength),
		journal.WithClock(e.now),
	)
	return e.journal.LoadAll(ctx)
}

// currentLocation asks the location resolver for a position when the
// settings allow recording one. It returns nil otherwise.
func (e *env) currentLocation(ctx context.Context) (*storage.Location, error) {
	if e.location == nil {
		return nil, nil
	}
	if s, ok := e.journal.Settings(); !ok || !s.EnableLocation {
		return nil, nil
	}
	loc, err := e.location.Locate(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve location: %w", err)
	}
	return loc, nil
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && e.log != nil {
			e.log.Debug("close", "error", err)
		}
	}
	e.closers = nil
}

func loadConfig(g *GlobalFlags) (*config.Config, error) {
	if g.Config == "" {
		cfg, err := config.LoadOrCreate()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	path, err := config.ExpandPath(g.Config)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrCreateAt(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// runner is implemented by every command that works on an opened env.
type runner interface {
	run(ctx context.Context, e *env, args []string) error
}

// execute opens the environment for g and runs r against it.
func execute(g *GlobalFlags, r runner, args []string) error {
	ctx := context.Background()
	e, err := openEnv(ctx, g)
	if err != nil {
		return err
	}
	defer e.Close()
	return r.run(ctx, e, args)
}
