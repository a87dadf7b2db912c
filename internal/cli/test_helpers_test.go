package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/treehole/internal/config"
	"github.com/runnerr0/treehole/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// stepClock returns a clock that advances one minute per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

// newTestEnv creates an env over an initialized in-memory store with the
// default config.
func newTestEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	clock := stepClock(time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC))

	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := storage.NewSQLiteStore(db, storage.WithJournalMode(""), storage.WithClock(clock))
	require.NoError(t, store.Initialize(ctx))
	t.Cleanup(func() { store.Close() })

	e := &env{
		cfg:    config.DefaultConfig(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		dbPath: ":memory:",
		now:    clock,
	}
	require.NoError(t, e.attach(ctx, db, store))
	return e
}

// runCmd runs r against e, returning stdout and the error.
func runCmd(t *testing.T, e *env, r runner, args ...string) (string, error) {
	t.Helper()
	var err error
	out := captureOutput(t, func() {
		err = r.run(context.Background(), e, args)
	})
	return out, err
}

func jsonGlobals() base {
	return base{globals: &GlobalFlags{JSON: true}, version: "test"}
}

func humanGlobals() base {
	return base{globals: &GlobalFlags{}, version: "test"}
}

func decodeJSON(t *testing.T, out string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), v), "output should be valid JSON: %s", out)
}

// addEntry adds an entry through the add command and returns its id.
func addEntry(t *testing.T, e *env, mood, category string, tags []string, content string) string {
	t.Helper()
	cmd := &AddCommand{Mood: mood, Category: category, Tags: tags, base: jsonGlobals()}
	out, err := runCmd(t, e, cmd, content)
	require.NoError(t, err)
	var entry storage.Entry
	decodeJSON(t, out, &entry)
	return entry.ID
}
