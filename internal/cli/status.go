package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/treehole/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string      `json:"version"`
	DatabasePath      string      `json:"database_path"`
	DatabaseSizeBytes int64       `json:"database_size_bytes"`
	TotalEntries      int64       `json:"total_entries"`
	TotalCategories   int64       `json:"total_categories"`
	OldestEntry       string      `json:"oldest_entry,omitempty"`
	NewestEntry       string      `json:"newest_entry,omitempty"`
	Drift             []driftJSON `json:"record_count_drift"`
}

type driftJSON struct {
	Category string `json:"category"`
	Stored   int    `json:"stored"`
	Actual   int    `json:"actual"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *StatusCommand) run(ctx context.Context, e *env, _ []string) error {
	stats, err := e.store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	dbSize := getDatabaseSize(e.db, e.dbPath)

	if c.jsonOutput() {
		return c.printStatusJSON(stats, e.dbPath, dbSize)
	}
	return c.printStatusHuman(e, stats, dbSize)
}

func (c *StatusCommand) printStatusHuman(e *env, stats *storage.Stats, dbSize int64) error {
	fmt.Println("Treehole Status")
	fmt.Println("===============")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", e.dbPath, formatBytes(dbSize))
	fmt.Printf("Entries:       %s\n", formatNumber(stats.TotalEntries))
	fmt.Printf("Categories:    %s\n", formatNumber(stats.TotalCategories))

	if stats.TotalEntries > 0 {
		fmt.Printf("Oldest:        %s\n", stats.OldestEntry.Local().Format(dateLayout))
		fmt.Printf("Newest:        %s\n", stats.NewestEntry.Local().Format(dateLayout))
	}

	fmt.Println()
	if len(stats.Drift) == 0 {
		fmt.Println("Record counts: consistent")
		return nil
	}
	fmt.Println("Record counts: drift detected")
	for _, d := range stats.Drift {
		fmt.Printf("  %-20s stored %d, actual %d\n", e.journal.CategoryName(d.CategoryID), d.Stored, d.Actual)
	}
	return nil
}

func (c *StatusCommand) printStatusJSON(stats *storage.Stats, dbPath string, dbSize int64) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: dbSize,
		TotalEntries:      stats.TotalEntries,
		TotalCategories:   stats.TotalCategories,
		Drift:             make([]driftJSON, len(stats.Drift)),
	}

	if stats.TotalEntries > 0 {
		out.OldestEntry = stats.OldestEntry.UTC().Format(time.RFC3339)
		out.NewestEntry = stats.NewestEntry.UTC().Format(time.RFC3339)
	}

	for i, d := range stats.Drift {
		out.Drift[i] = driftJSON{Category: d.CategoryID, Stored: d.Stored, Actual: d.Actual}
	}

	return printJSON(out)
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
