package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/treehole/internal/stats"
	"github.com/runnerr0/treehole/internal/storage"
)

// Execute implements the go-flags Commander interface for CalendarCommand.
func (c *CalendarCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

type calendarDayJSON struct {
	Date    string          `json:"date"`
	Count   int             `json:"count"`
	Mood    storage.Mood    `json:"mood,omitempty"`
	Entries []storage.Entry `json:"entries"`
}

type calendarJSON struct {
	Month string            `json:"month"`
	Days  []calendarDayJSON `json:"days"`
}

func (c *CalendarCommand) month(now time.Time) (time.Time, error) {
	if c.Month == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	m, err := time.ParseInLocation("2006-01", c.Month, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --month value %q: want YYYY-MM", c.Month)
	}
	return m, nil
}

func (c *CalendarCommand) run(_ context.Context, e *env, _ []string) error {
	now := e.now()
	month, err := c.month(now)
	if err != nil {
		return err
	}
	days := stats.CalendarMonth(e.journal.Entries(), month.Year(), month.Month(), now.Location())

	if c.jsonOutput() {
		out := calendarJSON{Month: month.Format("2006-01"), Days: make([]calendarDayJSON, len(days))}
		for i, d := range days {
			out.Days[i] = calendarDayJSON{
				Date:    d.Date.Format(dateLayout),
				Count:   len(d.Entries),
				Mood:    dominantMood(d.Entries),
				Entries: d.Entries,
			}
		}
		return printJSON(out)
	}

	heading(month.Format("January 2006"))
	total := 0
	tbl := newTable()
	for _, d := range days {
		if len(d.Entries) == 0 {
			continue
		}
		total += len(d.Entries)
		titles := make([]string, len(d.Entries))
		for i, en := range d.Entries {
			titles[i] = en.Title
		}
		tbl.AddRow(d.Date.Format("01-02 Mon"), len(d.Entries), moodText(dominantMood(d.Entries)), strings.Join(titles, "; "))
	}
	if total == 0 {
		fmt.Println("No entries this month.")
		return nil
	}
	fmt.Println(tbl)
	fmt.Printf("\n%s on %s\n", plural(total, "entry", "entries"), plural(activeDays(days), "day", "days"))
	return nil
}

func activeDays(days []stats.CalendarDay) int {
	n := 0
	for _, d := range days {
		if len(d.Entries) > 0 {
			n++
		}
	}
	return n
}
