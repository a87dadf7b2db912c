package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/treehole/internal/filter"
	"github.com/runnerr0/treehole/internal/storage"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

// criteria applies the command's filters to the journal.
func (c *ListCommand) criteria(e *env) error {
	j := e.journal
	j.ClearFilters()
	j.SetQuery(c.Query)
	j.SetCategory(c.Category)

	if c.Mood != "" {
		m, err := filter.OnlyMood(storage.Mood(c.Mood))
		if err != nil {
			return err
		}
		j.SetMood(m)
	}
	if c.Weather != "" {
		w, err := filter.OnlyWeather(storage.Weather(c.Weather))
		if err != nil {
			return err
		}
		j.SetWeather(w)
	}

	var start, end time.Time
	if c.From != "" {
		from, err := time.ParseInLocation(dateLayout, c.From, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --from value %q: %w", c.From, err)
		}
		start, _ = filter.DayRange(from, from, time.Local)
	}
	if c.To != "" {
		to, err := time.ParseInLocation(dateLayout, c.To, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --to value %q: %w", c.To, err)
		}
		_, end = filter.DayRange(to, to, time.Local)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("--to %s is before --from %s", c.To, c.From)
	}
	j.SetDateRange(start, end)
	return nil
}

type listJSON struct {
	Count   int             `json:"count"`
	Total   int             `json:"total"`
	Entries []storage.Entry `json:"entries"`
}

func (c *ListCommand) run(_ context.Context, e *env, args []string) error {
	if c.Query == "" && len(args) > 0 {
		c.Query = args[0]
	}
	if err := c.criteria(e); err != nil {
		return err
	}

	results := e.journal.Filtered()
	if c.Tag != "" {
		results = filter.ByTag(results, c.Tag)
	}
	total := len(results)
	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}

	if c.jsonOutput() {
		return printJSON(listJSON{Count: len(results), Total: total, Entries: results})
	}
	return c.printHuman(e, results, total)
}

func (c *ListCommand) printHuman(e *env, results []storage.Entry, total int) error {
	if len(results) == 0 {
		if e.journal.Criteria().Active() || c.Tag != "" {
			fmt.Println("No entries match the filters.")
		} else {
			fmt.Println("No entries yet. Write one with: treehole add --mood happy \"...\"")
		}
		return nil
	}

	tbl := newTable()
	tbl.AddRow(bold.Sprint("DATE"), bold.Sprint("MOOD"), bold.Sprint("CATEGORY"), bold.Sprint("TITLE"), bold.Sprint("ID"))
	for _, en := range results {
		tbl.AddRow(localTime(en.CreatedAt), moodText(en.Mood), e.journal.CategoryName(en.Category), en.Title, faint.Sprint(en.ID))
	}
	fmt.Println(tbl)

	if total > len(results) {
		fmt.Printf("\nShowing %d of %d entries.\n", len(results), total)
	} else {
		fmt.Printf("\n%s\n", plural(total, "entry", "entries"))
	}
	return nil
}
