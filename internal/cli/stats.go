package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/treehole/internal/stats"
	"github.com/runnerr0/treehole/internal/storage"
)

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *StatsCommand) run(_ context.Context, e *env, _ []string) error {
	name := c.Window
	if name == "" {
		name = e.cfg.Stats.DefaultWindow
	}
	w, err := stats.ParseWindow(name)
	if err != nil {
		return err
	}

	summary := stats.Summarize(e.journal.Entries(), w, e.now(), e.cfg.Stats.TopTags)
	if c.jsonOutput() {
		return printJSON(summary)
	}
	printSummary(summary)
	return nil
}

func printSummary(s stats.Summary) {
	heading(fmt.Sprintf("Mood statistics (%s)", s.Window))
	if s.WindowStart != nil {
		fmt.Printf("Since:       %s\n", s.WindowStart.Format(dateLayout))
	}
	fmt.Printf("Entries:     %d\n", s.Total)
	if s.Total == 0 {
		return
	}
	fmt.Printf("Top mood:    %s\n", moodText(s.TopMood))
	fmt.Printf("Mood score:  %.1f / 5\n", s.MoodScore)

	fmt.Println()
	fmt.Println(bold.Sprint("Moods"))
	tbl := newTable()
	for _, m := range s.Moods {
		tbl.AddRow(moodText(m.Mood), bar(m.Percentage), fmt.Sprintf("%d%%", m.Percentage), m.Count)
	}
	fmt.Println(tbl)

	fmt.Println()
	fmt.Println(bold.Sprint("Weather"))
	tbl = newTable()
	for _, w := range s.Weather {
		tbl.AddRow(weatherText(w.Weather), bar(w.Percentage), fmt.Sprintf("%d%%", w.Percentage), w.Count)
	}
	fmt.Println(tbl)

	fmt.Println()
	fmt.Println(bold.Sprint("Daily"))
	tbl = newTable()
	for _, d := range s.Daily {
		tbl.AddRow(d.Date, d.Count, moodText(d.Mood))
	}
	fmt.Println(tbl)

	if len(s.Tags) > 0 {
		fmt.Println()
		fmt.Println(bold.Sprint("Top tags"))
		tbl = newTable()
		for i, t := range s.Tags {
			tbl.AddRow(fmt.Sprintf("%d.", i+1), "#"+t.Tag, t.Count)
		}
		fmt.Println(tbl)
	}
}

// dominantMood is the most frequent mood of a day, or "" for an empty day.
func dominantMood(entries []storage.Entry) storage.Mood {
	m, _ := stats.MostFrequentMood(entries)
	return m
}
