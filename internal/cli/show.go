package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/treehole/internal/provider"
	"github.com/runnerr0/treehole/internal/storage"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

type showJSON struct {
	storage.Entry
	CategoryName string   `json:"categoryName"`
	Edited       bool     `json:"edited"`
	Suggestions  []string `json:"suggestions"`
}

func (c *ShowCommand) run(ctx context.Context, e *env, _ []string) error {
	entry, err := e.journal.GetEntry(ctx, c.Args.ID)
	if err != nil {
		return fmt.Errorf("show entry: %w", err)
	}
	categoryName := e.journal.CategoryName(entry.Category)

	if c.jsonOutput() {
		return printJSON(showJSON{
			Entry:        *entry,
			CategoryName: categoryName,
			Edited:       entry.Edited(),
			Suggestions:  provider.Suggestions(entry.Mood),
		})
	}

	fmt.Println(bold.Sprint(entry.Title))
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("ID:        %s\n", entry.ID)
	fmt.Printf("Created:   %s\n", localTime(entry.CreatedAt))
	if entry.Edited() {
		fmt.Printf("Edited:    %s\n", localTime(entry.UpdatedAt))
	}
	fmt.Printf("Mood:      %s\n", moodText(entry.Mood))
	fmt.Printf("Category:  %s\n", categoryName)
	fmt.Printf("Weather:   %s\n", weatherText(entry.Weather))
	if loc := entry.Location; loc != nil {
		place := fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude)
		if loc.City != "" {
			place = loc.City + " (" + place + ")"
		}
		fmt.Printf("Location:  %s\n", place)
	}
	if len(entry.Tags) > 0 {
		fmt.Printf("Tags:      #%s\n", strings.Join(entry.Tags, " #"))
	}
	if len(entry.Images) > 0 {
		fmt.Printf("Images:    %d\n", len(entry.Images))
	}
	fmt.Println()
	fmt.Println(entry.Content)
	printSuggestions(entry.Mood)
	return nil
}
