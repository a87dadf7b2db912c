package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/treehole/internal/storage"
)

// Execute implements the go-flags Commander interface for EditCommand.
func (c *EditCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *EditCommand) patch() (storage.EntryPatch, error) {
	var p storage.EntryPatch
	changed := false
	if c.Title != "" {
		p.Title = &c.Title
		changed = true
	}
	if c.Content != "" {
		p.Content = &c.Content
		changed = true
	}
	if c.Mood != "" {
		m := storage.Mood(c.Mood)
		p.Mood = &m
		changed = true
	}
	if c.Category != "" {
		p.Category = &c.Category
		changed = true
	}
	if c.Weather != "" {
		w := storage.Weather(c.Weather)
		if c.Weather == "none" {
			w = storage.WeatherNone
		}
		p.Weather = &w
		changed = true
	}
	if c.ClearTags {
		empty := []string{}
		p.Tags = &empty
		changed = true
	} else if len(c.Tags) > 0 {
		tags := c.Tags
		p.Tags = &tags
		changed = true
	}
	if c.ClearLocation {
		p.ClearLocation = true
		changed = true
	}
	if c.Location != "" {
		loc, err := parseLocation(c.Location, c.City, "")
		if err != nil {
			return p, err
		}
		p.Location = loc
		changed = true
	}
	if !changed {
		return p, errors.New("nothing to change: pass at least one field flag")
	}
	return p, nil
}

func (c *EditCommand) run(ctx context.Context, e *env, _ []string) error {
	p, err := c.patch()
	if err != nil {
		return err
	}
	entry, err := e.journal.UpdateEntry(ctx, c.Args.ID, p)
	if err != nil {
		return fmt.Errorf("edit entry: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("entry %s: %w", c.Args.ID, storage.ErrNotFound)
	}

	if c.jsonOutput() {
		return printJSON(entry)
	}
	fmt.Printf("Updated entry %s (%s)\n", entry.ID, entry.Title)
	return nil
}
