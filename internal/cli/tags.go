package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/treehole/internal/stats"
)

// Execute implements the go-flags Commander interface for TagsListCommand.
func (c *TagsListCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *TagsListCommand) run(_ context.Context, e *env, _ []string) error {
	usages := stats.TagUsages(e.journal.Entries(), c.Search)
	if c.jsonOutput() {
		return printJSON(usages)
	}
	if len(usages) == 0 {
		fmt.Println("No tags found.")
		return nil
	}
	tbl := newTable()
	tbl.AddRow(bold.Sprint("TAG"), bold.Sprint("ENTRIES"), bold.Sprint("LAST USED"))
	for _, u := range usages {
		tbl.AddRow("#"+u.Tag, u.Count, localTime(u.LastUsed))
	}
	fmt.Println(tbl)
	return nil
}

// Execute implements the go-flags Commander interface for TagsRenameCommand.
func (c *TagsRenameCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *TagsRenameCommand) run(ctx context.Context, e *env, _ []string) error {
	n, err := e.journal.RenameTag(ctx, c.Args.From, c.Args.To)
	if err != nil {
		return fmt.Errorf("rename tag: %w", err)
	}
	if c.jsonOutput() {
		return printJSON(map[string]any{"from": c.Args.From, "to": c.Args.To, "entries": n})
	}
	fmt.Printf("Renamed #%s to #%s on %s\n", c.Args.From, c.Args.To, plural(n, "entry", "entries"))
	return nil
}

// Execute implements the go-flags Commander interface for TagsDeleteCommand.
func (c *TagsDeleteCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *TagsDeleteCommand) run(ctx context.Context, e *env, _ []string) error {
	n, err := e.journal.DeleteTag(ctx, c.Args.Tag)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if c.jsonOutput() {
		return printJSON(map[string]any{"tag": c.Args.Tag, "entries": n})
	}
	fmt.Printf("Removed #%s from %s\n", c.Args.Tag, plural(n, "entry", "entries"))
	return nil
}
