package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *DeleteCommand) run(ctx context.Context, e *env, _ []string) error {
	deleted, err := e.journal.DeleteEntry(ctx, c.Args.ID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if c.jsonOutput() {
		return printJSON(map[string]any{"id": c.Args.ID, "deleted": deleted})
	}
	if !deleted {
		fmt.Printf("No entry %s, nothing deleted.\n", c.Args.ID)
		return nil
	}
	fmt.Printf("Deleted entry %s\n", c.Args.ID)
	return nil
}
