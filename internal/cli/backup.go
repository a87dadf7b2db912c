package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/runnerr0/treehole/internal/storage"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *ExportCommand) run(ctx context.Context, e *env, _ []string) error {
	snap, err := e.journal.Export(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if c.Output == "" {
		return storage.EncodeSnapshot(os.Stdout, snap)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	if err := storage.EncodeSnapshot(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	if c.jsonOutput() {
		return printJSON(map[string]any{
			"file":       c.Output,
			"entries":    len(snap.Entries),
			"categories": len(snap.Categories),
		})
	}
	fmt.Printf("Exported %s and %s to %s\n",
		plural(len(snap.Entries), "entry", "entries"),
		plural(len(snap.Categories), "category", "categories"), c.Output)
	return nil
}

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *ImportCommand) run(ctx context.Context, e *env, _ []string) error {
	f, err := os.Open(c.Args.File)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	snap, err := storage.DecodeSnapshot(f)
	if err != nil {
		return err
	}
	if err := e.journal.Import(ctx, snap); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if c.jsonOutput() {
		return printJSON(map[string]any{
			"file":       c.Args.File,
			"entries":    len(snap.Entries),
			"categories": len(snap.Categories),
			"settings":   snap.Settings != nil,
		})
	}
	fmt.Printf("Imported %s and %s from %s\n",
		plural(len(snap.Entries), "entry", "entries"),
		plural(len(snap.Categories), "category", "categories"), c.Args.File)
	return nil
}
