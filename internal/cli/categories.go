package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/treehole/internal/storage"
)

// Execute implements the go-flags Commander interface for CategoriesListCommand.
func (c *CategoriesListCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *CategoriesListCommand) run(_ context.Context, e *env, _ []string) error {
	categories := e.journal.Categories()
	if c.jsonOutput() {
		return printJSON(categories)
	}
	tbl := newTable()
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("NAME"), bold.Sprint("COLOR"), bold.Sprint("ENTRIES"))
	for _, cat := range categories {
		tbl.AddRow(cat.ID, cat.Name, cat.Color, cat.RecordCount)
	}
	fmt.Println(tbl)
	return nil
}

// Execute implements the go-flags Commander interface for CategoriesAddCommand.
func (c *CategoriesAddCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *CategoriesAddCommand) run(ctx context.Context, e *env, _ []string) error {
	cat, err := e.journal.CreateCategory(ctx, c.Args.Name, c.Color)
	if err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	if c.jsonOutput() {
		return printJSON(cat)
	}
	fmt.Printf("Created category %s (%s)\n", cat.Name, cat.ID)
	return nil
}

// Execute implements the go-flags Commander interface for CategoriesEditCommand.
func (c *CategoriesEditCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *CategoriesEditCommand) run(ctx context.Context, e *env, _ []string) error {
	var p storage.CategoryPatch
	if c.Name != "" {
		p.Name = &c.Name
	}
	if c.Color != "" {
		p.Color = &c.Color
	}
	if p.Name == nil && p.Color == nil {
		return errors.New("nothing to change: pass --name or --color")
	}
	cat, err := e.journal.UpdateCategory(ctx, c.Args.ID, p)
	if err != nil {
		return fmt.Errorf("edit category: %w", err)
	}
	if cat == nil {
		return fmt.Errorf("category %s: %w", c.Args.ID, storage.ErrNotFound)
	}
	if c.jsonOutput() {
		return printJSON(cat)
	}
	fmt.Printf("Updated category %s (%s)\n", cat.Name, cat.ID)
	return nil
}

// Execute implements the go-flags Commander interface for CategoriesDeleteCommand.
func (c *CategoriesDeleteCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *CategoriesDeleteCommand) run(ctx context.Context, e *env, _ []string) error {
	cat, known := e.journal.Category(c.Args.ID)
	deleted, err := e.journal.DeleteCategory(ctx, c.Args.ID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if c.jsonOutput() {
		return printJSON(map[string]any{"id": c.Args.ID, "deleted": deleted})
	}
	if !deleted {
		fmt.Printf("No category %s, nothing deleted.\n", c.Args.ID)
		return nil
	}
	fmt.Printf("Deleted category %s\n", c.Args.ID)
	if known && cat.RecordCount > 0 {
		fmt.Printf("%s keep their category id and now show as %q.\n",
			plural(cat.RecordCount, "entry", "entries"), "unknown category")
	}
	return nil
}
