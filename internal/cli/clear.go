package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// setInput allows tests to inject confirmation input.
func (c *ClearCommand) setInput(r io.Reader) {
	c.in = r
}

// Execute implements the go-flags Commander interface for ClearCommand.
func (c *ClearCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("clear requires --all flag for safety")
	}
	return execute(c.globals, c, args)
}

// confirm asks twice. Both answers must match exactly.
func (c *ClearCommand) confirm(entries int) error {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	scanner := bufio.NewScanner(in)

	fmt.Println("⚠ WARNING: This will permanently delete ALL treehole data.")
	fmt.Printf("  - All %s\n", plural(entries, "entry", "entries"))
	fmt.Println("  - Custom categories")
	fmt.Println("  - Settings")
	fmt.Println()
	fmt.Println("This action cannot be undone.")
	fmt.Println()
	fmt.Print(`Type "CLEAR" to confirm: `)
	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	if strings.TrimSpace(scanner.Text()) != "CLEAR" {
		return fmt.Errorf("aborted: confirmation text did not match")
	}

	fmt.Print("Are you absolutely sure? [y/N]: ")
	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return nil
	}
	return fmt.Errorf("aborted")
}

func (c *ClearCommand) run(ctx context.Context, e *env, _ []string) error {
	if !c.All {
		return fmt.Errorf("clear requires --all flag for safety")
	}
	if !c.Force {
		if err := c.confirm(len(e.journal.Entries())); err != nil {
			return err
		}
	}

	if err := e.journal.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	if c.jsonOutput() {
		return printJSON(map[string]any{
			"cleared": true,
			"message": "all data deleted",
		})
	}
	fmt.Println("Cleared all data. Default categories and settings restored.")
	return nil
}
