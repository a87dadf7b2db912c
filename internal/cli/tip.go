package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/treehole/internal/provider"
	"github.com/runnerr0/treehole/internal/storage"
)

// Execute implements the go-flags Commander interface for TipCommand. It
// needs no database.
func (c *TipCommand) Execute(args []string) error {
	return c.run(context.Background(), &env{now: time.Now}, args)
}

func (c *TipCommand) run(_ context.Context, e *env, _ []string) error {
	var tips provider.TipProvider = provider.NewDailyTips()
	tip := tips.Tip(e.now())

	var suggestions []string
	if c.Mood != "" {
		m := storage.Mood(c.Mood)
		if !m.Valid() {
			return fmt.Errorf("unknown mood %q", c.Mood)
		}
		suggestions = provider.Suggestions(m)
	}

	if c.jsonOutput() {
		return printJSON(map[string]any{
			"date":        e.now().Format(dateLayout),
			"tip":         tip,
			"suggestions": suggestions,
		})
	}
	fmt.Println(bold.Sprint("Tip of the day"))
	fmt.Println("  " + tip)
	if len(suggestions) > 0 {
		fmt.Println()
		fmt.Println(bold.Sprint("Suggestions for " + moodText(storage.Mood(c.Mood))))
		for _, s := range suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	return nil
}
