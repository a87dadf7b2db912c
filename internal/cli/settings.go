package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/treehole/internal/storage"
)

// Execute implements the go-flags Commander interface for SettingsShowCommand.
func (c *SettingsShowCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *SettingsShowCommand) run(_ context.Context, e *env, _ []string) error {
	s, ok := e.journal.Settings()
	if !ok {
		s = storage.DefaultSettings()
	}
	if c.jsonOutput() {
		return printJSON(s)
	}
	printSettings(e, s)
	return nil
}

func printSettings(e *env, s storage.Settings) {
	tbl := newTable()
	tbl.AddRow("Theme", s.Theme)
	tbl.AddRow("Font size", s.FontSize)
	tbl.AddRow("Notifications", onOff(s.EnableNotifications))
	tbl.AddRow("Location", onOff(s.EnableLocation))
	tbl.AddRow("Weather", onOff(s.EnableWeather))
	def := "-"
	if s.DefaultCategory != "" {
		def = fmt.Sprintf("%s (%s)", e.journal.CategoryName(s.DefaultCategory), s.DefaultCategory)
	}
	tbl.AddRow("Default category", def)
	fmt.Println(tbl)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseOnOff(flag, v string) (*bool, error) {
	switch v {
	case "":
		return nil, nil
	case "on", "true", "yes":
		b := true
		return &b, nil
	case "off", "false", "no":
		b := false
		return &b, nil
	}
	return nil, fmt.Errorf("invalid --%s value %q: want on or off", flag, v)
}

// Execute implements the go-flags Commander interface for SettingsSetCommand.
func (c *SettingsSetCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *SettingsSetCommand) patch() (storage.SettingsPatch, error) {
	var p storage.SettingsPatch
	var err error
	if c.Theme != "" {
		t := storage.Theme(c.Theme)
		p.Theme = &t
	}
	if c.FontSize != "" {
		f := storage.FontSize(c.FontSize)
		p.FontSize = &f
	}
	if p.EnableNotifications, err = parseOnOff("notifications", c.Notifications); err != nil {
		return p, err
	}
	if p.EnableLocation, err = parseOnOff("location", c.Location); err != nil {
		return p, err
	}
	if p.EnableWeather, err = parseOnOff("weather", c.Weather); err != nil {
		return p, err
	}
	if c.DefaultCategory != "" {
		p.DefaultCategory = &c.DefaultCategory
	}
	if p == (storage.SettingsPatch{}) {
		return p, errors.New("nothing to change: pass at least one setting flag")
	}
	return p, nil
}

func (c *SettingsSetCommand) run(ctx context.Context, e *env, _ []string) error {
	p, err := c.patch()
	if err != nil {
		return err
	}
	if p.DefaultCategory != nil {
		if _, ok := e.journal.Category(*p.DefaultCategory); !ok {
			return fmt.Errorf("default category %s: %w", *p.DefaultCategory, storage.ErrNotFound)
		}
	}
	s, err := e.journal.UpdateSettings(ctx, p)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if c.jsonOutput() {
		return printJSON(s)
	}
	fmt.Println("Settings updated.")
	printSettings(e, s)
	return nil
}
