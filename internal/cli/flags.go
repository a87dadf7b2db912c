package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DB      string `long:"db" description:"Path to the SQLite database (overrides config)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// base is embedded by every subcommand.
type base struct {
	globals *GlobalFlags
	version string
}

// AddCommand writes a new entry. The content is the positional arguments.
type AddCommand struct {
	Title       string   `long:"title" description:"Entry title (generated from content when empty)"`
	Mood        string   `long:"mood" short:"m" description:"Mood: happy, sad, angry, calm, excited, tired, anxious, grateful" required:"true"`
	Category    string   `long:"category" short:"c" description:"Category id (defaults to the configured default category)"`
	Weather     string   `long:"weather" description:"Weather: sunny, cloudy, rainy, snowy, windy, foggy"`
	Condition   string   `long:"condition" description:"Weather service condition (Clear, Clouds, Rain, ...) mapped to a weather value"`
	Tags        []string `long:"tag" short:"t" description:"Tag (repeatable)"`
	Images      []string `long:"image" description:"Path to a PNG or JPEG image to attach (repeatable)"`
	Location    string   `long:"location" description:"Coordinates as lat,lon"`
	City        string   `long:"city" description:"City name for the location"`
	Address     string   `long:"address" description:"Address for the location"`
	ContentFile string   `long:"content-file" description:"Read content from file"`

	base `no-flag:"true"`
}

// EditCommand updates fields of an existing entry. Omitted flags leave
// the field unchanged.
type EditCommand struct {
	Title         string   `long:"title" description:"New title"`
	Content       string   `long:"content" description:"New content"`
	Mood          string   `long:"mood" short:"m" description:"New mood"`
	Category      string   `long:"category" short:"c" description:"New category id"`
	Weather       string   `long:"weather" description:"New weather, or \"none\" to clear it"`
	Tags          []string `long:"tag" short:"t" description:"Replace tags (repeatable)"`
	ClearTags     bool     `long:"clear-tags" description:"Remove all tags"`
	Location      string   `long:"location" description:"New coordinates as lat,lon"`
	City          string   `long:"city" description:"City name for the new location"`
	ClearLocation bool     `long:"clear-location" description:"Remove the location"`

	Args struct {
		ID string `positional-arg-name:"id" required:"true"`
	} `positional-args:"true"`

	base `no-flag:"true"`
}

// ShowCommand prints one entry in full.
type ShowCommand struct {
	Args struct {
		ID string `positional-arg-name:"id" required:"true"`
	} `positional-args:"true"`

	base `no-flag:"true"`
}

// DeleteCommand removes one entry.
type DeleteCommand struct {
	Args struct {
		ID string `positional-arg-name:"id" required:"true"`
	} `positional-args:"true"`

	base `no-flag:"true"`
}

// ListCommand lists entries matching the given filters, newest first.
type ListCommand struct {
	Query    string `long:"query" short:"q" description:"Case-insensitive text in title, content or tags"`
	Category string `long:"category" short:"c" description:"Only entries in this category id"`
	Mood     string `long:"mood" short:"m" description:"Only entries with this mood"`
	Weather  string `long:"weather" description:"Only entries with this weather"`
	Tag      string `long:"tag" short:"t" description:"Only entries carrying this exact tag"`
	From     string `long:"from" description:"First day to include (YYYY-MM-DD)"`
	To       string `long:"to" description:"Last day to include (YYYY-MM-DD)"`
	Limit    int    `long:"limit" description:"Maximum results (0 for all)" default:"20"`

	base `no-flag:"true"`
}

// StatsCommand prints mood, weather, trend and tag statistics.
type StatsCommand struct {
	Window string `long:"window" short:"w" description:"Time window: week, month or all (default from config)"`

	base `no-flag:"true"`
}

// CalendarCommand prints one month with the entries of each day.
type CalendarCommand struct {
	Month string `long:"month" description:"Month to show (YYYY-MM, default current)"`

	base `no-flag:"true"`
}

// TagsListCommand lists tags by usage.
type TagsListCommand struct {
	Search string `long:"search" short:"s" description:"Only tags containing this text"`

	base `no-flag:"true"`
}

// TagsRenameCommand renames a tag on every entry.
type TagsRenameCommand struct {
	Args struct {
		From string `positional-arg-name:"from" required:"true"`
		To   string `positional-arg-name:"to" required:"true"`
	} `positional-args:"true"`

	base `no-flag:"true"`
}

// TagsDeleteCommand removes a tag from every entry.
type TagsDeleteCommand struct {
	Args struct {
		Tag string `positional-arg-name:"tag" required:"true"`
	} `positional-args:"true"`

	base `no-flag:"true"`
}

// CategoriesListCommand lists categories with their entry counts.
type CategoriesListCommand struct {
	base `no-flag:"true"`
}

// CategoriesAddCommand creates a category.
type CategoriesAddCommand struct {
	Color string `long:"color" description:"Colour as #RRGGBB"`

	Args struct {
		Name string `positional-arg-name:"name" required:"true"`
	} `positional-args:"true"`

	base `no-flag:"true"`
}

// CategoriesEditCommand renames or recolours a category.
type CategoriesEditCommand struct {
	Name  string `long:"name" description:"New name"`
	Color string `long:"color" description:"New colour as #RRGGBB"`

	Args struct {
		ID string `positional-arg-name:"id" required:"true"`
	} `positional-args:"true"`

	base `no-flag:"true"`
}

// CategoriesDeleteCommand removes a category. Its entries are kept.
type CategoriesDeleteCommand struct {
	Args struct {
		ID string `positional-arg-name:"id" required:"true"`
	} `positional-args:"true"`

	base `no-flag:"true"`
}

// SettingsShowCommand prints the settings.
type SettingsShowCommand struct {
	base `no-flag:"true"`
}

// SettingsSetCommand changes settings. Omitted flags are left unchanged.
type SettingsSetCommand struct {
	Theme           string `long:"theme" description:"light, dark or auto"`
	FontSize        string `long:"font-size" description:"small, medium or large"`
	Notifications   string `long:"notifications" description:"on or off"`
	Location        string `long:"location" description:"on or off"`
	Weather         string `long:"weather" description:"on or off"`
	DefaultCategory string `long:"default-category" description:"Category id preselected for new entries"`

	base `no-flag:"true"`
}

// ExportCommand writes a JSON backup.
type ExportCommand struct {
	Output string `long:"output" short:"o" description:"Write to file instead of stdout"`

	base `no-flag:"true"`
}

// ImportCommand replaces all data with a JSON backup.
type ImportCommand struct {
	Args struct {
		File string `positional-arg-name:"file" required:"true"`
	} `positional-args:"true"`

	base `no-flag:"true"`
}

// ClearCommand deletes all entries and restores the default categories and
// settings, after two confirmations.
type ClearCommand struct {
	All   bool `long:"all" description:"Required flag to confirm clear intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompts"`

	base `no-flag:"true"`
	in io.Reader // injectable for testing; nil means os.Stdin
}

// StatusCommand shows database statistics and record count health.
type StatusCommand struct {
	base `no-flag:"true"`
}

// TipCommand prints the tip of the day and suggestions for a mood.
type TipCommand struct {
	Mood string `long:"mood" short:"m" description:"Also print suggestions for this mood"`

	base `no-flag:"true"`
}

func (b base) jsonOutput() bool {
	return b.globals != nil && b.globals.JSON
}
