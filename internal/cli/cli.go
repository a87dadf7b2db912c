package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Add              *AddCommand
	Edit             *EditCommand
	Show             *ShowCommand
	Delete           *DeleteCommand
	List             *ListCommand
	Stats            *StatsCommand
	Calendar         *CalendarCommand
	TagsList         *TagsListCommand
	TagsRename       *TagsRenameCommand
	TagsDelete       *TagsDeleteCommand
	CategoriesList   *CategoriesListCommand
	CategoriesAdd    *CategoriesAddCommand
	CategoriesEdit   *CategoriesEditCommand
	CategoriesDelete *CategoriesDeleteCommand
	SettingsShow     *SettingsShowCommand
	SettingsSet      *SettingsSetCommand
	Export           *ExportCommand
	Import           *ImportCommand
	Clear            *ClearCommand
	Status           *StatusCommand
	Tip              *TipCommand
}

// group is the data of a command that only holds subcommands.
type group struct{}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "treehole"
	parser.LongDescription = "A private mood journal: write entries, filter them, and see how you have been feeling."

	b := base{globals: &globals, version: version}
	cmds := &commands{
		Add:              &AddCommand{base: b},
		Edit:             &EditCommand{base: b},
		Show:             &ShowCommand{base: b},
		Delete:           &DeleteCommand{base: b},
		List:             &ListCommand{base: b},
		Stats:            &StatsCommand{base: b},
		Calendar:         &CalendarCommand{base: b},
		TagsList:         &TagsListCommand{base: b},
		TagsRename:       &TagsRenameCommand{base: b},
		TagsDelete:       &TagsDeleteCommand{base: b},
		CategoriesList:   &CategoriesListCommand{base: b},
		CategoriesAdd:    &CategoriesAddCommand{base: b},
		CategoriesEdit:   &CategoriesEditCommand{base: b},
		CategoriesDelete: &CategoriesDeleteCommand{base: b},
		SettingsShow:     &SettingsShowCommand{base: b},
		SettingsSet:      &SettingsSetCommand{base: b},
		Export:           &ExportCommand{base: b},
		Import:           &ImportCommand{base: b},
		Clear:            &ClearCommand{base: b},
		Status:           &StatusCommand{base: b},
		Tip:              &TipCommand{base: b},
	}

	parser.AddCommand("add", "Write a new entry", "Write a new entry. The content is taken from the arguments or --content-file.", cmds.Add)
	parser.AddCommand("edit", "Change an entry", "Change fields of an existing entry. Omitted flags are left unchanged.", cmds.Edit)
	parser.AddCommand("show", "Print an entry", "Print one entry in full, with suggestions for its mood.", cmds.Show)
	parser.AddCommand("delete", "Delete an entry", "Delete one entry.", cmds.Delete)
	parser.AddCommand("list", "List and search entries", "List entries newest first, filtered by text, category, mood, weather, tag and date.", cmds.List)
	parser.AddCommand("stats", "Show mood statistics", "Show mood and weather distribution, daily trend, top tags and mood score for a window.", cmds.Stats)
	parser.AddCommand("calendar", "Show a month of entries", "Show each day of a month with its entries and dominant mood.", cmds.Calendar)

	tags, _ := parser.AddCommand("tags", "Manage tags", "List, rename and delete tags across all entries.", &group{})
	tags.AddCommand("list", "List tags by usage", "List tags by how many entries carry them.", cmds.TagsList)
	tags.AddCommand("rename", "Rename a tag", "Rename a tag on every entry carrying it.", cmds.TagsRename)
	tags.AddCommand("delete", "Delete a tag", "Remove a tag from every entry carrying it.", cmds.TagsDelete)

	categories, _ := parser.AddCommand("categories", "Manage categories", "List, add, edit and delete categories.", &group{})
	categories.AddCommand("list", "List categories", "List categories with their entry counts.", cmds.CategoriesList)
	categories.AddCommand("add", "Add a category", "Add a category.", cmds.CategoriesAdd)
	categories.AddCommand("edit", "Edit a category", "Rename or recolour a category.", cmds.CategoriesEdit)
	categories.AddCommand("delete", "Delete a category", "Delete a category. Its entries are kept and show as unknown category.", cmds.CategoriesDelete)

	settings, _ := parser.AddCommand("settings", "Show or change settings", "Show or change application settings.", &group{})
	settings.AddCommand("show", "Show settings", "Show the current settings.", cmds.SettingsShow)
	settings.AddCommand("set", "Change settings", "Change settings. Omitted flags are left unchanged.", cmds.SettingsSet)

	parser.AddCommand("export", "Export a JSON backup", "Export all entries, categories and settings as JSON.", cmds.Export)
	parser.AddCommand("import", "Import a JSON backup", "Replace all entries and categories with the content of a JSON backup.", cmds.Import)
	parser.AddCommand("clear", "Delete ALL entries", "Delete all entries and restore default categories and settings. Destructive operation with safety prompts.", cmds.Clear)
	parser.AddCommand("status", "Show database statistics", "Show database path, size, entry counts and record count health.", cmds.Status)
	parser.AddCommand("tip", "Show the tip of the day", "Show the tip of the day, and suggestions for a mood.", cmds.Tip)

	return parser, &globals, cmds
}

// Run is the main entry point for the treehole CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("treehole %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
