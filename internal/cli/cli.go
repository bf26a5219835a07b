// Package cli implements the pickquote command-line interface.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Add     *AddCommand
	Show    *ShowCommand
	Rm      *RmCommand
	Recent  *RecentCommand
	Search  *SearchCommand
	Export  *ExportCommand
	CatAdd  *CatAddCommand
	CatList *CatListCommand
	CatRm   *CatRmCommand
	Status  *StatusCommand
	Purge   *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "pickquote"
	parser.LongDescription = "Capture, search, and export text, images, links, and page snapshots from the web."

	cmds := &commands{
		Add:     &AddCommand{globals: &globals, version: version},
		Show:    &ShowCommand{globals: &globals, version: version},
		Rm:      &RmCommand{globals: &globals, version: version},
		Recent:  &RecentCommand{globals: &globals, version: version},
		Search:  &SearchCommand{globals: &globals, version: version},
		Export:  &ExportCommand{globals: &globals, version: version},
		CatAdd:  &CatAddCommand{globals: &globals, version: version},
		CatList: &CatListCommand{globals: &globals, version: version},
		CatRm:   &CatRmCommand{globals: &globals, version: version},
		Status:  &StatusCommand{globals: &globals, version: version},
		Purge:   &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("add", "Capture an item", "Capture a text/image/link/snapshot item into the store.", cmds.Add)
	parser.AddCommand("show", "Print a single item", "Print the full stored record of a specific item.", cmds.Show)
	parser.AddCommand("rm", "Delete an item", "Delete an item by id. Removing a missing id is a no-op.", cmds.Rm)
	parser.AddCommand("recent", "List recent captures", "List the most recently captured items, newest first.", cmds.Recent)
	parser.AddCommand("search", "Search captured items", "Search captured items by keyword, with optional filters.", cmds.Search)
	parser.AddCommand("export", "Export all items to a zip bundle", "Bundle every item into a zip archive with extracted image assets.", cmds.Export)
	parser.AddCommand("cat-add", "Create or rename a category", "Insert or replace a category keyed by id.", cmds.CatAdd)
	parser.AddCommand("cat-list", "List categories", "List all categories.", cmds.CatList)
	parser.AddCommand("cat-rm", "Delete a category", "Delete a category. Items referencing it are left untouched.", cmds.CatRm)
	parser.AddCommand("status", "Show database statistics", "Show item counts, time range, and top source sites.", cmds.Status)
	parser.AddCommand("purge", "Delete ALL captured data", "Delete ALL captured data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the pickquote CLI using os.Args.
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
			fmt.Printf("pickquote %s\n", version)
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
