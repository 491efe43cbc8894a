package cli

import (
	"errors"
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// ReportedError wraps an error the user has already been shown as a
// notice, so the caller must not print it again.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }
func (e *ReportedError) Unwrap() error { return e.Err }

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var rep *ReportedError
	return errors.As(err, &rep)
}

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Export   *ExportCommand
	Profiles *ProfilesCommand
	Ranges   *RangesCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	// Errors are returned, not printed: export failures are shown once as a notice.
	parser := goflags.NewParser(&globals, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "histexport"
	parser.LongDescription = "Export Firefox browsing history for a time range to a CSV file."

	cmds := &commands{
		Export:   &ExportCommand{globals: &globals, version: version},
		Profiles: &ProfilesCommand{globals: &globals, version: version},
		Ranges:   &RangesCommand{globals: &globals, version: version},
	}

	parser.AddCommand("export", "Export history to CSV", "Export the history of a Firefox profile for the selected time range to a CSV file in the download directory.", cmds.Export)
	parser.AddCommand("profiles", "List Firefox profiles", "List the Firefox profiles found in profiles.ini and their history databases.", cmds.Profiles)
	parser.AddCommand("ranges", "List the time ranges", "List the time ranges export accepts and the file each produces.", cmds.Ranges)

	return parser, &globals, cmds
}

// Run is the main entry point for the histexport CLI using os.Args.
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
			fmt.Printf("histexport %s\n", version)
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
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			fmt.Println(flagsErr.Message)
			return nil
		}
		return err
	}

	return nil
}
