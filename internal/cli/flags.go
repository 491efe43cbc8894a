package cli

import (
	"io"

	"github.com/runnerr0/histexport/internal/places"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ExportCommand exports the history of one time range to CSV.
type ExportCommand struct {
	Range     string `long:"range" short:"r" description:"Time range to export" choice:"today" choice:"1" choice:"7" choice:"30" choice:"90" choice:"365" default:"today"`
	Profile   string `long:"profile" description:"Firefox profile name (default: the default profile)"`
	Places    string `long:"places" description:"Path to a places.sqlite file (overrides --profile)"`
	OutputDir string `long:"output-dir" description:"Directory the CSV file is saved to"`

	globals  *GlobalFlags
	version  string
	searcher places.Searcher // injectable for testing; nil means open the profile database
	notices  io.Writer       // injectable for testing; nil means os.Stderr
}

// ProfilesCommand lists Firefox profiles and their history databases.
type ProfilesCommand struct {
	ProfilesDir string `long:"profiles-dir" description:"Directory containing profiles.ini"`

	globals *GlobalFlags
	version string
}

// RangesCommand lists the accepted time ranges.
type RangesCommand struct {
	globals *GlobalFlags
	version string
}
