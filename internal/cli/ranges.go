package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/histexport/internal/window"
)

type rangeJSON struct {
	Range    string `json:"range"`
	Label    string `json:"label"`
	Filename string `json:"filename"`
}

// Execute implements the go-flags Commander interface for RangesCommand.
func (c *RangesCommand) Execute(args []string) error {
	out := make([]rangeJSON, len(window.Presets))
	for i, sel := range window.Presets {
		out[i] = rangeJSON{Range: sel.String(), Label: rangeLabel(sel.String()), Filename: window.Filename(sel)}
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, r := range out {
		fmt.Printf("%-6s %-13s %s\n", r.Range, r.Label, r.Filename)
	}
	return nil
}
