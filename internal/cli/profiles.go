package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/histexport/internal/firefox"
)

type profileJSON struct {
	Name           string `json:"name"`
	Path           string `json:"path"`
	Default        bool   `json:"default"`
	PlacesPath     string `json:"places_path"`
	PlacesSize     int64  `json:"places_size_bytes"`
	PlacesModified string `json:"places_modified,omitempty"`
}

// Execute implements the go-flags Commander interface for ProfilesCommand.
func (c *ProfilesCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	root, err := profilesRoot(c.ProfilesDir, cfg)
	if err != nil {
		return err
	}

	profiles, err := firefox.Discover(root)
	if err != nil {
		return err
	}

	out := make([]profileJSON, len(profiles))
	for i, p := range profiles {
		out[i] = profileJSON{
			Name:       p.Name,
			Path:       p.Path,
			Default:    p.Default,
			PlacesPath: p.PlacesPath(),
		}
		if info, err := os.Stat(p.PlacesPath()); err == nil {
			out[i].PlacesSize = info.Size()
			out[i].PlacesModified = info.ModTime().UTC().Format(time.RFC3339)
		}
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Firefox profiles in %s\n\n", root)
	for _, p := range out {
		marker := " "
		if p.Default {
			marker = "*"
		}
		fmt.Printf("%s %-20s %s\n", marker, p.Name, p.Path)

		if p.PlacesModified == "" {
			fmt.Println("    history: not found")
			continue
		}
		modified, _ := time.Parse(time.RFC3339, p.PlacesModified)
		fmt.Printf("    history: %s, updated %s\n",
			humanize.Bytes(uint64(p.PlacesSize)), humanize.Time(modified))
	}

	return nil
}
