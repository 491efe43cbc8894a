package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/histexport/internal/config"
	"github.com/runnerr0/histexport/internal/download"
	"github.com/runnerr0/histexport/internal/exporter"
	"github.com/runnerr0/histexport/internal/places"
	"github.com/runnerr0/histexport/internal/window"
)

// terminalControls adapts the exporter's Controls to a terminal: there is
// no button to grey out, so state changes are only logged, and notices go
// to the notice writer.
type terminalControls struct {
	log     *slog.Logger
	notices io.Writer
}

func (t *terminalControls) Disable() { t.log.Debug("export trigger disabled") }
func (t *terminalControls) Enable()  { t.log.Debug("export trigger enabled") }

func (t *terminalControls) Notify(msg string) {
	fmt.Fprintln(t.notices, msg)
}

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	verbose := c.globals != nil && c.globals.Verbose
	log, closeLog, err := buildLogger(cfg, verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	searcher := c.searcher
	if searcher == nil {
		path, err := resolvePlacesPath(cfg, c.Places, c.Profile)
		if err != nil {
			return err
		}
		log.Debug("using places database", "path", path)
		searcher = places.File{Path: path}
	}

	return c.executeWithSearcher(searcher, cfg, log)
}

// executeWithSearcher runs the export against a provided searcher (for testing).
func (c *ExportCommand) executeWithSearcher(searcher places.Searcher, cfg *config.Config, log *slog.Logger) error {
	sel, err := window.ParseSelector(c.Range)
	if err != nil {
		return err
	}

	dir, err := outputDir(cfg, c.OutputDir)
	if err != nil {
		return err
	}

	exp := exporter.New(searcher, download.NewFileSaver(dir),
		exporter.WithLogger(log),
		exporter.WithMaxResults(cfg.Export.MaxResults),
	)
	controls := &terminalControls{log: log, notices: noticeWriter(c.notices)}

	res, err := exp.HandleClick(context.Background(), sel, controls)
	if errors.Is(err, exporter.ErrNoData) {
		return nil
	}
	if err != nil {
		return &ReportedError{Err: err}
	}

	if c.globals != nil && c.globals.JSON {
		return printExportJSON(res)
	}
	printExportHuman(res, cfg.Export.MaxResults)
	return nil
}

func printExportHuman(res *exporter.Result, maxResults int) {
	entryWord := "entries"
	if res.Count == 1 {
		entryWord = "entry"
	}
	fmt.Printf("Exported %s history %s (%s) to %s (%s)\n",
		humanize.Comma(int64(res.Count)), entryWord, rangeLabel(res.Range), res.Path,
		humanize.Bytes(uint64(res.Bytes)))

	if res.Truncated {
		fmt.Printf("Warning: the %s entry cap was reached; older history in this range was not exported.\n",
			humanize.Comma(int64(maxResults)))
	}
}

func printExportJSON(res *exporter.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// rangeLabel renders a selector string for people: "today", "last 7 days".
func rangeLabel(r string) string {
	sel, err := window.ParseSelector(r)
	if err != nil || sel.IsToday() {
		return r
	}
	if sel.DayCount() == 1 {
		return "last day"
	}
	return fmt.Sprintf("last %d days", sel.DayCount())
}
