package exporter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/runnerr0/histexport/internal/csvexport"
	"github.com/runnerr0/histexport/internal/download"
	"github.com/runnerr0/histexport/internal/logger"
	"github.com/runnerr0/histexport/internal/places"
	"github.com/runnerr0/histexport/internal/window"
)

// ErrNoData is returned when the selected window holds no history.
var ErrNoData = errors.New("no history data found for the selected period")

// Exporter runs the export pipeline: window, search, format, save.
type Exporter struct {
	searcher   places.Searcher
	saver      download.Saver
	logger     *slog.Logger
	now        func() time.Time
	maxResults int

	state state
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger used by every stage.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = logger.OrDiscard(l) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithMaxResults sets the cap passed to the history search.
func WithMaxResults(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// New returns an Exporter reading from searcher and handing files to saver.
func New(searcher places.Searcher, saver download.Saver, opts ...Option) *Exporter {
	e := &Exporter{
		searcher:   searcher,
		saver:      saver,
		logger:     logger.Discard(),
		now:        time.Now,
		maxResults: places.DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result describes a finished export.
type Result struct {
	Range     string        `json:"range"`
	Window    window.Window `json:"window"`
	Filename  string        `json:"filename"`
	Path      string        `json:"path"`
	Count     int           `json:"count"`
	Bytes     int           `json:"bytes"`
	Truncated bool          `json:"truncated"`
}

// Export runs the pipeline once for sel. It stops at the first failing
// stage and returns that stage's error unchanged; an empty search result
// returns ErrNoData and nothing is saved.
func (e *Exporter) Export(ctx context.Context, sel window.Selector) (*Result, error) {
	log := e.logger.With("range", sel.String())
	log.Debug("starting export")

	w := window.Compute(sel, e.now())
	log.Debug("searching history",
		"start", w.StartTime().Format(time.RFC3339),
		"end", w.EndTime().Format(time.RFC3339),
		"max_results", e.maxResults,
	)

	items, err := e.searcher.Search(ctx, places.Query{
		Text:       "",
		StartTime:  w.Start,
		EndTime:    w.End,
		MaxResults: e.maxResults,
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoData
	}

	truncated := len(items) >= e.maxResults
	if truncated {
		log.Warn("history truncated at result cap; older entries in the window were dropped",
			"max_results", e.maxResults)
	}

	log.Debug("processing history items", "count", len(items))
	content, err := csvexport.Format(csvexport.FromItems(items))
	if err != nil {
		return nil, err
	}

	filename := window.Filename(sel)
	log.Debug("initiating download", "filename", filename, "content_type", csvexport.ContentType)
	path, err := e.saver.Save(ctx, filename, []byte(content))
	if err != nil {
		return nil, err
	}

	return &Result{
		Range:     sel.String(),
		Window:    w,
		Filename:  filename,
		Path:      path,
		Count:     len(items),
		Bytes:     len(content),
		Truncated: truncated,
	}, nil
}
