package exporter

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/runnerr0/histexport/internal/window"
)

// Notices shown to the user.
const (
	NoDataNotice       = "No history data found for the selected period."
	FailedNoticePrefix = "Failed to export history: "
)

// ErrBusy is returned by HandleClick while another export is running.
var ErrBusy = errors.New("an export is already running")

// Controls is the UI seen by the handler: the export trigger that is
// disabled while an export runs, and a one-shot notice.
type Controls interface {
	Disable()
	Enable()
	Notify(msg string)
}

// state is Idle (false) or Running (true).
type state struct {
	running atomic.Bool
}

// Running reports whether an export is in flight.
func (e *Exporter) Running() bool {
	return e.state.running.Load()
}

// HandleClick reacts to the export trigger: it disables the controls, runs
// Export, reports the outcome through Notify and re-enables the controls
// on every path, including a panicking stage. A click while an export is
// in flight returns ErrBusy and leaves the controls alone.
func (e *Exporter) HandleClick(ctx context.Context, sel window.Selector, c Controls) (res *Result, err error) {
	if !e.state.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.state.running.Store(false)

	c.Disable()
	defer c.Enable()

	res, err = e.guardedExport(ctx, sel)
	switch {
	case errors.Is(err, ErrNoData):
		e.logger.Info("no history in window", "range", sel.String())
		c.Notify(NoDataNotice)
		return nil, err
	case err != nil:
		e.logger.Error("error exporting history", "range", sel.String(), "err", err)
		c.Notify(FailedNoticePrefix + err.Error())
		return nil, err
	}

	e.logger.Info("export completed successfully",
		"range", res.Range, "path", res.Path, "count", res.Count, "truncated", res.Truncated)
	return res, nil
}

// guardedExport turns a panic in any stage into an ordinary error.
func (e *Exporter) guardedExport(ctx context.Context, sel window.Selector) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("export aborted: %v", r)
		}
	}()
	return e.Export(ctx, sel)
}
