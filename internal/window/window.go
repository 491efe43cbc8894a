package window

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayMillis is the length of one day in epoch milliseconds.
const DayMillis int64 = 24 * 60 * 60 * 1000

// ErrInvalidSelector is returned when a range selection is neither "today"
// nor a positive day count.
var ErrInvalidSelector = errors.New("invalid time range selection")

// Selector is a user's range choice: the current calendar day, or the last
// N days. The zero value selects today.
type Selector struct {
	days int
}

// Today selects the current local calendar day.
var Today = Selector{}

// Days selects the last n days counted back from the moment of export.
func Days(n int) Selector {
	return Selector{days: n}
}

// Presets are the range choices offered to the user.
var Presets = []Selector{Today, Days(1), Days(7), Days(30), Days(90), Days(365)}

// IsToday reports whether the selector is the "today" choice.
func (s Selector) IsToday() bool { return s.days == 0 }

// DayCount returns N for a Days(N) selector and 0 for Today.
func (s Selector) DayCount() int { return s.days }

// String returns the selector in the form ParseSelector accepts.
func (s Selector) String() string {
	if s.IsToday() {
		return "today"
	}
	return strconv.Itoa(s.days)
}

// ParseSelector parses "today" or a positive decimal day count.
func ParseSelector(v string) (Selector, error) {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "today") {
		return Today, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return Selector{}, fmt.Errorf("%w: %q (use \"today\" or a day count)", ErrInvalidSelector, v)
	}
	return Days(n), nil
}

// Window is a pair of epoch-millisecond bounds with Start <= End.
type Window struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// StartTime returns Start as a local time.Time.
func (w Window) StartTime() time.Time { return time.UnixMilli(w.Start) }

// EndTime returns End as a local time.Time.
func (w Window) EndTime() time.Time { return time.UnixMilli(w.End) }

// Compute turns a selection into a window ending at now. Today starts at
// local midnight of now's calendar day; Days(n) starts n*24h before now.
func Compute(sel Selector, now time.Time) Window {
	end := now.UnixMilli()
	if sel.IsToday() {
		y, m, d := now.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		return Window{Start: midnight.UnixMilli(), End: end}
	}
	return Window{Start: end - int64(sel.days)*DayMillis, End: end}
}

// Filename is the name of the CSV file produced for a selection.
func Filename(sel Selector) string {
	if sel.IsToday() {
		return "firefox_history_today.csv"
	}
	return fmt.Sprintf("firefox_history_%d_days.csv", sel.days)
}
