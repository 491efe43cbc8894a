package csvexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/histexport/internal/places"
)

// ContentType is the media type of the produced document.
const ContentType = "text/csv; charset=utf-8"

// DateTimeLayout renders visit times as ISO-8601 UTC with milliseconds.
const DateTimeLayout = "2006-01-02T15:04:05.000Z"

// ErrInvalidInput is returned by Format for an absent or empty record list.
var ErrInvalidInput = errors.New("invalid data format for CSV conversion")

// Header is the fixed column list, in output order.
var Header = []string{"DateTime", "NavigatedToUrl", "PageTitle"}

// Record is the flat, CSV-ready projection of a history item.
type Record struct {
	DateTime       string `json:"DateTime"`
	NavigatedToUrl string `json:"NavigatedToUrl"`
	PageTitle      string `json:"PageTitle"`
}

func (r Record) fields() []string {
	return []string{r.DateTime, r.NavigatedToUrl, r.PageTitle}
}

// FromItem maps a history item to a Record.
func FromItem(item places.Item) Record {
	return Record{
		DateTime:       time.UnixMilli(item.LastVisitTime).UTC().Format(DateTimeLayout),
		NavigatedToUrl: item.URL,
		PageTitle:      item.Title,
	}
}

// FromItems maps items in order.
func FromItems(items []places.Item) []Record {
	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = FromItem(item)
	}
	return records
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// Format serializes records as CSV: the header row, then one row per
// record in input order, rows separated by "\n" with no trailing newline.
// Carriage returns and line feeds are removed from every field. Fields
// holding a comma or a double quote are quoted per RFC 4180.
func Format(records []Record) (string, error) {
	if len(records) == 0 {
		return "", ErrInvalidInput
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(Header))
	for _, r := range records {
		for i, v := range r.fields() {
			row[i] = lineBreaks.Replace(v)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}
