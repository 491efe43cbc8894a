package csvexport

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/histexport/internal/places"
)

func TestFormat_SingleRecordExact(t *testing.T) {
	out, err := Format([]Record{{
		DateTime:       "2024-01-01T00:00:00.000Z",
		NavigatedToUrl: "https://a.com",
		PageTitle:      "A",
	}})
	require.NoError(t, err)
	assert.Equal(t, "DateTime,NavigatedToUrl,PageTitle\n2024-01-01T00:00:00.000Z,https://a.com,A", out)
}

func TestFormat_LineCountIsInputPlusHeader(t *testing.T) {
	for _, n := range []int{1, 2, 17} {
		records := make([]Record, n)
		for i := range records {
			records[i] = Record{DateTime: "2024-01-01T00:00:00.000Z", NavigatedToUrl: "https://x", PageTitle: "line\nbreak"}
		}
		out, err := Format(records)
		require.NoError(t, err)
		assert.Len(t, strings.Split(out, "\n"), n+1, "n=%d", n)
	}
}

func TestFormat_StripsLineBreaks(t *testing.T) {
	out, err := Format([]Record{{
		DateTime:       "2024-01-01T00:00:00.000Z",
		NavigatedToUrl: "https://a.com/\r\npath",
		PageTitle:      "a\nb\r",
	}})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2024-01-01T00:00:00.000Z,https://a.com/path,ab", lines[1])
	assert.NotContains(t, out, "\r")
}

func TestFormat_MissingFieldsAreEmpty(t *testing.T) {
	out, err := Format([]Record{{DateTime: "2024-01-01T00:00:00.000Z", NavigatedToUrl: "https://a.com"}})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "2024-01-01T00:00:00.000Z,https://a.com,", lines[1])
	assert.NotContains(t, out, "undefined")
	assert.NotContains(t, out, "null")
}

func TestFormat_QuotesCommasAndQuotes(t *testing.T) {
	out, err := Format([]Record{{
		DateTime:       "2024-01-01T00:00:00.000Z",
		NavigatedToUrl: "https://a.com/?q=1,2",
		PageTitle:      `Say "hi", world`,
	}})
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(out))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Len(t, row, len(Header))
	}
	assert.Equal(t, "https://a.com/?q=1,2", rows[1][1])
	assert.Equal(t, `Say "hi", world`, rows[1][2])
}

func TestFormat_PreservesInputOrder(t *testing.T) {
	out, err := Format([]Record{
		{NavigatedToUrl: "https://second"},
		{NavigatedToUrl: "https://first"},
	})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, ",https://second,", lines[1])
	assert.Equal(t, ",https://first,", lines[2])
}

func TestFormat_InvalidInput(t *testing.T) {
	_, err := Format(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Format([]Record{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFromItems(t *testing.T) {
	visit := time.Date(2024, 1, 1, 8, 30, 15, 250*int(time.Millisecond), time.FixedZone("X", 3600))
	records := FromItems([]places.Item{
		{LastVisitTime: visit.UnixMilli(), URL: "https://a.com", Title: "A"},
		{LastVisitTime: 0},
	})

	require.Len(t, records, 2)
	assert.Equal(t, Record{DateTime: "2024-01-01T07:30:15.250Z", NavigatedToUrl: "https://a.com", PageTitle: "A"}, records[0])
	assert.Equal(t, Record{DateTime: "1970-01-01T00:00:00.000Z"}, records[1])
}
