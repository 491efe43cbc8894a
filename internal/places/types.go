package places

import "time"

// Item is one page from the Firefox history as the history-search API
// reports it. URL and Title are empty when the database has no value.
type Item struct {
	LastVisitTime int64 // epoch milliseconds
	URL           string
	Title         string
}

// LastVisit returns LastVisitTime as a time.Time.
func (i Item) LastVisit() time.Time {
	return time.UnixMilli(i.LastVisitTime)
}

// Query mirrors the history-search parameters: a text filter, an inclusive
// epoch-millisecond window and a cap on returned rows.
type Query struct {
	Text       string
	StartTime  int64
	EndTime    int64
	MaxResults int
}

// DefaultMaxResults is the result cap used when a Query leaves it unset.
const DefaultMaxResults = 10000
