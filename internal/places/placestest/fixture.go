// Package placestest builds Firefox-shaped places databases for tests.
package placestest

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Visit is one navigation to record. A nil Title stores NULL.
type Visit struct {
	URL   string
	Title *string
	At    time.Time
}

// Title returns a pointer to s for use in Visit literals.
func Title(s string) *string { return &s }

// schema is the subset of the Firefox places schema read by the exporter.
var schema = []string{
	`CREATE TABLE moz_places (
		id              INTEGER PRIMARY KEY,
		url             LONGVARCHAR,
		title           LONGVARCHAR,
		rev_host        LONGVARCHAR,
		visit_count     INTEGER DEFAULT 0,
		hidden          INTEGER DEFAULT 0 NOT NULL,
		typed           INTEGER DEFAULT 0 NOT NULL,
		frecency        INTEGER DEFAULT -1 NOT NULL,
		last_visit_date INTEGER,
		guid            TEXT,
		url_hash        INTEGER DEFAULT 0 NOT NULL
	)`,
	`CREATE TABLE moz_historyvisits (
		id           INTEGER PRIMARY KEY,
		from_visit   INTEGER,
		place_id     INTEGER,
		visit_date   INTEGER,
		visit_type   INTEGER,
		session      INTEGER
	)`,
	`CREATE UNIQUE INDEX moz_places_url_uniqueindex ON moz_places (url)`,
	`CREATE INDEX moz_places_lastvisitdateindex ON moz_places (last_visit_date)`,
	`CREATE INDEX moz_historyvisits_dateindex ON moz_historyvisits (visit_date)`,
}

// Create applies the places schema to db.
func Create(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, stmt := range schema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

// Record inserts visits the way Firefox does: one moz_historyvisits row per
// visit, and one moz_places row per URL whose last_visit_date tracks the
// latest visit.
func Record(t *testing.T, db *sql.DB, visits ...Visit) {
	t.Helper()
	for _, v := range visits {
		micros := v.At.UnixMicro()
		var title sql.NullString
		if v.Title != nil {
			title = sql.NullString{String: *v.Title, Valid: true}
		}

		_, err := db.Exec(`
			INSERT INTO moz_places (url, title, visit_count, last_visit_date)
			VALUES (?, ?, 1, ?)
			ON CONFLICT(url) DO UPDATE SET
				visit_count = visit_count + 1,
				title = excluded.title,
				last_visit_date = max(last_visit_date, excluded.last_visit_date)
		`, v.URL, title, micros)
		require.NoError(t, err)

		_, err = db.Exec(`
			INSERT INTO moz_historyvisits (place_id, visit_date, visit_type)
			SELECT id, ?, 1 FROM moz_places WHERE url = ?
		`, micros, v.URL)
		require.NoError(t, err)
	}
}

// NewDB returns an in-memory places database holding visits.
func NewDB(t *testing.T, visits ...Visit) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every pooled connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	Create(t, db)
	Record(t, db, visits...)
	return db
}

// WriteFile creates a places.sqlite holding visits inside dir and returns
// its path.
func WriteFile(t *testing.T, dir string, visits ...Visit) string {
	t.Helper()
	path := filepath.Join(dir, "places.sqlite")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	Create(t, db)
	Record(t, db, visits...)
	return path
}
