package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Searcher is the history-search capability the exporter consumes.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Item, error)
}

// ErrNotPlaces is returned when a database has no moz_places table.
var ErrNotPlaces = errors.New("not a Firefox places database")

// Store implements Searcher on top of a Firefox places.sqlite database.
type Store struct {
	db *sql.DB

	// Prepared statements
	searchWindow *sql.Stmt
	searchText   *sql.Stmt

	// Set by Open: the store owns db and the snapshot directory.
	ownsDB      bool
	snapshotDir string
}

const selectColumns = `
	SELECT url, title, last_visit_date
	FROM moz_places
	WHERE last_visit_date IS NOT NULL
	  AND last_visit_date >= ? AND last_visit_date <= ?`

// NewStore creates a Store from an already-opened database. The database
// is NOT closed by Store.Close; that is the caller's responsibility.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}

	if err := s.checkSchema(); err != nil {
		return nil, err
	}

	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

// Open snapshots the places.sqlite at path (with its write-ahead log, if
// any) into a temporary directory and opens the copy. A running Firefox
// keeps the live file exclusively locked, so reads never touch it.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("places database: %w", err)
	}

	dir, err := os.MkdirTemp("", "histexport-*")
	if err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	snapshot := filepath.Join(dir, "places.sqlite")
	if err := snapshotFiles(path, snapshot); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+snapshot+"?_query_only=true&_busy_timeout=5000")
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("open database: %w", err)
	}

	s, err := NewStore(db)
	if err != nil {
		db.Close()
		os.RemoveAll(dir)
		return nil, err
	}
	s.ownsDB = true
	s.snapshotDir = dir

	return s, nil
}

// snapshotFiles copies src and its -wal companion next to dst.
func snapshotFiles(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("snapshot places database: %w", err)
	}
	if _, err := os.Stat(src + "-wal"); err == nil {
		if err := copyFile(src+"-wal", dst+"-wal"); err != nil {
			return fmt.Errorf("snapshot write-ahead log: %w", err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (s *Store) checkSchema() error {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'moz_places'",
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if n == 0 {
		return ErrNotPlaces
	}
	return nil
}

func (s *Store) prepareStatements() error {
	var err error

	s.searchWindow, err = s.db.Prepare(selectColumns + `
		ORDER BY last_visit_date DESC
		LIMIT ?
	`)
	if err != nil {
		return err
	}

	s.searchText, err = s.db.Prepare(selectColumns + `
		  AND (instr(lower(url), ?) > 0 OR instr(lower(coalesce(title, '')), ?) > 0)
		ORDER BY last_visit_date DESC
		LIMIT ?
	`)
	if err != nil {
		return err
	}

	return nil
}

// Search returns the pages whose last visit falls inside [q.StartTime,
// q.EndTime], most recent first, capped at q.MaxResults. A non-empty Text
// keeps only pages whose URL or title contains it, case-insensitively.
func (s *Store) Search(ctx context.Context, q Query) ([]Item, error) {
	if q.MaxResults <= 0 {
		q.MaxResults = DefaultMaxResults
	}

	// moz_places stores microseconds; widen End to cover its whole millisecond.
	start := q.StartTime * 1000
	end := q.EndTime*1000 + 999

	var (
		rows *sql.Rows
		err  error
	)
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		rows, err = s.searchText.QueryContext(ctx, start, end, text, text, q.MaxResults)
	} else {
		rows, err = s.searchWindow.QueryContext(ctx, start, end, q.MaxResults)
	}
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// scanItems reads url, title, last_visit_date rows into Items.
func scanItems(rows *sql.Rows) ([]Item, error) {
	items := []Item{}
	for rows.Next() {
		var (
			url, title  sql.NullString
			visitMicros int64
		)
		if err := rows.Scan(&url, &title, &visitMicros); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		items = append(items, Item{
			LastVisitTime: visitMicros / 1000,
			URL:           url.String,
			Title:         title.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	return items, nil
}

// Close releases the prepared statements. For a Store created by Open it
// also closes the database and removes the snapshot.
func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.searchWindow, s.searchText} {
		if stmt != nil {
			stmt.Close()
		}
	}

	var err error
	if s.ownsDB {
		err = s.db.Close()
	}
	if s.snapshotDir != "" {
		if rmErr := os.RemoveAll(s.snapshotDir); rmErr != nil && err == nil {
			err = rmErr
		}
		s.snapshotDir = ""
	}
	return err
}

// File is a Searcher that snapshots the database at Path for every search
// and releases the snapshot afterwards, so open and read failures surface
// from Search itself.
type File struct {
	Path string
}

// Search opens Path, runs q and closes the snapshot.
func (f File) Search(ctx context.Context, q Query) ([]Item, error) {
	s, err := Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return s.Search(ctx, q)
}
