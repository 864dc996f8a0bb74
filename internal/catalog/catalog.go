// Package catalog caches media probe results in SQLite so the media bin does
// not re-probe unchanged files on every start.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/clipline/internal/db"
	"github.com/llehouerou/clipline/internal/logging"
	"github.com/llehouerou/clipline/internal/media"
)

const (
	appName    = "clipline"
	dbFileName = "catalog.db"
)

// Entry is a cached probe result.
type Entry struct {
	Path     string
	Root     string
	Type     media.Type
	Duration float64 // seconds, zero when probing failed
	Size     int64
	ModTime  time.Time
	ProbeErr string // last probe error, empty on success
}

// Name returns the path relative to the scanned root.
func (e Entry) Name() string {
	return relativePath(e.Root, e.Path)
}

// OK reports whether the entry was probed successfully.
func (e Entry) OK() bool {
	return e.ProbeErr == "" && e.Duration > 0
}

// Info converts the entry to a probe result.
func (e Entry) Info() media.Info {
	return media.Info{
		Path:     e.Path,
		Type:     e.Type,
		Duration: e.Duration,
		Size:     e.Size,
		ModTime:  e.ModTime,
	}
}

// Catalog is the probe cache.
type Catalog struct {
	db      *sql.DB
	prober  media.Prober
	logger  *slog.Logger
	workers int
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWorkers sets the number of concurrent probes during a scan.
func WithWorkers(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.workers = n
		}
	}
}

// Open opens the catalog under the XDG data directory.
func Open(prober media.Prober, opts ...Option) (*Catalog, error) {
	path, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenPath(path, prober, opts...)
}

// OpenPath opens the catalog at path, creating it if needed.
func OpenPath(path string, prober media.Prober, opts ...Option) (*Catalog, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; one connection also keeps :memory: alive.
	conn.SetMaxOpenConns(1)

	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	c := &Catalog{
		db:      conn,
		prober:  prober,
		logger:  logging.Discard(),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Entries returns the cached entries under root, ordered by path.
func (c *Catalog) Entries(ctx context.Context, root string) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT path, root, type, duration, size, mtime, probe_error
		FROM media_entries
		WHERE root = ?
		ORDER BY path COLLATE NOCASE
	`, filepath.Clean(root))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Lookup returns the cached entry for path. An entry whose file has since
// changed size or modification time is reported as missing.
func (c *Catalog) Lookup(ctx context.Context, path string) (Entry, bool, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT path, root, type, duration, size, mtime, probe_error
		FROM media_entries
		WHERE path = ?
	`, filepath.Clean(path))
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	st, err := os.Stat(e.Path)
	if err != nil || st.Size() != e.Size || !st.ModTime().Equal(e.ModTime) {
		return Entry{}, false, nil //nolint:nilerr // a vanished file is a cache miss
	}
	return e, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (Entry, error) {
	var (
		e        Entry
		typeName string
		mtime    int64
		probeErr sql.NullString
	)
	if err := r.Scan(&e.Path, &e.Root, &typeName, &e.Duration, &e.Size, &mtime, &probeErr); err != nil {
		return Entry{}, err
	}
	e.Type = parseType(typeName)
	e.ModTime = time.Unix(0, mtime)
	e.ProbeErr = db.NullStringValue(probeErr)
	return e, nil
}

func parseType(s string) media.Type {
	switch s {
	case media.Video.String():
		return media.Video
	case media.Image.String():
		return media.Image
	default:
		return media.Unknown
	}
}

// relativePath returns the path relative to root, or the full path if not under root.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
