package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/llehouerou/clipline/internal/db"
	"github.com/llehouerou/clipline/internal/media"
)

const defaultWorkers = 4

// Scan phases.
const (
	PhaseScanning = "scanning"
	PhaseProbing  = "probing"
	PhaseCleaning = "cleaning"
	PhaseDone     = "done"
)

// ScanProgress reports the progress of a scan.
type ScanProgress struct {
	Phase       string
	Current     int
	Total       int
	CurrentFile string
	Stats       *ScanStats // Only populated when Phase == PhaseDone
}

// ScanStats holds statistics for a completed scan. Paths are relative to Root.
type ScanStats struct {
	Root    string
	Added   []string
	Updated []string // size or mtime changed
	Removed []string
	Failed  []string // probe failed, cached with its error
}

// Changed reports whether the scan modified the catalog.
func (s *ScanStats) Changed() bool {
	return len(s.Added)+len(s.Updated)+len(s.Removed) > 0
}

// fileInfo holds information about a discovered media file.
type fileInfo struct {
	path  string
	size  int64
	mtime int64 // unix nanoseconds
}

type probeResult struct {
	file  fileInfo
	info  media.Info
	err   error
	isNew bool
}

// Scan walks root, probes new and changed media files and prunes entries
// whose files are gone. Progress is reported on progress, which is closed
// when Scan returns; it may be nil.
func (c *Catalog) Scan(ctx context.Context, root string, progress chan<- ScanProgress) (*ScanStats, error) {
	if progress != nil {
		defer close(progress)
	}

	root = filepath.Clean(root)
	st, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	stats := &ScanStats{Root: root}

	// Phase 1: find media files
	send(ctx, progress, ScanProgress{Phase: PhaseScanning})
	files, err := discoverFiles(ctx, root, progress)
	if err != nil {
		return nil, err
	}

	// Phase 2: compare with the cache
	existing, err := c.existingEntries(ctx, root)
	if err != nil {
		return nil, err
	}

	toProbe := make([]fileInfo, 0, len(files))
	isNew := make(map[string]bool)
	discovered := make(map[string]bool, len(files))
	for _, f := range files {
		discovered[f.path] = true
		if prev, ok := existing[f.path]; ok && prev == f {
			continue // unchanged, skip
		}
		_, existed := existing[f.path]
		isNew[f.path] = !existed
		toProbe = append(toProbe, f)
	}

	// Phase 3: probe in parallel
	results := c.probeFiles(ctx, toProbe, isNew, progress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 4: write results and prune deleted files
	send(ctx, progress, ScanProgress{Phase: PhaseCleaning})
	var removed []string
	for path := range existing {
		if !discovered[path] {
			removed = append(removed, path)
		}
	}

	now := time.Now().UnixNano()
	err = db.WithTx(ctx, c.db, func(tx *sql.Tx) error {
		for _, r := range results {
			if err := upsertEntry(ctx, tx, root, r, now); err != nil {
				return err
			}
		}
		for _, path := range removed {
			if _, err := tx.ExecContext(ctx, `DELETE FROM media_entries WHERE path = ?`, path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		rel := relativePath(root, r.file.path)
		switch {
		case r.isNew:
			stats.Added = append(stats.Added, rel)
		default:
			stats.Updated = append(stats.Updated, rel)
		}
		if r.err != nil {
			stats.Failed = append(stats.Failed, rel)
			c.logger.Warn("probe failed", "path", r.file.path, "error", r.err)
		}
	}
	for _, path := range removed {
		stats.Removed = append(stats.Removed, relativePath(root, path))
	}
	slices.Sort(stats.Added)
	slices.Sort(stats.Updated)
	slices.Sort(stats.Removed)
	slices.Sort(stats.Failed)

	c.logger.Info("scan complete",
		"root", root,
		"files", len(files),
		"added", len(stats.Added),
		"updated", len(stats.Updated),
		"removed", len(stats.Removed),
		"failed", len(stats.Failed))

	send(ctx, progress, ScanProgress{Phase: PhaseDone, Current: len(files), Total: len(files), Stats: stats})
	return stats, nil
}

// discoverFiles walks root and returns all supported media files.
func discoverFiles(ctx context.Context, root string, progress chan<- ScanProgress) ([]fileInfo, error) {
	var files []fileInfo
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Skip unreadable entries and keep scanning the rest
		if walkErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}
		if d.IsDir() || !media.IsSupported(path) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}

		files = append(files, fileInfo{
			path:  path,
			size:  info.Size(),
			mtime: info.ModTime().UnixNano(),
		})

		if len(files)%100 == 0 {
			send(ctx, progress, ScanProgress{Phase: PhaseScanning, Current: len(files)})
		}
		return nil
	})
	return files, err
}

// probeFiles probes files with a worker pool and returns the results in no
// particular order.
func (c *Catalog) probeFiles(
	ctx context.Context,
	files []fileInfo,
	isNew map[string]bool,
	progress chan<- ScanProgress,
) []probeResult {
	total := len(files)
	if total == 0 {
		return nil
	}
	var processed atomic.Int64

	workCh := make(chan fileInfo, total)
	resultCh := make(chan probeResult, total)
	for _, f := range files {
		workCh <- f
	}
	close(workCh)

	var wg sync.WaitGroup
	for range min(c.workers, total) {
		wg.Go(func() {
			for f := range workCh {
				if ctx.Err() != nil {
					processed.Add(1)
					continue
				}
				info, err := c.prober.Probe(ctx, f.path)
				resultCh <- probeResult{file: f, info: info, err: err, isNew: isNew[f.path]}
				processed.Add(1)
			}
		})
	}

	// Progress reporter
	done := make(chan struct{})
	var reporter sync.WaitGroup
	reporter.Go(func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p := ScanProgress{Phase: PhaseProbing, Current: int(processed.Load()), Total: total}
				select {
				case progress <- p:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	})

	wg.Wait()
	close(resultCh)
	close(done)
	reporter.Wait()

	results := make([]probeResult, 0, total)
	for r := range resultCh {
		results = append(results, r)
	}

	send(ctx, progress, ScanProgress{Phase: PhaseProbing, Current: total, Total: total})
	return results
}

func (c *Catalog) existingEntries(ctx context.Context, root string) (map[string]fileInfo, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT path, size, mtime FROM media_entries WHERE root = ?`, root)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]fileInfo)
	for rows.Next() {
		var f fileInfo
		if err := rows.Scan(&f.path, &f.size, &f.mtime); err != nil {
			return nil, err
		}
		entries[f.path] = f
	}
	return entries, rows.Err()
}

func upsertEntry(ctx context.Context, tx *sql.Tx, root string, r probeResult, now int64) error {
	typ := r.info.Type
	duration := r.info.Duration
	var probeErr string
	if r.err != nil {
		typ, _ = media.Classify(r.file.path)
		duration = 0
		probeErr = r.err.Error()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO media_entries (path, root, type, duration, size, mtime, probe_error, probed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			root = excluded.root,
			type = excluded.type,
			duration = excluded.duration,
			size = excluded.size,
			mtime = excluded.mtime,
			probe_error = excluded.probe_error,
			probed_at = excluded.probed_at
	`, r.file.path, root, typ.String(), duration, r.file.size, r.file.mtime, db.NullString(probeErr), now)
	return err
}

// send delivers p unless progress is nil or ctx is done.
func send(ctx context.Context, progress chan<- ScanProgress, p ScanProgress) {
	if progress == nil {
		return
	}
	select {
	case progress <- p:
	case <-ctx.Done():
	}
}
