package mediaindex

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/llehouerou/nightingale/internal/db"
	"github.com/llehouerou/nightingale/internal/tags"
)

// Scan phases reported through ScanProgress.
const (
	PhaseScanning   = "scanning"
	PhaseProcessing = "processing"
	PhaseCleaning   = "cleaning"
	PhaseDone       = "done"
)

// ScanProgress reports the progress of a scan.
type ScanProgress struct {
	Phase   string
	Current int
	Total   int
}

// ScanStats summarises a completed scan.
type ScanStats struct {
	Added     int
	Updated   int
	Removed   int
	Unchanged int
	NonMusic  int // indexed but hidden from the catalog
}

// Changed reports whether the scan touched the database.
func (s ScanStats) Changed() bool {
	return s.Added+s.Updated+s.Removed > 0
}

type fileInfo struct {
	path  string
	mtime int64
	size  int64
}

type probeResult struct {
	file    fileInfo
	info    *tags.Info
	isMusic bool
	isNew   bool
}

// Scan performs an incremental refresh of the index from the given roots.
// Files whose mtime has not changed are skipped. progress may be nil;
// otherwise Scan closes it when it returns.
func (x *Index) Scan(ctx context.Context, roots []string, progress chan<- ScanProgress) (ScanStats, error) {
	return x.scan(ctx, roots, progress, false)
}

// Rescan re-reads every file under roots, ignoring modification times.
func (x *Index) Rescan(ctx context.Context, roots []string, progress chan<- ScanProgress) (ScanStats, error) {
	return x.scan(ctx, roots, progress, true)
}

func (x *Index) scan(ctx context.Context, roots []string, progress chan<- ScanProgress, force bool) (ScanStats, error) {
	if progress != nil {
		defer close(progress)
	}
	report := func(p ScanProgress) {
		if progress == nil {
			return
		}
		select {
		case progress <- p:
		case <-ctx.Done():
		}
	}

	var stats ScanStats
	start := time.Now()

	report(ScanProgress{Phase: PhaseScanning})
	files, err := discoverFiles(ctx, roots, report)
	if err != nil {
		return stats, err
	}

	existing, err := x.existingFiles(ctx, roots)
	if err != nil {
		return stats, errors.Wrap(err, "load indexed files")
	}

	var todo []fileInfo
	isNew := make(map[string]bool)
	for _, f := range files {
		mtime, ok := existing[f.path]
		switch {
		case !ok:
			isNew[f.path] = true
			todo = append(todo, f)
		case force || mtime != f.mtime:
			todo = append(todo, f)
		default:
			stats.Unchanged++
		}
	}

	results, err := x.probeFiles(ctx, todo, isNew, report)
	if err != nil {
		return stats, err
	}

	report(ScanProgress{Phase: PhaseCleaning})
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		seen[f.path] = struct{}{}
	}
	var vanished []string
	for path := range existing {
		if _, ok := seen[path]; !ok {
			vanished = append(vanished, path)
		}
	}

	err = db.WithTx(ctx, x.db, func(tx *sql.Tx) error {
		now := time.Now().Unix()
		for _, r := range results {
			if err := upsertMedia(tx, r, now); err != nil {
				return errors.Wrapf(err, "index %s", r.file.path)
			}
		}
		for _, path := range vanished {
			if _, err := tx.Exec(`DELETE FROM media WHERE path = ?`, path); err != nil {
				return errors.Wrapf(err, "remove %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	for _, r := range results {
		if r.isNew {
			stats.Added++
		} else {
			stats.Updated++
		}
		if !r.isMusic {
			stats.NonMusic++
		}
	}
	stats.Removed = len(vanished)

	x.log.Info().
		Int("added", stats.Added).
		Int("updated", stats.Updated).
		Int("removed", stats.Removed).
		Int("unchanged", stats.Unchanged).
		Dur("elapsed", time.Since(start)).
		Msg("scan complete")

	report(ScanProgress{Phase: PhaseDone, Current: len(files), Total: len(files)})
	return stats, nil
}

// discoverFiles walks the roots and returns every supported audio file.
// Unreadable directories and files are skipped.
func discoverFiles(ctx context.Context, roots []string, report func(ScanProgress)) ([]fileInfo, error) {
	var files []fileInfo
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				return nil //nolint:nilerr // keep scanning the rest of the tree
			}
			if d.IsDir() || !tags.IsMusicFile(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil //nolint:nilerr // file vanished mid-walk
			}
			files = append(files, fileInfo{
				path:  path,
				mtime: info.ModTime().Unix(),
				size:  info.Size(),
			})
			if len(files)%100 == 0 {
				report(ScanProgress{Phase: PhaseScanning, Current: len(files)})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// probeFiles reads metadata for files in parallel.
func (x *Index) probeFiles(
	ctx context.Context,
	files []fileInfo,
	isNew map[string]bool,
	report func(ScanProgress),
) ([]probeResult, error) {
	total := len(files)
	if total == 0 {
		return nil, nil
	}
	var processed atomic.Int64

	workCh := make(chan fileInfo, total)
	resultCh := make(chan probeResult, total)
	for _, f := range files {
		workCh <- f
	}
	close(workCh)

	var wg sync.WaitGroup
	for range min(x.workers, total) {
		wg.Go(func() {
			for f := range workCh {
				if ctx.Err() != nil {
					return
				}
				resultCh <- x.probeOne(f, isNew[f.path])
				processed.Add(1)
			}
		})
	}

	// The ticker must be gone before scan closes the progress channel.
	done := make(chan struct{})
	tickerDone := make(chan struct{})
	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				report(ScanProgress{Phase: PhaseProcessing, Current: int(processed.Load()), Total: total})
			case <-done:
				return
			}
		}
	}()

	wg.Wait()
	close(done)
	<-tickerDone
	close(resultCh)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]probeResult, 0, total)
	for r := range resultCh {
		results = append(results, r)
	}
	report(ScanProgress{Phase: PhaseProcessing, Current: total, Total: total})
	return results, nil
}

func (x *Index) probeOne(f fileInfo, isNew bool) probeResult {
	info, err := x.probe(f.path)
	if err != nil {
		x.log.Debug().Err(err).Str("path", f.path).Msg("unreadable metadata")
		return probeResult{
			file:  f,
			info:  &tags.Info{Path: f.path},
			isNew: isNew,
		}
	}
	if info.Path == "" {
		info.Path = f.path
	}
	return probeResult{
		file:    f,
		info:    info,
		isMusic: info.Duration >= x.minDuration,
		isNew:   isNew,
	}
}

// existingFiles returns path->mtime for indexed files under the roots.
func (x *Index) existingFiles(ctx context.Context, roots []string) (map[string]int64, error) {
	rows, err := x.db.QueryContext(ctx, `SELECT path, mtime FROM media`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		if underAny(path, roots) {
			files[path] = mtime
		}
	}
	return files, rows.Err()
}

func underAny(path string, roots []string) bool {
	for _, root := range roots {
		root = filepath.Clean(root)
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func upsertMedia(tx *sql.Tx, r probeResult, now int64) error {
	isMusic := 0
	if r.isMusic {
		isMusic = 1
	}
	_, err := tx.Exec(`
		INSERT INTO media (path, mtime, size, display_name, artist, album, title, duration_ms, is_music, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			mtime = excluded.mtime,
			size = excluded.size,
			display_name = excluded.display_name,
			artist = excluded.artist,
			album = excluded.album,
			title = excluded.title,
			duration_ms = excluded.duration_ms,
			is_music = excluded.is_music,
			updated_at = excluded.updated_at
	`,
		r.file.path, r.file.mtime, r.file.size,
		filepath.Base(r.file.path),
		nullString(r.info.Artist), nullString(r.info.Album), nullString(r.info.Title),
		r.info.Duration.Milliseconds(), isMusic,
		r.file.mtime, now,
	)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
