// Package mediaindex is the local media index: a SQLite table of the audio
// files found under the library roots, refreshed by Scan and read back by
// Query as the player's catalog source.
package mediaindex

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/nightingale/internal/catalog"
	"github.com/llehouerou/nightingale/internal/db"
	"github.com/llehouerou/nightingale/internal/tags"
)

const (
	appName        = "nightingale"
	dbFileName     = "index.db"
	defaultWorkers = 8
)

// Verify Index implements catalog.Source at compile time.
var _ catalog.Source = (*Index)(nil)

// ProbeFunc reads the metadata of one file.
type ProbeFunc func(path string) (*tags.Info, error)

// Index is the media index.
type Index struct {
	db          *sql.DB
	workers     int
	minDuration time.Duration
	probe       ProbeFunc
	log         zerolog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithWorkers sets the number of metadata readers used by Scan.
func WithWorkers(n int) Option {
	return func(x *Index) {
		if n > 0 {
			x.workers = n
		}
	}
}

// WithMinDuration marks files shorter than d as non-music.
func WithMinDuration(d time.Duration) Option {
	return func(x *Index) { x.minDuration = d }
}

// WithProbe replaces the metadata reader.
func WithProbe(p ProbeFunc) Option {
	return func(x *Index) { x.probe = p }
}

// DefaultPath returns the index location under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens the index at path, or at DefaultPath when path is empty.
func Open(path string, opts ...Option) (*Index, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.Wrap(err, "resolve index path")
		}
		path = p
	}

	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "init index schema")
	}

	x := &Index{
		db:      conn,
		workers: defaultWorkers,
		probe:   tags.Read,
		log:     zlog.With().Str("component", "mediaindex").Logger(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x, nil
}

// Close closes the database.
func (x *Index) Close() error {
	return x.db.Close()
}

// Query returns every music entry ordered by display name.
func (x *Index) Query(ctx context.Context) ([]catalog.Track, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT id, display_name, artist, title, path, duration_ms
		FROM media
		WHERE is_music = ?
		ORDER BY display_name COLLATE NOCASE ASC
	`, 1)
	if err != nil {
		return nil, errors.Wrap(err, "query media")
	}
	defer rows.Close()

	var tracks []catalog.Track
	for rows.Next() {
		var (
			id         int64
			name, path string
			artist     sql.NullString
			title      sql.NullString
			durationMs int64
		)
		if err := rows.Scan(&id, &name, &artist, &title, &path, &durationMs); err != nil {
			return nil, errors.Wrap(err, "scan media row")
		}
		tracks = append(tracks, catalog.NewTrack(
			id, name,
			db.NullStringValue(artist),
			db.NullStringValue(title),
			path,
			time.Duration(durationMs)*time.Millisecond,
		))
	}
	return tracks, rows.Err()
}

// Count returns the number of indexed files, music or not.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n)
	return n, err
}
