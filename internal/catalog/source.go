package catalog

import (
	"context"
	"os"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Source answers a one-shot query for the full track list.
type Source interface {
	Query(ctx context.Context) ([]Track, error)
}

// Snapshot is the result of one catalog load.
type Snapshot struct {
	ID       uuid.UUID
	Tracks   []Track
	LoadedAt time.Time
}

// IsEmpty reports whether the snapshot holds no tracks.
func (s Snapshot) IsEmpty() bool { return len(s.Tracks) == 0 }

// Len returns the number of tracks.
func (s Snapshot) Len() int { return len(s.Tracks) }

// Repository loads snapshots from a Source.
type Repository struct {
	source Source
	log    zerolog.Logger
	now    func() time.Time
}

// NewRepository creates a repository reading from src.
func NewRepository(src Source) *Repository {
	return &Repository{
		source: src,
		log:    zlog.With().Str("component", "catalog").Logger(),
		now:    time.Now,
	}
}

// Load queries the source and returns a new snapshot. Each call re-queries
// the source; nothing is cached between calls.
func (r *Repository) Load(ctx context.Context) (Snapshot, error) {
	tracks, err := r.source.Query(ctx)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "query catalog")
	}
	snap := Snapshot{
		ID:       uuid.New(),
		Tracks:   slices.Clone(tracks),
		LoadedAt: r.now(),
	}
	if snap.IsEmpty() {
		r.log.Warn().Msg("catalog empty")
	} else {
		r.log.Debug().Int("tracks", snap.Len()).Str("snapshot", snap.ID.String()).Msg("catalog loaded")
	}
	return snap, nil
}

// Static is an in-memory Source.
type Static []Track

// Query returns a copy of the tracks.
func (s Static) Query(ctx context.Context) ([]Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone([]Track(s)), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
