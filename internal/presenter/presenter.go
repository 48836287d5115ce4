// Package presenter folds the playback state stream and the catalog into a
// display model and maps user intents onto coordinator commands.
package presenter

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/nightingale/internal/catalog"
	"github.com/llehouerou/nightingale/internal/playback"
)

// Controller is the playback side of the presenter.
type Controller interface {
	SetQueue(tracks []catalog.Track) error
	Submit(ctx context.Context, cmd playback.Command) error
	Observe(ctx context.Context) *playback.Subscription
}

// Loader produces catalog snapshots.
type Loader interface {
	Load(ctx context.Context) (catalog.Snapshot, error)
}

var (
	_ Controller = (*playback.Coordinator)(nil)
	_ Loader     = (*catalog.Repository)(nil)
)

// Status is the coarse screen state.
type Status int

const (
	StatusInitial Status = iota
	StatusReady
)

// Model is what the UI renders.
type Model struct {
	Tracks   []catalog.Track
	Snapshot uuid.UUID
	Loaded   bool
	Empty    bool // loaded with no tracks, or the load failed

	CurrentIndex int // -1 when unknown
	Current      *catalog.Track
	IsPlaying    bool
	Buffering    bool

	Duration        time.Duration
	Position        time.Duration
	ProgressPercent float64 // 0 to 100
	ProgressText    string
	DurationText    string

	Status    Status
	LastError error
}

// Presenter is safe for concurrent use.
type Presenter struct {
	ctrl   Controller
	loader Loader
	log    zerolog.Logger

	mu      sync.Mutex
	model   Model
	changes chan Model
}

// New creates a presenter in the initial state.
func New(ctrl Controller, loader Loader) *Presenter {
	p := &Presenter{
		ctrl:    ctrl,
		loader:  loader,
		log:     zlog.With().Str("component", "presenter").Logger(),
		changes: make(chan Model, 1),
	}
	p.model = Model{
		CurrentIndex: -1,
		ProgressText: FormatDuration(0),
		DurationText: FormatDuration(0),
	}
	return p
}

// Model returns the latest model.
func (p *Presenter) Model() Model {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.model
}

// Changes delivers the latest model after every change. Intermediate
// models may be skipped when the reader is slow.
func (p *Presenter) Changes() <-chan Model {
	return p.changes
}

// LoadCatalog queries the catalog and hands a non-empty result to the
// coordinator as the new queue. An empty or failed load leaves playback
// untouched and shows the empty state.
func (p *Presenter) LoadCatalog(ctx context.Context) error {
	snap, err := p.loader.Load(ctx)
	if err != nil {
		p.mu.Lock()
		p.model.Tracks = nil
		p.model.Loaded = true
		p.model.Empty = true
		p.model.LastError = err
		p.publishLocked()
		p.mu.Unlock()
		return err
	}

	if snap.IsEmpty() {
		// A previously loaded queue is replaced by the empty one. The
		// first load of an empty catalog touches nothing.
		p.mu.Lock()
		hadTracks := len(p.model.Tracks) > 0
		p.mu.Unlock()
		if hadTracks {
			if err := p.ctrl.SetQueue(nil); err != nil {
				p.log.Warn().Err(err).Msg("clear queue")
				p.setError(err)
				return err
			}
		}

		p.mu.Lock()
		p.model.Tracks = nil
		p.model.Snapshot = snap.ID
		p.model.Loaded = true
		p.model.Empty = true
		p.model.LastError = nil
		p.model.CurrentIndex = -1
		p.model.Current = nil
		p.model.IsPlaying = false
		p.model.Position = 0
		p.model.ProgressPercent = 0
		p.model.ProgressText = FormatDuration(0)
		p.publishLocked()
		p.mu.Unlock()
		return nil
	}

	if err := p.ctrl.SetQueue(snap.Tracks); err != nil {
		p.log.Warn().Err(err).Msg("set queue")
		p.setError(err)
		return err
	}

	p.mu.Lock()
	p.model.Tracks = snap.Tracks
	p.model.Snapshot = snap.ID
	p.model.Loaded = true
	p.model.Empty = false
	p.model.LastError = nil
	p.model.CurrentIndex = -1
	p.model.Current = nil
	p.publishLocked()
	p.mu.Unlock()
	return nil
}

// Run folds coordinator updates into the model until ctx is cancelled or
// the coordinator closes.
func (p *Presenter) Run(ctx context.Context) error {
	sub := p.ctrl.Observe(ctx)
	for u := range sub.C {
		p.apply(u)
	}
	return ctx.Err()
}

func (p *Presenter) apply(u playback.Update) {
	st := u.State

	p.mu.Lock()
	defer p.mu.Unlock()
	m := &p.model

	m.IsPlaying = st.IsPlaying()
	m.Buffering = st.Buffering.Known

	if i, ok := st.CurrentTrack.Get(); ok && i >= 0 && i < len(m.Tracks) {
		m.CurrentIndex = i
		t := m.Tracks[i]
		m.Current = &t
	} else if u.Facet == playback.FacetQueue || u.Facet == playback.FacetSnapshot {
		m.CurrentIndex = -1
		m.Current = nil
	}

	switch {
	case st.Ready.Known:
		m.Duration = st.Ready.Value
		m.Status = StatusReady
	case m.Current != nil:
		m.Duration = m.Current.Duration
	}

	switch u.Facet {
	case playback.FacetProgress:
		m.Position = st.Progress.Value
	case playback.FacetBuffering:
		m.Position = st.Buffering.Value
	case playback.FacetQueue:
		m.Position = 0
	case playback.FacetSnapshot:
		if pos, ok := st.Progress.Get(); ok {
			m.Position = pos
		}
	case playback.FacetReady, playback.FacetPlaying, playback.FacetCurrentTrack:
	}

	m.ProgressPercent = progressPercent(m.Position, m.Duration)
	m.ProgressText = FormatDuration(m.Position)
	m.DurationText = FormatDuration(m.Duration)
	p.publishLocked()
}

// publishLocked replaces any unread model with the current one.
func (p *Presenter) publishLocked() {
	select {
	case <-p.changes:
	default:
	}
	select {
	case p.changes <- p.model:
	default:
	}
}

func (p *Presenter) setError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model.LastError = err
	p.publishLocked()
}

// progressPercent maps a position onto 0 to 100 of duration.
func progressPercent(pos, duration time.Duration) float64 {
	if pos <= 0 || duration <= 0 {
		return 0
	}
	return min(float64(pos)/float64(duration)*100, 100)
}
