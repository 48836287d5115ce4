package notify

import (
	"context"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/nightingale/internal/catalog"
	"github.com/llehouerou/nightingale/internal/playback"
)

// Source is the playback state a Watcher follows.
type Source interface {
	Observe(ctx context.Context) *playback.Subscription
}

var _ Source = (*playback.Coordinator)(nil)

// Watcher shows a "Now playing" notification whenever a new track starts
// playing. Each notification replaces the previous one.
type Watcher struct {
	n   Notifier
	log zerolog.Logger

	id        uint32
	announced int // queue index last announced, -1 for none
}

// NewWatcher creates a watcher sending through n.
func NewWatcher(n Notifier) *Watcher {
	return &Watcher{
		n:         n,
		log:       zlog.With().Str("component", "notify").Logger(),
		announced: -1,
	}
}

// Run follows src until ctx is cancelled or src closes.
func (w *Watcher) Run(ctx context.Context, src Source) error {
	sub := src.Observe(ctx)
	var queue []catalog.Track
	for u := range sub.C {
		if u.Facet == playback.FacetQueue || u.Facet == playback.FacetSnapshot {
			queue = u.Queue
			w.announced = -1
		}
		w.handle(u.State, queue)
	}
	return ctx.Err()
}

func (w *Watcher) handle(st playback.State, queue []catalog.Track) {
	i, ok := st.CurrentTrack.Get()
	if !ok || !st.IsPlaying() || i == w.announced || i < 0 || i >= len(queue) {
		return
	}
	w.announced = i

	n := NowPlaying(queue[i])
	n.ReplacesID = w.id
	id, err := w.n.Notify(n)
	if err != nil {
		w.log.Debug().Err(err).Msg("now playing notification")
		return
	}
	w.id = id
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) (uint32, error) { return 0, nil }
func (nopNotifier) Close(uint32) error                  { return nil }
