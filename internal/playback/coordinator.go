// Package playback translates transport commands into engine calls and
// engine events into an observable application-level playback state.
package playback

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/nightingale/internal/catalog"
	"github.com/llehouerou/nightingale/internal/engine"
)

// DefaultPollInterval is the progress polling period.
const DefaultPollInterval = 500 * time.Millisecond

// Engine is the playback engine driven by the coordinator.
type Engine interface {
	SetListener(l engine.Listener)
	SetItems(items []engine.Item)
	Prepare() error
	Play() error
	Pause()
	IsPlaying() bool
	SeekTo(pos time.Duration) error
	SeekForward() error
	SeekBack() error
	SeekToNext() error
	SeekToPrevious() error
	PlayIndex(index int) error
	CurrentIndex() int
	Position() time.Duration
	Duration() time.Duration
}

var (
	_ Engine = (*engine.Engine)(nil)
	_ Engine = (*engine.Mock)(nil)
)

// Coordinator owns the engine. It is the only component that issues
// transport calls to it.
type Coordinator struct {
	engine   Engine
	interval time.Duration
	log      zerolog.Logger

	cmdMu sync.Mutex // serializes commands

	mu     sync.Mutex
	state  State
	queue  []catalog.Track
	seq    uint64
	subs   map[*Subscription]struct{}
	poll   *poller
	closed bool

	lastPoll <-chan struct{} // done channel of the newest loop

	ctx    context.Context
	cancel context.CancelFunc

	pollers    atomic.Int32 // running polling loops
	maxPollers atomic.Int32
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPollInterval sets the progress polling period.
func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// New creates a coordinator in the initial state and registers it as
// the engine's listener.
func New(e Engine, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		engine:   e,
		interval: DefaultPollInterval,
		log:      zlog.With().Str("component", "playback").Logger(),
		subs:     make(map[*Subscription]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	e.SetListener(listener{c})
	return c
}

// SetQueue replaces the play queue and prepares its first track.
func (c *Coordinator) SetQueue(tracks []catalog.Track) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if c.isClosed() {
		return ErrClosed
	}

	items := make([]engine.Item, len(tracks))
	for i, t := range tracks {
		items[i] = engine.Item{Path: t.Path, Title: t.Title, Artist: t.Artist}
	}
	c.engine.SetItems(items)

	c.mu.Lock()
	c.queue = slices.Clone(tracks)
	c.state.QueueLen = len(tracks)
	c.state.CurrentTrack = Value[int]{}
	c.state.Progress = Value[time.Duration]{}
	c.emitLocked(FacetQueue)
	c.mu.Unlock()

	if len(tracks) == 0 {
		// Nothing left to play.
		c.stopPolling()
		c.mu.Lock()
		if c.state.IsPlaying() {
			c.setPlayingLocked(false, false)
		}
		c.mu.Unlock()
		return nil
	}
	if err := c.engine.Prepare(); err != nil {
		return errors.Wrap(err, "prepare queue")
	}
	return nil
}

// Submit executes a command. Each command issues at most one transport
// call to the engine.
func (c *Coordinator) Submit(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if c.isClosed() {
		return ErrClosed
	}

	c.log.Debug().Stringer("command", cmd.Kind).Msg("submit")

	var err error
	switch cmd.Kind {
	case CmdPlayPause:
		err = c.playPause()
	case CmdSeekForward:
		err = c.transport(c.engine.SeekForward)
	case CmdSeekBackward:
		err = c.transport(c.engine.SeekBack)
	case CmdSkipNext:
		err = c.transport(c.engine.SeekToNext)
	case CmdSkipPrevious:
		err = c.transport(c.engine.SeekToPrevious)
	case CmdStop:
		c.stop()
	case CmdSeekToFraction:
		err = c.seekToFraction(cmd.Fraction)
	case CmdSelectTrack:
		err = c.selectTrack(cmd.Index)
	default:
		return errors.Wrapf(ErrUnknownCommand, "%d", int(cmd.Kind))
	}
	if err != nil {
		c.log.Warn().Err(err).Stringer("command", cmd.Kind).Msg("command failed")
		return errors.Wrap(err, cmd.Kind.String())
	}
	return nil
}

// Observe returns a subscription whose first update is a FacetSnapshot of
// the current state. It ends when ctx is cancelled or the coordinator is
// closed; ending it does not affect playback.
func (c *Coordinator) Observe(ctx context.Context) *Subscription {
	sub := newSubscription()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		sub.close()
	} else {
		c.subs[sub] = struct{}{}
		sub.push(Update{Seq: c.seq, Facet: FacetSnapshot, State: c.state, Queue: c.queue})
		c.mu.Unlock()
	}

	go sub.run(ctx, func() { c.unsubscribe(sub) })
	return sub
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Queue returns a copy of the play queue.
func (c *Coordinator) Queue() []catalog.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.queue)
}

// Current returns the current track, or nil when none is known.
func (c *Coordinator) Current() *catalog.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.state.CurrentTrack.Get()
	if !ok || i < 0 || i >= len(c.queue) {
		return nil
	}
	t := c.queue[i]
	return &t
}

// Position reads the engine position directly.
func (c *Coordinator) Position() time.Duration {
	return c.engine.Position()
}

// Duration reads the current track duration from the engine.
func (c *Coordinator) Duration() time.Duration {
	return c.engine.Duration()
}

// Close stops polling and ends every subscription. The engine is left to
// its owner.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cancel()
	p := c.poll
	c.poll = nil
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	if p != nil {
		<-p.done
	}
	for sub := range subs {
		sub.close()
	}
	c.engine.SetListener(nil)
	return nil
}

func (c *Coordinator) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Coordinator) unsubscribe(sub *Subscription) {
	c.mu.Lock()
	delete(c.subs, sub)
	c.mu.Unlock()
}

// transport runs a queue-relative engine call.
func (c *Coordinator) transport(call func() error) error {
	if c.queueLen() == 0 {
		return ErrEmptyQueue
	}
	return call()
}

func (c *Coordinator) queueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *Coordinator) playPause() error {
	if c.engine.IsPlaying() {
		c.engine.Pause()
		c.stopPolling()
		c.mu.Lock()
		c.setPlayingLocked(false, false)
		c.mu.Unlock()
		return nil
	}

	if c.queueLen() == 0 {
		return ErrEmptyQueue
	}
	if err := c.engine.Play(); err != nil {
		return err
	}
	c.mu.Lock()
	c.setPlayingLocked(true, false)
	c.startPollingLocked()
	c.mu.Unlock()
	return nil
}

// stop pauses the engine, ends polling and reports Playing(false) even
// when playback was already paused.
func (c *Coordinator) stop() {
	c.engine.Pause()
	c.stopPolling()
	c.mu.Lock()
	c.setPlayingLocked(false, true)
	c.mu.Unlock()
}

func (c *Coordinator) seekToFraction(f float64) error {
	f, ok := clampFraction(f)
	if !ok {
		return ErrInvalidFraction
	}
	d := c.engine.Duration()
	if d <= 0 {
		return nil
	}
	return c.engine.SeekTo(time.Duration(f * float64(d)))
}

func (c *Coordinator) selectTrack(index int) error {
	if index < 0 || index >= c.queueLen() {
		return errors.Wrapf(ErrIndexOutOfRange, "%d", index)
	}
	if index == c.engine.CurrentIndex() {
		return c.playPause()
	}

	if err := c.engine.PlayIndex(index); err != nil {
		return err
	}
	c.mu.Lock()
	c.setCurrentLocked(index)
	c.setPlayingLocked(true, true)
	c.startPollingLocked()
	c.mu.Unlock()
	return nil
}

// emitLocked publishes the current state to every subscriber.
func (c *Coordinator) emitLocked(f Facet) {
	c.seq++
	u := Update{Seq: c.seq, Facet: f, State: c.state}
	if f == FacetQueue {
		u.Queue = c.queue
	}
	for sub := range c.subs {
		sub.push(u)
	}
}

// setPlayingLocked updates the Playing facet. Unchanged values are not
// emitted unless force is set.
func (c *Coordinator) setPlayingLocked(playing, force bool) {
	if !force && c.state.Playing == known(playing) {
		return
	}
	c.state.Playing = known(playing)
	c.emitLocked(FacetPlaying)
}

func (c *Coordinator) setCurrentLocked(index int) {
	if index < 0 || c.state.CurrentTrack == known(index) {
		return
	}
	c.state.CurrentTrack = known(index)
	c.emitLocked(FacetCurrentTrack)
}

// listener receives engine callbacks. It is a separate type so the
// callbacks stay out of the coordinator's public API.
type listener struct{ c *Coordinator }

func (l listener) OnPlaybackStateChanged(s engine.State) {
	c := l.c
	switch s {
	case engine.StateBuffering:
		pos := c.engine.Position()
		c.mu.Lock()
		c.state.Buffering = known(pos)
		c.state.Ready = Value[time.Duration]{}
		c.emitLocked(FacetBuffering)
		c.mu.Unlock()
	case engine.StateReady:
		d := c.engine.Duration()
		c.mu.Lock()
		c.state.Ready = known(d)
		c.state.Buffering = Value[time.Duration]{}
		c.emitLocked(FacetReady)
		c.mu.Unlock()
	case engine.StateIdle, engine.StateEnded:
	}
}

// OnIsPlayingChanged arrives asynchronously, so a value the engine no
// longer holds is a stale echo of an earlier command and is dropped.
func (l listener) OnIsPlayingChanged(playing bool) {
	c := l.c
	if playing != c.engine.IsPlaying() {
		return
	}
	index := c.engine.CurrentIndex()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.setPlayingLocked(playing, false)
	c.setCurrentLocked(index)
	if playing {
		c.startPollingLocked()
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.stopPolling()
}
