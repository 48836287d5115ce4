// Package engine is the queue player underneath the playback coordinator.
// It decodes items with beep, renders them through an Output and reports
// state changes to a single Listener.
package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Defaults mirror common mobile player behaviour.
const (
	DefaultSampleRate       = beep.SampleRate(44100)
	DefaultSeekForward      = 15 * time.Second
	DefaultSeekBack         = 5 * time.Second
	DefaultRestartThreshold = 3 * time.Second
	resampleQuality         = 4
	seekUnmuteDelay         = 100 * time.Millisecond
)

var (
	ErrIndexOutOfRange = errors.New("item index out of range")
	ErrEmptyQueue      = errors.New("queue is empty")
	ErrClosed          = errors.New("engine closed")
)

// Item is one entry of the play queue.
type Item struct {
	Path   string
	Title  string
	Artist string
	Album  string
}

// loaded is the decoded current item.
type loaded struct {
	stream beep.StreamSeekCloser
	format beep.Format
	ctrl   *beep.Ctrl
	volume *effects.Volume
}

// Engine plays a queue of items one after another.
type Engine struct {
	mu sync.Mutex

	out        Output
	dec        Decoder
	sampleRate beep.SampleRate
	log        zerolog.Logger

	seekForward      time.Duration
	seekBack         time.Duration
	restartThreshold time.Duration

	items         []Item
	index         int
	state         State
	playWhenReady bool
	playing       bool
	level         float64
	cur           *loaded
	gen           uint64 // bumped on every load; stale end callbacks compare against it
	closed        bool

	events *dispatcher
}

// Option configures an Engine.
type Option func(*Engine)

// WithOutput sets the audio output. Defaults to the system speaker.
func WithOutput(o Output) Option {
	return func(e *Engine) { e.out = o }
}

// WithDecoder sets the item decoder. Defaults to FileDecoder.
func WithDecoder(d Decoder) Option {
	return func(e *Engine) { e.dec = d }
}

// WithSampleRate sets the output sample rate.
func WithSampleRate(sr beep.SampleRate) Option {
	return func(e *Engine) {
		if sr > 0 {
			e.sampleRate = sr
		}
	}
}

// WithSeekIncrements sets the SeekForward and SeekBack steps.
func WithSeekIncrements(forward, back time.Duration) Option {
	return func(e *Engine) {
		if forward > 0 {
			e.seekForward = forward
		}
		if back > 0 {
			e.seekBack = back
		}
	}
}

// WithRestartThreshold sets the position past which SeekToPrevious
// restarts the current item instead of moving back.
func WithRestartThreshold(d time.Duration) Option {
	return func(e *Engine) { e.restartThreshold = d }
}

// WithVolume sets the initial volume level (0 to 1).
func WithVolume(level float64) Option {
	return func(e *Engine) { e.level = clampLevel(level) }
}

// New creates an idle engine with an empty queue.
func New(opts ...Option) *Engine {
	e := &Engine{
		dec:              FileDecoder{},
		sampleRate:       DefaultSampleRate,
		seekForward:      DefaultSeekForward,
		seekBack:         DefaultSeekBack,
		restartThreshold: DefaultRestartThreshold,
		index:            -1,
		level:            1,
		log:              zlog.With().Str("component", "engine").Logger(),
		events:           newDispatcher(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.out == nil {
		e.out = &Speaker{}
	}
	return e
}

// SetListener registers the event listener, replacing any previous one.
func (e *Engine) SetListener(l Listener) {
	e.events.setListener(l)
}

// SetItems replaces the queue. The engine returns to Idle with the first
// item current; play-when-ready is kept.
func (e *Engine) SetItems(items []Item) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	e.unloadLocked()
	e.items = slices.Clone(items)
	e.index = -1
	if len(e.items) > 0 {
		e.index = 0
	}
	e.setStateLocked(StateIdle)
	e.updatePlayingLocked()
}

// Prepare decodes the current item. It is a no-op when an item is
// already loaded.
func (e *Engine) Prepare() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if len(e.items) == 0 {
		return ErrEmptyQueue
	}
	if e.cur != nil {
		return nil
	}
	return e.loadLocked(max(e.index, 0))
}

// Play sets play-when-ready. An idle engine is prepared first and an
// ended one restarts its current item.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if len(e.items) == 0 {
		return ErrEmptyQueue
	}

	e.playWhenReady = true
	if e.cur == nil || e.state == StateEnded {
		return e.loadLocked(max(e.index, 0))
	}
	e.setPausedLocked(false)
	e.updatePlayingLocked()
	return nil
}

// Pause clears play-when-ready.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.playWhenReady = false
	e.setPausedLocked(true)
	e.updatePlayingLocked()
}

// IsPlaying reports whether the engine is ready and playing.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentIndex returns the index of the current item, or -1.
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// Len returns the queue length.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}

// Items returns a copy of the queue.
func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

// Position returns the playback position in the current item.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

// Duration returns the length of the current item, or 0 when none is
// loaded.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.durationLocked()
}

// Close stops playback and the event dispatcher. It must not be called
// from a Listener.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.unloadLocked()
	e.mu.Unlock()

	e.events.stop()
	return nil
}

// loadLocked makes index current and decodes it. The engine passes
// through Buffering and ends Ready, or Idle if decoding fails.
func (e *Engine) loadLocked(index int) error {
	if index < 0 || index >= len(e.items) {
		return ErrIndexOutOfRange
	}

	e.unloadLocked()
	e.gen++
	e.index = index
	e.setStateLocked(StateBuffering)
	e.updatePlayingLocked()

	item := e.items[index]
	if err := e.out.Init(e.sampleRate); err != nil {
		e.setStateLocked(StateIdle)
		return errors.Wrap(err, "init audio output")
	}
	stream, format, err := e.dec.Decode(item.Path)
	if err != nil {
		e.log.Error().Err(err).Str("path", item.Path).Msg("decode failed")
		e.setStateLocked(StateIdle)
		e.updatePlayingLocked()
		return err
	}

	ctrl := &beep.Ctrl{Streamer: stream, Paused: !e.playWhenReady}
	var src beep.Streamer = ctrl
	if format.SampleRate != e.sampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, e.sampleRate, ctrl)
	}
	vol := &effects.Volume{
		Streamer: src,
		Base:     2,
		Volume:   levelToVolume(e.level),
		Silent:   e.level <= 0,
	}
	e.cur = &loaded{stream: stream, format: format, ctrl: ctrl, volume: vol}

	gen := e.gen
	e.out.Play(beep.Seq(vol, beep.Callback(func() {
		// Runs on the output goroutine, which holds the output lock.
		go e.handleEnd(gen)
	})))

	e.log.Debug().Int("index", index).Str("path", item.Path).Msg("loaded")
	e.setStateLocked(StateReady)
	e.updatePlayingLocked()
	return nil
}

// unloadLocked stops and releases the current item.
func (e *Engine) unloadLocked() {
	if e.cur == nil {
		return
	}
	e.out.Clear()
	if err := e.cur.stream.Close(); err != nil {
		e.log.Debug().Err(err).Msg("close stream")
	}
	e.cur = nil
}

// handleEnd advances past an item that played to its end.
func (e *Engine) handleEnd(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.gen {
		return
	}

	if e.index+1 < len(e.items) {
		if err := e.loadLocked(e.index + 1); err != nil {
			e.log.Warn().Err(err).Msg("advance to next item")
		}
		return
	}
	e.setStateLocked(StateEnded)
	e.updatePlayingLocked()
}

func (e *Engine) setStateLocked(s State) {
	if e.state == s {
		return
	}
	e.state = s
	e.events.push(event{state: s})
}

func (e *Engine) updatePlayingLocked() {
	playing := e.state == StateReady && e.playWhenReady
	if playing == e.playing {
		return
	}
	e.playing = playing
	e.events.push(event{isPlaying: true, playing: playing})
}

func (e *Engine) setPausedLocked(paused bool) {
	if e.cur == nil {
		return
	}
	e.out.Lock()
	e.cur.ctrl.Paused = paused
	e.out.Unlock()
}

func (e *Engine) positionLocked() time.Duration {
	if e.cur == nil {
		return 0
	}
	e.out.Lock()
	pos := e.cur.stream.Position()
	e.out.Unlock()
	return e.cur.format.SampleRate.D(pos)
}

func (e *Engine) durationLocked() time.Duration {
	if e.cur == nil {
		return 0
	}
	return e.cur.format.SampleRate.D(e.cur.stream.Len())
}
