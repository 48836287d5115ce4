// Package mpris exposes the player on the session bus as an MPRIS2
// media player.
package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/nightingale/internal/catalog"
	"github.com/llehouerou/nightingale/internal/errmsg"
	"github.com/llehouerou/nightingale/internal/playback"
)

// Controller is the playback side seen by desktop media keys.
type Controller interface {
	Submit(ctx context.Context, cmd playback.Command) error
	State() playback.State
	Current() *catalog.Track
	Queue() []catalog.Track
	Position() time.Duration
	Duration() time.Duration
}

var _ Controller = (*playback.Coordinator)(nil)

// Status mirrors the MPRIS PlaybackStatus values.
type Status string

const (
	StatusPlaying Status = "Playing"
	StatusPaused  Status = "Paused"
	StatusStopped Status = "Stopped"
)

// control maps MPRIS calls onto coordinator commands. Every call submits
// at most one command.
type control struct {
	ctrl    Controller
	timeout time.Duration
	log     zerolog.Logger
}

func newControl(ctrl Controller) *control {
	return &control{
		ctrl:    ctrl,
		timeout: 2 * time.Second,
		log:     zlog.With().Str("component", "mpris").Logger(),
	}
}

func (c *control) submit(cmd playback.Command) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if err := c.ctrl.Submit(ctx, cmd); err != nil {
		c.log.Debug().Err(err).Msg(errmsg.Format(errmsg.ForCommand(cmd.Kind), err))
		return err
	}
	return nil
}

func (c *control) Next() error     { return c.submit(playback.SkipNext()) }
func (c *control) Previous() error { return c.submit(playback.SkipPrevious()) }
func (c *control) Stop() error     { return c.submit(playback.Stop()) }

func (c *control) PlayPause() error {
	return c.submit(playback.PlayPause())
}

// Play resumes unless already playing.
func (c *control) Play() error {
	if c.ctrl.State().IsPlaying() {
		return nil
	}
	return c.submit(playback.PlayPause())
}

// Pause pauses unless already paused.
func (c *control) Pause() error {
	if !c.ctrl.State().IsPlaying() {
		return nil
	}
	return c.submit(playback.PlayPause())
}

// Seek moves by offset relative to the current position.
func (c *control) Seek(offset time.Duration) error {
	return c.seekTo(c.ctrl.Position() + offset)
}

// SetPosition seeks to an absolute position. Calls naming a track other
// than the current one are ignored.
func (c *control) SetPosition(trackID string, pos time.Duration) error {
	cur := c.ctrl.Current()
	if cur == nil || TrackID(cur.Path) != trackID {
		return nil
	}
	return c.seekTo(pos)
}

func (c *control) seekTo(pos time.Duration) error {
	f, ok := fraction(pos, c.ctrl.Duration())
	if !ok {
		return nil
	}
	return c.submit(playback.SeekToFraction(f))
}

func (c *control) Status() Status {
	st := c.ctrl.State()
	switch {
	case st.IsPlaying():
		return StatusPlaying
	case st.CurrentTrack.Known:
		return StatusPaused
	default:
		return StatusStopped
	}
}

func (c *control) CanGoNext() bool {
	i, ok := c.ctrl.State().CurrentTrack.Get()
	return ok && i < len(c.ctrl.Queue())-1
}

func (c *control) CanGoPrevious() bool {
	return len(c.ctrl.Queue()) > 0
}

func (c *control) CanPlay() bool {
	return c.ctrl.State().QueueLen > 0
}

// fraction converts pos into a fraction of duration, clamped to [0, 1].
// It reports false when the duration is unknown.
func fraction(pos, duration time.Duration) (float64, bool) {
	if duration <= 0 {
		return 0, false
	}
	f := float64(pos) / float64(duration)
	return min(max(f, 0), 1), true
}

// TrackID returns the MPRIS object path for the track at path.
func TrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/nightingale/Track/%x", h.Sum64())
}
